package orchestrator

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ShayCichocki/litmap/internal/specialist"
	"github.com/ShayCichocki/litmap/pkg/models"
)

// task is one specialist call for one request.
type task struct {
	info specialist.Descriptor
	// call is the human-readable invocation recorded as a TOOL_CALL step.
	call string
	run  func(ctx context.Context) (any, error)
}

type outcome struct {
	value any
	err   error
}

// fanOut runs every task under the worker limit and blocks until all of
// them have finished or timed out.
func (c *Conductor) fanOut(ctx context.Context, log *zap.Logger, r *run, tasks []task) {
	var g errgroup.Group
	g.SetLimit(c.maxWorkers)

	for _, t := range tasks {
		r.step(t.info.Agent, StepToolCall, t.call)
		g.Go(func() error {
			_ = c.runTask(ctx, log, r, t)
			return nil
		})
	}

	_ = g.Wait()
}

// runTask times one task and records its outcome. The task's error is
// returned for callers that surface it; fanOut drops it.
func (c *Conductor) runTask(ctx context.Context, log *zap.Logger, r *run, t task) error {
	start := time.Now()
	out := c.call(ctx, t.info.Agent, t.run)
	elapsed := time.Since(start).Milliseconds()

	entry := models.TimelineEntry{
		Agent:     t.info.Agent,
		Tool:      t.info.Tool,
		Status:    models.StatusSuccess,
		ElapsedMS: elapsed,
	}
	if out.err != nil {
		entry.Status = models.StatusError
		entry.Error = out.err.Error()
	}
	r.finish(entry, t.info.Slot, out.value)

	if out.err != nil {
		r.step(t.info.Agent, StepError, "Failed: "+out.err.Error())
		log.Warn("specialist failed",
			zap.String("agent", t.info.Agent),
			zap.String("tool", t.info.Tool),
			zap.Int64("elapsed_ms", elapsed),
			zap.Error(out.err))
		return out.err
	}

	r.step(t.info.Agent, StepResult, resultDetail(out.value))
	log.Debug("specialist succeeded",
		zap.String("agent", t.info.Agent),
		zap.String("tool", t.info.Tool),
		zap.Int64("elapsed_ms", elapsed))
	return nil
}

// call runs fn under the task deadline. A deadline breach becomes an
// UpstreamError and a panic becomes an ordinary error. fn must honour ctx
// for its goroutine to exit after a breach.
func (c *Conductor) call(ctx context.Context, agent string, fn func(context.Context) (any, error)) outcome {
	ctx, cancel := context.WithTimeout(ctx, c.taskTimeout)
	defer cancel()

	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- outcome{err: fmt.Errorf("%s panicked: %v", agent, p)}
			}
		}()
		v, err := fn(ctx)
		done <- outcome{value: v, err: err}
	}()

	select {
	case out := <-done:
		return out
	case <-ctx.Done():
		return outcome{err: &specialist.UpstreamError{
			Service: agent,
			Err:     fmt.Errorf("no result within %s: %w", c.taskTimeout, ctx.Err()),
		}}
	}
}
