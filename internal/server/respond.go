package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ShayCichocki/litmap/internal/locations"
	"github.com/ShayCichocki/litmap/internal/orchestrator"
	"github.com/ShayCichocki/litmap/internal/specialist"
)

// errBadJSON is reported for bodies that do not decode.
var errBadJSON = errors.New("invalid JSON")

// requestError is a transport-level validation failure.
type requestError struct {
	status int
	msg    string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &requestError{status: http.StatusBadRequest, msg: fmt.Sprintf(format, args...)}
}

// statusFor maps a domain error onto an HTTP status.
func statusFor(err error) int {
	var (
		reqErr     *requestError
		validation *orchestrator.ValidationError
		notFound   *specialist.NotFoundError
		upstream   *specialist.UpstreamError
		tooLarge   *http.MaxBytesError
	)
	switch {
	case errors.As(err, &reqErr):
		return reqErr.status
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &validation),
		errors.Is(err, errBadJSON),
		errors.Is(err, specialist.ErrEmptyQuery),
		errors.Is(err, locations.ErrEmptyTitle),
		errors.Is(err, locations.ErrNoText),
		errors.Is(err, locations.ErrUnsupportedMedia):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &upstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Sugar().Warnw("request failed", "path", r.URL.Path, "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// decode reads a bounded JSON body into v.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, DefaultMaxBodyBytes)
	defer body.Close()

	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", errBadJSON)
		}
		return fmt.Errorf("%w: %v", errBadJSON, err)
	}
	return nil
}

// parseLimit validates an optional book-search limit.
func parseLimit(raw json.RawMessage) (int, error) {
	if len(raw) == 0 {
		return orchestrator.DefaultSearchLimit, nil
	}
	var n int
	if strings.TrimSpace(string(raw)) == "null" || json.Unmarshal(raw, &n) != nil {
		return 0, badRequest("limit must be an integer")
	}
	return checkLimit(n)
}

func checkLimit(n int) (int, error) {
	switch {
	case n < 1:
		return 0, badRequest("limit must be at least 1")
	case n > 100:
		return 0, badRequest("limit must not exceed 100")
	}
	return n, nil
}
