package specialist

import (
	"errors"
	"fmt"
)

// ErrEmptyQuery is returned by the librarian for a blank query.
var ErrEmptyQuery = errors.New("search query must not be empty")

// NotFoundError reports a key that has no curated entry.
type NotFoundError struct {
	Kind string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("unknown %s: %s", e.Kind, e.Key)
}

// UpstreamError wraps a failure of an external service, including a
// deadline breach while waiting for one.
type UpstreamError struct {
	Service string
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Service, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
