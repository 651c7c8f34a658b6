package action

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConcurrencyConflict is returned when the storage layer reports a
// serialization failure. The caller may retry the whole action once;
// the coordinator never retries internally, so a retried action can
// never double-apply side effects.
var ErrConcurrencyConflict = errors.New("concurrent modification, retry the action")

// NotFoundError reports a missing entity
type NotFoundError struct {
	Entity string
	ID     int64
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// IsNotFound reports whether err is a NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// isSerializationFailure recognises a serializable-transaction commit
// conflict (SQLSTATE 40001 on PostgreSQL)
func isSerializationFailure(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "40001") || strings.Contains(msg, "could not serialize")
}
