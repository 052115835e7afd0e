package service

import (
	"strings"

	"github.com/wrio-webgold/webgold/internal/domain/shared"
)

// ErrRequestInProgress is returned when a request with the same idempotency key is still running
var ErrRequestInProgress = shared.ErrRequestInProgress

// ValidationError reports rejected input with per-field details
type ValidationError struct {
	Message string
	Details []string
}

func (e ValidationError) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Details, "; ")
}
