package journal

import (
	"context"

	"github.com/google/uuid"
	"github.com/wrio-webgold/webgold/internal/domain/shared"
)

// Repository manages journal record persistence
type Repository interface {
	Create(ctx context.Context, record *Record) error
	GetByMutationID(ctx context.Context, mutationID uuid.UUID) (*Record, error)
	UpdateStatus(ctx context.Context, mutationID uuid.UUID, status shared.MutationStatus, reason string) error

	// DistinctWrioIDsByKind lists the accounts with at least one completed mutation of the kind
	DistinctWrioIDsByKind(ctx context.Context, kind shared.MutationKind) ([]string, error)
	ListByWrioID(ctx context.Context, wrioID string, limit, offset int) ([]*Record, error)
}

// ErrRecordNotFound indicates missing journal record
type ErrRecordNotFound struct {
	MutationID uuid.UUID
}

func (e ErrRecordNotFound) Error() string {
	return "journal record not found: " + e.MutationID.String()
}

// Is implements the errors.Is interface for ErrRecordNotFound
func (e ErrRecordNotFound) Is(target error) bool {
	t, ok := target.(ErrRecordNotFound)
	if !ok {
		return false
	}
	// If the target MutationID is empty, consider it a match for any ErrRecordNotFound
	if t.MutationID == uuid.Nil {
		return true
	}
	return e.MutationID == t.MutationID
}

// ErrDuplicateRecord indicates mutation uniqueness violation
type ErrDuplicateRecord struct {
	MutationID uuid.UUID
}

func (e ErrDuplicateRecord) Error() string {
	return "duplicate journal record: " + e.MutationID.String()
}

// Is implements the errors.Is interface for ErrDuplicateRecord
func (e ErrDuplicateRecord) Is(target error) bool {
	t, ok := target.(ErrDuplicateRecord)
	if !ok {
		return false
	}
	if t.MutationID == uuid.Nil {
		return true
	}
	return e.MutationID == t.MutationID
}
