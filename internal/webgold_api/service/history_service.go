package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wrio-webgold/webgold/internal/domain/journal"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// HistoryServiceImpl implements the HistoryService interface
type HistoryServiceImpl struct {
	journalRepo journal.Repository
	logger      *slog.Logger
}

func NewHistoryService(logger *slog.Logger, journalRepo journal.Repository) HistoryService {
	return &HistoryServiceImpl{
		journalRepo: journalRepo,
		logger:      logger,
	}
}

// ListTransactions returns one page of the account's journal, newest first.
// A zero limit selects DefaultHistoryLimit.
func (s *HistoryServiceImpl) ListTransactions(ctx context.Context, wrioID string, limit, offset int) ([]*journal.Record, error) {
	if limit == 0 {
		limit = DefaultHistoryLimit
	}

	var details []string
	if limit < 0 || limit > MaxHistoryLimit {
		details = append(details, fmt.Sprintf("limit must be between 1 and %d", MaxHistoryLimit))
	}
	if offset < 0 {
		details = append(details, "offset must not be negative")
	}
	if len(details) > 0 {
		return nil, ValidationError{Message: "Invalid pagination", Details: details}
	}

	records, err := s.journalRepo.ListByWrioID(ctx, wrioID, limit, offset)
	if err != nil {
		s.logger.Error("Failed to list transactions", "wrio_id", wrioID, "error", err)
		return nil, err
	}
	if records == nil {
		records = []*journal.Record{}
	}
	return records, nil
}
