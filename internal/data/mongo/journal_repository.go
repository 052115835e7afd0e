package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wrio-webgold/webgold/internal/domain/journal"
	"github.com/wrio-webgold/webgold/internal/domain/shared"
)

const (
	// JournalCollectionName is the name of the mutation journal collection in MongoDB
	JournalCollectionName = "ledger_journal"
)

// JournalRepository implements the journal.Repository interface for MongoDB
type JournalRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewJournalRepository creates a new MongoDB journal repository
func NewJournalRepository(logger *slog.Logger, db *mongo.Database) journal.Repository {
	return &JournalRepository{
		db:     db,
		logger: logger,
	}
}

// Create stores a journal record. The unique index on mutation_id turns a second
// insert for the same mutation into ErrDuplicateRecord.
func (r *JournalRepository) Create(ctx context.Context, record *journal.Record) error {
	collection := r.db.Collection(JournalCollectionName)

	_, err := collection.InsertOne(ctx, record)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return journal.ErrDuplicateRecord{MutationID: record.MutationID}
		}
		r.logger.Error("Failed to create journal record",
			"mutation_id", record.MutationID.String(),
			"error", err)
		return fmt.Errorf("failed to create journal record: %w", err)
	}

	return nil
}

// GetByMutationID retrieves the journal record of a mutation
func (r *JournalRepository) GetByMutationID(ctx context.Context, mutationID uuid.UUID) (*journal.Record, error) {
	collection := r.db.Collection(JournalCollectionName)

	var record journal.Record
	err := collection.FindOne(ctx, bson.M{"mutation_id": mutationID}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, journal.ErrRecordNotFound{MutationID: mutationID}
		}
		r.logger.Error("Failed to get journal record",
			"mutation_id", mutationID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get journal record: %w", err)
	}

	return &record, nil
}

// UpdateStatus sets the status, failure reason and processed timestamp of a record
func (r *JournalRepository) UpdateStatus(ctx context.Context, mutationID uuid.UUID, status shared.MutationStatus, reason string) error {
	collection := r.db.Collection(JournalCollectionName)

	update := bson.M{
		"$set": bson.M{
			"status":         status,
			"failure_reason": reason,
			"processed_at":   time.Now().UTC(),
		},
	}

	result, err := collection.UpdateOne(ctx, bson.M{"mutation_id": mutationID}, update)
	if err != nil {
		r.logger.Error("Failed to update journal record status",
			"mutation_id", mutationID.String(),
			"status", string(status),
			"error", err)
		return fmt.Errorf("failed to update journal record status: %w", err)
	}

	if result.MatchedCount == 0 {
		return journal.ErrRecordNotFound{MutationID: mutationID}
	}

	return nil
}

// DistinctWrioIDsByKind returns the sorted WRIO IDs having a completed mutation of the kind
func (r *JournalRepository) DistinctWrioIDsByKind(ctx context.Context, kind shared.MutationKind) ([]string, error) {
	collection := r.db.Collection(JournalCollectionName)

	filter := bson.M{"kind": kind, "status": shared.MutationStatusCompleted}
	values, err := collection.Distinct(ctx, "wrio_id", filter)
	if err != nil {
		r.logger.Error("Failed to list accounts by mutation kind", "kind", string(kind), "error", err)
		return nil, fmt.Errorf("failed to list accounts by mutation kind: %w", err)
	}

	ids := make([]string, 0, len(values))
	for _, v := range values {
		if id, ok := v.(string); ok && id != "" {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	return ids, nil
}

// ListByWrioID returns the journal of one account, newest first
func (r *JournalRepository) ListByWrioID(ctx context.Context, wrioID string, limit, offset int) ([]*journal.Record, error) {
	collection := r.db.Collection(JournalCollectionName)

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, bson.M{"wrio_id": wrioID}, opts)
	if err != nil {
		r.logger.Error("Failed to get journal records", "wrio_id", wrioID, "error", err)
		return nil, fmt.Errorf("failed to get journal records: %w", err)
	}
	defer cursor.Close(ctx)

	records := make([]*journal.Record, 0)
	if err := cursor.All(ctx, &records); err != nil {
		r.logger.Error("Failed to decode journal records", "wrio_id", wrioID, "error", err)
		return nil, fmt.Errorf("failed to decode journal records: %w", err)
	}

	return records, nil
}
