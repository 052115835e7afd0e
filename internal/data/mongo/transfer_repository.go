package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/wrio-webgold/webgold/internal/domain/transfer"
)

// TransferCollectionName is the name of the pending transfer collection in MongoDB
const TransferCollectionName = "pending_transfers"

// transferDocument is the stored form of a pending transfer
type transferDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	UnsignedTx   string             `bson:"unsignedTX"`
	DestWrioID   string             `bson:"destWrioID"`
	DestWallet   string             `bson:"destWallet"`
	Amount       int64              `bson:"amount"`
	OriginWrioID string             `bson:"originWrioID"`
	OriginWallet string             `bson:"originWallet"`
	CreatedAt    time.Time          `bson:"created_at"`
}

func (d *transferDocument) toDomain() *transfer.PendingTransfer {
	return &transfer.PendingTransfer{
		ID:           d.ID.Hex(),
		UnsignedTx:   d.UnsignedTx,
		DestWrioID:   d.DestWrioID,
		DestWallet:   d.DestWallet,
		Amount:       d.Amount,
		OriginWrioID: d.OriginWrioID,
		OriginWallet: d.OriginWallet,
		CreatedAt:    d.CreatedAt,
	}
}

// TransferRepository implements transfer.Repository for MongoDB
type TransferRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

func NewTransferRepository(logger *slog.Logger, db *mongo.Database) transfer.Repository {
	return &TransferRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts the transfer and assigns it a fresh identifier
func (r *TransferRepository) Create(ctx context.Context, t *transfer.PendingTransfer) error {
	doc := transferDocument{
		ID:           primitive.NewObjectID(),
		UnsignedTx:   t.UnsignedTx,
		DestWrioID:   t.DestWrioID,
		DestWallet:   t.DestWallet,
		Amount:       t.Amount,
		OriginWrioID: t.OriginWrioID,
		OriginWallet: t.OriginWallet,
		CreatedAt:    t.CreatedAt.UTC(),
	}

	if _, err := r.db.Collection(TransferCollectionName).InsertOne(ctx, doc); err != nil {
		r.logger.Error("Failed to create pending transfer",
			"origin_wrio_id", t.OriginWrioID,
			"error", err)
		return fmt.Errorf("failed to create pending transfer: %w", err)
	}

	t.ID = doc.ID.Hex()
	return nil
}

// GetByID loads a transfer by its hexadecimal identifier
func (r *TransferRepository) GetByID(ctx context.Context, id string) (*transfer.PendingTransfer, error) {
	if err := transfer.ValidateID(id); err != nil {
		return nil, err
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, transfer.ErrInvalidID{ID: id, Details: []string{"id must be hexadecimal"}}
	}

	var doc transferDocument
	err = r.db.Collection(TransferCollectionName).FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, transfer.ErrTransferNotFound{ID: id}
		}
		r.logger.Error("Failed to get pending transfer", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get pending transfer: %w", err)
	}

	return doc.toDomain(), nil
}
