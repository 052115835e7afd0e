package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the repositories rely on. It is safe to run repeatedly.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	journalIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "mutation_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_mutation_id"),
		},
		{
			Keys:    bson.D{{Key: "kind", Value: 1}, {Key: "status", Value: 1}, {Key: "wrio_id", Value: 1}},
			Options: options.Index().SetName("kind_status_wrio"),
		},
		{
			Keys:    bson.D{{Key: "wrio_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("wrio_created"),
		},
	}

	if _, err := db.Collection(JournalCollectionName).Indexes().CreateMany(ctx, journalIndexes); err != nil {
		return fmt.Errorf("failed to create journal indexes: %w", err)
	}

	transferIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "originWrioID", Value: 1}, {Key: "created_at", Value: -1}},
		Options: options.Index().SetName("origin_created"),
	}
	if _, err := db.Collection(TransferCollectionName).Indexes().CreateOne(ctx, transferIndex); err != nil {
		return fmt.Errorf("failed to create transfer indexes: %w", err)
	}

	return nil
}
