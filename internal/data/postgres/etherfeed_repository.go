package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/wrio-webgold/webgold/internal/domain/etherfeed"
	"github.com/wrio-webgold/webgold/internal/platform/persistence"
)

const (
	appendFeedQuery = `INSERT INTO ether_feeds (mutation_id, eth_account, amount, fed_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	listFeedsQuery = `SELECT id, mutation_id, eth_account, amount, fed_at FROM ether_feeds
		ORDER BY fed_at DESC, id DESC`
)

// EtherFeedRepository implements the append-only etherfeed.Repository for PostgreSQL
type EtherFeedRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

func NewEtherFeedRepository(logger *slog.Logger, db *persistence.PostgresDB) etherfeed.Repository {
	return &EtherFeedRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

func (r *EtherFeedRepository) WithTx(tx pgx.Tx) etherfeed.Repository {
	return &EtherFeedRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Append inserts the event and sets its generated ID
func (r *EtherFeedRepository) Append(ctx context.Context, event *etherfeed.Event) error {
	err := r.querier.QueryRow(ctx, appendFeedQuery,
		event.MutationID,
		event.EthAccount,
		event.Amount,
		event.FedAt,
	).Scan(&event.ID)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return etherfeed.ErrDuplicateFeed{MutationID: event.MutationID}
		}
		r.logger.Error("Failed to append ether feed",
			"mutation_id", event.MutationID.String(),
			"eth_account", event.EthAccount,
			"error", err,
		)
		return fmt.Errorf("failed to append ether feed: %w", err)
	}

	return nil
}

// List returns all feed events, newest first
func (r *EtherFeedRepository) List(ctx context.Context) ([]*etherfeed.Event, error) {
	rows, err := r.querier.Query(ctx, listFeedsQuery)
	if err != nil {
		r.logger.Error("Failed to list ether feeds", "error", err)
		return nil, fmt.Errorf("failed to list ether feeds: %w", err)
	}
	defer rows.Close()

	events := make([]*etherfeed.Event, 0)
	for rows.Next() {
		var ev etherfeed.Event
		if err := rows.Scan(&ev.ID, &ev.MutationID, &ev.EthAccount, &ev.Amount, &ev.FedAt); err != nil {
			r.logger.Error("Failed to scan ether feed", "error", err)
			return nil, fmt.Errorf("failed to scan ether feed: %w", err)
		}
		events = append(events, &ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over ether feeds: %w", err)
	}

	return events, nil
}
