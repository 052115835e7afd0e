package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wrio-webgold/webgold/internal/domain/etherfeed"
)

func TestEtherFeedRepository_Append(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &EtherFeedRepository{querier: mock, logger: newTestLogger()}
	query := regexp.QuoteMeta(appendFeedQuery)

	ev, err := etherfeed.NewEvent("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", 500, time.Now())
	require.NoError(t, err)
	ev.MutationID = uuid.New()

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(ev.MutationID, ev.EthAccount, ev.Amount, ev.FedAt).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)))

		require.NoError(t, repo.Append(ctx, ev))
		assert.Equal(t, int64(1), ev.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate mutation", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(ev.MutationID, ev.EthAccount, ev.Amount, ev.FedAt).
			WillReturnError(&pgconn.PgError{Code: "23505"})

		err := repo.Append(ctx, ev)
		assert.ErrorAs(t, err, &etherfeed.ErrDuplicateFeed{})
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		dbErr := errors.New("disk full")
		mock.ExpectQuery(query).
			WithArgs(ev.MutationID, ev.EthAccount, ev.Amount, ev.FedAt).
			WillReturnError(dbErr)

		err := repo.Append(ctx, ev)
		assert.ErrorIs(t, err, dbErr)
		assert.ErrorContains(t, err, "failed to append ether feed")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEtherFeedRepository_List(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &EtherFeedRepository{querier: mock, logger: newTestLogger()}
	query := regexp.QuoteMeta(listFeedsQuery)

	t.Run("returns rows verbatim in query order", func(t *testing.T) {
		base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
		newer := &etherfeed.Event{ID: 2, MutationID: uuid.New(), EthAccount: "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", Amount: 700, FedAt: base.Add(time.Hour)}
		older := &etherfeed.Event{ID: 1, MutationID: uuid.New(), EthAccount: "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", Amount: 500, FedAt: base}

		rows := pgxmock.NewRows([]string{"id", "mutation_id", "eth_account", "amount", "fed_at"}).
			AddRow(newer.ID, newer.MutationID, newer.EthAccount, newer.Amount, newer.FedAt).
			AddRow(older.ID, older.MutationID, older.EthAccount, older.Amount, older.FedAt)
		mock.ExpectQuery(query).WillReturnRows(rows)

		events, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []*etherfeed.Event{newer, older}, events)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty", func(t *testing.T) {
		mock.ExpectQuery(query).WillReturnRows(pgxmock.NewRows([]string{"id", "mutation_id", "eth_account", "amount", "fed_at"}))

		events, err := repo.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, events)
		assert.Empty(t, events)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		mock.ExpectQuery(query).WillReturnError(errors.New("boom"))

		_, err := repo.List(ctx)
		assert.ErrorContains(t, err, "failed to list ether feeds")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
