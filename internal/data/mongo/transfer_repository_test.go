package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/wrio-webgold/webgold/internal/domain/transfer"
)

func TestTransferRepository_Create(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("assigns id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewTransferRepository(newTestLogger(), mt.DB)

		pending := &transfer.PendingTransfer{
			UnsignedTx:   "0xf86c",
			DestWrioID:   "U2",
			DestWallet:   "0x8617E340B3D01FA5F11F306F4090FD50E238070D",
			Amount:       1500,
			OriginWrioID: "U1",
			OriginWallet: "0x52908400098527886E0F7030069857D2E4169EE7",
			CreatedAt:    time.Now(),
		}

		err := repo.Create(context.Background(), pending)
		require.NoError(mt, err)
		assert.NoError(mt, transfer.ValidateID(pending.ID))
	})

	mt.Run("insert failure", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 1, Message: "boom"}))
		repo := NewTransferRepository(newTestLogger(), mt.DB)

		pending := &transfer.PendingTransfer{OriginWrioID: "U1"}
		err := repo.Create(context.Background(), pending)
		require.Error(mt, err)
		assert.Contains(mt, err.Error(), "failed to create pending transfer")
		assert.Empty(mt, pending.ID)
	})
}

func TestTransferRepository_GetByID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ns := "webgold." + TransferCollectionName

	mt.Run("found", func(mt *mtest.T) {
		oid := primitive.NewObjectID()
		createdAt := time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: oid},
			{Key: "unsignedTX", Value: "0xf86c"},
			{Key: "destWrioID", Value: "U2"},
			{Key: "destWallet", Value: "0x8617E340B3D01FA5F11F306F4090FD50E238070D"},
			{Key: "amount", Value: int64(1500)},
			{Key: "originWrioID", Value: "U1"},
			{Key: "originWallet", Value: "0x52908400098527886E0F7030069857D2E4169EE7"},
			{Key: "created_at", Value: primitive.NewDateTimeFromTime(createdAt)},
		}))
		repo := NewTransferRepository(newTestLogger(), mt.DB)

		got, err := repo.GetByID(context.Background(), oid.Hex())
		require.NoError(mt, err)
		assert.Equal(mt, oid.Hex(), got.ID)
		assert.Equal(mt, "0xf86c", got.UnsignedTx)
		assert.Equal(mt, int64(1500), got.Amount)
		assert.Equal(mt, "U1", got.OriginWrioID)
		assert.True(mt, createdAt.Equal(got.CreatedAt))
	})

	mt.Run("not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))
		repo := NewTransferRepository(newTestLogger(), mt.DB)

		id := primitive.NewObjectID().Hex()
		got, err := repo.GetByID(context.Background(), id)
		assert.Nil(mt, got)
		assert.ErrorIs(mt, err, transfer.ErrTransferNotFound{ID: id})
	})

	mt.Run("malformed id", func(mt *mtest.T) {
		repo := NewTransferRepository(newTestLogger(), mt.DB)

		got, err := repo.GetByID(context.Background(), "not-an-id")
		assert.Nil(mt, got)
		var invalid transfer.ErrInvalidID
		require.ErrorAs(mt, err, &invalid)
		assert.Contains(mt, invalid.Details, "id must be hexadecimal")
	})
}
