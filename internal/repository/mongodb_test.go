package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/m2tx/kinchat/internal/model"
)

func TestMongoExchangeRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("record", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		repo := NewMongoExchangeRepository(mt.DB, "")
		err := repo.Record(context.Background(), model.Exchange{
			ID:        "ex-1",
			Modality:  model.ModalityImage,
			Status:    200,
			CreatedAt: time.Now(),
		})
		require.NoError(t, err)
	})

	mt.Run("record failure is wrapped", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		repo := NewMongoExchangeRepository(mt.DB, "exchanges")
		err := repo.Record(context.Background(), model.Exchange{ID: "ex-1"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `insert exchange "ex-1"`)
		assert.True(t, mongo.IsDuplicateKeyError(err))
	})

	mt.Run("recent", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + mt.Coll.Name()
		first := mtest.CreateCursorResponse(1, ns, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "ex-2"}, {Key: "modality", Value: "audio"}, {Key: "status", Value: 500}, {Key: "error_kind", Value: "upstream"}},
			bson.D{{Key: "_id", Value: "ex-1"}, {Key: "modality", Value: "text"}, {Key: "status", Value: 200}},
		)
		last := mtest.CreateCursorResponse(0, ns, mtest.NextBatch)
		mt.AddMockResponses(first, last)

		repo := NewMongoExchangeRepository(mt.DB, mt.Coll.Name())
		got, err := repo.Recent(context.Background(), 2)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "ex-2", got[0].ID)
		assert.Equal(t, model.ModalityAudio, got[0].Modality)
		assert.Equal(t, 500, got[0].Status)
		assert.Equal(t, "upstream", got[0].ErrorKind)
		assert.Equal(t, model.ModalityText, got[1].Modality)
	})
}
