package repo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	errx "github.com/ecommerce-admin/server/internal/core/error"
	"github.com/ecommerce-admin/server/internal/model"
	pkgmongo "github.com/ecommerce-admin/server/pkg/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoRepositoryContract(t *testing.T) {
	url := os.Getenv("TEST_MONGO_URL")
	if url == "" {
		t.Skip("TEST_MONGO_URL not set")
	}
	ctx := context.Background()

	cfg := pkgmongo.Config{
		URL:              url,
		Name:             fmt.Sprintf("shopadmin_test_%d", time.Now().UnixNano()),
		ConnectTimeout:   5,
		OperationTimeout: 5,
	}
	client, db, err := cfg.New(ctx)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := cfg.Ping(ctx, client); err != nil {
		t.Skipf("mongo not reachable: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})

	repo := NewMongoRepository(db)
	if repo.DatabaseName() != cfg.Name {
		t.Fatalf("expected database %s got %s", cfg.Name, repo.DatabaseName())
	}
	runRepositoryContract(t, repo, "")
}

func TestMongoRepositoryMockDeployment(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	known := primitive.NewObjectID()

	mt.Run("invalid id fails before any command", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.DB)
		if _, err := repo.Get(ctx, "product", "not-hex"); !errors.Is(err, errx.ErrInvalidID) {
			mt.Fatalf("expected invalid id on get got %v", err)
		}
		if _, err := repo.Update(ctx, "product", "123", model.Document{"title": "x"}); !errors.Is(err, errx.ErrInvalidID) {
			mt.Fatalf("expected invalid id on update got %v", err)
		}
		if err := repo.Delete(ctx, "product", "zzzzzzzzzzzzzzzzzzzzzzzz"); !errors.Is(err, errx.ErrInvalidID) {
			mt.Fatalf("expected invalid id on delete got %v", err)
		}
		if evt := mt.GetStartedEvent(); evt != nil {
			mt.Fatalf("expected no command sent got %s", evt.CommandName)
		}
	})

	mt.Run("get decodes the stored document", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.DB)
		at := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "shop.product", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: known},
			{Key: "title", Value: "Pen"},
			{Key: "price", Value: 1.5},
			{Key: "created_at", Value: primitive.NewDateTimeFromTime(at)},
		}))
		doc, err := repo.Get(ctx, "product", known.Hex())
		if err != nil {
			mt.Fatalf("get: %v", err)
		}
		if doc[model.FieldID] != known || doc["title"] != "Pen" || doc["price"] != 1.5 {
			mt.Fatalf("unexpected document %v", doc)
		}
		if created, _ := doc[model.FieldCreatedAt].(time.Time); !created.Equal(at) {
			mt.Fatalf("expected created_at %v got %v", at, doc[model.FieldCreatedAt])
		}
	})

	mt.Run("get of missing id is not found", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "shop.product", mtest.FirstBatch))
		if _, err := repo.Get(ctx, "product", known.Hex()); !errors.Is(err, errx.ErrNotFound) {
			mt.Fatalf("expected not found got %v", err)
		}
	})

	mt.Run("update with no match is not found", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))
		ok, err := repo.Update(ctx, "product", known.Hex(), model.Document{"price": 2.0})
		if ok || !errors.Is(err, errx.ErrNotFound) {
			mt.Fatalf("expected not found got %v / %v", ok, err)
		}
	})

	mt.Run("update with a match succeeds", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))
		ok, err := repo.Update(ctx, "product", known.Hex(), model.Document{"price": 2.0})
		if !ok || err != nil {
			mt.Fatalf("expected success got %v / %v", ok, err)
		}
		evt := mt.GetStartedEvent()
		if evt == nil || evt.CommandName != "update" {
			mt.Fatalf("expected update command got %v", evt)
		}
	})

	mt.Run("delete with no match is not found", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))
		if err := repo.Delete(ctx, "product", known.Hex()); !errors.Is(err, errx.ErrNotFound) {
			mt.Fatalf("expected not found got %v", err)
		}
	})

	mt.Run("delete with a match succeeds", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))
		if err := repo.Delete(ctx, "product", known.Hex()); err != nil {
			mt.Fatalf("delete: %v", err)
		}
	})

	mt.Run("create returns the generated id", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		id, err := repo.Create(ctx, "product", model.Document{"title": "Pen"})
		if err != nil {
			mt.Fatalf("create: %v", err)
		}
		if _, err := primitive.ObjectIDFromHex(id); err != nil {
			mt.Fatalf("expected 24-hex id got %q", id)
		}
	})

	mt.Run("server errors surface as store failures", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Name:    "BadValue",
			Message: "bad value",
		}))
		err := repo.Delete(ctx, "product", known.Hex())
		if err == nil || errx.From(err).Status != http.StatusBadGateway {
			mt.Fatalf("expected store failure got %v", err)
		}
	})

	mt.Run("database name is reported", func(mt *mtest.T) {
		if got := NewMongoRepository(mt.DB).DatabaseName(); got != mt.DB.Name() {
			mt.Fatalf("expected %s got %s", mt.DB.Name(), got)
		}
	})
}
