package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	errx "github.com/ecommerce-admin/server/internal/core/error"
	"github.com/ecommerce-admin/server/internal/model"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// runRepositoryContract exercises the behaviour every backend must share.
// Each subtest uses its own collection so backends need no cleanup between them.
func runRepositoryContract(t *testing.T, repo model.Repository, collectionPrefix string) {
	t.Helper()
	ctx := context.Background()
	coll := func(name string) string { return collectionPrefix + name }

	t.Run("create then get round-trips fields", func(t *testing.T) {
		c := coll("roundtrip")
		id, err := repo.Create(ctx, c, model.Document{
			"title":    "Pen",
			"price":    1.5,
			"category": "stationery",
			"in_stock": true,
			"sku":      nil,
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if _, err := primitive.ObjectIDFromHex(id); err != nil {
			t.Fatalf("expected 24-hex id got %q", id)
		}

		doc, err := repo.Get(ctx, c, id)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if doc["title"] != "Pen" || doc["price"] != 1.5 || doc["category"] != "stationery" || doc["in_stock"] != true {
			t.Fatalf("unexpected document %v", doc)
		}
		if v, ok := doc["sku"]; !ok || v != nil {
			t.Fatalf("expected explicit null sku got %v (present=%v)", v, ok)
		}
		oid, ok := doc[model.FieldID].(primitive.ObjectID)
		if !ok || oid.Hex() != id {
			t.Fatalf("expected _id %s got %v", id, doc[model.FieldID])
		}
		created, _ := doc[model.FieldCreatedAt].(time.Time)
		updated, _ := doc[model.FieldUpdatedAt].(time.Time)
		if created.IsZero() || !created.Equal(updated) {
			t.Fatalf("expected equal non-zero timestamps got %v / %v", created, updated)
		}
	})

	t.Run("create keeps supplied timestamps", func(t *testing.T) {
		c := coll("stamps")
		at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		id, err := repo.Create(ctx, c, model.Document{"name": "x", model.FieldCreatedAt: at})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		doc, err := repo.Get(ctx, c, id)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got, _ := doc[model.FieldCreatedAt].(time.Time); !got.Equal(at) {
			t.Fatalf("expected created_at %v got %v", at, got)
		}
	})

	t.Run("list is newest first and filters", func(t *testing.T) {
		c := coll("list")
		var ids []string
		for _, name := range []string{"a", "b", "c"} {
			id, err := repo.Create(ctx, c, model.Document{"name": name, "is_active": name != "b"})
			if err != nil {
				t.Fatalf("create %s: %v", name, err)
			}
			ids = append(ids, id)
		}

		docs, err := repo.List(ctx, c, nil)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(docs) != 3 {
			t.Fatalf("expected 3 documents got %d", len(docs))
		}
		for i, want := range []string{ids[2], ids[1], ids[0]} {
			if got := docs[i][model.FieldID].(primitive.ObjectID).Hex(); got != want {
				t.Fatalf("position %d: expected %s got %s", i, want, got)
			}
		}

		active, err := repo.List(ctx, c, model.Filter{"is_active": true})
		if err != nil {
			t.Fatalf("filtered list: %v", err)
		}
		if len(active) != 2 || active[0]["name"] != "c" || active[1]["name"] != "a" {
			t.Fatalf("unexpected filtered result %v", active)
		}

		empty, err := repo.List(ctx, coll("never-written"), model.Filter{})
		if err != nil {
			t.Fatalf("list empty collection: %v", err)
		}
		if len(empty) != 0 {
			t.Fatalf("expected no documents got %d", len(empty))
		}
	})

	t.Run("update merges partially and refreshes updated_at", func(t *testing.T) {
		c := coll("update")
		id, err := repo.Create(ctx, c, model.Document{"title": "Post", "content": "body", "is_published": false})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		before, _ := repo.Get(ctx, c, id)

		ok, err := repo.Update(ctx, c, id, model.Document{"is_published": true, model.FieldID: "ignored"})
		if err != nil || !ok {
			t.Fatalf("update: ok=%v err=%v", ok, err)
		}
		after, err := repo.Get(ctx, c, id)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if after["is_published"] != true || after["title"] != "Post" || after["content"] != "body" {
			t.Fatalf("expected partial merge got %v", after)
		}
		if after[model.FieldID].(primitive.ObjectID).Hex() != id {
			t.Fatalf("expected identifier to stay %s", id)
		}
		if !after[model.FieldCreatedAt].(time.Time).Equal(before[model.FieldCreatedAt].(time.Time)) {
			t.Fatalf("expected created_at unchanged")
		}
		if after[model.FieldUpdatedAt].(time.Time).Before(before[model.FieldUpdatedAt].(time.Time)) {
			t.Fatalf("expected updated_at to move forward")
		}
	})

	t.Run("invalid ids are rejected", func(t *testing.T) {
		c := coll("invalid")
		if _, err := repo.Get(ctx, c, "not-an-id"); !errors.Is(err, errx.ErrInvalidID) {
			t.Fatalf("get: expected invalid id got %v", err)
		}
		if _, err := repo.Update(ctx, c, "123", model.Document{"x": 1}); !errors.Is(err, errx.ErrInvalidID) {
			t.Fatalf("update: expected invalid id got %v", err)
		}
		if err := repo.Delete(ctx, c, "zzzzzzzzzzzzzzzzzzzzzzzz"); !errors.Is(err, errx.ErrInvalidID) {
			t.Fatalf("delete: expected invalid id got %v", err)
		}
	})

	t.Run("unknown ids are not found", func(t *testing.T) {
		c := coll("missing")
		id := primitive.NewObjectID().Hex()
		if _, err := repo.Get(ctx, c, id); !errors.Is(err, errx.ErrNotFound) {
			t.Fatalf("get: expected not found got %v", err)
		}
		if _, err := repo.Update(ctx, c, id, model.Document{"x": 1}); !errors.Is(err, errx.ErrNotFound) {
			t.Fatalf("update: expected not found got %v", err)
		}
		if err := repo.Delete(ctx, c, id); !errors.Is(err, errx.ErrNotFound) {
			t.Fatalf("delete: expected not found got %v", err)
		}
	})

	t.Run("delete removes the document", func(t *testing.T) {
		c := coll("delete")
		id, err := repo.Create(ctx, c, model.Document{"name": "gone"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if err := repo.Delete(ctx, c, id); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if _, err := repo.Get(ctx, c, id); !errors.Is(err, errx.ErrNotFound) {
			t.Fatalf("expected not found after delete got %v", err)
		}
		if err := repo.Delete(ctx, c, id); !errors.Is(err, errx.ErrNotFound) {
			t.Fatalf("expected second delete to be not found got %v", err)
		}
	})

	t.Run("singleton upsert keeps one document", func(t *testing.T) {
		c := coll("singleton")
		if _, err := repo.FindOne(ctx, c); !errors.Is(err, errx.ErrNotFound) {
			t.Fatalf("expected empty singleton to be not found got %v", err)
		}
		first := model.Document{"global_sale_active": true, "global_discount_percent": 10.0}
		if err := repo.Upsert(ctx, c, first); err != nil {
			t.Fatalf("first upsert: %v", err)
		}
		second := model.Document{"global_sale_active": false, "global_discount_percent": 25.0}
		if err := repo.Upsert(ctx, c, second); err != nil {
			t.Fatalf("second upsert: %v", err)
		}

		docs, err := repo.List(ctx, c, nil)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(docs) != 1 {
			t.Fatalf("expected exactly one document got %d", len(docs))
		}
		doc, err := repo.FindOne(ctx, c)
		if err != nil {
			t.Fatalf("find one: %v", err)
		}
		if doc["global_sale_active"] != false || doc["global_discount_percent"] != 25.0 {
			t.Fatalf("expected second values to win got %v", doc)
		}
		if _, ok := doc[model.FieldCreatedAt].(time.Time); !ok {
			t.Fatalf("expected created_at on inserted singleton got %v", doc[model.FieldCreatedAt])
		}
	})

	t.Run("diagnostics", func(t *testing.T) {
		if _, err := repo.Create(ctx, coll("diag"), model.Document{"name": "x"}); err != nil {
			t.Fatalf("create: %v", err)
		}
		if err := repo.Ping(ctx); err != nil {
			t.Fatalf("ping: %v", err)
		}
		names, err := repo.CollectionNames(ctx)
		if err != nil {
			t.Fatalf("collection names: %v", err)
		}
		found := false
		for _, name := range names {
			if name == coll("diag") {
				found = true
			}
		}
		if !found {
			t.Fatalf("expected %s in %v", coll("diag"), names)
		}
	})
}
