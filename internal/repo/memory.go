package repo

import (
	"context"
	"sort"
	"sync"

	errx "github.com/ecommerce-admin/server/internal/core/error"
	"github.com/ecommerce-admin/server/internal/model"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepository keeps collections in process memory. Documents are
// copied on the way in and out so callers never share state with the store.
type MemoryRepository struct {
	mu          sync.RWMutex
	collections map[string]map[primitive.ObjectID]model.Document
	now         Clock
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		collections: make(map[string]map[primitive.ObjectID]model.Document),
		now:         systemClock,
	}
}

func (r *MemoryRepository) Name() string { return "memory" }

func (r *MemoryRepository) List(ctx context.Context, collection string, filter model.Filter) ([]model.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	res := make([]model.Document, 0, len(r.collections[collection]))
	for _, doc := range r.collections[collection] {
		if matches(doc, filter) {
			res = append(res, cloneDocument(doc))
		}
	}
	sortNewestFirst(res)
	return res, nil
}

func (r *MemoryRepository) Get(ctx context.Context, collection, id string) (model.Document, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.collections[collection][oid]
	if !ok {
		return nil, errx.NotFound()
	}
	return cloneDocument(doc), nil
}

func (r *MemoryRepository) Create(ctx context.Context, collection string, data model.Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	doc := prepareCreate(data, r.now())

	r.mu.Lock()
	defer r.mu.Unlock()

	oid := r.insertLocked(collection, doc)
	return oid.Hex(), nil
}

func (r *MemoryRepository) insertLocked(collection string, doc model.Document) primitive.ObjectID {
	docs, ok := r.collections[collection]
	if !ok {
		docs = make(map[primitive.ObjectID]model.Document)
		r.collections[collection] = docs
	}
	oid := primitive.NewObjectID()
	doc[model.FieldID] = oid
	docs[oid] = doc
	return oid
}

func (r *MemoryRepository) Update(ctx context.Context, collection, id string, data model.Document) (bool, error) {
	oid, err := ParseID(id)
	if err != nil {
		return false, err
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	patch := prepareUpdate(data, r.now())

	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.collections[collection][oid]
	if !ok {
		return false, errx.NotFound()
	}
	r.collections[collection][oid] = merge(doc, patch)
	return true, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, collection, id string) error {
	oid, err := ParseID(id)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.collections[collection][oid]; !ok {
		return errx.NotFound()
	}
	delete(r.collections[collection], oid)
	return nil
}

func (r *MemoryRepository) FindOne(ctx context.Context, collection string) (model.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, doc := range r.collections[collection] {
		return cloneDocument(doc), nil
	}
	return nil, errx.NotFound()
}

func (r *MemoryRepository) Upsert(ctx context.Context, collection string, data model.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	now := r.now()
	patch := prepareUpdate(data, now)

	r.mu.Lock()
	defer r.mu.Unlock()

	for oid, doc := range r.collections[collection] {
		r.collections[collection][oid] = merge(doc, patch)
		return nil
	}
	patch[model.FieldCreatedAt] = now
	r.insertLocked(collection, patch)
	return nil
}

func (r *MemoryRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (r *MemoryRepository) CollectionNames(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.collections))
	for name := range r.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

var _ model.Repository = (*MemoryRepository)(nil)
