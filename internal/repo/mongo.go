package repo

import (
	"context"
	"sort"

	errx "github.com/ecommerce-admin/server/internal/core/error"
	"github.com/ecommerce-admin/server/internal/model"
	logx "github.com/ecommerce-admin/server/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type MongoRepository struct {
	db  *mongo.Database
	now Clock
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{db: db, now: systemClock}
}

func (r *MongoRepository) Name() string { return "mongo" }

func (r *MongoRepository) List(ctx context.Context, collection string, filter model.Filter) ([]model.Document, error) {
	query := bson.M{}
	for key, value := range filter {
		query[key] = value
	}
	if raw, ok := query[model.FieldID].(string); ok {
		oid, err := ParseID(raw)
		if err != nil {
			return nil, err
		}
		query[model.FieldID] = oid
	}

	opts := options.Find().SetSort(bson.D{{Key: model.FieldID, Value: -1}})
	cur, err := r.db.Collection(collection).Find(ctx, query, opts)
	if err != nil {
		logx.Error().Err(err).Str("collection", collection).Msg("failed to list documents")
		return nil, errx.WrapMongo(err)
	}
	defer cur.Close(ctx)

	var rows []bson.M
	if err := cur.All(ctx, &rows); err != nil {
		logx.Error().Err(err).Str("collection", collection).Msg("failed to decode documents")
		return nil, errx.WrapMongo(err)
	}

	docs := make([]model.Document, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, fromBSON(row))
	}
	return docs, nil
}

func (r *MongoRepository) Get(ctx context.Context, collection, id string) (model.Document, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}

	var row bson.M
	err = r.db.Collection(collection).FindOne(ctx, bson.M{model.FieldID: oid}).Decode(&row)
	if err != nil {
		if err != mongo.ErrNoDocuments {
			logx.Error().Err(err).Str("collection", collection).Str("id", id).Msg("failed to load document")
		}
		return nil, errx.WrapMongo(err)
	}
	return fromBSON(row), nil
}

func (r *MongoRepository) Create(ctx context.Context, collection string, data model.Document) (string, error) {
	doc := prepareCreate(data, r.now())

	res, err := r.db.Collection(collection).InsertOne(ctx, toBSON(doc))
	if err != nil {
		logx.Error().Err(err).Str("collection", collection).Msg("failed to insert document")
		return "", errx.WrapMongo(err)
	}
	return idString(res.InsertedID), nil
}

func (r *MongoRepository) Update(ctx context.Context, collection, id string, data model.Document) (bool, error) {
	oid, err := ParseID(id)
	if err != nil {
		return false, err
	}
	patch := prepareUpdate(data, r.now())

	res, err := r.db.Collection(collection).UpdateOne(ctx, bson.M{model.FieldID: oid}, bson.M{"$set": toBSON(patch)})
	if err != nil {
		logx.Error().Err(err).Str("collection", collection).Str("id", id).Msg("failed to update document")
		return false, errx.WrapMongo(err)
	}
	if res.MatchedCount == 0 {
		return false, errx.NotFound()
	}
	return true, nil
}

func (r *MongoRepository) Delete(ctx context.Context, collection, id string) error {
	oid, err := ParseID(id)
	if err != nil {
		return err
	}

	res, err := r.db.Collection(collection).DeleteOne(ctx, bson.M{model.FieldID: oid})
	if err != nil {
		logx.Error().Err(err).Str("collection", collection).Str("id", id).Msg("failed to delete document")
		return errx.WrapMongo(err)
	}
	if res.DeletedCount == 0 {
		return errx.NotFound()
	}
	return nil
}

func (r *MongoRepository) FindOne(ctx context.Context, collection string) (model.Document, error) {
	var row bson.M
	if err := r.db.Collection(collection).FindOne(ctx, bson.M{}).Decode(&row); err != nil {
		if err != mongo.ErrNoDocuments {
			logx.Error().Err(err).Str("collection", collection).Msg("failed to load singleton document")
		}
		return nil, errx.WrapMongo(err)
	}
	return fromBSON(row), nil
}

func (r *MongoRepository) Upsert(ctx context.Context, collection string, data model.Document) error {
	now := r.now()
	patch := prepareUpdate(data, now)
	delete(patch, model.FieldCreatedAt)

	update := bson.M{
		"$set":         toBSON(patch),
		"$setOnInsert": bson.M{model.FieldCreatedAt: now},
	}
	_, err := r.db.Collection(collection).UpdateOne(ctx, bson.M{}, update, options.Update().SetUpsert(true))
	if err != nil {
		logx.Error().Err(err).Str("collection", collection).Msg("failed to upsert singleton document")
		return errx.WrapMongo(err)
	}
	return nil
}

func (r *MongoRepository) Ping(ctx context.Context) error {
	if err := r.db.Client().Ping(ctx, readpref.Primary()); err != nil {
		return errx.WrapMongo(err)
	}
	return nil
}

func (r *MongoRepository) CollectionNames(ctx context.Context) ([]string, error) {
	names, err := r.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, errx.WrapMongo(err)
	}
	sort.Strings(names)
	return names, nil
}

// DatabaseName is reported by the diagnostic endpoint.
func (r *MongoRepository) DatabaseName() string {
	return r.db.Name()
}

var _ model.Repository = (*MongoRepository)(nil)
