package repo

import (
	"context"
	"errors"
	"fmt"
	"sort"

	errx "github.com/ecommerce-admin/server/internal/core/error"
	"github.com/ecommerce-admin/server/internal/model"
	logx "github.com/ecommerce-admin/server/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RedisRepository stores each document BSON-encoded under its own key and
// keeps a per-collection sorted set of identifiers. All members share score
// 0, so reverse lexical order of the hex ids is newest first.
type RedisRepository struct {
	rdb    redis.UniversalClient
	prefix string
	now    Clock
}

func NewRedisRepository(rdb redis.UniversalClient, prefix string) *RedisRepository {
	return &RedisRepository{rdb: rdb, prefix: prefix, now: systemClock}
}

// redisCmds is the subset shared by the client and a WATCH transaction.
type redisCmds interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	TxPipelined(ctx context.Context, fn func(redis.Pipeliner) error) ([]redis.Cmder, error)
}

func (r *RedisRepository) Name() string { return "redis" }

func (r *RedisRepository) documentKey(collection, id string) string {
	return fmt.Sprintf("%s:%s:doc:%s", r.prefix, collection, id)
}

func (r *RedisRepository) indexKey(collection string) string {
	return fmt.Sprintf("%s:%s:ids", r.prefix, collection)
}

func (r *RedisRepository) collectionsKey() string {
	return r.prefix + ":collections"
}

func encodeDocument(doc model.Document) ([]byte, error) {
	b, err := bson.Marshal(toBSON(doc))
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	return b, nil
}

func decodeDocument(b []byte) (model.Document, error) {
	var row bson.M
	if err := bson.Unmarshal(b, &row); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}
	return fromBSON(row), nil
}

func (r *RedisRepository) List(ctx context.Context, collection string, filter model.Filter) ([]model.Document, error) {
	index := r.indexKey(collection)
	ids, err := r.rdb.ZRevRange(ctx, index, 0, -1).Result()
	if err != nil {
		logx.Error().Err(err).Str("key", index).Msg("failed to read collection index from redis")
		return nil, errx.WrapRedis(err)
	}
	if len(ids) == 0 {
		return []model.Document{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.documentKey(collection, id)
	}
	rows, err := r.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		logx.Error().Err(err).Str("collection", collection).Msg("failed to load documents from redis")
		return nil, errx.WrapRedis(err)
	}

	docs := make([]model.Document, 0, len(rows))
	for i, row := range rows {
		s, ok := row.(string)
		if !ok {
			logx.Warn().Str("key", keys[i]).Msg("indexed document missing from redis")
			continue
		}
		doc, err := decodeDocument([]byte(s))
		if err != nil {
			logx.Error().Err(err).Str("key", keys[i]).Msg("failed to decode document")
			return nil, err
		}
		if matches(doc, filter) {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

func (r *RedisRepository) Get(ctx context.Context, collection, id string) (model.Document, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	return r.load(ctx, r.rdb, collection, oid.Hex())
}

func (r *RedisRepository) load(ctx context.Context, c redisCmds, collection, id string) (model.Document, error) {
	key := r.documentKey(collection, id)
	b, err := c.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logx.Error().Err(err).Str("key", key).Msg("failed to load document from redis")
		}
		return nil, errx.WrapRedis(err)
	}
	return decodeDocument(b)
}

func (r *RedisRepository) Create(ctx context.Context, collection string, data model.Document) (string, error) {
	doc := prepareCreate(data, r.now())
	oid := primitive.NewObjectID()
	doc[model.FieldID] = oid

	if err := r.insert(ctx, r.rdb, collection, doc); err != nil {
		return "", err
	}
	return oid.Hex(), nil
}

func (r *RedisRepository) insert(ctx context.Context, c redisCmds, collection string, doc model.Document) error {
	id := idString(doc[model.FieldID])
	b, err := encodeDocument(doc)
	if err != nil {
		return err
	}
	_, err = c.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.documentKey(collection, id), b, 0)
		pipe.ZAdd(ctx, r.indexKey(collection), redis.Z{Score: 0, Member: id})
		pipe.SAdd(ctx, r.collectionsKey(), collection)
		return nil
	})
	if err != nil {
		logx.Error().Err(err).Str("collection", collection).Str("id", id).Msg("failed to insert document into redis")
		return errx.WrapRedis(err)
	}
	return nil
}

func (r *RedisRepository) Update(ctx context.Context, collection, id string, data model.Document) (bool, error) {
	oid, err := ParseID(id)
	if err != nil {
		return false, err
	}
	patch := prepareUpdate(data, r.now())
	key := r.documentKey(collection, oid.Hex())

	err = r.rdb.Watch(ctx, func(tx *redis.Tx) error {
		return r.mergeInto(ctx, tx, collection, oid.Hex(), patch)
	}, key)
	if err != nil {
		return false, errx.WrapRedis(err)
	}
	return true, nil
}

// mergeInto applies patch to a watched document inside a transaction.
func (r *RedisRepository) mergeInto(ctx context.Context, tx *redis.Tx, collection, id string, patch model.Document) error {
	doc, err := r.load(ctx, tx, collection, id)
	if err != nil {
		return err
	}
	b, err := encodeDocument(merge(doc, patch))
	if err != nil {
		return err
	}
	_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.documentKey(collection, id), b, 0)
		return nil
	})
	if err != nil {
		logx.Error().Err(err).Str("collection", collection).Str("id", id).Msg("failed to update document in redis")
	}
	return err
}

func (r *RedisRepository) Delete(ctx context.Context, collection, id string) error {
	oid, err := ParseID(id)
	if err != nil {
		return err
	}

	var deleted *redis.IntCmd
	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		deleted = pipe.Del(ctx, r.documentKey(collection, oid.Hex()))
		pipe.ZRem(ctx, r.indexKey(collection), oid.Hex())
		return nil
	})
	if err != nil {
		logx.Error().Err(err).Str("collection", collection).Str("id", id).Msg("failed to delete document from redis")
		return errx.WrapRedis(err)
	}
	if deleted.Val() == 0 {
		return errx.NotFound()
	}
	return nil
}

func (r *RedisRepository) FindOne(ctx context.Context, collection string) (model.Document, error) {
	ids, err := r.rdb.ZRange(ctx, r.indexKey(collection), 0, 0).Result()
	if err != nil {
		return nil, errx.WrapRedis(err)
	}
	if len(ids) == 0 {
		return nil, errx.NotFound()
	}
	return r.load(ctx, r.rdb, collection, ids[0])
}

func (r *RedisRepository) Upsert(ctx context.Context, collection string, data model.Document) error {
	now := r.now()
	patch := prepareUpdate(data, now)
	delete(patch, model.FieldCreatedAt)
	index := r.indexKey(collection)

	err := r.rdb.Watch(ctx, func(tx *redis.Tx) error {
		ids, err := tx.ZRange(ctx, index, 0, 0).Result()
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			doc := cloneDocument(patch)
			doc[model.FieldCreatedAt] = now
			doc[model.FieldID] = primitive.NewObjectID()
			return r.insert(ctx, tx, collection, doc)
		}
		if err := tx.Watch(ctx, r.documentKey(collection, ids[0])).Err(); err != nil {
			return err
		}
		return r.mergeInto(ctx, tx, collection, ids[0], patch)
	}, index)
	if err != nil {
		return errx.WrapRedis(err)
	}
	return nil
}

func (r *RedisRepository) Ping(ctx context.Context) error {
	return errx.WrapRedis(r.rdb.Ping(ctx).Err())
}

func (r *RedisRepository) CollectionNames(ctx context.Context) ([]string, error) {
	names, err := r.rdb.SMembers(ctx, r.collectionsKey()).Result()
	if err != nil {
		return nil, errx.WrapRedis(err)
	}
	sort.Strings(names)
	return names, nil
}

var _ model.Repository = (*RedisRepository)(nil)
