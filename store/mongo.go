package store

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"intake-backend/log"
)

type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
}

func Connect(ctx context.Context, uri, database string) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	m := &Mongo{client: client, db: client.Database(database)}
	if err := m.Ping(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return m, nil
}

func (m *Mongo) Ping(ctx context.Context) error {
	if err := m.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("ping: %w", err)
	}

	return nil
}

// EnsureIndexes creates the unique indexes named in UniqueFields.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	for collection, fields := range UniqueFields {
		_, err := m.db.Collection(collection).Indexes().CreateMany(ctx, uniqueIndexes(fields))
		if err != nil {
			return fmt.Errorf("create indexes on %s: %w", collection, err)
		}
	}

	return nil
}

func uniqueIndexes(fields []string) []mongo.IndexModel {
	models := make([]mongo.IndexModel, 0, len(fields))
	for _, f := range fields {
		models = append(models, mongo.IndexModel{
			Keys:    bson.D{{Key: f, Value: 1}},
			Options: options.Index().SetUnique(true),
		})
	}

	return models
}

func (m *Mongo) FindOne(ctx context.Context, collection string, filter bson.M, out interface{}) error {
	err := findOneError(m.db.Collection(collection).FindOne(ctx, filter).Decode(out))
	if err != nil && !errors.Is(err, ErrNotFound) {
		log.Logger.Error("database error", zap.Error(err), zap.String("collection", collection))
	}

	return err
}

func (m *Mongo) Find(ctx context.Context, collection string, filter bson.M, out interface{}) error {
	cur, err := m.db.Collection(collection).Find(ctx, filter)
	if err != nil {
		log.Logger.Error("database error", zap.Error(err), zap.String("collection", collection))
		return err
	}

	if err := decodeAll(ctx, cur, out); err != nil {
		log.Logger.Error("cursor error", zap.Error(err), zap.String("collection", collection))
		return err
	}

	return nil
}

func (m *Mongo) Create(ctx context.Context, collection string, record interface{}) error {
	_, err := m.db.Collection(collection).InsertOne(ctx, record)
	err = insertError(err)
	if err != nil && !errors.Is(err, ErrDuplicate) {
		log.Logger.Error("failed inserting document", zap.Error(err), zap.String("collection", collection))
	}

	return err
}

func (m *Mongo) Disconnect(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func findOneError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}

	return err
}

func insertError(err error) error {
	if err != nil && mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}

	return err
}

// decodeAll drains cur into out, a pointer to a slice. The driver leaves a
// nil slice nil when nothing matches; it is replaced by an empty one.
func decodeAll(ctx context.Context, cur *mongo.Cursor, out interface{}) error {
	if err := cur.All(ctx, out); err != nil {
		return err
	}

	sv := reflect.ValueOf(out).Elem()
	if sv.IsNil() {
		sv.Set(reflect.MakeSlice(sv.Type(), 0, 0))
	}

	return nil
}

var _ Store = (*Mongo)(nil)
