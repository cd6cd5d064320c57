package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoKV — KV-хранилище поверх одной коллекции MongoDB; ключ лежит в _id.
type MongoKV struct {
	client *mongo.Client
	coll   *mongo.Collection
}

var _ KVStore = (*MongoKV)(nil)

type mongoRecord struct {
	Key       string    `bson:"_id"`
	Value     []byte    `bson:"value"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// NewMongoKV подключается к MongoDB и проверяет соединение.
func NewMongoKV(ctx context.Context, uri, dbName, collName string) (*MongoKV, error) {
	if uri == "" {
		return nil, errors.New("mongo uri is empty")
	}
	cli, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := cli.Ping(pctx, nil); err != nil {
		_ = cli.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return &MongoKV{client: cli, coll: cli.Database(dbName).Collection(collName)}, nil
}

func (m *MongoKV) Get(ctx context.Context, key string) ([]byte, error) {
	var rec mongoRecord
	err := m.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec.Value, nil
}

// Set заменяет документ целиком; частичных обновлений нет.
func (m *MongoKV) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return errors.New("empty key")
	}
	rec := mongoRecord{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	_, err := m.coll.ReplaceOne(ctx, bson.M{"_id": key}, rec, options.Replace().SetUpsert(true))
	return err
}

// Close закрывает соединение с MongoDB.
func (m *MongoKV) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
