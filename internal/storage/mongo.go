package storage

import (
	"context"
	"fmt"
	"time"

	"pos_core/internal/pos"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	collectionProducts = "products"
	collectionSales    = "sales"
	collectionSettings = "settings"
)

// MongoConfig describes how to reach the document database.
type MongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// MongoStore is the DocumentStore backed by MongoDB.
type MongoStore struct {
	client  *mongo.Client
	db      *mongo.Database
	timeout time.Duration
}

type settingDocument struct {
	Key   string `bson:"_id"`
	Value any    `bson:"value"`
}

// NewMongoStore connects and pings. The returned store must be closed.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}

	clientOptions := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.Timeout).
		SetServerSelectionTimeout(cfg.Timeout)

	connectCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &MongoStore{
		client:  client,
		db:      client.Database(cfg.Database),
		timeout: cfg.Timeout,
	}, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Products(ctx context.Context) ([]pos.Product, error) {
	products := []pos.Product{}
	if err := s.findAll(ctx, collectionProducts, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}), &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *MongoStore) PutProducts(ctx context.Context, products []pos.Product) error {
	docs := make([]interface{}, len(products))
	for i := range products {
		docs[i] = products[i]
	}
	return s.replaceAll(ctx, collectionProducts, docs)
}

func (s *MongoStore) Sales(ctx context.Context) ([]pos.Sale, error) {
	sales := []pos.Sale{}
	if err := s.findAll(ctx, collectionSales, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}), &sales); err != nil {
		return nil, err
	}
	for i := range sales {
		if sales[i].Items == nil {
			sales[i].Items = []pos.SaleItem{}
		}
	}
	return sales, nil
}

func (s *MongoStore) PutSales(ctx context.Context, sales []pos.Sale) error {
	docs := make([]interface{}, len(sales))
	for i := range sales {
		docs[i] = sales[i]
	}
	return s.replaceAll(ctx, collectionSales, docs)
}

func (s *MongoStore) Settings(ctx context.Context) (map[string]any, error) {
	var docs []settingDocument
	if err := s.findAll(ctx, collectionSettings, options.Find(), &docs); err != nil {
		return nil, err
	}
	out := make(map[string]any, len(docs))
	for _, d := range docs {
		out[d.Key] = d.Value
	}
	return out, nil
}

func (s *MongoStore) PutSettings(ctx context.Context, settings map[string]any) error {
	docs := make([]interface{}, 0, len(settings))
	for k, v := range settings {
		docs = append(docs, settingDocument{Key: k, Value: v})
	}
	return s.replaceAll(ctx, collectionSettings, docs)
}

func (s *MongoStore) findAll(ctx context.Context, collection string, opts *options.FindOptions, out any) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cursor, err := s.db.Collection(collection).Find(ctx, bson.D{}, opts)
	if err != nil {
		return fmt.Errorf("find %s: %w", collection, err)
	}
	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("decode %s: %w", collection, err)
	}
	return nil
}

// replaceAll clears the collection and inserts docs. It is not atomic.
func (s *MongoStore) replaceAll(ctx context.Context, collection string, docs []interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	coll := s.db.Collection(collection)
	if _, err := coll.DeleteMany(ctx, bson.D{}); err != nil {
		return fmt.Errorf("clear %s: %w", collection, err)
	}
	if len(docs) == 0 {
		return nil
	}
	if _, err := coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert %s: %w", collection, err)
	}
	return nil
}
