package storage

import (
	"context"
	"fmt"
	"time"

	"stock-screener/src/logger"
	"stock-screener/src/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultMongoDatabase = "stock_screener"

// -----------------------------------------------------------------------------

// MongoRepository keeps one document per ticker in the "quotes" collection.
// Replacement is delete-many then insert-many, not a transaction.
type MongoRepository struct {
	Config     *models.MConfig
	Client     *mongo.Client
	Collection *mongo.Collection
	Logger     *logger.Logger
}

// -----------------------------------------------------------------------------

func NewMongoRepository(cfg *models.MConfig, log *logger.Logger) *MongoRepository {
	return &MongoRepository{
		Config: cfg,
		Logger: log,
	}
}

// -----------------------------------------------------------------------------

func (d *MongoRepository) Initialize(ctx context.Context) error {
	opts := options.Client().
		ApplyURI(d.Config.Storage.DBConnectionString).
		SetConnectTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return fmt.Errorf("mongo ping: %w", err)
	}

	dbName := d.Config.Storage.DBName
	if dbName == "" {
		dbName = defaultMongoDatabase
	}

	d.Client = client
	d.Collection = client.Database(dbName).Collection("quotes")

	_, err = d.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "position", Value: 1}}})
	if err != nil {
		d.Logger.Warning("Failed to create position index: %v", err)
	}

	d.Logger.Info("Mongo repository ready (database: %s)", dbName)
	return nil
}

// -----------------------------------------------------------------------------

func (d *MongoRepository) ReplaceAll(ctx context.Context, quotes []models.MQuote) error {
	if _, err := d.Collection.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("failed to clear quotes: %w", err)
	}
	if len(quotes) == 0 {
		return nil
	}

	docs := make([]any, len(quotes))
	for i, q := range quotes {
		docs[i] = toDocument(i, q)
	}
	if _, err := d.Collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert quotes: %w", err)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (d *MongoRepository) LoadAll(ctx context.Context) ([]models.MQuote, error) {
	cursor, err := d.Collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "position", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []quoteDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return fromDocuments(docs), nil
}

// -----------------------------------------------------------------------------

func (d *MongoRepository) Close() error {
	if d.Client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return d.Client.Disconnect(ctx)
}
