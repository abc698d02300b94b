package repository

import (
	"context"
	"time"

	"github.com/alaaMelook/Nature-Hug-sub001/pkg/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepository keeps the back-office audit trail: every status
// transition and stock adjustment lands here, separate from the
// transactional MySQL data.
type MongoRepository struct {
	client   *mongo.Client
	database *mongo.Database
	config   *config.MongoDBConfig
}

func NewMongoRepository(cfg *config.MongoDBConfig) (*MongoRepository, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}

	return &MongoRepository{
		client:   client,
		database: client.Database(cfg.Database),
		config:   cfg,
	}, nil
}

func (m *MongoRepository) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

func (m *MongoRepository) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// AuditEntry is one order-level audit record.
type AuditEntry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Action    string             `bson:"action"`
	OrderID   string             `bson:"order_id"`
	Data      bson.M             `bson:"data,omitempty"`
	CreatedAt time.Time          `bson:"created_at"`
}

// Record satisfies lifecycle.Auditor.
func (m *MongoRepository) Record(ctx context.Context, action, orderID string, data map[string]interface{}) error {
	collection := m.database.Collection(m.config.Collection)
	entry := AuditEntry{
		Action:    action,
		OrderID:   orderID,
		Data:      bson.M(data),
		CreatedAt: time.Now(),
	}
	_, err := collection.InsertOne(ctx, entry)
	return err
}

// OrderHistory returns the most recent audit entries for one order,
// newest first.
func (m *MongoRepository) OrderHistory(ctx context.Context, orderID string, limit int64) ([]*AuditEntry, error) {
	collection := m.database.Collection(m.config.Collection)

	filter := bson.M{"order_id": orderID}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*AuditEntry
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}

	return entries, nil
}
