package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/ranchprice/internal/domain/models"
)

const (
	reportsCollection = "suggestion_reports"
	batchesCollection = "apply_batches"
)

// Repository defines the interface for suggestion history storage.
type Repository interface {
	SaveSuggestionReport(ctx context.Context, report models.SuggestionReport) error
	SaveApplyResult(ctx context.Context, result models.ApplyResult) error
	RecentReports(ctx context.Context, ranchID string, limit int64) ([]models.SuggestionReport, error)
}

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client *mongo.Client
	dbName string
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	repo := &MongoDBRepository{client: client, dbName: dbName}
	if err := repo.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

// ensureIndexes backs the newest-first history lookup per ranch.
func (r *MongoDBRepository) ensureIndexes(ctx context.Context) error {
	byRanch := mongo.IndexModel{
		Keys: bson.D{{Key: "ranch_id", Value: 1}, {Key: "generated_at", Value: -1}},
	}
	if _, err := r.collection(reportsCollection).Indexes().CreateOne(ctx, byRanch); err != nil {
		return fmt.Errorf("failed to create suggestion report index: %w", err)
	}

	batchID := mongo.IndexModel{
		Keys:    bson.D{{Key: "batch_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := r.collection(batchesCollection).Indexes().CreateOne(ctx, batchID); err != nil {
		return fmt.Errorf("failed to create apply batch index: %w", err)
	}
	return nil
}

func (r *MongoDBRepository) collection(name string) *mongo.Collection {
	return r.client.Database(r.dbName).Collection(name)
}

// SaveSuggestionReport stores one suggestion pass.
func (r *MongoDBRepository) SaveSuggestionReport(ctx context.Context, report models.SuggestionReport) error {
	if _, err := r.collection(reportsCollection).InsertOne(ctx, report); err != nil {
		return fmt.Errorf("failed to insert suggestion report: %w", err)
	}
	return nil
}

// SaveApplyResult stores the outcome of a bulk apply batch.
func (r *MongoDBRepository) SaveApplyResult(ctx context.Context, result models.ApplyResult) error {
	if _, err := r.collection(batchesCollection).InsertOne(ctx, result); err != nil {
		return fmt.Errorf("failed to insert apply batch: %w", err)
	}
	return nil
}

// RecentReports returns the latest reports for a ranch, newest first.
func (r *MongoDBRepository) RecentReports(ctx context.Context, ranchID string, limit int64) ([]models.SuggestionReport, error) {
	if limit <= 0 {
		limit = 10
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "generated_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection(reportsCollection).Find(ctx, bson.M{"ranch_id": ranchID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query suggestion reports: %w", err)
	}
	defer cursor.Close(ctx)

	var reports []models.SuggestionReport
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, fmt.Errorf("failed to decode suggestion reports: %w", err)
	}
	return reports, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
