package services

import (
	"context"
	"time"

	"jarvis-rag-backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RegistryService tracks one row per ingested source in MongoDB. Rows are
// upserted by source, mirroring the idempotency of the vector records
// themselves: re-ingesting a document updates its row in place.
type RegistryService struct {
	collection *mongo.Collection
}

func NewRegistryService(db *mongo.Database) *RegistryService {
	return &RegistryService{collection: db.Collection("documents")}
}

// MarkQueued records a source handed to the async worker.
func (r *RegistryService) MarkQueued(ctx context.Context, source string) error {
	return r.upsert(ctx, source, bson.M{
		"status":     models.IngestStatusQueued,
		"error":      "",
		"updated_at": time.Now(),
	})
}

// MarkCompleted records a successful ingestion and its chunk count.
func (r *RegistryService) MarkCompleted(ctx context.Context, source string, chunkCount int) error {
	now := time.Now()
	return r.upsert(ctx, source, bson.M{
		"status":      models.IngestStatusCompleted,
		"chunk_count": chunkCount,
		"error":       "",
		"ingested_at": now,
		"updated_at":  now,
	})
}

// MarkFailed records an ingestion failure without clearing the previous
// chunk count, since earlier vectors may still be in the index.
func (r *RegistryService) MarkFailed(ctx context.Context, source string, cause error) error {
	return r.upsert(ctx, source, bson.M{
		"status":     models.IngestStatusFailed,
		"error":      cause.Error(),
		"updated_at": time.Now(),
	})
}

func (r *RegistryService) upsert(ctx context.Context, source string, fields bson.M) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"source": source},
		bson.M{"$set": fields, "$setOnInsert": bson.M{"source": source}},
		options.Update().SetUpsert(true),
	)
	return err
}

// List returns all registry rows, most recently updated first.
func (r *RegistryService) List(ctx context.Context) ([]models.DocumentRecord, error) {
	cursor, err := r.collection.Find(
		ctx,
		bson.M{},
		options.Find().SetSort(bson.M{"updated_at": -1}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	documents := make([]models.DocumentRecord, 0)
	if err := cursor.All(ctx, &documents); err != nil {
		return nil, err
	}
	return documents, nil
}
