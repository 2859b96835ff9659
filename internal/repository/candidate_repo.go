package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"apexhire/internal/model"
)

// CandidateRepo is the append-only archive of finished interviews. Records
// are immutable once added; there is no update or delete and no dedup.
type CandidateRepo interface {
	// Add synthesizes the record's ID and completion timestamp, appends it
	// and returns the completed record.
	Add(ctx context.Context, partial model.CandidateRecord) (*model.CandidateRecord, error)
	List(ctx context.Context) ([]model.CandidateRecord, error)
	GetByID(ctx context.Context, id string) (*model.CandidateRecord, error)
}

type mongoCandidateRepo struct {
	collection *mongo.Collection
}

// NewMongoCandidateRepo creates a Mongo-backed archive
func NewMongoCandidateRepo(db *mongo.Database) CandidateRepo {
	return &mongoCandidateRepo{
		collection: db.Collection("candidates"),
	}
}

func (r *mongoCandidateRepo) Add(ctx context.Context, partial model.CandidateRecord) (*model.CandidateRecord, error) {
	record := partial
	record.ID = uuid.NewString()
	record.CompletedAt = time.Now().UTC()

	if _, err := r.collection.InsertOne(ctx, record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *mongoCandidateRepo) List(ctx context.Context) ([]model.CandidateRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "completedAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := []model.CandidateRecord{}
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *mongoCandidateRepo) GetByID(ctx context.Context, id string) (*model.CandidateRecord, error) {
	var record model.CandidateRecord
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&record)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}
