package repository

import (
	"context"
	"interviewcoach/internal/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EvaluationRepo stores one record per evaluated answer
type EvaluationRepo interface {
	Create(ctx context.Context, record *model.EvaluationRecord) error
	ListBySession(ctx context.Context, sessionID string) ([]*model.EvaluationRecord, error)
	ListByUser(ctx context.Context, userID string, limit int64) ([]*model.EvaluationRecord, error)
}

type evaluationRepo struct {
	collection *mongo.Collection
}

func NewEvaluationRepo(db *mongo.Database) EvaluationRepo {
	return &evaluationRepo{
		collection: db.Collection(evaluationsCollection),
	}
}

func (r *evaluationRepo) Create(ctx context.Context, record *model.EvaluationRecord) error {
	if record.ID == "" {
		record.ID = primitive.NewObjectID().Hex()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	_, err := r.collection.InsertOne(ctx, record)
	return err
}

func (r *evaluationRepo) ListBySession(ctx context.Context, sessionID string) ([]*model.EvaluationRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "questionNumber", Value: 1}})
	return r.find(ctx, bson.M{"sessionId": sessionID}, opts)
}

func (r *evaluationRepo) ListByUser(ctx context.Context, userID string, limit int64) ([]*model.EvaluationRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return r.find(ctx, bson.M{"userId": userID}, opts)
}

func (r *evaluationRepo) find(ctx context.Context, query bson.M, opts *options.FindOptions) ([]*model.EvaluationRecord, error) {
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := []*model.EvaluationRecord{}
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
