package repository

import (
	"context"
	"interviewcoach/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SessionRepo is the durable store of session state
type SessionRepo interface {
	Save(ctx context.Context, state *model.SessionState) error
	GetByID(ctx context.Context, id string) (*model.SessionState, error)
	ListByUser(ctx context.Context, userID string, limit int64) ([]*model.SessionState, error)
}

type sessionRepo struct {
	collection *mongo.Collection
}

func NewSessionRepo(db *mongo.Database) SessionRepo {
	return &sessionRepo{
		collection: db.Collection(sessionsCollection),
	}
}

func (r *sessionRepo) Save(ctx context.Context, state *model.SessionState) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": state.ID}, state, opts)
	return err
}

func (r *sessionRepo) GetByID(ctx context.Context, id string) (*model.SessionState, error) {
	var state model.SessionState
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&state)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (r *sessionRepo) ListByUser(ctx context.Context, userID string, limit int64) ([]*model.SessionState, error) {
	opts := options.Find().SetSort(bson.D{{Key: "startedAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	sessions := []*model.SessionState{}
	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}
