package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Collection names
const (
	questionsCollection   = "questions"
	sessionsCollection    = "sessions"
	evaluationsCollection = "evaluations"
	reportsCollection     = "session_reports"
	usersCollection       = "users"
)

// EnsureIndexes creates the indexes every repository relies on.
// Failures are logged and do not stop startup.
func EnsureIndexes(ctx context.Context, db *mongo.Database, logger *zap.Logger) {
	createIndex(ctx, logger, db.Collection(questionsCollection), bson.D{
		{Key: "domain", Value: 1},
		{Key: "active", Value: 1},
		{Key: "difficulty", Value: 1},
	}, false)
	createIndex(ctx, logger, db.Collection(questionsCollection), bson.D{{Key: "topic", Value: 1}}, false)

	createIndex(ctx, logger, db.Collection(sessionsCollection), bson.D{
		{Key: "userId", Value: 1},
		{Key: "startedAt", Value: -1},
	}, false)

	createIndex(ctx, logger, db.Collection(evaluationsCollection), bson.D{
		{Key: "sessionId", Value: 1},
		{Key: "questionNumber", Value: 1},
	}, false)
	createIndex(ctx, logger, db.Collection(evaluationsCollection), bson.D{
		{Key: "userId", Value: 1},
		{Key: "createdAt", Value: -1},
	}, false)

	createIndex(ctx, logger, db.Collection(reportsCollection), bson.D{{Key: "sessionId", Value: 1}}, true)
	createIndex(ctx, logger, db.Collection(usersCollection), bson.D{{Key: "email", Value: 1}}, true)

	logger.Info("mongo indexes ensured")
}

func createIndex(ctx context.Context, logger *zap.Logger, coll *mongo.Collection, keys bson.D, unique bool) {
	opts := options.Index().SetUnique(unique)
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: keys, Options: opts})
	if err != nil {
		logger.Warn("failed to create index", zap.String("collection", coll.Name()), zap.Error(err))
	}
}
