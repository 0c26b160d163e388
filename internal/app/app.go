// Package app wires storage, AI providers and services into a running API.
package app

import (
	"context"
	"fmt"
	"interviewcoach/internal/ai"
	"interviewcoach/internal/ai/gemini"
	"interviewcoach/internal/cache"
	"interviewcoach/internal/config"
	"interviewcoach/internal/evaluation"
	"interviewcoach/internal/repository"
	"interviewcoach/internal/service"
	"interviewcoach/internal/session"
	"interviewcoach/internal/transport/rest"
	"interviewcoach/internal/transport/ws"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const pingTimeout = 5 * time.Second

type App struct {
	Config *config.Config
	Logger *zap.Logger

	Mongo *mongo.Client
	DB    *mongo.Database
	Redis *redis.Client

	AuthService      *service.AuthService
	QuestionService  *service.QuestionService
	InterviewService *service.InterviewService
	EvaluatorService *service.EvaluatorService
	ReportService    *service.ReportService
	AnalyticsService *service.AnalyticsService
	WSHub            *ws.Hub
}

// ConnectMongo opens and pings the MongoDB client
func ConnectMongo(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return client, nil
}

// ConnectRedis opens and pings the Redis client. Both "host:port" and
// redis:// URLs are accepted.
func ConnectRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	opts := &redis.Options{Addr: cfg.URI}
	if strings.HasPrefix(cfg.URI, "redis://") || strings.HasPrefix(cfg.URI, "rediss://") {
		parsed, err := redis.ParseURL(cfg.URI)
		if err != nil {
			return nil, fmt.Errorf("parse redis uri: %w", err)
		}
		opts = parsed
	}

	rdb := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// New connects to the stores and builds every service
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	mongoClient, err := ConnectMongo(ctx, cfg.Mongo)
	if err != nil {
		return nil, err
	}
	logger.Info("connected to mongodb", zap.String("database", cfg.Mongo.Database))

	rdb, err := ConnectRedis(ctx, cfg.Redis)
	if err != nil {
		mongoClient.Disconnect(ctx)
		return nil, err
	}
	logger.Info("connected to redis")

	db := mongoClient.Database(cfg.Mongo.Database)
	repository.EnsureIndexes(ctx, db, logger)

	a := &App{
		Config: cfg,
		Logger: logger,
		Mongo:  mongoClient,
		DB:     db,
		Redis:  rdb,
	}
	a.build(ctx)

	if err := a.AuthService.EnsureAdmin(ctx); err != nil {
		logger.Warn("failed to ensure admin account", zap.Error(err))
	}
	return a, nil
}

func (a *App) build(ctx context.Context) {
	cfg, logger := a.Config, a.Logger

	// Initialize repositories
	questionRepo := repository.NewQuestionRepo(a.DB)
	sessionRepo := repository.NewSessionRepo(a.DB)
	evaluationRepo := repository.NewEvaluationRepo(a.DB)
	reportRepo := repository.NewReportRepo(a.DB)
	userRepo := repository.NewUserRepo(a.DB)

	// Initialize caches
	sessionCache := cache.NewSessionCache(a.Redis, cfg.Session.TTL)
	embeddingCache := cache.NewEmbeddingCache(a.Redis)
	analyticsCache := cache.NewAnalyticsCache(a.Redis)
	leaderboard := cache.NewLeaderboardCache(a.Redis)

	// AI providers; every consumer has a deterministic fallback when this is nil
	provider := newProvider(ctx, cfg.AI, logger)

	var claims evaluation.ClaimExtractor
	var similarity evaluation.Similarity = evaluation.KeywordSimilarity{}
	var feedback service.FeedbackGenerator
	var composer session.FollowUpComposer
	if provider != nil {
		claims = ai.NewClaimExtractor(provider, logger)
		feedback = ai.NewFeedbackWriter(provider)
		composer = ai.NewFollowUpWriter(provider)
		if cfg.AI.UseEmbeddings {
			embedder := ai.NewCachedEmbedder(provider, embeddingCache, cfg.AI.Models.Embedding, logger)
			similarity = evaluation.NewEmbeddingSimilarity(embedder)
		}
	}

	pipeline := evaluation.NewPipeline(
		evaluation.NewFallbackExtractor(claims, logger),
		evaluation.NewMatcher(similarity, logger),
	)

	// Initialize services
	a.AuthService = service.NewAuthService(userRepo, cfg.Auth, logger)
	a.AnalyticsService = service.NewAnalyticsService(analyticsCache)
	a.QuestionService = service.NewQuestionService(questionRepo, a.AnalyticsService, logger)
	a.EvaluatorService = service.NewEvaluatorService(pipeline, feedback, logger)
	a.ReportService = service.NewReportService(reportRepo, evaluationRepo, leaderboard, logger)

	locker := session.Layered(session.NewKeyedMutex(), cache.NewSessionLocker(a.Redis, cfg.Session.LockTTL, logger))
	a.InterviewService = service.NewInterviewService(
		session.NewMachine(a.QuestionService, composer, logger),
		locker,
		service.NewSessionStore(sessionCache, sessionRepo, logger),
		sessionRepo,
		evaluationRepo,
		a.EvaluatorService,
		a.AnalyticsService,
		a.ReportService,
		logger,
	)

	a.InterviewService.SetLockTTL(cfg.Session.LockTTL)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	a.WSHub = ws.NewHub(logger)
	a.InterviewService.SetBroadcaster(a.WSHub)
}

func newProvider(ctx context.Context, cfg config.AIConfig, logger *zap.Logger) ai.Provider {
	if !cfg.IsEnabled() {
		logger.Warn("GEMINI_API_KEY not set, using deterministic evaluation fallbacks")
		return nil
	}
	g, err := gemini.New(ctx, cfg.APIKey, cfg.Models)
	if err != nil {
		logger.Error("gemini provider unavailable, using deterministic evaluation fallbacks", zap.Error(err))
		return nil
	}
	logger.Info("ai provider configured",
		zap.String("claims_model", cfg.Models.Claims),
		zap.String("follow_up_model", cfg.Models.FollowUp),
		zap.String("feedback_model", cfg.Models.Feedback),
		zap.String("embedding_model", cfg.Models.Embedding),
		zap.Bool("embeddings", cfg.UseEmbeddings))

	return ai.NewChain(logger, []ai.Provider{g},
		ai.WithRetries(cfg.MaxRetries),
		ai.WithTimeout(cfg.Timeout()),
	)
}

// Router builds the HTTP handler for the API
func (a *App) Router() http.Handler {
	return rest.NewRouter(&rest.Container{
		AuthService:      a.AuthService,
		QuestionService:  a.QuestionService,
		InterviewService: a.InterviewService,
		EvaluatorService: a.EvaluatorService,
		ReportService:    a.ReportService,
		AnalyticsService: a.AnalyticsService,
		WSHub:            a.WSHub,
		AllowedOrigins:   a.Config.HTTP.AllowedOrigins,
		Logger:           a.Logger,
	})
}

// Close releases the store connections
func (a *App) Close(ctx context.Context) {
	if err := a.Redis.Close(); err != nil {
		a.Logger.Warn("failed to close redis", zap.Error(err))
	}
	if err := a.Mongo.Disconnect(ctx); err != nil {
		a.Logger.Warn("failed to disconnect mongodb", zap.Error(err))
	}
}
