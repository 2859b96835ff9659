package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"apexhire/internal/cache"
	"apexhire/internal/config"
	"apexhire/internal/interview"
	"apexhire/internal/logger"
	"apexhire/internal/repository"
	"apexhire/internal/service"
	"apexhire/internal/transport/rest"
	"apexhire/internal/transport/ws"
)

func main() {
	_ = godotenv.Load()
	ctx := context.Background()

	cfg := config.Load()

	zl, err := logger.New(cfg.LogJSON, cfg.LogDebug)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zl.Sync()

	aiConfig := config.DefaultAIConfig()
	zl.Info("AI config",
		zap.String("parseModel", aiConfig.Models.ParseResume),
		zap.String("questionModel", aiConfig.Models.Question),
		zap.String("evalModel", aiConfig.Models.Eval),
		zap.String("summaryModel", aiConfig.Models.Summary),
		zap.Bool("apiKeyConfigured", aiConfig.IsEnabled()))
	if !aiConfig.IsEnabled() {
		zl.Warn("GEMINI_API_KEY not set, serving mock AI responses")
	}

	// Redis is the durable session store; without it the session lives only
	// in process memory and a restart loses it.
	var stateCache cache.StateCache
	if cfg.RedisURI != "" {
		addr := strings.TrimPrefix(cfg.RedisURI, "redis://")
		rdb := redis.NewClient(&redis.Options{Addr: addr})
		defer rdb.Close()

		if _, err := rdb.Ping(ctx).Result(); err != nil {
			zl.Fatal("failed to ping Redis", zap.Error(err))
		}
		zl.Info("connected to Redis", zap.String("addr", addr))
		stateCache = cache.NewStateCache(rdb)
	} else {
		zl.Warn("REDIS_URI not set, session state is not persisted")
	}

	// Mongo holds the candidate archive; without it the archive is
	// in-memory and rehydrated from Redis on boot.
	var repo repository.CandidateRepo
	if cfg.MongoURI != "" {
		mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			zl.Fatal("failed to connect to MongoDB", zap.Error(err))
		}
		defer mongoClient.Disconnect(ctx)

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := mongoClient.Ping(pingCtx, nil); err != nil {
			cancel()
			zl.Fatal("failed to ping MongoDB", zap.Error(err))
		}
		cancel()
		zl.Info("connected to MongoDB", zap.String("db", cfg.MongoDB))
		repo = repository.NewMongoCandidateRepo(mongoClient.Database(cfg.MongoDB))
	} else {
		zl.Warn("MONGO_URI not set, candidate archive is in-memory")
		repo = repository.NewMemoryCandidateRepo()
	}

	hub := ws.NewHub(zl)
	ai := service.NewGeminiService(aiConfig, zl)
	svc := service.NewInterviewService(interview.NewStore(), ai, repo, stateCache, zl)
	svc.SetBroadcaster(hub)

	if err := svc.Rehydrate(ctx); err != nil {
		zl.Warn("failed to rehydrate persisted state", zap.Error(err))
	}

	router := rest.NewRouter(&rest.Container{
		Interview:  svc,
		AI:         ai,
		Candidates: repo,
		WSHub:      hub,
		Logger:     zl,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		zl.Info("server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zl.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zl.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("forced shutdown", zap.Error(err))
	}

	// Let any in-flight summary generation and archiving finish.
	svc.Wait()
	zl.Info("server stopped")
}
