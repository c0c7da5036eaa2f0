package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"studyhub/internal/app"
	"studyhub/internal/cache"
	"studyhub/internal/config"
	"studyhub/internal/logger"
	"studyhub/internal/repository"
	"studyhub/internal/service"
	"studyhub/internal/transport/rest"
	"studyhub/internal/transport/ws"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx := context.Background()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("failed to connect to MongoDB", "error", err)
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("failed to ping MongoDB", "error", err)
	}
	log.Info("connected to MongoDB", "db", cfg.MongoDB)

	db := mongoClient.Database(cfg.MongoDB)
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		log.Fatal("failed to create indexes", "error", err)
	}

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("failed to ping Redis", "error", err)
	}
	log.Info("connected to Redis", "addr", cfg.RedisAddr)

	wsHub := ws.NewHub(log.With("component", "ws"))

	stores := app.New(db)

	sessions := cache.NewSessionCache(rdb, cfg.SessionTTL)
	leaderboard := cache.NewLeaderboardCache(rdb, cfg.LeaderboardTTL)

	authSvc := service.NewAuthService(stores.UserRepo, cfg.JWTSecret)
	profileSvc := service.NewProfileService(stores.UserRepo, stores.InteractionRepo, leaderboard, log.With("component", "profile"))
	notebookSvc := service.NewNotebookService(
		stores.QuestionRepo,
		stores.NotebookRepo,
		stores.AnswerRepo,
		stores.InteractionRepo,
		stores.UserRepo,
		sessions,
		leaderboard,
		profileSvc,
		log.With("component", "notebook"),
	)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	profileSvc.SetBroadcaster(wsHub)
	notebookSvc.SetBroadcaster(wsHub)

	router := rest.NewRouter(&rest.Container{
		AuthService:     authSvc,
		NotebookService: notebookSvc,
		ProfileService:  profileSvc,
		WSHub:           wsHub,
		Log:             log.With("component", "http"),
		AllowedOrigins:  cfg.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info("server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe failed", "error", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("server forced to shutdown", "error", err)
	}

	log.Info("server exited")
}
