package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"backend-template/cmd"
	"backend-template/internal/data/repository"
	"backend-template/internal/wire"
	"backend-template/pkg/cache"
	"backend-template/pkg/database"
	"backend-template/pkg/metrics"
	"backend-template/pkg/storage"
	"backend-template/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	config, err := utils.LoadConfig(".env")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	if config.JWT.Secret == "" {
		logger.Fatal("JWT_SECRET must be set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if config.Database.AutoMigrate {
		if err := database.Migrate(ctx, config.Database); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
		logger.Info("Database migrated")
	}

	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	deps := wire.Deps{
		DB:      db,
		Metrics: metrics.NewManager("backend"),
	}

	rdb, err := cache.NewRedisClient(config.Redis, logger)
	if err != nil {
		logger.Warn("Redis unavailable, caching and rate limiting disabled", zap.Error(err))
	} else {
		defer rdb.Close()
		deps.Cache = cache.NewRedisStore(rdb, logger)
		deps.Limiter = cache.NewRedisLimiter(rdb)
	}

	if config.MinIO.Enabled() {
		avatars, err := storage.NewMinIOStorage(config.MinIO, logger)
		if err != nil {
			logger.Warn("Avatar storage disabled", zap.Error(err))
		} else {
			deps.Storage = avatars
		}
	}

	repos := repository.NewRepository(db, logger)
	app := wire.Wiring(repos, config, deps, logger)

	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Fatal("Server stopped with error", zap.Error(err))
	}
}
