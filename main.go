package main

import (
	"log"

	"marketplace-booking/cmd"
	"marketplace-booking/internal/data/repository"
	"marketplace-booking/internal/usecase"
	"marketplace-booking/internal/wire"
	"marketplace-booking/internal/worker"
	"marketplace-booking/pkg/database"
	"marketplace-booking/pkg/mq"
	"marketplace-booking/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
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

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Event publisher is optional: without a broker, notifications still
	// land in the database and only the fan-out is skipped.
	var pub usecase.EventPublisher
	if config.AMQP.URL != "" {
		publisher, err := mq.NewPublisher(config.AMQP.URL, config.AMQP.Exchange)
		if err != nil {
			logger.Fatal("Failed to connect to message broker", zap.Error(err))
		}
		defer publisher.Close()
		pub = publisher
		logger.Info("Message broker connected", zap.String("exchange", config.AMQP.Exchange))
	}

	// Stats cache is optional too.
	var cache *redis.Client
	if config.Redis.Addr != "" {
		cache = redis.NewClient(&redis.Options{
			Addr:     config.Redis.Addr,
			Password: config.Redis.Password,
			DB:       config.Redis.DB,
		})
		defer cache.Close()
		logger.Info("Redis connected", zap.String("addr", config.Redis.Addr))
	}

	// Wire all dependencies
	app := wire.Wiring(repos, pub, cache, config, logger)

	// Start the expiry worker
	expirer := worker.NewExpirer(app.Service.Booking, repos.Session, config.Booking, logger)
	if err := expirer.Start(); err != nil {
		logger.Fatal("Failed to start expiry worker", zap.Error(err))
	}
	defer expirer.Stop()

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port)
}
