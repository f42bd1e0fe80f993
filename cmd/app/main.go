package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/CampusConnections/campus-service/internal/config"
	"github.com/CampusConnections/campus-service/internal/handler"
	"github.com/CampusConnections/campus-service/internal/rabbitmq"
	"github.com/CampusConnections/campus-service/internal/repository"
	"github.com/CampusConnections/campus-service/internal/repository/memory"
	"github.com/CampusConnections/campus-service/internal/repository/postgres"
	"github.com/CampusConnections/campus-service/internal/repository/redisrepo"
	"github.com/CampusConnections/campus-service/internal/server"
	"github.com/CampusConnections/campus-service/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := loadEnv(); err != nil {
		panic("failed to load environment variables: " + err.Error())
	}

	if err := initConfig(); err != nil {
		panic("failed to initialize yaml config: " + err.Error())
	}

	logger := newLogger()
	defer logger.Sync()

	var (
		repos     *repository.Repository
		publisher rabbitmq.Publisher = rabbitmq.Discard{}
	)

	switch viper.GetString("app.storage") {
	case "memory":
		repos = repository.New(memory.New(), memory.NewCache())
		logger.Info("Using in-memory storage")
	default:
		dbConfig := config.DBConfig{
			Username: os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			Host:     os.Getenv("POSTGRES_HOST"),
			Port:     os.Getenv("POSTGRES_PORT"),
			DBName:   os.Getenv("POSTGRES_DATABASE"),
			SSLMode:  os.Getenv("POSTGRES_SSLMODE"),
		}

		if err := postgres.Migrate(dbConfig); err != nil {
			logger.Sugar().Panicf("failed to migrate postgres: %s", err.Error())
		}

		db, err := postgres.DB(ctx, dbConfig)
		if err != nil {
			logger.Sugar().Panicf("failed to connect to postgres: %s", err.Error())
		}
		defer db.Close()
		if err := db.Ping(ctx); err != nil {
			logger.Sugar().Panicf("failed to ping postgres: %s", err.Error())
		}
		logger.Info("Successfully connected to PostgreSQL")

		rdb := redis.NewClient(&redis.Options{
			Addr: os.Getenv("REDIS_ADDR"),
		})
		defer rdb.Close()
		pong, err := rdb.Ping(ctx).Result()
		if err != nil {
			logger.Sugar().Panicf("failed to ping redis: %s", err.Error())
		}
		logger.Sugar().Infof("Successfully connected to Redis: %s", pong)

		repos = repository.New(postgres.New(db, logger), redisrepo.New(rdb))
	}

	if url := os.Getenv("RABBITMQ_CONN_STRING"); url != "" {
		mq, err := rabbitmq.New(url)
		if err != nil {
			logger.Sugar().Panicf("failed to connect to rabbitmq: %s", err.Error())
		}
		defer mq.Close()
		publisher = mq
		logger.Info("Successfully connected to RabbitMQ")
	}

	services := service.New(logger, repos, publisher)
	handlers := handler.New(logger, services)

	srv := server.New()
	serverConfig := config.ServerConfig{
		Port:           viper.GetString("app.port"),
		Handler:        handlers.InitRoutes(),
		MaxHeaderBytes: 1 << 20,
		ReadTimeout:    time.Second * 10,
		WriteTimeout:   time.Second * 10,
	}
	go func() {
		if err := srv.Run(serverConfig); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Sugar().Panicf("failed to run http server: %s", err.Error())
		}
	}()

	logger.Sugar().Infof("Server started on port %s", serverConfig.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logger.Info("Server shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("failed to shutdown http server: %s", err.Error())
	}
}

func newLogger() *zap.Logger {
	if viper.GetString("app.env") == "dev" {
		logger, _ := zap.NewDevelopment()
		return logger
	}

	gin.SetMode(gin.ReleaseMode)
	logger, _ := zap.NewProduction()
	return logger
}

// loadEnv tolerates a missing .env so the process can run on real environment variables.
func loadEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func initConfig() error {
	viper.SetDefault("app.port", "8080")
	viper.SetDefault("app.storage", "postgres")
	viper.SetDefault("client.origin", "http://localhost:5173")

	viper.AddConfigPath(".")
	viper.SetConfigType("yaml")
	viper.SetConfigName("app")
	return viper.ReadInConfig()
}
