package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"typist/internal/cache"
	"typist/internal/config"
	"typist/internal/metrics"
	"typist/internal/model"
	"typist/internal/platform/database"
	"typist/internal/platform/logger"
	rabbitmqClient "typist/internal/platform/rabbitmq"
	redisClient "typist/internal/platform/redis"
	"typist/internal/worker"
)

// App is the application context handed to every handler. It owns the
// connections and background workers and releases them in Close.
type App struct {
	Config  *config.Config
	Log     *logrus.Logger
	DB      *gorm.DB
	Redis   *redis.Client
	Metrics *metrics.Metrics

	// MQConn and the score pipeline are nil when RabbitMQ is not configured.
	MQConn            *amqp.Connection
	ScorePublisher    *rabbitmqClient.ScorePublisher
	LeaderboardWorker *worker.LeaderboardWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}
	return NewWithConfig(ctx, cfg)
}

// NewWithConfig connects every backend named by cfg. On failure the
// resources opened so far are closed.
func NewWithConfig(ctx context.Context, cfg *config.Config) (_ *App, err error) {
	app := &App{
		Config:    cfg,
		Log:       logger.New(cfg.App.LogLevel),
		Metrics:   metrics.New("typist"),
		StartedAt: time.Now(),
	}
	defer func() {
		if err != nil {
			_ = app.Close()
		}
	}()

	app.DB, err = database.New(ctx, cfg.Database, app.Log)
	if err != nil {
		return nil, err
	}
	if err = app.Migrate(); err != nil {
		return nil, err
	}

	app.Redis, err = redisClient.New(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}

	if cfg.RabbitMQ.URL == "" {
		app.Log.Info("rabbitmq not configured, leaderboard updates run in-process")
		return app, nil
	}

	app.MQConn, err = rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
	if err != nil {
		return nil, err
	}
	app.ScorePublisher = rabbitmqClient.NewScorePublisher(app.MQConn, cfg.RabbitMQ.ScoreQueue)
	app.LeaderboardWorker = worker.NewLeaderboardWorker(app.MQConn, cache.NewLeaderboard(app.Redis), cfg.RabbitMQ.ScoreQueue, app.Log)
	if err = app.LeaderboardWorker.Start(ctx); err != nil {
		return nil, fmt.Errorf("start leaderboard worker failed: %w", err)
	}

	return app, nil
}

// Migrate creates or updates the users, exerpts and score tables.
func (a *App) Migrate() error {
	if err := a.DB.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("auto migrate tables failed: %w", err)
	}
	return nil
}

func (a *App) Close() error {
	var closeErr error
	if a.LeaderboardWorker != nil {
		a.LeaderboardWorker.Close()
	}
	if a.ScorePublisher != nil {
		if err := a.ScorePublisher.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
