package app

import (
	"context"
	"errors"
	"time"

	"offerless/internal/config"
	"offerless/internal/database"
	"offerless/internal/database/migration"
	dbpostgres "offerless/internal/database/postgres"
	"offerless/internal/infrastructure/cache"
	"offerless/internal/pkg/logger"
	"offerless/internal/ws"
	"offerless/migrations"

	"github.com/sirupsen/logrus"
)

// Container owns the long-lived resources shared by every request.
type Container struct {
	Config config.Config
	Logger *logrus.Logger
	DB     database.DB
	Cache  *cache.Redis
	Hub    *ws.Hub

	stopHub context.CancelFunc
}

func NewContainer(cfg config.Config) (*Container, error) {
	log := logger.New(cfg.App.AppName, cfg.App.Environment, cfg.App.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	if cfg.App.AutoMigrate {
		if err := runMigrations(ctx, cfg, db, log); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	hub := ws.NewHub(log)
	go hub.Run(hubCtx)

	return &Container{
		Config:  cfg,
		Logger:  log,
		DB:      db,
		Cache:   cache.NewRedis(cfg.Redis, log),
		Hub:     hub,
		stopHub: stopHub,
	}, nil
}

func runMigrations(ctx context.Context, cfg config.Config, db database.DB, log logrus.FieldLogger) error {
	runner := migration.Runner{FS: migrations.FS, Dir: "."}
	if cfg.App.MigrationsPath != "" {
		runner = migration.Runner{Dir: cfg.App.MigrationsPath}
	}

	n, err := runner.Run(ctx, db.SQLDB())
	if err != nil {
		return err
	}
	log.WithField("applied", n).Info("migrations complete")
	return nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.stopHub != nil {
		c.stopHub()
	}

	var errs []error
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
