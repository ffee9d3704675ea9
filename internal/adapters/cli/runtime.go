package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	"tfi/obras-sociales-api/internal/adapters/obrasocial/postgres"
	appobrasocial "tfi/obras-sociales-api/internal/application/obrasocial"
	"tfi/obras-sociales-api/internal/infrastructure/config"
	"tfi/obras-sociales-api/internal/infrastructure/database"
	"tfi/obras-sociales-api/internal/infrastructure/logger"
	"tfi/obras-sociales-api/internal/infrastructure/metrics"
)

// runtime holds the dependencies shared by every command.
type runtime struct {
	cfg     config.AppConfig
	log     *slog.Logger
	db      *sql.DB
	metrics *metrics.Metrics
	service *appobrasocial.Service
}

// openRuntime loads configuration, opens the database pool and builds the
// directory service on top of it. Logs go to logOut.
func openRuntime(ctx context.Context, logOut io.Writer) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.NewWithWriter(logOut, cfg.App.Name, cfg.Log.Level, cfg.App.Environment)

	db, err := database.Open(ctx, databaseConfig(cfg.Database))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	log.Info("Database connection established",
		"driver", cfg.Database.Driver,
		"host", cfg.Database.Host,
		"database", cfg.Database.Database,
	)

	m := metrics.New(nil)
	if err := m.RegisterDB(db, cfg.Database.Database); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("register pool metrics: %w", err)
	}

	scope := postgres.NewScope(database.NewScope(db, database.ScopeOptions{
		Logger:       log,
		QueryTimeout: cfg.Database.QueryTimeout,
		Observer:     m,
	}))

	return &runtime{
		cfg:     cfg,
		log:     log,
		db:      db,
		metrics: m,
		service: appobrasocial.NewService(scope, log, m),
	}, nil
}

func (r *runtime) Close() error {
	return r.db.Close()
}

func databaseConfig(s config.DatabaseSettings) database.Config {
	return database.Config{
		Driver:          s.Driver,
		Host:            s.Host,
		Port:            s.Port,
		Database:        s.Database,
		User:            s.User,
		Password:        s.Password,
		SSLMode:         s.SSLMode,
		MaxOpenConns:    s.MaxOpenConns,
		MaxIdleConns:    s.MaxIdleConns,
		ConnMaxLifetime: s.ConnMaxLifetime,
	}
}
