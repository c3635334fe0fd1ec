package postgres

import (
	"context"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/trip-editor/internal/config"
)

const (
	connectAttempts = 5
	connectBackoff  = 500 * time.Millisecond
)

// DB - пул соединений хранилища документов поездок
type DB struct {
	*sqlx.DB
	logger *zap.Logger
}

// New - подключение к PostgreSQL через драйвер pgx. База в контейнере поднимается
// не сразу, поэтому подключение повторяется с растущей паузой
func New(cfg *config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	dsn := cfg.DSN()

	var (
		db  *sqlx.DB
		err error
	)
	backoff := connectBackoff
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		db, err = sqlx.ConnectContext(ctx, "pgx", dsn)
		cancel()
		if err == nil {
			break
		}
		if attempt < connectAttempts {
			logger.Warn("Trip store not ready, retrying",
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff),
				zap.Error(err))
			time.Sleep(backoff)
			backoff *= 2
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	logger.Info("Trip store connected",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.DBName),
		zap.Int("max_conns", cfg.MaxConns),
	)

	return &DB{DB: db, logger: logger.Named("postgres")}, nil
}

// NewFromSQLX оборачивает готовое соединение (тесты, внешние пулы)
func NewFromSQLX(sqlxDB *sqlx.DB, logger *zap.Logger) *DB {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DB{DB: sqlxDB, logger: logger}
}

func (db *DB) Close() error {
	db.logger.Info("Closing trip store connection")
	return db.DB.Close()
}

// Health - ping и проверка, что таблица поездок доступна
func (db *DB) Health(ctx context.Context) error {
	if err := db.PingContext(ctx); err != nil {
		return err
	}
	var exists bool
	if err := db.GetContext(ctx, &exists, `SELECT to_regclass('public.trips') IS NOT NULL`); err != nil {
		return fmt.Errorf("check trips table: %w", err)
	}
	if !exists {
		return fmt.Errorf("trips table is missing, apply migrations")
	}
	return nil
}
