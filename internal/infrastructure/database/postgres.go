package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/cenkalti/backoff/v4"
	migrate "github.com/rubenv/sql-migrate"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/johnquangdev/linerunner/pkg/config"
)

// NewPostgresDB opens the PostgreSQL connection, retrying with exponential
// backoff until cfg.Database.ConnectWait elapses
func NewPostgresDB(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.GetDatabaseDSN()

	// Configure GORM logger
	gormLogger := logger.Default.LogMode(logger.Info)
	if cfg.IsProduction() {
		gormLogger = logger.Default.LogMode(logger.Error)
	}

	var db *gorm.DB
	connect := func() error {
		conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: gormLogger,
			NowFunc: func() time.Time {
				return time.Now().UTC()
			},
		})
		if err != nil {
			log.Printf("⏳ Database not ready: %v", err)
			return err
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to get database object: %w", err))
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			_ = sqlDB.Close()
			log.Printf("⏳ Database ping failed: %v", err)
			return err
		}

		db = conn
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Second
	bo.MaxInterval = 5 * time.Second
	bo.MaxElapsedTime = cfg.Database.ConnectWait

	if err := backoff.Retry(connect, backoff.WithContext(bo, ctx)); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}

	// Connection pool settings
	sqlDB.SetMaxOpenConns(cfg.Database.MaxConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MinConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("✅ Database connected successfully")

	return db, nil
}

// Migrate applies the SQL migrations found in dir
func Migrate(db *gorm.DB, dir string) error {
	log.Printf("🔄 Applying migrations from %s/ using sql-migrate...", dir)

	migrations := &migrate.FileMigrationSource{
		Dir: dir,
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get db connection during migrate up: %w", err)
	}

	n, err := migrate.Exec(sqlDB, "postgres", migrations, migrate.Up)
	if err != nil {
		return fmt.Errorf("failed to apply migration: %w", err)
	}

	log.Printf("✅ Applied %d migrations!\n", n)
	return nil
}

// Rollback reverts the last steps migrations found in dir. Zero reverts all of them.
func Rollback(db *gorm.DB, dir string, steps int) (int, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return 0, fmt.Errorf("failed to get db connection during migrate down: %w", err)
	}

	n, err := migrate.ExecMax(sqlDB, "postgres", &migrate.FileMigrationSource{Dir: dir}, migrate.Down, steps)
	if err != nil {
		return n, fmt.Errorf("failed to roll back migration: %w", err)
	}

	log.Printf("✅ Rolled back %d migrations!\n", n)
	return n, nil
}

// CloseDB closes the database connection
func CloseDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database object: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	log.Println("✅ Database connection closed")
	return nil
}
