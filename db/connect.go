package db

import (
	"log"
	"net/url"
	"strings"

	"vitals-server/confs"
	"vitals-server/entities"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the connection pool, verifies it and migrates the schema.
func Connect(cfg *confs.Config) (Database, error) {
	if cfg.DatabaseURL == "" {
		return nil, confs.ErrMissingDatabaseURL
	}
	dsn := normalizeDSN(cfg.DatabaseURL)

	log.Println("[db] connecting...")
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel(cfg.DBLogLevel)),
		PrepareStmt:    true,
		TranslateError: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get database instance")
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(0)

	if err := sqlDB.Ping(); err != nil {
		return nil, errors.Wrap(err, "database ping failed")
	}
	log.Println("[db] connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}
	log.Println("[db] migrations completed")

	return &GormDatabase{DB: db}, nil
}

// Migrate creates or updates the users and readings tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&entities.User{}, &entities.Reading{}); err != nil {
		return errors.Wrap(err, "failed to migrate database")
	}
	return nil
}

// normalizeDSN adds an sslmode to URL-style DSNs that lack one:
// disabled for local hosts, required otherwise.
func normalizeDSN(dsn string) string {
	if strings.Contains(dsn, "sslmode=") {
		return dsn
	}
	u, err := url.Parse(dsn)
	if err != nil || u.Host == "" {
		return dsn
	}
	mode := "require"
	if h := u.Hostname(); h == "localhost" || h == "127.0.0.1" {
		mode = "disable"
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&sslmode=" + mode
	}
	return dsn + "?sslmode=" + mode
}

func logLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
