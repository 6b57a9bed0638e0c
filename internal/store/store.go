package store

import (
	"errors"
	"fmt"

	"github.com/silenthink/memo-cli/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNotFound is returned when a point lookup matches no row.
var ErrNotFound = errors.New("record not found")

// Options controls how the database connection is opened.
type Options struct {
	// Driver selects the backend: "sqlite" (default) or "postgres".
	Driver string
	// DSN is the file path for sqlite or the connection string for postgres.
	DSN string
	// Debug raises the gorm log level to Info.
	Debug bool
}

// Store owns the database connection and the canonical memo and user tables.
type Store struct {
	db *gorm.DB

	Memos *MemoStore
	Users *UserStore
}

// Open connects to the database, runs migrations and returns a ready Store.
func Open(opts Options) (*Store, error) {
	logLevel := logger.Warn
	if opts.Debug {
		logLevel = logger.Info
	}
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	}

	var dialector gorm.Dialector
	switch opts.Driver {
	case "", "sqlite":
		dialector = sqlite.Open(opts.DSN)
	case "postgres":
		dialector = postgres.Open(opts.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get SQL DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	if err := db.AutoMigrate(&models.Memo{}, &models.User{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	s := &Store{db: db}
	s.Memos = &MemoStore{db: db}
	s.Users = &UserStore{db: db}
	return s, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Health pings the database.
func (s *Store) Health() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
