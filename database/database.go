package database

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/expki/go-hmdb/config"
	"github.com/expki/go-hmdb/logger"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

type Database struct {
	*gorm.DB
	Provider config.DatabaseProvider
}

func New(cfg config.Database) (*Database, error) {
	// get dialectors from config
	provider, readwrite, readonly, err := cfg.GetDialectors()
	if err != nil {
		return nil, err
	}
	if len(readwrite) == 0 {
		return nil, errors.New("no writable database configured")
	}

	// sqlite creates the file but not its directory
	if path := cfg.SqliteFile(); provider == config.DatabaseProvider_SQLite && path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.Join(errors.New("failed to create database directory"), err)
		}
	}

	// open primary database connection
	db, err := gorm.Open(readwrite[0], &gorm.Config{
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		Logger:                 logger.NewGorm(config.SLOW_QUERY_THRESHOLD),
	})
	if err != nil {
		return nil, fmt.Errorf("connect %s database: %w", provider, err)
	}
	if provider == config.DatabaseProvider_SQLite {
		// pragmas are per connection, so sqlite runs on a single one
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("enable sqlite foreign keys: %w", err)
		}
	}

	// add resolver connections
	if len(readonly)+len(readwrite) > 1 {
		err = db.Use(dbresolver.Register(dbresolver.Config{
			Sources:           readwrite,
			Replicas:          readonly,
			Policy:            dbresolver.StrictRoundRobinPolicy(),
			TraceResolverMode: true,
		}))
		if err != nil {
			logger.Sugar().Errorf("failed to register database resolver: %v", err)
			return nil, err
		}
	}
	logger.Sugar().Debugf("connected to %s database", provider)
	return &Database{DB: db, Provider: provider}, nil
}

func (db *Database) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
