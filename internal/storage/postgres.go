package storage

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// KVEntry is one stored record
type KVEntry struct {
	Key       string         `gorm:"type:varchar(255);primaryKey"`
	Value     datatypes.JSON `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime;index"`
}

// TableName overrides the gorm default
func (KVEntry) TableName() string {
	return "kv_entries"
}

// PostgresBackend keeps records in a single jsonb key-value table
type PostgresBackend struct {
	db *gorm.DB
}

// InitPostgreSQL opens the connection, tunes the pool and migrates the table
func InitPostgreSQL(dsn string, debug bool) (*PostgresBackend, error) {
	level := logger.Warn
	if debug {
		level = logger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return NewPostgresBackend(db)
}

// NewPostgresBackend wraps an open gorm connection and migrates kv_entries
func NewPostgresBackend(db *gorm.DB) (*PostgresBackend, error) {
	if err := db.AutoMigrate(&KVEntry{}); err != nil {
		return nil, err
	}
	return &PostgresBackend{db: db}, nil
}

// Get returns the value stored under key, or ErrNotFound
func (p *PostgresBackend) Get(ctx context.Context, key string) ([]byte, error) {
	var entry KVEntry
	err := p.db.WithContext(ctx).First(&entry, "key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return []byte(entry.Value), nil
}

// Set stores value under key, replacing any previous value
func (p *PostgresBackend) Set(ctx context.Context, key string, value []byte) error {
	entry := KVEntry{Key: key, Value: datatypes.JSON(value)}
	return p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

// Delete removes key. Deleting a missing key is not an error.
func (p *PostgresBackend) Delete(ctx context.Context, key string) error {
	return p.db.WithContext(ctx).Delete(&KVEntry{}, "key = ?", key).Error
}

// Close releases the underlying connection
func (p *PostgresBackend) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
