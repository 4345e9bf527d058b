// Package sqlite implements the device-local key-value store on SQLite via gorm.
package sqlite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"tracker/internal/adapter/kvcodec"
	"tracker/internal/domain"
)

// KVEntry is the row model of the kv_entries table.
type KVEntry struct {
	ID        uint
	Key       string `gorm:"uniqueIndex;not null"`
	Kind      string `gorm:"not null"`
	Value     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName pins the table name used by gorm.
func (KVEntry) TableName() string {
	return "kv_entries"
}

// DB wraps a *gorm.DB and implements domain.KeyValueStore.
type DB struct {
	kvcodec.Typed

	gorm *gorm.DB
}

var _ domain.KeyValueStore = (*DB)(nil)

// Open opens (or creates) the SQLite database at path and migrates it.
// logQueries turns on gorm's statement logging.
func Open(path string, logQueries bool) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	cfg := &gorm.Config{Logger: gormlogger.Discard}
	if logQueries {
		cfg.Logger = gormlogger.Default.LogMode(gormlogger.Info)
	}
	g, err := gorm.Open(sqlite.Open(path+"?_busy_timeout=5000&_journal_mode=WAL"), cfg)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	sqlDB, err := g.DB()
	if err != nil {
		return nil, err
	}
	// SQLite allows a single writer.
	sqlDB.SetMaxOpenConns(1)

	if err := g.AutoMigrate(&KVEntry{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	d := &DB{gorm: g}
	d.Typed = kvcodec.Typed{Raw: d}
	return d, nil
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	sqlDB, err := d.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Load returns the entry stored under key.
func (d *DB) Load(ctx context.Context, key string) (kvcodec.Entry, bool, error) {
	var row KVEntry
	res := d.gorm.WithContext(ctx).Where("key = ?", key).Limit(1).Find(&row)
	if res.Error != nil {
		return kvcodec.Entry{}, false, res.Error
	}
	if res.RowsAffected == 0 {
		return kvcodec.Entry{}, false, nil
	}
	return kvcodec.Entry{Key: row.Key, Kind: domain.Kind(row.Kind), Value: row.Value}, true, nil
}

// Save upserts an entry.
func (d *DB) Save(ctx context.Context, e kvcodec.Entry) error {
	row := KVEntry{Key: e.Key, Kind: string(e.Kind), Value: e.Value}
	return d.gorm.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"kind", "value", "updated_at"}),
	}).Create(&row).Error
}

// Delete removes an entry by key.
func (d *DB) Delete(ctx context.Context, key string) error {
	return d.gorm.WithContext(ctx).Where("key = ?", key).Delete(&KVEntry{}).Error
}
