// Package catalog implements the FingerprintStore capability — insert, scan,
// delete — and the Matcher that ranks candidates against it.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/acousticdna/acousticdna/internal/fingerprint"
	"github.com/acousticdna/acousticdna/internal/pipeline"
	applog "github.com/acousticdna/acousticdna/pkg/logger"
)

// DefaultDBFile is the default SQLite catalog path when none is configured.
const DefaultDBFile = "acousticdna.sqlite3"

// Entry is a persisted (id, title, artist, fingerprint) catalog record.
type Entry struct {
	ID          string
	Title       string
	Artist      string
	Fingerprint fingerprint.Fingerprint
}

// song is the GORM row: a fingerprint is stored as its structurally typed
// record {hashes, duration}, JSON-encoded, so it round-trips losslessly
// regardless of how many hashes it carries.
type song struct {
	ID              string `gorm:"primaryKey"`
	Title           string `gorm:"index:idx_catalog_meta,priority:1"`
	Artist          string `gorm:"index:idx_catalog_meta,priority:2"`
	FingerprintData string `gorm:"type:text"`
	DurationSec     float64
	CreatedAt       time.Time
}

type fingerprintEnvelope struct {
	Hashes      []uint32 `json:"hashes"`
	DurationSec float64  `json:"duration"`
}

// Store is a GORM/SQLite-backed FingerprintStore.
type Store struct {
	db  *gorm.DB
	sql *sql.DB
}

// Open creates or opens the SQLite catalog at dbPath and runs migrations.
func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		dbPath = DefaultDBFile
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating catalog dir: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dbPath+"?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite catalog: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB from gorm: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&song{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	return &Store{db: db, sql: sqlDB}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.sql == nil {
		return nil
	}
	return s.sql.Close()
}

// Insert persists a new catalog entry and returns a fresh unique id.
func (s *Store) Insert(ctx context.Context, title, artist string, fp fingerprint.Fingerprint) (string, error) {
	data, err := json.Marshal(fingerprintEnvelope{Hashes: fp.Hashes, DurationSec: fp.DurationSec})
	if err != nil {
		return "", pipeline.NewStoreError("encoding fingerprint", err)
	}

	row := song{
		ID:              uuid.NewString(),
		Title:           title,
		Artist:          artist,
		FingerprintData: string(data),
		DurationSec:     fp.DurationSec,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", pipeline.NewStoreError("inserting catalog entry", err)
	}
	return row.ID, nil
}

// Scan enumerates all catalog entries. Order is unspecified but stable
// within a single scan. Entries whose fingerprint fails to deserialize are
// skipped by Scan itself, with a warning logged; they do not fail the scan.
func (s *Store) Scan(ctx context.Context) ([]Entry, error) {
	var rows []song
	if err := s.db.WithContext(ctx).Order("created_at").Find(&rows).Error; err != nil {
		return nil, pipeline.NewStoreError("scanning catalog", err)
	}

	entries := make([]Entry, 0, len(rows))
	for _, r := range rows {
		var env fingerprintEnvelope
		if err := json.Unmarshal([]byte(r.FingerprintData), &env); err != nil {
			// Corrupt stored fingerprint: skip, do not fail the scan.
			applog.GetLogger().Warnf("skipping catalog entry %s: corrupt stored fingerprint: %v", r.ID, err)
			continue
		}
		entries = append(entries, Entry{
			ID:     r.ID,
			Title:  r.Title,
			Artist: r.Artist,
			Fingerprint: fingerprint.Fingerprint{
				Hashes:      env.Hashes,
				DurationSec: env.DurationSec,
			},
		})
	}
	return entries, nil
}

// Delete removes the entry with the given id, reporting whether it existed.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&song{}, "id = ?", id)
	if res.Error != nil {
		return false, pipeline.NewStoreError("deleting catalog entry", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Get fetches a single entry by id.
func (s *Store) Get(ctx context.Context, id string) (Entry, bool, error) {
	var r song
	err := s.db.WithContext(ctx).First(&r, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, pipeline.NewStoreError("fetching catalog entry", err)
	}
	var env fingerprintEnvelope
	if err := json.Unmarshal([]byte(r.FingerprintData), &env); err != nil {
		return Entry{}, false, pipeline.NewStoreError("decoding stored fingerprint", err)
	}
	return Entry{
		ID:     r.ID,
		Title:  r.Title,
		Artist: r.Artist,
		Fingerprint: fingerprint.Fingerprint{
			Hashes:      env.Hashes,
			DurationSec: env.DurationSec,
		},
	}, true, nil
}

// Count returns the number of persisted catalog entries.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&song{}).Count(&n).Error; err != nil {
		return 0, pipeline.NewStoreError("counting catalog entries", err)
	}
	return n, nil
}
