// Package cache is a small sqlite-backed compilation cache keyed by
// the content hash of a source file, storing the emitted C text and
// accumulated diagnostics of a prior compilation so that `aethc build`
// can skip recompiling an unchanged source, adapted from the teacher's
// db/sqlite.go connection setup and models/models.go record shape.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"database/sql/driver"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	libsql "github.com/tursodatabase/libsql-client-go/libsql"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	_ "github.com/glebarez/sqlite" // registers the pure-Go "sqlite" driver; Open does not select it
)

// Entry is one cached compilation result, keyed by (SourceDigest,
// CompilerVer, Target, OptLevel).
type Entry struct {
	ID            uint           `gorm:"primaryKey"`
	SourceDigest  string         `gorm:"type:varchar(64);uniqueIndex:idx_cache_key"`
	CompilerVer   string         `gorm:"type:varchar(64);uniqueIndex:idx_cache_key"`
	Target        string         `gorm:"type:varchar(100);uniqueIndex:idx_cache_key"`
	OptLevel      int            `gorm:"uniqueIndex:idx_cache_key"`
	CText         string         `gorm:"type:text"`
	Diagnostics   datatypes.JSON `gorm:"type:jsonb"`
	HadFatalError bool
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (Entry) TableName() string { return "cache_entries" }

// Cache wraps a gorm connection over the sqlite (or libsql) backend.
type Cache struct {
	db *gorm.DB
}

// Open connects to dsn, creating the parent directory for a
// file-based DSN, and migrates the Entry schema. A dsn beginning with
// "libsql:", "http://" or "https://" is routed to the remote libsql
// driver, matching the teacher's isURL(dsn) branch in db/sqlite.go;
// anything else opens a local sqlite file through gorm.io/driver/sqlite.
func Open(dsn string) (*Cache, error) {
	if !isURL(dsn) {
		if dir := filepath.Dir(dsn); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("aethc cache: creating cache directory: %w", err)
			}
		}
	}

	var (
		dialector gorm.Dialector
		conn      *sql.DB
	)
	if isURL(dsn) {
		var (
			connector driver.Connector
			err       error
		)
		if token := os.Getenv("AETHC_CACHE_AUTH_TOKEN"); token != "" {
			connector, err = libsql.NewConnector(dsn, libsql.WithAuthToken(token))
		} else {
			connector, err = libsql.NewConnector(dsn)
		}
		if err != nil {
			return nil, fmt.Errorf("aethc cache: creating libsql connector: %w", err)
		}
		conn = sql.OpenDB(connector)
		dialector = sqlite.New(sqlite.Config{DriverName: "libsql", Conn: conn, DSN: dsn})
	} else {
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		if conn != nil {
			conn.Close()
		}
		return nil, fmt.Errorf("aethc cache: connecting: %w", err)
	}

	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("aethc cache: migrating: %w", err)
	}

	return &Cache{db: db}, nil
}

func isURL(dsn string) bool {
	return strings.HasPrefix(dsn, "http://") || strings.HasPrefix(dsn, "https://") || strings.HasPrefix(dsn, "libsql:")
}

// Digest computes the cache key for a source file's contents.
func Digest(src string) string {
	h := sha256.Sum256([]byte(src))
	return hex.EncodeToString(h[:])
}

// Lookup returns the cached entry for a (source digest, compiler
// version, target, opt level) tuple, or nil if absent.
func (c *Cache) Lookup(digest, compilerVer, target string, optLevel int) (*Entry, error) {
	var e Entry
	err := c.db.Where("source_digest = ? AND compiler_ver = ? AND target = ? AND opt_level = ?",
		digest, compilerVer, target, optLevel).First(&e).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

// Store upserts a compilation result keyed by its source digest,
// compiler version, target, and opt level.
func (c *Cache) Store(digest, compilerVer, target string, optLevel int, cText string, diagnostics any, hadFatal bool) error {
	blob, err := json.Marshal(diagnostics)
	if err != nil {
		return fmt.Errorf("aethc cache: marshaling diagnostics: %w", err)
	}

	entry := Entry{
		SourceDigest:  digest,
		CompilerVer:   compilerVer,
		Target:        target,
		OptLevel:      optLevel,
		CText:         cText,
		Diagnostics:   datatypes.JSON(blob),
		HadFatalError: hadFatal,
	}

	return c.db.Where("source_digest = ? AND compiler_ver = ? AND target = ? AND opt_level = ?",
		digest, compilerVer, target, optLevel).
		Assign(entry).
		FirstOrCreate(&Entry{}).Error
}

// Close releases the underlying sql.DB connection.
func (c *Cache) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
