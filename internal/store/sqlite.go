package store

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	_ "github.com/glebarez/go-sqlite"
	"xorm.io/xorm"

	"ima-data/internal/model"
)

// DriverName is the database/sql name registered by the pure-Go SQLite driver.
const DriverName = "sqlite"

// insertChunk keeps one INSERT under SQLite's 999 bound-variable limit (18 columns per row).
const insertChunk = 50

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var storedTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05-07:00",
	"2006-01-02",
}

// Store is the embedded SQLite database holding one table per dataset.
type Store struct {
	engine *xorm.Engine
}

// Open opens (or creates) the SQLite file at path.
func Open(path string) (*Store, error) {
	engine, err := xorm.NewEngine(DriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	engine.DatabaseTZ = time.UTC
	engine.TZLocation = time.UTC
	engine.SetMaxOpenConns(1)
	return &Store{engine: engine}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.engine.Close()
}

// ValidateTableName rejects names that cannot be used unquoted as an identifier.
func ValidateTableName(table string) error {
	if !tableNamePattern.MatchString(table) {
		return fmt.Errorf("invalid table name %q", table)
	}
	return nil
}

// MaxReferenceDate returns the latest reference date stored in table.
// ok is false when the table holds no rows. A missing table is an error.
func (s *Store) MaxReferenceDate(ctx context.Context, table string) (t time.Time, ok bool, err error) {
	if err := ValidateTableName(table); err != nil {
		return time.Time{}, false, err
	}
	col := model.ColDataReferencia
	query := fmt.Sprintf("SELECT MAX(%s) AS %s FROM %s", col, col, s.engine.Quote(table))
	rows, err := s.engine.Context(ctx).QueryString(query)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("max %s from %s: %w", col, table, err)
	}
	if len(rows) == 0 || strings.TrimSpace(rows[0][col]) == "" {
		return time.Time{}, false, nil
	}
	t, err = parseStoredTime(rows[0][col])
	if err != nil {
		return time.Time{}, false, fmt.Errorf("max %s from %s: %w", col, table, err)
	}
	return t, true, nil
}

func parseStoredTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range storedTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized stored time %q", s)
}

// Append inserts records into table inside a single transaction, creating the table
// when it does not exist. Existing rows are never touched.
func (s *Store) Append(ctx context.Context, table string, records []model.IndexRecord) (int64, error) {
	if err := ValidateTableName(table); err != nil {
		return 0, err
	}
	if err := s.engine.Context(ctx).Table(table).Sync2(new(model.IndexRecord)); err != nil {
		return 0, fmt.Errorf("create table %s: %w", table, err)
	}
	if len(records) == 0 {
		return 0, nil
	}

	session := s.engine.NewSession().Context(ctx)
	defer session.Close()
	if err := session.Begin(); err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}

	var inserted int64
	for start := 0; start < len(records); start += insertChunk {
		end := min(start+insertChunk, len(records))
		chunk := records[start:end]
		n, err := session.Table(table).Insert(&chunk)
		if err != nil {
			_ = session.Rollback()
			return 0, fmt.Errorf("insert into %s: %w", table, err)
		}
		inserted += n
	}
	if err := session.Commit(); err != nil {
		return 0, fmt.Errorf("commit %s: %w", table, err)
	}
	return inserted, nil
}

// Count returns the number of rows in table. A run logs it after each month append.
func (s *Store) Count(ctx context.Context, table string) (int64, error) {
	if err := ValidateTableName(table); err != nil {
		return 0, err
	}
	return s.engine.Context(ctx).Table(table).Count()
}
