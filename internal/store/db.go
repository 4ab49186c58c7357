package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrNotFound is returned when a lookup by id matches no row.
var ErrNotFound = errors.New("store: not found")

// DecodeError reports a JSON column that could not be decoded into its Go type.
type DecodeError struct {
	Table  string
	Column string
	ID     int64
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s.%s (id %d): %v", e.Table, e.Column, e.ID, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

type Store struct {
	DB *sql.DB
}

// NewStore opens the SQLite database at path. Pragmas can be supplied with
// the usual ?_pragma= suffix; busy_timeout and the SQLite time format are
// added when absent.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	slog.Debug("Opened database", "path", path)
	return &Store{DB: db}, nil
}

func dsn(path string) string {
	var params []string
	if !strings.Contains(path, "busy_timeout") {
		params = append(params, "_pragma=busy_timeout(5000)")
	}
	if !strings.Contains(path, "_time_format") {
		params = append(params, "_time_format=sqlite")
	}
	if len(params) == 0 {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + strings.Join(params, "&")
}

func (s *Store) Close() error {
	return s.DB.Close()
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
