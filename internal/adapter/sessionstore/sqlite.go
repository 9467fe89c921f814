package sessionstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pressly/goose/v3"

	"github.com/aldric144/g3ti-rtcc-platform-sub008/internal/domain"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const sessionsTable = "client_sessions"

const upsertSuffix = "ON CONFLICT (storage_key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at"

// SQLite stores the record in a local SQLite database.
type SQLite struct {
	key string
	db  *sql.DB
	qb  sq.StatementBuilderType
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(ctx context.Context, path, key string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sessionstore: open sqlite %s: %w", path, err)
	}
	if err := migrate(ctx, goose.DialectSQLite3, db, "sqlite"); err != nil {
		db.Close()
		return nil, err
	}
	// A single connection serializes writers; SQLite allows one at a time anyway.
	db.SetMaxOpenConns(1)
	return NewSQLite(db, key), nil
}

// NewSQLite wraps an already opened database. Call OpenSQLite to also apply the migrations.
func NewSQLite(db *sql.DB, key string) *SQLite {
	return &SQLite{
		key: key,
		db:  db,
		qb:  sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}
}

func (s *SQLite) Load(ctx context.Context) (*domain.PersistedSession, error) {
	query, args, err := s.qb.Select("payload").From(sessionsTable).Where(sq.Eq{"storage_key": s.key}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("sessionstore: build select: %w", err)
	}

	var payload string
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("sessionstore: select: %w", err)
	}
	return Decode(s.key, []byte(payload))
}

func (s *SQLite) Save(ctx context.Context, rec *domain.PersistedSession) error {
	raw, err := Encode(s.key, rec)
	if err != nil {
		return err
	}

	query, args, err := s.qb.Insert(sessionsTable).
		Columns("storage_key", "payload", "updated_at").
		Values(s.key, string(raw), time.Now().UTC()).
		Suffix(upsertSuffix).
		ToSql()
	if err != nil {
		return fmt.Errorf("sessionstore: build upsert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("sessionstore: upsert: %w", err)
	}
	return nil
}

func (s *SQLite) Clear(ctx context.Context) error {
	query, args, err := s.qb.Delete(sessionsTable).Where(sq.Eq{"storage_key": s.key}).ToSql()
	if err != nil {
		return fmt.Errorf("sessionstore: build delete: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("sessionstore: delete: %w", err)
	}
	return nil
}

func (s *SQLite) Close() error { return s.db.Close() }
