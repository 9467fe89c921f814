package sessionstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/aldric144/g3ti-rtcc-platform-sub008/internal/domain"
)

// Postgres stores the record in a shared PostgreSQL table, for fleets of
// kiosks that roam between workstations.
type Postgres struct {
	key  string
	pool *pgxpool.Pool
	qb   sq.StatementBuilderType
}

// OpenPostgres connects to dsn, pings, applies the embedded migrations and
// returns the store. Close releases the pool.
func OpenPostgres(ctx context.Context, dsn, key string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("sessionstore: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("sessionstore: ping database: %w", err)
	}
	if err := Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return NewPostgres(pool, key), nil
}

// NewPostgres wraps an existing pool whose schema is already migrated.
func NewPostgres(pool *pgxpool.Pool, key string) *Postgres {
	return &Postgres{
		key:  key,
		pool: pool,
		qb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Migrate applies the embedded goose migrations to the pool's database.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()
	return migrate(ctx, goose.DialectPostgres, db, "postgres")
}

func (p *Postgres) Load(ctx context.Context) (*domain.PersistedSession, error) {
	query, args, err := p.qb.Select("payload").From(sessionsTable).Where(sq.Eq{"storage_key": p.key}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("sessionstore: build select: %w", err)
	}

	var payload []byte
	if err := p.pool.QueryRow(ctx, query, args...).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("sessionstore: select: %w", err)
	}
	return Decode(p.key, payload)
}

func (p *Postgres) Save(ctx context.Context, rec *domain.PersistedSession) error {
	raw, err := Encode(p.key, rec)
	if err != nil {
		return err
	}

	query, args, err := p.qb.Insert(sessionsTable).
		Columns("storage_key", "payload", "updated_at").
		Values(p.key, string(raw), time.Now().UTC()).
		Suffix(upsertSuffix).
		ToSql()
	if err != nil {
		return fmt.Errorf("sessionstore: build upsert: %w", err)
	}
	if _, err := p.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("sessionstore: upsert: %w", err)
	}
	return nil
}

func (p *Postgres) Clear(ctx context.Context) error {
	query, args, err := p.qb.Delete(sessionsTable).Where(sq.Eq{"storage_key": p.key}).ToSql()
	if err != nil {
		return fmt.Errorf("sessionstore: build delete: %w", err)
	}
	if _, err := p.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("sessionstore: delete: %w", err)
	}
	return nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
