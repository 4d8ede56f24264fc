// Package postgres provides the Postgres-backed bookmark store.
package postgres

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mquillen/summark/internal/storage"
)

var validTableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Config controls the Postgres connection pool used for bookmark rows.
type Config struct {
	DSN             string
	Table           string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Close()
}

// Store writes and reads bookmark rows in Postgres.
type Store struct {
	pool  pgxQuerier
	table string
}

// NewStore creates a Postgres-backed Store using the provided config.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("storage.dsn is required")
	}
	table := cfg.Table
	if table == "" {
		table = "bookmarks"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &Store{pool: pool, table: table}, nil
}

// NewStoreWithPool constructs a Store from an existing pool (primarily
// for testing).
func NewStoreWithPool(pool pgxQuerier, table string) (*Store, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	if table == "" {
		table = "bookmarks"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &Store{pool: pool, table: table}, nil
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

// Save inserts a bookmark row.
func (s *Store) Save(ctx context.Context, b storage.Bookmark) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("bookmark store is not configured")
	}
	if b.ID == "" {
		return fmt.Errorf("bookmark id is required")
	}
	query := fmt.Sprintf(`
INSERT INTO %s (
	id,
	source_text,
	summary,
	text_kind,
	source_url,
	resolved_url,
	tweet_id,
	tweet_author_id,
	tweet_created_at,
	thread_count,
	created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`, s.table)

	var tweetCreatedAt any
	if !b.TweetCreatedAt.IsZero() {
		tweetCreatedAt = b.TweetCreatedAt
	}
	_, err := s.pool.Exec(ctx, query,
		b.ID,
		b.SourceText,
		b.Summary,
		b.TextKind,
		b.SourceURL,
		b.ResolvedURL,
		b.TweetID,
		b.TweetAuthorID,
		tweetCreatedAt,
		b.ThreadCount,
		b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert bookmark: %w", err)
	}
	return nil
}

// List returns up to limit bookmarks ordered by recency.
func (s *Store) List(ctx context.Context, limit int) ([]storage.Bookmark, error) {
	if s == nil || s.pool == nil {
		return nil, fmt.Errorf("bookmark store is not configured")
	}
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(`
SELECT
	id,
	source_text,
	summary,
	text_kind,
	source_url,
	resolved_url,
	tweet_id,
	tweet_author_id,
	tweet_created_at,
	thread_count,
	created_at
FROM %s
ORDER BY created_at DESC
LIMIT $1`, s.table)

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query bookmarks: %w", err)
	}
	defer rows.Close()

	var out []storage.Bookmark
	for rows.Next() {
		var b storage.Bookmark
		var tweetCreatedAt *time.Time
		if err := rows.Scan(
			&b.ID,
			&b.SourceText,
			&b.Summary,
			&b.TextKind,
			&b.SourceURL,
			&b.ResolvedURL,
			&b.TweetID,
			&b.TweetAuthorID,
			&tweetCreatedAt,
			&b.ThreadCount,
			&b.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan bookmark row: %w", err)
		}
		if tweetCreatedAt != nil {
			b.TweetCreatedAt = *tweetCreatedAt
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookmark rows: %w", err)
	}
	return out, nil
}
