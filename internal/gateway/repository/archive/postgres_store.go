package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresStore keeps archive blobs in a single table with a TTL column.
// Downloads are served by the gateway, so GetURL returns "".
type PostgresStore struct {
	db  *sql.DB
	ttl time.Duration

	schemaOnce sync.Once
	schemaErr  error

	// Hot blobs: a run's archive is usually downloaded right after it
	// was stored, so skip the round trip for recent entries.
	cache *lru.Cache[string, cachedBlob]
}

type cachedBlob struct {
	content  []byte
	storedAt time.Time
}

func NewPostgresStore(dsn string, ttl time.Duration) (*PostgresStore, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	cache, err := lru.New[string, cachedBlob](128)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &PostgresStore{db: db, ttl: ttl, cache: cache}, nil
}

func (s *PostgresStore) ensureSchema() error {
	if s == nil || s.db == nil {
		return fmt.Errorf("db is nil")
	}
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.Exec(`
CREATE TABLE IF NOT EXISTS run_archives (
    id SERIAL PRIMARY KEY,
    run_id TEXT NOT NULL,
    name TEXT NOT NULL,
    content BYTEA NOT NULL DEFAULT ''::bytea,
    size BIGINT NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
    UNIQUE(run_id, name)
);
CREATE INDEX IF NOT EXISTS idx_run_archives_created_at ON run_archives(created_at);
`)
	})
	return s.schemaErr
}

func (s *PostgresStore) Put(ctx context.Context, runID, name string, content []byte) error {
	if s == nil {
		return fmt.Errorf("store is nil")
	}
	key, err := objectKey(runID, name)
	if err != nil {
		return err
	}
	if err := s.ensureSchema(); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	if content == nil {
		content = []byte{}
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO run_archives (run_id, name, content, size)
VALUES ($1, $2, $3, $4)
ON CONFLICT (run_id, name)
DO UPDATE SET content = EXCLUDED.content, size = EXCLUDED.size, created_at = NOW()
`, strings.TrimSpace(runID), strings.TrimSpace(name), content, len(content))
	if err != nil {
		return err
	}
	s.cache.Add(key, cachedBlob{content: append([]byte(nil), content...), storedAt: time.Now()})
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, runID, name string) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("store is nil")
	}
	key, err := objectKey(runID, name)
	if err != nil {
		return nil, err
	}
	if err := s.ensureSchema(); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	if blob, ok := s.cache.Get(key); ok {
		if time.Since(blob.storedAt) < s.ttl {
			return append([]byte(nil), blob.content...), nil
		}
		s.cache.Remove(key)
	}
	var content []byte
	err = s.db.QueryRowContext(ctx, `
SELECT content FROM run_archives
WHERE run_id = $1 AND name = $2 AND created_at > NOW() - make_interval(secs => $3)
`, strings.TrimSpace(runID), strings.TrimSpace(name), s.ttl.Seconds()).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return content, nil
}

func (s *PostgresStore) GetURL(context.Context, string, string) (string, error) {
	return "", nil
}

func (s *PostgresStore) PurgeExpired(ctx context.Context) (int, error) {
	if s == nil {
		return 0, fmt.Errorf("store is nil")
	}
	if err := s.ensureSchema(); err != nil {
		return 0, fmt.Errorf("ensure schema: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
DELETE FROM run_archives WHERE created_at <= NOW() - make_interval(secs => $1)
`, s.ttl.Seconds())
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		s.cache.Purge()
	}
	return int(n), nil
}

// Close releases the underlying connection pool.
func (s *PostgresStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
