package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"adapterforge/internal/gateway/config"
	"adapterforge/internal/gateway/repository/archive"
)

// initArchiveStore picks the archive backend: S3 when an endpoint is
// configured, Postgres when a database is, process memory otherwise.
func initArchiveStore(cfg *config.Config) (archive.Store, error) {
	if cfg.Archive.Enabled {
		store, err := archive.NewS3Store(archive.S3Config{
			Endpoint:  cfg.Archive.Endpoint,
			Region:    cfg.Archive.Region,
			AccessKey: cfg.Archive.AccessKey,
			SecretKey: cfg.Archive.SecretKey,
			Bucket:    cfg.Archive.Bucket,
			UseSSL:    cfg.Archive.UseSSL,
			TTL:       cfg.Archive.TTL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize archive s3 store: %w", err)
		}
		log.Printf("archive store: s3 bucket=%s endpoint=%s", cfg.Archive.Bucket, cfg.Archive.Endpoint)
		return store, nil
	}
	if dsn := strings.TrimSpace(cfg.DatabaseURL); dsn != "" {
		store, err := archive.NewPostgresStore(dsn, cfg.Archive.TTL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize archive postgres store: %w", err)
		}
		log.Printf("archive store: postgres")
		return store, nil
	}
	log.Printf("archive store: in-memory")
	return archive.NewMemoryStore(cfg.Archive.TTL), nil
}

// startJanitor purges expired archives until ctx is done. The sweep
// interval tracks the TTL so nothing outlives it by much.
func startJanitor(ctx context.Context, store archive.Store, ttl time.Duration) {
	interval := ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := store.PurgeExpired(ctx)
				if err != nil {
					log.Printf("[janitor] purge failed: %v", err)
					continue
				}
				if n > 0 {
					log.Printf("[janitor] purged %d expired archives", n)
				}
			}
		}
	}()
}
