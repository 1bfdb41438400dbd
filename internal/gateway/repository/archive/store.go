// Package archive persists generated project archives for the duration of
// their download window. Blobs are run-scoped and transient: every store
// enforces a TTL and nothing survives past it.
package archive

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned for a missing or expired archive.
var ErrNotFound = errors.New("archive not found")

// Store defines operations for stashing run archives.
type Store interface {
	// Put stores the archive blob for a run under the given file name.
	Put(ctx context.Context, runID, name string, content []byte) error
	// Get returns the blob, or ErrNotFound once expired.
	Get(ctx context.Context, runID, name string) ([]byte, error)
	// GetURL returns a time-limited direct download URL, or "" when the
	// backend cannot presign and the gateway must serve the bytes itself.
	GetURL(ctx context.Context, runID, name string) (string, error)
	// PurgeExpired drops blobs past their TTL and reports how many.
	PurgeExpired(ctx context.Context) (int, error)
}

// DefaultTTL bounds how long a download locator stays valid.
const DefaultTTL = time.Hour
