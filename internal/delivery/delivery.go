// Package delivery turns a finished file tree into a locator the client
// can follow: a time-limited archive download or the URL of a freshly
// created remote repository. Target-specific authorization lives here.
package delivery

import (
	"context"
	"errors"
	"fmt"

	"adapterforge/internal/generator"
)

// Target selects the delivery branch. Values match the wire contract.
type Target string

const (
	TargetZip    Target = "zip"
	TargetGitHub Target = "github"
)

// ParseTarget validates a wire target string.
func ParseTarget(s string) (Target, error) {
	switch Target(s) {
	case TargetZip, TargetGitHub:
		return Target(s), nil
	}
	return "", fmt.Errorf("unknown delivery target %q", s)
}

// ErrUnauthorized marks a missing or under-scoped credential. Clients
// should re-authenticate rather than retry generation.
var ErrUnauthorized = errors.New("delivery not authorized")

// Deliverer finalizes one generation run.
type Deliverer interface {
	// Authorize fails fast when the target's preconditions are not met.
	// Called strictly before pipeline execution so no generation work is
	// wasted on a run that could never be delivered.
	Authorize(ctx context.Context) error
	// Deliver uploads or stores the tree and returns the locator.
	Deliver(ctx context.Context, runID string, tree *generator.Tree) (string, error)
}
