package run

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adapterforge/internal/delivery"
	"adapterforge/internal/gateway/identity"
	"adapterforge/internal/gateway/repository/archive"
	"adapterforge/internal/generator"
	"adapterforge/internal/schema"
)

func startRequest(target delivery.Target) StartRequest {
	return StartRequest{
		Answers: schema.Answers{
			"expert":      "yes",
			"cli":         false,
			"adapterName": "foo",
		},
		Target: target,
	}
}

type fakeDeliverer struct {
	authorizeErr error
	link         string
	delivered    bool
	hang         bool
	tree         *generator.Tree
}

func (f *fakeDeliverer) Authorize(context.Context) error { return f.authorizeErr }

func (f *fakeDeliverer) Deliver(ctx context.Context, _ string, tree *generator.Tree) (string, error) {
	if f.hang {
		<-ctx.Done()
		return "", ctx.Err()
	}
	f.delivered = true
	f.tree = tree
	return f.link, nil
}

func TestExecuteArchiveRunSucceedsWithoutCredential(t *testing.T) {
	store := archive.NewMemoryStore(time.Hour)
	svc := NewService(Options{Store: store})

	rec := &generator.CollectEmitter{}
	out, err := svc.Execute(context.Background(), startRequest(delivery.TargetZip), rec)
	require.NoError(t, err)
	require.NotEmpty(t, out.RunID)
	assert.Equal(t, "/download/"+out.RunID+"/adapter.zip", out.Link)

	blob, err := store.Get(context.Background(), out.RunID, "adapter.zip")
	require.NoError(t, err)
	assert.NotEmpty(t, blob)

	// At least one stage line arrives before the terminal line, and the
	// terminal line is last.
	require.NotEmpty(t, rec.Lines)
	assert.True(t, strings.HasPrefix(rec.Lines[0].Text, "Generating"))
	last := rec.Lines[len(rec.Lines)-1]
	assert.Equal(t, "green", last.Color)

	r, ok := svc.Get(out.RunID)
	require.True(t, ok)
	assert.Equal(t, StateSucceeded, r.State())
}

func TestExecuteRejectsInvalidAnswers(t *testing.T) {
	svc := NewService(Options{})

	req := startRequest(delivery.TargetZip)
	delete(req.Answers, "adapterName")

	rec := &generator.CollectEmitter{}
	_, err := svc.Execute(context.Background(), req, rec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "adapterName")

	// The only line is the red failure; the pipeline never ran.
	require.Len(t, rec.Lines, 1)
	assert.Equal(t, "red", rec.Lines[0].Color)
}

func TestExecuteGitHubWithoutIdentityFailsBeforePipeline(t *testing.T) {
	var factoryCalled bool
	svc := NewService(Options{
		GitHub: func(*identity.User, string) (delivery.Deliverer, error) {
			factoryCalled = true
			return &fakeDeliverer{}, nil
		},
	})

	req := startRequest(delivery.TargetGitHub)
	req.User = nil

	rec := &generator.CollectEmitter{}
	_, err := svc.Execute(context.Background(), req, rec)
	require.ErrorIs(t, err, delivery.ErrUnauthorized)
	assert.False(t, factoryCalled)

	for _, line := range rec.Lines {
		assert.NotContains(t, line.Text, "Generating", "no stage log may precede authorization")
	}

	views := svc.Recent()
	require.NotEmpty(t, views)
	assert.Equal(t, StateFailed, views[0].State)
}

func TestExecuteGitHubAuthorizeFailureSkipsGeneration(t *testing.T) {
	fake := &fakeDeliverer{authorizeErr: delivery.ErrUnauthorized}
	svc := NewService(Options{
		GitHub: func(*identity.User, string) (delivery.Deliverer, error) { return fake, nil },
	})

	req := startRequest(delivery.TargetGitHub)
	req.User = &identity.User{Token: "under-scoped"}

	rec := &generator.CollectEmitter{}
	_, err := svc.Execute(context.Background(), req, rec)
	require.ErrorIs(t, err, delivery.ErrUnauthorized)
	assert.False(t, fake.delivered)

	require.Len(t, rec.Lines, 1)
	assert.Equal(t, "red", rec.Lines[0].Color)
}

func TestExecuteGitHubDeliversTree(t *testing.T) {
	fake := &fakeDeliverer{link: "https://example.org/alice/ioBroker.foo"}
	var gotRepo string
	svc := NewService(Options{
		GitHub: func(_ *identity.User, repoName string) (delivery.Deliverer, error) {
			gotRepo = repoName
			return fake, nil
		},
	})

	req := startRequest(delivery.TargetGitHub)
	req.User = &identity.User{Token: "tok"}

	out, err := svc.Execute(context.Background(), req, &generator.CollectEmitter{})
	require.NoError(t, err)
	assert.Equal(t, "ioBroker.foo", gotRepo)
	assert.True(t, fake.delivered)
	assert.Equal(t, "https://example.org/alice/ioBroker.foo", out.Link)
}

func TestExecuteResolvesDefaultsBeforePipeline(t *testing.T) {
	fake := &fakeDeliverer{link: "https://example.org/alice/ioBroker.foo"}
	svc := NewService(Options{
		GitHub: func(*identity.User, string) (delivery.Deliverer, error) { return fake, nil },
	})

	// The wizard only sends what the user touched; everything else comes
	// from schema defaults and must reach the stages.
	req := StartRequest{
		Answers: schema.Answers{"expert": "no", "cli": false, "adapterName": "foo"},
		Target:  delivery.TargetGitHub,
		User:    &identity.User{Token: "tok"},
	}

	_, err := svc.Execute(context.Background(), req, &generator.CollectEmitter{})
	require.NoError(t, err)
	require.NotNil(t, fake.tree)

	_, hasMain := fake.tree.Lookup("src/main.ts")
	assert.True(t, hasMain, "language default must select the TypeScript scaffold")
	license, ok := fake.tree.Lookup("LICENSE")
	require.True(t, ok)
	assert.Contains(t, string(license), "Copyright (c) 2026 foo")
}

func TestExecuteStageFailureEmitsSingleRedLine(t *testing.T) {
	svc := NewService(Options{})

	req := startRequest(delivery.TargetZip)
	req.Answers["features"] = []any{}

	rec := &generator.CollectEmitter{}
	_, err := svc.Execute(context.Background(), req, rec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no feature selected")

	var reds []string
	for _, line := range rec.Lines {
		if line.Color == "red" {
			reds = append(reds, line.Text)
		}
	}
	require.Len(t, reds, 1, "a failing stage's error arrives exactly once")
	assert.Contains(t, reds[0], "no feature selected")

	last := rec.Lines[len(rec.Lines)-1]
	assert.Equal(t, "red", last.Color)
}

func TestExecuteStalledDeliveryAborts(t *testing.T) {
	fake := &fakeDeliverer{hang: true}
	svc := NewService(Options{
		GitHub:     func(*identity.User, string) (delivery.Deliverer, error) { return fake, nil },
		StallLimit: 50 * time.Millisecond,
	})

	req := startRequest(delivery.TargetGitHub)
	req.User = &identity.User{Token: "tok"}

	rec := &generator.CollectEmitter{}
	_, err := svc.Execute(context.Background(), req, rec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delivery stalled")

	views := svc.Recent()
	require.NotEmpty(t, views)
	assert.Equal(t, StateFailed, views[0].State)
}

func TestExecuteRecordsRunLog(t *testing.T) {
	svc := NewService(Options{})
	out, err := svc.Execute(context.Background(), startRequest(delivery.TargetZip), &generator.CollectEmitter{})
	require.NoError(t, err)

	r, ok := svc.Get(out.RunID)
	require.True(t, ok)
	view := r.View()
	assert.Equal(t, StateSucceeded, view.State)
	assert.NotEmpty(t, view.Lines)
	assert.Equal(t, out.Link, view.Link)
}

func TestRunStateNeverLeavesTerminal(t *testing.T) {
	r := newRun("run-1", "zip", time.Now())
	r.finish(StateFailed, "", "boom", time.Now())
	r.setState(StateGenerating)
	assert.Equal(t, StateFailed, r.State())
	r.finish(StateSucceeded, "x", "", time.Now())
	assert.Equal(t, StateFailed, r.State())
}
