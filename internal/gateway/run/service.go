// Package run drives one questionnaire submission through validation,
// generation and delivery, recording progress for the client channel and
// the debug endpoint.
package run

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"adapterforge/internal/delivery"
	"adapterforge/internal/gateway/identity"
	"adapterforge/internal/gateway/repository/archive"
	"adapterforge/internal/generator"
	"adapterforge/internal/schema"
)

const (
	// completedRunRetention keeps finished runs visible to the debug
	// endpoint for a while before they are dropped.
	completedRunRetention = 30 * time.Minute
	// defaultStallLimit aborts a run whose pipeline stops emitting.
	defaultStallLimit = 2 * time.Minute
)

// GitHubFactory builds the remote-repository deliverer for one run. Tests
// swap in a fake pointing at a local host.
type GitHubFactory func(user *identity.User, repoName string) (delivery.Deliverer, error)

// StartRequest is one client submission.
type StartRequest struct {
	Answers schema.Answers
	Target  delivery.Target
	User    *identity.User
}

// Outcome is the terminal result of a successful run.
type Outcome struct {
	RunID string
	Link  string
}

// Service executes runs. All dependencies are injected; nil optional ones
// degrade to sane defaults (memory archive store, direct host access).
type Service struct {
	schema *schema.Schema
	gen    *generator.Generator
	store  archive.Store
	github GitHubFactory

	stallLimit time.Duration
	now        func() time.Time
	newRunID   func() string

	mu   sync.RWMutex
	runs map[string]*Run
}

type Options struct {
	Schema     *schema.Schema
	Store      archive.Store
	GitHub     GitHubFactory
	StallLimit time.Duration
}

func NewService(opts Options) *Service {
	s := &Service{
		schema:     opts.Schema,
		gen:        generator.New(),
		store:      opts.Store,
		github:     opts.GitHub,
		stallLimit: opts.StallLimit,
		now:        time.Now,
		newRunID:   func() string { return fmt.Sprintf("run-%d", time.Now().UnixNano()) },
		runs:       make(map[string]*Run),
	}
	if s.schema == nil {
		s.schema = schema.Default()
	}
	if s.store == nil {
		s.store = archive.NewMemoryStore(archive.DefaultTTL)
	}
	if s.github == nil {
		s.github = func(user *identity.User, repoName string) (delivery.Deliverer, error) {
			return delivery.NewGitHubDeliverer(user, delivery.GitHubOptions{RepoName: repoName})
		}
	}
	if s.stallLimit <= 0 {
		s.stallLimit = defaultStallLimit
	}
	return s
}

// Schema exposes the questionnaire the service validates against.
func (s *Service) Schema() *schema.Schema { return s.schema }

// Execute runs one submission to completion, streaming progress lines to
// sink. It blocks until the run reaches a terminal state and returns the
// outcome or the first error. Credential checks run strictly before the
// pipeline so an unauthorized run emits no generation logs.
func (s *Service) Execute(ctx context.Context, req StartRequest, sink generator.Emitter) (Outcome, error) {
	r := newRun(s.newRunID(), string(req.Target), s.now())
	s.register(r)
	defer s.scheduleCleanup(r.ID)

	emit := fanOut{sink, r}
	// failQuiet records the terminal error without emitting it; used when
	// the failing component already pushed its own red line.
	failQuiet := func(err error) (Outcome, error) {
		r.finish(StateFailed, "", err.Error(), s.now())
		log.Printf("[run] %s failed: %v", r.ID, err)
		return Outcome{RunID: r.ID}, err
	}
	fail := func(err error) (Outcome, error) {
		emit.Log(err.Error(), "red")
		return failQuiet(err)
	}

	answers := req.Answers.Clone()
	env := schema.Env{}
	if res := schema.Validate(s.schema, answers, env); !res.OK {
		return fail(fmt.Errorf("answer %q rejected: %s", res.QuestionID, res.Reason))
	}
	answers = s.schema.ResolveDefaults(answers, env)

	name, _ := answers.String("adapterName")
	deliverer, err := s.deliverer(req, name)
	if err != nil {
		return fail(err)
	}
	if err := deliverer.Authorize(ctx); err != nil {
		return fail(err)
	}

	r.setState(StateGenerating)
	genCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	watched := newStallWatch(&emit, s.stallLimit, cancel)
	defer watched.stop()

	tree, err := s.gen.Generate(generator.WithEmitter(genCtx, watched), answers)
	if err != nil {
		if watched.stalled() {
			return fail(fmt.Errorf("generation stalled for %s: %w", s.stallLimit, err))
		}
		// The generator emits stage failures itself; a second red line
		// here would duplicate it.
		return failQuiet(err)
	}

	r.setState(StateDelivering)
	link, err := deliverer.Deliver(generator.WithEmitter(genCtx, watched), r.ID, tree)
	if err != nil {
		if watched.stalled() {
			return fail(fmt.Errorf("delivery stalled for %s: %w", s.stallLimit, err))
		}
		return fail(fmt.Errorf("deliver: %w", err))
	}

	emit.Log("All done! Your adapter is ready.", "green")
	r.finish(StateSucceeded, link, "", s.now())
	log.Printf("[run] %s succeeded (%s)", r.ID, req.Target)
	return Outcome{RunID: r.ID, Link: link}, nil
}

func (s *Service) deliverer(req StartRequest, adapterName string) (delivery.Deliverer, error) {
	switch req.Target {
	case delivery.TargetZip:
		return delivery.NewZipDeliverer(s.store, ""), nil
	case delivery.TargetGitHub:
		if req.User == nil || strings.TrimSpace(req.User.Token) == "" {
			return nil, fmt.Errorf("%w: sign in before choosing repository delivery", delivery.ErrUnauthorized)
		}
		return s.github(req.User, "ioBroker."+adapterName)
	}
	return nil, fmt.Errorf("unknown delivery target %q", req.Target)
}

func (s *Service) register(r *Run) {
	s.mu.Lock()
	s.runs[r.ID] = r
	s.mu.Unlock()
}

func (s *Service) scheduleCleanup(runID string) {
	time.AfterFunc(completedRunRetention, func() {
		s.mu.Lock()
		delete(s.runs, runID)
		s.mu.Unlock()
	})
}

// Get returns a live run record.
func (s *Service) Get(runID string) (*Run, bool) {
	s.mu.RLock()
	r, ok := s.runs[runID]
	s.mu.RUnlock()
	return r, ok
}

// Recent snapshots retained runs, newest first.
func (s *Service) Recent() []View {
	s.mu.RLock()
	views := make([]View, 0, len(s.runs))
	for _, r := range s.runs {
		views = append(views, r.View())
	}
	s.mu.RUnlock()
	sort.Slice(views, func(i, j int) bool { return views[i].Started.After(views[j].Started) })
	return views
}

// fanOut duplicates emitted lines to every member.
type fanOut []generator.Emitter

func (f fanOut) Log(text, color string) {
	for _, e := range f {
		if e != nil {
			e.Log(text, color)
		}
	}
}

// stallWatch cancels the run when the pipeline goes quiet for too long.
// Every emitted line arms the timer again.
type stallWatch struct {
	next  generator.Emitter
	limit time.Duration
	timer *time.Timer

	mu    sync.Mutex
	fired bool
}

func newStallWatch(next generator.Emitter, limit time.Duration, cancel context.CancelFunc) *stallWatch {
	w := &stallWatch{next: next, limit: limit}
	w.timer = time.AfterFunc(limit, func() {
		w.mu.Lock()
		w.fired = true
		w.mu.Unlock()
		cancel()
	})
	return w
}

func (w *stallWatch) Log(text, color string) {
	w.mu.Lock()
	if !w.fired {
		w.timer.Reset(w.limit)
	}
	w.mu.Unlock()
	w.next.Log(text, color)
}

func (w *stallWatch) stalled() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fired
}

func (w *stallWatch) stop() {
	w.timer.Stop()
}
