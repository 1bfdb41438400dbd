package run

import (
	"sync"
	"time"

	"adapterforge/internal/generator"
)

// State is the lifecycle phase of a run. Transitions only move forward:
// validating -> generating -> delivering -> succeeded | failed.
type State string

const (
	StateValidating State = "validating"
	StateGenerating State = "generating"
	StateDelivering State = "delivering"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// Terminal reports whether no further transition can happen.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// Run is the record of one generation run. Log lines accumulate in emit
// order; View snapshots the record for the debug endpoint.
type Run struct {
	ID      string
	Target  string
	Started time.Time

	mu       sync.RWMutex
	state    State
	lines    []generator.Line
	link     string
	errMsg   string
	finished time.Time
}

func newRun(id, target string, now time.Time) *Run {
	return &Run{ID: id, Target: target, Started: now, state: StateValidating}
}

func (r *Run) setState(s State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state.Terminal() {
		return
	}
	r.state = s
}

func (r *Run) finish(s State, link, errMsg string, now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state.Terminal() {
		return
	}
	r.state = s
	r.link = link
	r.errMsg = errMsg
	r.finished = now
}

func (r *Run) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Log implements generator.Emitter so the run record can sit in the emit
// fan-out alongside the websocket sink.
func (r *Run) Log(text, color string) {
	r.mu.Lock()
	r.lines = append(r.lines, generator.Line{Text: text, Color: color})
	r.mu.Unlock()
}

// View is an immutable snapshot of a run for inspection endpoints.
type View struct {
	ID       string           `json:"id"`
	Target   string           `json:"target"`
	State    State            `json:"state"`
	Started  time.Time        `json:"started"`
	Finished time.Time        `json:"finished,omitzero"`
	Link     string           `json:"link,omitempty"`
	Error    string           `json:"error,omitempty"`
	Lines    []generator.Line `json:"lines"`
}

func (r *Run) View() View {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return View{
		ID:       r.ID,
		Target:   r.Target,
		State:    r.state,
		Started:  r.Started,
		Finished: r.finished,
		Link:     r.link,
		Error:    r.errMsg,
		Lines:    append([]generator.Line(nil), r.lines...),
	}
}
