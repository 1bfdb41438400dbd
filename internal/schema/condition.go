package schema

import "strings"

// Condition is a small boolean expression tree over answer lookups.
// Exactly one of Op / Not / All / Any is set per node. Evaluation is pure
// and total: a lookup of an absent answer fails closed instead of erroring,
// so forward-declared conditions on not-yet-answered questions hide the
// question rather than breaking the walk.
type Condition struct {
	Key   string `yaml:"key,omitempty" json:"key,omitempty"`
	Op    string `yaml:"op,omitempty" json:"op,omitempty"`
	Value any    `yaml:"value,omitempty" json:"value,omitempty"`

	Not *Condition  `yaml:"not,omitempty" json:"not,omitempty"`
	All []Condition `yaml:"all,omitempty" json:"all,omitempty"`
	Any []Condition `yaml:"any,omitempty" json:"any,omitempty"`
}

const (
	OpEq       = "eq"
	OpNe       = "ne"
	OpIn       = "in"
	OpContains = "contains"
	OpTruthy   = "truthy"
)

// Env carries the evaluation pseudo-variables that are not answers:
// whether the session runs under a restricted (non-expert) surface.
type Env struct {
	Restricted bool
}

// expertAnswerID is the fixed top-level answer that drives expert mode.
const expertAnswerID = "expert"

// ExpertMode reports whether expert mode is on for the given answers.
func ExpertMode(answers Answers) bool {
	s, ok := answers.String(expertAnswerID)
	return ok && s == "yes"
}

// Visible reports whether a question applies given the answers collected
// so far. Expert-only questions are suppressed whenever expert mode is off
// or the surface is restricted, independent of their own condition.
// Visibility is context-dependent and must be recomputed from scratch
// whenever upstream answers change.
func Visible(q *Question, answers Answers, env Env) bool {
	if q.Expert && (env.Restricted || !ExpertMode(answers)) {
		return false
	}
	if q.Condition == nil {
		return true
	}
	return q.Condition.Eval(answers)
}

// Eval evaluates the condition against the answer set. A nil condition is
// vacuously true.
func (c *Condition) Eval(answers Answers) bool {
	if c == nil {
		return true
	}
	switch {
	case c.Not != nil:
		return !c.Not.Eval(answers)
	case len(c.All) > 0:
		for i := range c.All {
			if !c.All[i].Eval(answers) {
				return false
			}
		}
		return true
	case len(c.Any) > 0:
		for i := range c.Any {
			if c.Any[i].Eval(answers) {
				return true
			}
		}
		return false
	}
	return c.evalLeaf(answers)
}

func (c *Condition) evalLeaf(answers Answers) bool {
	v, ok := answers[c.Key]
	if !ok || v == nil {
		// ne over an absent answer also fails closed: an unanswered
		// question never satisfies a condition.
		return false
	}
	switch c.Op {
	case OpEq:
		return looseEqual(v, c.Value)
	case OpNe:
		return !looseEqual(v, c.Value)
	case OpIn:
		want, ok := c.Value.([]any)
		if !ok {
			return false
		}
		for _, w := range want {
			if looseEqual(v, w) {
				return true
			}
		}
		return false
	case OpContains:
		list, ok := Answers{c.Key: v}.Strings(c.Key)
		if !ok {
			return false
		}
		want, ok := c.Value.(string)
		if !ok {
			return false
		}
		for _, e := range list {
			if e == want {
				return true
			}
		}
		return false
	case OpTruthy:
		return truthy(v)
	}
	return false
}

// looseEqual compares an answer value to a condition literal across the
// representations the wire and YAML produce for the same logical value.
func looseEqual(got, want any) bool {
	if gb, ok := got.(bool); ok {
		wb, ok := want.(bool)
		return ok && gb == wb
	}
	if gn, ok := asNumber(got); ok {
		wn, ok := asNumber(want)
		return ok && gn == wn
	}
	gs, ok := got.(string)
	if !ok {
		return false
	}
	ws, ok := want.(string)
	return ok && gs == ws
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return strings.TrimSpace(t) != ""
	case float64:
		return t != 0
	case int:
		return t != 0
	case []any:
		return len(t) > 0
	case []string:
		return len(t) > 0
	}
	return false
}
