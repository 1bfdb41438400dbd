// Package schema owns the declarative questionnaire: question groups,
// per-question type and constraint metadata, and the condition evaluator
// that decides which questions apply given the answers collected so far.
// A Schema is loaded once at process start and is read-only afterwards.
package schema

import (
	"fmt"
	"regexp"
	"strings"
)

// ValueType enumerates the answer value types a question can collect.
type ValueType string

const (
	TypeBool        ValueType = "bool"
	TypeText        ValueType = "text"
	TypeNumber      ValueType = "number"
	TypeSelect      ValueType = "select"
	TypeMultiSelect ValueType = "multiselect"
)

// Option is one selectable choice of a select/multiselect question.
type Option struct {
	Label string `yaml:"label" json:"label"`
	Value string `yaml:"value" json:"value"`
}

// Constraint is one validation rule attached to a question. The set of
// kinds is open: validators ignore kinds they do not know so schemas can
// carry forward-declared rules.
type Constraint struct {
	Kind    string   `yaml:"kind" json:"kind"`
	Pattern string   `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	Min     *float64 `yaml:"min,omitempty" json:"min,omitempty"`
	Max     *float64 `yaml:"max,omitempty" json:"max,omitempty"`
}

const (
	ConstraintPattern = "pattern"
	ConstraintRange   = "range"
)

// Question is the atomic unit of the schema. Immutable after load.
type Question struct {
	ID          string       `yaml:"id" json:"id"`
	Message     string       `yaml:"message" json:"message"`
	Type        ValueType    `yaml:"type" json:"type"`
	Default     any          `yaml:"default,omitempty" json:"default,omitempty"`
	Required    bool         `yaml:"required,omitempty" json:"required,omitempty"`
	Expert      bool         `yaml:"expert,omitempty" json:"expert,omitempty"`
	Condition   *Condition   `yaml:"condition,omitempty" json:"condition,omitempty"`
	Options     []Option     `yaml:"options,omitempty" json:"options,omitempty"`
	Constraints []Constraint `yaml:"constraints,omitempty" json:"constraints,omitempty"`
}

// Group is an ordered sequence of questions sharing one wizard section.
type Group struct {
	Title     string     `yaml:"title" json:"title"`
	Questions []Question `yaml:"questions" json:"questions"`
}

// Schema is the full ordered question graph.
type Schema struct {
	Groups []Group `yaml:"groups" json:"groups"`
}

// Answers maps question IDs to answer values. Wire decoding produces
// bool, string, float64 and []any; the typed accessors below normalize.
type Answers map[string]any

// Has reports whether an answer is present (nil counts as absent).
func (a Answers) Has(id string) bool {
	v, ok := a[id]
	return ok && v != nil
}

// String returns the answer as a string.
func (a Answers) String(id string) (string, bool) {
	v, ok := a[id]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Bool returns the answer as a bool.
func (a Answers) Bool(id string) (bool, bool) {
	v, ok := a[id]
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// Number returns the answer as a float64. JSON numbers decode to float64;
// defaults declared as int in Go or YAML are accepted too.
func (a Answers) Number(id string) (float64, bool) {
	switch v := a[id].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

// Strings returns the answer as a string list.
func (a Answers) Strings(id string) ([]string, bool) {
	switch v := a[id].(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			s, ok := e.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

// Clone returns a shallow copy. List values are copied one level deep so
// a run owns its answer set exclusively.
func (a Answers) Clone() Answers {
	out := make(Answers, len(a))
	for k, v := range a {
		if l, ok := v.([]any); ok {
			v = append([]any(nil), l...)
		}
		out[k] = v
	}
	return out
}

// Find returns the question with the given ID, in schema order.
func (s *Schema) Find(id string) (*Question, bool) {
	for gi := range s.Groups {
		g := &s.Groups[gi]
		for qi := range g.Questions {
			if g.Questions[qi].ID == id {
				return &g.Questions[qi], true
			}
		}
	}
	return nil, false
}

// Check verifies structural integrity: non-empty IDs, no duplicates,
// known value types, options present on choice questions. Called once at
// load; a failing schema prevents the server from starting.
func (s *Schema) Check() error {
	seen := make(map[string]struct{})
	for _, g := range s.Groups {
		if strings.TrimSpace(g.Title) == "" {
			return fmt.Errorf("schema: group with empty title")
		}
		for _, q := range g.Questions {
			if strings.TrimSpace(q.ID) == "" {
				return fmt.Errorf("schema: question with empty id in group %q", g.Title)
			}
			if _, dup := seen[q.ID]; dup {
				return fmt.Errorf("schema: duplicate question id %q", q.ID)
			}
			seen[q.ID] = struct{}{}
			switch q.Type {
			case TypeBool, TypeText, TypeNumber:
			case TypeSelect, TypeMultiSelect:
				if len(q.Options) == 0 {
					return fmt.Errorf("schema: question %q has no options", q.ID)
				}
			default:
				return fmt.Errorf("schema: question %q has unknown type %q", q.ID, q.Type)
			}
			for _, c := range q.Constraints {
				if c.Kind != ConstraintPattern {
					continue
				}
				if _, err := regexp.Compile(c.Pattern); err != nil {
					return fmt.Errorf("schema: question %q has invalid pattern: %w", q.ID, err)
				}
			}
		}
	}
	return nil
}

// ResolveDefaults returns a copy of answers with schema defaults filled
// in for every unanswered question whose condition holds. Expert
// suppression only keeps a question out of the wizard; its default still
// applies, so a non-expert run produces the same tree an expert run with
// untouched defaults would. The pipeline runs against the resolved set so
// stages never re-derive defaults.
func (s *Schema) ResolveDefaults(answers Answers, env Env) Answers {
	out := answers.Clone()
	for _, g := range s.Groups {
		for i := range g.Questions {
			q := &g.Questions[i]
			if out.Has(q.ID) || q.Default == nil {
				continue
			}
			if q.Condition != nil && !q.Condition.Eval(out) {
				continue
			}
			out[q.ID] = q.Default
		}
	}
	return out
}
