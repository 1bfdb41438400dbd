package schema

import (
	"regexp"
)

// Reason codes returned by Validate. Machine-distinguishable so the client
// can map them back onto the offending form widget.
const (
	ReasonRequired = "required"
	ReasonType     = "type"
	ReasonPattern  = "pattern"
	ReasonRange    = "range"
	ReasonChoice   = "choice"
)

// Result is the validator verdict: either OK, or the first blocking
// question with a reason code. Errors are not aggregated; the stepper UI
// surfaces one at a time.
type Result struct {
	OK         bool   `json:"ok"`
	QuestionID string `json:"questionId,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

func fail(id, reason string) Result {
	return Result{QuestionID: id, Reason: reason}
}

// Validate walks groups in schema order, questions within a group in
// schema order, and checks each visible question for presence (if
// required), type conformance and constraint satisfaction. Invisible
// questions are skipped entirely: their presence or absence in the answer
// set is never checked. Stops at the first failure.
func Validate(s *Schema, answers Answers, env Env) Result {
	for _, g := range s.Groups {
		for i := range g.Questions {
			q := &g.Questions[i]
			if !Visible(q, answers, env) {
				continue
			}
			if !answers.Has(q.ID) {
				// A schema default satisfies required-ness; the
				// pipeline materializes it via ResolveDefaults.
				if q.Required && q.Default == nil {
					return fail(q.ID, ReasonRequired)
				}
				continue
			}
			if r := checkValue(q, answers); !r.OK {
				return r
			}
		}
	}
	return Result{OK: true}
}

func checkValue(q *Question, answers Answers) Result {
	switch q.Type {
	case TypeBool:
		if _, ok := answers.Bool(q.ID); !ok {
			return fail(q.ID, ReasonType)
		}
	case TypeText:
		s, ok := answers.String(q.ID)
		if !ok {
			return fail(q.ID, ReasonType)
		}
		if q.Required && s == "" {
			return fail(q.ID, ReasonRequired)
		}
		if r := checkConstraints(q, s, 0, false); !r.OK {
			return r
		}
	case TypeNumber:
		n, ok := answers.Number(q.ID)
		if !ok {
			return fail(q.ID, ReasonType)
		}
		if r := checkConstraints(q, "", n, true); !r.OK {
			return r
		}
	case TypeSelect:
		s, ok := answers.String(q.ID)
		if !ok {
			return fail(q.ID, ReasonType)
		}
		if !inOptions(q.Options, s) {
			return fail(q.ID, ReasonChoice)
		}
	case TypeMultiSelect:
		list, ok := answers.Strings(q.ID)
		if !ok {
			return fail(q.ID, ReasonType)
		}
		for _, s := range list {
			if !inOptions(q.Options, s) {
				return fail(q.ID, ReasonChoice)
			}
		}
	}
	return Result{OK: true}
}

func checkConstraints(q *Question, s string, n float64, isNumber bool) Result {
	for _, c := range q.Constraints {
		switch c.Kind {
		case ConstraintPattern:
			if isNumber {
				continue
			}
			re, err := regexp.Compile(c.Pattern)
			if err != nil {
				continue
			}
			if !re.MatchString(s) {
				return fail(q.ID, ReasonPattern)
			}
		case ConstraintRange:
			if !isNumber {
				continue
			}
			if c.Min != nil && n < *c.Min {
				return fail(q.ID, ReasonRange)
			}
			if c.Max != nil && n > *c.Max {
				return fail(q.ID, ReasonRange)
			}
		default:
			// Unknown constraint kinds pass so schemas can carry
			// rules this validator does not know yet.
		}
	}
	return Result{OK: true}
}

func inOptions(opts []Option, v string) bool {
	for _, o := range opts {
		if o.Value == v {
			return true
		}
	}
	return false
}
