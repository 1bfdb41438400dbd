package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() *Schema {
	return &Schema{Groups: []Group{
		{
			Title: "Basics",
			Questions: []Question{
				{ID: "expert", Type: TypeSelect, Default: "no", Required: true,
					Options: []Option{{Label: "no", Value: "no"}, {Label: "yes", Value: "yes"}}},
				{ID: "adapterName", Type: TypeText, Required: true,
					Constraints: []Constraint{{Kind: ConstraintPattern, Pattern: `^[a-z][a-z0-9\-]*$`}}},
				{ID: "cli", Type: TypeBool, Default: false, Required: true},
				{ID: "port", Type: TypeNumber, Expert: true,
					Constraints: []Constraint{{Kind: ConstraintRange, Min: f64(1), Max: f64(65535)}}},
			},
		},
		{
			Title: "Features",
			Questions: []Question{
				{ID: "features", Type: TypeMultiSelect, Default: []any{"adapter"}, Required: true,
					Options: []Option{{Label: "Adapter", Value: "adapter"}, {Label: "Vis", Value: "vis"}}},
				{ID: "cliBanner", Type: TypeText, Required: true,
					Condition: &Condition{Key: "cli", Op: OpEq, Value: true}},
			},
		},
	}}
}

func TestValidateMinimalAnswerSet(t *testing.T) {
	s := testSchema()
	res := Validate(s, Answers{"expert": "yes", "cli": false, "adapterName": "foo"}, Env{})
	require.True(t, res.OK, "got %+v", res)
}

func TestValidateMissingRequired(t *testing.T) {
	s := testSchema()
	res := Validate(s, Answers{"expert": "yes", "cli": false}, Env{})
	assert.False(t, res.OK)
	assert.Equal(t, "adapterName", res.QuestionID)
	assert.Equal(t, ReasonRequired, res.Reason)
}

func TestValidateConditionalRequiredNotTriggered(t *testing.T) {
	s := testSchema()
	// cliBanner is required but only visible when cli == true; with
	// cli false the question must be treated as not required.
	res := Validate(s, Answers{"adapterName": "foo", "cli": false}, Env{})
	assert.True(t, res.OK, "got %+v", res)

	res = Validate(s, Answers{"adapterName": "foo", "cli": true}, Env{})
	assert.False(t, res.OK)
	assert.Equal(t, "cliBanner", res.QuestionID)
	assert.Equal(t, ReasonRequired, res.Reason)
}

func TestValidateEmptyAnswerSet(t *testing.T) {
	// Every required question either carries a default or is gated by a
	// condition that cannot be true yet, except adapterName.
	res := Validate(testSchema(), Answers{}, Env{})
	assert.False(t, res.OK)
	assert.Equal(t, "adapterName", res.QuestionID)
}

func TestValidateFirstFailureWins(t *testing.T) {
	s := testSchema()
	// Both adapterName (pattern) and cliBanner (required) fail; schema
	// order puts adapterName first.
	res := Validate(s, Answers{"adapterName": "Bad Name", "cli": true}, Env{})
	assert.Equal(t, "adapterName", res.QuestionID)
	assert.Equal(t, ReasonPattern, res.Reason)
}

func TestValidateTypeMismatch(t *testing.T) {
	res := Validate(testSchema(), Answers{"adapterName": "foo", "cli": "nope"}, Env{})
	assert.False(t, res.OK)
	assert.Equal(t, "cli", res.QuestionID)
	assert.Equal(t, ReasonType, res.Reason)
}

func TestValidateRange(t *testing.T) {
	answers := Answers{"expert": "yes", "adapterName": "foo", "cli": false, "port": float64(70000)}
	res := Validate(testSchema(), answers, Env{})
	assert.Equal(t, "port", res.QuestionID)
	assert.Equal(t, ReasonRange, res.Reason)
}

func TestValidateExpertQuestionSkippedWhenHidden(t *testing.T) {
	// port is expert-only: with expert mode off even a broken value is
	// never checked because the question is invisible.
	answers := Answers{"adapterName": "foo", "cli": false, "port": "garbage"}
	res := Validate(testSchema(), answers, Env{})
	assert.True(t, res.OK, "got %+v", res)
}

func TestValidateChoiceMembership(t *testing.T) {
	answers := Answers{"adapterName": "foo", "cli": false, "features": []any{"adapter", "widgets"}}
	res := Validate(testSchema(), answers, Env{})
	assert.Equal(t, "features", res.QuestionID)
	assert.Equal(t, ReasonChoice, res.Reason)
}

func TestResolveDefaultsFillsVisibleQuestions(t *testing.T) {
	s := testSchema()
	answers := Answers{"adapterName": "foo"}
	resolved := s.ResolveDefaults(answers, Env{})

	assert.Equal(t, "no", resolved["expert"])
	assert.Equal(t, false, resolved["cli"])
	assert.Equal(t, []any{"adapter"}, resolved["features"])
	// Original set is untouched.
	assert.NotContains(t, answers, "expert")
	// No default means nothing to fill.
	assert.NotContains(t, resolved, "port")
	// cliBanner's condition (cli == true) fails against the defaulted set.
	assert.NotContains(t, resolved, "cliBanner")
}

func TestResolveDefaultsFillsExpertQuestionsForNonExperts(t *testing.T) {
	s := Default()
	answers := Answers{"expert": "no", "cli": false, "adapterName": "foo"}
	resolved := s.ResolveDefaults(answers, Env{})

	// Expert gating hides a question from the wizard but its default
	// still lands, so the generated project is the same either way.
	assert.Equal(t, 2026, resolved["creationYear"])
	assert.Equal(t, "18", resolved["nodeVersion"])
	assert.Equal(t, "tab", resolved["indentation"])
	// A failing condition still blocks the default: releaseScript
	// defaults to true, which rules initialVersion out.
	assert.Equal(t, true, resolved["releaseScript"])
	assert.NotContains(t, resolved, "initialVersion")
}

func TestDefaultSchemaIsWellFormed(t *testing.T) {
	s := Default()
	require.NoError(t, s.Check())

	// The shipped schema must accept the minimal wizard answer set.
	res := Validate(s, Answers{"expert": "yes", "cli": false, "adapterName": "foo"}, Env{})
	require.True(t, res.OK, "got %+v", res)
}
