package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
groups:
  - title: Basics
    questions:
      - id: adapterName
        message: Name of your adapter
        type: text
        required: true
        constraints:
          - kind: pattern
            pattern: "^[a-z][a-z0-9-]*$"
      - id: language
        message: Language
        type: select
        default: TypeScript
        options:
          - { label: JavaScript, value: JavaScript }
          - { label: TypeScript, value: TypeScript }
        condition:
          key: features
          op: contains
          value: adapter
      - id: features
        message: Features
        type: multiselect
        default: [adapter]
        options:
          - { label: Adapter, value: adapter }
`

func TestParseYAMLSchema(t *testing.T) {
	s, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)
	require.Len(t, s.Groups, 1)
	require.Len(t, s.Groups[0].Questions, 3)

	q, ok := s.Find("language")
	require.True(t, ok)
	assert.Equal(t, TypeSelect, q.Type)
	require.NotNil(t, q.Condition)
	assert.Equal(t, OpContains, q.Condition.Op)

	res := Validate(s, Answers{"adapterName": "foo"}, Env{})
	assert.True(t, res.OK, "got %+v", res)
}

func TestParseRejectsBrokenSchemas(t *testing.T) {
	cases := map[string]string{
		"duplicate ids": `
groups:
  - title: G
    questions:
      - { id: a, message: m, type: text }
      - { id: a, message: m, type: text }
`,
		"unknown type": `
groups:
  - title: G
    questions:
      - { id: a, message: m, type: slider }
`,
		"select without options": `
groups:
  - title: G
    questions:
      - { id: a, message: m, type: select }
`,
		"invalid pattern": `
groups:
  - title: G
    questions:
      - id: a
        message: m
        type: text
        constraints:
          - { kind: pattern, pattern: "([" }
`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, s.Groups, 1)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadEmptyPathUsesDefault(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)
	_, ok := s.Find("adapterName")
	assert.True(t, ok)
}
