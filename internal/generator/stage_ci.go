package generator

import (
	"context"
	"strings"
)

func stageCI(_ context.Context, b *Build) ([]File, error) {
	a := b.Answers
	node := textOr(a, "nodeVersion", "18")

	var steps strings.Builder
	if has(a, "tools", "eslint") {
		steps.WriteString("      - run: npm run lint\n")
	}
	if text(a, "language") == "TypeScript" {
		steps.WriteString("      - run: npm run build\n")
	}
	steps.WriteString("      - run: npm test\n")

	workflow := strings.ReplaceAll(ciWorkflow, "{{node}}", node)
	workflow = strings.ReplaceAll(workflow, "{{steps}}", steps.String())

	files := []File{{Path: ".github/workflows/test-and-release.yml", Content: []byte(workflow)}}
	if flag(a, "releaseScript") {
		files = append(files, File{
			Path:    ".github/auto-merge.yml",
			Content: []byte(autoMerge),
		})
	}
	return files, nil
}

const ciWorkflow = `name: Test and Release

on:
  push:
    branches:
      - main
    tags:
      - "v*"
  pull_request:

jobs:
  test:
    runs-on: ubuntu-latest
    strategy:
      matrix:
        node-version: ["{{node}}"]
    steps:
      - uses: actions/checkout@v4
      - uses: actions/setup-node@v4
        with:
          node-version: ${{ matrix.node-version }}
      - run: npm ci
{{steps}}`

const autoMerge = `- match:
    dependency_type: development
    update_type: "semver:minor"
`
