package generator

import (
	"context"
	"fmt"

	"adapterforge/internal/schema"
)

// Build is the accumulated state a stage sees: the resolved answers plus
// every file produced by earlier stages. Stages may read earlier output by
// path to perform templating but never mutate it.
type Build struct {
	Answers schema.Answers

	files   []File
	indexed map[string]int
}

// Lookup returns the content of a file produced by an earlier stage.
func (b *Build) Lookup(path string) ([]byte, bool) {
	i, ok := b.indexed[path]
	if !ok {
		return nil, false
	}
	return b.files[i].Content, true
}

func (b *Build) add(files []File) {
	for _, f := range files {
		b.indexed[f.Path] = len(b.files)
		b.files = append(b.files, f)
	}
}

// Stage is one pure transform of the pipeline: (answers, tree-so-far) to
// a patch of new files. Stages must not overlap on output paths.
type Stage struct {
	Name string
	Run  func(ctx context.Context, b *Build) ([]File, error)
}

// Generator folds an ordered list of stages into a file tree.
type Generator struct {
	stages []Stage
}

// New returns a generator with the full adapter skeleton stage list.
func New() *Generator {
	return &Generator{stages: []Stage{
		{Name: "package manifest", Run: stageManifest},
		{Name: "adapter manifest", Run: stageAdapterManifest},
		{Name: "source scaffold", Run: stageSource},
		{Name: "admin UI", Run: stageAdminUI},
		{Name: "tooling", Run: stageTooling},
		{Name: "CI workflow", Run: stageCI},
		{Name: "license", Run: stageLicense},
		{Name: "readme", Run: stageReadme},
		{Name: "repo files", Run: stageRepoFiles},
	}}
}

// NewWithStages returns a generator over a caller-supplied stage list.
func NewWithStages(stages []Stage) *Generator {
	return &Generator{stages: stages}
}

// Generate runs every stage in order and returns the finished tree.
// The answer set must already be validator-approved and default-resolved;
// stages assume well-formed values. A stage failure aborts immediately and
// the error message is emitted verbatim as a log line before returning.
// Given identical answers the output tree is byte-identical.
func (g *Generator) Generate(ctx context.Context, answers schema.Answers) (*Tree, error) {
	emitter := EmitterFrom(ctx)
	b := &Build{
		Answers: answers,
		indexed: make(map[string]int),
	}
	for _, st := range g.stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		emitter.Log(fmt.Sprintf("Generating %s...", st.Name), "")
		patch, err := st.Run(ctx, b)
		if err != nil {
			err = fmt.Errorf("%s: %w", st.Name, err)
			emitter.Log(err.Error(), "red")
			return nil, err
		}
		for _, f := range patch {
			if _, dup := b.indexed[f.Path]; dup {
				err := fmt.Errorf("%s: duplicate output path %q", st.Name, f.Path)
				emitter.Log(err.Error(), "red")
				return nil, err
			}
		}
		b.add(patch)
	}
	tree, err := newTree(b.files)
	if err != nil {
		emitter.Log(err.Error(), "red")
		return nil, err
	}
	emitter.Log(fmt.Sprintf("Generated %d files", tree.Len()), "blue")
	return tree, nil
}
