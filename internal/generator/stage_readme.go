package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// stageReadme reads the package manifest written by an earlier stage so
// the document always reflects the name and version the manifest settled
// on, not the raw answers.
func stageReadme(_ context.Context, b *Build) ([]File, error) {
	raw, ok := b.Lookup(manifestPath)
	if !ok {
		return nil, fmt.Errorf("package manifest not generated yet")
	}
	var m struct {
		Name    string `json:"name"`
		Version string `json:"version"`
		License string `json:"license"`
	}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse package manifest: %w", err)
	}

	a := b.Answers
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", m.Name)
	if d := text(a, "description"); d != "" {
		fmt.Fprintf(&sb, "%s\n\n", d)
	}
	sb.WriteString("## Getting started\n\n")
	sb.WriteString("```bash\nnpm install\n")
	if text(a, "language") == "TypeScript" {
		sb.WriteString("npm run build\n")
	}
	sb.WriteString("npm test\n```\n\n")
	sb.WriteString("## Changelog\n\n")
	fmt.Fprintf(&sb, "### %s\n\n- initial release\n\n", m.Version)
	sb.WriteString("## License\n\n")
	fmt.Fprintf(&sb, "%s (c) %s %s\n", m.License,
		strconv.Itoa(num(a, "creationYear")),
		textOr(a, "authorName", m.Name))

	return []File{{Path: "README.md", Content: []byte(sb.String())}}, nil
}

func stageRepoFiles(_ context.Context, b *Build) ([]File, error) {
	a := b.Answers
	var gitignore strings.Builder
	gitignore.WriteString("node_modules/\n")
	if text(a, "language") == "TypeScript" {
		gitignore.WriteString("build/\n")
	}
	if flag(a, "devServer") {
		gitignore.WriteString(".dev-server/*/node_modules/\n")
	}
	gitignore.WriteString("*.log\n")

	files := []File{
		{Path: ".gitignore", Content: []byte(gitignore.String())},
		{Path: ".npmignore", Content: []byte("src/\n.github/\ntsconfig.json\n*.log\n")},
	}
	return files, nil
}
