// Package generator turns a validated answer set into an in-memory file
// tree through an ordered list of pure stages. The tree is the pipeline's
// sole output artifact and is immutable once generation completes.
package generator

import (
	"fmt"
	"sort"
	"strings"
)

// File is one path+content unit of the generated project output.
type File struct {
	Path       string
	Content    []byte
	Executable bool
}

// Tree is the finished, sorted file list. Paths are unique and relative.
type Tree struct {
	files []File
}

// Files returns the files in path order.
func (t *Tree) Files() []File {
	return t.files
}

// Len returns the number of files in the tree.
func (t *Tree) Len() int {
	return len(t.files)
}

// Lookup returns the content of the file at path.
func (t *Tree) Lookup(path string) ([]byte, bool) {
	for i := range t.files {
		if t.files[i].Path == path {
			return t.files[i].Content, true
		}
	}
	return nil, false
}

func newTree(files []File) (*Tree, error) {
	seen := make(map[string]struct{}, len(files))
	out := make([]File, 0, len(files))
	for _, f := range files {
		path := strings.TrimLeft(strings.TrimSpace(f.Path), "/")
		if path == "" {
			return nil, fmt.Errorf("tree: file with empty path")
		}
		if _, dup := seen[path]; dup {
			return nil, fmt.Errorf("tree: duplicate path %q", path)
		}
		seen[path] = struct{}{}
		f.Path = path
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return &Tree{files: out}, nil
}
