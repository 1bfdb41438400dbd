package generator

import (
	"context"
	"encoding/json"
	"fmt"
)

const manifestPath = "package.json"

// packageManifest mirrors the generated package.json. Field order is the
// serialization order, which keeps output byte-identical across runs.
type packageManifest struct {
	Name        string            `json:"name"`
	Version     string            `json:"version"`
	Description string            `json:"description"`
	Author      *manifestAuthor   `json:"author,omitempty"`
	License     string            `json:"license"`
	Keywords    []string          `json:"keywords"`
	Main        string            `json:"main"`
	Bin         map[string]string `json:"bin,omitempty"`
	Engines     manifestEngines   `json:"engines"`
	Scripts     map[string]string `json:"scripts"`
}

type manifestAuthor struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

type manifestEngines struct {
	Node string `json:"node"`
}

func stageManifest(_ context.Context, b *Build) ([]File, error) {
	a := b.Answers
	name := text(a, "adapterName")
	if name == "" {
		return nil, fmt.Errorf("answer adapterName is empty")
	}

	typescript := text(a, "language") == "TypeScript"
	main := "main.js"
	if typescript {
		main = "build/main.js"
	}

	scripts := map[string]string{
		"test": "node --test",
	}
	if typescript {
		scripts["build"] = "tsc"
		scripts["watch"] = "tsc --watch"
	}
	if has(a, "tools", "eslint") {
		scripts["lint"] = "eslint ."
	}
	if has(a, "tools", "prettier") {
		scripts["format"] = "prettier --write ."
	}
	if flag(a, "releaseScript") {
		scripts["release"] = "release-script"
	}

	var bin map[string]string
	if flag(a, "cli") {
		bin = map[string]string{name: "bin/" + name + ".js"}
	}

	var author *manifestAuthor
	if an := text(a, "authorName"); an != "" {
		author = &manifestAuthor{Name: an, Email: text(a, "authorEmail")}
	}

	keywords := list(a, "keywords")
	if keywords == nil {
		keywords = []string{}
	}

	m := packageManifest{
		Name:        name,
		Version:     textOr(a, "initialVersion", "0.0.1"),
		Description: text(a, "description"),
		Author:      author,
		License:     textOr(a, "license", "MIT"),
		Keywords:    keywords,
		Main:        main,
		Bin:         bin,
		Engines:     manifestEngines{Node: ">=" + textOr(a, "nodeVersion", "18")},
		Scripts:     scripts,
	}
	content, err := marshalJSON(a, m)
	if err != nil {
		return nil, err
	}
	return []File{{Path: manifestPath, Content: content}}, nil
}

// adapterManifest is the runtime descriptor read by the adapter host.
type adapterManifest struct {
	Name                string `json:"name"`
	Title               string `json:"title"`
	Type                string `json:"type"`
	Mode                string `json:"mode"`
	RestartOnConfig     bool   `json:"restartOnConfigChange,omitempty"`
	ConnectionType      string `json:"connectionType,omitempty"`
	ConnectionIndicator bool   `json:"connectionIndicator,omitempty"`
	PollIntervalSec     int    `json:"pollIntervalSec,omitempty"`
	AdminUI             string `json:"adminUI,omitempty"`
}

func stageAdapterManifest(_ context.Context, b *Build) ([]File, error) {
	a := b.Answers
	if !has(a, "features", "adapter") {
		return nil, nil
	}
	m := adapterManifest{
		Name:                text(a, "adapterName"),
		Title:               textOr(a, "title", text(a, "adapterName")),
		Type:                textOr(a, "type", "general"),
		Mode:                textOr(a, "startMode", "daemon"),
		RestartOnConfig:     flag(a, "scheduleStartOnChange"),
		ConnectionType:      text(a, "connectionType"),
		ConnectionIndicator: flag(a, "connectionIndicator"),
		AdminUI:             text(a, "adminUi"),
	}
	if text(a, "connectionType") == "cloud" {
		m.PollIntervalSec = num(a, "pollInterval")
	}
	content, err := marshalJSON(a, m)
	if err != nil {
		return nil, err
	}
	return []File{{Path: "io-package.json", Content: content}}, nil
}

// marshalJSON renders with the indentation the user picked, newline
// terminated. Struct field order plus Go's sorted map keys keep the bytes
// stable for identical answers.
func marshalJSON(a map[string]any, v any) ([]byte, error) {
	indent := "\t"
	if s, _ := a["indentation"].(string); s == "space" {
		indent = "    "
	}
	data, err := json.MarshalIndent(v, "", indent)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
