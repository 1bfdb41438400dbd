package generator

import "context"

func stageTooling(_ context.Context, b *Build) ([]File, error) {
	a := b.Answers
	typescript := text(a, "language") == "TypeScript"

	var files []File
	if has(a, "tools", "eslint") {
		cfg := map[string]any{
			"root": true,
			"env":  map[string]any{"node": true, "es2022": true},
		}
		if typescript {
			cfg["parser"] = "@typescript-eslint/parser"
			cfg["plugins"] = []string{"@typescript-eslint"}
		}
		content, err := marshalJSON(a, cfg)
		if err != nil {
			return nil, err
		}
		files = append(files, File{Path: ".eslintrc.json", Content: content})
	}

	if has(a, "tools", "prettier") {
		cfg := map[string]any{
			"semi":        true,
			"singleQuote": false,
			"useTabs":     text(a, "indentation") != "space",
		}
		content, err := marshalJSON(a, cfg)
		if err != nil {
			return nil, err
		}
		files = append(files, File{Path: ".prettierrc.json", Content: content})
	}

	if typescript || has(a, "tools", "type-checking") {
		cfg := tsConfig{
			CompilerOptions: tsCompilerOptions{
				Target:  "es2022",
				Module:  "commonjs",
				Strict:  true,
				OutDir:  "build",
				RootDir: "src",
			},
			Include: []string{"src/**/*.ts"},
		}
		if !typescript {
			// Plain JS with type checking: no emit, check JS sources.
			cfg.CompilerOptions.OutDir = ""
			cfg.CompilerOptions.RootDir = ""
			cfg.CompilerOptions.NoEmit = true
			cfg.CompilerOptions.CheckJS = true
			cfg.CompilerOptions.AllowJS = true
			cfg.Include = []string{"**/*.js"}
		}
		content, err := marshalJSON(a, cfg)
		if err != nil {
			return nil, err
		}
		files = append(files, File{Path: "tsconfig.json", Content: content})
	}
	return files, nil
}

type tsConfig struct {
	CompilerOptions tsCompilerOptions `json:"compilerOptions"`
	Include         []string          `json:"include"`
}

type tsCompilerOptions struct {
	Target  string `json:"target"`
	Module  string `json:"module"`
	Strict  bool   `json:"strict"`
	OutDir  string `json:"outDir,omitempty"`
	RootDir string `json:"rootDir,omitempty"`
	NoEmit  bool   `json:"noEmit,omitempty"`
	CheckJS bool   `json:"checkJs,omitempty"`
	AllowJS bool   `json:"allowJs,omitempty"`
}
