package generator

import (
	"context"
	"fmt"
	"strings"
)

func stageSource(_ context.Context, b *Build) ([]File, error) {
	a := b.Answers
	if !has(a, "features", "adapter") {
		if !has(a, "features", "vis") {
			return nil, fmt.Errorf("no feature selected that produces source files")
		}
		return nil, nil
	}

	name := text(a, "adapterName")
	typescript := text(a, "language") == "TypeScript"

	var files []File
	if typescript {
		files = append(files, File{
			Path:    "src/main.ts",
			Content: render(a, tsMain, name),
		})
	} else {
		files = append(files, File{
			Path:    "main.js",
			Content: render(a, jsMain, name),
		})
	}

	if flag(a, "cli") {
		mainRef := "../main"
		if typescript {
			mainRef = "../build/main"
		}
		cli := strings.ReplaceAll(cliMain, "{{main}}", mainRef)
		files = append(files, File{
			Path:       "bin/" + name + ".js",
			Content:    render(a, cli, name),
			Executable: true,
		})
	}

	if flag(a, "devServer") {
		files = append(files, File{
			Path:    ".dev-server/default/config.json",
			Content: []byte("{\n\t\"port\": 8081\n}\n"),
		})
	}
	return files, nil
}

// render substitutes the adapter name and applies the indentation answer.
// Templates are written with tabs; the space style swaps each tab for four
// spaces so output stays deterministic per answer set.
func render(a map[string]any, tmpl, name string) []byte {
	out := strings.ReplaceAll(tmpl, "{{name}}", name)
	if s, _ := a["indentation"].(string); s == "space" {
		out = strings.ReplaceAll(out, "\t", "    ")
	}
	return []byte(out)
}

const jsMain = `"use strict";

const { Adapter } = require("adapter-core");

class {{name}}Adapter extends Adapter {
	constructor(options) {
		super({ ...options, name: "{{name}}" });
		this.on("ready", this.onReady.bind(this));
		this.on("unload", this.onUnload.bind(this));
	}

	async onReady() {
		this.log.info("starting {{name}}");
	}

	onUnload(callback) {
		try {
			callback();
		} catch (e) {
			callback();
		}
	}
}

if (require.main !== module) {
	module.exports = (options) => new {{name}}Adapter(options);
} else {
	new {{name}}Adapter();
}
`

const tsMain = `import { Adapter, AdapterOptions } from "adapter-core";

class {{name}}Adapter extends Adapter {
	public constructor(options: Partial<AdapterOptions> = {}) {
		super({ ...options, name: "{{name}}" });
		this.on("ready", this.onReady.bind(this));
		this.on("unload", this.onUnload.bind(this));
	}

	private async onReady(): Promise<void> {
		this.log.info("starting {{name}}");
	}

	private onUnload(callback: () => void): void {
		try {
			callback();
		} catch {
			callback();
		}
	}
}

if (require.main !== module) {
	module.exports = (options: Partial<AdapterOptions> | undefined) =>
		new {{name}}Adapter(options);
} else {
	(() => new {{name}}Adapter())();
}
`

const cliMain = `#!/usr/bin/env node
"use strict";

const { argv, exit } = require("process");

if (argv.includes("--help")) {
	console.log("usage: {{name}} [--help]");
	exit(0);
}

require("{{main}}");
`
