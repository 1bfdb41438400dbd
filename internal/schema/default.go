package schema

// Default returns the built-in adapter questionnaire. The wizard walks the
// groups in this order. Callers treat the returned schema as read-only.
func Default() *Schema {
	return &Schema{Groups: []Group{
		{
			Title: "Basics",
			Questions: []Question{
				{
					ID:       "expert",
					Message:  "How experienced are you with adapter development?",
					Type:     TypeSelect,
					Default:  "no",
					Required: true,
					Options: []Option{
						{Label: "Starter", Value: "no"},
						{Label: "Expert", Value: "yes"},
					},
				},
				{
					ID:       "adapterName",
					Message:  "Name of your adapter",
					Type:     TypeText,
					Required: true,
					Constraints: []Constraint{
						{Kind: ConstraintPattern, Pattern: `^[a-z][a-z0-9\-_]*[a-z0-9]$`},
					},
				},
				{
					ID:      "title",
					Message: "Short title of your adapter",
					Type:    TypeText,
					Default: "",
				},
				{
					ID:      "description",
					Message: "Describe what your adapter does",
					Type:    TypeText,
					Default: "",
				},
				{
					ID:       "cli",
					Message:  "Is this run driven by the command line instead of the wizard UI?",
					Type:     TypeBool,
					Default:  false,
					Required: true,
				},
				{
					ID:      "keywords",
					Message: "Keywords for the package manifest",
					Type:    TypeMultiSelect,
					Expert:  true,
					Default: []any{},
					Options: []Option{
						{Label: "IoT", Value: "iot"},
						{Label: "Smart Home", Value: "smart-home"},
						{Label: "Automation", Value: "automation"},
						{Label: "Visualization", Value: "visualization"},
						{Label: "Protocol", Value: "protocol"},
					},
				},
			},
		},
		{
			Title: "Features",
			Questions: []Question{
				{
					ID:       "features",
					Message:  "Which features should your project contain?",
					Type:     TypeMultiSelect,
					Default:  []any{"adapter"},
					Required: true,
					Options: []Option{
						{Label: "Adapter", Value: "adapter"},
						{Label: "Visualization", Value: "vis"},
					},
				},
				{
					ID:        "language",
					Message:   "Which language do you want to use to code the adapter?",
					Type:      TypeSelect,
					Default:   "TypeScript",
					Required:  true,
					Condition: &Condition{Key: "features", Op: OpContains, Value: "adapter"},
					Options: []Option{
						{Label: "JavaScript", Value: "JavaScript"},
						{Label: "TypeScript", Value: "TypeScript"},
					},
				},
				{
					ID:        "nodeVersion",
					Message:   "Which is the minimum Node.js version your adapter supports?",
					Type:      TypeSelect,
					Default:   "18",
					Expert:    true,
					Condition: &Condition{Key: "features", Op: OpContains, Value: "adapter"},
					Options: []Option{
						{Label: "Node.js 18", Value: "18"},
						{Label: "Node.js 20", Value: "20"},
						{Label: "Node.js 22", Value: "22"},
					},
				},
				{
					ID:        "adminUi",
					Message:   "Which kind of admin UI do you need?",
					Type:      TypeSelect,
					Default:   "json",
					Condition: &Condition{Key: "features", Op: OpContains, Value: "adapter"},
					Options: []Option{
						{Label: "JSON config", Value: "json"},
						{Label: "Custom HTML", Value: "html"},
						{Label: "No UI", Value: "none"},
					},
				},
				{
					ID:        "type",
					Message:   "Which category does your adapter fall into?",
					Type:      TypeSelect,
					Default:   "general",
					Condition: &Condition{Key: "features", Op: OpContains, Value: "adapter"},
					Options: []Option{
						{Label: "General", Value: "general"},
						{Label: "Hardware", Value: "hardware"},
						{Label: "Lighting", Value: "lighting"},
						{Label: "Energy", Value: "energy"},
						{Label: "Climate control", Value: "climate-control"},
						{Label: "Messaging", Value: "messaging"},
						{Label: "Multimedia", Value: "multimedia"},
					},
				},
			},
		},
		{
			Title: "Adapter",
			Questions: []Question{
				{
					ID:      "startMode",
					Message: "When should the adapter be started?",
					Type:    TypeSelect,
					Default: "daemon",
					Condition: &Condition{
						Key: "features", Op: OpContains, Value: "adapter",
					},
					Options: []Option{
						{Label: "Always (daemon)", Value: "daemon"},
						{Label: "On schedule", Value: "schedule"},
						{Label: "When a subscribed state changes", Value: "subscribe"},
					},
				},
				{
					ID:      "scheduleStartOnChange",
					Message: "Should the adapter also be restarted when its configuration changes?",
					Type:    TypeBool,
					Default: true,
					Condition: &Condition{All: []Condition{
						{Key: "features", Op: OpContains, Value: "adapter"},
						{Key: "startMode", Op: OpEq, Value: "schedule"},
					}},
				},
				{
					ID:      "connectionType",
					Message: "How does your adapter connect to its device or service?",
					Type:    TypeSelect,
					Default: "local",
					Condition: &Condition{
						Key: "features", Op: OpContains, Value: "adapter",
					},
					Options: []Option{
						{Label: "Local network / hardware", Value: "local"},
						{Label: "Cloud service", Value: "cloud"},
					},
				},
				{
					ID:      "connectionIndicator",
					Message: "Should a connection state indicator be created?",
					Type:    TypeBool,
					Default: false,
					Expert:  true,
					Condition: &Condition{
						Key: "features", Op: OpContains, Value: "adapter",
					},
				},
				{
					ID:      "pollInterval",
					Message: "Default poll interval in seconds",
					Type:    TypeNumber,
					Default: 30,
					Expert:  true,
					Condition: &Condition{All: []Condition{
						{Key: "features", Op: OpContains, Value: "adapter"},
						{Key: "connectionType", Op: OpEq, Value: "cloud"},
					}},
					Constraints: []Constraint{
						{Kind: ConstraintRange, Min: f64(5), Max: f64(3600)},
					},
				},
			},
		},
		{
			Title: "Tooling",
			Questions: []Question{
				{
					ID:      "tools",
					Message: "Which of the following tools do you want to use?",
					Type:    TypeMultiSelect,
					Default: []any{"eslint"},
					Options: []Option{
						{Label: "ESLint", Value: "eslint"},
						{Label: "Prettier", Value: "prettier"},
						{Label: "Type checking", Value: "type-checking"},
					},
				},
				{
					ID:        "releaseScript",
					Message:   "Do you want to use a release script to automate new releases?",
					Type:      TypeBool,
					Default:   true,
					Condition: &Condition{Key: "cli", Op: OpNe, Value: true},
				},
				{
					ID:      "devServer",
					Message: "Set up a local development server?",
					Type:    TypeBool,
					Default: false,
					Expert:  true,
				},
				{
					ID:      "indentation",
					Message: "Which indentation should the generated sources use?",
					Type:    TypeSelect,
					Default: "tab",
					Expert:  true,
					Options: []Option{
						{Label: "Tab", Value: "tab"},
						{Label: "4 spaces", Value: "space"},
					},
				},
			},
		},
		{
			Title: "Metadata",
			Questions: []Question{
				{
					ID:      "authorName",
					Message: "Please enter your name (or nickname)",
					Type:    TypeText,
					Default: "",
				},
				{
					ID:      "authorGithub",
					Message: "What is your name/org on the repository host?",
					Type:    TypeText,
					Default: "",
				},
				{
					ID:      "authorEmail",
					Message: "What is your email address?",
					Type:    TypeText,
					Default: "",
					Constraints: []Constraint{
						{Kind: ConstraintPattern, Pattern: `^$|^[^@\s]+@[^@\s]+\.[^@\s]+$`},
					},
				},
				{
					ID:      "license",
					Message: "Which license should be used for your project?",
					Type:    TypeSelect,
					Default: "MIT",
					Options: []Option{
						{Label: "MIT License", Value: "MIT"},
						{Label: "Apache License 2.0", Value: "Apache-2.0"},
						{Label: "GNU GPLv3", Value: "GPL-3.0"},
						{Label: "The Unlicense", Value: "Unlicense"},
					},
				},
				{
					ID:      "creationYear",
					Message: "Copyright year for the license header",
					Type:    TypeNumber,
					Default: 2026,
					Expert:  true,
					Constraints: []Constraint{
						{Kind: ConstraintRange, Min: f64(2014), Max: f64(2100)},
					},
				},
				{
					ID:        "initialVersion",
					Message:   "Initial version of the package",
					Type:      TypeText,
					Default:   "0.0.1",
					Expert:    true,
					Condition: &Condition{Key: "releaseScript", Op: OpNe, Value: true},
					Constraints: []Constraint{
						{Kind: ConstraintPattern, Pattern: `^\d+\.\d+\.\d+$`},
					},
				},
			},
		},
	}}
}

func f64(v float64) *float64 { return &v }
