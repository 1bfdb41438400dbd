package generator

import "context"

func stageAdminUI(_ context.Context, b *Build) ([]File, error) {
	a := b.Answers
	if !has(a, "features", "adapter") {
		return nil, nil
	}
	switch text(a, "adminUi") {
	case "json":
		cfg := adminJSONConfig{
			Type: "panel",
			Items: map[string]adminJSONItem{
				"option1": {Type: "checkbox", Label: "option1"},
				"option2": {Type: "text", Label: "option2"},
			},
		}
		content, err := marshalJSON(a, cfg)
		if err != nil {
			return nil, err
		}
		return []File{{Path: "admin/jsonConfig.json", Content: content}}, nil
	case "html":
		name := text(a, "adapterName")
		return []File{{
			Path:    "admin/index_m.html",
			Content: render(a, adminHTML, name),
		}}, nil
	}
	return nil, nil
}

type adminJSONConfig struct {
	Type  string                   `json:"type"`
	Items map[string]adminJSONItem `json:"items"`
}

type adminJSONItem struct {
	Type  string `json:"type"`
	Label string `json:"label"`
}

const adminHTML = `<html>
<head>
	<title>{{name}} settings</title>
</head>
<body>
	<div id="adapter-settings">
		<label for="option1">option1</label>
		<input type="checkbox" id="option1" class="value" />
		<label for="option2">option2</label>
		<input type="text" id="option2" class="value" />
	</div>
</body>
</html>
`
