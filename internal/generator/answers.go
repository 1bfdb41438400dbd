package generator

import "adapterforge/internal/schema"

// Typed accessors over the resolved answer set. The validator has already
// approved the values, so a missing or mistyped entry simply yields the
// zero value here.

func text(a schema.Answers, id string) string {
	s, _ := a.String(id)
	return s
}

func textOr(a schema.Answers, id, fallback string) string {
	if s, ok := a.String(id); ok && s != "" {
		return s
	}
	return fallback
}

func flag(a schema.Answers, id string) bool {
	b, _ := a.Bool(id)
	return b
}

func list(a schema.Answers, id string) []string {
	l, _ := a.Strings(id)
	return l
}

func num(a schema.Answers, id string) int {
	n, _ := a.Number(id)
	return int(n)
}

func has(a schema.Answers, id, value string) bool {
	for _, e := range list(a, id) {
		if e == value {
			return true
		}
	}
	return false
}
