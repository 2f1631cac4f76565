// Package render substitutes named placeholders in user-facing text
// templates. Templates use {name} markers so operators can reorder or drop
// values without positional format verbs.
package render

import "strings"

// Fill replaces every {key} marker in tmpl with its value from vars.
// Unknown markers are left untouched.
func Fill(tmpl string, vars map[string]string) string {
	if len(vars) == 0 {
		return tmpl
	}
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}
