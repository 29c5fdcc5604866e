package plan

import (
	"regexp"
	"strings"

	"github.com/planweaver/planweaver-backend/internal/types"
)

// Placeholder syntax is the one wire-visible format this engine owns:
// {{identifier}} with identifier = [A-Za-z0-9_]+. Content not containing a
// matching field id round-trips unchanged.
var placeholderPattern = regexp.MustCompile(`\{\{([A-Za-z0-9_]+)\}\}`)

// Substitute replaces every {{id}} whose id is a key in resolved with the
// value's string form. Unknown identifiers stay verbatim, braces included.
// Single non-recursive pass: replaced values are never re-scanned, so a
// user-supplied value containing placeholder syntax cannot trigger further
// expansion.
func Substitute(content string, resolved map[string]Value) string {
	if len(resolved) == 0 {
		return content
	}
	return placeholderPattern.ReplaceAllStringFunc(content, func(match string) string {
		id := match[2 : len(match)-2]
		if v, ok := resolved[id]; ok {
			return v.Raw
		}
		return match
	})
}

// RenderStrategy resolves every declared field in declaration order,
// substitutes the strategy content, then appends each non-empty conditional
// paragraph as its own paragraph, still in declaration order.
func RenderStrategy(strategy *types.Strategy, supplied map[string]Value) string {
	if strategy == nil {
		return ""
	}
	fields := strategy.Fields()
	resolved := make(map[string]Value, len(fields))
	var extras []string
	for _, field := range fields {
		res := ResolveField(field, supplied)
		if res.Value != nil {
			resolved[field.ID] = *res.Value
		}
		if res.ExtraText != "" {
			extras = append(extras, res.ExtraText)
		}
	}

	out := Substitute(strategy.Content, resolved)
	if len(extras) > 0 {
		var b strings.Builder
		b.WriteString(out)
		for _, extra := range extras {
			b.WriteString("\n\n")
			b.WriteString(extra)
		}
		out = b.String()
	}
	return out
}
