package viewresolver

import (
	"regexp"
	"slices"
	"strings"
)

// DefaultPattern is the query pattern used by stores unless overridden.
// Tokens: :path, :prefix, :action and one token per details dimension.
const DefaultPattern = "{:path}/:prefix/:action{.:locale,}{.:formats,}{+:variants,}{.:handlers,}"

// Tokens are substituted in one pass, so a token that is a prefix of another
// (:format and :formats) or a value containing a token-like text is never
// substituted twice.
var tokenPattern = regexp.MustCompile(`:([A-Za-z_]+)(/)?`)

// BuildQuery expands pattern into a glob query for one lookup.
//
//   - :path becomes the de-duplicated search paths joined by commas
//   - :prefix becomes the prefix followed by the slash that trails the token;
//     with an empty prefix both disappear
//   - :action becomes the template name, with a leading underscore for partials
//   - any other token becomes {a,b,...} of the matching details dimension,
//     or * when variants is [any]
//
// Literal values are escaped so glob metacharacters in names and paths are
// matched verbatim.
func BuildQuery(pattern string, paths []string, name, prefix string, partial bool, details Details) string {
	return tokenPattern.ReplaceAllStringFunc(pattern, func(match string) string {
		sub := tokenPattern.FindStringSubmatch(match)
		token, slash := sub[1], sub[2]

		switch token {
		case "path":
			return strings.Join(escapeAll(compactUniq(paths)), ",") + slash
		case "prefix":
			if prefix == "" {
				return ""
			}
			return escapeEntry(prefix) + slash
		case "action":
			if partial {
				return escapeEntry("_"+name) + slash
			}
			return escapeEntry(name) + slash
		}

		candidates := details[token]
		if token == DetailVariants && len(candidates) == 1 && candidates[0] == VariantsAny {
			return "*" + slash
		}
		return "{" + strings.Join(escapeAll(compactUniq(candidates)), ",") + "}" + slash
	})
}

// compactUniq drops blank values and later duplicates, keeping order.
func compactUniq(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" || slices.Contains(out, v) {
			continue
		}
		out = append(out, v)
	}
	return out
}

const globMeta = `\*?[]{},`

func escapeEntry(s string) string {
	if !strings.ContainsAny(s, globMeta) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for _, r := range s {
		if strings.ContainsRune(globMeta, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func escapeAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = escapeEntry(v)
	}
	return out
}
