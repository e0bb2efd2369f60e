package viewresolver

import "slices"

// ExpandBraces expands every {a,b} group of a glob pattern into separate
// patterns. Groups expand left to right, so alternatives of earlier groups
// vary slowest and the result keeps the candidate order of each group.
// Nested groups are supported, backslash escapes are left intact for the
// glob matcher, and an empty group {} expands to no alternatives.
func ExpandBraces(pattern string) []string {
	out := expandBraces(pattern)
	seen := make(map[string]struct{}, len(out))
	return slices.DeleteFunc(out, func(p string) bool {
		if _, ok := seen[p]; ok {
			return true
		}
		seen[p] = struct{}{}
		return false
	})
}

func expandBraces(pattern string) []string {
	open, end := firstGroup(pattern)
	if open < 0 {
		return []string{pattern}
	}

	head, body, tail := pattern[:open], pattern[open+1:end], pattern[end+1:]
	alternatives := splitAlternatives(body)

	out := make([]string, 0, len(alternatives))
	for _, alt := range alternatives {
		out = append(out, expandBraces(head+alt+tail)...)
	}
	return out
}

// firstGroup locates the first unescaped top-level brace group.
// It returns -1 when the pattern has no complete group.
func firstGroup(pattern string) (open, end int) {
	depth := 0
	open = -1
	for i := 0; i < len(pattern); i++ {
		switch pattern[i] {
		case '\\':
			i++
		case '{':
			if depth == 0 {
				open = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				return open, i
			}
		}
	}
	return -1, -1
}

// splitAlternatives splits a group body at its top-level commas.
func splitAlternatives(body string) []string {
	if body == "" {
		return nil
	}

	var (
		parts []string
		depth int
		start int
	)
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, body[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, body[start:])
}
