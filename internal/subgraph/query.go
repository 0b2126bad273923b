package subgraph

import (
	"fmt"
	"strings"
)

// Filter is the discovery filter vocabulary. Zero values mean "inactive";
// an empty Search string is not a filter.
type Filter struct {
	Search      string
	HasReviews  bool
	HasEndpoint bool
}

// Active reports whether any filter condition is set.
func (f Filter) Active() bool {
	return f.Search != "" || f.HasReviews || f.HasEndpoint
}

// BuildWhere renders the filter as a subgraph where-clause, including the
// leading ", where: {...}" separator, or an empty string when no filter is
// active.
//
// The subgraph dialect rejects a top-level "or" group sitting beside
// sibling conditions, so whenever two or more conditions are active they
// are all wrapped in a single "and" group, regardless of which conditions
// those are. A single active condition is emitted bare.
func (f Filter) BuildWhere() string {
	var conds []string
	if f.Search != "" {
		conds = append(conds, fmt.Sprintf(`registrationFile_: {name_contains_nocase: %s}`, EscapeString(f.Search)))
	}
	if f.HasReviews {
		conds = append(conds, `totalFeedback_gt: "0"`)
	}
	if f.HasEndpoint {
		conds = append(conds, `or: [{registrationFile_: {mcpEndpoint_not: null}}, {registrationFile_: {a2aEndpoint_not: null}}]`)
	}

	switch len(conds) {
	case 0:
		return ""
	case 1:
		return ", where: {" + conds[0] + "}"
	default:
		wrapped := make([]string, len(conds))
		for i, c := range conds {
			wrapped[i] = "{" + c + "}"
		}
		return ", where: {and: [" + strings.Join(wrapped, ", ") + "]}"
	}
}

// EscapeString renders s as a double-quoted GraphQL string literal.
// Backslashes, quotes and control characters are escaped so that a search
// term can never break out of the literal and corrupt the query text.
func EscapeString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\u%04x`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}
