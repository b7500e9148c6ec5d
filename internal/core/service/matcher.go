package service

import (
	"fmt"
	"strings"

	"github.com/shoplane/auth-api/internal/core/domain"
)

// Route templates are matched segment by segment against concrete
// request paths. A ":name" segment matches any single live segment; a
// trailing "*" matches one or more remaining segments. Matching is
// structural, never regex or literal string equality.

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// matchPattern reports whether a concrete path matches a route template.
func matchPattern(pattern, path string) bool {
	tmpl := splitPath(pattern)
	segs := splitPath(path)

	for i, t := range tmpl {
		if t == "*" && i == len(tmpl)-1 {
			return len(segs) > i
		}
		if i >= len(segs) {
			return false
		}
		if strings.HasPrefix(t, ":") {
			continue
		}
		if t != segs[i] {
			return false
		}
	}
	return len(segs) == len(tmpl)
}

// specificity counts literal segments. When several templates match the
// same path, the one with the most literals wins.
func specificity(pattern string) int {
	n := 0
	for _, t := range splitPath(pattern) {
		if t != "*" && !strings.HasPrefix(t, ":") {
			n++
		}
	}
	return n
}

// validatePolicies rejects tables in which two distinct templates of
// equal specificity could match the same path for the same method. Such
// a tie has no deterministic winner and must be fixed in the table, not
// guessed at request time.
func validatePolicies(policies []domain.RoutePolicy) error {
	type entry struct{ method, pattern string }
	seen := make(map[entry]struct{}, len(policies))
	var distinct []entry
	for _, p := range policies {
		e := entry{method: strings.ToUpper(p.Method), pattern: p.Pattern}
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		distinct = append(distinct, e)
	}

	for i := 0; i < len(distinct); i++ {
		for j := i + 1; j < len(distinct); j++ {
			a, b := distinct[i], distinct[j]
			if a.method != b.method {
				continue
			}
			if specificity(a.pattern) != specificity(b.pattern) {
				continue
			}
			if patternsOverlap(a.pattern, b.pattern) {
				return fmt.Errorf("%w: %s %q vs %q", domain.ErrPolicyConflict, a.method, a.pattern, b.pattern)
			}
		}
	}
	return nil
}

// patternsOverlap reports whether two distinct templates can both match
// some concrete path.
func patternsOverlap(a, b string) bool {
	as, bs := splitPath(a), splitPath(b)
	aWild := len(as) > 0 && as[len(as)-1] == "*"
	bWild := len(bs) > 0 && bs[len(bs)-1] == "*"

	if !aWild && !bWild && len(as) != len(bs) {
		return false
	}

	// A trailing "*" consumes at least one segment, so a wildcarded
	// template only reaches paths at least as long as itself. A shorter
	// exact template can never share a path with it.
	if aWild && !bWild && len(bs) < len(as) {
		return false
	}
	if bWild && !aWild && len(as) < len(bs) {
		return false
	}

	n := len(as)
	if len(bs) < n {
		n = len(bs)
	}
	for i := 0; i < n; i++ {
		if as[i] == "*" || bs[i] == "*" {
			return true
		}
		if strings.HasPrefix(as[i], ":") || strings.HasPrefix(bs[i], ":") {
			continue
		}
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}
