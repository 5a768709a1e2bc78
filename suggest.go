package capgen

import (
	"fmt"
	"maps"
	"slices"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/pdxtools/capgen/rules"
)

// unmatchedOverrides reports override entity ids that did not match any
// entity seen during a run, with the closest seen id as a suggestion.
// Nothing is reported when no entity was seen at all.
func unmatchedOverrides(set rules.Set, seen []string) []Diagnostic {
	if len(seen) == 0 {
		return nil
	}
	seenSet := make(map[string]struct{}, len(seen))
	for _, id := range seen {
		seenSet[id] = struct{}{}
	}
	candidates := slices.Sorted(maps.Keys(seenSet))

	var diags []Diagnostic
	for _, r := range set {
		for _, id := range slices.Sorted(maps.Keys(r.Overrides)) {
			if _, ok := seenSet[id]; ok {
				continue
			}
			msg := fmt.Sprintf("Override for entity %s in rule %s matched no entity", id, r.Produces)
			if s := suggest(id, candidates); s != "" {
				msg += fmt.Sprintf(" (did you mean %s?)", s)
			}
			diags = append(diags, Diagnostic{
				Severity: SeverityWarning,
				Code:     DiagOverrideUnmatched,
				Message:  msg,
				Entity:   id,
			})
		}
	}
	return diags
}

// suggest returns the candidate closest to id, or "" if none is close.
// Candidates containing id as a fuzzy subsequence win; otherwise the
// nearest candidate by edit distance within a quarter of id's length.
func suggest(id string, candidates []string) string {
	if ranks := fuzzy.RankFindNormalizedFold(id, candidates); len(ranks) > 0 {
		sort.Stable(ranks)
		return ranks[0].Target
	}

	best, bestDist := "", max(2, len(id)/4)+1
	for _, c := range candidates {
		if d := fuzzy.LevenshteinDistance(id, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
