// Package curriculum is the deterministic assembly core of the planner:
// deduplication, block classification, quota rebalancing, term
// distribution, assessment assignment and final table assembly. Nothing
// in this package performs I/O or calls the model; every function is a
// pure transformation so identical input always produces an identical
// plan.
package curriculum

import (
	"strings"

	"github.com/currilab/curricula-backend/internal/domain"
)

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Deduplicate keeps one candidate per normalized name, preserving
// first-seen order.
func Deduplicate(cands []domain.DisciplineCandidate) []domain.DisciplineCandidate {
	seen := make(map[string]struct{}, len(cands))
	out := make([]domain.DisciplineCandidate, 0, len(cands))
	for _, c := range cands {
		key := normalizeName(c.Name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}
