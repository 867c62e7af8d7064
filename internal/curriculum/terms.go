package curriculum

import (
	"fmt"
	"strings"
)

// TermPolicy selects how disciplines are spread across academic terms.
type TermPolicy string

const (
	// PolicyRoundRobin cycles each block through its allowed terms with
	// no per-term cap. This is the default.
	PolicyRoundRobin TermPolicy = "round_robin"
	// PolicyCapacity fills each allowed term up to a fixed cap in input
	// order. Overflow is not dropped: the remainder lands on the last
	// allowed term and is reported in the returned diagnostic.
	PolicyCapacity TermPolicy = "capacity"
)

var (
	coreTerms     = []int{1, 2, 3, 4, 5, 6}
	electiveTerms = []int{3, 4, 5, 6, 7}

	coreTermCaps     = []int{4, 4, 4, 4, 2, 2}
	electiveTermCaps = []int{4, 4, 4, 4, 4}
)

// Distribute maps every discipline name to a single term. Core and
// elective lists are distributed independently; the mapping is a pure
// function of (ordered names, block), so identical input reproduces the
// same plan. The returned diagnostic is empty except for capacity
// overflow.
func Distribute(policy TermPolicy, core, elective []string) (map[string]int, string) {
	switch policy {
	case PolicyCapacity:
		return distributeCapacity(core, elective)
	default:
		return distributeRoundRobin(core, elective), ""
	}
}

func distributeRoundRobin(core, elective []string) map[string]int {
	out := make(map[string]int, len(core)+len(elective))
	for i, name := range core {
		out[name] = coreTerms[i%len(coreTerms)]
	}
	for i, name := range elective {
		out[name] = electiveTerms[i%len(electiveTerms)]
	}
	return out
}

func distributeCapacity(core, elective []string) (map[string]int, string) {
	out := make(map[string]int, len(core)+len(elective))
	overflow := fillByCapacity(out, core, coreTerms, coreTermCaps)
	overflow = append(overflow, fillByCapacity(out, elective, electiveTerms, electiveTermCaps)...)
	if len(overflow) == 0 {
		return out, ""
	}
	return out, fmt.Sprintf(
		"вместимость семестров превышена, дисциплины перенесены в последний доступный семестр: %s",
		strings.Join(overflow, ", "),
	)
}

// fillByCapacity assigns names to terms in order, filling each term up to
// its cap. Names beyond total capacity go to the last allowed term and
// are returned so the caller can report them.
func fillByCapacity(out map[string]int, names []string, terms []int, caps []int) []string {
	termIdx := 0
	used := 0
	var overflow []string
	for _, name := range names {
		for termIdx < len(terms) && used >= caps[termIdx] {
			termIdx++
			used = 0
		}
		if termIdx >= len(terms) {
			out[name] = terms[len(terms)-1]
			overflow = append(overflow, name)
			continue
		}
		out[name] = terms[termIdx]
		used++
	}
	return overflow
}
