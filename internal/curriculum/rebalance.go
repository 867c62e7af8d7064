package curriculum

import "github.com/currilab/curricula-backend/internal/domain"

const (
	// CoreCeiling is the maximum number of core disciplines in a plan.
	CoreCeiling = 20
	// ElectiveFloor is the minimum number of elective disciplines; it may
	// stay unmet when too few core candidates are non-fundamental.
	ElectiveFloor = 20
)

// Rebalance enforces the block quotas over an already classified set.
// The ceiling is applied first (excess core beyond CoreCeiling flips to
// elective, taken from the tail of the core subsequence), then the floor
// (non-fundamental core candidates flip until ElectiveFloor is reached or
// candidates run out). The ceiling is not re-checked afterwards.
//
// The result lists the core subsequence first, then the electives with
// any flipped candidates appended in flip order.
func Rebalance(cands []domain.DisciplineCandidate) []domain.DisciplineCandidate {
	core := make([]domain.DisciplineCandidate, 0, len(cands))
	elective := make([]domain.DisciplineCandidate, 0, len(cands))
	for _, c := range cands {
		if c.BlockHint == domain.BlockCore {
			core = append(core, c)
		} else {
			elective = append(elective, c)
		}
	}

	if len(core) > CoreCeiling {
		extra := core[CoreCeiling:]
		core = core[:CoreCeiling]
		for i := range extra {
			extra[i].BlockHint = domain.BlockElective
		}
		elective = append(elective, extra...)
	}

	if len(elective) < ElectiveFloor {
		need := ElectiveFloor - len(elective)
		kept := core[:0]
		for _, c := range core {
			if need > 0 && !IsFundamental(c.Name) {
				c.BlockHint = domain.BlockElective
				elective = append(elective, c)
				need--
				continue
			}
			kept = append(kept, c)
		}
		core = kept
	}

	return append(core, elective...)
}
