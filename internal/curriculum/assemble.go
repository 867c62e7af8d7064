package curriculum

import (
	"sort"
	"strings"

	"github.com/currilab/curricula-backend/internal/domain"
)

// Block labels of the assembled table.
const (
	BlockLabelCore      = "Блок 1. Обязательная часть"
	BlockLabelElective  = "Блок 1. Вариативная часть"
	BlockLabelPracticum = "Блок 2. Практика"
	BlockLabelThesis    = "Блок 3. ГИА"
)

const (
	coreHours     = 144
	electiveHours = 108
)

// Enrichment is the model-provided metadata for one discipline. The zero
// value is the documented safe default when the model call fails.
type Enrichment struct {
	Competencies  []string `json:"competencies"`
	Functions     []string `json:"TF"`
	Justification string   `json:"reason"`
}

// RowOverride carries model-suggested hours and assessment for one
// discipline; zero fields keep the deterministic values.
type RowOverride struct {
	Hours      int
	Assessment string
}

// Assemble runs the deterministic pipeline over generated candidates and
// produces the final ordered plan table: dedupe, classify, rebalance,
// distribute terms, assign assessment, merge enrichments, append the
// fixed practicum and thesis rows, sort.
//
// Zero candidates yield an empty plan, not an error; callers must check
// for emptiness before any downstream stage. The second return value is
// a list of diagnostics (currently only capacity overflow).
func Assemble(
	cands []domain.DisciplineCandidate,
	policy TermPolicy,
	enrichments map[string]Enrichment,
	overrides map[string]RowOverride,
) (domain.Plan, []string) {
	if len(cands) == 0 {
		return domain.Plan{}, nil
	}

	unique := Deduplicate(cands)
	for i := range unique {
		if unique[i].BlockHint == "" {
			unique[i].BlockHint = Classify(unique[i].Name)
		}
	}
	unique = Rebalance(unique)

	var coreNames, electiveNames []string
	isCore := make(map[string]bool, len(unique))
	for _, c := range unique {
		if c.BlockHint == domain.BlockCore {
			coreNames = append(coreNames, c.Name)
			isCore[c.Name] = true
		} else {
			electiveNames = append(electiveNames, c.Name)
		}
	}

	termOf, overflowDiag := Distribute(policy, coreNames, electiveNames)

	var diags []string
	if overflowDiag != "" {
		diags = append(diags, overflowDiag)
	}

	rows := make(domain.Plan, 0, len(unique)+3)
	for _, c := range unique {
		row := domain.PlanRow{
			Term:       termOf[c.Name],
			Discipline: c.Name,
			Assessment: AssignAssessment(c.Name),
		}
		if isCore[c.Name] {
			row.Block = BlockLabelCore
			row.Hours = coreHours
		} else {
			row.Block = BlockLabelElective
			row.Hours = electiveHours
		}
		if ov, ok := overrides[c.Name]; ok {
			if ov.Hours > 0 {
				row.Hours = ov.Hours
			}
			if ov.Assessment != "" {
				row.Assessment = ov.Assessment
			}
		}
		if meta, ok := enrichments[c.Name]; ok {
			row.Competencies = strings.Join(meta.Competencies, ", ")
			row.Functions = strings.Join(meta.Functions, ", ")
			row.Justification = meta.Justification
		}
		rows = append(rows, row)
	}

	rows = append(rows, FixedRows()...)

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Block != rows[j].Block {
			return rows[i].Block < rows[j].Block
		}
		if rows[i].Term != rows[j].Term {
			return rows[i].Term < rows[j].Term
		}
		return rows[i].Discipline < rows[j].Discipline
	})

	return rows, diags
}

// FixedRows returns the three rows every plan carries regardless of the
// generated content: two practicums and the thesis defense.
func FixedRows() []domain.PlanRow {
	return []domain.PlanRow{
		{
			Block:         BlockLabelPracticum,
			Term:          7,
			Discipline:    "Учебная практика",
			Hours:         108,
			Assessment:    domain.AssessmentPass,
			Justification: "Практика по ФГОС",
		},
		{
			Block:         BlockLabelPracticum,
			Term:          8,
			Discipline:    "Преддипломная практика",
			Hours:         108,
			Assessment:    domain.AssessmentPass,
			Justification: "Преддипломная практика по ФГОС",
		},
		{
			Block:         BlockLabelThesis,
			Term:          8,
			Discipline:    "ВКР",
			Hours:         216,
			Assessment:    domain.AssessmentDefense,
			Justification: "Государственная итоговая аттестация",
		},
	}
}
