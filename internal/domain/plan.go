package domain

// Block marks which part of the curriculum a discipline belongs to.
type Block string

const (
	BlockCore     Block = "обязательная"
	BlockElective Block = "вариативная"
)

// DisciplineCandidate is a generated course suggestion before assembly.
// Name is the identity key: two candidates whose names normalize to the
// same string are duplicates.
type DisciplineCandidate struct {
	Name         string   `json:"name"`
	BlockHint    Block    `json:"block_hint,omitempty"`
	Competencies []string `json:"competencies"`
	Functions    []string `json:"TF"`
}

// Assessment forms used in the final plan.
const (
	AssessmentExam     = "экзамен"
	AssessmentPass     = "зачёт"
	AssessmentDiffPass = "диф. зачёт"
	AssessmentDefense  = "защита"
)

// Plan table column names, in the fixed export order.
const (
	ColumnBlock         = "Блок"
	ColumnTerm          = "Семестр"
	ColumnDiscipline    = "Дисциплина"
	ColumnHours         = "Часы"
	ColumnAssessment    = "Форма контроля"
	ColumnCompetencies  = "Компетенции ФГОС"
	ColumnFunctions     = "Трудовые функции"
	ColumnJustification = "Обоснование"
)

// PlanColumns is the canonical column order of the plan table.
var PlanColumns = []string{
	ColumnBlock,
	ColumnTerm,
	ColumnDiscipline,
	ColumnHours,
	ColumnAssessment,
	ColumnCompetencies,
	ColumnFunctions,
	ColumnJustification,
}

// PlanRow is one scheduled entry of the final plan table.
type PlanRow struct {
	Block         string `json:"Блок"`
	Term          int    `json:"Семестр"`
	Discipline    string `json:"Дисциплина"`
	Hours         int    `json:"Часы"`
	Assessment    string `json:"Форма контроля"`
	Competencies  string `json:"Компетенции ФГОС"`
	Functions     string `json:"Трудовые функции"`
	Justification string `json:"Обоснование"`
}

// Plan is the assembled curriculum table. Rows are append-only during
// assembly; afterwards the table is mutated only through edit commands.
type Plan []PlanRow

// Clone returns an independent copy of the plan.
func (p Plan) Clone() Plan {
	if p == nil {
		return nil
	}
	out := make(Plan, len(p))
	copy(out, p)
	return out
}
