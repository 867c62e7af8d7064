package domain

// CompetencyRecord is one graduate competency from an educational standard.
// Code follows the УК-N / ОПК-N / ПК-N scheme.
type CompetencyRecord struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// OccupationalFunction is one labor function from an occupational standard.
// Code follows the LETTER/NN.N scheme (category/group.level).
type OccupationalFunction struct {
	Code      string   `json:"code"`
	Name      string   `json:"name"`
	Actions   []string `json:"actions"`
	Knowledge []string `json:"knowledge"`
	Skills    []string `json:"skills"`
	Other     []string `json:"other"`
}

// FunctionSet groups every function detected in one occupational standard.
type FunctionSet struct {
	Functions []OccupationalFunction `json:"TF"`
}

// CompetencyMatch links one competency to the functions it supports.
type CompetencyMatch struct {
	Competency       string   `json:"competency"`
	RelatedFunctions []string `json:"related_TF"`
	Comment          string   `json:"comment"`
}

// FunctionGap names a function no competency covers.
type FunctionGap struct {
	Function string `json:"TF"`
	Reason   string `json:"reason"`
}

// MatchReport is the outcome of aligning competencies with functions.
type MatchReport struct {
	Matches         []CompetencyMatch `json:"matches"`
	Gaps            []FunctionGap     `json:"gaps"`
	Recommendations []string          `json:"recommendations"`
}
