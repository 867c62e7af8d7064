package curriculum

import (
	"strings"

	"github.com/currilab/curricula-backend/internal/domain"
)

// Keyword sets are checked in fixed priority order; the first match wins.
var examKeywords = []string{
	"математ", "механик", "программирован", "алгоритм",
	"базы данных", "sql", "nosql", "архитектур",
	"сет", "безопас", "машин", "искусственный интеллект",
}

var diffPassKeywords = []string{
	"график", "вектор", "растров", "мультимед",
	"веб", "api", "cms", "ux", "ui",
}

var softPassKeywords = []string{
	"культур", "истор", "философ", "психолог",
	"коммуник", "soft", "самоменедж", "управление временем",
}

// AssignAssessment picks the assessment form for a discipline name.
// Technical subjects get an exam, design and media subjects a
// differentiated pass-fail, everything else a plain pass-fail.
func AssignAssessment(name string) string {
	lower := strings.ToLower(name)
	if containsAny(lower, examKeywords) {
		return domain.AssessmentExam
	}
	if containsAny(lower, diffPassKeywords) {
		return domain.AssessmentDiffPass
	}
	if containsAny(lower, softPassKeywords) {
		return domain.AssessmentPass
	}
	return domain.AssessmentPass
}
