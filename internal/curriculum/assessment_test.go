package curriculum

import (
	"testing"

	"github.com/currilab/curricula-backend/internal/domain"
)

func TestAssignAssessment(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"exam_math", "Высшая математика", domain.AssessmentExam},
		{"exam_db", "Базы данных", domain.AssessmentExam},
		{"exam_security", "Информационная безопасность", domain.AssessmentExam},
		{"diff_web", "Веб-дизайн", domain.AssessmentDiffPass},
		{"diff_ux", "Проектирование UX-интерфейсов", domain.AssessmentDiffPass},
		{"soft_history", "История России", domain.AssessmentPass},
		{"soft_psychology", "Психология", domain.AssessmentPass},
		{"default_pass", "Введение в профессию", domain.AssessmentPass},
		// Exam keywords outrank the differentiated set.
		{"exam_beats_diff", "Архитектура веб-приложений", domain.AssessmentExam},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := AssignAssessment(tc.in); got != tc.want {
				t.Fatalf("AssignAssessment(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
