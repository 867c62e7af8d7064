package services

import (
	"errors"
	"testing"

	"github.com/currilab/curricula-backend/internal/domain"
)

func TestExportPlan(t *testing.T) {
	svc := NewExportService(testLogger())

	plan := domain.Plan{
		{Block: "Блок 1. Обязательная часть", Term: 1, Discipline: "Математика", Hours: 144, Assessment: "экзамен"},
		{Block: "Блок 3. ГИА", Term: 8, Discipline: "ВКР", Hours: 216, Assessment: "защита"},
	}

	buf, filename, err := svc.ExportPlan(plan)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filename != "учебный_план.xlsx" {
		t.Errorf("filename = %q", filename)
	}
	if buf.Len() == 0 {
		t.Error("empty workbook")
	}
}

func TestExportPlanEmpty(t *testing.T) {
	svc := NewExportService(testLogger())
	if _, _, err := svc.ExportPlan(nil); !errors.Is(err, ErrExportEmpty) {
		t.Fatalf("expected ErrExportEmpty, got %v", err)
	}
}

func TestExportCompetencies(t *testing.T) {
	svc := NewExportService(testLogger())

	buf, filename, err := svc.ExportCompetencies([]domain.CompetencyRecord{
		{Code: "УК-1", Description: "Описание"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filename != "компетенции.xlsx" || buf.Len() == 0 {
		t.Errorf("filename = %q, size = %d", filename, buf.Len())
	}
}

func TestExportFunctions(t *testing.T) {
	svc := NewExportService(testLogger())

	set := domain.FunctionSet{Functions: []domain.OccupationalFunction{
		{Code: "A/01.3", Name: "Разработка", Actions: []string{"Кодирование"}},
	}}
	buf, filename, err := svc.ExportFunctions(set)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filename != "трудовые_функции.xlsx" || buf.Len() == 0 {
		t.Errorf("filename = %q, size = %d", filename, buf.Len())
	}

	if _, _, err := svc.ExportFunctions(domain.FunctionSet{}); !errors.Is(err, ErrExportEmpty) {
		t.Errorf("expected ErrExportEmpty, got %v", err)
	}
}
