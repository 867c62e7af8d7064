package services

import (
	"testing"

	"github.com/currilab/curricula-backend/internal/domain"
)

func TestBuildFunctionTables(t *testing.T) {
	set := domain.FunctionSet{Functions: []domain.OccupationalFunction{
		{
			Code:      "A/01.3",
			Name:      "Разработка модулей",
			Actions:   []string{"Кодирование", "Ревью"},
			Knowledge: []string{"Языки программирования"},
			Skills:    []string{"Отладка"},
			Other:     []string{},
		},
		{
			Code:    "B/02.4",
			Name:    "Интеграция",
			Actions: []string{"", "Сборка"},
		},
	}}

	tables := BuildFunctionTables(set)

	if len(tables.List) != 2 {
		t.Fatalf("list rows = %d, want 2", len(tables.List))
	}
	if tables.List[0].Code != "A/01.3" || tables.List[0].Name != "Разработка модулей" {
		t.Errorf("unexpected list row: %+v", tables.List[0])
	}

	// 2 actions + 1 knowledge + 1 skill for the first function, one
	// non-empty action for the second.
	if len(tables.Content) != 5 {
		t.Fatalf("content rows = %d, want 5: %+v", len(tables.Content), tables.Content)
	}
	if tables.Content[0].Category != "Трудовое действие" || tables.Content[0].Content != "Кодирование" {
		t.Errorf("unexpected first content row: %+v", tables.Content[0])
	}
	for _, row := range tables.Content {
		if row.Content == "" {
			t.Errorf("empty content row leaked: %+v", row)
		}
	}
}

func TestBuildFunctionTablesEmpty(t *testing.T) {
	tables := BuildFunctionTables(domain.FunctionSet{})
	if len(tables.List) != 0 || len(tables.Content) != 0 {
		t.Fatalf("expected empty tables, got %+v", tables)
	}
}
