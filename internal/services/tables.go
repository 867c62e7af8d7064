package services

import "github.com/currilab/curricula-backend/internal/domain"

// FunctionListRow is one line of the function summary table.
type FunctionListRow struct {
	Code string `json:"Код ТФ"`
	Name string `json:"Название"`
}

// FunctionContentRow is one line of the function content table: a
// single action, knowledge, skill or other item tied to its function.
type FunctionContentRow struct {
	Code     string `json:"Код ТФ"`
	Category string `json:"Категория"`
	Content  string `json:"Содержание"`
}

// FunctionTables is the display and export form of a function set.
type FunctionTables struct {
	List    []FunctionListRow    `json:"list"`
	Content []FunctionContentRow `json:"content"`
}

// Content table categories.
const (
	categoryAction    = "Трудовое действие"
	categoryKnowledge = "Знание"
	categorySkill     = "Умение"
	categoryOther     = "Другое"
)

// BuildFunctionTables flattens a function set into two tables: the
// function list and the per-item content rows, in extraction order.
func BuildFunctionTables(set domain.FunctionSet) FunctionTables {
	tables := FunctionTables{
		List:    make([]FunctionListRow, 0, len(set.Functions)),
		Content: []FunctionContentRow{},
	}
	for _, fn := range set.Functions {
		tables.List = append(tables.List, FunctionListRow{Code: fn.Code, Name: fn.Name})
		appendContent(&tables.Content, fn.Code, categoryAction, fn.Actions)
		appendContent(&tables.Content, fn.Code, categoryKnowledge, fn.Knowledge)
		appendContent(&tables.Content, fn.Code, categorySkill, fn.Skills)
		appendContent(&tables.Content, fn.Code, categoryOther, fn.Other)
	}
	return tables
}

func appendContent(rows *[]FunctionContentRow, code, category string, items []string) {
	for _, item := range items {
		if item == "" {
			continue
		}
		*rows = append(*rows, FunctionContentRow{Code: code, Category: category, Content: item})
	}
}
