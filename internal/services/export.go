package services

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/currilab/curricula-backend/internal/domain"
	"github.com/currilab/curricula-backend/internal/pkg/logger"
)

// ErrExportEmpty reports an export request over an empty data set.
var ErrExportEmpty = errors.New("нет данных для экспорта")

// ExportService renders session data as xlsx workbooks.
type ExportService struct {
	log *logger.Logger
}

func NewExportService(log *logger.Logger) *ExportService {
	return &ExportService{log: log.With("service", "export")}
}

// ExportPlan writes the plan as a single-sheet workbook with the
// canonical column order.
func (s *ExportService) ExportPlan(plan domain.Plan) (*bytes.Buffer, string, error) {
	if len(plan) == 0 {
		return nil, "", ErrExportEmpty
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Учебный план"
	if err := setupSheet(f, sheet); err != nil {
		return nil, "", err
	}

	for i, col := range domain.PlanColumns {
		if err := setCell(f, sheet, i+1, 1, col); err != nil {
			return nil, "", err
		}
	}
	for r, row := range plan {
		values := []any{
			row.Block, row.Term, row.Discipline, row.Hours,
			row.Assessment, row.Competencies, row.Functions, row.Justification,
		}
		for c, v := range values {
			if err := setCell(f, sheet, c+1, r+2, v); err != nil {
				return nil, "", err
			}
		}
	}

	return finishWorkbook(f, s.log, "учебный_план.xlsx")
}

// ExportCompetencies writes the extracted competency records.
func (s *ExportService) ExportCompetencies(comps []domain.CompetencyRecord) (*bytes.Buffer, string, error) {
	if len(comps) == 0 {
		return nil, "", ErrExportEmpty
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Компетенции"
	if err := setupSheet(f, sheet); err != nil {
		return nil, "", err
	}

	headers := []any{"Код", "Описание"}
	for c, h := range headers {
		if err := setCell(f, sheet, c+1, 1, h); err != nil {
			return nil, "", err
		}
	}
	for r, comp := range comps {
		if err := setCell(f, sheet, 1, r+2, comp.Code); err != nil {
			return nil, "", err
		}
		if err := setCell(f, sheet, 2, r+2, comp.Description); err != nil {
			return nil, "", err
		}
	}

	return finishWorkbook(f, s.log, "компетенции.xlsx")
}

// ExportFunctions writes the function tables as two sheets: the
// function list and the flattened content rows.
func (s *ExportService) ExportFunctions(set domain.FunctionSet) (*bytes.Buffer, string, error) {
	if len(set.Functions) == 0 {
		return nil, "", ErrExportEmpty
	}
	tables := BuildFunctionTables(set)

	f := excelize.NewFile()
	defer f.Close()

	const listSheet = "Трудовые функции"
	if err := setupSheet(f, listSheet); err != nil {
		return nil, "", err
	}
	if err := setCell(f, listSheet, 1, 1, "Код ТФ"); err != nil {
		return nil, "", err
	}
	if err := setCell(f, listSheet, 2, 1, "Название"); err != nil {
		return nil, "", err
	}
	for r, row := range tables.List {
		if err := setCell(f, listSheet, 1, r+2, row.Code); err != nil {
			return nil, "", err
		}
		if err := setCell(f, listSheet, 2, r+2, row.Name); err != nil {
			return nil, "", err
		}
	}

	const contentSheet = "Содержание ТФ"
	if _, err := f.NewSheet(contentSheet); err != nil {
		return nil, "", err
	}
	headers := []any{"Код ТФ", "Категория", "Содержание"}
	for c, h := range headers {
		if err := setCell(f, contentSheet, c+1, 1, h); err != nil {
			return nil, "", err
		}
	}
	for r, row := range tables.Content {
		values := []any{row.Code, row.Category, row.Content}
		for c, v := range values {
			if err := setCell(f, contentSheet, c+1, r+2, v); err != nil {
				return nil, "", err
			}
		}
	}

	return finishWorkbook(f, s.log, "трудовые_функции.xlsx")
}

func setupSheet(f *excelize.File, name string) error {
	idx, err := f.NewSheet(name)
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)
	return f.DeleteSheet("Sheet1")
}

func setCell(f *excelize.File, sheet string, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, cell, value)
}

func finishWorkbook(f *excelize.File, log *logger.Logger, filename string) (*bytes.Buffer, string, error) {
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		log.Error("workbook write failed", "error", err)
		return nil, "", fmt.Errorf("генерация xlsx: %w", err)
	}
	return buf, filename, nil
}
