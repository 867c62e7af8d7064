package curriculum

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/currilab/curricula-backend/internal/domain"
)

var (
	// ErrFieldNotFound means the named field is not a plan column.
	ErrFieldNotFound = errors.New("поле не найдено в таблице")
	// ErrDisciplineNotFound means no row matched the discipline name.
	ErrDisciplineNotFound = errors.New("дисциплина не найдена в плане")
)

// ApplyCommand applies one structured edit to the plan. The returned plan
// is a copy; on any failure the message describes the problem and the
// original plan is returned untouched. Discipline matching is exact on
// the trimmed name; update and delete touch every matching row since
// discipline names are not guaranteed unique.
func ApplyCommand(p domain.Plan, cmd domain.EditCommand) (domain.Plan, string, error) {
	switch c := cmd.(type) {
	case domain.UpdateCommand:
		return applyUpdate(p, c)
	case domain.DeleteCommand:
		return applyDelete(p, c)
	case domain.AddCommand:
		return applyAdd(p, c)
	case domain.ErrorCommand:
		reason := strings.TrimSpace(c.Reason)
		if reason == "" {
			reason = "не удалось интерпретировать команду"
		}
		return p, "", errors.New(reason)
	default:
		return p, "", fmt.Errorf("неизвестная команда редактирования: %T", cmd)
	}
}

func applyUpdate(p domain.Plan, c domain.UpdateCommand) (domain.Plan, string, error) {
	if !isPlanColumn(c.Field) {
		return p, "", fmt.Errorf("%w: %q", ErrFieldNotFound, c.Field)
	}
	want := strings.TrimSpace(c.Discipline)
	out := p.Clone()
	matched := 0
	for i := range out {
		if strings.TrimSpace(out[i].Discipline) != want {
			continue
		}
		if err := setRowField(&out[i], c.Field, c.Value); err != nil {
			return p, "", err
		}
		matched++
	}
	if matched == 0 {
		return p, "", fmt.Errorf("%w: %q", ErrDisciplineNotFound, c.Discipline)
	}
	return out, fmt.Sprintf("Обновлено строк: %d (%s → %s).", matched, c.Discipline, c.Field), nil
}

func applyDelete(p domain.Plan, c domain.DeleteCommand) (domain.Plan, string, error) {
	want := strings.TrimSpace(c.Discipline)
	out := make(domain.Plan, 0, len(p))
	removed := 0
	for _, row := range p {
		if strings.TrimSpace(row.Discipline) == want {
			removed++
			continue
		}
		out = append(out, row)
	}
	if removed == 0 {
		return p, "", fmt.Errorf("%w: %q", ErrDisciplineNotFound, c.Discipline)
	}
	return out, fmt.Sprintf("Удалено строк: %d (%s).", removed, c.Discipline), nil
}

func applyAdd(p domain.Plan, c domain.AddCommand) (domain.Plan, string, error) {
	var row domain.PlanRow
	for col, val := range c.Row {
		if !isPlanColumn(col) {
			continue
		}
		if err := setRowField(&row, col, val); err != nil {
			return p, "", err
		}
	}
	out := append(p.Clone(), row)
	return out, fmt.Sprintf("Добавлена строка: %s.", row.Discipline), nil
}

func isPlanColumn(name string) bool {
	for _, col := range domain.PlanColumns {
		if col == name {
			return true
		}
	}
	return false
}

func setRowField(row *domain.PlanRow, column string, value any) error {
	switch column {
	case domain.ColumnBlock:
		row.Block = toString(value)
	case domain.ColumnTerm:
		n, err := toInt(value)
		if err != nil {
			return fmt.Errorf("семестр: %w", err)
		}
		row.Term = n
	case domain.ColumnDiscipline:
		row.Discipline = toString(value)
	case domain.ColumnHours:
		n, err := toInt(value)
		if err != nil {
			return fmt.Errorf("часы: %w", err)
		}
		row.Hours = n
	case domain.ColumnAssessment:
		row.Assessment = toString(value)
	case domain.ColumnCompetencies:
		row.Competencies = toString(value)
	case domain.ColumnFunctions:
		row.Functions = toString(value)
	case domain.ColumnJustification:
		row.Justification = toString(value)
	default:
		return fmt.Errorf("%w: %q", ErrFieldNotFound, column)
	}
	return nil
}

// toString flattens model-provided values: code lists arrive either as a
// comma-joined string or a JSON array.
func toString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			parts = append(parts, toString(item))
		}
		return strings.Join(parts, ", ")
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func toInt(v any) (int, error) {
	switch t := v.(type) {
	case float64:
		return int(t), nil
	case int:
		return t, nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, fmt.Errorf("ожидалось число, получено %q", t)
		}
		return n, nil
	case nil:
		return 0, nil
	default:
		return 0, fmt.Errorf("ожидалось число, получено %T", v)
	}
}
