package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/currilab/curricula-backend/internal/clients/yandexgpt"
	"github.com/currilab/curricula-backend/internal/domain"
	"github.com/currilab/curricula-backend/internal/pkg/jsonx"
	"github.com/currilab/curricula-backend/internal/pkg/logger"
)

// commandSystemPrompt forces the model into a single-object JSON
// command protocol for table edits.
const commandSystemPrompt = `Ты — ИИ, который ДОЛЖЕН возвращать строго JSON.

ТВОИ ЖЁСТКИЕ ПРАВИЛА:
1) Никакого текста до JSON.
2) Никакого текста после JSON.
3) Никаких комментариев.
4) Никаких пояснений.
5) Только один объект JSON.

Формат JSON-команды:

UPDATE:
{
  "action": "update",
  "discipline": "Название",
  "field": "Часы",
  "value": 72
}

DELETE:
{
  "action": "delete",
  "discipline": "Название"
}

ADD:
{
  "action": "add",
  "field": "row",
  "value": {
    "Блок": "...",
    "Семестр": 1,
    "Дисциплина": "...",
    "Часы": 72,
    "Форма контроля": "зачёт",
    "Компетенции ФГОС": [],
    "Трудовые функции": "",
    "Обоснование": "Добавлено вручную"
  }
}

ЕСЛИ НЕ МОЖЕШЬ ПОНЯТЬ КОМАНДУ — ВЕРНИ:
{
  "action": "error",
  "value": "Причина"
}`

// requiredProposalColumns must appear in a model-proposed plan; a
// proposal missing any of them is rejected as a whole.
var requiredProposalColumns = []string{
	domain.ColumnTerm,
	domain.ColumnDiscipline,
	domain.ColumnAssessment,
}

// EditorService turns free-form operator requests into either a
// full-plan proposal or a structured single-row command.
type EditorService struct {
	llm yandexgpt.Client
	log *logger.Logger
}

func NewEditorService(llm yandexgpt.Client, log *logger.Logger) *EditorService {
	return &EditorService{llm: llm, log: log.With("service", "editor")}
}

// ProposeEdit asks the model for a complete updated plan reflecting the
// request. The proposal is validated but not applied; the caller holds
// it until the operator confirms.
func (s *EditorService) ProposeEdit(ctx context.Context, userText string, current domain.Plan) (domain.Plan, string, error) {
	planJSON, _ := json.MarshalIndent(current, "", "  ")

	prompt := fmt.Sprintf(`Ты — методист вуза, помогающий корректировать учебный план.

Текущий учебный план (JSON):
%s

Запрос преподавателя:
"""%s"""

Сформируй ПРЕДЛОЖЕНИЕ изменений, но НЕ применяй их автоматически.
Верни строго JSON:

{
  "comment": "Краткое описание изменений",
  "plan_proposed": [
    {
      "Семестр": 1,
      "Дисциплина": "Название",
      "Часы": 144,
      "Форма контроля": "экзамен",
      "Компетенции ФГОС": "УК-1, ОПК-2",
      "Трудовые функции": ["A/01.3"],
      "Обоснование": "Короткое обоснование"
    }
  ]
}

Важно:
- "plan_proposed" должен быть ПОЛНЫМ обновлённым планом.
- Не добавляй ничего вне JSON.`, planJSON, userText)

	raw, err := s.llm.Complete(ctx, []yandexgpt.Message{{Role: "user", Text: prompt}}, yandexgpt.Options{
		Temperature: 0.25,
		MaxTokens:   2500,
		Lite:        true,
	})
	if err != nil {
		return nil, "", fmt.Errorf("запрос предложения изменений: %w", err)
	}

	var parsed struct {
		Comment      string           `json:"comment"`
		PlanProposed []map[string]any `json:"plan_proposed"`
	}
	if err := jsonx.ExtractObject(raw, &parsed); err != nil {
		return nil, "", fmt.Errorf("ошибка разбора ответа ИИ: %w", err)
	}
	if len(parsed.PlanProposed) == 0 {
		return nil, "", fmt.Errorf("некорректное предложение ИИ: пустой план")
	}

	present := map[string]bool{}
	for _, row := range parsed.PlanProposed {
		for col := range row {
			present[col] = true
		}
	}
	for _, col := range requiredProposalColumns {
		if !present[col] {
			return nil, "", fmt.Errorf("в предложенном плане отсутствует колонка '%s'", col)
		}
	}

	comment := parsed.Comment
	if comment == "" {
		comment = "Предложены изменения."
	}

	proposed := make(domain.Plan, 0, len(parsed.PlanProposed))
	for _, row := range parsed.PlanProposed {
		proposed = append(proposed, domain.PlanRow{
			Block:         coerceString(row[domain.ColumnBlock]),
			Term:          coerceInt(row[domain.ColumnTerm]),
			Discipline:    coerceString(row[domain.ColumnDiscipline]),
			Hours:         coerceInt(row[domain.ColumnHours]),
			Assessment:    coerceString(row[domain.ColumnAssessment]),
			Competencies:  coerceString(row[domain.ColumnCompetencies]),
			Functions:     coerceString(row[domain.ColumnFunctions]),
			Justification: coerceString(row[domain.ColumnJustification]),
		})
	}
	return proposed, comment, nil
}

// CommandEdit translates a short operator request into a structured edit
// command via the strict JSON protocol.
func (s *EditorService) CommandEdit(ctx context.Context, userText string) (domain.EditCommand, error) {
	raw, err := s.llm.Complete(ctx, []yandexgpt.Message{
		{Role: "system", Text: commandSystemPrompt},
		{Role: "user", Text: userText},
	}, yandexgpt.Options{
		Temperature: 0.1,
		MaxTokens:   500,
	})
	if err != nil {
		return nil, fmt.Errorf("запрос команды редактирования: %w", err)
	}
	return domain.ParseEditCommand(raw)
}

func coerceString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			parts = append(parts, coerceString(item))
		}
		return strings.Join(parts, ", ")
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

func coerceInt(v any) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case int:
		return t
	case string:
		n, _ := strconv.Atoi(strings.TrimSpace(t))
		return n
	default:
		return 0
	}
}
