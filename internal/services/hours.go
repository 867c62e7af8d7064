package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/currilab/curricula-backend/internal/clients/yandexgpt"
	"github.com/currilab/curricula-backend/internal/curriculum"
	"github.com/currilab/curricula-backend/internal/domain"
	"github.com/currilab/curricula-backend/internal/pkg/jsonx"
	"github.com/currilab/curricula-backend/internal/pkg/logger"
)

// HoursService is an optional model pass that suggests per-discipline
// hours and assessment forms on top of the deterministic defaults.
type HoursService struct {
	llm yandexgpt.Client
	log *logger.Logger
}

func NewHoursService(llm yandexgpt.Client, log *logger.Logger) *HoursService {
	return &HoursService{llm: llm, log: log.With("service", "hours")}
}

// SuggestOverrides returns hour and assessment overrides keyed by
// discipline name. Any failure returns an empty map, leaving the
// deterministic values in force.
func (s *HoursService) SuggestOverrides(ctx context.Context, cands []domain.DisciplineCandidate) map[string]curriculum.RowOverride {
	names := make([]string, 0, len(cands))
	for _, c := range cands {
		names = append(names, c.Name)
	}
	namesJSON, _ := json.Marshal(names)

	prompt := fmt.Sprintf(`Ты — методист вуза РФ.

Дан список дисциплин:
%s

Для каждой предложи объём в часах (72, 108, 144 или 216) и форму
контроля ("экзамен", "зачёт", "диф. зачёт").

Верни строго JSON:
{
  "items": [
    {"name": "Название", "hours": 144, "assessment": "экзамен"}
  ]
}`, namesJSON)

	raw, err := s.llm.Complete(ctx, []yandexgpt.Message{{Role: "user", Text: prompt}}, yandexgpt.Options{
		Temperature: 0.2,
		MaxTokens:   1800,
		Lite:        true,
	})
	if err != nil {
		s.log.Warn("hours suggestion failed", "error", err)
		return map[string]curriculum.RowOverride{}
	}

	var parsed struct {
		Items []struct {
			Name       string `json:"name"`
			Hours      int    `json:"hours"`
			Assessment string `json:"assessment"`
		} `json:"items"`
	}
	if err := jsonx.ExtractObject(raw, &parsed); err != nil {
		s.log.Warn("hours response unparseable", "error", err)
		return map[string]curriculum.RowOverride{}
	}

	overrides := make(map[string]curriculum.RowOverride, len(parsed.Items))
	for _, item := range parsed.Items {
		if item.Name == "" {
			continue
		}
		overrides[item.Name] = curriculum.RowOverride{
			Hours:      item.Hours,
			Assessment: item.Assessment,
		}
	}
	return overrides
}
