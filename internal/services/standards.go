package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/currilab/curricula-backend/internal/clients/yandexgpt"
	"github.com/currilab/curricula-backend/internal/domain"
	"github.com/currilab/curricula-backend/internal/pkg/jsonx"
	"github.com/currilab/curricula-backend/internal/pkg/logger"
)

// competencyCode matches УК/ОПК/ПК codes anywhere in an FGOS text.
var competencyCode = regexp.MustCompile(`(УК-\d+|ОПК-\d+|ПК-\d+)`)

// requirementsHeader ends the competency section of every bachelor FGOS.
const requirementsHeader = "IV. Требования к условиям реализации программы бакалавриата"

const profileTextLimit = 12000

// StandardsService extracts competencies and detects training profiles
// from FGOS documents.
type StandardsService struct {
	llm yandexgpt.Client
	log *logger.Logger
}

func NewStandardsService(llm yandexgpt.Client, log *logger.Logger) *StandardsService {
	return &StandardsService{llm: llm, log: log.With("service", "standards")}
}

// ExtractCompetencies pulls every coded competency with its description.
// A description runs from the code up to the next code or the section
// IV header, whichever comes first, with whitespace collapsed.
func (s *StandardsService) ExtractCompetencies(text string) []domain.CompetencyRecord {
	body := text
	if idx := strings.Index(body, requirementsHeader); idx >= 0 {
		body = body[:idx]
	}

	locs := competencyCode.FindAllStringIndex(body, -1)
	records := make([]domain.CompetencyRecord, 0, len(locs))
	for i, loc := range locs {
		code := body[loc[0]:loc[1]]
		end := len(body)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		desc := body[loc[1]:end]
		desc = strings.TrimLeft(desc, ". \t\r\n")
		desc = strings.Join(strings.Fields(desc), " ")
		records = append(records, domain.CompetencyRecord{Code: code, Description: desc})
	}
	return records
}

// DetectProfile asks the model for the 1-3 most likely training
// profiles. Any model failure collapses into a single explanatory entry.
func (s *StandardsService) DetectProfile(ctx context.Context, text string) []string {
	runes := []rune(text)
	if len(runes) > profileTextLimit {
		runes = runes[:profileTextLimit]
	}

	prompt := fmt.Sprintf(`Ты — эксперт по образовательным стандартам РФ.

На входе — текст ФГОС.
Определи 1-3 наиболее вероятных профиля подготовки.

Верни строго JSON:
{
  "profiles": ["Профиль1", "Профиль2"]
}

Текст ФГОС:
%s`, string(runes))

	raw, err := s.llm.Complete(ctx, []yandexgpt.Message{{Role: "user", Text: prompt}}, yandexgpt.Options{
		Temperature: 0.2,
		MaxTokens:   800,
		Lite:        true,
	})
	if err != nil {
		s.log.Warn("profile detection failed", "error", err)
		return []string{"Не удалось определить профиль"}
	}

	var parsed struct {
		Profiles []string `json:"profiles"`
	}
	if err := jsonx.ExtractObject(raw, &parsed); err != nil || len(parsed.Profiles) == 0 {
		s.log.Warn("profile response unparseable", "error", err)
		return []string{"Не удалось определить профиль"}
	}
	return parsed.Profiles
}
