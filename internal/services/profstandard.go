package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/currilab/curricula-backend/internal/clients/yandexgpt"
	"github.com/currilab/curricula-backend/internal/domain"
	"github.com/currilab/curricula-backend/internal/pkg/jsonx"
	"github.com/currilab/curricula-backend/internal/pkg/logger"
)

// tfCode tolerates the separator noise scans and tables leave behind:
// A/01.3, A 01.3, A-01-3, A01.3 all normalize to A/01.3.
var tfCode = regexp.MustCompile(`\b([A-D])\s*[/\-–—]?\s*(\d{2})\s*[\.\-–—,·]?\s*(\d)\b`)

// ErrNoFunctionCodes reports a profstandard with no recognizable codes.
var ErrNoFunctionCodes = errors.New("Не найдено ни одного кода ТФ.")

const (
	contextWindow        = 25
	functionContextLimit = 6000
	matchDescLimit       = 300
	matchNameLimit       = 200
	matchListLimit       = 5
)

// ProfstandardService extracts occupational functions from professional
// standards and matches them against FGOS competencies.
type ProfstandardService struct {
	llm yandexgpt.Client
	log *logger.Logger
}

func NewProfstandardService(llm yandexgpt.Client, log *logger.Logger) *ProfstandardService {
	return &ProfstandardService{llm: llm, log: log.With("service", "profstandard")}
}

// ExtractFunctionCodes finds every occupational function code in the
// text, canonicalized to L/NN.N, first occurrence wins.
func (s *ProfstandardService) ExtractFunctionCodes(text string) []string {
	matches := tfCode.FindAllStringSubmatch(text, -1)
	seen := make(map[string]struct{}, len(matches))
	codes := make([]string, 0, len(matches))
	for _, m := range matches {
		code := fmt.Sprintf("%s/%s.%s", m[1], m[2], m[3])
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	return codes
}

// FunctionContext returns the lines around the first occurrence of a
// canonical code, matched flexibly since the source text rarely spells
// the code the canonical way.
func (s *ProfstandardService) FunctionContext(text, code string) string {
	parts := strings.SplitN(code, "/", 2)
	if len(parts) != 2 {
		return ""
	}
	nums := strings.SplitN(parts[1], ".", 2)
	if len(nums) != 2 {
		return ""
	}

	flex, err := regexp.Compile(parts[0] + `\s*[/\-–—]?\s*` + nums[0] + `\s*[\.\-–—,·]?\s*` + nums[1])
	if err != nil {
		return ""
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if !flex.MatchString(line) {
			continue
		}
		start := i - contextWindow
		if start < 0 {
			start = 0
		}
		end := i + contextWindow
		if end > len(lines) {
			end = len(lines)
		}
		return strings.Join(lines[start:end], "\n")
	}
	return ""
}

// AnalyzeFunction asks the model to structure a single occupational
// function from its surrounding text. Parse failures produce an empty
// record carrying only the code.
func (s *ProfstandardService) AnalyzeFunction(ctx context.Context, code, contextText string) domain.OccupationalFunction {
	empty := domain.OccupationalFunction{
		Code:      code,
		Actions:   []string{},
		Knowledge: []string{},
		Skills:    []string{},
		Other:     []string{},
	}

	runes := []rune(contextText)
	if len(runes) > functionContextLimit {
		runes = runes[:functionContextLimit]
	}

	prompt := fmt.Sprintf(`Ты — эксперт по профессиональным стандартам РФ.

На входе — фрагмент текста профессионального стандарта,
относящийся к трудовой функции с кодом %s.

Извлеки строго по этому коду:
- name
- actions
- knowledge
- skills
- other

Верни строго JSON.
%s`, code, string(runes))

	raw, err := s.llm.Complete(ctx, []yandexgpt.Message{{Role: "user", Text: prompt}}, yandexgpt.Options{
		Temperature: 0.2,
		MaxTokens:   1200,
		Lite:        true,
	})
	if err != nil {
		s.log.Warn("function analysis failed", "code", code, "error", err)
		return empty
	}

	var parsed struct {
		Name      string   `json:"name"`
		Actions   []string `json:"actions"`
		Knowledge []string `json:"knowledge"`
		Skills    []string `json:"skills"`
		Other     []string `json:"other"`
	}
	if err := jsonx.ExtractObject(raw, &parsed); err != nil {
		s.log.Warn("function response unparseable", "code", code, "error", err)
		return empty
	}

	fn := domain.OccupationalFunction{
		Code:      code,
		Name:      parsed.Name,
		Actions:   parsed.Actions,
		Knowledge: parsed.Knowledge,
		Skills:    parsed.Skills,
		Other:     parsed.Other,
	}
	if fn.Actions == nil {
		fn.Actions = []string{}
	}
	if fn.Knowledge == nil {
		fn.Knowledge = []string{}
	}
	if fn.Skills == nil {
		fn.Skills = []string{}
	}
	if fn.Other == nil {
		fn.Other = []string{}
	}
	return fn
}

// AnalyzeStandard extracts every function code and structures each one.
func (s *ProfstandardService) AnalyzeStandard(ctx context.Context, text string) (domain.FunctionSet, error) {
	codes := s.ExtractFunctionCodes(text)
	if len(codes) == 0 {
		return domain.FunctionSet{}, ErrNoFunctionCodes
	}

	set := domain.FunctionSet{Functions: make([]domain.OccupationalFunction, 0, len(codes))}
	for _, code := range codes {
		contextText := s.FunctionContext(text, code)
		set.Functions = append(set.Functions, s.AnalyzeFunction(ctx, code, contextText))
	}
	return set, nil
}

// Match builds a competency-to-function correspondence report. Inputs
// are truncated before prompting so an oversized standard cannot blow
// the context window.
func (s *ProfstandardService) Match(ctx context.Context, comps []domain.CompetencyRecord, set domain.FunctionSet) domain.MatchReport {
	fallback := domain.MatchReport{
		Matches:         []domain.CompetencyMatch{},
		Gaps:            []domain.FunctionGap{},
		Recommendations: []string{"ИИ вернул некорректный JSON при сопоставлении."},
	}

	compShort := make([]domain.CompetencyRecord, 0, len(comps))
	for _, c := range comps {
		compShort = append(compShort, domain.CompetencyRecord{
			Code:        c.Code,
			Description: truncateRunes(c.Description, matchDescLimit),
		})
	}

	type shortFunction struct {
		Code      string   `json:"code"`
		Name      string   `json:"name"`
		Actions   []string `json:"actions"`
		Knowledge []string `json:"knowledge"`
		Skills    []string `json:"skills"`
	}
	fnShort := make([]shortFunction, 0, len(set.Functions))
	for _, fn := range set.Functions {
		fnShort = append(fnShort, shortFunction{
			Code:      fn.Code,
			Name:      truncateRunes(fn.Name, matchNameLimit),
			Actions:   truncateList(fn.Actions, matchListLimit),
			Knowledge: truncateList(fn.Knowledge, matchListLimit),
			Skills:    truncateList(fn.Skills, matchListLimit),
		})
	}

	compJSON, _ := json.Marshal(compShort)
	fnJSON, _ := json.Marshal(fnShort)

	prompt := fmt.Sprintf(`Ты — эксперт по образовательным стандартам РФ.

Тебе даны:
- Компетенции ФГОС (коды и описания).
- Трудовые функции профессионального стандарта (код, название, действия, знания, умения).

Твоя задача — сопоставить компетенции и трудовые функции.

Верни строго JSON:

{
  "matches": [
    {
      "competency": "УК-1",
      "related_TF": ["A/01.3"],
      "comment": "Краткое пояснение"
    }
  ],
  "gaps": [
    {
      "TF": "B/03.4",
      "reason": "Почему не покрыта"
    }
  ],
  "recommendations": ["Краткая рекомендация"]
}

Компетенции ФГОС:
%s

Трудовые функции:
%s`, compJSON, fnJSON)

	raw, err := s.llm.Complete(ctx, []yandexgpt.Message{{Role: "user", Text: prompt}}, yandexgpt.Options{
		Temperature: 0.25,
		MaxTokens:   1800,
		Lite:        true,
	})
	if err != nil {
		s.log.Warn("matching failed", "error", err)
		return fallback
	}

	var report domain.MatchReport
	if err := jsonx.ExtractObject(raw, &report); err != nil {
		s.log.Warn("match response unparseable", "error", err)
		return fallback
	}
	if report.Matches == nil {
		report.Matches = []domain.CompetencyMatch{}
	}
	if report.Gaps == nil {
		report.Gaps = []domain.FunctionGap{}
	}
	if report.Recommendations == nil {
		report.Recommendations = []string{}
	}
	return report
}

func truncateRunes(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}

func truncateList(items []string, limit int) []string {
	if items == nil {
		return []string{}
	}
	if len(items) <= limit {
		return items
	}
	return items[:limit]
}
