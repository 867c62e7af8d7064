package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/currilab/curricula-backend/internal/clients/yandexgpt"
	"github.com/currilab/curricula-backend/internal/curriculum"
	"github.com/currilab/curricula-backend/internal/domain"
	"github.com/currilab/curricula-backend/internal/pkg/jsonx"
	"github.com/currilab/curricula-backend/internal/pkg/logger"
)

const (
	// topUpThreshold triggers a second generation round when the
	// clustered round produced too few unique disciplines.
	topUpThreshold = 40
	topUpTargetMin = 45
	topUpTargetMax = 55
)

// GenerationService produces discipline candidates for a training
// profile from the uploaded standards.
type GenerationService struct {
	llm yandexgpt.Client
	log *logger.Logger
}

func NewGenerationService(llm yandexgpt.Client, log *logger.Logger) *GenerationService {
	return &GenerationService{llm: llm, log: log.With("service", "generation")}
}

// ClusterStandards asks the model to group the standards material into
// thematic clusters. Failure falls back to a single cluster named after
// the profile so generation can still proceed.
func (s *GenerationService) ClusterStandards(ctx context.Context, profile string, comps []domain.CompetencyRecord, set domain.FunctionSet) []string {
	codes := make([]string, 0, len(comps))
	for _, c := range comps {
		codes = append(codes, c.Code)
	}
	fnNames := make([]string, 0, len(set.Functions))
	for _, fn := range set.Functions {
		fnNames = append(fnNames, fmt.Sprintf("%s %s", fn.Code, truncateRunes(fn.Name, matchNameLimit)))
	}

	prompt := fmt.Sprintf(`Ты — методист вуза РФ.

Профиль подготовки: "%s".
Компетенции ФГОС: %s
Трудовые функции: %s

Сгруппируй это содержание в 4-7 тематических кластеров дисциплин.

Верни строго JSON:
{
  "clusters": ["Название кластера 1", "Название кластера 2"]
}`, profile, strings.Join(codes, ", "), strings.Join(fnNames, "; "))

	raw, err := s.llm.Complete(ctx, []yandexgpt.Message{{Role: "user", Text: prompt}}, yandexgpt.Options{
		Temperature: 0.3,
		MaxTokens:   600,
		Lite:        true,
	})
	if err != nil {
		s.log.Warn("clustering failed", "error", err)
		return []string{profile}
	}

	var parsed struct {
		Clusters []string `json:"clusters"`
	}
	if err := jsonx.ExtractObject(raw, &parsed); err != nil || len(parsed.Clusters) == 0 {
		s.log.Warn("cluster response unparseable", "error", err)
		return []string{profile}
	}
	return parsed.Clusters
}

// GenerateForCluster produces 6-12 discipline candidates for one
// thematic cluster. Parse failure yields an empty slice; the caller
// keeps whatever the other clusters produced.
func (s *GenerationService) GenerateForCluster(ctx context.Context, profile, cluster string) []domain.DisciplineCandidate {
	prompt := fmt.Sprintf(`Ты — методист вуза РФ.

Профиль подготовки: "%s".
Тематический кластер: "%s".

Сгенерируй 6-12 дисциплин для этого кластера.
Для каждой укажи block_hint: "обязательная" или "вариативная".

Верни строго JSON:
{
  "disciplines": [
    {"name": "Название дисциплины", "block_hint": "обязательная"}
  ]
}`, profile, cluster)

	raw, err := s.llm.Complete(ctx, []yandexgpt.Message{{Role: "user", Text: prompt}}, yandexgpt.Options{
		Temperature: 0.4,
		MaxTokens:   1200,
		Lite:        true,
	})
	if err != nil {
		s.log.Warn("cluster generation failed", "cluster", cluster, "error", err)
		return nil
	}
	return parseCandidates(raw)
}

// TopUpDisciplines asks for additional disciplines when the clustered
// round came up short, naming the existing ones so the model avoids
// repeats. Duplicates that slip through are removed by the caller.
func (s *GenerationService) TopUpDisciplines(ctx context.Context, profile string, existing []domain.DisciplineCandidate) []domain.DisciplineCandidate {
	names := make([]string, 0, len(existing))
	for _, c := range existing {
		names = append(names, c.Name)
	}
	namesJSON, _ := json.Marshal(names)

	prompt := fmt.Sprintf(`Ты — методист вуза РФ.

Профиль подготовки: "%s".
Уже есть дисциплины: %s

Дополни список до %d-%d дисциплин. Не повторяй существующие.
Для каждой новой укажи block_hint: "обязательная" или "вариативная".

Верни строго JSON:
{
  "disciplines": [
    {"name": "Название дисциплины", "block_hint": "вариативная"}
  ]
}`, profile, namesJSON, topUpTargetMin, topUpTargetMax)

	raw, err := s.llm.Complete(ctx, []yandexgpt.Message{{Role: "user", Text: prompt}}, yandexgpt.Options{
		Temperature: 0.5,
		MaxTokens:   1500,
		Lite:        true,
	})
	if err != nil {
		s.log.Warn("top-up generation failed", "error", err)
		return nil
	}
	return parseCandidates(raw)
}

// GenerateDisciplines runs the full generation round: cluster the
// standards, generate per cluster, deduplicate, top up when short.
func (s *GenerationService) GenerateDisciplines(ctx context.Context, profile string, comps []domain.CompetencyRecord, set domain.FunctionSet) []domain.DisciplineCandidate {
	clusters := s.ClusterStandards(ctx, profile, comps, set)

	var cands []domain.DisciplineCandidate
	for _, cluster := range clusters {
		cands = append(cands, s.GenerateForCluster(ctx, profile, cluster)...)
	}
	cands = curriculum.Deduplicate(cands)

	if len(cands) > 0 && len(cands) < topUpThreshold {
		s.log.Info("topping up disciplines", "have", len(cands))
		cands = curriculum.Deduplicate(append(cands, s.TopUpDisciplines(ctx, profile, cands)...))
	}
	return cands
}

func parseCandidates(raw string) []domain.DisciplineCandidate {
	var parsed struct {
		Disciplines []struct {
			Name      string `json:"name"`
			BlockHint string `json:"block_hint"`
		} `json:"disciplines"`
	}
	if err := jsonx.ExtractObject(raw, &parsed); err != nil {
		return nil
	}

	cands := make([]domain.DisciplineCandidate, 0, len(parsed.Disciplines))
	for _, d := range parsed.Disciplines {
		name := strings.TrimSpace(d.Name)
		if name == "" {
			continue
		}
		var hint domain.Block
		switch strings.ToLower(strings.TrimSpace(d.BlockHint)) {
		case string(domain.BlockCore):
			hint = domain.BlockCore
		case string(domain.BlockElective):
			hint = domain.BlockElective
		}
		cands = append(cands, domain.DisciplineCandidate{Name: name, BlockHint: hint})
	}
	return cands
}
