package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/currilab/curricula-backend/internal/clients/yandexgpt"
	"github.com/currilab/curricula-backend/internal/curriculum"
	"github.com/currilab/curricula-backend/internal/domain"
	"github.com/currilab/curricula-backend/internal/pkg/jsonx"
	"github.com/currilab/curricula-backend/internal/pkg/logger"
)

// EnrichService attaches competency codes, function codes and a short
// justification to each discipline via the model.
type EnrichService struct {
	llm         yandexgpt.Client
	log         *logger.Logger
	concurrency int
}

func NewEnrichService(llm yandexgpt.Client, concurrency int, log *logger.Logger) *EnrichService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &EnrichService{llm: llm, log: log.With("service", "enrich"), concurrency: concurrency}
}

// EnrichOne returns metadata for a single discipline. Any failure
// degrades to an empty enrichment so assembly never blocks on the model.
func (s *EnrichService) EnrichOne(ctx context.Context, name string, comps []domain.CompetencyRecord, set domain.FunctionSet) curriculum.Enrichment {
	empty := curriculum.Enrichment{Competencies: []string{}, Functions: []string{}}

	compJSON, _ := json.Marshal(comps)
	fnJSON, _ := json.Marshal(set.Functions)

	prompt := fmt.Sprintf(`Ты — методист вуза РФ.

Тебе дана дисциплина: "%s".

Вот список компетенций ФГОС:
%s

Вот список трудовых функций профстандарта:
%s

Определи:
- какие компетенции формирует эта дисциплина (2-4 кода),
- какие трудовые функции она поддерживает (0-3 кода),
- короткое обоснование (до 150 символов).

Верни строго JSON:
{
  "competencies": ["УК-1", "ОПК-2"],
  "TF": ["A/01.3"],
  "reason": "Короткое обоснование"
}`, name, compJSON, fnJSON)

	raw, err := s.llm.Complete(ctx, []yandexgpt.Message{{Role: "user", Text: prompt}}, yandexgpt.Options{
		Temperature: 0.2,
		MaxTokens:   700,
		Lite:        true,
	})
	if err != nil {
		s.log.Warn("enrichment failed", "discipline", name, "error", err)
		return empty
	}

	var e curriculum.Enrichment
	if err := jsonx.ExtractObject(raw, &e); err != nil {
		s.log.Warn("enrichment response unparseable", "discipline", name, "error", err)
		return empty
	}
	if e.Competencies == nil {
		e.Competencies = []string{}
	}
	if e.Functions == nil {
		e.Functions = []string{}
	}
	return e
}

// EnrichAll enriches every candidate concurrently, keyed by discipline
// name. Per-discipline failures are absorbed; the map always carries an
// entry for every candidate.
func (s *EnrichService) EnrichAll(ctx context.Context, cands []domain.DisciplineCandidate, comps []domain.CompetencyRecord, set domain.FunctionSet) map[string]curriculum.Enrichment {
	out := make(map[string]curriculum.Enrichment, len(cands))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, cand := range cands {
		name := cand.Name
		g.Go(func() error {
			e := s.EnrichOne(gctx, name, comps, set)
			mu.Lock()
			out[name] = e
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}
