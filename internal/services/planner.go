package services

import (
	"context"
	"errors"

	"github.com/currilab/curricula-backend/config"
	"github.com/currilab/curricula-backend/internal/curriculum"
	"github.com/currilab/curricula-backend/internal/domain"
	"github.com/currilab/curricula-backend/internal/pkg/logger"
)

// ErrNoDisciplines reports a generation round that produced nothing.
// Downstream assembly short-circuits instead of emitting a plan made of
// only the fixed rows.
var ErrNoDisciplines = errors.New("не удалось сгенерировать ни одной дисциплины")

// PlanResult carries a generated plan and its provenance.
type PlanResult struct {
	Profile  string      `json:"profile"`
	Plan     domain.Plan `json:"plan"`
	Warnings []string    `json:"warnings"`
}

// PlannerService runs the full plan-generation pipeline over the
// session's extracted standards.
type PlannerService struct {
	standards  *StandardsService
	generation *GenerationService
	enrich     *EnrichService
	hours      *HoursService
	cfg        config.PlannerConfig
	log        *logger.Logger
}

func NewPlannerService(
	standards *StandardsService,
	generation *GenerationService,
	enrich *EnrichService,
	hours *HoursService,
	cfg config.PlannerConfig,
	log *logger.Logger,
) *PlannerService {
	return &PlannerService{
		standards:  standards,
		generation: generation,
		enrich:     enrich,
		hours:      hours,
		cfg:        cfg,
		log:        log.With("service", "planner"),
	}
}

// GeneratePlan detects the profile, generates and enriches discipline
// candidates, and assembles the final plan.
func (s *PlannerService) GeneratePlan(ctx context.Context, fgosText string, comps []domain.CompetencyRecord, set domain.FunctionSet) (PlanResult, error) {
	profiles := s.standards.DetectProfile(ctx, fgosText)
	profile := profiles[0]
	s.log.Info("profile detected", "profile", profile)

	cands := s.generation.GenerateDisciplines(ctx, profile, comps, set)
	if len(cands) == 0 {
		return PlanResult{}, ErrNoDisciplines
	}
	s.log.Info("disciplines generated", "count", len(cands))

	enrichments := s.enrich.EnrichAll(ctx, cands, comps, set)

	var overrides map[string]curriculum.RowOverride
	if s.cfg.UseModelHours {
		overrides = s.hours.SuggestOverrides(ctx, cands)
	}

	plan, warnings := curriculum.Assemble(cands, curriculum.TermPolicy(s.cfg.TermPolicy), enrichments, overrides)
	return PlanResult{Profile: profile, Plan: plan, Warnings: warnings}, nil
}
