package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"kairos-api/internal/domain"
	"kairos-api/internal/repository"
	"kairos-api/internal/scoring"
)

// ResultService calcula y persiste el resultado de una evaluacion.
type ResultService struct {
	logger      *zap.Logger
	engine      *scoring.Engine
	enrichment  *EnrichmentService
	evaluations repository.EvaluationRepository
	sessions    repository.SessionRepository
	answers     repository.AnswerRepository
	messages    repository.MessageRepository
	results     repository.ResultRepository
	now         func() time.Time
}

func NewResultService(
	logger *zap.Logger,
	engine *scoring.Engine,
	enrichment *EnrichmentService,
	evaluations repository.EvaluationRepository,
	sessions repository.SessionRepository,
	answers repository.AnswerRepository,
	messages repository.MessageRepository,
	results repository.ResultRepository,
) *ResultService {
	return &ResultService{
		logger:      logger,
		engine:      engine,
		enrichment:  enrichment,
		evaluations: evaluations,
		sessions:    sessions,
		answers:     answers,
		messages:    messages,
		results:     results,
		now:         time.Now,
	}
}

// ComputeAndStore recalcula el resultado de la evaluacion y lo guarda,
// reemplazando cualquier resultado previo. Solo los errores de
// almacenamiento se devuelven; artefactos faltantes o fallas del LLM quedan
// reflejados en Metadata.Outcome.
func (s *ResultService) ComputeAndStore(ctx context.Context, evaluationID int64) (domain.EvaluationResult, error) {
	evaluation, err := s.evaluations.GetByID(ctx, evaluationID)
	if err != nil {
		return domain.EvaluationResult{}, fmt.Errorf("get evaluation: %w", notFound(err))
	}

	mode := evaluation.EvaluationMode
	session, err := s.sessions.GetByID(ctx, evaluation.SessionID)
	switch {
	case err == nil:
		if session.ChatMode != "" {
			mode = session.ChatMode
		}
	case errors.Is(err, repository.ErrNotFound):
		s.logger.Warn("evaluation without session", zap.Int64("evaluation_id", evaluationID))
	default:
		return domain.EvaluationResult{}, fmt.Errorf("get session: %w", err)
	}
	if mode == "" {
		mode = domain.ModeGuided
	}

	answers, err := s.answers.ListWithQuestions(ctx, evaluationID)
	if err != nil {
		return domain.EvaluationResult{}, fmt.Errorf("list answers: %w", err)
	}
	var chatTexts []string
	if evaluation.SessionID != 0 {
		chatTexts, err = s.messages.ListContentsByType(ctx, evaluation.SessionID, domain.MessageTypeUser)
		if err != nil {
			return domain.EvaluationResult{}, fmt.Errorf("list chat messages: %w", err)
		}
	}

	input := scoring.Aggregate(answers, chatTexts)
	scored := s.engine.Score(mode, input)

	careers := scored.Careers
	enrichment := domain.EnrichmentSkipped
	if s.enrichment.Enabled() && len(careers) > 0 {
		enriched, err := s.enrichment.Enrich(ctx, scored.Profile, careers, s.engine.Catalog(), input.Text, len(careers))
		if err != nil {
			enrichment = domain.EnrichmentFailed
			s.logger.Warn("enrichment failed, keeping ranked careers",
				zap.Int64("evaluation_id", evaluationID),
				zap.Error(err),
			)
		} else {
			careers = enriched
			enrichment = domain.EnrichmentApplied
		}
	}

	result := domain.EvaluationResult{
		EvaluationID: evaluationID,
		Profile:      scored.Profile.Round(4),
		TopCareers:   careers,
		Metadata: domain.ResultMetadata{
			SourceMode:      scored.Mode,
			ModelVersion:    scored.ModelVersion,
			CatalogSize:     len(s.engine.Catalog()),
			Outcome:         scored.Outcome(),
			DegradedReasons: scored.Reasons,
			Enrichment:      enrichment,
			SkippedAnswers:  input.Skipped,
		},
		GeneratedAt: s.now().UTC(),
	}
	if result.Metadata.Outcome == domain.OutcomeDegraded {
		s.logger.Warn("evaluation scored with degraded outcome",
			zap.Int64("evaluation_id", evaluationID),
			zap.String("mode", scored.Mode),
			zap.Strings("reasons", scored.Reasons),
		)
	}

	stored, err := s.results.Upsert(ctx, result)
	if err != nil {
		return domain.EvaluationResult{}, fmt.Errorf("store result: %w", err)
	}
	return stored, nil
}

// Get devuelve el resultado guardado de la evaluacion.
func (s *ResultService) Get(ctx context.Context, evaluationID int64) (domain.EvaluationResult, error) {
	result, err := s.results.GetByEvaluationID(ctx, evaluationID)
	if err != nil {
		return domain.EvaluationResult{}, notFound(err)
	}
	return result, nil
}
