package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"kairos-api/internal/domain"
	"kairos-api/internal/repository"
)

// StudentService expone las evaluaciones propias del estudiante y su
// feedback sobre los resultados.
type StudentService struct {
	logger      *zap.Logger
	evaluations repository.EvaluationRepository
	results     *ResultService
	feedback    repository.FeedbackRepository
}

func NewStudentService(logger *zap.Logger, evaluations repository.EvaluationRepository, results *ResultService, feedback repository.FeedbackRepository) *StudentService {
	return &StudentService{logger: logger, evaluations: evaluations, results: results, feedback: feedback}
}

func (s *StudentService) Evaluations(ctx context.Context, userID int64) ([]domain.Evaluation, error) {
	return s.evaluations.ListByUser(ctx, userID)
}

func (s *StudentService) Result(ctx context.Context, userID, evaluationID int64) (domain.EvaluationResult, error) {
	if _, err := s.ownEvaluation(ctx, userID, evaluationID); err != nil {
		return domain.EvaluationResult{}, err
	}
	return s.results.Get(ctx, evaluationID)
}

// AddFeedback registra la valoracion (1 a 5) del estudiante sobre su
// resultado.
func (s *StudentService) AddFeedback(ctx context.Context, userID, evaluationID int64, rating int, comment string) (domain.StudentFeedback, error) {
	if rating < 1 || rating > 5 {
		return domain.StudentFeedback{}, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
	}
	if _, err := s.ownEvaluation(ctx, userID, evaluationID); err != nil {
		return domain.StudentFeedback{}, err
	}
	fb, err := s.feedback.Create(ctx, domain.StudentFeedback{
		EvaluationID: evaluationID,
		UserID:       userID,
		Rating:       rating,
		Comment:      strings.TrimSpace(comment),
	})
	if err != nil {
		return domain.StudentFeedback{}, fmt.Errorf("create feedback: %w", err)
	}
	s.logger.Info("student feedback stored", zap.Int64("evaluation_id", evaluationID), zap.Int("rating", rating))
	return fb, nil
}

func (s *StudentService) Feedback(ctx context.Context, userID, evaluationID int64) ([]domain.StudentFeedback, error) {
	if _, err := s.ownEvaluation(ctx, userID, evaluationID); err != nil {
		return nil, err
	}
	return s.feedback.ListByEvaluation(ctx, evaluationID)
}

func (s *StudentService) ownEvaluation(ctx context.Context, userID, evaluationID int64) (domain.Evaluation, error) {
	evaluation, err := s.evaluations.GetByID(ctx, evaluationID)
	if err != nil {
		return domain.Evaluation{}, notFound(err)
	}
	if evaluation.UserID != userID {
		return domain.Evaluation{}, ErrNotFound
	}
	return evaluation, nil
}
