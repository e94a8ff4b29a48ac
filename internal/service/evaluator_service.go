package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"kairos-api/internal/domain"
	"kairos-api/internal/repository"
)

// EvaluatorService da a los evaluadores acceso de lectura a las
// evaluaciones de sus estudiantes asignados y administra las asignaciones.
type EvaluatorService struct {
	logger      *zap.Logger
	users       repository.UserRepository
	assignments repository.AssignmentRepository
	evaluations repository.EvaluationRepository
	results     *ResultService
	comments    repository.CommentRepository
}

func NewEvaluatorService(
	logger *zap.Logger,
	users repository.UserRepository,
	assignments repository.AssignmentRepository,
	evaluations repository.EvaluationRepository,
	results *ResultService,
	comments repository.CommentRepository,
) *EvaluatorService {
	return &EvaluatorService{
		logger:      logger,
		users:       users,
		assignments: assignments,
		evaluations: evaluations,
		results:     results,
		comments:    comments,
	}
}

// AssignedStudents lista los estudiantes con asignacion activa.
func (s *EvaluatorService) AssignedStudents(ctx context.Context, evaluatorID int64) ([]domain.User, error) {
	assignments, err := s.assignments.ListByEvaluator(ctx, evaluatorID)
	if err != nil {
		return nil, err
	}
	students := make([]domain.User, 0, len(assignments))
	for _, a := range assignments {
		u, err := s.users.GetByID(ctx, a.StudentID)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		students = append(students, u)
	}
	return students, nil
}

func (s *EvaluatorService) StudentEvaluations(ctx context.Context, evaluatorID, studentID int64) ([]domain.Evaluation, error) {
	if err := s.requireAssigned(ctx, evaluatorID, studentID); err != nil {
		return nil, err
	}
	return s.evaluations.ListByUser(ctx, studentID)
}

func (s *EvaluatorService) Result(ctx context.Context, evaluatorID, evaluationID int64) (domain.EvaluationResult, error) {
	if _, err := s.assignedEvaluation(ctx, evaluatorID, evaluationID); err != nil {
		return domain.EvaluationResult{}, err
	}
	return s.results.Get(ctx, evaluationID)
}

func (s *EvaluatorService) AddComment(ctx context.Context, evaluatorID, evaluationID int64, text string) (domain.EvaluatorComment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.EvaluatorComment{}, fmt.Errorf("%w: comment_text is required", ErrInvalidInput)
	}
	if _, err := s.assignedEvaluation(ctx, evaluatorID, evaluationID); err != nil {
		return domain.EvaluatorComment{}, err
	}
	c, err := s.comments.Create(ctx, domain.EvaluatorComment{
		EvaluationID: evaluationID,
		EvaluatorID:  evaluatorID,
		CommentText:  text,
	})
	if err != nil {
		return domain.EvaluatorComment{}, fmt.Errorf("create comment: %w", err)
	}
	return c, nil
}

func (s *EvaluatorService) Comments(ctx context.Context, evaluatorID, evaluationID int64) ([]domain.EvaluatorComment, error) {
	if _, err := s.assignedEvaluation(ctx, evaluatorID, evaluationID); err != nil {
		return nil, err
	}
	return s.comments.ListByEvaluation(ctx, evaluationID)
}

// Assign crea (o reactiva) la asignacion evaluador-estudiante. Ambos
// usuarios deben existir con el rol correspondiente.
func (s *EvaluatorService) Assign(ctx context.Context, evaluatorID, studentID int64) (domain.EvaluatorAssignment, error) {
	if err := s.requireRole(ctx, studentID, domain.RoleStudent); err != nil {
		return domain.EvaluatorAssignment{}, err
	}
	if err := s.requireRole(ctx, evaluatorID, domain.RoleEvaluator); err != nil {
		return domain.EvaluatorAssignment{}, err
	}
	a, err := s.assignments.Create(ctx, domain.EvaluatorAssignment{
		EvaluatorID: evaluatorID,
		StudentID:   studentID,
		Status:      repository.AssignmentActive,
	})
	if err != nil {
		return domain.EvaluatorAssignment{}, fmt.Errorf("create assignment: %w", err)
	}
	s.logger.Info("evaluator assigned", zap.Int64("evaluator_id", evaluatorID), zap.Int64("student_id", studentID))
	return a, nil
}

// Assignments lista todas las asignaciones, opcionalmente filtradas por
// estado.
func (s *EvaluatorService) Assignments(ctx context.Context, status string) ([]domain.EvaluatorAssignment, error) {
	all, err := s.assignments.List(ctx)
	if err != nil {
		return nil, err
	}
	if status == "" {
		return all, nil
	}
	out := all[:0]
	for _, a := range all {
		if a.Status == status {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *EvaluatorService) Unassign(ctx context.Context, assignmentID int64) error {
	return notFound(s.assignments.Delete(ctx, assignmentID))
}

func (s *EvaluatorService) assignedEvaluation(ctx context.Context, evaluatorID, evaluationID int64) (domain.Evaluation, error) {
	evaluation, err := s.evaluations.GetByID(ctx, evaluationID)
	if err != nil {
		return domain.Evaluation{}, notFound(err)
	}
	if err := s.requireAssigned(ctx, evaluatorID, evaluation.UserID); err != nil {
		return domain.Evaluation{}, err
	}
	return evaluation, nil
}

func (s *EvaluatorService) requireAssigned(ctx context.Context, evaluatorID, studentID int64) error {
	ok, err := s.assignments.IsAssigned(ctx, evaluatorID, studentID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

func (s *EvaluatorService) requireRole(ctx context.Context, userID int64, role string) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return notFound(err)
	}
	if u.Role != role {
		return fmt.Errorf("%w: user %d is not a %s", ErrInvalidInput, userID, role)
	}
	return nil
}
