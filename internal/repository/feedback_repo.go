package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"kairos-api/internal/domain"
)

// FeedbackRepository persiste la valoracion del estudiante sobre su resultado.
type FeedbackRepository interface {
	Create(ctx context.Context, f domain.StudentFeedback) (domain.StudentFeedback, error)
	ListByEvaluation(ctx context.Context, evaluationID int64) ([]domain.StudentFeedback, error)
}

type PgFeedbackRepository struct {
	pool *pgxpool.Pool
}

func NewPgFeedbackRepository(pool *pgxpool.Pool) *PgFeedbackRepository {
	return &PgFeedbackRepository{pool: pool}
}

func (r *PgFeedbackRepository) Create(ctx context.Context, f domain.StudentFeedback) (domain.StudentFeedback, error) {
	const query = `
		INSERT INTO student_feedback (evaluation_id, user_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.pool.QueryRow(ctx, query, f.EvaluationID, f.UserID, f.Rating, f.Comment).Scan(&f.ID, &f.CreatedAt)
	if err != nil {
		return domain.StudentFeedback{}, mapError(err)
	}
	return f, nil
}

func (r *PgFeedbackRepository) ListByEvaluation(ctx context.Context, evaluationID int64) ([]domain.StudentFeedback, error) {
	const query = `
		SELECT id, evaluation_id, user_id, rating, comment, created_at
		FROM student_feedback
		WHERE evaluation_id = $1
		ORDER BY created_at, id
	`
	rows, err := r.pool.Query(ctx, query, evaluationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.StudentFeedback{}
	for rows.Next() {
		var f domain.StudentFeedback
		if err := rows.Scan(&f.ID, &f.EvaluationID, &f.UserID, &f.Rating, &f.Comment, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
