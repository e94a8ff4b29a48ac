package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"kairos-api/internal/domain"
)

type CommentRepository interface {
	Create(ctx context.Context, c domain.EvaluatorComment) (domain.EvaluatorComment, error)
	ListByEvaluation(ctx context.Context, evaluationID int64) ([]domain.EvaluatorComment, error)
}

type PgCommentRepository struct {
	pool *pgxpool.Pool
}

func NewPgCommentRepository(pool *pgxpool.Pool) *PgCommentRepository {
	return &PgCommentRepository{pool: pool}
}

func (r *PgCommentRepository) Create(ctx context.Context, c domain.EvaluatorComment) (domain.EvaluatorComment, error) {
	const query = `
		INSERT INTO evaluator_comments (evaluation_id, evaluator_id, comment_text)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.pool.QueryRow(ctx, query, c.EvaluationID, c.EvaluatorID, c.CommentText).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return domain.EvaluatorComment{}, mapError(err)
	}
	return c, nil
}

func (r *PgCommentRepository) ListByEvaluation(ctx context.Context, evaluationID int64) ([]domain.EvaluatorComment, error) {
	const query = `
		SELECT id, evaluation_id, evaluator_id, comment_text, created_at
		FROM evaluator_comments
		WHERE evaluation_id = $1
		ORDER BY created_at, id
	`
	rows, err := r.pool.Query(ctx, query, evaluationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.EvaluatorComment{}
	for rows.Next() {
		var c domain.EvaluatorComment
		if err := rows.Scan(&c.ID, &c.EvaluationID, &c.EvaluatorID, &c.CommentText, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
