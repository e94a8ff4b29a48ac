package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"kairos-api/internal/domain"
)

type EvaluationRepository interface {
	Create(ctx context.Context, e domain.Evaluation) (domain.Evaluation, error)
	GetByID(ctx context.Context, id int64) (domain.Evaluation, error)
	GetBySessionID(ctx context.Context, sessionID int64) (domain.Evaluation, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Evaluation, error)
	UpdateProgress(ctx context.Context, id int64, progress float64) error
	MarkCompleted(ctx context.Context, id int64, at time.Time) error
}

type PgEvaluationRepository struct {
	pool *pgxpool.Pool
}

func NewPgEvaluationRepository(pool *pgxpool.Pool) *PgEvaluationRepository {
	return &PgEvaluationRepository{pool: pool}
}

const evaluationColumns = `id, user_id, session_id, evaluation_mode, status, progress, started_at, completed_at`

// Create es idempotente por sesion: si ya existe una evaluacion para la
// sesion, devuelve la existente.
func (r *PgEvaluationRepository) Create(ctx context.Context, e domain.Evaluation) (domain.Evaluation, error) {
	query := `
		INSERT INTO evaluations (user_id, session_id, evaluation_mode, status, progress)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (session_id) DO UPDATE SET session_id = EXCLUDED.session_id
		RETURNING ` + evaluationColumns
	return scanEvaluation(r.pool.QueryRow(ctx, query,
		e.UserID,
		e.SessionID,
		e.EvaluationMode,
		e.Status,
		e.Progress,
	))
}

func (r *PgEvaluationRepository) GetByID(ctx context.Context, id int64) (domain.Evaluation, error) {
	query := `SELECT ` + evaluationColumns + ` FROM evaluations WHERE id = $1`
	return scanEvaluation(r.pool.QueryRow(ctx, query, id))
}

func (r *PgEvaluationRepository) GetBySessionID(ctx context.Context, sessionID int64) (domain.Evaluation, error) {
	query := `SELECT ` + evaluationColumns + ` FROM evaluations WHERE session_id = $1`
	return scanEvaluation(r.pool.QueryRow(ctx, query, sessionID))
}

func (r *PgEvaluationRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Evaluation, error) {
	query := `SELECT ` + evaluationColumns + ` FROM evaluations WHERE user_id = $1 ORDER BY started_at DESC, id DESC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Evaluation{}
	for rows.Next() {
		e, err := scanEvaluation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *PgEvaluationRepository) UpdateProgress(ctx context.Context, id int64, progress float64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE evaluations SET progress = $1 WHERE id = $2`, progress, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgEvaluationRepository) MarkCompleted(ctx context.Context, id int64, at time.Time) error {
	const query = `
		UPDATE evaluations
		SET status = $1, progress = 100, completed_at = $2
		WHERE id = $3
	`
	tag, err := r.pool.Exec(ctx, query, domain.EvaluationCompleted, at, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanEvaluation(row rowScanner) (domain.Evaluation, error) {
	var e domain.Evaluation
	err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.SessionID,
		&e.EvaluationMode,
		&e.Status,
		&e.Progress,
		&e.StartedAt,
		&e.CompletedAt,
	)
	if err != nil {
		return domain.Evaluation{}, mapError(err)
	}
	return e, nil
}
