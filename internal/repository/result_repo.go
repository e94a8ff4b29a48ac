package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"kairos-api/internal/domain"
)

type ResultRepository interface {
	// Upsert guarda el resultado de la evaluacion. Si ya existia uno, lo
	// reemplaza: el ultimo calculo gana.
	Upsert(ctx context.Context, result domain.EvaluationResult) (domain.EvaluationResult, error)
	GetByEvaluationID(ctx context.Context, evaluationID int64) (domain.EvaluationResult, error)
}

type PgResultRepository struct {
	pool *pgxpool.Pool
}

func NewPgResultRepository(pool *pgxpool.Pool) *PgResultRepository {
	return &PgResultRepository{pool: pool}
}

func (r *PgResultRepository) Upsert(ctx context.Context, result domain.EvaluationResult) (domain.EvaluationResult, error) {
	const query = `
		INSERT INTO evaluation_results (evaluation_id, profile, top_careers, metadata, generated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (evaluation_id)
		DO UPDATE SET profile = EXCLUDED.profile,
		              top_careers = EXCLUDED.top_careers,
		              metadata = EXCLUDED.metadata,
		              generated_at = EXCLUDED.generated_at
		RETURNING id
	`
	careers := result.TopCareers
	if careers == nil {
		careers = []domain.CareerMatch{}
	}
	err := r.pool.QueryRow(ctx, query,
		result.EvaluationID,
		result.Profile,
		careers,
		result.Metadata,
		result.GeneratedAt,
	).Scan(&result.ID)
	if err != nil {
		return domain.EvaluationResult{}, mapError(err)
	}
	result.TopCareers = careers
	return result, nil
}

func (r *PgResultRepository) GetByEvaluationID(ctx context.Context, evaluationID int64) (domain.EvaluationResult, error) {
	const query = `
		SELECT id, evaluation_id, profile, top_careers, metadata, generated_at
		FROM evaluation_results
		WHERE evaluation_id = $1
	`
	var res domain.EvaluationResult
	err := r.pool.QueryRow(ctx, query, evaluationID).Scan(
		&res.ID,
		&res.EvaluationID,
		&res.Profile,
		&res.TopCareers,
		&res.Metadata,
		&res.GeneratedAt,
	)
	if err != nil {
		return domain.EvaluationResult{}, mapError(err)
	}
	if res.TopCareers == nil {
		res.TopCareers = []domain.CareerMatch{}
	}
	return res, nil
}
