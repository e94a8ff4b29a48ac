package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"kairos-api/internal/domain"
)

type AnswerRepository interface {
	// Upsert guarda la respuesta; responder de nuevo la misma pregunta la reemplaza.
	Upsert(ctx context.Context, answer domain.Answer) (domain.Answer, error)
	// ListWithQuestions devuelve las respuestas de la evaluacion junto con la
	// categoria y el tipo de su pregunta, ya decodificadas.
	ListWithQuestions(ctx context.Context, evaluationID int64) ([]domain.AnsweredQuestion, error)
	Count(ctx context.Context, evaluationID int64) (int, error)
}

type PgAnswerRepository struct {
	pool *pgxpool.Pool
}

func NewPgAnswerRepository(pool *pgxpool.Pool) *PgAnswerRepository {
	return &PgAnswerRepository{pool: pool}
}

func (r *PgAnswerRepository) Upsert(ctx context.Context, answer domain.Answer) (domain.Answer, error) {
	const query = `
		INSERT INTO user_answers (evaluation_id, question_id, answer_text, selected_options)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (evaluation_id, question_id)
		DO UPDATE SET answer_text = EXCLUDED.answer_text,
		              selected_options = EXCLUDED.selected_options,
		              answered_at = NOW()
		RETURNING id, answered_at
	`
	text, options := domain.EncodeStoredAnswer(answer.Value)
	err := r.pool.QueryRow(ctx, query,
		answer.EvaluationID,
		answer.QuestionID,
		text,
		options,
	).Scan(&answer.ID, &answer.AnsweredAt)
	if err != nil {
		return domain.Answer{}, mapError(err)
	}
	return answer, nil
}

func (r *PgAnswerRepository) ListWithQuestions(ctx context.Context, evaluationID int64) ([]domain.AnsweredQuestion, error) {
	const query = `
		SELECT a.id, a.evaluation_id, a.question_id, a.answer_text, a.selected_options, a.answered_at,
		       q.category, q.question_type
		FROM user_answers a
		JOIN questions q ON q.id = a.question_id
		WHERE a.evaluation_id = $1
		ORDER BY q.display_order, a.id
	`
	rows, err := r.pool.Query(ctx, query, evaluationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAnsweredQuestions(rows)
}

func (r *PgAnswerRepository) Count(ctx context.Context, evaluationID int64) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM user_answers WHERE evaluation_id = $1`, evaluationID).Scan(&n)
	return n, err
}

func scanAnsweredQuestions(rows pgxRows) ([]domain.AnsweredQuestion, error) {
	var out []domain.AnsweredQuestion
	for rows.Next() {
		var (
			aq      domain.AnsweredQuestion
			text    *string
			options map[string]any
		)
		if err := rows.Scan(
			&aq.Answer.ID,
			&aq.Answer.EvaluationID,
			&aq.Answer.QuestionID,
			&text,
			&options,
			&aq.Answer.AnsweredAt,
			&aq.Category,
			&aq.QuestionType,
		); err != nil {
			return nil, err
		}
		aq.Answer.Value = domain.DecodeStoredAnswer(aq.QuestionType, text, options)
		out = append(out, aq)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
