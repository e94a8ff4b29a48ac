package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"kairos-api/internal/domain"
)

type QuestionRepository interface {
	// Create inserta la pregunta si no existe otra con el mismo texto.
	// Devuelve true cuando la fila fue creada.
	Create(ctx context.Context, q domain.Question) (bool, error)
	GetByID(ctx context.Context, id int64) (domain.Question, error)
	ListByMode(ctx context.Context, mode string) ([]domain.Question, error)
	// NextUnanswered devuelve la primera pregunta, por display_order, del modo
	// dado que todavia no tiene respuesta en la evaluacion.
	NextUnanswered(ctx context.Context, evaluationID int64, mode string) (domain.Question, error)
}

type PgQuestionRepository struct {
	pool *pgxpool.Pool
}

func NewPgQuestionRepository(pool *pgxpool.Pool) *PgQuestionRepository {
	return &PgQuestionRepository{pool: pool}
}

const questionColumns = `q.id, q.question_text, q.question_type, q.category, q.display_order, q.options, q.compatible_modes`

func (r *PgQuestionRepository) Create(ctx context.Context, q domain.Question) (bool, error) {
	const query = `
		INSERT INTO questions (question_text, question_type, category, display_order, options, compatible_modes)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (question_text) DO NOTHING
	`
	tag, err := r.pool.Exec(ctx, query,
		q.QuestionText,
		q.QuestionType,
		q.Category,
		q.DisplayOrder,
		q.Options,
		q.CompatibleModes,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PgQuestionRepository) GetByID(ctx context.Context, id int64) (domain.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions q WHERE q.id = $1`
	return scanQuestion(r.pool.QueryRow(ctx, query, id))
}

func (r *PgQuestionRepository) ListByMode(ctx context.Context, mode string) ([]domain.Question, error) {
	query := `
		SELECT ` + questionColumns + `
		FROM questions q
		WHERE ($1 = '' OR q.compatible_modes IN ($1, 'both'))
		ORDER BY q.display_order, q.id
	`
	rows, err := r.pool.Query(ctx, query, mode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	questions := []domain.Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func (r *PgQuestionRepository) NextUnanswered(ctx context.Context, evaluationID int64, mode string) (domain.Question, error) {
	query := `
		SELECT ` + questionColumns + `
		FROM questions q
		WHERE q.compatible_modes IN ($2, 'both')
		  AND NOT EXISTS (
			SELECT 1 FROM user_answers a
			WHERE a.evaluation_id = $1 AND a.question_id = q.id
		  )
		ORDER BY q.display_order, q.id
		LIMIT 1
	`
	return scanQuestion(r.pool.QueryRow(ctx, query, evaluationID, mode))
}

func scanQuestion(row rowScanner) (domain.Question, error) {
	var q domain.Question
	err := row.Scan(
		&q.ID,
		&q.QuestionText,
		&q.QuestionType,
		&q.Category,
		&q.DisplayOrder,
		&q.Options,
		&q.CompatibleModes,
	)
	if err != nil {
		return domain.Question{}, mapError(err)
	}
	return q, nil
}
