package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"kairos-api/internal/domain"
)

const AssignmentActive = "active"

type AssignmentRepository interface {
	Create(ctx context.Context, a domain.EvaluatorAssignment) (domain.EvaluatorAssignment, error)
	List(ctx context.Context) ([]domain.EvaluatorAssignment, error)
	ListByEvaluator(ctx context.Context, evaluatorID int64) ([]domain.EvaluatorAssignment, error)
	IsAssigned(ctx context.Context, evaluatorID, studentID int64) (bool, error)
	Delete(ctx context.Context, id int64) error
}

type PgAssignmentRepository struct {
	pool *pgxpool.Pool
}

func NewPgAssignmentRepository(pool *pgxpool.Pool) *PgAssignmentRepository {
	return &PgAssignmentRepository{pool: pool}
}

const assignmentColumns = `id, evaluator_id, student_id, status, assigned_date`

// Create reactiva la asignacion si ya existia para el mismo par.
func (r *PgAssignmentRepository) Create(ctx context.Context, a domain.EvaluatorAssignment) (domain.EvaluatorAssignment, error) {
	query := `
		INSERT INTO evaluator_assignments (evaluator_id, student_id, status)
		VALUES ($1, $2, $3)
		ON CONFLICT (evaluator_id, student_id) DO UPDATE SET status = EXCLUDED.status
		RETURNING ` + assignmentColumns
	return scanAssignment(r.pool.QueryRow(ctx, query, a.EvaluatorID, a.StudentID, a.Status))
}

func (r *PgAssignmentRepository) List(ctx context.Context) ([]domain.EvaluatorAssignment, error) {
	return r.list(ctx, `SELECT `+assignmentColumns+` FROM evaluator_assignments ORDER BY id`)
}

func (r *PgAssignmentRepository) ListByEvaluator(ctx context.Context, evaluatorID int64) ([]domain.EvaluatorAssignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM evaluator_assignments WHERE evaluator_id = $1 AND status = 'active' ORDER BY id`
	return r.list(ctx, query, evaluatorID)
}

func (r *PgAssignmentRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.EvaluatorAssignment, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.EvaluatorAssignment{}
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PgAssignmentRepository) IsAssigned(ctx context.Context, evaluatorID, studentID int64) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM evaluator_assignments
			WHERE evaluator_id = $1 AND student_id = $2 AND status = 'active'
		)
	`
	var ok bool
	err := r.pool.QueryRow(ctx, query, evaluatorID, studentID).Scan(&ok)
	return ok, err
}

func (r *PgAssignmentRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM evaluator_assignments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanAssignment(row rowScanner) (domain.EvaluatorAssignment, error) {
	var a domain.EvaluatorAssignment
	if err := row.Scan(&a.ID, &a.EvaluatorID, &a.StudentID, &a.Status, &a.AssignedDate); err != nil {
		return domain.EvaluatorAssignment{}, mapError(err)
	}
	return a, nil
}
