package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"kairos-api/internal/domain"
)

// CareerRepository guarda el catalogo de carreras con su vector RIASEC en
// una columna pgvector.
type CareerRepository interface {
	Upsert(ctx context.Context, career domain.CareerVector, position int) error
	ListAll(ctx context.Context) ([]domain.CareerVector, error)
	// Nearest devuelve las k carreras con menor distancia coseno al perfil.
	Nearest(ctx context.Context, profile domain.Profile, k int) ([]domain.CareerVector, error)
}

type PgCareerRepository struct {
	pool *pgxpool.Pool
}

func NewPgCareerRepository(pool *pgxpool.Pool) *PgCareerRepository {
	return &PgCareerRepository{pool: pool}
}

// ProfileToVector convierte un perfil al tipo de pgvector en orden canonico.
func ProfileToVector(p domain.Profile) pgvector.Vector {
	vals := make([]float32, domain.NumDimensions)
	for i, v := range p {
		vals[i] = float32(v)
	}
	return pgvector.NewVector(vals)
}

// VectorToProfile es la inversa de ProfileToVector.
func VectorToProfile(v pgvector.Vector) (domain.Profile, error) {
	var p domain.Profile
	vals := v.Slice()
	if len(vals) != domain.NumDimensions {
		return p, fmt.Errorf("career vector has %d dimensions, expected %d", len(vals), domain.NumDimensions)
	}
	for i, f := range vals {
		p[i] = float64(f)
	}
	return p, nil
}

func (r *PgCareerRepository) Upsert(ctx context.Context, career domain.CareerVector, position int) error {
	const query = `
		INSERT INTO career_vectors (name, category, description, position, vector, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (name)
		DO UPDATE SET category = EXCLUDED.category,
		              description = EXCLUDED.description,
		              position = EXCLUDED.position,
		              vector = EXCLUDED.vector,
		              updated_at = NOW()
	`
	_, err := r.pool.Exec(ctx, query,
		career.Name,
		career.Category,
		career.Description,
		position,
		ProfileToVector(career.Vector),
	)
	return err
}

// ListAll respeta el orden original del catalogo, que define los desempates.
func (r *PgCareerRepository) ListAll(ctx context.Context) ([]domain.CareerVector, error) {
	const query = `
		SELECT name, category, description, vector
		FROM career_vectors
		ORDER BY position, id
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCareers(rows)
}

func (r *PgCareerRepository) Nearest(ctx context.Context, profile domain.Profile, k int) ([]domain.CareerVector, error) {
	if k <= 0 {
		k = 3
	}
	const query = `
		SELECT name, category, description, vector
		FROM career_vectors
		ORDER BY vector <=> $1, position
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, ProfileToVector(profile), k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCareers(rows)
}

func scanCareers(rows pgxRows) ([]domain.CareerVector, error) {
	out := []domain.CareerVector{}
	for rows.Next() {
		var (
			c   domain.CareerVector
			vec pgvector.Vector
		)
		if err := rows.Scan(&c.Name, &c.Category, &c.Description, &vec); err != nil {
			return nil, err
		}
		p, err := VectorToProfile(vec)
		if err != nil {
			return nil, fmt.Errorf("career %q: %w", c.Name, err)
		}
		c.Vector = p
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
