package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"kairos-api/internal/domain"
	"kairos-api/internal/repository"
	"kairos-api/internal/scoring"
)

// ResolveCatalog elige el catalogo con el que arranca el motor: las filas de
// career_vectors si existen, si no el catalogo leido del archivo.
func ResolveCatalog(ctx context.Context, logger *zap.Logger, careers repository.CareerRepository, fromFile []domain.CareerVector) []domain.CareerVector {
	if careers == nil {
		return fromFile
	}
	stored, err := careers.ListAll(ctx)
	if err != nil {
		logger.Warn("career catalog not read from database, using file", zap.Error(err))
		return fromFile
	}
	if len(stored) == 0 {
		return fromFile
	}
	logger.Info("career catalog loaded from database", zap.Int("careers", len(stored)))
	return stored
}

// SyncCatalog guarda el catalogo en career_vectors respetando su orden.
func SyncCatalog(ctx context.Context, careers repository.CareerRepository, catalog []domain.CareerVector) (int, error) {
	for i, c := range catalog {
		if err := careers.Upsert(ctx, c, i); err != nil {
			return i, fmt.Errorf("upsert career %q: %w", c.Name, err)
		}
	}
	return len(catalog), nil
}

// CatalogService expone el catalogo cargado en el motor.
type CatalogService struct {
	engine  *scoring.Engine
	careers repository.CareerRepository
}

func NewCatalogService(engine *scoring.Engine, careers repository.CareerRepository) *CatalogService {
	return &CatalogService{engine: engine, careers: careers}
}

func (s *CatalogService) List() []domain.CareerVector {
	return s.engine.Catalog()
}

// Nearest consulta en la base las k carreras mas cercanas al perfil 1-5 por
// distancia coseno. k se acota al largo del catalogo; k <= 0 usa el top N
// del motor. Un perfil todo en 1 normaliza al vector cero, que no tiene
// distancia coseno definida, y se resuelve con el ranking en memoria.
func (s *CatalogService) Nearest(ctx context.Context, scores domain.Profile, k int) ([]domain.CareerMatch, error) {
	if s.careers == nil {
		return nil, ErrNotFound
	}
	if err := validateLikertScores(scores); err != nil {
		return nil, err
	}
	if k <= 0 {
		k = s.engine.TopN()
	}
	if size := len(s.engine.Catalog()); size > 0 && k > size {
		k = size
	}
	profile := scoring.NormalizeLikertProfile(scores)
	if profile == (domain.Profile{}) {
		matches, _ := s.engine.RecommendN(profile, k)
		return matches, nil
	}
	careers, err := s.careers.Nearest(ctx, profile, k)
	if err != nil {
		return nil, fmt.Errorf("nearest careers: %w", err)
	}
	out := make([]domain.CareerMatch, 0, len(careers))
	for _, c := range careers {
		out = append(out, domain.CareerMatch{
			Career:      c.Name,
			Category:    c.Category,
			Score:       domain.RoundTo(domain.Clamp01(scoring.CosineSimilarity(profile, c.Vector)), 4),
			Description: scoring.Describe(profile, c),
		})
	}
	return out, nil
}
