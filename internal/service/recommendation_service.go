package service

import (
	"fmt"
	"math"
	"strings"

	"kairos-api/internal/domain"
	"kairos-api/internal/scoring"
)

// Recommendation es la respuesta de los endpoints de recomendacion directa.
// Profile siempre esta en escala 1-5.
type Recommendation struct {
	Profile         domain.Profile       `json:"riasec_profile"`
	Careers         []domain.CareerMatch `json:"top_careers"`
	Outcome         string               `json:"outcome"`
	DegradedReasons []string             `json:"degraded_reasons,omitempty"`
}

// RecommendationService recomienda carreras sin pasar por una sesion: desde
// los seis puntajes de un test o desde texto libre.
type RecommendationService struct {
	engine *scoring.Engine
}

func NewRecommendationService(engine *scoring.Engine) *RecommendationService {
	return &RecommendationService{engine: engine}
}

// validateLikertScores exige cada dimension dentro de 1..5.
func validateLikertScores(scores domain.Profile) error {
	for _, d := range domain.Dimensions {
		v := scores[d]
		if math.IsNaN(v) || v < 1 || v > 5 {
			return fmt.Errorf("%w: %s must be between 1 and 5", ErrInvalidInput, d.Letter())
		}
	}
	return nil
}

// FromScores recibe puntajes 1-5 por dimension. No usa el predictor.
func (s *RecommendationService) FromScores(scores domain.Profile) (Recommendation, error) {
	if err := validateLikertScores(scores); err != nil {
		return Recommendation{}, err
	}
	rounded := scores.Round(1)
	careers, reasons := s.engine.Recommend(scoring.NormalizeLikertProfile(rounded))
	return newRecommendation(rounded, careers, reasons), nil
}

// FromText predice el perfil a partir del texto y lo devuelve en escala 1-5.
func (s *RecommendationService) FromText(text string) (Recommendation, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Recommendation{}, fmt.Errorf("%w: text is required", ErrInvalidInput)
	}
	profile, reasons := s.engine.BuildProfile(domain.ModeOpen, scoring.AggregatedInput{Text: text})
	careers, rankReasons := s.engine.Recommend(profile)
	reasons = append(reasons, rankReasons...)
	return newRecommendation(scoring.DenormalizeProfile(profile).Round(4), careers, reasons), nil
}

func newRecommendation(profile domain.Profile, careers []domain.CareerMatch, reasons []string) Recommendation {
	outcome := domain.OutcomeComplete
	if len(reasons) > 0 {
		outcome = domain.OutcomeDegraded
	}
	return Recommendation{
		Profile:         profile,
		Careers:         careers,
		Outcome:         outcome,
		DegradedReasons: reasons,
	}
}
