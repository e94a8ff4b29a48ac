package scoring

import (
	"kairos-api/internal/domain"
)

// Constantes de escalado del test guiado: 6 preguntas Likert de 1 a 5 por dimension.
const (
	QuestionsPerDimension  = 6
	MaxScaleValue          = 5
	DefaultMaxPerDimension = QuestionsPerDimension * MaxScaleValue
)

// Razones de degradacion reportadas en ResultMetadata.
const (
	ReasonPredictorUnavailable = "predictor_unavailable"
	ReasonPredictorFailed      = "predictor_failed"
	ReasonEmptyText            = "empty_text"
	ReasonCatalogUnavailable   = "catalog_unavailable"
	ReasonNoScaleAnswers       = "no_scale_answers"
	ReasonUnknownMode          = "unknown_mode"
)

// Predictor convierte texto libre en un vector RIASEC crudo.
type Predictor interface {
	Predict(text string) ([domain.NumDimensions]float64, error)
	Version() string
}

// NormalizeLikert lleva un puntaje 1-5 a 0-1.
func NormalizeLikert(v float64) float64 {
	return (v - 1) / 4
}

// DenormalizeLikert lleva un puntaje 0-1 a 1-5.
func DenormalizeLikert(v float64) float64 {
	return v*4 + 1
}

// NormalizeLikertProfile aplica NormalizeLikert a cada dimension y recorta.
func NormalizeLikertProfile(p domain.Profile) domain.Profile {
	var out domain.Profile
	for i, v := range p {
		out[i] = NormalizeLikert(v)
	}
	return out.Clamp()
}

// DenormalizeProfile convierte un perfil 0-1 a la escala 1-5.
func DenormalizeProfile(p domain.Profile) domain.Profile {
	var out domain.Profile
	for i, v := range p.Clamp() {
		out[i] = DenormalizeLikert(v)
	}
	return out
}

// GuidedProfile divide cada suma por su maximo teorico, la reescala a 1-5 y
// luego la normaliza a 0-1.
func GuidedProfile(sums [domain.NumDimensions]float64, maxPerDimension float64) domain.Profile {
	var out domain.Profile
	if maxPerDimension <= 0 {
		return out
	}
	for i, sum := range sums {
		likert := DenormalizeLikert(sum / maxPerDimension)
		out[i] = NormalizeLikert(likert)
	}
	return out.Clamp()
}

// OpenProfile pasa el texto por el predictor. Sin texto o sin predictor el
// perfil queda en cero y se informa el motivo.
func OpenProfile(text string, predictor Predictor) (domain.Profile, string) {
	if text == "" {
		return domain.Profile{}, ReasonEmptyText
	}
	if predictor == nil {
		return domain.Profile{}, ReasonPredictorUnavailable
	}
	raw, err := predictor.Predict(text)
	if err != nil {
		return domain.Profile{}, ReasonPredictorFailed
	}
	return domain.Profile(raw).Clamp(), ""
}
