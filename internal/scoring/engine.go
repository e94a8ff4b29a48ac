package scoring

import (
	"kairos-api/internal/domain"
)

// GuidedModelVersion identifica la regla deterministica del modo guiado.
const GuidedModelVersion = "likert-sum-v1"

// Engine agrupa los artefactos cargados al iniciar el proceso (catalogo y
// predictor). Es inmutable despues de construido y seguro para lectores
// concurrentes.
type Engine struct {
	catalog         []domain.CareerVector
	predictor       Predictor
	topN            int
	maxPerDimension float64
}

type Option func(*Engine)

// WithTopN cambia la cantidad de carreras devueltas.
func WithTopN(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.topN = n
		}
	}
}

// WithMaxPerDimension cambia el maximo teorico de la suma de escala por dimension.
func WithMaxPerDimension(v float64) Option {
	return func(e *Engine) {
		if v > 0 {
			e.maxPerDimension = v
		}
	}
}

// NewEngine construye el motor. predictor y catalog pueden ser nil: el
// resultado sera degradado pero nunca falla.
func NewEngine(catalog []domain.CareerVector, predictor Predictor, opts ...Option) *Engine {
	e := &Engine{
		catalog:         append([]domain.CareerVector(nil), catalog...),
		predictor:       predictor,
		topN:            DefaultTopN,
		maxPerDimension: DefaultMaxPerDimension,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Catalog devuelve una copia del catalogo cargado.
func (e *Engine) Catalog() []domain.CareerVector {
	return append([]domain.CareerVector(nil), e.catalog...)
}

func (e *Engine) TopN() int {
	return e.topN
}

func (e *Engine) HasPredictor() bool {
	return e.predictor != nil
}

// ModelVersion devuelve la version del modelo usado para el modo dado.
func (e *Engine) ModelVersion(mode string) string {
	if mode != domain.ModeOpen {
		return GuidedModelVersion
	}
	if e.predictor == nil {
		return "unavailable"
	}
	return e.predictor.Version()
}

// Scored es el resultado del pipeline completo para una evaluacion.
type Scored struct {
	Mode         string
	Profile      domain.Profile
	Careers      []domain.CareerMatch
	ModelVersion string
	Reasons      []string
}

// Outcome indica si el calculo fue completo o degradado.
func (s Scored) Outcome() string {
	if len(s.Reasons) > 0 {
		return domain.OutcomeDegraded
	}
	return domain.OutcomeComplete
}

// BuildProfile aplica la estrategia del modo. Los modos son excluyentes: el
// guiado usa solo escalas y el abierto solo texto.
func (e *Engine) BuildProfile(mode string, in AggregatedInput) (domain.Profile, []string) {
	var reasons []string
	switch mode {
	case domain.ModeOpen:
		profile, reason := OpenProfile(in.Text, e.predictor)
		if reason != "" {
			reasons = append(reasons, reason)
		}
		return profile, reasons
	case domain.ModeGuided:
	default:
		reasons = append(reasons, ReasonUnknownMode)
	}
	if in.ScaleCount == 0 {
		reasons = append(reasons, ReasonNoScaleAnswers)
	}
	return GuidedProfile(in.Sums, e.maxPerDimension), reasons
}

// Recommend ordena el catalogo contra el perfil.
func (e *Engine) Recommend(profile domain.Profile) ([]domain.CareerMatch, []string) {
	return e.RecommendN(profile, e.topN)
}

func (e *Engine) RecommendN(profile domain.Profile, n int) ([]domain.CareerMatch, []string) {
	if len(e.catalog) == 0 {
		return []domain.CareerMatch{}, []string{ReasonCatalogUnavailable}
	}
	return Rank(profile, e.catalog, n), nil
}

// Score ejecuta perfil y ranking para una entrada agregada.
func (e *Engine) Score(mode string, in AggregatedInput) Scored {
	profile, reasons := e.BuildProfile(mode, in)
	careers, rankReasons := e.Recommend(profile)
	if mode != domain.ModeOpen {
		mode = domain.ModeGuided
	}
	return Scored{
		Mode:         mode,
		Profile:      profile,
		Careers:      careers,
		ModelVersion: e.ModelVersion(mode),
		Reasons:      append(reasons, rankReasons...),
	}
}
