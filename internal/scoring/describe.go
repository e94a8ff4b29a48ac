package scoring

import (
	"strings"

	"kairos-api/internal/domain"
)

// DefaultDescriptionTemplate se usa cuando la carrera no trae plantilla propia.
const DefaultDescriptionTemplate = "Tus intereses más fuertes son {user_traits}. {career} se apoya en {career_traits}, por eso encaja con tu perfil."

var traitPhrases = [domain.NumDimensions]string{
	domain.Realistic:     "el trabajo práctico y con herramientas",
	domain.Investigative: "la investigación y el análisis",
	domain.Artistic:      "la creatividad y la expresión",
	domain.Social:        "ayudar y enseñar a otras personas",
	domain.Enterprising:  "el liderazgo y la iniciativa",
	domain.Conventional:  "el orden y la precisión",
}

// TraitPhrase devuelve la frase descriptiva asociada a una dimension.
func TraitPhrase(d domain.Dimension) string {
	if !d.Valid() {
		return ""
	}
	return traitPhrases[d]
}

// Describe compone la descripcion de una carrera a partir de las dos
// dimensiones mas altas del usuario y las dos del vector de la carrera.
func Describe(profile domain.Profile, career domain.CareerVector) string {
	tmpl := strings.TrimSpace(career.Description)
	if tmpl == "" {
		tmpl = DefaultDescriptionTemplate
	}
	r := strings.NewReplacer(
		"{career}", career.Name,
		"{user_traits}", joinTraits(profile.Top(2)),
		"{career_traits}", joinTraits(career.Vector.Top(2)),
	)
	return r.Replace(tmpl)
}

func joinTraits(dims []domain.Dimension) string {
	parts := make([]string, 0, len(dims))
	for _, d := range dims {
		parts = append(parts, d.Name()+" ("+TraitPhrase(d)+")")
	}
	return strings.Join(parts, " y ")
}
