// Package scoring calcula el perfil RIASEC y las carreras recomendadas a
// partir de las respuestas de una evaluacion.
package scoring

import (
	"strings"

	"kairos-api/internal/domain"
)

// AggregatedInput es el resultado efimero de agregar las respuestas de una
// evaluacion. Se recalcula en cada calculo de resultados.
type AggregatedInput struct {
	Sums       [domain.NumDimensions]float64
	Text       string
	ScaleCount int
	Skipped    int
}

// Aggregate suma las respuestas de escala por dimension y junta el texto
// libre (respuestas, valores de escala ilegibles y mensajes del chat) sin
// duplicados. Es una funcion pura.
func Aggregate(answers []domain.AnsweredQuestion, chatTexts []string) AggregatedInput {
	var out AggregatedInput
	texts := make([]string, 0, len(answers)+len(chatTexts))

	for _, aq := range answers {
		value := aq.Answer.Value
		switch value.Kind {
		case domain.AnswerKindUnparsed:
			// No suma a la escala pero el texto crudo sigue siendo senal
			// para el predictor.
			out.Skipped++
			if text := value.Text; text != "" {
				texts = append(texts, text)
			}
			continue
		case domain.AnswerKindScale:
			if dim, ok := domain.DimensionFromCategory(aq.Category); ok {
				out.Sums[dim] += value.Scale
				out.ScaleCount++
			}
		}
		if text := value.FreeText(); text != "" {
			texts = append(texts, text)
		}
	}
	texts = append(texts, chatTexts...)

	out.Text = joinUnique(texts)
	return out
}

// normalizeText colapsa espacios en blanco consecutivos.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func joinUnique(parts []string) string {
	seen := make(map[string]struct{}, len(parts))
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		n := normalizeText(p)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		kept = append(kept, n)
	}
	return strings.Join(kept, "\n")
}
