package scoring

import (
	"math"
	"sort"

	"kairos-api/internal/domain"
)

// DefaultTopN es la cantidad de carreras recomendadas por defecto.
const DefaultTopN = 3

// CosineSimilarity calcula producto punto sobre normas. Si alguno de los
// vectores tiene norma cero la similitud es 0.
func CosineSimilarity(a, b domain.Profile) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(na) * math.Sqrt(nb))
	if math.IsNaN(sim) {
		return 0
	}
	return sim
}

type scoredCareer struct {
	career domain.CareerVector
	score  float64
}

// Rank ordena el catalogo por similitud coseno descendente y devuelve las
// primeras n carreras. Los empates conservan el orden del catalogo. Un
// catalogo vacio devuelve una lista vacia.
func Rank(profile domain.Profile, catalog []domain.CareerVector, n int) []domain.CareerMatch {
	if len(catalog) == 0 || n <= 0 {
		return []domain.CareerMatch{}
	}
	scored := make([]scoredCareer, len(catalog))
	for i, c := range catalog {
		scored[i] = scoredCareer{career: c, score: CosineSimilarity(profile, c.Vector)}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	if n > len(scored) {
		n = len(scored)
	}

	out := make([]domain.CareerMatch, 0, n)
	for _, sc := range scored[:n] {
		out = append(out, domain.CareerMatch{
			Career:      sc.career.Name,
			Category:    sc.career.Category,
			Score:       domain.RoundTo(domain.Clamp01(sc.score), 4),
			Description: Describe(profile, sc.career),
		})
	}
	return out
}
