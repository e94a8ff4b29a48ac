package scoring

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"kairos-api/internal/domain"
)

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]{2,}`)

// TextModel es un vectorizador TF-IDF con un centroide por dimension RIASEC.
// La prediccion es la similitud coseno del texto contra cada centroide.
type TextModel struct {
	version    string
	vocabulary map[string]int
	idf        []float64
	centroids  [domain.NumDimensions][]float64
}

// NewTextModel valida las dimensiones de los artefactos y construye el modelo.
func NewTextModel(version string, vocabulary map[string]int, idf []float64, centroids [domain.NumDimensions][]float64) (*TextModel, error) {
	if len(vocabulary) == 0 {
		return nil, errors.New("text model: empty vocabulary")
	}
	if len(idf) == 0 {
		return nil, errors.New("text model: empty idf")
	}
	vocab := make(map[string]int, len(vocabulary))
	for term, idx := range vocabulary {
		if idx < 0 || idx >= len(idf) {
			return nil, fmt.Errorf("text model: term %q index %d out of range", term, idx)
		}
		vocab[foldTerm(term)] = idx
	}
	for _, d := range domain.Dimensions {
		if len(centroids[d]) != len(idf) {
			return nil, fmt.Errorf("text model: centroid %s has %d features, expected %d", d.Letter(), len(centroids[d]), len(idf))
		}
	}
	return &TextModel{
		version:    version,
		vocabulary: vocab,
		idf:        idf,
		centroids:  centroids,
	}, nil
}

func (m *TextModel) Version() string {
	if m == nil {
		return ""
	}
	return m.version
}

// Predict vectoriza el texto y devuelve su similitud con cada centroide en
// orden canonico. Un texto sin terminos conocidos produce un vector cero.
func (m *TextModel) Predict(text string) ([domain.NumDimensions]float64, error) {
	var out [domain.NumDimensions]float64
	if m == nil {
		return out, errors.New("text model not loaded")
	}
	vec := m.vectorize(text)
	if vec == nil {
		return out, nil
	}
	for _, d := range domain.Dimensions {
		out[d] = sparseCosine(vec, m.centroids[d])
	}
	return out, nil
}

// vectorize devuelve el vector TF-IDF disperso normalizado L2.
func (m *TextModel) vectorize(text string) map[int]float64 {
	counts := make(map[int]float64)
	for _, tok := range Tokenize(text) {
		if idx, ok := m.vocabulary[tok]; ok {
			counts[idx]++
		}
	}
	if len(counts) == 0 {
		return nil
	}
	var norm float64
	for idx, tf := range counts {
		w := tf * m.idf[idx]
		counts[idx] = w
		norm += w * w
	}
	if norm == 0 {
		return nil
	}
	norm = math.Sqrt(norm)
	for idx := range counts {
		counts[idx] /= norm
	}
	return counts
}

func sparseCosine(vec map[int]float64, centroid []float64) float64 {
	var dot, cn float64
	for _, v := range centroid {
		cn += v * v
	}
	if cn == 0 {
		return 0
	}
	for idx, v := range vec {
		dot += v * centroid[idx]
	}
	// vec ya esta normalizado.
	return dot / math.Sqrt(cn)
}

// Tokenize pasa a minusculas, quita tildes y extrae tokens de al menos dos
// letras o digitos.
func Tokenize(text string) []string {
	return tokenPattern.FindAllString(foldTerm(text), -1)
}

func foldTerm(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}
