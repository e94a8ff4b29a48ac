package scoring

import (
	"reflect"
	"testing"

	"kairos-api/internal/domain"
)

func TestTokenizeFoldsAccents(t *testing.T) {
	got := Tokenize("Me GUSTA diseñar música, y programar en 2024!")
	want := []string{"me", "gusta", "disenar", "musica", "programar", "en", "2024"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestTextModelPredict(t *testing.T) {
	model, err := LoadTextModel("../../artifacts/text_model.yaml")
	if err != nil {
		t.Fatalf("load model: %v", err)
	}
	if model.Version() == "" {
		t.Fatal("expected a model version")
	}

	raw, err := model.Predict("Me encanta programar, investigar y analizar datos con ciencia")
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	top := domain.Profile(raw).Top(1)
	if top[0] != domain.Investigative {
		t.Fatalf("expected Investigative on top, got %s (%v)", top[0].Letter(), raw)
	}

	raw, err = model.Predict("zzz qqq")
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if raw != ([domain.NumDimensions]float64{}) {
		t.Fatalf("unknown terms must give a zero vector, got %v", raw)
	}
}

func TestNilTextModelFails(t *testing.T) {
	var m *TextModel
	if _, err := m.Predict("hola"); err == nil {
		t.Fatal("expected error from nil model")
	}
}

func TestNewTextModelValidates(t *testing.T) {
	idf := []float64{1, 1}
	var ok [domain.NumDimensions][]float64
	for _, d := range domain.Dimensions {
		ok[d] = []float64{0, 0}
	}

	if _, err := NewTextModel("v", map[string]int{"a": 5}, idf, ok); err == nil {
		t.Fatal("expected out of range error")
	}
	short := ok
	short[domain.Social] = []float64{1}
	if _, err := NewTextModel("v", map[string]int{"ab": 0}, idf, short); err == nil {
		t.Fatal("expected centroid length error")
	}
	if _, err := NewTextModel("v", map[string]int{"ab": 0}, idf, ok); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
