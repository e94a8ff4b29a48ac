package scoring

import (
	"testing"

	"go.uber.org/zap"

	"kairos-api/internal/domain"
)

func TestParseCatalog(t *testing.T) {
	data := []byte(`
careers:
  - name: Medicina
    category: Salud
    vector: {R: 0.3, I: 0.9, S: 0.8}
  - name: Arquitectura
    vector: {realista: 0.6, artistico: 0.8}
`)
	got, err := ParseCatalog(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].Name != "Medicina" || got[1].Name != "Arquitectura" {
		t.Fatalf("unexpected catalog %+v", got)
	}
	if got[0].Vector != (domain.Profile{0.3, 0.9, 0, 0.8, 0, 0}) {
		t.Fatalf("unexpected vector %v", got[0].Vector)
	}
	if got[1].Vector[domain.Artistic] != 0.8 {
		t.Fatalf("synonym keys must be accepted, got %v", got[1].Vector)
	}
}

func TestParseCatalogErrors(t *testing.T) {
	cases := map[string]string{
		"missing name":      "careers:\n  - vector: {R: 1}\n",
		"duplicated name":   "careers:\n  - name: A\n    vector: {R: 1}\n  - name: A\n    vector: {I: 1}\n",
		"unknown dimension": "careers:\n  - name: A\n    vector: {X: 1}\n",
		"empty vector":      "careers:\n  - name: A\n",
		"invalid yaml":      "careers: [",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseCatalog([]byte(data)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestParseTextModelRejectsUnknownCentroid(t *testing.T) {
	data := []byte("vocabulary: {ab: 0}\nidf: [1]\ncentroids: {Z: [1]}\n")
	if _, err := ParseTextModel(data); err == nil {
		t.Fatal("expected error for unknown centroid")
	}
}

func TestLoadArtifactsMissingFilesDegrade(t *testing.T) {
	catalog, predictor := LoadArtifacts(zap.NewNop(), ArtifactPaths{
		Dir:           t.TempDir(),
		CatalogFile:   "careers.yaml",
		TextModelFile: "text_model.yaml",
	})
	if catalog != nil {
		t.Fatalf("expected nil catalog, got %v", catalog)
	}
	if predictor != nil {
		t.Fatalf("expected nil predictor, got %v", predictor)
	}
}

func TestLoadArtifactsFromRepo(t *testing.T) {
	catalog, predictor := LoadArtifacts(zap.NewNop(), ArtifactPaths{
		Dir:           "../../artifacts",
		CatalogFile:   "careers.yaml",
		TextModelFile: "text_model.yaml",
	})
	if len(catalog) == 0 {
		t.Fatal("expected repository catalog to load")
	}
	if predictor == nil {
		t.Fatal("expected repository text model to load")
	}
}
