package scoring

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"kairos-api/internal/domain"
)

type catalogFile struct {
	Careers []catalogEntry `yaml:"careers"`
}

type catalogEntry struct {
	Name        string             `yaml:"name"`
	Category    string             `yaml:"category"`
	Vector      map[string]float64 `yaml:"vector"`
	Description string             `yaml:"description"`
}

type textModelFile struct {
	Version    string               `yaml:"version"`
	Vocabulary map[string]int       `yaml:"vocabulary"`
	IDF        []float64            `yaml:"idf"`
	Centroids  map[string][]float64 `yaml:"centroids"`
}

// ParseCatalog decodifica un catalogo YAML. El orden de las carreras se
// conserva porque define el desempate del ranking.
func ParseCatalog(data []byte) ([]domain.CareerVector, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	out := make([]domain.CareerVector, 0, len(f.Careers))
	seen := make(map[string]struct{}, len(f.Careers))
	for i, entry := range f.Careers {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			return nil, fmt.Errorf("catalog entry %d: missing name", i)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("catalog entry %d: duplicated career %q", i, name)
		}
		seen[name] = struct{}{}
		vec, err := profileFromMap(entry.Vector)
		if err != nil {
			return nil, fmt.Errorf("catalog entry %q: %w", name, err)
		}
		out = append(out, domain.CareerVector{
			Name:        name,
			Category:    strings.TrimSpace(entry.Category),
			Vector:      vec,
			Description: entry.Description,
		})
	}
	return out, nil
}

// LoadCatalog lee el catalogo de carreras desde un archivo YAML.
func LoadCatalog(path string) ([]domain.CareerVector, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseTextModel decodifica el artefacto TF-IDF + centroides.
func ParseTextModel(data []byte) (*TextModel, error) {
	var f textModelFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode text model: %w", err)
	}
	var centroids [domain.NumDimensions][]float64
	for key, vec := range f.Centroids {
		d, ok := domain.ParseDimension(key)
		if !ok {
			return nil, fmt.Errorf("text model: unknown centroid %q", key)
		}
		centroids[d] = vec
	}
	version := strings.TrimSpace(f.Version)
	if version == "" {
		version = "tfidf-unversioned"
	}
	return NewTextModel(version, f.Vocabulary, f.IDF, centroids)
}

// LoadTextModel lee el artefacto del predictor de texto.
func LoadTextModel(path string) (*TextModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read text model: %w", err)
	}
	return ParseTextModel(data)
}

func profileFromMap(m map[string]float64) (domain.Profile, error) {
	var p domain.Profile
	if len(m) == 0 {
		return p, errors.New("empty vector")
	}
	for key, v := range m {
		d, ok := domain.ParseDimension(key)
		if !ok {
			return p, fmt.Errorf("unknown dimension %q", key)
		}
		p[d] = v
	}
	return p, nil
}

// ArtifactPaths ubica los artefactos del motor.
type ArtifactPaths struct {
	Dir           string
	CatalogFile   string
	TextModelFile string
}

func (p ArtifactPaths) resolve(name string) string {
	if name == "" || filepath.IsAbs(name) || p.Dir == "" {
		return name
	}
	return filepath.Join(p.Dir, name)
}

// CatalogPath devuelve la ruta resuelta del catalogo de carreras.
func (p ArtifactPaths) CatalogPath() string {
	return p.resolve(p.CatalogFile)
}

// LoadArtifacts carga catalogo y predictor. Un artefacto faltante se
// registra y queda en nil; el motor producira resultados degradados.
func LoadArtifacts(logger *zap.Logger, paths ArtifactPaths) ([]domain.CareerVector, Predictor) {
	var (
		catalog   []domain.CareerVector
		predictor Predictor
	)

	if path := paths.CatalogPath(); path != "" {
		c, err := LoadCatalog(path)
		if err != nil {
			logger.Warn("career catalog not loaded", zap.String("path", path), zap.Error(err))
		} else {
			catalog = c
			logger.Info("career catalog loaded", zap.String("path", path), zap.Int("careers", len(c)))
		}
	}

	if path := paths.resolve(paths.TextModelFile); path != "" {
		m, err := LoadTextModel(path)
		if err != nil {
			logger.Warn("text model not loaded", zap.String("path", path), zap.Error(err))
		} else {
			predictor = m
			logger.Info("text model loaded", zap.String("path", path), zap.String("version", m.Version()))
		}
	}

	return catalog, predictor
}
