package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"kairos-api/internal/domain"
	"kairos-api/internal/llm"
	"kairos-api/internal/scoring"
)

// EnrichmentService pide al LLM explicaciones personalizadas para las
// carreras recomendadas. Solo acepta carreras del catalogo cargado y los
// puntajes siempre son los de la similitud coseno.
type EnrichmentService struct {
	logger *zap.Logger
	client llm.LLMClient
}

func NewEnrichmentService(logger *zap.Logger, client llm.LLMClient) *EnrichmentService {
	return &EnrichmentService{logger: logger, client: client}
}

func (s *EnrichmentService) Enabled() bool {
	return s != nil && s.client != nil
}

type enrichmentResponse struct {
	TopCareers []struct {
		Career      string `json:"career"`
		Explanation string `json:"explanation"`
	} `json:"top_careers"`
}

// Enrich devuelve la lista enriquecida de n carreras. Las propuestas fuera
// del catalogo se descartan y la lista se completa con el ranking original.
// Ante error, el llamador debe conservar la lista original.
func (s *EnrichmentService) Enrich(ctx context.Context, profile domain.Profile, ranked []domain.CareerMatch, catalog []domain.CareerVector, freeText string, n int) ([]domain.CareerMatch, error) {
	if !s.Enabled() {
		return nil, errors.New("enrichment disabled")
	}
	if len(ranked) == 0 || len(catalog) == 0 || n <= 0 {
		return ranked, nil
	}

	raw, err := s.client.Generate(ctx, buildEnrichmentPrompt(profile, ranked, catalog, freeText, n))
	if err != nil {
		return nil, fmt.Errorf("generate enrichment: %w", err)
	}
	var resp enrichmentResponse
	if err := decodeLLMJSON(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode enrichment: %w", err)
	}

	byName := make(map[string]domain.CareerVector, len(catalog))
	for _, c := range catalog {
		byName[strings.ToLower(c.Name)] = c
	}

	out := make([]domain.CareerMatch, 0, n)
	used := make(map[string]struct{}, n)
	for _, item := range resp.TopCareers {
		if len(out) >= n {
			break
		}
		career, ok := byName[strings.ToLower(strings.TrimSpace(item.Career))]
		if !ok {
			s.logger.Debug("enrichment proposal outside catalog dropped", zap.String("career", item.Career))
			continue
		}
		if _, dup := used[career.Name]; dup {
			continue
		}
		used[career.Name] = struct{}{}
		description := strings.TrimSpace(item.Explanation)
		if description == "" {
			description = scoring.Describe(profile, career)
		}
		out = append(out, domain.CareerMatch{
			Career:      career.Name,
			Category:    career.Category,
			Score:       domain.RoundTo(domain.Clamp01(scoring.CosineSimilarity(profile, career.Vector)), 4),
			Description: description,
		})
	}

	for _, m := range ranked {
		if len(out) >= n {
			break
		}
		if _, dup := used[m.Career]; dup {
			continue
		}
		used[m.Career] = struct{}{}
		out = append(out, m)
	}
	return out, nil
}

func buildEnrichmentPrompt(profile domain.Profile, ranked []domain.CareerMatch, catalog []domain.CareerVector, freeText string, n int) string {
	names := make([]string, 0, len(catalog))
	for _, c := range catalog {
		names = append(names, c.Name)
	}
	allowed, _ := json.Marshal(names)

	var b strings.Builder
	b.WriteString("Eres un orientador vocacional. Ya calculé el perfil RIASEC de un estudiante y un ranking de carreras.\n")
	b.WriteString("SOLO puedes recomendar carreras del catálogo autorizado.\n\n")
	b.WriteString("Perfil RIASEC (escala 0-1): ")
	for i, d := range domain.Dimensions {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %.2f", d.Letter(), profile[d])
	}
	b.WriteString("\nRanking calculado: ")
	for i, m := range ranked {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s (%.0f%%)", m.Career, m.Score*100)
	}
	if text := strings.TrimSpace(freeText); text != "" {
		fmt.Fprintf(&b, "\nIntereses que escribió: %q", text)
	}
	fmt.Fprintf(&b, "\nCatálogo autorizado: %s\n\n", allowed)
	fmt.Fprintf(&b, "Elige EXACTAMENTE %d carreras del catálogo y explica brevemente por qué encajan con el perfil.\n", n)
	b.WriteString(`Devuelve SOLAMENTE un objeto JSON: {"top_careers":[{"career":"nombre exacto del catálogo","explanation":"..."}]}`)
	return b.String()
}
