package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"kairos-api/internal/llm"
)

var followupTemplates = []string{
	"¿Qué actividades te hacen perder la noción del tiempo (resolver problemas, crear cosas, ayudar a otros, organizar, liderar)?",
	"¿Qué tipo de proyectos te gustaría hacer en el futuro (construir, investigar, diseñar, enseñar, emprender)?",
	"¿En qué ambientes te sientes mejor (taller, laboratorio, estudio creativo, aula, empresa, oficina)?",
}

// FollowupService genera la siguiente pregunta del modo abierto.
type FollowupService struct {
	logger *zap.Logger
	client llm.LLMClient
}

func NewFollowupService(logger *zap.Logger, client llm.LLMClient) *FollowupService {
	return &FollowupService{logger: logger, client: client}
}

// Next devuelve una pregunta de seguimiento a partir de los mensajes previos
// del usuario. Usa el LLM si esta configurado y cae en plantillas fijas ante
// cualquier error.
func (s *FollowupService) Next(ctx context.Context, previous []string) string {
	last := ""
	if len(previous) > 0 {
		last = strings.TrimSpace(previous[len(previous)-1])
	}

	if s.client != nil && last != "" {
		out, err := s.client.Generate(ctx, buildFollowupPrompt(last))
		if err == nil {
			if q := strings.TrimSpace(out); q != "" {
				return q
			}
		} else {
			s.logger.Warn("followup generation failed, using template", zap.Error(err))
		}
	}

	idx := len(previous)
	if idx >= len(followupTemplates) {
		idx = len(followupTemplates) - 1
	}
	base := followupTemplates[idx]
	if last != "" {
		return fmt.Sprintf("Teniendo en cuenta que comentaste: \"%s\", %s", last, base)
	}
	return base
}

func buildFollowupPrompt(last string) string {
	var b strings.Builder
	b.WriteString("Actúa como orientador vocacional.\n")
	fmt.Fprintf(&b, "El estudiante ha dicho: %q.\n", last)
	b.WriteString("Genera UNA sola pregunta breve y concreta en español que profundice en sus intereses, ")
	b.WriteString("sin repetir lo anterior y relacionada con su mensaje.\n")
	b.WriteString("Responde solamente con la pregunta, sin texto adicional.")
	return b.String()
}
