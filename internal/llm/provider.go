package llm

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// NewFromProvider construye el cliente del proveedor indicado. Un proveedor
// vacio devuelve (nil, nil): las funciones que dependen del LLM quedan
// desactivadas.
func NewFromProvider(ctx context.Context, provider, apiKey, baseURL, model string, logger *zap.Logger) (LLMClient, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "":
		return nil, nil
	case ProviderGemini:
		client, err := NewGeminiClient(ctx, apiKey, model)
		if err != nil {
			return nil, err
		}
		return client, nil
	case ProviderOpenAI:
		return NewHTTPClient(baseURL, apiKey, model, logger), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", provider)
	}
}
