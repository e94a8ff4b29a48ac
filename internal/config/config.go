package config

import (
	"strings"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort    string   `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL string   `env:"DATABASE_URL,required"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`

	JWTSecret            string `env:"JWT_SECRET" envDefault:"dev-secret"`
	JWTAccessTTLMinutes  int    `env:"JWT_ACCESS_TTL_MINUTES" envDefault:"60"`
	JWTRefreshTTLMinutes int    `env:"JWT_REFRESH_TTL_MINUTES" envDefault:"10080"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	LoginRateLimit         int `env:"LOGIN_RATE_LIMIT" envDefault:"5"`
	LoginRateWindowMinutes int `env:"LOGIN_RATE_WINDOW_MINUTES" envDefault:"15"`

	// LLMProvider vacio desactiva el enriquecimiento y las preguntas generadas.
	LLMProvider string `env:"LLM_PROVIDER"`
	LLMAPIKey   string `env:"LLM_API_KEY"`
	LLMBaseURL  string `env:"LLM_BASE_URL" envDefault:"https://api.openai.com/v1"`
	LLMModel    string `env:"LLM_MODEL"`

	ModelArtifactsPath string `env:"MODEL_ARTIFACTS_PATH" envDefault:"artifacts"`
	CareerCatalogFile  string `env:"CAREER_CATALOG_FILE" envDefault:"careers.yaml"`
	TextModelFile      string `env:"TEXT_MODEL_FILE" envDefault:"text_model.yaml"`

	RecommendationTopN  int `env:"RECOMMENDATION_TOP_N" envDefault:"3"`
	OpenModeMinMessages int `env:"OPEN_MODE_MIN_MESSAGES" envDefault:"3"`

	SeedOnStartup bool     `env:"SEED_ON_STARTUP" envDefault:"false"`
	AdminEmails   []string `env:"ADMIN_EMAILS" envSeparator:","`
	AdminPassword string   `env:"ADMIN_PASSWORD"`
}

// LLMEnabled indica si hay un proveedor LLM configurado con credenciales.
func (c *Config) LLMEnabled() bool {
	return strings.TrimSpace(c.LLMProvider) != "" && strings.TrimSpace(c.LLMAPIKey) != ""
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	cfg.LLMProvider = strings.ToLower(strings.TrimSpace(cfg.LLMProvider))
	return &cfg, nil
}
