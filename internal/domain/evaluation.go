package domain

import "time"

const (
	EvaluationInProgress = "in_progress"
	EvaluationCompleted  = "completed"
)

type Evaluation struct {
	ID             int64      `json:"id"`
	UserID         int64      `json:"user_id"`
	SessionID      int64      `json:"session_id"`
	EvaluationMode string     `json:"evaluation_mode"`
	Status         string     `json:"status"`
	Progress       float64    `json:"progress"`
	StartedAt      time.Time  `json:"started_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

// Outcome de un calculo de resultados.
const (
	OutcomeComplete = "complete"
	OutcomeDegraded = "degraded"
)

// Estado del enriquecimiento opcional por LLM.
const (
	EnrichmentSkipped = "skipped"
	EnrichmentApplied = "applied"
	EnrichmentFailed  = "failed"
)

// ResultMetadata describe como se obtuvo el resultado. Outcome distingue un
// calculo completo de uno degradado; DegradedReasons explica el motivo.
type ResultMetadata struct {
	SourceMode      string   `json:"source_mode"`
	ModelVersion    string   `json:"model_version"`
	CatalogSize     int      `json:"catalog_size"`
	Outcome         string   `json:"outcome"`
	DegradedReasons []string `json:"degraded_reasons,omitempty"`
	Enrichment      string   `json:"enrichment"`
	SkippedAnswers  int      `json:"skipped_answers"`
}

// EvaluationResult es el registro permanente del resultado de una evaluacion.
// Existe a lo sumo uno por evaluacion; recalcular lo sobrescribe.
type EvaluationResult struct {
	ID           int64          `json:"id"`
	EvaluationID int64          `json:"evaluation_id"`
	Profile      Profile        `json:"profile"`
	TopCareers   []CareerMatch  `json:"top_careers"`
	Metadata     ResultMetadata `json:"metadata"`
	GeneratedAt  time.Time      `json:"generated_at"`
}

type StudentFeedback struct {
	ID           int64     `json:"id"`
	EvaluationID int64     `json:"evaluation_id"`
	UserID       int64     `json:"user_id"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type EvaluatorComment struct {
	ID           int64     `json:"id"`
	EvaluationID int64     `json:"evaluation_id"`
	EvaluatorID  int64     `json:"evaluator_id"`
	CommentText  string    `json:"comment_text"`
	CreatedAt    time.Time `json:"created_at"`
}
