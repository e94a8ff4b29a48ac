package domain

const (
	QuestionTypeScale          = "scale"
	QuestionTypeOpenText       = "open_text"
	QuestionTypeMultipleChoice = "multiple_choice"
)

const (
	CompatibleGuided = "guided"
	CompatibleOpen   = "open"
	CompatibleBoth   = "both"
)

// Rango por defecto de las preguntas Likert.
const (
	DefaultScaleMin = 1
	DefaultScaleMax = 5
)

type QuestionOptions struct {
	ScaleMin      int               `json:"scale_min,omitempty"`
	ScaleMax      int               `json:"scale_max,omitempty"`
	Anchors       map[string]string `json:"anchors,omitempty"`
	Choices       []string          `json:"choices,omitempty"`
	MaxSelections int               `json:"max_selections,omitempty"`
}

type Question struct {
	ID              int64           `json:"id"`
	QuestionText    string          `json:"question_text"`
	QuestionType    string          `json:"question_type"`
	Category        string          `json:"category,omitempty"`
	DisplayOrder    int             `json:"display_order"`
	Options         QuestionOptions `json:"options"`
	CompatibleModes string          `json:"compatible_modes"`
}

// ScaleRange devuelve el rango valido de la escala, con defaults 1-5.
func (q Question) ScaleRange() (int, int) {
	lo, hi := q.Options.ScaleMin, q.Options.ScaleMax
	if lo == 0 && hi == 0 {
		return DefaultScaleMin, DefaultScaleMax
	}
	if hi < lo {
		return DefaultScaleMin, DefaultScaleMax
	}
	return lo, hi
}
