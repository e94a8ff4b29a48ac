package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// AnswerKind discrimina el contenido de AnswerValue.
type AnswerKind string

const (
	AnswerKindScale    AnswerKind = "scale"
	AnswerKindText     AnswerKind = "text"
	AnswerKindChoice   AnswerKind = "choice"
	// AnswerKindUnparsed marca respuestas almacenadas cuyo valor no pudo
	// interpretarse; el agregador las ignora.
	AnswerKindUnparsed AnswerKind = "unparsed"
)

// AnswerValue es la union etiquetada de los formatos de respuesta. Solo el
// campo correspondiente a Kind es significativo (Choice puede traer Text).
type AnswerValue struct {
	Kind     AnswerKind `json:"kind"`
	Scale    float64    `json:"scale,omitempty"`
	Text     string     `json:"text,omitempty"`
	Selected []int      `json:"selected,omitempty"`
}

func ScaleAnswer(v float64) AnswerValue {
	return AnswerValue{Kind: AnswerKindScale, Scale: v}
}

func TextAnswer(text string) AnswerValue {
	return AnswerValue{Kind: AnswerKindText, Text: text}
}

func ChoiceAnswer(selected []int, text string) AnswerValue {
	return AnswerValue{Kind: AnswerKindChoice, Selected: selected, Text: text}
}

// FreeText devuelve el texto libre que aporta la respuesta, si lo hay.
func (v AnswerValue) FreeText() string {
	switch v.Kind {
	case AnswerKindText, AnswerKindChoice:
		return v.Text
	}
	return ""
}

type Answer struct {
	ID           int64       `json:"id"`
	EvaluationID int64       `json:"evaluation_id"`
	QuestionID   int64       `json:"question_id"`
	Value        AnswerValue `json:"value"`
	AnsweredAt   time.Time   `json:"answered_at"`
}

// AnsweredQuestion une una respuesta con los datos de su pregunta que
// necesita el agregador.
type AnsweredQuestion struct {
	Answer       Answer
	Category     string
	QuestionType string
}

// DecodeStoredAnswer convierte la representacion persistida (answer_text +
// selected_options JSON) a la union etiquetada. Acepta los tres formatos
// historicos de escala: campo escalar ("scale"/"value"), lista "selected" y
// texto numerico.
func DecodeStoredAnswer(questionType string, answerText *string, options map[string]any) AnswerValue {
	text := ""
	if answerText != nil {
		text = strings.TrimSpace(*answerText)
	}

	switch questionType {
	case QuestionTypeScale:
		if v, ok := scalarFromOptions(options); ok {
			return ScaleAnswer(v)
		}
		if text != "" {
			if v, ok := CoerceFloat(text); ok {
				return ScaleAnswer(v)
			}
		}
		return AnswerValue{Kind: AnswerKindUnparsed, Text: text}
	case QuestionTypeMultipleChoice:
		sel := selectedFromOptions(options)
		if len(sel) == 0 && text == "" {
			return AnswerValue{Kind: AnswerKindUnparsed}
		}
		return ChoiceAnswer(sel, text)
	case QuestionTypeOpenText:
		if text == "" {
			return AnswerValue{Kind: AnswerKindUnparsed}
		}
		return TextAnswer(text)
	}

	// Tipo desconocido: se prioriza un escalar explicito, luego el texto.
	if v, ok := scalarFromOptions(options); ok {
		return ScaleAnswer(v)
	}
	if text != "" {
		return TextAnswer(text)
	}
	return AnswerValue{Kind: AnswerKindUnparsed}
}

// EncodeStoredAnswer es la inversa de DecodeStoredAnswer.
func EncodeStoredAnswer(v AnswerValue) (*string, map[string]any) {
	switch v.Kind {
	case AnswerKindScale:
		return nil, map[string]any{"scale": v.Scale}
	case AnswerKindText:
		text := v.Text
		return &text, nil
	case AnswerKindChoice:
		var text *string
		if v.Text != "" {
			t := v.Text
			text = &t
		}
		sel := v.Selected
		if sel == nil {
			sel = []int{}
		}
		return text, map[string]any{"selected": sel}
	}
	if v.Text != "" {
		t := v.Text
		return &t, nil
	}
	return nil, nil
}

func scalarFromOptions(options map[string]any) (float64, bool) {
	if options == nil {
		return 0, false
	}
	for _, key := range []string{"scale", "value"} {
		if raw, ok := options[key]; ok {
			return CoerceFloat(raw)
		}
	}
	if raw, ok := options["selected"]; ok {
		if list, ok := raw.([]any); ok && len(list) > 0 {
			return CoerceFloat(list[0])
		}
	}
	return 0, false
}

func selectedFromOptions(options map[string]any) []int {
	raw, ok := options["selected"]
	if !ok {
		return nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]int, 0, len(list))
	for _, item := range list {
		if v, ok := CoerceFloat(item); ok {
			out = append(out, int(v))
		}
	}
	return out
}

// CoerceFloat convierte escalares numericos o strings ("4", "3,5") a float64.
// NaN e infinitos se rechazan.
func CoerceFloat(raw any) (float64, bool) {
	var v float64
	switch t := raw.(type) {
	case float64:
		v = t
	case float32:
		v = float64(t)
	case int:
		v = float64(t)
	case int32:
		v = float64(t)
	case int64:
		v = float64(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		v = f
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(t), ",", ".")
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		v = f
	default:
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
