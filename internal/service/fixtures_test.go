package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"kairos-api/internal/domain"
	"kairos-api/internal/llm"
	"kairos-api/internal/scoring"
)

type fixedPredictor struct {
	out [domain.NumDimensions]float64
	err error
}

func (p fixedPredictor) Predict(string) ([domain.NumDimensions]float64, error) {
	return p.out, p.err
}

func (p fixedPredictor) Version() string { return "fixed-v1" }

func testCatalog() []domain.CareerVector {
	return []domain.CareerVector{
		{Name: "Ingeniería Mecánica", Category: "Ingeniería", Vector: domain.Profile{0.9, 0.7, 0.1, 0.1, 0.2, 0.3}},
		{Name: "Psicología", Category: "Salud", Vector: domain.Profile{0.1, 0.4, 0.3, 0.9, 0.3, 0.2}},
		{Name: "Diseño Gráfico", Category: "Artes", Vector: domain.Profile{0.2, 0.2, 0.9, 0.2, 0.3, 0.2}},
		{Name: "Contaduría", Category: "Negocios", Vector: domain.Profile{0.1, 0.3, 0.1, 0.2, 0.4, 0.9}},
	}
}

type chatFixture struct {
	sessions    *mockSessionRepo
	messages    *mockMessageRepo
	questions   *mockQuestionRepo
	evaluations *mockEvaluationRepo
	answers     *mockAnswerRepo
	results     *mockResultRepo
	llm         *llm.MockClient
	resultSvc   *ResultService
	chat        *ChatService
}

// newChatFixture arma el flujo completo con repositorios en memoria y el
// banco de preguntas guiadas ya cargado. llmClient puede ser nil.
func newChatFixture(t *testing.T, predictor scoring.Predictor, llmClient *llm.MockClient) *chatFixture {
	t.Helper()
	f := &chatFixture{
		sessions:    newMockSessionRepo(),
		messages:    &mockMessageRepo{},
		questions:   &mockQuestionRepo{},
		evaluations: newMockEvaluationRepo(),
		results:     newMockResultRepo(),
		llm:         llmClient,
	}
	f.answers = &mockAnswerRepo{questions: f.questions}
	f.questions.answers = f.answers
	for _, q := range RIASECQuestions() {
		if _, err := f.questions.Create(context.Background(), q); err != nil {
			t.Fatalf("seed question: %v", err)
		}
	}

	var client llm.LLMClient
	if llmClient != nil {
		client = llmClient
	}
	engine := scoring.NewEngine(testCatalog(), predictor)
	logger := zap.NewNop()
	f.resultSvc = NewResultService(logger, engine, NewEnrichmentService(logger, client),
		f.evaluations, f.sessions, f.answers, f.messages, f.results)
	f.chat = NewChatService(logger, f.sessions, f.messages, f.questions, f.evaluations, f.answers,
		f.resultSvc, NewFollowupService(logger, client), 3)
	return f
}

func floatPtr(v float64) *float64 { return &v }
