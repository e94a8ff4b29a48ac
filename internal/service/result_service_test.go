package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"kairos-api/internal/domain"
	"kairos-api/internal/llm"
	"kairos-api/internal/scoring"
)

func answerAll(t *testing.T, f *chatFixture, userID, sessionID int64, value func(domain.Question) float64) {
	t.Helper()
	for _, q := range f.questions.questions {
		_, err := f.chat.SubmitAnswer(context.Background(), userID, sessionID, AnswerInput{QuestionID: q.ID, Value: floatPtr(value(q))})
		if err != nil {
			t.Fatalf("submit answer: %v", err)
		}
	}
}

func TestResultServiceComputeAndStore_Overwrites(t *testing.T) {
	f := newChatFixture(t, nil, nil)
	session, _ := f.chat.CreateSession(context.Background(), 1, domain.ModeGuided)
	answerAll(t, f, 1, session.ID, func(q domain.Question) float64 {
		if q.Category == "riasec_C" {
			return 5
		}
		return 2
	})
	evaluation, _ := f.evaluations.GetBySessionID(context.Background(), session.ID)

	first, err := f.resultSvc.ComputeAndStore(context.Background(), evaluation.ID)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if first.TopCareers[0].Career != "Contaduría" {
		t.Fatalf("expected Contaduría first, got %+v", first.TopCareers)
	}

	answerAll(t, f, 1, session.ID, func(q domain.Question) float64 {
		if q.Category == "riasec_S" {
			return 5
		}
		return 1
	})
	second, err := f.resultSvc.ComputeAndStore(context.Background(), evaluation.ID)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected same result row, got %d and %d", first.ID, second.ID)
	}
	if second.TopCareers[0].Career != "Psicología" {
		t.Fatalf("expected Psicología after recompute, got %+v", second.TopCareers)
	}
	if len(f.results.results) != 1 || f.results.upserts != 2 {
		t.Fatalf("expected one stored result after two upserts")
	}
	stored, _ := f.resultSvc.Get(context.Background(), evaluation.ID)
	if stored.TopCareers[0].Career != "Psicología" {
		t.Fatalf("expected last write to win")
	}
}

func TestResultServiceComputeAndStore_OpenWithoutPredictor(t *testing.T) {
	f := newChatFixture(t, nil, nil)
	session, _ := f.chat.CreateSession(context.Background(), 1, domain.ModeOpen)
	_, _ = f.chat.PostMessage(context.Background(), 1, session.ID, domain.MessageTypeUser, "Me gusta programar")
	evaluation, _ := f.chat.ensureEvaluation(context.Background(), session)

	result, err := f.resultSvc.ComputeAndStore(context.Background(), evaluation.ID)
	if err != nil {
		t.Fatalf("expected degraded result without error, got %v", err)
	}
	if result.Metadata.Outcome != domain.OutcomeDegraded {
		t.Fatalf("expected degraded outcome, got %+v", result.Metadata)
	}
	if len(result.Metadata.DegradedReasons) == 0 || result.Metadata.DegradedReasons[0] != scoring.ReasonPredictorUnavailable {
		t.Fatalf("expected predictor_unavailable, got %v", result.Metadata.DegradedReasons)
	}
	if result.Profile != (domain.Profile{}) {
		t.Fatalf("expected zero profile, got %v", result.Profile)
	}
}

func TestResultServiceComputeAndStore_EmptyCatalog(t *testing.T) {
	logger := zap.NewNop()
	sessions := newMockSessionRepo()
	evaluations := newMockEvaluationRepo()
	results := newMockResultRepo()
	session, _ := sessions.Create(context.Background(), domain.ChatSession{UserID: 1, ChatMode: domain.ModeGuided})
	evaluation, _ := evaluations.Create(context.Background(), domain.Evaluation{UserID: 1, SessionID: session.ID, EvaluationMode: domain.ModeGuided})

	svc := NewResultService(logger, scoring.NewEngine(nil, nil), NewEnrichmentService(logger, nil),
		evaluations, sessions, &mockAnswerRepo{}, &mockMessageRepo{}, results)
	result, err := svc.ComputeAndStore(context.Background(), evaluation.ID)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if result.TopCareers == nil || len(result.TopCareers) != 0 {
		t.Fatalf("expected empty career list, got %v", result.TopCareers)
	}
	if result.Metadata.CatalogSize != 0 || result.Metadata.Outcome != domain.OutcomeDegraded {
		t.Fatalf("unexpected metadata %+v", result.Metadata)
	}
}

func TestResultServiceComputeAndStore_Errors(t *testing.T) {
	f := newChatFixture(t, nil, nil)
	if _, err := f.resultSvc.ComputeAndStore(context.Background(), 404); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	session, _ := f.chat.CreateSession(context.Background(), 1, domain.ModeGuided)
	evaluation, _ := f.chat.ensureEvaluation(context.Background(), session)
	f.answers.err = errors.New("db down")
	if _, err := f.resultSvc.ComputeAndStore(context.Background(), evaluation.ID); err == nil {
		t.Fatalf("expected storage error to propagate")
	}
}

func TestResultServiceComputeAndStore_Enrichment(t *testing.T) {
	client := &llm.MockClient{Response: "```json\n{\"top_careers\":[{\"career\":\"Contaduría\",\"explanation\":\"Te gusta el orden.\"},{\"career\":\"Astronauta\",\"explanation\":\"x\"}]}\n```"}
	f := newChatFixture(t, nil, client)
	session, _ := f.chat.CreateSession(context.Background(), 1, domain.ModeGuided)
	answerAll(t, f, 1, session.ID, func(q domain.Question) float64 { return 3 })
	evaluation, _ := f.evaluations.GetBySessionID(context.Background(), session.ID)

	result, err := f.resultSvc.ComputeAndStore(context.Background(), evaluation.ID)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if result.Metadata.Enrichment != domain.EnrichmentApplied {
		t.Fatalf("expected enrichment applied, got %s", result.Metadata.Enrichment)
	}
	if len(result.TopCareers) != 3 {
		t.Fatalf("expected list refilled to 3, got %d", len(result.TopCareers))
	}
	if result.TopCareers[0].Career != "Contaduría" || result.TopCareers[0].Description != "Te gusta el orden." {
		t.Fatalf("expected llm pick first, got %+v", result.TopCareers[0])
	}
	for _, c := range result.TopCareers {
		if c.Career == "Astronauta" {
			t.Fatalf("career outside catalog leaked into result")
		}
	}
}

func TestResultServiceComputeAndStore_EnrichmentFailure(t *testing.T) {
	client := &llm.MockClient{Err: errors.New("quota exceeded")}
	f := newChatFixture(t, nil, client)
	session, _ := f.chat.CreateSession(context.Background(), 1, domain.ModeGuided)
	answerAll(t, f, 1, session.ID, func(q domain.Question) float64 { return 3 })
	evaluation, _ := f.evaluations.GetBySessionID(context.Background(), session.ID)

	result, err := f.resultSvc.ComputeAndStore(context.Background(), evaluation.ID)
	if err != nil {
		t.Fatalf("enrichment failure must not fail the computation: %v", err)
	}
	if result.Metadata.Enrichment != domain.EnrichmentFailed {
		t.Fatalf("expected enrichment failed, got %s", result.Metadata.Enrichment)
	}
	if len(result.TopCareers) != 3 {
		t.Fatalf("expected ranked careers kept, got %d", len(result.TopCareers))
	}
	if result.Metadata.Outcome != domain.OutcomeComplete {
		t.Fatalf("expected scoring outcome unaffected, got %s", result.Metadata.Outcome)
	}
}
