package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"kairos-api/internal/domain"
)

func TestStudentServiceResultsAndFeedback(t *testing.T) {
	f := newChatFixture(t, nil, nil)
	feedback := &mockFeedbackRepo{}
	svc := NewStudentService(zap.NewNop(), f.evaluations, f.resultSvc, feedback)

	session, _ := f.chat.CreateSession(context.Background(), 1, domain.ModeGuided)
	answerAll(t, f, 1, session.ID, func(domain.Question) float64 { return 4 })
	if _, err := f.chat.Complete(context.Background(), 1, session.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}
	evaluation, _ := f.evaluations.GetBySessionID(context.Background(), session.ID)

	evals, err := svc.Evaluations(context.Background(), 1)
	if err != nil || len(evals) != 1 {
		t.Fatalf("expected one evaluation, got %v (%v)", evals, err)
	}
	if _, err := svc.Result(context.Background(), 1, evaluation.ID); err != nil {
		t.Fatalf("expected own result, got %v", err)
	}
	if _, err := svc.Result(context.Background(), 2, evaluation.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other student, got %v", err)
	}

	for _, rating := range []int{0, 6} {
		if _, err := svc.AddFeedback(context.Background(), 1, evaluation.ID, rating, ""); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("rating %d: expected ErrInvalidInput, got %v", rating, err)
		}
	}
	fb, err := svc.AddFeedback(context.Background(), 1, evaluation.ID, 5, "  muy útil ")
	if err != nil {
		t.Fatalf("add feedback: %v", err)
	}
	if fb.Comment != "muy útil" || fb.UserID != 1 {
		t.Fatalf("unexpected feedback %+v", fb)
	}
	if _, err := svc.AddFeedback(context.Background(), 2, evaluation.ID, 4, ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign evaluation, got %v", err)
	}

	list, err := svc.Feedback(context.Background(), 1, evaluation.ID)
	if err != nil || len(list) != 1 {
		t.Fatalf("expected one feedback, got %v (%v)", list, err)
	}
}
