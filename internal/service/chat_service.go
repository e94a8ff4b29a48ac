package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"kairos-api/internal/domain"
	"kairos-api/internal/repository"
)

const WelcomeMessage = "¡Bienvenido! Selecciona un modo para comenzar: guiado u abierto."

// ChatService maneja el flujo de las sesiones de chat: preguntas guiadas,
// conversacion abierta, respuestas y cierre de la evaluacion.
type ChatService struct {
	logger          *zap.Logger
	sessions        repository.SessionRepository
	messages        repository.MessageRepository
	questions       repository.QuestionRepository
	evaluations     repository.EvaluationRepository
	answers         repository.AnswerRepository
	results         *ResultService
	followups       *FollowupService
	openMinMessages int
	now             func() time.Time
}

func NewChatService(
	logger *zap.Logger,
	sessions repository.SessionRepository,
	messages repository.MessageRepository,
	questions repository.QuestionRepository,
	evaluations repository.EvaluationRepository,
	answers repository.AnswerRepository,
	results *ResultService,
	followups *FollowupService,
	openMinMessages int,
) *ChatService {
	if openMinMessages <= 0 {
		openMinMessages = 3
	}
	return &ChatService{
		logger:          logger,
		sessions:        sessions,
		messages:        messages,
		questions:       questions,
		evaluations:     evaluations,
		answers:         answers,
		results:         results,
		followups:       followups,
		openMinMessages: openMinMessages,
		now:             time.Now,
	}
}

// AnswerInput es la respuesta tal como llega del cliente. Para preguntas de
// escala se acepta el valor directo, una seleccion de un elemento o el texto
// numerico.
type AnswerInput struct {
	QuestionID int64
	Value      *float64
	Text       string
	Selected   []int
}

// OpenStep es el resultado de avanzar una conversacion abierta. Si Completed
// es true, Result trae el resultado calculado; si no, BotMessage trae la
// siguiente pregunta.
type OpenStep struct {
	Completed            bool                     `json:"completed"`
	BotMessage           *domain.ChatMessage      `json:"bot_message,omitempty"`
	RemainingUserReplies int                      `json:"remaining_user_interactions"`
	EvaluationID         int64                    `json:"evaluation_id,omitempty"`
	Result               *domain.EvaluationResult `json:"result,omitempty"`
}

func (s *ChatService) CreateSession(ctx context.Context, userID int64, mode string) (domain.ChatSession, error) {
	mode = strings.ToLower(strings.TrimSpace(mode))
	if !domain.ValidMode(mode) {
		return domain.ChatSession{}, fmt.Errorf("%w: chat_mode must be guided or open", ErrInvalidInput)
	}
	now := s.now().UTC()
	session, err := s.sessions.Create(ctx, domain.ChatSession{
		UserID:            userID,
		ChatMode:          mode,
		ConversationStage: domain.StageWelcome,
		Status:            domain.SessionStatusActive,
		StartedAt:         now,
		LastActivity:      now,
	})
	if err != nil {
		return domain.ChatSession{}, fmt.Errorf("create session: %w", err)
	}
	s.logger.Info("chat session created",
		zap.Int64("session_id", session.ID),
		zap.Int64("user_id", userID),
		zap.String("mode", mode),
	)
	return session, nil
}

func (s *ChatService) ListSessions(ctx context.Context, userID int64) ([]domain.ChatSession, error) {
	return s.sessions.ListByUser(ctx, userID)
}

// GetSession devuelve la sesion solo si pertenece al usuario. Las sesiones
// ajenas se reportan como inexistentes.
func (s *ChatService) GetSession(ctx context.Context, userID, sessionID int64) (domain.ChatSession, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return domain.ChatSession{}, notFound(err)
	}
	if session.UserID != userID {
		return domain.ChatSession{}, ErrNotFound
	}
	return session, nil
}

// DeleteSession elimina la sesion con sus mensajes y su evaluacion.
func (s *ChatService) DeleteSession(ctx context.Context, userID, sessionID int64) error {
	if _, err := s.GetSession(ctx, userID, sessionID); err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return notFound(err)
	}
	s.logger.Info("chat session deleted", zap.Int64("session_id", sessionID))
	return nil
}

// PostMessage agrega un mensaje a la sesion. Una sesion completada ya no
// acepta mensajes: cambiarian el texto libre de un resultado cerrado.
func (s *ChatService) PostMessage(ctx context.Context, userID, sessionID int64, messageType, content string) (domain.ChatMessage, error) {
	session, err := s.GetSession(ctx, userID, sessionID)
	if err != nil {
		return domain.ChatMessage{}, err
	}
	if session.Status == domain.SessionStatusCompleted {
		return domain.ChatMessage{}, ErrSessionClosed
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.ChatMessage{}, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	if messageType == "" {
		messageType = domain.MessageTypeUser
	}
	switch messageType {
	case domain.MessageTypeUser, domain.MessageTypeBot, domain.MessageTypeSystem:
	default:
		return domain.ChatMessage{}, fmt.Errorf("%w: unknown message_type %q", ErrInvalidInput, messageType)
	}

	msg, err := s.messages.Create(ctx, domain.ChatMessage{
		SessionID:   sessionID,
		MessageType: messageType,
		Content:     content,
	})
	if err != nil {
		return domain.ChatMessage{}, fmt.Errorf("create message: %w", err)
	}
	s.touch(ctx, session)
	return msg, nil
}

func (s *ChatService) ListMessages(ctx context.Context, userID, sessionID int64) ([]domain.ChatMessage, error) {
	if _, err := s.GetSession(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	return s.messages.ListBySessionID(ctx, sessionID)
}

// NextQuestion devuelve la siguiente pregunta sin responder de una sesion
// guiada y la marca como pregunta actual.
func (s *ChatService) NextQuestion(ctx context.Context, userID, sessionID int64) (domain.Question, error) {
	session, err := s.GetSession(ctx, userID, sessionID)
	if err != nil {
		return domain.Question{}, err
	}
	if session.ChatMode != domain.ModeGuided {
		return domain.Question{}, ErrSessionMode
	}
	evaluation, err := s.ensureEvaluation(ctx, session)
	if err != nil {
		return domain.Question{}, err
	}

	question, err := s.questions.NextUnanswered(ctx, evaluation.ID, domain.CompatibleGuided)
	if err != nil {
		return domain.Question{}, notFound(err)
	}

	session.CurrentQuestionID = &question.ID
	session.ConversationStage = domain.StageQuestions
	session.LastActivity = s.now().UTC()
	if err := s.sessions.Update(ctx, session); err != nil {
		return domain.Question{}, fmt.Errorf("update session: %w", err)
	}
	return question, nil
}

// OpenNext avanza la conversacion abierta. Con suficientes mensajes del
// usuario cierra la evaluacion; si no, genera la siguiente pregunta.
func (s *ChatService) OpenNext(ctx context.Context, userID, sessionID int64) (OpenStep, error) {
	session, err := s.GetSession(ctx, userID, sessionID)
	if err != nil {
		return OpenStep{}, err
	}
	if session.ChatMode != domain.ModeOpen {
		return OpenStep{}, ErrSessionMode
	}
	if session.Status == domain.SessionStatusCompleted {
		return OpenStep{}, ErrSessionClosed
	}

	userTexts, err := s.messages.ListContentsByType(ctx, sessionID, domain.MessageTypeUser)
	if err != nil {
		return OpenStep{}, fmt.Errorf("list user messages: %w", err)
	}

	if len(userTexts) >= s.openMinMessages {
		evaluation, result, err := s.complete(ctx, session)
		if err != nil {
			return OpenStep{}, err
		}
		return OpenStep{Completed: true, EvaluationID: evaluation.ID, Result: &result}, nil
	}

	question := s.followups.Next(ctx, userTexts)
	msg, err := s.messages.Create(ctx, domain.ChatMessage{
		SessionID:   sessionID,
		MessageType: domain.MessageTypeBot,
		Content:     question,
	})
	if err != nil {
		return OpenStep{}, fmt.Errorf("create bot message: %w", err)
	}
	session.ConversationStage = domain.StageQuestions
	s.touch(ctx, session)

	return OpenStep{
		BotMessage:           &msg,
		RemainingUserReplies: s.openMinMessages - len(userTexts),
	}, nil
}

// SubmitAnswer valida la respuesta contra el tipo de la pregunta y la guarda
// en la evaluacion de la sesion.
func (s *ChatService) SubmitAnswer(ctx context.Context, userID, sessionID int64, in AnswerInput) (domain.Answer, error) {
	session, err := s.GetSession(ctx, userID, sessionID)
	if err != nil {
		return domain.Answer{}, err
	}
	if session.Status == domain.SessionStatusCompleted {
		return domain.Answer{}, ErrSessionClosed
	}

	question, err := s.questions.GetByID(ctx, in.QuestionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Answer{}, fmt.Errorf("%w: unknown question %d", ErrInvalidAnswer, in.QuestionID)
		}
		return domain.Answer{}, err
	}
	value, err := BuildAnswerValue(question, in)
	if err != nil {
		return domain.Answer{}, err
	}

	evaluation, err := s.ensureEvaluation(ctx, session)
	if err != nil {
		return domain.Answer{}, err
	}
	answer, err := s.answers.Upsert(ctx, domain.Answer{
		EvaluationID: evaluation.ID,
		QuestionID:   question.ID,
		Value:        value,
		AnsweredAt:   s.now().UTC(),
	})
	if err != nil {
		return domain.Answer{}, fmt.Errorf("store answer: %w", err)
	}

	s.updateProgress(ctx, evaluation)
	s.touch(ctx, session)
	return answer, nil
}

// Complete calcula el resultado de la sesion y la da por terminada.
func (s *ChatService) Complete(ctx context.Context, userID, sessionID int64) (domain.EvaluationResult, error) {
	session, err := s.GetSession(ctx, userID, sessionID)
	if err != nil {
		return domain.EvaluationResult{}, err
	}
	_, result, err := s.complete(ctx, session)
	return result, err
}

// Results devuelve el resultado guardado de la evaluacion de la sesion.
func (s *ChatService) Results(ctx context.Context, userID, sessionID int64) (domain.EvaluationResult, error) {
	evaluation, err := s.evaluations.GetBySessionID(ctx, sessionID)
	if err != nil {
		return domain.EvaluationResult{}, notFound(err)
	}
	if evaluation.UserID != userID {
		return domain.EvaluationResult{}, ErrNotFound
	}
	return s.results.Get(ctx, evaluation.ID)
}

func (s *ChatService) complete(ctx context.Context, session domain.ChatSession) (domain.Evaluation, domain.EvaluationResult, error) {
	evaluation, err := s.ensureEvaluation(ctx, session)
	if err != nil {
		return domain.Evaluation{}, domain.EvaluationResult{}, err
	}
	result, err := s.results.ComputeAndStore(ctx, evaluation.ID)
	if err != nil {
		return domain.Evaluation{}, domain.EvaluationResult{}, fmt.Errorf("compute result: %w", err)
	}

	now := s.now().UTC()
	if err := s.evaluations.MarkCompleted(ctx, evaluation.ID, now); err != nil {
		return domain.Evaluation{}, domain.EvaluationResult{}, fmt.Errorf("complete evaluation: %w", err)
	}
	session.Status = domain.SessionStatusCompleted
	session.ConversationStage = domain.StageResults
	session.LastActivity = now
	if err := s.sessions.Update(ctx, session); err != nil {
		return domain.Evaluation{}, domain.EvaluationResult{}, fmt.Errorf("update session: %w", err)
	}

	s.logger.Info("evaluation completed",
		zap.Int64("evaluation_id", evaluation.ID),
		zap.Int64("session_id", session.ID),
		zap.String("outcome", result.Metadata.Outcome),
	)
	return evaluation, result, nil
}

func (s *ChatService) ensureEvaluation(ctx context.Context, session domain.ChatSession) (domain.Evaluation, error) {
	evaluation, err := s.evaluations.Create(ctx, domain.Evaluation{
		UserID:         session.UserID,
		SessionID:      session.ID,
		EvaluationMode: session.ChatMode,
		Status:         domain.EvaluationInProgress,
	})
	if err != nil {
		return domain.Evaluation{}, fmt.Errorf("ensure evaluation: %w", err)
	}
	return evaluation, nil
}

func (s *ChatService) updateProgress(ctx context.Context, evaluation domain.Evaluation) {
	total, err := s.questions.ListByMode(ctx, evaluation.EvaluationMode)
	if err != nil || len(total) == 0 {
		return
	}
	answered, err := s.answers.Count(ctx, evaluation.ID)
	if err != nil {
		return
	}
	progress := math.Min(1, float64(answered)/float64(len(total)))
	if err := s.evaluations.UpdateProgress(ctx, evaluation.ID, domain.RoundTo(progress, 4)); err != nil {
		s.logger.Warn("update progress failed", zap.Int64("evaluation_id", evaluation.ID), zap.Error(err))
	}
}

func (s *ChatService) touch(ctx context.Context, session domain.ChatSession) {
	session.LastActivity = s.now().UTC()
	if err := s.sessions.Update(ctx, session); err != nil {
		s.logger.Warn("touch session failed", zap.Int64("session_id", session.ID), zap.Error(err))
	}
}

// BuildAnswerValue arma la union etiquetada a partir de la entrada del
// cliente y la valida contra la pregunta.
func BuildAnswerValue(q domain.Question, in AnswerInput) (domain.AnswerValue, error) {
	text := strings.TrimSpace(in.Text)

	switch q.QuestionType {
	case domain.QuestionTypeScale:
		var (
			v  float64
			ok bool
		)
		switch {
		case in.Value != nil:
			v, ok = *in.Value, true
		case len(in.Selected) == 1:
			v, ok = float64(in.Selected[0]), true
		case text != "":
			v, ok = domain.CoerceFloat(text)
		}
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			return domain.AnswerValue{}, fmt.Errorf("%w: scale question requires a numeric value", ErrInvalidAnswer)
		}
		lo, hi := q.ScaleRange()
		if v < float64(lo) || v > float64(hi) {
			return domain.AnswerValue{}, fmt.Errorf("%w: value %v outside %d-%d", ErrInvalidAnswer, v, lo, hi)
		}
		return domain.ScaleAnswer(v), nil

	case domain.QuestionTypeOpenText:
		if text == "" {
			return domain.AnswerValue{}, fmt.Errorf("%w: text answer is empty", ErrInvalidAnswer)
		}
		return domain.TextAnswer(text), nil

	case domain.QuestionTypeMultipleChoice:
		if len(in.Selected) == 0 && text == "" {
			return domain.AnswerValue{}, fmt.Errorf("%w: no option selected", ErrInvalidAnswer)
		}
		if limit := q.Options.MaxSelections; limit > 0 && len(in.Selected) > limit {
			return domain.AnswerValue{}, fmt.Errorf("%w: at most %d selections", ErrInvalidAnswer, limit)
		}
		seen := make(map[int]struct{}, len(in.Selected))
		for _, idx := range in.Selected {
			if len(q.Options.Choices) > 0 && (idx < 0 || idx >= len(q.Options.Choices)) {
				return domain.AnswerValue{}, fmt.Errorf("%w: option %d does not exist", ErrInvalidAnswer, idx)
			}
			if _, dup := seen[idx]; dup {
				return domain.AnswerValue{}, fmt.Errorf("%w: option %d selected twice", ErrInvalidAnswer, idx)
			}
			seen[idx] = struct{}{}
		}
		return domain.ChoiceAnswer(append([]int(nil), in.Selected...), text), nil
	}

	if text == "" {
		return domain.AnswerValue{}, fmt.Errorf("%w: unsupported question type %q", ErrInvalidAnswer, q.QuestionType)
	}
	return domain.TextAnswer(text), nil
}
