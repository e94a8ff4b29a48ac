package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"kairos-api/internal/service"
)

// ChatHandler mantiene dependencias para endpoints de sesiones y mensajes.
type ChatHandler struct {
	logger   *zap.Logger
	chatServ *service.ChatService
}

// NewChatHandler crea una instancia de ChatHandler con dependencias necesarias.
func NewChatHandler(logger *zap.Logger, chatServ *service.ChatService) *ChatHandler {
	return &ChatHandler{
		logger:   logger,
		chatServ: chatServ,
	}
}

// Welcome maneja GET /chat/welcome.
func (h *ChatHandler) Welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": service.WelcomeMessage})
}

// CreateSession maneja POST /chat/sessions.
func (h *ChatHandler) CreateSession(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req struct {
		ChatMode string `json:"chat_mode" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create session request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	session, err := h.chatServ.CreateSession(c.Request.Context(), userID, req.ChatMode)
	if err != nil {
		respondError(c, h.logger, err, "could not create session")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session": session})
}

// ListSessions maneja GET /chat/sessions.
func (h *ChatHandler) ListSessions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	sessions, err := h.chatServ.ListSessions(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err, "could not list sessions")
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

// GetSession maneja GET /chat/sessions/:id.
func (h *ChatHandler) GetSession(c *gin.Context) {
	userID, sessionID, ok := h.sessionRef(c)
	if !ok {
		return
	}
	session, err := h.chatServ.GetSession(c.Request.Context(), userID, sessionID)
	if err != nil {
		respondError(c, h.logger, err, "could not load session")
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// DeleteSession maneja DELETE /chat/sessions/:id.
func (h *ChatHandler) DeleteSession(c *gin.Context) {
	userID, sessionID, ok := h.sessionRef(c)
	if !ok {
		return
	}
	if err := h.chatServ.DeleteSession(c.Request.Context(), userID, sessionID); err != nil {
		respondError(c, h.logger, err, "could not delete session")
		return
	}
	c.Status(http.StatusNoContent)
}

// PostMessage maneja POST /chat/messages.
func (h *ChatHandler) PostMessage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req struct {
		SessionID   int64  `json:"session_id" binding:"required"`
		MessageType string `json:"message_type"`
		Content     string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid post message request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	msg, err := h.chatServ.PostMessage(c.Request.Context(), userID, req.SessionID, req.MessageType, req.Content)
	if err != nil {
		respondError(c, h.logger, err, "could not post message")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

// ListMessages maneja GET /chat/sessions/:id/messages.
func (h *ChatHandler) ListMessages(c *gin.Context) {
	userID, sessionID, ok := h.sessionRef(c)
	if !ok {
		return
	}
	msgs, err := h.chatServ.ListMessages(c.Request.Context(), userID, sessionID)
	if err != nil {
		respondError(c, h.logger, err, "could not list messages")
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// NextQuestion maneja GET /chat/sessions/:id/next-question.
func (h *ChatHandler) NextQuestion(c *gin.Context) {
	userID, sessionID, ok := h.sessionRef(c)
	if !ok {
		return
	}
	q, err := h.chatServ.NextQuestion(c.Request.Context(), userID, sessionID)
	if err != nil {
		respondError(c, h.logger, err, "could not load next question")
		return
	}
	c.JSON(http.StatusOK, gin.H{"question": q})
}

// OpenNext maneja POST /chat/sessions/:id/open/next.
func (h *ChatHandler) OpenNext(c *gin.Context) {
	userID, sessionID, ok := h.sessionRef(c)
	if !ok {
		return
	}
	step, err := h.chatServ.OpenNext(c.Request.Context(), userID, sessionID)
	if err != nil {
		respondError(c, h.logger, err, "could not continue conversation")
		return
	}
	c.JSON(http.StatusOK, step)
}

// SubmitAnswer maneja POST /chat/sessions/:id/answers.
func (h *ChatHandler) SubmitAnswer(c *gin.Context) {
	userID, sessionID, ok := h.sessionRef(c)
	if !ok {
		return
	}
	var req struct {
		QuestionID      int64    `json:"question_id" binding:"required"`
		Value           *float64 `json:"value"`
		AnswerText      string   `json:"answer_text"`
		SelectedOptions []int    `json:"selected_options"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid answer request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	answer, err := h.chatServ.SubmitAnswer(c.Request.Context(), userID, sessionID, service.AnswerInput{
		QuestionID: req.QuestionID,
		Value:      req.Value,
		Text:       req.AnswerText,
		Selected:   req.SelectedOptions,
	})
	if err != nil {
		respondError(c, h.logger, err, "could not store answer")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"answer": answer})
}

// Complete maneja POST /chat/sessions/:id/complete.
func (h *ChatHandler) Complete(c *gin.Context) {
	userID, sessionID, ok := h.sessionRef(c)
	if !ok {
		return
	}
	result, err := h.chatServ.Complete(c.Request.Context(), userID, sessionID)
	if err != nil {
		respondError(c, h.logger, err, "could not complete evaluation")
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}

// Results maneja GET /chat/sessions/:id/results.
func (h *ChatHandler) Results(c *gin.Context) {
	userID, sessionID, ok := h.sessionRef(c)
	if !ok {
		return
	}
	result, err := h.chatServ.Results(c.Request.Context(), userID, sessionID)
	if err != nil {
		respondError(c, h.logger, err, "could not load results")
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}

func (h *ChatHandler) sessionRef(c *gin.Context) (int64, int64, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		return 0, 0, false
	}
	sessionID, ok := idParam(c, "id")
	if !ok {
		return 0, 0, false
	}
	return userID, sessionID, true
}
