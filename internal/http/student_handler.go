package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"kairos-api/internal/service"
)

// StudentHandler expone las evaluaciones propias del estudiante.
type StudentHandler struct {
	logger      *zap.Logger
	studentServ *service.StudentService
}

func NewStudentHandler(logger *zap.Logger, studentServ *service.StudentService) *StudentHandler {
	return &StudentHandler{logger: logger, studentServ: studentServ}
}

// Evaluations maneja GET /students/me/evaluations.
func (h *StudentHandler) Evaluations(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	evals, err := h.studentServ.Evaluations(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err, "could not list evaluations")
		return
	}
	c.JSON(http.StatusOK, gin.H{"evaluations": evals})
}

// Result maneja GET /students/evaluations/:id/results.
func (h *StudentHandler) Result(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	evaluationID, ok := idParam(c, "id")
	if !ok {
		return
	}
	result, err := h.studentServ.Result(c.Request.Context(), userID, evaluationID)
	if err != nil {
		respondError(c, h.logger, err, "could not load results")
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}

// AddFeedback maneja POST /students/evaluations/:id/feedback.
func (h *StudentHandler) AddFeedback(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	evaluationID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Rating  int    `json:"rating" binding:"required"`
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	fb, err := h.studentServ.AddFeedback(c.Request.Context(), userID, evaluationID, req.Rating, req.Comment)
	if err != nil {
		respondError(c, h.logger, err, "could not store feedback")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"feedback": fb})
}

// Feedback maneja GET /students/evaluations/:id/feedback.
func (h *StudentHandler) Feedback(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	evaluationID, ok := idParam(c, "id")
	if !ok {
		return
	}
	items, err := h.studentServ.Feedback(c.Request.Context(), userID, evaluationID)
	if err != nil {
		respondError(c, h.logger, err, "could not list feedback")
		return
	}
	c.JSON(http.StatusOK, gin.H{"feedback": items})
}
