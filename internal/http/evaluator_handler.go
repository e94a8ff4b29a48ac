package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"kairos-api/internal/service"
)

// EvaluatorHandler expone las vistas del evaluador sobre sus estudiantes.
type EvaluatorHandler struct {
	logger        *zap.Logger
	evaluatorServ *service.EvaluatorService
}

func NewEvaluatorHandler(logger *zap.Logger, evaluatorServ *service.EvaluatorService) *EvaluatorHandler {
	return &EvaluatorHandler{logger: logger, evaluatorServ: evaluatorServ}
}

// Assignments maneja GET /evaluator/assignments.
func (h *EvaluatorHandler) Assignments(c *gin.Context) {
	evaluatorID, ok := currentUserID(c)
	if !ok {
		return
	}
	students, err := h.evaluatorServ.AssignedStudents(c.Request.Context(), evaluatorID)
	if err != nil {
		respondError(c, h.logger, err, "could not list assignments")
		return
	}
	c.JSON(http.StatusOK, gin.H{"students": students})
}

// StudentEvaluations maneja GET /evaluator/students/:id/evaluations.
func (h *EvaluatorHandler) StudentEvaluations(c *gin.Context) {
	evaluatorID, ok := currentUserID(c)
	if !ok {
		return
	}
	studentID, ok := idParam(c, "id")
	if !ok {
		return
	}
	evals, err := h.evaluatorServ.StudentEvaluations(c.Request.Context(), evaluatorID, studentID)
	if err != nil {
		respondError(c, h.logger, err, "could not list evaluations")
		return
	}
	c.JSON(http.StatusOK, gin.H{"evaluations": evals})
}

// Result maneja GET /evaluator/evaluations/:id/results.
func (h *EvaluatorHandler) Result(c *gin.Context) {
	evaluatorID, ok := currentUserID(c)
	if !ok {
		return
	}
	evaluationID, ok := idParam(c, "id")
	if !ok {
		return
	}
	result, err := h.evaluatorServ.Result(c.Request.Context(), evaluatorID, evaluationID)
	if err != nil {
		respondError(c, h.logger, err, "could not load results")
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}

// AddComment maneja POST /evaluator/evaluations/:id/comments.
func (h *EvaluatorHandler) AddComment(c *gin.Context) {
	evaluatorID, ok := currentUserID(c)
	if !ok {
		return
	}
	evaluationID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		CommentText string `json:"comment_text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	comment, err := h.evaluatorServ.AddComment(c.Request.Context(), evaluatorID, evaluationID, req.CommentText)
	if err != nil {
		respondError(c, h.logger, err, "could not store comment")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

// Comments maneja GET /evaluator/evaluations/:id/comments.
func (h *EvaluatorHandler) Comments(c *gin.Context) {
	evaluatorID, ok := currentUserID(c)
	if !ok {
		return
	}
	evaluationID, ok := idParam(c, "id")
	if !ok {
		return
	}
	comments, err := h.evaluatorServ.Comments(c.Request.Context(), evaluatorID, evaluationID)
	if err != nil {
		respondError(c, h.logger, err, "could not list comments")
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}
