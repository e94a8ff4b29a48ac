package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"kairos-api/internal/domain"
	"kairos-api/internal/service"
)

// RecommendationHandler expone la recomendacion directa, sin sesion.
type RecommendationHandler struct {
	logger  *zap.Logger
	recServ *service.RecommendationService
}

func NewRecommendationHandler(logger *zap.Logger, recServ *service.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{logger: logger, recServ: recServ}
}

type riasecScoresRequest struct {
	R *float64 `json:"R" binding:"required"`
	I *float64 `json:"I" binding:"required"`
	A *float64 `json:"A" binding:"required"`
	S *float64 `json:"S" binding:"required"`
	E *float64 `json:"E" binding:"required"`
	C *float64 `json:"C" binding:"required"`
}

func (r riasecScoresRequest) profile() domain.Profile {
	return domain.Profile{*r.R, *r.I, *r.A, *r.S, *r.E, *r.C}
}

// ByTest maneja POST /recommend/test con puntajes 1-5 por dimension.
func (h *RecommendationHandler) ByTest(c *gin.Context) {
	var req riasecScoresRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	rec, err := h.recServ.FromScores(req.profile())
	if err != nil {
		respondError(c, h.logger, err, "could not recommend careers")
		return
	}
	c.JSON(http.StatusOK, rec)
}

// ByChat maneja POST /recommend/chat con el texto libre de la conversacion.
func (h *RecommendationHandler) ByChat(c *gin.Context) {
	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	rec, err := h.recServ.FromText(req.Text)
	if err != nil {
		respondError(c, h.logger, err, "could not recommend careers")
		return
	}
	c.JSON(http.StatusOK, rec)
}
