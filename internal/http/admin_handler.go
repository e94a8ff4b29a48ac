package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"kairos-api/internal/service"
)

// AdminHandler agrupa la gestion de usuarios, asignaciones y catalogo.
type AdminHandler struct {
	logger        *zap.Logger
	userServ      *service.UserService
	evaluatorServ *service.EvaluatorService
	catalogServ   *service.CatalogService
}

func NewAdminHandler(logger *zap.Logger, userServ *service.UserService, evaluatorServ *service.EvaluatorService, catalogServ *service.CatalogService) *AdminHandler {
	return &AdminHandler{
		logger:        logger,
		userServ:      userServ,
		evaluatorServ: evaluatorServ,
		catalogServ:   catalogServ,
	}
}

// ListUsers maneja GET /admin/users?role=.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.userServ.List(c.Request.Context(), c.Query("role"))
	if err != nil {
		respondError(c, h.logger, err, "could not list users")
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// CreateUser maneja POST /admin/users.
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req struct {
		FullName               string `json:"full_name" binding:"required"`
		Email                  string `json:"email" binding:"required,email"`
		Password               string `json:"password" binding:"required,min=8"`
		EducationalInstitution string `json:"educational_institution"`
		Role                   string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	user, err := h.userServ.CreateUser(c.Request.Context(), service.CreateUserInput{
		FullName:               req.FullName,
		Email:                  req.Email,
		Password:               req.Password,
		EducationalInstitution: req.EducationalInstitution,
		Role:                   req.Role,
	})
	if err != nil {
		respondError(c, h.logger, err, "could not create user")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// UpdateUser maneja PUT /admin/users/:id.
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	userID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		FullName               *string `json:"full_name"`
		Email                  *string `json:"email"`
		Password               *string `json:"password"`
		EducationalInstitution *string `json:"educational_institution"`
		Role                   *string `json:"role"`
		IsActive               *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	user, err := h.userServ.UpdateUser(c.Request.Context(), userID, service.UpdateUserInput{
		FullName:               req.FullName,
		Email:                  req.Email,
		Password:               req.Password,
		EducationalInstitution: req.EducationalInstitution,
		Role:                   req.Role,
		IsActive:               req.IsActive,
	})
	if err != nil {
		respondError(c, h.logger, err, "could not update user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// DeleteUser maneja DELETE /admin/users/:id. Un admin no puede borrarse a
// si mismo.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	adminID, ok := currentUserID(c)
	if !ok {
		return
	}
	userID, ok := idParam(c, "id")
	if !ok {
		return
	}
	if userID == adminID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot delete own account"})
		return
	}
	if err := h.userServ.Delete(c.Request.Context(), userID); err != nil {
		respondError(c, h.logger, err, "could not delete user")
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateAssignment maneja POST /admin/assignments.
func (h *AdminHandler) CreateAssignment(c *gin.Context) {
	var req struct {
		EvaluatorID int64 `json:"evaluator_id" binding:"required"`
		StudentID   int64 `json:"student_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	a, err := h.evaluatorServ.Assign(c.Request.Context(), req.EvaluatorID, req.StudentID)
	if err != nil {
		respondError(c, h.logger, err, "could not create assignment")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"assignment": a})
}

// ListAssignments maneja GET /admin/assignments?status=.
func (h *AdminHandler) ListAssignments(c *gin.Context) {
	items, err := h.evaluatorServ.Assignments(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondError(c, h.logger, err, "could not list assignments")
		return
	}
	c.JSON(http.StatusOK, gin.H{"assignments": items})
}

// DeleteAssignment maneja DELETE /admin/assignments/:id.
func (h *AdminHandler) DeleteAssignment(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.evaluatorServ.Unassign(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err, "could not delete assignment")
		return
	}
	c.Status(http.StatusNoContent)
}

// Careers maneja GET /admin/careers con el catalogo cargado en el motor.
func (h *AdminHandler) Careers(c *gin.Context) {
	careers := h.catalogServ.List()
	c.JSON(http.StatusOK, gin.H{"careers": careers, "count": len(careers)})
}

// NearestCareers maneja POST /admin/careers/nearest?k=: consulta pgvector
// con un perfil 1-5.
func (h *AdminHandler) NearestCareers(c *gin.Context) {
	var req riasecScoresRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	k, _ := strconv.Atoi(c.DefaultQuery("k", "3"))
	matches, err := h.catalogServ.Nearest(c.Request.Context(), req.profile(), k)
	if err != nil {
		respondError(c, h.logger, err, "could not query careers")
		return
	}
	c.JSON(http.StatusOK, gin.H{"careers": matches})
}
