package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"kairos-api/internal/domain"
	"kairos-api/internal/service"
)

const requestIDHeader = "X-Request-Id"

// Handlers agrupa los handlers que monta el router.
type Handlers struct {
	User           *UserHandler
	Chat           *ChatHandler
	Recommendation *RecommendationHandler
	Student        *StudentHandler
	Evaluator      *EvaluatorHandler
	Admin          *AdminHandler
}

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(logger *zap.Logger, jwtSvc *service.JWTService, h Handlers) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: request id, logging, recovery y JSON content-type.
	r.Use(requestIDMiddleware(), zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := r.Group("/auth")
	auth.POST("/signup", h.User.Signup)
	auth.POST("/token", h.User.Token)
	auth.POST("/refresh", h.User.RefreshToken)
	auth.POST("/logout", h.User.Logout)

	r.GET("/chat/welcome", h.Chat.Welcome)

	recommend := r.Group("/recommend")
	recommend.POST("/test", h.Recommendation.ByTest)
	recommend.POST("/chat", h.Recommendation.ByChat)

	authed := r.Group("")
	authed.Use(JWTAuthMiddleware(jwtSvc))

	chat := authed.Group("/chat", RequireRole(domain.RoleStudent))
	chat.POST("/sessions", h.Chat.CreateSession)
	chat.GET("/sessions", h.Chat.ListSessions)
	chat.GET("/sessions/:id", h.Chat.GetSession)
	chat.DELETE("/sessions/:id", h.Chat.DeleteSession)
	chat.POST("/messages", h.Chat.PostMessage)
	chat.GET("/sessions/:id/messages", h.Chat.ListMessages)
	chat.GET("/sessions/:id/next-question", h.Chat.NextQuestion)
	chat.POST("/sessions/:id/open-next", h.Chat.OpenNext)
	chat.POST("/sessions/:id/answers", h.Chat.SubmitAnswer)
	chat.POST("/sessions/:id/complete", h.Chat.Complete)
	chat.GET("/sessions/:id/results", h.Chat.Results)

	students := authed.Group("/students", RequireRole(domain.RoleStudent))
	students.GET("/me", h.User.Me)
	students.PUT("/me", h.User.UpdateMe)
	students.GET("/me/evaluations", h.Student.Evaluations)
	students.GET("/evaluations/:id/results", h.Student.Result)
	students.POST("/evaluations/:id/feedback", h.Student.AddFeedback)
	students.GET("/evaluations/:id/feedback", h.Student.Feedback)

	evaluator := authed.Group("/evaluator", RequireRole(domain.RoleEvaluator))
	evaluator.GET("/assignments", h.Evaluator.Assignments)
	evaluator.GET("/students/:id/evaluations", h.Evaluator.StudentEvaluations)
	evaluator.GET("/evaluations/:id/results", h.Evaluator.Result)
	evaluator.POST("/evaluations/:id/comments", h.Evaluator.AddComment)
	evaluator.GET("/evaluations/:id/comments", h.Evaluator.Comments)

	admin := authed.Group("/admin", RequireRole(domain.RoleAdmin))
	admin.GET("/users", h.Admin.ListUsers)
	admin.POST("/users", h.Admin.CreateUser)
	admin.PUT("/users/:id", h.Admin.UpdateUser)
	admin.DELETE("/users/:id", h.Admin.DeleteUser)
	admin.POST("/assignments", h.Admin.CreateAssignment)
	admin.GET("/assignments", h.Admin.ListAssignments)
	admin.DELETE("/assignments/:id", h.Admin.DeleteAssignment)
	admin.GET("/careers", h.Admin.Careers)
	admin.POST("/careers/nearest", h.Admin.NearestCareers)

	return r
}

// NewHandler envuelve el router con CORS. Sin origenes configurados se
// aceptan todos.
func NewHandler(router http.Handler, origins []string) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", requestIDHeader},
		ExposedHeaders:   []string{requestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	})(router)
}

// requestIDMiddleware propaga X-Request-Id o genera uno nuevo.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", c.GetString("request_id")),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
