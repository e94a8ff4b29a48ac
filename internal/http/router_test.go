package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"kairos-api/internal/domain"
	"kairos-api/internal/scoring"
	"kairos-api/internal/service"
)

type routerFixture struct {
	repo    *mockUserRepo
	jwt     *service.JWTService
	handler http.Handler
}

func newRouterFixture(t *testing.T) routerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	repo := newMockUserRepo()
	jwtSvc := newTestJWT()
	userSvc := service.NewUserService(logger, repo, service.NewMemoryLoginRateLimiter(time.Minute, 10))
	engine := scoring.NewEngine(testCatalog(), nil)

	r := NewRouter(logger, jwtSvc, Handlers{
		User:           NewUserHandler(logger, userSvc, jwtSvc),
		Chat:           NewChatHandler(logger, nil),
		Recommendation: NewRecommendationHandler(logger, service.NewRecommendationService(engine)),
		Student:        NewStudentHandler(logger, nil),
		Evaluator:      NewEvaluatorHandler(logger, nil),
		Admin:          NewAdminHandler(logger, userSvc, nil, service.NewCatalogService(engine, nil)),
	})
	return routerFixture{repo: repo, jwt: jwtSvc, handler: NewHandler(r, []string{"https://app.example.com"})}
}

func (f routerFixture) tokenFor(t *testing.T, role string) (domain.User, string) {
	t.Helper()
	user, err := f.repo.Create(context.Background(), domain.User{
		FullName: role,
		Email:    role + "@example.com",
		Role:     role,
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user, accessTokenFor(t, f.jwt, user)
}

func TestRouterHealthAndRequestID(t *testing.T) {
	f := newRouterFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected generated request id")
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	if got := rec.Header().Get(requestIDHeader); got != "abc-123" {
		t.Fatalf("expected propagated request id, got %q", got)
	}
}

func TestRouterCORSPreflight(t *testing.T) {
	f := newRouterFixture(t)

	req := httptest.NewRequest(http.MethodOptions, "/recommend/test", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Fatalf("expected allowed origin, got %q", got)
	}
}

func TestRouterRoleGroups(t *testing.T) {
	f := newRouterFixture(t)
	_, studentToken := f.tokenFor(t, domain.RoleStudent)
	_, evaluatorToken := f.tokenFor(t, domain.RoleEvaluator)

	tests := []struct {
		name  string
		path  string
		token string
		want  int
	}{
		{name: "admin without token", path: "/admin/users", want: http.StatusUnauthorized},
		{name: "admin as student", path: "/admin/users", token: studentToken, want: http.StatusForbidden},
		{name: "evaluator as student", path: "/evaluator/assignments", token: studentToken, want: http.StatusForbidden},
		{name: "chat as evaluator", path: "/chat/sessions", token: evaluatorToken, want: http.StatusForbidden},
		{name: "students me", path: "/students/me", token: studentToken, want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(f.handler, http.MethodGet, tt.path, nil, tt.token)
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestAdminCannotDeleteSelf(t *testing.T) {
	f := newRouterFixture(t)
	admin, token := f.tokenFor(t, domain.RoleAdmin)
	other, _ := f.tokenFor(t, domain.RoleStudent)

	rec := doJSON(f.handler, http.MethodDelete, "/admin/users/"+itoa(admin.ID), nil, token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	rec = doJSON(f.handler, http.MethodDelete, "/admin/users/"+itoa(other.ID), nil, token)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	rec = doJSON(f.handler, http.MethodDelete, "/admin/users/"+itoa(other.ID), nil, token)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", rec.Code)
	}
}

func TestAdminCareers(t *testing.T) {
	f := newRouterFixture(t)
	_, token := f.tokenFor(t, domain.RoleAdmin)

	rec := doJSON(f.handler, http.MethodGet, "/admin/careers", nil, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	// Sin repositorio pgvector la consulta de vecinos no esta disponible.
	rec = doJSON(f.handler, http.MethodPost, "/admin/careers/nearest", map[string]any{
		"R": 5, "I": 3, "A": 1, "S": 1, "E": 1, "C": 1,
	}, token)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
