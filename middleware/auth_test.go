package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Open-Coding-Society/optivize-backend/config"
	"github.com/Open-Coding-Society/optivize-backend/services"
)

func newAuthRouter(t *testing.T) (*gin.Engine, *services.AuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	authService := services.NewAuthService(config.JWTConfig{
		Secret:      "test-secret",
		ExpiryHours: 1,
	})

	router := gin.New()
	router.GET("/protected", RequireAuth(authService), func(c *gin.Context) {
		claims := CurrentClaims(c)
		c.JSON(http.StatusOK, gin.H{"user_id": claims.UserID, "role": claims.Role})
	})
	return router, authService
}

func doGet(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRequireAuthMissingHeader(t *testing.T) {
	router, _ := newAuthRouter(t)
	if w := doGet(router, ""); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestRequireAuthNotBearer(t *testing.T) {
	router, _ := newAuthRouter(t)
	if w := doGet(router, "Basic dXNlcjpwYXNz"); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestRequireAuthInvalidToken(t *testing.T) {
	router, _ := newAuthRouter(t)
	if w := doGet(router, "Bearer garbage.token.here"); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestRequireAuthValidToken(t *testing.T) {
	router, authService := newAuthRouter(t)

	token, err := authService.GenerateToken(7, "baker@optivize.io", "admin")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	w := doGet(router, "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestCurrentClaimsUnauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if CurrentClaims(c) != nil {
		t.Error("claims should be nil without RequireAuth")
	}
}
