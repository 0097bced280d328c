package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/smmpanel/backend/internal/infrastructure/auth"
)

func issueToken(t *testing.T, jwtService *auth.JWTService, role string) string {
	t.Helper()
	pair, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID: uuid.New(),
		Email:  "user@example.com",
		Role:   role,
	})
	if err != nil {
		t.Fatalf("generate token pair: %v", err)
	}
	return pair.AccessToken
}

func TestRequireAdmin_AllowsAdmin(t *testing.T) {
	jwtService := newTestJWTService()
	token := issueToken(t, jwtService, "admin")

	router := gin.New()
	router.Use(JWTAuthMiddleware(jwtService))
	router.GET("/admin", RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAdmin_RejectsUser(t *testing.T) {
	jwtService := newTestJWTService()
	token := issueToken(t, jwtService, "user")

	router := gin.New()
	router.Use(JWTAuthMiddleware(jwtService))
	router.GET("/admin", RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_FORBIDDEN")
}

func TestRequireRole_NoClaims(t *testing.T) {
	router := gin.New()
	router.GET("/admin", RequireRole("admin"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRole_MultipleRoles(t *testing.T) {
	jwtService := newTestJWTService()
	token := issueToken(t, jwtService, "user")

	router := gin.New()
	router.Use(JWTAuthMiddleware(jwtService))
	router.GET("/any", RequireRole("admin", "user"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/any", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHasRole(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.False(t, HasRole(c, "admin"))

	c.Set(JWTClaimsKey, &auth.Claims{UserID: uuid.New().String(), Role: "admin"})
	assert.True(t, HasRole(c, "admin"))
	assert.False(t, HasRole(c, "user"))
}
