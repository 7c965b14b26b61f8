package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"bsu_chat_server/pkg/util/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	jwt.Init("test-secret", 10)
	r := gin.New()
	r.GET("/user", JWTAuth(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(CtxSubjectID))
	})
	r.GET("/admin", JWTAuth(), AdminAuth(), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/super", JWTAuth(), SuperAdminAuth(), func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func do(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	r := newEngine()

	assert.Equal(t, http.StatusUnauthorized, do(r, "/user", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/user", "garbage").Code)

	token, err := jwt.GenerateAccessToken("42", jwt.RoleUser)
	require.NoError(t, err)
	w := do(r, "/user", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "42", w.Body.String())
}

func TestRoleChecks(t *testing.T) {
	r := newEngine()

	user, _ := jwt.GenerateAccessToken("1", jwt.RoleUser)
	admin, _ := jwt.GenerateAccessToken("2", jwt.RoleAdmin)
	super, _ := jwt.GenerateAccessToken("super", jwt.RoleSuperAdmin)

	assert.Equal(t, http.StatusForbidden, do(r, "/admin", user).Code)
	assert.Equal(t, http.StatusOK, do(r, "/admin", admin).Code)
	assert.Equal(t, http.StatusOK, do(r, "/admin", super).Code)
	assert.Equal(t, http.StatusForbidden, do(r, "/super", admin).Code)
	assert.Equal(t, http.StatusOK, do(r, "/super", super).Code)
}

func TestSecureHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SecureHeaders("localhost", 3000, false, false))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}
