package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"user_api/internal/model"
	"user_api/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtectedRouter(jwtUtil *utils.JWTUtil) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", JWTAuthMiddleware(jwtUtil), func(c *gin.Context) {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": claims.UserID, "email": claims.Email, "role": claims.Role})
	})
	return r
}

func doGet(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestJWTAuthMiddleware_RawToken(t *testing.T) {
	jwtUtil := utils.NewJWTUtil("secret", time.Hour)
	token, err := jwtUtil.GenerateToken(&model.User{ID: 3, Email: "a@x.com", Role: "user"})
	require.NoError(t, err)

	rec := doGet(newProtectedRouter(jwtUtil), token)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":3,"email":"a@x.com","role":"user"}`, rec.Body.String())
}

func TestJWTAuthMiddleware_BearerPrefixTolerated(t *testing.T) {
	jwtUtil := utils.NewJWTUtil("secret", time.Hour)
	token, _ := jwtUtil.GenerateToken(&model.User{ID: 3})

	rec := doGet(newProtectedRouter(jwtUtil), "Bearer "+token)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAuthMiddleware_Missing(t *testing.T) {
	rec := doGet(newProtectedRouter(utils.NewJWTUtil("secret", time.Hour)), "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Access denied. Token missing.", errorBody(t, rec))
}

func TestJWTAuthMiddleware_Invalid(t *testing.T) {
	rec := doGet(newProtectedRouter(utils.NewJWTUtil("secret", time.Hour)), "not-a-token")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid token.", errorBody(t, rec))
}

func TestJWTAuthMiddleware_Expired(t *testing.T) {
	expired := utils.NewJWTUtil("secret", -time.Minute)
	token, _ := expired.GenerateToken(&model.User{ID: 3})

	rec := doGet(newProtectedRouter(utils.NewJWTUtil("secret", time.Hour)), token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid token.", errorBody(t, rec))
}

func TestRequestIDAndLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	r := gin.New()
	r.Use(RequestID(), RequestLogger(log))
	r.GET("/users/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	// generated id
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/1", nil))
	generated := rec.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "/users/:id", entry["route"])
	assert.Equal(t, float64(http.StatusNoContent), entry["status"])
	assert.Equal(t, generated, entry["request_id"])

	// propagated id
	req := httptest.NewRequest(http.MethodGet, "/users/1", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}
