package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/CodeSphere/api-service/internal/model"
	"github.com/CodeSphere/api-service/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAccessSecret = []byte("test-secret")

type authTestUserCache struct {
	service.UserCache
	users map[string]*model.CachedUser
}

func (f *authTestUserCache) FindByExternalID(ctx context.Context, externalID string) (*model.CachedUser, error) {
	user, ok := f.users[externalID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func (f *authTestUserCache) IsProfileComplete(ctx context.Context, userID uuid.UUID) (bool, error) {
	return true, nil
}

func signToken(t *testing.T, sub string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(testAccessSecret)
	require.NoError(t, err)
	return signed
}

func newAuthFixture(t *testing.T) (*gin.Engine, *model.CachedUser) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	viper.Set("client.origin", "http://localhost:3000")

	user := &model.CachedUser{ID: uuid.New(), ExternalID: "ext_123", Username: "gopher"}
	users := &authTestUserCache{users: map[string]*model.CachedUser{user.ExternalID: user}}

	h := New(&service.Service{UserCache: users}, testAccessSecret, testWebhookSecret)
	return h.InitRoutes(), user
}

func getProtected(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me/profile-complete", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	r, user := newAuthFixture(t)

	w := getProtected(r, "Bearer "+signToken(t, user.ExternalID))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	r, _ := newAuthFixture(t)

	w := getProtected(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	r, user := newAuthFixture(t)

	w := getProtected(r, signToken(t, user.ExternalID)) // no Bearer prefix
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_BadSignature(t *testing.T) {
	r, user := newAuthFixture(t)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": user.ExternalID,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("wrong-secret"))
	require.NoError(t, err)

	w := getProtected(r, "Bearer "+signed)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_UnknownLocalUser(t *testing.T) {
	r, _ := newAuthFixture(t)

	// valid session, but the external id has no local record yet
	w := getProtected(r, "Bearer "+signToken(t, "ext_unknown"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	r, user := newAuthFixture(t)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": user.ExternalID,
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := token.SignedString(testAccessSecret)
	require.NoError(t, err)

	w := getProtected(r, "Bearer "+signed)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
