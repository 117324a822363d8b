package handler

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/CodeSphere/api-service/internal/model"
	"github.com/CodeSphere/api-service/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWebhookSecret = "whsec_MfKQ9r8GKYqrTwjUPD8ILPZIo2LaLaSw"

type fakeUserCacheService struct {
	service.UserCache
	upserted []model.CachedUser
	deleted  []string
}

func (f *fakeUserCacheService) Upsert(ctx context.Context, user model.CachedUser) (*model.CachedUser, error) {
	f.upserted = append(f.upserted, user)
	user.ID = uuid.New()
	return &user, nil
}

func (f *fakeUserCacheService) DeleteByExternalID(ctx context.Context, externalID string) error {
	f.deleted = append(f.deleted, externalID)
	return nil
}

func newWebhookFixture(t *testing.T) (*gin.Engine, *fakeUserCacheService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	viper.Set("client.origin", "http://localhost:3000")

	users := &fakeUserCacheService{}
	h := New(&service.Service{UserCache: users}, []byte("test-secret"), testWebhookSecret)
	return h.InitRoutes(), users
}

// signPayload produces the three delivery headers the provider sends:
// an HMAC-SHA256 over "<id>.<timestamp>.<payload>" keyed with the
// base64-decoded portion of the signing secret.
func signPayload(t *testing.T, payload []byte, ts time.Time) http.Header {
	t.Helper()

	key, err := base64.StdEncoding.DecodeString(testWebhookSecret[len("whsec_"):])
	require.NoError(t, err)

	msgID := "msg_" + uuid.NewString()
	timestamp := fmt.Sprintf("%d", ts.Unix())

	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(msgID + "." + timestamp + "." + string(payload)))
	signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	header := http.Header{}
	header.Set("svix-id", msgID)
	header.Set("svix-timestamp", timestamp)
	header.Set("svix-signature", "v1,"+signature)
	return header
}

func postWebhook(r *gin.Engine, payload []byte, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks", bytes.NewReader(payload))
	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestWebhooksReceive_UserCreated(t *testing.T) {
	r, users := newWebhookFixture(t)

	payload := []byte(`{"type":"user.created","data":{"id":"ext_123","username":"gopher","first_name":"Ada","last_name":"Lovelace"}}`)
	w := postWebhook(r, payload, signPayload(t, payload, time.Now()))

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, users.upserted, 1)
	assert.Equal(t, "ext_123", users.upserted[0].ExternalID)
	assert.Equal(t, "gopher", users.upserted[0].Username)
	require.NotNil(t, users.upserted[0].DisplayName)
	assert.Equal(t, "Ada Lovelace", *users.upserted[0].DisplayName)
}

func TestWebhooksReceive_UserDeleted(t *testing.T) {
	r, users := newWebhookFixture(t)

	payload := []byte(`{"type":"user.deleted","data":{"id":"ext_123"}}`)
	w := postWebhook(r, payload, signPayload(t, payload, time.Now()))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"ext_123"}, users.deleted)
}

func TestWebhooksReceive_UnhandledTypeAcknowledged(t *testing.T) {
	r, users := newWebhookFixture(t)

	payload := []byte(`{"type":"session.created","data":{"id":"sess_1"}}`)
	w := postWebhook(r, payload, signPayload(t, payload, time.Now()))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, users.upserted)
	assert.Empty(t, users.deleted)
}

func TestWebhooksReceive_BadSignature(t *testing.T) {
	r, users := newWebhookFixture(t)

	payload := []byte(`{"type":"user.created","data":{"id":"ext_123","username":"gopher"}}`)
	header := signPayload(t, payload, time.Now())
	header.Set("svix-signature", "v1,AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA=")

	w := postWebhook(r, payload, header)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, users.upserted)
}

func TestWebhooksReceive_TamperedPayload(t *testing.T) {
	r, users := newWebhookFixture(t)

	payload := []byte(`{"type":"user.created","data":{"id":"ext_123","username":"gopher"}}`)
	header := signPayload(t, payload, time.Now())

	tampered := []byte(`{"type":"user.created","data":{"id":"ext_evil","username":"gopher"}}`)
	w := postWebhook(r, tampered, header)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, users.upserted)
}

func TestWebhooksReceive_MissingHeaders(t *testing.T) {
	r, users := newWebhookFixture(t)

	payload := []byte(`{"type":"user.created","data":{"id":"ext_123","username":"gopher"}}`)
	w := postWebhook(r, payload, http.Header{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, users.upserted)
}

func TestWebhooksReceive_StaleTimestamp(t *testing.T) {
	r, users := newWebhookFixture(t)

	payload := []byte(`{"type":"user.created","data":{"id":"ext_123","username":"gopher"}}`)
	w := postWebhook(r, payload, signPayload(t, payload, time.Now().Add(-time.Hour)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, users.upserted)
}
