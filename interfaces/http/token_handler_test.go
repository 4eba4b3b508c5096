package http_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"social-relay/domain/dto"
	"social-relay/domain/model"
	"social-relay/domain/repository"
	"social-relay/infrastructure/cache"
	httpHandler "social-relay/interfaces/http"
	"social-relay/usecase"
)

// stubProvider answers exchange and publish calls with canned data.
type stubProvider struct {
	platform      model.Platform
	tokenData     *model.TokenData
	exchangeErr   error
	publishRes    json.RawMessage
	publishErr    error
	exchangeCalls int
	publishCalls  int
}

func (s *stubProvider) Platform() model.Platform { return s.platform }

func (s *stubProvider) AuthURL(state string) string {
	return "https://provider.example/authorize?state=" + state
}

func (s *stubProvider) ExchangeToken(_ context.Context, _ dto.ExchangeParams) (*model.TokenData, error) {
	s.exchangeCalls++
	if s.exchangeErr != nil {
		return nil, s.exchangeErr
	}
	return s.tokenData, nil
}

func (s *stubProvider) Publish(_ context.Context, _ string, _ dto.PublishContent) (json.RawMessage, error) {
	s.publishCalls++
	if s.publishErr != nil {
		return nil, s.publishErr
	}
	return s.publishRes, nil
}

// memCredRepo records upserts in memory.
type memCredRepo struct {
	creds map[string]*model.Credential
	err   error
}

func newMemCredRepo() *memCredRepo {
	return &memCredRepo{creds: map[string]*model.Credential{}}
}

func (r *memCredRepo) Upsert(_ context.Context, cred *model.Credential) error {
	if r.err != nil {
		return r.err
	}
	r.creds[cred.UserID+"/"+string(cred.Platform)] = cred
	return nil
}

func (r *memCredRepo) GetCredential(_ context.Context, userID string, platform model.Platform) (*model.Credential, error) {
	if r.err != nil {
		return nil, r.err
	}
	cred, ok := r.creds[userID+"/"+string(platform)]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return cred, nil
}

func newTokenRouter(provider repository.IProvider, credRepo repository.ICredential, stateStore cache.IStateStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	exchangeUC := usecase.NewExchangeUsecase([]repository.IProvider{provider}, credRepo, nil)
	handler := httpHandler.NewTokenHandler(exchangeUC, stateStore)
	router := gin.New()
	router.POST("/linkedin/token", handler.Exchange(model.PlatformLinkedIn))
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestTokenExchangeEndToEnd(t *testing.T) {
	provider := &stubProvider{
		platform: model.PlatformLinkedIn,
		tokenData: &model.TokenData{
			AccessToken: "tok123",
			ExpiresIn:   3600,
			Raw:         []byte(`{"access_token":"tok123","expires_in":3600}`),
		},
	}
	credRepo := newMemCredRepo()
	router := newTokenRouter(provider, credRepo, nil)

	rec := postJSON(t, router, "/linkedin/token", gin.H{
		"code":        "abc",
		"userId":      "u1",
		"platform":    "linkedin",
		"redirectUri": "https://app/cb",
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.Success)
	assert.JSONEq(t, `{"access_token":"tok123","expires_in":3600}`, string(res.Data))

	cred := credRepo.creds["u1/linkedin"]
	require.NotNil(t, cred)
	assert.Equal(t, "tok123", cred.AccessToken)
	require.NotNil(t, cred.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), *cred.ExpiresAt, 2*time.Second)
}

func TestTokenExchange_PlatformFromRoute(t *testing.T) {
	provider := &stubProvider{
		platform:  model.PlatformLinkedIn,
		tokenData: &model.TokenData{AccessToken: "tok", Raw: []byte(`{"access_token":"tok"}`)},
	}
	router := newTokenRouter(provider, nil, nil)

	// No platform in the body: the route supplies it.
	rec := postJSON(t, router, "/linkedin/token", gin.H{"code": "abc", "userId": "u1"})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// A contradicting platform is rejected before any outbound call.
	rec = postJSON(t, router, "/linkedin/token", gin.H{"code": "abc", "userId": "u1", "platform": "facebook"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 1, provider.exchangeCalls)
}

func TestTokenExchange_Validation(t *testing.T) {
	provider := &stubProvider{platform: model.PlatformLinkedIn}
	router := newTokenRouter(provider, nil, nil)

	rec := postJSON(t, router, "/linkedin/token", gin.H{"userId": "u1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "validation_failed")
	assert.Equal(t, 0, provider.exchangeCalls)
}

func TestTokenExchange_ProviderErrorForwarded(t *testing.T) {
	provider := &stubProvider{
		platform: model.PlatformLinkedIn,
		exchangeErr: &model.ProviderExchangeError{
			Platform:   model.PlatformLinkedIn,
			StatusCode: http.StatusUnauthorized,
			Body:       `{"error":"invalid_grant"}`,
		},
	}
	credRepo := newMemCredRepo()
	router := newTokenRouter(provider, credRepo, nil)

	rec := postJSON(t, router, "/linkedin/token", gin.H{"code": "bad", "userId": "u1"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var res struct {
		Error   string `json:"error"`
		Details string `json:"details"`
		Status  int    `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "token_exchange_failed", res.Error)
	assert.Equal(t, `{"error":"invalid_grant"}`, res.Details)
	assert.Equal(t, http.StatusUnauthorized, res.Status)
	assert.Empty(t, credRepo.creds)
}

func TestTokenExchange_PersistenceFailureReportedAsFailure(t *testing.T) {
	provider := &stubProvider{
		platform:  model.PlatformLinkedIn,
		tokenData: &model.TokenData{AccessToken: "tok", Raw: []byte(`{"access_token":"tok"}`)},
	}
	credRepo := newMemCredRepo()
	credRepo.err = sql.ErrConnDone
	router := newTokenRouter(provider, credRepo, nil)

	rec := postJSON(t, router, "/linkedin/token", gin.H{"code": "abc", "userId": "u1"})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "persistence_failed")
	assert.NotContains(t, rec.Body.String(), "success")
}

func TestTokenExchange_StateConsumed(t *testing.T) {
	provider := &stubProvider{
		platform:  model.PlatformLinkedIn,
		tokenData: &model.TokenData{AccessToken: "tok", Raw: []byte(`{"access_token":"tok"}`)},
	}
	stateStore := cache.NewMemoryStateStore()
	require.NoError(t, stateStore.Put(context.Background(), "st1"))
	router := newTokenRouter(provider, nil, stateStore)

	rec := postJSON(t, router, "/linkedin/token", gin.H{"code": "abc", "userId": "u1", "state": "st1"})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Replaying the same state is rejected without an outbound call.
	rec = postJSON(t, router, "/linkedin/token", gin.H{"code": "abc", "userId": "u1", "state": "st1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_state")
	assert.Equal(t, 1, provider.exchangeCalls)
}
