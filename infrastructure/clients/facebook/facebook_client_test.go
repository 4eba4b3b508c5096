package facebook

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"social-relay/domain/dto"
	"social-relay/domain/model"
	"social-relay/infrastructure/configuration"
)

func newTestClient(graphURL string) *Client {
	return &Client{
		conf:       configuration.OAuthClient{ClientID: "cid", ClientSecret: "secret", RedirectURI: "https://app/cb"},
		httpClient: http.DefaultClient,
		graphURL:   graphURL,
	}
}

func TestExchangeToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Facebook takes the exchange as GET with query parameters
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/oauth/access_token", r.URL.Path)
		q := r.URL.Query()
		require.Equal(t, "cid", q.Get("client_id"))
		require.Equal(t, "secret", q.Get("client_secret"))
		require.Equal(t, "abc", q.Get("code"))
		require.Equal(t, "https://app/cb", q.Get("redirect_uri"))
		w.Write([]byte(`{"access_token":"fbtok","token_type":"bearer","expires_in":5183944}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	data, err := c.ExchangeToken(context.Background(), dto.ExchangeParams{Code: "abc", RedirectURI: "https://app/cb"})
	require.NoError(t, err)
	require.Equal(t, "fbtok", data.AccessToken)
	require.Equal(t, int64(5183944), data.ExpiresIn)
}

func TestExchangeToken_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"This authorization code has been used."}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.ExchangeToken(context.Background(), dto.ExchangeParams{Code: "used"})
	var exchErr *model.ProviderExchangeError
	require.True(t, errors.As(err, &exchErr))
	require.Equal(t, model.PlatformFacebook, exchErr.Platform)
	require.Contains(t, exchErr.Body, "authorization code has been used")
}

func TestPublish(t *testing.T) {
	var feedCalls int
	mux := http.NewServeMux()
	mux.HandleFunc("/12345", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "access_token", r.URL.Query().Get("fields"))
		require.Equal(t, "usertok", r.URL.Query().Get("access_token"))
		w.Write([]byte(`{"access_token":"pagetok","id":"12345"}`))
	})
	mux.HandleFunc("/12345/feed", func(w http.ResponseWriter, r *http.Request) {
		feedCalls++
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		require.Equal(t, "Big news!", r.PostForm.Get("message"))
		// the feed post must use the page-scoped token, not the user token
		require.Equal(t, "pagetok", r.PostForm.Get("access_token"))
		w.Write([]byte(`{"id":"12345_678"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(srv.URL)
	res, err := c.Publish(context.Background(), "usertok", dto.PublishContent{PageID: "12345", Message: "Big news!"})
	require.NoError(t, err)
	require.Equal(t, 1, feedCalls)
	require.JSONEq(t, `{"id":"12345_678"}`, string(res))
}

// A page-token lookup that returns no access_token aborts before any
// feed call is made.
func TestPublish_MissingPageToken(t *testing.T) {
	var feedCalls int
	mux := http.NewServeMux()
	mux.HandleFunc("/12345", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"12345"}`))
	})
	mux.HandleFunc("/12345/feed", func(w http.ResponseWriter, r *http.Request) {
		feedCalls++
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(srv.URL)
	res, err := c.Publish(context.Background(), "usertok", dto.PublishContent{PageID: "12345", Message: "hi"})
	require.Nil(t, res)
	require.Equal(t, 0, feedCalls)

	var missing *model.MissingPageTokenError
	require.True(t, errors.As(err, &missing))
	require.Equal(t, "12345", missing.PageID)
}

func TestPublish_PageTokenLookupError(t *testing.T) {
	var feedCalls int
	mux := http.NewServeMux()
	mux.HandleFunc("/12345", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"message":"permission denied"}}`))
	})
	mux.HandleFunc("/12345/feed", func(w http.ResponseWriter, r *http.Request) {
		feedCalls++
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.Publish(context.Background(), "usertok", dto.PublishContent{PageID: "12345", Message: "hi"})
	require.Equal(t, 0, feedCalls)

	var pubErr *model.ProviderPublishError
	require.True(t, errors.As(err, &pubErr))
	require.Equal(t, "page_token", pubErr.Step)
	require.Equal(t, http.StatusForbidden, pubErr.StatusCode)
}
