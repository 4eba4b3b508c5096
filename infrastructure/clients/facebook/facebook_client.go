package facebook

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"social-relay/domain/dto"
	"social-relay/domain/model"
	"social-relay/domain/repository"
	"social-relay/infrastructure/configuration"
	"social-relay/infrastructure/logger"

	"github.com/google/go-querystring/query"
	"golang.org/x/oauth2"
)

const graphVersion = "v19.0"

// Client adapts the Facebook Graph OAuth and page-feed APIs.
type Client struct {
	conf       configuration.OAuthClient
	httpClient *http.Client

	graphURL string // e.g. https://graph.facebook.com/v19.0
	authURL  string
}

func NewFacebookClient(conf configuration.OAuthClient, httpClient *http.Client) repository.IProvider {
	return &Client{
		conf:       conf,
		httpClient: httpClient,
		graphURL:   "https://graph.facebook.com/" + graphVersion,
		authURL:    "https://www.facebook.com/" + graphVersion + "/dialog/oauth",
	}
}

func (c *Client) Platform() model.Platform { return model.PlatformFacebook }

func (c *Client) AuthURL(state string) string {
	oc := &oauth2.Config{
		ClientID:    c.conf.ClientID,
		RedirectURL: c.conf.RedirectURI,
		Scopes:      []string{"pages_show_list", "pages_read_engagement", "pages_manage_posts", "public_profile"},
		Endpoint:    oauth2.Endpoint{AuthURL: c.authURL},
	}
	return oc.AuthCodeURL(state)
}

// tokenQuery is the Facebook token exchange request; unlike the other
// providers the Graph API takes it as GET query parameters.
type tokenQuery struct {
	ClientID     string `url:"client_id"`
	RedirectURI  string `url:"redirect_uri"`
	ClientSecret string `url:"client_secret"`
	Code         string `url:"code"`
}

func (c *Client) ExchangeToken(ctx context.Context, params dto.ExchangeParams) (*model.TokenData, error) {
	q, err := query.Values(tokenQuery{
		ClientID:     c.conf.ClientID,
		RedirectURI:  params.RedirectURI,
		ClientSecret: c.conf.ClientSecret,
		Code:         params.Code,
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.graphURL+"/oauth/access_token?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("facebook token request: %w", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.GetLogger().WithField("body", string(body)).Error("facebook token exchange failed")
		return nil, &model.ProviderExchangeError{Platform: model.PlatformFacebook, StatusCode: resp.StatusCode, Body: string(body)}
	}
	data := &model.TokenData{Raw: body}
	if err := json.Unmarshal(body, data); err != nil {
		return nil, fmt.Errorf("parse facebook token response: %w", err)
	}
	return data, nil
}

// Publish posts a message to a page feed. Page posts require a
// page-scoped token, resolved first from the user token; when the page
// object carries no access_token the feed call is never attempted.
func (c *Client) Publish(ctx context.Context, accessToken string, content dto.PublishContent) (json.RawMessage, error) {
	pageToken, err := c.fetchPageToken(ctx, accessToken, content.PageID)
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("message", content.Message)
	form.Set("access_token", pageToken)
	postURL := fmt.Sprintf("%s/%s/feed", c.graphURL, url.PathEscape(content.PageID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, postURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("facebook feed post request: %w", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.GetLogger().WithField("body", string(body)).Error("facebook feed post failed")
		return nil, &model.ProviderPublishError{Platform: model.PlatformFacebook, Step: "feed_post", StatusCode: resp.StatusCode, Body: string(body)}
	}
	return json.RawMessage(body), nil
}

func (c *Client) fetchPageToken(ctx context.Context, userToken, pageID string) (string, error) {
	u := fmt.Sprintf("%s/%s?fields=access_token&access_token=%s", c.graphURL, url.PathEscape(pageID), url.QueryEscape(userToken))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("facebook page token request: %w", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.GetLogger().WithField("body", string(body)).Error("facebook page token fetch failed")
		return "", &model.ProviderPublishError{Platform: model.PlatformFacebook, Step: "page_token", StatusCode: resp.StatusCode, Body: string(body)}
	}
	var page struct {
		AccessToken string `json:"access_token"`
		ID          string `json:"id"`
	}
	if err := json.Unmarshal(body, &page); err != nil {
		return "", fmt.Errorf("parse facebook page response: %w", err)
	}
	if page.AccessToken == "" {
		return "", &model.MissingPageTokenError{PageID: pageID}
	}
	return page.AccessToken, nil
}
