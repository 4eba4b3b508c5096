package linkedin

import (
	"bytes"
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

	"golang.org/x/oauth2"
	oauthlinkedin "golang.org/x/oauth2/linkedin"
)

// Client adapts the LinkedIn OAuth and UGC-post APIs.
type Client struct {
	conf       configuration.OAuthClient
	httpClient *http.Client

	tokenURL    string
	userInfoURL string
	ugcPostsURL string
}

func NewLinkedInClient(conf configuration.OAuthClient, httpClient *http.Client) repository.IProvider {
	return &Client{
		conf:        conf,
		httpClient:  httpClient,
		tokenURL:    oauthlinkedin.Endpoint.TokenURL,
		userInfoURL: "https://api.linkedin.com/v2/userinfo",
		ugcPostsURL: "https://api.linkedin.com/v2/ugcPosts",
	}
}

func (c *Client) Platform() model.Platform { return model.PlatformLinkedIn }

func (c *Client) AuthURL(state string) string {
	oc := &oauth2.Config{
		ClientID:    c.conf.ClientID,
		RedirectURL: c.conf.RedirectURI,
		Scopes:      []string{"openid", "profile", "w_member_social"},
		Endpoint:    oauthlinkedin.Endpoint,
	}
	return oc.AuthCodeURL(state)
}

func (c *Client) ExchangeToken(ctx context.Context, params dto.ExchangeParams) (*model.TokenData, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", params.Code)
	form.Set("redirect_uri", params.RedirectURI)
	form.Set("client_id", c.conf.ClientID)
	form.Set("client_secret", c.conf.ClientSecret)
	if params.CodeVerifier != "" {
		form.Set("code_verifier", params.CodeVerifier)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("linkedin token request: %w", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.GetLogger().WithField("body", string(body)).Error("linkedin token exchange failed")
		return nil, &model.ProviderExchangeError{Platform: model.PlatformLinkedIn, StatusCode: resp.StatusCode, Body: string(body)}
	}
	data := &model.TokenData{Raw: body}
	if err := json.Unmarshal(body, data); err != nil {
		return nil, fmt.Errorf("parse linkedin token response: %w", err)
	}
	return data, nil
}

// ugcPost is the UGC-posts payload for a text-only share.
type ugcPost struct {
	Author          string `json:"author"`
	LifecycleState  string `json:"lifecycleState"`
	SpecificContent struct {
		ShareContent struct {
			ShareCommentary struct {
				Text string `json:"text"`
			} `json:"shareCommentary"`
			ShareMediaCategory string `json:"shareMediaCategory"`
		} `json:"com.linkedin.ugc.ShareContent"`
	} `json:"specificContent"`
	Visibility struct {
		MemberNetworkVisibility string `json:"com.linkedin.ugc.MemberNetworkVisibility"`
	} `json:"visibility"`
}

// Publish creates a text post. Two sequential calls: the userinfo
// lookup resolves the author URN, then the UGC post is created. A
// failed lookup aborts before anything is posted.
func (c *Client) Publish(ctx context.Context, accessToken string, content dto.PublishContent) (json.RawMessage, error) {
	sub, err := c.fetchSubject(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	authorURN := fmt.Sprintf("urn:li:person:%s", sub)

	post := ugcPost{Author: authorURN, LifecycleState: "PUBLISHED"}
	post.SpecificContent.ShareContent.ShareCommentary.Text = content.Text
	post.SpecificContent.ShareContent.ShareMediaCategory = "NONE"
	post.Visibility.MemberNetworkVisibility = "PUBLIC"
	payload, err := json.Marshal(post)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.ugcPostsURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("linkedin ugc post request: %w", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.GetLogger().WithField("body", string(body)).Error("linkedin ugc post failed")
		return nil, &model.ProviderPublishError{Platform: model.PlatformLinkedIn, Step: "ugc_post", StatusCode: resp.StatusCode, Body: string(body)}
	}
	return json.RawMessage(body), nil
}

// fetchSubject gets the OpenID Connect subject id used to build the
// author URN.
func (c *Client) fetchSubject(ctx context.Context, accessToken string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userInfoURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("linkedin userinfo request: %w", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.GetLogger().WithField("body", string(body)).Error("linkedin userinfo fetch failed")
		return "", &model.ProviderPublishError{Platform: model.PlatformLinkedIn, Step: "profile", StatusCode: resp.StatusCode, Body: string(body)}
	}
	var profile struct {
		Sub string `json:"sub"`
	}
	if err := json.Unmarshal(body, &profile); err != nil {
		return "", fmt.Errorf("parse linkedin userinfo: %w", err)
	}
	if profile.Sub == "" {
		return "", &model.ProviderPublishError{Platform: model.PlatformLinkedIn, Step: "profile", StatusCode: resp.StatusCode, Body: "userinfo response missing sub"}
	}
	return profile.Sub, nil
}
