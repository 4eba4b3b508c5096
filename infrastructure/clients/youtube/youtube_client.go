package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"social-relay/domain/dto"
	"social-relay/domain/model"
	"social-relay/domain/repository"
	"social-relay/infrastructure/configuration"
	"social-relay/infrastructure/logger"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	youtubeapi "google.golang.org/api/youtube/v3"
)

// Client adapts Google's OAuth token endpoint and the YouTube video
// upload API.
type Client struct {
	conf       configuration.OAuthClient
	httpClient *http.Client

	tokenURL  string
	uploadURL string
}

func NewYouTubeClient(conf configuration.OAuthClient, httpClient *http.Client) repository.IProvider {
	return &Client{
		conf:       conf,
		httpClient: httpClient,
		tokenURL:   google.Endpoint.TokenURL,
		uploadURL:  "https://www.googleapis.com/upload/youtube/v3/videos?uploadType=multipart&part=snippet,status",
	}
}

func (c *Client) Platform() model.Platform { return model.PlatformYouTube }

func (c *Client) AuthURL(state string) string {
	oc := &oauth2.Config{
		ClientID:    c.conf.ClientID,
		RedirectURL: c.conf.RedirectURI,
		Scopes: []string{
			youtubeapi.YoutubeUploadScope,
			youtubeapi.YoutubeForceSslScope,
		},
		Endpoint: google.Endpoint,
	}
	return oc.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
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
		return nil, fmt.Errorf("google token request: %w", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.GetLogger().WithField("body", string(body)).Error("google token exchange failed")
		return nil, &model.ProviderExchangeError{Platform: model.PlatformYouTube, StatusCode: resp.StatusCode, Body: string(body)}
	}
	data := &model.TokenData{Raw: body}
	if err := json.Unmarshal(body, data); err != nil {
		return nil, fmt.Errorf("parse google token response: %w", err)
	}
	return data, nil
}

// videoMetadata is the snippet/status part of the multipart upload.
type videoMetadata struct {
	Snippet struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	} `json:"snippet"`
	Status struct {
		PrivacyStatus string `json:"privacyStatus"`
		PublishAt     string `json:"publishAt,omitempty"`
	} `json:"status"`
}

// Publish uploads one video in a single multipart request: a JSON
// metadata part followed by the binary video part. The whole file is
// buffered in memory; there is no chunking and no resumable session,
// which caps the practical file size.
func (c *Client) Publish(ctx context.Context, accessToken string, content dto.PublishContent) (json.RawMessage, error) {
	video := content.Video
	if video == nil {
		return nil, &model.ValidationError{Field: "video"}
	}

	meta := videoMetadata{}
	meta.Snippet.Title = video.Title
	meta.Snippet.Description = video.Description
	meta.Status.PrivacyStatus = "private"
	if video.ScheduledAt != nil {
		meta.Status.PublishAt = video.ScheduledAt.UTC().Format(time.RFC3339)
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	metaPart, err := w.CreatePart(textproto.MIMEHeader{"Content-Type": {"application/json; charset=UTF-8"}})
	if err != nil {
		return nil, err
	}
	if _, err := metaPart.Write(metaJSON); err != nil {
		return nil, err
	}

	contentType := video.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	mediaPart, err := w.CreatePart(textproto.MIMEHeader{"Content-Type": {contentType}})
	if err != nil {
		return nil, err
	}
	if _, err := mediaPart.Write(video.Bytes); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "multipart/related; boundary="+w.Boundary())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("youtube upload request: %w", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.GetLogger().WithField("body", string(body)).Error("youtube upload failed")
		return nil, &model.ProviderPublishError{Platform: model.PlatformYouTube, Step: "upload", StatusCode: resp.StatusCode, Body: string(body)}
	}
	return json.RawMessage(body), nil
}
