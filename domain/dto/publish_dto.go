package dto

import "time"

// TextPostRequest is the body of POST /linkedin/post.
type TextPostRequest struct {
	AccessToken string `json:"accessToken"`
	Text        string `json:"text"`
}

// PagePostRequest is the body of POST /facebook/post. Posting as a
// page requires a page-scoped token which is resolved server-side from
// the user token.
type PagePostRequest struct {
	AccessToken string `json:"accessToken"`
	PageID      string `json:"pageId"`
	Message     string `json:"message"`
}

// VideoUpload carries one video buffered in memory plus its snippet
// metadata. The whole file is held in Bytes; there is no chunking.
type VideoUpload struct {
	Title       string
	Description string
	ScheduledAt *time.Time
	FileName    string
	ContentType string
	Bytes       []byte
}

// PublishContent is the closed variant handed to a provider adapter.
// Exactly one member is set depending on the platform.
type PublishContent struct {
	Text    string
	PageID  string
	Message string
	Video   *VideoUpload
}
