package dto

// ExchangeRequest is the body of POST /{provider}/token. Platform may
// be omitted when the route already names the provider.
type ExchangeRequest struct {
	Code         string `json:"code"`
	UserID       string `json:"userId"`
	Platform     string `json:"platform"`
	RedirectURI  string `json:"redirectUri"`
	CodeVerifier string `json:"codeVerifier"`
	State        string `json:"state"`
}

// ExchangeParams is what a provider adapter needs to call its token
// endpoint. Client credentials live in the adapter itself.
type ExchangeParams struct {
	Code         string
	RedirectURI  string
	CodeVerifier string
}
