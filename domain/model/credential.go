package model

import "time"

// Platform identifies a supported social platform.
type Platform string

const (
	PlatformLinkedIn Platform = "linkedin"
	PlatformFacebook Platform = "facebook"
	PlatformYouTube  Platform = "youtube"
)

// ParsePlatform normalizes a platform string from a request or route.
func ParsePlatform(s string) (Platform, bool) {
	switch Platform(s) {
	case PlatformLinkedIn, PlatformFacebook, PlatformYouTube:
		return Platform(s), true
	}
	return "", false
}

// Credential is a stored OAuth credential for one (user, platform) pair.
// At most one live row exists per pair; every successful exchange
// overwrites all fields.
type Credential struct {
	ID           int64      `json:"id"`
	UserID       string     `json:"user_id"`
	Platform     Platform   `json:"platform"`
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TokenData is the parsed body of a provider's token endpoint response.
// access_token is intentionally not validated for presence; an empty
// token is carried through and fails at first use.
type TokenData struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int64  `json:"expires_in,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	Scope        string `json:"scope,omitempty"`

	// Raw keeps the verbatim provider body so handlers can return it
	// unchanged to the caller.
	Raw []byte `json:"-"`
}

// ExpiresAt derives an absolute expiry from expires_in relative to now.
// Returns nil when the provider did not report an expiry.
func (t *TokenData) ExpiresAt(now time.Time) *time.Time {
	if t.ExpiresIn <= 0 {
		return nil
	}
	exp := now.Add(time.Duration(t.ExpiresIn) * time.Second).UTC()
	return &exp
}
