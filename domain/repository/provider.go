package repository

import (
	"context"
	"encoding/json"

	"social-relay/domain/dto"
	"social-relay/domain/model"
)

// IProvider adapts one external platform: its token endpoint and, where
// supported, its publish endpoint. Implementations live under
// infrastructure/clients and are selected by model.Platform.
type IProvider interface {
	Platform() model.Platform

	// AuthURL builds the consent URL for the given anti-forgery state.
	AuthURL(state string) string

	// ExchangeToken performs exactly one call to the provider's token
	// endpoint. A non-2xx response is returned as
	// *model.ProviderExchangeError carrying status and raw body.
	ExchangeToken(ctx context.Context, params dto.ExchangeParams) (*model.TokenData, error)

	// Publish submits user content using a previously obtained access
	// token, resolving any intermediate identity first. The 2xx provider
	// body is returned verbatim.
	Publish(ctx context.Context, accessToken string, content dto.PublishContent) (json.RawMessage, error)
}
