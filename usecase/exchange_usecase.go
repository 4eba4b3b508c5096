package usecase

import (
	"context"
	"encoding/json"
	"time"

	"social-relay/domain/dto"
	"social-relay/domain/model"
	"social-relay/domain/repository"
	"social-relay/infrastructure/logger"
)

type IExchangeUsecase interface {
	// Exchange swaps an authorization code for a credential, persisting
	// it when a store is configured. The raw provider body is returned
	// alongside so handlers can pass it through verbatim.
	Exchange(ctx context.Context, req dto.ExchangeRequest) (*model.Credential, json.RawMessage, error)
}

type exchangeUsecase struct {
	providers map[model.Platform]repository.IProvider
	// credRepo is nil when the relay runs stateless.
	credRepo repository.ICredential
	// redirects holds the configured fallback redirect URIs.
	redirects map[model.Platform]string
}

func NewExchangeUsecase(providers []repository.IProvider, credRepo repository.ICredential, redirects map[model.Platform]string) IExchangeUsecase {
	m := make(map[model.Platform]repository.IProvider, len(providers))
	for _, p := range providers {
		m[p.Platform()] = p
	}
	if redirects == nil {
		redirects = map[model.Platform]string{}
	}
	return &exchangeUsecase{providers: m, credRepo: credRepo, redirects: redirects}
}

func (u *exchangeUsecase) Exchange(ctx context.Context, req dto.ExchangeRequest) (*model.Credential, json.RawMessage, error) {
	if req.Code == "" {
		return nil, nil, &model.ValidationError{Field: "code"}
	}
	if req.UserID == "" {
		return nil, nil, &model.ValidationError{Field: "userId"}
	}
	if req.Platform == "" {
		return nil, nil, &model.ValidationError{Field: "platform"}
	}
	platform, ok := model.ParsePlatform(req.Platform)
	if !ok {
		return nil, nil, &model.ValidationError{Field: "platform", Reason: "is not supported: " + req.Platform}
	}
	provider, ok := u.providers[platform]
	if !ok {
		return nil, nil, &model.ValidationError{Field: "platform", Reason: "is not configured: " + req.Platform}
	}

	redirectURI := req.RedirectURI
	if redirectURI == "" {
		redirectURI = u.redirects[platform]
		// The provider verifies an exact match against the URI used
		// during authorization; a mismatch surfaces upstream as
		// invalid_grant, not here.
		logger.GetLogger().WithField("platform", platform).Warn("redirectUri missing from request; using configured default")
	}

	data, err := provider.ExchangeToken(ctx, dto.ExchangeParams{
		Code:         req.Code,
		RedirectURI:  redirectURI,
		CodeVerifier: req.CodeVerifier,
	})
	if err != nil {
		return nil, nil, err
	}

	cred := &model.Credential{
		UserID:       req.UserID,
		Platform:     platform,
		AccessToken:  data.AccessToken,
		RefreshToken: data.RefreshToken,
		ExpiresAt:    data.ExpiresAt(time.Now()),
	}

	if u.credRepo != nil {
		if err := u.credRepo.Upsert(ctx, cred); err != nil {
			// The code was already consumed upstream; the operation
			// cannot be retried, so the failure must not be silent.
			logger.GetLogger().WithField("error", err).WithField("platform", platform).Error("failed to store exchanged credential")
			return nil, nil, &model.PersistenceError{Op: "upsert", Err: err}
		}
	}
	return cred, json.RawMessage(data.Raw), nil
}
