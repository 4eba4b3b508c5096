package repository

import (
	"context"

	"social-relay/domain/model"
)

// ICredential is the persistence boundary for exchanged credentials.
// Upsert is atomic on (user_id, platform): insert when absent,
// overwrite every field when present.
type ICredential interface {
	Upsert(ctx context.Context, cred *model.Credential) error
	GetCredential(ctx context.Context, userID string, platform model.Platform) (*model.Credential, error)
}
