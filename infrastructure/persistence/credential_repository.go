package persistence

import (
	"context"
	"database/sql"
	"time"

	"social-relay/domain/model"
)

type CredentialRepository struct{ db *sql.DB }

func NewCredentialRepository(db *sql.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

// Upsert writes one credential row keyed by (user_id, platform). Every
// field is overwritten on conflict; a response without a refresh token
// clears any previously stored one.
func (r *CredentialRepository) Upsert(ctx context.Context, cred *model.Credential) error {
	now := time.Now().UTC()
	if cred.CreatedAt.IsZero() {
		cred.CreatedAt = now
	}
	cred.UpdatedAt = now
	q := `INSERT INTO social_connections (user_id, platform, access_token, refresh_token, expires_at, created_at, updated_at)
		  VALUES ($1,$2,$3,$4,$5,$6,$7)
		  ON CONFLICT (user_id, platform) DO UPDATE SET
			access_token=EXCLUDED.access_token,
			refresh_token=EXCLUDED.refresh_token,
			expires_at=EXCLUDED.expires_at,
			updated_at=EXCLUDED.updated_at`
	_, err := r.db.ExecContext(ctx, q, cred.UserID, string(cred.Platform), cred.AccessToken, cred.RefreshToken, cred.ExpiresAt, cred.CreatedAt, cred.UpdatedAt)
	return err
}

func (r *CredentialRepository) GetCredential(ctx context.Context, userID string, platform model.Platform) (*model.Credential, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, user_id, platform, access_token, refresh_token, expires_at, created_at, updated_at FROM social_connections WHERE user_id=$1 AND platform=$2`, userID, string(platform))
	cred := &model.Credential{}
	var exp sql.NullTime
	if err := row.Scan(&cred.ID, &cred.UserID, &cred.Platform, &cred.AccessToken, &cred.RefreshToken, &exp, &cred.CreatedAt, &cred.UpdatedAt); err != nil {
		return nil, err
	}
	if exp.Valid {
		cred.ExpiresAt = &exp.Time
	}
	return cred, nil
}
