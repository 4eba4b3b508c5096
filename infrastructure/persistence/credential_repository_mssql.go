package persistence

import (
	"context"
	"database/sql"
	"time"

	"social-relay/domain/model"
)

type CredentialRepositoryMSSQL struct{ db *sql.DB }

func NewCredentialRepositoryMSSQL(db *sql.DB) *CredentialRepositoryMSSQL {
	return &CredentialRepositoryMSSQL{db: db}
}

func (r *CredentialRepositoryMSSQL) Upsert(ctx context.Context, cred *model.Credential) error {
	now := time.Now().UTC()
	if cred.CreatedAt.IsZero() {
		cred.CreatedAt = now
	}
	cred.UpdatedAt = now
	var exp sql.NullTime
	if cred.ExpiresAt != nil {
		exp.Valid = true
		exp.Time = *cred.ExpiresAt
	}
	// MERGE upsert by (user_id, platform)
	q := `MERGE dbo.[social_connections] AS target
USING (VALUES (@p1, @p2)) AS src(user_id, platform)
ON target.user_id = src.user_id AND target.platform = src.platform
WHEN MATCHED THEN UPDATE SET
    access_token=@p3,
    refresh_token=@p4,
    expires_at=@p5,
    updated_at=@p7
WHEN NOT MATCHED THEN
    INSERT (user_id, platform, access_token, refresh_token, expires_at, created_at, updated_at)
    VALUES (@p1,@p2,@p3,@p4,@p5,@p6,@p7);`
	_, err := r.db.ExecContext(ctx, q,
		cred.UserID, string(cred.Platform),
		cred.AccessToken,
		cred.RefreshToken,
		exp,
		cred.CreatedAt,
		cred.UpdatedAt,
	)
	return err
}

func (r *CredentialRepositoryMSSQL) GetCredential(ctx context.Context, userID string, platform model.Platform) (*model.Credential, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, user_id, platform, access_token, refresh_token, expires_at, created_at, updated_at FROM dbo.[social_connections] WHERE user_id=@p1 AND platform=@p2`, userID, string(platform))
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
