package persistence

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"social-relay/domain/model"
)

const upsertQuery = `INSERT INTO social_connections (user_id, platform, access_token, refresh_token, expires_at, created_at, updated_at)
		  VALUES ($1,$2,$3,$4,$5,$6,$7)
		  ON CONFLICT (user_id, platform) DO UPDATE SET
			access_token=EXCLUDED.access_token,
			refresh_token=EXCLUDED.refresh_token,
			expires_at=EXCLUDED.expires_at,
			updated_at=EXCLUDED.updated_at`

func TestCredentialRepository_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewCredentialRepository(db)

	exp := time.Now().Add(time.Hour).UTC()
	cred := &model.Credential{
		UserID:      "u1",
		Platform:    model.PlatformLinkedIn,
		AccessToken: "tok123",
		ExpiresAt:   &exp,
	}

	mock.ExpectExec(regexp.QuoteMeta(upsertQuery)).
		WithArgs("u1", "linkedin", "tok123", "", exp, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repository.Upsert(context.Background(), cred))
	require.False(t, cred.CreatedAt.IsZero())
	require.False(t, cred.UpdatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

// A second upsert for the same (user, platform) conflicts and overwrites;
// the repository issues the same statement and the store keeps one row.
func TestCredentialRepository_Upsert_Overwrite(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewCredentialRepository(db)

	first := &model.Credential{UserID: "u1", Platform: model.PlatformFacebook, AccessToken: "old", RefreshToken: "r1"}
	second := &model.Credential{UserID: "u1", Platform: model.PlatformFacebook, AccessToken: "new"}

	mock.ExpectExec(regexp.QuoteMeta(upsertQuery)).
		WithArgs("u1", "facebook", "old", "r1", nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	// Refresh-token-less overwrite clears the stored refresh token.
	mock.ExpectExec(regexp.QuoteMeta(upsertQuery)).
		WithArgs("u1", "facebook", "new", "", nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repository.Upsert(context.Background(), first))
	require.NoError(t, repository.Upsert(context.Background(), second))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCredentialRepository_Upsert_Error(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewCredentialRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(upsertQuery)).
		WillReturnError(fmt.Errorf("connection refused"))

	err = repository.Upsert(context.Background(), &model.Credential{UserID: "u1", Platform: model.PlatformLinkedIn, AccessToken: "tok"})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCredentialRepository_GetCredential(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewCredentialRepository(db)

	now := time.Now().UTC()
	exp := now.Add(time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, platform, access_token, refresh_token, expires_at, created_at, updated_at FROM social_connections WHERE user_id=$1 AND platform=$2`)).
		WithArgs("u1", "youtube").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "platform", "access_token", "refresh_token", "expires_at", "created_at", "updated_at"}).
			AddRow(7, "u1", "youtube", "tok", "ref", exp, now, now))

	cred, err := repository.GetCredential(context.Background(), "u1", model.PlatformYouTube)
	require.NoError(t, err)
	require.Equal(t, int64(7), cred.ID)
	require.Equal(t, model.PlatformYouTube, cred.Platform)
	require.Equal(t, "tok", cred.AccessToken)
	require.NotNil(t, cred.ExpiresAt)
	require.WithinDuration(t, exp, *cred.ExpiresAt, time.Second)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCredentialRepository_GetCredential_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewCredentialRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, platform, access_token, refresh_token, expires_at, created_at, updated_at FROM social_connections WHERE user_id=$1 AND platform=$2`)).
		WithArgs("missing", "linkedin").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "platform", "access_token", "refresh_token", "expires_at", "created_at", "updated_at"}))

	cred, err := repository.GetCredential(context.Background(), "missing", model.PlatformLinkedIn)
	require.Error(t, err)
	require.Nil(t, cred)
	require.NoError(t, mock.ExpectationsWereMet())
}
