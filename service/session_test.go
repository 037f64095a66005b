package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/client"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sessionColumns = []string{"id", "user_id", "email", "name", "encrypted_token", "expires_at", "created_at", "updated_at"}

func TestSessionService_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := NewSessionService(db, NewTokenCipher("k"), 24*time.Hour)
	svc.now = func() time.Time { return now }

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `sessions`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	sess, err := svc.Create(context.Background(), &client.LoginResult{Token: "opaque", UserID: "u-1", Email: "a@b.co"})
	require.NoError(t, err)
	_, err = uuid.Parse(sess.ID)
	assert.NoError(t, err)
	assert.Equal(t, "opaque", sess.Token)
	assert.Equal(t, now.Add(24*time.Hour), sess.ExpiresAt)
	assert.NotEqual(t, []byte("opaque"), sess.EncryptedToken)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionService_Create_BoundedByTokenExpiry(t *testing.T) {
	db, mock := setupMockDB(t)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := NewSessionService(db, NewTokenCipher("k"), 24*time.Hour)
	svc.now = func() time.Time { return now }

	exp := now.Add(2 * time.Hour)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix()}).SignedString([]byte("x"))
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `sessions`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	sess, err := svc.Create(context.Background(), &client.LoginResult{Token: token, Email: "a@b.co"})
	require.NoError(t, err)
	assert.True(t, exp.Equal(sess.ExpiresAt))
}

func TestSessionService_Create_Errors(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := NewSessionService(db, NewTokenCipher("k"), time.Hour)

	_, err := svc.Create(context.Background(), &client.LoginResult{})
	assert.ErrorIs(t, err, client.ErrEmptyToken)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `sessions`").WillReturnError(errors.New("db down"))
	mock.ExpectRollback()

	_, err = svc.Create(context.Background(), &client.LoginResult{Token: "t", Email: "a@b.co"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}

func TestSessionService_Get(t *testing.T) {
	db, mock := setupMockDB(t)
	cipher := NewTokenCipher("k")
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := NewSessionService(db, cipher, time.Hour)
	svc.now = func() time.Time { return now }

	id := uuid.NewString()
	sealed, err := cipher.Seal("tok")
	require.NoError(t, err)

	mock.ExpectQuery("SELECT .* FROM `sessions`").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(sessionColumns).
			AddRow(id, "u-1", "a@b.co", "Asha", sealed, now.Add(time.Minute), now, now))

	sess, err := svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "tok", sess.Token)
	assert.Equal(t, "Asha", sess.DisplayName())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionService_Get_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := NewSessionService(db, NewTokenCipher("k"), time.Hour)

	// 非法 id 不查库
	_, err := svc.Get(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	id := uuid.NewString()
	mock.ExpectQuery("SELECT .* FROM `sessions`").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(sessionColumns))

	_, err = svc.Get(context.Background(), id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionService_Get_ExpiredIsDeleted(t *testing.T) {
	db, mock := setupMockDB(t)
	cipher := NewTokenCipher("k")
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := NewSessionService(db, cipher, time.Hour)
	svc.now = func() time.Time { return now }

	id := uuid.NewString()
	sealed, _ := cipher.Seal("tok")
	mock.ExpectQuery("SELECT .* FROM `sessions`").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(sessionColumns).
			AddRow(id, "u-1", "a@b.co", "", sealed, now.Add(-time.Second), now, now))
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `sessions`").
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	_, err := svc.Get(context.Background(), id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionService_PurgeExpired(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := NewSessionService(db, NewTokenCipher("k"), time.Hour)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `sessions` WHERE expires_at").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	n, err := svc.PurgeExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	// 空 id 无需删除
	assert.NoError(t, svc.Delete(context.Background(), ""))
	require.NoError(t, mock.ExpectationsWereMet())
}
