package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/cache"
	"fintrack/client"
	"fintrack/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_SignIn(t *testing.T) {
	db, mock := setupMockDB(t)
	up := &fakeUpstream{loginResult: &client.LoginResult{Token: "tok", UserID: "u1", Email: "a@b.co"}}
	auth := NewAuthService(up, NewSessionService(db, NewTokenCipher("k"), time.Hour), nil)

	// 表单校验失败不请求远端
	_, err := auth.SignIn(context.Background(), models.SignInForm{Email: "a", Password: "123"})
	var verrs models.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.True(t, verrs.Has("email"))
	assert.True(t, verrs.Has("password"))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `sessions`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	sess, err := auth.SignIn(context.Background(), models.SignInForm{Email: " a@b.co ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "tok", sess.Token)
	assert.Equal(t, "u1", sess.UserID)
	require.NoError(t, mock.ExpectationsWereMet())

	// 远端拒绝
	up.loginErr = &client.APIError{StatusCode: 401, Message: "Invalid credentials"}
	_, err = auth.SignIn(context.Background(), models.SignInForm{Email: "a@b.co", Password: "secret1"})
	assert.True(t, client.IsUnauthorized(err))
}

func TestAuthService_SignUp(t *testing.T) {
	up := &fakeUpstream{}
	auth := NewAuthService(up, nil, nil)

	err := auth.SignUp(context.Background(), models.SignUpForm{Name: "Asha", Email: "bad", Password: "secret1", ConfirmPassword: "other"})
	var verrs models.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "Invalid email", verrs["email"])
	assert.Equal(t, "Passwords did not match", verrs["confirm_password"])

	assert.NoError(t, auth.SignUp(context.Background(), models.SignUpForm{Name: "Asha", Email: "a@b.co", Password: "secret1", ConfirmPassword: "secret1"}))

	up.registerErr = errors.New("exists")
	assert.Error(t, auth.SignUp(context.Background(), models.SignUpForm{Name: "Asha", Email: "a@b.co", Password: "secret1", ConfirmPassword: "secret1"}))
}

func TestAuthService_SignOut(t *testing.T) {
	db, mock := setupMockDB(t)
	up := &fakeUpstream{transactions: sampleTransactions()}
	lru := cache.NewLRU[[]models.Transaction](10, time.Minute)
	ledger := NewLedgerService(up, lru)
	auth := NewAuthService(up, NewSessionService(db, NewTokenCipher("k"), time.Hour), ledger)

	sess := &UserSession{Session: models.Session{ID: "3f0b3f0e-1111-4c4c-9a9a-123456789abc"}, Token: "tok"}
	_, err := ledger.All(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, 1, lru.Len())

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `sessions`").WithArgs(sess.ID).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, auth.SignOut(context.Background(), sess.ID))
	assert.Equal(t, 0, lru.Len())
	require.NoError(t, mock.ExpectationsWereMet())
}
