package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Leeseryong88/logbook/internal/config"
	"github.com/Leeseryong88/logbook/internal/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService(t *testing.T) (*AuthService, sqlmock.Sqlmock) {
	db, mock := newMockDB(t)
	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 168 * time.Hour,
	}
	return NewAuthService(db, cfg, newFakeStore()), mock
}

func TestRegister_RejectsShortPassword(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Register(&dto.RegisterRequest{Email: "a@b.com", Password: "short"})
	require.Error(t, err)
}

func TestRegister_EmailTaken(t *testing.T) {
	svc, mock := newAuthService(t)

	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE email = (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}).AddRow(uuid.New(), "a@b.com"))

	_, err := svc.Register(&dto.RegisterRequest{Email: "a@b.com", Password: "longenough"})
	require.ErrorIs(t, err, ErrEmailTaken)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, mock := newAuthService(t)

	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE email = (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password"}))

	_, err := svc.Login(&dto.LoginRequest{Email: "nobody@b.com", Password: "whatever1"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, mock := newAuthService(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE email = (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password"}).
			AddRow(uuid.New(), "a@b.com", string(hash)))

	_, err = svc.Login(&dto.LoginRequest{Email: "a@b.com", Password: "wrong-horse"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefresh_UnknownToken(t *testing.T) {
	svc, mock := newAuthService(t)

	mock.ExpectQuery(`SELECT (.+) FROM "refresh_tokens" WHERE token_hash = (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "token_hash"}))

	_, err := svc.Refresh(&dto.RefreshRequest{RefreshToken: "no-such-token"})
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestHashToken(t *testing.T) {
	a := hashToken("token-a")
	b := hashToken("token-b")

	assert.Len(t, a, 64) // sha256 hex
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, hashToken("token-a"))
}
