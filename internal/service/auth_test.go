package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

type memoryTokenStore struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func (m *memoryTokenStore) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.revoked == nil {
		m.revoked = map[string]time.Duration{}
	}
	m.revoked[tokenID] = ttl
	return nil
}

func (m *memoryTokenStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[tokenID]
	return ok, nil
}

func registerRequest() *types.RegisterRequest {
	return &types.RegisterRequest{
		Email:     "cook@example.com",
		Username:  "cook",
		FirstName: "Ada",
		LastName:  "Cook",
		Password:  "supersecret",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	svc := NewAuthService(db, "test-secret", time.Hour, nil)
	ctx := context.Background()

	user, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.NotEqual(t, "supersecret", user.PasswordHash)

	token, err := svc.Login(ctx, "cook@example.com", "supersecret")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.NotEmpty(t, claims.ID)

	_, err = svc.Login(ctx, "cook@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody@example.com", "supersecret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterRejectsDuplicatesAndBadInput(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	svc := NewAuthService(db, "test-secret", time.Hour, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	req := registerRequest()
	req.Username = "other"
	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, ErrAlreadyExists)

	req = registerRequest()
	req.Email = "other@example.com"
	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, ErrAlreadyExists)

	req = registerRequest()
	req.Email = "not-an-email"
	_, err = svc.Register(ctx, req)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email", verr.Field)

	req = registerRequest()
	req.Email, req.Username, req.Password = "short@example.com", "short", "1234"
	_, err = svc.Register(ctx, req)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "password", verr.Field)
}

func TestValidateTokenRejectsBadTokens(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	svc := NewAuthService(db, "test-secret", time.Hour, nil)
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.ValidateToken(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewAuthService(db, "other-secret", time.Hour, nil)
	foreign, err := other.GenerateToken(userID)
	require.NoError(t, err)
	_, err = svc.ValidateToken(ctx, foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewAuthService(db, "test-secret", -time.Minute, nil)
	stale, err := expired.GenerateToken(userID)
	require.NoError(t, err)
	_, err = svc.ValidateToken(ctx, stale)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &types.TokenClaims{UserID: userID})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.ValidateToken(ctx, unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogoutRevokesToken(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	store := &memoryTokenStore{}
	svc := NewAuthService(db, "test-secret", time.Hour, store)
	ctx := context.Background()

	token, err := svc.GenerateToken(uuid.New())
	require.NoError(t, err)
	claims, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, claims))
	assert.InDelta(t, time.Hour.Seconds(), store.revoked[claims.ID].Seconds(), 5)

	_, err = svc.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// other tokens of the same user stay valid
	again, err := svc.GenerateToken(claims.UserID)
	require.NoError(t, err)
	_, err = svc.ValidateToken(ctx, again)
	assert.NoError(t, err)
}

func TestSetPassword(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	svc := NewAuthService(db, "test-secret", time.Hour, nil)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, db, "cook")

	err := svc.SetPassword(ctx, user.ID, "wrong", "brand-new-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	err = svc.SetPassword(ctx, user.ID, testhelpers.TestPassword, "short")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	require.NoError(t, svc.SetPassword(ctx, user.ID, testhelpers.TestPassword, "brand-new-password"))

	_, err = svc.Login(ctx, user.Email, testhelpers.TestPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, user.Email, "brand-new-password")
	assert.NoError(t, err)

	assert.ErrorIs(t, svc.SetPassword(ctx, uuid.New(), "x", "brand-new-password"), ErrNotFound)
}
