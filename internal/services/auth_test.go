package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"goa.design/goa/v3/security"
	"gorm.io/gorm"

	"inquirydesk/internal/config"
	"inquirydesk/internal/domain"
	"inquirydesk/internal/session"
	"inquirydesk/internal/util"
)

var staffScheme = &security.JWTScheme{Name: "jwt", RequiredScopes: []string{ScopeStaff}}

func newAuthService(t *testing.T, db *gorm.DB) *AuthService {
	t.Helper()
	tokens := util.NewTokenManager(config.AuthConfig{
		SecretKey:          "a-test-secret-that-is-long-enough!!",
		TokenExpiryMinutes: 60,
		Issuer:             "inquirydesk",
	})
	return NewAuthService(db, tokens, session.NewMemoryRevoker(), newTestLogger(t))
}

func createUser(t *testing.T, svc *AuthService, username string, staff bool) *domain.User {
	t.Helper()
	user, err := svc.CreateUser(context.Background(), username, username+"@example.com", "s3cret-pass", "", false)
	require.NoError(t, err)
	if !staff {
		require.NoError(t, svc.db.Model(user).Update("is_staff", false).Error)
		user.IsStaff = false
	}
	return user
}

func TestLoginAndJWTAuth(t *testing.T) {
	svc := newAuthService(t, newTestDB(t))
	createUser(t, svc, "manager", true)

	res, err := svc.Login(context.Background(), &LoginPayload{Username: " manager ", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", res.TokenType)
	assert.Equal(t, "manager", res.Username)
	assert.NotEmpty(t, res.ExpiresAt)

	ctx, err := svc.JWTAuth(context.Background(), res.AccessToken, staffScheme)
	require.NoError(t, err)

	me, err := svc.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "manager", me.Username)
	assert.True(t, me.IsStaff)
	require.NotNil(t, me.LastLogin)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newAuthService(t, newTestDB(t))
	createUser(t, svc, "manager", true)

	_, err := svc.Login(context.Background(), &LoginPayload{Username: "manager", Password: "wrong"})
	assert.Equal(t, ErrNameUnauthorized, ErrorName(err))

	_, err = svc.Login(context.Background(), &LoginPayload{Username: "ghost", Password: "s3cret-pass"})
	assert.Equal(t, ErrNameUnauthorized, ErrorName(err))

	_, err = svc.Login(context.Background(), &LoginPayload{Username: "", Password: ""})
	assert.Equal(t, ErrNameBadRequest, ErrorName(err))
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	svc := newAuthService(t, newTestDB(t))
	user := createUser(t, svc, "former", true)
	require.NoError(t, svc.db.Model(user).Update("is_active", false).Error)

	_, err := svc.Login(context.Background(), &LoginPayload{Username: "former", Password: "s3cret-pass"})
	require.Error(t, err)
	assert.Equal(t, "user account is inactive", err.Error())
}

func TestJWTAuthRequiresStaffScope(t *testing.T) {
	svc := newAuthService(t, newTestDB(t))
	createUser(t, svc, "customer", false)

	res, err := svc.Login(context.Background(), &LoginPayload{Username: "customer", Password: "s3cret-pass"})
	require.NoError(t, err)

	_, err = svc.JWTAuth(context.Background(), res.AccessToken, staffScheme)
	require.Error(t, err)
	assert.Equal(t, "insufficient permissions", err.Error())

	_, err = svc.JWTAuth(context.Background(), res.AccessToken, nil)
	assert.NoError(t, err)
}

func TestJWTAuthRejectsGarbage(t *testing.T) {
	svc := newAuthService(t, newTestDB(t))
	_, err := svc.JWTAuth(context.Background(), "garbage", staffScheme)
	assert.Equal(t, ErrNameUnauthorized, ErrorName(err))
}

func TestLogoutRevokesToken(t *testing.T) {
	svc := newAuthService(t, newTestDB(t))
	createUser(t, svc, "manager", true)

	res, err := svc.Login(context.Background(), &LoginPayload{Username: "manager", Password: "s3cret-pass"})
	require.NoError(t, err)

	ctx, err := svc.JWTAuth(context.Background(), res.AccessToken, staffScheme)
	require.NoError(t, err)

	out, err := svc.Logout(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Successfully logged out", out.Message)

	_, err = svc.JWTAuth(context.Background(), res.AccessToken, staffScheme)
	require.Error(t, err)
	assert.Equal(t, "token has been revoked", err.Error())
}

func TestLogoutWithoutSession(t *testing.T) {
	svc := newAuthService(t, newTestDB(t))
	_, err := svc.Logout(context.Background())
	assert.Equal(t, ErrNameUnauthorized, ErrorName(err))
}

func TestCreateUserRejectsDuplicates(t *testing.T) {
	svc := newAuthService(t, newTestDB(t))
	createUser(t, svc, "manager", true)

	_, err := svc.CreateUser(context.Background(), "manager", "other@example.com", "pw", "", false)
	require.Error(t, err)
	assert.Equal(t, "username already registered", err.Error())

	_, err = svc.CreateUser(context.Background(), "other", "MANAGER@example.com", "pw", "", false)
	require.Error(t, err)
	assert.Equal(t, "email already registered", err.Error())
}
