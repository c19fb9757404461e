package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"goa.design/goa/v3/security"
	"gorm.io/gorm"

	"inquirydesk/internal/domain"
	"inquirydesk/internal/metrics"
	"inquirydesk/internal/session"
	"inquirydesk/internal/util"
)

// Scopes understood by JWTAuth.
const (
	ScopeStaff = "staff"
	ScopeAdmin = "admin"
)

// AuthService implements the auth service
type AuthService struct {
	db      *gorm.DB
	tokens  *util.TokenManager
	revoker session.Revoker
	log     *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(db *gorm.DB, tokens *util.TokenManager, revoker session.Revoker, log *zap.Logger) *AuthService {
	return &AuthService{
		db:      db,
		tokens:  tokens,
		revoker: revoker,
		log:     log.Named("auth"),
	}
}

// JWTAuth implements the authorization logic for the JWT security scheme
func (s *AuthService) JWTAuth(ctx context.Context, token string, schema *security.JWTScheme) (context.Context, error) {
	// Validate JWT token and extract claims
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, Unauthorized("invalid or expired token")
	}

	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check token: %w", err)
	}
	if revoked {
		return nil, Unauthorized("token has been revoked")
	}

	// Get user from database
	user, err := util.GetUserFromToken(s.db.WithContext(ctx), claims)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Unauthorized("user not found")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	// Check if user is active
	if !user.IsActive {
		return nil, Unauthorized("user account is inactive")
	}

	// Check scopes if required
	if schema != nil && len(schema.RequiredScopes) > 0 {
		hasScope := false
		for _, requiredScope := range schema.RequiredScopes {
			if requiredScope == ScopeAdmin && user.IsAdmin {
				hasScope = true
				break
			}
			if requiredScope == ScopeStaff && user.CanManage() {
				hasScope = true
				break
			}
		}
		if !hasScope {
			return nil, Unauthorized("insufficient permissions")
		}
	}

	return ContextWithUser(ctx, user, claims), nil
}

// Login implements the login method
func (s *AuthService) Login(ctx context.Context, p *LoginPayload) (*LoginResult, error) {
	// Trim whitespace from credentials
	username := strings.TrimSpace(p.Username)
	password := strings.TrimSpace(p.Password)

	s.log.Info("login attempt", zap.String("username", username))

	if username == "" || password == "" {
		metrics.RecordAuthAttempt(false)
		return nil, BadRequest("username and password are required")
	}

	var user domain.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		metrics.RecordAuthAttempt(false)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Info("login failed: user not found", zap.String("username", username))
			return nil, Unauthorized("incorrect username or password")
		}
		s.log.Error("login failed: database error", zap.String("username", username), zap.Error(err))
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !util.CheckPasswordHash(password, user.HashedPassword) {
		s.log.Info("login failed: invalid password", zap.String("username", username))
		metrics.RecordAuthAttempt(false)
		return nil, Unauthorized("incorrect username or password")
	}

	if !user.IsActive {
		s.log.Info("login failed: user inactive", zap.String("username", username))
		metrics.RecordAuthAttempt(false)
		return nil, Unauthorized("user account is inactive")
	}

	// Update last login
	now := time.Now().UTC()
	if err := s.db.WithContext(ctx).Model(&user).Update("last_login", now).Error; err != nil {
		s.log.Warn("failed to record last login", zap.String("username", username), zap.Error(err))
	}

	// Generate token
	token, claims, err := s.tokens.GenerateToken(&user)
	if err != nil {
		s.log.Error("login failed: token generation error", zap.String("username", username), zap.Error(err))
		return nil, err
	}

	s.log.Info("login successful",
		zap.String("username", username),
		zap.Uint("id", user.ID),
		zap.Bool("admin", user.IsAdmin),
		zap.Bool("staff", user.IsStaff))
	metrics.RecordAuthAttempt(true)

	return &LoginResult{
		AccessToken: token,
		TokenType:   "bearer",
		Username:    user.Username,
		ExpiresAt:   claims.ExpiresAt.UTC().Format(time.RFC3339),
	}, nil
}

// Logout revokes the token that authenticated the request
func (s *AuthService) Logout(ctx context.Context) (*MessageResult, error) {
	user, ok := UserFromContext(ctx)
	claims, hasClaims := ClaimsFromContext(ctx)
	if !ok || !hasClaims {
		return nil, Unauthorized("not authenticated")
	}

	if err := s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		s.log.Error("logout failed", zap.String("username", user.Username), zap.Error(err))
		return nil, err
	}

	s.log.Info("logout", zap.String("username", user.Username), zap.Uint("id", user.ID))
	return &MessageResult{Message: "Successfully logged out"}, nil
}

// Me implements the me method
func (s *AuthService) Me(ctx context.Context) (*UserResult, error) {
	user, ok := UserFromContext(ctx)
	if !ok {
		return nil, Unauthorized("not authenticated")
	}
	s.log.Debug("me request", zap.String("username", user.Username), zap.Uint("id", user.ID))
	return convertUserToResult(user), nil
}

// CreateUser stores a new manager account. It is used by the create_admin
// command.
func (s *AuthService) CreateUser(ctx context.Context, username, email, password, fullName string, isAdmin bool) (*domain.User, error) {
	// Trim and normalize inputs
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	password = strings.TrimSpace(password)

	s.log.Info("create user request", zap.String("username", username), zap.String("email", email))

	if username == "" || password == "" {
		return nil, BadRequest("username and password are required")
	}

	// Check if username or email exists
	var existing domain.User
	err := s.db.WithContext(ctx).Where("username = ? OR email = ?", username, email).First(&existing).Error
	if err == nil {
		if existing.Username == username {
			return nil, BadRequest("username already registered")
		}
		return nil, BadRequest("email already registered")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing users: %w", err)
	}

	// Hash password
	hashedPassword, err := util.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := domain.User{
		Username:       username,
		Email:          email,
		HashedPassword: hashedPassword,
		IsActive:       true,
		IsAdmin:        isAdmin,
		IsStaff:        true,
	}
	if name := strings.TrimSpace(fullName); name != "" {
		user.FullName = &name
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		s.log.Error("create user failed: database error", zap.Error(err))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Info("create user successful", zap.String("username", username), zap.Uint("id", user.ID))
	return &user, nil
}

// Helper function to convert User model to UserResult
func convertUserToResult(user *domain.User) *UserResult {
	result := &UserResult{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FullName:  user.FullName,
		IsActive:  user.IsActive,
		IsAdmin:   user.IsAdmin,
		IsStaff:   user.IsStaff,
		CreatedAt: user.CreatedAt.UTC().Format(time.RFC3339),
	}
	if user.LastLogin != nil {
		lastLogin := user.LastLogin.UTC().Format(time.RFC3339)
		result.LastLogin = &lastLogin
	}
	return result
}
