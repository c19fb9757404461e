package services

import (
	"context"

	"inquirydesk/internal/domain"
	"inquirydesk/internal/util"
	"inquirydesk/internal/view"
)

// SubmitPayload is the payload of the inquiry submit method.
type SubmitPayload struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Inquiry string `json:"inquiry"`
}

// SubmitResult is the result of the inquiry submit method.
type SubmitResult struct {
	ID      uint   `json:"id"`
	Message string `json:"message"`
}

// ListResult is the result of the manager list method.
type ListResult struct {
	Inquiries []domain.Inquiry `json:"inquiries"`
}

// ListPayload is the payload of the manager list method.
type ListPayload struct {
	View view.Params
}

// GetPayload is the payload of the inquiry show method.
type GetPayload struct {
	ID uint
}

// RespondPayload is the payload of the inquiry respond method.
type RespondPayload struct {
	ID       uint   `json:"-"`
	Response string `json:"response"`
}

// MessageResult is returned by methods that only acknowledge.
type MessageResult struct {
	Message string `json:"message"`
}

// LoginPayload is the payload of the auth login method.
type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult is the result of the auth login method.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Username    string `json:"username"`
	ExpiresAt   string `json:"expires_at"`
}

// UserResult is the public view of a user account.
type UserResult struct {
	ID        uint    `json:"id"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	FullName  *string `json:"full_name,omitempty"`
	IsActive  bool    `json:"is_active"`
	IsAdmin   bool    `json:"is_admin"`
	IsStaff   bool    `json:"is_staff"`
	CreatedAt string  `json:"created_at"`
	LastLogin *string `json:"last_login,omitempty"`
}

// HealthResult is the result of the health check method.
type HealthResult struct {
	Status   string `json:"status"`
	Service  string `json:"service"`
	Database string `json:"database"`
}

type ctxKey int

const (
	userKey ctxKey = iota + 1
	claimsKey
)

// ContextWithUser returns a copy of ctx carrying the authenticated user
// and the claims of the token that authenticated it.
func ContextWithUser(ctx context.Context, user *domain.User, claims *util.Claims) context.Context {
	ctx = context.WithValue(ctx, userKey, user)
	return context.WithValue(ctx, claimsKey, claims)
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userKey).(*domain.User)
	return user, ok && user != nil
}

// ClaimsFromContext returns the claims of the request token, if any.
func ClaimsFromContext(ctx context.Context) (*util.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*util.Claims)
	return claims, ok && claims != nil
}
