// Package client is the typed REST client the desk uses to talk to the
// inquiry API. Every failure is reported through pkg/errors: validation
// errors are raised before a request is built, transport errors when no
// response arrived, and application errors for non-2xx responses.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	goa "goa.design/goa/v3/pkg"

	"inquirydesk/internal/domain"
	"inquirydesk/internal/services"
	"inquirydesk/internal/view"
	apperrors "inquirydesk/pkg/errors"
)

const defaultTimeout = 15 * time.Second

// Client calls the inquiry API.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// New creates a client for the API at baseURL. A zero timeout selects the
// default of 15 seconds.
func New(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log.Named("client"),
	}
}

// BaseURL returns the API root the client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Health reports the API health.
func (c *Client) Health(ctx context.Context) (*services.HealthResult, error) {
	var out services.HealthResult
	if err := c.do(ctx, http.MethodGet, "/api/health", "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ValidateSubmission checks a submission the way the API will, so obviously
// bad input never leaves the terminal.
func ValidateSubmission(p services.SubmitPayload) error {
	name := strings.TrimSpace(p.Name)
	email := strings.TrimSpace(p.Email)
	text := strings.TrimSpace(p.Inquiry)

	if name == "" || email == "" || text == "" {
		return apperrors.Validation("Please fill in all fields")
	}
	if err := goa.ValidateFormat("email", email, goa.FormatEmail); err != nil {
		return apperrors.Validation("Please enter a valid email address")
	}
	return nil
}

// SubmitInquiry sends a customer inquiry.
func (c *Client) SubmitInquiry(ctx context.Context, p services.SubmitPayload) (*services.SubmitResult, error) {
	if err := ValidateSubmission(p); err != nil {
		return nil, err
	}
	body := services.SubmitPayload{
		Name:    strings.TrimSpace(p.Name),
		Email:   strings.TrimSpace(p.Email),
		Inquiry: strings.TrimSpace(p.Inquiry),
	}

	var out services.SubmitResult
	if err := c.do(ctx, http.MethodPost, "/api/inquiries", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListInquiries fetches the manager list. Non-default params are sent as
// query parameters so the server applies the same view.
func (c *Client) ListInquiries(ctx context.Context, sess Session, params view.Params) ([]domain.Inquiry, error) {
	path := "/api/manager/inquiries"
	if q := params.Values().Encode(); q != "" {
		path += "?" + q
	}

	var out services.ListResult
	if err := c.do(ctx, http.MethodGet, path, sess.Token, nil, &out); err != nil {
		return nil, err
	}
	if out.Inquiries == nil {
		out.Inquiries = []domain.Inquiry{}
	}
	return out.Inquiries, nil
}

// GetInquiry fetches one inquiry with its responses. A 2xx answer without
// a record is reported as an application error.
func (c *Client) GetInquiry(ctx context.Context, sess Session, id uint) (*domain.Inquiry, error) {
	var out domain.Inquiry
	if err := c.do(ctx, http.MethodGet, inquiryPath(id), sess.Token, nil, &out); err != nil {
		return nil, err
	}
	if out.ID == 0 {
		return nil, apperrors.Application("empty inquiry record", http.StatusOK, "")
	}
	return &out, nil
}

// Respond records a manager response to an inquiry.
func (c *Client) Respond(ctx context.Context, sess Session, id uint, response string) (*services.MessageResult, error) {
	response = strings.TrimSpace(response)
	if response == "" {
		return nil, apperrors.Validation("Response cannot be empty")
	}

	var out services.MessageResult
	body := services.RespondPayload{Response: response}
	if err := c.do(ctx, http.MethodPost, inquiryPath(id)+"/respond", sess.Token, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, username, password string) (Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return Session{}, apperrors.Validation("Please enter username and password")
	}

	var out services.LoginResult
	body := services.LoginPayload{Username: username, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", "", body, &out); err != nil {
		return Session{}, err
	}
	return NewSession(out)
}

// Logout revokes the session token on the server.
func (c *Client) Logout(ctx context.Context, sess Session) error {
	var out services.MessageResult
	return c.do(ctx, http.MethodPost, "/api/auth/logout", sess.Token, nil, &out)
}

// Me returns the account behind the session.
func (c *Client) Me(ctx context.Context, sess Session) (*services.UserResult, error) {
	var out services.UserResult
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", sess.Token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func inquiryPath(id uint) string {
	return "/api/inquiries/" + strconv.FormatUint(uint64(id), 10)
}

type errorBody struct {
	Detail string `json:"detail"`
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return apperrors.Transport("build request", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return apperrors.Transport(fmt.Sprintf("%s %s", method, path), err)
	}
	defer resp.Body.Close()

	c.log.Debug("request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.Transport("read response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.Unmarshal(raw, &eb)
		return apperrors.Application(fmt.Sprintf("%s %s", method, path), resp.StatusCode, eb.Detail)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return apperrors.Application("decode response", resp.StatusCode, "")
	}
	return nil
}
