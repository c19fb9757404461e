package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inquirydesk/internal/config"
	"inquirydesk/internal/domain"
	"inquirydesk/internal/services"
	"inquirydesk/internal/util"
	"inquirydesk/internal/view"
	apperrors "inquirydesk/pkg/errors"
)

// countingServer wraps handler and counts every request that reaches it.
func countingServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	hits := &atomic.Int32{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, hits
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestSubmitInquiryValidatesBeforeNetwork(t *testing.T) {
	srv, hits := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, services.SubmitResult{ID: 1})
	})
	c := New(srv.URL, time.Second, nil)

	tests := []struct {
		name    string
		payload services.SubmitPayload
	}{
		{"empty inquiry", services.SubmitPayload{Name: "Jane", Email: "jane@example.com", Inquiry: ""}},
		{"whitespace name", services.SubmitPayload{Name: "   ", Email: "jane@example.com", Inquiry: "Help"}},
		{"bad email", services.SubmitPayload{Name: "Jane", Email: "jane-at-example", Inquiry: "Help"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.SubmitInquiry(context.Background(), tt.payload)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
			assert.NotEmpty(t, apperrors.Detail(err))
		})
	}
	assert.Zero(t, hits.Load())
}

func TestSubmitInquiry(t *testing.T) {
	var got services.SubmitPayload
	srv, hits := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/inquiries", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusCreated, services.SubmitResult{ID: 7, Message: "Inquiry submitted successfully"})
	})
	c := New(srv.URL+"/", time.Second, nil)

	res, err := c.SubmitInquiry(context.Background(), services.SubmitPayload{
		Name: " Jane ", Email: "jane@example.com", Inquiry: " My invoice is wrong. ",
	})
	require.NoError(t, err)
	assert.Equal(t, uint(7), res.ID)
	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, "Jane", got.Name)
	assert.Equal(t, "My invoice is wrong.", got.Inquiry)
}

func TestApplicationErrors(t *testing.T) {
	srv, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/inquiries/404":
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Inquiry not found"})
		case "/api/inquiries/500":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Not authenticated"})
		}
	})
	c := New(srv.URL, time.Second, nil)
	sess := Session{Token: "t"}

	_, err := c.GetInquiry(context.Background(), sess, 404)
	require.Error(t, err)
	assert.True(t, apperrors.IsApplication(err))
	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, "Inquiry not found", apperrors.Detail(err))

	_, err = c.GetInquiry(context.Background(), sess, 500)
	require.Error(t, err)
	assert.True(t, apperrors.IsApplication(err))
	assert.Empty(t, apperrors.Detail(err))

	_, err = c.ListInquiries(context.Background(), sess, view.Default())
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestGetInquiryRejectsEmptyRecord(t *testing.T) {
	srv, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{})
	})
	c := New(srv.URL, time.Second, nil)

	_, err := c.GetInquiry(context.Background(), Session{Token: "t"}, 3)
	require.Error(t, err)
	assert.True(t, apperrors.IsApplication(err))
	assert.False(t, apperrors.IsNotFound(err))
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url, time.Second, nil)
	_, err := c.Health(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsTransport(err))
	assert.False(t, apperrors.IsApplication(err))
}

func TestListInquiriesSendsTokenAndView(t *testing.T) {
	srv, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "urgency", r.URL.Query().Get("sort"))
		assert.Equal(t, "Billing", r.URL.Query().Get("category"))
		writeJSON(w, http.StatusOK, services.ListResult{Inquiries: []domain.Inquiry{{ID: 2, Name: "Jane"}}})
	})
	c := New(srv.URL, time.Second, nil)

	p := view.Default().Toggle(view.SortUrgency)
	p.Category = string(domain.CategoryBilling)
	list, err := c.ListInquiries(context.Background(), Session{Token: "tok"}, p)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Jane", list[0].Name)
}

func TestListInquiriesEmpty(t *testing.T) {
	srv, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"inquiries": nil})
	})
	c := New(srv.URL, time.Second, nil)

	list, err := c.ListInquiries(context.Background(), Session{Token: "tok"}, view.Default())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestRespond(t *testing.T) {
	srv, hits := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/inquiries/9/respond", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Thanks!", body["response"])
		writeJSON(w, http.StatusOK, services.MessageResult{Message: "Response sent successfully"})
	})
	c := New(srv.URL, time.Second, nil)

	_, err := c.Respond(context.Background(), Session{Token: "t"}, 9, "  \n ")
	assert.True(t, apperrors.IsValidation(err))
	assert.Zero(t, hits.Load())

	res, err := c.Respond(context.Background(), Session{Token: "t"}, 9, " Thanks! ")
	require.NoError(t, err)
	assert.Equal(t, "Response sent successfully", res.Message)
	assert.Equal(t, int32(1), hits.Load())
}

func TestLoginBuildsSession(t *testing.T) {
	tokens := util.NewTokenManager(config.AuthConfig{
		SecretKey:          "a-test-secret-that-is-long-enough!!",
		TokenExpiryMinutes: 30,
		Issuer:             "inquirydesk",
	})
	token, claims, err := tokens.GenerateToken(&domain.User{Username: "manager", IsStaff: true})
	require.NoError(t, err)

	srv, hits := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, services.LoginResult{AccessToken: token, TokenType: "bearer", Username: "manager"})
	})
	c := New(srv.URL, time.Second, nil)

	_, err = c.Login(context.Background(), "", "")
	assert.True(t, apperrors.IsValidation(err))
	assert.Zero(t, hits.Load())

	sess, err := c.Login(context.Background(), "manager", "pw")
	require.NoError(t, err)
	assert.Equal(t, "manager", sess.Username)
	assert.Equal(t, claims.ID, sess.ID)
	assert.WithinDuration(t, claims.ExpiresAt.Time, sess.ExpiresAt, time.Second)
	assert.True(t, sess.Valid(time.Now()))
	assert.False(t, sess.Valid(sess.ExpiresAt.Add(time.Second)))
}

func TestSessionValid(t *testing.T) {
	assert.False(t, Session{}.Valid(time.Now()))
	assert.True(t, Session{Token: "t"}.Valid(time.Now()))
}
