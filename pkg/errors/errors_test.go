package errors

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaxonomy(t *testing.T) {
	validation := Validation("inquiry is required")
	transport := Transport("request failed", context.DeadlineExceeded)
	notFound := Application("request failed", http.StatusNotFound, "Inquiry not found")
	unauthorized := Application("request failed", http.StatusUnauthorized, "")

	assert.True(t, IsValidation(validation))
	assert.False(t, IsTransport(validation))

	assert.True(t, IsTransport(transport))
	assert.ErrorIs(t, transport, context.DeadlineExceeded)

	assert.True(t, IsApplication(notFound))
	assert.True(t, IsNotFound(notFound))
	assert.False(t, IsUnauthorized(notFound))
	assert.True(t, IsUnauthorized(unauthorized))

	assert.False(t, IsApplication(fmt.Errorf("plain")))
}

func TestClassifiersSeeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("load inquiry 7: %w", Application("request failed", http.StatusNotFound, "Inquiry not found"))
	assert.True(t, IsNotFound(err))
	assert.Equal(t, "Inquiry not found", Detail(err))
}

func TestDetail(t *testing.T) {
	assert.Equal(t, "email is invalid", Detail(Validation("email is invalid")))
	assert.Equal(t, "", Detail(Application("request failed", http.StatusInternalServerError, "")))
	assert.Equal(t, "", Detail(Transport("request failed", context.Canceled)))
	assert.Equal(t, "", Detail(nil))
}

func TestErrorString(t *testing.T) {
	err := Application("request failed", http.StatusBadRequest, "Response cannot be empty")
	assert.Equal(t, "APPLICATION_ERROR: request failed (status 400): Response cannot be empty", err.Error())
}
