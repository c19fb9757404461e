package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"inquirydesk/internal/config"
	"inquirydesk/internal/database"
	"inquirydesk/internal/domain"
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) SendConfirmation(ctx context.Context, inq *domain.Inquiry) error {
	return m.Called(inq).Error(0)
}

func (m *mockNotifier) SendResponse(ctx context.Context, inq *domain.Inquiry, resp *domain.InquiryResponse) error {
	return m.Called(inq, resp).Error(0)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{URL: ":memory:"}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func newTestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t, zaptest.Level(zap.WarnLevel))
}

func seedInquiries(t *testing.T, db *gorm.DB, inquiries ...domain.Inquiry) []domain.Inquiry {
	t.Helper()
	for i := range inquiries {
		require.NoError(t, db.Create(&inquiries[i]).Error)
	}
	return inquiries
}
