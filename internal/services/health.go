package services

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"inquirydesk/internal/database"
)

const healthTimeout = 2 * time.Second

// HealthService implements the health service
type HealthService struct {
	db      *gorm.DB
	service string
	log     *zap.Logger
}

// NewHealthService creates a new health service
func NewHealthService(db *gorm.DB, service string, log *zap.Logger) *HealthService {
	return &HealthService{db: db, service: service, log: log.Named("health")}
}

// Check implements the health check method. The API stays "ok" while the
// database is unreachable; the database field reports it.
func (s *HealthService) Check(ctx context.Context) (*HealthResult, error) {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	dbStatus := "ok"
	if err := database.HealthCheck(ctx, s.db); err != nil {
		s.log.Warn("database health check failed", zap.Error(err))
		dbStatus = "unavailable"
	}

	return &HealthResult{
		Status:   "ok",
		Service:  s.service,
		Database: dbStatus,
	}, nil
}
