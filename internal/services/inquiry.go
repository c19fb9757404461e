package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	goa "goa.design/goa/v3/pkg"
	"gorm.io/gorm"

	"inquirydesk/internal/classify"
	"inquirydesk/internal/domain"
	"inquirydesk/internal/metrics"
	"inquirydesk/internal/view"
)

const (
	maxNameLength    = 255
	maxInquiryLength = 5000
	notifyTimeout    = 30 * time.Second
)

// InquiryService implements the inquiry service
type InquiryService struct {
	db         *gorm.DB
	classifier classify.Classifier
	notifier   Notifier
	log        *zap.Logger

	pending sync.WaitGroup
}

// NewInquiryService creates a new inquiry service
func NewInquiryService(db *gorm.DB, classifier classify.Classifier, notifier Notifier, log *zap.Logger) *InquiryService {
	return &InquiryService{
		db:         db,
		classifier: classifier,
		notifier:   notifier,
		log:        log.Named("inquiry"),
	}
}

// Submit stores a customer inquiry and mails a confirmation
func (s *InquiryService) Submit(ctx context.Context, p *SubmitPayload) (*SubmitResult, error) {
	name := strings.TrimSpace(p.Name)
	email := strings.ToLower(strings.TrimSpace(p.Email))
	text := strings.TrimSpace(p.Inquiry)

	s.log.Info("submit request", zap.String("name", name), zap.String("email", email))

	if err := validateSubmission(name, email, text); err != nil {
		s.log.Info("submit failed: validation error", zap.Error(err))
		return nil, MakeBadRequest(err)
	}

	result, err := s.classifier.Classify(ctx, text)
	if err != nil {
		s.log.Warn("classification failed, storing with defaults", zap.Error(err))
		result = classify.Result{
			Category: domain.CategoryGeneral,
			Urgency:  domain.UrgencyLow,
			Summary:  classify.Summarize(text),
		}
	}

	inquiry := &domain.Inquiry{
		Name:        name,
		Email:       email,
		Category:    result.Category,
		Urgency:     result.Urgency,
		Summary:     result.Summary,
		InquiryText: text,
	}

	// Save to database
	if err := s.db.WithContext(ctx).Create(inquiry).Error; err != nil {
		s.log.Error("submit failed: database error", zap.Error(err))
		return nil, fmt.Errorf("failed to save inquiry: %w", err)
	}

	s.log.Info("submit successful",
		zap.Uint("id", inquiry.ID),
		zap.String("category", string(inquiry.Category)),
		zap.String("urgency", string(inquiry.Urgency)))
	metrics.RecordInquirySubmission(string(inquiry.Category), string(inquiry.Urgency))

	stored := *inquiry
	s.notify("confirmation", stored.ID, func(ctx context.Context) error {
		return s.notifier.SendConfirmation(ctx, &stored)
	})

	return &SubmitResult{
		ID:      inquiry.ID,
		Message: "Inquiry submitted successfully",
	}, nil
}

func validateSubmission(name, email, text string) error {
	var err error
	if name == "" {
		err = goa.MergeErrors(err, goa.MissingFieldError("name", "body"))
	} else if utf8.RuneCountInString(name) > maxNameLength {
		err = goa.MergeErrors(err, goa.InvalidLengthError("body.name", name, utf8.RuneCountInString(name), maxNameLength, false))
	}
	if email == "" {
		err = goa.MergeErrors(err, goa.MissingFieldError("email", "body"))
	} else {
		err = goa.MergeErrors(err, goa.ValidateFormat("body.email", email, goa.FormatEmail))
	}
	if text == "" {
		err = goa.MergeErrors(err, goa.MissingFieldError("inquiry", "body"))
	} else if utf8.RuneCountInString(text) > maxInquiryLength {
		err = goa.MergeErrors(err, goa.InvalidLengthError("body.inquiry", text, utf8.RuneCountInString(text), maxInquiryLength, false))
	}
	return err
}

// List returns the inquiries a manager sees on the dashboard, shaped by
// the requested view parameters
func (s *InquiryService) List(ctx context.Context, p *ListPayload) (*ListResult, error) {
	s.log.Info("list request",
		zap.String("sort", string(p.View.SortKey)),
		zap.String("direction", string(p.View.Direction)),
		zap.String("category", p.View.Category),
		zap.String("urgency", p.View.Urgency),
		zap.Bool("search", p.View.Search != ""))

	var inquiries []domain.Inquiry
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&inquiries).Error; err != nil {
		s.log.Error("list failed: database error", zap.Error(err))
		return nil, fmt.Errorf("failed to fetch inquiries: %w", err)
	}

	shaped := view.Apply(inquiries, p.View)
	s.log.Info("list successful", zap.Int("total", len(inquiries)), zap.Int("returned", len(shaped)))
	return &ListResult{Inquiries: shaped}, nil
}

// Get returns one inquiry together with its responses
func (s *InquiryService) Get(ctx context.Context, p *GetPayload) (*domain.Inquiry, error) {
	s.log.Info("get request", zap.Uint("id", p.ID))

	inquiry, err := s.load(ctx, p.ID, true)
	if err != nil {
		return nil, err
	}

	s.log.Info("get successful", zap.Uint("id", inquiry.ID), zap.Int("responses", len(inquiry.Responses)))
	return inquiry, nil
}

// Respond records a manager response and mails it to the customer. The
// inquiry itself is not modified.
func (s *InquiryService) Respond(ctx context.Context, p *RespondPayload) (*MessageResult, error) {
	body := strings.TrimSpace(p.Response)
	s.log.Info("respond request", zap.Uint("id", p.ID))

	if body == "" {
		s.log.Info("respond failed: empty response", zap.Uint("id", p.ID))
		return nil, BadRequest("Response cannot be empty")
	}

	inquiry, err := s.load(ctx, p.ID, false)
	if err != nil {
		return nil, err
	}

	responder := "manager"
	if user, ok := UserFromContext(ctx); ok {
		responder = user.Username
	}

	response := &domain.InquiryResponse{
		InquiryID: inquiry.ID,
		Responder: responder,
		Body:      body,
	}
	if err := s.db.WithContext(ctx).Create(response).Error; err != nil {
		s.log.Error("respond failed: database error", zap.Uint("id", p.ID), zap.Error(err))
		return nil, fmt.Errorf("failed to save response: %w", err)
	}

	s.log.Info("respond successful", zap.Uint("id", inquiry.ID), zap.String("responder", responder))
	metrics.RecordInquiryResponse()

	stored, reply := *inquiry, *response
	s.notify("response", stored.ID, func(ctx context.Context) error {
		return s.notifier.SendResponse(ctx, &stored, &reply)
	})

	return &MessageResult{Message: "Response sent successfully"}, nil
}

func (s *InquiryService) load(ctx context.Context, id uint, withResponses bool) (*domain.Inquiry, error) {
	var inquiry domain.Inquiry
	query := s.db.WithContext(ctx)
	if withResponses {
		query = query.Preload("Responses", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		})
	}
	if err := query.First(&inquiry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Info("inquiry not found", zap.Uint("id", id))
			return nil, NotFound("Inquiry not found")
		}
		s.log.Error("failed to load inquiry", zap.Uint("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to load inquiry: %w", err)
	}
	return &inquiry, nil
}

// notify runs send in the background. Failures are logged and counted but
// never reach the caller.
func (s *InquiryService) notify(kind string, id uint, send func(ctx context.Context) error) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()

		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		err := send(ctx)
		metrics.RecordNotification(kind, err)
		if err != nil {
			s.log.Warn("failed to send notification", zap.String("kind", kind), zap.Uint("id", id), zap.Error(err))
			return
		}
		s.log.Info("notification sent", zap.String("kind", kind), zap.Uint("id", id))
	}()
}

// Wait blocks until every background notification has finished.
func (s *InquiryService) Wait() {
	s.pending.Wait()
}
