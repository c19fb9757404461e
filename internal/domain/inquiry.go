package domain

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Category classifies what an inquiry is about.
type Category string

const (
	CategoryTechnical Category = "Technical"
	CategoryBilling   Category = "Billing"
	CategoryGeneral   Category = "General"
	CategorySales     Category = "Sales"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryTechnical, CategoryBilling, CategoryGeneral, CategorySales}

// ParseCategory matches s against the known categories, ignoring case and
// surrounding space.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(s, string(c)) {
			return c, true
		}
	}
	return "", false
}

// Urgency is the triage priority of an inquiry.
type Urgency string

const (
	UrgencyLow    Urgency = "Low"
	UrgencyMedium Urgency = "Medium"
	UrgencyHigh   Urgency = "High"
)

// Urgencies lists every urgency in display order.
var Urgencies = []Urgency{UrgencyLow, UrgencyMedium, UrgencyHigh}

// ParseUrgency matches s against the known urgencies, ignoring case and
// surrounding space.
func ParseUrgency(s string) (Urgency, bool) {
	s = strings.TrimSpace(s)
	for _, u := range Urgencies {
		if strings.EqualFold(s, string(u)) {
			return u, true
		}
	}
	return "", false
}

// Inquiry represents a customer support request
type Inquiry struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	Name        string            `gorm:"size:255;not null" json:"name"`
	Email       string            `gorm:"size:255;not null;index" json:"email"`
	Category    Category          `gorm:"size:50;not null;index" json:"category"`
	Urgency     Urgency           `gorm:"size:50;not null;index" json:"urgency"`
	Summary     string            `gorm:"type:text;not null" json:"summary"`
	InquiryText string            `gorm:"column:inquiry_text;type:text;not null" json:"inquiry"`
	CreatedAt   time.Time         `json:"created_at"`
	Responses   []InquiryResponse `gorm:"constraint:OnDelete:CASCADE" json:"responses,omitempty"`
}

// TableName specifies the table name for Inquiry
func (Inquiry) TableName() string {
	return "inquiries"
}

// BeforeCreate hook
func (i *Inquiry) BeforeCreate(tx *gorm.DB) error {
	if i.CreatedAt.IsZero() {
		i.CreatedAt = time.Now().UTC()
	}
	if i.Category == "" {
		i.Category = CategoryGeneral
	}
	if i.Urgency == "" {
		i.Urgency = UrgencyLow
	}
	return nil
}

// InquiryResponse is a manager's reply to an inquiry. Responses are
// appended; the inquiry itself is left untouched.
type InquiryResponse struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	InquiryID uint      `gorm:"not null;index" json:"inquiry_id"`
	Responder string    `gorm:"size:255;not null" json:"responder"`
	Body      string    `gorm:"type:text;not null" json:"response"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for InquiryResponse
func (InquiryResponse) TableName() string {
	return "inquiry_responses"
}

// BeforeCreate hook
func (r *InquiryResponse) BeforeCreate(tx *gorm.DB) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	return nil
}
