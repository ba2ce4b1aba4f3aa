package main

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"registration-backend/monthweek"
)

// Contact method enums. The sub-method domain depends on the method:
// changing the method invalidates a previously chosen sub-method.
const (
	MethodContact = "contact"
	MethodMeeting = "meeting"
)

var subMethodDomains = map[string][]string{
	MethodContact: {"phone", "messenger"},
	MethodMeeting: {"online", "offline"},
}

// Registration is the sole persisted entity. JSON tags are the wire
// contract: rows go out in snake_case, the client adapter owns the
// camelCase view naming.
type Registration struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	FullName         string    `json:"full_name" gorm:"not null"`
	IsNewUser        bool      `json:"is_new_user" gorm:"not null"`
	Gender           *string   `json:"gender"`
	Phone            *string   `json:"phone"`
	Email            *string   `json:"email"`
	Position         *string   `json:"position"`
	Organization     *string   `json:"organization"`
	ContactDate      string    `json:"contact_date" gorm:"type:varchar(10);not null"`
	ContactMethod    string    `json:"contact_method" gorm:"type:varchar(16);not null"`
	ContactSubMethod string    `json:"contact_sub_method" gorm:"type:varchar(16);not null"`
	ContactContent   *string   `json:"contact_content"`
	Country          string    `json:"country" gorm:"type:varchar(2);not null;default:'MN'"`
	IsRegistered     bool      `json:"is_registered" gorm:"not null"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	// Derived from ContactDate on every read, never stored.
	MonthWeekLabel string `json:"month_week_label" gorm:"-"`
}

func (r *Registration) DeriveMonthWeek() {
	r.MonthWeekLabel = monthweek.FromDate(r.ContactDate)
}

// RegistrationInput is one element of the batch-create body. The form
// submits first and last name separately; full_name exists only after save.
type RegistrationInput struct {
	FirstName        string `json:"firstName" binding:"required"`
	LastName         string `json:"lastName" binding:"required"`
	IsNewUser        *bool  `json:"isNewUser" binding:"required"`
	Gender           string `json:"gender"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
	Position         string `json:"position"`
	Organization     string `json:"organization"`
	ContactDate      string `json:"contactDate" binding:"required,datetime=2006-01-02"`
	ContactMethod    string `json:"contactMethod" binding:"required,oneof=contact meeting"`
	ContactSubMethod string `json:"contactSubMethod" binding:"required"`
	ContactContent   string `json:"contactContent"`
	Country          string `json:"country" binding:"omitempty,oneof=MN DE RO AZ"`
}

func (r RegistrationInput) ToModel() Registration {
	country := r.Country
	if country == "" {
		country = "MN"
	}
	return Registration{
		FullName:         strings.TrimSpace(r.FirstName + " " + r.LastName),
		IsNewUser:        *r.IsNewUser,
		Gender:           optional(r.Gender),
		Phone:            optional(r.Phone),
		Email:            optional(r.Email),
		Position:         optional(r.Position),
		Organization:     optional(r.Organization),
		ContactDate:      r.ContactDate,
		ContactMethod:    r.ContactMethod,
		ContactSubMethod: r.ContactSubMethod,
		ContactContent:   optional(r.ContactContent),
		Country:          country,
		// Always created unregistered, whatever the client claims.
		IsRegistered: false,
	}
}

type CreateRegistrationsRequest struct {
	Registrations []RegistrationInput `json:"registrations" binding:"required,min=1,dive"`
}

// UpdateRegistrationRequest is a full overwrite: omitted optional fields
// become null, so callers must always submit the complete record.
// Country is not mutable here, matching the admin edit form.
type UpdateRegistrationRequest struct {
	FullName         string `json:"fullName" binding:"required"`
	IsNewUser        *bool  `json:"isNewUser" binding:"required"`
	Gender           string `json:"gender"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
	Position         string `json:"position"`
	Organization     string `json:"organization"`
	ContactDate      string `json:"contactDate" binding:"required,datetime=2006-01-02"`
	ContactMethod    string `json:"contactMethod" binding:"required,oneof=contact meeting"`
	ContactSubMethod string `json:"contactSubMethod" binding:"required"`
	ContactContent   string `json:"contactContent"`
	IsRegistered     *bool  `json:"isRegistered" binding:"required"`
}

type PatchStatusRequest struct {
	IsRegistered *bool `json:"isRegistered" binding:"required"`
}

type AdminLoginRequest struct {
	Password string `json:"password" binding:"required"`
}

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// RegisterValidations hooks the sub-method domain rule into gin's
// validator engine.
func RegisterValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterStructValidation(subMethodStructLevel, RegistrationInput{}, UpdateRegistrationRequest{})
}

func subMethodStructLevel(sl validator.StructLevel) {
	var method, sub string
	switch s := sl.Current().Interface().(type) {
	case RegistrationInput:
		method, sub = s.ContactMethod, s.ContactSubMethod
	case UpdateRegistrationRequest:
		method, sub = s.ContactMethod, s.ContactSubMethod
	}

	domain, ok := subMethodDomains[method]
	if !ok {
		// oneof on the method already reports this
		return
	}
	for _, allowed := range domain {
		if sub == allowed {
			return
		}
	}
	sl.ReportError(sub, "ContactSubMethod", "contactSubMethod", "submethod", method)
}
