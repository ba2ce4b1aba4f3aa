// Package client wraps the registrations API and bridges the wire naming
// (snake_case rows) and the view naming (camelCase records) so UI code
// never observes persistence fields directly.
package client

import (
	"sort"
	"time"

	"registration-backend/monthweek"
)

const dateLayout = "2006-01-02"

// Record is the UI-facing view model. Optional fields default to "" and
// booleans to false, never to an absent value.
type Record struct {
	ID               uint      `json:"id"`
	FullName         string    `json:"fullName"`
	IsNewUser        bool      `json:"isNewUser"`
	Gender           string    `json:"gender"`
	Phone            string    `json:"phone"`
	Email            string    `json:"email"`
	Position         string    `json:"position"`
	Organization     string    `json:"organization"`
	ContactDate      string    `json:"contactDate"`
	ContactMethod    string    `json:"contactMethod"`
	ContactSubMethod string    `json:"contactSubMethod"`
	ContactContent   string    `json:"contactContent"`
	Country          string    `json:"country"`
	IsRegistered     bool      `json:"isRegistered"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
	MonthWeekLabel   string    `json:"monthWeekLabel"`
}

// row mirrors the API's persistence-named response shape.
type row struct {
	ID               uint      `json:"id"`
	FullName         string    `json:"full_name"`
	IsNewUser        bool      `json:"is_new_user"`
	Gender           *string   `json:"gender"`
	Phone            *string   `json:"phone"`
	Email            *string   `json:"email"`
	Position         *string   `json:"position"`
	Organization     *string   `json:"organization"`
	ContactDate      string    `json:"contact_date"`
	ContactMethod    string    `json:"contact_method"`
	ContactSubMethod string    `json:"contact_sub_method"`
	ContactContent   *string   `json:"contact_content"`
	Country          string    `json:"country"`
	IsRegistered     bool      `json:"is_registered"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	MonthWeekLabel   string    `json:"month_week_label"`
}

func normalize(r row) Record {
	rec := Record{
		ID:               r.ID,
		FullName:         r.FullName,
		IsNewUser:        r.IsNewUser,
		Gender:           deref(r.Gender),
		Phone:            deref(r.Phone),
		Email:            deref(r.Email),
		Position:         deref(r.Position),
		Organization:     deref(r.Organization),
		ContactDate:      normalizeDate(r.ContactDate),
		ContactMethod:    r.ContactMethod,
		ContactSubMethod: r.ContactSubMethod,
		ContactContent:   deref(r.ContactContent),
		Country:          r.Country,
		IsRegistered:     r.IsRegistered,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
		MonthWeekLabel:   r.MonthWeekLabel,
	}
	// Trust a server-supplied label, fall back to deriving it locally.
	if rec.MonthWeekLabel == "" {
		rec.MonthWeekLabel = monthweek.FromDate(rec.ContactDate)
	}
	return rec
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// normalizeDate reduces whatever date representation the store hands back
// to ISO "YYYY-MM-DD".
func normalizeDate(s string) string {
	if _, err := time.Parse(dateLayout, s); err == nil {
		return s
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format(dateLayout)
	}
	if len(s) >= len(dateLayout) {
		if _, err := time.Parse(dateLayout, s[:len(dateLayout)]); err == nil {
			return s[:len(dateLayout)]
		}
	}
	return s
}

// updatePayload is the camelCase write shape for full updates.
type updatePayload struct {
	FullName         string `json:"fullName"`
	IsNewUser        bool   `json:"isNewUser"`
	Gender           string `json:"gender"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
	Position         string `json:"position"`
	Organization     string `json:"organization"`
	ContactDate      string `json:"contactDate"`
	ContactMethod    string `json:"contactMethod"`
	ContactSubMethod string `json:"contactSubMethod"`
	ContactContent   string `json:"contactContent"`
	IsRegistered     bool   `json:"isRegistered"`
}

func denormalize(rec Record) updatePayload {
	return updatePayload{
		FullName:         rec.FullName,
		IsNewUser:        rec.IsNewUser,
		Gender:           rec.Gender,
		Phone:            rec.Phone,
		Email:            rec.Email,
		Position:         rec.Position,
		Organization:     rec.Organization,
		ContactDate:      normalizeDate(rec.ContactDate),
		ContactMethod:    rec.ContactMethod,
		ContactSubMethod: rec.ContactSubMethod,
		ContactContent:   rec.ContactContent,
		IsRegistered:     rec.IsRegistered,
	}
}

// NewRegistration is the form's pre-save shape: first and last name are
// still separate, the server merges them.
type NewRegistration struct {
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	IsNewUser        bool   `json:"isNewUser"`
	Gender           string `json:"gender,omitempty"`
	Phone            string `json:"phone,omitempty"`
	Email            string `json:"email,omitempty"`
	Position         string `json:"position,omitempty"`
	Organization     string `json:"organization,omitempty"`
	ContactDate      string `json:"contactDate"`
	ContactMethod    string `json:"contactMethod"`
	ContactSubMethod string `json:"contactSubMethod"`
	ContactContent   string `json:"contactContent,omitempty"`
	Country          string `json:"country,omitempty"`
}

// MonthWeeks returns the distinct month-week labels observed in records,
// sorted ascending as strings, for the admin filter control.
func MonthWeeks(records []Record) []string {
	seen := make(map[string]struct{})
	labels := make([]string, 0)
	for _, r := range records {
		if r.MonthWeekLabel == "" {
			continue
		}
		if _, ok := seen[r.MonthWeekLabel]; ok {
			continue
		}
		seen[r.MonthWeekLabel] = struct{}{}
		labels = append(labels, r.MonthWeekLabel)
	}
	sort.Strings(labels)
	return labels
}

// Filter holds the in-memory exact-match filters; empty values match all.
type Filter struct {
	Country       string
	MonthWeek     string
	ContactMethod string
}

func FilterRecords(records []Record, f Filter) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if f.Country != "" && r.Country != f.Country {
			continue
		}
		if f.MonthWeek != "" && r.MonthWeekLabel != f.MonthWeek {
			continue
		}
		if f.ContactMethod != "" && r.ContactMethod != f.ContactMethod {
			continue
		}
		out = append(out, r)
	}
	return out
}

// SortRecords orders records in place by the given view field; unknown
// fields sort by CreatedAt. Descending when asc is false.
func SortRecords(records []Record, field string, asc bool) {
	less := func(a, b Record) bool { return a.CreatedAt.Before(b.CreatedAt) }
	switch field {
	case "fullName":
		less = func(a, b Record) bool { return a.FullName < b.FullName }
	case "contactDate":
		less = func(a, b Record) bool { return a.ContactDate < b.ContactDate }
	case "contactMethod":
		less = func(a, b Record) bool { return a.ContactMethod < b.ContactMethod }
	case "isRegistered":
		less = func(a, b Record) bool { return !a.IsRegistered && b.IsRegistered }
	case "country":
		less = func(a, b Record) bool { return a.Country < b.Country }
	}

	sort.SliceStable(records, func(i, j int) bool {
		if asc {
			return less(records[i], records[j])
		}
		return less(records[j], records[i])
	})
}

// Summary mirrors the admin footer counts.
type Summary struct {
	Total      int
	Registered int
}

func Summarize(records []Record) Summary {
	s := Summary{Total: len(records)}
	for _, r := range records {
		if r.IsRegistered {
			s.Registered++
		}
	}
	return s
}
