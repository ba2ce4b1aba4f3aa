// Package monthweek derives the "{month}-{weekOfMonth}" label used to
// group registrations, with week boundaries aligned to Monday.
package monthweek

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Label returns "{month}-{week}" for t, where week 1 starts on the first
// Monday-aligned week containing the 1st of the month:
//
//	week = ceil((day + ((firstWeekday+6) mod 7)) / 7)
//
// firstWeekday being the Sunday-based weekday of the 1st.
func Label(t time.Time) string {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	offset := (int(first.Weekday()) + 6) % 7
	week := (t.Day() + offset + 6) / 7
	return fmt.Sprintf("%d-%d", int(t.Month()), week)
}

// FromDate derives the label from an ISO "YYYY-MM-DD" string. An
// unparseable date yields an empty label rather than an error; the label
// is presentational only.
func FromDate(date string) string {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return ""
	}
	return Label(t)
}
