package client

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func sampleRow() row {
	gender := "female"
	return row{
		ID:               7,
		FullName:         "Jane Doe",
		IsNewUser:        true,
		Gender:           &gender,
		ContactDate:      "2024-03-01",
		ContactMethod:    "contact",
		ContactSubMethod: "phone",
		Country:          "MN",
		CreatedAt:        time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		UpdatedAt:        time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC),
	}
}

func TestNormalize_DefaultsForAbsentFields(t *testing.T) {
	rec := normalize(sampleRow())

	require.Equal(t, "female", rec.Gender)
	require.Equal(t, "", rec.Phone, "absent optional fields normalize to empty, never nil")
	require.Equal(t, "", rec.Email)
	require.Equal(t, "", rec.ContactContent)
	require.False(t, rec.IsRegistered)
}

func TestNormalize_MonthWeekFallback(t *testing.T) {
	r := sampleRow()
	rec := normalize(r)
	require.Equal(t, "3-1", rec.MonthWeekLabel, "derived from contact date when the store sends none")

	r.MonthWeekLabel = "3-9"
	rec = normalize(r)
	require.Equal(t, "3-9", rec.MonthWeekLabel, "a store-supplied label wins")
}

func TestNormalizeDate(t *testing.T) {
	require.Equal(t, "2024-03-01", normalizeDate("2024-03-01"))
	require.Equal(t, "2024-03-01", normalizeDate("2024-03-01T00:00:00Z"))
	require.Equal(t, "2024-03-01", normalizeDate("2024-03-01T09:30:00+09:00"))
	require.Equal(t, "garbage", normalizeDate("garbage"))
}

func TestDenormalize_UsesViewNamingAndISODate(t *testing.T) {
	rec := normalize(sampleRow())
	rec.ContactDate = "2024-03-05T00:00:00Z"

	data, err := json.Marshal(denormalize(rec))
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	require.Equal(t, "2024-03-05", fields["contactDate"])
	require.Equal(t, "Jane Doe", fields["fullName"])
	require.Contains(t, fields, "isRegistered")
	require.NotContains(t, fields, "full_name")
}

func TestMonthWeeks_DistinctSorted(t *testing.T) {
	records := []Record{
		{MonthWeekLabel: "3-2"},
		{MonthWeekLabel: "3-1"},
		{MonthWeekLabel: "3-2"},
		{MonthWeekLabel: "12-1"},
		{MonthWeekLabel: ""},
	}
	// sorted ascending as strings: "12-1" < "3-1" < "3-2"
	require.Equal(t, []string{"12-1", "3-1", "3-2"}, MonthWeeks(records))
}

func TestFilterRecords(t *testing.T) {
	records := []Record{
		{FullName: "A", Country: "MN", ContactMethod: "contact", MonthWeekLabel: "3-1"},
		{FullName: "B", Country: "DE", ContactMethod: "meeting", MonthWeekLabel: "3-1"},
		{FullName: "C", Country: "DE", ContactMethod: "contact", MonthWeekLabel: "3-2"},
	}

	out := FilterRecords(records, Filter{Country: "DE"})
	require.Len(t, out, 2)

	out = FilterRecords(records, Filter{Country: "DE", ContactMethod: "contact"})
	require.Len(t, out, 1)
	require.Equal(t, "C", out[0].FullName)

	out = FilterRecords(records, Filter{MonthWeek: "3-1", ContactMethod: "meeting"})
	require.Len(t, out, 1)
	require.Equal(t, "B", out[0].FullName)

	require.Len(t, FilterRecords(records, Filter{}), 3)
}

func TestSortRecords(t *testing.T) {
	records := []Record{
		{FullName: "Carol", ContactDate: "2024-01-03", IsRegistered: true},
		{FullName: "Alice", ContactDate: "2024-03-01"},
		{FullName: "Bob", ContactDate: "2024-02-01", IsRegistered: true},
	}

	SortRecords(records, "fullName", true)
	require.Equal(t, "Alice", records[0].FullName)
	require.Equal(t, "Carol", records[2].FullName)

	SortRecords(records, "contactDate", false)
	require.Equal(t, "2024-03-01", records[0].ContactDate)
	require.Equal(t, "2024-01-03", records[2].ContactDate)

	SortRecords(records, "isRegistered", true)
	require.False(t, records[0].IsRegistered)
}

func TestSummarize(t *testing.T) {
	s := Summarize([]Record{{IsRegistered: true}, {}, {IsRegistered: true}})
	require.Equal(t, Summary{Total: 3, Registered: 2}, s)
}
