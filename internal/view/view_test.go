package view

import (
	"encoding/json"
	"net/url"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inquirydesk/internal/domain"
)

func ids(list []domain.Inquiry) []uint {
	out := make([]uint, 0, len(list))
	for _, inq := range list {
		out = append(out, inq.ID)
	}
	return out
}

func at(day int) time.Time {
	return time.Date(2024, time.March, day, 9, 30, 0, 0, time.UTC)
}

// sampleInquiries mirrors the five records the dashboard shipped with
// before it was backed by the API.
func sampleInquiries() []domain.Inquiry {
	return []domain.Inquiry{
		{ID: 1, Name: "John Doe", Email: "john.doe@example.com", Category: domain.CategoryTechnical, Urgency: domain.UrgencyHigh,
			Summary: "Cannot log into account", InquiryText: "I keep getting an error when I try to log in.", CreatedAt: at(1)},
		{ID: 2, Name: "Jane Smith", Email: "jane.smith@example.com", Category: domain.CategoryBilling, Urgency: domain.UrgencyMedium,
			Summary: "Charged twice this month", InquiryText: "My card was billed twice for the March invoice.", CreatedAt: at(2)},
		{ID: 3, Name: "Bob Johnson", Email: "bob.johnson@example.com", Category: domain.CategorySales, Urgency: domain.UrgencyLow,
			Summary: "Asks about team pricing", InquiryText: "Do you offer discounts for teams of ten?", CreatedAt: at(3)},
		{ID: 4, Name: "Alice Brown", Email: "alice.brown@example.com", Category: domain.CategoryGeneral, Urgency: domain.UrgencyLow,
			Summary: "Office hours question", InquiryText: "What are your support hours on weekends?", CreatedAt: at(4)},
		{ID: 5, Name: "Charlie Davis", Email: "charlie.davis@example.com", Category: domain.CategoryTechnical, Urgency: domain.UrgencyMedium,
			Summary: "Export fails with timeout", InquiryText: "The CSV export times out for large reports.", CreatedAt: at(5)},
	}
}

func TestApplyDefaultKeepsInputOrder(t *testing.T) {
	list := sampleInquiries()
	slices.Reverse(list)

	got := Apply(list, Default())
	assert.Equal(t, ids(list), ids(got))
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	list := sampleInquiries()
	before := ids(list)

	p := Default()
	p.SortKey, p.Direction = SortID, Descending
	p.Category = string(domain.CategoryTechnical)
	_ = Apply(list, p)

	assert.Equal(t, before, ids(list))
}

func TestApplyEmptyInput(t *testing.T) {
	got := Apply(nil, Default().Toggle(SortCategory))
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestSortDescendingMirrorsAscending(t *testing.T) {
	list := sampleInquiries()
	slices.Reverse(list)

	asc := Sort(list, SortID, Ascending)
	desc := Sort(list, SortID, Descending)

	assert.Equal(t, []uint{1, 2, 3, 4, 5}, ids(asc))
	reversed := slices.Clone(asc)
	slices.Reverse(reversed)
	assert.Equal(t, ids(reversed), ids(desc))
}

func TestSortIsNumericOnID(t *testing.T) {
	list := []domain.Inquiry{{ID: 10}, {ID: 9}, {ID: 100}, {ID: 2}}
	assert.Equal(t, []uint{2, 9, 10, 100}, ids(Sort(list, SortID, Ascending)))
}

func TestSortKeepsTiesInInputOrder(t *testing.T) {
	list := sampleInquiries()

	asc := Sort(list, SortCategory, Ascending)
	// Billing, General, Sales, Technical(1, 5)
	assert.Equal(t, []uint{2, 4, 3, 1, 5}, ids(asc))

	desc := Sort(list, SortCategory, Descending)
	// Technical ties keep 1 before 5 in both directions.
	assert.Equal(t, []uint{1, 5, 3, 4, 2}, ids(desc))

	byUrgency := Sort(list, SortUrgency, Ascending)
	// High, Low(3, 4), Medium(2, 5)
	assert.Equal(t, []uint{1, 3, 4, 2, 5}, ids(byUrgency))
}

func TestToggle(t *testing.T) {
	p := Default()

	p = p.Toggle(SortID)
	assert.Equal(t, SortID, p.SortKey)
	assert.Equal(t, Ascending, p.Direction)

	p = p.Toggle(SortID)
	assert.Equal(t, Descending, p.Direction)

	p = p.Toggle(SortID)
	assert.Equal(t, Ascending, p.Direction)

	p = p.Toggle(SortID).Toggle(SortUrgency)
	assert.Equal(t, SortUrgency, p.SortKey)
	assert.Equal(t, Ascending, p.Direction)
}

func TestToggleTwiceReversesSingleAscendingPass(t *testing.T) {
	list := sampleInquiries()
	slices.Reverse(list)

	once := Apply(list, Default().Toggle(SortID))
	twice := Apply(list, Default().Toggle(SortID).Toggle(SortID))

	reversed := slices.Clone(once)
	slices.Reverse(reversed)
	assert.Equal(t, ids(reversed), ids(twice))
}

func TestIndicator(t *testing.T) {
	p := Default()
	assert.Empty(t, p.Indicator(SortID))

	p = p.Toggle(SortID)
	assert.Equal(t, " ▲", p.Indicator(SortID))
	assert.Empty(t, p.Indicator(SortCategory))

	p = p.Toggle(SortID)
	assert.Equal(t, " ▼", p.Indicator(SortID))
}

func TestFilterByCategory(t *testing.T) {
	list := []domain.Inquiry{
		{ID: 1, Category: domain.CategoryTechnical, Urgency: domain.UrgencyHigh},
		{ID: 2, Category: domain.CategoryBilling, Urgency: domain.UrgencyMedium},
	}
	p := Default()
	p.Category = string(domain.CategoryTechnical)

	assert.Equal(t, []uint{1}, ids(Apply(list, p)))
}

func TestFilterByUrgencyAndCategory(t *testing.T) {
	p := Default()
	p.Category = string(domain.CategoryTechnical)
	p.Urgency = string(domain.UrgencyMedium)

	assert.Equal(t, []uint{5}, ids(Apply(sampleInquiries(), p)))
}

func TestFilterPassThroughKeepsEveryRecord(t *testing.T) {
	list := sampleInquiries()
	for _, key := range append([]SortKey{SortNone}, SortKeys...) {
		for _, dir := range []Direction{Ascending, Descending} {
			p := Default()
			p.SortKey, p.Direction = key, dir
			require.True(t, p.IsPassThrough())

			got := Apply(list, p)
			assert.ElementsMatch(t, ids(list), ids(got), "sort=%s dir=%s", key, dir)
		}
	}
}

func TestFilterIsIdempotent(t *testing.T) {
	cases := []Params{
		{Category: string(domain.CategoryTechnical), Urgency: All},
		{Category: All, Urgency: string(domain.UrgencyLow)},
		{Category: All, Urgency: All, Search: "example.com"},
		{Category: string(domain.CategoryBilling), Urgency: All, Search: "twice"},
	}
	for _, p := range cases {
		once := Filter(sampleInquiries(), p)
		assert.Equal(t, ids(once), ids(Filter(once, p)))
	}
}

func TestSearchJane(t *testing.T) {
	p := Default()
	p.Search = "jane"

	got := Apply(sampleInquiries(), p)
	require.Len(t, got, 1)
	assert.Equal(t, "jane.smith@example.com", got[0].Email)
}

func TestSearchIsCaseInsensitiveAcrossFields(t *testing.T) {
	list := sampleInquiries()
	tests := []struct {
		term string
		want []uint
	}{
		{"JOHN", []uint{1, 3}},
		{"technical", []uint{1, 5}},
		{"medium", []uint{2, 5}},
		{"pricing", []uint{3}},
		{"csv export", []uint{5}},
		{"2024-03-04", []uint{4}},
		{"5", []uint{5}},
		{"nothing matches this", []uint{}},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			p := Default()
			p.Search = tt.term
			assert.Equal(t, tt.want, ids(Apply(list, p)))
		})
	}
}

func TestFieldsMatchServedTimestamp(t *testing.T) {
	inq := sampleInquiries()[0]
	inq.CreatedAt = time.Date(2024, time.March, 1, 9, 30, 0, 123456000, time.UTC)

	served, err := json.Marshal(inq.CreatedAt)
	require.NoError(t, err)
	assert.Contains(t, Fields(inq), strings.Trim(string(served), `"`))

	p := Default()
	p.Search = "09:30:00.123456"
	assert.Equal(t, []uint{1}, ids(Apply([]domain.Inquiry{inq}, p)))
}

func TestParseParams(t *testing.T) {
	p, err := ParseParams(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, Default(), p)

	p, err = ParseParams(url.Values{
		"sort":      {"urgency"},
		"direction": {"desc"},
		"category":  {"billing"},
		"urgency":   {"all"},
		"q":         {"Invoice"},
	})
	require.NoError(t, err)
	assert.Equal(t, Params{
		SortKey:   SortUrgency,
		Direction: Descending,
		Category:  "Billing",
		Urgency:   All,
		Search:    "Invoice",
	}, p)
}

func TestParseParamsRejectsUnknownValues(t *testing.T) {
	for _, values := range []url.Values{
		{"sort": {"name"}},
		{"direction": {"sideways"}},
		{"category": {"Returns"}},
		{"urgency": {"Critical"}},
	} {
		_, err := ParseParams(values)
		assert.Error(t, err, values.Encode())
	}
}

func TestValuesRoundTrip(t *testing.T) {
	p := Default().Toggle(SortCategory).Toggle(SortCategory)
	p.Urgency = string(domain.UrgencyHigh)
	p.Search = "log in"

	values := p.Values()
	assert.Equal(t, "category", values.Get("sort"))
	assert.False(t, values.Has("category"))

	back, err := ParseParams(values)
	require.NoError(t, err)
	assert.Equal(t, p, back)

	assert.Empty(t, Default().Values())
}
