// Package view computes the derived view of the manager dashboard: the
// inquiry list sorted by one column and narrowed by category, urgency and
// a free-text search.
//
// The pipeline always sorts first and filters second. Sorting is stable,
// so for any column a descending pass is the mirror image of the ascending
// pass over records with distinct keys, and records with equal keys keep
// their input order in both directions.
package view

import (
	"cmp"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"inquirydesk/internal/domain"
)

// All is the pass-through value for the category and urgency filters.
const All = "All"

// SortKey names the column the list is ordered by.
type SortKey string

const (
	SortNone     SortKey = ""
	SortID       SortKey = "id"
	SortCategory SortKey = "category"
	SortUrgency  SortKey = "urgency"
)

// SortKeys lists the sortable columns in table order.
var SortKeys = []SortKey{SortID, SortCategory, SortUrgency}

// ParseSortKey accepts "", "none" and the sortable column names.
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return SortNone, nil
	case "id":
		return SortID, nil
	case "category":
		return SortCategory, nil
	case "urgency":
		return SortUrgency, nil
	}
	return SortNone, fmt.Errorf("unknown sort key %q", s)
}

// Direction is the sort order.
type Direction string

const (
	Ascending  Direction = "ascending"
	Descending Direction = "descending"
)

// ParseDirection accepts the long names and the asc/desc shorthands. An
// empty string means ascending.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	}
	return Ascending, fmt.Errorf("unknown sort direction %q", s)
}

// Params is the dashboard's view state. The zero value is not usable as a
// pass-through filter; start from Default.
type Params struct {
	SortKey   SortKey
	Direction Direction
	Category  string
	Urgency   string
	Search    string
}

// Default returns the pass-through parameters: no sort, all categories,
// all urgencies, empty search.
func Default() Params {
	return Params{
		SortKey:   SortNone,
		Direction: Ascending,
		Category:  All,
		Urgency:   All,
	}
}

// Toggle returns the parameters after the user asks to sort by key.
// Asking for the current ascending key flips it to descending; anything
// else sorts ascending by key.
func (p Params) Toggle(key SortKey) Params {
	if p.SortKey == key && p.Direction == Ascending {
		p.Direction = Descending
	} else {
		p.SortKey = key
		p.Direction = Ascending
	}
	return p
}

// Indicator returns the column header suffix for key.
func (p Params) Indicator(key SortKey) string {
	if key == SortNone || p.SortKey != key {
		return ""
	}
	if p.Direction == Descending {
		return " ▼"
	}
	return " ▲"
}

// IsPassThrough reports whether the filters keep every record.
func (p Params) IsPassThrough() bool {
	return isAll(p.Category) && isAll(p.Urgency) && p.Search == ""
}

// Apply returns the inquiries to render for the given parameters. The
// input slice is never modified.
func Apply(inquiries []domain.Inquiry, p Params) []domain.Inquiry {
	return Filter(Sort(inquiries, p.SortKey, p.Direction), p)
}

// Sort returns a stably sorted copy of inquiries. SortNone returns the
// copy in input order.
func Sort(inquiries []domain.Inquiry, key SortKey, dir Direction) []domain.Inquiry {
	out := slices.Clone(inquiries)
	if key == SortNone {
		return out
	}
	slices.SortStableFunc(out, func(a, b domain.Inquiry) int {
		c := compare(a, b, key)
		if dir == Descending {
			return -c
		}
		return c
	})
	return out
}

func compare(a, b domain.Inquiry, key SortKey) int {
	switch key {
	case SortID:
		return cmp.Compare(a.ID, b.ID)
	case SortCategory:
		return strings.Compare(string(a.Category), string(b.Category))
	case SortUrgency:
		return strings.Compare(string(a.Urgency), string(b.Urgency))
	}
	return 0
}

// Filter returns the inquiries that pass every filter, in input order.
func Filter(inquiries []domain.Inquiry, p Params) []domain.Inquiry {
	out := make([]domain.Inquiry, 0, len(inquiries))
	for _, inq := range inquiries {
		if p.Matches(inq) {
			out = append(out, inq)
		}
	}
	return out
}

// Matches reports whether inq passes the category, urgency and search
// filters.
func (p Params) Matches(inq domain.Inquiry) bool {
	if !isAll(p.Category) && string(inq.Category) != p.Category {
		return false
	}
	if !isAll(p.Urgency) && string(inq.Urgency) != p.Urgency {
		return false
	}
	if p.Search == "" {
		return true
	}
	term := strings.ToLower(p.Search)
	for _, field := range Fields(inq) {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// Fields returns the string form of every field of the record, in the
// shape the API serves it. Search scans all of them.
func Fields(inq domain.Inquiry) []string {
	return []string{
		strconv.FormatUint(uint64(inq.ID), 10),
		inq.Name,
		inq.Email,
		string(inq.Category),
		string(inq.Urgency),
		inq.Summary,
		inq.InquiryText,
		inq.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func isAll(v string) bool {
	return v == "" || v == All
}

// Query parameter names understood by ParseParams.
const (
	QuerySort      = "sort"
	QueryDirection = "direction"
	QueryCategory  = "category"
	QueryUrgency   = "urgency"
	QuerySearch    = "q"
)

// ParseParams reads view parameters from a query string. Missing values
// fall back to Default; unknown categories, urgencies, sort keys and
// directions are rejected.
func ParseParams(values url.Values) (Params, error) {
	p := Default()

	key, err := ParseSortKey(values.Get(QuerySort))
	if err != nil {
		return p, err
	}
	dir, err := ParseDirection(values.Get(QueryDirection))
	if err != nil {
		return p, err
	}
	p.SortKey, p.Direction = key, dir

	if v := strings.TrimSpace(values.Get(QueryCategory)); !isAll(v) && !strings.EqualFold(v, All) {
		c, ok := domain.ParseCategory(v)
		if !ok {
			return p, fmt.Errorf("unknown category %q", v)
		}
		p.Category = string(c)
	}
	if v := strings.TrimSpace(values.Get(QueryUrgency)); !isAll(v) && !strings.EqualFold(v, All) {
		u, ok := domain.ParseUrgency(v)
		if !ok {
			return p, fmt.Errorf("unknown urgency %q", v)
		}
		p.Urgency = string(u)
	}
	p.Search = values.Get(QuerySearch)
	return p, nil
}

// Values encodes p as query parameters, leaving out defaults.
func (p Params) Values() url.Values {
	values := url.Values{}
	if p.SortKey != SortNone {
		values.Set(QuerySort, string(p.SortKey))
		values.Set(QueryDirection, string(p.Direction))
	}
	if !isAll(p.Category) {
		values.Set(QueryCategory, p.Category)
	}
	if !isAll(p.Urgency) {
		values.Set(QueryUrgency, p.Urgency)
	}
	if p.Search != "" {
		values.Set(QuerySearch, p.Search)
	}
	return values
}
