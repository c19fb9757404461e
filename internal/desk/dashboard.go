package desk

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"go.uber.org/zap"

	"inquirydesk/internal/domain"
	"inquirydesk/internal/view"
	apperrors "inquirydesk/pkg/errors"
)

// LoadState is the lifecycle of a view backed by a fetch.
type LoadState int

const (
	Loading LoadState = iota
	Loaded
	Failed
)

// dashboard is the manager list. It keeps the fetched list untouched and
// renders the derived view computed from params.
type dashboard struct {
	state     LoadState
	err       error
	inquiries []domain.Inquiry
	rows      []domain.Inquiry
	params    view.Params
	cursor    int
	search    textinput.Model
	searching bool
}

func newDashboard() dashboard {
	search := textinput.New()
	search.Placeholder = "search all fields"
	search.Prompt = "/ "
	return dashboard{state: Loading, params: view.Default(), search: search}
}

// derive recomputes the rendered rows and keeps the cursor in range.
func (d *dashboard) derive() {
	d.rows = view.Apply(d.inquiries, d.params)
	if d.cursor >= len(d.rows) {
		d.cursor = len(d.rows) - 1
	}
	if d.cursor < 0 {
		d.cursor = 0
	}
}

// selected returns the inquiry under the cursor.
func (d dashboard) selected() (domain.Inquiry, bool) {
	if d.state != Loaded || d.cursor < 0 || d.cursor >= len(d.rows) {
		return domain.Inquiry{}, false
	}
	return d.rows[d.cursor], true
}

func (m Model) handleListLoaded(msg listLoadedMsg) (tea.Model, tea.Cmd) {
	if m.route != RouteManager {
		return m, nil
	}
	if msg.err != nil {
		m.log.Warn("list failed", zap.Error(msg.err))
		if apperrors.IsUnauthorized(msg.err) {
			// The token was revoked or expired server side.
			m.session.ExpiresAt = m.now()
			return m.Navigate(RouteManager, 0)
		}
		m.dashboard.state = Failed
		m.dashboard.err = msg.err
		return m, nil
	}
	m.dashboard.state = Loaded
	m.dashboard.err = nil
	m.dashboard.inquiries = msg.inquiries
	m.dashboard.derive()
	m.log.Debug("list loaded", zap.Int("count", len(msg.inquiries)))
	return m, nil
}

func (m Model) updateDashboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	d := &m.dashboard
	keyMsg, ok := msg.(tea.KeyMsg)

	if d.searching {
		if ok && (key.Matches(keyMsg, m.keys.Back) || key.Matches(keyMsg, m.keys.Select)) {
			d.searching = false
			d.search.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		d.search, cmd = d.search.Update(msg)
		if d.search.Value() != d.params.Search {
			d.params.Search = d.search.Value()
			d.derive()
		}
		return m, cmd
	}
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Back):
		return m.Navigate(RouteLanding, 0)
	case key.Matches(keyMsg, m.keys.Logout):
		return m.logout()
	case key.Matches(keyMsg, m.keys.Reload):
		d.state = Loading
		return m, m.fetchList()
	case key.Matches(keyMsg, m.keys.Up):
		if d.cursor > 0 {
			d.cursor--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if d.cursor < len(d.rows)-1 {
			d.cursor++
		}
	case key.Matches(keyMsg, m.keys.Select):
		if inq, ok := d.selected(); ok {
			return m.Navigate(RouteInquiry, inq.ID)
		}
	case key.Matches(keyMsg, m.keys.SortID):
		d.params = d.params.Toggle(view.SortID)
		d.derive()
	case key.Matches(keyMsg, m.keys.SortCategory):
		d.params = d.params.Toggle(view.SortCategory)
		d.derive()
	case key.Matches(keyMsg, m.keys.SortUrgency):
		d.params = d.params.Toggle(view.SortUrgency)
		d.derive()
	case key.Matches(keyMsg, m.keys.CycleCategory):
		d.params.Category = cycle(d.params.Category, categoryOptions())
		d.derive()
	case key.Matches(keyMsg, m.keys.CycleUrgency):
		d.params.Urgency = cycle(d.params.Urgency, urgencyOptions())
		d.derive()
	case key.Matches(keyMsg, m.keys.ClearFilters):
		d.params = view.Default()
		d.search.Reset()
		d.derive()
	case key.Matches(keyMsg, m.keys.SearchActivate):
		d.searching = true
		cmd := d.search.Focus()
		return m, cmd
	}
	return m, nil
}

func categoryOptions() []string {
	opts := []string{view.All}
	for _, c := range domain.Categories {
		opts = append(opts, string(c))
	}
	return opts
}

func urgencyOptions() []string {
	opts := []string{view.All}
	for _, u := range domain.Urgencies {
		opts = append(opts, string(u))
	}
	return opts
}

// cycle returns the option after current, wrapping around.
func cycle(current string, options []string) string {
	for i, opt := range options {
		if opt == current {
			return options[(i+1)%len(options)]
		}
	}
	return options[0]
}

// Column widths of the dashboard table.
const (
	colID       = 6
	colName     = 18
	colEmail    = 26
	colCategory = 12
	colUrgency  = 10
)

func (d dashboard) view(theme Theme, width int) string {
	var b strings.Builder
	b.WriteString(theme.title().Render("Inquiries") + "\n")

	filters := fmt.Sprintf("Category: %s   Urgency: %s", d.params.Category, d.params.Urgency)
	if d.searching || d.params.Search != "" {
		filters += "   " + d.search.View()
	}
	b.WriteString(theme.faint().Render(filters) + "\n\n")

	header := pad("ID"+d.params.Indicator(view.SortID), colID) +
		pad("Name", colName) +
		pad("Email", colEmail) +
		pad("Category"+d.params.Indicator(view.SortCategory), colCategory) +
		pad("Urgency"+d.params.Indicator(view.SortUrgency), colUrgency) +
		"Summary"
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(theme.HeaderForeground).Render(header) + "\n")

	switch d.state {
	case Loading:
		b.WriteString(theme.faint().Render("Loading inquiries..."))
		return b.String()
	case Failed:
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ToastError).Render(failureText("Failed to load inquiries", d.err)))
		return b.String()
	}

	if len(d.rows) == 0 {
		b.WriteString(theme.faint().Render("No inquiries match the current view."))
		return b.String()
	}

	summaryWidth := 40
	if width > 0 {
		summaryWidth = max(10, width-colID-colName-colEmail-colCategory-colUrgency-2)
	}
	for i, inq := range d.rows {
		urgency := lipgloss.NewStyle().Foreground(theme.UrgencyColor(inq.Urgency)).Render(pad(string(inq.Urgency), colUrgency))
		line := pad(strconv.FormatUint(uint64(inq.ID), 10), colID) +
			pad(inq.Name, colName) +
			pad(inq.Email, colEmail) +
			pad(string(inq.Category), colCategory)
		summary := ansi.Truncate(inq.Summary, summaryWidth, "…")
		if i == d.cursor {
			b.WriteString(theme.selected().Render(line+pad(string(inq.Urgency), colUrgency)+summary) + "\n")
			continue
		}
		b.WriteString(line + urgency + summary + "\n")
	}
	b.WriteString(theme.faint().Render(fmt.Sprintf("%d of %d shown", len(d.rows), len(d.inquiries))))
	return b.String()
}

// pad truncates or right-pads s to width cells, leaving one cell of gap.
func pad(s string, width int) string {
	s = ansi.Truncate(s, width-1, "…")
	if w := ansi.StringWidth(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}
