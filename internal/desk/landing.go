package desk

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"inquirydesk/internal/services"
)

type landingOption struct {
	label string
	route Route
}

var landingOptions = []landingOption{
	{"Submit an inquiry", RouteCustomer},
	{"Manager dashboard", RouteManager},
}

// landing is the start menu. health is the last backend status, empty
// until the first check answers.
type landing struct {
	cursor int
	health string
}

// healthText renders a health check outcome.
func healthText(res *services.HealthResult, err error) string {
	if err != nil || res == nil || res.Status != "ok" {
		return "error"
	}
	if res.Database != "" && res.Database != "ok" {
		return "ok (database " + res.Database + ")"
	}
	return "ok"
}

func (m Model) updateLanding(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Up):
		if m.landing.cursor > 0 {
			m.landing.cursor--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.landing.cursor < len(landingOptions)-1 {
			m.landing.cursor++
		}
	case key.Matches(keyMsg, m.keys.Select):
		return m.Navigate(landingOptions[m.landing.cursor].route, 0)
	}
	return m, nil
}

func (l landing) view(theme Theme) string {
	var b strings.Builder
	b.WriteString("Welcome. What would you like to do?\n\n")
	for i, opt := range landingOptions {
		line := "  " + opt.label
		if i == l.cursor {
			line = theme.selected().Render("> " + opt.label)
		}
		b.WriteString(line + "\n")
	}

	status := l.health
	if status == "" {
		status = "checking..."
	}
	b.WriteString("\n" + theme.faint().Render("Backend: "+status))
	return b.String()
}
