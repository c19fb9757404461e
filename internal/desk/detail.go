package desk

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"inquirydesk/internal/domain"
	apperrors "inquirydesk/pkg/errors"
)

// detail shows one inquiry and lets the manager answer it. Every state
// change is keyed by id: results for any other inquiry are ignored.
type detail struct {
	id         uint
	state      LoadState
	err        error
	inquiry    domain.Inquiry
	response   textarea.Model
	submitting bool
	width      int
}

func newDetail(id uint) detail {
	response := textarea.New()
	response.Placeholder = "Write a response to the customer..."
	response.ShowLineNumbers = false
	response.SetHeight(5)
	return detail{id: id, state: Loading, response: response}
}

func (d *detail) resize(width int) {
	d.width = width
	if width > 4 {
		d.response.SetWidth(width - 4)
	}
}

func (d *detail) focus() tea.Cmd {
	return d.response.Focus()
}

func (m Model) handleDetailLoaded(msg detailLoadedMsg) (tea.Model, tea.Cmd) {
	if m.route != RouteInquiry || msg.id != m.detail.id {
		m.log.Debug("dropping stale detail", zap.Uint("id", msg.id), zap.Uint("current", m.detail.id))
		return m, nil
	}
	if msg.err != nil {
		m.log.Warn("detail failed", zap.Uint("id", msg.id), zap.Bool("refresh", msg.refresh), zap.Error(msg.err))
		if apperrors.IsUnauthorized(msg.err) {
			m.session.ExpiresAt = m.now()
			return m.Navigate(RouteInquiry, msg.id)
		}
		if msg.refresh && m.detail.state == Loaded {
			// The page keeps showing what it had.
			cmd := m.notify(ToastError, failureText("Response sent, but the inquiry could not be refreshed", msg.err))
			return m, cmd
		}
		m.detail.state = Failed
		m.detail.err = msg.err
		return m, nil
	}
	if msg.inquiry == nil || msg.inquiry.ID == 0 {
		if msg.refresh && m.detail.state == Loaded {
			return m, nil
		}
		m.detail.state = Failed
		m.detail.err = fmt.Errorf("inquiry %d returned no data", msg.id)
		return m, nil
	}
	m.detail.state = Loaded
	m.detail.err = nil
	m.detail.inquiry = *msg.inquiry
	return m, nil
}

func (m Model) updateDetail(msg tea.Msg) (tea.Model, tea.Cmd) {
	d := &m.detail
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.keys.Back):
			return m.Navigate(RouteManager, 0)
		case key.Matches(keyMsg, m.keys.Submit):
			return m.submitResponse()
		}
	}
	if d.state != Loaded {
		return m, nil
	}
	var cmd tea.Cmd
	d.response, cmd = d.response.Update(msg)
	return m, cmd
}

func (m Model) submitResponse() (tea.Model, tea.Cmd) {
	d := &m.detail
	if d.state != Loaded || d.submitting {
		return m, nil
	}
	text := strings.TrimSpace(d.response.Value())
	if text == "" {
		cmd := m.notify(ToastError, "Response cannot be empty")
		return m, cmd
	}

	d.submitting = true
	api, sess, id := m.api, m.session, d.id
	return m, func() tea.Msg {
		res, err := api.Respond(context.Background(), sess, id, text)
		return respondDoneMsg{id: id, result: res, err: err}
	}
}

func (m Model) handleRespondDone(msg respondDoneMsg) (tea.Model, tea.Cmd) {
	if m.route != RouteInquiry || msg.id != m.detail.id {
		return m, nil
	}
	m.detail.submitting = false
	if msg.err != nil {
		m.log.Warn("respond failed", zap.Uint("id", msg.id), zap.Error(msg.err))
		cmd := m.notify(ToastError, failureText("Failed to send response", msg.err))
		return m, cmd
	}

	m.log.Info("response sent", zap.Uint("id", msg.id))
	m.detail.response.Reset()
	text := "Response sent successfully"
	if msg.result != nil && msg.result.Message != "" {
		text = msg.result.Message
	}
	notice := m.notify(ToastSuccess, text)
	return m, tea.Batch(notice, m.refreshDetail(msg.id))
}

func (d detail) view(theme Theme) string {
	var b strings.Builder
	b.WriteString(theme.title().Render(fmt.Sprintf("Inquiry #%d", d.id)) + "\n\n")

	switch d.state {
	case Loading:
		b.WriteString(theme.faint().Render("Loading inquiry..."))
		return b.String()
	case Failed:
		text := failureText("Failed to load inquiry", d.err)
		if apperrors.IsNotFound(d.err) {
			text = "Inquiry not found"
		}
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ToastError).Render(text))
		return b.String()
	}

	inq := d.inquiry
	label := theme.faint()
	wrap := lipgloss.NewStyle()
	if d.width > 4 {
		wrap = wrap.Width(d.width - 4)
	}

	fmt.Fprintf(&b, "%s %s <%s>\n", label.Render("From:"), inq.Name, inq.Email)
	fmt.Fprintf(&b, "%s %s   %s %s\n",
		label.Render("Category:"), inq.Category,
		label.Render("Urgency:"), lipgloss.NewStyle().Foreground(theme.UrgencyColor(inq.Urgency)).Render(string(inq.Urgency)))
	fmt.Fprintf(&b, "%s %s\n", label.Render("Received:"), inq.CreatedAt.Local().Format(time.DateTime))
	fmt.Fprintf(&b, "%s %s\n\n", label.Render("Summary:"), inq.Summary)
	b.WriteString(theme.box().Render(wrap.Render(inq.InquiryText)) + "\n")

	if len(inq.Responses) > 0 {
		b.WriteString("\n" + theme.title().Render("Responses") + "\n")
		for _, r := range inq.Responses {
			fmt.Fprintf(&b, "%s\n%s\n", label.Render(r.Responder+" · "+r.CreatedAt.Local().Format(time.DateTime)), wrap.Render(r.Body))
		}
	}

	b.WriteString("\n" + theme.title().Render("Your response") + "\n")
	b.WriteString(d.response.View())
	if d.submitting {
		b.WriteString("\n" + theme.faint().Render("Sending..."))
	}
	return b.String()
}
