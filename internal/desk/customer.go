package desk

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"inquirydesk/internal/client"
	"inquirydesk/internal/services"
	apperrors "inquirydesk/pkg/errors"
)

const (
	fieldName = iota
	fieldEmail
	fieldInquiry
	fieldCount
)

// customerForm is the public submission form. seq identifies the form
// instance so a result sent for an earlier form is never applied to it.
type customerForm struct {
	seq        int
	name       textinput.Model
	email      textinput.Model
	inquiry    textarea.Model
	focused    int
	submitting bool
}

func newCustomerForm(seq int) customerForm {
	name := textinput.New()
	name.Placeholder = "Your name"
	name.CharLimit = 255

	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 255

	inquiry := textarea.New()
	inquiry.Placeholder = "How can we help?"
	inquiry.CharLimit = 5000
	inquiry.SetHeight(6)
	inquiry.ShowLineNumbers = false

	return customerForm{seq: seq, name: name, email: email, inquiry: inquiry}
}

func (f *customerForm) resize(width int) {
	if width > 4 {
		f.inquiry.SetWidth(width - 4)
	}
}

func (f *customerForm) focus() tea.Cmd {
	f.name.Blur()
	f.email.Blur()
	f.inquiry.Blur()
	switch f.focused {
	case fieldEmail:
		return f.email.Focus()
	case fieldInquiry:
		return f.inquiry.Focus()
	}
	return f.name.Focus()
}

func (f customerForm) payload() services.SubmitPayload {
	return services.SubmitPayload{
		Name:    f.name.Value(),
		Email:   f.email.Value(),
		Inquiry: f.inquiry.Value(),
	}
}

func (f *customerForm) reset() {
	f.name.Reset()
	f.email.Reset()
	f.inquiry.Reset()
	f.focused = fieldName
}

func (m Model) updateCustomer(msg tea.Msg) (tea.Model, tea.Cmd) {
	f := &m.customer
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.keys.Back):
			return m.Navigate(RouteLanding, 0)
		case key.Matches(keyMsg, m.keys.NextField):
			f.focused = (f.focused + 1) % fieldCount
			cmd := f.focus()
			return m, cmd
		case key.Matches(keyMsg, m.keys.PrevField):
			f.focused = (f.focused + fieldCount - 1) % fieldCount
			cmd := f.focus()
			return m, cmd
		case key.Matches(keyMsg, m.keys.Submit):
			return m.submitInquiry()
		case key.Matches(keyMsg, m.keys.Select) && f.focused != fieldInquiry:
			f.focused++
			cmd := f.focus()
			return m, cmd
		}
	}

	var cmd tea.Cmd
	switch f.focused {
	case fieldName:
		f.name, cmd = f.name.Update(msg)
	case fieldEmail:
		f.email, cmd = f.email.Update(msg)
	case fieldInquiry:
		f.inquiry, cmd = f.inquiry.Update(msg)
	}
	return m, cmd
}

func (m Model) submitInquiry() (tea.Model, tea.Cmd) {
	if m.customer.submitting {
		return m, nil
	}
	p := m.customer.payload()
	if err := client.ValidateSubmission(p); err != nil {
		cmd := m.notify(ToastError, apperrors.Detail(err))
		return m, cmd
	}

	m.customer.submitting = true
	api, seq := m.api, m.customer.seq
	return m, func() tea.Msg {
		res, err := api.SubmitInquiry(context.Background(), p)
		return submitDoneMsg{seq: seq, result: res, err: err}
	}
}

func (m Model) handleSubmitDone(msg submitDoneMsg) (tea.Model, tea.Cmd) {
	if m.route != RouteCustomer || msg.seq != m.customer.seq {
		m.log.Debug("dropping stale submission result", zap.Int("seq", msg.seq), zap.Int("current", m.customer.seq))
		return m, nil
	}
	m.customer.submitting = false
	if msg.err != nil {
		m.log.Warn("submit failed", zap.Error(msg.err))
		cmd := m.notify(ToastError, failureText("Failed to submit inquiry", msg.err))
		return m, cmd
	}

	m.log.Info("inquiry submitted", zap.Uint("id", msg.result.ID))
	m.customer.reset()
	cmd := m.customer.focus()
	text := "Inquiry submitted successfully"
	if msg.result.ID != 0 {
		text = fmt.Sprintf("Inquiry #%d submitted successfully", msg.result.ID)
	}
	notice := m.notify(ToastSuccess, text)
	return m, tea.Batch(cmd, notice)
}

func (f customerForm) view(theme Theme) string {
	var b strings.Builder
	b.WriteString(theme.title().Render("Submit an inquiry") + "\n\n")
	b.WriteString("Name\n" + f.name.View() + "\n\n")
	b.WriteString("Email\n" + f.email.View() + "\n\n")
	b.WriteString("Inquiry\n" + f.inquiry.View() + "\n")
	if f.submitting {
		b.WriteString("\n" + theme.faint().Render("Submitting..."))
	}
	return b.String()
}

// failureText prefers the server supplied detail and falls back to a
// generic message.
func failureText(generic string, err error) string {
	if detail := apperrors.Detail(err); detail != "" {
		return generic + ": " + detail
	}
	if apperrors.IsTransport(err) {
		return generic + ": server unreachable"
	}
	return generic
}
