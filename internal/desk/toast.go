package desk

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ToastKind selects the color of a notification.
type ToastKind int

const (
	ToastInfo ToastKind = iota
	ToastSuccess
	ToastError
)

const defaultToastTTL = 3 * time.Second

// toast is a transient notification shown above the help line. Each new
// toast bumps seq so that the fade timer of an older one cannot clear it.
type toast struct {
	text string
	kind ToastKind
	seq  int
}

// toastFadeMsg is sent after the toast lifetime to clear the notice.
type toastFadeMsg struct {
	seq int
}

func (t *toast) show(kind ToastKind, text string, ttl time.Duration) tea.Cmd {
	t.seq++
	t.text = text
	t.kind = kind
	seq := t.seq
	return tea.Tick(ttl, func(time.Time) tea.Msg {
		return toastFadeMsg{seq: seq}
	})
}

func (t *toast) fade(msg toastFadeMsg) {
	if msg.seq == t.seq {
		t.text = ""
	}
}

func (t toast) view(theme Theme) string {
	if t.text == "" {
		return ""
	}
	color := theme.ToastInfo
	switch t.kind {
	case ToastSuccess:
		color = theme.ToastSuccess
	case ToastError:
		color = theme.ToastError
	}
	return lipgloss.NewStyle().Foreground(color).Bold(true).Render(t.text)
}
