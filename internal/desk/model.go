// Package desk is the terminal client of the inquiry desk: a landing
// menu, the public submission form, the manager login, the dashboard and
// the inquiry detail view.
package desk

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"inquirydesk/internal/client"
	"inquirydesk/internal/domain"
	"inquirydesk/internal/services"
	"inquirydesk/internal/view"
)

// API is the part of the REST client the desk uses.
type API interface {
	Health(ctx context.Context) (*services.HealthResult, error)
	SubmitInquiry(ctx context.Context, p services.SubmitPayload) (*services.SubmitResult, error)
	Login(ctx context.Context, username, password string) (client.Session, error)
	Logout(ctx context.Context, sess client.Session) error
	ListInquiries(ctx context.Context, sess client.Session, params view.Params) ([]domain.Inquiry, error)
	GetInquiry(ctx context.Context, sess client.Session, id uint) (*domain.Inquiry, error)
	Respond(ctx context.Context, sess client.Session, id uint, response string) (*services.MessageResult, error)
}

// Route identifies the active view.
type Route int

const (
	RouteLanding Route = iota
	RouteCustomer
	RouteLogin
	RouteManager
	RouteInquiry
)

// String returns the path-like name of the route.
func (r Route) String() string {
	switch r {
	case RouteCustomer:
		return "/customer"
	case RouteLogin:
		return "/login"
	case RouteManager:
		return "/manager"
	case RouteInquiry:
		return "/inquiry/:id"
	}
	return "/"
}

// Guarded reports whether the route needs a valid session.
func (r Route) Guarded() bool {
	return r == RouteManager || r == RouteInquiry
}

// ParseRoute parses a path such as "/manager" or "/inquiry/12".
func ParseRoute(path string) (Route, uint, bool) {
	path = "/" + strings.Trim(path, "/")
	switch {
	case path == "/":
		return RouteLanding, 0, true
	case path == "/customer":
		return RouteCustomer, 0, true
	case path == "/login":
		return RouteLogin, 0, true
	case path == "/manager":
		return RouteManager, 0, true
	case strings.HasPrefix(path, "/inquiry/"):
		id, err := strconv.ParseUint(strings.TrimPrefix(path, "/inquiry/"), 10, 0)
		if err != nil || id == 0 {
			return RouteLanding, 0, false
		}
		return RouteInquiry, uint(id), true
	}
	return RouteLanding, 0, false
}

// Messages delivered by the asynchronous API calls.
type (
	healthLoadedMsg struct {
		result *services.HealthResult
		err    error
	}
	// submitDoneMsg carries the generation of the form that sent it.
	submitDoneMsg struct {
		seq    int
		result *services.SubmitResult
		err    error
	}
	loginDoneMsg struct {
		session client.Session
		err     error
	}
	logoutDoneMsg struct {
		err error
	}
	listLoadedMsg struct {
		inquiries []domain.Inquiry
		err       error
	}
	// detailLoadedMsg carries the identifier it was fetched for so a
	// result for an inquiry the view has moved away from can be dropped.
	// refresh marks a reload of an already loaded inquiry.
	detailLoadedMsg struct {
		id      uint
		refresh bool
		inquiry *domain.Inquiry
		err     error
	}
	respondDoneMsg struct {
		id     uint
		result *services.MessageResult
		err    error
	}
)

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the logger. The desk owns the terminal, so the logger
// must write to a file or nowhere.
func WithLogger(log *zap.Logger) Option {
	return func(m *Model) { m.log = log }
}

// WithClock replaces time.Now for session expiry checks.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// WithToastTTL sets how long notifications stay visible.
func WithToastTTL(ttl time.Duration) Option {
	return func(m *Model) { m.toastTTL = ttl }
}

// WithSession starts the desk with an existing session.
func WithSession(sess client.Session) Option {
	return func(m *Model) { m.session = sess }
}

// Model is the top-level bubbletea model. It owns the session and routes
// messages to the active view.
type Model struct {
	api      API
	keys     KeyMap
	theme    Theme
	log      *zap.Logger
	now      func() time.Time
	toastTTL time.Duration

	width  int
	height int

	route   Route
	session client.Session

	// Where to go once a login succeeds.
	afterLogin   Route
	afterLoginID uint

	toast toast

	// Bumped for every new customer form.
	formSeq int

	landing   landing
	customer  customerForm
	login     loginForm
	dashboard dashboard
	detail    detail
}

// New creates the desk model on the landing view.
func New(api API, opts ...Option) Model {
	m := Model{
		api:        api,
		keys:       DefaultKeyMap,
		theme:      DefaultTheme,
		log:        zap.NewNop(),
		now:        time.Now,
		toastTTL:   defaultToastTTL,
		route:      RouteLanding,
		afterLogin: RouteManager,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.log = m.log.Named("desk")
	return m
}

// Route returns the active route.
func (m Model) Route() Route {
	return m.route
}

// Session returns the current session.
func (m Model) Session() client.Session {
	return m.session
}

// Init implements tea.Model. It starts the backend health check shown on
// the landing view.
func (m Model) Init() tea.Cmd {
	return m.checkHealth()
}

// Navigate switches to route. Guarded routes without a valid session
// redirect to the login view and resume after a successful login.
func (m Model) Navigate(route Route, id uint) (Model, tea.Cmd) {
	if route.Guarded() && !m.session.Valid(m.now()) {
		expired := m.session.Token != ""
		m.session = client.Session{}
		m.afterLogin, m.afterLoginID = route, id
		m.route = RouteLogin
		m.login = newLoginForm()
		text := "Please log in to continue"
		if expired {
			text = "Session expired, please log in again"
		}
		m.log.Info("route gated", zap.Stringer("route", route), zap.Bool("expired", expired))
		cmd := tea.Batch(m.login.focus(), m.toast.show(ToastInfo, text, m.toastTTL))
		return m, cmd
	}

	m.route = route
	switch route {
	case RouteCustomer:
		m.formSeq++
		m.customer = newCustomerForm(m.formSeq)
		m.customer.resize(m.width)
		cmd := m.customer.focus()
		return m, cmd
	case RouteLogin:
		m.login = newLoginForm()
		cmd := m.login.focus()
		return m, cmd
	case RouteManager:
		m.dashboard = newDashboard()
		return m, m.fetchList()
	case RouteInquiry:
		m.detail = newDetail(id)
		m.detail.resize(m.width)
		cmd := tea.Batch(m.detail.focus(), m.fetchDetail(id))
		return m, cmd
	}
	m.landing = landing{health: m.landing.health}
	return m, m.checkHealth()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.customer.resize(msg.Width)
		m.detail.resize(msg.Width)
		return m, nil

	case toastFadeMsg:
		m.toast.fade(msg)
		return m, nil

	case healthLoadedMsg:
		m.landing.health = healthText(msg.result, msg.err)
		if msg.err != nil {
			m.log.Warn("health check failed", zap.Error(msg.err))
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}

	case submitDoneMsg:
		return m.handleSubmitDone(msg)
	case loginDoneMsg:
		return m.handleLoginDone(msg)
	case logoutDoneMsg:
		if msg.err != nil {
			m.log.Warn("logout failed", zap.Error(msg.err))
		}
		return m, nil
	case listLoadedMsg:
		return m.handleListLoaded(msg)
	case detailLoadedMsg:
		return m.handleDetailLoaded(msg)
	case respondDoneMsg:
		return m.handleRespondDone(msg)
	}

	switch m.route {
	case RouteCustomer:
		return m.updateCustomer(msg)
	case RouteLogin:
		return m.updateLogin(msg)
	case RouteManager:
		return m.updateDashboard(msg)
	case RouteInquiry:
		return m.updateDetail(msg)
	}
	return m.updateLanding(msg)
}

// View implements tea.Model.
func (m Model) View() string {
	var body string
	switch m.route {
	case RouteCustomer:
		body = m.customer.view(m.theme)
	case RouteLogin:
		body = m.login.view(m.theme)
	case RouteManager:
		body = m.dashboard.view(m.theme, m.width)
	case RouteInquiry:
		body = m.detail.view(m.theme)
	default:
		body = m.landing.view(m.theme)
	}

	header := m.theme.title().Render("Customer Inquiry Manager")
	if m.session.Token != "" {
		header += m.theme.faint().Render("  signed in as " + m.session.Username)
	}

	parts := []string{header, "", body, ""}
	if t := m.toast.view(m.theme); t != "" {
		parts = append(parts, t)
	}
	parts = append(parts, m.theme.help().Render(m.helpLine()))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) helpLine() string {
	var bindings []key.Binding
	switch m.route {
	case RouteCustomer:
		bindings = []key.Binding{m.keys.NextField, m.keys.Submit, m.keys.Back}
	case RouteLogin:
		bindings = []key.Binding{m.keys.NextField, m.keys.Select, m.keys.Back}
	case RouteManager:
		if m.dashboard.searching {
			bindings = []key.Binding{m.keys.Select, m.keys.Back}
		} else {
			bindings = []key.Binding{m.keys.Up, m.keys.Down, m.keys.Select, m.keys.SortID, m.keys.SortCategory,
				m.keys.SortUrgency, m.keys.CycleCategory, m.keys.CycleUrgency, m.keys.SearchActivate,
				m.keys.ClearFilters, m.keys.Reload, m.keys.Logout, m.keys.Back}
		}
	case RouteInquiry:
		bindings = []key.Binding{m.keys.Submit, m.keys.Back}
	default:
		bindings = []key.Binding{m.keys.Up, m.keys.Down, m.keys.Select, m.keys.Quit}
	}

	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

func (m *Model) notify(kind ToastKind, text string) tea.Cmd {
	return m.toast.show(kind, text, m.toastTTL)
}

// Commands. Each captures the values it needs so it can run off the
// event loop.

// fetchList loads the whole list; the dashboard derives its view locally.
func (m Model) fetchList() tea.Cmd {
	api, sess := m.api, m.session
	return func() tea.Msg {
		list, err := api.ListInquiries(context.Background(), sess, view.Default())
		return listLoadedMsg{inquiries: list, err: err}
	}
}

func (m Model) fetchDetail(id uint) tea.Cmd {
	return m.loadDetail(id, false)
}

// refreshDetail reloads an inquiry that is already on screen.
func (m Model) refreshDetail(id uint) tea.Cmd {
	return m.loadDetail(id, true)
}

func (m Model) loadDetail(id uint, refresh bool) tea.Cmd {
	api, sess := m.api, m.session
	return func() tea.Msg {
		inq, err := api.GetInquiry(context.Background(), sess, id)
		return detailLoadedMsg{id: id, refresh: refresh, inquiry: inq, err: err}
	}
}

func (m Model) checkHealth() tea.Cmd {
	api := m.api
	return func() tea.Msg {
		res, err := api.Health(context.Background())
		return healthLoadedMsg{result: res, err: err}
	}
}
