// Command desk is the terminal client for the inquiry API.
//
//	desk [flags] [route]
//
// route is one of /, /customer, /login, /manager or /inquiry/<id> and
// selects the view the desk opens on.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"inquirydesk/internal/client"
	"inquirydesk/internal/config"
	"inquirydesk/internal/desk"
	"inquirydesk/internal/logging"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var backend, logOutput string
	var timeout time.Duration

	flagSet := pflag.NewFlagSet("desk", pflag.ContinueOnError)
	flagSet.StringVar(&backend, "backend", "", "API base URL (default: INQUIRY_BACKEND_URL or http://HOST:PORT)")
	flagSet.StringVar(&logOutput, "log-output", "", "write JSON log records to this file (default: DESK_LOG_FILE)")
	flagSet.DurationVar(&timeout, "timeout", 0, "per request timeout (default: INQUIRY_CLIENT_TIMEOUT)")
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if backend != "" {
		cfg.Client.BackendURL = backend
	}
	if logOutput != "" {
		cfg.Client.LogFile = logOutput
	}
	if timeout > 0 {
		cfg.Client.Timeout = timeout
	}

	log, closeLog, err := logging.NewFile(cfg.Client.LogFile, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer closeLog()

	route, id := desk.RouteLanding, uint(0)
	if rest := flagSet.Args(); len(rest) > 0 {
		var ok bool
		route, id, ok = desk.ParseRoute(rest[0])
		if !ok {
			return fmt.Errorf("unknown route %q", rest[0])
		}
	}

	api := client.New(cfg.BackendURL(), cfg.Client.Timeout, log.Named("client"))
	log.Info("desk starting", zap.String("backend", api.BaseURL()), zap.Stringer("route", route))

	m := desk.New(api, desk.WithLogger(log))
	var cmd tea.Cmd
	if route != desk.RouteLanding {
		m, cmd = m.Navigate(route, id)
	}
	program := tea.NewProgram(startAt{Model: m, cmd: cmd}, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("desk exited: %w", err)
	}
	return nil
}

// startAt runs the command of the initial navigation next to the model's
// own startup commands.
type startAt struct {
	desk.Model
	cmd tea.Cmd
}

func (s startAt) Init() tea.Cmd {
	return tea.Batch(s.Model.Init(), s.cmd)
}
