package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/koltont40/networkmonitoring/internal/api"
	"github.com/koltont40/networkmonitoring/internal/config"
	"github.com/koltont40/networkmonitoring/internal/errors"
	"github.com/koltont40/networkmonitoring/internal/logger"
	"github.com/koltont40/networkmonitoring/internal/ui"
	"github.com/koltont40/networkmonitoring/pkg/sshutil"
)

// globalOptions are the root's persistent flags.
type globalOptions struct {
	configPath string
	server     string
	verbose    bool
	noColor    bool
}

// app is the state shared by every command of one invocation.
type app struct {
	opts    globalOptions
	cfg     *config.Config
	cfgPath string

	// log goes to stderr with --verbose, else to log.file, else nowhere.
	log logger.Logger
	// tuiLog never writes to the terminal the dashboard owns.
	tuiLog logger.Logger

	closers []io.Closer
}

func newApp() *app {
	return &app{
		log:    logger.Noop(),
		tuiLog: logger.Noop(),
	}
}

// skipConfigAnnotation marks commands that must work without a valid config.
const skipConfigAnnotation = "netmon/skip-config"

func skipBootstrap(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[skipConfigAnnotation] == "true" {
			return true
		}
	}
	return false
}

// bootstrap loads config and sets up color and logging.
func (a *app) bootstrap(cmd *cobra.Command) error {
	cfg, path, err := config.LoadOrDefault(a.opts.configPath)
	if err != nil {
		return err
	}
	if a.opts.server != "" {
		cfg.Server.URL = a.opts.server
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	a.cfg, a.cfgPath = cfg, path

	a.setupColor()
	return a.setupLogging(cmd.ErrOrStderr())
}

func (a *app) setupColor() {
	switch {
	case a.opts.noColor, a.cfg.Output.Color == "never", os.Getenv("NO_COLOR") != "":
		ui.DisableColors()
	case a.cfg.Output.Color == "always":
		lipgloss.SetColorProfile(termenv.ANSI256)
	}
}

func (a *app) setupLogging(stderr io.Writer) error {
	level := a.cfg.Log.Level
	if a.opts.verbose {
		level = "debug"
		a.log = logger.NewConsole(stderr, level, "cli")
	}

	if a.cfg.Log.File != "" {
		fileLog, closer, err := logger.NewFileLogger(a.cfg.Log.File, level, "netmon")
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Can't open log file "+a.cfg.Log.File,
				"Point log.file at a writable path, or clear it: netmon config set log.file \"\"")
		}
		a.closers = append(a.closers, closer)
		a.tuiLog = fileLog
		if !a.opts.verbose {
			a.log = fileLog
		}
	}

	logger.SetDefault(a.log)
	sshutil.WarningHandler = func(message string) {
		a.log.Warn("%s", message)
	}
	return nil
}

// client returns an API client for the configured backend.
func (a *app) client() (*api.Client, error) {
	return a.dialClient(a.log)
}

// dashboardClient returns a client whose request tracing stays off the
// terminal the dashboard draws on.
func (a *app) dashboardClient() (*api.Client, error) {
	return a.dialClient(a.tuiLog)
}

func (a *app) dialClient(log logger.Logger) (*api.Client, error) {
	opts := []api.Option{
		api.WithTimeout(a.cfg.Server.Timeout),
		api.WithLogger(log),
	}

	if a.cfg.Tunnel.Enabled() {
		a.log.Debug("dialing tunnel host %s", a.cfg.Tunnel.Host)
		tunnel, err := sshutil.Dial(a.cfg.Tunnel.Host, a.cfg.Tunnel.Timeout)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, tunnel)
		opts = append(opts, api.WithDialContext(tunnel.DialContext))
	}

	return api.New(a.cfg.Server.URL, opts...), nil
}

// close releases tunnels and log files, newest first.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i].Close()
	}
	a.closers = nil
	sshutil.CloseAgent()
}
