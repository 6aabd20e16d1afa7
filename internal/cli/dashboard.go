package cli

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/koltont40/networkmonitoring/internal/errors"
	"github.com/koltont40/networkmonitoring/internal/monitor"
	"github.com/koltont40/networkmonitoring/internal/ui"
)

const dashboardKeys = `Keyboard shortcuts:
  q / Ctrl+C  Quit
  r           Refresh now (detail) / rescan (list)
  up/k        Select previous host
  down/j      Select next host
  Enter       Open host detail
  Esc         Back to the list
  a           Add hosts
  d           Delete host (detail)
  s           Settings
  f           Toggle reachable-only
  ?           Show help`

// dashboardFlags override config for one dashboard run.
type dashboardFlags struct {
	interval  int
	reachable bool
}

func (f *dashboardFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.interval, "interval", 0, "poll interval in seconds, minimum 4 (default poll.interval_seconds)")
	cmd.Flags().BoolVar(&f.reachable, "reachable", false, "show only reachable hosts")
}

func (f *dashboardFlags) apply(cmd *cobra.Command, a *app) {
	if cmd.Flags().Changed("interval") {
		a.cfg.Poll.IntervalSeconds = f.interval
	}
	if cmd.Flags().Changed("reachable") {
		a.cfg.List.ReachableOnly = f.reachable
	}
}

func newDashboardCmd(a *app) *cobra.Command {
	var flags dashboardFlags
	cmd := &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"monitor"},
		Short:   "Live host list",
		Long: `Open the host list dashboard. The list is refreshed every poll interval
and shows state, latency, packet loss and a latency sparkline per host.

` + dashboardKeys + `

Examples:
  netmon dashboard
  netmon dashboard --reachable
  netmon dashboard --interval 10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.apply(cmd, a)
			return a.runDashboard(cmd, "")
		},
	}
	flags.register(cmd)
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	var flags dashboardFlags
	cmd := &cobra.Command{
		Use:   "show [address]",
		Short: "Live detail view for one host",
		Long: `Open the detail dashboard for a host: current health, interface and
system metrics, and history charts. Without an address, pick a host from
the tracked list.

Examples:
  netmon show 10.0.0.1
  netmon show`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: a.completeAddresses,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.apply(cmd, a)
			if len(args) == 1 {
				return a.runDashboard(cmd, args[0])
			}

			address, err := a.pickAddress(cmd)
			if err != nil || address == "" {
				return err
			}
			return a.runDashboard(cmd, address)
		},
	}
	flags.register(cmd)
	return cmd
}

// pickAddress lists the tracked hosts and lets the user choose one.
// An empty address means the picker was cancelled.
func (a *app) pickAddress(cmd *cobra.Command) (string, error) {
	if !interactive() {
		return "", errors.New(errors.ErrInput,
			"No address given",
			"Pass the host address: netmon show <address>")
	}

	client, err := a.client()
	if err != nil {
		return "", err
	}
	hosts, err := client.ListHosts(cmd.Context(), a.cfg.List.ReachableOnly)
	if err != nil {
		return "", err
	}

	picked, err := ui.PickHost(hosts)
	if err != nil || picked == nil {
		return "", err
	}
	return picked.Address, nil
}

// runDashboard opens the list dashboard, or the detail dashboard of address.
func (a *app) runDashboard(cmd *cobra.Command, address string) error {
	if !interactive() {
		return errors.New(errors.ErrInput,
			"The dashboard needs an interactive terminal",
			"Use 'netmon hosts list' or 'netmon hosts get' for scripted output.")
	}

	client, err := a.dashboardClient()
	if err != nil {
		return err
	}
	return runProgram(cmd, client, a.dashboardOptions(address))
}

func (a *app) dashboardOptions(address string) monitor.Options {
	source := a.cfg.Server.URL
	if a.cfg.Tunnel.Enabled() {
		source += " via " + a.cfg.Tunnel.Host
	}
	return monitor.Options{
		IntervalSeconds: a.cfg.Poll.IntervalSeconds,
		ManualTimeout:   a.cfg.Poll.ManualTimeout,
		RequestTimeout:  a.cfg.Server.Timeout,
		ReachableOnly:   a.cfg.List.ReachableOnly,
		SparklineSize:   a.cfg.History.SparklineSize,
		Address:         address,
		Source:          source,
		Logger:          a.tuiLog,
	}
}

func runProgram(cmd *cobra.Command, backend monitor.Backend, opts monitor.Options) error {
	p := tea.NewProgram(
		monitor.NewModel(backend, opts),
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
	)
	if _, err := p.Run(); err != nil {
		return errors.Wrap(err, "Dashboard exited with an error")
	}
	return nil
}

func interactive() bool {
	return ui.IsTerminal(os.Stdin) && ui.IsTerminal(os.Stdout)
}

// completeAddresses offers tracked host addresses for shell completion.
func (a *app) completeAddresses(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 && cmd.Name() == "show" {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	if a.cfg == nil {
		if err := a.bootstrap(cmd); err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
	}
	client, err := a.client()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	hosts, err := client.ListHosts(cmd.Context(), false)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	seen := make(map[string]bool, len(args))
	for _, arg := range args {
		seen[arg] = true
	}
	var out []string
	for _, h := range hosts {
		if seen[h.Address] {
			continue
		}
		out = append(out, h.Address+"\t"+h.Name)
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
