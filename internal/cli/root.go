package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"net/netip"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/koltont40/networkmonitoring/internal/errors"
)

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "netmon",
		Short: "Terminal client for the network monitoring dashboard",
		Long: `netmon talks to a network monitoring backend and shows the hosts it
tracks: a live host list with latency sparklines, a per-host detail view
with history charts, and commands to add, delete and rescan hosts.

Running netmon without a subcommand opens the host list dashboard.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipBootstrap(cmd) {
				return nil
			}
			return a.bootstrap(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDashboard(cmd, "")
		},
	}

	f := cmd.PersistentFlags()
	f.StringVar(&a.opts.configPath, "config", "", "config file (default ./netmon.yaml, then the user config dir)")
	f.StringVar(&a.opts.server, "server", "", "backend URL, overrides server.url")
	f.BoolVarP(&a.opts.verbose, "verbose", "v", false, "log API requests to stderr")
	f.BoolVar(&a.opts.noColor, "no-color", false, "disable colored output")

	cmd.AddCommand(
		newDashboardCmd(a),
		newShowCmd(a),
		newHostsCmd(a),
		newRescanCmd(a),
		newSettingsCmd(a),
		newConfigCmd(a),
		newDoctorCmd(a),
		newDemoCmd(a),
		newVersionCmd(),
		newCompletionCmd(),
	)
	return cmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	a := newApp()
	defer a.close()

	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		printError(stderr, err)
		return 1
	}
	return 0
}

func printError(w io.Writer, err error) {
	var silent errSilent
	if stderrors.As(err, &silent) {
		return
	}
	if isUnknownCommandError(err) {
		fmt.Fprintf(w, "✗ %s\n", err)
		if name := extractUnknownCommand(err); name != "" {
			if _, perr := netip.ParseAddr(name); perr == nil {
				fmt.Fprintf(w, "\n  To open that host, run: netmon show %s\n", name)
				return
			}
		}
		fmt.Fprintln(w, "\n  Run 'netmon --help' to see available commands.")
		return
	}

	var nmErr *errors.Error
	if stderrors.As(err, &nmErr) {
		fmt.Fprint(w, nmErr.Error())
		return
	}
	fmt.Fprintf(w, "✗ %s\n", err)
}

// isUnknownCommandError reports whether cobra rejected the command line itself.
func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") ||
		strings.HasPrefix(msg, "unknown flag") ||
		strings.HasPrefix(msg, "unknown shorthand flag")
}

// extractUnknownCommand pulls "foo" out of `unknown command "foo" for "netmon"`.
func extractUnknownCommand(err error) string {
	msg := err.Error()
	start := strings.Index(msg, `"`)
	if start == -1 {
		return ""
	}
	end := strings.Index(msg[start+1:], `"`)
	if end == -1 {
		return ""
	}
	return msg[start+1 : start+1+end]
}
