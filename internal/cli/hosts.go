package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/koltont40/networkmonitoring/internal/api"
	"github.com/koltont40/networkmonitoring/internal/errors"
	"github.com/koltont40/networkmonitoring/internal/monitor"
	"github.com/koltont40/networkmonitoring/internal/ui"
)

// maxConcurrentRequests bounds fan-out for multi-address commands.
const maxConcurrentRequests = 4

func newHostsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hosts",
		Short: "List, inspect, add and delete tracked hosts",
		Long: `Manage the hosts the backend monitors.

Examples:
  netmon hosts list
  netmon hosts get 10.0.0.1 10.0.0.2 -o json
  netmon hosts add 10.0.0.0/28 --community public
  netmon hosts delete 10.0.0.7`,
	}
	cmd.AddCommand(
		newHostsListCmd(a),
		newHostsGetCmd(a),
		newHostsAddCmd(a),
		newHostsDeleteCmd(a),
	)
	return cmd
}

func newHostsListCmd(a *app) *cobra.Command {
	var output string
	var reachable bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tracked hosts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := a.resolveOutput(output)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("reachable") {
				reachable = a.cfg.List.ReachableOnly
			}
			return a.hostsList(cmd.Context(), cmd.OutOrStdout(), format, reachable)
		},
	}
	addOutputFlag(cmd, &output)
	cmd.Flags().BoolVar(&reachable, "reachable", false, "only reachable hosts")
	return cmd
}

func (a *app) hostsList(ctx context.Context, w io.Writer, format string, reachable bool) error {
	client, err := a.client()
	if err != nil {
		return a.fail(w, format, err)
	}
	hosts, err := client.ListHosts(ctx, reachable)
	if err != nil {
		return a.fail(w, format, err)
	}

	if format == outputJSON {
		if hosts == nil {
			hosts = []api.HostSnapshot{}
		}
		return WriteJSONSuccess(w, hosts)
	}

	view := monitor.NewListView(monitor.DefaultFormatter, 0)
	view.Reconcile(hosts)

	rows := make([]ui.HostTableRow, 0, len(hosts))
	for _, r := range view.Rows() {
		rows = append(rows, ui.HostTableRow{
			State:       r.State,
			Address:     r.Address,
			Name:        r.Name,
			Latency:     r.Latency,
			Loss:        r.PacketLoss,
			LossPct:     r.LossPct,
			SysName:     r.SysName,
			LastChecked: r.LastChecked,
			Notes:       r.Notes,
		})
	}
	fmt.Fprint(w, ui.RenderHostTable(rows))
	if len(rows) == 0 {
		fmt.Fprintln(w)
	}
	if alerts := view.AlertCount(); alerts > 0 {
		fmt.Fprintf(w, "\n%d host(s) alerting\n", alerts)
	}
	return nil
}

func newHostsGetCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "get <address>...",
		Short: "Show the current snapshot of one or more hosts",
		Long: `Fetch hosts concurrently and print every collected field.

Examples:
  netmon hosts get 10.0.0.1
  netmon hosts get 10.0.0.1 10.0.0.2 -o json`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: a.completeAddresses,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := a.resolveOutput(output)
			if err != nil {
				return err
			}
			return a.hostsGet(cmd.Context(), cmd.OutOrStdout(), format, args)
		},
	}
	addOutputFlag(cmd, &output)
	return cmd
}

func (a *app) hostsGet(ctx context.Context, w io.Writer, format string, addresses []string) error {
	client, err := a.client()
	if err != nil {
		return a.fail(w, format, err)
	}

	snaps := make([]api.HostSnapshot, len(addresses))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentRequests)
	for i, address := range addresses {
		g.Go(func() error {
			snap, err := client.GetHost(gctx, address)
			if err != nil {
				if stderrors.Is(err, api.ErrNotTracked) {
					return errors.WrapWithCode(err, errors.ErrAPI,
						fmt.Sprintf("Host %s is not tracked", address),
						"List tracked hosts with: netmon hosts list")
				}
				return err
			}
			snaps[i] = *snap
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return a.fail(w, format, err)
	}

	if format == outputJSON {
		return WriteJSONSuccess(w, snaps)
	}
	for i, snap := range snaps {
		if i > 0 {
			fmt.Fprintln(w)
		}
		renderHostDetail(w, snap)
	}
	return nil
}

// renderHostDetail prints the detail view's fields as a key/value block.
func renderHostDetail(w io.Writer, snap api.HostSnapshot) {
	view := monitor.NewDetailView(snap.Address, monitor.DefaultFormatter, nil)
	view.ApplySnapshot(snap)
	f := view.Fields()

	state := view.Badge()
	title := lipgloss.NewStyle().Bold(true).Render(f.Name)
	badge := lipgloss.NewStyle().Foreground(ui.HostStateColor(state)).Render(ui.HostStateSymbol(state) + " " + f.State)
	fmt.Fprintf(w, "%s  %s\n", title, badge)

	label := lipgloss.NewStyle().Foreground(ui.ColorMuted).Width(16)
	rows := [][2]string{
		{"Address", snap.Address},
		{"SNMP name", f.SysName},
		{"Latency", f.Latency},
		{"Latency min/max", f.LatencyMin + " / " + f.LatencyMax},
		{"Packet loss", f.PacketLoss},
		{"Success rate", f.SuccessRate},
		{"Packets", f.Packets},
		{"Throughput", f.Throughput},
		{"CPU", f.CPU},
		{"Memory", f.Memory},
		{"Interface temp", f.InterfaceTemp},
		{"System temp", f.SystemTemp},
		{"PSU", f.PSUStatus},
		{"Last checked", f.LastChecked},
		{"Last alert", f.LastAlert},
		{"Notes", f.Notes},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "  %s %s\n", label.Render(r[0]), r[1])
	}
}

func newHostsAddCmd(a *app) *cobra.Command {
	var values monitor.AddHostsValues
	cmd := &cobra.Command{
		Use:   "add [range]",
		Short: "Start monitoring an address, CIDR block or range",
		Long: `Ask the backend to track every address in a range. Without an argument
an interactive form is shown.

Ranges:
  10.0.0.5               single address
  10.0.0.0/28            CIDR block
  10.0.0.1-10.0.0.20     inclusive range

Examples:
  netmon hosts add 10.0.0.0/28
  netmon hosts add 10.0.0.1-10.0.0.20 --community private --snmp-port 1161`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				values.Range = args[0]
			} else {
				if !interactive() {
					return errors.New(errors.ErrInput,
						"No range given",
						"Pass the range as an argument: netmon hosts add 10.0.0.0/28")
				}
				if ok, err := runForm(cmd.ErrOrStderr(), monitor.NewAddHostsForm(&values)); !ok {
					return err
				}
			}
			return a.hostsAdd(cmd.Context(), cmd.ErrOrStderr(), values)
		},
	}
	cmd.Flags().StringVar(&values.Community, "community", "", "SNMP community (default: backend setting)")
	cmd.Flags().StringVar(&values.SNMPPort, "snmp-port", "", "SNMP port (default: backend setting)")
	return cmd
}

func (a *app) hostsAdd(ctx context.Context, w io.Writer, values monitor.AddHostsValues) error {
	req, err := values.Request()
	if err != nil {
		return err
	}
	client, err := a.client()
	if err != nil {
		return err
	}

	var result *api.AddHostsResult
	err = ui.Run(w, ui.IsTerminalWriter(w), "Adding "+req.Range, func() (string, error) {
		var err error
		result, err = client.AddHosts(ctx, req)
		if err != nil {
			return "", errors.WrapWithCode(err, errors.ErrAPI, monitor.AddFailedStatus(err),
				"Check the range syntax: 10.0.0.5, 10.0.0.0/28 or 10.0.0.1-10.0.0.20")
		}
		return monitor.AddedStatus(*result), nil
	})
	if err != nil {
		return err
	}

	if len(result.Hosts) > 0 {
		fmt.Fprintf(w, "  %s\n", strings.Join(result.Hosts, ", "))
	}
	return nil
}

func newHostsDeleteCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "delete <address>...",
		Aliases: []string{"rm"},
		Short:   "Stop monitoring hosts",
		Long: `Delete hosts from the backend, history included. Deletes run
concurrently; every failure is reported.

Examples:
  netmon hosts delete 10.0.0.7
  netmon hosts delete 10.0.0.7 10.0.0.8 --yes`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: a.completeAddresses,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				if !interactive() {
					return errors.New(errors.ErrInput,
						"Refusing to delete without confirmation",
						"Pass --yes to delete from a script.")
				}
				confirmed := false
				ok, err := runForm(cmd.ErrOrStderr(), monitor.NewDeleteConfirm(strings.Join(args, ", "), &confirmed))
				if !ok {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.ErrOrStderr(), "Cancelled.")
					return nil
				}
			}
			return a.hostsDelete(cmd.Context(), cmd.ErrOrStderr(), args)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func (a *app) hostsDelete(ctx context.Context, w io.Writer, addresses []string) error {
	client, err := a.client()
	if err != nil {
		return err
	}

	failures := make([]error, len(addresses))
	var g errgroup.Group
	g.SetLimit(maxConcurrentRequests)
	for i, address := range addresses {
		g.Go(func() error {
			failures[i] = client.DeleteHost(ctx, address)
			return nil
		})
	}
	_ = g.Wait()

	okStyle := lipgloss.NewStyle().Foreground(ui.ColorSuccess)
	failStyle := lipgloss.NewStyle().Foreground(ui.ColorError)
	failed := 0
	for i, address := range addresses {
		if err := failures[i]; err != nil {
			failed++
			a.log.Debug("delete %s: %v", address, err)
			fmt.Fprintf(w, "%s %s: %s\n", failStyle.Render(ui.SymbolFail), address, monitor.DeleteFailedStatus(err))
			continue
		}
		fmt.Fprintf(w, "%s Deleted %s\n", okStyle.Render(ui.SymbolSuccess), address)
	}

	if failed > 0 {
		return errors.New(errors.ErrAPI,
			fmt.Sprintf("%d of %d delete(s) failed", failed, len(addresses)),
			"Retry the failed addresses, or check the backend log.")
	}
	return nil
}

// fail reports err in the JSON envelope when JSON output was asked for.
func (a *app) fail(w io.Writer, format string, err error) error {
	if format == outputJSON {
		_ = WriteJSONFromError(w, err)
		return errSilent{err}
	}
	return err
}

// errSilent carries an error that was already written to stdout.
type errSilent struct{ error }

func (e errSilent) Unwrap() error { return e.error }

// runForm runs an interactive form. ok is false when the user aborted
// (err nil) or the form failed (err set).
func runForm(w io.Writer, form *huh.Form) (ok bool, err error) {
	if err := form.Run(); err != nil {
		if stderrors.Is(err, huh.ErrUserAborted) {
			fmt.Fprintln(w, "Cancelled.")
			return false, nil
		}
		return false, errors.WrapWithCode(err, errors.ErrInput, "Form failed", "")
	}
	return true, nil
}
