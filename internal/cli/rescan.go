package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/koltont40/networkmonitoring/internal/errors"
	"github.com/koltont40/networkmonitoring/internal/monitor"
	"github.com/koltont40/networkmonitoring/internal/ui"
)

func newRescanCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rescan",
		Short: "Probe every host now",
		Long: `Ask the backend to run a probe cycle immediately instead of waiting for
its monitor interval.

Examples:
  netmon rescan
  netmon rescan && netmon hosts list`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.rescan(cmd.Context(), cmd.ErrOrStderr())
		},
	}
}

func (a *app) rescan(ctx context.Context, w io.Writer) error {
	client, err := a.client()
	if err != nil {
		return err
	}
	return ui.Run(w, ui.IsTerminalWriter(w), monitor.LabelRescan, func() (string, error) {
		if err := client.Rescan(ctx); err != nil {
			return "", errors.WrapWithCode(err, errors.ErrAPI, "Rescan failed", "Check the backend log.")
		}
		return "", nil
	})
}
