package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/koltont40/networkmonitoring/internal/api"
	"github.com/koltont40/networkmonitoring/internal/errors"
	"github.com/koltont40/networkmonitoring/internal/monitor"
	"github.com/koltont40/networkmonitoring/internal/ui"
)

// settingKeys are the keys accepted by --set.
func settingKeys() map[string]bool {
	keys := make(map[string]bool)
	for k := range (monitor.SettingsValues{}).Form() {
		keys[k] = true
	}
	return keys
}

func newSettingsCmd(a *app) *cobra.Command {
	var sets []string
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Update backend monitoring and alert settings",
		Long: `Post new settings to the backend. With --set only the named keys are
sent; an empty value clears a setting. Without --set a form is shown and
only the fields you fill in are sent.

Examples:
  netmon settings
  netmon settings --set latency_threshold_ms=150 --set snmp_port=161
  netmon settings --set slack_webhook_url=`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var payload api.Settings
			if len(sets) > 0 {
				form, err := parseKeyValues(sets, settingKeys())
				if err != nil {
					return err
				}
				if payload, err = api.SerializeSettings(form); err != nil {
					return err
				}
			} else {
				if !interactive() {
					return errors.New(errors.ErrInput,
						"No settings given",
						"Pass one or more --set key=value.")
				}
				var values monitor.SettingsValues
				ok, err := runForm(cmd.ErrOrStderr(), monitor.NewSettingsForm(&values))
				if !ok {
					return err
				}
				if payload, err = values.Payload(true); err != nil {
					return err
				}
			}
			return a.saveSettings(cmd.Context(), cmd.ErrOrStderr(), payload)
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "setting as key=value (repeatable)")
	_ = cmd.RegisterFlagCompletionFunc("set", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		keys := sortedKeys(settingKeys())
		for i, k := range keys {
			keys[i] = k + "="
		}
		return keys, cobra.ShellCompDirectiveNoSpace | cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func (a *app) saveSettings(ctx context.Context, w io.Writer, payload api.Settings) error {
	if len(payload) == 0 {
		fmt.Fprintln(w, "Nothing to save.")
		return nil
	}
	client, err := a.client()
	if err != nil {
		return err
	}
	return ui.Run(w, ui.IsTerminalWriter(w), "Saving settings", func() (string, error) {
		if err := client.SaveSettings(ctx, payload); err != nil {
			return "", errors.WrapWithCode(err, errors.ErrAPI, monitor.SaveFailedStatus(err), "")
		}
		return monitor.StatusSaved, nil
	})
}
