package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/koltont40/networkmonitoring/internal/config"
	"github.com/koltont40/networkmonitoring/internal/errors"
	"github.com/koltont40/networkmonitoring/internal/ui"
	"github.com/koltont40/networkmonitoring/pkg/sshutil"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create, inspect and edit netmon.yaml",
		Long: `Manage the netmon config file.

The file is looked up in this order:
  1. --config
  2. ./netmon.yaml
  3. the user config dir (e.g. ~/.config/netmon/config.yaml)

Every key can also be set from the environment, e.g. NETMON_SERVER_URL.`,
	}
	cmd.AddCommand(newConfigInitCmd(a), newConfigShowCmd(a), newConfigSetCmd(a))
	return cmd
}

// targetPath is where init and set write: --config, the file in use, or the global path.
func (a *app) targetPath() (string, error) {
	if a.opts.configPath != "" {
		return a.opts.configPath, nil
	}
	if found, err := config.Find(""); err == nil && found != "" {
		return found, nil
	}
	if global := config.GlobalPath(); global != "" {
		return global, nil
	}
	return "", errors.New(errors.ErrConfig,
		"Can't determine where to write the config",
		"Pass --config <path>.")
}

func newConfigInitCmd(a *app) *cobra.Command {
	var force bool
	var local bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with defaults",
		Long: `Create a config file with default values. --server is stored as
server.url.

Examples:
  netmon config init --server http://10.0.0.2:8000
  netmon config init --local`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.opts.configPath
			if path == "" && local {
				path = config.ConfigFileName
			}
			if path == "" {
				path = config.GlobalPath()
			}
			if path == "" {
				return errors.New(errors.ErrConfig, "Can't determine the user config dir", "Pass --config <path> or --local.")
			}

			if _, err := os.Stat(path); err == nil && !force {
				return errors.New(errors.ErrConfig,
					"Config already exists at "+path,
					"Use --force to overwrite, or 'netmon config set' to change one key.")
			}

			cfg := config.DefaultConfig()
			if a.opts.server != "" {
				cfg.Server.URL = a.opts.server
			}
			if err := config.Validate(cfg); err != nil {
				return err
			}
			if err := config.Save(path, cfg); err != nil {
				return err
			}

			abs, _ := filepath.Abs(path)
			fmt.Fprintf(cmd.OutOrStdout(), "%s Wrote %s\n", ui.SymbolSuccess, abs)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	cmd.Flags().BoolVar(&local, "local", false, "write ./netmon.yaml instead of the user config dir")
	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective config",
		Long:  `Print the config after defaults, the file, environment overrides and --server are applied.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			source := a.cfgPath
			if source == "" {
				source = "defaults (no config file)"
			}
			fmt.Fprint(out, ui.RenderHeader(ui.HeaderInfo{
				Version: formatVersion(version),
				Tagline: "config: " + source,
				Server:  a.cfg.Server.URL,
			}))

			data, err := yaml.Marshal(a.cfg)
			if err != nil {
				return errors.WrapWithCode(err, errors.ErrConfig, "Can't render config", "")
			}
			_, err = out.Write(data)
			return err
		},
	}
}

func newConfigSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one config key",
		Long: `Set a single key in the config file, creating the file if needed.

Examples:
  netmon config set server.url http://10.0.0.2:8000
  netmon config set poll.interval_seconds 10
  netmon config set tunnel.host bastion`,
		Args:        cobra.ExactArgs(2),
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		ValidArgsFunction: func(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			switch {
			case len(args) == 0:
				return config.SettableKeys(), cobra.ShellCompDirectiveNoFileComp
			case len(args) == 1 && args[0] == "tunnel.host":
				return tunnelHostCompletions(), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.targetPath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); os.IsNotExist(err) {
				if err := config.Save(path, config.DefaultConfig()); err != nil {
					return err
				}
			}
			if err := config.Set(path, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %s (%s)\n", ui.SymbolSuccess, args[0], args[1], path)
			return nil
		},
	}
}

// tunnelHostCompletions offers ~/.ssh/config aliases we have a key for.
func tunnelHostCompletions() []string {
	hosts, err := sshutil.ParseSSHConfig()
	if err != nil {
		return nil
	}
	var out []string
	for _, h := range sshutil.FilterHostsWithKeys(hosts) {
		out = append(out, h.Alias+"\t"+h.Description())
	}
	return out
}
