package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/koltont40/networkmonitoring/internal/errors"
)

// Output formats accepted by -o.
const (
	outputTable = "table"
	outputJSON  = "json"
)

// addOutputFlag registers -o/--output. An empty value means output.format from config.
func addOutputFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "output", "o", "", "output format: table or json (default from output.format)")
	_ = cmd.RegisterFlagCompletionFunc("output", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{outputTable, outputJSON}, cobra.ShellCompDirectiveNoFileComp
	})
}

// resolveOutput picks the flag value over the configured default.
func (a *app) resolveOutput(flag string) (string, error) {
	format := flag
	if format == "" {
		format = a.cfg.Output.Format
	}
	switch format {
	case "", outputTable:
		return outputTable, nil
	case outputJSON:
		return outputJSON, nil
	}
	return "", errors.New(errors.ErrInput,
		fmt.Sprintf("Unknown output format %q", format),
		"Use -o table or -o json.")
}

// parseKeyValues turns repeated key=value flags into a map. Values may be
// empty, which clears the setting.
func parseKeyValues(pairs []string, allowed map[string]bool) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, errors.New(errors.ErrInput,
				fmt.Sprintf("'%s' is not key=value", pair),
				"Example: --set latency_threshold_ms=150")
		}
		if allowed != nil && !allowed[key] {
			return nil, errors.New(errors.ErrInput,
				fmt.Sprintf("Unknown setting '%s'", key),
				"Known settings: "+strings.Join(sortedKeys(allowed), ", "))
		}
		out[key] = value
	}
	return out, nil
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
