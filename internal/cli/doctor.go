package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/koltont40/networkmonitoring/internal/config"
	"github.com/koltont40/networkmonitoring/internal/doctor"
	"github.com/koltont40/networkmonitoring/internal/errors"
	"github.com/koltont40/networkmonitoring/internal/ui"
)

// DoctorOutput is the JSON form of a doctor report.
type DoctorOutput struct {
	Categories []CategoryOutput `json:"categories"`
	Summary    SummaryOutput    `json:"summary"`
}

// CategoryOutput represents a category of check results.
type CategoryOutput struct {
	Name    string               `json:"name"`
	Results []doctor.CheckResult `json:"results"`
}

// SummaryOutput summarizes the check results.
type SummaryOutput struct {
	Pass     int  `json:"pass"`
	Warn     int  `json:"warn"`
	Fail     int  `json:"fail"`
	Fixable  int  `json:"fixable"`
	AllClear bool `json:"all_clear"`
}

func newDoctorCmd(a *app) *cobra.Command {
	var output string
	var fix bool
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose config, tunnel and backend problems",
		Long: `Run diagnostics: the config file, the SSH tunnel when tunnel.host is
set, and whether the backend answers. Exits non-zero when a check fails.

Examples:
  netmon doctor
  netmon doctor --fix
  netmon doctor -o json`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.loadForDoctor()
			a.cfg = cfg
			if cfg == nil {
				a.cfg = config.DefaultConfig()
			}
			a.setupColor()

			format, err := a.resolveOutput(output)
			if err != nil {
				return err
			}

			checks := a.doctorChecks(cfg)
			results := doctor.RunAll(cmd.Context(), checks)
			if fix {
				results = doctor.FixAll(cmd.Context(), checks, results)
			}

			out := cmd.OutOrStdout()
			if format == outputJSON {
				if err := WriteJSONSuccess(out, buildDoctorOutput(checks, results)); err != nil {
					return err
				}
			} else {
				renderDoctorText(out, checks, results, fix)
			}

			if doctor.HasFailures(results) {
				return errSilent{errors.New(errors.ErrInput, doctor.Summary(results), "")}
			}
			return nil
		},
	}
	addOutputFlag(cmd, &output)
	cmd.Flags().BoolVar(&fix, "fix", false, "attempt automatic fixes where possible")
	return cmd
}

// loadForDoctor loads the config without failing. nil means the config
// checks will report why it can't be used.
func (a *app) loadForDoctor() *config.Config {
	cfg, path, err := config.LoadOrDefault(a.opts.configPath)
	if err != nil {
		return nil
	}
	if a.opts.server != "" {
		cfg.Server.URL = a.opts.server
	}
	if config.Validate(cfg) != nil {
		return nil
	}
	a.cfgPath = path
	return cfg
}

// doctorChecks collects the checks that apply to cfg.
func (a *app) doctorChecks(cfg *config.Config) []doctor.Check {
	checks := doctor.NewConfigChecks(a.opts.configPath)
	if cfg == nil {
		return checks
	}
	if cfg.Tunnel.Enabled() {
		checks = append(checks, doctor.NewTunnelChecks(cfg.Tunnel.Host, cfg.Tunnel.Timeout)...)
	}
	connect := func() (doctor.HostLister, error) {
		c, err := a.client()
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return append(checks, doctor.NewBackendChecks(cfg.Server.URL, connect)...)
}

func buildDoctorOutput(checks []doctor.Check, results []doctor.CheckResult) DoctorOutput {
	grouped := doctor.GroupByCategory(checks)
	output := DoctorOutput{Categories: []CategoryOutput{}}
	for _, cat := range doctor.CategoryOrder {
		indices, ok := grouped[cat]
		if !ok {
			continue
		}
		category := CategoryOutput{Name: cat}
		for _, idx := range indices {
			category.Results = append(category.Results, results[idx])
		}
		output.Categories = append(output.Categories, category)
	}

	counts := doctor.CountByStatus(results)
	output.Summary = SummaryOutput{
		Pass:     counts[doctor.StatusPass],
		Warn:     counts[doctor.StatusWarn],
		Fail:     counts[doctor.StatusFail],
		Fixable:  doctor.FixableCount(results),
		AllClear: !doctor.HasIssues(results),
	}
	return output
}

func renderDoctorText(w io.Writer, checks []doctor.Check, results []doctor.CheckResult, fixed bool) {
	successStyle := lipgloss.NewStyle().Foreground(ui.ColorSuccess)
	errorStyle := lipgloss.NewStyle().Foreground(ui.ColorError)
	warnStyle := lipgloss.NewStyle().Foreground(ui.ColorWarning)
	mutedStyle := lipgloss.NewStyle().Foreground(ui.ColorMuted)
	headerStyle := lipgloss.NewStyle().Bold(true)

	fmt.Fprintln(w, headerStyle.Render("netmon diagnostic report"))
	fmt.Fprintln(w)

	grouped := doctor.GroupByCategory(checks)
	for _, category := range doctor.CategoryOrder {
		indices, ok := grouped[category]
		if !ok {
			continue
		}
		fmt.Fprintln(w, headerStyle.Render(category))
		for _, idx := range indices {
			result := results[idx]
			symbol, style := ui.SymbolSuccess, successStyle
			switch result.Status {
			case doctor.StatusWarn:
				symbol, style = ui.SymbolAlert, warnStyle
			case doctor.StatusFail:
				symbol, style = ui.SymbolFail, errorStyle
			}
			fmt.Fprintf(w, "  %s %s\n", style.Render(symbol), result.Message)

			if result.Suggestion != "" && result.Status != doctor.StatusPass {
				for _, line := range strings.Split(result.Suggestion, "\n") {
					fmt.Fprintf(w, "    %s\n", mutedStyle.Render(line))
				}
			}
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, strings.Repeat("━", ui.HeaderWidth))
	if !doctor.HasIssues(results) {
		fmt.Fprintf(w, "%s %s\n", successStyle.Render(ui.SymbolSuccess), doctor.Summary(results))
		return
	}
	fmt.Fprintf(w, "%s %s\n", errorStyle.Render(ui.SymbolFail), doctor.Summary(results))
	if doctor.FixableCount(results) > 0 && !fixed {
		fmt.Fprintf(w, "\n  Run with %s to attempt automatic fixes where possible.\n", mutedStyle.Render("--fix"))
	}
}
