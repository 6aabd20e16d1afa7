package monitor

import (
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/koltont40/networkmonitoring/internal/api"
	"github.com/koltont40/networkmonitoring/internal/errors"
)

// Status and label texts shown for mutating actions.
const (
	StatusAddingHosts  = "Adding hosts..."
	StatusAddFailed    = "Failed to add hosts"
	StatusSaving       = "Saving..."
	StatusSaved        = "Saved"
	StatusSaveFailed   = "Failed to save settings"
	StatusDeleteFailed = "Failed to delete host"
	StatusUnexpected   = "Unexpected error"

	LabelRescan     = "Rescan now"
	LabelRescanning = "Rescanning..."
)

// SavedStatusTTL is how long "Saved" stays on screen.
const SavedStatusTTL = 2 * time.Second

// AddedStatus summarizes a successful add-hosts call.
func AddedStatus(r api.AddHostsResult) string {
	s := fmt.Sprintf("Added %d host(s)", r.Added)
	if r.Skipped > 0 {
		s += fmt.Sprintf(", skipped %d", r.Skipped)
	}
	return s
}

// AddFailedStatus is the backend's detail for a rejected request, or a
// generic message.
func AddFailedStatus(err error) string {
	return failureText(err, StatusAddFailed)
}

// SaveFailedStatus describes a failed settings save.
func SaveFailedStatus(err error) string {
	var apiErr *api.APIError
	if stderrors.As(err, &apiErr) {
		return StatusSaveFailed
	}
	return failureText(err, StatusSaveFailed)
}

// DeleteFailedStatus describes a failed delete.
func DeleteFailedStatus(err error) string {
	if detail := api.DetailOf(err); detail != "" {
		return StatusDeleteFailed + ": " + detail
	}
	return StatusDeleteFailed
}

// RescanLabel is the rescan control's label.
func RescanLabel(busy bool) string {
	if busy {
		return LabelRescanning
	}
	return LabelRescan
}

// failureText picks the most specific message err carries.
func failureText(err error, fallback string) string {
	var apiErr *api.APIError
	if stderrors.As(err, &apiErr) {
		if apiErr.Detail != "" {
			return apiErr.Detail
		}
		return fallback
	}
	var nmErr *errors.Error
	if stderrors.As(err, &nmErr) && nmErr.Message != "" {
		return nmErr.Message
	}
	return StatusUnexpected
}

// AddHostsValues backs the add-hosts form.
type AddHostsValues struct {
	Range     string
	Community string
	SNMPPort  string
}

// Request validates the values into a request body.
func (v AddHostsValues) Request() (api.AddHostsRequest, error) {
	return api.NewAddHostsRequest(v.Range, v.Community, v.SNMPPort)
}

// NewAddHostsForm builds the add-hosts form over v.
func NewAddHostsForm(v *AddHostsValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Hosts").
				Description("Address, CIDR (10.0.0.0/30) or range (10.0.0.1-10.0.0.20)").
				Value(&v.Range).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("a host or range is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("SNMP community").
				Description("Leave empty for the backend default").
				Value(&v.Community),
			huh.NewInput().
				Title("SNMP port").
				Description("Leave empty for the backend default").
				Value(&v.SNMPPort).
				Validate(validatePort),
		),
	).WithShowHelp(false)
}

// SettingsValues backs the settings form. Field order follows the payload keys.
type SettingsValues struct {
	MonitorIntervalSeconds string
	LatencyThresholdMs     string
	PacketLossThresholdPct string
	SNMPCommunity          string
	SNMPPort               string

	SMTPHost        string
	SMTPPort        string
	SMTPUsername    string
	SMTPPassword    string
	SMTPSender      string
	SMTPRecipients  string
	SlackWebhookURL string
}

// Form returns the raw values keyed by setting name.
func (v SettingsValues) Form() map[string]string {
	return map[string]string{
		"monitor_interval_seconds":  v.MonitorIntervalSeconds,
		"latency_threshold_ms":      v.LatencyThresholdMs,
		"packet_loss_threshold_pct": v.PacketLossThresholdPct,
		"snmp_community":            v.SNMPCommunity,
		"snmp_port":                 v.SNMPPort,
		"smtp_host":                 v.SMTPHost,
		"smtp_port":                 v.SMTPPort,
		"smtp_username":             v.SMTPUsername,
		"smtp_password":             v.SMTPPassword,
		"smtp_sender":               v.SMTPSender,
		"smtp_recipients":           v.SMTPRecipients,
		"slack_webhook_url":         v.SlackWebhookURL,
	}
}

// Payload serializes the form. The client cannot read the current settings,
// so with omitBlank set untouched fields are left out instead of being
// posted as null.
func (v SettingsValues) Payload(omitBlank bool) (api.Settings, error) {
	form := v.Form()
	if omitBlank {
		for k, val := range form {
			if strings.TrimSpace(val) == "" {
				delete(form, k)
			}
		}
	}
	return api.SerializeSettings(form)
}

// NewSettingsForm builds the two settings groups over v.
func NewSettingsForm(v *SettingsValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Monitor interval (seconds)").Value(&v.MonitorIntervalSeconds).Validate(validateNumber),
			huh.NewInput().Title("Latency threshold (ms)").Value(&v.LatencyThresholdMs).Validate(validateNumber),
			huh.NewInput().Title("Packet loss threshold (%)").Value(&v.PacketLossThresholdPct).Validate(validateNumber),
			huh.NewInput().Title("SNMP community").Value(&v.SNMPCommunity),
			huh.NewInput().Title("SNMP port").Value(&v.SNMPPort).Validate(validatePort),
		).Title("Monitoring"),
		huh.NewGroup(
			huh.NewInput().Title("SMTP host").Value(&v.SMTPHost),
			huh.NewInput().Title("SMTP port").Value(&v.SMTPPort).Validate(validatePort),
			huh.NewInput().Title("SMTP username").Value(&v.SMTPUsername),
			huh.NewInput().Title("SMTP password").Value(&v.SMTPPassword).EchoMode(huh.EchoModePassword),
			huh.NewInput().Title("Sender").Value(&v.SMTPSender),
			huh.NewInput().Title("Recipients").Description("Comma separated").Value(&v.SMTPRecipients),
			huh.NewInput().Title("Slack webhook URL").Value(&v.SlackWebhookURL),
		).Title("Alerts"),
	).WithShowHelp(false)
}

// NewDeleteConfirm asks before a host is deleted.
func NewDeleteConfirm(address string, confirmed *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Stop monitoring %s?", address)).
				Description("Its history is deleted with it.").
				Affirmative("Delete").
				Negative("Cancel").
				Value(confirmed),
		),
	).WithShowHelp(false)
}

func validateNumber(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return fmt.Errorf("must be a number")
	}
	return nil
}

func validatePort(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	port, err := strconv.Atoi(s)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("must be a port between 1 and 65535")
	}
	return nil
}
