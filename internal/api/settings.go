package api

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/koltont40/networkmonitoring/internal/errors"
)

// NumericSettingKeys are coerced from form strings to numbers before posting.
var NumericSettingKeys = map[string]bool{
	"monitor_interval_seconds":  true,
	"latency_threshold_ms":      true,
	"packet_loss_threshold_pct": true,
	"smtp_port":                 true,
	"snmp_port":                 true,
}

// SerializeSettings turns raw form values into a settings payload.
// Empty strings become null, numeric keys become float64 and every other
// value is passed through unchanged.
func SerializeSettings(form map[string]string) (Settings, error) {
	payload := make(Settings, len(form))

	keys := make([]string, 0, len(form))
	for k := range form {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := form[key]
		if value == "" {
			payload[key] = nil
			continue
		}
		if !NumericSettingKeys[key] {
			payload[key] = value
			continue
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, errors.New(errors.ErrInput,
				fmt.Sprintf("%s must be a number, got %q", key, value),
				"Leave the field empty to clear it")
		}
		payload[key] = n
	}
	return payload, nil
}

// NewAddHostsRequest builds the add-hosts body from raw form input.
// The range is trimmed, a blank community or port is sent as null.
func NewAddHostsRequest(rangeInput, community, snmpPort string) (AddHostsRequest, error) {
	req := AddHostsRequest{Range: strings.TrimSpace(rangeInput)}
	if req.Range == "" {
		return req, errors.New(errors.ErrInput,
			"A host or range is required",
			"Use an address (10.0.0.5), a CIDR (10.0.0.0/30) or a dash range")
	}

	if c := strings.TrimSpace(community); c != "" {
		req.Community = &c
	}

	if p := strings.TrimSpace(snmpPort); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil || port < 1 || port > 65535 {
			return req, errors.New(errors.ErrInput,
				fmt.Sprintf("SNMP port %q isn't a valid port", snmpPort),
				"Use a number between 1 and 65535, or leave it empty for the default")
		}
		req.SNMPPort = &port
	}
	return req, nil
}
