package cli

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"strings"

	"github.com/koltont40/networkmonitoring/internal/api"
	"github.com/koltont40/networkmonitoring/internal/errors"
)

// JSONEnvelope wraps command output in a consistent structure for machine parsing.
// All -o json output uses this envelope.
type JSONEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *JSONError  `json:"error,omitempty"`
}

// JSONError provides structured error information for machine parsing.
type JSONError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
	Status     int    `json:"status,omitempty"`
	Detail     string `json:"detail,omitempty"`
}

// Error codes for machine-readable output.
const (
	ErrCodeConfigNotFound     = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid      = "CONFIG_INVALID"
	ErrCodeHostNotTracked     = "HOST_NOT_TRACKED"
	ErrCodeBackendRejected    = "BACKEND_REJECTED"
	ErrCodeBackendUnreachable = "BACKEND_UNREACHABLE"
	ErrCodeBadResponse        = "BAD_RESPONSE"
	ErrCodeTunnelFailed       = "TUNNEL_FAILED"
	ErrCodeInvalidInput       = "INVALID_INPUT"
	ErrCodeUnknown            = "UNKNOWN"
)

// WriteJSONSuccess writes a successful response with data to the writer.
func WriteJSONSuccess(w io.Writer, data interface{}) error {
	return writeJSONEnvelope(w, JSONEnvelope{Success: true, Data: data})
}

// WriteJSONFromError converts a Go error to a JSON error response.
func WriteJSONFromError(w io.Writer, err error) error {
	return writeJSONEnvelope(w, JSONEnvelope{Success: false, Error: ErrorToJSON(err)})
}

func writeJSONEnvelope(w io.Writer, env JSONEnvelope) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}

// ErrorToJSON converts a Go error to a JSONError with a stable code.
func ErrorToJSON(err error) *JSONError {
	if err == nil {
		return nil
	}

	out := &JSONError{Code: ErrCodeUnknown, Message: err.Error()}

	var nmErr *errors.Error
	if stderrors.As(err, &nmErr) {
		out.Code = mapErrorCode(nmErr.Code, nmErr.Message)
		out.Message = nmErr.Message
		out.Suggestion = nmErr.Suggestion
	}

	var apiErr *api.APIError
	if stderrors.As(err, &apiErr) {
		out.Status = apiErr.Status
		out.Detail = apiErr.Detail
	}
	if stderrors.Is(err, api.ErrNotTracked) {
		out.Code = ErrCodeHostNotTracked
	}
	return out
}

// mapErrorCode maps internal error codes to machine-readable codes.
func mapErrorCode(internalCode, message string) string {
	switch internalCode {
	case errors.ErrConfig:
		msgLower := strings.ToLower(message)
		if strings.Contains(msgLower, "not found") {
			return ErrCodeConfigNotFound
		}
		return ErrCodeConfigInvalid
	case errors.ErrAPI:
		return ErrCodeBackendRejected
	case errors.ErrTransport:
		return ErrCodeBackendUnreachable
	case errors.ErrDecode:
		return ErrCodeBadResponse
	case errors.ErrTunnel:
		return ErrCodeTunnelFailed
	case errors.ErrInput:
		return ErrCodeInvalidInput
	}
	return ErrCodeUnknown
}
