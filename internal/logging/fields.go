package logging

import "log/slog"

// Common structured log field keys to keep logs searchable/consistent.
const (
	FieldService    = "service"
	FieldVersion    = "version"
	FieldSource     = "source"
	FieldRequestID  = "request_id"
	FieldClientID   = "client_id"
	FieldPath       = "path"
	FieldMethod     = "method"
	FieldStatusCode = "status_code"
	FieldStatus     = "status"
	FieldDate       = "date"
	FieldCount      = "count"
	FieldCycle      = "cycle"
	FieldDurationMS = "duration_ms"
	FieldAttempt    = "attempt"
	FieldEndpoint   = "endpoint"
)

// WithCommon appends service/version fields when provided.
func WithCommon(attrs []slog.Attr, service, version string) []slog.Attr {
	if service != "" {
		attrs = append(attrs, slog.String(FieldService, service))
	}
	if version != "" {
		attrs = append(attrs, slog.String(FieldVersion, version))
	}
	return attrs
}
