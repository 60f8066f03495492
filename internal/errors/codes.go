package errors

// Common error codes
const (
	// System errors
	ErrInternal        ErrorCode = "internal_error"
	ErrInvalidArgument ErrorCode = "invalid_argument"

	// Configuration errors
	ErrInvalidConfig     ErrorCode = "invalid_configuration"
	ErrBindFlags         ErrorCode = "bind_flags_failed"
	ErrReadConfig        ErrorCode = "read_config_failed"
	ErrInvalidInterval   ErrorCode = "invalid_interval"
	ErrInvalidThreshold  ErrorCode = "invalid_threshold"
	ErrMissingCredential ErrorCode = "missing_credential"

	// Logging errors
	ErrInvalidLogLevel ErrorCode = "invalid_log_level"
	ErrLogSinkFailed   ErrorCode = "log_sink_failed"

	// Lifecycle errors
	ErrInitApp        ErrorCode = "init_app_failed"
	ErrAlreadyRunning ErrorCode = "already_running"

	// Collection errors
	ErrCollectMetrics ErrorCode = "collect_metrics_failed"
	ErrStaleCounters  ErrorCode = "stale_network_counters"

	// Transmission errors
	ErrNotifySend   ErrorCode = "notify_send_failed"
	ErrNotifyStatus ErrorCode = "notify_bad_status"
	ErrNotifyRender ErrorCode = "notify_render_failed"

	// Loop errors
	ErrAlertTick  ErrorCode = "alert_tick_failed"
	ErrStatusTick ErrorCode = "status_tick_failed"
)

// Common error messages
var errorMessages = map[ErrorCode]string{
	ErrInternal:          "Internal error occurred",
	ErrInvalidArgument:   "Invalid argument provided",
	ErrInvalidConfig:     "Invalid configuration",
	ErrBindFlags:         "Failed to bind flags",
	ErrReadConfig:        "Failed to read configuration",
	ErrInvalidInterval:   "Invalid interval value",
	ErrInvalidThreshold:  "Invalid threshold value",
	ErrMissingCredential: "Missing messaging credential",
	ErrInvalidLogLevel:   "Invalid log level",
	ErrLogSinkFailed:     "Failed to establish log sink",
	ErrInitApp:           "Failed to initialize application",
	ErrAlreadyRunning:    "Another instance is already running",
	ErrCollectMetrics:    "Failed to collect metrics data",
	ErrStaleCounters:     "Network counters have no valid baseline",
	ErrNotifySend:        "Failed to send notification",
	ErrNotifyStatus:      "Notification rejected by messaging backend",
	ErrNotifyRender:      "Failed to render notification",
	ErrAlertTick:         "Error in alert loop tick",
	ErrStatusTick:        "Error in status loop tick",
}

// GetErrorMessage returns the message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}

	return string(code)
}

// transientCodes are the codes a monitoring loop recovers from by logging
// and waiting for its next tick. Everything else is only expected during
// startup, where it aborts the process.
var transientCodes = map[ErrorCode]struct{}{
	ErrCollectMetrics: {},
	ErrStaleCounters:  {},
	ErrNotifySend:     {},
	ErrNotifyStatus:   {},
	ErrNotifyRender:   {},
	ErrAlertTick:      {},
	ErrStatusTick:     {},
}

// IsTransient reports whether err carries a code the monitoring loops are
// allowed to swallow. Unknown errors are treated as transient as well: a
// loop must never terminate on an unexpected failure.
func IsTransient(err error) bool {
	var appErr Error
	if !As(err, &appErr) {
		return true
	}

	_, ok := transientCodes[appErr.Code()]

	return ok
}
