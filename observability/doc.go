// Package observability provides interfaces for logging and metrics collection
// in the go-phpipam library.
//
// This package defines standard interfaces that allow users to integrate their
// own logging and metrics implementations with the phpIPAM client.
//
// # Logger Interface
//
// The Logger interface supports structured logging with key-value pairs:
//
//	logger := myCustomLogger{} // implements observability.Logger
//	client, err := phpipam.NewWithConfig(ctx, &phpipam.Config{
//		Host:   host,
//		App:    app,
//		Logger: logger,
//	})
//
// Supported log levels:
//   - Debug: Detailed diagnostic information
//   - Info: General informational messages
//   - Warn: Warning messages for potentially problematic situations
//   - Error: Error messages for failures
//
// # MetricsRecorder Interface
//
// The MetricsRecorder interface tracks API client metrics:
//
//	metrics := myMetricsRecorder{} // implements observability.MetricsRecorder
//	client, err := phpipam.NewWithConfig(ctx, &phpipam.Config{
//		Host:    host,
//		App:     app,
//		Metrics: metrics,
//	})
//
// Tracked metrics include:
//   - HTTP request count, status codes, and duration
//   - Rate limiting events and wait times
//   - Search hit counts per category
//   - Error occurrences by type
//
// # Default Behavior
//
// If no logger or metrics recorder is provided, the client uses no-op
// implementations that discard all events. This ensures zero overhead
// when observability is not needed.
package observability
