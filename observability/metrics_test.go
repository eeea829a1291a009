package observability_test

import (
	"testing"
	"time"

	"github.com/nwkauto/go-phpipam/observability"
)

func TestNoopMetricsRecorder(t *testing.T) {
	t.Parallel()

	recorder := observability.NoopMetricsRecorder()

	// All methods should execute without panicking
	recorder.RecordHTTPRequest("GET", "/test", 200, time.Second)
	recorder.RecordRateLimit("/endpoint", time.Millisecond*100)
	recorder.RecordSearch("subnets", 3)
	recorder.RecordError("operation", "NetworkError")
}

// BenchmarkNoopMetricsRecorder measures the overhead of noop metrics recorder calls.
func BenchmarkNoopMetricsRecorder(b *testing.B) {
	recorder := observability.NoopMetricsRecorder()

	b.Run("RecordHTTPRequest", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			recorder.RecordHTTPRequest("GET", "/test", 200, time.Second)
		}
	})

	b.Run("RecordRateLimit", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			recorder.RecordRateLimit("/endpoint", time.Millisecond*100)
		}
	})

	b.Run("RecordSearch", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			recorder.RecordSearch("subnets", 3)
		}
	})

	b.Run("RecordError", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			recorder.RecordError("operation", "NetworkError")
		}
	})
}
