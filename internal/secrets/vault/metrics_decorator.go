package vault

import (
	"context"
	"time"

	"github.com/allisson/blog/internal/metrics"
)

// readerWithMetrics decorates SecretReader with metrics instrumentation.
type readerWithMetrics struct {
	next    SecretReader
	metrics metrics.BusinessMetrics
}

// NewSecretReaderWithMetrics wraps a SecretReader with metrics recording.
func NewSecretReaderWithMetrics(reader SecretReader, m metrics.BusinessMetrics) SecretReader {
	return &readerWithMetrics{
		next:    reader,
		metrics: m,
	}
}

// GetSecret records metrics for secret reads. Paths and keys are not used as labels.
func (r *readerWithMetrics) GetSecret(ctx context.Context, path, key string) (string, error) {
	start := time.Now()
	value, err := r.next.GetSecret(ctx, path, key)

	status := "success"
	if err != nil {
		status = "error"
	}

	r.metrics.RecordOperation(ctx, "secrets", "secret_get", status)
	r.metrics.RecordDuration(ctx, "secrets", "secret_get", time.Since(start), status)

	return value, err
}
