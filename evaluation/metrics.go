package evaluation

import (
	"sync/atomic"
	"time"
)

// MetricsCollector receives operational metrics from a Builder.
//
// RecordImage is called concurrently from the matching workers.
type MetricsCollector interface {
	// RecordImage is called once per matched image. matches is the number of
	// surviving pairs, unmatched the number of ground truths without one. err is
	// nil on success.
	RecordImage(duration time.Duration, matches, unmatched int, err error)

	// RecordBatch is called once per Build with the number of images, emitted
	// records and skipped images.
	RecordBatch(images, records, skipped int, duration time.Duration)
}

// NoopMetricsCollector discards all metrics.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordImage(time.Duration, int, int, error) {}
func (NoopMetricsCollector) RecordBatch(int, int, int, time.Duration)   {}

// BasicMetricsCollector keeps simple in-memory counters.
type BasicMetricsCollector struct {
	ImageCount      atomic.Int64
	ImageErrors     atomic.Int64
	ImageTotalNanos atomic.Int64
	Matches         atomic.Int64
	Unmatched       atomic.Int64
	BatchCount      atomic.Int64
	Records         atomic.Int64
	SkippedImages   atomic.Int64
}

// RecordImage implements MetricsCollector.
func (b *BasicMetricsCollector) RecordImage(duration time.Duration, matches, unmatched int, err error) {
	b.ImageCount.Add(1)
	b.ImageTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ImageErrors.Add(1)
		return
	}
	b.Matches.Add(int64(matches))
	b.Unmatched.Add(int64(unmatched))
}

// RecordBatch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBatch(_, records, skipped int, _ time.Duration) {
	b.BatchCount.Add(1)
	b.Records.Add(int64(records))
	b.SkippedImages.Add(int64(skipped))
}

// AverageImageLatency returns the mean per-image matching time.
func (b *BasicMetricsCollector) AverageImageLatency() time.Duration {
	n := b.ImageCount.Load()
	if n == 0 {
		return 0
	}
	return time.Duration(b.ImageTotalNanos.Load() / n)
}
