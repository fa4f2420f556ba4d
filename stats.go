package rhythmgo

import (
	"sync/atomic"
	"time"
)

// StatsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    generateCounter   prometheus.Counter
//	    generateHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordGenerate(count uint64, duration time.Duration, err error) {
//	    p.generateCounter.Inc()
//	    // ... record error state, duration, etc.
//	}
type StatsCollector interface {
	// RecordGenerate is called after the enumerate-and-score step.
	// count is the number of vectors produced, duration is the total
	// time taken, err is nil if successful.
	RecordGenerate(count uint64, duration time.Duration, err error)

	// RecordFilter is called after each filter application.
	// kept is the cardinality of the resulting view.
	RecordFilter(kept, total int, duration time.Duration)

	// RecordSessionSave is called after each session save.
	RecordSessionSave(duration time.Duration, err error)

	// RecordSessionLoad is called after each session open.
	RecordSessionLoad(duration time.Duration, err error)
}

// NoopStatsCollector is a no-op implementation of StatsCollector.
// Use this when stats collection is not needed.
type NoopStatsCollector struct{}

func (NoopStatsCollector) RecordGenerate(uint64, time.Duration, error) {}
func (NoopStatsCollector) RecordFilter(int, int, time.Duration)        {}
func (NoopStatsCollector) RecordSessionSave(time.Duration, error)      {}
func (NoopStatsCollector) RecordSessionLoad(time.Duration, error)      {}

// BasicStatsCollector provides simple in-memory stats collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicStatsCollector struct {
	GenerateCount      atomic.Int64
	GenerateErrors     atomic.Int64
	GenerateVectors    atomic.Int64
	GenerateTotalNanos atomic.Int64
	FilterCount        atomic.Int64
	FilterKept         atomic.Int64
	FilterTotalNanos   atomic.Int64
	SaveCount          atomic.Int64
	SaveErrors         atomic.Int64
	LoadCount          atomic.Int64
	LoadErrors         atomic.Int64
}

// RecordGenerate implements StatsCollector.
func (b *BasicStatsCollector) RecordGenerate(count uint64, duration time.Duration, err error) {
	b.GenerateCount.Add(1)
	b.GenerateTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.GenerateErrors.Add(1)
		return
	}
	b.GenerateVectors.Add(int64(count))
}

// RecordFilter implements StatsCollector.
func (b *BasicStatsCollector) RecordFilter(kept, total int, duration time.Duration) {
	b.FilterCount.Add(1)
	b.FilterKept.Add(int64(kept))
	b.FilterTotalNanos.Add(duration.Nanoseconds())
}

// RecordSessionSave implements StatsCollector.
func (b *BasicStatsCollector) RecordSessionSave(duration time.Duration, err error) {
	b.SaveCount.Add(1)
	if err != nil {
		b.SaveErrors.Add(1)
	}
}

// RecordSessionLoad implements StatsCollector.
func (b *BasicStatsCollector) RecordSessionLoad(duration time.Duration, err error) {
	b.LoadCount.Add(1)
	if err != nil {
		b.LoadErrors.Add(1)
	}
}

// GetStats returns a snapshot of current stats.
func (b *BasicStatsCollector) GetStats() BasicStats {
	return BasicStats{
		GenerateCount:     b.GenerateCount.Load(),
		GenerateErrors:    b.GenerateErrors.Load(),
		GenerateVectors:   b.GenerateVectors.Load(),
		GenerateAvgNanos:  b.getAvgGenerateNanos(),
		FilterCount:       b.FilterCount.Load(),
		FilterKept:        b.FilterKept.Load(),
		FilterAvgNanos:    b.getAvgFilterNanos(),
		SessionSaveCount:  b.SaveCount.Load(),
		SessionSaveErrors: b.SaveErrors.Load(),
		SessionLoadCount:  b.LoadCount.Load(),
		SessionLoadErrors: b.LoadErrors.Load(),
	}
}

func (b *BasicStatsCollector) getAvgGenerateNanos() int64 {
	count := b.GenerateCount.Load()
	if count == 0 {
		return 0
	}
	return b.GenerateTotalNanos.Load() / count
}

func (b *BasicStatsCollector) getAvgFilterNanos() int64 {
	count := b.FilterCount.Load()
	if count == 0 {
		return 0
	}
	return b.FilterTotalNanos.Load() / count
}

// BasicStats is a snapshot of BasicStatsCollector state.
type BasicStats struct {
	GenerateCount     int64
	GenerateErrors    int64
	GenerateVectors   int64
	GenerateAvgNanos  int64
	FilterCount       int64
	FilterKept        int64
	FilterAvgNanos    int64
	SessionSaveCount  int64
	SessionSaveErrors int64
	SessionLoadCount  int64
	SessionLoadErrors int64
}
