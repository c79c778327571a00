package monitor

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation labels used for both the atomic counters and the Prometheus series.
const (
	OpInsert = "insert"
	OpDelete = "delete"
	OpFind   = "find"
	OpRange  = "range"
	OpPrefix = "prefix"
)

var (
	opsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "indexdb_operations_total",
		Help: "Engine operations by kind.",
	}, []string{"op"})

	hitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "indexdb_hits_total",
		Help: "Engine reads that returned at least one live record.",
	}, []string{"op"})

	comparisonsPerOp = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "indexdb_key_comparisons",
		Help:    "Key comparisons performed by one index operation.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 16),
	}, []string{"op"})
)

type WorkloadStats struct {
	ReadCount       uint64
	WriteCount      uint64
	HitCount        uint64
	ComparisonCount uint64
}

func NewWorkloadStats() *WorkloadStats {
	return &WorkloadStats{}
}

func (ws *WorkloadStats) RecordRead(op string, comparisons int, hit bool) {
	atomic.AddUint64(&ws.ReadCount, 1)
	atomic.AddUint64(&ws.ComparisonCount, uint64(comparisons))
	opsTotal.WithLabelValues(op).Inc()
	comparisonsPerOp.WithLabelValues(op).Observe(float64(comparisons))
	if hit {
		atomic.AddUint64(&ws.HitCount, 1)
		hitsTotal.WithLabelValues(op).Inc()
	}
}

func (ws *WorkloadStats) RecordWrite(op string) {
	atomic.AddUint64(&ws.WriteCount, 1)
	opsTotal.WithLabelValues(op).Inc()
}

func (ws *WorkloadStats) GetReadWriteRatio() float64 {
	reads := atomic.LoadUint64(&ws.ReadCount)
	writes := atomic.LoadUint64(&ws.WriteCount)

	if writes == 0 {
		if reads > 0 {
			return 100.0
		}
		return 0.0
	}
	return float64(reads) / float64(writes)
}

// AvgComparisons is the mean comparison count over all reads so far.
func (ws *WorkloadStats) AvgComparisons() float64 {
	reads := atomic.LoadUint64(&ws.ReadCount)
	if reads == 0 {
		return 0
	}
	return float64(atomic.LoadUint64(&ws.ComparisonCount)) / float64(reads)
}
