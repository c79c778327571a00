package monitor

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestWorkloadStatsRatioAndAverage(t *testing.T) {
	ws := NewWorkloadStats()
	assert.Equal(t, 0.0, ws.GetReadWriteRatio())
	assert.Equal(t, 0.0, ws.AvgComparisons())

	ws.RecordRead(OpFind, 4, true)
	assert.Equal(t, 100.0, ws.GetReadWriteRatio(), "reads without writes")

	ws.RecordWrite(OpInsert)
	ws.RecordRead(OpRange, 8, false)

	assert.Equal(t, 2.0, ws.GetReadWriteRatio())
	assert.Equal(t, 6.0, ws.AvgComparisons())
	assert.Equal(t, uint64(1), ws.HitCount)
}

func TestRecordReadFeedsPrometheus(t *testing.T) {
	before := testutil.ToFloat64(hitsTotal.WithLabelValues(OpPrefix))
	NewWorkloadStats().RecordRead(OpPrefix, 3, true)
	assert.Equal(t, before+1, testutil.ToFloat64(hitsTotal.WithLabelValues(OpPrefix)))
}
