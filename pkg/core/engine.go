package core

import (
	"strings"

	"indexdb/pkg/common"
	"indexdb/pkg/config"
	"indexdb/pkg/monitor"

	"go.uber.org/zap"
)

// Engine keeps records in an append-only heap and indexes them twice:
// idIndex maps an id to its heap position, lastIndex maps a lower-cased
// last name to every position ever inserted under it.
//
// Positions are assigned once and never reused. Deletes only flip the
// record's Deleted flag and drop the id from idIndex; lastIndex buckets keep
// stale positions, so every read path filters on Deleted.
//
// Engine does no locking. Callers that share one across goroutines must
// serialize access themselves.
type Engine struct {
	heap      []common.Record
	idIndex   Index[int64, int]
	lastIndex Index[string, []int]
	sentinel  string
	deleted   int

	stats  *monitor.WorkloadStats
	logger *zap.Logger
}

// Stats is a point-in-time summary of the engine.
type Stats struct {
	IndexType string  `json:"index_type"`
	HeapSize  int     `json:"heap_size"`
	Live      int     `json:"live"`
	Deleted   int     `json:"deleted"`
	IDKeys    int     `json:"id_keys"`
	LastKeys  int     `json:"last_keys"`
	RWRatio   float64 `json:"rw_ratio"`
	AvgCmp    float64 `json:"avg_comparisons"`
}

// NewEngine builds an empty engine. A nil cfg uses config.Default, and a nil
// logger is replaced by a no-op logger.
func NewEngine(cfg *config.Config, logger *zap.Logger) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	sentinel := cfg.Index.PrefixSentinel
	if sentinel == "" {
		sentinel = config.DefaultPrefixSentinel
	}
	kind := ParseKind(cfg.Index.Kind)

	return &Engine{
		idIndex:   NewIndex[int64, int](kind, cfg.Index.Degree),
		lastIndex: NewIndex[string, []int](kind, cfg.Index.Degree),
		sentinel:  sentinel,
		stats:     monitor.NewWorkloadStats(),
		logger:    logger,
	}
}

func normalize(s string) string {
	return strings.ToLower(s)
}

// InsertRecord appends rec to the heap and returns its position. A duplicate
// id silently takes over idIndex; the older record stays in the heap and in
// its last-name bucket.
func (e *Engine) InsertRecord(rec common.Record) int {
	e.stats.RecordWrite(monitor.OpInsert)

	pos := len(e.heap)
	if ce := e.logger.Check(zap.DebugLevel, "id collision"); ce != nil {
		if old, ok := e.idIndex.Find(rec.ID); ok {
			ce.Write(zap.Int64("id", rec.ID), zap.Int("old_pos", *old), zap.Int("new_pos", pos))
		}
	}
	rec.Deleted = false
	e.heap = append(e.heap, rec)
	e.idIndex.Insert(rec.ID, pos)

	key := normalize(rec.Last)
	if bucket, ok := e.lastIndex.Find(key); ok {
		*bucket = append(*bucket, pos)
	} else {
		e.lastIndex.Insert(key, []int{pos})
	}
	return pos
}

// DeleteByID soft-deletes the record currently registered under id.
func (e *Engine) DeleteByID(id int64) bool {
	e.stats.RecordWrite(monitor.OpDelete)

	e.idIndex.ResetMetrics()
	handle, ok := e.idIndex.Find(id)
	if !ok {
		return false
	}
	pos := *handle
	if pos < 0 || pos >= len(e.heap) {
		e.logger.Warn("id index points outside heap",
			zap.Int64("id", id), zap.Int("pos", pos), zap.Int("heap", len(e.heap)))
		return false
	}

	if !e.heap[pos].Deleted {
		e.heap[pos].Deleted = true
		e.deleted++
	}
	e.logger.Debug("soft delete", zap.Int64("id", id), zap.Int("pos", pos))
	return e.idIndex.Erase(id)
}

// FindByID returns a copy of the live record for id and the number of key
// comparisons the lookup took. Missing, stale and deleted entries all read as
// not found.
func (e *Engine) FindByID(id int64) (common.Record, bool, int) {
	e.idIndex.ResetMetrics()
	handle, ok := e.idIndex.Find(id)
	cmp := e.idIndex.Comparisons()

	var rec *common.Record
	if ok {
		rec, ok = e.live(*handle)
	}
	e.stats.RecordRead(monitor.OpFind, cmp, ok)
	if !ok {
		return common.Record{}, false, cmp
	}
	return *rec, true, cmp
}

// RangeByID returns the live records with lo <= id <= hi in ascending id
// order, along with the comparisons spent on the whole scan.
func (e *Engine) RangeByID(lo, hi int64) ([]common.Record, int) {
	e.idIndex.ResetMetrics()
	var out []common.Record
	e.idIndex.RangeApply(lo, hi, func(_ int64, pos *int) {
		if rec, ok := e.live(*pos); ok {
			out = append(out, *rec)
		}
	})
	cmp := e.idIndex.Comparisons()
	e.stats.RecordRead(monitor.OpRange, cmp, len(out) > 0)
	return out, cmp
}

// PrefixByLast returns the live records whose last name starts with prefix,
// ignoring case. The scan covers [prefix, prefix+sentinel] in lastIndex and
// then re-checks each key, since the window can admit keys that leave the
// prefix before reaching the sentinel. Results are grouped by last name in
// ascending order and by insertion order within a name.
func (e *Engine) PrefixByLast(prefix string) ([]common.Record, int) {
	e.lastIndex.ResetMetrics()
	p := normalize(prefix)

	var out []common.Record
	e.lastIndex.RangeApply(p, p+e.sentinel, func(key string, bucket *[]int) {
		if !strings.HasPrefix(key, p) {
			return
		}
		for _, pos := range *bucket {
			if rec, ok := e.live(pos); ok {
				out = append(out, *rec)
			}
		}
	})
	cmp := e.lastIndex.Comparisons()
	e.stats.RecordRead(monitor.OpPrefix, cmp, len(out) > 0)
	return out, cmp
}

func (e *Engine) live(pos int) (*common.Record, bool) {
	if pos < 0 || pos >= len(e.heap) || e.heap[pos].Deleted {
		return nil, false
	}
	return &e.heap[pos], true
}

// Len is the heap size, deleted records included.
func (e *Engine) Len() int { return len(e.heap) }

// Live is the number of records not yet deleted.
func (e *Engine) Live() int { return len(e.heap) - e.deleted }

func (e *Engine) Stats() Stats {
	return Stats{
		IndexType: e.idIndex.Type(),
		HeapSize:  len(e.heap),
		Live:      e.Live(),
		Deleted:   e.deleted,
		IDKeys:    e.idIndex.Len(),
		LastKeys:  e.lastIndex.Len(),
		RWRatio:   e.stats.GetReadWriteRatio(),
		AvgCmp:    e.stats.AvgComparisons(),
	}
}
