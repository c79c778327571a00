package query

import (
	"math"

	"indexdb/pkg/common"
)

// Engine is the set of engine operations a statement can run against.
type Engine interface {
	InsertRecord(rec common.Record) int
	DeleteByID(id int64) bool
	FindByID(id int64) (common.Record, bool, int)
	RangeByID(lo, hi int64) ([]common.Record, int)
	PrefixByLast(prefix string) ([]common.Record, int)
}

type Result struct {
	Records     []common.Record `json:"records"`
	Comparisons int             `json:"comparisons"`
	Deleted     bool            `json:"deleted,omitempty"`
	Position    int             `json:"position,omitempty"`
}

// Execute runs stmt. Nothing found is an empty result, not an error.
func Execute(e Engine, stmt *Statement) Result {
	var res Result
	switch stmt.Kind {
	case SelectAll:
		res.Records, res.Comparisons = e.RangeByID(math.MinInt64, math.MaxInt64)
	case SelectID:
		rec, ok, cmp := e.FindByID(stmt.ID)
		if ok {
			res.Records = []common.Record{rec}
		}
		res.Comparisons = cmp
	case SelectRange:
		res.Records, res.Comparisons = e.RangeByID(stmt.Lo, stmt.Hi)
	case SelectPrefix:
		res.Records, res.Comparisons = e.PrefixByLast(stmt.Prefix)
	case Delete:
		res.Deleted = e.DeleteByID(stmt.ID)
	case Insert:
		res.Position = e.InsertRecord(stmt.Record)
	}

	if stmt.Limit >= 0 && len(res.Records) > stmt.Limit {
		res.Records = res.Records[:stmt.Limit]
	}
	return res
}
