package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"indexdb/pkg/common"
	"indexdb/pkg/core"
)

func run(t *testing.T, e Engine, q string) Result {
	t.Helper()
	stmt, err := Parse(q)
	require.NoError(t, err, q)
	return Execute(e, stmt)
}

func TestExecuteAgainstEngine(t *testing.T) {
	e := core.NewEngine(nil, nil)

	assert.Equal(t, 0, run(t, e, "INSERT INTO records VALUES (5, 'Ann', 'Lee')").Position)
	assert.Equal(t, 1, run(t, e, "INSERT INTO records VALUES (2, 'Bo', 'lee')").Position)
	assert.Equal(t, 2, run(t, e, "INSERT INTO records VALUES (9, 'Cy', 'Chan')").Position)

	res := run(t, e, "SELECT * FROM records")
	require.Len(t, res.Records, 3)
	assert.Equal(t, int64(2), res.Records[0].ID)

	res = run(t, e, "SELECT * FROM records WHERE id = 9")
	require.Len(t, res.Records, 1)
	assert.Equal(t, "Chan", res.Records[0].Last)
	assert.Greater(t, res.Comparisons, 0)

	res = run(t, e, "SELECT * FROM records WHERE id BETWEEN 3 AND 9")
	assert.Len(t, res.Records, 2)

	res = run(t, e, "SELECT * FROM records WHERE last LIKE 'LE%' LIMIT 1")
	require.Len(t, res.Records, 1)
	assert.Equal(t, int64(5), res.Records[0].ID)

	assert.True(t, run(t, e, "DELETE FROM records WHERE id = 5").Deleted)
	assert.False(t, run(t, e, "DELETE FROM records WHERE id = 5").Deleted)

	res = run(t, e, "SELECT * FROM records WHERE id = 5")
	assert.Empty(t, res.Records)
}

type fakeEngine struct {
	rangeLo, rangeHi int64
}

func (f *fakeEngine) InsertRecord(common.Record) int { return 0 }
func (f *fakeEngine) DeleteByID(int64) bool          { return false }
func (f *fakeEngine) FindByID(int64) (common.Record, bool, int) {
	return common.Record{}, false, 7
}
func (f *fakeEngine) RangeByID(lo, hi int64) ([]common.Record, int) {
	f.rangeLo, f.rangeHi = lo, hi
	return nil, 0
}
func (f *fakeEngine) PrefixByLast(string) ([]common.Record, int) { return nil, 0 }

func TestExecuteSelectAllCoversWholeKeySpace(t *testing.T) {
	f := &fakeEngine{}
	run(t, f, "SELECT * FROM records")
	assert.Less(t, f.rangeLo, int64(-1<<62))
	assert.Greater(t, f.rangeHi, int64(1<<62))
}

func TestExecuteMissReportsComparisons(t *testing.T) {
	res := run(t, &fakeEngine{}, "SELECT * FROM records WHERE id = 1")
	assert.Empty(t, res.Records)
	assert.Equal(t, 7, res.Comparisons)
}
