package protocol

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"indexdb/pkg/common"
)

func TestRecordsCodec(t *testing.T) {
	in := []common.Record{
		{ID: -4, First: "Zoë", Last: "O'Neil", Major: "", Year: 1, GPA: 2.75},
		{ID: 1 << 40, First: "", Last: "Lee", Major: "Physics", Year: 4, GPA: 4},
	}
	recs, cmp, err := DecodeRecords(EncodeRecords(in, 17))
	require.NoError(t, err)
	assert.Equal(t, 17, cmp)
	assert.Equal(t, in, recs)

	recs, cmp, err = DecodeRecords(EncodeRecords(nil, 3))
	require.NoError(t, err)
	assert.Empty(t, recs)
	assert.Equal(t, 3, cmp)
}

func TestDecodeRecordsTruncated(t *testing.T) {
	data := EncodeRecords([]common.Record{{ID: 1, Last: "Lee"}}, 1)
	_, _, err := DecodeRecords(data[:len(data)-2])
	assert.Error(t, err)

	_, _, err = DecodeRecords([]byte{0, 0})
	assert.Error(t, err)
}

func TestScalarHelpers(t *testing.T) {
	v, err := BytesInt64(Int64Bytes(-99))
	require.NoError(t, err)
	assert.Equal(t, int64(-99), v)

	n, err := BytesUint32(Uint32Bytes(123456))
	require.NoError(t, err)
	assert.Equal(t, 123456, n)

	_, err = BytesInt64([]byte{1, 2})
	assert.True(t, errors.Is(err, ErrShortPayload))
}
