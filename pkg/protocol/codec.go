package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"indexdb/pkg/common"
)

var ErrShortPayload = errors.New("short payload")

func Int64Bytes(v int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(v))
	return b
}

func BytesInt64(b []byte) (int64, error) {
	if len(b) < 8 {
		return 0, fmt.Errorf("%w: need 8 bytes, got %d", ErrShortPayload, len(b))
	}
	return int64(binary.BigEndian.Uint64(b)), nil
}

// Uint32Bytes carries positions and comparison counts.
func Uint32Bytes(v int) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, uint32(v))
	return b
}

func BytesUint32(b []byte) (int, error) {
	if len(b) < 4 {
		return 0, fmt.Errorf("%w: need 4 bytes, got %d", ErrShortPayload, len(b))
	}
	return int(binary.BigEndian.Uint32(b)), nil
}

// [ID 8B] [Year 4B] [GPA 8B] ( [Len 2B] [Bytes] ) x {First, Last, Major}
func writeRecord(buf *bytes.Buffer, r common.Record) {
	binary.Write(buf, binary.BigEndian, r.ID)
	binary.Write(buf, binary.BigEndian, int32(r.Year))
	binary.Write(buf, binary.BigEndian, math.Float64bits(r.GPA))
	for _, s := range []string{r.First, r.Last, r.Major} {
		binary.Write(buf, binary.BigEndian, uint16(len(s)))
		buf.WriteString(s)
	}
}

func readRecord(rd *bytes.Reader) (common.Record, error) {
	var (
		r       common.Record
		year    int32
		gpaBits uint64
	)
	if err := binary.Read(rd, binary.BigEndian, &r.ID); err != nil {
		return r, err
	}
	if err := binary.Read(rd, binary.BigEndian, &year); err != nil {
		return r, err
	}
	if err := binary.Read(rd, binary.BigEndian, &gpaBits); err != nil {
		return r, err
	}
	r.Year = int(year)
	r.GPA = math.Float64frombits(gpaBits)

	fields := []*string{&r.First, &r.Last, &r.Major}
	for _, f := range fields {
		var n uint16
		if err := binary.Read(rd, binary.BigEndian, &n); err != nil {
			return r, err
		}
		s := make([]byte, n)
		if _, err := io.ReadFull(rd, s); err != nil {
			return r, err
		}
		*f = string(s)
	}
	return r, nil
}

func EncodeRecord(r common.Record) []byte {
	buf := new(bytes.Buffer)
	writeRecord(buf, r)
	return buf.Bytes()
}

func DecodeRecord(data []byte) (common.Record, error) {
	rec, err := readRecord(bytes.NewReader(data))
	if err != nil {
		return rec, fmt.Errorf("decode record: %w", err)
	}
	return rec, nil
}

// EncodeRecords packs a result set as [Comparisons 4B] [Count 4B] records...
func EncodeRecords(records []common.Record, comparisons int) []byte {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.BigEndian, uint32(comparisons))
	binary.Write(buf, binary.BigEndian, uint32(len(records)))
	for _, r := range records {
		writeRecord(buf, r)
	}
	return buf.Bytes()
}

func DecodeRecords(data []byte) ([]common.Record, int, error) {
	rd := bytes.NewReader(data)
	var cmp, count uint32
	if err := binary.Read(rd, binary.BigEndian, &cmp); err != nil {
		return nil, 0, fmt.Errorf("decode records: %w", err)
	}
	if err := binary.Read(rd, binary.BigEndian, &count); err != nil {
		return nil, 0, fmt.Errorf("decode records: %w", err)
	}

	records := make([]common.Record, 0, min(int(count), 1024))
	for i := 0; i < int(count); i++ {
		r, err := readRecord(rd)
		if err != nil {
			return nil, 0, fmt.Errorf("decode record %d/%d: %w", i+1, count, err)
		}
		records = append(records, r)
	}
	return records, int(cmp), nil
}
