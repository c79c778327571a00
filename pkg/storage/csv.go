package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"indexdb/pkg/common"
)

// CSVSource reads id,first,last,major,year,gpa rows. A header row is skipped
// when its first column is not an integer; trailing columns are optional.
type CSVSource struct {
	path string
}

func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

func (c *CSVSource) LoadAll() ([]common.Record, error) {
	f, err := os.Open(c.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseCSV(f)
}

func (c *CSVSource) Close() error { return nil }

func ParseCSV(r io.Reader) ([]common.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var records []common.Record
	for line := 1; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		if len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "") {
			continue
		}

		id, err := strconv.ParseInt(strings.TrimSpace(row[0]), 10, 64)
		if err != nil {
			if line == 1 {
				continue // header
			}
			return nil, fmt.Errorf("csv line %d: invalid id %q", line, row[0])
		}
		rec := common.Record{ID: id}
		if len(row) > 1 {
			rec.First = strings.TrimSpace(row[1])
		}
		if len(row) > 2 {
			rec.Last = strings.TrimSpace(row[2])
		}
		if len(row) > 3 {
			rec.Major = strings.TrimSpace(row[3])
		}
		if len(row) > 4 && strings.TrimSpace(row[4]) != "" {
			if rec.Year, err = strconv.Atoi(strings.TrimSpace(row[4])); err != nil {
				return nil, fmt.Errorf("csv line %d: invalid year %q", line, row[4])
			}
		}
		if len(row) > 5 && strings.TrimSpace(row[5]) != "" {
			if rec.GPA, err = strconv.ParseFloat(strings.TrimSpace(row[5]), 64); err != nil {
				return nil, fmt.Errorf("csv line %d: invalid gpa %q", line, row[5])
			}
		}
		records = append(records, rec)
	}
}

// WriteCSV writes records with a header row in the format ParseCSV reads.
func WriteCSV(w io.Writer, records []common.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "first", "last", "major", "year", "gpa"}); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			strconv.FormatInt(r.ID, 10),
			r.First,
			r.Last,
			r.Major,
			strconv.Itoa(r.Year),
			strconv.FormatFloat(r.GPA, 'f', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
