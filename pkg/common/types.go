package common

import "fmt"

// Record is one row of the heap. Deleted is owned by the engine; everything
// else is fixed once the record is inserted.
type Record struct {
	ID      int64   `json:"id"`
	First   string  `json:"first"`
	Last    string  `json:"last"`
	Major   string  `json:"major"`
	Year    int     `json:"year"`
	GPA     float64 `json:"gpa"`
	Deleted bool    `json:"deleted,omitempty"`
}

// String 方便调试打印
func (r *Record) String() string {
	return fmt.Sprintf("Record{ID: %d, Name: %s %s, Major: %s, Year: %d, GPA: %.2f}",
		r.ID, r.First, r.Last, r.Major, r.Year, r.GPA)
}
