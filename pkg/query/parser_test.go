package query

import (
	"testing"
)

func TestParseSelect(t *testing.T) {
	tests := []struct {
		sql   string
		kind  Kind
		limit int
		err   bool
	}{
		{"SELECT * FROM records", SelectAll, -1, false},
		{"select * from RECORDS;", SelectAll, -1, false},
		{"  SELECT * FROM records  ", SelectAll, -1, false},
		{"SELECT * FROM records LIMIT 10", SelectAll, 10, false},
		{"SELECT * FROM records WHERE id = 42", SelectID, -1, false},
		{"SELECT * FROM records WHERE id=-3", SelectID, -1, false},
		{"SELECT * FROM records WHERE id BETWEEN 1 AND 9 LIMIT 5", SelectRange, 5, false},
		{"SELECT * FROM records WHERE last LIKE 'smi%'", SelectPrefix, -1, false},
		{"SELECT * FROM records WHERE last LIKE '%'", SelectPrefix, -1, false},
		{"SELECT * FROM records WHERE name = 1", 0, 0, true},
		{"SELECT * FROM records WHERE last LIKE '%mi'", 0, 0, true},
		{"SELECT * FROM users", 0, 0, true},
		{"SELECT * FROM ", 0, 0, true},
		{"SELECT a FROM records", 0, 0, true},
		{"UPDATE records SET x = 1", 0, 0, true},
		{"", 0, 0, true},
	}
	for _, tt := range tests {
		stmt, err := Parse(tt.sql)
		if tt.err {
			if err == nil {
				t.Errorf("Parse(%q): expected error", tt.sql)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q): %v", tt.sql, err)
			continue
		}
		if stmt.Kind != tt.kind {
			t.Errorf("Parse(%q): kind=%v, want %v", tt.sql, stmt.Kind, tt.kind)
		}
		if stmt.Limit != tt.limit {
			t.Errorf("Parse(%q): limit=%d, want %d", tt.sql, stmt.Limit, tt.limit)
		}
	}
}

func TestParseWhereValues(t *testing.T) {
	stmt, _ := Parse("SELECT * FROM records WHERE id BETWEEN -5 AND 20")
	if stmt.Lo != -5 || stmt.Hi != 20 {
		t.Fatalf("between bounds: got [%d,%d]", stmt.Lo, stmt.Hi)
	}
	stmt, _ = Parse("SELECT * FROM records WHERE LAST like 'McD%' LIMIT 2")
	if stmt.Prefix != "McD" || stmt.Limit != 2 {
		t.Fatalf("like prefix: got %q limit %d", stmt.Prefix, stmt.Limit)
	}
}

func TestParseDelete(t *testing.T) {
	stmt, err := Parse("DELETE FROM records WHERE id = 17;")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if stmt.Kind != Delete || stmt.ID != 17 {
		t.Fatalf("unexpected statement: %+v", stmt)
	}
	if _, err := Parse("DELETE FROM records"); err == nil {
		t.Fatal("expected error for DELETE without WHERE")
	}
}

func TestParseInsert(t *testing.T) {
	stmt, err := Parse("INSERT INTO records VALUES (12, 'Mary Ann', 'O''Brien', 'Art, History', 3, 3.25)")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	r := stmt.Record
	if stmt.Kind != Insert || r.ID != 12 || r.First != "Mary Ann" || r.Last != "O'Brien" {
		t.Fatalf("unexpected record: %+v", r)
	}
	if r.Major != "Art, History" || r.Year != 3 || r.GPA != 3.25 {
		t.Fatalf("unexpected optional fields: %+v", r)
	}

	bad := []string{
		"INSERT INTO records VALUES (1, 'a')",
		"INSERT INTO records VALUES (x, 'a', 'b')",
		"INSERT INTO records VALUES (1, 'a', 'b', 'c', soon)",
		"INSERT INTO records VALUES (1, 'a', 'b', 'c', 2, high)",
		"INSERT INTO records VALUES (1, 'a, 'b')",
		"INSERT INTO people VALUES (1, 'a', 'b')",
	}
	for _, q := range bad {
		if _, err := Parse(q); err == nil {
			t.Errorf("Parse(%q): expected error", q)
		}
	}
}
