package query

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"indexdb/pkg/common"
)

// TableName is the only table the engine exposes.
const TableName = "records"

var ErrSyntax = errors.New("syntax error")

type Kind int

const (
	SelectAll Kind = iota
	SelectID
	SelectRange
	SelectPrefix
	Delete
	Insert
)

func (k Kind) String() string {
	switch k {
	case SelectAll:
		return "select-all"
	case SelectID:
		return "select-id"
	case SelectRange:
		return "select-range"
	case SelectPrefix:
		return "select-prefix"
	case Delete:
		return "delete"
	case Insert:
		return "insert"
	default:
		return "unknown"
	}
}

// Statement is a parsed query. Which fields are meaningful depends on Kind.
type Statement struct {
	Kind   Kind
	ID     int64
	Lo, Hi int64
	Prefix string
	Limit  int // -1 = no limit
	Record common.Record
}

var (
	selectRe  = regexp.MustCompile(`(?i)^SELECT\s+\*\s+FROM\s+([a-zA-Z_][a-zA-Z0-9_]*)(?:\s+WHERE\s+(.+?))?(?:\s+LIMIT\s+(\d+))?\s*$`)
	deleteRe  = regexp.MustCompile(`(?i)^DELETE\s+FROM\s+([a-zA-Z_][a-zA-Z0-9_]*)\s+WHERE\s+id\s*=\s*(-?\d+)\s*$`)
	insertRe  = regexp.MustCompile(`(?i)^INSERT\s+INTO\s+([a-zA-Z_][a-zA-Z0-9_]*)\s+VALUES\s*\((.*)\)\s*$`)
	idEqRe    = regexp.MustCompile(`(?i)^id\s*=\s*(-?\d+)$`)
	betweenRe = regexp.MustCompile(`(?i)^id\s+BETWEEN\s+(-?\d+)\s+AND\s+(-?\d+)$`)
	likeRe    = regexp.MustCompile(`(?i)^last\s+LIKE\s+'([^'%]*)%'$`)
)

// Parse parses the small SQL dialect the engine understands:
//
//	SELECT * FROM records [WHERE id = n | WHERE id BETWEEN a AND b | WHERE last LIKE 'p%'] [LIMIT n]
//	DELETE FROM records WHERE id = n
//	INSERT INTO records VALUES (id, 'first', 'last'[, 'major', year, gpa])
func Parse(s string) (*Statement, error) {
	orig := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), ";"))
	if orig == "" {
		return nil, fmt.Errorf("%w: empty query", ErrSyntax)
	}

	switch strings.ToUpper(strings.Fields(orig)[0]) {
	case "SELECT":
		return parseSelect(orig)
	case "DELETE":
		return parseDelete(orig)
	case "INSERT":
		return parseInsert(orig)
	default:
		return nil, fmt.Errorf("%w: expected SELECT, DELETE or INSERT", ErrSyntax)
	}
}

func checkTable(name string) error {
	if !strings.EqualFold(name, TableName) {
		return fmt.Errorf("unknown table %q (only %q exists)", name, TableName)
	}
	return nil
}

func parseSelect(q string) (*Statement, error) {
	m := selectRe.FindStringSubmatch(q)
	if m == nil {
		return nil, fmt.Errorf("%w: expected SELECT * FROM %s [WHERE ...] [LIMIT <n>]", ErrSyntax, TableName)
	}
	if err := checkTable(m[1]); err != nil {
		return nil, err
	}

	stmt := &Statement{Kind: SelectAll, Limit: -1}
	if where := strings.TrimSpace(m[2]); where != "" {
		switch {
		case idEqRe.MatchString(where):
			id, err := strconv.ParseInt(idEqRe.FindStringSubmatch(where)[1], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid id", ErrSyntax)
			}
			stmt.Kind, stmt.ID = SelectID, id
		case betweenRe.MatchString(where):
			bm := betweenRe.FindStringSubmatch(where)
			lo, err1 := strconv.ParseInt(bm[1], 10, 64)
			hi, err2 := strconv.ParseInt(bm[2], 10, 64)
			if err1 != nil || err2 != nil {
				return nil, fmt.Errorf("%w: invalid BETWEEN bounds", ErrSyntax)
			}
			stmt.Kind, stmt.Lo, stmt.Hi = SelectRange, lo, hi
		case likeRe.MatchString(where):
			stmt.Kind, stmt.Prefix = SelectPrefix, likeRe.FindStringSubmatch(where)[1]
		default:
			return nil, fmt.Errorf("%w: unsupported WHERE %q", ErrSyntax, where)
		}
	}

	if m[3] != "" {
		limit, err := strconv.Atoi(m[3])
		if err != nil {
			return nil, fmt.Errorf("%w: invalid LIMIT value", ErrSyntax)
		}
		stmt.Limit = limit
	}
	return stmt, nil
}

func parseDelete(q string) (*Statement, error) {
	m := deleteRe.FindStringSubmatch(q)
	if m == nil {
		return nil, fmt.Errorf("%w: expected DELETE FROM %s WHERE id = <n>", ErrSyntax, TableName)
	}
	if err := checkTable(m[1]); err != nil {
		return nil, err
	}
	id, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid id", ErrSyntax)
	}
	return &Statement{Kind: Delete, ID: id, Limit: -1}, nil
}

func parseInsert(q string) (*Statement, error) {
	m := insertRe.FindStringSubmatch(q)
	if m == nil {
		return nil, fmt.Errorf("%w: expected INSERT INTO %s VALUES (...)", ErrSyntax, TableName)
	}
	if err := checkTable(m[1]); err != nil {
		return nil, err
	}
	vals, err := splitValues(m[2])
	if err != nil {
		return nil, err
	}
	if len(vals) < 3 || len(vals) > 6 {
		return nil, fmt.Errorf("%w: INSERT takes 3 to 6 values, got %d", ErrSyntax, len(vals))
	}

	var rec common.Record
	if rec.ID, err = strconv.ParseInt(vals[0], 10, 64); err != nil {
		return nil, fmt.Errorf("%w: invalid id %q", ErrSyntax, vals[0])
	}
	rec.First, rec.Last = vals[1], vals[2]
	if len(vals) > 3 {
		rec.Major = vals[3]
	}
	if len(vals) > 4 {
		if rec.Year, err = strconv.Atoi(vals[4]); err != nil {
			return nil, fmt.Errorf("%w: invalid year %q", ErrSyntax, vals[4])
		}
	}
	if len(vals) > 5 {
		if rec.GPA, err = strconv.ParseFloat(vals[5], 64); err != nil {
			return nil, fmt.Errorf("%w: invalid gpa %q", ErrSyntax, vals[5])
		}
	}
	return &Statement{Kind: Insert, Record: rec, Limit: -1}, nil
}

// splitValues splits a VALUES list on commas. Single-quoted strings may
// contain commas and use '' for a literal quote.
func splitValues(s string) ([]string, error) {
	var (
		vals   []string
		cur    strings.Builder
		quoted bool
	)
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case quoted && ch == '\'':
			if i+1 < len(s) && s[i+1] == '\'' {
				cur.WriteByte('\'')
				i++
			} else {
				quoted = false
			}
		case quoted:
			cur.WriteByte(ch)
		case ch == '\'':
			quoted = true
		case ch == ',':
			vals = append(vals, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteByte(ch)
		}
	}
	if quoted {
		return nil, fmt.Errorf("%w: unterminated string", ErrSyntax)
	}
	return append(vals, strings.TrimSpace(cur.String())), nil
}
