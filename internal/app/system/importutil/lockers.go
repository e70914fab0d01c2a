// internal/app/system/importutil/lockers.go
package importutil

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// LockerRow is one normalized row from a bulk locker import. Either
// EmployeeCode or EmployeeName must be present; Room and Identifier are
// required.
type LockerRow struct {
	Line         int
	EmployeeCode string
	EmployeeName string
	Room         string
	Identifier   string
}

// RowError describes one rejected row.
type RowError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// PreScanLockerCSV reads all rows from r, skips a header if present, and
// validates each row's shape. It never writes anywhere; it is safe to call
// before any mutations. Rows with a recognizable shape are returned even
// when other rows are bad, so the caller can import what it can and report
// the rest.
func PreScanLockerCSV(r io.Reader) ([]LockerRow, []RowError, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var (
		rows    []LockerRow
		rowErrs []RowError
		line    int
	)

	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: line, Reason: err.Error()})
			continue
		}
		if line == 1 && isHeader(rec) {
			continue
		}

		row := normalizeRecord(rec, line)
		if row.EmployeeCode == "" && row.EmployeeName == "" && row.Room == "" && row.Identifier == "" {
			continue // blank line
		}
		if reason := row.ShapeProblem(); reason != "" {
			rowErrs = append(rowErrs, RowError{Line: line, Reason: reason})
			continue
		}
		rows = append(rows, row)
	}

	if len(rows) > MaxRows {
		return nil, nil, fmt.Errorf("import exceeds %d rows", MaxRows)
	}
	return rows, rowErrs, nil
}

// isHeader detects the conventional "code,name,room,locker" header.
func isHeader(rec []string) bool {
	if len(rec) < 3 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(rec[0]))
	return first == "code" || first == "codigo" || first == "código" || first == "employee code"
}

func normalizeRecord(rec []string, line int) LockerRow {
	get := func(i int) string {
		if i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}
	return LockerRow{
		Line:         line,
		EmployeeCode: get(0),
		EmployeeName: get(1),
		Room:         get(2),
		Identifier:   get(3),
	}
}

// ShapeProblem reports why the row cannot be imported, or "" when its
// shape is acceptable.
func (r LockerRow) ShapeProblem() string {
	if r.EmployeeCode == "" && r.EmployeeName == "" {
		return "missing employee code and name"
	}
	if r.Room == "" {
		return "missing room"
	}
	if r.Identifier == "" {
		return "missing locker identifier"
	}
	return ""
}
