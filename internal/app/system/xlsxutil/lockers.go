// internal/app/system/xlsxutil/lockers.go
package xlsxutil

import (
	"fmt"
	"io"
	"strings"

	"github.com/plantdesk/plantdesk/internal/app/system/importutil"
	"github.com/xuri/excelize/v2"
)

// ReadLockerRows extracts bulk locker import rows from the first sheet of
// an XLSX workbook. Column layout matches the CSV import: code, name,
// room, locker. The header row is skipped when present, blank rows are
// dropped, and malformed rows are reported per line like the CSV
// pre-scan.
func ReadLockerRows(r io.Reader) ([]importutil.LockerRow, []importutil.RowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("workbook has no sheets")
	}

	raw, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	var (
		rows    []importutil.LockerRow
		rowErrs []importutil.RowError
	)
	for i, rec := range raw {
		line := i + 1
		if line == 1 && isHeader(rec) {
			continue
		}

		get := func(col int) string {
			if col < len(rec) {
				return strings.TrimSpace(rec[col])
			}
			return ""
		}
		row := importutil.LockerRow{
			Line:         line,
			EmployeeCode: get(0),
			EmployeeName: get(1),
			Room:         get(2),
			Identifier:   get(3),
		}
		if row.EmployeeCode == "" && row.EmployeeName == "" && row.Room == "" && row.Identifier == "" {
			continue
		}
		if reason := row.ShapeProblem(); reason != "" {
			rowErrs = append(rowErrs, importutil.RowError{Line: line, Reason: reason})
			continue
		}
		rows = append(rows, row)
	}

	if len(rows) > importutil.MaxRows {
		return nil, nil, fmt.Errorf("import exceeds %d rows", importutil.MaxRows)
	}
	return rows, rowErrs, nil
}

func isHeader(rec []string) bool {
	if len(rec) < 3 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(rec[0]))
	return first == "code" || first == "codigo" || first == "código" || first == "employee code"
}
