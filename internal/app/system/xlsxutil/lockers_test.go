package xlsxutil

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		for j, val := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf
}

func TestReadLockerRows(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{"code", "name", "room", "locker"},
		{"E001", "Ana Soto", "Vestuario A", 1},
		{"", "María García", "Vestuario A", "2"},
	})

	rows, rowErrs, err := ReadLockerRows(buf)
	if err != nil {
		t.Fatalf("ReadLockerRows failed: %v", err)
	}
	if len(rowErrs) != 0 {
		t.Fatalf("unexpected row errors: %+v", rowErrs)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].EmployeeCode != "E001" || rows[0].Identifier != "1" {
		t.Errorf("row 0 = %+v", rows[0])
	}
	if rows[1].EmployeeName != "María García" || rows[1].Room != "Vestuario A" {
		t.Errorf("row 1 = %+v", rows[1])
	}
}

func TestReadLockerRows_BadRowReported(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{"E001", "Ana Soto", "", "1"},
		{"E002", "Luis Gil", "Sala 1", "2"},
	})

	rows, rowErrs, err := ReadLockerRows(buf)
	if err != nil {
		t.Fatalf("ReadLockerRows failed: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("expected 1 good row, got %d", len(rows))
	}
	if len(rowErrs) != 1 || rowErrs[0].Reason != "missing room" {
		t.Errorf("rowErrs = %+v", rowErrs)
	}
}
