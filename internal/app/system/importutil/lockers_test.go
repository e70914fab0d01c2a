package importutil

import (
	"strings"
	"testing"
)

func TestPreScanLockerCSV(t *testing.T) {
	csvData := `code,name,room,locker
E001,Ana Soto,Vestuario A,1
,García López; María,Vestuario A,2
E003,,Vestuario B,'7'
`
	rows, rowErrs, err := PreScanLockerCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("PreScanLockerCSV failed: %v", err)
	}
	if len(rowErrs) != 0 {
		t.Fatalf("unexpected row errors: %+v", rowErrs)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].EmployeeCode != "E001" || rows[0].Room != "Vestuario A" || rows[0].Identifier != "1" {
		t.Errorf("row 0 = %+v", rows[0])
	}
	if rows[2].Identifier != "'7'" {
		t.Errorf("identifier should be passed through raw, got %q", rows[2].Identifier)
	}
}

func TestPreScanLockerCSV_NoHeader(t *testing.T) {
	rows, rowErrs, err := PreScanLockerCSV(strings.NewReader("E001,Ana,Sala 1,3\n"))
	if err != nil || len(rowErrs) != 0 {
		t.Fatalf("err=%v rowErrs=%+v", err, rowErrs)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
}

func TestPreScanLockerCSV_BadRowsReported(t *testing.T) {
	csvData := `code,name,room,locker
E001,Ana,,3
E002,Luis,Sala 1,
,,Sala 1,4
E004,Marta,Sala 1,5
`
	rows, rowErrs, err := PreScanLockerCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("PreScanLockerCSV failed: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("expected 1 good row, got %d", len(rows))
	}
	if len(rowErrs) != 3 {
		t.Fatalf("expected 3 row errors, got %d: %+v", len(rowErrs), rowErrs)
	}
	wantReasons := []string{
		"missing room",
		"missing locker identifier",
		"missing employee code and name",
	}
	for i, want := range wantReasons {
		if rowErrs[i].Reason != want {
			t.Errorf("rowErrs[%d].Reason = %q, want %q", i, rowErrs[i].Reason, want)
		}
	}
}

func TestPreScanLockerCSV_BlankLinesSkipped(t *testing.T) {
	rows, rowErrs, err := PreScanLockerCSV(strings.NewReader("E001,Ana,Sala 1,3\n,,,\n"))
	if err != nil || len(rowErrs) != 0 {
		t.Fatalf("err=%v rowErrs=%+v", err, rowErrs)
	}
	if len(rows) != 1 {
		t.Errorf("expected blank line skipped, got %d rows", len(rows))
	}
}
