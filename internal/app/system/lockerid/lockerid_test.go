package lockerid

import (
	"strconv"
	"testing"

	"github.com/plantdesk/plantdesk/internal/domain/models"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"12", "12"},
		{"'12'", "12"},
		{"“12”", "12"},
		{"‘12’", "12"},
		{"„12“", "12"},
		{"\"12\"", "12"},
		{"  12  ", "12"},
		{" '12' ", "12"},
		{"", ""},
		{"   ", ""},
		{"A-3", "A-3"},
		{"´7´", "7"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"'12'", "“12”", " 7 ", "", "A-3", "‚9‘", "``x``"}
	for _, s := range inputs {
		once := Normalize(s)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", s, once, twice)
		}
	}
}

func TestValidSet_Implicit(t *testing.T) {
	room := models.RoomConfig{Name: "Vestuario A", InstalledCount: 3}
	got := ValidSet(room)
	if len(got) != 3 {
		t.Fatalf("expected 3 identifiers, got %d", len(got))
	}
	for i, id := range got {
		if id != strconv.Itoa(i+1) {
			t.Errorf("ValidSet[%d] = %q, want %q", i, id, strconv.Itoa(i+1))
		}
	}
}

func TestValidSet_Explicit(t *testing.T) {
	room := models.RoomConfig{
		Name:             "Vestuario B",
		InstalledCount:   3,
		ValidIdentifiers: []string{"'A1'", "A2", " A3 "},
	}
	got := ValidSet(room)
	want := []string{"A1", "A2", "A3"}
	if len(got) != len(want) {
		t.Fatalf("expected %d identifiers, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ValidSet[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCheck(t *testing.T) {
	implicit := models.RoomConfig{Name: "A", InstalledCount: 10}
	explicit := models.RoomConfig{Name: "B", InstalledCount: 2, ValidIdentifiers: []string{"L1", "L2"}}

	tests := []struct {
		name       string
		room       models.RoomConfig
		identifier string
		wantOK     bool
		wantReason string
	}{
		{"implicit in range", implicit, "10", true, ""},
		{"implicit over capacity", implicit, "11", false, "number 11 > installed capacity"},
		{"implicit quoted over capacity", implicit, "'11'", false, "number 11 > installed capacity"},
		{"implicit non-numeric passes", implicit, "A-1", true, ""},
		{"implicit zero rejected", implicit, "0", false, ReasonNotInConfiguration},
		{"implicit negative rejected", implicit, "-3", false, ReasonNotInConfiguration},
		{"explicit member", explicit, "L2", true, ""},
		{"explicit quoted member", explicit, "“L2”", true, ""},
		{"explicit non-member", explicit, "L3", false, ReasonNotInConfiguration},
		{"empty always passes", explicit, "", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := Check(tt.room, tt.identifier)
			if ok != tt.wantOK || reason != tt.wantReason {
				t.Errorf("Check(%q) = (%v, %q), want (%v, %q)",
					tt.identifier, ok, reason, tt.wantOK, tt.wantReason)
			}
		})
	}
}
