package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/BruksfildServices01/psi-scheduler/internal/httperr"
)

func TestWritePatients(t *testing.T) {
	var buf bytes.Buffer
	err := WritePatients(&buf, []PatientRow{
		{ID: 1, Name: "Ana, Maria", Email: "ana@test", Status: "active", Age: 31, TotalSessions: 4},
		{ID: 2, Name: "=HYPERLINK()", Email: "x@test", Status: "inactive"},
	})
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(records))
	}
	if records[0][5] != "Total Sessions" || records[0][4] != "Age" {
		t.Errorf("unexpected header %v", records[0])
	}
	if records[1][1] != "Ana, Maria" || records[1][5] != "4" {
		t.Errorf("unexpected row %v", records[1])
	}
	if records[2][1] != "'=HYPERLINK()" {
		t.Errorf("formula not neutralised: %q", records[2][1])
	}
}

func TestWriteAppointments(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteAppointments(&buf, []AppointmentRow{
		{ID: 9, Date: "2026-05-04", Time: "09:00", Patient: "Ana", Status: "scheduled", Duration: 50},
	}); err != nil {
		t.Fatalf("write: %v", err)
	}

	want := "ID,Date,Time,Patient,Status,Duration\n9,2026-05-04,09:00,Ana,scheduled,50\n"
	if buf.String() != want {
		t.Fatalf("unexpected csv:\n%s", buf.String())
	}
}

func TestCheckFormat(t *testing.T) {
	for _, f := range []string{"", "csv", "CSV"} {
		if err := CheckFormat(f); err != nil {
			t.Errorf("%q: unexpected error %v", f, err)
		}
	}

	err := CheckFormat("xlsx")
	if kind, ok := httperr.KindOf(err); !ok || kind != httperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
