// Package export renders patient and appointment listings as CSV.
package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/BruksfildServices01/psi-scheduler/internal/httperr"
)

const FormatCSV = "csv"

type PatientRow struct {
	ID            uint
	Name          string
	Email         string
	Status        string
	Age           int
	TotalSessions int64
}

type AppointmentRow struct {
	ID       uint
	Date     string
	Time     string
	Patient  string
	Status   string
	Duration int
}

var (
	patientHeader     = []string{"ID", "Name", "Email", "Status", "Age", "Total Sessions"}
	appointmentHeader = []string{"ID", "Date", "Time", "Patient", "Status", "Duration"}
)

// CheckFormat accepts an empty format as csv.
func CheckFormat(format string) error {
	if format == "" || strings.EqualFold(format, FormatCSV) {
		return nil
	}
	return httperr.Validation("unsupported_format", "Only csv export is supported.")
}

func WritePatients(w io.Writer, rows []PatientRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(patientHeader); err != nil {
		return err
	}

	for _, r := range rows {
		rec := []string{
			strconv.FormatUint(uint64(r.ID), 10),
			safe(r.Name),
			safe(r.Email),
			safe(r.Status),
			strconv.Itoa(r.Age),
			strconv.FormatInt(r.TotalSessions, 10),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func WriteAppointments(w io.Writer, rows []AppointmentRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(appointmentHeader); err != nil {
		return err
	}

	for _, r := range rows {
		rec := []string{
			strconv.FormatUint(uint64(r.ID), 10),
			r.Date,
			r.Time,
			safe(r.Patient),
			safe(r.Status),
			strconv.Itoa(r.Duration),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// safe neutralises cells a spreadsheet would evaluate as formulas.
func safe(v string) string {
	if v == "" {
		return v
	}
	switch v[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + v
	}
	return v
}
