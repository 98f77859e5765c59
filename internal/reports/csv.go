package reports

import (
	"encoding/csv"
	"io"
	"regexp"
	"strconv"
	"time"
)

var csvHeader = []string{
	"Full Name", "Email", "Contact Number", "College Name", "Age", "Gender",
	"University Roll Number", "Batch", "Event", "Event Date", "Venue",
	"Registered At",
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var filenameSafe = regexp.MustCompile(`[^a-zA-Z0-9]`)

// WriteCSV streams the export: UTF-8 BOM for spreadsheet compatibility,
// a header row, then one row per registration.
func WriteCSV(w io.Writer, rows []ExportRow) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.FullName,
			row.Email,
			row.ContactNumber,
			row.CollegeName,
			strconv.Itoa(row.Age),
			row.Gender,
			row.UniversityRollNumber,
			row.Batch,
			row.EventName,
			row.EventDate,
			row.Venue,
			row.RegisteredAt.Format("2006-01-02 15:04:05"),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportFilename builds the attachment name, embedding the event name
// (non-alphanumerics collapsed to underscores) when the export is filtered.
func ExportFilename(eventName string, now time.Time) string {
	name := "student_registrations"
	if eventName != "" {
		name += "_" + filenameSafe.ReplaceAllString(eventName, "_")
	}
	return name + "_" + now.Format("2006-01-02_15-04-05") + ".csv"
}
