// Package export renders call records as a downloadable CSV file.
package export

import (
	"io"
	"strconv"
	"strings"

	"call-tracker/internal/records"
)

const (
	ContentType = "text/csv"
	FileName    = "call-records.csv"
)

var header = []string{"ID", "Date", "Developer", "Client", "Duration (min)", "Topic", "Ticket"}

// WriteCSV writes a header line and one line per record, joined by "\n" with no trailing newline.
//
// The topic cell is always quoted. Other cells are quoted only when they contain a
// comma, quote or line break, so each line reads back as exactly seven cells.
func WriteCSV(w io.Writer, rows []records.CallRecord) error {
	var b strings.Builder
	b.WriteString(strings.Join(header, ","))
	for _, r := range rows {
		ticket := ""
		if r.TicketNumber != nil {
			ticket = *r.TicketNumber
		}
		b.WriteByte('\n')
		b.WriteString(strings.Join([]string{
			strconv.FormatInt(r.ID, 10),
			escape(r.CallDate),
			escape(r.DeveloperName),
			escape(r.ClientName),
			strconv.Itoa(r.DurationMinutes),
			quote(r.TopicDiscussed),
			escape(ticket),
		}, ","))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func escape(s string) string {
	if strings.ContainsAny(s, ",\"\r\n") {
		return quote(s)
	}
	return s
}
