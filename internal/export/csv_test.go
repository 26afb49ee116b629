package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"call-tracker/internal/records"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestWriteCSV_Layout(t *testing.T) {
	rows := []records.CallRecord{
		{ID: 2, CallDate: "2024-01-20", DeveloperName: "Bob", ClientName: "Acme", DurationMinutes: 45, TopicDiscussed: "Follow-up", TicketNumber: ptr("T-7")},
		{ID: 1, CallDate: "2024-01-05", DeveloperName: "Alice", ClientName: "Acme", DurationMinutes: 30, TopicDiscussed: "Setup"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))

	want := strings.Join([]string{
		"ID,Date,Developer,Client,Duration (min),Topic,Ticket",
		`2,2024-01-20,Bob,Acme,45,"Follow-up",T-7`,
		`1,2024-01-05,Alice,Acme,30,"Setup",`,
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestWriteCSV_EmptyIsHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "ID,Date,Developer,Client,Duration (min),Topic,Ticket", buf.String())
}

func TestWriteCSV_QuotesAreDoubledAndParseBack(t *testing.T) {
	rows := []records.CallRecord{
		{ID: 9, CallDate: "2024-03-01", DeveloperName: "O'Neil, Pat", ClientName: "Acme", DurationMinutes: 5, TopicDiscussed: `Said "hi", then left`},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))

	lines := strings.Split(buf.String(), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], `"Said ""hi"", then left"`)

	parsed, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, parsed, 2)
	require.Len(t, parsed[1], 7)
	assert.Equal(t, `Said "hi", then left`, parsed[1][5])
	assert.Equal(t, "O'Neil, Pat", parsed[1][2])
	assert.Equal(t, "", parsed[1][6])
}
