package extractor

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gmailapi "google.golang.org/api/gmail/v1"

	"github.com/AlenaMus/L12-GmailAPI-Extractor-MCP/internal/gmail"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestExportToCSV(t *testing.T) {
	outDir := t.TempDir()
	mb := newMailbox(manyMessages(3)...)
	svc := newService(t, mb, WithOutputDir(outDir))

	res := svc.ExportToCSV(context.Background(), ExportOptions{Limit: DefaultExportLimit})

	require.False(t, res.IsError(), res.Text)
	path := filepath.Join(outDir, "gmail_export_20250101_120000.csv")
	assert.Equal(t, "Successfully exported 3 messages to: "+path+"\n\n"+
		"File contains: Message ID, From, To, Subject, Date, and Snippet (first 200 chars of body)", res.Text)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimRight(string(content), "\n"), "\n"), 4)

	rows := readCSV(t, path)
	assert.Equal(t, []string{"Message ID", "From", "To", "Subject", "Date", "Snippet"}, rows[0])
	assert.Equal(t, []string{"m1", "sender-m1@example.com", "me@example.com", "Subject m1", "Wed, 1 Jan 2025 10:00:00 +0000", "body 1"}, rows[1])
	assert.Equal(t, []gmail.Format{gmail.FormatFull, gmail.FormatFull, gmail.FormatFull}, mb.formats)
}

func TestExportToCSV_Snippets(t *testing.T) {
	long := strings.Repeat("x", 150) + "\n" + strings.Repeat("y", 150)
	noBody := message("nobody", "", header{"From", "a@example.com"})
	mb := newMailbox(fullMessage("long", long), noBody)
	outDir := t.TempDir()
	svc := newService(t, mb, WithOutputDir(outDir))

	res := svc.ExportToCSV(context.Background(), ExportOptions{Query: "has:attachment", Limit: 10, Filename: "custom.csv"})
	require.False(t, res.IsError(), res.Text)

	rows := readCSV(t, filepath.Join(outDir, "custom.csv"))
	require.Len(t, rows, 3)
	assert.Equal(t, strings.Repeat("x", 150)+" "+strings.Repeat("y", 49), rows[1][5])
	assert.Equal(t, "provider snippet nobody", rows[2][5])
	assert.Equal(t, []string{"nobody", "a@example.com", "N/A", "N/A", "N/A"}, rows[2][:5])
	assert.Equal(t, []string{"has:attachment"}, mb.queries)
}

func TestExportToCSV_NoMessages(t *testing.T) {
	outDir := t.TempDir()
	svc := newService(t, newMailbox(), WithOutputDir(outDir))

	res := svc.ExportToCSV(context.Background(), ExportOptions{Limit: 100})

	require.False(t, res.IsError())
	assert.Equal(t, "No messages found to export.", res.Text)
	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExportToCSV_FetchFailure(t *testing.T) {
	mb := newMailbox(manyMessages(2)...)
	mb.listErr = &gmail.TransportError{Op: "list messages", Err: errors.New("503 backend error")}
	svc := newService(t, mb)

	res := svc.ExportToCSV(context.Background(), ExportOptions{Limit: 100})

	require.True(t, res.IsError())
	assert.Equal(t, "Error exporting to CSV: list messages: 503 backend error", res.Text)
}

func TestExportUnreadToday(t *testing.T) {
	resultsDir := t.TempDir()
	msgs := manyMessages(7)
	msgs[0] = fullMessage("m1", strings.Repeat("z", 800))
	mb := newMailbox(msgs...)
	svc := newService(t, mb, WithResultsDir(resultsDir))

	res := svc.ExportUnreadToday(context.Background())

	require.False(t, res.IsError(), res.Text)
	assert.Equal(t, []string{"is:unread after:2025/01/01"}, mb.queries)
	assert.Equal(t, []int64{UnreadTodayLimit}, mb.limits)
	assert.Equal(t, 5, res.Count)
	assert.True(t, strings.HasPrefix(res.Text, "Found 5 unread message(s) from today.\n- From: sender-m1@example.com\n  Subject: Subject m1\n"))

	path := filepath.Join(resultsDir, "unread_emails_today_20250101_120000.csv")
	assert.True(t, strings.HasSuffix(res.Text, "Successfully exported 5 messages to: "+path))

	rows := readCSV(t, path)
	require.Len(t, rows, 6)
	assert.Equal(t, strings.Repeat("z", 500), rows[1][5])
}

func TestExportUnreadToday_None(t *testing.T) {
	svc := newService(t, newMailbox())

	res := svc.ExportUnreadToday(context.Background())

	require.False(t, res.IsError())
	assert.Equal(t, "No unread messages found from today.", res.Text)
}

func TestExportToCSV_UndecodablePartTolerated(t *testing.T) {
	m := fullMessage("bad", "")
	m.Payload.Parts = []*gmailapi.MessagePart{{PartId: "0", Body: &gmailapi.MessagePartBody{Data: "@@@"}}}
	outDir := t.TempDir()
	svc := newService(t, newMailbox(m), WithOutputDir(outDir))

	res := svc.ExportToCSV(context.Background(), ExportOptions{Limit: 1, Filename: "bad.csv"})

	require.False(t, res.IsError(), res.Text)
	rows := readCSV(t, filepath.Join(outDir, "bad.csv"))
	assert.Equal(t, "provider snippet bad", rows[1][5])
}
