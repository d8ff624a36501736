package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatListing(t *testing.T) {
	tests := []struct {
		name    string
		records []Record
		want    string
	}{
		{
			name:    "no records",
			records: nil,
			want:    "No messages found.",
		},
		{
			name: "one record",
			records: []Record{
				{ID: "m1", From: "alice@example.com", Subject: "Hi", Date: "Mon, 1 Jan 2025 10:00:00 +0000"},
			},
			want: "ID: m1\nFrom: alice@example.com\nSubject: Hi\nDate: Mon, 1 Jan 2025 10:00:00 +0000\n" + strings.Repeat("-", 80),
		},
		{
			name: "missing headers",
			records: []Record{
				{ID: "m1", From: NotAvailable, Subject: NotAvailable, Date: NotAvailable},
				{ID: "m2", From: "bob@example.com", Subject: "Re: Hi", Date: NotAvailable},
			},
			want: "ID: m1\nFrom: N/A\nSubject: N/A\nDate: N/A\n" + strings.Repeat("-", 80) +
				"\nID: m2\nFrom: bob@example.com\nSubject: Re: Hi\nDate: N/A\n" + strings.Repeat("-", 80),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatListing(tt.records))
		})
	}
}

func TestFormatListing_ToAndBodyOmitted(t *testing.T) {
	out := FormatListing([]Record{{ID: "x", To: "hidden@example.com", Body: "secret body"}})

	assert.NotContains(t, out, "hidden@example.com")
	assert.NotContains(t, out, "secret body")
}

func TestFormatMessage(t *testing.T) {
	r := Record{
		ID:      "m1",
		From:    "alice@example.com",
		To:      "bob@example.com",
		Subject: "Quarterly report",
		Date:    "Tue, 2 Jan 2025 09:00:00 +0000",
		Body:    "Line one\nLine two\n",
	}

	want := "From: alice@example.com\n" +
		"To: bob@example.com\n" +
		"Subject: Quarterly report\n" +
		"Date: Tue, 2 Jan 2025 09:00:00 +0000\n" +
		strings.Repeat("-", 80) + "\n" +
		"Line one\nLine two\n"

	assert.Equal(t, want, FormatMessage(r))
}

func TestFormatMessage_EmptyBody(t *testing.T) {
	out := FormatMessage(Record{From: NotAvailable, To: NotAvailable, Subject: NotAvailable, Date: NotAvailable})

	assert.True(t, strings.HasSuffix(out, strings.Repeat("-", 80)+"\n"))
}
