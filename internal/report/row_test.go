package report

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestRowCells(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, time.March, 7, 9, 5, 3, 0, time.UTC)

	tests := []struct {
		name   string
		row    Row
		expect []string
	}{
		{
			name:   "three fields make six columns",
			row:    NewRow(ts, "joni", 42, []string{"A", "B", "C"}),
			expect: []string{"2024-03-07 09:05:03", "joni", "42", "A", "B", "C"},
		},
		{
			name:   "no fields keeps sender columns",
			row:    NewRow(ts, "joni", 42, []string{}),
			expect: []string{"2024-03-07 09:05:03", "joni", "42"},
		},
		{
			name:   "missing handle is an empty cell",
			row:    NewRow(ts, "", 7, []string{"X"}),
			expect: []string{"2024-03-07 09:05:03", "", "7", "X"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if diff := cmp.Diff(tc.expect, tc.row.Cells()); diff != "" {
				t.Errorf("Cells() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestContentReportText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  Content
		wantText string
		wantOK   bool
		wantKind Kind
	}{
		{"text message", TextContent("/A/B"), "/A/B", true, KindText},
		{"empty text", TextContent(""), "", false, KindText},
		{"captioned photo", MediaContent("/CLOSE/PREVENTIF TIS/X/Y/Z"), "/CLOSE/PREVENTIF TIS/X/Y/Z", true, KindCaptionedMedia},
		{"bare photo", MediaContent(""), "", false, KindUncaptionedMedia},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if tc.content.Kind != tc.wantKind {
				t.Errorf("Kind = %v, want %v", tc.content.Kind, tc.wantKind)
			}
			text, ok := tc.content.ReportText()
			if ok != tc.wantOK || text != tc.wantText {
				t.Errorf("ReportText() = (%q, %v), want (%q, %v)", text, ok, tc.wantText, tc.wantOK)
			}
		})
	}
}
