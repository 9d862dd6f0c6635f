package export

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/gtr-comics/comic-grader/internal/model"
)

func storedReport(t *testing.T) model.StoredReport {
	t.Helper()
	grade := 9.4
	return model.StoredReport{
		ID:          "abc-123",
		ComicName:   "Amazing Spider-Man",
		IssueNumber: "300",
		Provider:    "Claude",
		Grade:       &grade,
		Report: model.FinalReport{
			Grade:      &grade,
			GradeLabel: "Near Mint (NM)",
			Analysis: model.ReportAnalysis{
				Defects:     "Light spine stress",
				PageQuality: "White Pages",
				Restoration: "None detected",
			},
			Suggestions: model.ReportSuggestions{
				Repair:     "Pressing recommended",
				Prevention: "Bag and board",
			},
			Metadata: model.ReportMetadata{
				Warnings: []string{"Defects section is empty or unclear"},
			},
			Provider: "Claude",
		},
		CreatedAt: time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC),
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatJSON, false},
		{"json", FormatJSON, false},
		{"YAML", FormatYAML, false},
		{"yml", FormatYAML, false},
		{"md", FormatMarkdown, false},
		{"markdown", FormatMarkdown, false},
		{"txt", FormatText, false},
		{"html", FormatHTML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestRenderJSONRoundTrips(t *testing.T) {
	out, err := Render(FormatJSON, storedReport(t))
	require.NoError(t, err)

	var decoded model.StoredReport
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "Amazing Spider-Man", decoded.ComicName)
	assert.Equal(t, "Near Mint (NM)", decoded.Report.GradeLabel)
}

func TestRenderYAML(t *testing.T) {
	out, err := Render(FormatYAML, storedReport(t))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	assert.Contains(t, string(out), "Amazing Spider-Man")
}

func TestRenderMarkdown(t *testing.T) {
	out, err := Render(FormatMarkdown, storedReport(t))
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, "# Grading Report: Amazing Spider-Man #300")
	assert.Contains(t, s, "**Grade:** 9.4 Near Mint (NM)")
	assert.Contains(t, s, "### Page Quality")
	assert.Contains(t, s, "White Pages")
	assert.Contains(t, s, "- Defects section is empty or unclear")
}

func TestRenderText(t *testing.T) {
	out, err := Render(FormatText, storedReport(t))
	require.NoError(t, err)

	s := string(out)
	assert.True(t, strings.HasPrefix(s, "GRADING REPORT"))
	assert.Contains(t, s, "Grade:    9.4 Near Mint (NM)")
	assert.Contains(t, s, "Page Quality: White Pages")
}

func TestRenderTextUngraded(t *testing.T) {
	report := storedReport(t)
	report.Grade = nil
	report.Report.Grade = nil

	out, err := Render(FormatText, report)
	require.NoError(t, err)
	assert.Contains(t, string(out), "Grade:    Ungraded")
}

func TestRenderHTMLEscapes(t *testing.T) {
	report := storedReport(t)
	report.ComicName = "Spidey <script>alert(1)</script>"

	out, err := Render(FormatHTML, report)
	require.NoError(t, err)

	s := string(out)
	assert.NotContains(t, s, "<script>alert(1)</script>")
	assert.Contains(t, s, "&lt;script&gt;")
	assert.Contains(t, s, "Graded by Claude")
}

func TestContentTypeAndExtension(t *testing.T) {
	assert.Equal(t, "application/json", FormatJSON.ContentType())
	assert.Equal(t, "md", FormatMarkdown.Extension())
	assert.Equal(t, "text/html; charset=utf-8", FormatHTML.ContentType())
	assert.Equal(t, "txt", FormatText.Extension())
}
