// Package export renders stored grading reports in several output formats.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	texttemplate "text/template"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/gtr-comics/comic-grader/internal/model"
)

// Format identifies an export output format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
	FormatHTML     Format = "html"
)

// ParseFormat normalizes a user-supplied format string. JSON is the default
// when the string is empty.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "text", "txt":
		return FormatText, nil
	case "html":
		return FormatHTML, nil
	default:
		return "", eris.Errorf("export: unsupported format %q", s)
	}
}

// ContentType returns the MIME type for HTTP responses.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatYAML:
		return "application/x-yaml"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatHTML:
		return "text/html; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Extension returns the file extension used for downloads.
func (f Format) Extension() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatMarkdown:
		return "md"
	case FormatHTML:
		return "html"
	default:
		return "txt"
	}
}

// Render serializes a stored report in the given format.
func Render(f Format, report model.StoredReport) ([]byte, error) {
	switch f {
	case FormatJSON:
		out, err := json.MarshalIndent(report, "", "  ")
		return out, eris.Wrap(err, "export: marshal json")
	case FormatYAML:
		out, err := yaml.Marshal(report)
		return out, eris.Wrap(err, "export: marshal yaml")
	case FormatMarkdown:
		return renderTemplate(markdownTmpl, report)
	case FormatText:
		return renderTemplate(textTmpl, report)
	case FormatHTML:
		return renderHTML(report)
	default:
		return nil, eris.Errorf("export: unsupported format %q", f)
	}
}

// templateData flattens a stored report for the text templates.
type templateData struct {
	model.StoredReport
	GradeDisplay string
	Warnings     []string
}

func newTemplateData(report model.StoredReport) templateData {
	grade := "Ungraded"
	if report.Grade != nil {
		grade = fmt.Sprintf("%.1f %s", *report.Grade, report.Report.GradeLabel)
	}
	return templateData{
		StoredReport: report,
		GradeDisplay: grade,
		Warnings:     report.Report.Metadata.Warnings,
	}
}

func renderTemplate(tmpl *texttemplate.Template, report model.StoredReport) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, newTemplateData(report)); err != nil {
		return nil, eris.Wrap(err, "export: execute template")
	}
	return buf.Bytes(), nil
}

var markdownTmpl = texttemplate.Must(texttemplate.New("markdown").Parse(`# Grading Report: {{.ComicName}} #{{.IssueNumber}}

**Grade:** {{.GradeDisplay}}
**Provider:** {{.Provider}}
**Graded:** {{.CreatedAt.Format "2006-01-02 15:04 MST"}}

## Analysis

### Defects

{{.Report.Analysis.Defects}}

### Page Quality

{{.Report.Analysis.PageQuality}}

### Restoration

{{.Report.Analysis.Restoration}}

## Suggestions

### Repair / Improvement

{{.Report.Suggestions.Repair}}

### Prevention

{{.Report.Suggestions.Prevention}}
{{- if .Warnings}}

## Warnings
{{range .Warnings}}
- {{.}}
{{- end}}
{{- end}}
`))

var textTmpl = texttemplate.Must(texttemplate.New("text").Parse(`GRADING REPORT
==============

Comic:    {{.ComicName}} #{{.IssueNumber}}
Grade:    {{.GradeDisplay}}
Provider: {{.Provider}}
Graded:   {{.CreatedAt.Format "2006-01-02 15:04 MST"}}

Defects:      {{.Report.Analysis.Defects}}
Page Quality: {{.Report.Analysis.PageQuality}}
Restoration:  {{.Report.Analysis.Restoration}}

Repair/Improvement: {{.Report.Suggestions.Repair}}
Prevention:         {{.Report.Suggestions.Prevention}}
{{- if .Warnings}}

Warnings:
{{- range .Warnings}}
  - {{.}}
{{- end}}
{{- end}}
`))
