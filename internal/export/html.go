package export

import (
	"bytes"
	htmltemplate "html/template"

	"github.com/rotisserie/eris"

	"github.com/gtr-comics/comic-grader/internal/model"
)

func renderHTML(report model.StoredReport) ([]byte, error) {
	var buf bytes.Buffer
	if err := htmlTmpl.Execute(&buf, newTemplateData(report)); err != nil {
		return nil, eris.Wrap(err, "export: execute html template")
	}
	return buf.Bytes(), nil
}

var htmlTmpl = htmltemplate.Must(htmltemplate.New("html").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Grading Report: {{.ComicName}} #{{.IssueNumber}}</title>
<style>
body { font-family: Georgia, serif; max-width: 720px; margin: 2rem auto; color: #222; }
h1 { border-bottom: 2px solid #222; padding-bottom: .5rem; }
.grade { font-size: 2rem; font-weight: bold; }
dt { font-weight: bold; margin-top: 1rem; }
.warnings { background: #fff4e5; border-left: 4px solid #e67e22; padding: .5rem 1rem; }
.meta { color: #666; font-size: .9rem; }
</style>
</head>
<body>
<h1>{{.ComicName}} #{{.IssueNumber}}</h1>
<p class="grade">{{.GradeDisplay}}</p>
<p class="meta">Graded by {{.Provider}} on {{.CreatedAt.Format "January 2, 2006 15:04 MST"}}</p>
<dl>
<dt>Defects</dt><dd>{{.Report.Analysis.Defects}}</dd>
<dt>Page Quality</dt><dd>{{.Report.Analysis.PageQuality}}</dd>
<dt>Restoration</dt><dd>{{.Report.Analysis.Restoration}}</dd>
<dt>Repair / Improvement</dt><dd>{{.Report.Suggestions.Repair}}</dd>
<dt>Prevention</dt><dd>{{.Report.Suggestions.Prevention}}</dd>
</dl>
{{if .Warnings}}<div class="warnings"><strong>Warnings</strong><ul>{{range .Warnings}}<li>{{.}}</li>{{end}}</ul></div>{{end}}
</body>
</html>
`))
