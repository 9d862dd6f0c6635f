package grading

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/gtr-comics/comic-grader/internal/model"
)

// Field names the sections a grading response is expected to carry.
type Field string

const (
	FieldGrade       Field = "grade"
	FieldDefects     Field = "defects"
	FieldPageQuality Field = "page_quality"
	FieldRestoration Field = "restoration"
	FieldRepair      Field = "repair"
	FieldPrevention  Field = "prevention"
)

// sectionOrder is the canonical ordering of labeled sections in a response.
// The section-scan fallback uses it to find where a section ends.
var sectionOrder = []Field{
	FieldDefects,
	FieldPageQuality,
	FieldRestoration,
	FieldRepair,
	FieldPrevention,
}

// fieldLabels maps each field to the regexp fragment matching its label as
// providers phrase it. Providers disagree on pluralization and markup, so
// fragments stay permissive.
var fieldLabels = map[Field]string{
	FieldGrade:       `GRADE`,
	FieldDefects:     `Defects?`,
	FieldPageQuality: `Page\s+Quality`,
	FieldRestoration: `Restoration`,
	FieldRepair:      `Repair(?:\s*/\s*Improvement)?`,
	FieldPrevention:  `Prevention`,
}

// labelLinePatterns matches a line that opens the given field's section:
// optional list/emphasis markup, the label, a colon, optional markup, then
// the value on the same line.
var labelLinePatterns = buildLabelPatterns()

func buildLabelPatterns() map[Field]*regexp.Regexp {
	out := make(map[Field]*regexp.Regexp, len(fieldLabels))
	for f, label := range fieldLabels {
		out[f] = regexp.MustCompile(`(?i)^[\s>*#-]*` + label + `\s*:\s*\**\s*(.*)$`)
	}
	return out
}

// anyLabelPattern recognizes the start of any labeled section, used to stop
// continuation-line capture.
var anyLabelPattern = regexp.MustCompile(
	`(?i)^[\s>*#-]*(?:GRADE|Defects?|Page\s+Quality|Restoration|Repair(?:\s*/\s*Improvement)?|Prevention)\s*:`,
)

// newSectionPattern matches a line that begins some other capitalized
// heading, which also terminates a paragraph capture.
var newSectionPattern = regexp.MustCompile(`^[\s>*#-]*[A-Z][A-Za-z /&-]*\s*:`)

// Extractor is one strategy for pulling a field's text out of a response.
// Strategies are tried in order; the first hit wins.
type Extractor interface {
	// Name identifies the strategy for logging and tests.
	Name() string
	// TryExtract returns the trimmed field value and whether it was found.
	TryExtract(field Field, text string) (string, bool)
}

// labeledFieldExtractor finds "<Label>: value" lines and captures the value
// plus continuation lines until the next recognized section begins.
type labeledFieldExtractor struct{}

func (labeledFieldExtractor) Name() string { return "labeled_field" }

func (labeledFieldExtractor) TryExtract(field Field, text string) (string, bool) {
	pattern := labelLinePatterns[field]
	lines := strings.Split(text, "\n")

	for i, line := range lines {
		m := pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		parts := []string{m[1]}
		for _, next := range lines[i+1:] {
			if strings.TrimSpace(next) == "" {
				break
			}
			if anyLabelPattern.MatchString(next) || newSectionPattern.MatchString(next) {
				break
			}
			parts = append(parts, next)
		}

		value := strings.TrimSpace(strings.Join(parts, "\n"))
		value = strings.TrimSuffix(value, "**")
		value = strings.TrimSpace(value)
		if value == "" {
			return "", false
		}
		return value, true
	}
	return "", false
}

// sectionScanExtractor is the looser fallback: it captures everything from
// the field's label to the start of the next section in canonical order, or
// end of text. Tolerates labels buried mid-paragraph or missing colons.
type sectionScanExtractor struct{}

func (sectionScanExtractor) Name() string { return "section_scan" }

func (sectionScanExtractor) TryExtract(field Field, text string) (string, bool) {
	start := regexp.MustCompile(`(?i)` + fieldLabels[field] + `[:\s]+`)
	loc := start.FindStringIndex(text)
	if loc == nil {
		return "", false
	}

	rest := text[loc[1]:]

	// Stop at the first later section label, per the canonical ordering.
	end := len(rest)
	for _, later := range sectionsAfter(field) {
		stop := regexp.MustCompile(`(?im)^[\s>*#-]*` + fieldLabels[later] + `\s*:`)
		if m := stop.FindStringIndex(rest); m != nil && m[0] < end {
			end = m[0]
		}
	}

	value := strings.TrimSpace(rest[:end])
	value = strings.Trim(value, "*")
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	return value, true
}

func sectionsAfter(field Field) []Field {
	for i, f := range sectionOrder {
		if f == field {
			return sectionOrder[i+1:]
		}
	}
	// Grade is not part of the section ordering; everything can follow it.
	return sectionOrder
}

// bareGradeLineExtractor handles responses with no GRADE label at all by
// scanning for a standalone "<number> <label text>" line with the number in
// grading range.
type bareGradeLineExtractor struct{}

func (bareGradeLineExtractor) Name() string { return "bare_grade_line" }

var bareGradeLine = regexp.MustCompile(`^[\s*-]*(\d+(?:\.\d+)?)\s+(\S.*)$`)

func (bareGradeLineExtractor) TryExtract(field Field, text string) (string, bool) {
	if field != FieldGrade {
		return "", false
	}
	for _, line := range strings.Split(text, "\n") {
		m := bareGradeLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		n, err := strconv.ParseFloat(m[1], 64)
		if err != nil || n < 0 || n > 10 {
			continue
		}
		return strings.TrimSpace(m[1] + " " + m[2]), true
	}
	return "", false
}

// fieldChains holds the ordered strategy list per field. The grade skips
// the section scan (a stray "grade" mid-sentence would capture a whole
// paragraph) and instead falls back to the bare-line scan.
var (
	gradeChain   = []Extractor{labeledFieldExtractor{}, bareGradeLineExtractor{}}
	sectionChain = []Extractor{labeledFieldExtractor{}, sectionScanExtractor{}}
)

func chainFor(field Field) []Extractor {
	if field == FieldGrade {
		return gradeChain
	}
	return sectionChain
}

func extractField(field Field, text string) (string, bool) {
	for _, ex := range chainFor(field) {
		if v, ok := ex.TryExtract(field, text); ok {
			return v, true
		}
	}
	return "", false
}

// ParseAIResponse extracts the grade and the labeled sections from one AI
// response. Missing sections are left empty; they are reported downstream
// as warnings, never as parse errors.
func ParseAIResponse(text string) model.ParsedResponse {
	parsed := model.ParsedResponse{RawResponse: text}

	if raw, ok := extractField(FieldGrade, text); ok {
		parsed.Grade = ParseGrade(raw)
		parsed.GradeLabelRaw = raw
	}
	if v, ok := extractField(FieldDefects, text); ok {
		parsed.Defects = v
	}
	if v, ok := extractField(FieldPageQuality, text); ok {
		parsed.PageQuality = v
	}
	if v, ok := extractField(FieldRestoration, text); ok {
		parsed.Restoration = v
	}
	if v, ok := extractField(FieldRepair, text); ok {
		parsed.Repair = v
	}
	if v, ok := extractField(FieldPrevention, text); ok {
		parsed.Prevention = v
	}

	return parsed
}

// gradeNumber matches the first number in a grade string. The optional
// leading minus exists so negative inputs are seen as out of range rather
// than parsed as their absolute value.
var gradeNumber = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// ParseGrade extracts a numeric grade from text such as "9.6 Near Mint+"
// or "Fine (6.0)". Values outside [0, 10] and unparsable text yield nil.
// Accepted grades are rounded to the nearest 0.1, half away from zero.
func ParseGrade(text string) *float64 {
	m := gradeNumber.FindString(strings.TrimSpace(text))
	if m == "" {
		return nil
	}
	n, err := strconv.ParseFloat(m, 64)
	if err != nil || n < 0 || n > 10 {
		return nil
	}
	rounded := math.Round(n*10) / 10
	return &rounded
}
