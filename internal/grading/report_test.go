package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gtr-comics/comic-grader/internal/model"
)

func TestNormalize_EndToEndCappedGrade(t *testing.T) {
	raw := `**GRADE:** 9.6 Near Mint Plus (NM+)

**Defects:** Minor spine stress

**Page Quality:** Brittle

**Restoration:** None

**Repair/Improvement:** None needed

**Prevention:** Store flat`

	report := Normalize(raw)

	require.NotNil(t, report.Grade)
	assert.Equal(t, 3.5, *report.Grade)
	assert.Equal(t, "Very Good Minus (VG-)", report.GradeLabel)

	assert.True(t, report.Metadata.GradeWasCapped)
	require.NotNil(t, report.Metadata.OriginalGrade)
	assert.Equal(t, 9.6, *report.Metadata.OriginalGrade)
	require.NotNil(t, report.Metadata.PageQualityCap)
	assert.Equal(t, 3.5, *report.Metadata.PageQualityCap)

	require.NotEmpty(t, report.Metadata.Warnings)
	assert.Contains(t, report.Metadata.Warnings[0], "capped")

	assert.Equal(t, "Minor spine stress", report.Analysis.Defects)
	assert.Equal(t, "Brittle", report.Analysis.PageQuality)
	assert.Equal(t, "None", report.Analysis.Restoration)
	assert.Equal(t, "None needed", report.Suggestions.Repair)
	assert.Equal(t, "Store flat", report.Suggestions.Prevention)
	assert.Equal(t, raw, report.RawResponse)
}

func TestNormalize_MissingGrade(t *testing.T) {
	report := Normalize("The images are too dark to make out any detail.")

	assert.Nil(t, report.Grade)
	assert.Empty(t, report.GradeLabel)
	assert.Contains(t, report.Metadata.Errors, "No numerical grade found in response")
	assert.False(t, report.Metadata.GradeWasCapped)
	assert.Nil(t, report.Metadata.OriginalGrade)
	assert.Nil(t, report.Metadata.PageQualityCap)
}

func TestAssembleReport_FallbackText(t *testing.T) {
	validation := ValidateGradingResponse(model.ParsedResponse{Grade: ptr(8.0)})
	report := AssembleReport(validation)

	assert.Equal(t, "Not specified", report.Analysis.Defects)
	assert.Equal(t, "Unknown", report.Analysis.PageQuality)
	assert.Equal(t, "None detected", report.Analysis.Restoration)
	assert.Equal(t, "Standard archival storage recommended", report.Suggestions.Repair)
	assert.Equal(t, "Store in acid-free materials in controlled environment", report.Suggestions.Prevention)
}

func TestAssembleReport_UncappedGradeUsesParsedValue(t *testing.T) {
	validation := ValidateGradingResponse(model.ParsedResponse{
		Grade:       ptr(9.4),
		PageQuality: "White Pages",
		Defects:     "Tiny corner blunt",
		Repair:      "None",
	})
	report := AssembleReport(validation)

	require.NotNil(t, report.Grade)
	assert.Equal(t, 9.4, *report.Grade)
	assert.Equal(t, "Near Mint (NM)", report.GradeLabel)
	assert.False(t, report.Metadata.GradeWasCapped)
	assert.Nil(t, report.Metadata.OriginalGrade)
	assert.Nil(t, report.Metadata.PageQualityCap)
}

func TestAssembleReport_Idempotent(t *testing.T) {
	validation := ValidateGradingResponse(ParseAIResponse(markdownResponse))

	first := AssembleReport(validation)
	second := AssembleReport(validation)

	assert.Equal(t, first, second)
	assert.True(t, first.Timestamp.IsZero())
}
