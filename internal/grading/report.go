package grading

import (
	"github.com/gtr-comics/comic-grader/internal/model"
)

// Fallback text substituted for sections the AI response omitted. Exports
// depend on these strings being byte-stable across formats.
const (
	FallbackDefects     = "Not specified"
	FallbackPageQuality = "Unknown"
	FallbackRestoration = "None detected"
	FallbackRepair      = "Standard archival storage recommended"
	FallbackPrevention  = "Store in acid-free materials in controlled environment"
)

// AssembleReport builds the final report from a validation result. Pure:
// the same validation always produces a structurally identical report.
// Provider and timestamp are stamped by the caller.
func AssembleReport(validation model.ValidationResult) model.FinalReport {
	parsed := validation.Parsed
	correction := validation.GradeCorrection

	report := model.FinalReport{
		Analysis: model.ReportAnalysis{
			Defects:     orFallback(parsed.Defects, FallbackDefects),
			PageQuality: orFallback(parsed.PageQuality, FallbackPageQuality),
			Restoration: orFallback(parsed.Restoration, FallbackRestoration),
		},
		Suggestions: model.ReportSuggestions{
			Repair:     orFallback(parsed.Repair, FallbackRepair),
			Prevention: orFallback(parsed.Prevention, FallbackPrevention),
		},
		Metadata: model.ReportMetadata{
			GradeWasCapped: correction != nil,
			Warnings:       validation.Warnings,
			Errors:         validation.Errors,
		},
		RawResponse: parsed.RawResponse,
	}

	switch {
	case correction != nil:
		final := correction.FinalGrade
		report.Grade = &final
		report.GradeLabel = correction.Label
		original := correction.OriginalGrade
		report.Metadata.OriginalGrade = &original
		qualityCap := correction.Cap
		report.Metadata.PageQualityCap = &qualityCap
	case parsed.Grade != nil:
		report.Grade = parsed.Grade
		report.GradeLabel = GradeLabel(*parsed.Grade)
	}
	// No grade at all: Grade stays nil and GradeLabel empty; the errors
	// slice already explains why.

	return report
}

// Normalize runs the whole pipeline over one raw AI response:
// RawText → Parsed → Validated → Assembled. Pure, synchronous, no I/O.
func Normalize(raw string) model.FinalReport {
	parsed := ParseAIResponse(raw)
	validation := ValidateGradingResponse(parsed)
	return AssembleReport(validation)
}

func orFallback(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
