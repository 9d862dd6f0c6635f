// Package model holds the shared data types of the grading pipeline.
package model

import "time"

// RestorationType classifies the kind of work detected on a book.
type RestorationType string

const (
	RestorationNone RestorationType = "None"
	Conservation    RestorationType = "Conservation"
	Restoration     RestorationType = "Restoration"
)

// RestorationQuality follows CGC's A/B/C restoration quality scale.
type RestorationQuality string

const (
	QualityA       RestorationQuality = "A"
	QualityB       RestorationQuality = "B"
	QualityC       RestorationQuality = "C"
	QualityUnknown RestorationQuality = "Unknown"
)

// QuantityUnknown marks a restoration quantity that could not be determined.
// Known quantities are 1 (minimal) through 5 (very extensive).
const QuantityUnknown = 0

// RestorationAnalysis is the structured classification of the restoration
// section of an AI response.
type RestorationAnalysis struct {
	Type        RestorationType    `json:"type"`
	Quality     RestorationQuality `json:"quality,omitempty"`
	Quantity    int                `json:"quantity,omitempty"`
	Description string             `json:"description"`
	Impact      string             `json:"impact"`
}

// ParsedResponse is the untrusted, structured-but-unvalidated view of one AI
// text response. Empty strings mean the section was absent; Grade is nil when
// no numeric grade could be extracted.
type ParsedResponse struct {
	Grade         *float64 `json:"grade"`
	GradeLabelRaw string   `json:"grade_label_raw,omitempty"`
	Defects       string   `json:"defects,omitempty"`
	PageQuality   string   `json:"page_quality,omitempty"`
	Restoration   string   `json:"restoration,omitempty"`
	Repair        string   `json:"repair,omitempty"`
	Prevention    string   `json:"prevention,omitempty"`
	RawResponse   string   `json:"raw_response"`
}

// CapValidation reports whether a grade is allowed under a page quality cap.
type CapValidation struct {
	IsValid    bool    `json:"is_valid"`
	Cap        float64 `json:"cap"`
	Difference float64 `json:"difference"`
	Message    string  `json:"message"`
}

// CapResult is the outcome of clamping a suggested grade to its page
// quality cap.
type CapResult struct {
	FinalGrade    float64       `json:"final_grade"`
	Label         string        `json:"label"`
	WasCapped     bool          `json:"was_capped"`
	Cap           float64       `json:"cap"`
	OriginalGrade float64       `json:"original_grade"`
	Validation    CapValidation `json:"validation"`
}

// ValidationResult aggregates errors, warnings and corrections found while
// validating a parsed response. IsValid is false only when no numeric grade
// was found at all.
type ValidationResult struct {
	IsValid         bool                 `json:"is_valid"`
	Errors          []string             `json:"errors"`
	Warnings        []string             `json:"warnings"`
	GradeCorrection *CapResult           `json:"grade_correction,omitempty"`
	Restoration     *RestorationAnalysis `json:"restoration,omitempty"`
	Parsed          ParsedResponse       `json:"parsed"`
}

// ReportAnalysis is the analysis section of a final report. Fields carry
// fallback text when the AI response omitted them.
type ReportAnalysis struct {
	Defects     string `json:"defects"`
	PageQuality string `json:"pageQuality"`
	Restoration string `json:"restoration"`
}

// ReportSuggestions holds repair and prevention advice.
type ReportSuggestions struct {
	Repair     string `json:"repair"`
	Prevention string `json:"prevention"`
}

// ReportMetadata records how the final grade was derived.
type ReportMetadata struct {
	GradeWasCapped bool     `json:"gradeWasCapped"`
	OriginalGrade  *float64 `json:"originalGrade"`
	PageQualityCap *float64 `json:"pageQualityCap"`
	Warnings       []string `json:"warnings"`
	Errors         []string `json:"errors"`
}

// FinalReport is the externally visible grading artifact. It is immutable
// once assembled; provider and timestamp are stamped by the dispatcher, not
// by assembly, so re-assembling the same validation yields identical output.
type FinalReport struct {
	Grade       *float64          `json:"grade"`
	GradeLabel  string            `json:"gradeLabel"`
	Analysis    ReportAnalysis    `json:"analysis"`
	Suggestions ReportSuggestions `json:"suggestions"`
	Metadata    ReportMetadata    `json:"metadata"`
	Provider    string            `json:"provider,omitempty"`
	Timestamp   time.Time         `json:"timestamp,omitzero"`
	RawResponse string            `json:"rawResponse,omitempty"`
}
