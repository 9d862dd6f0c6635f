package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const markdownResponse = `Here is my assessment of this book.

**GRADE:** 9.6 Near Mint Plus (NM+)

**Defects:** Minor spine stress
Light corner wear on back cover

**Page Quality:** Brittle

**Restoration:** None

**Repair/Improvement:** None needed

**Prevention:** Store flat
`

func TestParseAIResponse_MarkdownLabels(t *testing.T) {
	parsed := ParseAIResponse(markdownResponse)

	require.NotNil(t, parsed.Grade)
	assert.Equal(t, 9.6, *parsed.Grade)
	assert.Equal(t, "9.6 Near Mint Plus (NM+)", parsed.GradeLabelRaw)
	assert.Equal(t, "Minor spine stress\nLight corner wear on back cover", parsed.Defects)
	assert.Equal(t, "Brittle", parsed.PageQuality)
	assert.Equal(t, "None", parsed.Restoration)
	assert.Equal(t, "None needed", parsed.Repair)
	assert.Equal(t, "Store flat", parsed.Prevention)
	assert.Equal(t, markdownResponse, parsed.RawResponse)
}

func TestParseAIResponse_PlainLabels(t *testing.T) {
	text := `GRADE: 8.0 Very Fine (VF)
Defects: Spine roll, two color-breaking creases
Page Quality: Off-White to White
Restoration: Minimal professional color touch
Repair: Press and clean
Prevention: Mylar with acid-free backing board`

	parsed := ParseAIResponse(text)

	require.NotNil(t, parsed.Grade)
	assert.Equal(t, 8.0, *parsed.Grade)
	assert.Equal(t, "Spine roll, two color-breaking creases", parsed.Defects)
	assert.Equal(t, "Off-White to White", parsed.PageQuality)
	assert.Equal(t, "Minimal professional color touch", parsed.Restoration)
	assert.Equal(t, "Press and clean", parsed.Repair)
	assert.Equal(t, "Mylar with acid-free backing board", parsed.Prevention)
}

func TestParseAIResponse_BareGradeLineFallback(t *testing.T) {
	text := `After reviewing all images:

9.4 Near Mint

The book presents very well overall.`

	parsed := ParseAIResponse(text)

	require.NotNil(t, parsed.Grade)
	assert.Equal(t, 9.4, *parsed.Grade)
	assert.Equal(t, "9.4 Near Mint", parsed.GradeLabelRaw)
}

func TestParseAIResponse_SectionScanFallback(t *testing.T) {
	// No colon-terminated label lines; the looser scan still finds the
	// sections between known headings.
	text := `GRADE: 6.5

Defects noted during review include a subscription crease and
light foxing on the cover.
Page Quality: Tan to Off-White
Restoration: none`

	parsed := ParseAIResponse(text)

	require.NotNil(t, parsed.Grade)
	assert.Equal(t, 6.5, *parsed.Grade)
	assert.Contains(t, parsed.Defects, "subscription crease")
	assert.Equal(t, "Tan to Off-White", parsed.PageQuality)
}

func TestParseAIResponse_MissingSectionsStayEmpty(t *testing.T) {
	parsed := ParseAIResponse("GRADE: 5.0 Very Good/Fine")

	require.NotNil(t, parsed.Grade)
	assert.Equal(t, 5.0, *parsed.Grade)
	assert.Empty(t, parsed.Defects)
	assert.Empty(t, parsed.PageQuality)
	assert.Empty(t, parsed.Restoration)
	assert.Empty(t, parsed.Repair)
	assert.Empty(t, parsed.Prevention)
}

func TestParseAIResponse_NoGradeAnywhere(t *testing.T) {
	parsed := ParseAIResponse("The images are too blurry to assess this book.")

	assert.Nil(t, parsed.Grade)
	assert.Empty(t, parsed.GradeLabelRaw)
}

func TestLabeledFieldExtractor_StopsAtNextLabel(t *testing.T) {
	text := "**Defects:** Spine stress\n**Page Quality:** White Pages"

	v, ok := labeledFieldExtractor{}.TryExtract(FieldDefects, text)
	require.True(t, ok)
	assert.Equal(t, "Spine stress", v)
}

func TestLabeledFieldExtractor_CaseInsensitiveLabel(t *testing.T) {
	v, ok := labeledFieldExtractor{}.TryExtract(FieldGrade, "grade: 4.5 Very Good Plus")
	require.True(t, ok)
	assert.Equal(t, "4.5 Very Good Plus", v)
}

func TestBareGradeLineExtractor_IgnoresOutOfRangeNumbers(t *testing.T) {
	_, ok := bareGradeLineExtractor{}.TryExtract(FieldGrade, "15 defects were found")
	assert.False(t, ok)

	v, ok := bareGradeLineExtractor{}.TryExtract(FieldGrade, "15 defects found\n7.5 Very Fine Minus")
	require.True(t, ok)
	assert.Equal(t, "7.5 Very Fine Minus", v)
}

func TestBareGradeLineExtractor_OnlyHandlesGrade(t *testing.T) {
	_, ok := bareGradeLineExtractor{}.TryExtract(FieldDefects, "9.0 Very Fine/Near Mint")
	assert.False(t, ok)
}

func TestParseGrade(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want *float64
	}{
		{"plain decimal", "9.6", ptr(9.6)},
		{"integer", "8", ptr(8.0)},
		{"embedded in label", "9.6 Near Mint Plus (NM+)", ptr(9.6)},
		{"rounds to tenth", "9.44", ptr(9.4)},
		{"rounds half up", "9.46", ptr(9.5)},
		{"zero is a grade", "0.0", ptr(0.0)},
		{"ten boundary", "10", ptr(10.0)},
		{"above range", "11", nil},
		{"negative", "-1", nil},
		{"no number", "abc", nil},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseGrade(tt.in)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

func TestParseGrade_RoundTripTenths(t *testing.T) {
	for i := 0; i <= 100; i++ {
		g := float64(i) / 10
		got := ParseGrade(formatGrade(g))
		require.NotNil(t, got, "grade %v", g)
		assert.InDelta(t, g, *got, 1e-9)
	}
}

func ptr(f float64) *float64 { return &f }
