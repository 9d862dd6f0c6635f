package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageQualityCap_KnownDesignations(t *testing.T) {
	tests := []struct {
		pageQuality string
		want        float64
	}{
		{"White Pages", 10.0},
		{"Off-White to White", 9.9},
		{"Light Tan to Off-White", 8.5},
		{"Tan to Off-White", 7.5},
		{"Slightly Brittle", 6.5},
		{"Brittle", 3.5},
		{"Unknown", 10.0},
	}

	for _, tt := range tests {
		t.Run(tt.pageQuality, func(t *testing.T) {
			assert.Equal(t, tt.want, PageQualityCap(tt.pageQuality))
		})
	}
}

func TestPageQualityCap_UnrecognizedFallsBackToUnknown(t *testing.T) {
	assert.Equal(t, PageQualityCap("Unknown"), PageQualityCap("Cream Pages"))
	assert.Equal(t, 10.0, PageQualityCap(""))
	// Keys are case-sensitive.
	assert.Equal(t, 10.0, PageQualityCap("brittle"))
}

func TestAllPageQualityCaps_BoundedAndCopied(t *testing.T) {
	caps := AllPageQualityCaps()
	for q, max := range caps {
		assert.GreaterOrEqual(t, max, 0.0, q)
		assert.LessOrEqual(t, max, 10.0, q)
	}

	// Mutating the copy must not affect the table.
	caps["White Pages"] = 1.0
	assert.Equal(t, 10.0, PageQualityCap("White Pages"))
}

func TestApplyCap(t *testing.T) {
	assert.Equal(t, 3.5, ApplyCap(9.6, "Brittle"))
	assert.Equal(t, 2.0, ApplyCap(2.0, "Brittle"))
	assert.Equal(t, 9.8, ApplyCap(9.8, "White Pages"))
}

func TestValidateGradeForPageQuality_Valid(t *testing.T) {
	v := ValidateGradeForPageQuality(3.0, "Brittle")
	assert.True(t, v.IsValid)
	assert.Equal(t, 3.5, v.Cap)
	assert.Zero(t, v.Difference)
	assert.Contains(t, v.Message, "3")
	assert.Contains(t, v.Message, "Brittle")
	assert.Contains(t, v.Message, "3.5")
}

func TestValidateGradeForPageQuality_Exceeded(t *testing.T) {
	v := ValidateGradeForPageQuality(9.8, "Brittle")
	assert.False(t, v.IsValid)
	assert.Equal(t, 3.5, v.Cap)
	assert.InDelta(t, 6.3, v.Difference, 1e-9)
	assert.Contains(t, v.Message, "exceeds")
}
