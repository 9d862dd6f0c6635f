package upload

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gtr-comics/comic-grader/internal/model"
)

// Minimal valid headers for content sniffing.
var (
	jpegBytes = append([]byte{0xff, 0xd8, 0xff, 0xe0}, bytes.Repeat([]byte{0}, 16)...)
	pngBytes  = append([]byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}, bytes.Repeat([]byte{0}, 16)...)
)

func image(data []byte) model.Image {
	return model.Image{Data: data, MediaType: "image/jpeg"}
}

func TestValidateFilesAccepted(t *testing.T) {
	result := ValidateFiles([]model.Image{image(jpegBytes), image(pngBytes)}, DefaultLimits())

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
}

func TestValidateFilesEmpty(t *testing.T) {
	result := ValidateFiles(nil, DefaultLimits())

	assert.False(t, result.IsValid)
	assert.Equal(t, []string{"No files uploaded"}, result.Errors)
}

func TestValidateFilesTooMany(t *testing.T) {
	images := make([]model.Image, 11)
	for i := range images {
		images[i] = image(jpegBytes)
	}

	result := ValidateFiles(images, DefaultLimits())

	assert.False(t, result.IsValid)
	assert.Contains(t, result.Errors, "Maximum 10 images allowed")
}

func TestValidateFilesNonImage(t *testing.T) {
	result := ValidateFiles([]model.Image{
		image(jpegBytes),
		image([]byte("%PDF-1.4 not an image")),
	}, DefaultLimits())

	assert.False(t, result.IsValid)
	assert.Contains(t, result.Errors, "File 2: Not a valid image format")
}

func TestValidateFilesOversized(t *testing.T) {
	big := append(append([]byte{}, jpegBytes...), bytes.Repeat([]byte{0}, 128)...)

	result := ValidateFiles([]model.Image{image(big)}, Limits{MaxFiles: 10, MaxFileSize: 64})

	assert.False(t, result.IsValid)
	assert.Contains(t, result.Errors[0], "Exceeds")
}

func TestDetectMediaType(t *testing.T) {
	assert.Equal(t, "image/jpeg", DetectMediaType(jpegBytes))
	assert.Equal(t, "image/png", DetectMediaType(pngBytes))
	assert.Equal(t, "text/plain", DetectMediaType([]byte("hello world")))
}
