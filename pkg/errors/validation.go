package errors

import (
	"strings"
	"unicode"
)

// MaxTextLength caps the text accepted for encoding. QR version 40 at LOW
// holds 2953 bytes; anything longer can never encode.
const MaxTextLength = 2953

// ValidateText validates text that is about to be encoded.
//
// The rules:
//   - Text cannot be empty after trimming surrounding whitespace
//   - Maximum length of MaxTextLength bytes
//   - No null bytes
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return New(ErrCodeInvalidInput, "please enter some text to generate a QR code")
	}
	if len(text) > MaxTextLength {
		return New(ErrCodeInvalidInput, "text too long (max %d bytes)", MaxTextLength)
	}
	if strings.ContainsRune(text, '\x00') {
		return New(ErrCodeInvalidInput, "text contains a null byte")
	}
	return nil
}

// ValidateCaption validates caption text shown under the code and in share pages.
func ValidateCaption(caption string) error {
	const maxCaptionLength = 200
	if len(caption) > maxCaptionLength {
		return New(ErrCodeInvalidConfig, "caption too long (max %d characters)", maxCaptionLength)
	}
	for _, r := range caption {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidConfig, "caption contains invalid control characters")
		}
	}
	return nil
}

// ValidateDataURL checks that s looks like a base64 data URL for an image.
// Decoding is left to the consumers; this only rejects obviously wrong input early.
func ValidateDataURL(s string) error {
	if s == "" {
		return New(ErrCodeInvalidConfig, "logo data cannot be empty")
	}
	if !strings.HasPrefix(s, "data:image/") {
		return New(ErrCodeInvalidConfig, "logo must be a data:image/... URL")
	}
	if !strings.Contains(s, ",") {
		return New(ErrCodeInvalidConfig, "logo data URL has no payload")
	}
	return nil
}
