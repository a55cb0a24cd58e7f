// Package phone normalizes external user identifiers (phone numbers)
// into session partition keys.
package phone

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/kailas-cloud/docsense/internal/domain"
)

// MaxDigits bounds a normalized number; anything longer is not a phone number.
const MaxDigits = 15 // ITU E.164

// Normalize reduces a raw phone number to its digits. Equivalent
// representations ("+1 555 123 4567", "1-555-123-4567", "15551234567")
// all collide to the same session key.
func Normalize(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return "", fmt.Errorf("%w: user id %q contains no digits", domain.ErrInvalidInput, raw)
	}
	if len(digits) > MaxDigits {
		return "", fmt.Errorf("%w: user id has %d digits (max %d)", domain.ErrInvalidInput, len(digits), MaxDigits)
	}
	return digits, nil
}
