package verification

import (
	"strings"

	"github.com/Runyun19/arcane-arena-verify-bot/internal/domain"
)

// Validate checks raw input against the player ID format and returns either
// the accepted identifier or a rejection with the observed digit count.
// It is pure and total: any input, including empty or non-ASCII text, maps
// to exactly one outcome. Non-ASCII digits are never counted.
//
// Permissive mode extracts ASCII digits from anywhere in the input and
// accepts once exactly n are present, so "123-456-789" passes. Strict mode
// requires the whole trimmed input to be digits; any other character is
// rejected as non-canonical before length is considered, because a digit
// count would mislead when the real problem is a forbidden character.
func Validate(raw string, n int, mode domain.ValidationMode) (string, *domain.Rejection) {
	trimmed := strings.TrimSpace(raw)
	digits := extractDigits(trimmed)

	if len(digits) == 0 {
		return "", &domain.Rejection{Reason: domain.RejectEmpty, Count: 0}
	}
	if mode == domain.ModeStrict && len(digits) != len(trimmed) {
		return "", &domain.Rejection{Reason: domain.RejectNonCanonical, Count: len(digits)}
	}
	if len(digits) < n {
		return "", &domain.Rejection{Reason: domain.RejectTooShort, Count: len(digits)}
	}
	if len(digits) > n {
		return "", &domain.Rejection{Reason: domain.RejectTooLong, Count: len(digits)}
	}
	return digits, nil
}

// extractDigits keeps only ASCII '0'-'9' bytes. Working on bytes is safe:
// multi-byte runes (including non-ASCII digits) never contain bytes in the
// ASCII digit range.
func extractDigits(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
