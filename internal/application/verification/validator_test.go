package verification

import (
	"testing"

	"github.com/Runyun19/arcane-arena-verify-bot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		mode       domain.ValidationMode
		wantID     string
		wantReason domain.RejectReason
		wantCount  int
	}{
		{name: "exact match permissive", raw: "123456789", mode: domain.ModePermissive, wantID: "123456789"},
		{name: "exact match strict", raw: "123456789", mode: domain.ModeStrict, wantID: "123456789"},
		{name: "surrounding whitespace strict", raw: "  123456789\n", mode: domain.ModeStrict, wantID: "123456789"},
		{name: "five digits", raw: "12345", mode: domain.ModePermissive, wantReason: domain.RejectTooShort, wantCount: 5},
		{name: "five digits strict", raw: "12345", mode: domain.ModeStrict, wantReason: domain.RejectTooShort, wantCount: 5},
		{name: "ten digits", raw: "1234567890", mode: domain.ModePermissive, wantReason: domain.RejectTooLong, wantCount: 10},
		{name: "ten digits strict", raw: "1234567890", mode: domain.ModeStrict, wantReason: domain.RejectTooLong, wantCount: 10},
		{name: "empty", raw: "", mode: domain.ModePermissive, wantReason: domain.RejectEmpty},
		{name: "no digits", raw: "hello there", mode: domain.ModePermissive, wantReason: domain.RejectEmpty},
		{name: "no digits strict", raw: "hello there", mode: domain.ModeStrict, wantReason: domain.RejectEmpty},
		{name: "letter swallows a digit permissive", raw: "12a345678", mode: domain.ModePermissive, wantReason: domain.RejectTooShort, wantCount: 8},
		{name: "letter swallows a digit strict", raw: "12a345678", mode: domain.ModeStrict, wantReason: domain.RejectNonCanonical, wantCount: 8},
		{name: "separators permissive", raw: "123-456-789", mode: domain.ModePermissive, wantID: "123456789"},
		{name: "separators strict", raw: "123-456-789", mode: domain.ModeStrict, wantReason: domain.RejectNonCanonical, wantCount: 9},
		{name: "digits in prose permissive", raw: "my id is 123456789 thanks", mode: domain.ModePermissive, wantID: "123456789"},
		{name: "non-ascii digits never count", raw: "١٢٣٤٥٦٧٨٩", mode: domain.ModePermissive, wantReason: domain.RejectEmpty},
		{name: "mixed ascii and non-ascii digits", raw: "１２３456789", mode: domain.ModePermissive, wantReason: domain.RejectTooShort, wantCount: 6},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, rej := Validate(tc.raw, 9, tc.mode)
			if tc.wantID != "" {
				require.Nil(t, rej)
				assert.Equal(t, tc.wantID, got)
				return
			}
			require.NotNil(t, rej)
			assert.Equal(t, tc.wantReason, rej.Reason)
			assert.Equal(t, tc.wantCount, rej.Count)
			assert.Empty(t, got)
		})
	}
}

func TestValidate_ConfigurableLength(t *testing.T) {
	got, rej := Validate("1234", 4, domain.ModeStrict)
	require.Nil(t, rej)
	assert.Equal(t, "1234", got)

	_, rej = Validate("123456789", 4, domain.ModeStrict)
	require.NotNil(t, rej)
	assert.Equal(t, domain.RejectTooLong, rej.Reason)
	assert.Equal(t, 9, rej.Count)
}
