package domain

// ValidationMode selects how strictly raw input must match the player ID
// format. Permissive extraction tolerates separators around the digits;
// strict requires the whole trimmed input to be digits.
type ValidationMode string

const (
	ModePermissive ValidationMode = "permissive"
	ModeStrict     ValidationMode = "strict"
)

// RejectReason names why raw input was not accepted as a player ID.
type RejectReason string

const (
	RejectEmpty        RejectReason = "empty"
	RejectTooShort     RejectReason = "too_short"
	RejectTooLong      RejectReason = "too_long"
	RejectNonCanonical RejectReason = "non_canonical"
)

// Rejection carries the reason plus the observed digit count, so replies can
// tell the member exactly what they typed versus what is required.
type Rejection struct {
	Reason RejectReason
	Count  int
}
