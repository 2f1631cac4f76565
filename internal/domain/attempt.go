package domain

import "time"

// Source identifies the entry path a player ID arrived through. It is
// threaded unchanged from attempt creation to the appended record and every
// audit line, so operators can tell self-service verifications apart from
// moderator-assisted ones.
type Source string

const (
	SourceAuto   Source = "auto"   // free-text message in the registration channel
	SourcePanel  Source = "panel"  // panel button -> modal -> confirm
	SourceManual Source = "manual" // moderator command on behalf of a member
)

// Participant is the community member a verification attempt is about.
type Participant struct {
	ID          string
	DisplayName string
}

// VerificationAttempt is the ephemeral unit of work created per inbound
// event. It is never persisted and never retried.
type VerificationAttempt struct {
	Participant Participant
	Raw         string
	Source      Source
	At          time.Time
}
