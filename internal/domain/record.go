package domain

import "time"

// VerificationRecord is the durable artifact appended to the record sink on
// every accepted verification. Append-only: this system never updates or
// deletes rows it has written.
type VerificationRecord struct {
	RecordID        string    `json:"-" dynamodbav:"record_id"`
	At              time.Time `json:"at" dynamodbav:"-"`
	Timestamp       string    `json:"timestamp" dynamodbav:"timestamp"` // UTC, RFC 3339
	CommunityID     string    `json:"community_id" dynamodbav:"community_id"`
	CommunityName   string    `json:"community_name" dynamodbav:"community_name"`
	ParticipantID   string    `json:"participant_id" dynamodbav:"participant_id"`
	ParticipantName string    `json:"participant_name" dynamodbav:"participant_name"`
	PlayerID        string    `json:"player_id" dynamodbav:"player_id"`
	Source          Source    `json:"source" dynamodbav:"source"`
}

// NewVerificationRecord stamps the record with the current UTC time in both
// time.Time and wire (RFC 3339) form.
func NewVerificationRecord(communityID, communityName string, p Participant, playerID string, src Source) *VerificationRecord {
	now := time.Now().UTC()
	return &VerificationRecord{
		At:              now,
		Timestamp:       now.Format(time.RFC3339),
		CommunityID:     communityID,
		CommunityName:   communityName,
		ParticipantID:   p.ID,
		ParticipantName: p.DisplayName,
		PlayerID:        playerID,
		Source:          src,
	}
}
