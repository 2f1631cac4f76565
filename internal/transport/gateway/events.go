package gateway

// Inbound event payloads as delivered by the gateway relay. One envelope per
// HTTP POST; exactly one of the kind-specific bodies is set.

// Event is the relay's delivery envelope.
type Event struct {
	Kind        string            `json:"kind" validate:"required,oneof=message interaction command"`
	Message     *MessageEvent     `json:"message,omitempty"`
	Interaction *InteractionEvent `json:"interaction,omitempty"`
	Command     *CommandEvent     `json:"command,omitempty"`
}

// MessageEvent is an inbound text message. DM is true for direct messages,
// where ChannelID refers to the DM channel.
type MessageEvent struct {
	MessageID  string `json:"message_id" validate:"required"`
	ChannelID  string `json:"channel_id" validate:"required"`
	AuthorID   string `json:"author_id" validate:"required"`
	AuthorName string `json:"author_name"`
	Content    string `json:"content"`
	AuthorBot  bool   `json:"author_bot"`
	DM         bool   `json:"dm"`
}

// InteractionEvent covers the panel surface: the start button, the modal
// submission, and the confirm/cancel follow-ups. Action is the component's
// custom id; Value carries the modal input; SessionID ties confirm/cancel
// back to the pending candidate.
type InteractionEvent struct {
	Action          string `json:"action" validate:"required,oneof=start submit confirm cancel"`
	ChannelID       string `json:"channel_id"`
	ParticipantID   string `json:"participant_id" validate:"required"`
	ParticipantName string `json:"participant_name"`
	Value           string `json:"value"`
	SessionID       string `json:"session_id"`
}

// CommandEvent is a moderator-issued slash command.
type CommandEvent struct {
	Name        string `json:"name" validate:"required,oneof=verify unverify post-panel post-welcome-text"`
	InvokerID   string `json:"invoker_id" validate:"required"`
	InvokerName string `json:"invoker_name"`
	TargetID    string `json:"target_id"`
	TargetName  string `json:"target_name"`
	Identifier  string `json:"identifier"`
	ChannelID   string `json:"channel_id"`
}

// Response is the directive handed back to the relay, which renders it on
// the originating surface. Type "none" acknowledges without output; "modal"
// tells the relay to open the player ID input; "ephemeral" is a reply only
// the participant sees, with Confirmable asking for confirm/cancel buttons
// bound to SessionID.
type Response struct {
	Type        string `json:"type"` // none | ephemeral | modal
	Content     string `json:"content,omitempty"`
	SessionID   string `json:"session_id,omitempty"`
	Confirmable bool   `json:"confirmable,omitempty"`
}
