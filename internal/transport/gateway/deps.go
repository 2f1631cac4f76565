package gateway

import (
	"context"

	"github.com/Runyun19/arcane-arena-verify-bot/internal/application/verification"
	"github.com/Runyun19/arcane-arena-verify-bot/internal/infrastructure/relayauth"
)

// Platform is the minimal slice of the chat client the event handler needs
// beyond what the orchestrator already drives through its own ports.
type Platform interface {
	SendTemp(ctx context.Context, channelID, content string) error
	Send(ctx context.Context, channelID, content string) error
	DeleteMessage(ctx context.Context, channelID, messageID string) error
	DirectMessage(ctx context.Context, participantID, content, playerID string) error
	PostPanel(ctx context.Context, channelID, title, body, button string) error
}

// Deps holds everything the router needs.
type Deps struct {
	Service  verification.Service
	Platform Platform
	Auth     *relayauth.Provider
}
