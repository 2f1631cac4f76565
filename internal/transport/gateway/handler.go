package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Runyun19/arcane-arena-verify-bot/internal/application/verification"
	"github.com/Runyun19/arcane-arena-verify-bot/internal/config"
	"github.com/Runyun19/arcane-arena-verify-bot/internal/domain"
	"github.com/Runyun19/arcane-arena-verify-bot/internal/infrastructure/chat"
	"github.com/Runyun19/arcane-arena-verify-bot/internal/pkg/render"
	"github.com/Runyun19/arcane-arena-verify-bot/internal/pkg/validate"
)

// EventHandler turns relay deliveries into orchestrator calls. Everything
// here is routing: the handler owns no verification state.
type EventHandler struct {
	svc      verification.Service
	platform Platform
	cfg      *config.Config
}

func NewEventHandler(svc verification.Service, platform Platform, cfg *config.Config) *EventHandler {
	return &EventHandler{svc: svc, platform: platform, cfg: cfg}
}

func (h *EventHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var ev Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeError(w, http.StatusBadRequest, "invalid event body")
		return
	}
	if err := validate.Struct(ev); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	switch ev.Kind {
	case "message":
		if ev.Message == nil {
			writeError(w, http.StatusBadRequest, "missing message body")
			return
		}
		h.handleMessage(w, r, ev.Message)
	case "interaction":
		if ev.Interaction == nil {
			writeError(w, http.StatusBadRequest, "missing interaction body")
			return
		}
		h.handleInteraction(w, r, ev.Interaction)
	case "command":
		if ev.Command == nil {
			writeError(w, http.StatusBadRequest, "missing command body")
			return
		}
		h.handleCommand(w, r, ev.Command)
	}
}

func (h *EventHandler) handleMessage(w http.ResponseWriter, r *http.Request, m *MessageEvent) {
	ctx := r.Context()

	// DMs are redirected to the registration channel; everything outside it
	// is not ours.
	if m.DM && !m.AuthorBot {
		redirect := render.Fill(h.cfg.Texts.DMBlocked, map[string]string{
			"community": h.cfg.CommunityName,
			"jump":      chat.JumpLink(h.cfg.PlatformAppURL, h.cfg.CommunityID, h.cfg.RegisterChannelID),
		})
		if err := h.platform.DirectMessage(ctx, m.AuthorID, redirect, ""); err != nil {
			slog.Debug("dm redirect failed", "participant", m.AuthorID, "err", err)
		}
		writeJSON(w, http.StatusOK, Response{Type: "none"})
		return
	}
	if m.AuthorBot || m.ChannelID != h.cfg.RegisterChannelID {
		writeJSON(w, http.StatusOK, Response{Type: "none"})
		return
	}

	// Privacy policy: the submitted message is deleted no matter how
	// validation goes.
	if err := h.platform.DeleteMessage(ctx, m.ChannelID, m.MessageID); err != nil {
		slog.Warn("could not delete submission", "channel", m.ChannelID, "err", err)
	}

	out := h.svc.SubmitMessage(ctx, domain.Participant{ID: m.AuthorID, DisplayName: m.AuthorName}, m.Content)
	if out.Reply != "" {
		if err := h.platform.SendTemp(ctx, h.cfg.RegisterChannelID, out.Reply); err != nil {
			slog.Debug("reply dropped", "err", err)
		}
	}
	writeJSON(w, http.StatusOK, Response{Type: "none"})
}

func (h *EventHandler) handleInteraction(w http.ResponseWriter, r *http.Request, in *InteractionEvent) {
	ctx := r.Context()
	p := domain.Participant{ID: in.ParticipantID, DisplayName: in.ParticipantName}

	switch in.Action {
	case "start":
		writeJSON(w, http.StatusOK, Response{Type: "modal"})
	case "submit":
		out := h.svc.BeginPanel(ctx, p, in.Value)
		if out.Status == verification.StatusPending {
			writeJSON(w, http.StatusOK, Response{
				Type: "ephemeral", Content: out.Reply, SessionID: out.SessionID, Confirmable: true,
			})
			return
		}
		writeJSON(w, http.StatusOK, Response{Type: "ephemeral", Content: out.Reply})
	case "confirm":
		out := h.svc.ConfirmPanel(ctx, p, in.SessionID)
		writeJSON(w, http.StatusOK, Response{Type: "ephemeral", Content: h.toastFor(out, p)})
	case "cancel":
		out := h.svc.CancelPanel(p, in.SessionID)
		writeJSON(w, http.StatusOK, Response{Type: "ephemeral", Content: out.Reply})
	}
}

// toastFor picks the ephemeral acknowledgment after a confirm. Complete and
// Partial deliberately read the same: the member is verified either way.
func (h *EventHandler) toastFor(out verification.Outcome, p domain.Participant) string {
	switch out.Status {
	case verification.StatusComplete, verification.StatusPartial:
		return render.Fill(h.cfg.Texts.TempVerified, map[string]string{"mention": chat.Mention(p.ID)})
	default:
		return out.Reply
	}
}

func (h *EventHandler) handleCommand(w http.ResponseWriter, r *http.Request, c *CommandEvent) {
	ctx := r.Context()
	invoker := domain.Participant{ID: c.InvokerID, DisplayName: c.InvokerName}

	switch c.Name {
	case "verify":
		if c.TargetID == "" || c.Identifier == "" {
			writeJSON(w, http.StatusOK, Response{Type: "ephemeral", Content: "Usage: verify <member> <player id>"})
			return
		}
		target := domain.Participant{ID: c.TargetID, DisplayName: c.TargetName}
		out, err := h.svc.ManualVerify(ctx, invoker, target, c.Identifier)
		if err != nil {
			writeJSON(w, http.StatusOK, Response{Type: "ephemeral", Content: h.denial(err)})
			return
		}
		writeJSON(w, http.StatusOK, Response{Type: "ephemeral", Content: h.commandResult(out, target)})
	case "unverify":
		if c.TargetID == "" {
			writeJSON(w, http.StatusOK, Response{Type: "ephemeral", Content: "Usage: unverify <member>"})
			return
		}
		target := domain.Participant{ID: c.TargetID, DisplayName: c.TargetName}
		if err := h.svc.ManualUnverify(ctx, invoker, target); err != nil {
			writeJSON(w, http.StatusOK, Response{Type: "ephemeral", Content: h.denial(err)})
			return
		}
		writeJSON(w, http.StatusOK, Response{Type: "ephemeral",
			Content: fmt.Sprintf("🔓 Removed the verified role from %s.", chat.Mention(target.ID))})
	case "post-panel":
		if err := h.svc.AuthorizeModerator(ctx, invoker); err != nil {
			writeJSON(w, http.StatusOK, Response{Type: "ephemeral", Content: h.denial(err)})
			return
		}
		channelID := c.ChannelID
		if channelID == "" {
			channelID = h.cfg.RegisterChannelID
		}
		title := render.Fill(h.cfg.Texts.PanelTitle, map[string]string{"brand": h.cfg.Brand})
		if err := h.platform.PostPanel(ctx, channelID, title, h.cfg.Texts.PanelBody, h.cfg.Texts.PanelButton); err != nil {
			writeJSON(w, http.StatusOK, Response{Type: "ephemeral", Content: "Could not post the panel: " + err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, Response{Type: "ephemeral", Content: "Verification panel posted."})
	case "post-welcome-text":
		if err := h.svc.AuthorizeModerator(ctx, invoker); err != nil {
			writeJSON(w, http.StatusOK, Response{Type: "ephemeral", Content: h.denial(err)})
			return
		}
		channelID := c.ChannelID
		if channelID == "" {
			channelID = h.cfg.RegisterChannelID
		}
		welcome := render.Fill(h.cfg.Texts.Welcome, map[string]string{
			"community": h.cfg.CommunityName,
			"need":      fmt.Sprint(h.cfg.IDLength),
			"channel":   chat.MentionChannel(h.cfg.RegisterChannelID),
		})
		if err := h.platform.Send(ctx, channelID, welcome); err != nil {
			writeJSON(w, http.StatusOK, Response{Type: "ephemeral", Content: "Could not post the welcome text: " + err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, Response{Type: "ephemeral", Content: "Welcome text posted."})
	}
}

// commandResult renders the moderator-facing outcome of a manual verify.
func (h *EventHandler) commandResult(out verification.Outcome, target domain.Participant) string {
	switch out.Status {
	case verification.StatusComplete, verification.StatusPartial:
		return fmt.Sprintf("✅ Verified %s with Player ID `%s`.", chat.Mention(target.ID), out.PlayerID)
	default:
		return out.Reply
	}
}

// denial maps orchestrator errors to an invoker-only notice. Authorization
// failures leave no other trace.
func (h *EventHandler) denial(err error) string {
	switch {
	case errors.Is(err, domain.ErrForbidden):
		return "You need the moderator role to use this command."
	case errors.Is(err, domain.ErrUnavailable):
		return "The platform is not responding right now. Try again shortly."
	default:
		return "Command failed: " + err.Error()
	}
}
