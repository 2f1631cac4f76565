package verification

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/Runyun19/arcane-arena-verify-bot/internal/config"
	"github.com/Runyun19/arcane-arena-verify-bot/internal/domain"
	"github.com/Runyun19/arcane-arena-verify-bot/internal/infrastructure/chat"
	"github.com/Runyun19/arcane-arena-verify-bot/internal/pkg/render"
)

// MembershipOracle reads the participant's current membership facts from the
// platform. It is the single source of truth for the one-time-registration
// rule: the bot keeps no verified-ledger of its own, and every gate check
// re-queries rather than trusting an earlier answer.
type MembershipOracle interface {
	IsPrivileged(ctx context.Context, participantID string) (bool, error)
	HasRole(ctx context.Context, participantID, roleID string) (bool, error)
}

// RoleManager grants and revokes the verified role. AddRole must be
// idempotent on the platform side: granting an already-held role is a no-op.
type RoleManager interface {
	AddRole(ctx context.Context, participantID, roleID, reason string) error
	RemoveRole(ctx context.Context, participantID, roleID, reason string) error
}

// RecordSink is the durable append-only store of successful verifications.
type RecordSink interface {
	Append(ctx context.Context, rec *domain.VerificationRecord) error
}

// Messenger delivers messages back to the community. SendTemp posts an
// auto-expiring message; DirectMessage carries the accepted player ID so the
// member has it echoed back in writing.
type Messenger interface {
	Send(ctx context.Context, channelID, content string) error
	SendTemp(ctx context.Context, channelID, content string) error
	DirectMessage(ctx context.Context, participantID, content, playerID string) error
}

// Alerter pushes operational alerts outside the chat platform. Optional.
type Alerter interface {
	Alert(ctx context.Context, subject, detail string) error
}

// Status is the terminal (or, for panels, intermediate) state of an attempt.
type Status string

const (
	StatusRejected    Status = "rejected"
	StatusBlocked     Status = "blocked"
	StatusUnavailable Status = "unavailable" // membership gate could not be checked; fail closed
	StatusPending     Status = "pending"     // panel candidate awaiting confirm
	StatusComplete    Status = "complete"    // all three pipeline steps succeeded
	StatusPartial     Status = "partial"     // privileged, but a side effect failed
	StatusCancelled   Status = "cancelled"
	StatusExpired     Status = "expired"
	StatusIgnored     Status = "ignored" // entry point disabled by policy
)

// Outcome is what an entry point hands back to the transport layer. Reply is
// the ready-to-send message for the origin surface; empty means say nothing.
type Outcome struct {
	Status    Status
	PlayerID  string
	SessionID string
	Rejection *domain.Rejection
	Reply     string
}

// Service is the verification orchestrator. One instance serves all three
// entry sources; concurrency safety for the one-time rule rests on the
// platform's idempotent role grant, not on a local lock, so the worst race
// between two simultaneous attempts is a duplicate record row.
type Service interface {
	SubmitMessage(ctx context.Context, p domain.Participant, raw string) Outcome
	BeginPanel(ctx context.Context, p domain.Participant, raw string) Outcome
	ConfirmPanel(ctx context.Context, p domain.Participant, sessionID string) Outcome
	CancelPanel(p domain.Participant, sessionID string) Outcome
	ManualVerify(ctx context.Context, moderator, target domain.Participant, raw string) (Outcome, error)
	ManualUnverify(ctx context.Context, moderator, target domain.Participant) error
	AuthorizeModerator(ctx context.Context, moderator domain.Participant) error
}

// ServiceDeps bundles everything the orchestrator needs.
type ServiceDeps struct {
	Oracle    MembershipOracle
	Roles     RoleManager
	Sink      RecordSink // nil when no backend is configured; appends then fail and are audited
	Messenger Messenger
	Alerter   Alerter // nil when no topic is configured
	Config    *config.Config
}

type service struct {
	oracle    MembershipOracle
	roles     RoleManager
	sink      RecordSink
	messenger Messenger
	alerter   Alerter
	cfg       *config.Config
	pending   *pendingStore
}

func NewService(deps ServiceDeps) Service {
	return &service{
		oracle:    deps.Oracle,
		roles:     deps.Roles,
		sink:      deps.Sink,
		messenger: deps.Messenger,
		alerter:   deps.Alerter,
		cfg:       deps.Config,
		pending:   newPendingStore(deps.Config.ConfirmTTL),
	}
}

// SubmitMessage handles a free-text message from the registration channel.
func (s *service) SubmitMessage(ctx context.Context, p domain.Participant, raw string) Outcome {
	if !s.cfg.AutoRegister {
		return Outcome{Status: StatusIgnored}
	}
	playerID, rej := Validate(raw, s.cfg.IDLength, s.cfg.ValidationMode)
	if rej != nil {
		return s.rejected(p, rej)
	}
	return s.resolve(ctx, domain.VerificationAttempt{
		Participant: p, Raw: raw, Source: domain.SourceAuto, At: time.Now(),
	}, playerID)
}

// BeginPanel validates a modal submission and parks it for an explicit
// confirm. No membership or platform state is touched until the confirm.
func (s *service) BeginPanel(ctx context.Context, p domain.Participant, raw string) Outcome {
	playerID, rej := Validate(raw, s.cfg.IDLength, s.cfg.ValidationMode)
	if rej != nil {
		return s.rejected(p, rej)
	}
	sid := s.pending.Create(p.ID, playerID)
	prompt := render.Fill(s.cfg.Texts.ConfirmPrompt, map[string]string{
		"player_id": playerID,
		"ttl":       strconv.Itoa(int(s.cfg.ConfirmTTL.Seconds())),
	})
	return Outcome{Status: StatusPending, PlayerID: playerID, SessionID: sid, Reply: prompt}
}

// ConfirmPanel resumes a parked candidate. An expired or foreign session
// behaves exactly like a cancel: no side effects, no record.
func (s *service) ConfirmPanel(ctx context.Context, p domain.Participant, sessionID string) Outcome {
	playerID, ok := s.pending.Take(sessionID, p.ID)
	if !ok {
		return Outcome{Status: StatusExpired, Reply: s.cfg.Texts.SessionExpired}
	}
	return s.resolve(ctx, domain.VerificationAttempt{
		Participant: p, Raw: playerID, Source: domain.SourcePanel, At: time.Now(),
	}, playerID)
}

func (s *service) CancelPanel(p domain.Participant, sessionID string) Outcome {
	s.pending.Cancel(sessionID, p.ID)
	return Outcome{Status: StatusCancelled, Reply: s.cfg.Texts.Cancelled}
}

// ManualVerify registers a player ID on behalf of a member. The moderator
// check runs before any attempt state exists; unauthorized invocations are
// reported to the invoker only and leave no audit trace beyond that.
func (s *service) ManualVerify(ctx context.Context, moderator, target domain.Participant, raw string) (Outcome, error) {
	if err := s.requireModerator(ctx, moderator); err != nil {
		return Outcome{}, err
	}
	playerID, rej := Validate(raw, s.cfg.IDLength, s.cfg.ValidationMode)
	if rej != nil {
		return s.rejected(target, rej), nil
	}
	return s.resolve(ctx, domain.VerificationAttempt{
		Participant: target, Raw: raw, Source: domain.SourceManual, At: time.Now(),
	}, playerID), nil
}

// ManualUnverify revokes the verified role. The record sink is append-only,
// so revocation is visible only in membership state and the audit channel.
func (s *service) ManualUnverify(ctx context.Context, moderator, target domain.Participant) error {
	if err := s.requireModerator(ctx, moderator); err != nil {
		return err
	}
	if err := s.roles.RemoveRole(ctx, target.ID, s.cfg.VerifiedRoleID, "Unverified by moderator"); err != nil {
		return fmt.Errorf("remove role: %w", err)
	}
	s.audit(ctx, fmt.Sprintf("🔓 %s unverified by %s (source: %s)",
		chat.Mention(target.ID), chat.Mention(moderator.ID), domain.SourceManual))
	return nil
}

// AuthorizeModerator exposes the moderator gate for command surfaces that
// act on the platform without creating a verification attempt (panel and
// welcome-text posting).
func (s *service) AuthorizeModerator(ctx context.Context, moderator domain.Participant) error {
	return s.requireModerator(ctx, moderator)
}

func (s *service) requireModerator(ctx context.Context, moderator domain.Participant) error {
	if s.cfg.ModeratorRoleID == "" {
		return fmt.Errorf("no moderator role configured: %w", domain.ErrForbidden)
	}
	ok, err := s.oracle.HasRole(ctx, moderator.ID, s.cfg.ModeratorRoleID)
	if err != nil {
		return fmt.Errorf("moderator check: %w", domain.ErrUnavailable)
	}
	if !ok {
		return fmt.Errorf("moderator role required: %w", domain.ErrForbidden)
	}
	return nil
}

// resolve runs the idempotency gate and, when it passes, the success
// pipeline. Validation has already happened; from here on every failure is
// either the gate failing closed or an individually-audited side effect.
func (s *service) resolve(ctx context.Context, attempt domain.VerificationAttempt, playerID string) Outcome {
	p := attempt.Participant

	privileged, err := s.oracle.IsPrivileged(ctx, p.ID)
	if err != nil {
		// Fail closed: an unreachable platform must never allow a
		// re-verification through.
		s.audit(ctx, fmt.Sprintf("⚠️ Membership check failed for %s: `%v` (source: %s)",
			chat.Mention(p.ID), err, attempt.Source))
		return Outcome{
			Status: StatusUnavailable,
			Reply:  render.Fill(s.cfg.Texts.Unavailable, map[string]string{"mention": chat.Mention(p.ID)}),
		}
	}
	if privileged {
		s.audit(ctx, fmt.Sprintf("⛔ Update attempt blocked for %s. Typed `%s` (source: %s)",
			chat.Mention(p.ID), attempt.Raw, attempt.Source))
		return Outcome{
			Status: StatusBlocked,
			Reply: render.Fill(s.cfg.Texts.AlreadyVerified, map[string]string{
				"mention": chat.Mention(p.ID),
				"contact": s.contact(),
			}),
		}
	}
	return s.runPipeline(ctx, p, playerID, attempt.Source)
}

// runPipeline applies the three side effects in fixed order. Each step is
// individually fallible; a failure is audited (grant, record) or absorbed
// (notify) and never prevents the remaining steps from running.
func (s *service) runPipeline(ctx context.Context, p domain.Participant, playerID string, src domain.Source) Outcome {
	complete := true

	s.audit(ctx, fmt.Sprintf("%s player id `%s` (source: %s)", chat.Mention(p.ID), playerID, src))

	// 1. Grant. Idempotent on the platform side, so the race where two
	// attempts both passed the gate still yields a single role state.
	if err := s.roles.AddRole(ctx, p.ID, s.cfg.VerifiedRoleID, "Player ID verified"); err != nil {
		complete = false
		s.audit(ctx, fmt.Sprintf("⚠️ Could not assign role to %s: `%v` (source: %s)",
			chat.Mention(p.ID), err, src))
	}

	// 2. Record. This is the system of record; failures carry enough detail
	// to reconcile the row by hand and are never swallowed.
	rec := domain.NewVerificationRecord(s.cfg.CommunityID, s.cfg.CommunityName, p, playerID, src)
	if err := s.appendRecord(ctx, rec); err != nil {
		complete = false
		detail := fmt.Sprintf("participant %s (%s), player id `%s`, source %s: `%v`",
			p.DisplayName, p.ID, playerID, src, err)
		s.audit(ctx, "⚠️ Record append failed for "+detail)
		if s.alerter != nil {
			if aerr := s.alerter.Alert(ctx, "verification record append failed", detail); aerr != nil {
				slog.Warn("ops alert failed", "err", aerr)
			}
		}
	}

	// 3. Notify. Lowest severity: DM first, transient channel message as
	// fallback, and if even that fails the outcome is dropped silently.
	if err := s.messenger.DirectMessage(ctx, p.ID, s.cfg.Texts.DMVerified, playerID); err != nil {
		slog.Info("dm failed, falling back to channel ack", "participant", p.ID, "err", err)
		fallback := render.Fill(s.cfg.Texts.TempVerified, map[string]string{"mention": chat.Mention(p.ID)})
		if err := s.messenger.SendTemp(ctx, s.cfg.RegisterChannelID, fallback); err != nil {
			complete = false
			slog.Warn("notification dropped", "participant", p.ID, "err", err)
		}
	}

	status := StatusComplete
	if !complete {
		status = StatusPartial
	}
	return Outcome{Status: status, PlayerID: playerID}
}

func (s *service) appendRecord(ctx context.Context, rec *domain.VerificationRecord) error {
	if s.sink == nil {
		return fmt.Errorf("record sink not configured: %w", domain.ErrUnavailable)
	}
	return s.sink.Append(ctx, rec)
}

// rejected maps a validation rejection to its user-facing reply. Rejections
// are user-correctable and are never escalated to the audit channel.
func (s *service) rejected(p domain.Participant, rej *domain.Rejection) Outcome {
	vars := map[string]string{
		"mention": chat.Mention(p.ID),
		"typed":   strconv.Itoa(rej.Count),
		"need":    strconv.Itoa(s.cfg.IDLength),
		"channel": chat.MentionChannel(s.cfg.RegisterChannelID),
	}
	var tmpl string
	switch rej.Reason {
	case domain.RejectTooShort:
		tmpl = s.cfg.Texts.TooShort
	case domain.RejectTooLong:
		tmpl = s.cfg.Texts.TooLong
	default: // empty, non_canonical
		tmpl = s.cfg.Texts.NonDigit
	}
	return Outcome{Status: StatusRejected, Rejection: rej, Reply: render.Fill(tmpl, vars)}
}

// contact picks who an already-verified member should talk to: the
// configured support user, then the contact role, then a plain phrase.
func (s *service) contact() string {
	if s.cfg.SupportUserID != "" {
		return chat.Mention(s.cfg.SupportUserID)
	}
	if s.cfg.ContactRoleID != "" {
		return chat.MentionRole(s.cfg.ContactRoleID)
	}
	return s.cfg.Texts.ContactFallback
}

// audit writes to the log channel, best effort. Losing an audit line is
// logged locally but never fails the attempt.
func (s *service) audit(ctx context.Context, content string) {
	if s.cfg.LogChannelID == "" {
		return
	}
	if err := s.messenger.Send(ctx, s.cfg.LogChannelID, content); err != nil {
		slog.Warn("audit message failed", "err", err)
	}
}
