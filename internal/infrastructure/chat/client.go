// Package chat is the REST adapter for the platform API. The gateway relay
// delivers inbound events over HTTP (see transport/gateway); everything the
// bot says or changes flows back out through this client.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Runyun19/arcane-arena-verify-bot/internal/config"
	"golang.org/x/time/rate"
)

// PermManageMessages is the permission bit the bot needs in the registration
// channel to enforce the delete-on-submit privacy policy.
const PermManageMessages uint64 = 1 << 13

// Client is a process-wide singleton, safe for concurrent use: requests
// share one token bucket so parallel attempts cannot trip the platform's
// rate limits.
type Client struct {
	httpc       *http.Client
	base        string
	token       string
	communityID string
	brand       string
	thumbnail   string
	accent      int
	tempTTL     time.Duration
	limiter     *rate.Limiter
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		httpc:       &http.Client{Timeout: 15 * time.Second},
		base:        cfg.PlatformBaseURL,
		token:       cfg.PlatformToken,
		communityID: cfg.CommunityID,
		brand:       cfg.Brand,
		thumbnail:   cfg.ThumbnailURL,
		accent:      cfg.AccentColor,
		tempTTL:     cfg.TempMessageTTL,
		limiter:     rate.NewLimiter(rate.Limit(20), 40),
	}
}

// --- wire shapes ---

type allowedMentions struct {
	Parse []string `json:"parse"`
}

type embedAuthor struct {
	Name string `json:"name"`
}

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type embedThumb struct {
	URL string `json:"url"`
}

type embed struct {
	Author      *embedAuthor `json:"author,omitempty"`
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color,omitempty"`
	Thumbnail   *embedThumb  `json:"thumbnail,omitempty"`
	Fields      []embedField `json:"fields,omitempty"`
}

type component struct {
	Type       int         `json:"type"`
	Style      int         `json:"style,omitempty"`
	Label      string      `json:"label,omitempty"`
	CustomID   string      `json:"custom_id,omitempty"`
	Components []component `json:"components,omitempty"`
}

type messagePayload struct {
	Content         string           `json:"content,omitempty"`
	Embeds          []embed          `json:"embeds,omitempty"`
	Components      []component      `json:"components,omitempty"`
	AllowedMentions *allowedMentions `json:"allowed_mentions,omitempty"`
}

type messageRef struct {
	ID string `json:"id"`
}

// usersOnly keeps channel messages from pinging everyone or roles; the one
// deliberate role mention (the contact pointer) goes out via DM text where
// it renders without pinging.
var usersOnly = &allowedMentions{Parse: []string{"users"}}

// --- messages ---

// Send posts a permanent message to a channel.
func (c *Client) Send(ctx context.Context, channelID, content string) error {
	_, err := c.createMessage(ctx, channelID, &messagePayload{Content: content, AllowedMentions: usersOnly})
	return err
}

// SendTemp posts a message and deletes it after the configured interval.
// The deletion is detached from the caller's context and best effort; a
// leftover temp message is cosmetic.
func (c *Client) SendTemp(ctx context.Context, channelID, content string) error {
	ref, err := c.createMessage(ctx, channelID, &messagePayload{Content: content, AllowedMentions: usersOnly})
	if err != nil {
		return err
	}
	go func() {
		time.Sleep(c.tempTTL)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := c.DeleteMessage(ctx, channelID, ref.ID); err != nil {
			slog.Debug("temp message cleanup failed", "channel", channelID, "err", err)
		}
	}()
	return nil
}

// DeleteMessage removes a message. Already-gone messages are not an error.
func (c *Client) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	err := c.do(ctx, http.MethodDelete, "/channels/"+channelID+"/messages/"+messageID, nil, nil, "")
	if isStatus(err, http.StatusNotFound) {
		return nil
	}
	return err
}

// DirectMessage opens (or reuses) the DM channel and sends a branded embed.
// When playerID is non-empty it is echoed back as a field so the member has
// written confirmation of what was saved.
func (c *Client) DirectMessage(ctx context.Context, participantID, content, playerID string) error {
	var ch messageRef
	err := c.do(ctx, http.MethodPost, "/users/@me/channels",
		map[string]string{"recipient_id": participantID}, &ch, "")
	if err != nil {
		return fmt.Errorf("open dm channel: %w", err)
	}
	e := embed{
		Author:      &embedAuthor{Name: c.brand + " Verify"},
		Description: content,
		Color:       c.accent,
	}
	if c.thumbnail != "" {
		e.Thumbnail = &embedThumb{URL: c.thumbnail}
	}
	if playerID != "" {
		e.Fields = []embedField{{Name: "Player ID", Value: "`" + playerID + "`", Inline: true}}
	}
	_, err = c.createMessage(ctx, ch.ID, &messagePayload{Embeds: []embed{e}})
	return err
}

// PostPanel publishes the verification panel: a branded embed plus the
// button that opens the player ID modal.
func (c *Client) PostPanel(ctx context.Context, channelID, title, body, button string) error {
	e := embed{
		Author:      &embedAuthor{Name: c.brand},
		Title:       title,
		Description: body,
		Color:       c.accent,
	}
	if c.thumbnail != "" {
		e.Thumbnail = &embedThumb{URL: c.thumbnail}
	}
	payload := &messagePayload{
		Embeds: []embed{e},
		Components: []component{{
			Type: 1,
			Components: []component{{
				Type: 2, Style: 1, Label: button, CustomID: "verify:start",
			}},
		}},
	}
	_, err := c.createMessage(ctx, channelID, payload)
	return err
}

func (c *Client) createMessage(ctx context.Context, channelID string, payload *messagePayload) (*messageRef, error) {
	var ref messageRef
	if err := c.do(ctx, http.MethodPost, "/channels/"+channelID+"/messages", payload, &ref, ""); err != nil {
		return nil, err
	}
	return &ref, nil
}

// --- membership and roles ---

type member struct {
	Roles []string `json:"roles"`
}

// MemberRoles returns the participant's current role IDs. Never cached:
// membership can change between calls and the gate must see it.
func (c *Client) MemberRoles(ctx context.Context, participantID string) ([]string, error) {
	var m member
	err := c.do(ctx, http.MethodGet, "/guilds/"+c.communityID+"/members/"+participantID, nil, &m, "")
	if err != nil {
		return nil, fmt.Errorf("read member: %w", err)
	}
	return m.Roles, nil
}

// HasRole reports whether the participant currently holds the given role.
func (c *Client) HasRole(ctx context.Context, participantID, roleID string) (bool, error) {
	roles, err := c.MemberRoles(ctx, participantID)
	if err != nil {
		return false, err
	}
	for _, r := range roles {
		if r == roleID {
			return true, nil
		}
	}
	return false, nil
}

// RoleOracle is the client bound to the verified role, answering the
// idempotency gate's IsPrivileged question as a plain role read.
type RoleOracle struct {
	c              *Client
	verifiedRoleID string
}

// Oracle returns a membership-oracle view of the client bound to the
// verified role.
func (c *Client) Oracle(verifiedRoleID string) *RoleOracle {
	return &RoleOracle{c: c, verifiedRoleID: verifiedRoleID}
}

func (o *RoleOracle) IsPrivileged(ctx context.Context, participantID string) (bool, error) {
	return o.c.HasRole(ctx, participantID, o.verifiedRoleID)
}

func (o *RoleOracle) HasRole(ctx context.Context, participantID, roleID string) (bool, error) {
	return o.c.HasRole(ctx, participantID, roleID)
}

// AddRole grants a role. The platform treats granting an already-held role
// as a no-op, which is what the success pipeline's race tolerance relies on.
func (c *Client) AddRole(ctx context.Context, participantID, roleID, reason string) error {
	path := "/guilds/" + c.communityID + "/members/" + participantID + "/roles/" + roleID
	return c.do(ctx, http.MethodPut, path, nil, nil, reason)
}

// RemoveRole revokes a role.
func (c *Client) RemoveRole(ctx context.Context, participantID, roleID, reason string) error {
	path := "/guilds/" + c.communityID + "/members/" + participantID + "/roles/" + roleID
	return c.do(ctx, http.MethodDelete, path, nil, nil, reason)
}

// --- permissions ---

type channelPerms struct {
	Permissions string `json:"permissions"`
}

// OwnPermissions returns the bot's permission bitset in a channel. Used at
// startup to warn when the privacy policy (message deletion) cannot be
// enforced.
func (c *Client) OwnPermissions(ctx context.Context, channelID string) (uint64, error) {
	var p channelPerms
	if err := c.do(ctx, http.MethodGet, "/channels/"+channelID+"/permissions/@me", nil, &p, ""); err != nil {
		return 0, err
	}
	bits, err := strconv.ParseUint(p.Permissions, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse permissions %q: %w", p.Permissions, err)
	}
	return bits, nil
}

// --- transport plumbing ---

type statusError struct {
	Code int
	Body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("platform responded %d: %s", e.Code, e.Body)
}

func isStatus(err error, code int) bool {
	se, ok := err.(*statusError)
	return ok && se.Code == code
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}, auditReason string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bot "+c.token)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auditReason != "" {
		req.Header.Set("X-Audit-Log-Reason", auditReason)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &statusError{Code: resp.StatusCode, Body: string(raw)}
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
