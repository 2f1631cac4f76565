package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Runyun19/arcane-arena-verify-bot/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.Load()
	cfg.PlatformBaseURL = srv.URL
	cfg.PlatformToken = "bot-token"
	cfg.CommunityID = "g1"
	cfg.TempMessageTTL = 10 * time.Millisecond
	return NewClient(cfg)
}

func TestSend_AuthAndMentionHygiene(t *testing.T) {
	var got messagePayload
	var auth string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(messageRef{ID: "m1"})
	})

	require.NoError(t, c.Send(context.Background(), "chan-1", "hello <@&role-x>"))

	assert.Equal(t, "Bot bot-token", auth)
	assert.Equal(t, "hello <@&role-x>", got.Content)
	require.NotNil(t, got.AllowedMentions)
	assert.Equal(t, []string{"users"}, got.AllowedMentions.Parse)
}

func TestDeleteMessage_GoneIsNotAnError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	assert.NoError(t, c.DeleteMessage(context.Background(), "chan-1", "m1"))
}

func TestDeleteMessage_OtherErrorsSurface(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	err := c.DeleteMessage(context.Background(), "chan-1", "m1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestHasRole(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/guilds/g1/members/u1", r.URL.Path)
		json.NewEncoder(w).Encode(member{Roles: []string{"role-a", "role-verified"}})
	})

	ok, err := c.HasRole(context.Background(), "u1", "role-verified")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.HasRole(context.Background(), "u1", "role-other")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOracle_IsPrivilegedReadsVerifiedRole(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(member{Roles: []string{"role-verified"}})
	})

	ok, err := c.Oracle("role-verified").IsPrivileged(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAddRole_PathAndAuditReason(t *testing.T) {
	var method, path, reason string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		method, path, reason = r.Method, r.URL.Path, r.Header.Get("X-Audit-Log-Reason")
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.AddRole(context.Background(), "u1", "role-verified", "Player ID verified"))
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/guilds/g1/members/u1/roles/role-verified", path)
	assert.Equal(t, "Player ID verified", reason)
}

func TestDirectMessage_OpensChannelAndEchoesPlayerID(t *testing.T) {
	var dmPayload messagePayload
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users/@me/channels":
			json.NewEncoder(w).Encode(messageRef{ID: "dm-1"})
		case "/channels/dm-1/messages":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&dmPayload))
			json.NewEncoder(w).Encode(messageRef{ID: "m1"})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	require.NoError(t, c.DirectMessage(context.Background(), "u1", "saved!", "123456789"))
	require.Len(t, dmPayload.Embeds, 1)
	assert.Equal(t, "saved!", dmPayload.Embeds[0].Description)
	require.Len(t, dmPayload.Embeds[0].Fields, 1)
	assert.Equal(t, "Player ID", dmPayload.Embeds[0].Fields[0].Name)
	assert.Equal(t, "`123456789`", dmPayload.Embeds[0].Fields[0].Value)
}

func TestPostPanel_ButtonWiring(t *testing.T) {
	var got messagePayload
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(messageRef{ID: "m1"})
	})

	require.NoError(t, c.PostPanel(context.Background(), "chan-1", "Verification", "press the button", "Verify"))
	require.Len(t, got.Components, 1)
	require.Len(t, got.Components[0].Components, 1)
	btn := got.Components[0].Components[0]
	assert.Equal(t, "verify:start", btn.CustomID)
	assert.Equal(t, "Verify", btn.Label)
}

func TestOwnPermissions(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/channels/chan-1/permissions/@me", r.URL.Path)
		json.NewEncoder(w).Encode(channelPerms{Permissions: "8192"})
	})

	bits, err := c.OwnPermissions(context.Background(), "chan-1")
	require.NoError(t, err)
	assert.NotZero(t, bits&PermManageMessages)
}

func TestSendTemp_DeletesAfterTTL(t *testing.T) {
	deleted := make(chan string, 1)
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			deleted <- r.URL.Path
			w.WriteHeader(http.StatusNoContent)
			return
		}
		json.NewEncoder(w).Encode(messageRef{ID: "m-temp"})
	})

	require.NoError(t, c.SendTemp(context.Background(), "chan-1", "gone soon"))
	select {
	case path := <-deleted:
		assert.Equal(t, "/channels/chan-1/messages/m-temp", path)
	case <-time.After(2 * time.Second):
		t.Fatal("temp message was never deleted")
	}
}
