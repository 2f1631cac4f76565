package config

import (
	"testing"
	"time"

	"github.com/Runyun19/arcane-arena-verify-bot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := Load()
	cfg.PlatformToken = "bot-token"
	cfg.GatewaySecret = "relay-shared-secret"
	cfg.CommunityID = "g1"
	cfg.RegisterChannelID = "chan-register"
	cfg.VerifiedRoleID = "role-verified"
	return cfg
}

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 9, cfg.IDLength)
	assert.Equal(t, domain.ModePermissive, cfg.ValidationMode)
	assert.True(t, cfg.AutoRegister)
	assert.Equal(t, 60*time.Second, cfg.ConfirmTTL)
	assert.Equal(t, 10*time.Second, cfg.TempMessageTTL)
	assert.Equal(t, "sheets", cfg.RecordBackend)
	assert.Equal(t, "the Community Managers", cfg.Texts.ContactFallback)
}

func TestValidate_OK(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidate_MissingToken(t *testing.T) {
	cfg := validConfig()
	cfg.PlatformToken = ""
	require.Error(t, cfg.Validate())
}

func TestValidate_ShortGatewaySecret(t *testing.T) {
	cfg := validConfig()
	cfg.GatewaySecret = "short"
	require.Error(t, cfg.Validate())
}

func TestValidate_BadMode(t *testing.T) {
	cfg := validConfig()
	cfg.ValidationMode = "lenient"
	require.Error(t, cfg.Validate())
}

func TestValidate_BadBackend(t *testing.T) {
	cfg := validConfig()
	cfg.RecordBackend = "postgres"
	require.Error(t, cfg.Validate())
}

func TestValidate_DynamoNeedsTable(t *testing.T) {
	cfg := validConfig()
	cfg.RecordBackend = "dynamo"
	cfg.DynamoRecordsTable = ""
	require.Error(t, cfg.Validate())
}

func TestSinkConfigured(t *testing.T) {
	cfg := validConfig()

	cfg.RecordBackend = "sheets"
	cfg.SheetID = ""
	assert.False(t, cfg.SinkConfigured())
	cfg.SheetID = "sheet-1"
	cfg.GoogleCredsB64 = "e30="
	assert.True(t, cfg.SinkConfigured())

	cfg.RecordBackend = "dynamo"
	assert.True(t, cfg.SinkConfigured())

	cfg.RecordBackend = "none"
	assert.False(t, cfg.SinkConfigured())
}

func TestGetEnvDuration_BareSeconds(t *testing.T) {
	t.Setenv("CONFIRM_TTL_TEST", "45")
	assert.Equal(t, 45*time.Second, getEnvDuration("CONFIRM_TTL_TEST", time.Minute))

	t.Setenv("CONFIRM_TTL_TEST", "90s")
	assert.Equal(t, 90*time.Second, getEnvDuration("CONFIRM_TTL_TEST", time.Minute))

	t.Setenv("CONFIRM_TTL_TEST", "garbage")
	assert.Equal(t, time.Minute, getEnvDuration("CONFIRM_TTL_TEST", time.Minute))
}
