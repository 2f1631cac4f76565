package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Runyun19/arcane-arena-verify-bot/internal/domain"
	"github.com/Runyun19/arcane-arena-verify-bot/internal/pkg/validate"
)

// Config holds all runtime configuration loaded from environment variables.
// Load never fails; Validate decides what is fatal at startup.
type Config struct {
	AppPort string
	AppEnv  string

	// Chat platform.
	PlatformBaseURL   string `validate:"required,url"`
	PlatformAppURL    string
	PlatformToken     string `validate:"required"`
	GatewaySecret     string `validate:"required,min=16"`
	CommunityID       string `validate:"required"`
	CommunityName     string
	RegisterChannelID string `validate:"required"`
	LogChannelID      string
	VerifiedRoleID    string `validate:"required"`
	ModeratorRoleID   string
	ContactRoleID     string
	SupportUserID     string

	// Workflow policy.
	IDLength       int                   `validate:"min=1,max=32"`
	ValidationMode domain.ValidationMode `validate:"oneof=strict permissive"`
	AutoRegister   bool
	ConfirmTTL     time.Duration
	TempMessageTTL time.Duration

	// Record sink. Backend "none" runs the bot in degraded mode: grants and
	// notifications still work, every append failure is surfaced to the
	// audit channel.
	RecordBackend      string `validate:"oneof=sheets dynamo none"`
	SheetID            string
	Worksheet          string
	GoogleCredentials  string
	GoogleCredsB64     string
	DynamoRecordsTable string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	AlertTopicARN  string // optional SNS topic for record-sink failures

	// Branding.
	Brand        string
	ThumbnailURL string
	AccentColor  int

	Texts Texts
}

// Texts holds every user-facing template. Placeholders are {name} markers
// filled by render.Fill.
type Texts struct {
	TooShort        string
	TooLong         string
	NonDigit        string
	AlreadyVerified string
	Unavailable     string
	ConfirmPrompt   string
	SessionExpired  string
	Cancelled       string
	DMVerified      string
	DMBlocked       string
	TempVerified    string
	Welcome         string
	PanelTitle      string
	PanelBody       string
	PanelButton     string
	ContactFallback string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		PlatformBaseURL:   getEnv("PLATFORM_BASE_URL", "https://chat.example.com/api/v10"),
		PlatformAppURL:    getEnv("PLATFORM_APP_URL", "https://chat.example.com"),
		PlatformToken:     getEnv("PLATFORM_BOT_TOKEN", ""),
		GatewaySecret:     getEnv("GATEWAY_SHARED_SECRET", ""),
		CommunityID:       getEnv("COMMUNITY_ID", ""),
		CommunityName:     getEnv("COMMUNITY_NAME", "Arcane Arena"),
		RegisterChannelID: getEnv("REGISTER_CHANNEL_ID", ""),
		LogChannelID:      getEnv("LOG_CHANNEL_ID", ""),
		VerifiedRoleID:    getEnv("VERIFIED_ROLE_ID", ""),
		ModeratorRoleID:   getEnv("MODERATOR_ROLE_ID", ""),
		ContactRoleID:     getEnv("CM_ROLE_ID", ""),
		SupportUserID:     getEnv("SUPPORT_USER_ID", ""),

		IDLength:       getEnvInt("ID_LENGTH", 9),
		ValidationMode: domain.ValidationMode(getEnv("VALIDATION_MODE", string(domain.ModePermissive))),
		AutoRegister:   getEnvBool("AUTO_REGISTER", true),
		ConfirmTTL:     getEnvDuration("CONFIRM_TTL", 60*time.Second),
		TempMessageTTL: getEnvDuration("TEMP_MESSAGE_TTL", 10*time.Second),

		RecordBackend:      getEnv("RECORD_BACKEND", "sheets"),
		SheetID:            getEnv("SHEET_ID", ""),
		Worksheet:          getEnv("WORKSHEET", "Registrations"),
		GoogleCredentials:  getEnv("GOOGLE_CREDENTIALS", ""),
		GoogleCredsB64:     getEnv("GOOGLE_CREDENTIALS_B64", ""),
		DynamoRecordsTable: getEnv("DYNAMO_TABLE_RECORDS", "verification_records"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AlertTopicARN:  getEnv("ALERT_TOPIC_ARN", ""),

		Brand:        getEnv("BRAND", "Arcane Arena"),
		ThumbnailURL: getEnv("THUMBNAIL_URL", ""),
		AccentColor:  getEnvInt("ACCENT_COLOR", 0x57F287),

		Texts: loadTexts(),
	}
}

func loadTexts() Texts {
	return Texts{
		TooShort: getEnv("MSG_TOO_SHORT",
			"{mention} You sent **{typed} digits** — you need **exactly {need}**. Please send digits only in {channel}. Example: `123456789`"),
		TooLong: getEnv("MSG_TOO_LONG",
			"{mention} You sent **{typed} digits** — that's **more than {need}**. Please send exactly {need} digits in {channel}."),
		NonDigit: getEnv("MSG_NON_DIGIT",
			"{mention} Only numbers are allowed. Please send **just your Player ID** in {channel}. Example: `123456789`"),
		AlreadyVerified: getEnv("MSG_ALREADY_VERIFIED",
			"{mention} You are **already verified**. Updates are disabled. Please DM {contact} to request a change."),
		Unavailable: getEnv("MSG_UNAVAILABLE",
			"{mention} Verification is temporarily unavailable. Please try again in a few minutes."),
		ConfirmPrompt: getEnv("MSG_CONFIRM_PROMPT",
			"Register Player ID `{player_id}`? Press **Confirm** within {ttl} seconds, or **Cancel**."),
		SessionExpired: getEnv("MSG_SESSION_EXPIRED",
			"That confirmation has expired. Please start again from the panel."),
		Cancelled: getEnv("MSG_CANCELLED",
			"Registration cancelled. Nothing was saved."),
		DMVerified: getEnv("MSG_DM_VERIFIED",
			"✅ Player ID saved and your access has been granted. Enjoy!"),
		DMBlocked: getEnv("MSG_DM_BLOCKED",
			"Hi! I can't process DMs. Please post your Player ID in the registration channel on **{community}**: {jump}"),
		TempVerified: getEnv("MSG_TEMP_VERIFIED",
			"{mention} Verified. Welcome!"),
		Welcome: getEnv("MSG_WELCOME",
			"Welcome to **{community}**! Post your {need}-digit Player ID in {channel} to unlock the server."),
		PanelTitle: getEnv("PANEL_TITLE", "{brand} Verification"),
		PanelBody: getEnv("PANEL_BODY",
			"Press the button below and enter your Player ID to unlock the server."),
		PanelButton: getEnv("PANEL_BUTTON", "Verify my Player ID"),
		ContactFallback: getEnv("MSG_CONTACT_FALLBACK",
			"the Community Managers"),
	}
}

// Validate enforces the required startup surface. A missing platform token
// or gateway secret must stop the process; record-sink settings are checked
// by the sink itself so the bot can keep running degraded.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("configuration: %w", err)
	}
	if c.RecordBackend == "dynamo" && c.DynamoRecordsTable == "" {
		return fmt.Errorf("configuration: DYNAMO_TABLE_RECORDS required for dynamo backend")
	}
	return nil
}

// SinkConfigured reports whether the selected record backend has enough
// settings to even attempt initialisation.
func (c *Config) SinkConfigured() bool {
	switch c.RecordBackend {
	case "sheets":
		return c.SheetID != "" && (c.GoogleCredentials != "" || c.GoogleCredsB64 != "")
	case "dynamo":
		return c.DynamoRecordsTable != ""
	default:
		return false
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(v) {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		// Bare numbers are taken as seconds, matching the original deploy env.
		if n, err := strconv.Atoi(v); err == nil {
			return time.Duration(n) * time.Second
		}
	}
	return fallback
}
