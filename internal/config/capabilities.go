package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
)

const (
	EnvCapabilitiesLLM    = "POINTAKE_CAPABILITIES_LLM"
	EnvCapabilitiesOCR    = "POINTAKE_CAPABILITIES_OCR"
	EnvCapabilitiesEmail  = "POINTAKE_CAPABILITIES_EMAIL"
	EnvCapabilitiesRows   = "POINTAKE_CAPABILITIES_ROWS"
	EnvCapabilitiesSource = "POINTAKE_CAPABILITIES_SOURCE"

	EnvComposioBaseURL       = "POINTAKE_COMPOSIO_BASE_URL"
	EnvComposioAPIKey        = "POINTAKE_COMPOSIO_API_KEY"
	EnvComposioUserID        = "POINTAKE_COMPOSIO_USER_ID"
	EnvComposioSheetName     = "POINTAKE_COMPOSIO_SHEET_NAME"
	EnvComposioWebhookSecret = "POINTAKE_COMPOSIO_WEBHOOK_SECRET"

	EnvSMTPHost     = "POINTAKE_SMTP_HOST"
	EnvSMTPPort     = "POINTAKE_SMTP_PORT"
	EnvSMTPUsername = "POINTAKE_SMTP_USERNAME"
	EnvSMTPPassword = "POINTAKE_SMTP_PASSWORD"
	EnvSMTPFrom     = "POINTAKE_SMTP_FROM"
)

// CapabilitiesConfig selects the provider backing each workflow capability
// and holds the provider-specific settings.
type CapabilitiesConfig struct {
	LLM      string         `toml:"llm"`
	OCR      string         `toml:"ocr"`
	Email    string         `toml:"email"`
	Rows     string         `toml:"rows"`
	Source   string         `toml:"source"`
	Composio ComposioConfig `toml:"composio"`
	SMTP     SMTPConfig     `toml:"smtp"`
}

// ComposioConfig holds settings for the Composio tool gateway.
type ComposioConfig struct {
	BaseURL       string `toml:"base_url"`
	APIKey        string `toml:"api_key"`
	UserID        string `toml:"user_id"`
	SheetName     string `toml:"sheet_name"`
	WebhookSecret string `toml:"webhook_secret"`
}

// SMTPConfig holds settings for direct SMTP delivery.
type SMTPConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	From     string `toml:"from"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *CapabilitiesConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *CapabilitiesConfig) Merge(overlay *CapabilitiesConfig) {
	if overlay.LLM != "" {
		c.LLM = overlay.LLM
	}
	if overlay.OCR != "" {
		c.OCR = overlay.OCR
	}
	if overlay.Email != "" {
		c.Email = overlay.Email
	}
	if overlay.Rows != "" {
		c.Rows = overlay.Rows
	}
	if overlay.Source != "" {
		c.Source = overlay.Source
	}

	c.Composio.merge(&overlay.Composio)
	c.SMTP.merge(&overlay.SMTP)
}

func (c *ComposioConfig) merge(overlay *ComposioConfig) {
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.UserID != "" {
		c.UserID = overlay.UserID
	}
	if overlay.SheetName != "" {
		c.SheetName = overlay.SheetName
	}
	if overlay.WebhookSecret != "" {
		c.WebhookSecret = overlay.WebhookSecret
	}
}

func (c *SMTPConfig) merge(overlay *SMTPConfig) {
	if overlay.Host != "" {
		c.Host = overlay.Host
	}
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}
	if overlay.Username != "" {
		c.Username = overlay.Username
	}
	if overlay.Password != "" {
		c.Password = overlay.Password
	}
	if overlay.From != "" {
		c.From = overlay.From
	}
}

func (c *CapabilitiesConfig) loadDefaults() {
	if c.LLM == "" {
		c.LLM = "agent"
	}
	if c.OCR == "" {
		c.OCR = "vision"
	}
	if c.Email == "" {
		c.Email = "composio"
	}
	if c.Rows == "" {
		c.Rows = "composio"
	}
	if c.Source == "" {
		c.Source = "composio"
	}
	if c.Composio.BaseURL == "" {
		c.Composio.BaseURL = "https://backend.composio.dev/api/v3"
	}
	if c.Composio.UserID == "" {
		c.Composio.UserID = "default"
	}
	if c.Composio.SheetName == "" {
		c.Composio.SheetName = "Sheet1"
	}
	if c.SMTP.Port == 0 {
		c.SMTP.Port = 587
	}
}

func (c *CapabilitiesConfig) loadEnv() {
	setString := func(envVar string, target *string) {
		if v := os.Getenv(envVar); v != "" {
			*target = v
		}
	}

	setString(EnvCapabilitiesLLM, &c.LLM)
	setString(EnvCapabilitiesOCR, &c.OCR)
	setString(EnvCapabilitiesEmail, &c.Email)
	setString(EnvCapabilitiesRows, &c.Rows)
	setString(EnvCapabilitiesSource, &c.Source)

	setString(EnvComposioBaseURL, &c.Composio.BaseURL)
	setString(EnvComposioAPIKey, &c.Composio.APIKey)
	setString(EnvComposioUserID, &c.Composio.UserID)
	setString(EnvComposioSheetName, &c.Composio.SheetName)
	setString(EnvComposioWebhookSecret, &c.Composio.WebhookSecret)

	setString(EnvSMTPHost, &c.SMTP.Host)
	setString(EnvSMTPUsername, &c.SMTP.Username)
	setString(EnvSMTPPassword, &c.SMTP.Password)
	setString(EnvSMTPFrom, &c.SMTP.From)

	if v := os.Getenv(EnvSMTPPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.SMTP.Port = port
		}
	}
}

func (c *CapabilitiesConfig) validate() error {
	if c.LLM != "agent" && c.LLM != "mock" {
		return fmt.Errorf("unknown llm capability: %s", c.LLM)
	}
	if c.OCR != "vision" && c.OCR != "mock" {
		return fmt.Errorf("unknown ocr capability: %s", c.OCR)
	}
	if !slices.Contains([]string{"composio", "smtp", "mock"}, c.Email) {
		return fmt.Errorf("unknown email capability: %s", c.Email)
	}
	if c.Rows != "composio" && c.Rows != "mock" {
		return fmt.Errorf("unknown rows capability: %s", c.Rows)
	}
	if c.Source != "composio" && c.Source != "mock" {
		return fmt.Errorf("unknown source capability: %s", c.Source)
	}

	if c.usesComposio() {
		if c.Composio.APIKey == "" {
			return fmt.Errorf("composio api_key is required when a composio capability is selected")
		}
	}
	if c.Email == "smtp" {
		if c.SMTP.Host == "" {
			return fmt.Errorf("smtp host is required when email capability is smtp")
		}
		if c.SMTP.From == "" {
			return fmt.Errorf("smtp from address is required when email capability is smtp")
		}
	}

	return nil
}

func (c *CapabilitiesConfig) usesComposio() bool {
	return c.Email == "composio" || c.Rows == "composio" || c.Source == "composio"
}
