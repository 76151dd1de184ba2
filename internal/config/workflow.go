package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvWorkflowConfidenceThreshold = "POINTAKE_WORKFLOW_CONFIDENCE_THRESHOLD"
	EnvWorkflowSpreadsheetID       = "POINTAKE_WORKFLOW_SPREADSHEET_ID"
	EnvWorkflowPromptsDir          = "POINTAKE_WORKFLOW_PROMPTS_DIR"
	EnvWorkflowPromptLanguage      = "POINTAKE_WORKFLOW_PROMPT_LANGUAGE"
	EnvWorkflowPromptFallback      = "POINTAKE_WORKFLOW_PROMPT_FALLBACK"
)

// WorkflowConfig holds the intake workflow parameters.
type WorkflowConfig struct {
	// ConfidenceThreshold marks an extracted field low-confidence when its
	// score falls strictly below this value.
	ConfidenceThreshold float64 `toml:"confidence_threshold"`
	// SpreadsheetID identifies the tracking sheet rows are appended to.
	SpreadsheetID  string `toml:"spreadsheet_id"`
	PromptsDir     string `toml:"prompts_dir"`
	PromptLanguage string `toml:"prompt_language"`
	PromptFallback string `toml:"prompt_fallback"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *WorkflowConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *WorkflowConfig) Merge(overlay *WorkflowConfig) {
	if overlay.ConfidenceThreshold != 0 {
		c.ConfidenceThreshold = overlay.ConfidenceThreshold
	}
	if overlay.SpreadsheetID != "" {
		c.SpreadsheetID = overlay.SpreadsheetID
	}
	if overlay.PromptsDir != "" {
		c.PromptsDir = overlay.PromptsDir
	}
	if overlay.PromptLanguage != "" {
		c.PromptLanguage = overlay.PromptLanguage
	}
	if overlay.PromptFallback != "" {
		c.PromptFallback = overlay.PromptFallback
	}
}

func (c *WorkflowConfig) loadDefaults() {
	if c.ConfidenceThreshold == 0 {
		c.ConfidenceThreshold = 0.5
	}
	if c.PromptsDir == "" {
		c.PromptsDir = "prompts"
	}
	if c.PromptLanguage == "" {
		c.PromptLanguage = "en"
	}
	if c.PromptFallback == "" {
		c.PromptFallback = "en"
	}
}

func (c *WorkflowConfig) loadEnv() {
	if v := os.Getenv(EnvWorkflowConfidenceThreshold); v != "" {
		if threshold, err := strconv.ParseFloat(v, 64); err == nil {
			c.ConfidenceThreshold = threshold
		}
	}
	if v := os.Getenv(EnvWorkflowSpreadsheetID); v != "" {
		c.SpreadsheetID = v
	}
	if v := os.Getenv(EnvWorkflowPromptsDir); v != "" {
		c.PromptsDir = v
	}
	if v := os.Getenv(EnvWorkflowPromptLanguage); v != "" {
		c.PromptLanguage = v
	}
	if v := os.Getenv(EnvWorkflowPromptFallback); v != "" {
		c.PromptFallback = v
	}
}

func (c *WorkflowConfig) validate() error {
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return fmt.Errorf("confidence_threshold must be within [0, 1]: %f", c.ConfidenceThreshold)
	}
	return nil
}
