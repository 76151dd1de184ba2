package capabilities

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/albmartin/po-intake/internal/config"
	"github.com/albmartin/po-intake/internal/workflow"
)

func mockConfig() *config.CapabilitiesConfig {
	return &config.CapabilitiesConfig{
		LLM:    "mock",
		OCR:    "mock",
		Email:  "mock",
		Rows:   "mock",
		Source: "mock",
	}
}

func TestNewMockSet(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	set, recorder, err := New(mockConfig(), gaconfig.AgentConfig{}, nil, logger)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if recorder == nil {
		t.Fatal("expected a recorder")
	}

	// Every mock selection shares the recorder, so side effects land
	// in one inspectable place.
	if err := set.Email.Send(context.Background(), workflow.Email{To: "a@b.example"}); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if err := set.Rows.AppendRow(context.Background(), "s", "Sheet1", []string{"PO-1"}); err != nil {
		t.Fatalf("AppendRow failed: %v", err)
	}
	if len(recorder.Emails) != 1 || len(recorder.Rows) != 1 {
		t.Errorf("recorder captured %d emails, %d rows", len(recorder.Emails), len(recorder.Rows))
	}
}

func TestNewRejectsUnknownSelections(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name   string
		mutate func(*config.CapabilitiesConfig)
		want   string
	}{
		{"llm", func(c *config.CapabilitiesConfig) { c.LLM = "oracle" }, "unknown llm capability"},
		{"ocr", func(c *config.CapabilitiesConfig) { c.OCR = "tesseract" }, "unknown ocr capability"},
		{"email", func(c *config.CapabilitiesConfig) { c.Email = "carrier-pigeon" }, "unknown email capability"},
		{"rows", func(c *config.CapabilitiesConfig) { c.Rows = "csv" }, "unknown rows capability"},
		{"source", func(c *config.CapabilitiesConfig) { c.Source = "imap" }, "unknown source capability"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := mockConfig()
			tt.mutate(cfg)

			_, _, err := New(cfg, gaconfig.AgentConfig{}, nil, logger)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("New = %v, want %q", err, tt.want)
			}
		})
	}
}
