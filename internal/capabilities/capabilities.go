// Package capabilities provides the concrete implementations behind the
// workflow's capability interfaces: model-backed classification and
// extraction, vision OCR, Composio tool execution, direct SMTP delivery,
// and an in-memory recorder for local development.
package capabilities

import (
	"fmt"
	"log/slog"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/albmartin/po-intake/internal/config"
	"github.com/albmartin/po-intake/internal/prompts"
	"github.com/albmartin/po-intake/internal/workflow"
)

// Set holds one implementation per workflow capability.
type Set struct {
	Classifier workflow.Classifier
	Extractor  workflow.FieldExtractor
	Generator  workflow.TextGenerator
	OCR        workflow.TextExtractor
	Email      workflow.EmailSender
	Rows       workflow.RowAppender
	Source     MessageSource
}

// New builds the capability set selected by configuration. Mock
// selections share a single Recorder so tests and local runs can
// inspect every captured side effect in one place.
func New(
	cfg *config.CapabilitiesConfig,
	agentCfg gaconfig.AgentConfig,
	p prompts.System,
	logger *slog.Logger,
) (*Set, *Recorder, error) {
	set := &Set{}
	recorder := NewRecorder()

	var composio *ComposioClient
	client := func() *ComposioClient {
		if composio == nil {
			composio = NewComposioClient(&cfg.Composio, logger)
		}
		return composio
	}

	switch cfg.LLM {
	case "agent":
		set.Classifier = NewAgentClassifier(agentCfg, p)
		set.Extractor = NewAgentExtractor(agentCfg, p)
		set.Generator = NewAgentGenerator(agentCfg)
	case "mock":
		set.Classifier = recorder
		set.Extractor = recorder
		set.Generator = recorder
	default:
		return nil, nil, fmt.Errorf("unknown llm capability: %s", cfg.LLM)
	}

	switch cfg.OCR {
	case "vision":
		set.OCR = NewVisionOCR(agentCfg, p)
	case "mock":
		set.OCR = recorder
	default:
		return nil, nil, fmt.Errorf("unknown ocr capability: %s", cfg.OCR)
	}

	switch cfg.Email {
	case "composio":
		set.Email = NewComposioEmailSender(client())
	case "smtp":
		set.Email = NewSMTPSender(&cfg.SMTP)
	case "mock":
		set.Email = recorder
	default:
		return nil, nil, fmt.Errorf("unknown email capability: %s", cfg.Email)
	}

	switch cfg.Rows {
	case "composio":
		set.Rows = NewComposioRowAppender(client())
	case "mock":
		set.Rows = recorder
	default:
		return nil, nil, fmt.Errorf("unknown rows capability: %s", cfg.Rows)
	}

	switch cfg.Source {
	case "composio":
		set.Source = NewComposioMessageSource(client())
	case "mock":
		set.Source = recorder
	default:
		return nil, nil, fmt.Errorf("unknown source capability: %s", cfg.Source)
	}

	return set, recorder, nil
}
