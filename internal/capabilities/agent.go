package capabilities

import (
	"context"
	"fmt"
	"strconv"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/albmartin/po-intake/internal/prompts"
	"github.com/albmartin/po-intake/internal/workflow"
	"github.com/albmartin/po-intake/pkg/formatting"
)

// AgentClassifier decides order validity with a chat completion against
// the configured model.
type AgentClassifier struct {
	config  gaconfig.AgentConfig
	prompts prompts.System
}

// NewAgentClassifier creates a model-backed classifier.
func NewAgentClassifier(cfg gaconfig.AgentConfig, p prompts.System) *AgentClassifier {
	return &AgentClassifier{config: cfg, prompts: p}
}

func (c *AgentClassifier) Classify(ctx context.Context, in workflow.ClassifyInput) (workflow.Classification, error) {
	prompt, err := c.prompts.GetAndRender("classify", "email", map[string]string{
		"sender":         in.Sender,
		"subject":        in.Subject,
		"body":           in.Body,
		"has_attachment": strconv.FormatBool(in.HasAttachment),
		"attachment":     in.AttachmentName,
	})
	if err != nil {
		return workflow.Classification{}, fmt.Errorf("compose classify prompt: %w", err)
	}

	a, err := agent.New(&c.config)
	if err != nil {
		return workflow.Classification{}, fmt.Errorf("create agent: %w", err)
	}

	resp, err := a.Chat(ctx, prompt)
	if err != nil {
		return workflow.Classification{}, fmt.Errorf("classify chat: %w", err)
	}

	parsed, err := formatting.Parse[workflow.Classification](resp.Content())
	if err != nil {
		return workflow.Classification{}, fmt.Errorf("parse classification: %w", err)
	}

	return parsed, nil
}

type extractionResponse struct {
	Fields      workflow.ExtractedFields `json:"fields"`
	Confidences map[string]float64       `json:"confidences"`
	Warnings    []string                 `json:"warnings"`
}

// AgentExtractor recovers the canonical order fields with a chat
// completion that returns structured JSON.
type AgentExtractor struct {
	config  gaconfig.AgentConfig
	prompts prompts.System
}

// NewAgentExtractor creates a model-backed field extractor.
func NewAgentExtractor(cfg gaconfig.AgentConfig, p prompts.System) *AgentExtractor {
	return &AgentExtractor{config: cfg, prompts: p}
}

func (e *AgentExtractor) Extract(ctx context.Context, text string) (workflow.Extraction, error) {
	prompt, err := e.prompts.GetAndRender("extract", "fields", map[string]string{
		"text": text,
	})
	if err != nil {
		return workflow.Extraction{}, fmt.Errorf("compose extract prompt: %w", err)
	}

	a, err := agent.New(&e.config)
	if err != nil {
		return workflow.Extraction{}, fmt.Errorf("create agent: %w", err)
	}

	resp, err := a.Chat(ctx, prompt)
	if err != nil {
		return workflow.Extraction{}, fmt.Errorf("extract chat: %w", err)
	}

	parsed, err := formatting.Parse[extractionResponse](resp.Content())
	if err != nil {
		return workflow.Extraction{}, fmt.Errorf("parse extraction: %w", err)
	}

	confidences := parsed.Confidences
	if confidences == nil {
		confidences = make(map[string]float64)
	}

	return workflow.Extraction{
		Fields:      parsed.Fields.Map(),
		Confidences: confidences,
		Warnings:    parsed.Warnings,
	}, nil
}

// AgentGenerator drafts free-form text from a rendered prompt.
type AgentGenerator struct {
	config gaconfig.AgentConfig
}

// NewAgentGenerator creates a model-backed text generator.
func NewAgentGenerator(cfg gaconfig.AgentConfig) *AgentGenerator {
	return &AgentGenerator{config: cfg}
}

func (g *AgentGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	a, err := agent.New(&g.config)
	if err != nil {
		return "", fmt.Errorf("create agent: %w", err)
	}

	resp, err := a.Chat(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generate chat: %w", err)
	}

	return resp.Content(), nil
}
