package api

import (
	"fmt"

	"github.com/albmartin/po-intake/internal/capabilities"
	"github.com/albmartin/po-intake/internal/config"
	"github.com/albmartin/po-intake/internal/prompts"
	"github.com/albmartin/po-intake/internal/runs"
	"github.com/albmartin/po-intake/internal/webhook"
	"github.com/albmartin/po-intake/internal/workflow"
)

// Domain holds the systems that comprise the API.
type Domain struct {
	Runs     runs.System
	Webhook  *webhook.Module
	Prompts  prompts.System
	Runtime  *workflow.Runtime
	Recorder *capabilities.Recorder
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(cfg *config.Config, runtime *Runtime) (*Domain, error) {
	promptSys := prompts.NewLocal(
		cfg.Workflow.PromptsDir,
		cfg.Workflow.PromptLanguage,
		cfg.Workflow.PromptFallback,
	)

	set, recorder, err := capabilities.New(
		&cfg.Capabilities,
		cfg.Agent,
		promptSys,
		runtime.Logger,
	)
	if err != nil {
		return nil, fmt.Errorf("build capabilities: %w", err)
	}

	workflowRuntime := &workflow.Runtime{
		Classifier:    set.Classifier,
		Extractor:     set.Extractor,
		Generator:     set.Generator,
		OCR:           set.OCR,
		Email:         set.Email,
		Rows:          set.Rows,
		Prompts:       promptSys,
		Validator:     workflow.Validator{Threshold: cfg.Workflow.ConfidenceThreshold},
		SpreadsheetID: cfg.Workflow.SpreadsheetID,
		SheetName:     cfg.Capabilities.Composio.SheetName,
		Logger:        runtime.Logger.With("workflow", "intake"),
	}

	runsSystem := runs.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	webhookModule := webhook.New(
		cfg.Capabilities.Composio.WebhookSecret,
		cfg.API.MaxBodySizeBytes(),
		set.Source,
		runtime.Storage,
		runsSystem,
		workflowRuntime,
		runtime.Logger,
	)

	return &Domain{
		Runs:     runsSystem,
		Webhook:  webhookModule,
		Prompts:  promptSys,
		Runtime:  workflowRuntime,
		Recorder: recorder,
	}, nil
}
