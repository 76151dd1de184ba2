// Package webhook receives inbound email notifications from the tool
// gateway, verifies their signatures, and drives the intake workflow
// asynchronously so the gateway gets a fast acknowledgment.
package webhook

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/albmartin/po-intake/internal/capabilities"
	"github.com/albmartin/po-intake/internal/runs"
	"github.com/albmartin/po-intake/internal/workflow"
	"github.com/albmartin/po-intake/pkg/handlers"
	"github.com/albmartin/po-intake/pkg/routes"
	"github.com/albmartin/po-intake/pkg/storage"
)

// processTimeout bounds a single background workflow run.
const processTimeout = 15 * time.Minute

// Module handles webhook ingestion and background processing.
type Module struct {
	secret      string
	maxBodySize int64
	source      capabilities.MessageSource
	storage     storage.System
	runs        runs.System
	runtime     *workflow.Runtime
	logger      *slog.Logger

	wg sync.WaitGroup
}

// New creates the webhook module.
func New(
	secret string,
	maxBodySize int64,
	source capabilities.MessageSource,
	store storage.System,
	runSys runs.System,
	rt *workflow.Runtime,
	logger *slog.Logger,
) *Module {
	return &Module{
		secret:      secret,
		maxBodySize: maxBodySize,
		source:      source,
		storage:     store,
		runs:        runSys,
		runtime:     rt,
		logger:      logger.With("system", "webhook"),
	}
}

// Routes returns the route group definition for webhook ingestion.
func (m *Module) Routes() routes.Group {
	return routes.Group{
		Prefix: "/webhook",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: m.Receive},
		},
	}
}

// Wait blocks until all in-flight background runs complete. Called
// during shutdown so accepted deliveries finish processing.
func (m *Module) Wait() {
	m.wg.Wait()
}

// Receive verifies and parses a webhook delivery, acknowledges it with
// 202, and processes the run in the background.
func (m *Module) Receive(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, m.maxBodySize))
	if err != nil {
		handlers.RespondError(w, m.logger, http.StatusBadRequest, err)
		return
	}

	err = VerifySignature(
		m.secret,
		r.Header.Get(HeaderWebhookID),
		r.Header.Get(HeaderWebhookTimestamp),
		body,
		r.Header.Get(HeaderWebhookSignature),
	)
	if err != nil {
		handlers.RespondError(w, m.logger, http.StatusUnauthorized, err)
		return
	}

	in, err := ParsePayload(body)
	if err != nil {
		handlers.RespondError(w, m.logger, http.StatusBadRequest, err)
		return
	}

	m.logger.Info("webhook accepted", "message_id", in.MessageID, "sender", in.Sender)

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
		defer cancel()

		run, err := m.Process(ctx, in)
		if err != nil {
			m.logger.Error("webhook processing failed", "message_id", in.MessageID, "error", err)
			return
		}

		m.logger.Info(
			"webhook processed",
			"message_id", in.MessageID,
			"run_id", run.ID,
			"final_status", run.FinalStatus,
		)
	}()

	handlers.RespondJSON(w, http.StatusAccepted, map[string]string{
		"message_id": in.MessageID,
		"status":     "accepted",
	})
}
