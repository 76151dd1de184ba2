package webhook

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/albmartin/po-intake/internal/runs"
	"github.com/albmartin/po-intake/internal/workflow"
)

// Process runs the intake workflow for a webhook delivery: hydrating
// message content and the PDF attachment, archiving the attachment,
// executing the workflow graph, and recording the run.
func (m *Module) Process(ctx context.Context, in *Inbound) (*runs.Run, error) {
	st := workflow.State{
		RunID:     uuid.New(),
		MessageID: in.MessageID,
		ThreadID:  in.ThreadID,
		Sender:    in.Sender,
		Subject:   in.Subject,
		Body:      in.Body,
	}

	m.hydrateMessage(ctx, in, &st)
	m.hydrateAttachment(ctx, in, &st)

	final, err := workflow.Run(ctx, m.runtime, st)
	if err != nil {
		return nil, fmt.Errorf("run workflow for message %s: %w", in.MessageID, err)
	}

	run, err := m.runs.Record(ctx, final)
	if err != nil {
		return nil, fmt.Errorf("record run for message %s: %w", in.MessageID, err)
	}

	return run, nil
}

// hydrateMessage replaces the webhook snippet with the full message
// from the message source. Webhook deliveries truncate the body, so the
// fetched content wins whenever the fetch succeeds; on failure the
// snippet stays in place and the workflow proceeds with what it has.
func (m *Module) hydrateMessage(ctx context.Context, in *Inbound, st *workflow.State) {
	msg, err := m.source.FetchMessage(ctx, in.MessageID)
	if err != nil {
		m.logger.Warn("message hydration failed", "message_id", in.MessageID, "error", err)
		st.LogAction("message hydration failed: %v", err)
		return
	}

	if msg.Body != "" {
		st.Body = msg.Body
	}
	if msg.Subject != "" {
		st.Subject = msg.Subject
	}
	if msg.Sender != "" {
		st.Sender = msg.Sender
	}
}

// hydrateAttachment fetches the first PDF attachment, verifies it parses
// as a PDF, and archives it to blob storage. Failures are logged and the
// workflow proceeds on the email body alone.
func (m *Module) hydrateAttachment(ctx context.Context, in *Inbound, st *workflow.State) {
	att := in.PDFAttachment()
	if att == nil {
		return
	}

	st.AttachmentName = att.Filename

	data, err := m.source.FetchAttachment(ctx, in.MessageID, att.AttachmentID)
	if err != nil {
		m.logger.Warn("attachment fetch failed", "message_id", in.MessageID, "attachment", att.Filename, "error", err)
		st.LogAction("attachment fetch failed: %v", err)
		return
	}

	pageCount, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		m.logger.Warn("attachment is not a readable pdf", "attachment", att.Filename, "error", err)
		st.LogAction("attachment %s rejected: %v", att.Filename, err)
		return
	}

	st.AttachmentData = data
	st.LogAction("attachment %s accepted (%d pages)", att.Filename, pageCount)

	key := fmt.Sprintf("%s/%s", st.RunID, att.Filename)
	if err := m.storage.Upload(ctx, key, bytes.NewReader(data), "application/pdf"); err != nil {
		m.logger.Warn("attachment archive failed", "key", key, "error", err)
		st.LogAction("attachment archive failed: %v", err)
		return
	}

	st.AttachmentKey = key
}
