package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// ExtractNode returns the stage that recovers the canonical order fields
// from the email body and any PDF attachment. Attachment text is pulled
// through the OCR capability before extraction so handwritten or scanned
// orders contribute fields alongside the body text.
func ExtractNode(rt *Runtime) state.StateNode {
	return stageNode(StageExtract, rt, true, extract)
}

func extract(ctx context.Context, rt *Runtime, st State) (State, error) {
	text := st.Body

	if len(st.AttachmentData) > 0 {
		attachmentText, err := rt.OCR.ExtractText(ctx, st.AttachmentData)
		if err != nil {
			return st, fmt.Errorf("attachment text: %w", err)
		}
		st.AttachmentText = attachmentText
		text = text + "\n\n" + attachmentText
		st.LogAction("transcribed attachment %s (%d bytes)", st.AttachmentName, len(st.AttachmentData))
	}

	result, err := rt.Extractor.Extract(ctx, text)
	if err != nil {
		return st, err
	}

	st.Fields = result.Fields
	st.Confidences = result.Confidences
	st.ExtractionWarnings = result.Warnings

	// the classifier's PO identifier wins; extraction fills it in only
	// when classification did not produce one
	if st.POID == "" {
		st.POID = result.Fields[FieldOrderID]
	}

	st.LogAction("extracted %d of %d fields", len(result.Fields), len(FieldNames))
	for _, warning := range result.Warnings {
		st.LogAction("extraction warning: %s", warning)
	}

	rt.Logger.InfoContext(
		ctx, "extract stage complete",
		"run_id", st.RunID,
		"field_count", len(result.Fields),
	)

	return st, nil
}
