package workflow

import (
	"context"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// ClassifyNode returns the stage that decides whether the inbound email
// is a valid purchase order and captures the PO identifier when the
// classifier recognizes one.
func ClassifyNode(rt *Runtime) state.StateNode {
	return stageNode(StageClassify, rt, false, classify)
}

func classify(ctx context.Context, rt *Runtime, st State) (State, error) {
	result, err := rt.Classifier.Classify(ctx, ClassifyInput{
		Sender:         st.Sender,
		Subject:        st.Subject,
		Body:           st.Body,
		HasAttachment:  st.HasAttachment(),
		AttachmentName: st.AttachmentName,
	})
	if err != nil {
		return st, err
	}

	st.IsValidPO = result.IsValidPO
	st.Reason = result.Reason
	if result.POID != nil && *result.POID != "" {
		st.POID = *result.POID
	}

	if st.IsValidPO {
		st.LogAction("classified as purchase order (po_id=%s)", st.POID)
	} else {
		st.LogAction("classified as non-order email: %s", st.Reason)
	}

	rt.Logger.InfoContext(
		ctx, "classify stage complete",
		"run_id", st.RunID,
		"is_valid_po", st.IsValidPO,
		"po_id", st.POID,
	)

	return st, nil
}
