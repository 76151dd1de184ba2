package workflow

import (
	"context"
	"strings"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// ValidateNode returns the stage that checks the extracted fields against
// the canonical field set and records which fields still need information.
func ValidateNode(rt *Runtime) state.StateNode {
	return stageNode(StageValidate, rt, false, validate)
}

func validate(ctx context.Context, rt *Runtime, st State) (State, error) {
	issues := rt.Validator.Check(st.Fields, st.Confidences)
	st.MissingFields = MissingFields(issues)
	st.ValidationErrors = ValidationMessages(issues)

	if len(issues) > 0 {
		for _, issue := range issues {
			st.LogAction("field %s flagged: %s", issue.Field, issue.Reason)
		}
	} else {
		st.LogAction("all fields validated")
	}

	rt.Logger.InfoContext(
		ctx, "validate stage complete",
		"run_id", st.RunID,
		"missing_fields", strings.Join(st.MissingFields, ","),
	)

	return st, nil
}
