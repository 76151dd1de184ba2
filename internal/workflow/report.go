package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// ReportNode returns the terminal stage. Unlike the other stages it runs
// unconditionally, resolving the final status even for runs that errored
// or were classified as non-orders.
func ReportNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		st, err := intakeState(s)
		if err != nil {
			return s, fmt.Errorf("%s: %w", StageReport, err)
		}

		st.Trajectory = append(st.Trajectory, StageReport)
		st.FinalStatus = finalStatus(st)
		st.LogAction("run finished with status %s", st.FinalStatus)

		rt.Logger.InfoContext(
			ctx, "report stage complete",
			"run_id", st.RunID,
			"final_status", st.FinalStatus,
			"email_sent", st.ConfirmationSent || st.MissingInfoSent,
			"row_appended", st.RowAppended,
		)

		return s.Set(KeyIntakeState, st), nil
	})
}
