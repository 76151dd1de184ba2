package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// KeyIntakeState is the graph state bag key holding the intake State.
const KeyIntakeState = "intake_state"

// stageFunc is the body of a workflow stage. It receives the state with
// the stage name already appended to the trajectory and returns the
// updated state, or an error to be contained.
type stageFunc func(ctx context.Context, rt *Runtime, st State) (State, error)

// stageNode wraps a stage body in the shared stage contract:
//   - invocation always appends the stage name to the trajectory
//   - a prior error short-circuits the stage (trajectory entry only)
//   - when requiresValid is set, an invalid run short-circuits the same way
//   - a panic or error from the body is contained in ErrorMessage rather
//     than aborting the graph, so the run always reaches report
func stageNode(name string, rt *Runtime, requiresValid bool, fn stageFunc) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		st, err := intakeState(s)
		if err != nil {
			return s, fmt.Errorf("%s: %w", name, err)
		}

		next := runStage(ctx, name, rt, st, requiresValid, fn)
		return s.Set(KeyIntakeState, next), nil
	})
}

func runStage(ctx context.Context, name string, rt *Runtime, st State, requiresValid bool, fn stageFunc) (out State) {
	st.Trajectory = append(st.Trajectory, name)
	out = st

	if st.ErrorMessage != "" {
		return out
	}
	if requiresValid && !st.IsValidPO {
		rt.Logger.InfoContext(ctx, "stage declined", "stage", name, "reason", "not a valid purchase order")
		return out
	}

	defer func() {
		if r := recover(); r != nil {
			st.ErrorMessage = containedError(name, fmt.Errorf("%v", r))
			out = st
			rt.Logger.ErrorContext(ctx, "stage panicked", "stage", name, "error", st.ErrorMessage)
		}
	}()

	next, err := fn(ctx, rt, st)
	if err != nil {
		st.ErrorMessage = containedError(name, err)
		out = st
		rt.Logger.ErrorContext(ctx, "stage failed", "stage", name, "error", st.ErrorMessage)
		return out
	}

	return next
}

func containedError(name string, cause error) string {
	return fmt.Sprintf("%sNode failed: %v", stageTitle(name), cause)
}

func stageTitle(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func intakeState(s state.State) (State, error) {
	val, ok := s.Get(KeyIntakeState)
	if !ok {
		return State{}, ErrStateMissing
	}

	st, ok := val.(State)
	if !ok {
		return State{}, fmt.Errorf("%w: unexpected type %T", ErrStateMissing, val)
	}

	return st, nil
}
