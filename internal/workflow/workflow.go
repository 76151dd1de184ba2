// Package workflow implements the purchase order intake state machine:
// classify → extract → validate → track → notify → report, with
// conditional edges routing non-orders straight to report and runs with
// missing information past tracking to the notification stage.
package workflow

import (
	"context"
	"fmt"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// Run executes the intake workflow for a single inbound email, returning
// the final state. Stage failures are contained within the state (the
// run reaches report with an error status); the returned error covers
// graph construction and execution faults only.
func Run(ctx context.Context, rt *Runtime, initial State) (State, error) {
	graph, err := buildGraph(rt)
	if err != nil {
		return State{}, fmt.Errorf("build graph: %w", err)
	}

	s := state.New(nil)
	s = s.Set(KeyIntakeState, initial)

	final, err := graph.Execute(ctx, s)
	if err != nil {
		return State{}, fmt.Errorf("execute graph: %w", err)
	}

	return intakeState(final)
}

func buildGraph(rt *Runtime) (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("po-intake")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	nodes := map[string]state.StateNode{
		StageClassify: ClassifyNode(rt),
		StageExtract:  ExtractNode(rt),
		StageValidate: ValidateNode(rt),
		StageTrack:    TrackNode(rt),
		StageNotify:   NotifyNode(rt),
		StageReport:   ReportNode(rt),
	}

	for name, node := range nodes {
		if err := graph.AddNode(name, node); err != nil {
			return nil, err
		}
	}

	// classify → extract (valid order) | report (anything else)
	if err := graph.AddEdge(StageClassify, StageExtract, isValidPO); err != nil {
		return nil, err
	}
	if err := graph.AddEdge(StageClassify, StageReport, state.Not(isValidPO)); err != nil {
		return nil, err
	}

	// extract → validate (unconditional)
	if err := graph.AddEdge(StageExtract, StageValidate, nil); err != nil {
		return nil, err
	}

	// validate → track (complete) | notify (missing info, skipping track)
	if err := graph.AddEdge(StageValidate, StageTrack, state.Not(hasMissingFields)); err != nil {
		return nil, err
	}
	if err := graph.AddEdge(StageValidate, StageNotify, hasMissingFields); err != nil {
		return nil, err
	}

	// track → notify → report (unconditional)
	if err := graph.AddEdge(StageTrack, StageNotify, nil); err != nil {
		return nil, err
	}
	if err := graph.AddEdge(StageNotify, StageReport, nil); err != nil {
		return nil, err
	}

	if err := graph.SetEntryPoint(StageClassify); err != nil {
		return nil, err
	}
	if err := graph.SetExitPoint(StageReport); err != nil {
		return nil, err
	}

	return graph, nil
}

func isValidPO(s state.State) bool {
	st, err := intakeState(s)
	if err != nil {
		return false
	}
	return st.IsValidPO
}

func hasMissingFields(s state.State) bool {
	st, err := intakeState(s)
	if err != nil {
		return false
	}
	return len(st.MissingFields) > 0
}
