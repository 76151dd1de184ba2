package workflow

import (
	"context"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// Sheet row status values.
const (
	RowStatusComplete    = "complete"
	RowStatusPendingInfo = "pending_info"
)

// TrackNode returns the stage that appends the order to the tracking
// spreadsheet.
func TrackNode(rt *Runtime) state.StateNode {
	return stageNode(StageTrack, rt, true, track)
}

func track(ctx context.Context, rt *Runtime, st State) (State, error) {
	row := SheetRow(st)

	if err := rt.Rows.AppendRow(ctx, rt.SpreadsheetID, rt.SheetName, row); err != nil {
		return st, err
	}

	st.RowAppended = true
	st.LogAction("appended tracking row for %s (%s)", st.POID, row[len(row)-1])

	rt.Logger.InfoContext(
		ctx, "track stage complete",
		"run_id", st.RunID,
		"po_id", st.POID,
	)

	return st, nil
}

// SheetRow projects the run into a tracking row: the PO identifier, the
// six remaining canonical fields, and the row status.
func SheetRow(st State) []string {
	status := RowStatusComplete
	if len(st.MissingFields) > 0 {
		status = RowStatusPendingInfo
	}

	row := make([]string, 0, len(FieldNames)+1)
	row = append(row, st.POID)
	for _, name := range FieldNames[1:] {
		row = append(row, st.Fields[name])
	}
	row = append(row, status)

	return row
}
