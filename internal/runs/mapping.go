package runs

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/albmartin/po-intake/pkg/query"
	"github.com/albmartin/po-intake/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "runs", "r").
	Project("id", "ID").
	Project("message_id", "MessageID").
	Project("sender", "Sender").
	Project("subject", "Subject").
	Project("is_valid_po", "IsValidPO").
	Project("po_id", "POID").
	Project("final_status", "FinalStatus").
	Project("error_message", "ErrorMessage").
	Project("fields", "Fields").
	Project("confidences", "Confidences").
	Project("extraction_warnings", "ExtractionWarnings").
	Project("missing_fields", "MissingFields").
	Project("trajectory", "Trajectory").
	Project("actions_log", "ActionsLog").
	Project("confirmation_sent", "ConfirmationSent").
	Project("missing_info_sent", "MissingInfoSent").
	Project("row_appended", "RowAppended").
	Project("attachment_key", "AttachmentKey").
	Project("received_at", "ReceivedAt").
	Project("completed_at", "CompletedAt")

var defaultSort = query.SortField{
	Field:      "ReceivedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for run queries.
// Nil fields are ignored. All fields use exact matching except Sender,
// which matches as a substring.
type Filters struct {
	FinalStatus *string `json:"final_status,omitempty"`
	POID        *string `json:"po_id,omitempty"`
	Sender      *string `json:"sender,omitempty"`
	IsValidPO   *bool   `json:"is_valid_po,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("FinalStatus", f.FinalStatus).
		WhereEquals("POID", f.POID).
		WhereContains("Sender", f.Sender).
		WhereEquals("IsValidPO", f.IsValidPO)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("final_status"); s != "" {
		f.FinalStatus = &s
	}

	if p := values.Get("po_id"); p != "" {
		f.POID = &p
	}

	if s := values.Get("sender"); s != "" {
		f.Sender = &s
	}

	switch values.Get("is_valid_po") {
	case "true":
		valid := true
		f.IsValidPO = &valid
	case "false":
		valid := false
		f.IsValidPO = &valid
	}

	return f
}

func scanRun(s repository.Scanner) (Run, error) {
	var r Run
	var fieldsRaw, confidencesRaw, warningsRaw, missingRaw, trajectoryRaw, actionsRaw []byte

	err := s.Scan(
		&r.ID,
		&r.MessageID,
		&r.Sender,
		&r.Subject,
		&r.IsValidPO,
		&r.POID,
		&r.FinalStatus,
		&r.ErrorMessage,
		&fieldsRaw,
		&confidencesRaw,
		&warningsRaw,
		&missingRaw,
		&trajectoryRaw,
		&actionsRaw,
		&r.ConfirmationSent,
		&r.MissingInfoSent,
		&r.RowAppended,
		&r.AttachmentKey,
		&r.ReceivedAt,
		&r.CompletedAt,
	)
	if err != nil {
		return r, err
	}

	unmarshal := func(name string, raw []byte, target any) error {
		if len(raw) == 0 {
			return nil
		}
		if err := json.Unmarshal(raw, target); err != nil {
			return fmt.Errorf("unmarshal %s: %w", name, err)
		}
		return nil
	}

	if err := unmarshal("fields", fieldsRaw, &r.Fields); err != nil {
		return r, err
	}
	if err := unmarshal("confidences", confidencesRaw, &r.Confidences); err != nil {
		return r, err
	}
	if err := unmarshal("extraction_warnings", warningsRaw, &r.ExtractionWarnings); err != nil {
		return r, err
	}
	if err := unmarshal("missing_fields", missingRaw, &r.MissingFields); err != nil {
		return r, err
	}
	if err := unmarshal("trajectory", trajectoryRaw, &r.Trajectory); err != nil {
		return r, err
	}
	if err := unmarshal("actions_log", actionsRaw, &r.ActionsLog); err != nil {
		return r, err
	}

	if r.ExtractionWarnings == nil {
		r.ExtractionWarnings = []string{}
	}
	if r.MissingFields == nil {
		r.MissingFields = []string{}
	}
	if r.Trajectory == nil {
		r.Trajectory = []string{}
	}
	if r.ActionsLog == nil {
		r.ActionsLog = []string{}
	}

	return r, nil
}
