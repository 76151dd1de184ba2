package workflow

import (
	"fmt"

	"github.com/google/uuid"
)

// Status is the terminal disposition of an intake run.
type Status string

const (
	StatusCompleted   Status = "completed"
	StatusMissingInfo Status = "missing_info"
	StatusSkipped     Status = "skipped"
	StatusError       Status = "error"
)

// Stage names in graph order. Each stage appends its name to the
// trajectory when invoked, whether or not it performs work.
const (
	StageClassify = "classify"
	StageExtract  = "extract"
	StageValidate = "validate"
	StageTrack    = "track"
	StageNotify   = "notify"
	StageReport   = "report"
)

// State carries an intake run through the workflow graph. Stages receive
// a copy, mutate it, and return it; the graph holds the current value in
// its state bag under KeyIntakeState.
type State struct {
	RunID     uuid.UUID `json:"run_id"`
	Sender    string    `json:"sender"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	MessageID string    `json:"message_id"`
	ThreadID  string    `json:"thread_id,omitempty"`

	// AttachmentData holds the raw PDF bytes for the run; it is carried
	// in memory only and never serialized with the rest of the state.
	AttachmentData []byte `json:"-"`
	AttachmentName string `json:"attachment_name,omitempty"`
	AttachmentKey  string `json:"attachment_key,omitempty"`
	AttachmentText string `json:"attachment_text,omitempty"`

	IsValidPO bool   `json:"is_valid_po"`
	POID      string `json:"po_id,omitempty"`
	Reason    string `json:"reason,omitempty"`

	Fields             map[string]string  `json:"fields,omitempty"`
	Confidences        map[string]float64 `json:"confidences,omitempty"`
	ExtractionWarnings []string           `json:"extraction_warnings,omitempty"`

	MissingFields    []string `json:"missing_fields,omitempty"`
	ValidationErrors []string `json:"validation_errors,omitempty"`

	ConfirmationSent bool `json:"confirmation_sent"`
	MissingInfoSent  bool `json:"missing_info_sent"`
	RowAppended      bool `json:"row_appended"`

	FinalStatus  Status   `json:"final_status,omitempty"`
	ErrorMessage string   `json:"error_message,omitempty"`
	Trajectory   []string `json:"trajectory"`
	ActionsLog   []string `json:"actions_log,omitempty"`
}

// LogAction records a side effect (or its refusal) for audit output.
func (s *State) LogAction(format string, args ...any) {
	s.ActionsLog = append(s.ActionsLog, fmt.Sprintf(format, args...))
}

// HasAttachment reports whether the run carries attachment content.
func (s *State) HasAttachment() bool {
	return len(s.AttachmentData) > 0 || s.AttachmentName != ""
}

// finalStatus resolves the terminal disposition with error taking
// precedence over skipped, skipped over missing_info, and missing_info
// over completed.
func finalStatus(s State) Status {
	switch {
	case s.ErrorMessage != "":
		return StatusError
	case !s.IsValidPO:
		return StatusSkipped
	case len(s.MissingFields) > 0:
		return StatusMissingInfo
	default:
		return StatusCompleted
	}
}
