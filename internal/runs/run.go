// Package runs implements the intake run domain: persisted records of
// every workflow execution, queryable for auditing and operational review.
package runs

import (
	"time"

	"github.com/google/uuid"

	"github.com/albmartin/po-intake/internal/workflow"
)

// Run is a persisted workflow execution. It mirrors the runs table
// schema, with the collection-valued workflow outputs stored as JSONB.
type Run struct {
	ID        uuid.UUID `json:"id"`
	MessageID string    `json:"message_id"`
	Sender    string    `json:"sender"`
	Subject   string    `json:"subject"`

	IsValidPO bool   `json:"is_valid_po"`
	POID      string `json:"po_id,omitempty"`

	FinalStatus  workflow.Status `json:"final_status"`
	ErrorMessage string          `json:"error_message,omitempty"`

	Fields             map[string]string  `json:"fields,omitempty"`
	Confidences        map[string]float64 `json:"confidences,omitempty"`
	ExtractionWarnings []string           `json:"extraction_warnings"`
	MissingFields      []string           `json:"missing_fields"`
	Trajectory         []string           `json:"trajectory"`
	ActionsLog         []string           `json:"actions_log"`

	ConfirmationSent bool   `json:"confirmation_sent"`
	MissingInfoSent  bool   `json:"missing_info_sent"`
	RowAppended      bool   `json:"row_appended"`
	AttachmentKey    string `json:"attachment_key,omitempty"`

	ReceivedAt  time.Time `json:"received_at"`
	CompletedAt time.Time `json:"completed_at"`
}
