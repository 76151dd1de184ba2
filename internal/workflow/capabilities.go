package workflow

import "context"

// ClassifyInput is the email content presented to the classifier.
type ClassifyInput struct {
	Sender         string
	Subject        string
	Body           string
	HasAttachment  bool
	AttachmentName string
}

// Classification is the classifier's verdict on an inbound email.
type Classification struct {
	IsValidPO bool    `json:"is_valid_po"`
	POID      *string `json:"po_id"`
	Reason    string  `json:"reason"`
}

// Extraction is the structured result of pulling order fields from text.
type Extraction struct {
	Fields      map[string]string
	Confidences map[string]float64
	Warnings    []string
}

// Email is an outbound message.
type Email struct {
	To       string
	Subject  string
	Body     string
	HTML     bool
	ThreadID string
}

// Classifier decides whether an inbound email is a purchase order.
type Classifier interface {
	Classify(ctx context.Context, in ClassifyInput) (Classification, error)
}

// FieldExtractor pulls the canonical order fields from source text.
type FieldExtractor interface {
	Extract(ctx context.Context, text string) (Extraction, error)
}

// TextGenerator produces free-form text for a prompt, used to draft
// notification email bodies.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// TextExtractor recovers text content from a PDF attachment.
type TextExtractor interface {
	ExtractText(ctx context.Context, pdf []byte) (string, error)
}

// EmailSender delivers outbound email.
type EmailSender interface {
	Send(ctx context.Context, email Email) error
}

// RowAppender appends a row to a tracking spreadsheet.
type RowAppender interface {
	AppendRow(ctx context.Context, spreadsheetID, sheetName string, row []string) error
}
