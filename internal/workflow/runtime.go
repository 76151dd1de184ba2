package workflow

import (
	"log/slog"

	"github.com/albmartin/po-intake/internal/prompts"
)

// Runtime bundles the dependencies the workflow stages require.
// It is constructed by higher-level composition code from the
// configured capability set.
type Runtime struct {
	Classifier Classifier
	Extractor  FieldExtractor
	Generator  TextGenerator
	OCR        TextExtractor
	Email      EmailSender
	Rows       RowAppender
	Prompts    prompts.System
	Validator  Validator

	SpreadsheetID string
	SheetName     string

	Logger *slog.Logger
}
