package capabilities

import (
	"context"
	"fmt"
	"sync"

	"github.com/albmartin/po-intake/internal/workflow"
)

// Recorder is an in-memory capability set for local development and
// tests. It returns configured fixtures and records every side effect
// instead of performing it. Safe for concurrent use.
type Recorder struct {
	mu sync.Mutex

	// Fixtures returned by the read-side capabilities.
	Classification workflow.Classification
	Extraction     workflow.Extraction
	GeneratedText  string
	ExtractedText  string
	Messages       map[string]Message
	Attachments    map[string][]byte

	// Side effects captured by the write-side capabilities.
	Emails []workflow.Email
	Rows   [][]string
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		Messages:    make(map[string]Message),
		Attachments: make(map[string][]byte),
	}
}

func (r *Recorder) Classify(ctx context.Context, in workflow.ClassifyInput) (workflow.Classification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Classification, nil
}

func (r *Recorder) Extract(ctx context.Context, text string) (workflow.Extraction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Extraction, nil
}

func (r *Recorder) Generate(ctx context.Context, prompt string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.GeneratedText, nil
}

func (r *Recorder) ExtractText(ctx context.Context, pdf []byte) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ExtractedText, nil
}

func (r *Recorder) Send(ctx context.Context, email workflow.Email) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Emails = append(r.Emails, email)
	return nil
}

func (r *Recorder) AppendRow(ctx context.Context, spreadsheetID, sheetName string, row []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Rows = append(r.Rows, row)
	return nil
}

func (r *Recorder) FetchMessage(ctx context.Context, messageID string) (Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg, ok := r.Messages[messageID]
	if !ok {
		return Message{}, fmt.Errorf("message %s not found", messageID)
	}
	return msg, nil
}

func (r *Recorder) FetchAttachment(ctx context.Context, messageID, attachmentID string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, ok := r.Attachments[attachmentID]
	if !ok {
		return nil, fmt.Errorf("attachment %s not found", attachmentID)
	}
	return data, nil
}
