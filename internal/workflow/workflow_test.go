package workflow

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/albmartin/po-intake/internal/prompts"
)

var errSentinel = errors.New("boom")

// stubCapabilities implements every workflow capability with canned
// results and captured side effects.
type stubCapabilities struct {
	mu sync.Mutex

	classification Classification
	classifyErr    error
	classifyPanic  bool

	extraction Extraction
	extractErr error

	generated   string
	generateErr error

	ocrText string
	ocrErr  error

	sendErr error
	emails  []Email

	appendErr error
	rows      [][]string
}

func (c *stubCapabilities) Classify(ctx context.Context, in ClassifyInput) (Classification, error) {
	if c.classifyPanic {
		panic("classifier exploded")
	}
	return c.classification, c.classifyErr
}

func (c *stubCapabilities) Extract(ctx context.Context, text string) (Extraction, error) {
	return c.extraction, c.extractErr
}

func (c *stubCapabilities) Generate(ctx context.Context, prompt string) (string, error) {
	return c.generated, c.generateErr
}

func (c *stubCapabilities) ExtractText(ctx context.Context, pdf []byte) (string, error) {
	return c.ocrText, c.ocrErr
}

func (c *stubCapabilities) Send(ctx context.Context, email Email) error {
	if c.sendErr != nil {
		return c.sendErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.emails = append(c.emails, email)
	return nil
}

func (c *stubCapabilities) AppendRow(ctx context.Context, spreadsheetID, sheetName string, row []string) error {
	if c.appendErr != nil {
		return c.appendErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows = append(c.rows, row)
	return nil
}

func testPrompts(t *testing.T) prompts.System {
	t.Helper()

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "en"), 0755); err != nil {
		t.Fatal(err)
	}

	notify := `missing_info:
  params: [po_id, customer, missing_fields]
  template: "Request {missing_fields} for {po_id} from {customer}"
confirmation:
  params: [po_id, customer]
  template: "Confirm {po_id} for {customer}"
`
	if err := os.WriteFile(filepath.Join(dir, "en", "notify.yaml"), []byte(notify), 0644); err != nil {
		t.Fatal(err)
	}

	return prompts.NewLocal(dir, "en", "en")
}

func testRuntime(t *testing.T, stub *stubCapabilities) *Runtime {
	t.Helper()

	return &Runtime{
		Classifier:    stub,
		Extractor:     stub,
		Generator:     stub,
		OCR:           stub,
		Email:         stub,
		Rows:          stub,
		Prompts:       testPrompts(t),
		Validator:     Validator{Threshold: 0.5},
		SpreadsheetID: "sheet-1",
		SheetName:     "Sheet1",
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func validOrderStub() *stubCapabilities {
	poID := "PO-1001"
	return &stubCapabilities{
		classification: Classification{IsValidPO: true, POID: &poID, Reason: "order request"},
		extraction: Extraction{
			Fields:      completeFields(),
			Confidences: completeConfidences(0.9),
		},
		generated: "drafted body",
	}
}

func inboundState() State {
	return State{
		Sender:    "ops@acme.example",
		Subject:   "New purchase order",
		Body:      "Please schedule PO-1001",
		MessageID: "msg-1",
		ThreadID:  "thread-9",
	}
}

func TestRunValidOrder(t *testing.T) {
	stub := validOrderStub()
	final, err := Run(context.Background(), testRuntime(t, stub), inboundState())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	wantTrajectory := []string{
		StageClassify, StageExtract, StageValidate,
		StageTrack, StageNotify, StageReport,
	}
	if !reflect.DeepEqual(final.Trajectory, wantTrajectory) {
		t.Errorf("trajectory = %v, want %v", final.Trajectory, wantTrajectory)
	}
	if final.FinalStatus != StatusCompleted {
		t.Errorf("final status = %s, want %s", final.FinalStatus, StatusCompleted)
	}
	if !final.RowAppended || len(stub.rows) != 1 {
		t.Fatalf("expected one appended row, got %d", len(stub.rows))
	}
	if stub.rows[0][len(stub.rows[0])-1] != RowStatusComplete {
		t.Errorf("row status = %s, want complete", stub.rows[0][len(stub.rows[0])-1])
	}
	if !final.ConfirmationSent || len(stub.emails) != 1 {
		t.Fatalf("expected one confirmation email, got %d", len(stub.emails))
	}
	if final.MissingInfoSent {
		t.Error("missing-info flag should not be set on a complete order")
	}
	if stub.emails[0].Subject != "Order Confirmation: PO-1001" {
		t.Errorf("email subject = %q", stub.emails[0].Subject)
	}
	if stub.emails[0].To != "ops@acme.example" {
		t.Errorf("email to = %q", stub.emails[0].To)
	}
	if stub.emails[0].ThreadID != "thread-9" {
		t.Errorf("email thread id = %q, want the inbound thread", stub.emails[0].ThreadID)
	}
}

func TestRunCarriesExtractionWarnings(t *testing.T) {
	stub := validOrderStub()
	stub.extraction.Warnings = []string{"delivery_datetime parsed from free text"}

	final, err := Run(context.Background(), testRuntime(t, stub), inboundState())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := []string{"delivery_datetime parsed from free text"}
	if !reflect.DeepEqual(final.ExtractionWarnings, want) {
		t.Errorf("extraction warnings = %v, want %v", final.ExtractionWarnings, want)
	}
}

func TestRunMissingFieldSkipsTracking(t *testing.T) {
	stub := validOrderStub()
	delete(stub.extraction.Fields, FieldDriverPhone)

	final, err := Run(context.Background(), testRuntime(t, stub), inboundState())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	wantTrajectory := []string{
		StageClassify, StageExtract, StageValidate,
		StageNotify, StageReport,
	}
	if !reflect.DeepEqual(final.Trajectory, wantTrajectory) {
		t.Errorf("trajectory = %v, want %v", final.Trajectory, wantTrajectory)
	}
	if final.FinalStatus != StatusMissingInfo {
		t.Errorf("final status = %s, want %s", final.FinalStatus, StatusMissingInfo)
	}
	if final.RowAppended || len(stub.rows) != 0 {
		t.Error("tracking row should not be appended for incomplete orders")
	}
	if !final.MissingInfoSent || len(stub.emails) != 1 {
		t.Fatalf("expected one missing-info email, got %d", len(stub.emails))
	}
	if final.ConfirmationSent {
		t.Error("confirmation flag should not be set on an incomplete order")
	}
	if stub.emails[0].Subject != "Action Required: Missing info for PO-1001" {
		t.Errorf("email subject = %q", stub.emails[0].Subject)
	}
	if !reflect.DeepEqual(final.MissingFields, []string{FieldDriverPhone}) {
		t.Errorf("missing fields = %v", final.MissingFields)
	}
}

func TestRunNonOrderGoesStraightToReport(t *testing.T) {
	stub := &stubCapabilities{
		classification: Classification{IsValidPO: false, Reason: "newsletter"},
	}

	final, err := Run(context.Background(), testRuntime(t, stub), inboundState())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	wantTrajectory := []string{StageClassify, StageReport}
	if !reflect.DeepEqual(final.Trajectory, wantTrajectory) {
		t.Errorf("trajectory = %v, want %v", final.Trajectory, wantTrajectory)
	}
	if final.FinalStatus != StatusSkipped {
		t.Errorf("final status = %s, want %s", final.FinalStatus, StatusSkipped)
	}
	if len(stub.emails) != 0 || len(stub.rows) != 0 {
		t.Error("non-orders must produce no side effects")
	}
}

func TestRunExtractFailureReachesReport(t *testing.T) {
	stub := validOrderStub()
	stub.extractErr = errSentinel

	final, err := Run(context.Background(), testRuntime(t, stub), inboundState())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	wantTrajectory := []string{
		StageClassify, StageExtract, StageValidate,
		StageTrack, StageNotify, StageReport,
	}
	if !reflect.DeepEqual(final.Trajectory, wantTrajectory) {
		t.Errorf("trajectory = %v, want %v", final.Trajectory, wantTrajectory)
	}
	if final.FinalStatus != StatusError {
		t.Errorf("final status = %s, want %s", final.FinalStatus, StatusError)
	}
	if final.ErrorMessage != "ExtractNode failed: boom" {
		t.Errorf("error message = %q", final.ErrorMessage)
	}
	if len(stub.emails) != 0 || len(stub.rows) != 0 {
		t.Error("stages after a failure must not perform side effects")
	}
}

func TestRunClassifyPanicIsContained(t *testing.T) {
	stub := &stubCapabilities{classifyPanic: true}

	final, err := Run(context.Background(), testRuntime(t, stub), inboundState())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	wantTrajectory := []string{StageClassify, StageReport}
	if !reflect.DeepEqual(final.Trajectory, wantTrajectory) {
		t.Errorf("trajectory = %v, want %v", final.Trajectory, wantTrajectory)
	}
	if final.FinalStatus != StatusError {
		t.Errorf("final status = %s, want %s", final.FinalStatus, StatusError)
	}
	if !strings.HasPrefix(final.ErrorMessage, "ClassifyNode failed: ") {
		t.Errorf("error message = %q", final.ErrorMessage)
	}
}

func TestRunTrackFailureStillNotifiesNothing(t *testing.T) {
	stub := validOrderStub()
	stub.appendErr = errSentinel

	final, err := Run(context.Background(), testRuntime(t, stub), inboundState())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if final.FinalStatus != StatusError {
		t.Errorf("final status = %s, want %s", final.FinalStatus, StatusError)
	}
	if final.ErrorMessage != "TrackNode failed: boom" {
		t.Errorf("error message = %q", final.ErrorMessage)
	}
	if len(stub.emails) != 0 {
		t.Error("notify must decline after a tracking failure")
	}

	wantTrajectory := []string{
		StageClassify, StageExtract, StageValidate,
		StageTrack, StageNotify, StageReport,
	}
	if !reflect.DeepEqual(final.Trajectory, wantTrajectory) {
		t.Errorf("trajectory = %v, want %v", final.Trajectory, wantTrajectory)
	}
}

func TestRunStageContract(t *testing.T) {
	rt := testRuntime(t, &stubCapabilities{})
	ctx := context.Background()

	t.Run("prior error short-circuits", func(t *testing.T) {
		ran := false
		st := State{ErrorMessage: "ClassifyNode failed: boom", IsValidPO: true}
		out := runStage(ctx, StageTrack, rt, st, true, func(ctx context.Context, rt *Runtime, st State) (State, error) {
			ran = true
			return st, nil
		})
		if ran {
			t.Error("stage body must not run after a prior error")
		}
		if !reflect.DeepEqual(out.Trajectory, []string{StageTrack}) {
			t.Errorf("trajectory = %v", out.Trajectory)
		}
	})

	t.Run("invalid run declines guarded stages", func(t *testing.T) {
		ran := false
		out := runStage(ctx, StageNotify, rt, State{}, true, func(ctx context.Context, rt *Runtime, st State) (State, error) {
			ran = true
			return st, nil
		})
		if ran {
			t.Error("guarded stage must decline invalid runs")
		}
		if out.ErrorMessage != "" {
			t.Errorf("unexpected error: %s", out.ErrorMessage)
		}
	})

	t.Run("body error is contained", func(t *testing.T) {
		out := runStage(ctx, StageValidate, rt, State{IsValidPO: true}, false, func(ctx context.Context, rt *Runtime, st State) (State, error) {
			return st, errSentinel
		})
		if out.ErrorMessage != "ValidateNode failed: boom" {
			t.Errorf("error message = %q", out.ErrorMessage)
		}
	})

	t.Run("panic is contained", func(t *testing.T) {
		out := runStage(ctx, StageExtract, rt, State{IsValidPO: true}, true, func(ctx context.Context, rt *Runtime, st State) (State, error) {
			panic("kaboom")
		})
		if out.ErrorMessage != "ExtractNode failed: kaboom" {
			t.Errorf("error message = %q", out.ErrorMessage)
		}
		if !reflect.DeepEqual(out.Trajectory, []string{StageExtract}) {
			t.Errorf("trajectory = %v", out.Trajectory)
		}
	})
}
