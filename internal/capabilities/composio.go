package capabilities

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/albmartin/po-intake/internal/config"
	"github.com/albmartin/po-intake/internal/workflow"
)

// Composio tool slugs used by the intake pipeline.
const (
	ToolSendEmail     = "GMAIL_SEND_EMAIL"
	ToolBatchUpdate   = "GOOGLESHEETS_BATCH_UPDATE"
	ToolGetAttachment = "GMAIL_GET_ATTACHMENT"
	ToolFetchMessage  = "GMAIL_FETCH_MESSAGE_BY_MESSAGE_ID"
)

// Message is the hydrated content of an inbound email.
type Message struct {
	Sender  string
	Subject string
	Body    string
}

// MessageSource fetches message content and attachments for a webhook
// event that carried only identifiers.
type MessageSource interface {
	FetchMessage(ctx context.Context, messageID string) (Message, error)
	FetchAttachment(ctx context.Context, messageID, attachmentID string) ([]byte, error)
}

// ComposioClient executes tools through the Composio gateway.
type ComposioClient struct {
	baseURL string
	apiKey  string
	userID  string
	http    *http.Client
	logger  *slog.Logger
}

// NewComposioClient creates a client for the configured gateway.
func NewComposioClient(cfg *config.ComposioConfig, logger *slog.Logger) *ComposioClient {
	return &ComposioClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		userID:  cfg.UserID,
		http:    &http.Client{Timeout: 60 * time.Second},
		logger:  logger.With("system", "composio"),
	}
}

type executeRequest struct {
	UserID    string         `json:"user_id"`
	Arguments map[string]any `json:"arguments"`
}

type executeResponse struct {
	Successful bool            `json:"successful"`
	Error      string          `json:"error"`
	Data       json.RawMessage `json:"data"`
}

// Execute runs a tool by slug and returns its data payload.
func (c *ComposioClient) Execute(ctx context.Context, slug string, args map[string]any) (json.RawMessage, error) {
	payload, err := json.Marshal(executeRequest{
		UserID:    c.userID,
		Arguments: args,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal %s request: %w", slug, err)
	}

	url := fmt.Sprintf("%s/tools/execute/%s", c.baseURL, slug)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", slug, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute %s: %w", slug, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", slug, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned status %d: %s", slug, resp.StatusCode, truncate(body, 256))
	}

	var result executeResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parse %s response: %w", slug, err)
	}

	if !result.Successful {
		return nil, fmt.Errorf("%s failed: %s", slug, result.Error)
	}

	c.logger.Debug("tool executed", "slug", slug)
	return result.Data, nil
}

// ComposioEmailSender delivers email through the Gmail tool.
type ComposioEmailSender struct {
	client *ComposioClient
}

// NewComposioEmailSender creates a gateway-backed email sender.
func NewComposioEmailSender(client *ComposioClient) *ComposioEmailSender {
	return &ComposioEmailSender{client: client}
}

func (s *ComposioEmailSender) Send(ctx context.Context, email workflow.Email) error {
	args := map[string]any{
		"recipient_email": email.To,
		"subject":         email.Subject,
		"body":            email.Body,
		"is_html":         email.HTML,
	}
	if email.ThreadID != "" {
		args["thread_id"] = email.ThreadID
	}

	_, err := s.client.Execute(ctx, ToolSendEmail, args)
	return err
}

// ComposioRowAppender appends tracking rows through the Sheets tool.
type ComposioRowAppender struct {
	client *ComposioClient
}

// NewComposioRowAppender creates a gateway-backed row appender.
func NewComposioRowAppender(client *ComposioClient) *ComposioRowAppender {
	return &ComposioRowAppender{client: client}
}

func (a *ComposioRowAppender) AppendRow(ctx context.Context, spreadsheetID, sheetName string, row []string) error {
	values := make([]any, len(row))
	for i, cell := range row {
		values[i] = cell
	}

	_, err := a.client.Execute(ctx, ToolBatchUpdate, map[string]any{
		"spreadsheet_id": spreadsheetID,
		"sheet_name":     sheetName,
		"values":         []any{values},
	})
	return err
}

// ComposioMessageSource hydrates messages and attachments through the
// Gmail tools.
type ComposioMessageSource struct {
	client *ComposioClient
}

// NewComposioMessageSource creates a gateway-backed message source.
func NewComposioMessageSource(client *ComposioClient) *ComposioMessageSource {
	return &ComposioMessageSource{client: client}
}

type fetchMessageData struct {
	MessageText string `json:"messageText"`
	Subject     string `json:"subject"`
	Sender      string `json:"sender"`
}

func (s *ComposioMessageSource) FetchMessage(ctx context.Context, messageID string) (Message, error) {
	data, err := s.client.Execute(ctx, ToolFetchMessage, map[string]any{
		"message_id": messageID,
		"user_id":    "me",
	})
	if err != nil {
		return Message{}, err
	}

	var parsed fetchMessageData
	if err := json.Unmarshal(data, &parsed); err != nil {
		return Message{}, fmt.Errorf("parse message data: %w", err)
	}

	return Message{
		Sender:  parsed.Sender,
		Subject: parsed.Subject,
		Body:    parsed.MessageText,
	}, nil
}

type attachmentData struct {
	Data string `json:"data"`
}

func (s *ComposioMessageSource) FetchAttachment(ctx context.Context, messageID, attachmentID string) ([]byte, error) {
	data, err := s.client.Execute(ctx, ToolGetAttachment, map[string]any{
		"message_id":    messageID,
		"attachment_id": attachmentID,
		"user_id":       "me",
	})
	if err != nil {
		return nil, err
	}

	var parsed attachmentData
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse attachment data: %w", err)
	}

	// Gmail returns base64url; some gateway versions re-encode standard
	decoded, err := base64.URLEncoding.DecodeString(parsed.Data)
	if err != nil {
		decoded, err = base64.StdEncoding.DecodeString(parsed.Data)
		if err != nil {
			return nil, fmt.Errorf("decode attachment data: %w", err)
		}
	}

	return decoded, nil
}

func truncate(b []byte, limit int) string {
	if len(b) <= limit {
		return string(b)
	}
	return string(b[:limit]) + "..."
}
