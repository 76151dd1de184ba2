package webhook

import (
	"encoding/json"
	"fmt"
	"net/mail"
	"strings"
)

// Attachment identifies a file attached to the inbound message.
type Attachment struct {
	AttachmentID string `json:"attachmentId"`
	Filename     string `json:"filename"`
	MimeType     string `json:"mimeType"`
}

// Inbound is the normalized content of a webhook delivery.
type Inbound struct {
	MessageID   string
	ThreadID    string
	Sender      string
	Subject     string
	Body        string
	Attachments []Attachment
}

// PDFAttachment returns the first PDF attachment, or nil when the
// message carries none.
func (in *Inbound) PDFAttachment() *Attachment {
	for i, att := range in.Attachments {
		if att.MimeType == "application/pdf" || strings.HasSuffix(strings.ToLower(att.Filename), ".pdf") {
			return &in.Attachments[i]
		}
	}
	return nil
}

type envelope struct {
	Type string `json:"type"`
	Data struct {
		ID             string       `json:"id"`
		MessageID      string       `json:"message_id"`
		ThreadID       string       `json:"thread_id"`
		Sender         string       `json:"sender"`
		Subject        string       `json:"subject"`
		MessageText    string       `json:"message_text"`
		AttachmentList []Attachment `json:"attachment_list"`
	} `json:"data"`
}

// ParsePayload decodes a gateway webhook envelope into an Inbound,
// reducing the sender to a bare email address when it arrives in
// "Name <address>" form.
func ParsePayload(body []byte) (*Inbound, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("parse webhook payload: %w", err)
	}

	messageID := env.Data.MessageID
	if messageID == "" {
		messageID = env.Data.ID
	}
	if messageID == "" {
		return nil, fmt.Errorf("webhook payload has no message id")
	}

	return &Inbound{
		MessageID:   messageID,
		ThreadID:    env.Data.ThreadID,
		Sender:      senderAddress(env.Data.Sender),
		Subject:     env.Data.Subject,
		Body:        env.Data.MessageText,
		Attachments: env.Data.AttachmentList,
	}, nil
}

func senderAddress(sender string) string {
	addr, err := mail.ParseAddress(sender)
	if err != nil {
		return strings.TrimSpace(sender)
	}
	return addr.Address
}
