package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// Signature header names for inbound webhook deliveries.
const (
	HeaderWebhookID        = "webhook-id"
	HeaderWebhookTimestamp = "webhook-timestamp"
	HeaderWebhookSignature = "webhook-signature"
)

var (
	ErrMissingSignature = errors.New("missing webhook signature headers")
	ErrBadSignature     = errors.New("webhook signature mismatch")
)

// VerifySignature checks the delivery against a shared secret. The
// signed content is "<id>.<timestamp>.<body>" and the signature header
// carries one or more space-separated "v1,<hex digest>" entries; any
// matching entry accepts the delivery.
func VerifySignature(secret, id, timestamp string, body []byte, signature string) error {
	if id == "" || timestamp == "" || signature == "" {
		return ErrMissingSignature
	}

	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%s.%s.", id, timestamp)
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, entry := range strings.Fields(signature) {
		version, digest, ok := strings.Cut(entry, ",")
		if !ok || version != "v1" {
			continue
		}
		if hmac.Equal([]byte(digest), []byte(expected)) {
			return nil
		}
	}

	return ErrBadSignature
}
