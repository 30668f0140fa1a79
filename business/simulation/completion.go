package simulation

import (
	"fmt"

	"shopsim/pkg/logger"

	"github.com/pobyzaarif/goshortcute"
)

// CompletionCoder mints the opaque code shown on the done page, so an external
// survey can validate that a purchase really happened. A nil coder (empty key)
// disables codes.
type CompletionCoder struct {
	key []byte
}

// NewCompletionCoder returns nil when the key is empty.
func NewCompletionCoder(key string) *CompletionCoder {
	if key == "" {
		return nil
	}
	return &CompletionCoder{key: []byte(key)}
}

// Encode seals the session id, purchased id and reward into a portable code.
func (c *CompletionCoder) Encode(sessionID, asin string, reward float64) string {
	payload := fmt.Sprintf("%s|%s|%.4f", sessionID, asin, reward)
	encrypted, err := goshortcute.AESCBCEncrypt([]byte(payload), c.key)
	if err != nil {
		logger.Error("failed to mint completion code", err, "session_id", sessionID)
		return ""
	}
	return goshortcute.StringtoBase64Encode(encrypted)
}

// Decode reverses Encode; used by the admin validation endpoint.
func (c *CompletionCoder) Decode(code string) (string, error) {
	decoded := goshortcute.StringtoBase64Decode(code)
	payload, err := goshortcute.AESCBCDecrypt([]byte(decoded), c.key)
	if err != nil {
		return "", fmt.Errorf("invalid completion code: %w", err)
	}
	return payload, nil
}
