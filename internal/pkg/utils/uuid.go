package utils

import (
	"crypto/rand"
	"fmt"
	"strings"
)

// GenerateUUID returns a random v4 UUID string. internal/core/orchestrator
// takes its run IDs from internal/pkg/runid (github.com/google/uuid), not
// from this function.
func GenerateUUID() (string, error) {
	id := make([]byte, 16)
	if _, err := rand.Read(id); err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	id[6] = (id[6] & 0x0f) | 0x40
	id[8] = (id[8] & 0x3f) | 0x80
	return fmt.Sprintf("%08x-%04x-%04x-%04x-%012x",
		id[0:4], id[4:6], id[6:8], id[8:10], id[10:16]), nil
}

// ShortUUID returns the first 8 hex characters of a fresh UUID as a
// compact tag. The tag is not derived from any run ID, and no command in
// cmd/netpulse calls this function.
func ShortUUID() (string, error) {
	id, err := GenerateUUID()
	if err != nil {
		return "", err
	}
	id = strings.ReplaceAll(id, "-", "")
	return id[:8], nil
}
