package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Hash domains. Changing the encoding of either bumps its version.
const (
	DomainScenario = "moneytck/scenario/v1"
	DomainReport   = "moneytck/report/v1"
)

// sum returns hex SHA-256 of domain, a zero byte and data.
func sum(domain string, data []byte) string {
	h := sha256.New()
	h.Write(append([]byte(domain), 0))
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ScenarioID computes the stable ID of one scenario: a check and the
// dimension values it was enumerated with. The ID does not depend on
// enumeration order.
func ScenarioID(checkID string, dims map[string]string) (string, error) {
	canonical, err := MarshalCanonical(map[string]any{
		"check": checkID,
		"dims":  dims,
	})
	if err != nil {
		return "", fmt.Errorf("ScenarioID: failed to marshal: %w", err)
	}
	return sum(DomainScenario, canonical)[:16], nil
}

// Digest hashes a canonical report body.
func Digest(body map[string]any) (string, error) {
	canonical, err := MarshalCanonical(body)
	if err != nil {
		return "", fmt.Errorf("Digest: failed to marshal: %w", err)
	}
	return sum(DomainReport, canonical), nil
}
