package agents

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeStageJSON parses a generation response into a stage's output payload.
// Responses wrapped in a markdown code fence are unwrapped first; anything
// that then fails to parse is a contract violation.
func DecodeStageJSON(raw string, v any) error {
	raw = stripCodeFence(strings.TrimSpace(raw))
	if raw == "" {
		return fmt.Errorf("%w: empty response", ErrContractViolation)
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("%w: %v", ErrContractViolation, err)
	}
	return nil
}

func stripCodeFence(s string) string {
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}
