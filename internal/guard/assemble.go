package guard

import (
	"fmt"
	"strings"
)

// Assemble wraps the merged history with the boundary system messages and
// applies the history cap. Both system messages are always present, even
// when their text is empty, so the outbound shape stays stable for anything
// inspecting the transport payload. limit is the already-resolved history
// cap and must be positive; truncation drops the oldest messages first and
// never touches the boundaries. Assistant label annotations are rendered
// here, after truncation, so a label and its content survive or drop
// together.
func Assemble(prefix string, merged []Merged, suffix string, limit int) (*StructuredRequest, error) {
	if limit <= 0 {
		return nil, &ConfigurationError{Msg: fmt.Sprintf("history cap %d: must be positive", limit)}
	}
	if len(merged) > limit {
		merged = merged[len(merged)-limit:]
	}

	msgs := make([]Message, 0, len(merged)+2)
	msgs = append(msgs, Message{Role: RoleSystem, Content: prefix})
	for _, m := range merged {
		if len(m.Labels) > 0 {
			msgs = append(msgs, Message{Role: RoleUser, Content: strings.Join(m.Labels, "\n")})
		}
		msgs = append(msgs, Message{Role: m.Role, Content: strings.Join(m.Lines, "\n")})
	}
	msgs = append(msgs, Message{Role: RoleSystem, Content: suffix})
	return &StructuredRequest{Messages: msgs}, nil
}
