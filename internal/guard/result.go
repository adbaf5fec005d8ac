package guard

// Role tags one outbound chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one role-tagged message of the outbound request.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// StructuredRequest is the reconstructed outbound request: exactly one
// leading system message, the history in between, exactly one trailing
// system message. It always holds at least the two boundary messages.
type StructuredRequest struct {
	Messages []Message `json:"messages"`
}

// Reason says why a request was not structured.
type Reason string

const (
	ReasonNotActivated    Reason = "not_activated"
	ReasonDisabled        Reason = "plugin_disabled"
	ReasonPathDisabled    Reason = "path_disabled"
	ReasonRewriteDisabled Reason = "rewrite_disabled"
	ReasonSegmentation    Reason = "segmentation_error"
	ReasonIdentity        Reason = "identity_error"
	ReasonConfiguration   Reason = "configuration_error"

	// ReasonUnavailable is emitted by the hook bridge, not the controller,
	// when the guard server cannot be reached.
	ReasonUnavailable Reason = "guard_unavailable"
)

// Fallback carries the untouched original prompt plus the diagnostic reason
// the structured path was not taken. The prompt is returned, never logged.
type Fallback struct {
	Reason Reason `json:"reason"`
	Detail string `json:"detail,omitempty"`
	Prompt string `json:"prompt"`
}

// Result is the outcome of one guard call; exactly one of Structured or
// Fallback is set.
type Result struct {
	Structured *StructuredRequest
	Fallback   *Fallback
}

// IsFallback reports whether the request fell back to the original prompt.
func (r *Result) IsFallback() bool {
	return r.Fallback != nil
}
