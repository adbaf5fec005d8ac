package hooks

import (
	"github.com/promptguard/promptguard/internal/guard"
	"github.com/promptguard/promptguard/internal/history"
)

// HookInput is the JSON the host shim sends on stdin to hook handlers.
// All fields are optional — lifecycle events carry none of them, generate
// carries the full request.
type HookInput struct {
	EventName string `json:"event_name,omitempty"`

	// generate
	RequestID      string           `json:"request_id,omitempty"`
	ChatID         string           `json:"chat_id,omitempty"`
	Path           string           `json:"path,omitempty"`
	Prompt         string           `json:"prompt,omitempty"`
	MaxContextSize int              `json:"max_context_size,omitempty"`
	History        []history.Record `json:"history,omitempty"`
}

// GuardRequest converts the hook payload into a guard request.
func (h *HookInput) GuardRequest() guard.Request {
	return guard.Request{
		RequestID:      h.RequestID,
		ChatID:         h.ChatID,
		Path:           guard.Path(h.Path),
		Prompt:         h.Prompt,
		History:        h.History,
		MaxContextSize: h.MaxContextSize,
	}
}
