// Package hooks bridges the host shim's hook events to the promptguard
// server: JSON on stdin, one HTTP call, JSON on stdout. A missing or
// unreachable server must never take the host down with it.
package hooks

import (
	"encoding/json"
	"fmt"
	"io"
)

// Handle reads HookInput from the given reader, dispatches to the event's
// handler, and writes the host-facing output to stdout.
func Handle(event string, stdin io.Reader) {
	var input HookInput
	if err := json.NewDecoder(stdin).Decode(&input); err != nil {
		// Lifecycle events may arrive with empty stdin — degrade gracefully.
		// generate without a payload has no prompt to hand back.
		if event == "generate" {
			ExitError(fmt.Errorf("decode stdin: %w", err))
			return
		}
		input = HookInput{}
	}

	client := NewClient()

	switch event {
	case "ready":
		handleReady(client, &input)
	case "stop":
		handleStop(client, &input)
	case "generate":
		handleGenerate(client, &input)
	default:
		ExitError(fmt.Errorf("unknown hook event: %s", event))
	}
}
