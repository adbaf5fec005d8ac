package hooks

import (
	"encoding/json"
	"fmt"
	"os"
)

// FallbackOutput mirrors the server's fallback response shape, so the host
// shim reads one format whether or not the server was reachable.
type FallbackOutput struct {
	RequestID string `json:"request_id,omitempty"`
	Outcome   string `json:"outcome"`
	Reason    string `json:"reason"`
	Detail    string `json:"detail,omitempty"`
	Prompt    string `json:"prompt"`
}

// WriteFallback writes a fallback-shaped response to stdout. Used when the
// guard never saw the request; the prompt goes back to the host untouched.
func WriteFallback(requestID, reason, detail, prompt string) error {
	return json.NewEncoder(os.Stdout).Encode(FallbackOutput{
		RequestID: requestID,
		Outcome:   "fallback",
		Reason:    reason,
		Detail:    detail,
		Prompt:    prompt,
	})
}

// WriteRaw forwards a server response body to stdout untouched.
func WriteRaw(data []byte) {
	os.Stdout.Write(data)
	if len(data) == 0 || data[len(data)-1] != '\n' {
		os.Stdout.Write([]byte{'\n'})
	}
}

// ExitError logs to stderr and exits 0 (hooks must never crash the host).
func ExitError(err error) {
	fmt.Fprintf(os.Stderr, "promptguard hook: %v\n", err)
	os.Exit(0)
}

// ExitHard logs to stderr and exits 1. Reserved for hard-error guard
// responses, where the host call site must observe the failure.
func ExitHard(err error) {
	fmt.Fprintf(os.Stderr, "promptguard hook: %v\n", err)
	os.Exit(1)
}
