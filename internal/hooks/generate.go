package hooks

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/promptguard/promptguard/internal/guard"
)

func handleGenerate(client *Client, input *HookInput) {
	if input.Prompt == "" {
		ExitError(errors.New("generate: empty prompt on stdin"))
		return
	}

	// Server down — hand the prompt back in the same shape a guard fallback
	// would take, so the host shim has a single format to parse.
	if !client.Healthy() {
		WriteFallback(input.RequestID, string(guard.ReasonUnavailable),
			"promptguard server unreachable", input.Prompt)
		return
	}

	body, err := json.Marshal(input.GuardRequest())
	if err != nil {
		ExitError(fmt.Errorf("encode guard request: %w", err))
		return
	}

	status, data, err := client.PostRaw("/api/v1/guard", body)
	if err != nil {
		WriteFallback(input.RequestID, string(guard.ReasonUnavailable),
			err.Error(), input.Prompt)
		return
	}

	switch status {
	case http.StatusOK:
		WriteRaw(data)
	case http.StatusUnprocessableEntity:
		// Fallback is disabled and structuring failed. Forward the error
		// body, then make the failure visible at the host call site.
		WriteRaw(data)
		ExitHard(fmt.Errorf("guard rejected request: status %d", status))
	default:
		WriteFallback(input.RequestID, string(guard.ReasonUnavailable),
			fmt.Sprintf("guard returned status %d", status), input.Prompt)
	}
}
