package guard

import (
	"errors"

	"github.com/promptguard/promptguard/internal/prompt"
)

// ConfigurationError reports an invalid runtime value, either caught while
// building the controller or discovered while resolving a request (for
// example a non-positive history cap).
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string {
	return "configuration: " + e.Msg
}

// ReasonForError maps a structuring failure to its diagnostic reason.
func ReasonForError(err error) Reason {
	var ce *ConfigurationError
	if errors.As(err, &ce) {
		return ReasonConfiguration
	}
	var ie *prompt.IdentityResolutionError
	if errors.As(err, &ie) {
		return ReasonIdentity
	}
	return ReasonSegmentation
}
