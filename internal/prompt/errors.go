package prompt

import "fmt"

// SegmentationError reports a prompt that does not satisfy the template
// contract: missing anchors, a history line that opens no valid turn, or a
// turn with no body. Callers must treat it as "do not trust this parse";
// there is never a partial result alongside it.
type SegmentationError struct {
	Line int // 1-based line within the history region, 0 when not line-specific
	Msg  string
}

func (e *SegmentationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("segmentation: history line %d: %s", e.Line, e.Msg)
	}
	return "segmentation: " + e.Msg
}

// IdentityResolutionError reports a history line whose speaker tag is
// present but cannot be parsed into a platform and user id, so the speaker
// cannot be attributed.
type IdentityResolutionError struct {
	Line int
	Tag  string
}

func (e *IdentityResolutionError) Error() string {
	return fmt.Sprintf("identity resolution: history line %d: malformed speaker tag %q", e.Line, e.Tag)
}
