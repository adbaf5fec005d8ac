package prompt

import (
	"fmt"
	"strings"

	"github.com/promptguard/promptguard/internal/identity"
)

// Turn is one chat-history utterance. Index is the strictly increasing
// chronological position of the turn within the region; the parser never
// reorders or drops turns.
type Turn struct {
	Identity    identity.Key
	DisplayName string
	TimeLabel   string
	Body        string
	Index       int
}

// ParseTurns parses the history region into ordered turns. A line opening a
// turn must carry the template's bracketed platform:user_id tag ahead of its
// timestamp; the display name is kept for rendering but never decides
// identity. Lines that open no turn continue the previous turn's body, so
// bodies may span lines. A timestamp-shaped line without a parseable tag
// fails the whole parse: guessing the speaker of untagged speech is exactly
// the hole this parser exists to close.
func ParseTurns(region string, rules Rules) ([]Turn, error) {
	if strings.TrimSpace(region) == "" {
		return nil, nil
	}

	var (
		turns   []Turn
		open    bool
		current Turn
		body    []string
	)
	finish := func() error {
		if !open {
			return nil
		}
		current.Body = strings.TrimSpace(strings.Join(body, "\n"))
		if current.Body == "" {
			return &SegmentationError{Msg: fmt.Sprintf("turn %d has an empty body", len(turns)+1)}
		}
		current.Index = len(turns)
		turns = append(turns, current)
		open = false
		return nil
	}

	for i, line := range strings.Split(region, "\n") {
		if m := rules.turnLine.FindStringSubmatch(line); m != nil {
			if err := finish(); err != nil {
				return nil, err
			}
			key, err := identity.ParseKey(m[1])
			if err != nil {
				return nil, &IdentityResolutionError{Line: i + 1, Tag: m[1]}
			}
			current = Turn{
				Identity:    key,
				DisplayName: strings.TrimSpace(m[3]),
				TimeLabel:   m[2],
			}
			body = []string{m[4]}
			open = true
			continue
		}

		stripped := strings.TrimSpace(line)
		if rules.timestampLine.MatchString(stripped) {
			msg := "history line has no speaker tag"
			if strings.HasPrefix(stripped, "[") {
				msg = "unparseable turn marker"
			}
			return nil, &SegmentationError{Line: i + 1, Msg: msg}
		}
		if open {
			body = append(body, line)
			continue
		}
		if stripped == "" || isHistoryLike(stripped, false, rules) {
			// Template furniture ahead of the first turn (picture blocks,
			// the chat-start stamp) carries no speech.
			continue
		}
		return nil, &SegmentationError{Line: i + 1, Msg: "unrecognized line before first turn"}
	}
	if err := finish(); err != nil {
		return nil, err
	}
	return turns, nil
}

// Segment splits a prompt and parses its history region in one call.
func Segment(raw string, rules Rules) (*Segments, []Turn, error) {
	seg, err := Split(raw, rules)
	if err != nil {
		return nil, nil, err
	}
	turns, err := ParseTurns(seg.Region, rules)
	if err != nil {
		return nil, nil, err
	}
	return seg, turns, nil
}
