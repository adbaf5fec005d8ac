package guard

import (
	"github.com/promptguard/promptguard/internal/identity"
	"github.com/promptguard/promptguard/internal/prompt"
)

// Classified is a history turn with its resolved role. For assistant turns
// the rendered header ("time, name:") is split off as Label so it can be
// shown as conversational framing rather than assistant speech, and Content
// holds only what the bot actually said. For user turns Label is empty and
// Content is the fully rendered line.
type Classified struct {
	prompt.Turn
	Role    Role
	Label   string
	Content string
}

// Classify resolves the role of every turn against the bot identity set.
// Only the identity key decides the role; a display name that mimics the
// bot stays a user turn. Classification is total: it cannot fail, and it
// never reorders or drops turns.
func Classify(turns []prompt.Turn, bots identity.Set) []Classified {
	out := make([]Classified, 0, len(turns))
	for _, t := range turns {
		c := Classified{Turn: t}
		header := headerOf(t)
		if bots.Contains(t.Identity) {
			c.Role = RoleAssistant
			if header != "" {
				c.Label = header + ":"
			}
			c.Content = t.Body
		} else {
			c.Role = RoleUser
			c.Content = t.Body
			if header != "" {
				c.Content = header + ": " + t.Body
			}
		}
		out = append(out, c)
	}
	return out
}

// headerOf renders the "time, name" head of a turn; either part may be
// absent.
func headerOf(t prompt.Turn) string {
	switch {
	case t.TimeLabel != "" && t.DisplayName != "":
		return t.TimeLabel + ", " + t.DisplayName
	case t.TimeLabel != "":
		return t.TimeLabel
	default:
		return t.DisplayName
	}
}
