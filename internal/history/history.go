// Package history rebuilds chat turns from the host's resolved message
// records. When the host hands records through, they are authoritative and
// the flattened prompt's history region is not parsed line by line.
package history

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/promptguard/promptguard/internal/identity"
	"github.com/promptguard/promptguard/internal/prompt"
)

// Record is one chat message as resolved by the host: who said it, when,
// and the raw body. Timestamp is unix seconds; fractional parts are kept.
type Record struct {
	Platform    string  `json:"platform"`
	UserID      string  `json:"user_id"`
	DisplayName string  `json:"display_name,omitempty"`
	Timestamp   float64 `json:"timestamp"`
	Body        string  `json:"body"`
}

// picidRe matches the host's inline picture tokens, e.g. [picid:abc123].
var picidRe = regexp.MustCompile(`\[picid:[^\]]+\]`)

// Options control how records are rendered into turns.
type Options struct {
	Bots        identity.Set
	BotNickname string
	Mode        prompt.TimeMode
	Now         time.Time
}

// Rebuild renders host records into ordered turns the way the host template
// renders them into the flattened prompt. Records whose body is empty after
// normalization are dropped, exactly as the host drops them when building
// the prompt; order is otherwise preserved.
func Rebuild(records []Record, opts Options) []prompt.Turn {
	turns := make([]prompt.Turn, 0, len(records))
	for _, r := range records {
		body := Normalize(r.Body)
		if body == "" {
			continue
		}
		key := identity.Key{Platform: r.Platform, UserID: r.UserID}
		turns = append(turns, prompt.Turn{
			Identity:    key,
			DisplayName: speakerName(key, r.DisplayName, opts),
			TimeLabel:   renderTime(r.Timestamp, opts.Mode, opts.Now),
			Body:        body,
			Index:       len(turns),
		})
	}
	return turns
}

// Normalize collapses inline picture tokens to the plain 图片 placeholder
// and trims surrounding whitespace.
func Normalize(body string) string {
	return strings.TrimSpace(picidRe.ReplaceAllString(body, "[图片]"))
}

// speakerName renders the display name the template would use: the bot's
// own turns carry the nickname plus the (你) marker, everyone else keeps
// their display name, falling back to the raw user id and finally 某人.
func speakerName(key identity.Key, display string, opts Options) string {
	if opts.Bots.Contains(key) {
		return opts.BotNickname + "(你)"
	}
	if display = strings.TrimSpace(display); display != "" {
		return display
	}
	if key.UserID != "" {
		return key.UserID
	}
	return "某人"
}

// renderTime renders a unix-seconds timestamp into the label shape the
// prompt's own history lines use. Zero and negative timestamps render as
// now.
func renderTime(ts float64, mode prompt.TimeMode, now time.Time) string {
	at := now
	if ts > 0 {
		at = time.UnixMilli(int64(ts * 1000))
	}
	if mode == prompt.TimeClock {
		if sameDay(at, now) {
			return at.Format("15:04")
		}
		return at.Format("1-2 15:04")
	}
	return relativeLabel(now.Sub(at))
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func relativeLabel(d time.Duration) string {
	switch {
	case d < 10*time.Second:
		return "刚刚"
	case d < time.Minute:
		return fmt.Sprintf("%d秒前", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%d分钟前", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%d小时前", int(d.Hours()))
	default:
		return fmt.Sprintf("%d天前", int(d.Hours()/24))
	}
}
