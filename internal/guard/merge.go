package guard

import "github.com/promptguard/promptguard/internal/identity"

// Merged is one outbound history message. Every constituent turn shares the
// same role and identity, and Lines preserves their original order. Labels
// holds the one-time assistant headers collected from the run; assembly
// renders them once, ahead of the content.
type Merged struct {
	Role     Role
	Identity identity.Key
	Labels   []string
	Lines    []string

	firstIndex int
	lastIndex  int
}

// Merge folds classified turns into outbound messages. When disabled every
// turn stands alone. When enabled a turn joins the previous message iff
// role and identity both match and its position is contiguous with the
// previous turn; merging never skips or reorders anything, and merging an
// already-merged sequence changes nothing.
func Merge(turns []Classified, enabled bool) []Merged {
	msgs := make([]Merged, 0, len(turns))
	for _, t := range turns {
		m := Merged{
			Role:       t.Role,
			Identity:   t.Identity,
			Lines:      []string{t.Content},
			firstIndex: t.Index,
			lastIndex:  t.Index,
		}
		if t.Label != "" {
			m.Labels = []string{t.Label}
		}
		msgs = append(msgs, m)
	}
	if !enabled {
		return msgs
	}
	return collapse(msgs)
}

func collapse(msgs []Merged) []Merged {
	out := make([]Merged, 0, len(msgs))
	for _, m := range msgs {
		if n := len(out); n > 0 {
			prev := &out[n-1]
			if prev.Role == m.Role && prev.Identity == m.Identity && prev.lastIndex+1 == m.firstIndex {
				prev.Labels = append(prev.Labels, m.Labels...)
				prev.Lines = append(prev.Lines, m.Lines...)
				prev.lastIndex = m.lastIndex
				continue
			}
		}
		out = append(out, m)
	}
	return out
}
