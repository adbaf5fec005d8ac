// Package identity defines the speaker keys used to decide which chat-history
// turns belong to the bot itself. Matching is exact on platform and account
// id; display names never participate, since they are attacker-controlled.
package identity

import (
	"fmt"
	"strings"
)

// Key identifies a chat participant by platform and account id.
type Key struct {
	Platform string
	UserID   string
}

// ParseKey parses a "platform:user_id" pair. Both halves must be non-empty.
// User ids may themselves contain colons (matrix-style ids), so only the
// first colon separates the halves.
func ParseKey(s string) (Key, error) {
	platform, userID, ok := strings.Cut(s, ":")
	if !ok || platform == "" || userID == "" {
		return Key{}, fmt.Errorf("malformed identity %q: want platform:user_id", s)
	}
	return Key{Platform: platform, UserID: userID}, nil
}

func (k Key) String() string {
	return k.Platform + ":" + k.UserID
}

// IsZero reports whether the key carries no identity at all.
func (k Key) IsZero() bool {
	return k.Platform == "" && k.UserID == ""
}

// Set holds the identities known to be the running bot's own accounts,
// one entry per platform account.
type Set map[Key]struct{}

// NewSet builds a Set from keys.
func NewSet(keys ...Key) Set {
	s := make(Set, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// ParseSet parses configuration entries of the form "platform:user_id".
// Entries are trimmed before parsing; the keys themselves are stored
// verbatim.
func ParseSet(specs []string) (Set, error) {
	s := make(Set, len(specs))
	for _, raw := range specs {
		k, err := ParseKey(strings.TrimSpace(raw))
		if err != nil {
			return nil, err
		}
		s[k] = struct{}{}
	}
	return s, nil
}

// Contains reports whether k is one of the bot's own identities. Lookup is
// exact: no case folding, no trimming. A nil or empty set matches nothing,
// so every speaker degrades to a user turn.
func (s Set) Contains(k Key) bool {
	_, ok := s[k]
	return ok
}
