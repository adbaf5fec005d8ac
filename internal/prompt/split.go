package prompt

import "strings"

// Segments is the result of splitting a flattened prompt: the instruction
// prefix, the raw history region between the anchors, and the instruction
// suffix. Prefix and suffix are whitespace-trimmed; at least one of them is
// non-empty.
type Segments struct {
	Prefix string
	Region string
	Suffix string
}

// Split locates the instruction prefix, history region and instruction
// suffix of a flattened prompt. Three strategies are tried in order: the
// 当前时间： anchor of the reply template, the chat header keywords of the
// rewrite template, and last a scan for the longest run of history-like
// lines. A strategy only wins when it leaves a non-empty prefix or suffix.
func Split(raw string, rules Rules) (*Segments, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, &SegmentationError{Msg: "empty prompt"}
	}
	lines := strings.Split(raw, "\n")

	if seg := splitAtCurrentTime(lines, rules); seg != nil {
		return seg, nil
	}
	if seg := splitAtChatHeader(lines, rules); seg != nil {
		return seg, nil
	}
	if seg := splitAtTimeline(lines, rules); seg != nil {
		return seg, nil
	}
	return nil, &SegmentationError{Msg: "no template anchors matched"}
}

func splitAtCurrentTime(lines []string, rules Rules) *Segments {
	for i, line := range lines {
		if !strings.HasPrefix(strings.TrimSpace(line), rules.currentTimePrefix) {
			continue
		}
		start := i + 1
		return buildSegments(lines, start, findSuffixStart(lines, start, rules))
	}
	return nil
}

func splitAtChatHeader(lines []string, rules Rules) *Segments {
	for i, line := range lines {
		if !containsAny(line, rules.headerKeywords) {
			continue
		}
		start := i + 1
		for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
			start++
		}
		return buildSegments(lines, start, findSuffixStart(lines, start, rules))
	}
	return nil
}

// splitAtTimeline is the last-resort strategy: the longest run of
// history-like lines containing at least one timestamped line becomes the
// history region, and everything around it the prefix and suffix.
func splitAtTimeline(lines []string, rules Rules) *Segments {
	bestStart, bestEnd, bestLen := -1, -1, 0
	runStart, stamped := -1, 0

	for i := 0; i <= len(lines); i++ {
		var line string
		atEnd := i == len(lines)
		if !atEnd {
			line = strings.TrimSpace(lines[i])
		}
		if !atEnd && isHistoryLike(line, runStart >= 0, rules) {
			if runStart < 0 {
				runStart, stamped = i, 0
			}
			if rules.timestampLine.MatchString(line) {
				stamped++
			}
			continue
		}
		if runStart >= 0 {
			if n := i - runStart; stamped > 0 && n > bestLen {
				bestStart, bestEnd, bestLen = runStart, i, n
			}
			runStart, stamped = -1, 0
		}
	}
	if bestStart < 0 {
		return nil
	}
	return buildSegments(lines, bestStart, bestEnd)
}

func buildSegments(lines []string, start, end int) *Segments {
	prefix := strings.TrimSpace(strings.Join(lines[:start], "\n"))
	suffix := strings.TrimSpace(strings.Join(lines[end:], "\n"))
	if prefix == "" && suffix == "" {
		return nil
	}
	return &Segments{
		Prefix: prefix,
		Region: strings.Join(lines[start:end], "\n"),
		Suffix: suffix,
	}
}

// findSuffixStart returns the index of the first line at or after from whose
// trimmed form opens the instruction suffix, or len(lines) when the suffix
// anchor is absent.
func findSuffixStart(lines []string, from int, rules Rules) int {
	for i := from; i < len(lines); i++ {
		stripped := strings.TrimSpace(lines[i])
		for _, p := range rules.suffixPrefixes {
			if strings.HasPrefix(stripped, p) {
				return i
			}
		}
	}
	return len(lines)
}

// isHistoryLike reports whether a trimmed line can belong to the history
// region: a timestamped line, template picture furniture, the chat-start
// stamp, or a blank line inside an already-open run.
func isHistoryLike(line string, inRun bool, rules Rules) bool {
	if line == "" {
		return inRun
	}
	if rules.timestampLine.MatchString(line) {
		return true
	}
	if line == rules.pictureInfoLine {
		return true
	}
	if strings.HasPrefix(line, rules.pictureBlockPrefix) && strings.Contains(line, rules.pictureBlockMark) {
		return true
	}
	return strings.HasPrefix(line, rules.chatStartPrefix)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// IsRewrite reports whether the prompt came from the host's rewrite path
// rather than a reply path.
func IsRewrite(raw string, rules Rules) bool {
	return containsAny(raw, rules.rewriteMarkers)
}

// TimeMode describes how the host template rendered history timestamps.
type TimeMode int

const (
	// TimeRelative renders labels like 刚刚 or 3分钟前.
	TimeRelative TimeMode = iota
	// TimeClock renders labels like 10:05 or 5-21 10:05, with no year part.
	TimeClock
)

// InferTimeMode guesses the timestamp rendering of a prompt from its history
// lines so that rebuilt turns match the surrounding text. Relative stamps win
// when both shapes appear; a prompt with no recognizable stamps defaults to
// relative.
func InferTimeMode(raw string, rules Rules) TimeMode {
	if rules.relativeStamp.MatchString(raw) {
		return TimeRelative
	}
	if rules.clockStamp.MatchString(raw) {
		return TimeClock
	}
	return TimeRelative
}
