// Package prompt segments a flattened chat prompt into its instruction
// prefix, ordered chat-history turns, and instruction suffix, under a
// versioned template contract.
//
// The grammar mirrors the host's prompt template: history lines open with a
// bracketed speaker tag, a timestamp shape such as 刚刚 / 3分钟前 / 10:05 /
// 5-21 10:05, a comma, the display name, a colon, and the message body.
// Instruction blocks are anchored by fixed header lines (当前时间：…,
// 下面是群里正在聊的内容, …). Any input the grammar cannot account for fails
// the parse; there is no best-effort mode.
package prompt

import (
	"fmt"
	"regexp"
)

// Version1 is the only template contract currently defined.
const Version1 = 1

// timestampAlt lists the timestamp shapes a history line may open with.
const timestampAlt = `刚刚|\d+秒前|\d+分钟前|\d+小时前|\d+天前|\d{1,2}:\d{2}(?::\d{2})?|\d{1,2}-\d{1,2}\s+\d{1,2}:\d{2}(?::\d{2})?`

var (
	timestampLineRe = regexp.MustCompile(`^\s*(\[[^\]]+\])?(` + timestampAlt + `),\s+.+$`)
	turnLineRe      = regexp.MustCompile(`^\s*\[([^\]]+)\](` + timestampAlt + `),\s+([^:]+?):\s?(.*)$`)

	relativeStampRe = regexp.MustCompile(`(秒前|分钟前|小时前|天前),\s`)
	clockStampRe    = regexp.MustCompile(`\d{1,2}:\d{2}(?::\d{2})?,\s`)
)

// Rules is the template contract a prompt is parsed against. Rules are
// immutable; obtain them through ForVersion.
type Rules struct {
	Version int

	currentTimePrefix  string
	headerKeywords     []string
	suffixPrefixes     []string
	rewriteMarkers     []string
	chatStartPrefix    string
	pictureInfoLine    string
	pictureBlockPrefix string
	pictureBlockMark   string

	timestampLine *regexp.Regexp
	turnLine      *regexp.Regexp
	relativeStamp *regexp.Regexp
	clockStamp    *regexp.Regexp
}

// ForVersion returns the rules for a template contract version. An unknown
// version is a hard error: parsing against a drifted template must fail
// loudly rather than degrade.
func ForVersion(v int) (Rules, error) {
	if v != Version1 {
		return Rules{}, fmt.Errorf("unknown template version %d", v)
	}
	return Rules{
		Version:           Version1,
		currentTimePrefix: "当前时间：",
		headerKeywords: []string{
			"下面是群里正在聊的内容",
			"这是你们之前聊的内容",
		},
		suffixPrefixes: []string{
			"现在",
			"你现在想补充说明",
			"你正在",
			"现在请你对这句内容进行改写",
			"请你根据聊天内容",
			"改写后的回复",
			"你的名字是",
		},
		rewriteMarkers: []string{
			"现在请你对这句内容进行改写",
			"改写后的回复",
			"你现在想补充说明你刚刚自己的发言内容",
		},
		chatStartPrefix:    "以下聊天开始时间：",
		pictureInfoLine:    "图片信息：",
		pictureBlockPrefix: "[图片",
		pictureBlockMark:   "的内容：",
		timestampLine:      timestampLineRe,
		turnLine:           turnLineRe,
		relativeStamp:      relativeStampRe,
		clockStamp:         clockStampRe,
	}, nil
}
