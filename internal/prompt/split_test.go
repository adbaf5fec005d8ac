package prompt

import (
	"errors"
	"strings"
	"testing"
)

func v1(t *testing.T) Rules {
	t.Helper()
	rules, err := ForVersion(Version1)
	if err != nil {
		t.Fatalf("ForVersion: %v", err)
	}
	return rules
}

func TestForVersionUnknown(t *testing.T) {
	if _, err := ForVersion(2); err == nil {
		t.Error("expected error for unknown template version")
	}
}

func TestSplitAtCurrentTime(t *testing.T) {
	raw := strings.Join([]string{
		"你是一个乐于助人的群聊助手。",
		"当前时间：2024-05-21 10:08:00",
		"以下聊天开始时间：2024-05-21 10:00:00",
		"[qq:20001]10:05, 小明: 今晚吃啥？",
		"[qq:10001]10:06, 麦麦(你): 火锅可以",
		"[qq:20002]10:07, 小红: 人均大概多少？",
		"现在请你根据聊天内容，作出回复。",
	}, "\n")

	seg, err := Split(raw, v1(t))
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if !strings.HasSuffix(seg.Prefix, "当前时间：2024-05-21 10:08:00") {
		t.Errorf("prefix should end at the time anchor, got %q", seg.Prefix)
	}
	if !strings.HasPrefix(seg.Prefix, "你是一个乐于助人的群聊助手。") {
		t.Errorf("prefix lost its first line: %q", seg.Prefix)
	}
	if seg.Suffix != "现在请你根据聊天内容，作出回复。" {
		t.Errorf("suffix = %q", seg.Suffix)
	}
	if !strings.Contains(seg.Region, "小明") || !strings.Contains(seg.Region, "小红") {
		t.Errorf("region lost turns: %q", seg.Region)
	}
	if strings.Contains(seg.Region, "现在请你") {
		t.Errorf("region should not contain the suffix: %q", seg.Region)
	}
}

func TestSplitAtChatHeader(t *testing.T) {
	raw := strings.Join([]string{
		"这是你们之前聊的内容：",
		"",
		"[qq:20001]3分钟前, 小明: 群里有人吗",
		"[qq:10001]刚刚, 麦麦(你): 在的在的",
		"现在请你对这句内容进行改写，保持原意。",
	}, "\n")

	seg, err := Split(raw, v1(t))
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if seg.Prefix != "这是你们之前聊的内容：" {
		t.Errorf("prefix = %q", seg.Prefix)
	}
	if strings.HasPrefix(seg.Region, "\n") {
		t.Errorf("blank lines after the header should be skipped, region = %q", seg.Region)
	}
	if !strings.HasPrefix(seg.Region, "[qq:20001]") {
		t.Errorf("region = %q", seg.Region)
	}
	if !strings.HasPrefix(seg.Suffix, "现在请你对这句内容进行改写") {
		t.Errorf("suffix = %q", seg.Suffix)
	}
}

func TestSplitAtTimeline(t *testing.T) {
	raw := strings.Join([]string{
		"帮我看看下面这段对话。",
		"[qq:20001]10:05, 小明: 有人在吗",
		"[qq:20001]10:06, 小明: 说话呀",
		"写一个简短的回复。",
	}, "\n")

	seg, err := Split(raw, v1(t))
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if seg.Prefix != "帮我看看下面这段对话。" {
		t.Errorf("prefix = %q", seg.Prefix)
	}
	if seg.Suffix != "写一个简短的回复。" {
		t.Errorf("suffix = %q", seg.Suffix)
	}
	if got := strings.Count(seg.Region, "小明"); got != 2 {
		t.Errorf("region should hold both turns, got %d: %q", got, seg.Region)
	}
}

func TestSplitPicksLongestTimelineRun(t *testing.T) {
	raw := strings.Join([]string{
		"规则说明。",
		"[qq:20001]10:01, 小明: 一",
		"中间的说明文字。",
		"[qq:20001]10:02, 小明: 二",
		"[qq:20001]10:03, 小明: 三",
		"收尾说明。",
	}, "\n")

	seg, err := Split(raw, v1(t))
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if strings.Contains(seg.Region, "一") {
		t.Errorf("shorter run should lose, region = %q", seg.Region)
	}
	if !strings.Contains(seg.Region, "二") || !strings.Contains(seg.Region, "三") {
		t.Errorf("region = %q", seg.Region)
	}
}

func TestSplitMissingSuffixTolerated(t *testing.T) {
	raw := strings.Join([]string{
		"当前时间：2024-05-21 10:08:00",
		"[qq:20001]10:05, 小明: 今晚吃啥？",
	}, "\n")

	seg, err := Split(raw, v1(t))
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if seg.Suffix != "" {
		t.Errorf("suffix = %q, want empty", seg.Suffix)
	}
	if seg.Prefix == "" {
		t.Error("prefix should carry the anchor line")
	}
}

func TestSplitNoAnchors(t *testing.T) {
	for _, raw := range []string{
		"",
		"   \n\n  ",
		"只是普通的一段话，没有任何模板痕迹。",
	} {
		_, err := Split(raw, v1(t))
		var se *SegmentationError
		if !errors.As(err, &se) {
			t.Errorf("Split(%q): err = %v, want SegmentationError", raw, err)
		}
	}
}

func TestIsRewrite(t *testing.T) {
	rules := v1(t)
	tests := []struct {
		raw  string
		want bool
	}{
		{"现在请你对这句内容进行改写，保持原意。", true},
		{"改写后的回复不要带引号。", true},
		{"你现在想补充说明你刚刚自己的发言内容。", true},
		{"现在请你根据聊天内容作出回复。", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsRewrite(tt.raw, rules); got != tt.want {
			t.Errorf("IsRewrite(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestInferTimeMode(t *testing.T) {
	rules := v1(t)
	tests := []struct {
		raw  string
		want TimeMode
	}{
		{"[qq:1]3分钟前, 小明: 在吗", TimeRelative},
		{"[qq:1]10:05, 小明: 在吗", TimeClock},
		{"[qq:1]5-21 10:05:30, 小明: 在吗", TimeClock},
		// Relative stamps win when both shapes appear.
		{"[qq:1]10:05, 小明: 在吗\n[qq:2]刚刚, 小红: 嗯\n[qq:2]2小时前, 小红: 早", TimeRelative},
		{"没有时间戳的提示词", TimeRelative},
	}
	for _, tt := range tests {
		if got := InferTimeMode(tt.raw, rules); got != tt.want {
			t.Errorf("InferTimeMode(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}
