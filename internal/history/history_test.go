package history

import (
	"testing"
	"time"

	"github.com/promptguard/promptguard/internal/identity"
	"github.com/promptguard/promptguard/internal/prompt"
)

var bots = identity.NewSet(identity.Key{Platform: "qq", UserID: "10001"})

func unix(t time.Time) float64 {
	return float64(t.UnixMilli()) / 1000
}

func TestRebuild(t *testing.T) {
	now := time.Now()
	recs := []Record{
		{Platform: "qq", UserID: "20001", DisplayName: "小明", Timestamp: unix(now.Add(-3 * time.Minute)), Body: "今晚吃啥？"},
		{Platform: "qq", UserID: "10001", DisplayName: "麦麦", Timestamp: unix(now.Add(-2 * time.Minute)), Body: "火锅可以"},
		{Platform: "qq", UserID: "30001", Timestamp: unix(now.Add(-time.Minute)), Body: "[picid:abc123]"},
		{Platform: "qq", UserID: "20001", DisplayName: "小明", Timestamp: unix(now.Add(-30 * time.Second)), Body: "   "},
	}

	turns := Rebuild(recs, Options{Bots: bots, BotNickname: "麦麦", Mode: prompt.TimeRelative, Now: now})
	if len(turns) != 3 {
		t.Fatalf("got %d turns, want 3", len(turns))
	}

	if turns[0].DisplayName != "小明" || turns[0].TimeLabel != "3分钟前" {
		t.Errorf("turn 0 = %q %q", turns[0].DisplayName, turns[0].TimeLabel)
	}
	if turns[1].DisplayName != "麦麦(你)" {
		t.Errorf("bot speaker = %q, want 麦麦(你)", turns[1].DisplayName)
	}
	if turns[2].DisplayName != "30001" {
		t.Errorf("speaker without display name = %q, want user id", turns[2].DisplayName)
	}
	if turns[2].Body != "[图片]" {
		t.Errorf("picture body = %q", turns[2].Body)
	}
	for i, turn := range turns {
		if turn.Index != i {
			t.Errorf("turn %d index = %d", i, turn.Index)
		}
	}
}

func TestRebuildKeepsEmptyInput(t *testing.T) {
	turns := Rebuild(nil, Options{Bots: bots, BotNickname: "麦麦", Now: time.Now()})
	if len(turns) != 0 {
		t.Errorf("got %d turns, want 0", len(turns))
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"[picid:xyz] 看这个 [picid:abc]", "[图片] 看这个 [图片]"},
		{"  两边有空格  ", "两边有空格"},
		{"[picid:only]", "[图片]"},
		{"   ", ""},
		{"没有图片", "没有图片"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSpeakerName(t *testing.T) {
	opts := Options{Bots: bots, BotNickname: "麦麦"}
	tests := []struct {
		key     identity.Key
		display string
		want    string
	}{
		{identity.Key{Platform: "qq", UserID: "10001"}, "假名字", "麦麦(你)"},
		{identity.Key{Platform: "qq", UserID: "20001"}, "小明", "小明"},
		{identity.Key{Platform: "qq", UserID: "20001"}, "  ", "20001"},
		{identity.Key{}, "", "某人"},
	}
	for _, tt := range tests {
		if got := speakerName(tt.key, tt.display, opts); got != tt.want {
			t.Errorf("speakerName(%v, %q) = %q, want %q", tt.key, tt.display, got, tt.want)
		}
	}
}

func TestRelativeLabels(t *testing.T) {
	now := time.Now()
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{0, "刚刚"},
		{5 * time.Second, "刚刚"},
		{45 * time.Second, "45秒前"},
		{10 * time.Minute, "10分钟前"},
		{3 * time.Hour, "3小时前"},
		{50 * time.Hour, "2天前"},
	}
	for _, tt := range tests {
		got := renderTime(unix(now.Add(-tt.ago)), prompt.TimeRelative, now)
		if got != tt.want {
			t.Errorf("renderTime(-%v) = %q, want %q", tt.ago, got, tt.want)
		}
	}
}

func TestClockLabels(t *testing.T) {
	now := time.Date(2024, 5, 21, 15, 30, 0, 0, time.Local)

	got := renderTime(unix(now.Add(-30*time.Minute)), prompt.TimeClock, now)
	if got != "15:00" {
		t.Errorf("same-day label = %q, want 15:00", got)
	}

	got = renderTime(unix(time.Date(2024, 5, 20, 9, 5, 0, 0, time.Local)), prompt.TimeClock, now)
	if got != "5-20 09:05" {
		t.Errorf("cross-day label = %q, want 5-20 09:05", got)
	}
}

func TestZeroTimestampRendersAsNow(t *testing.T) {
	now := time.Now()
	if got := renderTime(0, prompt.TimeRelative, now); got != "刚刚" {
		t.Errorf("zero timestamp = %q, want 刚刚", got)
	}
	if got := renderTime(-5, prompt.TimeRelative, now); got != "刚刚" {
		t.Errorf("negative timestamp = %q, want 刚刚", got)
	}
}
