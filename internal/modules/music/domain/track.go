package domain

import (
	"fmt"
	"time"
)

// labelLength is the longest track title shown on buttons and messages.
const labelLength = 60

// Track is a playable item resolved by the audio backend.
type Track struct {
	Encoded  string
	Title    string
	Author   string
	Duration time.Duration
	URI      string
	IsStream bool
}

// Label returns the title cut to fit a link button.
func (t Track) Label() string {
	return ShortText(t.Title, labelLength)
}

// FormattedDuration returns the duration as M:SS or H:MM:SS.
func (t Track) FormattedDuration() string {
	if t.IsStream {
		return "LIVE"
	}

	total := int(t.Duration.Seconds())
	hours, minutes, seconds := total/3600, (total%3600)/60, total%60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// ShortText truncates text to n runes and appends an ellipsis when cut.
func ShortText(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "…"
}
