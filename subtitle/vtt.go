package subtitle

import (
	"fmt"
	"strings"

	"video-subtitles/transcribe"
)

const (
	header = "WEBVTT"

	maxWordsPerCue = 10
	maxCueDuration = 5.0

	// Display window for a transcript that arrived without word timings.
	fallbackWindow = "00:00:00.000 --> 00:00:10.000"
)

// Synthesize converts a transcription result into a WebVTT document.
// A caption track already produced by the engine passes through as-is.
// Word timings are grouped into cues of at most maxWordsPerCue words or
// maxCueDuration seconds; without timings the whole transcript becomes
// a single cue. An empty result yields a header-only document.
func Synthesize(result *transcribe.Result) string {
	if result.VTT != "" {
		return result.VTT
	}

	var b strings.Builder
	b.WriteString(header + "\n\n")

	if len(result.Words) > 0 {
		for i, c := range groupWords(result.Words) {
			b.WriteString(fmt.Sprintf("%d\n", i+1))
			b.WriteString(fmt.Sprintf("%s --> %s\n", FormatTime(c.start), FormatTime(c.end)))
			b.WriteString(strings.Join(c.words, " ") + "\n\n")
		}
		return b.String()
	}

	if result.Text != "" {
		b.WriteString("1\n")
		b.WriteString(fallbackWindow + "\n")
		b.WriteString(result.Text + "\n\n")
	}
	return b.String()
}

type cue struct {
	start float64
	end   float64
	words []string
}

// groupWords walks words in order and closes the current cue once it
// holds maxWordsPerCue words, or once adding the next word would stretch
// it to maxCueDuration seconds. The triggering word opens the next cue,
// so a single word longer than the duration cap still forms one cue.
func groupWords(words []transcribe.Word) []cue {
	var chunks []cue
	var current *cue

	for _, w := range words {
		if current == nil {
			current = &cue{start: w.Start, end: w.End, words: []string{w.Word}}
			continue
		}

		if len(current.words) >= maxWordsPerCue || w.End-current.start >= maxCueDuration {
			chunks = append(chunks, *current)
			current = &cue{start: w.Start, end: w.End, words: []string{w.Word}}
			continue
		}

		current.end = w.End
		current.words = append(current.words, w.Word)
	}

	if current != nil {
		chunks = append(chunks, *current)
	}
	return chunks
}

// FormatTime renders seconds as HH:MM:SS.mmm, truncating the sub-second
// remainder to milliseconds.
func FormatTime(seconds float64) string {
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	ms := int((seconds - float64(total)) * 1000)
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}
