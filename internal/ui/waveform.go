package ui

import (
	"fmt"
	"strings"
	"time"
)

var waveformBars = []rune("▁▂▃▄▅▆▇█")

// Waveform renders samples in [0, 1] as block bars. When there are more
// samples than bars, each bar shows the peak of its bucket; the newest
// samples are always kept. progress in [0, 1] highlights the played part;
// pass a negative value to disable it.
func Waveform(samples []float64, bars int, progress float64) string {
	if bars <= 0 || len(samples) == 0 {
		return ""
	}

	levels := bucket(samples, bars)
	played := -1
	if progress >= 0 {
		played = int(progress * float64(len(levels)))
	}

	var b strings.Builder
	for i, v := range levels {
		idx := int(v * float64(len(waveformBars)-1))
		idx = max(0, min(idx, len(waveformBars)-1))
		bar := string(waveformBars[idx])
		switch {
		case played < 0:
			b.WriteString(bar)
		case i < played:
			b.WriteString(PlaybackCursorStyle.Render(bar))
		default:
			b.WriteString(WaveformStyle.Render(bar))
		}
	}
	return b.String()
}

// bucket reduces samples to at most n peaks.
func bucket(samples []float64, n int) []float64 {
	if len(samples) <= n {
		return samples
	}
	out := make([]float64, n)
	size := float64(len(samples)) / float64(n)
	for i := range out {
		from := int(float64(i) * size)
		to := int(float64(i+1) * size)
		if i == n-1 {
			to = len(samples)
		}
		peak := 0.0
		for _, v := range samples[from:to] {
			peak = max(peak, v)
		}
		out[i] = peak
	}
	return out
}

// FormatElapsed renders a duration as m:ss.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
