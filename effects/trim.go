package effects

import (
	"math"

	"github.com/sylm54/narrate/audio"
)

// TrimSilence crops leading and trailing silence. A position counts as sound
// when a sliding window of minSilenceMs contains a cross-channel peak above
// threshold; the buffer is cropped to the span between the first and last
// such window. A buffer that never rises above the threshold yields a
// one-sample silent buffer, never an empty one.
func TrimSilence(buf *audio.Buffer, threshold float64, minSilenceMs float64) *audio.Buffer {
	rate := buf.SampleRate()
	length := buf.Len()
	channels := buf.Channels()
	window := int(math.Max(minSilenceMs/1000*float64(rate), 1))

	peak := make([]float32, length)
	for ch := 0; ch < channels; ch++ {
		data := buf.Channel(ch)
		for i, s := range data {
			if v := float32(math.Abs(float64(s))); v > peak[i] {
				peak[i] = v
			}
		}
	}

	th := float32(threshold)
	windowPeak := func(start int) float32 {
		var m float32
		for j := 0; j < window && start+j < length; j++ {
			if peak[start+j] > m {
				m = peak[start+j]
			}
		}
		return m
	}

	start := length
	for i := 0; i <= length-window; i++ {
		if windowPeak(i) > th {
			start = i
			break
		}
	}

	end := 0
	for i := length - window; i >= 0; i-- {
		if windowPeak(i) > th {
			end = i + window
			break
		}
	}

	if start >= end {
		return audio.New(1, 1, rate)
	}

	out := audio.New(channels, end-start, rate)
	for ch := 0; ch < channels; ch++ {
		copy(out.Channel(ch), buf.Channel(ch)[start:end])
	}
	return out
}
