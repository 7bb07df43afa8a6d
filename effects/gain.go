package effects

import "github.com/sylm54/narrate/audio"

// Gain returns a copy of the buffer with every sample scaled by factor and
// clamped to [-1, 1].
func Gain(buf *audio.Buffer, factor float64) *audio.Buffer {
	out := buf.Clone()
	f := float32(factor)
	for ch := 0; ch < out.Channels(); ch++ {
		data := out.Channel(ch)
		for i := range data {
			data[i] = audio.Clamp(data[i] * f)
		}
	}
	return out
}
