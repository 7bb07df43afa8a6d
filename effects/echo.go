package effects

import (
	"math"

	"github.com/sylm54/narrate/audio"
)

// Echo defaults.
const (
	defaultEchoDelay   = 0.25
	defaultEchoDecay   = 0.6
	defaultEchoRepeats = 3
)

// Echo appends exponentially attenuated delayed copies of the input. Repeat r
// (1-indexed) is attenuated by decay^r and offset by r*delay seconds. The
// output grows by repeats*delaySamples and is clamped after summation.
func Echo(buf *audio.Buffer, opts Options) *audio.Buffer {
	rate := buf.SampleRate()
	delay := opts.delay(defaultEchoDelay)
	decay := opts.decay(defaultEchoDecay)
	repeats := opts.repeats(defaultEchoRepeats)
	if repeats < 0 {
		repeats = 0
	}

	delaySamples := int(delay * float64(rate))
	if delaySamples < 0 {
		delaySamples = 0
	}
	srcLen := buf.Len()
	out := audio.New(buf.Channels(), srcLen+delaySamples*repeats, rate)

	for ch := 0; ch < buf.Channels(); ch++ {
		src := buf.Channel(ch)
		dst := out.Channel(ch)
		copy(dst, src)

		for r := 1; r <= repeats; r++ {
			gain := float32(math.Pow(decay, float64(r)))
			offset := r * delaySamples
			for i, s := range src {
				if idx := i + offset; idx < len(dst) {
					dst[idx] += s * gain
				}
			}
		}

		for i := range dst {
			dst[i] = audio.Clamp(dst[i])
		}
	}
	return out
}
