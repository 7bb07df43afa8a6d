package effects

import (
	"math"

	"github.com/sylm54/narrate/audio"
)

// Pan places the input on the stereo field with constant-power gains. The
// input is reduced to mono first (stereo pairs are averaged), then split into
// two channels with leftGain=cos(a), rightGain=sin(a) for a=(pan+1)·π/4, so
// leftGain²+rightGain²==1 across the whole field. Output is always stereo.
func Pan(buf *audio.Buffer, opts Options) *audio.Buffer {
	rate := buf.SampleRate()
	length := buf.Len()

	pan := math.Max(-1, math.Min(1, opts.pan(0)))
	angle := (pan + 1) * math.Pi / 4
	leftGain := float32(math.Cos(angle))
	rightGain := float32(math.Sin(angle))

	var mono []float32
	if buf.Channels() == 1 {
		mono = buf.Channel(0)
	} else {
		left := buf.Channel(0)
		right := buf.Channel(minInt(1, buf.Channels()-1))
		mono = make([]float32, length)
		for i := 0; i < length; i++ {
			mono[i] = (left[i] + right[i]) * 0.5
		}
	}

	out := audio.New(2, length, rate)
	outL := out.Channel(0)
	outR := out.Channel(1)
	for i, s := range mono {
		outL[i] = audio.Clamp(s * leftGain)
		outR[i] = audio.Clamp(s * rightGain)
	}
	return out
}
