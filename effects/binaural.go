package effects

import (
	"math"

	"github.com/sylm54/narrate/audio"
)

// Binaural defaults.
const (
	defaultBinauralHz        = 200
	defaultBinauralOffset    = 4
	defaultBinauralAmplitude = 0.08
	defaultBinauralFadeMs    = 10
)

// Binaural mixes a pure sine carrier pair onto the program audio: channel 0
// receives hz-offset/2, channel 1 hz+offset/2. Mono input is widened to
// stereo so both tones exist. The tone fades linearly in and out over fadeMs
// at each end; the program audio itself is not faded. Phase accumulates per
// sample and wraps at 2π.
func Binaural(buf *audio.Buffer, opts Options) *audio.Buffer {
	rate := buf.SampleRate()
	length := buf.Len()
	inChannels := buf.Channels()

	hz := math.Max(opts.hz(defaultBinauralHz), 1)
	offset := math.Max(opts.offset(defaultBinauralOffset), 0)
	amplitude := opts.amplitude(defaultBinauralAmplitude)
	fadeSamples := int(math.Max(opts.fadeMs(defaultBinauralFadeMs)/1000*float64(rate), 1))

	lower := hz - offset/2
	upper := hz + offset/2
	twoPi := 2 * math.Pi

	outChannels := inChannels
	if outChannels == 1 {
		outChannels = 2
	}
	out := audio.New(outChannels, length, rate)

	for ch := 0; ch < outChannels; ch++ {
		src := buf.Channel(minInt(ch, inChannels-1))
		dst := out.Channel(ch)

		freq := lower
		if ch == 1 {
			freq = upper
		}
		phaseInc := twoPi * freq / float64(rate)
		phase := 0.0

		for i := 0; i < length; i++ {
			tone := amplitude * math.Sin(phase)
			phase += phaseInc
			if phase > twoPi {
				phase -= twoPi
			}

			if i < fadeSamples {
				tone *= float64(i) / float64(fadeSamples)
			} else if i > length-fadeSamples {
				tone *= float64(length-i) / float64(fadeSamples)
			}

			dst[i] = audio.Clamp(src[i] + float32(tone))
		}
	}
	return out
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
