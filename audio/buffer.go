// Package audio implements the sample buffer the whole pipeline is built on:
// per-channel float32 PCM at a sample rate, with concatenation, mixing,
// linear resampling, mono reduction and WAV/MP3/OGG decoding.
package audio

import (
	"errors"
	"math"
	"time"
)

// DefaultSampleRate is the working rate used when no buffer dictates one.
const DefaultSampleRate = 24000

var (
	// ErrNilBuffer is returned when a nil buffer is passed to a combinator.
	ErrNilBuffer = errors.New("nil audio buffer")
)

// Buffer holds equal-length channel sample slices at a sample rate. Samples
// are nominally in [-1, 1]. A zero-length buffer is legal and represents
// nothing.
type Buffer struct {
	data [][]float32
	rate int
}

// New creates a silent buffer with the given shape.
func New(channels, length, rate int) *Buffer {
	data := make([][]float32, channels)
	for ch := range data {
		data[ch] = make([]float32, length)
	}
	return &Buffer{data: data, rate: rate}
}

// FromMono wraps a single channel of samples. The buffer takes ownership of
// the slice.
func FromMono(samples []float32, rate int) *Buffer {
	return &Buffer{data: [][]float32{samples}, rate: rate}
}

// FromStereo wraps a left/right channel pair. Both slices must have the same
// length.
func FromStereo(left, right []float32, rate int) *Buffer {
	return &Buffer{data: [][]float32{left, right}, rate: rate}
}

// Silence returns a mono buffer of seconds*rate zero samples, truncated to an
// integer sample count.
func Silence(seconds float64, rate int) *Buffer {
	return New(1, int(seconds*float64(rate)), rate)
}

// Channels reports the channel count.
func (b *Buffer) Channels() int { return len(b.data) }

// Len reports the per-channel sample count.
func (b *Buffer) Len() int {
	if len(b.data) == 0 {
		return 0
	}
	return len(b.data[0])
}

// SampleRate reports the buffer's sample rate in Hz.
func (b *Buffer) SampleRate() int { return b.rate }

// Duration reports the playing time of the buffer.
func (b *Buffer) Duration() time.Duration {
	if b.rate == 0 {
		return 0
	}
	return time.Duration(float64(b.Len()) / float64(b.rate) * float64(time.Second))
}

// Channel returns the sample slice for one channel. The caller must not grow
// it.
func (b *Buffer) Channel(ch int) []float32 { return b.data[ch] }

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	out := &Buffer{data: make([][]float32, len(b.data)), rate: b.rate}
	for ch, src := range b.data {
		dst := make([]float32, len(src))
		copy(dst, src)
		out.data[ch] = dst
	}
	return out
}

// ToMono reduces the buffer to a single channel by averaging all channels
// sample by sample.
func (b *Buffer) ToMono() []float32 {
	length := b.Len()
	mono := make([]float32, length)
	n := float32(b.Channels())
	if n == 0 {
		return mono
	}
	for _, ch := range b.data {
		for i := 0; i < length; i++ {
			mono[i] += ch[i] / n
		}
	}
	return mono
}

// Resample converts the buffer to the target rate using per-channel linear
// interpolation. Matching rates return the receiver unchanged.
func (b *Buffer) Resample(rate int) *Buffer {
	if b.rate == rate {
		return b
	}

	ratio := float64(b.rate) / float64(rate)
	srcLen := b.Len()
	newLen := int(math.Ceil(float64(srcLen) / ratio))

	out := New(b.Channels(), newLen, rate)
	for ch, src := range b.data {
		dst := out.data[ch]
		for i := 0; i < newLen; i++ {
			pos := float64(i) * ratio
			idx := int(pos)
			frac := pos - float64(idx)

			switch {
			case idx+1 < srcLen:
				dst[i] = float32(float64(src[idx])*(1-frac) + float64(src[idx+1])*frac)
			case idx < srcLen:
				dst[i] = src[idx]
			}
		}
	}
	return out
}

// Concat joins buffers back to back. Every buffer is resampled to the first
// buffer's rate; the result is as wide as the widest input, with narrower
// buffers repeating their last channel. An empty input yields a one-sample
// silent placeholder so downstream math never divides by zero.
func Concat(buffers []*Buffer) (*Buffer, error) {
	if len(buffers) == 0 {
		return New(1, 1, DefaultSampleRate), nil
	}

	resampled, channels, err := reconcile(buffers)
	if err != nil {
		return nil, err
	}
	rate := resampled[0].rate

	total := 0
	for _, b := range resampled {
		total += b.Len()
	}

	out := New(channels, total, rate)
	offset := 0
	for _, b := range resampled {
		for ch := 0; ch < channels; ch++ {
			src := b.data[min(ch, b.Channels()-1)]
			copy(out.data[ch][offset:], src)
		}
		offset += b.Len()
	}
	return out, nil
}

// Merge mixes buffers by summing corresponding samples, with the same rate
// and channel reconciliation as Concat. The result is as long as the longest
// input, and every sample is hard-clamped to [-1, 1]; overlapping loud
// sources clip rather than being rescaled.
func Merge(buffers []*Buffer) (*Buffer, error) {
	if len(buffers) == 0 {
		return New(1, 1, DefaultSampleRate), nil
	}

	resampled, channels, err := reconcile(buffers)
	if err != nil {
		return nil, err
	}
	rate := resampled[0].rate

	longest := 0
	for _, b := range resampled {
		if b.Len() > longest {
			longest = b.Len()
		}
	}

	out := New(channels, longest, rate)
	for _, b := range resampled {
		for ch := 0; ch < channels; ch++ {
			src := b.data[min(ch, b.Channels()-1)]
			dst := out.data[ch]
			for i, s := range src {
				dst[i] = Clamp(dst[i] + s)
			}
		}
	}
	return out, nil
}

// reconcile resamples all buffers to the first buffer's rate and reports the
// widest channel count.
func reconcile(buffers []*Buffer) ([]*Buffer, int, error) {
	rate := 0
	for _, b := range buffers {
		if b == nil {
			return nil, 0, ErrNilBuffer
		}
		if rate == 0 {
			rate = b.rate
		}
	}

	resampled := make([]*Buffer, len(buffers))
	channels := 1
	for i, b := range buffers {
		resampled[i] = b.Resample(rate)
		if c := resampled[i].Channels(); c > channels {
			channels = c
		}
	}
	return resampled, channels, nil
}

// Clamp limits a sample to the nominal [-1, 1] range.
func Clamp(v float32) float32 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
