package audio

import (
	"errors"
	"fmt"
	"io"
	"os"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

var (
	// ErrInvalidWAV is returned for streams that are not RIFF/WAVE PCM.
	ErrInvalidWAV = errors.New("invalid WAV data")
)

// Normalization divisors per source bit depth. Unrecognized depths fall back
// to the 16-bit divisor.
const (
	div16 = 32768.0
	div24 = 8388608.0
	div32 = 2147483648.0
)

// ReadWAV decodes a PCM WAV stream into a buffer. 16, 24 and 32-bit input is
// supported; anything else is read as 16-bit.
func ReadWAV(r io.ReadSeeker) (*Buffer, error) {
	dec := wav.NewDecoder(r)
	dec.ReadInfo()
	if !dec.IsValidFile() {
		return nil, ErrInvalidWAV
	}

	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decoding WAV: %w", err)
	}

	channels := pcm.Format.NumChannels
	if channels < 1 {
		return nil, ErrInvalidWAV
	}

	var div float64
	switch dec.BitDepth {
	case 24:
		div = div24
	case 32:
		div = div32
	default:
		div = div16
	}

	frames := len(pcm.Data) / channels
	out := New(channels, frames, pcm.Format.SampleRate)
	for i, s := range pcm.Data[:frames*channels] {
		out.data[i%channels][i/channels] = float32(float64(s) / div)
	}
	return out, nil
}

// ReadFile decodes a WAV file from disk.
func ReadFile(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck
	return ReadWAV(f)
}

// WriteWAV encodes the buffer as 16-bit signed PCM WAV. Samples are clamped
// to [-1, 1] before quantization.
func (b *Buffer) WriteWAV(w io.WriteSeeker) error {
	channels := b.Channels()
	length := b.Len()

	data := make([]int, length*channels)
	for ch := 0; ch < channels; ch++ {
		src := b.data[ch]
		for i := 0; i < length; i++ {
			data[i*channels+ch] = int(Clamp(src[i]) * 32767.0)
		}
	}

	enc := wav.NewEncoder(w, b.rate, 16, channels, 1)
	if err := enc.Write(&gaudio.IntBuffer{
		Data:           data,
		Format:         &gaudio.Format{NumChannels: channels, SampleRate: b.rate},
		SourceBitDepth: 16,
	}); err != nil {
		return fmt.Errorf("encoding WAV: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalizing WAV: %w", err)
	}
	return nil
}

// WriteFile writes the buffer to disk as a 16-bit WAV file.
func (b *Buffer) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := b.WriteWAV(f); err != nil {
		f.Close() //nolint:errcheck,gosec
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
