package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
)

// ErrUnsupportedFormat is returned for extensions Decode does not handle.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Decode reads an audio stream in the container named by ext (".wav", ".mp3"
// or ".ogg") into a buffer.
func Decode(r io.Reader, ext string) (*Buffer, error) {
	switch strings.ToLower(ext) {
	case ".wav":
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading WAV stream: %w", err)
		}
		return ReadWAV(bytes.NewReader(data))
	case ".mp3":
		return decodeMP3(r)
	case ".ogg":
		return decodeOGG(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// decodeMP3 decodes an MP3 stream. go-mp3 always emits 16-bit little-endian
// stereo PCM.
func decodeMP3(r io.Reader) (*Buffer, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("decoding MP3: %w", err)
	}

	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("reading MP3 samples: %w", err)
	}

	frames := len(raw) / 4 // 2 channels x 2 bytes
	left := make([]float32, frames)
	right := make([]float32, frames)
	for i := 0; i < frames; i++ {
		left[i] = float32(int16(uint16(raw[4*i])|uint16(raw[4*i+1])<<8)) / 32768.0
		right[i] = float32(int16(uint16(raw[4*i+2])|uint16(raw[4*i+3])<<8)) / 32768.0
	}
	return FromStereo(left, right, dec.SampleRate()), nil
}

// decodeOGG decodes an Ogg/Vorbis stream of interleaved float samples.
func decodeOGG(r io.Reader) (*Buffer, error) {
	samples, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decoding OGG: %w", err)
	}

	channels := format.Channels
	if channels < 1 {
		return nil, fmt.Errorf("decoding OGG: no channels")
	}

	frames := len(samples) / channels
	out := New(channels, frames, format.SampleRate)
	for i, s := range samples[:frames*channels] {
		out.data[i%channels][i/channels] = s
	}
	return out, nil
}
