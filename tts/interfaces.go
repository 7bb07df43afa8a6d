package tts

import (
	"context"

	"github.com/sylm54/narrate/audio"
)

// Synthesizer turns text into mono PCM samples. Implementations live under
// tts/engines; the speed parameter is the engine-native rate after remapping,
// not the user-facing script speed.
type Synthesizer interface {
	// Synthesize renders text with the given voice style. Samples are
	// normalized float32 in [-1, 1] at SampleRate.
	Synthesize(ctx context.Context, text string, style Style, speed float64) ([]float32, error)

	// SampleRate reports the rate of buffers returned by Synthesize.
	SampleRate() int

	// Close releases engine resources. The engine is unusable afterwards.
	Close() error
}

// SoundResolver locates named sound effects for <sound> elements.
type SoundResolver interface {
	// Resolve returns the decoded clip for a sound key. A lookup miss
	// returns an error wrapping ErrSoundNotFound.
	Resolve(key string) (*audio.Buffer, error)
}
