package tts

import (
	"context"
	"fmt"
	"sync"

	"github.com/sylm54/narrate/audio"
)

// stubEngine returns a fixed number of constant 0.5 samples per call, so
// segment lengths are exactly predictable.
type stubEngine struct {
	rate    int
	samples int
	fail    bool

	mu    sync.Mutex
	calls []stubCall
}

type stubCall struct {
	text  string
	style Style
	speed float64
}

func newStubEngine() *stubEngine {
	return &stubEngine{rate: 24000, samples: 1000}
}

func (e *stubEngine) Synthesize(ctx context.Context, text string, style Style, speed float64) ([]float32, error) {
	e.mu.Lock()
	e.calls = append(e.calls, stubCall{text: text, style: style, speed: speed})
	e.mu.Unlock()

	if e.fail {
		return nil, ErrSynthesisFailed
	}
	out := make([]float32, e.samples)
	for i := range out {
		out[i] = 0.5
	}
	return out, nil
}

func (e *stubEngine) SampleRate() int { return e.rate }
func (e *stubEngine) Close() error    { return nil }

func (e *stubEngine) callCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.calls)
}

func (e *stubEngine) call(i int) stubCall {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls[i]
}

func mkbuf(v float32) *audio.Buffer {
	return audio.FromMono([]float32{v, v}, 24000)
}

// stubSounds resolves only the clips it was given.
type stubSounds struct {
	clips map[string]*audio.Buffer
}

func (s *stubSounds) Resolve(key string) (*audio.Buffer, error) {
	if clip, ok := s.clips[key]; ok {
		return clip.Clone(), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrSoundNotFound, key)
}

// stubFetcher counts prefetch calls and can fail on demand.
type stubFetcher struct {
	modelCalls int
	voiceCalls int
	err        error
}

func (f *stubFetcher) EnsureModels(context.Context) error {
	f.modelCalls++
	return f.err
}

func (f *stubFetcher) EnsureVoices(context.Context) error {
	f.voiceCalls++
	return f.err
}
