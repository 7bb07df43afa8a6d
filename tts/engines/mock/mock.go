// Package mock provides a deterministic speech engine for tests and dry
// runs. Output length depends only on word count and configured pace, so
// callers can predict buffer sizes exactly.
package mock

import (
	"context"
	"math"
	"strings"
	"sync"

	"github.com/sylm54/narrate/tts"
)

const toneHz = 220.0

// Engine synthesizes a quiet sine tone sized to the input text.
type Engine struct {
	cfg  tts.MockConfig
	rate int

	mu     sync.Mutex
	closed bool
	calls  []Call
}

// Call records one synthesis request for assertions.
type Call struct {
	Text  string
	Style tts.Style
	Speed float64
}

// New builds a mock engine at the given output rate.
func New(cfg tts.MockConfig, sampleRate int) *Engine {
	if cfg.SecondsPerWord <= 0 {
		cfg.SecondsPerWord = 0.3
	}
	return &Engine{cfg: cfg, rate: sampleRate}
}

// Synthesize renders one tone segment. Duration is words times the
// configured seconds per word, divided by speed.
func (e *Engine) Synthesize(ctx context.Context, text string, style tts.Style, speed float64) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil, tts.ErrEngineShutdown
	}
	e.calls = append(e.calls, Call{Text: text, Style: style, Speed: speed})
	e.mu.Unlock()

	if e.cfg.FailAlways {
		return nil, tts.ErrSynthesisFailed
	}

	words := len(strings.Fields(text))
	if words == 0 {
		words = 1
	}
	if speed <= 0 {
		speed = 1
	}
	n := int(float64(words) * e.cfg.SecondsPerWord / speed * float64(e.rate))
	if n < 1 {
		n = 1
	}

	samples := make([]float32, n)
	step := 2 * math.Pi * toneHz / float64(e.rate)
	for i := range samples {
		samples[i] = float32(0.2 * math.Sin(step*float64(i)))
	}
	return samples, nil
}

// SampleRate reports the configured output rate.
func (e *Engine) SampleRate() int {
	return e.rate
}

// Close marks the engine shut down; further synthesis fails.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	return nil
}

// Calls returns a copy of all recorded synthesis requests.
func (e *Engine) Calls() []Call {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Call, len(e.calls))
	copy(out, e.calls)
	return out
}
