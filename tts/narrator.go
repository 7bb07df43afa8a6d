package tts

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/sylm54/narrate/audio"
	"github.com/sylm54/narrate/effects"
)

// Post-synthesis conditioning constants. Raw engine output carries leading
// and trailing room tone plus occasional near-clipping peaks.
const (
	trimThreshold   = 0.002
	trimWindowMs    = 20.0
	attenuation     = 0.85
	sentencePrimer  = ". "
	minScriptSpeed  = 0.5
	maxScriptSpeed  = 2.0
	minEngineSpeed  = 0.75
	engineSpeedSpan = 0.5
)

// Narrator wraps a Synthesizer with voice resolution, speed remapping,
// post-processing, and per-process segment caching.
type Narrator struct {
	engine   Synthesizer
	voiceDir string
	cache    *segmentCache
}

// NewNarrator builds a Narrator around an engine. voiceDir is where style
// embedding files live.
func NewNarrator(engine Synthesizer, voiceDir string) *Narrator {
	return &Narrator{
		engine:   engine,
		voiceDir: voiceDir,
		cache:    newSegmentCache(defaultCacheEntries),
	}
}

// RemapSpeed converts user-facing script speed in [0.5, 2.0] onto the
// engine-native range [0.75, 1.25]. Out-of-range input is clamped first.
func RemapSpeed(speed float64) float64 {
	if speed < minScriptSpeed {
		speed = minScriptSpeed
	}
	if speed > maxScriptSpeed {
		speed = maxScriptSpeed
	}
	return minEngineSpeed + ((speed-minScriptSpeed)/(maxScriptSpeed-minScriptSpeed))*engineSpeedSpan
}

// Speak synthesizes one text segment at the given voice and script speed,
// returning conditioned audio. Synthesis failures are fatal to the job;
// there is no degraded narration.
func (n *Narrator) Speak(ctx context.Context, text, voice string, speed float64) (*audio.Buffer, error) {
	style := ResolveStyle(voice, n.voiceDir)
	engineSpeed := RemapSpeed(speed)

	key := n.cache.key(text, style.File, engineSpeed)
	if buf, ok := n.cache.get(key); ok {
		log.Debug("Segment cache hit", "voice", style.Key, "chars", len(text))
		return buf, nil
	}

	// The leading primer stabilizes the model's first phoneme timing.
	samples, err := n.engine.Synthesize(ctx, sentencePrimer+text, style, engineSpeed)
	if err != nil {
		return nil, NewError(fmt.Errorf("%w: %v", ErrSynthesisFailed, err), "narrator", "synthesize")
	}

	buf := audio.FromMono(samples, n.engine.SampleRate())
	buf = effects.TrimSilence(buf, trimThreshold, trimWindowMs)
	buf = effects.Gain(buf, attenuation)

	n.cache.put(key, buf)
	return buf, nil
}

// SampleRate reports the engine's output rate.
func (n *Narrator) SampleRate() int {
	return n.engine.SampleRate()
}

// Close shuts down the underlying engine.
func (n *Narrator) Close() error {
	return n.engine.Close()
}

// CleanText collapses whitespace runs in a text segment. Synthesis skips
// segments that are empty after cleaning.
func CleanText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
