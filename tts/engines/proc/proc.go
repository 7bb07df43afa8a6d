// Package proc runs an external synthesizer binary per segment. Text goes in
// on stdin; a WAV stream comes back on stdout. Any binary with that contract
// works, which keeps the heavy model runtime out of this process.
package proc

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/sylm54/narrate/audio"
	"github.com/sylm54/narrate/tts"
)

// Engine shells out to a synthesizer binary.
type Engine struct {
	cfg  tts.ProcConfig
	rate int
}

// New builds a subprocess engine. sampleRate is the rate segments are
// resampled to after decoding, so differing binary output rates still
// compose.
func New(cfg tts.ProcConfig, sampleRate int) *Engine {
	return &Engine{cfg: cfg, rate: sampleRate}
}

// Synthesize invokes the binary once. The voice style path and engine speed
// are passed as flags; the WAV on stdout is decoded, mixed to mono, and
// resampled to the engine rate.
func (e *Engine) Synthesize(ctx context.Context, text string, style tts.Style, speed float64) ([]float32, error) {
	runCtx := ctx
	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}

	args := append([]string{}, e.cfg.Args...)
	args = append(args,
		"--voice", style.Path,
		"--speed", strconv.FormatFloat(speed, 'f', 4, 64),
	)

	cmd := exec.CommandContext(runCtx, e.cfg.Binary, args...)
	cmd.Stdin = strings.NewReader(text)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Debug("Running synthesizer", "binary", e.cfg.Binary, "voice", style.File, "chars", len(text))
	if err := cmd.Run(); err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			return nil, tts.NewError(tts.ErrTimeout, "proc engine", "run synthesizer")
		}
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return nil, tts.NewError(err, "proc engine", "run synthesizer")
	}

	buf, err := audio.ReadWAV(bytes.NewReader(stdout.Bytes()))
	if err != nil {
		return nil, tts.NewError(err, "proc engine", "decode output")
	}
	return buf.Resample(e.rate).ToMono(), nil
}

// SampleRate reports the engine output rate.
func (e *Engine) SampleRate() int {
	return e.rate
}

// Close is a no-op; each synthesis runs its own process.
func (e *Engine) Close() error {
	return nil
}
