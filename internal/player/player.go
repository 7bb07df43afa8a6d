// Package player plays finished narration buffers on the default audio
// device via oto. It exists for the play command only; generation never
// touches the audio device.
package player

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/sylm54/narrate/audio"
)

// Play renders a buffer to the default output device and blocks until
// playback finishes or the context is canceled. The oto context is created
// per call; the play command runs exactly once per process.
func Play(ctx context.Context, buf *audio.Buffer) error {
	if buf == nil || buf.Len() == 0 {
		return errors.New("no audio to play")
	}

	channels := buf.Channels()
	if channels > 2 {
		channels = 2
	}

	op := &oto.NewContextOptions{
		SampleRate:   buf.SampleRate(),
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
	}
	otoCtx, ready, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("failed to open audio device: %w", err)
	}
	<-ready

	p := otoCtx.NewPlayer(bytes.NewReader(pcm16(buf, channels)))
	defer p.Close()
	p.Play()

	// oto has no completion callback; poll until the player drains.
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for p.IsPlaying() {
		select {
		case <-ctx.Done():
			p.Pause()
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

// pcm16 interleaves the buffer into 16-bit little endian PCM with the given
// channel count. Buffers wider than the target fold extra channels into the
// last one.
func pcm16(buf *audio.Buffer, channels int) []byte {
	length := buf.Len()
	out := make([]byte, length*channels*2)
	for i := 0; i < length; i++ {
		for ch := 0; ch < channels; ch++ {
			src := ch
			if src >= buf.Channels() {
				src = buf.Channels() - 1
			}
			s := audio.Clamp(buf.Channel(src)[i])
			v := int16(s * 32767.0)
			binary.LittleEndian.PutUint16(out[(i*channels+ch)*2:], uint16(v))
		}
	}
	return out
}
