package tts

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/sylm54/narrate/audio"
	"github.com/sylm54/narrate/effects"
	"github.com/sylm54/narrate/progress"
	"github.com/sylm54/narrate/script"
)

// defaultPauseSeconds applies when a <pause> element has no value attribute.
const defaultPauseSeconds = 1.0

// Interpreter walks a parsed script tree and renders it to audio segments.
// Voice and speed are dynamically scoped: a <voice> or <speed> element
// affects its subtree only, and siblings see the enclosing values again.
type Interpreter struct {
	narrator *Narrator
	sounds   SoundResolver
	rate     int

	voice string
	speed float64

	jobID     string
	notify    progress.Notifier
	processed int
	total     int
}

// NewInterpreter builds an interpreter with the job's initial voice and
// speed. notify may be nil.
func NewInterpreter(narrator *Narrator, sounds SoundResolver, voice string, speed float64, jobID string, notify progress.Notifier) *Interpreter {
	return &Interpreter{
		narrator: narrator,
		sounds:   sounds,
		rate:     narrator.SampleRate(),
		voice:    voice,
		speed:    speed,
		jobID:    jobID,
		notify:   notify,
	}
}

// Evaluate renders the whole tree into one buffer. Progress runs from 0.1 to
// 1.0 proportional to nodes visited; the first tenth belongs to asset
// preparation before evaluation starts.
func (it *Interpreter) Evaluate(ctx context.Context, root *script.Node) (*audio.Buffer, error) {
	it.total = root.Count()
	it.processed = 0

	segments, err := it.processNode(ctx, root)
	if err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		return audio.New(1, 1, it.rate), nil
	}
	return audio.Concat(segments)
}

// processNode renders one node and returns its audio segments in order.
func (it *Interpreter) processNode(ctx context.Context, n *script.Node) ([]*audio.Buffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewError(ErrCanceled, "interpreter", "evaluate")
	}
	it.step()

	if n.Type == script.TextNode {
		return it.processText(ctx, n.Data)
	}

	switch n.Data {
	case "speed":
		return it.processSpeed(ctx, n)
	case "voice":
		return it.processVoice(ctx, n)
	case "pause":
		return it.processPause(ctx, n)
	case "overlay":
		return it.processOverlay(ctx, n)
	case "sound":
		return it.processSound(ctx, n)
	case "effect":
		return it.processEffect(ctx, n)
	case "loop":
		return it.processLoop(ctx, n)
	case "volume":
		return it.processVolume(ctx, n)
	default:
		return it.processChildren(ctx, n)
	}
}

func (it *Interpreter) processChildren(ctx context.Context, n *script.Node) ([]*audio.Buffer, error) {
	var segments []*audio.Buffer
	for _, c := range n.Children {
		segs, err := it.processNode(ctx, c)
		if err != nil {
			return nil, err
		}
		segments = append(segments, segs...)
	}
	return segments, nil
}

// concatChildren renders a node's children into a single buffer, or nil when
// they produce no audio.
func (it *Interpreter) concatChildren(ctx context.Context, n *script.Node) (*audio.Buffer, error) {
	segments, err := it.processChildren(ctx, n)
	if err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		return nil, nil
	}
	return audio.Concat(segments)
}

func (it *Interpreter) processText(ctx context.Context, raw string) ([]*audio.Buffer, error) {
	text := CleanText(raw)
	if text == "" {
		return nil, nil
	}
	buf, err := it.narrator.Speak(ctx, text, it.voice, it.speed)
	if err != nil {
		return nil, err
	}
	return []*audio.Buffer{buf}, nil
}

// processSpeed sets the narration speed for the subtree, then restores it.
// Without a value attribute the enclosing speed stays in effect; a value that
// fails to parse means 1.0.
func (it *Interpreter) processSpeed(ctx context.Context, n *script.Node) ([]*audio.Buffer, error) {
	saved := it.speed
	if raw, ok := n.Attr("value"); ok {
		it.speed = 1.0
		if v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
			it.speed = v
		}
	}
	defer func() { it.speed = saved }()
	return it.processChildren(ctx, n)
}

// processVoice sets the narration voice for the subtree, then restores it.
func (it *Interpreter) processVoice(ctx context.Context, n *script.Node) ([]*audio.Buffer, error) {
	saved := it.voice
	if v, ok := n.Attr("value"); ok && strings.TrimSpace(v) != "" {
		it.voice = strings.TrimSpace(v)
	}
	defer func() { it.voice = saved }()
	return it.processChildren(ctx, n)
}

// processPause emits silence, then any nested content after it.
func (it *Interpreter) processPause(ctx context.Context, n *script.Node) ([]*audio.Buffer, error) {
	seconds := defaultPauseSeconds
	if v, ok := attrFloat(n, "value"); ok {
		seconds = v
	}
	if seconds < 0 {
		seconds = 0
	}
	segments := []*audio.Buffer{audio.Silence(seconds, it.rate)}

	rest, err := it.processChildren(ctx, n)
	if err != nil {
		return nil, err
	}
	return append(segments, rest...), nil
}

// processOverlay mixes its <part> children on top of each other. Each part
// is rendered to one track; tracks are summed with clamping. Children that
// are not parts contribute nothing.
func (it *Interpreter) processOverlay(ctx context.Context, n *script.Node) ([]*audio.Buffer, error) {
	var tracks []*audio.Buffer
	for _, c := range n.Children {
		if c.Type != script.ElementNode || c.Data != "part" {
			continue
		}
		it.step()
		track, err := it.concatChildren(ctx, c)
		if err != nil {
			return nil, err
		}
		if track != nil {
			tracks = append(tracks, track)
		}
	}
	if len(tracks) == 0 {
		return nil, nil
	}
	mixed, err := audio.Merge(tracks)
	if err != nil {
		return nil, err
	}
	return []*audio.Buffer{mixed}, nil
}

// processSound plays a named clip. A clip that cannot be resolved is skipped
// with a warning; the script keeps going.
func (it *Interpreter) processSound(ctx context.Context, n *script.Node) ([]*audio.Buffer, error) {
	var segments []*audio.Buffer
	if key, ok := n.Attr("value"); ok && key != "" {
		clip, err := it.sounds.Resolve(key)
		if err != nil {
			log.Warn("Sound not found, skipping", "sound", key)
		} else {
			segments = append(segments, clip.Resample(it.rate))
		}
	}
	rest, err := it.processChildren(ctx, n)
	if err != nil {
		return nil, err
	}
	return append(segments, rest...), nil
}

// processEffect renders its children and applies the named effect to the
// result. Options come from the preset attribute first, with the options
// JSON attribute overriding individual fields. An effect with no audible
// children produces nothing.
func (it *Interpreter) processEffect(ctx context.Context, n *script.Node) ([]*audio.Buffer, error) {
	buf, err := it.concatChildren(ctx, n)
	if err != nil {
		return nil, err
	}
	if buf == nil {
		return nil, nil
	}

	name, _ := n.Attr("value")
	opts := effects.Options{}
	if presetName, ok := n.Attr("preset"); ok {
		if preset, found := effects.Preset(name, presetName); found {
			opts = preset
		} else {
			log.Warn("Unknown effect preset", "effect", name, "preset", presetName)
		}
	}
	if payload, ok := n.Attr("options"); ok {
		opts = opts.Merge(effects.ParseOptions(payload))
	}

	return []*audio.Buffer{effects.Apply(name, buf, opts)}, nil
}

// processLoop repeats its rendered children value times. A negative value is
// rejected like any other unparsable one and plays a single pass.
func (it *Interpreter) processLoop(ctx context.Context, n *script.Node) ([]*audio.Buffer, error) {
	count := 1
	if v, ok := attrInt(n, "value"); ok && v >= 0 {
		count = v
	}

	buf, err := it.concatChildren(ctx, n)
	if err != nil {
		return nil, err
	}
	if buf == nil {
		return nil, nil
	}

	segments := make([]*audio.Buffer, 0, count)
	for r := 0; r < count; r++ {
		segments = append(segments, buf)
	}
	return segments, nil
}

// processVolume scales its rendered children by value. Negative values clamp
// to zero.
func (it *Interpreter) processVolume(ctx context.Context, n *script.Node) ([]*audio.Buffer, error) {
	factor := 1.0
	if v, ok := attrFloat(n, "value"); ok {
		factor = v
	}
	if factor < 0 {
		factor = 0
	}

	buf, err := it.concatChildren(ctx, n)
	if err != nil {
		return nil, err
	}
	if buf == nil {
		return nil, nil
	}
	return []*audio.Buffer{effects.Gain(buf, factor)}, nil
}

// step advances the progress counter by one node. Parts inside overlays are
// stepped by their parent as well, so progress can momentarily run ahead of
// the node total; the ratio is capped at 1.
func (it *Interpreter) step() {
	it.processed++
	if it.total <= 0 {
		return
	}
	ratio := float64(it.processed) / float64(it.total)
	if ratio > 1 {
		ratio = 1
	}
	it.notify.Notify(progress.Event{
		JobID:    it.jobID,
		Message:  fmt.Sprintf("Generating audio (%d/%d)", it.processed, it.total),
		Progress: 0.1 + 0.9*ratio,
		Stage:    progress.StageGenerate,
	})
}

func attrFloat(n *script.Node, name string) (float64, bool) {
	raw, ok := n.Attr(name)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func attrInt(n *script.Node, name string) (int, bool) {
	raw, ok := n.Attr(name)
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	return v, true
}
