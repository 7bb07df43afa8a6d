// Package effects transforms audio buffers: echo, binaural beats,
// constant-power panning, gain scaling and silence trimming, driven by
// optional-valued option records with named presets.
package effects

import "encoding/json"

// Options is an optional-valued effect parameter record. A nil field means
// "use the default or the value inherited from a merge base".
type Options struct {
	// Echo
	Delay   *float64 `json:"delay,omitempty"`
	Decay   *float64 `json:"decay,omitempty"`
	Repeats *int     `json:"repeats,omitempty"`

	// Binaural beats
	Hz        *float64 `json:"hz,omitempty"`
	Offset    *float64 `json:"offset,omitempty"`
	Amplitude *float64 `json:"amplitude,omitempty"`
	FadeMs    *float64 `json:"fadeMs,omitempty"`

	// Panning, -1 full left through +1 full right
	Pan *float64 `json:"pan,omitempty"`
}

// ParseOptions decodes a JSON options payload. Malformed input yields empty
// options rather than an error; a bad payload must not abort a script.
func ParseOptions(payload string) Options {
	var o Options
	if err := json.Unmarshal([]byte(payload), &o); err != nil {
		return Options{}
	}
	return o
}

// Merge combines the receiver (base) with an override record: fields present
// in the override win, absent fields keep the base value. Presets merge as
// base with per-tag JSON options as override.
func (o Options) Merge(override Options) Options {
	out := o
	if override.Delay != nil {
		out.Delay = override.Delay
	}
	if override.Decay != nil {
		out.Decay = override.Decay
	}
	if override.Repeats != nil {
		out.Repeats = override.Repeats
	}
	if override.Hz != nil {
		out.Hz = override.Hz
	}
	if override.Offset != nil {
		out.Offset = override.Offset
	}
	if override.Amplitude != nil {
		out.Amplitude = override.Amplitude
	}
	if override.FadeMs != nil {
		out.FadeMs = override.FadeMs
	}
	if override.Pan != nil {
		out.Pan = override.Pan
	}
	return out
}

func (o Options) delay(def float64) float64     { return orElse(o.Delay, def) }
func (o Options) decay(def float64) float64     { return orElse(o.Decay, def) }
func (o Options) hz(def float64) float64        { return orElse(o.Hz, def) }
func (o Options) offset(def float64) float64    { return orElse(o.Offset, def) }
func (o Options) amplitude(def float64) float64 { return orElse(o.Amplitude, def) }
func (o Options) fadeMs(def float64) float64    { return orElse(o.FadeMs, def) }
func (o Options) pan(def float64) float64       { return orElse(o.Pan, def) }

func (o Options) repeats(def int) int {
	if o.Repeats != nil {
		return *o.Repeats
	}
	return def
}

func orElse(v *float64, def float64) float64 {
	if v != nil {
		return *v
	}
	return def
}

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }
