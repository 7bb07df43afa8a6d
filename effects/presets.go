package effects

// Named option bundles per effect family. A preset is a merge base: explicit
// per-tag options override any field it sets.

var binauralPresets = map[string]Options{
	"delta": {Hz: fptr(400), Offset: fptr(2)},
	"theta": {Hz: fptr(400), Offset: fptr(6)},
	"alpha": {Hz: fptr(400), Offset: fptr(10)},
	"beta":  {Hz: fptr(400), Offset: fptr(20)},
	"gamma": {Hz: fptr(400), Offset: fptr(40)},
}

var echoPresets = map[string]Options{
	"light":  {Delay: fptr(0.1), Decay: fptr(0.3), Repeats: iptr(2)},
	"medium": {Delay: fptr(0.2), Decay: fptr(0.5), Repeats: iptr(3)},
	"heavy":  {Delay: fptr(0.2), Decay: fptr(0.6), Repeats: iptr(4)},
}

var panPresets = map[string]Options{
	"left":  {Pan: fptr(-1)},
	"right": {Pan: fptr(1)},
}

// Preset looks up a named preset for an effect family.
func Preset(effect, name string) (Options, bool) {
	var table map[string]Options
	switch effect {
	case "echo":
		table = echoPresets
	case "binaural":
		table = binauralPresets
	case "pan":
		table = panPresets
	default:
		return Options{}, false
	}
	o, ok := table[name]
	return o, ok
}
