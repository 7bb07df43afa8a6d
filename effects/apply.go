package effects

import (
	"github.com/charmbracelet/log"

	"github.com/sylm54/narrate/audio"
)

// Apply dispatches a named effect. Unknown names log a warning and pass the
// input through unchanged; an unrecognized effect never aborts a script.
func Apply(name string, buf *audio.Buffer, opts Options) *audio.Buffer {
	switch name {
	case "echo":
		return Echo(buf, opts)
	case "binaural":
		return Binaural(buf, opts)
	case "pan":
		return Pan(buf, opts)
	default:
		log.Warn("Unknown effect, passing audio through", "effect", name)
		return buf
	}
}
