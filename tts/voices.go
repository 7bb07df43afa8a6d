package tts

import (
	"path/filepath"
	"sort"
	"strings"
)

// defaultVoiceFile is used when a script or config names an unknown voice.
const defaultVoiceFile = "F1.json"

// voiceFiles maps user-facing voice names to their style embedding files in
// the model repository.
var voiceFiles = map[string]string{
	"female":  "F1.json",
	"female2": "F2.json",
	"male":    "M1.json",
	"male2":   "M2.json",
}

// Style identifies a resolved voice style.
type Style struct {
	Key  string // lowercase voice name
	File string // style embedding filename, e.g. "F1.json"
	Path string // absolute path under the voice directory
}

// ResolveStyle maps a voice name to its style file. Unknown names fall back
// to the default female voice so a typo in a script never aborts a job.
func ResolveStyle(voice, voiceDir string) Style {
	key := strings.ToLower(strings.TrimSpace(voice))
	file, ok := voiceFiles[key]
	if !ok {
		file = defaultVoiceFile
	}
	return Style{
		Key:  key,
		File: file,
		Path: filepath.Join(voiceDir, file),
	}
}

// VoiceNames returns the known voice names in sorted order.
func VoiceNames() []string {
	names := make([]string, 0, len(voiceFiles))
	for name := range voiceFiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// VoiceFiles returns the style embedding filenames for all known voices, one
// entry per file.
func VoiceFiles() []string {
	seen := make(map[string]bool, len(voiceFiles))
	files := make([]string, 0, len(voiceFiles))
	for _, f := range voiceFiles {
		if !seen[f] {
			seen[f] = true
			files = append(files, f)
		}
	}
	sort.Strings(files)
	return files
}
