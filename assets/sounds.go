package assets

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/sylm54/narrate/audio"
	"github.com/sylm54/narrate/tts"
)

//go:embed sounds/*.wav
var embeddedSounds embed.FS

// soundFiles maps sound keys to their embedded clip filenames.
var soundFiles = map[string]string{
	"beep":           "beep_low_high.wav",
	"pop":            "pop.wav",
	"bubble_pop":     "bubble_pop.wav",
	"camera_shutter": "camera_shutter.wav",
	"censor_beep":    "censor_beep.wav",
	"heart_beat":     "heart_beat.wav",
	"padlock":        "padlock.wav",
	"snap":           "snap.wav",
}

// soundExtensions are tried in order when probing directories for a clip
// named after its key.
var soundExtensions = []string{".wav", ".mp3", ".ogg"}

// SoundLibrary resolves <sound> keys to decoded clips. Built-in clips ship
// embedded in the binary; SoundsDir and ResourceDir let users add or shadow
// clips with their own files. Decoded clips are cached per key.
type SoundLibrary struct {
	// SoundsDir is the user's sound directory, searched after the
	// embedded set.
	SoundsDir string
	// ResourceDir is an installation-provided directory, searched last.
	ResourceDir string
	// TargetRate resamples every resolved clip when positive.
	TargetRate int

	mu    sync.Mutex
	cache map[string]*audio.Buffer
}

// Resolve returns the clip for a sound key. The embedded set is consulted
// first, then SoundsDir and ResourceDir, probing both the canonical filename
// and key plus a known extension. A miss wraps tts.ErrSoundNotFound.
func (l *SoundLibrary) Resolve(key string) (*audio.Buffer, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return nil, tts.NewError(tts.ErrSoundNotFound, "sounds", "resolve")
	}

	l.mu.Lock()
	if buf, ok := l.cache[key]; ok {
		l.mu.Unlock()
		return buf.Clone(), nil
	}
	l.mu.Unlock()

	buf, err := l.load(key)
	if err != nil {
		return nil, err
	}
	if l.TargetRate > 0 {
		buf = buf.Resample(l.TargetRate)
	}

	l.mu.Lock()
	if l.cache == nil {
		l.cache = make(map[string]*audio.Buffer)
	}
	l.cache[key] = buf
	l.mu.Unlock()
	return buf.Clone(), nil
}

func (l *SoundLibrary) load(key string) (*audio.Buffer, error) {
	if file, ok := soundFiles[key]; ok {
		data, err := embeddedSounds.ReadFile("sounds/" + file)
		if err == nil {
			buf, derr := audio.ReadWAV(bytes.NewReader(data))
			if derr == nil {
				log.Debug("Resolved embedded sound", "sound", key)
				return buf, nil
			}
			log.Warn("Embedded sound is corrupt", "sound", key, "error", derr)
		}
	}

	for _, dir := range []string{l.SoundsDir, l.ResourceDir} {
		if dir == "" {
			continue
		}
		if buf, ok := loadFromDir(dir, key); ok {
			return buf, nil
		}
	}
	return nil, tts.NewError(fmt.Errorf("%w: %s", tts.ErrSoundNotFound, key), "sounds", "resolve")
}

// loadFromDir probes a directory for the clip under its canonical filename
// or as key plus extension.
func loadFromDir(dir, key string) (*audio.Buffer, bool) {
	candidates := make([]string, 0, len(soundExtensions)+1)
	if file, ok := soundFiles[key]; ok {
		candidates = append(candidates, file)
	}
	for _, ext := range soundExtensions {
		candidates = append(candidates, key+ext)
	}

	for _, name := range candidates {
		path := filepath.Join(dir, name)
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		buf, err := audio.Decode(f, filepath.Ext(name))
		f.Close()
		if err != nil {
			log.Warn("Failed to decode sound file", "path", path, "error", err)
			continue
		}
		log.Debug("Resolved sound from disk", "sound", key, "path", path)
		return buf, true
	}
	return nil, false
}

// SoundNames returns the built-in sound keys in sorted order.
func SoundNames() []string {
	names := make([]string, 0, len(soundFiles))
	for name := range soundFiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
