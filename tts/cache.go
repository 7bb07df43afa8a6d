package tts

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/sylm54/narrate/audio"
)

// defaultCacheEntries bounds the in-memory segment cache. Scripts repeat
// lines inside <loop> blocks far more often than they exceed this.
const defaultCacheEntries = 256

// segmentCache memoizes synthesized segments within a process. Keys cover
// everything that changes the rendered audio: text, voice file, and speed.
type segmentCache struct {
	mu      sync.Mutex
	entries map[string]*audio.Buffer
	order   []string
	max     int
}

func newSegmentCache(max int) *segmentCache {
	if max <= 0 {
		max = defaultCacheEntries
	}
	return &segmentCache{
		entries: make(map[string]*audio.Buffer, max),
		max:     max,
	}
}

// key derives a stable cache key from the synthesis inputs.
func (c *segmentCache) key(text, voiceFile string, speed float64) string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%.4f", text, voiceFile, speed)))
	return hex.EncodeToString(h[:])
}

// get returns a clone of the cached buffer so callers can mutate freely.
func (c *segmentCache) get(key string) (*audio.Buffer, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	buf, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return buf.Clone(), true
}

func (c *segmentCache) put(key string, buf *audio.Buffer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; exists {
		return
	}
	if len(c.order) >= c.max {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[key] = buf.Clone()
	c.order = append(c.order, key)
}

func (c *segmentCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
