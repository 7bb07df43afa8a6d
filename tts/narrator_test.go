package tts

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
)

func TestRemapSpeed(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"slowest", 0.5, 0.75},
		{"normal", 1.0, 0.75 + (0.5/1.5)*0.5},
		{"fastest", 2.0, 1.25},
		{"midpoint", 1.25, 1.0},
		{"clamped low", 0.1, 0.75},
		{"clamped high", 3.0, 1.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RemapSpeed(tt.in); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("RemapSpeed(%f) = %f, want %f", tt.in, got, tt.want)
			}
		})
	}
}

func TestNarratorSpeak(t *testing.T) {
	t.Run("conditions engine output", func(t *testing.T) {
		engine := newStubEngine()
		n := NewNarrator(engine, t.TempDir())

		buf, err := n.Speak(context.Background(), "Hello there", "female", 1.0)
		if err != nil {
			t.Fatalf("Speak() error = %v", err)
		}
		// Constant 0.5 signal survives trimming whole; gain leaves 0.425.
		if buf.Len() != 1000 {
			t.Errorf("Len() = %d, want 1000", buf.Len())
		}
		if got := buf.Channel(0)[500]; math.Abs(float64(got)-0.425) > 1e-6 {
			t.Errorf("sample = %f, want 0.425", got)
		}
	})

	t.Run("prepends the sentence primer", func(t *testing.T) {
		engine := newStubEngine()
		n := NewNarrator(engine, t.TempDir())

		if _, err := n.Speak(context.Background(), "Hello", "female", 1.0); err != nil {
			t.Fatalf("Speak() error = %v", err)
		}
		if got := engine.call(0).text; !strings.HasPrefix(got, ". ") {
			t.Errorf("engine text = %q, want \". \" prefix", got)
		}
	})

	t.Run("resolves the voice style", func(t *testing.T) {
		engine := newStubEngine()
		n := NewNarrator(engine, "/voices")

		if _, err := n.Speak(context.Background(), "Hello", "male2", 1.0); err != nil {
			t.Fatalf("Speak() error = %v", err)
		}
		call := engine.call(0)
		if call.style.File != "M2.json" {
			t.Errorf("style file = %q, want M2.json", call.style.File)
		}
		if call.speed != RemapSpeed(1.0) {
			t.Errorf("speed = %f, want %f", call.speed, RemapSpeed(1.0))
		}
	})

	t.Run("caches repeated segments", func(t *testing.T) {
		engine := newStubEngine()
		n := NewNarrator(engine, t.TempDir())

		for i := 0; i < 3; i++ {
			if _, err := n.Speak(context.Background(), "Same line", "female", 1.0); err != nil {
				t.Fatalf("Speak() error = %v", err)
			}
		}
		if engine.callCount() != 1 {
			t.Errorf("engine calls = %d, want 1", engine.callCount())
		}

		// A different speed is a different segment.
		if _, err := n.Speak(context.Background(), "Same line", "female", 1.5); err != nil {
			t.Fatalf("Speak() error = %v", err)
		}
		if engine.callCount() != 2 {
			t.Errorf("engine calls = %d, want 2", engine.callCount())
		}
	})

	t.Run("synthesis failure is fatal", func(t *testing.T) {
		engine := newStubEngine()
		engine.fail = true
		n := NewNarrator(engine, t.TempDir())

		_, err := n.Speak(context.Background(), "Hello", "female", 1.0)
		if !errors.Is(err, ErrSynthesisFailed) {
			t.Errorf("error = %v, want ErrSynthesisFailed", err)
		}
	})
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  Hello   world \n", "Hello world"},
		{"\n\t ", ""},
		{"one", "one"},
	}
	for _, tt := range tests {
		if got := CleanText(tt.in); got != tt.want {
			t.Errorf("CleanText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSegmentCache(t *testing.T) {
	t.Run("hit returns independent copy", func(t *testing.T) {
		c := newSegmentCache(4)
		key := c.key("a", "F1.json", 1.0)
		c.put(key, mkbuf(0.3))

		got, ok := c.get(key)
		if !ok {
			t.Fatal("expected cache hit")
		}
		got.Channel(0)[0] = 0.9

		again, _ := c.get(key)
		if again.Channel(0)[0] != 0.3 {
			t.Error("cache entry was mutated through a returned copy")
		}
	})

	t.Run("evicts oldest beyond capacity", func(t *testing.T) {
		c := newSegmentCache(2)
		k1 := c.key("a", "F1.json", 1.0)
		k2 := c.key("b", "F1.json", 1.0)
		k3 := c.key("c", "F1.json", 1.0)
		c.put(k1, mkbuf(0.1))
		c.put(k2, mkbuf(0.2))
		c.put(k3, mkbuf(0.3))

		if _, ok := c.get(k1); ok {
			t.Error("oldest entry should have been evicted")
		}
		if c.len() != 2 {
			t.Errorf("len() = %d, want 2", c.len())
		}
	})

	t.Run("keys separate inputs", func(t *testing.T) {
		c := newSegmentCache(4)
		if c.key("a", "F1.json", 1.0) == c.key("a", "M1.json", 1.0) {
			t.Error("voice should change the key")
		}
		if c.key("a", "F1.json", 1.0) == c.key("a", "F1.json", 1.5) {
			t.Error("speed should change the key")
		}
	})
}
