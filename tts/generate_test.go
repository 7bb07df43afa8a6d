package tts

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sylm54/narrate/audio"
	"github.com/sylm54/narrate/progress"
)

func newTestGenerator(t *testing.T, fetcher AssetFetcher) (*Generator, *[]progress.Event, string) {
	t.Helper()

	engine := newStubEngine()
	narrator := NewNarrator(engine, t.TempDir())
	outDir := t.TempDir()

	events := &[]progress.Event{}
	notify := func(e progress.Event) { *events = append(*events, e) }

	gen := NewGenerator(narrator, &stubSounds{}, fetcher, outDir, notify)
	return gen, events, outDir
}

func TestGenerate(t *testing.T) {
	t.Run("writes a playable wav", func(t *testing.T) {
		gen, _, outDir := newTestGenerator(t, nil)

		path, err := gen.Generate(context.Background(), Job{
			Script: "Hello world",
			Title:  "My Title!",
			Voice:  "female",
			Speed:  1.0,
		})
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if want := filepath.Join(outDir, "My_Title_.wav"); path != want {
			t.Errorf("path = %q, want %q", path, want)
		}

		buf, err := audio.ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		if buf.Len() != 1000 {
			t.Errorf("Len() = %d, want 1000", buf.Len())
		}
		if buf.SampleRate() != 24000 {
			t.Errorf("SampleRate() = %d, want 24000", buf.SampleRate())
		}
	})

	t.Run("falls back to the job id for the filename", func(t *testing.T) {
		gen, _, _ := newTestGenerator(t, nil)

		path, err := gen.Generate(context.Background(), Job{Script: "Hi", Voice: "female", Speed: 1.0})
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		base := filepath.Base(path)
		if !strings.HasPrefix(base, "tts-") || !strings.HasSuffix(base, ".wav") {
			t.Errorf("filename = %q, want tts-<millis>.wav", base)
		}
	})

	t.Run("empty script is rejected", func(t *testing.T) {
		gen, _, _ := newTestGenerator(t, nil)

		for _, script := range []string{"", "   \n\t"} {
			if _, err := gen.Generate(context.Background(), Job{Script: script}); !errors.Is(err, ErrEmptyScript) {
				t.Errorf("Generate(%q) error = %v, want ErrEmptyScript", script, err)
			}
		}
	})

	t.Run("prefetches assets once each", func(t *testing.T) {
		fetcher := &stubFetcher{}
		gen, _, _ := newTestGenerator(t, fetcher)

		if _, err := gen.Generate(context.Background(), Job{Script: "Hi", Voice: "female", Speed: 1.0}); err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if fetcher.modelCalls != 1 || fetcher.voiceCalls != 1 {
			t.Errorf("fetch calls = %d/%d, want 1/1", fetcher.modelCalls, fetcher.voiceCalls)
		}
	})

	t.Run("fetch failure aborts the job", func(t *testing.T) {
		fetcher := &stubFetcher{err: NewError(ErrDownloadFailed, "assets", "fetch")}
		gen, _, _ := newTestGenerator(t, fetcher)

		if _, err := gen.Generate(context.Background(), Job{Script: "Hi"}); !errors.Is(err, ErrDownloadFailed) {
			t.Errorf("error = %v, want ErrDownloadFailed", err)
		}
	})

	t.Run("emits stages in order", func(t *testing.T) {
		gen, events, _ := newTestGenerator(t, nil)

		if _, err := gen.Generate(context.Background(), Job{Script: "Hi", Voice: "female", Speed: 1.0}); err != nil {
			t.Fatalf("Generate() error = %v", err)
		}

		evs := *events
		if len(evs) < 4 {
			t.Fatalf("events = %d, want at least start, generate, write, complete", len(evs))
		}
		if evs[0].Stage != progress.StageStart || evs[0].Progress != 0.0 {
			t.Errorf("first event = %+v, want start at 0", evs[0])
		}
		last := evs[len(evs)-1]
		if last.Stage != progress.StageComplete || last.Progress != 1.0 {
			t.Errorf("last event = %+v, want complete at 1", last)
		}
		if evs[len(evs)-2].Stage != progress.StageWrite {
			t.Errorf("penultimate stage = %q, want write", evs[len(evs)-2].Stage)
		}

		// All events carry the same job id.
		id := evs[0].JobID
		for _, e := range evs {
			if e.JobID != id {
				t.Errorf("job id drifted: %q vs %q", e.JobID, id)
			}
		}
	})
}

func TestNewJobID(t *testing.T) {
	id := NewJobID()
	if !strings.HasPrefix(id, "tts-") {
		t.Errorf("id = %q, want tts- prefix", id)
	}
}

func TestOutputName(t *testing.T) {
	tests := []struct {
		name  string
		job   Job
		want  string
	}{
		{"plain title", Job{ID: "tts-1", Title: "hello"}, "hello"},
		{"special characters replaced", Job{ID: "tts-1", Title: "a b/c:d"}, "a_b_c_d"},
		{"kept punctuation", Job{ID: "tts-1", Title: "v1.2_final-x"}, "v1.2_final-x"},
		{"empty title uses id", Job{ID: "tts-1"}, "tts-1"},
		{"whitespace title uses id", Job{ID: "tts-1", Title: "  "}, "tts-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputName(tt.job); got != tt.want {
				t.Errorf("outputName() = %q, want %q", got, tt.want)
			}
		})
	}
}
