package tts

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sylm54/narrate/progress"
	"github.com/sylm54/narrate/script"
	"github.com/sylm54/narrate/utils"
)

// AssetFetcher prepares model and voice files before a job runs. Fetch
// failures abort the job.
type AssetFetcher interface {
	EnsureModels(ctx context.Context) error
	EnsureVoices(ctx context.Context) error
}

// Job describes one script-to-audio run.
type Job struct {
	ID     string
	Script string
	Title  string
	Voice  string
	Speed  float64
}

// NewJobID derives a job identifier from the current wall clock.
func NewJobID() string {
	return fmt.Sprintf("tts-%d", time.Now().UnixMilli())
}

// Generator owns everything a job needs and runs jobs to completion.
type Generator struct {
	narrator  *Narrator
	sounds    SoundResolver
	assets    AssetFetcher
	outputDir string
	notify    progress.Notifier
}

// NewGenerator wires a job runner. assets may be nil when model files are
// already on disk; notify may be nil.
func NewGenerator(narrator *Narrator, sounds SoundResolver, assets AssetFetcher, outputDir string, notify progress.Notifier) *Generator {
	return &Generator{
		narrator:  narrator,
		sounds:    sounds,
		assets:    assets,
		outputDir: outputDir,
		notify:    notify,
	}
}

// Generate runs one job and returns the path of the written WAV file.
//
// The pipeline is prefetch assets, preprocess and parse the script, evaluate
// the tree, write the result. Progress events cover the stages in order;
// evaluation owns the 0.1 to 1.0 range.
func (g *Generator) Generate(ctx context.Context, job Job) (string, error) {
	if strings.TrimSpace(job.Script) == "" {
		return "", NewError(ErrEmptyScript, "generator", "generate")
	}
	if job.ID == "" {
		job.ID = NewJobID()
	}

	log.Info("Starting narration job", "job", job.ID, "voice", job.Voice, "speed", job.Speed)
	g.notify.Notify(progress.Event{
		JobID:    job.ID,
		Message:  "Starting narration job",
		Progress: 0.0,
		Stage:    progress.StageStart,
	})

	if g.assets != nil {
		if err := g.assets.EnsureModels(ctx); err != nil {
			return "", err
		}
		if err := g.assets.EnsureVoices(ctx); err != nil {
			return "", err
		}
	}

	root, err := script.Parse(script.Preprocess(job.Script))
	if err != nil {
		return "", NewError(err, "generator", "parse script")
	}

	interp := NewInterpreter(g.narrator, g.sounds, job.Voice, job.Speed, job.ID, g.notify)
	buf, err := interp.Evaluate(ctx, root)
	if err != nil {
		return "", err
	}

	g.notify.Notify(progress.Event{
		JobID:    job.ID,
		Message:  "Writing audio file",
		Progress: 0.99,
		Stage:    progress.StageWrite,
	})

	path := filepath.Join(g.outputDir, outputName(job)+".wav")
	if err := utils.EnsureParentDir(path); err != nil {
		return "", NewError(err, "generator", "create output directory")
	}
	if err := buf.WriteFile(path); err != nil {
		return "", NewError(err, "generator", "write wav")
	}

	log.Info("Narration job complete", "job", job.ID, "file", path, "duration", buf.Duration())
	g.notify.Notify(progress.Event{
		JobID:    job.ID,
		Message:  "Done",
		Progress: 1.0,
		Stage:    progress.StageComplete,
	})
	return path, nil
}

// outputName derives the output filename stem from the job title, falling
// back to the job ID. Characters outside [A-Za-z0-9._-] become underscores.
func outputName(job Job) string {
	title := strings.TrimSpace(job.Title)
	if title == "" {
		return job.ID
	}
	var b strings.Builder
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
