// Package assets manages the files a narration job needs on disk: the model
// bundle and voice styles fetched from the model repository, and the sound
// effect library.
package assets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/sylm54/narrate/progress"
	"github.com/sylm54/narrate/tts"
	"github.com/sylm54/narrate/utils"
)

// modelFiles is the model bundle served by the repository.
var modelFiles = []string{
	"duration_predictor.onnx",
	"text_encoder.onnx",
	"vector_estimator.onnx",
	"vocoder.onnx",
	"tts.json",
	"unicode_indexer.json",
}

// Manager downloads missing model and voice files. Files already on disk are
// never re-fetched; a failed download aborts the job rather than degrading
// it.
type Manager struct {
	// BaseURL is the model repository root. Model files live under onnx/,
	// voice styles under voice_styles/.
	BaseURL string
	// ModelDir receives the model bundle.
	ModelDir string
	// VoiceDir receives voice style files.
	VoiceDir string
	// Client defaults to a client with a five minute timeout.
	Client *http.Client
	// JobID and Notify attribute download progress to a job. Notify may
	// be nil.
	JobID  string
	Notify progress.Notifier
}

// EnsureModels fetches any missing model bundle files, sequentially.
func (m *Manager) EnsureModels(ctx context.Context) error {
	return m.ensure(ctx, m.ModelDir, "onnx", modelFiles)
}

// EnsureVoices fetches any missing voice style files, sequentially.
func (m *Manager) EnsureVoices(ctx context.Context) error {
	return m.ensure(ctx, m.VoiceDir, "voice_styles", tts.VoiceFiles())
}

func (m *Manager) ensure(ctx context.Context, dir, remoteDir string, files []string) error {
	if err := utils.EnsureDir(dir); err != nil {
		return tts.NewError(err, "assets", "create directory")
	}
	for _, file := range files {
		path := filepath.Join(dir, file)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := m.fetch(ctx, remoteDir, file, path); err != nil {
			return err
		}
	}
	return nil
}

// fetch downloads one file to a temporary name and renames it into place, so
// an interrupted download never leaves a truncated file behind.
func (m *Manager) fetch(ctx context.Context, remoteDir, file, dest string) error {
	url := m.BaseURL + "/" + remoteDir + "/" + file

	m.Notify.Notify(progress.Event{
		JobID:    m.JobID,
		Message:  fmt.Sprintf("Downloading %s", file),
		Progress: 0.05,
		Stage:    progress.StageDownload,
	})
	log.Info("Downloading asset", "file", file, "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return tts.NewError(fmt.Errorf("%w: %v", tts.ErrDownloadFailed, err), "assets", "build request")
	}

	resp, err := m.client().Do(req)
	if err != nil {
		return tts.NewError(fmt.Errorf("%w: %v", tts.ErrDownloadFailed, err), "assets", "fetch "+file)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return tts.NewError(
			fmt.Errorf("%w: %s returned %s", tts.ErrDownloadFailed, url, resp.Status),
			"assets", "fetch "+file)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+file+".*")
	if err != nil {
		return tts.NewError(err, "assets", "create temp file")
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, resp.Body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return tts.NewError(fmt.Errorf("%w: %v", tts.ErrDownloadFailed, err), "assets", "write "+file)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return tts.NewError(err, "assets", "rename "+file)
	}

	log.Info("Downloaded asset", "file", file, "size", humanize.Bytes(uint64(n)))
	return nil
}

func (m *Manager) client() *http.Client {
	if m.Client != nil {
		return m.Client
	}
	return &http.Client{Timeout: 5 * time.Minute}
}
