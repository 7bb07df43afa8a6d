// Package progress carries job lifecycle events from the audio pipeline to an
// optional listener. Delivery is fire-and-forget: the pipeline never blocks on
// a listener and never inspects delivery failures.
//
// The reported ratio is 0.1 + 0.9*(processed/total), where total is computed
// by a full pre-order traversal before evaluation starts. Overlay parts bump
// the processed counter once extra per part, so the raw ratio can run ahead
// of the node total; emitters cap it at 1.0.
package progress

// Stage labels the phase of a job an event belongs to.
type Stage string

const (
	StageStart    Stage = "start"
	StageDownload Stage = "download"
	StageGenerate Stage = "generate"
	StageWrite    Stage = "write"
	StageComplete Stage = "complete"
)

// Event is a single progress report for a job.
type Event struct {
	JobID    string  `json:"job_id"`
	Message  string  `json:"message"`
	Progress float64 `json:"progress"`
	Stage    Stage   `json:"stage"`
}

// Notifier receives progress events. A nil Notifier is valid and drops
// everything.
type Notifier func(Event)

// Notify delivers an event if a listener is attached.
func (n Notifier) Notify(e Event) {
	if n != nil {
		n(e)
	}
}

// Discard is a Notifier that ignores every event.
func Discard(Event) {}
