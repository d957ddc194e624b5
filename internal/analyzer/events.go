package analyzer

import "github.com/rkuznets/dupaudit/internal/model"

// EventType classifies a pipeline progress event
type EventType string

const (
	EventRunStarted      EventType = "run_started"
	EventRunFinished     EventType = "run_finished"
	EventTypeStarted     EventType = "type_started"      // One content type begins processing
	EventTypeFinished    EventType = "type_finished"     // One content type has a merged section
	EventSamplingApplied EventType = "sampling_applied"
	EventBatchDone       EventType = "batch_done"        // One enrichment batch resolved
	EventEnrichSkipped   EventType = "enrichment_skipped"
	EventTypeFailed      EventType = "type_failed"       // Isolated failure; run continues
)

// Event is emitted at defined pipeline boundaries. Observability is
// decoupled from control flow: handlers must not block for long and cannot
// influence processing.
type Event struct {
	Type        EventType         `json:"type"`
	ContentType model.ContentType `json:"content_type,omitempty"`
	Message     string            `json:"message,omitempty"`
}

// EventFunc receives pipeline events
type EventFunc func(Event)

func (a *Analyzer) emit(e Event) {
	if a.events != nil {
		a.events(e)
	}
}
