// Package telemetry provides a JSONL event stream for recording what a
// scheduling run did. Every run start, task placement, conflict, removed
// link and critical path is recorded as a structured JSON event, making runs
// auditable and comparable across project revisions.
package telemetry

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event kinds identify the type of telemetry event.
const (
	KindScheduleStart = "schedule_start"
	KindTaskScheduled = "task_scheduled"
	KindConflict      = "conflict"
	KindLinkRemoved   = "link_removed"
	KindScheduleDone  = "schedule_done"
	KindCriticalPath  = "critical_path"
)

// Event represents a single telemetry record. Each event carries a timestamp,
// a kind tag, and optional context identifiers (run, file, task) along with
// arbitrary structured data.
type Event struct {
	Timestamp time.Time `json:"ts"`
	Kind      string    `json:"kind"`
	RunID     string    `json:"run,omitempty"`
	File      string    `json:"file,omitempty"`
	TaskID    string    `json:"task,omitempty"`
	Data      any       `json:"data,omitempty"`
}

// Emitter writes telemetry events as JSONL. It is safe for concurrent
// use by multiple goroutines. A nil *Emitter is a valid no-op emitter.
type Emitter struct {
	w     io.Writer
	close func() error
	enc   *json.Encoder
	runID string
	mu    sync.Mutex
}

// NewEmitter creates a new Emitter that writes JSONL events to the file at
// path. The file is created if it does not exist, or appended to if it does.
func NewEmitter(path string) (*Emitter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("telemetry: open %s: %w", path, err)
	}
	em := NewWriterEmitter(f)
	em.close = f.Close
	return em, nil
}

// NewWriterEmitter creates an Emitter writing to w. Close does not close w.
func NewWriterEmitter(w io.Writer) *Emitter {
	return &Emitter{
		w:     w,
		enc:   json.NewEncoder(w),
		runID: uuid.NewString(),
	}
}

// RunID returns the identifier stamped on every event from this emitter.
// A nil Emitter has no run ID.
func (e *Emitter) RunID() string {
	if e == nil {
		return ""
	}
	return e.runID
}

// Emit writes a single event. A zero Timestamp is set to the current time
// and an empty RunID to the emitter's run ID. It is safe for concurrent use.
// Calling Emit on a nil Emitter is a no-op.
func (e *Emitter) Emit(evt Event) error {
	if e == nil {
		return nil
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	if evt.RunID == "" {
		evt.RunID = e.runID
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.enc.Encode(evt); err != nil {
		return fmt.Errorf("telemetry: encode event: %w", err)
	}
	return nil
}

// Close closes the underlying file, if the emitter owns one. Calling Close
// on a nil Emitter is a no-op.
func (e *Emitter) Close() error {
	if e == nil || e.close == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.close(); err != nil {
		return fmt.Errorf("telemetry: close: %w", err)
	}
	return nil
}

// Decode parses one JSONL line into an Event. Data is decoded into
// generic JSON values.
func Decode(line []byte) (Event, error) {
	var evt Event
	if err := json.Unmarshal(line, &evt); err != nil {
		return Event{}, fmt.Errorf("telemetry: decode event: %w", err)
	}
	return evt, nil
}

// ReadAll decodes every non-empty line of r. Decoding stops at the first
// malformed line.
func ReadAll(r io.Reader) ([]Event, error) {
	var events []Event
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		evt, err := Decode(line)
		if err != nil {
			return events, err
		}
		events = append(events, evt)
	}
	if err := scanner.Err(); err != nil {
		return events, fmt.Errorf("telemetry: read: %w", err)
	}
	return events, nil
}
