// Package audit appends one JSON line per successful mutation to a trail
// file, so deletions and edits can be traced after the fact.
package audit

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

type Action string

const (
	ActionCreate Action = "CREATE"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

// Event is one recorded mutation
type Event struct {
	Action Action
	Entity string
	ID     int64
	Fields map[string]interface{}
}

// Recorder receives mutation events
type Recorder interface {
	Record(Event)
}

// Trail writes events as JSON lines
type Trail struct {
	mu     sync.Mutex
	logger zerolog.Logger
	closer io.Closer
}

// NewTrail writes to w
func NewTrail(w io.Writer) *Trail {
	return &Trail{
		logger: zerolog.New(w).With().Timestamp().Logger(),
	}
}

// Open appends to the trail file at path, creating it and its directory
func Open(path string) (*Trail, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("audit: create dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("audit: open %s: %w", path, err)
	}

	t := NewTrail(f)
	t.closer = f
	return t, nil
}

func (t *Trail) Record(e Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	event := t.logger.Log().
		Str("action", string(e.Action)).
		Str("entity", e.Entity).
		Int64("id", e.ID)
	if len(e.Fields) > 0 {
		event = event.Fields(e.Fields)
	}
	event.Send()
}

func (t *Trail) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closer == nil {
		return nil
	}
	err := t.closer.Close()
	t.closer = nil
	return err
}

type nop struct{}

func (nop) Record(Event) {}

// Nop discards events
func Nop() Recorder { return nop{} }
