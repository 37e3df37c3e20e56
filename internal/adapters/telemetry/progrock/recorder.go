// Package progrock provides the Progrock implementation of the telemetry adapter.
package progrock

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Telemetry = (*Recorder)(nil)

// Recorder implements ports.Telemetry by recording one progrock vertex per build step.
type Recorder struct {
	w   progrock.Writer
	rec *progrock.Recorder
}

// NewJournal creates a Recorder that streams every status update as JSON lines
// to the file at path, creating its directory.
func NewJournal(path string) (*Recorder, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create journal directory"), "path", path)
	}
	w, err := progrock.CreateJournal(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create journal"), "path", path)
	}
	return NewRecorder(w), nil
}

// NewRecorder creates a new Recorder with the given writer.
func NewRecorder(w progrock.Writer) *Recorder {
	sw := &syncWriter{w: w}
	return &Recorder{
		w:   sw,
		rec: progrock.NewRecorder(sw),
	}
}

// Record starts a vertex named after the step. The digest is derived from the
// name so the same step always maps to the same vertex.
func (r *Recorder) Record(ctx context.Context, name string) (context.Context, ports.Vertex) {
	v := r.rec.Vertex(digest.FromString(name), name)
	vertex := &Vertex{vertex: v}
	return ports.ContextWithVertex(ctx, vertex), vertex
}

// Close marks the session complete and closes the writer.
func (r *Recorder) Close() error {
	r.rec.Complete()
	return r.w.Close()
}

// syncWriter serializes status updates from concurrent workers.
type syncWriter struct {
	mu sync.Mutex
	w  progrock.Writer
}

func (s *syncWriter) WriteStatus(update *progrock.StatusUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.WriteStatus(update)
}

func (s *syncWriter) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Close()
}
