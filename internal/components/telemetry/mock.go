package telemetry

import (
	"context"
	"slices"
	"sync"

	"github.com/nerrad567/piplant-core/internal/component"
	"github.com/nerrad567/piplant-core/internal/plant"
)

// Recorder is a sink that keeps every batch it receives.
type Recorder struct {
	name string

	mu      sync.Mutex
	batches [][]plant.Reading
	events  []plant.LightEvent
	err     error
}

// NewRecorder returns an empty recorder.
func NewRecorder(name string) *Recorder {
	return &Recorder{name: name}
}

// Name returns the sink name.
func (r *Recorder) Name() string { return r.name }

// Publish records a copy of readings, or returns the error set by Fail.
func (r *Recorder) Publish(_ context.Context, readings []plant.Reading) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.batches = append(r.batches, slices.Clone(readings))
	return nil
}

// PublishLightEvent records ev, or returns the error set by Fail.
func (r *Recorder) PublishLightEvent(_ context.Context, ev plant.LightEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, ev)
	return nil
}

// LightEvents returns the recorded light events, oldest first.
func (r *Recorder) LightEvents() []plant.LightEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

// Fail makes later publishes return err. Nil restores normal behaviour.
func (r *Recorder) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// Batches returns the recorded batches, oldest first.
func (r *Recorder) Batches() [][]plant.Reading {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.batches)
}

func newRecorder(_ context.Context, args component.Args) (any, error) {
	name := args.String("name", "mock")
	if err := args.Err(); err != nil {
		return nil, err
	}
	return NewRecorder(name), nil
}
