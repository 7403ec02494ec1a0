// Package viewer holds the state of the single movie detail view.
//
// Every Show call takes a new generation token. A load result is published
// only while its token is still current, so a slow response for a movie the
// user has moved away from never overwrites the newer view.
package viewer

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/varoOP/fliq/internal/domain"
)

type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateSuccess State = "success"
	StateError   State = "error"
)

// Snapshot is the published view state.
type Snapshot struct {
	State      State             `json:"state"`
	MovieID    int               `json:"movieId"`
	View       *domain.MovieView `json:"view,omitempty"`
	Err        string            `json:"error,omitempty"`
	Generation uint64            `json:"generation"`
}

// Observer receives every published snapshot. Observers run with the viewer
// locked and must not call back into it.
type Observer func(Snapshot)

type Loader interface {
	Load(ctx context.Context, id int) (*domain.MovieView, error)
}

type Viewer struct {
	log    zerolog.Logger
	loader Loader

	mu        sync.Mutex
	current   Snapshot
	observers []Observer
}

func New(log zerolog.Logger, loader Loader) *Viewer {
	return &Viewer{
		log:     log.With().Str("module", "viewer").Logger(),
		loader:  loader,
		current: Snapshot{State: StateIdle},
	}
}

func (v *Viewer) Subscribe(o Observer) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.observers = append(v.observers, o)
}

// Snapshot returns the current state.
func (v *Viewer) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Show enters loading for id and loads it in the background. The returned
// channel delivers the final snapshot of this request, or is closed without a
// value if a later Show or Dismiss supersedes it.
func (v *Viewer) Show(ctx context.Context, id int) <-chan Snapshot {
	v.mu.Lock()
	gen := v.current.Generation + 1
	v.publish(Snapshot{State: StateLoading, MovieID: id, Generation: gen})
	v.mu.Unlock()

	done := make(chan Snapshot, 1)

	go func() {
		defer close(done)

		view, err := v.loader.Load(ctx, id)

		v.mu.Lock()
		defer v.mu.Unlock()

		if v.current.Generation != gen {
			v.log.Debug().Int("id", id).Uint64("generation", gen).Uint64("current", v.current.Generation).Msg("discarding stale result")
			return
		}

		next := Snapshot{State: StateSuccess, MovieID: id, View: view, Generation: gen}
		if err != nil {
			next = Snapshot{State: StateError, MovieID: id, Err: err.Error(), Generation: gen}
		}

		v.publish(next)
		done <- next
	}()

	return done
}

// Dismiss returns to idle and invalidates any in-flight load.
func (v *Viewer) Dismiss() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.publish(Snapshot{State: StateIdle, Generation: v.current.Generation + 1})
}

// publish requires v.mu.
func (v *Viewer) publish(s Snapshot) {
	v.current = s
	for _, o := range v.observers {
		o(s)
	}
}
