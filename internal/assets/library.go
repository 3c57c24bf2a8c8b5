// Package assets generates the game's sprites and tracks loading progress.
//
// Sprites are rasterized from recipes on a worker pool before play starts. A
// Barrier counts them in so the session can refuse to start until they are
// all ready.
package assets

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Library holds loaded sprites. It is safe for concurrent use.
type Library struct {
	mu      sync.RWMutex
	sprites map[string]*Sprite
}

// NewLibrary creates an empty library
func NewLibrary() *Library {
	return &Library{sprites: make(map[string]*Sprite)}
}

// Load builds every recipe concurrently and reports each one to the barrier.
// On the first failure the remaining work is cancelled and the barrier is
// marked failed.
func (l *Library) Load(ctx context.Context, recipes []Recipe, barrier *Barrier) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for _, r := range recipes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s, err := Build(r)
			if err != nil {
				return err
			}
			l.mu.Lock()
			l.sprites[s.Name] = s
			l.mu.Unlock()
			if barrier != nil {
				barrier.Loaded()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		err = fmt.Errorf("failed to load assets: %w", err)
		if barrier != nil {
			barrier.Fail(err)
		}
		return err
	}
	return nil
}

// Sprite returns a loaded sprite by name
func (l *Library) Sprite(name string) (*Sprite, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	s, ok := l.sprites[name]
	return s, ok
}

// Names returns loaded sprite names in sorted order
func (l *Library) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.sprites))
	for n := range l.sprites {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// All returns loaded sprites in name order
func (l *Library) All() []*Sprite {
	names := l.Names()
	out := make([]*Sprite, 0, len(names))
	for _, n := range names {
		s, _ := l.Sprite(n)
		out = append(out, s)
	}
	return out
}
