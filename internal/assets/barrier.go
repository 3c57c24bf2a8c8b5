package assets

import (
	"fmt"
	"sync"
)

// Barrier counts declared assets as they finish loading. Play may only begin
// once every asset has reported in. A failure stops the count for good.
type Barrier struct {
	mu         sync.Mutex
	loaded     int
	total      int
	err        error
	onProgress func(loaded, total int)
	onComplete func()
}

// NewBarrier creates a barrier expecting total assets.
func NewBarrier(total int) *Barrier {
	return &Barrier{total: total}
}

// OnProgress registers a callback run after each asset loads. Callbacks may
// run on loader goroutines.
func (b *Barrier) OnProgress(fn func(loaded, total int)) {
	b.mu.Lock()
	b.onProgress = fn
	b.mu.Unlock()
}

// OnComplete registers a callback run once when the last asset loads.
func (b *Barrier) OnComplete(fn func()) {
	b.mu.Lock()
	b.onComplete = fn
	b.mu.Unlock()
}

// Loaded records one finished asset.
func (b *Barrier) Loaded() {
	b.mu.Lock()
	if b.err != nil || b.loaded >= b.total {
		b.mu.Unlock()
		return
	}
	b.loaded++
	loaded, total := b.loaded, b.total
	progress, complete := b.onProgress, b.onComplete
	b.mu.Unlock()

	if progress != nil {
		progress(loaded, total)
	}
	if loaded == total && complete != nil {
		complete()
	}
}

// Fail records a load error. The barrier never completes afterwards.
func (b *Barrier) Fail(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err == nil {
		b.err = err
	}
}

// Progress returns how many assets have loaded out of how many were declared.
func (b *Barrier) Progress() (loaded, total int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loaded, b.total
}

// Fraction returns load progress in [0, 1].
func (b *Barrier) Fraction() float64 {
	loaded, total := b.Progress()
	if total == 0 {
		return 1
	}
	return float64(loaded) / float64(total)
}

// Complete reports whether every declared asset has loaded without error.
func (b *Barrier) Complete() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err == nil && b.loaded == b.total
}

// Err returns the load failure, if any.
func (b *Barrier) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}

func (b *Barrier) String() string {
	loaded, total := b.Progress()
	return fmt.Sprintf("%d/%d", loaded, total)
}
