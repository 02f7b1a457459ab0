// Package input turns front-panel buttons and simulator keys into
// button events for the driver.
package input

import (
	"sync"
	"time"

	"github.com/hammamikhairi/nowplaying/internal/domain"
)

// DefaultDebounce is the minimum gap between two accepted presses of
// the same button.
const DefaultDebounce = 300 * time.Millisecond

// Debouncer drops presses that follow the previous accepted press of
// the same button too closely. Safe for concurrent use.
type Debouncer struct {
	mu   sync.Mutex
	gap  time.Duration
	last map[domain.Button]time.Time
}

// NewDebouncer returns a debouncer with the given gap.
func NewDebouncer(gap time.Duration) *Debouncer {
	return &Debouncer{
		gap:  gap,
		last: make(map[domain.Button]time.Time),
	}
}

// Accept reports whether a press of b at now counts.
func (d *Debouncer) Accept(b domain.Button, now time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if last, ok := d.last[b]; ok && now.Sub(last) < d.gap {
		return false
	}
	d.last[b] = now
	return true
}
