// Package tray provides the system tray menu: a tracking toggle, a live
// hand count readout and Quit.
package tray

import (
	"context"
	"fmt"
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/handframe/internal/tracking"
)

// Tray is the system tray application.
type Tray struct {
	onToggle func(enabled bool)
	onOpen   func()
	onQuit   func()
	enabled  bool
	left     int
	right    int
	mu       sync.RWMutex

	menuToggle *systray.MenuItem
	menuHands  *systray.MenuItem
}

// New creates a Tray in the enabled state.
func New() *Tray {
	return &Tray{
		enabled: true,
	}
}

// OnToggle sets the callback invoked when tracking is switched on or off.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnOpen sets the callback invoked by "Open Dashboard...".
func (t *Tray) OnOpen(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpen = fn
}

// OnQuit sets the callback invoked when Quit is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray. It blocks until systray.Quit is called and
// must run on the main goroutine.
func (t *Tray) Run() {
	systray.Run(t.onReady, func() {})
}

// Quit closes the tray from outside the menu.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetTitle("Handframe")
	systray.SetTooltip("Handframe hand tracking")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.enabled), "Toggle hand tracking")
	systray.AddSeparator()
	t.menuHands = systray.AddMenuItem(handsTitle(t.left, t.right), "Hands in the last frame")
	t.menuHands.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	menuOpen := systray.AddMenuItem("Open Dashboard...", "Open the dashboard in a browser")
	systray.AddSeparator()
	menuQuit := systray.AddMenuItem("Quit", "Quit Handframe")

	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuOpen.ClickedCh:
				t.call(func(t *Tray) func() { return t.onOpen })
			case <-menuQuit.ClickedCh:
				t.call(func(t *Tray) func() { return t.onQuit })
				systray.Quit()
				return
			}
		}
	}()
}

func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}
	callback := t.onToggle
	t.mu.Unlock()

	// Called outside the lock; the callback may call back into the tray.
	if callback != nil {
		callback(enabled)
	}
}

// call runs the callback picked by get, outside the lock.
func (t *Tray) call(get func(*Tray) func()) {
	t.mu.RLock()
	fn := get(t)
	t.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

// SetEnabled syncs the toggle with a state changed elsewhere, without
// invoking the toggle callback.
func (t *Tray) SetEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enabled = enabled
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

// SetHands updates the hand count readout.
func (t *Tray) SetHands(left, right int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.left == left && t.right == right {
		return
	}
	t.left, t.right = left, right
	if t.menuHands != nil {
		t.menuHands.SetTitle(handsTitle(left, right))
	}
}

// Hands returns the counts currently shown.
func (t *Tray) Hands() (left, right int) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.left, t.right
}

// Follow feeds the readout from summaries until ctx is done or the channel
// closes.
func (t *Tray) Follow(ctx context.Context, summaries <-chan tracking.Summary) {
	for {
		select {
		case <-ctx.Done():
			return
		case s, ok := <-summaries:
			if !ok {
				return
			}
			t.SetHands(s.Left, s.Right)
		}
	}
}

func toggleTitle(enabled bool) string {
	if enabled {
		return "● Tracking"
	}
	return "○ Paused"
}

func handsTitle(left, right int) string {
	return fmt.Sprintf("Hands: L %d / R %d", left, right)
}
