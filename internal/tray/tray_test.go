package tray

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/handframe/internal/tracking"
)

func TestTitles(t *testing.T) {
	assert.Equal(t, "Hands: L 0 / R 0", handsTitle(0, 0))
	assert.Equal(t, "Hands: L 2 / R 1", handsTitle(2, 1))
	assert.Equal(t, "● Tracking", toggleTitle(true))
	assert.Equal(t, "○ Paused", toggleTitle(false))
}

func TestTray_Toggle(t *testing.T) {
	tr := New()
	require.True(t, tr.IsEnabled())

	var got []bool
	tr.OnToggle(func(enabled bool) { got = append(got, enabled) })

	tr.handleToggle()
	tr.handleToggle()

	assert.Equal(t, []bool{false, true}, got)
	assert.True(t, tr.IsEnabled())

	tr.SetEnabled(false)
	assert.False(t, tr.IsEnabled())
	assert.Len(t, got, 2, "SetEnabled does not fire the callback")
}

func TestTray_Follow(t *testing.T) {
	tr := New()
	ch := make(chan tracking.Summary, 2)
	ch <- tracking.Summary{Left: 1, Right: 0}
	ch <- tracking.Summary{Left: 2, Right: 1}
	close(ch)

	done := make(chan struct{})
	go func() {
		tr.Follow(context.Background(), ch)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Follow did not return after the channel closed")
	}

	left, right := tr.Hands()
	assert.Equal(t, 2, left)
	assert.Equal(t, 1, right)
}

func TestTray_FollowStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	New().Follow(ctx, make(chan tracking.Summary))
}
