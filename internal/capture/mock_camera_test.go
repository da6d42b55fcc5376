package capture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func TestMockCamera_Playback(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	frame1 := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame1.Close()
	frame2 := gocv.NewMatWithSize(240, 320, gocv.MatTypeCV8UC3)
	defer frame2.Close()

	cam := NewMockCamera([]*gocv.Mat{&frame1, &frame2}, false)

	_, err := cam.ReadFrame()
	assert.ErrorIs(t, err, ErrCameraNotOpen)

	require.NoError(t, cam.Open())
	defer cam.Close()

	f1, err := cam.ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, 640, f1.Cols())
	f1.Close()

	f2, err := cam.ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, 320, f2.Cols())
	f2.Close()

	_, err = cam.ReadFrame()
	assert.ErrorIs(t, err, ErrNoFrame, "playback without loop ends")
}

func TestMockCamera_Loop(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	cam, frame := NewBlankCamera(64, 48)
	defer frame.Close()
	require.NoError(t, cam.Open())
	defer cam.Close()

	for i := 0; i < 5; i++ {
		f, err := cam.ReadFrame()
		require.NoError(t, err, "iteration %d", i)
		assert.Equal(t, 48, f.Rows())
		f.Close()
	}
}

func TestMockCamera_NoFrames(t *testing.T) {
	cam := NewMockCamera(nil, true)
	require.NoError(t, cam.Open())
	assert.True(t, cam.IsOpen())

	_, err := cam.ReadFrame()
	assert.ErrorIs(t, err, ErrNoFrame)

	cam.SetFPS(30)
	assert.Equal(t, 30, cam.FPS())
	cam.SetFPS(0)
	assert.Equal(t, 30, cam.FPS())

	require.NoError(t, cam.Close())
	assert.False(t, cam.IsOpen())
}
