package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/handframe/internal/hand"
	"github.com/ayusman/handframe/internal/store"
)

func TestAPI_FrameWorkflow(t *testing.T) {
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer s.Close()

	frame := &store.Frame{
		CapturedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Hands: hand.ListOf(
			&store.StoredHand{Left: false, Palm: hand.Vector{X: 0.9, Z: 0.2}},
			&store.StoredHand{Left: true, Palm: hand.Vector{X: 0.1, Z: -0.1}},
		),
	}
	require.NoError(t, s.Frames().Create(frame))
	require.NotEmpty(t, frame.ID)

	ts := httptest.NewServer(New(Config{Store: s, Logger: quietLogger()}))
	defer ts.Close()
	client := ts.Client()

	// 1. List frames
	resp, err := client.Get(ts.URL + "/api/frames")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listed struct {
		Frames []struct {
			ID        string `json:"id"`
			HandCount int    `json:"hand_count"`
		} `json:"frames"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listed))
	resp.Body.Close()
	require.Len(t, listed.Frames, 1)
	assert.Equal(t, frame.ID, listed.Frames[0].ID)
	assert.Equal(t, 2, listed.Frames[0].HandCount)

	// 2. Query left hands only
	resp, err = client.Get(ts.URL + "/api/frames/" + frame.ID + "/hands?handedness=left")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var hands struct {
		Hands []struct {
			Index  int  `json:"index"`
			IsLeft bool `json:"is_left"`
		} `json:"hands"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&hands))
	resp.Body.Close()
	require.Len(t, hands.Hands, 1)
	assert.Equal(t, 1, hands.Hands[0].Index)
	assert.True(t, hands.Hands[0].IsLeft)

	// 3. Summary
	resp, err = client.Get(ts.URL + "/api/frames/" + frame.ID + "/summary")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var summary struct {
		Leftmost  struct{ Index int } `json:"leftmost"`
		Rightmost struct{ Index int } `json:"rightmost"`
		Frontmost struct{ Index int } `json:"frontmost"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summary))
	resp.Body.Close()
	assert.Equal(t, 1, summary.Leftmost.Index)
	assert.Equal(t, 0, summary.Rightmost.Index)
	assert.Equal(t, 1, summary.Frontmost.Index)

	// 4. Settings round trip
	resp, err = doRequest(client, http.MethodPut, ts.URL+"/api/settings", `{"tracking_enabled":"true"}`)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	value, err := s.Settings().Get("tracking_enabled")
	require.NoError(t, err)
	assert.Equal(t, "true", value)

	// 5. Delete frame
	resp, err = doRequest(client, http.MethodDelete, ts.URL+"/api/frames/"+frame.ID, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	// 6. Verify deleted
	resp, err = client.Get(ts.URL + "/api/frames/" + frame.ID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestAPI_HealthCheck(t *testing.T) {
	ts := httptest.NewServer(New(Config{Logger: quietLogger()}))
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var health struct {
		Status string `json:"status"`
		Uptime string `json:"uptime"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "ok", health.Status)
	assert.NotEmpty(t, health.Uptime)
}

func doRequest(client *http.Client, method, url, body string) (*http.Response, error) {
	req, err := http.NewRequest(method, url, bytes.NewBufferString(body))
	if err != nil {
		return nil, err
	}
	return client.Do(req)
}
