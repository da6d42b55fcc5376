package detector

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"gocv.io/x/gocv"

	"github.com/ayusman/handframe/internal/hand"
)

const scriptName = "mediapipe_service.py"

// ErrScriptNotFound is returned when the MediaPipe helper script cannot be located.
var ErrScriptNotFound = errors.New(scriptName + " not found")

// MediaPipeDetector implements Detector using a Python MediaPipe subprocess.
//
// Each frame is sent as a 4-byte big-endian length followed by JPEG bytes;
// the helper answers with one JSON line: {"hands": [...]}.
type MediaPipeDetector struct {
	config    Config
	script    string
	python    string
	logger    *log.Logger
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	stdout    *bufio.Reader
	mu        sync.Mutex
	started   bool
	idleTimer *time.Timer
}

// NewMediaPipeDetector creates a new MediaPipe detector.
// The Python process is started lazily on first detection.
func NewMediaPipeDetector(config Config, logger *log.Logger) (*MediaPipeDetector, error) {
	script := config.ScriptPath
	if script == "" {
		script = findFirst(scriptCandidates())
	}
	if script == "" {
		return nil, ErrScriptNotFound
	}
	if _, err := os.Stat(script); err != nil {
		return nil, fmt.Errorf("stat %s: %w", script, err)
	}

	python := config.PythonPath
	if python == "" {
		python = findFirst(venvCandidates())
	}
	if python == "" {
		python = "python3"
	}

	if logger == nil {
		logger = log.Default()
	}

	return &MediaPipeDetector{
		config: config,
		script: script,
		python: python,
		logger: logger.WithPrefix("mediapipe"),
	}, nil
}

// Detect analyzes a frame and returns the detected hands.
func (d *MediaPipeDetector) Detect(frame *gocv.Mat) (*hand.List, error) {
	if frame == nil || frame.Empty() {
		return hand.NewList(0), nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.ensureStarted(); err != nil {
		return nil, err
	}

	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	hands, err := d.roundTrip(buf.GetBytes())
	if err != nil {
		// The helper's stream is out of sync now; restart on the next frame.
		d.logger.Warn("helper round trip failed, restarting", "err", err)
		d.shutdown()
		return nil, err
	}

	d.resetIdleTimer()
	return ToList(d.config.filter(hands)), nil
}

func (d *MediaPipeDetector) roundTrip(data []byte) ([]HandLandmarks, error) {
	header := make([]byte, 4)
	binary.BigEndian.PutUint32(header, uint32(len(data)))

	if _, err := d.stdin.Write(header); err != nil {
		return nil, fmt.Errorf("write length: %w", err)
	}
	if _, err := d.stdin.Write(data); err != nil {
		return nil, fmt.Errorf("write data: %w", err)
	}

	line, err := d.stdout.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return decodeResponse(line)
}

// Close shuts down the Python process.
func (d *MediaPipeDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.shutdown()
}

func (d *MediaPipeDetector) ensureStarted() error {
	if d.started {
		return nil
	}

	cmd := exec.Command(d.python, d.script)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start mediapipe service: %w", err)
	}

	d.cmd = cmd
	d.stdin = stdin
	d.stdout = bufio.NewReader(stdout)
	d.started = true
	d.logger.Info("helper started", "python", d.python, "script", d.script, "pid", cmd.Process.Pid)

	return nil
}

func (d *MediaPipeDetector) shutdown() error {
	if !d.started {
		return nil
	}

	if d.idleTimer != nil {
		d.idleTimer.Stop()
		d.idleTimer = nil
	}

	d.stdin.Close()
	err := d.cmd.Wait()

	d.started = false
	d.cmd = nil
	d.stdin = nil
	d.stdout = nil
	d.logger.Debug("helper stopped", "err", err)

	return err
}

func (d *MediaPipeDetector) resetIdleTimer() {
	timeout := time.Duration(d.config.IdleTimeoutSec) * time.Second
	if timeout <= 0 {
		return
	}
	if d.idleTimer != nil {
		d.idleTimer.Stop()
	}
	d.idleTimer = time.AfterFunc(timeout, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.logger.Debug("helper idle, stopping")
		d.shutdown()
	})
}

func scriptCandidates() []string {
	candidates := []string{
		filepath.Join("scripts", scriptName),
		filepath.Join("..", "scripts", scriptName),
	}
	if execPath, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(execPath), "scripts", scriptName))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".handframe", "scripts", scriptName))
	}
	return candidates
}

func venvCandidates() []string {
	candidates := []string{
		"venv/bin/python",
		"../venv/bin/python",
		"../../venv/bin/python",
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".handframe", "venv", "bin", "python"))
	}
	return candidates
}

// findFirst returns the absolute path of the first candidate that exists.
func findFirst(candidates []string) string {
	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if abs, err := filepath.Abs(path); err == nil {
			return abs
		}
		return path
	}
	return ""
}

// jsonHand is one hand as sent by the Python helper.
type jsonHand struct {
	Points     []hand.Vector `json:"points"`
	Handedness string        `json:"handedness"`
	Score      float64       `json:"score"`
}

func decodeResponse(line []byte) ([]HandLandmarks, error) {
	var response struct {
		Hands []jsonHand `json:"hands"`
	}
	if err := json.Unmarshal(line, &response); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	hands := make([]HandLandmarks, len(response.Hands))
	for i, h := range response.Hands {
		hands[i] = HandLandmarks{Handedness: h.Handedness, Score: h.Score}
		copy(hands[i].Points[:], h.Points)
	}
	return hands, nil
}
