package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ayusman/handframe/internal/hand"
	"github.com/ayusman/handframe/internal/store"
	"github.com/ayusman/handframe/internal/tracking"
)

// DefaultListLimit is how many frames GET /api/frames returns without ?limit.
const DefaultListLimit = 50

// FrameHandler serves recorded frames and the hand list queries over them.
//
//	GET    /api/frames?limit=N
//	GET    /api/frames/{id}
//	DELETE /api/frames/{id}
//	GET    /api/frames/{id}/hands?handedness=left|right
//	GET    /api/frames/{id}/summary
type FrameHandler struct {
	store  *store.Store
	logger *log.Logger
}

// NewFrameHandler creates a FrameHandler over s.
func NewFrameHandler(s *store.Store, logger *log.Logger) *FrameHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &FrameHandler{store: s, logger: logger}
}

// ServeHTTP routes requests by path and method.
func (h *FrameHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/frames")
	path = strings.Trim(path, "/")

	if path == "" {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.list(w, r)
		return
	}

	id, sub, _ := strings.Cut(path, "/")
	switch {
	case sub == "" && r.Method == http.MethodGet:
		h.get(w, id)
	case sub == "" && r.Method == http.MethodDelete:
		h.delete(w, id)
	case sub == "hands" && r.Method == http.MethodGet:
		h.hands(w, r, id)
	case sub == "summary" && r.Method == http.MethodGet:
		h.summary(w, id)
	case sub == "" || sub == "hands" || sub == "summary":
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	default:
		http.NotFound(w, r)
	}
}

type handResponse struct {
	Index  int         `json:"index"`
	IsLeft bool        `json:"is_left"`
	Palm   hand.Vector `json:"palm"`
	Score  float64     `json:"score"`
}

type frameResponse struct {
	ID         string         `json:"id"`
	CapturedAt string         `json:"captured_at"`
	HandCount  int            `json:"hand_count"`
	Hands      []handResponse `json:"hands,omitempty"`
}

type listFramesResponse struct {
	Frames []frameResponse `json:"frames"`
}

type handsResponse struct {
	FrameID    string         `json:"frame_id"`
	Handedness string         `json:"handedness,omitempty"`
	Hands      []handResponse `json:"hands"`
}

func toHandResponses(hands *hand.List) []handResponse {
	out := make([]handResponse, 0, hands.Len())
	for i, h := range hands.All() {
		hr := handResponse{Index: i, IsLeft: h.IsLeft(), Palm: h.PalmPosition()}
		if sh, ok := h.(*store.StoredHand); ok {
			hr.Index = sh.Position
			hr.Score = sh.Score
		}
		out = append(out, hr)
	}
	return out
}

func toFrameResponse(f *store.Frame) frameResponse {
	resp := frameResponse{
		ID:         f.ID,
		CapturedAt: f.CapturedAt.UTC().Format(time.RFC3339Nano),
		HandCount:  f.HandCount,
	}
	if f.Hands != nil {
		resp.Hands = toHandResponses(f.Hands)
	}
	return resp
}

// list handles GET /api/frames.
func (h *FrameHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := DefaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	frames, err := h.store.Frames().List(limit)
	if err != nil {
		h.logger.Error("list frames", "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to list frames")
		return
	}

	response := listFramesResponse{Frames: make([]frameResponse, 0, len(frames))}
	for _, f := range frames {
		response.Frames = append(response.Frames, toFrameResponse(f))
	}
	writeJSON(w, http.StatusOK, response)
}

// load fetches a frame, writing the error response when it cannot.
func (h *FrameHandler) load(w http.ResponseWriter, id string) (*store.Frame, bool) {
	f, err := h.store.Frames().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Frame not found")
			return nil, false
		}
		h.logger.Error("get frame", "id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to get frame")
		return nil, false
	}
	return f, true
}

// get handles GET /api/frames/{id}.
func (h *FrameHandler) get(w http.ResponseWriter, id string) {
	f, ok := h.load(w, id)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toFrameResponse(f))
}

// hands handles GET /api/frames/{id}/hands.
func (h *FrameHandler) hands(w http.ResponseWriter, r *http.Request, id string) {
	handedness := strings.ToLower(r.URL.Query().Get("handedness"))
	if handedness != "" && handedness != "left" && handedness != "right" {
		writeError(w, http.StatusBadRequest, "Invalid handedness")
		return
	}

	f, ok := h.load(w, id)
	if !ok {
		return
	}

	hands := f.Hands
	if handedness != "" {
		hands = hands.HandType(handedness == "left")
	}

	writeJSON(w, http.StatusOK, handsResponse{
		FrameID:    f.ID,
		Handedness: handedness,
		Hands:      toHandResponses(hands),
	})
}

// summary handles GET /api/frames/{id}/summary.
func (h *FrameHandler) summary(w http.ResponseWriter, id string) {
	f, ok := h.load(w, id)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, tracking.Summarize(f.ID, f.CapturedAt.UTC(), f.Hands))
}

// delete handles DELETE /api/frames/{id}.
func (h *FrameHandler) delete(w http.ResponseWriter, id string) {
	if err := h.store.Frames().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Frame not found")
			return
		}
		h.logger.Error("delete frame", "id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete frame")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
