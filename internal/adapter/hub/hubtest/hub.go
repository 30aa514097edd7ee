// Package hubtest runs an in-memory hub REST API for tests.
package hubtest

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gsbenevides2/hassbridge/internal/core/domain"
)

type Call struct {
	Method string
	Path   string
	Body   map[string]any
}

type Hub struct {
	server *httptest.Server
	token  string

	mu       sync.Mutex
	states   map[string]domain.RawState
	calls    []Call
	delay    time.Duration
	failures map[string]int
}

func New(token string) *Hub {
	h := &Hub{
		token:    token,
		states:   map[string]domain.RawState{},
		failures: map[string]int{},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/states", h.listStates)
	mux.HandleFunc("GET /api/states/{entity_id}", h.getState)
	mux.HandleFunc("POST /api/states/{entity_id}", h.setState)
	mux.HandleFunc("POST /api/services/{domain}/{service}", h.callService)
	h.server = httptest.NewServer(h.middleware(mux))
	return h
}

func (h *Hub) URL() string {
	return h.server.URL
}

func (h *Hub) Close() {
	h.server.Close()
}

func (h *Hub) Set(entityId string, state string, attributes domain.Attributes) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.states[entityId] = domain.RawState{EntityID: entityId, State: state, Attributes: attributes}
}

func (h *Hub) Get(entityId string) (domain.RawState, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.states[entityId]
	return s, ok
}

// SetDelay makes every request wait d before answering.
func (h *Hub) SetDelay(d time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.delay = d
}

// FailWith answers every request touching entityId with status.
func (h *Hub) FailWith(entityId string, status int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failures[entityId] = status
}

func (h *Hub) Calls() []Call {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Call, len(h.calls))
	copy(out, h.calls)
	return out
}

func (h *Hub) CallCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.calls)
}

func (h *Hub) ResetCalls() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = nil
}

func (h *Hub) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+h.token {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		var body map[string]any
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&body)
		}
		h.mu.Lock()
		h.calls = append(h.calls, Call{Method: r.Method, Path: r.URL.Path, Body: body})
		delay := h.delay
		status := h.failureFor(r.URL.Path, body)
		h.mu.Unlock()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}
		if status != 0 {
			http.Error(w, http.StatusText(status), status)
			return
		}
		ctx := withBody(r.Context(), body)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Hub) failureFor(path string, body map[string]any) int {
	for id, status := range h.failures {
		if strings.HasSuffix(path, "/"+id) {
			return status
		}
		if target, _ := body["entity_id"].(string); target == id {
			return status
		}
	}
	return 0
}

func (h *Hub) listStates(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	out := make([]domain.RawState, 0, len(h.states))
	for _, s := range h.states {
		out = append(out, s)
	}
	h.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].EntityID < out[j].EntityID })
	writeJSON(w, http.StatusOK, out)
}

func (h *Hub) getState(w http.ResponseWriter, r *http.Request) {
	s, ok := h.Get(r.PathValue("entity_id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Entity not found."})
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *Hub) setState(w http.ResponseWriter, r *http.Request) {
	body := bodyFrom(r.Context())
	state, _ := body["state"].(string)
	attrs, _ := body["attributes"].(map[string]any)
	id := r.PathValue("entity_id")
	h.Set(id, state, attrs)
	s, _ := h.Get(id)
	writeJSON(w, http.StatusOK, s)
}

// callService applies the state change the real hub would make for the
// services the bridge uses.
func (h *Hub) callService(w http.ResponseWriter, r *http.Request) {
	body := bodyFrom(r.Context())
	id, _ := body["entity_id"].(string)
	service := r.PathValue("service")

	h.mu.Lock()
	s, ok := h.states[id]
	if ok {
		if s.Attributes == nil {
			s.Attributes = domain.Attributes{}
		}
		switch service {
		case "turn_on":
			s.State = "on"
			if pct, ok := body["brightness_pct"].(float64); ok {
				s.Attributes["brightness"] = math.Round(pct * 255 / 100)
			}
		case "turn_off":
			s.State = "off"
		case "select_option":
			s.State, _ = body["option"].(string)
		case "media_play":
			s.State = "playing"
		case "media_pause":
			s.State = "paused"
		case "volume_set":
			s.Attributes["volume_level"] = body["volume_level"]
		case "press":
			s.State = time.Now().UTC().Format(time.RFC3339)
		}
		h.states[id] = s
	}
	h.mu.Unlock()
	writeJSON(w, http.StatusOK, []domain.RawState{})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
