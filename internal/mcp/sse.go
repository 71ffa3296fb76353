package mcp

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// SSEHandler implements the legacy MCP SSE transport: a long-lived GET
// stream per session plus a POST endpoint that feeds it.
type SSEHandler struct {
	server   *Server
	sessions sync.Map // sessionID -> chan *Response
}

// NewSSEHandler creates an SSE transport over the given server.
func NewSSEHandler(server *Server) *SSEHandler {
	return &SSEHandler{server: server}
}

// ServeHTTP routes GET /sse to the stream, POST /message to dispatch,
// and answers CORS preflight.
func (h *SSEHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization,Content-Type")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	switch r.URL.Path {
	case "/sse":
		h.handleSSE(w, r)
	case "/message":
		h.handleMessage(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *SSEHandler) newSessionID() (string, error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}

func (h *SSEHandler) getSession(sessionID string) (chan *Response, bool) {
	value, ok := h.sessions.Load(sessionID)
	if !ok {
		return nil, false
	}
	ch, ok := value.(chan *Response)
	return ch, ok
}

func (h *SSEHandler) writeSSEEvent(w http.ResponseWriter, event, payload string) error {
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return err
	}
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
	return nil
}

// handleSSE opens the stream, announces the message endpoint, and
// forwards session responses until the client goes away.
func (h *SSEHandler) handleSSE(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var sessionID string
	for {
		id, err := h.newSessionID()
		if err != nil {
			http.Error(w, "failed to create session", http.StatusInternalServerError)
			log.Error().Err(err).Msg("Failed to create SSE session ID")
			return
		}
		if _, ok := h.sessions.Load(id); ok {
			continue
		}
		sessionID = id
		break
	}

	responses := make(chan *Response, 32)
	h.sessions.Store(sessionID, responses)
	defer func() {
		h.sessions.Delete(sessionID)
		close(responses)
	}()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Authorization,Content-Type")

	if err := h.writeSSEEvent(w, "endpoint", fmt.Sprintf("/message?sessionId=%s", sessionID)); err != nil {
		log.Error().Err(err).Str("sessionId", sessionID).Msg("Failed to write SSE endpoint event")
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case response, ok := <-responses:
			if !ok {
				return
			}
			payload, err := json.Marshal(response)
			if err != nil {
				log.Error().Err(err).Str("sessionId", sessionID).Msg("Failed to marshal SSE response")
				continue
			}
			if err := h.writeSSEEvent(w, "message", string(payload)); err != nil {
				log.Error().Err(err).Str("sessionId", sessionID).Msg("Failed to write SSE response")
				return
			}
		}
	}
}

// handleMessage decodes one request and queues the response onto the
// session stream.
func (h *SSEHandler) handleMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		http.Error(w, "missing sessionId", http.StatusBadRequest)
		return
	}

	responses, ok := h.getSession(sessionID)
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	defer r.Body.Close()
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	response := h.server.handleRequest(r.Context(), &req)

	// Notifications get no response; acknowledge with 204.
	if response == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	select {
	case responses <- response:
	default:
		log.Warn().Str("sessionId", sessionID).Msg("Response channel full, dropping response")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
}

// Close closes all active session channels.
func (h *SSEHandler) Close() {
	h.sessions.Range(func(key, value any) bool {
		if ch, ok := value.(chan *Response); ok {
			defer func() {
				if recover() != nil {
					log.Warn().Msg("Session channel already closed")
				}
			}()
			close(ch)
		}
		h.sessions.Delete(key)
		return true
	})
}
