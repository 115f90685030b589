package main

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/daniacca/ecosim/internal/eco"
	"github.com/daniacca/ecosim/internal/eco/sinks"
)

// extractWorldID extracts the world ID from a path like "/world/{id}/...".
// Returns the world ID and the remaining path, or empty strings if the path
// doesn't match.
func extractWorldID(path string) (eco.WorldID, string) {
	if !strings.HasPrefix(path, "/world/") {
		return "", ""
	}

	rest := path[len("/world/"):]
	idx := strings.Index(rest, "/")
	if idx == -1 {
		return eco.WorldID(rest), ""
	}
	return eco.WorldID(rest[:idx]), rest[idx:]
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleWorldRoutes routes /world/{id} and /world/{id}/... requests.
func (s *Server) handleWorldRoutes(w http.ResponseWriter, r *http.Request) {
	worldID, remainingPath := extractWorldID(r.URL.Path)
	if worldID == "" {
		http.Error(w, "world ID is required in path: /world/{id}/...", http.StatusBadRequest)
		return
	}

	switch {
	case remainingPath == "" && r.Method == http.MethodPost:
		s.handleCreateWorld(w, r, worldID)
	case remainingPath == "" && r.Method == http.MethodDelete:
		s.handleDeleteWorld(w, r, worldID)
	case remainingPath == "/tick" && r.Method == http.MethodPost:
		s.handleTick(w, r, worldID)
	case remainingPath == "/start" && r.Method == http.MethodPost:
		s.handleStart(w, r, worldID)
	case remainingPath == "/stop" && r.Method == http.MethodPost:
		s.handleStop(w, r, worldID)
	case remainingPath == "/snapshot" && r.Method == http.MethodGet:
		s.handleSnapshot(w, r, worldID)
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

// POST /world/{id}
// Body: eco.Config JSON, decoded over the defaults.
func (s *Server) handleCreateWorld(w http.ResponseWriter, r *http.Request, worldID eco.WorldID) {
	defer r.Body.Close()

	cfg := eco.DefaultConfig()
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		http.Error(w, "invalid config json: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.manager.Create(worldID, cfg); err != nil {
		s.logger.Warnf("Failed to create world: world_id=%s error=%v", worldID, err)
		http.Error(w, "cannot create world: "+err.Error(), http.StatusBadRequest)
		return
	}

	s.logger.Infof("World created: world_id=%s size=%dx%d ticks=%d seed=%d",
		worldID, cfg.Width, cfg.Height, cfg.Ticks, cfg.Seed)

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("world created"))
}

// DELETE /world/{id}
func (s *Server) handleDeleteWorld(w http.ResponseWriter, r *http.Request, worldID eco.WorldID) {
	if err := s.manager.Delete(worldID); err != nil {
		s.logger.Warnf("Failed to delete world: world_id=%s error=%v", worldID, err)
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	s.logger.Infof("World deleted: world_id=%s", worldID)

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("world deleted"))
}

// POST /world/{id}/tick
// Advances the world one tick and returns the resulting snapshot. Useful
// for debugging and for clients that want to drive the pace themselves.
func (s *Server) handleTick(w http.ResponseWriter, r *http.Request, worldID eco.WorldID) {
	snap, err := s.manager.StepWorld(worldID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		http.Error(w, "cannot encode: "+err.Error(), http.StatusInternalServerError)
		return
	}
}

// POST /world/{id}/start
// Query param: interval (milliseconds, defaults to the server setting).
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request, worldID eco.WorldID) {
	interval := time.Duration(s.tickInterval) * time.Millisecond
	if intervalStr := r.URL.Query().Get("interval"); intervalStr != "" {
		if ms, err := strconv.Atoi(intervalStr); err == nil && ms > 0 {
			interval = time.Duration(ms) * time.Millisecond
		} else {
			http.Error(w, "invalid interval: must be a positive integer (milliseconds)", http.StatusBadRequest)
			return
		}
	}

	if err := s.manager.Start(worldID, interval); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.logger.Infof("World started: world_id=%s interval=%v", worldID, interval)

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("world started"))
}

// POST /world/{id}/stop
func (s *Server) handleStop(w http.ResponseWriter, r *http.Request, worldID eco.WorldID) {
	if err := s.manager.Stop(worldID); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	s.logger.Infof("World stopped: world_id=%s", worldID)

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("world stopped"))
}

// GET /world/{id}/snapshot
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request, worldID eco.WorldID) {
	snap, err := s.manager.Snapshot(worldID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		http.Error(w, "cannot encode: "+err.Error(), http.StatusInternalServerError)
		return
	}
}

// GET /worlds
func (s *Server) handleListWorlds(w http.ResponseWriter, r *http.Request) {
	worldIDs := s.manager.List()

	ids := make([]string, len(worldIDs))
	for i, id := range worldIDs {
		ids[i] = string(id)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string][]string{"worlds": ids}); err != nil {
		http.Error(w, "cannot encode: "+err.Error(), http.StatusInternalServerError)
		return
	}
}

// GET /ws
// Upgrades the connection and attaches it to the built-in snapshot stream.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	upgrader := s.stream.GetUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warnf("WebSocket upgrade failed: error=%v", err)
		return
	}

	s.stream.RegisterClient(conn)
	s.logger.Debugf("WebSocket client connected: remote=%s", conn.RemoteAddr())

	// Drain the read side so close frames are noticed; the stream is
	// one-way, anything the client sends is discarded.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.stream.UnregisterClient(conn)
				s.logger.Debugf("WebSocket client disconnected: remote=%s", conn.RemoteAddr())
				return
			}
		}
	}()
}

// handleSinksRoutes handles sink administration endpoints.
func (s *Server) handleSinksRoutes(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/sinks" && r.Method == http.MethodGet:
		s.handleListSinks(w, r)
	case r.URL.Path == "/sinks" && r.Method == http.MethodPost:
		s.handleRegisterSink(w, r)
	case strings.HasPrefix(r.URL.Path, "/sinks/") && r.Method == http.MethodDelete:
		s.handleUnregisterSink(w, r)
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

// GET /sinks
func (s *Server) handleListSinks(w http.ResponseWriter, _ *http.Request) {
	sinkIDs := s.dispatcher.List()

	out := make([]map[string]string, 0, len(sinkIDs))
	for _, id := range sinkIDs {
		sink, exists := s.dispatcher.Get(id)
		if exists {
			out = append(out, map[string]string{
				"id":   id,
				"type": sink.Type(),
			})
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{"sinks": out}); err != nil {
		http.Error(w, "cannot encode: "+err.Error(), http.StatusInternalServerError)
		return
	}
}

// POST /sinks
// Body: { "type": "webhook", "id": "my-webhook", "config": { "url": "http://..." } }
type registerSinkRequest struct {
	Type   string         `json:"type"`
	ID     string         `json:"id"`
	Config map[string]any `json:"config"`
}

func (s *Server) handleRegisterSink(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req registerSinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}

	if req.ID == "" {
		http.Error(w, "sink ID is required", http.StatusBadRequest)
		return
	}

	var sink eco.Sink

	switch req.Type {
	case "webhook":
		url, ok := req.Config["url"].(string)
		if !ok || url == "" {
			http.Error(w, "webhook URL is required", http.StatusBadRequest)
			return
		}
		wh := sinks.NewWebhookSink(req.ID, url)

		if headers, ok := req.Config["headers"].(map[string]any); ok {
			for k, v := range headers {
				if vStr, ok := v.(string); ok {
					wh.SetHeader(k, vStr)
				}
			}
		}

		sink = wh
	default:
		http.Error(w, "unknown sink type: "+req.Type, http.StatusBadRequest)
		return
	}

	if err := s.dispatcher.Register(sink); err != nil {
		http.Error(w, "cannot register sink: "+err.Error(), http.StatusBadRequest)
		return
	}

	s.logger.Infof("Sink registered: id=%s type=%s", req.ID, req.Type)

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("sink registered"))
}

// DELETE /sinks/{id}
func (s *Server) handleUnregisterSink(w http.ResponseWriter, r *http.Request) {
	sinkID := strings.TrimPrefix(r.URL.Path, "/sinks/")
	if sinkID == "" {
		http.Error(w, "sink ID is required", http.StatusBadRequest)
		return
	}
	if sinkID == streamSinkID {
		http.Error(w, "the built-in stream sink cannot be removed", http.StatusBadRequest)
		return
	}

	if err := s.dispatcher.Unregister(sinkID); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	s.logger.Infof("Sink unregistered: id=%s", sinkID)

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("sink unregistered"))
}
