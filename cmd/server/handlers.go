package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/twinforge/twinmesh/pkg/meshgen"
	"github.com/twinforge/twinmesh/pkg/store"
	"github.com/twinforge/twinmesh/pkg/twin"
	"github.com/twinforge/twinmesh/pkg/ws"
)

type server struct {
	svc *twin.Service
	hub *ws.Hub
	log *zap.Logger
}

func newRouter(svc *twin.Service, hub *ws.Hub, log *zap.Logger) http.Handler {
	s := &server{svc: svc, hub: hub, log: log}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /api/v1/home_config", s.handleHomeConfig)
	mux.HandleFunc("POST /api/v1/sensor_event", s.handleSensorEvent)
	mux.HandleFunc("POST /api/v1/generate_3d_model", s.handleGenerateModel)
	mux.HandleFunc("POST /api/v1/floor_level", s.handleAddFloor)
	mux.HandleFunc("GET /api/v1/3d_model/latest/{home_id}", s.handleLatestModel)
	mux.HandleFunc("GET /api/v1/3d_model/{id}", s.handleModel)
	mux.HandleFunc("GET /twin", s.handleTwinSocket)
	return mux
}

func (s *server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error("writing response failed", zap.Error(err))
	}
}

// writeError maps the generation error taxonomy onto status codes: malformed
// input and geometry failures are the caller's problem, missing records are
// 404, everything else is a server fault.
func (s *server) writeError(w http.ResponseWriter, err error) {
	var inputErr *meshgen.InputError
	var geomErr *meshgen.GeometryError
	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &inputErr), errors.As(err, &geomErr):
		status = http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"service": "twinmesh",
		"status":  "running",
		"endpoints": []string{
			"GET /api/v1/home_config",
			"POST /api/v1/sensor_event",
			"POST /api/v1/generate_3d_model",
			"POST /api/v1/floor_level",
			"GET /api/v1/3d_model/{id}",
			"GET /api/v1/3d_model/latest/{home_id}",
			"GET /twin",
		},
	})
}

func (s *server) handleHomeConfig(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.svc.FullConfig())
}

type sensorEventRequest struct {
	RoomID   string    `json:"room_id"`
	SensorID string    `json:"sensor_id"`
	Type     string    `json:"type"`
	Status   string    `json:"status"`
	Location []float64 `json:"location,omitempty"`
}

func (s *server) handleSensorEvent(w http.ResponseWriter, r *http.Request) {
	var req sensorEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	if req.RoomID == "" || req.SensorID == "" {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "room_id and sensor_id are required"})
		return
	}

	update, err := s.svc.ApplySensorEvent(req.RoomID, req.SensorID, req.Type, req.Status, req.Location)
	if err != nil {
		s.writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, update)
}

func (s *server) handleGenerateModel(w http.ResponseWriter, r *http.Request) {
	var req twin.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	summary, _, err := s.svc.GenerateModel(&req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, summary)
}

func (s *server) handleAddFloor(w http.ResponseWriter, r *http.Request) {
	var req twin.AddFloorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	summary, stack, err := s.svc.AddFloorLevel(&req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"summary": summary,
		"floors":  len(stack.Floors),
	})
}

func (s *server) handleModel(w http.ResponseWriter, r *http.Request) {
	rec, err := s.svc.Model(r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeMeshRecord(w, rec)
}

func (s *server) handleLatestModel(w http.ResponseWriter, r *http.Request) {
	homeID := r.PathValue("home_id")
	if strings.EqualFold(homeID, "current") {
		homeID = ""
	}
	rec, err := s.svc.LatestModel(homeID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeMeshRecord(w, rec)
}

// writeMeshRecord serves the stored mesh payload verbatim, wrapped with the
// record identity so clients can tell plain and stacked formats apart.
func (s *server) writeMeshRecord(w http.ResponseWriter, rec *store.MeshRecord) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"mesh_id":     rec.ID,
		"home_id":     rec.HomeID,
		"mesh_format": rec.Format,
		"mesh_data":   rec.Mesh,
		"created_at":  rec.CreatedAt,
	})
}

// handleTwinSocket upgrades to a websocket, sends the current state, and
// keeps the connection registered with the hub until the client leaves. The
// sensor simulator runs exactly while subscribers are connected.
func (s *server) handleTwinSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.log.Warn("websocket accept failed", zap.Error(err))
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	if initial, err := json.Marshal(ws.Event{Event: "initial_state", Payload: s.svc.FullConfig()}); err == nil {
		_ = conn.Write(r.Context(), websocket.MessageText, initial)
	}

	if s.hub.Add(conn) == 1 {
		s.svc.StartSimulation()
	}
	defer func() {
		if s.hub.Remove(conn) == 0 {
			s.svc.StopSimulation()
		}
	}()

	// Drain incoming frames; the twin socket is push-only. Read returns an
	// error when the client disconnects or the request context ends.
	for {
		if _, _, err := conn.Read(r.Context()); err != nil {
			return
		}
	}
}
