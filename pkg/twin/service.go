package twin

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/twinforge/twinmesh/pkg/csg"
	"github.com/twinforge/twinmesh/pkg/plan"
	"github.com/twinforge/twinmesh/pkg/store"
)

// Broadcaster pushes twin events to subscribers. The websocket hub
// implements it; tests use a recording fake.
type Broadcaster interface {
	Broadcast(event string, payload any)
}

// noopBroadcaster is used when no hub is wired.
type noopBroadcaster struct{}

func (noopBroadcaster) Broadcast(string, any) {}

// Options configures a Service.
type Options struct {
	HomeID string
	// Store is the primary persistence backend. When nil the service
	// runs memory-only.
	Store store.Store
	// Carver is the volumetric wall capability; nil means unavailable.
	Carver csg.Carver
	// Broadcaster receives sensor_update / security_status_update events.
	Broadcaster Broadcaster
	// Interval between simulated sensor updates.
	Interval time.Duration
	// DefaultParams fills unset mesh generation parameters per request.
	DefaultParams plan.Params
	Logger        *zap.Logger
}

// Service holds the live twin state. All access to home goes through mu;
// the simulator lifecycle is coordinated separately by simMu.
type Service struct {
	mu   sync.Mutex
	home *Home

	primary  store.Store
	fallback *store.Memory
	carver   csg.Carver
	bc       Broadcaster
	defaults plan.Params
	log      *zap.Logger

	simMu    sync.Mutex
	simStop  chan struct{}
	simDone  chan struct{}
	interval time.Duration
}

// New constructs the service and loads (or seeds) the home configuration.
func New(opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Broadcaster == nil {
		opts.Broadcaster = noopBroadcaster{}
	}
	if opts.Carver == nil {
		opts.Carver = csg.Unavailable{}
	}
	if opts.Interval <= 0 {
		opts.Interval = 2 * time.Second
	}
	if opts.HomeID == "" {
		opts.HomeID = DefaultHome().ID
	}
	opts.DefaultParams.Normalize()

	s := &Service{
		primary:  opts.Store,
		fallback: store.NewMemory(),
		carver:   opts.Carver,
		bc:       opts.Broadcaster,
		defaults: opts.DefaultParams,
		log:      opts.Logger,
		interval: opts.Interval,
	}
	s.home = s.loadOrSeed(opts.HomeID)
	return s
}

// loadOrSeed loads the home from the store, seeding the default
// configuration when the store is empty or unavailable.
func (s *Service) loadOrSeed(homeID string) *Home {
	if s.primary == nil {
		s.log.Warn("no store configured, running memory-only")
		return DefaultHome()
	}

	homeRec, rooms, sensors, err := s.primary.LoadHome(homeID)
	if errors.Is(err, store.ErrNotFound) {
		home := DefaultHome()
		if seedErr := s.primary.SeedHome(homeToRecords(home)); seedErr != nil {
			s.log.Error("seeding default configuration failed", zap.Error(seedErr))
		} else {
			s.log.Info("default configuration written to store", zap.String("home_id", home.ID))
		}
		return home
	}
	if err != nil {
		s.log.Error("loading configuration failed, using defaults", zap.Error(err))
		return DefaultHome()
	}

	s.log.Info("configuration loaded from store", zap.String("home_id", homeRec.ID))
	return homeFromRecords(homeRec, rooms, sensors)
}

func homeToRecords(h *Home) (store.HomeRecord, []store.RoomRecord, []store.SensorRecord) {
	homeRec := store.HomeRecord{ID: h.ID, SecurityStatus: h.SecurityStatus}
	var rooms []store.RoomRecord
	var sensors []store.SensorRecord
	for _, room := range h.Rooms {
		rooms = append(rooms, store.RoomRecord{ID: room.ID, Name: room.Name})
		for _, sensor := range room.Sensors {
			rec := store.SensorRecord{
				ID: sensor.ID, RoomID: room.ID, Type: sensor.Type,
				Status: sensor.Status, IsAlert: sensor.IsAlert,
			}
			if len(sensor.Location) == 3 {
				rec.X, rec.Y, rec.Z = sensor.Location[0], sensor.Location[1], sensor.Location[2]
			}
			sensors = append(sensors, rec)
		}
	}
	return homeRec, rooms, sensors
}

func homeFromRecords(homeRec store.HomeRecord, rooms []store.RoomRecord, sensors []store.SensorRecord) *Home {
	home := &Home{ID: homeRec.ID, SecurityStatus: homeRec.SecurityStatus, Rooms: make(map[string]*Room)}
	if home.SecurityStatus == "" {
		home.SecurityStatus = StatusSafe
	}
	for _, r := range rooms {
		home.Rooms[r.ID] = &Room{ID: r.ID, Name: r.Name, Sensors: make(map[string]*Sensor)}
	}
	for _, sr := range sensors {
		room, ok := home.Rooms[sr.RoomID]
		if !ok {
			continue
		}
		room.Sensors[sr.ID] = &Sensor{
			ID: sr.ID, Type: sr.Type, Status: sr.Status,
			Location: []float64{sr.X, sr.Y, sr.Z}, IsAlert: sr.IsAlert,
		}
	}
	return home
}

// FullConfig returns a deep copy of the current twin state.
func (s *Service) FullConfig() *Home {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.home.snapshot()
}

// SensorUpdate is the payload pushed on every sensor change.
type SensorUpdate struct {
	RoomID    string    `json:"room_id"`
	RoomName  string    `json:"room_name"`
	SensorID  string    `json:"sensor_id"`
	NewStatus string    `json:"new_status"`
	IsAlert   bool      `json:"is_alert"`
	Type      string    `json:"type"`
	Location  []float64 `json:"location,omitempty"`
}

// ApplySensorEvent updates (or creates) a sensor from an external event and
// returns the broadcast payload.
func (s *Service) ApplySensorEvent(roomID, sensorID, sensorType, newStatus string, location []float64) (*SensorUpdate, error) {
	s.mu.Lock()
	room, ok := s.home.Rooms[roomID]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("room %q not found", roomID)
	}

	sensor, ok := room.Sensors[sensorID]
	if ok {
		sensor.Type = sensorType
		sensor.Status = newStatus
		sensor.IsAlert = IsAlert(sensorType, newStatus)
		if location != nil {
			sensor.Location = location
		}
	} else {
		sensor = &Sensor{
			ID: sensorID, Type: sensorType, Status: newStatus,
			Location: location, IsAlert: IsAlert(sensorType, newStatus),
		}
		room.Sensors[sensorID] = sensor
	}

	update := &SensorUpdate{
		RoomID: roomID, RoomName: room.Name, SensorID: sensorID,
		NewStatus: sensor.Status, IsAlert: sensor.IsAlert,
		Type: sensor.Type, Location: sensor.Location,
	}
	s.mu.Unlock()

	s.persistAndBroadcast(update)
	return update, nil
}

// evaluateOverallStatus recomputes the home security status from the sensor
// alerts and broadcasts a change. Smoke escalates straight to CRITICAL.
func (s *Service) evaluateOverallStatus() string {
	s.mu.Lock()
	alert, critical := false, false
	for _, room := range s.home.Rooms {
		for _, sensor := range room.Sensors {
			if !sensor.IsAlert {
				continue
			}
			alert = true
			if sensor.Type == SensorSmoke {
				critical = true
			}
		}
	}

	status := StatusSafe
	if critical {
		status = StatusCritical
	} else if alert {
		status = StatusWarning
	}

	changed := s.home.SecurityStatus != status
	previous := s.home.SecurityStatus
	if changed {
		s.home.SecurityStatus = status
	}
	s.mu.Unlock()

	if changed {
		s.bc.Broadcast("security_status_update", map[string]string{"status": status})
		s.log.Warn("overall security status changed",
			zap.String("from", previous), zap.String("to", status))
	}
	return status
}

// persistAndBroadcast pushes the update to subscribers and writes it
// through to the store. Store failures are logged, never fatal.
func (s *Service) persistAndBroadcast(update *SensorUpdate) {
	overall := s.evaluateOverallStatus()

	s.bc.Broadcast("sensor_update", update)

	if s.primary == nil {
		return
	}
	if err := s.primary.UpdateSensor(update.SensorID, update.NewStatus, update.IsAlert); err != nil {
		s.log.Error("persisting sensor update failed", zap.Error(err))
	}
	s.mu.Lock()
	homeID := s.home.ID
	s.mu.Unlock()
	if err := s.primary.UpdateSecurityStatus(homeID, overall); err != nil {
		s.log.Error("persisting security status failed", zap.Error(err))
	}
}
