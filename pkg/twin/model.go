// Package twin holds the live digital-twin state for one home: rooms,
// sensors and the overall security status, plus the mesh generation and
// persistence workflow around the geometry core. The service is an
// explicitly constructed state holder; everything it needs is injected.
package twin

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

// Sensor types understood by the alert rules and the simulator.
const (
	SensorMotion      = "PIR"
	SensorDoorContact = "DoorContact"
	SensorSmoke       = "Smoke"
	SensorTemperature = "Temperature"
)

// Overall security statuses.
const (
	StatusSafe     = "Safe"
	StatusWarning  = "WARNING"
	StatusCritical = "CRITICAL"
)

// tempAlertCelsius is the temperature above which a reading is an alert.
const tempAlertCelsius = 35.0

var (
	motionStatuses = []string{"idle", "detected"}
	doorStatuses   = []string{"closed", "open"}
	smokeStatuses  = []string{"normal", "alarm"}
)

// Sensor is one live sensor reading.
type Sensor struct {
	ID       string    `json:"id"`
	Type     string    `json:"type"`
	Status   string    `json:"status"`
	Location []float64 `json:"location,omitempty"`
	IsAlert  bool      `json:"is_alert"`
}

// Room groups sensors.
type Room struct {
	ID      string             `json:"id"`
	Name    string             `json:"name"`
	Sensors map[string]*Sensor `json:"sensors"`
}

// Home is the complete twin state.
type Home struct {
	ID             string           `json:"home_id"`
	Rooms          map[string]*Room `json:"rooms"`
	SecurityStatus string           `json:"security_status"`
}

// IsAlert reports whether a sensor status is an alert for its type.
func IsAlert(sensorType, status string) bool {
	switch sensorType {
	case SensorMotion:
		return status == "detected"
	case SensorDoorContact:
		return status == "open"
	case SensorSmoke:
		return status == "alarm"
	case SensorTemperature:
		value, err := strconv.ParseFloat(strings.TrimSuffix(status, "°C"), 64)
		if err != nil {
			return false
		}
		return value > tempAlertCelsius
	}
	return false
}

// nextStatus generates a simulated reading for the sensor. Temperature
// drifts from the previous reading; the discrete types pick a random state.
func nextStatus(r *rand.Rand, s *Sensor) (string, bool) {
	var status string
	switch s.Type {
	case SensorMotion:
		status = motionStatuses[r.Intn(len(motionStatuses))]
	case SensorDoorContact:
		status = doorStatuses[r.Intn(len(doorStatuses))]
	case SensorSmoke:
		status = smokeStatuses[r.Intn(len(smokeStatuses))]
	case SensorTemperature:
		base, err := strconv.ParseFloat(strings.TrimSuffix(s.Status, "°C"), 64)
		if err != nil {
			base = 24.0
		}
		status = fmt.Sprintf("%.1f°C", base-1.0+r.Float64()*2.5)
	default:
		status = s.Status
	}
	return status, IsAlert(s.Type, status)
}

// DefaultHome returns the seed configuration used when the store is empty.
func DefaultHome() *Home {
	return &Home{
		ID:             "main_home",
		SecurityStatus: StatusSafe,
		Rooms: map[string]*Room{
			"room_a": {
				ID:   "room_a",
				Name: "Master Bedroom",
				Sensors: map[string]*Sensor{
					"motion_01": {ID: "motion_01", Type: SensorMotion, Status: "idle", Location: []float64{1.5, 0.2, 0}},
					"door_01":   {ID: "door_01", Type: SensorDoorContact, Status: "closed", Location: []float64{3.0, 0.5, 0}},
				},
			},
			"room_b": {
				ID:   "room_b",
				Name: "Living Room",
				Sensors: map[string]*Sensor{
					"smoke_01": {ID: "smoke_01", Type: SensorSmoke, Status: "normal", Location: []float64{0, 2.5, 0}},
					"temp_02":  {ID: "temp_02", Type: SensorTemperature, Status: "24.5°C", Location: []float64{-1.0, 0.2, 0}},
				},
			},
		},
	}
}

// snapshot returns a deep copy of the home for lock-free serialization.
func (h *Home) snapshot() *Home {
	out := &Home{ID: h.ID, SecurityStatus: h.SecurityStatus, Rooms: make(map[string]*Room, len(h.Rooms))}
	for id, room := range h.Rooms {
		rc := &Room{ID: room.ID, Name: room.Name, Sensors: make(map[string]*Sensor, len(room.Sensors))}
		for sid, sensor := range room.Sensors {
			sc := *sensor
			sc.Location = append([]float64(nil), sensor.Location...)
			rc.Sensors[sid] = &sc
		}
		out.Rooms[id] = rc
	}
	return out
}
