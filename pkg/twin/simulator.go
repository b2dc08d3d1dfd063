package twin

import (
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// StartSimulation launches the background sensor simulator. Starting an
// already running simulator is a no-op.
func (s *Service) StartSimulation() {
	s.simMu.Lock()
	defer s.simMu.Unlock()
	if s.simStop != nil {
		return
	}
	s.simStop = make(chan struct{})
	s.simDone = make(chan struct{})
	go s.simulate(s.simStop, s.simDone)
	s.log.Info("sensor simulation started", zap.Duration("interval", s.interval))
}

// StopSimulation stops the simulator and waits for the worker to exit.
// Stopping an idle simulator is a no-op.
func (s *Service) StopSimulation() {
	s.simMu.Lock()
	defer s.simMu.Unlock()
	if s.simStop == nil {
		return
	}
	close(s.simStop)
	<-s.simDone
	s.simStop = nil
	s.simDone = nil
	s.log.Info("sensor simulation stopped")
}

// SimulationRunning reports whether the simulator worker is active.
func (s *Service) SimulationRunning() bool {
	s.simMu.Lock()
	defer s.simMu.Unlock()
	return s.simStop != nil
}

func (s *Service) simulate(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	for {
		select {
		case <-stop:
			return
		case <-time.After(s.interval):
			s.simulateOnce(rng)
		}
	}
}

// simulateOnce mutates one random sensor and publishes the update.
func (s *Service) simulateOnce(rng *rand.Rand) {
	s.mu.Lock()
	type candidate struct {
		roomID, roomName string
		sensor           *Sensor
	}
	var candidates []candidate
	for _, room := range s.home.Rooms {
		for _, sensor := range room.Sensors {
			candidates = append(candidates, candidate{room.ID, room.Name, sensor})
		}
	}
	if len(candidates) == 0 {
		s.mu.Unlock()
		return
	}
	pick := candidates[rng.Intn(len(candidates))]
	status, alert := nextStatus(rng, pick.sensor)
	pick.sensor.Status = status
	pick.sensor.IsAlert = alert

	update := &SensorUpdate{
		RoomID: pick.roomID, RoomName: pick.roomName, SensorID: pick.sensor.ID,
		NewStatus: status, IsAlert: alert,
		Type: pick.sensor.Type, Location: pick.sensor.Location,
	}
	s.mu.Unlock()

	s.persistAndBroadcast(update)
}
