package server

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"goom-server/internal/geom"
	"goom-server/internal/protocol"
)

// steerGain converts a velocity error into an acceleration for agents.
const steerGain = 4.0

// Update runs one tick: drain inbound events, advance the simulation when
// running, broadcast the bodies that changed and flush outgoing events.
func (s *Server) Update() {
	start := s.now()
	elapsed := start.Sub(s.last).Seconds()
	s.last = start
	s.tick++

	// Events queued while dispatching wait for the next tick.
	events := s.incoming
	s.incoming = nil
	for _, ev := range events {
		s.dispatch(ev)
	}

	if s.running {
		s.behavior.Update(elapsed)
		s.steer()
		s.physics.Update(elapsed)
	}

	if bodies := s.harvest(); len(bodies) > 0 {
		s.queue(protocol.NewUpdateWorld(bodies))
	}
	s.flush(elapsed)

	if s.metrics != nil {
		s.metrics.TickDuration.Observe(s.now().Sub(start).Seconds())
	}
}

func (s *Server) dispatch(ev protocol.Event) {
	if s.metrics != nil {
		s.metrics.Events.WithLabelValues(eventLabel(ev.Type)).Inc()
	}
	switch ev.Type {
	case protocol.TypeConnection:
		s.connect(ev.From)
	case protocol.TypeInput:
		p, ok := s.index[ev.From]
		if !ok {
			s.logger.Debug("input from unknown player", "from", ev.From)
			return
		}
		fn, ok := s.inputs[ev.Value]
		if !ok {
			s.logger.Debug("unbound input", "from", ev.From, "input", ev.Value)
			return
		}
		fn(p)
	case protocol.TypeReady:
		if !s.running {
			s.running = true
			s.logger.Info("simulation started", "from", ev.From, "tick", s.tick)
			s.track("ready", ev.From, nil)
		}
	default:
		s.logger.Debug("ignoring event", "type", ev.Type, "from", ev.From)
	}
}

func (s *Server) connect(id string) {
	if id == "" {
		s.logger.Debug("connection without id")
		return
	}
	_, admitted := s.index[id]
	if !admitted && s.physics.FindBody(id) != nil {
		s.logger.Debug("connection id belongs to a world body", "id", id)
		return
	}
	s.queue(protocol.NewInit(s.clientConfig, id))
	s.track("connection", id, nil)
	if admitted {
		s.logger.Debug("connection from admitted player", "id", id)
		return
	}
	if _, err := s.AddPlayer(s.spawn(id)); err != nil {
		s.logger.Debug("player not admitted", "id", id, "error", err)
	}
}

// steer turns the velocities agents asked for into forces on their bodies.
func (s *Server) steer() {
	for id, want := range s.behavior.Steering() {
		body := s.physics.FindBody(id)
		if body == nil || body.Static() {
			continue
		}
		have := body.Velocity()
		diff := mgl64.Vec3{want[0] - have[0], 0, want[2] - have[2]}
		body.ApplyForce(diff.Mul(body.Mass() * steerGain))
	}
}

func (s *Server) harvest() []protocol.BodyState {
	var out []protocol.BodyState
	for _, b := range s.physics.Bodies() {
		if !b.ConsumeDirty() {
			continue
		}
		out = append(out, protocol.BodyState{
			ID:              b.ID(),
			Position:        geom.FromMgl(b.Position()),
			Orientation:     geom.FromMglQuat(b.Orientation()),
			Velocity:        geom.FromMgl(b.Velocity()),
			AngularVelocity: geom.FromMgl(b.AngularVelocity()),
		})
	}
	if s.metrics != nil {
		s.metrics.DirtyBodies.Observe(float64(len(out)))
	}
	return out
}

// flush hands every queued event to the transport in queue order, then
// clears the queue even if a send failed.
func (s *Server) flush(elapsed float64) {
	if len(s.outgoing) == 0 {
		return
	}
	events := s.outgoing
	s.outgoing = nil

	for _, ev := range events {
		if to := ev.Recipient(); to != "" {
			s.deliver(ev, func() { s.sendTo(ev, to) })
			if s.metrics != nil {
				s.metrics.Outgoing.WithLabelValues("targeted").Inc()
			}
		} else {
			s.deliver(ev, func() { s.broadcast(ev) })
			if s.metrics != nil {
				s.metrics.Outgoing.WithLabelValues("broadcast").Inc()
			}
		}
	}

	if s.journal != nil {
		if err := s.journal.Record(s.tick, elapsed, events); err != nil {
			s.logger.Warn("journal write failed", "tick", s.tick, "error", err)
		}
	}
}

func (s *Server) deliver(ev protocol.Outgoing, send func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("send failed", "type", ev.EventType(), "to", ev.Recipient(), "error", fmt.Sprint(r))
		}
	}()
	send()
}

func eventLabel(t string) string {
	switch t {
	case protocol.TypeConnection, protocol.TypeInput, protocol.TypeReady:
		return t
	}
	return "unknown"
}
