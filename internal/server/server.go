// Package server is the authoritative tick loop. It owns the physics and
// behaviour worlds, drains client events once per tick and routes the
// resulting events to the transport.
//
// A Server is not safe for concurrent use. The host must call every
// method from one goroutine; Runner does that for network hosts.
package server

import (
	"log/slog"
	"time"

	"goom-server/internal/behavior"
	"goom-server/internal/physics"
	"goom-server/internal/protocol"
	"goom-server/internal/worldcfg"
)

// InputFunc handles a named input for a player.
type InputFunc func(p *Player)

// Server holds the canonical world state.
type Server struct {
	cfg          *worldcfg.Config
	physics      *physics.World
	behavior     *behavior.World
	clientConfig *protocol.ClientConfig

	incoming []protocol.Event
	outgoing []protocol.Outgoing

	players []*Player
	index   map[string]*Player
	inputs  map[string]InputFunc

	running bool
	tick    uint64
	last    time.Time

	broadcast BroadcastFunc
	sendTo    SendFunc

	now     func() time.Time
	spawn   SpawnPolicy
	logger  *slog.Logger
	metrics *Metrics
	tracker Tracker
	journal Journal
}

// New builds both worlds from cfg and binds them. Configuration errors
// abort construction; no partially wired server is returned.
func New(cfg *worldcfg.Config, broadcast BroadcastFunc, sendTo SendFunc, opts ...Option) (*Server, error) {
	o := options{
		now:   time.Now,
		spawn: DefaultSpawnPolicy,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if broadcast == nil {
		broadcast = func(protocol.Outgoing) {}
	}
	if sendTo == nil {
		sendTo = func(protocol.Outgoing, string) {}
	}

	s := &Server{
		cfg:       cfg,
		index:     make(map[string]*Player),
		inputs:    make(map[string]InputFunc),
		broadcast: broadcast,
		sendTo:    sendTo,
		now:       o.now,
		spawn:     o.spawn,
		logger:    o.logger,
		metrics:   o.metrics,
		tracker:   o.tracker,
		journal:   o.journal,
	}
	if err := s.bind(o.actions); err != nil {
		return nil, err
	}
	s.clientConfig = ProjectClientConfig(cfg)
	s.last = s.now()
	return s, nil
}

// ReceiveEvent queues an inbound event for the next tick. It never blocks
// and never validates the event.
func (s *Server) ReceiveEvent(ev protocol.Event) {
	s.incoming = append(s.incoming, ev)
}

// PendingEvents returns the number of events waiting for the next tick.
func (s *Server) PendingEvents() int { return len(s.incoming) }

// On registers the callback for a named input, replacing any previous one.
func (s *Server) On(input string, fn InputFunc) {
	if fn == nil {
		delete(s.inputs, input)
		return
	}
	s.inputs[input] = fn
}

// Running reports whether a ready event has started the simulation.
func (s *Server) Running() bool { return s.running }

// Tick returns the number of completed Update calls.
func (s *Server) Tick() uint64 { return s.tick }

// ClientConfig returns the cached projection sent in every init event.
func (s *Server) ClientConfig() *protocol.ClientConfig { return s.clientConfig }

// Physics returns the physics world.
func (s *Server) Physics() *physics.World { return s.physics }

// Behavior returns the behaviour world.
func (s *Server) Behavior() *behavior.World { return s.behavior }

func (s *Server) queue(ev protocol.Outgoing) {
	s.outgoing = append(s.outgoing, ev)
}

func (s *Server) track(event, playerID string, data map[string]any) {
	if s.tracker != nil {
		s.tracker.Track(event, playerID, data)
	}
}
