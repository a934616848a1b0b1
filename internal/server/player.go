package server

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/samber/oops"

	"goom-server/internal/geom"
	"goom-server/internal/physics"
	"goom-server/internal/protocol"
	"goom-server/internal/worldcfg"
)

// PlayerDescriptor describes a player to admit.
type PlayerDescriptor struct {
	ID              string
	Position        geom.Vec3
	Orientation     geom.Quat
	Velocity        geom.Vec3
	AngularVelocity geom.Vec3
	Body            worldcfg.BodyTemplate
	Health          float64
	Energy          float64
	Model           protocol.ModelSummary
	Appearance      worldcfg.Appearance
}

// Player is a connected, human-controlled entity. Kinematic accessors read
// the live physics body, so they never go stale.
type Player struct {
	ID         string
	Health     float64
	Energy     float64
	Model      protocol.ModelSummary
	Appearance worldcfg.Appearance

	body *physics.Body
}

// Body returns the physics body backing the player.
func (p *Player) Body() *physics.Body { return p.body }

// Position returns the body's current position.
func (p *Player) Position() mgl64.Vec3 { return p.body.Position() }

// Orientation returns the body's current orientation.
func (p *Player) Orientation() mgl64.Quat { return p.body.Orientation() }

// Velocity returns the body's current linear velocity.
func (p *Player) Velocity() mgl64.Vec3 { return p.body.Velocity() }

// AngularVelocity returns the body's current angular velocity.
func (p *Player) AngularVelocity() mgl64.Vec3 { return p.body.AngularVelocity() }

// SpawnPolicy chooses the descriptor of a player admitted on connection.
type SpawnPolicy func(id string) PlayerDescriptor

// DefaultSpawnPolicy places a walking unit box at (0, 2, 0).
func DefaultSpawnPolicy(id string) PlayerDescriptor {
	return PlayerDescriptor{
		ID:          id,
		Position:    geom.Vec3{X: 0, Y: 2, Z: 0},
		Orientation: geom.Identity,
		Body: worldcfg.BodyTemplate{
			MaxHealth: 100,
			MaxEnergy: 100,
			Weight:    1,
			Primitives: []worldcfg.Primitive{
				{Type: "box", HalfSize: &geom.Vec3{X: 1, Y: 1, Z: 1}},
			},
		},
		Health: 100,
		Energy: 100,
		Model: protocol.ModelSummary{
			Name:     "player",
			Movement: worldcfg.Movement{Type: "walk", Velocity: 4},
		},
		Appearance: worldcfg.Appearance{Model: "box"},
	}
}

// AddPlayer creates the player's body, registers the player and queues
// one new_player broadcast. An id held by a level body is refused with
// DUPLICATE_ID; an id held by an admitted player replaces that player.
func (s *Server) AddPlayer(d PlayerDescriptor) (*Player, error) {
	if _, admitted := s.index[d.ID]; !admitted && s.physics.FindBody(d.ID) != nil {
		return nil, oops.
			Code(worldcfg.CodeDuplicateID).
			With("id", d.ID).
			Errorf("id %q belongs to a world body", d.ID)
	}

	desc := templateDescriptor(d.ID, d.Body.Clone())
	desc.Position = d.Position.Mgl()
	desc.Orientation = d.Orientation.Mgl()
	desc.Velocity = d.Velocity.Mgl()
	desc.AngularVelocity = d.AngularVelocity.Mgl()
	body := s.physics.AddBody(desc)

	p := &Player{
		ID:         d.ID,
		Health:     d.Health,
		Energy:     d.Energy,
		Model:      d.Model,
		Appearance: d.Appearance,
		body:       body,
	}
	if old, ok := s.index[p.ID]; ok {
		s.dropPlayer(old)
	}
	s.players = append(s.players, p)
	s.index[p.ID] = p

	s.queue(&protocol.NewPlayerEvent{
		Type:        protocol.TypeNewPlayer,
		ID:          p.ID,
		Position:    geom.FromMgl(body.Position()),
		Orientation: geom.FromMglQuat(body.Orientation()),
		Health:      p.Health,
		Energy:      p.Energy,
		Model:       p.Model,
		Appearance:  p.Appearance,
	})
	s.logger.Info("player admitted", "id", p.ID, "players", len(s.players))
	s.track("new_player", p.ID, map[string]any{"model": p.Model.Name})
	if s.metrics != nil {
		s.metrics.Players.Set(float64(len(s.players)))
	}
	return p, nil
}

// RemovePlayer drops a player from the registry and broadcasts
// player_removed. The physics body stays in the world.
func (s *Server) RemovePlayer(id string) (*Player, bool) {
	p, ok := s.index[id]
	if !ok {
		return nil, false
	}
	s.dropPlayer(p)
	s.queue(protocol.NewPlayerRemoved(id))
	s.logger.Info("player removed", "id", id, "players", len(s.players))
	s.track("player_removed", id, nil)
	if s.metrics != nil {
		s.metrics.Players.Set(float64(len(s.players)))
	}
	return p, true
}

func (s *Server) dropPlayer(p *Player) {
	delete(s.index, p.ID)
	for i, other := range s.players {
		if other == p {
			s.players = append(s.players[:i], s.players[i+1:]...)
			break
		}
	}
}

// Player returns the admitted player with the given id.
func (s *Server) Player(id string) (*Player, bool) {
	p, ok := s.index[id]
	return p, ok
}

// Players returns the admitted players in admission order.
func (s *Server) Players() []*Player {
	return append([]*Player(nil), s.players...)
}
