// Package protocol defines the events exchanged between clients and the
// authoritative server.
package protocol

import (
	"encoding/json"

	"goom-server/internal/geom"
	"goom-server/internal/worldcfg"
)

// Client -> Server event types
const (
	TypeConnection = "connection"
	TypeInput      = "input"
	TypeReady      = "ready"
)

// Server -> Client event types
const (
	TypeInit          = "init"
	TypeUpdateWorld   = "update_world"
	TypeNewPlayer     = "new_player"
	TypePlayerRemoved = "player_removed"
)

// Event is an inbound event. Fields other than type, from and value are
// kept untouched in Raw.
type Event struct {
	Type  string          `json:"type"`
	From  string          `json:"from,omitempty"`
	Value string          `json:"value,omitempty"`
	Raw   json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the known fields and keeps the full payload.
// A non-string value is left empty rather than rejected.
func (e *Event) UnmarshalJSON(data []byte) error {
	var head struct {
		Type  string          `json:"type"`
		From  string          `json:"from"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	e.Type = head.Type
	e.From = head.From
	e.Value = ""
	if len(head.Value) > 0 {
		var s string
		if json.Unmarshal(head.Value, &s) == nil {
			e.Value = s
		}
	}
	e.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// Outgoing is an event produced during a tick. An empty Recipient means
// broadcast.
type Outgoing interface {
	EventType() string
	Recipient() string
}

// BodyState is the kinematic state of one body inside update_world.
type BodyState struct {
	ID              string    `json:"id" msgpack:"id"`
	Position        geom.Vec3 `json:"position" msgpack:"position"`
	Orientation     geom.Quat `json:"orientation" msgpack:"orientation"`
	Velocity        geom.Vec3 `json:"velocity" msgpack:"velocity"`
	AngularVelocity geom.Vec3 `json:"angular_velocity" msgpack:"angular_velocity"`
}

// UpdateWorldEvent carries the bodies that changed this tick.
type UpdateWorldEvent struct {
	Type   string      `json:"type" msgpack:"type"`
	Bodies []BodyState `json:"bodies" msgpack:"bodies"`
}

// NewUpdateWorld builds an update_world event.
func NewUpdateWorld(bodies []BodyState) *UpdateWorldEvent {
	return &UpdateWorldEvent{Type: TypeUpdateWorld, Bodies: bodies}
}

func (*UpdateWorldEvent) EventType() string { return TypeUpdateWorld }
func (*UpdateWorldEvent) Recipient() string { return "" }

// Placement is the initial placement of one instance as a client sees it.
// Fields absent from the level are omitted.
type Placement struct {
	ID              string     `json:"id"`
	Model           string     `json:"model"`
	Position        *geom.Vec3 `json:"position,omitempty"`
	Orientation     *geom.Quat `json:"orientation,omitempty"`
	Velocity        *geom.Vec3 `json:"velocity,omitempty"`
	AngularVelocity *geom.Vec3 `json:"angular_velocity,omitempty"`
}

// PlaneView is a visible plane.
type PlaneView struct {
	ID     string    `json:"id,omitempty"`
	Normal geom.Vec3 `json:"normal"`
	Offset float64   `json:"offset"`
}

// ClientConfig is the render-oriented projection of the world sent in init.
type ClientConfig struct {
	Models       map[string]string `json:"models"`
	Placements   []Placement       `json:"placements"`
	Planes       []PlaneView       `json:"planes,omitempty"`
	Cameras      json.RawMessage   `json:"cameras,omitempty"`
	RenderModels json.RawMessage   `json:"render_models,omitempty"`
}

// InitEvent is sent to a newly connected client.
type InitEvent struct {
	Type   string        `json:"type"`
	Config *ClientConfig `json:"config"`
	To     string        `json:"to"`
}

// NewInit builds an init event addressed to one connection.
func NewInit(cfg *ClientConfig, to string) *InitEvent {
	return &InitEvent{Type: TypeInit, Config: cfg, To: to}
}

func (*InitEvent) EventType() string   { return TypeInit }
func (e *InitEvent) Recipient() string { return e.To }

// ModelSummary is the part of a model a client may know about.
type ModelSummary struct {
	Name     string            `json:"name"`
	Movement worldcfg.Movement `json:"movement"`
}

// NewPlayerEvent announces an admitted player to everyone.
type NewPlayerEvent struct {
	Type        string              `json:"type"`
	ID          string              `json:"id"`
	Position    geom.Vec3           `json:"position"`
	Orientation geom.Quat           `json:"orientation"`
	Health      float64             `json:"health"`
	Energy      float64             `json:"energy"`
	Model       ModelSummary        `json:"model"`
	Appearance  worldcfg.Appearance `json:"appearance"`
}

func (*NewPlayerEvent) EventType() string { return TypeNewPlayer }
func (*NewPlayerEvent) Recipient() string { return "" }

// PlayerRemovedEvent tells clients to drop a player.
type PlayerRemovedEvent struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// NewPlayerRemoved builds a player_removed event.
func NewPlayerRemoved(id string) *PlayerRemovedEvent {
	return &PlayerRemovedEvent{Type: TypePlayerRemoved, ID: id}
}

func (*PlayerRemovedEvent) EventType() string { return TypePlayerRemoved }
func (*PlayerRemovedEvent) Recipient() string { return "" }
