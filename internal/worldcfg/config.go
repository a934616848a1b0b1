// Package worldcfg defines the authoring configuration: the model tables and
// the level that the server instantiates at construction time.
package worldcfg

import (
	"encoding/json"

	"github.com/samber/oops"

	"goom-server/internal/geom"
)

// Config is the complete authoring configuration.
type Config struct {
	AgentModels  []AgentModel  `json:"agent_models"`
	ObjectModels []ObjectModel `json:"object_models"`
	Level        Level         `json:"level"`
	// RenderModels is the client asset table. It is never interpreted by
	// the server, only forwarded.
	RenderModels json.RawMessage `json:"render_models,omitempty"`
}

// Appearance is what a client needs to draw a model.
type Appearance struct {
	Model   string `json:"model" msgpack:"model"`
	Texture string `json:"texture,omitempty" msgpack:"texture,omitempty"`
}

// Movement describes how an agent model is allowed to move.
type Movement struct {
	Type            string  `json:"type" msgpack:"type"`
	Velocity        float64 `json:"velocity" msgpack:"velocity"`
	AngularVelocity float64 `json:"angular_velocity" msgpack:"angular_velocity"`
}

// Primitive is one collision shape of a body.
type Primitive struct {
	Type     string     `json:"type"`
	HalfSize *geom.Vec3 `json:"halfSize,omitempty"`
	Radius   float64    `json:"radius,omitempty"`
	Offset   []float64  `json:"offset,omitempty"`
}

// BodyTemplate holds the default body parameters of a model.
type BodyTemplate struct {
	MaxHealth      float64     `json:"max_health,omitempty"`
	MaxEnergy      float64     `json:"max_energy,omitempty"`
	Weight         float64     `json:"weight"`
	InertialTensor []float64   `json:"inertial_tensor,omitempty"`
	Primitives     []Primitive `json:"primitives,omitempty"`
	Damping        *float64    `json:"damping,omitempty"`
}

// BehaviourNode is one node of an agent's behaviour tree.
type BehaviourNode struct {
	Type     string           `json:"type"`
	Name     string           `json:"name,omitempty"`
	Children []*BehaviourNode `json:"children,omitempty"`
}

// AgentModel is the template for entities with both a body and a behaviour.
type AgentModel struct {
	Name       string         `json:"name"`
	Behaviour  *BehaviourNode `json:"behaviour,omitempty"`
	Movement   Movement       `json:"movement"`
	Body       BodyTemplate   `json:"body"`
	Appearance Appearance     `json:"appearance"`
}

// ObjectModel is the template for physics-only entities.
type ObjectModel struct {
	Name       string       `json:"name"`
	Body       BodyTemplate `json:"body"`
	Appearance Appearance   `json:"appearance"`
}

// Instance places one entity in the level. Kinematic fields are pointers so
// that an absent field can be told apart from a zero one.
type Instance struct {
	ID              string     `json:"id"`
	Model           string     `json:"model"`
	Static          bool       `json:"static,omitempty"`
	Position        *geom.Vec3 `json:"position,omitempty"`
	Orientation     *geom.Quat `json:"orientation,omitempty"`
	Velocity        *geom.Vec3 `json:"velocity,omitempty"`
	AngularVelocity *geom.Vec3 `json:"angular_velocity,omitempty"`
	Health          *float64   `json:"health,omitempty"`
	Energy          *float64   `json:"energy,omitempty"`
}

// Triangle is a navigation mesh face given as nine coordinates.
type Triangle struct {
	Vertices []float64 `json:"vertices"`
}

// Points returns the three corners of the triangle. A triangle without
// exactly nine coordinates is INVALID_CONFIG.
func (t Triangle) Points() (a, b, c geom.Vec3, err error) {
	v := t.Vertices
	if len(v) != 9 {
		err = oops.
			Code(CodeInvalidConfig).
			With("vertices", len(v)).
			Errorf("triangle needs 9 coordinates, got %d", len(v))
		return
	}
	return geom.Vec3{X: v[0], Y: v[1], Z: v[2]},
		geom.Vec3{X: v[3], Y: v[4], Z: v[5]},
		geom.Vec3{X: v[6], Y: v[7], Z: v[8]},
		nil
}

// NavigationMesh is the walkable surface shared by all agents.
type NavigationMesh struct {
	Triangles []Triangle `json:"triangles"`
}

// Plane is an infinite static half-space boundary.
type Plane struct {
	ID      string    `json:"id,omitempty"`
	Normal  geom.Vec3 `json:"normal"`
	Offset  float64   `json:"offset"`
	Visible bool      `json:"visible,omitempty"`
}

// ForceGenerator applies a continuous force to the listed bodies.
type ForceGenerator struct {
	ID           string     `json:"id,omitempty"`
	Type         string     `json:"type"`
	Acceleration *geom.Vec3 `json:"acceleration,omitempty"`
	Bodies       []string   `json:"bodies"`
}

// Level is the initial content of the world.
type Level struct {
	NavigationMesh *NavigationMesh  `json:"navigation_mesh,omitempty"`
	Agents         []Instance       `json:"agents"`
	Objects        []Instance       `json:"objects"`
	Planes         []Plane          `json:"planes,omitempty"`
	Forces         []ForceGenerator `json:"forces,omitempty"`
	Cameras        json.RawMessage  `json:"cameras,omitempty"`
}

// AgentModel returns the agent model with the given name.
func (c *Config) AgentModel(name string) (*AgentModel, bool) {
	for i := range c.AgentModels {
		if c.AgentModels[i].Name == name {
			return &c.AgentModels[i], true
		}
	}
	return nil, false
}

// ObjectModel returns the object model with the given name.
func (c *Config) ObjectModel(name string) (*ObjectModel, bool) {
	for i := range c.ObjectModels {
		if c.ObjectModels[i].Name == name {
			return &c.ObjectModels[i], true
		}
	}
	return nil, false
}

// Appearances maps every model name, agent and object alike, to its appearance.
func (c *Config) Appearances() map[string]Appearance {
	out := make(map[string]Appearance, len(c.AgentModels)+len(c.ObjectModels))
	for _, m := range c.AgentModels {
		out[m.Name] = m.Appearance
	}
	for _, m := range c.ObjectModels {
		out[m.Name] = m.Appearance
	}
	return out
}
