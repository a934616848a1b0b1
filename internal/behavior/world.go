// Package behavior runs agent decision making: behaviour trees evaluated
// over a shared navigation mesh.
package behavior

import (
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/samber/oops"

	"goom-server/internal/geom"
	"goom-server/internal/worldcfg"
)

// World holds every agent and the navigation mesh they share.
type World struct {
	mesh    *NavigationMesh
	models  map[string]*AgentModel
	agents  []*Agent
	index   map[string]*Agent
	actions Actions
	time    float64
	rng     *rand.Rand
}

// NewWorld builds the agent model table and one agent per level agent.
// A nil actions table uses DefaultActions.
func NewWorld(cfg *worldcfg.Config, actions Actions) (*World, error) {
	if actions == nil {
		actions = DefaultActions()
	}
	mesh, err := NewNavigationMesh(cfg.Level.NavigationMesh)
	if err != nil {
		return nil, err
	}
	w := &World{
		mesh:    mesh,
		models:  make(map[string]*AgentModel, len(cfg.AgentModels)),
		index:   make(map[string]*Agent),
		actions: actions,
		rng:     rand.New(rand.NewPCG(1, 2)),
	}
	for _, m := range cfg.AgentModels {
		w.models[m.Name] = &AgentModel{
			Name:           m.Name,
			Movement:       m.Movement,
			MaxHealth:      m.Body.MaxHealth,
			MaxEnergy:      m.Body.MaxEnergy,
			Appearance:     m.Appearance,
			Behaviour:      m.Behaviour,
			NavigationMesh: w.mesh,
		}
	}
	for _, inst := range cfg.Level.Agents {
		if _, err := w.AddAgent(inst); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// Seed reseeds the generator used by random actions.
func (w *World) Seed(a, b uint64) {
	w.rng = rand.New(rand.NewPCG(a, b))
}

// AddAgent instantiates an agent from a level placement.
func (w *World) AddAgent(inst worldcfg.Instance) (*Agent, error) {
	model, ok := w.models[inst.Model]
	if !ok {
		return nil, oops.Code(worldcfg.CodeUnknownModel).With("id", inst.ID).With("model", inst.Model).
			Errorf("agent %q references unknown model %q", inst.ID, inst.Model)
	}
	if _, dup := w.index[inst.ID]; dup {
		return nil, oops.Code(worldcfg.CodeDuplicateID).With("id", inst.ID).Errorf("duplicate agent id %q", inst.ID)
	}
	tree, err := BuildTree(model.Behaviour, w.actions)
	if err != nil {
		return nil, oops.With("id", inst.ID).With("model", inst.Model).Wrap(err)
	}

	a := &Agent{
		ID:          inst.ID,
		Model:       model,
		Health:      model.MaxHealth,
		Energy:      model.MaxEnergy,
		position:    geom.VecOrZero(inst.Position),
		orientation: geom.QuatOrIdentity(inst.Orientation),
		tree:        tree,
		world:       w,
	}
	if inst.Health != nil {
		a.Health = *inst.Health
	}
	if inst.Energy != nil {
		a.Energy = *inst.Energy
	}
	w.agents = append(w.agents, a)
	w.index[a.ID] = a
	return a, nil
}

// FindInstance returns the agent with the given id, or nil.
func (w *World) FindInstance(id string) *Agent {
	return w.index[id]
}

// Agents returns the agents in declaration order.
func (w *World) Agents() []*Agent {
	return append([]*Agent(nil), w.agents...)
}

// AgentModel returns the named model.
func (w *World) AgentModel(name string) (*AgentModel, bool) {
	m, ok := w.models[name]
	return m, ok
}

// NavigationMesh returns the mesh shared by every model.
func (w *World) NavigationMesh() *NavigationMesh { return w.mesh }

// Time returns the seconds accumulated by Update.
func (w *World) Time() float64 { return w.time }

// Update ticks every agent's behaviour tree. Non-positive dt does nothing.
func (w *World) Update(dt float64) {
	if dt <= 0 {
		return
	}
	w.time += dt
	for _, a := range w.agents {
		a.update(dt)
	}
}

// Steering returns the agents that asked to move during the last Update.
func (w *World) Steering() map[string]mgl64.Vec3 {
	out := make(map[string]mgl64.Vec3)
	for _, a := range w.agents {
		if a.desired != (mgl64.Vec3{}) {
			out[a.ID] = a.desired
		}
	}
	return out
}
