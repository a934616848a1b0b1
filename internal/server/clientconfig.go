package server

import (
	"goom-server/internal/protocol"
	"goom-server/internal/worldcfg"
)

// ProjectClientConfig reduces the authoring configuration to what a client
// needs to render the level. Body internals never appear in the result.
func ProjectClientConfig(cfg *worldcfg.Config) *protocol.ClientConfig {
	appearances := cfg.Appearances()
	models := make(map[string]string, len(appearances))
	for name, a := range appearances {
		models[name] = a.Model
	}

	out := &protocol.ClientConfig{
		Models:       models,
		Placements:   make([]protocol.Placement, 0, len(cfg.Level.Agents)+len(cfg.Level.Objects)),
		Cameras:      cfg.Level.Cameras,
		RenderModels: cfg.RenderModels,
	}
	for _, list := range [][]worldcfg.Instance{cfg.Level.Agents, cfg.Level.Objects} {
		for _, inst := range list {
			c := inst.Clone()
			out.Placements = append(out.Placements, protocol.Placement{
				ID:              c.ID,
				Model:           models[c.Model],
				Position:        c.Position,
				Orientation:     c.Orientation,
				Velocity:        c.Velocity,
				AngularVelocity: c.AngularVelocity,
			})
		}
	}
	for _, p := range cfg.Level.Planes {
		if p.Visible {
			out.Planes = append(out.Planes, protocol.PlaneView{ID: p.ID, Normal: p.Normal, Offset: p.Offset})
		}
	}
	return out
}
