package server

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/samber/oops"

	"goom-server/internal/behavior"
	"goom-server/internal/geom"
	"goom-server/internal/physics"
	"goom-server/internal/worldcfg"
)

// bind creates every level body and links agent bodies to their behaviour
// instances.
func (s *Server) bind(actions behavior.Actions) error {
	bw, err := behavior.NewWorld(s.cfg, actions)
	if err != nil {
		return err
	}
	s.behavior = bw
	s.physics = physics.NewWorld(s.logger)

	for _, inst := range s.cfg.Level.Agents {
		model, ok := s.cfg.AgentModel(inst.Model)
		if !ok {
			return unknownModel(inst)
		}
		body, err := s.addLevelBody(inst, model.Body)
		if err != nil {
			return err
		}
		s.listen(body)
	}
	for _, inst := range s.cfg.Level.Objects {
		model, ok := s.cfg.ObjectModel(inst.Model)
		if !ok {
			return unknownModel(inst)
		}
		if _, err := s.addLevelBody(inst, model.Body); err != nil {
			return err
		}
	}

	for _, p := range s.cfg.Level.Planes {
		s.physics.AddPlanes(physics.Plane{
			ID:      p.ID,
			Normal:  p.Normal.Mgl(),
			Offset:  p.Offset,
			Visible: p.Visible,
		})
	}
	for _, f := range s.cfg.Level.Forces {
		gen, err := forceGenerator(f)
		if err != nil {
			return err
		}
		for _, id := range f.Bodies {
			body := s.physics.FindBody(id)
			if body == nil {
				s.logger.Debug("force generator target not found", "generator", f.ID, "body", id)
				continue
			}
			s.physics.RegisterBodyAffectedByForceGenerator(body, gen)
		}
	}
	return nil
}

func (s *Server) addLevelBody(inst worldcfg.Instance, tpl worldcfg.BodyTemplate) (*physics.Body, error) {
	if s.physics.FindBody(inst.ID) != nil {
		return nil, oops.Code(worldcfg.CodeDuplicateID).With("id", inst.ID).Errorf("duplicate body id %q", inst.ID)
	}
	return s.physics.AddBody(instanceDescriptor(inst.Clone(), tpl.Clone())), nil
}

// listen copies each integration result of body into the agent with the
// same id. The agent is resolved at call time so the body never owns it.
func (s *Server) listen(body *physics.Body) {
	id := body.ID()
	body.ListenToUpdates(id, func(b *physics.Body) {
		if a := s.behavior.FindInstance(id); a != nil {
			a.SetPose(b.Position(), b.Orientation())
		}
	})
}

func unknownModel(inst worldcfg.Instance) error {
	return oops.Code(worldcfg.CodeUnknownModel).With("id", inst.ID).With("model", inst.Model).
		Errorf("instance %q references unknown model %q", inst.ID, inst.Model)
}

func forceGenerator(f worldcfg.ForceGenerator) (physics.ForceGenerator, error) {
	switch f.Type {
	case "gravity":
		if f.Acceleration == nil {
			return physics.NewGravity(nil), nil
		}
		acc := f.Acceleration.Mgl()
		return physics.NewGravity(&acc), nil
	}
	return nil, oops.Code(worldcfg.CodeInvalidConfig).With("generator", f.ID).With("type", f.Type).
		Errorf("unknown force generator type %q", f.Type)
}

// instanceDescriptor merges a level placement over a model body template.
// Both arguments must already be private copies.
func instanceDescriptor(inst worldcfg.Instance, tpl worldcfg.BodyTemplate) physics.Descriptor {
	d := templateDescriptor(inst.ID, tpl)
	d.Static = inst.Static
	d.Position = geom.VecOrZero(inst.Position)
	d.Orientation = geom.QuatOrIdentity(inst.Orientation)
	d.Velocity = geom.VecOrZero(inst.Velocity)
	d.AngularVelocity = geom.VecOrZero(inst.AngularVelocity)
	return d
}

func templateDescriptor(id string, tpl worldcfg.BodyTemplate) physics.Descriptor {
	d := physics.Descriptor{
		ID:   id,
		Mass: tpl.Weight,
	}
	if len(tpl.InertialTensor) == 3 {
		d.InertialTensor = mgl64.Vec3{tpl.InertialTensor[0], tpl.InertialTensor[1], tpl.InertialTensor[2]}
	}
	if tpl.Damping != nil {
		d.Damping = *tpl.Damping
	}
	for _, p := range tpl.Primitives {
		shape := physics.Shape{Type: p.Type, Radius: p.Radius}
		if p.HalfSize != nil {
			shape.HalfSize = p.HalfSize.Mgl()
		}
		// 4x4 column-major transform; only the translation is used.
		if len(p.Offset) == 16 {
			shape.Offset = mgl64.Vec3{p.Offset[12], p.Offset[13], p.Offset[14]}
		}
		d.Shapes = append(d.Shapes, shape)
	}
	return d
}
