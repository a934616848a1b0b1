package worldcfg

import "goom-server/internal/geom"

// Clone returns a deep copy of the template. Instances must never share
// slices or pointers with the model they were built from.
func (b BodyTemplate) Clone() BodyTemplate {
	out := b
	if b.InertialTensor != nil {
		out.InertialTensor = append([]float64(nil), b.InertialTensor...)
	}
	if b.Primitives != nil {
		out.Primitives = make([]Primitive, len(b.Primitives))
		for i, p := range b.Primitives {
			out.Primitives[i] = p.Clone()
		}
	}
	if b.Damping != nil {
		d := *b.Damping
		out.Damping = &d
	}
	return out
}

// Clone returns a deep copy of the primitive.
func (p Primitive) Clone() Primitive {
	out := p
	if p.HalfSize != nil {
		hs := *p.HalfSize
		out.HalfSize = &hs
	}
	if p.Offset != nil {
		out.Offset = append([]float64(nil), p.Offset...)
	}
	return out
}

// Clone returns a deep copy of the instance placement.
func (in Instance) Clone() Instance {
	out := in
	out.Position = cloneVec(in.Position)
	out.Velocity = cloneVec(in.Velocity)
	out.AngularVelocity = cloneVec(in.AngularVelocity)
	if in.Orientation != nil {
		q := *in.Orientation
		out.Orientation = &q
	}
	if in.Health != nil {
		h := *in.Health
		out.Health = &h
	}
	if in.Energy != nil {
		e := *in.Energy
		out.Energy = &e
	}
	return out
}

func cloneVec(v *geom.Vec3) *geom.Vec3 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
