package physics

import "github.com/go-gl/mathgl/mgl64"

// Plane is an infinite static boundary. Bodies are kept on the side the
// normal points to: Normal·p >= Offset.
type Plane struct {
	ID      string
	Normal  mgl64.Vec3
	Offset  float64
	Visible bool
}

// resolve pushes b out of the plane and removes the inbound part of its
// velocity. It reports whether a contact happened.
func (p *Plane) resolve(b *Body) bool {
	depth := p.Offset + b.support(p.Normal.Mul(-1)) - p.Normal.Dot(b.position)
	if depth <= 0 {
		return false
	}
	b.position = b.position.Add(p.Normal.Mul(depth))
	if vn := p.Normal.Dot(b.velocity); vn < 0 {
		b.velocity = b.velocity.Sub(p.Normal.Mul(vn))
	}
	return true
}
