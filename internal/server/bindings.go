package server

import "github.com/go-gl/mathgl/mgl64"

// Movement input names bound by RegisterMovementBindings.
const (
	InputLeft    = "left"
	InputRight   = "right"
	InputForward = "forward"
	InputBack    = "back"
	InputJump    = "jump"
)

var movementDirections = map[string]mgl64.Vec3{
	InputLeft:    {-1, 0, 0},
	InputRight:   {1, 0, 0},
	InputForward: {0, 0, -1},
	InputBack:    {0, 0, 1},
	InputJump:    {0, 1, 0},
}

// RegisterMovementBindings binds the movement inputs to impulses in the
// player's frame, sized so that each input adds the model's movement
// velocity.
func RegisterMovementBindings(s *Server) {
	for name, dir := range movementDirections {
		local := dir
		s.On(name, func(p *Player) {
			body := p.Body()
			speed := p.Model.Movement.Velocity
			if speed <= 0 {
				return
			}
			world := body.Orientation().Rotate(local)
			body.ApplyImpulse(world.Mul(speed * body.Mass()))
		})
	}
}
