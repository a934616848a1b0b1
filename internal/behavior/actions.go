package behavior

import "github.com/go-gl/mathgl/mgl64"

const (
	ArrivalRadius = 0.25 // distance in XZ at which a target counts as reached
	WanderCost    = 5.0  // energy per second spent moving
	RestGain      = 10.0 // energy per second regained while resting
)

// Action is a leaf of a behaviour tree.
type Action func(a *Agent, dt float64) Response

// Actions maps action names to implementations.
type Actions map[string]Action

// DefaultActions returns the built-in actions.
func DefaultActions() Actions {
	return Actions{
		"idle":   Idle,
		"rest":   Rest,
		"wander": Wander,
		"seek":   Seek,
	}
}

// Merge returns a copy of a with extra added, extra winning on conflicts.
func (a Actions) Merge(extra Actions) Actions {
	out := make(Actions, len(a)+len(extra))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// Idle always succeeds.
func Idle(*Agent, float64) Response { return Success }

// Rest regains energy until the model maximum is reached.
func Rest(a *Agent, dt float64) Response {
	limit := 0.0
	if a.Model != nil {
		limit = a.Model.MaxEnergy
	}
	if a.Energy >= limit {
		return Success
	}
	a.Energy += RestGain * dt
	if a.Energy >= limit {
		a.Energy = limit
		return Success
	}
	return Running
}

// Seek moves toward the current target.
func Seek(a *Agent, dt float64) Response {
	target, ok := a.Target()
	if !ok {
		return Failure
	}
	if a.Energy <= 0 {
		return Failure
	}

	to := target.Sub(a.position)
	to[1] = 0
	if to.Len() <= ArrivalRadius {
		a.ClearTarget()
		return Success
	}

	speed := 1.0
	if a.Model != nil && a.Model.Movement.Velocity > 0 {
		speed = a.Model.Movement.Velocity
	}
	a.desired = to.Normalize().Mul(speed)
	a.Energy -= WanderCost * dt
	if a.Energy < 0 {
		a.Energy = 0
	}
	return Running
}

// Wander picks a random point of the navigation mesh and seeks it.
func Wander(a *Agent, dt float64) Response {
	if _, ok := a.Target(); !ok {
		var p mgl64.Vec3
		var found bool
		if a.Model != nil && a.Model.NavigationMesh != nil && a.world != nil {
			p, found = a.Model.NavigationMesh.RandomPoint(a.world.rng)
		}
		if !found {
			return Failure
		}
		a.SetTarget(p)
	}
	return Seek(a, dt)
}
