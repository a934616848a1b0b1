package behavior

import (
	"github.com/go-gl/mathgl/mgl64"

	"goom-server/internal/worldcfg"
)

// AgentModel is the behaviour-side view of an agent template.
type AgentModel struct {
	Name           string
	Movement       worldcfg.Movement
	MaxHealth      float64
	MaxEnergy      float64
	Appearance     worldcfg.Appearance
	Behaviour      *worldcfg.BehaviourNode
	NavigationMesh *NavigationMesh
}

// Agent is a behaviour instance. Its pose is written only by SetPose; the
// behaviour logic never reads physics state.
type Agent struct {
	ID     string
	Model  *AgentModel
	Health float64
	Energy float64

	position    mgl64.Vec3
	orientation mgl64.Quat
	target      *mgl64.Vec3
	desired     mgl64.Vec3
	tree        Node
	world       *World
	last        Response
}

// Position returns the last pose written by SetPose.
func (a *Agent) Position() mgl64.Vec3 { return a.position }

// Orientation returns the last orientation written by SetPose.
func (a *Agent) Orientation() mgl64.Quat { return a.orientation }

// SetPose copies the result of a physics step onto the agent.
func (a *Agent) SetPose(position mgl64.Vec3, orientation mgl64.Quat) {
	a.position = position
	a.orientation = orientation
}

// Target returns the navigation target, if any.
func (a *Agent) Target() (mgl64.Vec3, bool) {
	if a.target == nil {
		return mgl64.Vec3{}, false
	}
	return *a.target, true
}

// SetTarget sets the navigation target. Points off the navigation mesh are
// rejected.
func (a *Agent) SetTarget(p mgl64.Vec3) bool {
	if a.Model != nil && a.Model.NavigationMesh != nil && !a.Model.NavigationMesh.Contains(p) {
		return false
	}
	a.target = &p
	return true
}

// ClearTarget drops the navigation target.
func (a *Agent) ClearTarget() { a.target = nil }

// Desired returns the velocity the agent asked for during its last tick.
func (a *Agent) Desired() mgl64.Vec3 { return a.desired }

// LastResponse returns the root response of the last tick.
func (a *Agent) LastResponse() Response { return a.last }

func (a *Agent) update(dt float64) {
	a.desired = mgl64.Vec3{}
	if a.tree == nil {
		a.last = Success
		return
	}
	a.last = a.tree.Tick(a, dt)
}
