package behavior

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goom-server/internal/worldcfg"
)

func loadFixture(t *testing.T) *worldcfg.Config {
	t.Helper()
	cfg, err := worldcfg.Load("../worldcfg/testdata/world.json")
	require.NoError(t, err)
	return cfg
}

func codeOf(t *testing.T, err error) string {
	t.Helper()
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok)
	return oopsErr.Code()
}

func TestNewWorldFromFixture(t *testing.T) {
	w, err := NewWorld(loadFixture(t), nil)
	require.NoError(t, err)

	model, ok := w.AgentModel("box_agent")
	require.True(t, ok)
	assert.Equal(t, 12.0, model.Movement.Velocity)
	assert.Equal(t, 10.0, model.Movement.AngularVelocity)
	assert.Equal(t, 100.0, model.MaxHealth)
	assert.Equal(t, "box", model.Appearance.Model)
	assert.Same(t, w.NavigationMesh(), model.NavigationMesh)
	assert.Len(t, w.NavigationMesh().Triangles, 9)

	require.Len(t, w.Agents(), 1)
	a := w.FindInstance("0")
	require.NotNil(t, a)
	assert.Equal(t, 0.0, a.Position().X())
	assert.Equal(t, 1.0, a.Orientation().W)
	assert.Equal(t, 100.0, a.Health)
	assert.Equal(t, 80.0, a.Energy)
	assert.Nil(t, w.FindInstance("1"))
}

func TestNewWorldUnknownModel(t *testing.T) {
	cfg := loadFixture(t)
	cfg.Level.Agents[0].Model = "ghost"
	_, err := NewWorld(cfg, nil)
	require.Error(t, err)
	assert.Equal(t, worldcfg.CodeUnknownModel, codeOf(t, err))
}

func TestNewWorldRejectsShortTriangle(t *testing.T) {
	cfg := loadFixture(t)
	cfg.Level.NavigationMesh.Triangles[3].Vertices = []float64{2, 0, 0, 2, 0, 2}
	w, err := NewWorld(cfg, nil)
	require.Error(t, err)
	assert.Nil(t, w)
	assert.Equal(t, worldcfg.CodeInvalidConfig, codeOf(t, err))

	_, err = NewNavigationMesh(&worldcfg.NavigationMesh{Triangles: []worldcfg.Triangle{{}}})
	assert.Error(t, err)

	mesh, err := NewNavigationMesh(nil)
	require.NoError(t, err)
	assert.True(t, mesh.Contains(mgl64.Vec3{100, 0, 100}))
}

func TestAddAgentDuplicateID(t *testing.T) {
	w, err := NewWorld(loadFixture(t), nil)
	require.NoError(t, err)
	_, err = w.AddAgent(worldcfg.Instance{ID: "0", Model: "box_agent"})
	require.Error(t, err)
	assert.Equal(t, worldcfg.CodeDuplicateID, codeOf(t, err))
}

func TestAddAgentDefaultsFromModel(t *testing.T) {
	w, err := NewWorld(loadFixture(t), nil)
	require.NoError(t, err)
	a, err := w.AddAgent(worldcfg.Instance{ID: "new", Model: "box_agent"})
	require.NoError(t, err)
	assert.Equal(t, 100.0, a.Health)
	assert.Equal(t, 100.0, a.Energy)
	assert.Equal(t, mgl64.QuatIdent(), a.Orientation())
}

func TestUpdateAdvancesTime(t *testing.T) {
	w, err := NewWorld(loadFixture(t), nil)
	require.NoError(t, err)
	w.Update(0.5)
	w.Update(0)
	w.Update(-3)
	assert.Equal(t, 0.5, w.Time())
	assert.Equal(t, Success, w.FindInstance("0").LastResponse())
	assert.Empty(t, w.Steering())
}

func TestWanderStopsAtTarget(t *testing.T) {
	cfg := loadFixture(t)
	cfg.AgentModels[0].Behaviour = &worldcfg.BehaviourNode{Type: "action", Name: "wander"}
	w, err := NewWorld(cfg, nil)
	require.NoError(t, err)
	a := w.FindInstance("0")

	w.Update(0.1)
	target, ok := a.Target()
	require.True(t, ok)
	assert.True(t, w.NavigationMesh().Contains(target))
	assert.Equal(t, Running, a.LastResponse())
	require.Contains(t, w.Steering(), "0")
	assert.InDelta(t, 12.0, w.Steering()["0"].Len(), 1e-9)
	assert.Less(t, a.Energy, 80.0)

	a.SetPose(target, mgl64.QuatIdent())
	w.Update(0.1)
	assert.Equal(t, Success, a.LastResponse())
	_, ok = a.Target()
	assert.False(t, ok)
}

func TestSetTargetRejectsOffMesh(t *testing.T) {
	w, err := NewWorld(loadFixture(t), nil)
	require.NoError(t, err)
	a := w.FindInstance("0")
	assert.False(t, a.SetTarget(mgl64.Vec3{100, 0, 100}))
	assert.True(t, a.SetTarget(mgl64.Vec3{1.5, 0, 0.3}))
}

func TestCustomActionsAreUsed(t *testing.T) {
	cfg := loadFixture(t)
	calls := 0
	actions := DefaultActions().Merge(Actions{
		"idle": func(*Agent, float64) Response {
			calls++
			return Failure
		},
	})
	w, err := NewWorld(cfg, actions)
	require.NoError(t, err)
	w.Update(0.1)
	assert.Equal(t, 1, calls)
	assert.Equal(t, Failure, w.FindInstance("0").LastResponse())
}
