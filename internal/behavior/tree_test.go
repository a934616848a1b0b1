package behavior

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goom-server/internal/worldcfg"
)

func leaf(name string) *worldcfg.BehaviourNode {
	return &worldcfg.BehaviourNode{Type: "action", Name: name}
}

func fixed(r Response, calls *[]string, name string) Action {
	return func(*Agent, float64) Response {
		*calls = append(*calls, name)
		return r
	}
}

func TestCompositeNodes(t *testing.T) {
	var calls []string
	actions := Actions{
		"ok":   fixed(Success, &calls, "ok"),
		"fail": fixed(Failure, &calls, "fail"),
		"busy": fixed(Running, &calls, "busy"),
	}

	tests := []struct {
		name  string
		node  *worldcfg.BehaviourNode
		want  Response
		calls []string
	}{
		{"sequence all succeed", &worldcfg.BehaviourNode{Type: "sequence", Children: []*worldcfg.BehaviourNode{leaf("ok"), leaf("ok")}}, Success, []string{"ok", "ok"}},
		{"sequence stops on failure", &worldcfg.BehaviourNode{Type: "sequence", Children: []*worldcfg.BehaviourNode{leaf("fail"), leaf("ok")}}, Failure, []string{"fail"}},
		{"sequence stops on running", &worldcfg.BehaviourNode{Type: "sequence", Children: []*worldcfg.BehaviourNode{leaf("ok"), leaf("busy"), leaf("ok")}}, Running, []string{"ok", "busy"}},
		{"selector first success", &worldcfg.BehaviourNode{Type: "selector", Children: []*worldcfg.BehaviourNode{leaf("fail"), leaf("ok"), leaf("busy")}}, Success, []string{"fail", "ok"}},
		{"selector all fail", &worldcfg.BehaviourNode{Type: "selector", Children: []*worldcfg.BehaviourNode{leaf("fail"), leaf("fail")}}, Failure, []string{"fail", "fail"}},
		{"inverter flips", &worldcfg.BehaviourNode{Type: "inverter", Children: []*worldcfg.BehaviourNode{leaf("fail")}}, Success, []string{"fail"}},
		{"inverter keeps running", &worldcfg.BehaviourNode{Type: "inverter", Children: []*worldcfg.BehaviourNode{leaf("busy")}}, Running, []string{"busy"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls = nil
			node, err := BuildTree(tt.node, actions)
			require.NoError(t, err)
			assert.Equal(t, tt.want, node.Tick(&Agent{}, 0.1))
			assert.Equal(t, tt.calls, calls)
		})
	}
}

func TestBuildTreeErrors(t *testing.T) {
	tests := []struct {
		name string
		node *worldcfg.BehaviourNode
		code string
	}{
		{"unknown action", leaf("dance"), worldcfg.CodeUnknownAction},
		{"empty sequence", &worldcfg.BehaviourNode{Type: "sequence"}, worldcfg.CodeInvalidBehaviour},
		{"inverter two children", &worldcfg.BehaviourNode{Type: "inverter", Children: []*worldcfg.BehaviourNode{leaf("idle"), leaf("idle")}}, worldcfg.CodeInvalidBehaviour},
		{"nil child", &worldcfg.BehaviourNode{Type: "selector", Children: []*worldcfg.BehaviourNode{nil}}, worldcfg.CodeInvalidBehaviour},
		{"unknown type", &worldcfg.BehaviourNode{Type: "parallel"}, worldcfg.CodeInvalidBehaviour},
		{"nested unknown action", &worldcfg.BehaviourNode{Type: "selector", Children: []*worldcfg.BehaviourNode{leaf("idle"), leaf("dance")}}, worldcfg.CodeUnknownAction},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildTree(tt.node, DefaultActions())
			require.Error(t, err)
			assert.Equal(t, tt.code, codeOf(t, err))
		})
	}
}

func TestBuildTreeNil(t *testing.T) {
	node, err := BuildTree(nil, DefaultActions())
	require.NoError(t, err)
	assert.Nil(t, node)
}

func TestRestRefillsEnergy(t *testing.T) {
	a := &Agent{Model: &AgentModel{MaxEnergy: 10}, Energy: 5}
	assert.Equal(t, Running, Rest(a, 0.1))
	assert.InDelta(t, 6.0, a.Energy, 1e-9)
	assert.Equal(t, Success, Rest(a, 1))
	assert.Equal(t, 10.0, a.Energy)
	assert.Equal(t, Success, Rest(a, 1))
}

func TestSeekWithoutTargetFails(t *testing.T) {
	a := &Agent{Energy: 10}
	assert.Equal(t, Failure, Seek(a, 0.1))
}
