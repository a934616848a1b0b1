package behavior

import (
	"github.com/samber/oops"

	"goom-server/internal/worldcfg"
)

// Response is the result of ticking a behaviour node.
type Response int

const (
	Success Response = iota
	Failure
	Running
)

func (r Response) String() string {
	switch r {
	case Success:
		return "success"
	case Failure:
		return "failure"
	case Running:
		return "running"
	}
	return "unknown"
}

// Node is a behaviour tree node.
type Node interface {
	Tick(a *Agent, dt float64) Response
}

type actionNode struct {
	name string
	fn   Action
}

func (n *actionNode) Tick(a *Agent, dt float64) Response { return n.fn(a, dt) }

// sequence succeeds when every child succeeds, in order.
type sequence struct{ children []Node }

func (n *sequence) Tick(a *Agent, dt float64) Response {
	for _, c := range n.children {
		if r := c.Tick(a, dt); r != Success {
			return r
		}
	}
	return Success
}

// selector succeeds on the first child that does not fail.
type selector struct{ children []Node }

func (n *selector) Tick(a *Agent, dt float64) Response {
	for _, c := range n.children {
		if r := c.Tick(a, dt); r != Failure {
			return r
		}
	}
	return Failure
}

type inverter struct{ child Node }

func (n *inverter) Tick(a *Agent, dt float64) Response {
	switch r := n.child.Tick(a, dt); r {
	case Success:
		return Failure
	case Failure:
		return Success
	default:
		return r
	}
}

// BuildTree turns a configured behaviour into a fresh node tree. Every
// agent gets its own tree.
func BuildTree(cfg *worldcfg.BehaviourNode, actions Actions) (Node, error) {
	if cfg == nil {
		return nil, nil
	}
	switch cfg.Type {
	case "action":
		fn, ok := actions[cfg.Name]
		if !ok {
			return nil, oops.Code(worldcfg.CodeUnknownAction).With("action", cfg.Name).Errorf("unknown action %q", cfg.Name)
		}
		return &actionNode{name: cfg.Name, fn: fn}, nil
	case "sequence", "selector":
		if len(cfg.Children) == 0 {
			return nil, oops.Code(worldcfg.CodeInvalidBehaviour).With("type", cfg.Type).Errorf("%s without children", cfg.Type)
		}
		children, err := buildChildren(cfg.Children, actions)
		if err != nil {
			return nil, err
		}
		if cfg.Type == "sequence" {
			return &sequence{children: children}, nil
		}
		return &selector{children: children}, nil
	case "inverter":
		if len(cfg.Children) != 1 {
			return nil, oops.Code(worldcfg.CodeInvalidBehaviour).With("children", len(cfg.Children)).Errorf("inverter needs exactly one child")
		}
		children, err := buildChildren(cfg.Children, actions)
		if err != nil {
			return nil, err
		}
		return &inverter{child: children[0]}, nil
	}
	return nil, oops.Code(worldcfg.CodeInvalidBehaviour).With("type", cfg.Type).Errorf("unknown behaviour node type %q", cfg.Type)
}

func buildChildren(nodes []*worldcfg.BehaviourNode, actions Actions) ([]Node, error) {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if n == nil {
			return nil, oops.Code(worldcfg.CodeInvalidBehaviour).Errorf("empty behaviour node")
		}
		child, err := BuildTree(n, actions)
		if err != nil {
			return nil, err
		}
		out = append(out, child)
	}
	return out, nil
}
