package tree

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"todotree/internal/gateway"
	"todotree/internal/invalidate"
	"todotree/internal/todo"
)

// Provider answers a display host's two questions, "what are this node's
// children" and "how is it displayed", and relays staleness signals over
// the invalidation bus. One provider serves one tree for the lifetime of
// the composition root.
type Provider struct {
	gw  gateway.Gateway
	bus *invalidate.Bus
}

// NewProvider builds a provider over the gateway capability. A nil
// gateway means no session exists yet; expansion then yields an empty
// tree instead of failing.
func NewProvider(gw gateway.Gateway, bus *invalidate.Bus) *Provider {
	return &Provider{gw: gw, bus: bus}
}

// Ready reports whether the provider has a gateway to fetch through.
func (p *Provider) Ready() bool { return p.gw != nil }

// RootChildren materializes the top level: every task list in service
// order, then the create-list affordance. Without a usable session the
// result is empty, not an error.
func (p *Provider) RootChildren(ctx context.Context) ([]Node, error) {
	if p.gw == nil {
		return nil, nil
	}

	raws, err := p.gw.FetchAll(ctx, todo.ListsPath())
	if err != nil {
		if gateway.IsUnauthenticated(err) {
			slog.Warn("task lists unavailable without a session", "err", err)
			return nil, nil
		}
		return nil, fmt.Errorf("fetch task lists: %w", err)
	}

	nodes := make([]Node, 0, len(raws)+1)
	for _, raw := range raws {
		var list todo.TaskList
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("decode task list: %w", err)
		}
		nodes = append(nodes, ListNode{List: list})
	}
	nodes = append(nodes, CreateListNode{})
	return nodes, nil
}

// Children expands one node. Expanding a list is synchronous and issues
// no network call: it always yields the two status groups in fixed
// order. Expanding a group queries the owning list's tasks filtered by
// completion status. Tasks and the create-list affordance are leaves.
func (p *Provider) Children(ctx context.Context, node Node) ([]Node, error) {
	switch n := node.(type) {
	case ListNode:
		return []Node{
			GroupNode{List: n.List, Kind: GroupInProgress},
			GroupNode{List: n.List, Kind: GroupCompleted},
		}, nil
	case GroupNode:
		return p.groupChildren(ctx, n)
	case TaskNode, CreateListNode:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown node kind %T", node)
	}
}

func (p *Provider) groupChildren(ctx context.Context, group GroupNode) ([]Node, error) {
	if p.gw == nil {
		return nil, nil
	}

	raws, err := p.gw.FetchAll(ctx, todo.TasksPath(group.List.ID, group.Kind.FilterOp()))
	if err != nil {
		if gateway.IsUnauthenticated(err) {
			slog.Warn("tasks unavailable without a session", "list", group.List.ID, "err", err)
			return nil, nil
		}
		return nil, fmt.Errorf("fetch tasks for list %s: %w", group.List.ID, err)
	}

	nodes := make([]Node, 0, len(raws))
	for _, raw := range raws {
		var task todo.Task
		if err := json.Unmarshal(raw, &task); err != nil {
			return nil, fmt.Errorf("decode task: %w", err)
		}
		nodes = append(nodes, TaskNode{Task: task, Parent: ListNode{List: group.List}})
	}
	return nodes, nil
}

// Subscribe registers a display host on the invalidation channel.
func (p *Provider) Subscribe(bufSize int) (string, <-chan invalidate.Event) {
	return p.bus.Subscribe(bufSize)
}

// Unsubscribe releases a host registration.
func (p *Provider) Unsubscribe(id string) {
	p.bus.Unsubscribe(id)
}

// Refresh marks a subtree stale so hosts re-expand it on next display.
// A nil node invalidates the whole tree.
func (p *Provider) Refresh(node Node) {
	if node == nil {
		p.bus.Publish(invalidate.Everything)
		return
	}
	p.bus.Publish(invalidate.Event{Key: node.Key()})
}
