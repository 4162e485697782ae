package contract

import "context"

// Capability is one specialist: it takes a task briefing and returns its
// final text reply after any tool use.
type Capability interface {
	Run(ctx context.Context, task string) (string, error)
}

// Registry exposes the three specialists for a single customer request.
// Implementations are request-scoped; do not reuse one across requests.
type Registry interface {
	Inventory() Capability
	Quoting() Capability
	Sales() Capability
}
