package guard

import (
	"context"
	"fmt"

	"slcli/pkg/logging"
)

// Strictness selects the confirmation style of an action.
type Strictness int

const (
	// Standard asks a yes/no question.
	Standard Strictness = iota
	// Strict requires the resource ID to be typed back.
	Strict
)

// Action describes one guarded remote call.
type Action[T any] struct {
	// Name identifies the action in logs, e.g. "power-off".
	Name string
	// Prompt builds the yes/no question for a resolved ID. Unused for
	// Strict actions.
	Prompt     func(id int) string
	Strictness Strictness
	// Invoke performs the remote call.
	Invoke func(ctx context.Context, id int) (T, error)
}

// Guard binds a Resolver to a Confirmer.
type Guard struct {
	Resolver  *Resolver
	Confirmer Confirmer
}

// New creates a Guard.
func New(resolver *Resolver, confirmer Confirmer) *Guard {
	return &Guard{Resolver: resolver, Confirmer: confirmer}
}

// Confirm asks for approval to act on id and returns an *AbortedError when
// declined.
func (g *Guard) Confirm(id int, prompt string, strictness Strictness, forced bool) error {
	var decision Decision
	if strictness == Strict {
		decision = g.Confirmer.DecideStrict(id, forced)
	} else {
		decision = g.Confirmer.Decide(prompt, forced)
	}
	logging.Debug("Guard", "confirmation for %d: %s", id, decision)
	if !decision.Proceed() {
		return &AbortedError{Message: "aborted by user"}
	}
	return nil
}

// Execute resolves ref, confirms, and invokes action exactly once. The
// result and error of the invocation are returned unchanged.
func Execute[T any](ctx context.Context, g *Guard, ref string, action Action[T], forced bool) (T, error) {
	var zero T

	id, err := g.Resolver.Resolve(ctx, ref)
	if err != nil {
		return zero, err
	}

	prompt := ""
	if action.Prompt != nil {
		prompt = action.Prompt(id)
	} else if action.Strictness == Standard {
		prompt = fmt.Sprintf("Run %s on %s %d?", action.Name, g.Resolver.Kind, id)
	}
	if err := g.Confirm(id, prompt, action.Strictness, forced); err != nil {
		return zero, err
	}

	logging.Info("Guard", "running %s on %s %d", action.Name, g.Resolver.Kind, id)
	return action.Invoke(ctx, id)
}
