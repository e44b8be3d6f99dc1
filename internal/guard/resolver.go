package guard

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"slcli/pkg/logging"
)

// Lookup returns the IDs of resources matching token. An empty result is
// not an error.
type Lookup func(ctx context.Context, token string) ([]int, error)

// Resolver maps free-form tokens to canonical numeric IDs.
type Resolver struct {
	// Kind names the resource type in errors, e.g. "CCI".
	Kind string
	// Lookups are consulted in order for non-numeric tokens.
	Lookups []Lookup
}

// NewResolver creates a Resolver for kind.
func NewResolver(kind string, lookups ...Lookup) *Resolver {
	return &Resolver{Kind: kind, Lookups: lookups}
}

// Candidates returns every ID matching token, without judging the count.
// A numeric token is returned as-is and no lookup runs.
func (r *Resolver) Candidates(ctx context.Context, token string) ([]int, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, Invalid(strings.ToLower(r.Kind)+" identifier", "must not be empty")
	}

	if isDigits(token) {
		id, err := strconv.Atoi(token)
		if err != nil || id <= 0 {
			return nil, Invalid(strings.ToLower(r.Kind)+" identifier", "%q is not a valid ID", token)
		}
		return []int{id}, nil
	}

	seen := make(map[int]bool)
	var ids []int
	for _, lookup := range r.Lookups {
		found, err := lookup(ctx, token)
		if err != nil {
			return nil, fmt.Errorf("failed to look up %s %q: %w", r.Kind, token, err)
		}
		for _, id := range found {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	logging.Debug("Resolver", "%s %q matched %d resource(s)", r.Kind, token, len(ids))
	return ids, nil
}

// Resolve returns the single ID matching token.
func (r *Resolver) Resolve(ctx context.Context, token string) (int, error) {
	ids, err := r.Candidates(ctx, token)
	if err != nil {
		return 0, err
	}
	switch len(ids) {
	case 0:
		return 0, &NotFoundError{Kind: r.Kind, Token: token}
	case 1:
		return ids[0], nil
	default:
		return 0, &AmbiguousIdentifierError{Kind: r.Kind, Token: token, Candidates: ids}
	}
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}
