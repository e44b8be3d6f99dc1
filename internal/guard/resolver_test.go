package guard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingLookup returns a Lookup serving fixed matches and counting calls.
func recordingLookup(matches map[string][]int, calls *int) Lookup {
	return func(ctx context.Context, token string) ([]int, error) {
		*calls++
		return matches[token], nil
	}
}

func TestResolver_NumericTokenSkipsLookups(t *testing.T) {
	var hostnameCalls, ipCalls int
	r := NewResolver("CCI",
		recordingLookup(map[string][]int{"1234": {99}}, &hostnameCalls),
		recordingLookup(nil, &ipCalls),
	)

	for _, token := range []string{"1234", " 1234 ", "7"} {
		id, err := r.Resolve(context.Background(), token)
		require.NoError(t, err)
		assert.Positive(t, id)
	}

	id, err := r.Resolve(context.Background(), "1234")
	require.NoError(t, err)
	assert.Equal(t, 1234, id)
	assert.Zero(t, hostnameCalls)
	assert.Zero(t, ipCalls)
}

func TestResolver_SingleHostname(t *testing.T) {
	var calls int
	r := NewResolver("CCI", recordingLookup(map[string][]int{"db01": {42}}, &calls))

	id, err := r.Resolve(context.Background(), "db01")
	require.NoError(t, err)
	assert.Equal(t, 42, id)
	assert.Equal(t, 1, calls)
}

func TestResolver_NotFound(t *testing.T) {
	var calls int
	r := NewResolver("CCI", recordingLookup(nil, &calls), recordingLookup(nil, &calls))

	_, err := r.Resolve(context.Background(), "ghost")
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "CCI", notFound.Kind)
	assert.Equal(t, "ghost", notFound.Token)
	assert.Equal(t, 2, calls)
	assert.Contains(t, err.Error(), `"ghost"`)
}

func TestResolver_AmbiguousListsEveryCandidate(t *testing.T) {
	var calls int
	// web01.example.com and web01.example.org
	r := NewResolver("CCI", recordingLookup(map[string][]int{"web01": {101, 202}}, &calls))

	_, err := r.Resolve(context.Background(), "web01")
	var ambiguous *AmbiguousIdentifierError
	require.ErrorAs(t, err, &ambiguous)
	assert.Equal(t, []int{101, 202}, ambiguous.Candidates)
	assert.Contains(t, err.Error(), "101, 202")
}

func TestResolver_UnionPreservesFirstSeenOrder(t *testing.T) {
	var calls int
	r := NewResolver("CCI",
		recordingLookup(map[string][]int{"10.0.0.5": {3}}, &calls),
		recordingLookup(map[string][]int{"10.0.0.5": {3, 1}}, &calls),
		recordingLookup(map[string][]int{"10.0.0.5": {1, 2}}, &calls),
	)

	ids, err := r.Candidates(context.Background(), "10.0.0.5")
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1, 2}, ids)

	_, err = r.Resolve(context.Background(), "10.0.0.5")
	var ambiguous *AmbiguousIdentifierError
	require.ErrorAs(t, err, &ambiguous)
	assert.Equal(t, []int{3, 1, 2}, ambiguous.Candidates)
}

func TestResolver_DuplicateMatchesAcrossLookupsResolve(t *testing.T) {
	var calls int
	r := NewResolver("CCI",
		recordingLookup(map[string][]int{"10.0.0.5": {8}}, &calls),
		recordingLookup(map[string][]int{"10.0.0.5": {8}}, &calls),
	)

	id, err := r.Resolve(context.Background(), "10.0.0.5")
	require.NoError(t, err)
	assert.Equal(t, 8, id)
}

func TestResolver_InvalidTokens(t *testing.T) {
	r := NewResolver("CCI")

	for _, token := range []string{"", "   ", "0", "000"} {
		_, err := r.Resolve(context.Background(), token)
		var validation *ValidationError
		assert.ErrorAs(t, err, &validation, "token %q", token)
	}
}

func TestResolver_LookupFailurePropagates(t *testing.T) {
	remote := errors.New("permission denied")
	r := NewResolver("CCI", func(ctx context.Context, token string) ([]int, error) {
		return nil, remote
	})

	_, err := r.Resolve(context.Background(), "web01")
	assert.ErrorIs(t, err, remote)
}
