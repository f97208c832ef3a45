package traverse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukrail/railplanner/graph"
	"github.com/ukrail/railplanner/pathfind/traverse"
)

func TestPossibleDestinations_RespectsHopLimit(t *testing.T) {
	g := graph.New()
	mustEdge(t, g, "A", "B")
	mustEdge(t, g, "B", "C")
	mustEdge(t, g, "C", "D")

	assert.Equal(t, []string{"B"}, traverse.PossibleDestinations(g, "A", 1))
	assert.Equal(t, []string{"B", "C"}, traverse.PossibleDestinations(g, "A", 2))
	assert.Equal(t, []string{"B", "C", "D"}, traverse.PossibleDestinations(g, "A", 10))
}

func TestFindCircularRoutes_FindsSimpleCycle(t *testing.T) {
	g := graph.New()
	mustEdge(t, g, "A", "B")
	mustEdge(t, g, "B", "C")
	mustEdge(t, g, "C", "A")

	cycles := traverse.FindCircularRoutes(g, "A", 5)
	require.Len(t, cycles, 1)
	assert.Equal(t, []string{"A", "B", "C", "A"}, cycles[0])
}

func TestFindCircularRoutes_NoCycle(t *testing.T) {
	g := graph.New()
	mustEdge(t, g, "A", "B")

	assert.Empty(t, traverse.FindCircularRoutes(g, "A", 5))
}

func mustEdge(t *testing.T, g *graph.Graph, from, to string) {
	t.Helper()
	_, err := g.AddEdge(graph.Edge{From: from, To: to, Kind: graph.KindRail, LineName: "L", Minutes: 5, DistanceKM: 3})
	require.NoError(t, err)
}
