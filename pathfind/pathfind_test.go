package pathfind_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukrail/railplanner/graph"
	"github.com/ukrail/railplanner/model"
	"github.com/ukrail/railplanner/pathfind"
)

func buildGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	_, err := g.AddEdge(graph.Edge{From: "A", To: "B", Kind: graph.KindRail, LineName: "Line 1", Minutes: 10, DistanceKM: 8})
	require.NoError(t, err)
	_, err = g.AddEdge(graph.Edge{From: "B", To: "C", Kind: graph.KindRail, LineName: "Line 1", Minutes: 10, DistanceKM: 8})
	require.NoError(t, err)
	_, err = g.AddEdge(graph.Edge{From: "A", To: "C", Kind: graph.KindWalking, LineName: "WALKING", Minutes: 30, WalkingMetres: 900, HasWalkingMetres: true})
	require.NoError(t, err)
	return g
}

func TestSearch_PrefersCheaperPath(t *testing.T) {
	g := buildGraph(t)
	res, err := pathfind.Search(g, "A", "C", pathfind.Options{Mode: pathfind.WeightTime})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, res.Path)
}

func TestSearch_AvoidWalkingExcludesWalkingEdges(t *testing.T) {
	g := graph.New()
	_, err := g.AddEdge(graph.Edge{From: "A", To: "C", Kind: graph.KindWalking, LineName: "WALKING", Minutes: 5, WalkingMetres: 400, HasWalkingMetres: true})
	require.NoError(t, err)

	_, err = pathfind.Search(g, "A", "C", pathfind.Options{Preferences: model.Preferences{AvoidWalking: true}})
	assert.ErrorIs(t, err, model.ErrNoRouteFound)
}

func TestSearch_NoRouteWhenDisconnected(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.AddStation("A"))
	require.NoError(t, g.AddStation("B"))

	_, err := pathfind.Search(g, "A", "B", pathfind.Options{})
	assert.ErrorIs(t, err, model.ErrNoRouteFound)
}

func TestSearch_SameStationReturnsSingleNodePath(t *testing.T) {
	g := buildGraph(t)
	res, err := pathfind.Search(g, "A", "A", pathfind.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, res.Path)
}

func TestSearch_UnknownStation(t *testing.T) {
	g := buildGraph(t)
	_, err := pathfind.Search(g, "A", "Nowhere", pathfind.Options{})
	assert.ErrorIs(t, err, pathfind.ErrNoSuchStation)
}

func TestSearch_WeightChangesPrefersFewerInterchanges(t *testing.T) {
	g := graph.New()
	_, err := g.AddEdge(graph.Edge{From: "A", To: "B", Kind: graph.KindRail, LineName: "Line 1", Minutes: 7, DistanceKM: 4})
	require.NoError(t, err)
	_, err = g.AddEdge(graph.Edge{From: "B", To: "D", Kind: graph.KindRail, LineName: "Line 1", Minutes: 7, DistanceKM: 4})
	require.NoError(t, err)
	_, err = g.AddEdge(graph.Edge{From: "A", To: "C", Kind: graph.KindRail, LineName: "Line 2", Minutes: 3, DistanceKM: 2})
	require.NoError(t, err)
	_, err = g.AddEdge(graph.Edge{From: "C", To: "D", Kind: graph.KindRail, LineName: "Line 3", Minutes: 3, DistanceKM: 2})
	require.NoError(t, err)

	fastest, err := pathfind.Search(g, "A", "D", pathfind.Options{Mode: pathfind.WeightTime})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C", "D"}, fastest.Path)
	assert.Equal(t, 1, fastest.Changes)

	fewestChanges, err := pathfind.Search(g, "A", "D", pathfind.Options{Mode: pathfind.WeightChanges})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "D"}, fewestChanges.Path)
	assert.Equal(t, 0, fewestChanges.Changes)
}

func TestSearch_CommonLineRestrictionForcesSharedLine(t *testing.T) {
	g := graph.New()
	_, err := g.AddEdge(graph.Edge{From: "A", To: "X", Kind: graph.KindRail, LineName: "Trunk", Minutes: 20, DistanceKM: 16})
	require.NoError(t, err)
	_, err = g.AddEdge(graph.Edge{From: "A", To: "X", Kind: graph.KindRail, LineName: "Local", Minutes: 5, DistanceKM: 4})
	require.NoError(t, err)
	_, err = g.AddEdge(graph.Edge{From: "X", To: "D", Kind: graph.KindRail, LineName: "Trunk", Minutes: 5, DistanceKM: 4})
	require.NoError(t, err)

	res, err := pathfind.Search(g, "A", "D", pathfind.Options{Mode: pathfind.WeightTime})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "X", "D"}, res.Path)
	assert.Equal(t, 25, res.Minutes)
}

func TestSearch_UndergroundDiscountPrefersBlackBoxHop(t *testing.T) {
	g := graph.New()
	_, err := g.AddEdge(graph.Edge{From: "London Waterloo", To: "M", Kind: graph.KindRail, LineName: "Line 1", Minutes: 10, DistanceKM: 8})
	require.NoError(t, err)
	_, err = g.AddEdge(graph.Edge{From: "M", To: "Oxford Circus", Kind: graph.KindRail, LineName: "Line 1", Minutes: 10, DistanceKM: 8})
	require.NoError(t, err)
	_, err = g.AddEdge(graph.Edge{From: "London Waterloo", To: "Oxford Circus", Kind: graph.KindUnderground, LineName: "UNDERGROUND", Minutes: 20, DistanceKM: 2})
	require.NoError(t, err)

	res, err := pathfind.Search(g, "London Waterloo", "Oxford Circus", pathfind.Options{Mode: pathfind.WeightTime})
	require.NoError(t, err)
	assert.Equal(t, []string{"London Waterloo", "Oxford Circus"}, res.Path)
	assert.Equal(t, 20, res.Minutes)
}

func TestSearch_NonTerminalLondonStationSkippedByDefault(t *testing.T) {
	g := graph.New()
	_, err := g.AddEdge(graph.Edge{From: "A", To: "London Somewhere", Kind: graph.KindRail, LineName: "Line 1", Minutes: 2, DistanceKM: 1})
	require.NoError(t, err)
	_, err = g.AddEdge(graph.Edge{From: "London Somewhere", To: "D", Kind: graph.KindRail, LineName: "Line 1", Minutes: 2, DistanceKM: 1})
	require.NoError(t, err)
	_, err = g.AddEdge(graph.Edge{From: "A", To: "D", Kind: graph.KindRail, LineName: "Line 2", Minutes: 50, DistanceKM: 40})
	require.NoError(t, err)

	res, err := pathfind.Search(g, "A", "D", pathfind.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "D"}, res.Path)
	assert.Equal(t, 50, res.Minutes)
}
