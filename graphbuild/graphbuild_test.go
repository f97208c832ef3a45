package graphbuild_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukrail/railplanner/graph"
	"github.com/ukrail/railplanner/graphbuild"
	"github.com/ukrail/railplanner/repository"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(filepath.Join(dir, name)), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestBuildGraph_AddsBidirectionalLineEdges(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lines/l.json", `{
		"metadata": {"line_name": "Line 1"},
		"stations": [
			{"name": "A", "coordinates": {"lat": 51.0, "lng": -0.1}},
			{"name": "B", "coordinates": {"lat": 51.1, "lng": -0.2}}
		],
		"typical_journey_times": {"A-B": 12}
	}`)
	repo := repository.New(nil)
	require.NoError(t, repo.Load(dir))

	g, err := graphbuild.BuildGraph(repo)
	require.NoError(t, err)

	fwd := g.Neighbours("A", "B")
	require.Len(t, fwd, 1)
	assert.Equal(t, 12, fwd[0].Minutes)
	assert.Equal(t, graph.KindRail, fwd[0].Kind)

	back := g.Neighbours("B", "A")
	require.Len(t, back, 1)
}

func TestBuildGraph_EstimatesTimeFromDistanceWhenJourneyTimeMissing(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lines/l.json", `{
		"metadata": {"line_name": "Line 1"},
		"stations": [
			{"name": "A", "coordinates": {"lat": 51.0, "lng": -0.1}},
			{"name": "B", "coordinates": {"lat": 51.5, "lng": -0.1}}
		]
	}`)
	repo := repository.New(nil)
	require.NoError(t, repo.Load(dir))

	g, err := graphbuild.BuildGraph(repo)
	require.NoError(t, err)

	fwd := g.Neighbours("A", "B")
	require.Len(t, fwd, 1)
	assert.Greater(t, fwd[0].Minutes, 0)
	assert.Greater(t, fwd[0].DistanceKM, 0.0)
}

func TestBuildGraph_SkipsAutoWalkingWhenDisabled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lines/l.json", `{
		"metadata": {"line_name": "Line 1"},
		"stations": [
			{"name": "A", "coordinates": {"lat": 51.0, "lng": -0.1}},
			{"name": "B", "coordinates": {"lat": 51.001, "lng": -0.1}}
		]
	}`)
	repo := repository.New(nil)
	require.NoError(t, repo.Load(dir))

	g, err := graphbuild.BuildGraph(repo, graphbuild.WithAutoWalkingDisabled())
	require.NoError(t, err)
	assert.Equal(t, graph.KindRail, g.AllEdges()[0].Kind)
}
