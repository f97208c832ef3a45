package routeconv_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukrail/railplanner/graph"
	"github.com/ukrail/railplanner/repository"
	"github.com/ukrail/railplanner/routeconv"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(filepath.Join(dir, name)), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestConvert_GroupsConsecutiveSameLineHops(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lines/l.json", `{
		"metadata": {"line_name": "Line 1"},
		"stations": [{"name": "A"}, {"name": "B"}, {"name": "C"}]
	}`)
	repo := repository.New(nil)
	require.NoError(t, repo.Load(dir))

	hops := []*graph.Edge{
		{From: "A", To: "B", Kind: graph.KindRail, LineName: "Line 1", Minutes: 5, DistanceKM: 3},
		{From: "B", To: "C", Kind: graph.KindRail, LineName: "Line 1", Minutes: 5, DistanceKM: 3},
	}
	route, err := routeconv.Convert(repo, "A", "C", hops)
	require.NoError(t, err)
	require.Len(t, route.Segments, 1)
	assert.Equal(t, "A", route.Segments[0].FromStation)
	assert.Equal(t, "C", route.Segments[0].ToStation)
	assert.Equal(t, 10, route.Segments[0].Minutes)
	assert.Equal(t, []string{"A", "B", "C"}, route.FullPath)
}

func TestConvert_LineChangeStartsNewSegment(t *testing.T) {
	repo := repository.New(nil)
	hops := []*graph.Edge{
		{From: "A", To: "B", Kind: graph.KindRail, LineName: "Line 1", Minutes: 5, DistanceKM: 3},
		{From: "B", To: "C", Kind: graph.KindRail, LineName: "Line 2", Minutes: 7, DistanceKM: 4},
	}
	route, err := routeconv.Convert(repo, "A", "C", hops)
	require.NoError(t, err)
	require.Len(t, route.Segments, 2)
	assert.Equal(t, 1, route.ChangesRequired())
}

func TestConvert_WalkingSegmentFlagged(t *testing.T) {
	repo := repository.New(nil)
	hops := []*graph.Edge{
		{From: "A", To: "B", Kind: graph.KindWalking, LineName: "WALKING", Minutes: 12, WalkingMetres: 800, HasWalkingMetres: true},
	}
	route, err := routeconv.Convert(repo, "A", "B", hops)
	require.NoError(t, err)
	assert.True(t, route.HasWalkingSegment())
}
