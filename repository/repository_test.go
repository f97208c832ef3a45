package repository_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukrail/railplanner/repository"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(filepath.Join(dir, name)), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoad_MergesStationsAcrossLines(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lines/swml.json", `{
		"metadata": {"line_name": "South Western Main Line", "operator": "South Western Railway"},
		"stations": [
			{"name": "Fleet", "coordinates": {"lat": 51.28, "lng": -0.84}},
			{"name": "London Waterloo", "coordinates": {"lat": 51.503, "lng": -0.113}}
		],
		"typical_journey_times": {"Fleet-London Waterloo": 45}
	}`)
	writeFile(t, dir, "lines/branch.json", `{
		"metadata": {"line_name": "Branch Line"},
		"stations": [
			{"name": "Fleet"},
			{"name": "Farnborough North"}
		]
	}`)

	repo := repository.New(nil)
	require.NoError(t, repo.Load(dir))

	st, ok := repo.StationByName("Fleet")
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"South Western Main Line", "Branch Line"}, st.Lines)
	assert.True(t, st.IsInterchange())

	mins, ok := repo.JourneyTime("Fleet", "London Waterloo", "South Western Main Line")
	require.True(t, ok)
	assert.Equal(t, 45, mins)
}

func TestLoad_SkipsMalformedFileWithoutAborting(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lines/good.json", `{
		"metadata": {"line_name": "Good Line"},
		"stations": [{"name": "A"}, {"name": "B"}]
	}`)
	writeFile(t, dir, "lines/bad.json", `{ not json`)

	repo := repository.New(nil)
	require.NoError(t, repo.Load(dir))

	_, ok := repo.Line("Good Line")
	assert.True(t, ok)
	stats := repo.NetworkStats()
	assert.Equal(t, 1, stats.LineCount)
}

func TestLoad_EmptyDatasetIsValid(t *testing.T) {
	dir := t.TempDir()
	repo := repository.New(nil)
	require.NoError(t, repo.Load(dir))
	assert.Equal(t, 0, repo.NetworkStats().StationCount)
}

func TestSearch_RanksExactBeforePrefixBeforeSubstring(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lines/l.json", `{
		"metadata": {"line_name": "L"},
		"stations": [
			{"name": "Waterloo East"}, {"name": "London Waterloo"}, {"name": "Waterloo"}
		]
	}`)
	repo := repository.New(nil)
	require.NoError(t, repo.Load(dir))

	matches := repo.Search("Waterloo", 5)
	require.NotEmpty(t, matches)
	assert.Equal(t, "Waterloo", matches[0].Name)
}
