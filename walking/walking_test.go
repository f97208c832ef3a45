package walking_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ukrail/railplanner/repository"
	"github.com/ukrail/railplanner/walking"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(filepath.Join(dir, name)), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func loadFixture(t *testing.T) *repository.Repository {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "lines/a.json", `{
		"metadata": {"line_name": "Line A"},
		"stations": [
			{"name": "Moorgate", "coordinates": {"lat": 51.5186, "lng": -0.0886}},
			{"name": "Barbican", "coordinates": {"lat": 51.5204, "lng": -0.0979}}
		]
	}`)
	writeFile(t, dir, "lines/b.json", `{
		"metadata": {"line_name": "Line B"},
		"stations": [
			{"name": "Liverpool Street Nearby", "coordinates": {"lat": 51.5188, "lng": -0.0810}},
			{"name": "Far Away Station", "coordinates": {"lat": 55.0, "lng": -3.0}}
		]
	}`)
	repo := repository.New(nil)
	require.NoError(t, repo.Load(dir))
	return repo
}

func TestAdmit_AllowsCloseUnconnectedStations(t *testing.T) {
	repo := loadFixture(t)
	svc := walking.New(repo)

	ok, metres := svc.Admit("Moorgate", "Liverpool Street Nearby", 0)
	require.True(t, ok)
	require.Greater(t, metres, 0)
	require.Less(t, metres, 1000)
}

func TestAdmit_RejectsTooFar(t *testing.T) {
	repo := loadFixture(t)
	svc := walking.New(repo)

	ok, _ := svc.Admit("Moorgate", "Far Away Station", 0)
	require.False(t, ok)
}

func TestAdmit_RejectsSharedLine(t *testing.T) {
	repo := loadFixture(t)
	svc := walking.New(repo)

	ok, _ := svc.Admit("Moorgate", "Moorgate", 0)
	require.False(t, ok)
}

func TestAdmit_RejectsSamePhysicalTrainPair(t *testing.T) {
	repo := loadFixture(t)
	svc := walking.New(repo)

	ok, _ := svc.Admit("Clapham Junction", "London Waterloo", 0)
	require.False(t, ok)
}

func TestAdmit_RejectsNonTerminalLondonStation(t *testing.T) {
	repo := loadFixture(t)
	svc := walking.New(repo)

	ok, _ := svc.Admit("London Bridge West", "Moorgate", 0)
	require.False(t, ok)
}
