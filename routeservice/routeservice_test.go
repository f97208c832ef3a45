package routeservice_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukrail/railplanner/model"
	"github.com/ukrail/railplanner/repository"
	"github.com/ukrail/railplanner/routeservice"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(filepath.Join(dir, name)), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func newTestService(t *testing.T) *routeservice.Service {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "lines/l.json", `{
		"metadata": {"line_name": "Line 1"},
		"stations": [
			{"name": "Fleet", "coordinates": {"lat": 51.28, "lng": -0.84}},
			{"name": "Farnborough North", "coordinates": {"lat": 51.3, "lng": -0.76}},
			{"name": "London Waterloo", "coordinates": {"lat": 51.503, "lng": -0.113}}
		],
		"typical_journey_times": {"Fleet-Farnborough North": 8, "Farnborough North-London Waterloo": 35}
	}`)
	repo := repository.New(nil)
	require.NoError(t, repo.Load(dir))

	svc, err := routeservice.New(nil, repo)
	require.NoError(t, err)
	t.Cleanup(svc.Close)
	return svc
}

func TestCalculateRoute_FindsDirectPath(t *testing.T) {
	svc := newTestService(t)
	route, err := svc.CalculateRoute("Fleet", "London Waterloo", 0, model.Preferences{}, 0)
	require.NoError(t, err)
	assert.Equal(t, "Fleet", route.FromStation)
	assert.Equal(t, "London Waterloo", route.ToStation)
	assert.True(t, route.HasMinutes)
}

func TestCalculateRoute_UnknownStation(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.CalculateRoute("Nowhere At All", "London Waterloo", 0, model.Preferences{}, 0)
	assert.ErrorIs(t, err, model.ErrStationUnknown)
}

func TestCalculateRoute_ResolvesTolerantNames(t *testing.T) {
	svc := newTestService(t)
	route, err := svc.CalculateRoute("fleet", "Waterloo", 0, model.Preferences{}, 0)
	require.NoError(t, err)
	assert.Equal(t, "Fleet", route.FromStation)
}

func TestGetPossibleDestinations(t *testing.T) {
	svc := newTestService(t)
	dest := svc.GetPossibleDestinations("Fleet", 1)
	assert.Contains(t, dest, "Farnborough North")
}

func TestCalculateRoute_SameStationReturnsNoRoute(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.CalculateRoute("Fleet", "Fleet", 0, model.Preferences{}, 0)
	assert.ErrorIs(t, err, model.ErrNoRouteFound)
}

func newChangesTestService(t *testing.T) *routeservice.Service {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "lines/a.json", `{
		"metadata": {"line_name": "Line A"},
		"stations": [
			{"name": "Fleet", "coordinates": {"lat": 51.28, "lng": -0.84}},
			{"name": "Mid One", "coordinates": {"lat": 51.3, "lng": -0.7}}
		],
		"typical_journey_times": {"Fleet-Mid One": 8}
	}`)
	writeFile(t, dir, "lines/b.json", `{
		"metadata": {"line_name": "Line B"},
		"stations": [
			{"name": "Mid One", "coordinates": {"lat": 51.3, "lng": -0.7}},
			{"name": "Mid Two", "coordinates": {"lat": 51.35, "lng": -0.5}}
		],
		"typical_journey_times": {"Mid One-Mid Two": 8}
	}`)
	writeFile(t, dir, "lines/c.json", `{
		"metadata": {"line_name": "Line C"},
		"stations": [
			{"name": "Mid Two", "coordinates": {"lat": 51.35, "lng": -0.5}},
			{"name": "London Waterloo", "coordinates": {"lat": 51.503, "lng": -0.113}}
		],
		"typical_journey_times": {"Mid Two-London Waterloo": 20}
	}`)
	repo := repository.New(nil)
	require.NoError(t, repo.Load(dir))

	svc, err := routeservice.New(nil, repo)
	require.NoError(t, err)
	t.Cleanup(svc.Close)
	return svc
}

func TestCalculateRoute_RejectsWhenExceedsMaxChanges(t *testing.T) {
	svc := newChangesTestService(t)

	_, err := svc.CalculateRoute("Fleet", "London Waterloo", 1, model.Preferences{}, 0)
	assert.ErrorIs(t, err, model.ErrPreferenceUnsatisfiable)

	route, err := svc.CalculateRoute("Fleet", "London Waterloo", 2, model.Preferences{}, 0)
	require.NoError(t, err)
	assert.Equal(t, "Fleet", route.FromStation)
	assert.Equal(t, "London Waterloo", route.ToStation)
}
