// Package routeservice implements the Route Service (spec.md §4.8): the
// top-level orchestrator that resolves station names, runs the
// pathfinder, converts the result into a model.Route, and caches routes
// keyed by (from, to, weight mode, max changes, preference fingerprint)
// with explicit invalidation
// only — no TTL expiry (spec §4.8 step 2, §9).
package routeservice

import (
	"errors"
	"fmt"
	"sort"

	"github.com/jellydator/ttlcache/v3"
	"go.uber.org/zap"

	"github.com/ukrail/railplanner/graph"
	"github.com/ukrail/railplanner/graphbuild"
	"github.com/ukrail/railplanner/model"
	"github.com/ukrail/railplanner/normalize"
	"github.com/ukrail/railplanner/pathfind"
	"github.com/ukrail/railplanner/pathfind/traverse"
	"github.com/ukrail/railplanner/repository"
	"github.com/ukrail/railplanner/routeconv"
	"github.com/ukrail/railplanner/underground"
)

// MultiRouteJaccardThreshold is the minimum Jaccard similarity between two
// routes' station sets above which CalculateMultipleRoutes treats them as
// duplicates and keeps only the first (spec §4.8 "calculate_multiple_routes").
const MultiRouteJaccardThreshold = 0.8

// Service is the process-wide route-calculation entry point: constructed
// once from a loaded Repository, it owns the built Network Graph and a
// process-lifetime route cache (spec §3 Lifecycle).
type Service struct {
	log         *zap.Logger
	repo        *repository.Repository
	graph       *graph.Graph
	names       normalize.Set
	underground *underground.Handler

	cache *ttlcache.Cache[string, model.Route]
}

// New builds the Network Graph from repo and returns a ready Service. The
// caller owns repo's lifetime; Service only reads from it.
func New(log *zap.Logger, repo *repository.Repository, opts ...graphbuild.Option) (*Service, error) {
	if log == nil {
		log = zap.NewNop()
	}
	g, err := graphbuild.BuildGraph(repo, opts...)
	if err != nil {
		return nil, err
	}

	cache := ttlcache.New[string, model.Route]()
	go cache.Start()

	return &Service{
		log:         log,
		repo:        repo,
		graph:       g,
		names:       normalize.NewSet(repo.StationNames()),
		underground: underground.New(repo),
		cache:       cache,
	}, nil
}

// Close stops the cache's background reaper goroutine.
func (s *Service) Close() {
	s.cache.Stop()
}

// InvalidateCache discards every cached route (spec §4.8: explicit
// invalidation only, never a TTL).
func (s *Service) InvalidateCache() {
	s.cache.DeleteAll()
}

func (s *Service) cacheKey(from, to string, prefs model.Preferences, mode pathfind.WeightMode, maxChanges int) string {
	return fmt.Sprintf("%s|%s|%d|%d|%s", from, to, mode, maxChanges, prefs.Fingerprint())
}

func (s *Service) resolve(name string) (string, error) {
	resolved := normalize.Resolve(name, s.names)
	if _, ok := s.repo.StationByName(resolved); !ok {
		return "", model.ErrStationUnknown
	}
	return resolved, nil
}

// CalculateRoute resolves from/to against the repository, consults the
// cache, and otherwise asks the underground handler for a black-box route
// before falling back to the pathfinder (spec §4.8 "calculate_route").
// maxChanges rejects any pathfinder result exceeding it; 0 or negative
// means unlimited.
func (s *Service) CalculateRoute(from, to string, maxChanges int, prefs model.Preferences, mode pathfind.WeightMode) (model.Route, error) {
	fromCanonical, err := s.resolve(from)
	if err != nil {
		return model.Route{}, err
	}
	toCanonical, err := s.resolve(to)
	if err != nil {
		return model.Route{}, err
	}
	if fromCanonical == toCanonical {
		return model.Route{}, model.ErrNoRouteFound
	}

	key := s.cacheKey(fromCanonical, toCanonical, prefs, mode, maxChanges)
	if item := s.cache.Get(key); item != nil {
		return item.Value(), nil
	}

	if route, ok := s.blackBoxRoute(fromCanonical, toCanonical); ok {
		s.cache.Set(key, route, ttlcache.NoTTL)
		return route, nil
	}

	result, err := pathfind.Search(s.graph, fromCanonical, toCanonical, pathfind.Options{
		Mode:        mode,
		Preferences: prefs,
	})
	if err != nil {
		if errors.Is(err, model.ErrNoRouteFound) && prefs.AvoidWalking {
			relaxed := prefs
			relaxed.AvoidWalking = false
			if _, rerr := pathfind.Search(s.graph, fromCanonical, toCanonical, pathfind.Options{Mode: mode, Preferences: relaxed}); rerr == nil {
				return model.Route{}, model.ErrPreferenceUnsatisfiable
			}
		}
		return model.Route{}, err
	}
	if maxChanges > 0 && result.Changes > maxChanges {
		return model.Route{}, model.ErrPreferenceUnsatisfiable
	}

	route, err := routeconv.Convert(s.repo, fromCanonical, toCanonical, edgesOf(result))
	if err != nil {
		return model.Route{}, err
	}

	route, err = s.underground.EnhanceRouteWithBlackBox(route)
	if err != nil {
		return model.Route{}, err
	}

	if reasons := route.Validate(); len(reasons) > 0 {
		s.log.Warn("route failed self-validation", zap.Strings("reasons", reasons))
		return model.Route{}, model.ErrRouteValidation
	}

	s.cache.Set(key, route, ttlcache.NoTTL)
	return route, nil
}

// blackBoxRoute asks the underground handler for a pre-built route that
// bypasses the pathfinder entirely: a cross-country journey stitched
// across two metro systems via a National Rail trunk, or else a plain
// single-system black-box hop (spec §4.8 step 3). Cross-country is
// checked first since ShouldUseBlackBox's own rules would otherwise match
// one end of a genuine cross-country journey and build a nonsensical
// single-system route.
func (s *Service) blackBoxRoute(from, to string) (model.Route, bool) {
	if s.underground.IsCrossCountry(from, to) {
		if route, ok := s.underground.CreateCrossCountryRoute(from, to); ok {
			return route, true
		}
	}

	if !s.underground.ShouldUseBlackBox(from, to) {
		return model.Route{}, false
	}
	systemID, ok := s.underground.SystemFor(from, to)
	if !ok {
		return model.Route{}, false
	}
	bb, ok := s.underground.CreateBlackBoxRoute(systemID, from, to)
	if !ok {
		return model.Route{}, false
	}

	segment := model.RouteSegment{
		FromStation: bb.From, ToStation: bb.To, LineName: "UNDERGROUND",
		Minutes: bb.Minutes, HasMinutes: true, DistanceKM: bb.DistanceKM, HasDistance: true,
		Pattern: model.ServicePatternUnderground,
	}
	route, err := model.NewRoute(from, to, []model.RouteSegment{segment})
	if err != nil {
		return model.Route{}, false
	}
	route.FullPath = []string{from, to}
	return route, true
}

func edgesOf(r pathfind.Result) []*graph.Edge {
	out := make([]*graph.Edge, len(r.Hops))
	for i, h := range r.Hops {
		out[i] = h.Edge
	}
	return out
}

// CalculateMultipleRoutes returns up to n distinct alternative routes
// between from and to, one per WeightMode, deduplicated by Jaccard
// similarity of their station sets (spec §4.8).
func (s *Service) CalculateMultipleRoutes(from, to string, prefs model.Preferences, n int) ([]model.Route, error) {
	modes := []pathfind.WeightMode{pathfind.WeightTime, pathfind.WeightDistance, pathfind.WeightChanges}
	var out []model.Route
	for _, mode := range modes {
		if len(out) >= n {
			break
		}
		route, err := s.CalculateRoute(from, to, 0, prefs, mode)
		if err != nil {
			continue
		}
		if !isDuplicate(out, route) {
			out = append(out, route)
		}
	}
	return out, nil
}

func isDuplicate(existing []model.Route, candidate model.Route) bool {
	for _, r := range existing {
		if jaccard(r.FullPath, candidate.FullPath) >= MultiRouteJaccardThreshold {
			return true
		}
	}
	return false
}

func jaccard(a, b []string) float64 {
	setA := toSet(a)
	setB := toSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 1
	}
	inter := 0
	for s := range setA {
		if setB[s] {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func toSet(names []string) map[string]bool {
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = true
	}
	return out
}

// GetPossibleDestinations returns every station reachable from station
// within maxHops (spec §4.8 ancillary query, delegating to traverse).
func (s *Service) GetPossibleDestinations(station string, maxHops int) []string {
	return traverse.PossibleDestinations(s.graph, station, maxHops)
}

// FindCircularRoutes returns simple cycles through station up to maxLength
// stations long (spec §4.8 ancillary query).
func (s *Service) FindCircularRoutes(station string, maxLength int) [][]string {
	return traverse.FindCircularRoutes(s.graph, station, maxLength)
}

// FindRoutesOnLine returns every station pair that is directly connected
// by the named line (spec §4.8 ancillary query).
func (s *Service) FindRoutesOnLine(lineName string) []model.RouteSegment {
	line, ok := s.repo.Line(lineName)
	if !ok {
		return nil
	}
	var out []model.RouteSegment
	for i := 0; i+1 < len(line.Stations); i++ {
		from, to := line.Stations[i], line.Stations[i+1]
		mins, hasMins := line.JourneyTime(from, to)
		dist, hasDist := line.Distance(from, to)
		out = append(out, model.RouteSegment{
			FromStation: from, ToStation: to, LineName: lineName,
			Minutes: mins, HasMinutes: hasMins, DistanceKM: dist, HasDistance: hasDist,
		})
	}
	return out
}

// GetJourneyTime returns the declared time in minutes between a and b on
// line, if declared.
func (s *Service) GetJourneyTime(a, b, line string) (int, bool) {
	return s.repo.JourneyTime(a, b, line)
}

// GetDistance returns the declared distance in kilometres between a and b
// on line, if declared.
func (s *Service) GetDistance(a, b, line string) (float64, bool) {
	return s.repo.Distance(a, b, line)
}

// FindDirectRoutes filters results to RouteTypeDirect.
func FindDirectRoutes(routes []model.Route) []model.Route {
	return filterByType(routes, model.RouteTypeDirect)
}

// FindInterchangeRoutes filters results to RouteTypeInterchange.
func FindInterchangeRoutes(routes []model.Route) []model.Route {
	return filterByType(routes, model.RouteTypeInterchange)
}

func filterByType(routes []model.Route, t model.RouteType) []model.Route {
	var out []model.Route
	for _, r := range routes {
		if r.Type == t {
			out = append(out, r)
		}
	}
	return out
}

// FindRoutesViaStation returns, from candidates, only routes whose
// FullPath includes via (excluding the endpoints themselves).
func FindRoutesViaStation(routes []model.Route, via string) []model.Route {
	var out []model.Route
	for _, r := range routes {
		for _, s := range r.FullPath {
			if s == via && s != r.FromStation && s != r.ToStation {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// FindRoutesAvoidingStation returns, from candidates, only routes whose
// FullPath never includes avoid.
func FindRoutesAvoidingStation(routes []model.Route, avoid string) []model.Route {
	var out []model.Route
	for _, r := range routes {
		hit := false
		for _, s := range r.FullPath {
			if s == avoid {
				hit = true
				break
			}
		}
		if !hit {
			out = append(out, r)
		}
	}
	return out
}

// GetFastestRoute / GetShortestRoute / GetFewestChangesRoute select the best route
// from a slice by the relevant criterion (spec §4.8 ancillary queries).

// GetFastestRoute returns the route with the lowest TotalMinutes.
func GetFastestRoute(routes []model.Route) (model.Route, bool) {
	return best(routes, func(a, b model.Route) bool { return a.TotalMinutes < b.TotalMinutes })
}

// GetShortestRoute returns the route with the lowest TotalDistanceKM.
func GetShortestRoute(routes []model.Route) (model.Route, bool) {
	return best(routes, func(a, b model.Route) bool { return a.TotalDistanceKM < b.TotalDistanceKM })
}

// GetFewestChangesRoute returns the route with the fewest interchanges.
func GetFewestChangesRoute(routes []model.Route) (model.Route, bool) {
	return best(routes, func(a, b model.Route) bool { return a.ChangesRequired() < b.ChangesRequired() })
}

func best(routes []model.Route, less func(a, b model.Route) bool) (model.Route, bool) {
	if len(routes) == 0 {
		return model.Route{}, false
	}
	sorted := append([]model.Route{}, routes...)
	sort.SliceStable(sorted, func(i, j int) bool { return less(sorted[i], sorted[j]) })
	return sorted[0], true
}
