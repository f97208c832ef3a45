// Package walking implements the Walking Connection Service (spec.md
// §4.4): the arbiter of whether a geographically close pair of stations on
// different lines deserves a walking edge.
package walking

import (
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"github.com/ukrail/railplanner/model"
	"github.com/ukrail/railplanner/repository"
)

// samePhysicalTrain hard-codes station pairs that are, in reality, the same
// physical train continuing along a line rather than two places a
// passenger would ever walk between (spec §4.4.6).
var samePhysicalTrain = [][2]string{
	{"Clapham Junction", "London Waterloo"},
	{"Woking", "London Waterloo"},
	{"Guildford", "London Waterloo"},
	{"Basingstoke", "London Waterloo"},
	{"Reading", "London Paddington"},
	{"Oxford", "London Paddington"},
}

func isSamePhysicalTrain(a, b string) bool {
	for _, pair := range samePhysicalTrain {
		if (a == pair[0] && b == pair[1]) || (a == pair[1] && b == pair[0]) {
			return true
		}
	}
	return false
}

// Service decides walking-edge admissibility. It holds only a read-only
// reference to the repository, per spec §5 resource ownership.
type Service struct {
	repo      *repository.Repository
	maxWalkKM float64
}

// New returns a Service with the dataset's configured walking limit (or
// model.DefaultMaxWalkingDistanceKM if the dataset does not enable or does
// not set one). Preferences.MaxWalkingDistanceKM, when supplied per-call,
// takes precedence — see Admit.
func New(repo *repository.Repository) *Service {
	maxKM := model.DefaultMaxWalkingDistanceKM
	if cfg := repo.AutoWalking(); cfg.Enabled && cfg.MaxDistanceM > 0 {
		maxKM = cfg.MaxDistanceM / 1000.0
	}
	return &Service{repo: repo, maxWalkKM: maxKM}
}

// Admit applies every rule in spec §4.4 and reports whether a walking edge
// between a and b is admissible, along with the great-circle distance in
// metres if the pair is admitted (0 whenever the pair is rejected).
func (s *Service) Admit(a, b string, maxWalkKM float64) (ok bool, metres int) {
	if maxWalkKM <= 0 {
		maxWalkKM = s.maxWalkKM
	}

	// Rule 1: neither a non-terminal London station; nor both terminals.
	if model.IsNonTerminalLondonStation(a) || model.IsNonTerminalLondonStation(b) {
		return false, 0
	}
	if model.IsLondonTerminal(a) && model.IsLondonTerminal(b) {
		return false, 0
	}

	// Rule 6: hard-coded same-physical-train pairs, checked early since it
	// is a cheap name comparison and should win over a coincidental close
	// coordinate.
	if isSamePhysicalTrain(a, b) {
		return false, 0
	}

	// Rule 2: great-circle distance within bounds, both coordinates known.
	staA, okA := s.repo.StationByName(a)
	staB, okB := s.repo.StationByName(b)
	if !okA || !okB || !staA.HasCoord || !staB.HasCoord {
		return false, 0
	}
	distM := geo.Distance(
		orb.Point{staA.Coordinate.Lon, staA.Coordinate.Lat},
		orb.Point{staB.Coordinate.Lon, staB.Coordinate.Lat},
	)
	if distM > maxWalkKM*1000 {
		return false, 0
	}

	// Rule 3: no shared line anywhere in the network.
	if len(s.repo.CommonLines(a, b)) > 0 {
		return false, 0
	}

	// Rule 4: no declared direct connection with zero walking distance.
	for _, c := range s.repo.DirectConnections() {
		if sameUnordered(c.FromStation, c.ToStation, a, b) && (!c.HasWalkingMetres || c.WalkingMetres == 0) {
			return false, 0
		}
	}

	// Rule 5: no through-service linking their respective lines.
	if s.hasThroughService(a, b) {
		return false, 0
	}

	return true, int(distM)
}

func sameUnordered(x1, y1, x2, y2 string) bool {
	return (x1 == x2 && y1 == y2) || (x1 == y2 && y1 == x2)
}

// hasThroughService reports whether some third-party station declares a
// line-to-line interchange (requires_change=false) linking a line serving a
// with a line serving b (spec §4.4.5).
func (s *Service) hasThroughService(a, b string) bool {
	linesA := toSet(s.repo.LinesServing(a))
	linesB := toSet(s.repo.LinesServing(b))
	if len(linesA) == 0 || len(linesB) == 0 {
		return false
	}
	for _, li := range s.repo.LineInterchanges() {
		if li.RequiresChange {
			continue
		}
		if (linesA[li.FromLine] && linesB[li.ToLine]) || (linesA[li.ToLine] && linesB[li.FromLine]) {
			return true
		}
	}
	return false
}

func toSet(names []string) map[string]bool {
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = true
	}
	return out
}

// IsWalkingLike reports whether a label looks like the synthetic WALKING
// line name, case-insensitively — used by callers that only have a raw
// line-name string rather than a graph.Edge at hand.
func IsWalkingLike(lineName string) bool {
	return strings.EqualFold(lineName, "WALKING")
}
