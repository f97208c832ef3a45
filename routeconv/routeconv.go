// Package routeconv implements the Route Converter (spec.md §4.7): turning
// a raw pathfinder hop sequence into a materialised model.Route, grouping
// consecutive same-line hops into a single segment and enriching each
// segment with its intermediate stops.
package routeconv

import (
	"github.com/ukrail/railplanner/graph"
	"github.com/ukrail/railplanner/model"
	"github.com/ukrail/railplanner/repository"
)

// Convert groups path's edges into model.RouteSegments and materialises a
// model.Route. repo resolves a line name to its full station sequence,
// used to fill in intermediate stops a segment passes through without
// stopping to change.
func Convert(repo *repository.Repository, from, to string, hops []*graph.Edge) (model.Route, error) {
	segments := groupSegments(repo, hops)
	route, err := model.NewRoute(from, to, segments)
	if err != nil {
		return model.Route{}, err
	}
	route.FullPath = fullPath(repo, hops)
	return route, nil
}

// groupSegments merges consecutive hops that share a LineName into one
// RouteSegment spanning from the first hop's origin to the last hop's
// destination, summing their minutes/distance. A change of LineName (or a
// non-rail Kind) always starts a new segment.
func groupSegments(repo *repository.Repository, hops []*graph.Edge) []model.RouteSegment {
	var segments []model.RouteSegment
	for _, e := range hops {
		pattern := patternFor(e)
		if n := len(segments); n > 0 {
			last := &segments[n-1]
			if last.LineName == e.LineName && last.Pattern == pattern && e.Kind == graph.KindRail {
				last.ToStation = e.To
				if last.HasMinutes && e.Minutes > 0 {
					last.Minutes += e.Minutes
				} else {
					last.HasMinutes = false
				}
				if last.HasDistance && e.DistanceKM > 0 {
					last.DistanceKM += e.DistanceKM
				} else {
					last.HasDistance = false
				}
				continue
			}
		}
		segments = append(segments, model.RouteSegment{
			FromStation: e.From,
			ToStation:   e.To,
			LineName:    e.LineName,
			Minutes:     e.Minutes,
			HasMinutes:  e.Minutes > 0,
			DistanceKM:  e.DistanceKM,
			HasDistance: e.DistanceKM > 0,
			Pattern:     pattern,
		})
	}
	return segments
}

func patternFor(e *graph.Edge) model.ServicePattern {
	switch e.Kind {
	case graph.KindWalking:
		return model.ServicePatternWalking
	case graph.KindUnderground:
		return model.ServicePatternUnderground
	default:
		return model.ServicePatternNone
	}
}

// fullPath expands every hop into its intermediate stations (for rail
// hops that belong to a known line) and concatenates them into one
// deduplicated sequence of every stop the journey actually passes through.
func fullPath(repo *repository.Repository, hops []*graph.Edge) []string {
	var out []string
	for _, e := range hops {
		stops := []string{e.From, e.To}
		if e.Kind == graph.KindRail {
			if line, ok := repo.Line(e.LineName); ok {
				if between := line.StationsBetween(e.From, e.To); len(between) > 0 {
					stops = between
				}
			}
		}
		for _, s := range stops {
			if len(out) == 0 || out[len(out)-1] != s {
				out = append(out, s)
			}
		}
	}
	return out
}
