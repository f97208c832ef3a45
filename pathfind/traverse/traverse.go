// Package traverse implements the graph-reachability queries of the Route
// Service that are not shortest-path search: possible destinations from a
// station (breadth-first, bounded by hop count) and circular routes through
// a station (depth-first, three-colour cycle detection).
//
// Adapted from the teacher's bfs and dfs packages: the same white/gray/black
// state-machine shape for cycle detection, and level-order expansion for
// reachability, but walking the domain Graph rather than core.Graph and
// returning station names rather than generic vertex IDs.
package traverse

import (
	"sort"

	"github.com/ukrail/railplanner/graph"
)

// PossibleDestinations returns every station reachable from source within
// maxHops directed edges, breadth-first. source itself is excluded.
func PossibleDestinations(g *graph.Graph, source string, maxHops int) []string {
	if !g.HasStation(source) || maxHops <= 0 {
		return nil
	}
	visited := map[string]int{source: 0}
	queue := []string{source}
	var out []string

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		depth := visited[cur]
		if depth >= maxHops {
			continue
		}
		for to := range g.Out(cur) {
			if _, seen := visited[to]; seen {
				continue
			}
			visited[to] = depth + 1
			out = append(out, to)
			queue = append(queue, to)
		}
	}

	sort.Strings(out)
	return out
}

const (
	white = iota
	gray
	black
)

// FindCircularRoutes enumerates simple cycles that pass through station,
// up to maxLength stations long, using depth-first search with three-colour
// marking (white=unvisited, gray=on the current path, black=fully
// explored). Each cycle is returned as the ordered list of stations
// visited, starting and ending at station.
func FindCircularRoutes(g *graph.Graph, station string, maxLength int) [][]string {
	if !g.HasStation(station) || maxLength < 2 {
		return nil
	}

	state := make(map[string]int)
	var path []string
	var cycles [][]string
	seen := make(map[string]bool)

	var visit func(cur string)
	visit = func(cur string) {
		state[cur] = gray
		path = append(path, cur)

		if len(path) <= maxLength {
			for to := range g.Out(cur) {
				if to == station && len(path) >= 2 {
					cycle := append(append([]string{}, path...), station)
					sig := cycleSignature(cycle)
					if !seen[sig] {
						seen[sig] = true
						cycles = append(cycles, cycle)
					}
					continue
				}
				if state[to] == white {
					visit(to)
				}
			}
		}

		path = path[:len(path)-1]
		state[cur] = black
	}
	visit(station)

	sort.Slice(cycles, func(i, j int) bool {
		return cycleSignature(cycles[i]) < cycleSignature(cycles[j])
	})
	return cycles
}

func cycleSignature(cycle []string) string {
	out := ""
	for i, s := range cycle {
		if i > 0 {
			out += ">"
		}
		out += s
	}
	return out
}
