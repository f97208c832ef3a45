// Package pathfind implements the Pathfinding Algorithm (spec.md §4.6): a
// preference-aware Dijkstra search over the Network Graph that can weigh
// edges by time, distance, or number of changes, and that biases its
// choice of edge among otherwise-comparable options using the same
// priority heuristics the original router used (favouring the current
// line, a common line shared by both endpoints, regional trunk routes,
// direct services, and underground hops).
//
// This package is adapted from the teacher's dijkstra package: the same
// lazy-decrease-key heap-runner shape, but walking the domain Graph instead
// of a generic core.Graph, and scoring edges with domain-specific
// adjustments rather than a single edge weight.
package pathfind

import (
	"container/heap"
	"errors"
	"strings"

	"github.com/ukrail/railplanner/graph"
	"github.com/ukrail/railplanner/model"
)

// WeightMode selects which quantity Dijkstra minimises (spec §4.6).
type WeightMode int

const (
	// WeightTime minimises total minutes (the default).
	WeightTime WeightMode = iota
	// WeightDistance minimises total kilometres.
	WeightDistance
	// WeightChanges minimises number of interchanges, falling back to
	// time as a tiebreak.
	WeightChanges
)

// Sentinel errors.
var (
	ErrEmptySource   = errors.New("pathfind: source station is empty")
	ErrNoSuchStation = errors.New("pathfind: station not in graph")
)

// WalkingPenaltyMultiplier scales a walking edge's own time/distance
// contribution, discouraging the router from over-using walking transfers
// relative to staying on rail (spec §4.6; original_source applies this as
// a multiplier rather than a flat addition).
const WalkingPenaltyMultiplier = 2.0

const (
	bonusCommonLine     = -10000.0
	bonusSameLineAsPrev = -1000.0
	bonusIsDirect       = -100.0
	bonusRegionalTrunk  = -50000.0
)

// crossLondonDistanceKM is the accumulated-distance threshold beyond which
// a journey between two non-London stations is treated as a genuine
// cross-London run rather than a local detour through the capital (spec
// §4.6's "long cross-London journey" exception to the non-terminal skip).
const crossLondonDistanceKM = 30.0

// regionalTrunk pairs a set of station-name keywords with the trunk line
// that serves them, used to bias the router toward that line when the
// journey originates in its region (spec §4.6 regional trunk bias).
type regionalTrunk struct {
	keywords []string
	lineName string
}

var regionalTrunks = []regionalTrunk{
	{keywords: []string{"southampton", "portsmouth", "bournemouth", "woking", "basingstoke"}, lineName: "South Western Main Line"},
	{keywords: []string{"edinburgh", "newcastle", "york", "leeds", "doncaster"}, lineName: "East Coast Main Line"},
	{keywords: []string{"bristol", "cardiff", "reading", "oxford"}, lineName: "Great Western Main Line"},
}

func regionalTrunkLineFor(origin string) string {
	lo := strings.ToLower(origin)
	for _, rt := range regionalTrunks {
		for _, kw := range rt.keywords {
			if strings.Contains(lo, kw) {
				return rt.lineName
			}
		}
	}
	return ""
}

// Options configures a single Search call.
type Options struct {
	Mode        WeightMode
	Preferences model.Preferences
	MaxWalkKM   float64 // overrides Preferences.WalkingLimitKM when > 0
}

// Hop is one traversed edge in a found path.
type Hop struct {
	Edge *graph.Edge
}

// Result is the outcome of a successful Search. Minutes and DistanceKM are
// the plain sums of each hop's own Minutes/DistanceKM (spec §4.7: the
// route converter sums from the graph, not from the penalised Dijkstra
// weights); Changes is the number of line changes along the path,
// computed the same way regardless of which WeightMode drove the search.
type Result struct {
	Path        []string
	Hops        []Hop
	Minutes     int
	HasMinutes  bool
	DistanceKM  float64
	HasDistance bool
	Changes     int
}

// Search runs a preference-aware Dijkstra from source to destination over
// g. It returns model.ErrNoRouteFound if no admissible path exists.
func Search(g *graph.Graph, source, destination string, opts Options) (Result, error) {
	if source == "" || destination == "" {
		return Result{}, ErrEmptySource
	}
	if !g.HasStation(source) {
		return Result{}, ErrNoSuchStation
	}
	if !g.HasStation(destination) {
		return Result{}, ErrNoSuchStation
	}
	if source == destination {
		return Result{Path: []string{source}, HasMinutes: true, HasDistance: true}, nil
	}

	maxWalkKM := opts.MaxWalkKM
	if maxWalkKM <= 0 {
		maxWalkKM = opts.Preferences.WalkingLimitKM()
	}

	r := &runner{
		g:             g,
		mode:          opts.Mode,
		prefs:         opts.Preferences,
		maxWalkKM:     maxWalkKM,
		source:        source,
		destination:   destination,
		commonLines:   g.CommonLines(source, destination),
		originTrunk:   regionalTrunkLineFor(source),
		crossLondon:   !model.IsLondonStation(source) && !model.IsLondonStation(destination),
		state:         make(map[string]nodeState),
		prevEdge:      make(map[string]*graph.Edge),
		prevNode:      make(map[string]string),
		visited:       make(map[string]bool),
	}
	r.run(source)

	if _, ok := r.prevEdge[destination]; !ok {
		return Result{}, model.ErrNoRouteFound
	}

	return r.buildResult(source, destination), nil
}

// nodeState is the cumulative, penalty-adjusted state Dijkstra tracks per
// station: the mode-weight formulas in spec §4.6 are functions of this
// absolute state, not of a per-edge delta.
type nodeState struct {
	time     float64
	distance float64
	changes  int
	line     string
	isDirect bool
}

type runner struct {
	g           *graph.Graph
	mode        WeightMode
	prefs       model.Preferences
	maxWalkKM   float64
	source      string
	destination string
	commonLines map[string]struct{}
	originTrunk string
	crossLondon bool

	state    map[string]nodeState
	prevEdge map[string]*graph.Edge // station -> edge used to reach it
	prevNode map[string]string
	visited  map[string]bool
}

type item struct {
	station string
	cost    float64
}

type pq []*item

func (q pq) Len() int            { return len(q) }
func (q pq) Less(i, j int) bool  { return q[i].cost < q[j].cost }
func (q pq) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *pq) Push(x interface{}) { *q = append(*q, x.(*item)) }
func (q *pq) Pop() interface{} {
	old := *q
	n := len(old)
	it := old[n-1]
	*q = old[:n-1]
	return it
}

func (r *runner) run(source string) {
	r.state[source] = nodeState{}
	h := &pq{}
	heap.Init(h)
	heap.Push(h, &item{station: source, cost: 0})

	for h.Len() > 0 {
		cur := heap.Pop(h).(*item)
		if r.visited[cur.station] {
			continue
		}
		r.visited[cur.station] = true
		curState := r.state[cur.station]

		for to, parallel := range r.g.Out(cur.station) {
			if r.skipNeighbour(to, curState.distance) {
				continue
			}
			candidates := r.restrictToCommonLines(parallel)
			var admissible []*graph.Edge
			for _, e := range candidates {
				if r.admissible(e) {
					admissible = append(admissible, e)
				}
			}
			e := r.selectEdge(admissible, curState.line)
			if e == nil {
				continue
			}

			next := r.applyEdge(curState, e)
			cost := r.score(next)
			if r.visited[to] {
				continue
			}
			if existing, ok := r.costOf(to); ok && cost >= existing {
				continue
			}
			r.state[to] = next
			r.prevEdge[to] = e
			r.prevNode[to] = cur.station
			heap.Push(h, &item{station: to, cost: cost})
		}
	}
}

// costOf reports the Dijkstra cost already recorded for station, if any.
func (r *runner) costOf(station string) (float64, bool) {
	s, ok := r.state[station]
	if !ok {
		return 0, false
	}
	return r.score(s), true
}

// skipNeighbour applies the unconditional non-terminal-London skip (spec
// §4.6): a non-terminal London station is never expanded into unless the
// journey is a long cross-London run (both endpoints outside London and
// more than crossLondonDistanceKM already travelled), and AvoidLondon
// removes that exception entirely.
func (r *runner) skipNeighbour(to string, distanceSoFar float64) bool {
	if !model.IsNonTerminalLondonStation(to) {
		return false
	}
	if r.prefs.AvoidLondon {
		return true
	}
	longCrossLondon := r.crossLondon && distanceSoFar > crossLondonDistanceKM
	return !longCrossLondon
}

// restrictToCommonLines implements spec §4.6's common-line restriction:
// when source and destination share at least one line, outgoing rail
// edges are restricted to edges on those common lines, as long as doing
// so leaves at least one rail candidate. Non-rail edges (walking,
// interchange, underground, direct) are never restricted, since
// restricting them risks breaking connectivity they alone provide.
func (r *runner) restrictToCommonLines(parallel []*graph.Edge) []*graph.Edge {
	if len(r.commonLines) == 0 {
		return parallel
	}
	var rail, onCommon, other []*graph.Edge
	for _, e := range parallel {
		if e.Kind != graph.KindRail {
			other = append(other, e)
			continue
		}
		rail = append(rail, e)
		if _, ok := r.commonLines[e.LineName]; ok {
			onCommon = append(onCommon, e)
		}
	}
	if len(rail) == 0 || len(onCommon) == 0 {
		return parallel
	}
	return append(onCommon, other...)
}

// admissible applies the preference filters (spec §4.6): AvoidWalking
// excludes walking edges entirely; a walking edge beyond the configured
// distance limit is excluded outright (the walking service already bounds
// this at build time, but Search re-checks since callers may tighten the
// limit per-request).
func (r *runner) admissible(e *graph.Edge) bool {
	if r.prefs.AvoidWalking && e.Kind == graph.KindWalking {
		return false
	}
	if e.Kind == graph.KindWalking && e.HasWalkingMetres && float64(e.WalkingMetres)/1000.0 > r.maxWalkKM {
		return false
	}
	return true
}

// selectEdge picks the single best edge among parallel options between the
// same adjacent station pair, using the priority bonuses from spec §4.6.
// These bonuses are large negative numbers used ONLY to rank candidates
// against each other here; they never feed into the additive Dijkstra
// cost computed afterward in applyEdge/score.
func (r *runner) selectEdge(candidates []*graph.Edge, prevLine string) *graph.Edge {
	var best *graph.Edge
	bestScore := 0.0
	for _, e := range candidates {
		score := r.priorityScore(e, prevLine)
		if best == nil || score < bestScore {
			best = e
			bestScore = score
		}
	}
	return best
}

func (r *runner) priorityScore(e *graph.Edge, prevLine string) float64 {
	score := 0.0
	if _, ok := r.commonLines[e.LineName]; ok && e.Kind == graph.KindRail {
		score += bonusCommonLine
	}
	if r.originTrunk != "" && e.LineName == r.originTrunk {
		score += bonusRegionalTrunk
	}
	if prevLine != "" && e.LineName == prevLine {
		score += bonusSameLineAsPrev
	}
	if e.IsDirect {
		score += bonusIsDirect
	}
	return score
}

// applyEdge folds e into cur's cumulative state, applying the walking
// multiplier, the underground discount and the interchange penalty to the
// edge's own time/distance contribution before adding it to the running
// totals, so the result stays a sound, non-negative Dijkstra weight.
func (r *runner) applyEdge(cur nodeState, e *graph.Edge) nodeState {
	edgeTime := edgeTimeMinutes(e)
	edgeDistance := edgeDistanceKM(e)

	if e.Kind == graph.KindWalking {
		edgeTime *= WalkingPenaltyMultiplier
		edgeDistance *= WalkingPenaltyMultiplier
	}
	if e.Kind == graph.KindUnderground {
		factor := r.undergroundFactor(e)
		edgeTime *= factor
		edgeDistance *= factor
	}

	changed := cur.line != "" && cur.line != e.LineName && !e.IsDirect
	changes := cur.changes
	if changed {
		changes++
		edgeTime += float64(model.InterchangePenaltyMinutes)
	}

	return nodeState{
		time:     cur.time + edgeTime,
		distance: cur.distance + edgeDistance,
		changes:  changes,
		line:     e.LineName,
		isDirect: e.IsDirect,
	}
}

// undergroundFactor scales an underground edge's cost relative to its raw
// minutes/distance, keyed by the journey characteristics in spec §4.6:
// crossing London via a terminal is cheapest, a long haul or a short hop
// into a terminal are discounted less, and a non-terminal underground leg
// of a cross-London journey sits in between.
func (r *runner) undergroundFactor(e *graph.Edge) float64 {
	touchesTerminal := model.IsLondonTerminal(e.From) || model.IsLondonTerminal(e.To)
	dist := edgeDistanceKM(e)
	switch {
	case r.crossLondon && touchesTerminal:
		return 0.4
	case touchesTerminal && dist >= 15:
		return 0.6
	case touchesTerminal && dist < 3:
		return 0.8
	case r.crossLondon && !touchesTerminal:
		return 0.7
	default:
		return 1.0
	}
}

// score evaluates the Dijkstra cost for s under the runner's WeightMode.
// Each mode's formula is an absolute function of the cumulative state
// (spec §4.6), recomputed fresh rather than accumulated incrementally.
func (r *runner) score(s nodeState) float64 {
	switch r.mode {
	case WeightDistance:
		return s.distance
	case WeightChanges:
		directTerm := 1000.0
		if s.isDirect {
			directTerm = 0
		}
		return float64(s.changes)*1000.0 + s.time + directTerm
	default:
		return s.time
	}
}

func edgeTimeMinutes(e *graph.Edge) float64 {
	if e.Minutes > 0 {
		return float64(e.Minutes)
	}
	if e.DistanceKM > 0 {
		return e.DistanceKM / 40.0 * 60.0
	}
	return 0
}

func edgeDistanceKM(e *graph.Edge) float64 {
	if e.DistanceKM > 0 {
		return e.DistanceKM
	}
	if e.Minutes > 0 {
		return float64(e.Minutes) / 60.0 * 40.0
	}
	return 0
}

func (r *runner) buildResult(source, destination string) Result {
	var path []string
	var hops []Hop
	for cur := destination; cur != source; cur = r.prevNode[cur] {
		path = append([]string{cur}, path...)
		hops = append([]Hop{{Edge: r.prevEdge[cur]}}, hops...)
	}
	path = append([]string{source}, path...)

	minutes, hasMinutes := 0, true
	distanceKM, hasDistance := 0.0, true
	for _, hop := range hops {
		if hop.Edge.Minutes > 0 {
			minutes += hop.Edge.Minutes
		} else {
			hasMinutes = false
		}
		if hop.Edge.DistanceKM > 0 {
			distanceKM += hop.Edge.DistanceKM
		} else {
			hasDistance = false
		}
	}

	return Result{
		Path:        path,
		Hops:        hops,
		Minutes:     minutes,
		HasMinutes:  hasMinutes,
		DistanceKM:  distanceKM,
		HasDistance: hasDistance,
		Changes:     countChanges(hops),
	}
}

// countChanges counts line changes along hops using the same rule as the
// cumulative state in applyEdge: a change is a line switch that is not a
// direct service.
func countChanges(hops []Hop) int {
	changes := 0
	prevLine := ""
	havePrev := false
	for _, hop := range hops {
		e := hop.Edge
		if havePrev && prevLine != e.LineName && !e.IsDirect {
			changes++
		}
		prevLine = e.LineName
		havePrev = true
	}
	return changes
}
