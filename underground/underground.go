// Package underground implements the Underground Routing Handler (spec.md
// §4.3): classifying stations as underground-only, mixed or neither,
// producing black-box routes that abstract each metro system's internal
// topology down to characteristic speed and plausible duration, stitching
// long-distance cross-country journeys across two underground systems via
// a National Rail trunk, and collapsing underground-only legs of an
// already-built route into a single synthetic segment.
package underground

import (
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"github.com/ukrail/railplanner/model"
	"github.com/ukrail/railplanner/repository"
)

// aliases maps a tolerant candidate name to the canonical name a system
// declares, for pairs the automatic folding in matches cannot derive (spec
// §4.3, mirroring original_source's underground_routing_handler.py name
// table).
var aliases = map[string]string{
	"Glasgow Central": "St Enoch",
}

// Handler classifies stations against the three underground systems and
// answers black-box routing questions. It holds a read-only reference to
// the repository so it can tell an underground-only station apart from a
// mixed National Rail terminal (spec §5 resource ownership).
type Handler struct {
	repo    *repository.Repository
	systems map[model.UndergroundSystemID]model.UndergroundSystem
}

// New builds a Handler from repo's loaded underground systems.
func New(repo *repository.Repository) *Handler {
	return &Handler{repo: repo, systems: repo.UndergroundSystems()}
}

// fold normalises a station name for tolerant underground-name matching:
// lower-cased, "London " prefix stripped, apostrophes and periods removed.
func fold(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.TrimPrefix(s, "london ")
	s = strings.NewReplacer("'", "", ".", "").Replace(s)
	return s
}

// SystemOf reports which underground system (if any) serves station,
// tolerant of casing, the "London " prefix, punctuation, and the hard-coded
// alias table.
func (h *Handler) SystemOf(station string) (model.UndergroundSystemID, bool) {
	if alias, ok := aliases[station]; ok {
		station = alias
	}
	target := fold(station)
	for id, sys := range h.systems {
		for s := range sys.Stations {
			if fold(s) == target {
				return id, true
			}
		}
	}
	return model.UndergroundUnknown, false
}

// IsTerminal reports whether station is a declared National Rail terminal
// of the underground system it belongs to.
func (h *Handler) IsTerminal(station string) bool {
	id, ok := h.SystemOf(station)
	if !ok {
		return false
	}
	sys := h.systems[id]
	target := fold(station)
	for t := range sys.Terminals {
		if fold(t) == target {
			return true
		}
	}
	return false
}

// isNationalRail reports whether station is a member of the repository's
// National Rail station set, the half of the classification an underground
// system definition alone cannot answer.
func (h *Handler) isNationalRail(station string) bool {
	_, ok := h.repo.StationByName(station)
	return ok
}

// StationClass classifies a single station against the underground systems
// (spec §4.3).
type StationClass int

const (
	// StationClassNeither means station belongs to no underground system —
	// an ordinary National Rail station.
	StationClassNeither StationClass = iota
	// StationClassUndergroundOnly means station belongs to a system and is
	// not in the repository's National Rail station set.
	StationClassUndergroundOnly
	// StationClassMixed means station belongs to a system and is also a
	// National Rail station (a terminal/interchange).
	StationClassMixed
)

// ClassifyStation classifies a single station (spec §4.3's three-way
// per-station classification).
func (h *Handler) ClassifyStation(station string) StationClass {
	if _, ok := h.SystemOf(station); !ok {
		return StationClassNeither
	}
	if h.isNationalRail(station) {
		return StationClassMixed
	}
	return StationClassUndergroundOnly
}

// Classification describes how a from/to pair relates to the underground
// systems (spec §4.3).
type Classification int

const (
	// ClassificationNeither means neither endpoint uses any underground
	// system; the journey is pure National Rail (or unresolvable here).
	ClassificationNeither Classification = iota
	// ClassificationUndergroundOnly means both endpoints belong to the
	// same underground system.
	ClassificationUndergroundOnly
	// ClassificationMixed means exactly one endpoint is on an underground
	// system (the journey needs a National Rail leg plus a black-box leg).
	ClassificationMixed
)

// Classify determines how from/to relate to the underground systems.
func (h *Handler) Classify(from, to string) Classification {
	fromID, fromOK := h.SystemOf(from)
	toID, toOK := h.SystemOf(to)
	switch {
	case fromOK && toOK && fromID == toID:
		return ClassificationUndergroundOnly
	case fromOK != toOK:
		return ClassificationMixed
	default:
		return ClassificationNeither
	}
}

// ShouldUseBlackBox decides whether from/to should be routed through the
// black-box model (spec §4.3). The different-systems exclusion is checked
// first, then the prefer-rail, same-system, to-underground-only and
// from-underground conditions in that order.
func (h *Handler) ShouldUseBlackBox(from, to string) bool {
	fromID, fromOK := h.SystemOf(from)
	toID, toOK := h.SystemOf(to)

	// Both endpoints underground but in different systems: no single
	// system's black box applies here (cross-country stitching handles
	// this case instead, see IsCrossCountry/CreateCrossCountryRoute).
	if fromOK && toOK && fromID != toID {
		return false
	}

	// to is an underground terminal that also serves National Rail, and
	// both endpoints are themselves National Rail stations: prefer rail.
	if toOK && h.IsTerminal(to) && h.ClassifyStation(to) == StationClassMixed &&
		h.isNationalRail(from) && h.isNationalRail(to) {
		return false
	}

	// from and to are both underground, same system.
	if fromOK && toOK && fromID == toID {
		return true
	}

	// to is underground-only.
	if toOK && h.ClassifyStation(to) == StationClassUndergroundOnly {
		return true
	}

	// from is underground, to is National Rail: use the black box when
	// from has no rail presence of its own, or to is a known NR station
	// (route via that system's terminus).
	if fromOK && !toOK {
		return h.ClassifyStation(from) == StationClassUndergroundOnly || h.isNationalRail(to)
	}

	return false
}

// SystemFor returns the underground system either from or to (preferring
// from) belongs to, for callers that already know ShouldUseBlackBox said
// yes and need to pick which system's black box to invoke.
func (h *Handler) SystemFor(from, to string) (model.UndergroundSystemID, bool) {
	if id, ok := h.SystemOf(from); ok {
		return id, true
	}
	return h.SystemOf(to)
}

// zoneDistancesKM is the London Underground's coarse distance-by-zone-span
// model: the further apart two stations sit (by real geographic distance),
// the more zones the journey is assumed to cross (spec §4.3
// "create_black_box_route").
var zoneDistancesKM = []float64{2.5, 5.0, 7.0, 12.0, 15.0}

// zoneBoundsKM are the upper bounds, in kilometres of real great-circle
// distance, of each successive zone bucket in zoneDistancesKM.
var zoneBoundsKM = []float64{1.5, 3.0, 5.0, 9.0, 13.0}

// glasgowMeanHopKM and tyneAndWearMeanHopKM are characteristic
// terminal-to-terminal distances for the two smaller systems, used in place
// of a zone table the spec does not define for them (spec §4.3 Open
// Question).
const (
	glasgowMeanHopKM     = 5.25
	tyneAndWearMeanHopKM = 9.0
)

// BlackBoxRoute is a synthetic underground leg: no individual line or
// intermediate stations, only a plausible time and distance.
type BlackBoxRoute struct {
	System     model.UndergroundSystemID
	From, To   string
	Minutes    int
	DistanceKM float64
}

// CreateBlackBoxRoute synthesises a route across a single underground
// system using that system's characteristic speed, clamped into its
// declared plausible time range (spec §4.3).
func (h *Handler) CreateBlackBoxRoute(systemID model.UndergroundSystemID, from, to string) (BlackBoxRoute, bool) {
	sys, ok := h.systems[systemID]
	if !ok {
		return BlackBoxRoute{}, false
	}

	distanceKM := h.distanceForSystem(systemID, from, to)
	minutes := timeFromDistance(distanceKM, sys.MeanSpeedKMH, sys.MinMinutes, sys.MaxMinutes)

	// Tyne and Wear Metro adds a flat penalty for longer hops (spec
	// §4.3, grounded on original_source's system-specific adjustment).
	if systemID == model.UndergroundTyneAndWear && distanceKM > 8 {
		minutes += 3
	}

	return BlackBoxRoute{System: systemID, From: from, To: to, Minutes: minutes, DistanceKM: distanceKM}, true
}

// distanceForSystem estimates a plausible distance for a journey within a
// system. London buckets the real great-circle distance between the two
// stations' declared coordinates into the zone table; Glasgow and Tyne and
// Wear (much smaller networks, no declared zone system) use a fixed
// characteristic hop distance.
func (h *Handler) distanceForSystem(id model.UndergroundSystemID, from, to string) float64 {
	switch id {
	case model.UndergroundGlasgow:
		return glasgowMeanHopKM
	case model.UndergroundTyneAndWear:
		return tyneAndWearMeanHopKM
	}

	realKM, ok := h.geoDistanceKM(from, to)
	if !ok {
		// No coordinates on either station (spec §9 Open Question on
		// inconsistent coordinate keys); fall back to the mid-range zone.
		return zoneDistancesKM[len(zoneDistancesKM)/2]
	}
	for i, bound := range zoneBoundsKM {
		if realKM <= bound {
			return zoneDistancesKM[i]
		}
	}
	return zoneDistancesKM[len(zoneDistancesKM)-1]
}

// geoDistanceKM returns the great-circle distance between two named
// stations' repository coordinates, if both are known.
func (h *Handler) geoDistanceKM(from, to string) (float64, bool) {
	staA, okA := h.repo.StationByName(from)
	staB, okB := h.repo.StationByName(to)
	if !okA || !okB || !staA.HasCoord || !staB.HasCoord {
		return 0, false
	}
	metres := geo.Distance(
		orb.Point{staA.Coordinate.Lon, staA.Coordinate.Lat},
		orb.Point{staB.Coordinate.Lon, staB.Coordinate.Lat},
	)
	return metres / 1000.0, true
}

// timeFromDistance converts a distance and characteristic speed into
// minutes, clamped to [min,max] so the black box never claims an
// implausibly short or long underground hop.
func timeFromDistance(distanceKM, speedKMH float64, min, max int) int {
	if speedKMH <= 0 {
		return min
	}
	minutes := int(distanceKM / speedKMH * 60)
	if minutes < min {
		return min
	}
	if minutes > max {
		return max
	}
	return minutes
}

// trunkLine names a mainline corridor used for cross-country stitching
// between two underground-served cities (spec §4.3 "cross-country
// stitching").
type trunkLine struct {
	name           string
	keywords       [2]string // region keywords distinguishing the two endpoints
	speedKMH       float64
	londonTerminus string // the London terminus this trunk line reaches
	regionTerminus string // the terminus at the trunk's non-London end
}

var trunkLines = []trunkLine{
	{name: "West Coast Main Line", keywords: [2]string{"glasgow", "london"}, speedKMH: 110,
		londonTerminus: "London Euston", regionTerminus: "Glasgow Central"},
	{name: "East Coast Main Line", keywords: [2]string{"edinburgh", "london"}, speedKMH: 110,
		londonTerminus: "London Kings Cross", regionTerminus: "Edinburgh Waverley"},
	{name: "South Western Main Line", keywords: [2]string{"london", "southampton"}, speedKMH: 110,
		londonTerminus: "London Waterloo", regionTerminus: "Southampton Central"},
	{name: "Great Western Main Line", keywords: [2]string{"london", "bristol"}, speedKMH: 110,
		londonTerminus: "London Paddington", regionTerminus: "Bristol Temple Meads"},
}

// StitchCrossCountry looks for a trunk line whose region keywords match the
// two station names (case-insensitively, by substring) and, if found,
// returns its name and a characteristic speed for estimating a long
// intercity leg (spec §4.3).
func StitchCrossCountry(from, to string) (name string, speedKMH float64, ok bool) {
	lf, lt := strings.ToLower(from), strings.ToLower(to)
	for _, tl := range trunkLines {
		if (strings.Contains(lf, tl.keywords[0]) && strings.Contains(lt, tl.keywords[1])) ||
			(strings.Contains(lf, tl.keywords[1]) && strings.Contains(lt, tl.keywords[0])) {
			return tl.name, tl.speedKMH, true
		}
	}
	return "", 0, false
}

// regionOf classifies station into a coarse geographic region: the
// underground system it belongs to (if any) settles the question outright,
// since a system's own stations rarely carry the region's city name (e.g.
// "Hillhead" says nothing about Glasgow by itself); otherwise fall back to
// matching well-known city keywords in the name (spec §4.3 "disjoint
// coarse regions").
func (h *Handler) regionOf(station string) string {
	if id, ok := h.SystemOf(station); ok {
		switch id {
		case model.UndergroundGlasgow:
			return "scotland"
		case model.UndergroundTyneAndWear:
			return "northeast"
		case model.UndergroundLondon:
			return "london"
		}
	}
	s := strings.ToLower(station)
	switch {
	case strings.Contains(s, "glasgow"), strings.Contains(s, "edinburgh"):
		return "scotland"
	case strings.Contains(s, "newcastle"), strings.Contains(s, "sunderland"), strings.Contains(s, "gateshead"):
		return "northeast"
	case strings.Contains(s, "southampton"), strings.Contains(s, "portsmouth"), strings.Contains(s, "bournemouth"):
		return "south"
	case strings.Contains(s, "bristol"), strings.Contains(s, "exeter"), strings.Contains(s, "plymouth"):
		return "southwest"
	case strings.Contains(s, "london"):
		return "london"
	default:
		return ""
	}
}

// IsCrossCountry reports whether from and to sit in two disjoint coarse
// regions, neither of them London — the case a single black-box system
// cannot bridge and that instead needs a stitched route via a National
// Rail trunk and a London Underground crossing (spec §4.3).
func (h *Handler) IsCrossCountry(from, to string) bool {
	rf, rt := h.regionOf(from), h.regionOf(to)
	if rf == "" || rt == "" || rf == rt {
		return false
	}
	return rf != "london" && rt != "london"
}

// trunkLineFor finds the trunk line whose region keywords match station,
// treating an underground-system station as if it carried its system's
// home city's name.
func (h *Handler) trunkLineFor(station string) (trunkLine, bool) {
	s := strings.ToLower(station)
	if id, ok := h.SystemOf(station); ok {
		switch id {
		case model.UndergroundGlasgow:
			s = "glasgow"
		case model.UndergroundTyneAndWear:
			s = "newcastle"
		}
	}
	for _, tl := range trunkLines {
		if strings.Contains(s, tl.keywords[0]) || strings.Contains(s, tl.keywords[1]) {
			return tl, true
		}
	}
	return trunkLine{}, false
}

// CreateCrossCountryRoute builds a stitched long-distance route: origin
// underground (if any) -> origin terminus -> National Rail trunk ->
// London terminus -> London Underground bridge -> London terminus ->
// National Rail trunk -> destination terminus -> destination underground
// (if any), omitting any leg whose endpoints coincide (spec §4.3).
func (h *Handler) CreateCrossCountryRoute(from, to string) (model.Route, bool) {
	originTrunk, ok := h.trunkLineFor(from)
	if !ok {
		return model.Route{}, false
	}
	destTrunk, ok := h.trunkLineFor(to)
	if !ok {
		return model.Route{}, false
	}

	var segments []model.RouteSegment

	if seg, ok := h.undergroundLeg(from, originTrunk.regionTerminus); ok {
		segments = append(segments, seg)
	}
	if seg, ok := h.railLeg(originTrunk.regionTerminus, originTrunk.londonTerminus, originTrunk.name, originTrunk.speedKMH); ok {
		segments = append(segments, seg)
	}
	if seg, ok := h.undergroundLeg(originTrunk.londonTerminus, destTrunk.londonTerminus); ok {
		segments = append(segments, seg)
	}
	if seg, ok := h.railLeg(destTrunk.londonTerminus, destTrunk.regionTerminus, destTrunk.name, destTrunk.speedKMH); ok {
		segments = append(segments, seg)
	}
	if seg, ok := h.undergroundLeg(destTrunk.regionTerminus, to); ok {
		segments = append(segments, seg)
	}

	if len(segments) == 0 {
		return model.Route{}, false
	}
	route, err := model.NewRoute(from, to, segments)
	if err != nil {
		return model.Route{}, false
	}
	route.FullPath = fullPathOf(segments)
	return route, true
}

// undergroundLeg produces a black-box UNDERGROUND segment between from and
// to, or (false) if the leg is degenerate (same station) or neither
// endpoint resolves to a system.
func (h *Handler) undergroundLeg(from, to string) (model.RouteSegment, bool) {
	if from == "" || to == "" || from == to {
		return model.RouteSegment{}, false
	}
	id, ok := h.SystemFor(from, to)
	if !ok {
		return model.RouteSegment{}, false
	}
	bb, ok := h.CreateBlackBoxRoute(id, from, to)
	if !ok {
		return model.RouteSegment{}, false
	}
	return model.RouteSegment{
		FromStation: bb.From, ToStation: bb.To, LineName: "UNDERGROUND",
		Minutes: bb.Minutes, HasMinutes: true, DistanceKM: bb.DistanceKM, HasDistance: true,
		Pattern: model.ServicePatternUnderground,
	}, true
}

// railLeg produces a National Rail trunk segment between from and to at
// speedKMH, estimating distance from the stations' declared coordinates, or
// (false) if the leg is degenerate or coordinates are unavailable.
func (h *Handler) railLeg(from, to, lineName string, speedKMH float64) (model.RouteSegment, bool) {
	if from == "" || to == "" || from == to {
		return model.RouteSegment{}, false
	}
	distanceKM, ok := h.geoDistanceKM(from, to)
	if !ok {
		return model.RouteSegment{}, false
	}
	minutes := int(distanceKM / speedKMH * 60)
	if minutes < 1 {
		minutes = 1
	}
	return model.RouteSegment{
		FromStation: from, ToStation: to, LineName: lineName,
		Minutes: minutes, HasMinutes: true, DistanceKM: distanceKM, HasDistance: true,
	}, true
}

func fullPathOf(segments []model.RouteSegment) []string {
	var out []string
	for _, seg := range segments {
		for _, s := range []string{seg.FromStation, seg.ToStation} {
			if len(out) == 0 || out[len(out)-1] != s {
				out = append(out, s)
			}
		}
	}
	return out
}

// EnhanceRouteWithBlackBox replaces any segment whose endpoints involve an
// underground-only station with a single black-box UNDERGROUND segment,
// merging adjacent underground segments produced this way, then strips the
// full path of underground-only interior stations (spec §4.3
// "enhance_route_with_black_box").
func (h *Handler) EnhanceRouteWithBlackBox(route model.Route) (model.Route, error) {
	if len(route.Segments) == 0 {
		return route, nil
	}

	collapsed := make([]model.RouteSegment, 0, len(route.Segments))
	for _, seg := range route.Segments {
		if !h.segmentIsUndergroundOnly(seg) {
			collapsed = append(collapsed, seg)
			continue
		}
		bbSeg, ok := h.blackBoxSegment(seg)
		if !ok {
			collapsed = append(collapsed, seg)
			continue
		}
		if n := len(collapsed); n > 0 && collapsed[n-1].Pattern == model.ServicePatternUnderground {
			collapsed[n-1].ToStation = bbSeg.ToStation
			collapsed[n-1].Minutes += bbSeg.Minutes
			collapsed[n-1].DistanceKM += bbSeg.DistanceKM
			continue
		}
		collapsed = append(collapsed, bbSeg)
	}

	rebuilt, err := model.NewRoute(route.FromStation, route.ToStation, collapsed)
	if err != nil {
		return model.Route{}, err
	}
	rebuilt.FullPath = h.stripUndergroundOnlyInterior(route.FullPath, route.FromStation, route.ToStation)
	return rebuilt, nil
}

// segmentIsUndergroundOnly reports whether either of seg's endpoints
// classifies as underground-only, the condition that triggers collapsing
// it into a black-box segment.
func (h *Handler) segmentIsUndergroundOnly(seg model.RouteSegment) bool {
	return h.ClassifyStation(seg.FromStation) == StationClassUndergroundOnly ||
		h.ClassifyStation(seg.ToStation) == StationClassUndergroundOnly
}

func (h *Handler) blackBoxSegment(seg model.RouteSegment) (model.RouteSegment, bool) {
	return h.undergroundLeg(seg.FromStation, seg.ToStation)
}

func (h *Handler) stripUndergroundOnlyInterior(path []string, from, to string) []string {
	out := make([]string, 0, len(path))
	for _, s := range path {
		if s != from && s != to && h.ClassifyStation(s) == StationClassUndergroundOnly {
			continue
		}
		out = append(out, s)
	}
	return out
}
