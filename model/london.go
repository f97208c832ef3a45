package model

import "strings"

// LondonTerminals lists the twelve National Rail termini in central London
// that also serve the London Underground (spec GLOSSARY "London terminal").
// Clapham Junction is a major interchange but not itself a terminus, so it
// is intentionally absent here — it is handled separately as a same-
// physical-train special case (spec §4.4.6) wherever that applies.
var LondonTerminals = map[string]struct{}{
	"London Waterloo":         {},
	"London Victoria":         {},
	"London Paddington":       {},
	"London Kings Cross":      {},
	"London St Pancras":       {},
	"London Euston":           {},
	"London Liverpool Street": {},
	"London Bridge":           {},
	"London Charing Cross":    {},
	"London Cannon Street":    {},
	"London Fenchurch Street": {},
	"London Marylebone":       {},
}

// IsLondonTerminal reports whether station is one of the twelve termini.
func IsLondonTerminal(station string) bool {
	_, ok := LondonTerminals[station]
	return ok
}

// IsLondonStation reports whether station carries the "London " prefix by
// name — a coarse, name-based test used throughout the source to decide
// whether a station belongs to the dense central-London cluster that the
// black-box underground model exists to absorb.
func IsLondonStation(station string) bool {
	return strings.HasPrefix(station, "London ")
}

// IsNonTerminalLondonStation reports whether station is a London station
// (by name) that is not one of the twelve termini — the set the graph
// builder and pathfinder generally skip over or refuse to connect via
// walking, on the theory that non-terminal "London X" stations are really
// reached via the underground black box, not modelled individually.
func IsNonTerminalLondonStation(station string) bool {
	return IsLondonStation(station) && !IsLondonTerminal(station)
}
