package model

// UndergroundSystemID enumerates the three urban underground networks the
// core understands. The black box is parameterised per system (distance
// zoning, mean speed, plausible time range); it never models individual
// lines within a system (spec §4.3, §9).
type UndergroundSystemID int

const (
	UndergroundUnknown UndergroundSystemID = iota
	UndergroundLondon
	UndergroundGlasgow
	UndergroundTyneAndWear
)

func (id UndergroundSystemID) String() string {
	switch id {
	case UndergroundLondon:
		return "London Underground"
	case UndergroundGlasgow:
		return "Glasgow Subway"
	case UndergroundTyneAndWear:
		return "Tyne and Wear Metro"
	default:
		return "unknown"
	}
}

// UndergroundSystem carries the static data the underground handler needs
// for one system: membership, terminals, and characteristic speed/time
// envelope used by the black-box model.
type UndergroundSystem struct {
	ID       UndergroundSystemID
	Name     string
	Emoji    string
	Color    string
	Operator string

	Stations  map[string]struct{}
	Terminals map[string]struct{} // National Rail interchanges

	MeanSpeedKMH  float64
	MinMinutes    int
	MaxMinutes    int
}
