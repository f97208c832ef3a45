package model

import "strings"

// Coordinate is a geographic point. A Station without a known coordinate
// carries the zero value and Known() reports false — no coordinate is ever
// invented downstream.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Known reports whether c was ever populated from a dataset file, as
// opposed to being the zero-value placeholder for "no coordinate".
func (c Coordinate) Known() bool { return c.Lat != 0 || c.Lon != 0 }

// Station is identified by Name, the unique key across the whole dataset.
// Station is immutable once constructed; repository load is the only
// place a Station value is assembled.
type Station struct {
	Name string

	Coordinate  Coordinate
	HasCoord    bool
	Lines       []string // interchange set: every line serving this station
	Operator    string
	Zone        string
	Facilities  []string
}

// NewStation trims Name and returns an error if the result is empty, per
// the Station invariant: name non-empty after trim.
func NewStation(name string) (Station, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return Station{}, ErrStationUnknown
	}
	return Station{Name: trimmed}, nil
}

// IsInterchange reports whether this station serves two or more lines.
func (s Station) IsInterchange() bool { return len(s.Lines) >= 2 }

// ServesLine reports whether s.Lines contains line.
func (s Station) ServesLine(line string) bool {
	for _, l := range s.Lines {
		if l == line {
			return true
		}
	}
	return false
}
