// Package repository implements the Data Repository (spec.md §4.1): it
// loads stations, railway lines, interchange declarations and underground
// system definitions from a filesystem dataset, and exposes pure lookups
// over the result.
//
// Loading tolerates missing or malformed files by logging and skipping —
// it never aborts (spec.md §4.1, §7 DatasetLoadError). A fully empty
// dataset is a valid, if useless, terminal state.
package repository

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/ukrail/railplanner/model"
)

// IndexFileName is the manifest listing per-line data files.
const IndexFileName = "railway_lines_index_comprehensive.json"

// LinesDir is the directory holding one file per railway line.
const LinesDir = "lines"

// InterchangeFileName declares cross-line and walking connections.
const InterchangeFileName = "interchange_connections.json"

// UndergroundFileName declares the three underground systems.
const UndergroundFileName = "uk_underground_stations.json"

// LineInterchange is a declared line-to-line connection at a station, used
// by the walking service's through-service rule (spec §4.4.5).
type LineInterchange struct {
	Station       string
	FromLine      string
	ToLine        string
	RequiresChange bool
}

// Connection is one declared interchange between two stations (spec §6),
// of either connection_type WALKING/UNDERGROUND/other.
type Connection struct {
	FromStation      string
	ToStation        string
	Type             string
	Minutes          float64
	HasMinutes       bool
	WalkingMetres    float64
	HasWalkingMetres bool
	Description      string
	Coordinate       model.Coordinate
	HasCoordinate    bool
}

// AutoWalkingConfig mirrors interchange_connections.json's
// auto_walking_connections block (spec §4.2 Phase D).
type AutoWalkingConfig struct {
	Enabled        bool
	MaxDistanceM   float64
	WalkingSpeedMS float64
}

// Repository is the process-wide, read-only (after Load) store of
// stations, lines, interchange declarations and underground systems.
// Lifecycle: constructed once via Load, then shared by every caller (spec
// §3 Lifecycle, §5 resource ownership — the repository owns station and
// line objects).
type Repository struct {
	log *zap.Logger

	stationsByName map[string]model.Station
	lines          map[string]model.RailwayLine
	lineOrder      []string // load order, for deterministic iteration

	connections       []Connection
	directConnections []Connection
	autoWalking       AutoWalkingConfig
	lineInterchanges  []LineInterchange

	undergroundSystems map[model.UndergroundSystemID]model.UndergroundSystem
}

// New returns an empty Repository. Use Load to populate it from a dataset
// directory.
func New(log *zap.Logger) *Repository {
	if log == nil {
		log = zap.NewNop()
	}
	return &Repository{
		log:                log,
		stationsByName:     make(map[string]model.Station),
		lines:              make(map[string]model.RailwayLine),
		undergroundSystems: make(map[model.UndergroundSystemID]model.UndergroundSystem),
	}
}

// Load reads every dataset file under root, merging results into the
// Repository. Any single malformed file is logged and skipped; Load itself
// only fails if root does not exist as a directory at all.
func (r *Repository) Load(root string) error {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		r.log.Error("dataset root is not a directory", zap.String("root", root), zap.Error(err))
		return model.ErrDatasetLoad
	}

	lineFiles := r.discoverLineFiles(root)
	for _, path := range lineFiles {
		if err := r.loadLineFile(path); err != nil {
			r.log.Warn("skipping malformed line file", zap.String("path", path), zap.Error(err))
		}
	}

	if err := r.loadInterchangeFile(filepath.Join(root, InterchangeFileName)); err != nil {
		r.log.Warn("skipping malformed interchange file", zap.Error(err))
	}

	if err := r.loadUndergroundFile(filepath.Join(root, UndergroundFileName)); err != nil {
		r.log.Warn("skipping malformed underground file", zap.Error(err))
	}

	return nil
}

// discoverLineFiles prefers the index manifest when present and readable;
// otherwise it falls back to every *.json file under LinesDir, so a
// dataset missing only the manifest still loads in full.
func (r *Repository) discoverLineFiles(root string) []string {
	indexPath := filepath.Join(root, IndexFileName)
	if raw, err := os.ReadFile(indexPath); err == nil {
		var idx lineIndexFile
		if err := json.Unmarshal(raw, &idx); err == nil && len(idx.Lines) > 0 {
			out := make([]string, 0, len(idx.Lines))
			for _, entry := range idx.Lines {
				if entry.File == "" {
					continue
				}
				out = append(out, filepath.Join(root, LinesDir, entry.File))
			}
			return out
		}
		r.log.Warn("index manifest present but unreadable, scanning lines/ instead", zap.Error(err))
	}

	linesDir := filepath.Join(root, LinesDir)
	entries, err := os.ReadDir(linesDir)
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		out = append(out, filepath.Join(linesDir, e.Name()))
	}
	sort.Strings(out)
	return out
}

// loadLineFile decodes one per-line JSON file and merges it in: stations
// are deduplicated across lines while their line-membership sets are
// merged (a station serving >= 2 lines becomes an interchange).
func (r *Repository) loadLineFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var lf rawLineFile
	if err := json.Unmarshal(raw, &lf); err != nil {
		return err
	}
	if lf.Metadata.LineName == "" || len(lf.Stations) < 2 {
		return model.ErrDatasetLoad
	}

	names := make([]string, 0, len(lf.Stations))
	coords := make(map[string]model.Coordinate)
	seen := make(map[string]bool, len(lf.Stations))
	for _, st := range lf.Stations {
		name := strings.TrimSpace(st.Name)
		if name == "" || seen[name] {
			continue // dedupe within a single line file defensively
		}
		seen[name] = true
		names = append(names, name)
		if lat, lon, ok := st.Coordinates.resolve(); ok {
			coords[name] = model.Coordinate{Lat: lat, Lon: lon}
		}
	}
	if len(names) < 2 {
		return model.ErrDatasetLoad
	}

	line := model.RailwayLine{
		Name:         lf.Metadata.LineName,
		Stations:     names,
		Type:         model.ParseLineType(lf.Metadata.Type),
		Status:       model.ParseLineStatus(lf.Metadata.Status),
		Operator:     lf.Metadata.Operator,
		JourneyTimes: make(map[string]int),
		Distances:    make(map[string]float64),
		Coordinates:  coords,
	}
	lineStationSet := make(map[string]bool, len(names))
	for _, n := range names {
		lineStationSet[n] = true
	}
	for key, minutes := range lf.TypicalJourneyTime {
		a, b, ok := splitPairKey(key, lineStationSet)
		if !ok || !lineStationSet[a] || !lineStationSet[b] {
			continue // invariant: every journey_time key decomposes into two stations of that line
		}
		line.JourneyTimes[key] = int(minutes)
	}
	for key, km := range lf.TypicalDistances {
		a, b, ok := splitPairKey(key, lineStationSet)
		if !ok || !lineStationSet[a] || !lineStationSet[b] {
			continue
		}
		line.Distances[key] = km
	}

	if _, exists := r.lines[line.Name]; !exists {
		r.lineOrder = append(r.lineOrder, line.Name)
	}
	r.lines[line.Name] = line

	for _, name := range names {
		st, exists := r.stationsByName[name]
		if !exists {
			st = model.Station{Name: name}
		}
		if !st.ServesLine(line.Name) {
			st.Lines = append(st.Lines, line.Name)
		}
		if !st.HasCoord {
			if c, ok := coords[name]; ok {
				st.Coordinate, st.HasCoord = c, true
			}
		}
		if st.Operator == "" {
			st.Operator = line.Operator
		}
		r.stationsByName[name] = st
	}
	return nil
}

// splitPairKey splits a "From-To" journey-time/distance key into its two
// station names. Station names may themselves contain hyphens (e.g.
// "Stratford-upon-Avon"), so this matches the key against every declared
// station pair rather than naively splitting on the first "-"; callers
// pass the station set to validate against.
func splitPairKey(key string, stations map[string]bool) (from, to string, ok bool) {
	for i := 0; i < len(key); i++ {
		if key[i] == '-' && stations[key[:i]] && stations[key[i+1:]] {
			return key[:i], key[i+1:], true
		}
	}
	return "", "", false
}

func (r *Repository) loadInterchangeFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var f interchangeFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return err
	}
	r.connections = convertConnections(f.Connections)
	r.directConnections = convertConnections(f.DirectConnections)
	r.autoWalking = AutoWalkingConfig{
		Enabled:        f.AutoWalking.Enabled,
		MaxDistanceM:   f.AutoWalking.MaxDistanceM,
		WalkingSpeedMS: f.AutoWalking.WalkingSpeedMS,
	}
	for _, li := range f.LineInterchanges {
		for _, c := range li.Connections {
			r.lineInterchanges = append(r.lineInterchanges, LineInterchange{
				Station:        li.Station,
				FromLine:       c.FromLine,
				ToLine:         c.ToLine,
				RequiresChange: c.RequiresChange,
			})
		}
	}
	return nil
}

func convertConnections(raw []rawConnection) []Connection {
	out := make([]Connection, 0, len(raw))
	for _, c := range raw {
		conn := Connection{
			FromStation: c.FromStation,
			ToStation:   c.ToStation,
			Type:        strings.ToUpper(c.ConnectionType),
			Description: c.Description,
		}
		if c.TimeMinutes > 0 {
			conn.Minutes, conn.HasMinutes = c.TimeMinutes, true
		}
		if c.WalkingDistanceM > 0 {
			conn.WalkingMetres, conn.HasWalkingMetres = c.WalkingDistanceM, true
		}
		if c.Coordinates != nil {
			if lat, lon, ok := c.Coordinates.resolve(); ok {
				conn.Coordinate, conn.HasCoordinate = model.Coordinate{Lat: lat, Lon: lon}, true
			}
		}
		out = append(out, conn)
	}
	return out
}

func (r *Repository) loadUndergroundFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var f undergroundFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return err
	}
	for key, sys := range f {
		id, meanSpeed, minM, maxM, emoji, color := undergroundStaticsFor(key)
		if id == model.UndergroundUnknown {
			continue
		}
		stations := make(map[string]struct{}, len(sys.Stations))
		for _, s := range sys.Stations {
			stations[s] = struct{}{}
		}
		terminals := make(map[string]struct{}, len(sys.Terminals))
		for _, s := range sys.Terminals {
			terminals[s] = struct{}{}
		}
		name := sys.SystemName
		if name == "" {
			name = id.String()
		}
		r.undergroundSystems[id] = model.UndergroundSystem{
			ID: id, Name: name, Emoji: emoji, Color: color, Operator: sys.Operator,
			Stations: stations, Terminals: terminals,
			MeanSpeedKMH: meanSpeed, MinMinutes: minM, MaxMinutes: maxM,
		}
	}
	return nil
}

// undergroundStaticsFor maps a JSON object key to the static parameters of
// that system's black-box model (spec §4.3).
func undergroundStaticsFor(key string) (id model.UndergroundSystemID, meanSpeedKMH float64, minM, maxM int, emoji, color string) {
	switch key {
	case "London Underground":
		return model.UndergroundLondon, 22, 10, 40, "\U0001F687", "#DC241F"
	case "Glasgow Subway":
		return model.UndergroundGlasgow, 18, 5, 20, "\U0001F687", "#F7941E"
	case "Tyne and Wear Metro":
		return model.UndergroundTyneAndWear, 27, 8, 35, "\U0001F687", "#FFD200"
	default:
		return model.UndergroundUnknown, 0, 0, 0, "", ""
	}
}

// --- pure lookups (spec §4.1.3) ---

// StationByName is an exact lookup.
func (r *Repository) StationByName(name string) (model.Station, bool) {
	s, ok := r.stationsByName[name]
	return s, ok
}

// StationNames returns every known station name, sorted.
func (r *Repository) StationNames() []string {
	out := make([]string, 0, len(r.stationsByName))
	for name := range r.stationsByName {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Line returns a railway line by exact name.
func (r *Repository) Line(name string) (model.RailwayLine, bool) {
	l, ok := r.lines[name]
	return l, ok
}

// Lines returns every loaded line in load order (deterministic, not
// alphabetical, to match how the dataset's own index orders them).
func (r *Repository) Lines() []model.RailwayLine {
	out := make([]model.RailwayLine, 0, len(r.lineOrder))
	for _, name := range r.lineOrder {
		out = append(out, r.lines[name])
	}
	return out
}

// LinesServing returns the names of every line that includes station.
func (r *Repository) LinesServing(station string) []string {
	st, ok := r.stationsByName[station]
	if !ok {
		return nil
	}
	out := make([]string, len(st.Lines))
	copy(out, st.Lines)
	sort.Strings(out)
	return out
}

// CommonLines returns the line names serving both a and b.
func (r *Repository) CommonLines(a, b string) []string {
	linesA := r.LinesServing(a)
	if len(linesA) == 0 {
		return nil
	}
	setB := make(map[string]bool)
	for _, l := range r.LinesServing(b) {
		setB[l] = true
	}
	var out []string
	for _, l := range linesA {
		if setB[l] {
			out = append(out, l)
		}
	}
	return out
}

// JourneyTime returns the declared time between a and b on the named line.
func (r *Repository) JourneyTime(a, b, line string) (int, bool) {
	l, ok := r.lines[line]
	if !ok {
		return 0, false
	}
	return l.JourneyTime(a, b)
}

// Distance returns the declared distance between a and b on the named
// line.
func (r *Repository) Distance(a, b, line string) (float64, bool) {
	l, ok := r.lines[line]
	if !ok {
		return 0, false
	}
	return l.Distance(a, b)
}

// Connections returns the declared interchange connections (not including
// direct_connections).
func (r *Repository) Connections() []Connection { return r.connections }

// DirectConnections returns the declared direct_connections block.
func (r *Repository) DirectConnections() []Connection { return r.directConnections }

// AutoWalking returns the dataset's auto_walking_connections config.
func (r *Repository) AutoWalking() AutoWalkingConfig { return r.autoWalking }

// LineInterchanges returns every declared line-to-line interchange.
func (r *Repository) LineInterchanges() []LineInterchange { return r.lineInterchanges }

// UndergroundSystem returns the static data for one underground system.
func (r *Repository) UndergroundSystem(id model.UndergroundSystemID) (model.UndergroundSystem, bool) {
	s, ok := r.undergroundSystems[id]
	return s, ok
}

// UndergroundSystems returns every loaded underground system.
func (r *Repository) UndergroundSystems() map[model.UndergroundSystemID]model.UndergroundSystem {
	return r.undergroundSystems
}

// Stats summarises the loaded dataset for diagnostics/CLI use.
type Stats struct {
	StationCount     int
	InterchangeCount int
	LineCount        int
	ConnectionCount  int
}

// NetworkStats computes summary counts over the loaded repository.
func (r *Repository) NetworkStats() Stats {
	interchanges := 0
	for _, st := range r.stationsByName {
		if st.IsInterchange() {
			interchanges++
		}
	}
	return Stats{
		StationCount:     len(r.stationsByName),
		InterchangeCount: interchanges,
		LineCount:        len(r.lines),
		ConnectionCount:  len(r.connections) + len(r.directConnections),
	}
}
