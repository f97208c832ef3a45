// Package model defines the value types shared across the routing core:
// stations, railway lines, route segments, materialised routes, and the
// sentinel errors the rest of the module communicates failure with.
//
// Nothing in this package touches the filesystem, the graph, or the
// pathfinder; it is the vocabulary the other packages speak.
package model

import "errors"

// Sentinel errors for the routing core's error taxonomy.
//
// The public API reports every failed lookup or search by returning one of
// these sentinels alongside a zero-value Route: a name that resolves to no
// station, an unreachable destination, a route over the change limit, or
// an internal invariant a constructed Route failed to uphold.
var (
	// ErrDatasetLoad wraps a single malformed dataset file. Loading
	// continues with that file's contribution dropped; this error is
	// logged, never returned from Repository's public lookups.
	ErrDatasetLoad = errors.New("model: dataset file malformed")

	// ErrStationUnknown means a supplied name did not normalise to any
	// station in the repository.
	ErrStationUnknown = errors.New("model: station unknown")

	// ErrNoRouteFound means the pathfinder exhausted the graph without
	// reaching the destination.
	ErrNoRouteFound = errors.New("model: no route found")

	// ErrRouteValidation means a constructed Route failed an internal
	// invariant (see Route.Validate). Reasons accompany the error.
	ErrRouteValidation = errors.New("model: route failed validation")

	// ErrPreferenceUnsatisfiable means a route exists but not one the
	// active preferences accept: avoid-walking leaves no connected path,
	// or the route found needs more changes than the caller's limit.
	ErrPreferenceUnsatisfiable = errors.New("model: preferences leave no route")

	// ErrInvalidPath is returned for programmer errors, such as building
	// a Route from an empty segment list (see NewRoute).
	ErrInvalidPath = errors.New("model: path has fewer than two stations")
)
