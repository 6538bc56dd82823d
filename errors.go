package main

import "errors"

var (
	// ErrMalformedInput marks source JSON that cannot be parsed or has no
	// recognisable shape.
	ErrMalformedInput = errors.New("malformed input")
	// ErrEmptyResult marks lookups or conversions that produced nothing.
	ErrEmptyResult = errors.New("empty result")
	// ErrViewportPrecondition marks fit/centre/render calls made without
	// waypoints or before the map has loaded.
	ErrViewportPrecondition = errors.New("viewport precondition")
	// ErrAssetLoad marks a map image that could not be loaded.
	ErrAssetLoad = errors.New("asset load failure")
)
