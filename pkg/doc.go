// Package pkg provides the libraries behind hextile, a generator of
// hexagonal tile layouts.
//
// # Overview
//
// A layout is a compact cluster of flat-top hexagons grown toward a target
// aspect ratio, extended with a few thin tendrils, and colored from a fixed
// palette with exact per-color counts. Every layout is reproducible from its
// parameters and seed.
//
// # Architecture
//
// The data flow through hextile:
//
//	layout.Params
//	     ↓
//	[layout] grow blob → extend tendrils → assign colors
//	     ↓
//	layout.Pattern
//	     ↓
//	[render] PNG / SVG, [io] JSON / CSV, [render/growthgraph] growth tree
//
// [pipeline] runs that flow for several variations at once with caching and
// is shared by the CLI and the HTTP API.
//
// # Quick Start
//
//	params := layout.DefaultParams()
//	params.Seed = 7
//	p, err := layout.Generate(params)
//	if err != nil {
//	    return err
//	}
//	png, err := render.RenderPNG(p, render.WithScale(40))
//
// # Main Packages
//
// ## Engine
//
// [hex] - Axial coordinates, neighbors, pixel geometry and hex sets.
//
// [layout] - Parameters, validation and the generation orchestrator, with
// subpackages growth (blob growth), tendril (tendril extension) and palette
// (random, gradient and 60/30/10 color assignment).
//
// ## Output
//
// [render] - Raster and vector drawing plus composite sheets.
//
// [io] - Pattern documents as JSON and tile lists as CSV.
//
// ## Infrastructure
//
// [cache] - File, Redis and null caches with content-hash keys.
//
// [store] - Saved patterns in memory, SQLite or MongoDB.
//
// [observability] - Hooks for generation, render, cache and HTTP events.
//
// [errors] - Coded errors and input validation.
//
// ## Services
//
// [api] - HTTP API with websocket streaming, photo uploads and overlay
// sizing, built on [imageproc] and [overlay].
//
// [buildinfo] - Version information set at build time.
package pkg
