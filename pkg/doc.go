// Package pkg provides the core libraries for Flowline diagram layout.
//
// # Overview
//
// Flowline takes diagram models with partial or missing coordinates and
// computes complete, non-overlapping positions for every shape, pool, and
// lane. The pkg directory is organized into five main areas:
//
//  1. [model] - Diagram types and JSON serialization
//  2. [flowgraph] - Connector graph structure and ranking
//  3. [layout] - Position resolution (engine-backed and built-in)
//  4. [pipeline] - Orchestration (load → resolve → export)
//  5. [cache] / [store] - Layout caching and diagram persistence
//
// # Architecture
//
// The typical data flow through Flowline:
//
//	Diagram Model (JSON)
//	         ↓
//	    [model] package (parse + validate)
//	         ↓
//	    [flowgraph] package (connector graph + ranking)
//	         ↓
//	    [layout] package (positions, containers, connectors)
//	         ↓
//	    Fully positioned model (JSON)
//
// # Quick Start
//
// Resolve a diagram model:
//
//	import (
//	    "github.com/flowline-dev/flowline/pkg/layout"
//	    "github.com/flowline-dev/flowline/pkg/model"
//	)
//
//	// 1. Load the model
//	m, _ := model.ReadModelFile("diagram.json")
//
//	// 2. Resolve positions
//	resolved, _ := layout.Resolve(m, layout.Options{})
//
//	// 3. Write the result
//	_ = model.WriteModelFile(resolved, "diagram.resolved.json")
//
// # Main Packages
//
// ## Core Domain Logic
//
// [model] - Diagram model types (shapes, connectors, pools, lanes) with
// JSON readers and writers.
//
// [flowgraph] - Directed graph over connectors with longest-path ranking
// used to order shapes along the flow direction.
//
// [layout] - Coordinate resolution. Delegates whole-model placement to the
// graphviz engine when available and falls back to a built-in rank-based
// placer, then sizes containers, remaps members to container-relative
// coordinates, and attaches boundary shapes.
//
// ## Infrastructure
//
// [cache] - Layout result caching. FileCache for CLI (filesystem),
// RedisCache for the API server, NullCache for tests.
//
// [store] - Diagram persistence for the API server. MongoStore for
// production, MemoryStore for tests.
//
// ## Orchestration
//
// [pipeline] - The load → resolve → export pipeline shared by the CLI and
// the HTTP API, with cache-aware resolution.
//
// ## Support
//
// [errors] - Coded errors with user-facing messages and HTTP status
// mapping.
//
// [observability] - Hook interfaces for pipeline, cache, and API
// instrumentation.
//
// [buildinfo] - Build-time version information.
package pkg
