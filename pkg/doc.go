// Package pkg provides the core libraries for molview decorative molecule views.
//
// # Overview
//
// molview turns a SMILES string into a stylized 3D arrangement of atoms and
// bonds and renders it as a slowly rotating ball-and-stick picture. The
// layout is decorative: element symbols are read from the input and placed
// on concentric rings rather than derived from real chemistry. The pkg
// directory is organized into these areas:
//
//  1. [molecule] - Domain types (elements, atoms, bonds, structures) and the
//     JSON wire format
//  2. [layout] - The SMILES-to-structure generator
//  3. [reference] - Hand-placed showcase molecules
//  4. [render] - Projection ([render/scene]) and output sinks
//  5. [pipeline] - Orchestration (layout → render) with caching
//  6. [cache], [storage] - Infrastructure (file/Redis cache, saved structures)
//  7. [observability] - Pipeline, cache and HTTP hooks with Prometheus metrics
//
// # Architecture
//
// The typical data flow through molview:
//
//	SMILES string or reference name
//	         ↓
//	    [layout] package (element scan + ring placement)
//	         ↓
//	    [molecule.Structure]
//	         ↓
//	    [render/scene] package (rotation, tilt, depth sort)
//	         ↓
//	    SVG/PNG/GIF/PDF/JSON/XYZ/PDB output
//
// # Quick Start
//
// Lay out a molecule and render it:
//
//	import (
//	    "github.com/matzehuels/molview/pkg/layout"
//	    "github.com/matzehuels/molview/pkg/render/sink"
//	)
//
//	st := layout.Generate("CC(=O)Oc1ccccc1C(=O)O")
//	svg := sink.RenderSVG(st, sink.WithLegend())
//
// Or run the whole pipeline with caching:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source:  "c1ccccc1",
//	    Formats: []string{"svg", "gif"},
//	})
//
// # Determinism
//
// Layouts depend only on the input string. The same SMILES always yields
// the same structure, which is what makes layouts safe to cache by a hash of
// the input.
package pkg
