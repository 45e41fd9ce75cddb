// Package pkg provides the libraries behind nodevis, a layout engine for
// node visualizations of hierarchies.
//
// # Overview
//
// A hierarchy is positioned by layout styles anchored at nodes and by a
// force simulation for everything no style claims. Every node collects
// weighted positioning requests from the authorities that want to place it;
// the heaviest request wins.
//
//  1. [hierarchy] - Nodes, links and the positioning resolver
//  2. [style] - Hierarchy, radial, block, fixed and force styles
//  3. [force] - The force simulation and its solver
//  4. [manager] - Applies layout documents, drag handling, undo history
//  5. [layout] / [matcher] - Layout documents and node matching
//  6. [store] / [cache] / [datasource] / [server] - Persistence, caching,
//     backend polling and the HTTP API
//
// # Architecture
//
//	hierarchy document + layout document
//	         ↓
//	    [manager] binds style configs to nodes via [matcher]
//	         ↓
//	    [style] and [force] write positioning requests
//	         ↓
//	    [hierarchy] resolves the winning position per node
//	         ↓
//	    placements, render/nodelink SVG/PNG, stored layout
//
// # Quick Start
//
//	tree, _ := hierarchy.ReadFile("tree.json")
//	doc, _ := layout.ReadFile("layout.json")
//	res, _ := manager.ApplyOnce(ctx, tree, doc, layout.Size{Width: 1200, Height: 800}, manager.Options{}, true)
//	for _, p := range res.Placements {
//	    fmt.Println(p.ID, p.X, p.Y)
//	}
package pkg
