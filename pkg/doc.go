// Package pkg holds the libraries behind the spending CLI and server.
//
// # Overview
//
// Federal spending is a three-level hierarchy: agencies, the federal
// accounts of one agency, and the program activities of one account. Each
// level is shown as a squarified treemap, a sorted table or a node-link
// diagram, and every figure can be personalized to the share "from you" of
// a contribution the user enters.
//
//  1. [budget] - revenue / outlays / obligations ratios and the headline stack
//  2. [contribution] - the user's amount and personalize toggle
//  3. [hierarchy] - records, level keys, denominators and click behavior
//  4. [format] - dollar and percent strings
//  5. [render] - treemap layout engine, table and node-link views
//  6. [dataset], [integrations] - level files on disk and the spending API
//  7. [pipeline] - load → layout → render with caching
//  8. [server], [config], [cache], [observability] - service plumbing
//
// # Data Flow
//
//	spending API / data directory
//	         ↓
//	    [dataset] Loader (level + title + parent share + breadcrumbs)
//	         ↓
//	    [render/treemap] Build (squarify, labels, colors, hrefs)
//	         ↓
//	    SVG/PNG/PDF/JSON, CSV, DOT
//
// # Quick Start
//
//	dir := dataset.NewDir("data", 2024)
//	runner := pipeline.NewRunner(dataset.NewLoader(dir), nil, nil, nil)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Key:         hierarchy.Key{AgencyID: "1125"},
//	    Amount:      40000,
//	    Personalize: true,
//	})
//	os.WriteFile("agency.svg", res.Artifacts["svg"], 0o644)
package pkg
