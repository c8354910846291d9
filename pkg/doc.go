// Package pkg provides the core libraries for styletower.
//
// # Overview
//
// Styletower renders styled components on the server, ships each style
// group's CSS as a content-addressed block in the page head, and lets the
// client adopt those blocks instead of regenerating them. The pkg directory
// is organized bottom-up:
//
//  1. [groupid], [tag], [hasher] - Group ids, segmented rule storage, tokens
//  2. [sheet] - The stylesheet: one contiguous rule range per group
//  3. [styled] - Component definitions and rendering into a sheet
//  4. [extract], [ssr] - Per-response block emission
//  5. [rehydrate] - Reconciling server markup into a client sheet
//  6. [catalog], [dag], [io] - TOML-declared components and their extension graph
//  7. [cache], [pipeline] - Block and page caching, the shared render pipeline
//  8. [config], [errors], [observability], [buildinfo] - Ambient concerns
//
// # Data Flow
//
//	catalog (TOML components)
//	         ↓
//	    [styled] Render (static + dynamic rules into the sheet)
//	         ↓
//	    [extract] Session (one block per group and content token)
//	         ↓
//	    HTML page head + [cache] (blocks by token)
//	         ↓
//	    [rehydrate] Reconcile (client sheet adopts the blocks)
//
// # Quick Start
//
//	cat, _ := catalog.New(cfg.Components)
//	runner := pipeline.NewRunner(cat, cache.NewMemoryCache(), nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{Component: "PrimaryButton"})
//
// [groupid]: github.com/matzehuels/styletower/pkg/groupid
// [tag]: github.com/matzehuels/styletower/pkg/tag
// [hasher]: github.com/matzehuels/styletower/pkg/hasher
// [sheet]: github.com/matzehuels/styletower/pkg/sheet
// [styled]: github.com/matzehuels/styletower/pkg/styled
// [extract]: github.com/matzehuels/styletower/pkg/extract
// [ssr]: github.com/matzehuels/styletower/pkg/ssr
// [rehydrate]: github.com/matzehuels/styletower/pkg/rehydrate
// [catalog]: github.com/matzehuels/styletower/pkg/catalog
// [dag]: github.com/matzehuels/styletower/pkg/dag
// [io]: github.com/matzehuels/styletower/pkg/io
// [cache]: github.com/matzehuels/styletower/pkg/cache
// [pipeline]: github.com/matzehuels/styletower/pkg/pipeline
// [config]: github.com/matzehuels/styletower/pkg/config
// [errors]: github.com/matzehuels/styletower/pkg/errors
// [observability]: github.com/matzehuels/styletower/pkg/observability
// [buildinfo]: github.com/matzehuels/styletower/pkg/buildinfo
package pkg
