// Package io exports extension graphs as JSON.
//
// The format has two top-level arrays. Rows are extension depths, so base
// components sit in row 0:
//
//	{
//	  "nodes": [
//	    {"id": "Button", "row": 0, "meta": {"static": ["display:inline-flex;"]}},
//	    {"id": "PrimaryButton", "row": 1, "meta": {"dynamic": ["background:{{ .tone }};"]}}
//	  ],
//	  "edges": [
//	    {"from": "Button", "to": "PrimaryButton"}
//	  ]
//	}
//
// Nodes appear in insertion order, which for a catalog is base first.
package io
