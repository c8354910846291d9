// Package tag stores generated CSS rules in insertion order.
//
// Hosts that physically hold style text (a browser <style> element, a
// CSSStyleSheet, a server-side buffer) usually cap how many rules a single
// container may hold. This package models such a container as a [Tag] and
// provides a [Store] that presents many bounded Tags as one logical, ordered
// sequence of rules.
//
// # Segments
//
// The Store partitions rules into segments, one Tag per segment. When an
// insertion hits a full segment the Store either spills into the following
// segment or splits the full one, so the capacity ceiling never surfaces to
// callers. Removing a range that crosses segment boundaries is equally
// transparent, and segments that become empty are dropped.
//
// Strict mode ([Options.MaxSegments] > 0) bounds the number of segments; only
// then can an insertion fail with CAPACITY_EXCEEDED.
//
// # Cost
//
// [Store.CSS] and [Store.RemoveRules] cost O(range + segments), never
// O(total rules): locating the first affected segment walks segment lengths,
// after which only rules in the range are touched.
package tag
