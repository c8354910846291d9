// Package sheet implements the group-indexed stylesheet.
//
// A [StyleSheet] owns every rule generated during one sheet lifetime (one
// server request, one test, one client page). Rules are grouped by the
// [groupid.ID] of the style definition that produced them. Each group
// occupies a single contiguous range of the underlying [tag.Store]; groups
// are laid out in id order and a group's rules stay in insertion order.
//
// # Names registry
//
// [StyleSheet.AddRule] takes a declaration block, mints a class name for it
// and stores the rule ".name{declarations}". Static rules are deduplicated by
// the composite key (group id, declaration text): adding the same static
// declarations to the same group twice returns the existing name and inserts
// nothing. Dynamic rules are always inserted; callers that want to avoid
// re-inserting identical dynamic text check [StyleSheet.HasName] first.
//
// # Tokens
//
// [StyleSheet.Token] returns the content address of a group's CSS text, as
// computed by the hasher package. Tokens are cached per group and the cache
// entry is dropped whenever that group changes.
//
// # Ordering
//
// The sheet does not order groups relative to each other beyond their ids.
// Emitting an ancestor's CSS before its extensions is the job of the
// extraction engine.
//
// A StyleSheet is not safe for concurrent use. Use one instance per request,
// or guard a shared one for the whole render-and-extract section.
package sheet
