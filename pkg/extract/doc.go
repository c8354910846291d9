// Package extract turns the groups touched during one server render into
// style blocks.
//
// A [Session] belongs to exactly one response. For every rendered element,
// in document order, [Session.Emit] walks the element's extension chain from
// the most basic definition to the element's own, and emits one [Block] per
// group whose current content has not been emitted in this response yet.
//
// # Ordering
//
// Chains are walked base first, and the session remembers which groups
// followed which. A block is placed ahead of every block of a group that
// followed its own group in some chain, so a base definition's blocks always
// precede the blocks of every definition extending it, even when a dynamic
// base changes after an extension was emitted. Equal-specificity selectors
// therefore resolve in the extension's favor. Hosts that write blocks as
// they are emitted lose this guarantee; write [Session.HTML] once rendering
// is done.
//
// # Addressing
//
// Each block carries the content token of its group (see the hasher
// package) in its href attribute. The guard is keyed by (group, token): a
// group referenced again with unchanged content is skipped, while a dynamic
// group whose content changed between elements is emitted again under its
// new token. Hosts deduplicate blocks with equal tokens, both within a
// document and across responses.
package extract
