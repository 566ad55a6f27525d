// Package reloc implements pointer resolution for loading and two-phase
// pointer patching for saving.
//
// Loading uses a Resolver matching the dialect's pointer convention:
//
//   - SelfRelative: the stored value is the distance from the pointer slot to
//     the target.
//   - SectionRelative: the stored value has been made absolute by applying the
//     container's relocation table (see Apply) before decoding starts.
//
// In both conventions a stored zero means "no target".
//
// Saving cannot know absolute addresses until every section has been flushed.
// Writers therefore reserve each pointer slot (a zero placeholder is written)
// against a target reference, record where each target lands with Place, and
// call Patch once after section.Set.Flush. Patch writes every slot exactly
// once and fails with errs.ErrUnpatchedPointer if any reservation is left
// without a placed target. Self-relative pointers internal to one section can
// be patched eagerly with ReserveLocal; they are counted the same way.
package reloc
