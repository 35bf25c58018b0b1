// Package deepcopy copies object graphs structurally into existing targets.
//
// The target is updated in place: existing pointers, maps and custom
// collections are reused and merged into, missing ones are created. Fields
// tagged `state:"readonly"` are never assigned, a source that disagrees with
// them fails with diagnostic.ErrReadonlyMemberDiffers. A failed copy is not
// rolled back.
package deepcopy
