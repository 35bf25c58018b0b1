// Package track observes object graphs through their notify.MemberNotifier and
// notify.CollectionNotifier implementations and counts their changes.
//
// A Tracker is a tree: every notifying value reachable from the root gets a
// child tracker, rebuilt when its owner reports a change. Values reachable
// from several owners share one tracker. Plain structs, slices, arrays and
// maps are looked through; they report nothing themselves and are
// re-inspected when their owner reports an assignment.
//
// Dirty and Synchronize build on trackers: the first compares two graphs after
// every change, the second copies a source graph into a target.
package track
