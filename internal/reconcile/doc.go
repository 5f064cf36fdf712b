// Package reconcile compares a playlist against the files already present in
// its music destination.
//
// A Snapshot is taken once per generation run and discarded afterwards. Reconcile
// partitions the playlist entries by final file name into duplicates (already
// on the player) and files that still need to be copied.
package reconcile
