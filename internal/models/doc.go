// Package models defines the account, partition and productivity types that
// the directory owns and the session manager edits.
//
// JSON tags follow the persisted snapshot layout, so renaming a tag breaks
// restoring existing stores. Every aggregate has a Clone method returning a
// deep copy; the session manager hands out clones only.
package models
