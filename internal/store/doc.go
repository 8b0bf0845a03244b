// Package store persists analyses in SQLite so sweeps can be compared over
// time.
//
// Each analysis is keyed by a UUIDv7 and owns its run records (in input
// order) and its summary rows (in emitted order). Run records without usable
// accuracy keep NULL digit columns.
package store
