// Package session persists analysis sessions and result snapshots.
//
// A Session is the durable description of an analysis: the measure (meter,
// time map, anchor flag) and the filters accumulated against it. Sessions
// are small, codec-encoded blobs with a self-describing header, so a
// session written with one codec loads regardless of the process default.
//
// A snapshot is the canonical metric matrix of a session, written as a
// compressed binary blob. Regeneration is deterministic, so snapshots are
// purely an optimization: a reopened session either reads its snapshot or
// recomputes to the identical result.
package session
