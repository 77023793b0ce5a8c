// Package task runs background work for the API. Lessons that become
// reachable get their questions generated by a worker pool fed from a
// bounded in-memory queue, and recurring jobs such as catalog-wide
// regeneration run on a gocron schedule.
//
// Tasks are not persisted. Question generation is idempotent, so a task lost
// on shutdown is recreated by the next unlock event or scheduled run.
package task
