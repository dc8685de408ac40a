// Package scheduler turns a flat set of callbacks with declared ordering
// constraints into an execution plan: an ordered sequence of groups where
// every group's members have all their dependencies satisfied by earlier
// groups and may therefore run concurrently.
//
// Three constraint forms exist: run-first (the unique start point of the
// plan), run-last (the sole member of the final group), and run-after (an
// arbitrary fan-in edge set). Callbacks with no constraint are start points
// themselves, unless a run-first callback exists, in which case they become
// its children.
package scheduler
