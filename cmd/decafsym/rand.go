package main

import (
	"math/rand"
	"time"
)

// newSeededRand seeds the -order=random worklist from wall-clock time, since
// the CLI has no other source of entropy and reproducibility across runs
// isn't a goal for this flag (only within a single run's fork tree, which
// symexec.RandomWorklist's single *rand.Rand already provides).
func newSeededRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
