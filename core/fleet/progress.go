package fleet

import (
	"fmt"
	"hash/fnv"
)

// ProgressEvent is published after every completed step of the run: one
// per simulated day in sequential mode, one per finished vehicle in
// parallel mode. Delivery is fire-and-continue; a slow observer drops
// events instead of stalling the simulation.
type ProgressEvent struct {
	RunID     string  `json:"run_id"`
	Model     string  `json:"model,omitempty"`
	Day       int     `json:"day,omitempty"`
	TotalDays int     `json:"total_days"`
	Fraction  float64 `json:"fraction"`
}

// vehicleSeed derives the RNG sub-seed for vehicle index i. The seed
// depends on the run seed and the vehicle index only, never on the
// business model, so same-chemistry fleets see identical draw sequences
// regardless of execution order or interleaving.
func vehicleSeed(master uint64, i int) uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "vehicle_%d", i)
	return master ^ h.Sum64()
}
