package tracker

import (
	"encoding/gob"
	"log"
	"os"

	ts "github.com/samuelfneumann/gotrace/timestep"
)

// Return tracks and saves the episodic return seen while recording.
// The recorder feeds this Tracker one TimeStep per observed reward,
// and the Tracker accumulates the return for each episode separately.
//
// An episode that is abandoned before its terminal step contributes no
// return: the First step of the following episode discards whatever
// was accumulated so far. Likewise, an episode that never finishes
// before Save is called is not saved.
type Return struct {
	currentReturn  float64
	episodeReturns []float64
	filename       string
}

// NewReturn creates and returns a new *Return Tracker saving to
// filename
func NewReturn(filename string) Tracker {
	return &Return{filename: filename}
}

// Track tracks the reward seen on a timestep. By calling this method
// on every timestep, the Tracker accumulates the return of the current
// episode, caching it when the episode's Last step arrives. A First
// step restarts accumulation, dropping any partial return from an
// abandoned episode.
func (r *Return) Track(step ts.TimeStep) {
	if step.First() {
		r.currentReturn = 0.0
		return
	}

	r.currentReturn += step.Reward

	if step.Last() {
		// Episode has ended, cache the return and begin tracking the
		// return of the next episode
		r.episodeReturns = append(r.episodeReturns, r.currentReturn)
		r.currentReturn = 0.0
	}
}

// Returns returns the episodic returns cached so far
func (r *Return) Returns() []float64 {
	return r.episodeReturns
}

// Save saves the data tracked by the Return Tracker to disk.
func (r *Return) Save() {
	// Open the file to save to
	file, err := os.Create(r.filename)
	if err != nil {
		log.Fatalf("could not create save file: %v", err)
	}
	defer file.Close()

	// Encode the episodic returns
	enc := gob.NewEncoder(file)
	if err := enc.Encode(r.episodeReturns); err != nil {
		log.Fatalf("could not encode data: %v", err)
	}
}
