// Package environment outlines the interfaces and structs needed to
// implement concrete environments that drive a trajectory recorder
package environment

import (
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/gotrace/schema"
)

// Starter implements a distribution of starting states and samples
// starting states for environments
type Starter interface {
	Start() mat.Vector
}

// Ender determines when episodes end for reasons other than reaching
// the environment's goal, such as timestep limits
type Ender interface {
	// End returns whether the episode should end after the argument
	// number of elapsed steps
	End(steps int) bool
}

// Environment implements a simulated environment driven once per tick
// by an external control loop. An Environment declares the schemas of
// the states it reports and the actions it accepts; the recorder
// records both streams.
type Environment interface {
	// States returns the schema of the state components the
	// environment reports each tick
	States() schema.Schema

	// Actions returns the schema of the action components the
	// environment accepts each tick
	Actions() schema.Schema

	// Reset starts a new episode and returns its first state
	Reset() (schema.Values, error)

	// Step applies one tick's actions and returns the next state, the
	// reward for the transition, and whether the episode ended
	Step(actions schema.Values) (schema.Values, float64, bool, error)
}
