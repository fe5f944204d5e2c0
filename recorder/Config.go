package recorder

import (
	"fmt"

	"github.com/samuelfneumann/gotrace/catalog"
	"github.com/samuelfneumann/gotrace/schema"
	"github.com/samuelfneumann/gotrace/validity"
)

// CursorPolicy selects how the recording cursor advances across the
// two-phase Step/Observe protocol
type CursorPolicy int

const (
	// AdvanceOnObserve writes states and actions at the shared cursor
	// and advances it only when the matching reward is observed. This
	// keeps "steps recorded" and "steps observed" in lockstep and is
	// the default.
	AdvanceOnObserve CursorPolicy = iota

	// AdvanceOnStep advances a separate recording cursor on every
	// Step, wrapping at the buffer capacity, while Observe advances
	// the observation cursor independently
	AdvanceOnStep
)

func (c CursorPolicy) String() string {
	switch c {
	case AdvanceOnStep:
		return "AdvanceOnStep"
	default:
		return "AdvanceOnObserve"
	}
}

// Config describes a Recorder. The zero value is not usable; every
// field without a stated default must be set.
type Config struct {
	// MaxTimesteps is the fixed episode capacity T
	MaxTimesteps int

	// States and Actions declare the recorded component schemas. When
	// ComputeValidity is set, Actions must declare the reserved
	// control component and a scalar validity component.
	States  schema.Schema
	Actions schema.Schema

	// RewardThreshold is the minimum mean episode reward for a trace
	// to be persisted
	RewardThreshold float64

	// TracesDir is the directory trace archives are written to
	TracesDir string

	// ComputeValidity selects whether the validity pass runs when an
	// episode finishes. When false, the validity component's recorded
	// values pass through to the trace untouched.
	ComputeValidity bool

	// Cursor selects the cursor advancement policy; the zero value is
	// AdvanceOnObserve
	Cursor CursorPolicy

	// Aggregate, RMax, and RMin configure the validity pass. Aggregate
	// is required only when ComputeValidity is set.
	Aggregate  validity.Aggregator
	RMax, RMin float64

	// Source builds the scripted control policy on each Reset
	Source SourceMaker

	// Convert turns the policy's control commands into actions
	Convert ControlConverter

	// Catalog optionally records every flushed archive. A nil Catalog
	// disables cataloging.
	Catalog catalog.Store
}

// Validate returns an error describing whether or not the
// configuration is valid
func (c Config) Validate() error {
	if c.MaxTimesteps <= 0 {
		return fmt.Errorf("maxTimesteps must be > 0, got %d",
			c.MaxTimesteps)
	}
	if c.States.Len() == 0 {
		return fmt.Errorf("no state components declared")
	}
	if c.Actions.Len() == 0 {
		return fmt.Errorf("no action components declared")
	}
	if c.TracesDir == "" {
		return fmt.Errorf("no traces directory given")
	}
	if c.Source == nil {
		return fmt.Errorf("no control source maker given")
	}
	if c.Convert == nil {
		return fmt.Errorf("no control converter given")
	}

	if c.ComputeValidity {
		if c.Aggregate == nil {
			return fmt.Errorf("validity computation requires an " +
				"aggregator")
		}
		if !c.Actions.Contains(schema.Control) {
			return fmt.Errorf("validity computation requires a %q "+
				"action component", schema.Control)
		}
		if c.Actions.Stride(schema.Validity) != 1 {
			return fmt.Errorf("validity computation requires a scalar "+
				"%q action component", schema.Validity)
		}
	}

	return nil
}

// Create creates and returns the Recorder that the Config describes
func (c Config) Create() (*Recorder, error) {
	return New(c)
}
