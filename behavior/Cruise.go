// Package behavior implements scripted driving policies that generate
// the control commands a trajectory recorder records
package behavior

import (
	"fmt"

	"github.com/samuelfneumann/gotrace/environment/track"
	"github.com/samuelfneumann/gotrace/recorder"
	"github.com/samuelfneumann/gotrace/schema"
)

// Skill is a discrete control command a scripted policy can emit
type Skill int

const (
	Brake    Skill = Skill(track.Brake)
	Coast    Skill = Skill(track.Coast)
	Throttle Skill = Skill(track.Throttle)
)

func (s Skill) String() string {
	switch s {
	case Brake:
		return "Brake"
	case Coast:
		return "Coast"
	case Throttle:
		return "Throttle"
	default:
		return fmt.Sprintf("Skill(%d)", int(s))
	}
}

// Cruise is a scripted cruise-control planner over a track
// environment. It reads the vehicle's telemetry on UpdateInformation
// and emits the skill that steers the speed toward its target: it
// throttles below the target band, brakes above it, and coasts inside
// it. Because it coasts across the whole band, Cruise repeats the same
// skill for many consecutive ticks, producing the multi-step control
// runs the validity pass collapses.
type Cruise struct {
	track  *track.Track
	target float64
	band   float64

	// speed is refreshed from the vehicle once per tick
	speed float64
}

// NewCruise creates and returns a new Cruise planner holding the
// argument target speed to within band
func NewCruise(t *track.Track, target, band float64) (*Cruise, error) {
	if band < 0 {
		return nil, fmt.Errorf("new cruise: band must be >= 0, got %v",
			band)
	}
	return &Cruise{track: t, target: target, band: band}, nil
}

// UpdateInformation refreshes the planner's view of the vehicle's
// telemetry
func (c *Cruise) UpdateInformation() {
	c.speed = c.track.Speed()
}

// RunStep executes one step of navigation and returns the planned
// control command
func (c *Cruise) RunStep() (recorder.Control, error) {
	switch {
	case c.speed < c.target-c.band:
		return Throttle, nil
	case c.speed > c.target+c.band:
		return Brake, nil
	default:
		return Coast, nil
	}
}

// ControlToActions converts a Cruise control command into the track
// action schema, returning the actions and the skill's name. The
// validity component is seeded with 1; the post-episode pass overwrites
// it when validity computation is on.
func ControlToActions(control recorder.Control) (schema.Values, string,
	error) {
	skill, ok := control.(Skill)
	if !ok {
		return nil, "", fmt.Errorf("control to actions: expected a "+
			"Skill, got %T", control)
	}

	return schema.Values{
		schema.Control:  []float64{float64(skill)},
		schema.Validity: []float64{1},
	}, skill.String(), nil
}
