// Package track implements a kinematic single-lane driving
// environment. It stands in for a full driving simulator when
// exercising or testing a trajectory recorder: a vehicle accelerates,
// coasts, or brakes along a straight lane and is rewarded for holding
// a target speed until it reaches the end of the lane.
package track

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r1"

	env "github.com/samuelfneumann/gotrace/environment"
	"github.com/samuelfneumann/gotrace/schema"
	"github.com/samuelfneumann/gotrace/utils/floatutils"
)

const (
	MinPosition float64 = 0.0
	MaxPosition float64 = 1000.0 // Lane length (m)
	MaxSpeed    float64 = 40.0   // (m/s)

	Timestep      float64 = 0.1 // Simulated seconds per tick
	ThrottleAccel float64 = 2.5 // (m/s^2)
	BrakeAccel    float64 = -4.5

	// Skill identifiers, recorded as the control action
	Brake    int = 0
	Coast    int = 1
	Throttle int = 2
)

// Track implements a single-lane driving environment. The environment
// state is continuous and consists of the vehicle's position along the
// lane and its speed, both clipped to the bounds defined in this
// package. Each tick the environment accepts a control skill, applies
// the matching acceleration, and rewards the agent for how closely its
// speed tracks the target speed. Episodes end when the vehicle reaches
// the end of the lane or when the Ender fires.
type Track struct {
	starter env.Starter
	ender   env.Ender

	states  schema.Schema
	actions schema.Schema

	positionBounds r1.Interval
	speedBounds    r1.Interval
	targetSpeed    float64

	position float64
	speed    float64
	steps    int
}

// New creates and returns a new Track. The starter samples the
// starting [position, speed] vector, the ender bounds the episode
// length, and targetSpeed is the speed the reward tracks.
func New(starter env.Starter, ender env.Ender,
	targetSpeed float64) (*Track, error) {
	if targetSpeed <= 0 || targetSpeed > MaxSpeed {
		return nil, fmt.Errorf("new: target speed must be in (0, %v], "+
			"got %v", MaxSpeed, targetSpeed)
	}

	states, err := schema.New(
		schema.Scalar("position", schema.Float),
		schema.Scalar("speed", schema.Float),
	)
	if err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	actions, err := schema.New(
		schema.Scalar(schema.Control, schema.Int),
		schema.Scalar(schema.Validity, schema.Float),
	)
	if err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	return &Track{
		starter:        starter,
		ender:          ender,
		states:         states,
		actions:        actions,
		positionBounds: r1.Interval{Min: MinPosition, Max: MaxPosition},
		speedBounds:    r1.Interval{Min: 0, Max: MaxSpeed},
		targetSpeed:    targetSpeed,
	}, nil
}

// States returns the state schema of the environment
func (t *Track) States() schema.Schema {
	return t.states
}

// Actions returns the action schema of the environment
func (t *Track) Actions() schema.Schema {
	return t.actions
}

// TargetSpeed returns the speed the reward tracks
func (t *Track) TargetSpeed() float64 {
	return t.targetSpeed
}

// Speed returns the vehicle's current speed. Scripted planners read
// this between ticks the way a driving policy reads its vehicle's
// telemetry.
func (t *Track) Speed() float64 {
	return t.speed
}

// Position returns the vehicle's current position along the lane
func (t *Track) Position() float64 {
	return t.position
}

// Reset starts a new episode with a starting state drawn from the
// environment Starter and returns the first state
func (t *Track) Reset() (schema.Values, error) {
	start := t.starter.Start()
	if start.Len() != 2 {
		return nil, fmt.Errorf("reset: expected starting vector of "+
			"[position, speed], got %d components", start.Len())
	}

	t.position = floatutils.ClipInterval(start.AtVec(0),
		t.positionBounds)
	t.speed = floatutils.ClipInterval(start.AtVec(1), t.speedBounds)
	t.steps = 0

	return t.state(), nil
}

// Step applies one tick's control skill, advances the vehicle, and
// returns the next state, the reward for the transition, and whether
// the episode ended
func (t *Track) Step(actions schema.Values) (schema.Values, float64,
	bool, error) {
	control, ok := actions[schema.Control]
	if !ok || len(control) != 1 {
		return nil, 0, false, fmt.Errorf("step: no scalar %q action "+
			"given", schema.Control)
	}

	accel, err := acceleration(int(control[0]))
	if err != nil {
		return nil, 0, false, fmt.Errorf("step: %v", err)
	}

	t.speed = floatutils.ClipInterval(t.speed+accel*Timestep,
		t.speedBounds)
	t.position = floatutils.ClipInterval(t.position+t.speed*Timestep,
		t.positionBounds)
	t.steps++

	// Reward peaks at 1 when holding the target speed exactly and
	// falls off linearly with the speed error
	reward := 1.0 - (t.speed-t.targetSpeed)/t.targetSpeed
	if t.speed < t.targetSpeed {
		reward = 1.0 - (t.targetSpeed-t.speed)/t.targetSpeed
	}

	terminal := t.position >= t.positionBounds.Max ||
		t.ender.End(t.steps)

	return t.state(), reward, terminal, nil
}

func (t *Track) state() schema.Values {
	return schema.Values{
		"position": []float64{t.position},
		"speed":    []float64{t.speed},
	}
}

// acceleration maps a control skill to the acceleration it applies
func acceleration(skill int) (float64, error) {
	switch skill {
	case Brake:
		return BrakeAccel, nil
	case Coast:
		return 0, nil
	case Throttle:
		return ThrottleAccel, nil
	default:
		return 0, fmt.Errorf("unknown control skill %d", skill)
	}
}
