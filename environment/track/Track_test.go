package track

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r1"

	env "github.com/samuelfneumann/gotrace/environment"
	"github.com/samuelfneumann/gotrace/schema"
)

func newTrack(t *testing.T, stepLimit int) *Track {
	t.Helper()

	starter := env.NewUniformStarter([]r1.Interval{
		{Min: 0.0, Max: 0.0},
		{Min: 10.0, Max: 10.0},
	}, 42)

	track, err := New(starter, env.NewStepLimit(stepLimit), 20.0)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	return track
}

func throttle() schema.Values {
	return schema.Values{
		schema.Control:  []float64{float64(Throttle)},
		schema.Validity: []float64{1},
	}
}

func TestNewRejectsBadTargetSpeed(t *testing.T) {
	starter := env.NewUniformStarter([]r1.Interval{
		{Min: 0, Max: 0}, {Min: 0, Max: 0},
	}, 1)

	for _, target := range []float64{0, -5, MaxSpeed + 1} {
		if _, err := New(starter, env.NewStepLimit(10),
			target); err == nil {
			t.Errorf("expected error for target speed %v", target)
		}
	}
}

func TestStateStaysInBounds(t *testing.T) {
	track := newTrack(t, 10_000)

	if _, err := track.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}

	for i := 0; i < 5_000; i++ {
		state, _, terminal, err := track.Step(throttle())
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}

		speed := state["speed"][0]
		if speed < 0 || speed > MaxSpeed {
			t.Fatalf("speed %v out of bounds at step %d", speed, i)
		}
		position := state["position"][0]
		if position < MinPosition || position > MaxPosition {
			t.Fatalf("position %v out of bounds at step %d", position,
				i)
		}

		if terminal {
			return
		}
	}
	t.Fatal("expected full throttle to reach the end of the lane")
}

func TestStepLimitEndsEpisode(t *testing.T) {
	track := newTrack(t, 3)

	if _, err := track.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}

	coast := schema.Values{
		schema.Control:  []float64{float64(Coast)},
		schema.Validity: []float64{1},
	}
	for i := 0; i < 2; i++ {
		_, _, terminal, err := track.Step(coast)
		if err != nil {
			t.Fatalf("step: %v", err)
		}
		if terminal {
			t.Fatalf("expected no terminal at step %d", i+1)
		}
	}

	_, _, terminal, err := track.Step(coast)
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if !terminal {
		t.Error("expected terminal at the step limit")
	}
}

func TestRewardPeaksAtTargetSpeed(t *testing.T) {
	track := newTrack(t, 100)

	if _, err := track.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}

	var atTarget, belowTarget float64
	for {
		_, reward, terminal, err := track.Step(throttle())
		if err != nil {
			t.Fatalf("step: %v", err)
		}

		if track.Speed() >= track.TargetSpeed() {
			atTarget = reward
			break
		}
		belowTarget = reward
		if terminal {
			t.Fatal("episode ended before reaching target speed")
		}
	}

	if atTarget <= belowTarget {
		t.Errorf("expected reward near target speed (%v) to exceed "+
			"reward below it (%v)", atTarget, belowTarget)
	}
}

func TestStepRejectsUnknownSkill(t *testing.T) {
	track := newTrack(t, 10)

	if _, err := track.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}

	_, _, _, err := track.Step(schema.Values{
		schema.Control:  []float64{99},
		schema.Validity: []float64{1},
	})
	if err == nil {
		t.Error("expected error for unknown control skill")
	}

	_, _, _, err = track.Step(schema.Values{})
	if err == nil {
		t.Error("expected error for missing control action")
	}
}
