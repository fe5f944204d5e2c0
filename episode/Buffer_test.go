package episode

import (
	"testing"

	"github.com/samuelfneumann/gotrace/schema"
)

func testSchemas(t *testing.T) (schema.Schema, schema.Schema) {
	t.Helper()

	states, err := schema.New(
		schema.Scalar("position", schema.Float),
		schema.Component{Name: "radar", Shape: []int{2, 2},
			Dtype: schema.Float},
	)
	if err != nil {
		t.Fatalf("state schema: %v", err)
	}

	actions, err := schema.New(
		schema.Scalar(schema.Control, schema.Int),
		schema.Scalar(schema.Validity, schema.Float),
	)
	if err != nil {
		t.Fatalf("action schema: %v", err)
	}

	return states, actions
}

func TestNewRejectsBadCapacity(t *testing.T) {
	states, actions := testSchemas(t)

	for _, capacity := range []int{0, -1} {
		if _, err := New(capacity, states, actions); err == nil {
			t.Errorf("expected error for capacity %d", capacity)
		}
	}

	if _, err := New(10, schema.Schema{}, actions); err == nil {
		t.Error("expected error for empty state schema")
	}
	if _, err := New(10, states, schema.Schema{}); err == nil {
		t.Error("expected error for empty action schema")
	}
}

func TestWriteAndReadBack(t *testing.T) {
	states, actions := testSchemas(t)

	b, err := New(5, states, actions)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if err := b.WriteState(2, "radar",
		[]float64{1, 2, 3, 4}); err != nil {
		t.Fatalf("write state: %v", err)
	}
	if err := b.WriteAction(3, schema.Control,
		[]float64{7}); err != nil {
		t.Fatalf("write action: %v", err)
	}
	if err := b.WriteReward(3, -1.5); err != nil {
		t.Fatalf("write reward: %v", err)
	}
	if err := b.WriteTerminal(4, true); err != nil {
		t.Fatalf("write terminal: %v", err)
	}

	radar, ok := b.StateData("radar")
	if !ok {
		t.Fatal("radar component missing")
	}
	expected := []float64{1, 2, 3, 4}
	for i, v := range expected {
		if radar[2*4+i] != v {
			t.Errorf("expected radar[%d] = %v, got %v", 2*4+i, v,
				radar[2*4+i])
		}
	}

	control, _ := b.ActionData(schema.Control)
	if control[3] != 7 {
		t.Errorf("expected control[3] = 7, got %v", control[3])
	}
	if b.Rewards()[3] != -1.5 {
		t.Errorf("expected rewards[3] = -1.5, got %v", b.Rewards()[3])
	}
	if !b.Terminals()[4] {
		t.Error("expected terminals[4] to be true")
	}
}

func TestWriteErrors(t *testing.T) {
	states, actions := testSchemas(t)

	b, err := New(3, states, actions)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	err = b.WriteState(3, "position", []float64{0})
	if !IsIndexOutOfRange(err) {
		t.Errorf("expected index out of range, got %v", err)
	}

	err = b.WriteReward(3, 0)
	if !IsIndexOutOfRange(err) {
		t.Errorf("expected index out of range, got %v", err)
	}

	err = b.WriteState(0, "throttle", []float64{0})
	if !IsUnknownComponent(err) {
		t.Errorf("expected unknown component, got %v", err)
	}

	err = b.WriteState(0, "radar", []float64{1, 2})
	if err == nil {
		t.Error("expected component size error")
	}
}

func TestClear(t *testing.T) {
	states, actions := testSchemas(t)

	b, err := New(2, states, actions)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	b.WriteState(0, "position", []float64{9})
	b.WriteReward(0, 4)
	b.WriteTerminal(1, true)
	b.Clear()

	position, _ := b.StateData("position")
	if position[0] != 0 {
		t.Errorf("expected cleared position, got %v", position[0])
	}
	if b.Rewards()[0] != 0 {
		t.Errorf("expected cleared reward, got %v", b.Rewards()[0])
	}
	if b.Terminals()[1] {
		t.Error("expected cleared terminal flag")
	}
}
