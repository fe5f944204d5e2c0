package schema

import "testing"

func TestNewRejectsInvalidComponents(t *testing.T) {
	tests := []struct {
		name       string
		components []Component
	}{
		{
			"empty name",
			[]Component{{Name: "", Shape: []int{1}}},
		},
		{
			"duplicate name",
			[]Component{Scalar("speed", Float), Scalar("speed", Float)},
		},
		{
			"empty shape",
			[]Component{{Name: "camera", Shape: nil}},
		},
		{
			"zero dimension",
			[]Component{{Name: "camera", Shape: []int{3, 0}}},
		},
		{
			"negative dimension",
			[]Component{{Name: "camera", Shape: []int{-1}}},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := New(test.components...); err == nil {
				t.Errorf("expected error for %v", test.name)
			}
		})
	}
}

func TestSchemaOrderAndLookup(t *testing.T) {
	s, err := New(
		Scalar("control", Int),
		Component{Name: "radar", Shape: []int{4, 2}, Dtype: Float},
		Scalar("validity", Float),
	)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	names := s.Names()
	expected := []string{"control", "radar", "validity"}
	for i, name := range expected {
		if names[i] != name {
			t.Errorf("expected name %v at %d, got %v", name, i, names[i])
		}
	}

	if stride := s.Stride("radar"); stride != 8 {
		t.Errorf("expected radar stride 8, got %v", stride)
	}
	if stride := s.Stride("control"); stride != 1 {
		t.Errorf("expected control stride 1, got %v", stride)
	}
	if stride := s.Stride("missing"); stride != 0 {
		t.Errorf("expected missing stride 0, got %v", stride)
	}
	if !s.Contains("validity") {
		t.Error("expected schema to contain validity")
	}
	if s.Contains("brake") {
		t.Error("expected schema not to contain brake")
	}
}
