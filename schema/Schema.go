// Package schema describes the named, fixed-shape components that make
// up the states and actions of a recorded trajectory
package schema

import "fmt"

// Reserved action component names. Control holds the scripted policy's
// control command for each timestep, and Validity holds the derived
// run-length count computed after an episode finishes.
const (
	Control  string = "control"
	Validity string = "validity"
)

// Dtype denotes the numeric type that a component is persisted as.
// In-memory values are always held as float64; the Dtype only selects
// the on-disk representation of the component.
type Dtype int

const (
	Float Dtype = iota
	Int
)

func (d Dtype) String() string {
	switch d {
	case Int:
		return "Int"
	default:
		return "Float"
	}
}

// Component is a single named entry in a Schema. The Shape is the
// shape of the component at one timestep, so a buffer of T timesteps
// of the component holds T x Stride() values.
type Component struct {
	Name  string
	Shape []int
	Dtype Dtype
}

// Scalar returns a Component holding a single value per timestep
func Scalar(name string, dtype Dtype) Component {
	return Component{Name: name, Shape: []int{1}, Dtype: dtype}
}

// Stride returns the number of values one timestep of the component
// occupies when flattened in row-major order
func (c Component) Stride() int {
	stride := 1
	for _, dim := range c.Shape {
		stride *= dim
	}
	return stride
}

// Schema is an ordered collection of named components. A Schema is
// resolved exactly once, at configuration time; buffers allocated from
// it never re-derive component shapes during recording.
type Schema struct {
	components []Component
	index      map[string]int
}

// New creates and returns a new Schema from the argument components.
// Component names must be unique and non-empty, and every component
// must have a non-empty shape with strictly positive dimensions.
func New(components ...Component) (Schema, error) {
	index := make(map[string]int, len(components))

	for i, c := range components {
		if c.Name == "" {
			return Schema{}, fmt.Errorf("new: component %d has no name", i)
		}
		if _, exists := index[c.Name]; exists {
			return Schema{}, fmt.Errorf("new: duplicate component %q",
				c.Name)
		}
		if len(c.Shape) == 0 {
			return Schema{}, fmt.Errorf("new: component %q has empty "+
				"shape", c.Name)
		}
		for _, dim := range c.Shape {
			if dim <= 0 {
				return Schema{}, fmt.Errorf("new: component %q has "+
					"non-positive dimension %d", c.Name, dim)
			}
		}
		index[c.Name] = i
	}

	return Schema{components: components, index: index}, nil
}

// Len returns the number of components in the Schema
func (s Schema) Len() int {
	return len(s.components)
}

// Names returns the component names in declaration order
func (s Schema) Names() []string {
	names := make([]string, len(s.components))
	for i, c := range s.components {
		names[i] = c.Name
	}
	return names
}

// Components returns the components in declaration order
func (s Schema) Components() []Component {
	return s.components
}

// Component returns the named component and whether it exists
func (s Schema) Component(name string) (Component, bool) {
	i, ok := s.index[name]
	if !ok {
		return Component{}, false
	}
	return s.components[i], true
}

// Contains returns whether the Schema declares the named component
func (s Schema) Contains(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Stride returns the per-timestep stride of the named component, or 0
// if the component does not exist
func (s Schema) Stride(name string) int {
	c, ok := s.Component(name)
	if !ok {
		return 0
	}
	return c.Stride()
}

// Values maps component names to one timestep's flattened (row-major)
// values. Scalar components hold a slice of length 1.
type Values map[string][]float64
