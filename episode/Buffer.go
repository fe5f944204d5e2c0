// Package episode implements fixed-capacity storage for one
// in-progress trajectory
package episode

import (
	"fmt"

	"github.com/samuelfneumann/gotrace/schema"
)

// Buffer stores the states, actions, rewards, and terminal flags of a
// single episode of at most MaxTimesteps() timesteps. Each named state
// and action component is stored as a flat []float64 of length
// T x stride, where index i of every per-timestep array refers to the
// same timestep. Capacity is fixed at allocation time; a Buffer never
// resizes, keeping memory use predictable during a real-time control
// loop.
type Buffer struct {
	maxTimesteps int

	states  schema.Schema
	actions schema.Schema

	stateData  map[string][]float64
	actionData map[string][]float64

	rewards   []float64
	terminals []bool
}

// New creates and returns a new Buffer holding maxTimesteps timesteps
// of the argument state and action schemas. All arrays are
// zero-initialized.
func New(maxTimesteps int, states, actions schema.Schema) (*Buffer,
	error) {
	if maxTimesteps <= 0 {
		return nil, fmt.Errorf("new: maxTimesteps must be > 0, got %d",
			maxTimesteps)
	}
	if states.Len() == 0 {
		return nil, fmt.Errorf("new: state schema has no components")
	}
	if actions.Len() == 0 {
		return nil, fmt.Errorf("new: action schema has no components")
	}

	b := &Buffer{
		maxTimesteps: maxTimesteps,
		states:       states,
		actions:      actions,
		stateData:    make(map[string][]float64, states.Len()),
		actionData:   make(map[string][]float64, actions.Len()),
		rewards:      make([]float64, maxTimesteps),
		terminals:    make([]bool, maxTimesteps),
	}

	for _, c := range states.Components() {
		b.stateData[c.Name] = make([]float64, maxTimesteps*c.Stride())
	}
	for _, c := range actions.Components() {
		b.actionData[c.Name] = make([]float64, maxTimesteps*c.Stride())
	}

	return b, nil
}

// MaxTimesteps returns the fixed capacity of the Buffer
func (b *Buffer) MaxTimesteps() int {
	return b.maxTimesteps
}

// States returns the state schema the Buffer was allocated with
func (b *Buffer) States() schema.Schema {
	return b.states
}

// Actions returns the action schema the Buffer was allocated with
func (b *Buffer) Actions() schema.Schema {
	return b.actions
}

// WriteState stores one timestep of the named state component at index
// i
func (b *Buffer) WriteState(i int, name string, value []float64) error {
	return b.write("write state", b.states, b.stateData, i, name, value)
}

// WriteAction stores one timestep of the named action component at
// index i
func (b *Buffer) WriteAction(i int, name string, value []float64) error {
	return b.write("write action", b.actions, b.actionData, i, name,
		value)
}

// WriteReward stores the reward observed at index i
func (b *Buffer) WriteReward(i int, reward float64) error {
	if i >= b.maxTimesteps || i < 0 {
		return &BufferError{Op: "write reward", Err: ErrIndexOutOfRange}
	}
	b.rewards[i] = reward
	return nil
}

// WriteTerminal stores the terminal flag observed at index i
func (b *Buffer) WriteTerminal(i int, terminal bool) error {
	if i >= b.maxTimesteps || i < 0 {
		return &BufferError{Op: "write terminal",
			Err: ErrIndexOutOfRange}
	}
	b.terminals[i] = terminal
	return nil
}

// StateData returns the flat backing array of the named state
// component and whether the component exists. The returned slice
// aliases the Buffer's storage.
func (b *Buffer) StateData(name string) ([]float64, bool) {
	data, ok := b.stateData[name]
	return data, ok
}

// ActionData returns the flat backing array of the named action
// component and whether the component exists. The returned slice
// aliases the Buffer's storage, so post-episode passes may rewrite it
// in place.
func (b *Buffer) ActionData(name string) ([]float64, bool) {
	data, ok := b.actionData[name]
	return data, ok
}

// Rewards returns the Buffer's reward array. The returned slice
// aliases the Buffer's storage.
func (b *Buffer) Rewards() []float64 {
	return b.rewards
}

// Terminals returns the Buffer's terminal flag array. The returned
// slice aliases the Buffer's storage.
func (b *Buffer) Terminals() []bool {
	return b.terminals
}

// Clear zeroes every array in place so the Buffer can be reused for
// the next episode without reallocating
func (b *Buffer) Clear() {
	for _, data := range b.stateData {
		zero(data)
	}
	for _, data := range b.actionData {
		zero(data)
	}
	zero(b.rewards)
	for i := range b.terminals {
		b.terminals[i] = false
	}
}

func (b *Buffer) write(op string, s schema.Schema,
	data map[string][]float64, i int, name string,
	value []float64) error {
	if i >= b.maxTimesteps || i < 0 {
		return &BufferError{Op: op, Err: ErrIndexOutOfRange}
	}

	c, ok := s.Component(name)
	if !ok {
		return &BufferError{
			Op:  fmt.Sprintf("%v %q", op, name),
			Err: ErrUnknownComponent,
		}
	}

	stride := c.Stride()
	if len(value) != stride {
		return &BufferError{
			Op:  fmt.Sprintf("%v %q", op, name),
			Err: ErrComponentSize,
		}
	}

	copy(data[name][i*stride:(i+1)*stride], value)
	return nil
}

func zero(data []float64) {
	for i := range data {
		data[i] = 0
	}
}
