// Package trace persists accepted episodes to compressed archives of
// named numeric arrays
package trace

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gorgonia.org/tensor"

	"github.com/samuelfneumann/gotrace/episode"
	"github.com/samuelfneumann/gotrace/schema"
)

// Reserved archive entry names. Every trace archive carries these two
// arrays next to the named state and action arrays, so no state or
// action component may use either name.
const (
	RewardEntry   string = "reward"
	TerminalEntry string = "terminal"
)

// FlushInfo summarizes one successfully written trace archive
type FlushInfo struct {
	Filename   string
	Episodes   int
	Steps      int
	MeanReward float64
}

// Writer gates episodes on their mean reward and serializes accepted
// episodes to disk. Accepted episodes accumulate in memory and every
// flush writes the full accumulation, concatenated along the time
// axis, to a fresh archive. The accumulator is never cleared after
// construction: a failed flush therefore loses nothing, and the next
// flush carries all data recorded so far.
type Writer struct {
	dir       string
	threshold float64

	states  schema.Schema
	actions schema.Schema

	recordStates   map[string][]float64
	recordActions  map[string][]float64
	recordReward   []float64
	recordTerminal []bool

	steps int
}

// New creates and returns a new Writer persisting to dir. An episode
// is accepted only when its mean reward meets or exceeds threshold.
// State and action component names must not collide with each other or
// with the reserved reward and terminal entry names, since all arrays
// share one flat namespace inside the archive.
func New(dir string, threshold float64, states,
	actions schema.Schema) (*Writer, error) {
	if dir == "" {
		return nil, fmt.Errorf("new: no trace directory given")
	}

	seen := map[string]bool{RewardEntry: true, TerminalEntry: true}
	for _, name := range append(states.Names(), actions.Names()...) {
		if seen[name] {
			return nil, fmt.Errorf("new: component name %q collides "+
				"within the archive namespace", name)
		}
		seen[name] = true
	}

	w := &Writer{
		dir:           dir,
		threshold:     threshold,
		states:        states,
		actions:       actions,
		recordStates:  make(map[string][]float64, states.Len()),
		recordActions: make(map[string][]float64, actions.Len()),
	}

	for _, name := range states.Names() {
		w.recordStates[name] = nil
	}
	for _, name := range actions.Names() {
		w.recordActions[name] = nil
	}

	return w, nil
}

// Threshold returns the mean-reward acceptance threshold
func (w *Writer) Threshold() float64 {
	return w.threshold
}

// Steps returns the total number of timesteps accumulated across all
// accepted episodes
func (w *Writer) Steps() int {
	return w.steps
}

// ShouldPersist returns whether an episode with the argument rewards
// clears the acceptance gate: the episode is persisted iff its reward
// sum meets or exceeds threshold times the episode length, that is,
// iff its mean reward meets or exceeds the threshold.
func (w *Writer) ShouldPersist(rewards []float64) bool {
	return floats.Sum(rewards) >= w.threshold*float64(len(rewards))
}

// Accept appends the first steps timesteps of the argument buffer's
// state, action, reward, and terminal arrays to the in-memory
// accumulator. The data is copied, so the buffer may be cleared and
// reused immediately.
func (w *Writer) Accept(b *episode.Buffer, steps int) error {
	if steps <= 0 || steps > b.MaxTimesteps() {
		return fmt.Errorf("accept: %d steps outside buffer capacity %d",
			steps, b.MaxTimesteps())
	}

	for _, c := range w.states.Components() {
		data, ok := b.StateData(c.Name)
		if !ok {
			return fmt.Errorf("accept: buffer has no state component "+
				"%q", c.Name)
		}
		w.recordStates[c.Name] = append(w.recordStates[c.Name],
			data[:steps*c.Stride()]...)
	}

	for _, c := range w.actions.Components() {
		data, ok := b.ActionData(c.Name)
		if !ok {
			return fmt.Errorf("accept: buffer has no action component "+
				"%q", c.Name)
		}
		w.recordActions[c.Name] = append(w.recordActions[c.Name],
			data[:steps*c.Stride()]...)
	}

	w.recordReward = append(w.recordReward, b.Rewards()[:steps]...)
	w.recordTerminal = append(w.recordTerminal, b.Terminals()[:steps]...)
	w.steps += steps

	return nil
}

// Flush writes every accumulated episode to a single compressed
// archive named trace-<episode>-<timestamp>.npz in the Writer's
// directory, creating the directory if needed. Each named state and
// action array becomes one entry in the archive, alongside the
// reserved reward and terminal entries, all sharing a leading time
// dimension. On failure the accumulator is untouched, so the data
// remains available for the next flush.
func (w *Writer) Flush(episodes int) (FlushInfo, error) {
	if w.steps == 0 {
		return FlushInfo{}, fmt.Errorf("flush: no accepted episodes")
	}

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return FlushInfo{}, fmt.Errorf("flush: could not create trace "+
			"directory: %v", err)
	}

	filename := fmt.Sprintf("trace-%d-%v.npz", episodes,
		time.Now().Format("20060102-150405"))
	path := filepath.Join(w.dir, filename)

	file, err := os.Create(path)
	if err != nil {
		return FlushInfo{}, fmt.Errorf("flush: could not create %v: %v",
			path, err)
	}
	defer file.Close()

	archive := zip.NewWriter(file)

	for _, c := range w.states.Components() {
		err := writeEntry(archive, c, w.recordStates[c.Name], w.steps)
		if err != nil {
			return FlushInfo{}, fmt.Errorf("flush: %v", err)
		}
	}
	for _, c := range w.actions.Components() {
		err := writeEntry(archive, c, w.recordActions[c.Name], w.steps)
		if err != nil {
			return FlushInfo{}, fmt.Errorf("flush: %v", err)
		}
	}

	terminal := schema.Scalar(TerminalEntry, schema.Int)
	err = writeEntry(archive, terminal, terminalData(w.recordTerminal),
		w.steps)
	if err != nil {
		return FlushInfo{}, fmt.Errorf("flush: %v", err)
	}

	reward := schema.Scalar(RewardEntry, schema.Float)
	err = writeEntry(archive, reward, w.recordReward, w.steps)
	if err != nil {
		return FlushInfo{}, fmt.Errorf("flush: %v", err)
	}

	if err := archive.Close(); err != nil {
		return FlushInfo{}, fmt.Errorf("flush: could not finalize %v: "+
			"%v", path, err)
	}

	return FlushInfo{
		Filename:   path,
		Episodes:   episodes,
		Steps:      w.steps,
		MeanReward: stat.Mean(w.recordReward, nil),
	}, nil
}

// writeEntry adds one named array of steps timesteps to the archive as
// a compressed NumPy entry
func writeEntry(archive *zip.Writer, c schema.Component, data []float64,
	steps int) error {
	entry, err := archive.CreateHeader(&zip.FileHeader{
		Name:   c.Name + ".npy",
		Method: zip.Deflate,
	})
	if err != nil {
		return fmt.Errorf("could not create entry %q: %v", c.Name, err)
	}

	return entryTensor(c, data, steps).WriteNpy(entry)
}

// entryTensor builds the dense array persisted for one component. The
// leading dimension is time; scalar components stay one-dimensional.
func entryTensor(c schema.Component, data []float64,
	steps int) *tensor.Dense {
	shape := []int{steps}
	if c.Stride() > 1 {
		shape = append(shape, c.Shape...)
	}

	if c.Dtype == schema.Int {
		backing := make([]int64, len(data))
		for i, v := range data {
			backing[i] = int64(v)
		}
		return tensor.New(tensor.WithShape(shape...),
			tensor.WithBacking(backing))
	}

	backing := make([]float64, len(data))
	copy(backing, data)
	return tensor.New(tensor.WithShape(shape...),
		tensor.WithBacking(backing))
}

// terminalData converts terminal flags to the float form the entry
// builder expects; the terminal entry itself is persisted as int64
func terminalData(terminals []bool) []float64 {
	data := make([]float64, len(terminals))
	for i, t := range terminals {
		if t {
			data[i] = 1
		}
	}
	return data
}
