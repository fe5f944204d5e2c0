// Package recorder implements the episode controller that drives
// trajectory recording: a state machine owning the episode buffer, the
// validity pass, and the trace writer, driven tick by tick by an
// external control loop.
package recorder

import (
	"context"
	"fmt"
	"log"

	"gonum.org/v1/gonum/floats"

	"github.com/samuelfneumann/gotrace/catalog"
	"github.com/samuelfneumann/gotrace/episode"
	"github.com/samuelfneumann/gotrace/schema"
	ts "github.com/samuelfneumann/gotrace/timestep"
	"github.com/samuelfneumann/gotrace/trace"
	"github.com/samuelfneumann/gotrace/tracker"
	"github.com/samuelfneumann/gotrace/validity"
)

// State denotes the lifecycle state of a Recorder
type State int

const (
	Idle State = iota
	Recording
	Finalizing
)

func (s State) String() string {
	switch s {
	case Recording:
		return "Recording"
	case Finalizing:
		return "Finalizing"
	default:
		return "Idle"
	}
}

// Recorder records fixed-length episodes of states, actions, rewards,
// and terminal flags, generated by a scripted control policy inside an
// external simulation loop.
//
// The external loop drives a Recorder through a two-phase protocol
// once per simulated tick: Step captures the tick's states and the
// policy's actions, and the following Observe delivers the reward and
// terminal flag that the environment reports one phase later. On a
// terminal observation the Recorder finalizes the episode: it runs the
// validity pass if configured, gates the episode on its mean reward,
// and persists accepted episodes through its trace writer before
// returning to Idle.
//
// A Recorder is single-threaded and owns its episode buffer
// exclusively. It never blocks except during the trace flush after a
// terminal tick.
type Recorder struct {
	config Config

	buffer   *episode.Buffer
	writer   *trace.Writer
	analyzer validity.Analyzer
	source   ControlSource

	state         State
	stepCursor    int
	observeCursor int
	episodes      int

	trackers []tracker.Tracker
}

// New creates and returns a new Recorder described by the argument
// Config. The Recorder starts Idle; call Reset before recording.
func New(config Config) (*Recorder, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	buffer, err := episode.New(config.MaxTimesteps, config.States,
		config.Actions)
	if err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	writer, err := trace.New(config.TracesDir, config.RewardThreshold,
		config.States, config.Actions)
	if err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	r := &Recorder{
		config: config,
		buffer: buffer,
		writer: writer,
		state:  Idle,
	}

	if config.ComputeValidity {
		r.analyzer, err = validity.New(config.Aggregate, config.RMax,
			config.RMin)
		if err != nil {
			return nil, fmt.Errorf("new: %v", err)
		}
	}

	return r, nil
}

// State returns the Recorder's current lifecycle state
func (r *Recorder) State() State {
	return r.state
}

// Episodes returns the number of episodes finalized so far
func (r *Recorder) Episodes() int {
	return r.episodes
}

// StepsObserved returns the number of rewards observed in the current
// episode
func (r *Recorder) StepsObserved() int {
	return r.observeCursor
}

// Register registers a Tracker with the Recorder so that data
// generated while recording can be tracked and saved
func (r *Recorder) Register(t tracker.Tracker) {
	r.trackers = append(r.trackers, t)
}

// Save saves the data cached by all registered Trackers to disk
func (r *Recorder) Save() {
	for _, t := range r.trackers {
		t.Save()
	}
}

// Reset starts a new episode, transitioning the Recorder to Recording
// from any state. The episode buffer is cleared, both cursors are
// zeroed, and a fresh control source is built through the configured
// maker. Calling Reset while Recording abandons the unfinished episode:
// its data is discarded and nothing is persisted.
func (r *Recorder) Reset() error {
	source, err := r.config.Source()
	if err != nil {
		return fmt.Errorf("reset: could not create control source: %v",
			err)
	}

	r.buffer.Clear()
	r.stepCursor = 0
	r.observeCursor = 0
	r.source = source
	r.state = Recording

	r.track(ts.New(ts.First, 0, 0))
	return nil
}

// Step runs one control tick: the control source refreshes its
// information and produces a command, the configured converter turns
// the command into actions, and the tick's states and actions are
// recorded at the current cursor. The actions are returned so the
// caller can apply them to the environment.
//
// Step is valid only while Recording. The cursor is advanced by the
// subsequent Observe call under the default policy, keeping Step and
// Observe symmetric with the external loop's two-phase protocol.
func (r *Recorder) Step(states schema.Values) (schema.Values, error) {
	if r.state != Recording {
		return nil, &RecorderError{Op: "step", State: r.state,
			Err: ErrInvalidStateTransition}
	}

	r.source.UpdateInformation()

	control, err := r.source.RunStep()
	if err != nil {
		return nil, fmt.Errorf("step: control source failed: %v", err)
	}

	// The skill name is accepted and discarded; only the converted
	// actions are recorded
	actions, _, err := r.config.Convert(control)
	if err != nil {
		return nil, fmt.Errorf("step: could not convert control: %v",
			err)
	}

	index := r.observeCursor
	if r.config.Cursor == AdvanceOnStep {
		index = r.stepCursor
	}

	if err := r.recordStep(index, states, actions); err != nil {
		// A schema mismatch is a caller bug that poisons the episode;
		// drop it rather than persist inconsistent data
		r.state = Idle
		return nil, err
	}

	if r.config.Cursor == AdvanceOnStep {
		r.stepCursor = (r.stepCursor + 1) % r.config.MaxTimesteps
	}

	return actions, nil
}

// Observe records the reward and terminal flag for the most recent
// Step and advances the observation cursor. On a terminal observation
// the episode is finalized and the Recorder returns to Idle.
//
// Observe is valid only while Recording. Observing more steps than the
// configured capacity is a caller protocol violation and fails with an
// index-out-of-range error.
func (r *Recorder) Observe(reward float64, terminal bool) error {
	if r.state != Recording {
		return &RecorderError{Op: "observe", State: r.state,
			Err: ErrInvalidStateTransition}
	}

	if err := r.buffer.WriteReward(r.observeCursor, reward); err != nil {
		return fmt.Errorf("observe: %w", err)
	}
	if err := r.buffer.WriteTerminal(r.observeCursor,
		terminal); err != nil {
		return fmt.Errorf("observe: %w", err)
	}
	r.observeCursor++

	stepType := ts.Mid
	if terminal {
		stepType = ts.Last
	}
	r.track(ts.New(stepType, reward, r.observeCursor))

	if terminal {
		return r.finalize()
	}
	return nil
}

// recordStep copies every declared state and action component into the
// episode buffer at index. The argument maps must contain exactly the
// declared keys.
func (r *Recorder) recordStep(index int, states,
	actions schema.Values) error {
	if err := exactKeys(r.config.States, states); err != nil {
		return &RecorderError{Op: fmt.Sprintf("record states: %v", err),
			State: r.state, Err: ErrSchemaMismatch}
	}
	if err := exactKeys(r.config.Actions, actions); err != nil {
		return &RecorderError{Op: fmt.Sprintf("record actions: %v", err),
			State: r.state, Err: ErrSchemaMismatch}
	}

	for _, name := range r.config.States.Names() {
		if err := r.buffer.WriteState(index, name,
			states[name]); err != nil {
			return fmt.Errorf("record step: %w", err)
		}
	}
	for _, name := range r.config.Actions.Names() {
		if err := r.buffer.WriteAction(index, name,
			actions[name]); err != nil {
			return fmt.Errorf("record step: %w", err)
		}
	}

	return nil
}

// finalize runs the post-episode pipeline: the validity pass when
// configured, the persistence gate, and the trace flush. A flush
// failure is logged and recording continues, since the writer retains
// all accepted data for the next flush.
func (r *Recorder) finalize() error {
	r.state = Finalizing
	defer func() { r.state = Idle }()

	r.episodes++

	if r.config.ComputeValidity {
		if err := r.analyzer.Analyze(r.buffer); err != nil {
			return fmt.Errorf("observe: %v", err)
		}
	}

	rewards := r.buffer.Rewards()[:r.observeCursor]
	if !r.writer.ShouldPersist(rewards) {
		log.Printf("trace-%d not saved because reward %.2f < %.2f",
			r.episodes, floats.Sum(rewards),
			r.config.RewardThreshold*float64(len(rewards)))
		return nil
	}

	if err := r.writer.Accept(r.buffer, r.observeCursor); err != nil {
		return fmt.Errorf("observe: %v", err)
	}

	info, err := r.writer.Flush(r.episodes)
	if err != nil {
		// Recoverable: the writer keeps the accumulated episodes, so
		// the next accepted episode retries the write with this data
		// included
		log.Printf("could not flush trace: %v", err)
		return nil
	}
	log.Printf("wrote %v (%d episodes, %d steps)", info.Filename,
		info.Episodes, info.Steps)

	r.catalogFlush(info)
	return nil
}

// catalogFlush records a flushed archive in the configured catalog, if
// any. Catalog failures are logged, never fatal: the archive itself is
// already on disk.
func (r *Recorder) catalogFlush(info trace.FlushInfo) {
	if r.config.Catalog == nil {
		return
	}

	record := catalog.Record{
		Filename:   info.Filename,
		Episodes:   info.Episodes,
		Steps:      info.Steps,
		MeanReward: info.MeanReward,
	}
	if err := r.config.Catalog.Add(context.Background(),
		record); err != nil {
		log.Printf("could not catalog %v: %v", info.Filename, err)
	}
}

// track feeds the argument timestep to every registered Tracker
func (r *Recorder) track(t ts.TimeStep) {
	for _, tr := range r.trackers {
		tr.Track(t)
	}
}

// exactKeys checks that values contains exactly the component names
// the schema declares
func exactKeys(s schema.Schema, values schema.Values) error {
	if len(values) != s.Len() {
		return fmt.Errorf("expected %d components, got %d", s.Len(),
			len(values))
	}
	for _, name := range s.Names() {
		if _, ok := values[name]; !ok {
			return fmt.Errorf("missing component %q", name)
		}
	}
	return nil
}
