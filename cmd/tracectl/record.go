package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r1"

	"github.com/samuelfneumann/gotrace/behavior"
	"github.com/samuelfneumann/gotrace/catalog"
	env "github.com/samuelfneumann/gotrace/environment"
	"github.com/samuelfneumann/gotrace/environment/track"
	"github.com/samuelfneumann/gotrace/recorder"
	"github.com/samuelfneumann/gotrace/tracker"
	"github.com/samuelfneumann/gotrace/utils/progressbar"
	"github.com/samuelfneumann/gotrace/validity"
)

var (
	episodes    int
	timesteps   int
	threshold   float64
	targetSpeed float64
	seed        uint64
	returnsFile string
)

func RecordCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "record",
		Short: "Record scripted cruise episodes on the demo track",
		RunE: func(cmd *cobra.Command, args []string) error {
			return record()
		},
	}

	command.Flags().IntVarP(&episodes, "episodes", "e", 10,
		"Number of episodes to record")
	command.Flags().IntVar(&timesteps, "timesteps", 500,
		"Episode capacity in timesteps")
	command.Flags().Float64Var(&threshold, "threshold", 0.5,
		"Minimum mean episode reward for a trace to be persisted")
	command.Flags().Float64Var(&targetSpeed, "target-speed", 20.0,
		"Cruise target speed (m/s)")
	command.Flags().Uint64Var(&seed, "seed", 192382,
		"Starting-state seed")
	command.Flags().StringVar(&returnsFile, "returns", "",
		"File to save episodic returns to (empty disables)")

	return command
}

func record() error {
	starter := env.NewUniformStarter([]r1.Interval{
		{Min: 0.0, Max: 0.0},
		{Min: 5.0, Max: 15.0},
	}, seed)

	t, err := track.New(starter, env.NewStepLimit(timesteps),
		targetSpeed)
	if err != nil {
		return fmt.Errorf("record: %v", err)
	}

	config := recorder.Config{
		MaxTimesteps:    timesteps,
		States:          t.States(),
		Actions:         t.Actions(),
		RewardThreshold: threshold,
		TracesDir:       tracesDir,
		ComputeValidity: true,
		Aggregate:       validity.ClampedSum,
		RMax:            150.0,
		RMin:            -2000.0,
		Source: func() (recorder.ControlSource, error) {
			return behavior.NewCruise(t, targetSpeed, 2.0)
		},
		Convert: behavior.ControlToActions,
	}

	if catalogPath != "" {
		store := catalog.NewSQLiteStore(catalogPath)
		if err := store.Init(context.Background()); err != nil {
			return fmt.Errorf("record: could not open catalog: %v", err)
		}
		defer store.Close()
		config.Catalog = store
	}

	r, err := config.Create()
	if err != nil {
		return fmt.Errorf("record: %v", err)
	}

	if returnsFile != "" {
		r.Register(tracker.NewReturn(returnsFile))
	}

	bar := progressbar.New(40, episodes)
	bar.Display()

	for e := 0; e < episodes; e++ {
		states, err := t.Reset()
		if err != nil {
			return fmt.Errorf("record: %v", err)
		}
		if err := r.Reset(); err != nil {
			return fmt.Errorf("record: %v", err)
		}

		terminal := false
		for !terminal {
			actions, err := r.Step(states)
			if err != nil {
				return fmt.Errorf("record: %v", err)
			}

			next, reward, term, err := t.Step(actions)
			if err != nil {
				return fmt.Errorf("record: %v", err)
			}
			if err := r.Observe(reward, term); err != nil {
				return fmt.Errorf("record: %v", err)
			}

			states = next
			terminal = term
		}

		bar.Increment()
		bar.Display()
	}
	fmt.Println()

	r.Save()
	fmt.Printf("recorded %d episodes\n", r.Episodes())
	return nil
}
