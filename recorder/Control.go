package recorder

import "github.com/samuelfneumann/gotrace/schema"

// Control is an opaque control command produced by a ControlSource.
// The recorder never inspects it; a ControlConverter turns it into the
// declared action schema.
type Control interface{}

// ControlSource is a scripted control policy generating one control
// command per tick. UpdateInformation refreshes the source's internal
// route and obstacle state; RunStep produces the next command.
type ControlSource interface {
	UpdateInformation()
	RunStep() (Control, error)
}

// SourceMaker builds a fresh ControlSource. The recorder calls it on
// every Reset, mirroring control policies that rebuild their planner
// and route at the start of each episode.
type SourceMaker func() (ControlSource, error)

// ControlConverter converts an opaque control command into the action
// schema, returning the actions and the name of the skill the command
// represents, or the empty string when the policy has no skill
// vocabulary. The recorder records the actions and discards the skill
// name.
type ControlConverter func(control Control) (schema.Values, string, error)
