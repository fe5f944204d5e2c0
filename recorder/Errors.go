package recorder

import "errors"

// Sentinel errors returned, wrapped in a RecorderError, by recorder
// operations
var (
	// ErrInvalidStateTransition denotes a Step or Observe call outside
	// the Recording state. This is a caller protocol violation, not a
	// recoverable condition.
	ErrInvalidStateTransition = errors.New("operation not valid in " +
		"current state")

	// ErrSchemaMismatch denotes recorded states or actions whose keys
	// do not exactly match the declared schemas
	ErrSchemaMismatch = errors.New("values do not match declared schema")
)

// RecorderError records a failed recorder operation, the state the
// recorder was in, and the reason the operation failed
type RecorderError struct {
	Op    string
	State State
	Err   error
}

func (e *RecorderError) Error() string {
	return e.Op + " (" + e.State.String() + "): " + e.Err.Error()
}

func (e *RecorderError) Unwrap() error {
	return e.Err
}

// IsInvalidStateTransition returns whether err was caused by calling
// an operation in a state that does not permit it
func IsInvalidStateTransition(err error) bool {
	return errors.Is(err, ErrInvalidStateTransition)
}

// IsSchemaMismatch returns whether err was caused by recording values
// whose keys do not match the declared schemas
func IsSchemaMismatch(err error) bool {
	return errors.Is(err, ErrSchemaMismatch)
}
