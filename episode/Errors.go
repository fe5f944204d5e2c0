package episode

import "errors"

// Sentinel errors returned, wrapped in a BufferError, by buffer
// operations
var (
	ErrIndexOutOfRange  = errors.New("index exceeds buffer capacity")
	ErrUnknownComponent = errors.New("component not declared in schema")
	ErrComponentSize    = errors.New("value length does not match " +
		"component stride")
)

// BufferError records a failed buffer operation and the reason it
// failed
type BufferError struct {
	Op  string
	Err error
}

func (e *BufferError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *BufferError) Unwrap() error {
	return e.Err
}

// IsIndexOutOfRange returns whether err was caused by writing past the
// buffer's fixed capacity
func IsIndexOutOfRange(err error) bool {
	return errors.Is(err, ErrIndexOutOfRange)
}

// IsUnknownComponent returns whether err was caused by naming a
// component the buffer's schema does not declare
func IsUnknownComponent(err error) bool {
	return errors.Is(err, ErrUnknownComponent)
}
