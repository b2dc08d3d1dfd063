package meshgen

import "fmt"

// InputError reports a room rejected before triangulation: a malformed ring
// with fewer than 3 usable points, or disallowed holes.
type InputError struct {
	RoomID string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("room %q: %s", e.RoomID, e.Reason)
}

// GeometryError reports triangulation exhaustion on a non-simple or
// degenerate polygon.
type GeometryError struct {
	RoomID string
	Err    error
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("room %q: %v", e.RoomID, e.Err)
}

func (e *GeometryError) Unwrap() error {
	return e.Err
}
