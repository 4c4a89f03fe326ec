package gesture

import "errors"

var (
	// ErrNoArmature means no object is active.
	ErrNoArmature = errors.New("no active armature")

	// ErrNotArmature means the active object is not a skeleton.
	ErrNotArmature = errors.New("active object is not an armature")

	// ErrGestureNotFound means the named gesture is not in the library.
	ErrGestureNotFound = errors.New("gesture not found")

	// ErrEmptyName means a record was attempted without a gesture name.
	ErrEmptyName = errors.New("gesture name is required")

	// ErrInvalidSide means the requested side is neither LEFT nor RIGHT.
	ErrInvalidSide = errors.New("invalid hand side")

	// ErrInvalidRecord means a stored gesture carries an unusable hand side.
	ErrInvalidRecord = errors.New("stored gesture has an invalid hand side")

	// ErrStore means the library could not be saved.
	ErrStore = errors.New("gesture library save failed")

	// ErrHost means a host call (mode switch, keyframe insertion) failed.
	ErrHost = errors.New("host call failed")
)
