// Package host defines the slice of the animation host's object model that
// gesture operations call into, and Scene, an in-memory implementation of it.
//
// The real host exposes an active object, a current timeline frame, pose-mode
// bones with readable/writable transforms and a selection flag, and a
// keyframe insertion call. Scene models exactly that surface so the command
// line and the tests can drive gesture operations without the host. The
// store package persists a Scene to SQLite.
package host
