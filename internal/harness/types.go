package harness

import (
	"fmt"

	"github.com/roach88/gesturesnap/internal/host"
	"github.com/roach88/gesturesnap/internal/library"
)

// TraceEvent is the outcome of one gesture operation step.
type TraceEvent struct {
	Step     int    `json:"step"`
	Op       string `json:"op"`
	Gesture  string `json:"gesture,omitempty"`
	Side     string `json:"side,omitempty"`
	OK       bool   `json:"ok"`
	Message  string `json:"message"`
	Bones    int    `json:"bones"`
	Mirrored bool   `json:"mirrored"`
	Frame    int    `json:"frame,omitempty"`
}

// Result is the outcome of running a scenario.
type Result struct {
	Pass   bool
	Errors []string
	Trace  []TraceEvent

	// Scene and Gestures are the final state, kept for callers that want to
	// inspect more than the assertions cover.
	Scene    *host.Scene
	Gestures *library.Gestures
}

// NewResult creates a passing Result with empty trace and errors.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
		Trace:  []TraceEvent{},
	}
}

// AddError records a failure and marks the result as failed.
func (r *Result) AddError(format string, args ...any) {
	r.Pass = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}
