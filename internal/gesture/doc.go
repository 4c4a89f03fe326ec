// Package gesture implements the gesture operations: record, apply and
// delete.
//
// A Service owns the gesture library and talks to the host through
// host.Context. Every operation runs to completion and reports a Result;
// failures never escape as errors or panics. Result.Err carries one of the
// sentinel errors below for callers that branch on the failure kind.
//
// The operations form a closed set behind the Operation interface so that any
// front end (command line, scenario harness, tests) can dispatch them the same
// way:
//
//	svc := gesture.New(lib, scene, logger)
//	res := svc.Do(gesture.ApplyOp{Gesture: "Peace", Side: bones.Left, InsertKeyframe: true})
//	if !res.OK {
//	    fmt.Println(res.Message)
//	}
package gesture
