// Package harness runs gesture scenarios: YAML files that build a scene,
// drive record/apply/delete operations and assert on the resulting library,
// bone poses and keyframes.
//
// # Scenario Format
//
//	name: peace_mirror
//	description: "Record a right-hand pose and apply it mirrored"
//	armature:
//	  hands: [LEFT, RIGHT]
//	frame: 24
//	steps:
//	  - seed_hand: { side: RIGHT, seed: 1 }
//	  - record: { gesture: Peace, side: RIGHT }
//	  - apply: { gesture: Peace, side: LEFT }
//	    expect: { ok: true }
//	  - pose: { bone: 親指０.L, location: [0, 0, 0] }
//	  - frame: 30
//	  - activate: ""
//	  - delete: { gesture: Peace }
//	assertions:
//	  - type: gesture_exists
//	    gesture: Peace
//	    side: RIGHT
//	    bones: 15
//	  - type: keyframe_count
//	    count: 45
//	  - type: bone_pose
//	    bone: 親指０.L
//	    location: [0, 0, 0]
//
// # Assertion Types
//
//   - gesture_exists: gesture is stored, optionally with side and bone count
//   - gesture_absent: gesture is not stored
//   - library_order: stored gesture names, in order
//   - bone_pose: a bone's location, rotation and/or scale
//   - keyframe_count: number of keyframes, optionally for one bone or frame
//   - selected_count: number of selected bones on the armature
//
// Each scenario runs against a fresh in-memory scene and a library file in a
// temporary directory, so runs are isolated and deterministic. The trace of
// operation results can be compared against golden files.
package harness
