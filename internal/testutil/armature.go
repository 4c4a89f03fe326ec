// Package testutil provides scene fixtures shared by package tests and the
// scenario harness.
package testutil

import (
	"fmt"

	"github.com/roach88/gesturesnap/internal/bones"
	"github.com/roach88/gesturesnap/internal/host"
	"github.com/roach88/gesturesnap/internal/pose"
)

// ArmatureName is the name of the armature created by HandScene.
const ArmatureName = "Armature"

// BodyBones are non-hand bones added ahead of the finger bones so fixtures
// look like a real MMD skeleton.
var BodyBones = []string{"センター", "上半身", "首", "頭", "腕.L", "手首.L", "腕.R", "手首.R"}

// HandScene returns a scene whose active object is an armature in object
// mode carrying BodyBones followed by the registry bones of each given side.
func HandScene(sides ...bones.Side) *host.Scene {
	s := host.NewScene()
	obj, err := s.AddObject(ArmatureName, host.ObjectArmature)
	if err != nil {
		panic(err)
	}
	names := append([]string{}, BodyBones...)
	for _, side := range sides {
		names = append(names, bones.For(side)...)
	}
	for _, name := range names {
		if _, err := obj.AddBone(name); err != nil {
			panic(err)
		}
	}
	if err := s.SetActive(ArmatureName); err != nil {
		panic(err)
	}
	return s
}

// Armature returns the fixture armature of s.
func Armature(s *host.Scene) *host.SceneObject {
	obj, ok := s.Object(ArmatureName)
	if !ok {
		panic(fmt.Sprintf("scene has no %q object", ArmatureName))
	}
	return obj
}

// SeedSnapshot returns a deterministic, distinct non-rest snapshot for the
// i-th bone under seed.
func SeedSnapshot(seed float64, i int) pose.Snapshot {
	f := float64(i + 1)
	return pose.Snapshot{
		Location: pose.Vec3{0.01 * f * seed, -0.02 * f, 0.03 * seed},
		Rotation: pose.Quat{0.9, 0.1 * seed, -0.05 * f, 0.2},
		Scale:    pose.Vec3{1, 1 + 0.01*f, 1},
	}
}

// PoseHand writes SeedSnapshot values onto the registry bones of side that
// exist on obj and returns what was written, keyed by bone name.
func PoseHand(obj *host.SceneObject, side bones.Side, seed float64) pose.Bones {
	out := pose.Bones{}
	for i, name := range bones.For(side) {
		b, ok := obj.Bone(name)
		if !ok {
			continue
		}
		snap := SeedSnapshot(seed, i)
		pose.Apply(b, snap)
		out[name] = snap
	}
	return out
}

// CaptureHand reads the registry bones of side from obj.
func CaptureHand(obj *host.SceneObject, side bones.Side) pose.Bones {
	out := pose.Bones{}
	for _, name := range bones.For(side) {
		if b, ok := obj.Bone(name); ok {
			out[name] = pose.Capture(b)
		}
	}
	return out
}
