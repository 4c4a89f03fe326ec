package harness

import (
	"fmt"
	"math"
	"slices"

	"github.com/roach88/gesturesnap/internal/bones"
	"github.com/roach88/gesturesnap/internal/testutil"
)

// tolerance absorbs float noise in bone_pose comparisons.
const tolerance = 1e-9

func (h *Harness) evaluate(a Assertion) error {
	switch a.Type {
	case AssertGestureExists:
		return h.assertGestureExists(a)
	case AssertGestureAbsent:
		if _, ok := h.svc.Library().Lookup(a.Gesture); ok {
			return fmt.Errorf("gesture %q is stored", a.Gesture)
		}
		return nil
	case AssertLibraryOrder:
		got := h.svc.Library().Names()
		if !slices.Equal(got, a.Names) && !(len(got) == 0 && len(a.Names) == 0) {
			return fmt.Errorf("library order = %v, want %v", got, a.Names)
		}
		return nil
	case AssertBonePose:
		return h.assertBonePose(a)
	case AssertKeyframeCount:
		return h.assertKeyframeCount(a)
	case AssertSelectedCount:
		got := len(testutil.Armature(h.scene).SelectedBones())
		if got != a.Count {
			return fmt.Errorf("selected bones = %d, want %d", got, a.Count)
		}
		return nil
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func (h *Harness) assertGestureExists(a Assertion) error {
	rec, ok := h.svc.Library().Lookup(a.Gesture)
	if !ok {
		return fmt.Errorf("gesture %q not stored", a.Gesture)
	}
	if a.Side != "" {
		want, err := bones.ParseSide(a.Side)
		if err != nil {
			return err
		}
		if rec.Side != want {
			return fmt.Errorf("gesture %q side = %s, want %s", a.Gesture, rec.Side, want)
		}
	}
	if a.Bones != nil && len(rec.Bones) != *a.Bones {
		return fmt.Errorf("gesture %q bones = %d, want %d", a.Gesture, len(rec.Bones), *a.Bones)
	}
	return nil
}

func (h *Harness) assertBonePose(a Assertion) error {
	b, ok := testutil.Armature(h.scene).Bone(a.Bone)
	if !ok {
		return fmt.Errorf("bone %q not found", a.Bone)
	}
	if a.Location != nil {
		got := b.Location()
		if !closeTo(got[:], a.Location[:]) {
			return fmt.Errorf("bone %q location = %v, want %v", a.Bone, got, *a.Location)
		}
	}
	if a.Rotation != nil {
		got := b.RotationQuaternion()
		if !closeTo(got[:], a.Rotation[:]) {
			return fmt.Errorf("bone %q rotation_quaternion = %v, want %v", a.Bone, got, *a.Rotation)
		}
	}
	if a.Scale != nil {
		got := b.Scale()
		if !closeTo(got[:], a.Scale[:]) {
			return fmt.Errorf("bone %q scale = %v, want %v", a.Bone, got, *a.Scale)
		}
	}
	return nil
}

func (h *Harness) assertKeyframeCount(a Assertion) error {
	count := 0
	for _, k := range h.scene.Keyframes() {
		if a.Bone != "" && k.Bone != a.Bone {
			continue
		}
		if a.Frame != nil && k.Frame != *a.Frame {
			continue
		}
		count++
	}
	if count != a.Count {
		return fmt.Errorf("keyframes = %d, want %d", count, a.Count)
	}
	return nil
}

func closeTo(got, want []float64) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if math.Abs(got[i]-want[i]) > tolerance {
			return false
		}
	}
	return true
}
