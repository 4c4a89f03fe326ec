package pose

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gesturesnap/internal/bones"
)

type fakeBone struct {
	loc   Vec3
	rot   Quat
	scale Vec3
}

func (b *fakeBone) Location() Vec3               { return b.loc }
func (b *fakeBone) SetLocation(v Vec3)           { b.loc = v }
func (b *fakeBone) RotationQuaternion() Quat     { return b.rot }
func (b *fakeBone) SetRotationQuaternion(q Quat) { b.rot = q }
func (b *fakeBone) Scale() Vec3                  { return b.scale }
func (b *fakeBone) SetScale(v Vec3)              { b.scale = v }

func TestCapture(t *testing.T) {
	b := &fakeBone{loc: Vec3{1, 2, 3}, rot: Quat{0.9, 0.1, 0.2, 0.3}, scale: Vec3{1, 1.5, 2}}

	s := Capture(b)

	assert.Equal(t, Vec3{1, 2, 3}, s.Location)
	assert.Equal(t, Quat{0.9, 0.1, 0.2, 0.3}, s.Rotation)
	assert.Equal(t, Vec3{1, 1.5, 2}, s.Scale)
	// Capture has no side effects
	assert.Equal(t, Vec3{1, 2, 3}, b.loc)
}

func TestApply(t *testing.T) {
	b := &fakeBone{}
	s := Snapshot{Location: Vec3{4, 5, 6}, Rotation: Quat{0, 1, 0, 0}, Scale: Vec3{2, 2, 2}}

	Apply(b, s)

	assert.Equal(t, s, Capture(b))
}

func TestCaptureApply_RoundTrip(t *testing.T) {
	src := &fakeBone{loc: Vec3{0.125, -3.5, 7}, rot: Quat{0.7071, 0, 0.7071, 0}, scale: UnitScale}
	dst := &fakeBone{loc: Vec3{9, 9, 9}, rot: IdentityQuat, scale: Vec3{3, 3, 3}}

	Apply(dst, Capture(src))

	assert.Equal(t, *src, *dst)
}

func TestRest(t *testing.T) {
	r := Rest()
	assert.Equal(t, Vec3{}, r.Location)
	assert.Equal(t, Quat{1, 0, 0, 0}, r.Rotation)
	assert.Equal(t, Vec3{1, 1, 1}, r.Scale)
}

func TestMirror_Example(t *testing.T) {
	in := Bones{
		"親指１.L": {Location: Vec3{1, 2, 3}, Rotation: Quat{0.9, 0.1, 0.2, 0.3}, Scale: Vec3{1, 1, 1}},
	}

	out := Mirror(in, bones.Left, bones.Right)

	require.Len(t, out, 1)
	got, ok := out["親指１.R"]
	require.True(t, ok, "mirrored bone should be renamed to the right hand")
	assert.Equal(t, Vec3{-1, 2, 3}, got.Location)
	assert.Equal(t, Quat{0.9, -0.1, -0.2, 0.3}, got.Rotation)
	assert.Equal(t, Vec3{1, 1, 1}, got.Scale)
}

func TestMirror_Involution(t *testing.T) {
	in := Bones{}
	for i, name := range bones.For(bones.Left) {
		f := float64(i)
		in[name] = Snapshot{
			Location: Vec3{f, f * 2, -f},
			Rotation: Quat{0.5, 0.1 * f, -0.2 * f, 0.3},
			Scale:    Vec3{1, 1 + f, 1},
		}
	}

	back := Mirror(Mirror(in, bones.Left, bones.Right), bones.Right, bones.Left)

	assert.Equal(t, in, back)
}

func TestMirror_DoesNotMutateInput(t *testing.T) {
	in := Bones{"人指１.R": {Location: Vec3{1, 0, 0}, Rotation: Quat{1, 1, 1, 1}, Scale: UnitScale}}
	orig := in.Clone()

	_ = Mirror(in, bones.Right, bones.Left)

	assert.Equal(t, orig, in)
}

func TestMirror_UnsuffixedNamePassesThrough(t *testing.T) {
	in := Bones{"頭": {Location: Vec3{1, 2, 3}, Rotation: Quat{1, 0.5, 0.5, 0}, Scale: UnitScale}}

	out := Mirror(in, bones.Right, bones.Left)

	got, ok := out["頭"]
	require.True(t, ok)
	assert.Equal(t, Vec3{-1, 2, 3}, got.Location)
	assert.Equal(t, Quat{1, -0.5, -0.5, 0}, got.Rotation)
}

func TestMirror_RenamedBoneWinsCollision(t *testing.T) {
	in := Bones{
		"中指１.R": {Location: Vec3{1, 0, 0}, Rotation: IdentityQuat, Scale: UnitScale},
		"中指１.L": {Location: Vec3{5, 0, 0}, Rotation: IdentityQuat, Scale: UnitScale},
	}

	out := Mirror(in, bones.Right, bones.Left)

	require.Len(t, out, 1)
	assert.Equal(t, Vec3{-1, 0, 0}, out["中指１.L"].Location)
}

func TestMirror_Empty(t *testing.T) {
	out := Mirror(nil, bones.Left, bones.Right)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestBonesClone(t *testing.T) {
	var nilBones Bones
	assert.Nil(t, nilBones.Clone())

	b := Bones{"a": Rest()}
	c := b.Clone()
	c["a"] = Snapshot{}
	assert.Equal(t, Rest(), b["a"])
}
