package pose

// Bone is a live, posable bone handle supplied by the host.
type Bone interface {
	Location() Vec3
	SetLocation(Vec3)
	RotationQuaternion() Quat
	SetRotationQuaternion(Quat)
	Scale() Vec3
	SetScale(Vec3)
}

// Capture reads the current transform of b.
func Capture(b Bone) Snapshot {
	return Snapshot{
		Location: b.Location(),
		Rotation: b.RotationQuaternion(),
		Scale:    b.Scale(),
	}
}

// Apply writes s onto b. Keyframing is left to the caller.
func Apply(b Bone, s Snapshot) {
	b.SetLocation(s.Location)
	b.SetRotationQuaternion(s.Rotation)
	b.SetScale(s.Scale)
}
