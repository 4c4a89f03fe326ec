package pose

// Vec3 is an (x, y, z) triple.
type Vec3 [3]float64

// Quat is a rotation quaternion stored w-first: (w, x, y, z).
type Quat [4]float64

// IdentityQuat is the rest rotation.
var IdentityQuat = Quat{1, 0, 0, 0}

// UnitScale is the rest scale.
var UnitScale = Vec3{1, 1, 1}

// Snapshot is one bone's transform at one instant.
type Snapshot struct {
	Location Vec3 `json:"location" yaml:"location"`
	Rotation Quat `json:"rotation_quaternion" yaml:"rotation_quaternion"`
	Scale    Vec3 `json:"scale" yaml:"scale"`
}

// Rest returns the rest pose snapshot.
func Rest() Snapshot {
	return Snapshot{Rotation: IdentityQuat, Scale: UnitScale}
}

// Bones maps bone names to snapshots.
type Bones map[string]Snapshot

// Clone returns a copy of b. Snapshots are values, so the copy is deep.
func (b Bones) Clone() Bones {
	if b == nil {
		return nil
	}
	out := make(Bones, len(b))
	for name, s := range b {
		out[name] = s
	}
	return out
}
