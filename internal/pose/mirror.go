package pose

import "github.com/roach88/gesturesnap/internal/bones"

// Mirror maps snapshots recorded for the from hand onto the to hand.
//
// Each bone is renamed through the side-suffix table; names without the from
// suffix keep their name but are still reflected. Location is reflected across
// the X plane and rotation (w, x, y, z) becomes (w, -x, -y, z), the mirroring
// convention for this skeleton's bone-local axes. Scale is copied.
//
// When a renamed bone lands on a name that also passed through unchanged, the
// renamed bone wins.
func Mirror(in Bones, from, to bones.Side) Bones {
	out := make(Bones, len(in))
	renamed := make(map[string]Snapshot, len(in))
	for name, s := range in {
		target, ok := bones.Rename(name, from, to)
		if ok {
			renamed[target] = MirrorSnapshot(s)
			continue
		}
		out[target] = MirrorSnapshot(s)
	}
	for name, s := range renamed {
		out[name] = s
	}
	return out
}

// MirrorSnapshot reflects a single snapshot. It is its own inverse.
func MirrorSnapshot(s Snapshot) Snapshot {
	return Snapshot{
		Location: Vec3{-s.Location[0], s.Location[1], s.Location[2]},
		Rotation: Quat{s.Rotation[0], -s.Rotation[1], -s.Rotation[2], s.Rotation[3]},
		Scale:    s.Scale,
	}
}
