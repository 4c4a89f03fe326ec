package host

import "github.com/roach88/gesturesnap/internal/pose"

// ObjectType tags what kind of object is active.
type ObjectType string

const (
	ObjectArmature ObjectType = "ARMATURE"
	ObjectMesh     ObjectType = "MESH"
	ObjectEmpty    ObjectType = "EMPTY"
)

// Mode is an object's editing mode.
type Mode string

const (
	ModeObject Mode = "OBJECT"
	ModePose   Mode = "POSE"
)

// Keyframe data paths for pose bones.
const (
	PathLocation = "location"
	PathRotation = "rotation_quaternion"
	PathScale    = "scale"
)

// DataPaths lists the keyframed data paths in insertion order.
var DataPaths = []string{PathLocation, PathRotation, PathScale}

// Context is the host state visible to an operation.
type Context interface {
	// ActiveObject returns nil when no object is active.
	ActiveObject() Object
	CurrentFrame() int
}

// Object is a scene object. Pose bone access is only meaningful for
// armatures; other types report no bones.
type Object interface {
	Name() string
	Type() ObjectType
	Mode() Mode
	SetMode(Mode) error
	PoseBones() []PoseBone
	PoseBone(name string) (PoseBone, bool)
	DeselectAllBones()
}

// PoseBone is a posable bone of an armature in pose mode.
type PoseBone interface {
	pose.Bone
	Name() string
	Selected() bool
	SetSelected(bool)
	InsertKeyframe(dataPath string, frame int) error
}
