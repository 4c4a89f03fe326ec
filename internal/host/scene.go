package host

import (
	"fmt"
	"sort"

	"github.com/roach88/gesturesnap/internal/pose"
)

// Keyframe is one inserted sample.
type Keyframe struct {
	Object   string    `json:"object"`
	Bone     string    `json:"bone"`
	DataPath string    `json:"data_path"`
	Frame    int       `json:"frame"`
	Values   []float64 `json:"values"`
}

type keyframeKey struct {
	object, bone, path string
	frame              int
}

// Scene is an in-memory host: a set of objects, an active object, a current
// frame and a keyframe log.
//
// Not safe for concurrent use; the host it stands in for is single-threaded.
type Scene struct {
	objects   map[string]*SceneObject
	order     []string
	active    string
	frame     int
	keyframes map[keyframeKey]Keyframe
}

var _ Context = (*Scene)(nil)

// NewScene returns an empty scene at frame 1, matching the host default.
func NewScene() *Scene {
	return &Scene{
		objects:   make(map[string]*SceneObject),
		frame:     1,
		keyframes: make(map[keyframeKey]Keyframe),
	}
}

// AddObject adds an object of the given type in object mode. Adding a name
// that already exists is an error.
func (s *Scene) AddObject(name string, typ ObjectType) (*SceneObject, error) {
	if name == "" {
		return nil, fmt.Errorf("object name is required")
	}
	if _, exists := s.objects[name]; exists {
		return nil, fmt.Errorf("object %q already exists", name)
	}
	obj := &SceneObject{
		scene: s,
		name:  name,
		typ:   typ,
		mode:  ModeObject,
		bones: make(map[string]*SceneBone),
	}
	s.objects[name] = obj
	s.order = append(s.order, name)
	return obj, nil
}

// Object looks up an object by name.
func (s *Scene) Object(name string) (*SceneObject, bool) {
	obj, ok := s.objects[name]
	return obj, ok
}

// Objects returns objects in insertion order.
func (s *Scene) Objects() []*SceneObject {
	out := make([]*SceneObject, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.objects[name])
	}
	return out
}

// SetActive makes the named object active. An empty name clears it.
func (s *Scene) SetActive(name string) error {
	if name == "" {
		s.active = ""
		return nil
	}
	if _, ok := s.objects[name]; !ok {
		return fmt.Errorf("object %q not found", name)
	}
	s.active = name
	return nil
}

// ActiveObject implements Context.
func (s *Scene) ActiveObject() Object {
	obj, ok := s.objects[s.active]
	if !ok {
		return nil
	}
	return obj
}

// ActiveName returns the active object's name, or "".
func (s *Scene) ActiveName() string {
	return s.active
}

// CurrentFrame implements Context.
func (s *Scene) CurrentFrame() int {
	return s.frame
}

// SetFrame moves the timeline.
func (s *Scene) SetFrame(frame int) {
	s.frame = frame
}

// Keyframes returns the keyframe log ordered by object, frame, bone and data
// path.
func (s *Scene) Keyframes() []Keyframe {
	out := make([]Keyframe, 0, len(s.keyframes))
	for _, k := range s.keyframes {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Object != b.Object {
			return a.Object < b.Object
		}
		if a.Frame != b.Frame {
			return a.Frame < b.Frame
		}
		if a.Bone != b.Bone {
			return a.Bone < b.Bone
		}
		return dataPathIndex(a.DataPath) < dataPathIndex(b.DataPath)
	})
	return out
}

// RestoreKeyframe adds a previously persisted sample without touching bones.
func (s *Scene) RestoreKeyframe(k Keyframe) {
	s.keyframes[keyframeKey{k.Object, k.Bone, k.DataPath, k.Frame}] = k
}

func dataPathIndex(p string) int {
	for i, dp := range DataPaths {
		if dp == p {
			return i
		}
	}
	return len(DataPaths)
}

// SceneObject is an object in a Scene.
type SceneObject struct {
	scene *Scene
	name  string
	typ   ObjectType
	mode  Mode
	bones map[string]*SceneBone
	order []string
}

var _ Object = (*SceneObject)(nil)

func (o *SceneObject) Name() string     { return o.name }
func (o *SceneObject) Type() ObjectType { return o.typ }
func (o *SceneObject) Mode() Mode       { return o.mode }

// SetMode switches editing mode. Only armatures can enter pose mode.
func (o *SceneObject) SetMode(m Mode) error {
	switch m {
	case ModeObject:
	case ModePose:
		if o.typ != ObjectArmature {
			return fmt.Errorf("object %q of type %s cannot enter %s mode", o.name, o.typ, m)
		}
	default:
		return fmt.Errorf("unknown mode %q", m)
	}
	o.mode = m
	return nil
}

// AddBone appends a bone at rest pose. Only armatures carry bones.
func (o *SceneObject) AddBone(name string) (*SceneBone, error) {
	if o.typ != ObjectArmature {
		return nil, fmt.Errorf("object %q of type %s has no bones", o.name, o.typ)
	}
	if name == "" {
		return nil, fmt.Errorf("bone name is required")
	}
	if _, exists := o.bones[name]; exists {
		return nil, fmt.Errorf("bone %q already exists on %q", name, o.name)
	}
	rest := pose.Rest()
	b := &SceneBone{
		object: o,
		name:   name,
		loc:    rest.Location,
		rot:    rest.Rotation,
		scale:  rest.Scale,
	}
	o.bones[name] = b
	o.order = append(o.order, name)
	return b, nil
}

// PoseBones implements Object.
func (o *SceneObject) PoseBones() []PoseBone {
	out := make([]PoseBone, 0, len(o.order))
	for _, name := range o.order {
		out = append(out, o.bones[name])
	}
	return out
}

// PoseBone implements Object.
func (o *SceneObject) PoseBone(name string) (PoseBone, bool) {
	b, ok := o.bones[name]
	if !ok {
		return nil, false
	}
	return b, true
}

// Bone returns the concrete bone.
func (o *SceneObject) Bone(name string) (*SceneBone, bool) {
	b, ok := o.bones[name]
	return b, ok
}

// DeselectAllBones implements Object.
func (o *SceneObject) DeselectAllBones() {
	for _, b := range o.bones {
		b.selected = false
	}
}

// SelectedBones returns the names of selected bones in bone order.
func (o *SceneObject) SelectedBones() []string {
	var out []string
	for _, name := range o.order {
		if o.bones[name].selected {
			out = append(out, name)
		}
	}
	return out
}

// SceneBone is a pose bone of a SceneObject.
type SceneBone struct {
	object   *SceneObject
	name     string
	loc      pose.Vec3
	rot      pose.Quat
	scale    pose.Vec3
	selected bool
}

var _ PoseBone = (*SceneBone)(nil)

func (b *SceneBone) Name() string                      { return b.name }
func (b *SceneBone) Location() pose.Vec3               { return b.loc }
func (b *SceneBone) SetLocation(v pose.Vec3)           { b.loc = v }
func (b *SceneBone) RotationQuaternion() pose.Quat     { return b.rot }
func (b *SceneBone) SetRotationQuaternion(q pose.Quat) { b.rot = q }
func (b *SceneBone) Scale() pose.Vec3                  { return b.scale }
func (b *SceneBone) SetScale(v pose.Vec3)              { b.scale = v }
func (b *SceneBone) Selected() bool                    { return b.selected }
func (b *SceneBone) SetSelected(selected bool)         { b.selected = selected }

// InsertKeyframe samples the current value of dataPath at frame. A sample
// already present at the same frame is replaced.
func (b *SceneBone) InsertKeyframe(dataPath string, frame int) error {
	var values []float64
	switch dataPath {
	case PathLocation:
		values = b.loc[:]
	case PathRotation:
		values = b.rot[:]
	case PathScale:
		values = b.scale[:]
	default:
		return fmt.Errorf("bone %q: unsupported data path %q", b.name, dataPath)
	}
	sample := make([]float64, len(values))
	copy(sample, values)
	b.object.scene.RestoreKeyframe(Keyframe{
		Object:   b.object.name,
		Bone:     b.name,
		DataPath: dataPath,
		Frame:    frame,
		Values:   sample,
	})
	return nil
}
