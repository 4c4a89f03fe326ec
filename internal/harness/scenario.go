package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/gesturesnap/internal/pose"
)

// Scenario is one gesture scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	Description string `yaml:"description"`

	// Armature describes the fixture skeleton.
	Armature ArmatureSpec `yaml:"armature"`

	// Objects are extra non-armature objects added to the scene.
	Objects []ObjectSpec `yaml:"objects,omitempty"`

	// Frame is the starting timeline frame. Zero keeps the host default.
	Frame int `yaml:"frame,omitempty"`

	Steps []Step `yaml:"steps"`

	Assertions []Assertion `yaml:"assertions"`
}

// ArmatureSpec selects which hands the fixture armature carries.
type ArmatureSpec struct {
	// Hands lists sides whose registry bones exist. Empty means both.
	Hands []string `yaml:"hands,omitempty"`
}

// ObjectSpec adds a scene object.
type ObjectSpec struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// Step performs exactly one action, optionally checking its result.
type Step struct {
	Record   *RecordStep `yaml:"record,omitempty"`
	Apply    *ApplyStep  `yaml:"apply,omitempty"`
	Delete   *DeleteStep `yaml:"delete,omitempty"`
	Pose     *PoseStep   `yaml:"pose,omitempty"`
	SeedHand *SeedStep   `yaml:"seed_hand,omitempty"`
	Frame    *int        `yaml:"frame,omitempty"`

	// Activate makes the named object active; "" clears the active object.
	Activate *string `yaml:"activate,omitempty"`

	// Expect checks the operation result of record, apply or delete.
	Expect *StepExpect `yaml:"expect,omitempty"`
}

// RecordStep records a gesture.
type RecordStep struct {
	Gesture string `yaml:"gesture"`
	Side    string `yaml:"side"`
}

// ApplyStep applies a gesture. Keyframe defaults to true.
type ApplyStep struct {
	Gesture  string `yaml:"gesture"`
	Side     string `yaml:"side"`
	Keyframe *bool  `yaml:"keyframe,omitempty"`
}

// DeleteStep deletes a gesture.
type DeleteStep struct {
	Gesture string `yaml:"gesture"`
}

// PoseStep sets fields of one bone; omitted fields keep their value.
type PoseStep struct {
	Bone     string     `yaml:"bone"`
	Location *pose.Vec3 `yaml:"location,omitempty"`
	Rotation *pose.Quat `yaml:"rotation_quaternion,omitempty"`
	Scale    *pose.Vec3 `yaml:"scale,omitempty"`
}

// SeedStep poses a whole hand with deterministic values.
type SeedStep struct {
	Side string  `yaml:"side"`
	Seed float64 `yaml:"seed"`
}

// StepExpect is the expected operation outcome.
type StepExpect struct {
	OK bool `yaml:"ok"`

	// Message, when set, must equal the result message.
	Message string `yaml:"message,omitempty"`

	// Mirrored, when set, must equal the result's mirrored flag.
	Mirrored *bool `yaml:"mirrored,omitempty"`
}

// Assertion validates final state.
type Assertion struct {
	Type string `yaml:"type"`

	Gesture string   `yaml:"gesture,omitempty"`
	Side    string   `yaml:"side,omitempty"`
	Bones   *int     `yaml:"bones,omitempty"`
	Names   []string `yaml:"names,omitempty"`

	Bone     string     `yaml:"bone,omitempty"`
	Location *pose.Vec3 `yaml:"location,omitempty"`
	Rotation *pose.Quat `yaml:"rotation_quaternion,omitempty"`
	Scale    *pose.Vec3 `yaml:"scale,omitempty"`

	Count int  `yaml:"count"`
	Frame *int `yaml:"frame,omitempty"`
}

// Assertion type constants.
const (
	AssertGestureExists = "gesture_exists"
	AssertGestureAbsent = "gesture_absent"
	AssertLibraryOrder  = "library_order"
	AssertBonePose      = "bone_pose"
	AssertKeyframeCount = "keyframe_count"
	AssertSelectedCount = "selected_count"
)

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML and validates it.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("at least one step is required")
	}
	for i, step := range s.Steps {
		if n := step.actionCount(); n != 1 {
			return fmt.Errorf("step %d: exactly one action is required, got %d", i+1, n)
		}
		if step.Expect != nil && step.Record == nil && step.Apply == nil && step.Delete == nil {
			return fmt.Errorf("step %d: expect is only valid on record, apply and delete", i+1)
		}
	}
	for i, a := range s.Assertions {
		switch a.Type {
		case AssertGestureExists, AssertGestureAbsent:
			if a.Gesture == "" {
				return fmt.Errorf("assertion %d (%s): gesture is required", i+1, a.Type)
			}
		case AssertBonePose:
			if a.Bone == "" {
				return fmt.Errorf("assertion %d (%s): bone is required", i+1, a.Type)
			}
		case AssertLibraryOrder, AssertKeyframeCount, AssertSelectedCount:
		default:
			return fmt.Errorf("assertion %d: unknown type %q", i+1, a.Type)
		}
	}
	return nil
}

func (s Step) actionCount() int {
	n := 0
	for _, set := range []bool{
		s.Record != nil,
		s.Apply != nil,
		s.Delete != nil,
		s.Pose != nil,
		s.SeedHand != nil,
		s.Frame != nil,
		s.Activate != nil,
	} {
		if set {
			n++
		}
	}
	return n
}
