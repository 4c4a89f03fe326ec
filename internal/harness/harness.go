package harness

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/roach88/gesturesnap/internal/bones"
	"github.com/roach88/gesturesnap/internal/gesture"
	"github.com/roach88/gesturesnap/internal/host"
	"github.com/roach88/gesturesnap/internal/library"
	"github.com/roach88/gesturesnap/internal/testutil"
)

// Harness executes one scenario against a fresh scene and library.
type Harness struct {
	scene  *host.Scene
	svc    *gesture.Service
	logger *slog.Logger
}

// Run executes a scenario and returns its result. An error is returned only
// when the scenario cannot be set up; step and assertion failures are
// reported on the Result.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, nil)
}

// RunWithLogger is Run with an explicit logger. A nil logger discards logs.
func RunWithLogger(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	scene, err := buildScene(scenario)
	if err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp("", "gesturesnap-scenario-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create library dir: %w", err)
	}
	defer os.RemoveAll(dir)

	lib := library.Open(filepath.Join(dir, library.DefaultFileName), logger)
	h := &Harness{
		scene:  scene,
		svc:    gesture.New(lib, scene, logger),
		logger: logger,
	}

	result := NewResult()
	for i, step := range scenario.Steps {
		if err := h.executeStep(i+1, step, result); err != nil {
			result.AddError("step %d: %v", i+1, err)
			break
		}
	}

	for i, a := range scenario.Assertions {
		if err := h.evaluate(a); err != nil {
			result.AddError("assertion %d (%s): %v", i+1, a.Type, err)
		}
	}

	result.Scene = scene
	result.Gestures = lib.Get()
	return result, nil
}

func buildScene(scenario *Scenario) (*host.Scene, error) {
	sides := bones.Sides
	if len(scenario.Armature.Hands) > 0 {
		sides = nil
		for _, h := range scenario.Armature.Hands {
			side, err := bones.ParseSide(h)
			if err != nil {
				return nil, fmt.Errorf("armature: %w", err)
			}
			sides = append(sides, side)
		}
	}
	scene := testutil.HandScene(sides...)

	for _, o := range scenario.Objects {
		if _, err := scene.AddObject(o.Name, host.ObjectType(o.Type)); err != nil {
			return nil, fmt.Errorf("objects: %w", err)
		}
	}
	if scenario.Frame != 0 {
		scene.SetFrame(scenario.Frame)
	}
	return scene, nil
}

// executeStep runs one step. Operation failures are not errors here; they
// are checked against Expect. Errors mean the step itself is unusable.
func (h *Harness) executeStep(n int, step Step, result *Result) error {
	var op gesture.Operation
	switch {
	case step.Record != nil:
		op = gesture.RecordOp{Gesture: step.Record.Gesture, Side: parseSideLoose(step.Record.Side)}
	case step.Apply != nil:
		keyframe := true
		if step.Apply.Keyframe != nil {
			keyframe = *step.Apply.Keyframe
		}
		op = gesture.ApplyOp{Gesture: step.Apply.Gesture, Side: parseSideLoose(step.Apply.Side), InsertKeyframe: keyframe}
	case step.Delete != nil:
		op = gesture.DeleteOp{Gesture: step.Delete.Gesture}
	case step.Pose != nil:
		return h.poseBone(step.Pose)
	case step.SeedHand != nil:
		side, err := bones.ParseSide(step.SeedHand.Side)
		if err != nil {
			return err
		}
		testutil.PoseHand(testutil.Armature(h.scene), side, step.SeedHand.Seed)
		return nil
	case step.Frame != nil:
		h.scene.SetFrame(*step.Frame)
		return nil
	case step.Activate != nil:
		return h.scene.SetActive(*step.Activate)
	default:
		return fmt.Errorf("no action")
	}

	res := h.svc.Do(op)
	h.logger.Debug("scenario step", "step", n, "op", res.Op, "ok", res.OK, "message", res.Message)
	result.Trace = append(result.Trace, TraceEvent{
		Step:     n,
		Op:       res.Op,
		Gesture:  res.Gesture,
		Side:     string(res.Side),
		OK:       res.OK,
		Message:  res.Message,
		Bones:    len(res.Bones),
		Mirrored: res.Mirrored,
		Frame:    res.Frame,
	})

	if step.Expect != nil {
		checkExpect(n, step.Expect, res, result)
	} else if !res.OK {
		result.AddError("step %d: %s failed: %s", n, res.Op, res.Message)
	}
	return nil
}

func checkExpect(n int, want *StepExpect, res gesture.Result, result *Result) {
	if want.OK != res.OK {
		result.AddError("step %d: %s ok = %v, want %v (%s)", n, res.Op, res.OK, want.OK, res.Message)
	}
	if want.Message != "" && want.Message != res.Message {
		result.AddError("step %d: %s message = %q, want %q", n, res.Op, res.Message, want.Message)
	}
	if want.Mirrored != nil && *want.Mirrored != res.Mirrored {
		result.AddError("step %d: %s mirrored = %v, want %v", n, res.Op, res.Mirrored, *want.Mirrored)
	}
}

// parseSideLoose lets invalid sides through so the operation reports them.
func parseSideLoose(s string) bones.Side {
	side, err := bones.ParseSide(s)
	if err != nil {
		return bones.Side(s)
	}
	return side
}

func (h *Harness) poseBone(p *PoseStep) error {
	b, ok := testutil.Armature(h.scene).Bone(p.Bone)
	if !ok {
		return fmt.Errorf("pose: bone %q not found", p.Bone)
	}
	if p.Location != nil {
		b.SetLocation(*p.Location)
	}
	if p.Rotation != nil {
		b.SetRotationQuaternion(*p.Rotation)
	}
	if p.Scale != nil {
		b.SetScale(*p.Scale)
	}
	return nil
}
