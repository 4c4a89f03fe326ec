package gesture

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/gesturesnap/internal/bones"
	"github.com/roach88/gesturesnap/internal/host"
	"github.com/roach88/gesturesnap/internal/library"
	"github.com/roach88/gesturesnap/internal/pose"
)

// Result reports the outcome of one operation.
type Result struct {
	OK      bool       `json:"ok"`
	Op      string     `json:"op"`
	Message string     `json:"message"`
	Gesture string     `json:"gesture,omitempty"`
	Side    bones.Side `json:"side,omitempty"`

	// Bones lists the bones captured (record) or written (apply), in
	// armature order.
	Bones []string `json:"bones,omitempty"`

	Mirrored  bool `json:"mirrored,omitempty"`
	Keyframed bool `json:"keyframed,omitempty"`
	Frame     int  `json:"frame,omitempty"`

	// Removed is set by delete when the gesture existed.
	Removed bool `json:"removed,omitempty"`

	Err error `json:"-"`
}

// Entry describes one stored gesture for listing.
type Entry struct {
	Name      string     `json:"name"`
	Side      bones.Side `json:"side"`
	BoneCount int        `json:"bone_count"`
}

// Service runs gesture operations against a library and a host.
type Service struct {
	lib    *library.Library
	host   host.Context
	logger *slog.Logger
	mirror func(pose.Bones, bones.Side, bones.Side) pose.Bones
}

// New creates a Service. A nil logger uses slog.Default().
func New(lib *library.Library, hc host.Context, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		lib:    lib,
		host:   hc,
		logger: logger,
		mirror: pose.Mirror,
	}
}

// Library returns the service's gesture library.
func (s *Service) Library() *library.Library {
	return s.lib
}

// Do runs op.
func (s *Service) Do(op Operation) Result {
	return op.Run(s)
}

// Record captures the registry bones for side from the active armature and
// stores them under name, replacing any gesture of the same name.
func (s *Service) Record(name string, side bones.Side) Result {
	res := Result{Op: OpRecord, Gesture: name, Side: side}
	if name == "" {
		return s.fail(res, ErrEmptyName, "Gesture name is required")
	}
	if !side.Valid() {
		return s.fail(res, ErrInvalidSide, fmt.Sprintf("Invalid hand side: %q", side))
	}
	obj, err := s.armature()
	if err != nil {
		return s.fail(res, err, armatureMessage(err))
	}

	captured := pose.Bones{}
	for _, pb := range obj.PoseBones() {
		if bones.Contains(side, pb.Name()) {
			captured[pb.Name()] = pose.Capture(pb)
			res.Bones = append(res.Bones, pb.Name())
		}
	}

	if err := s.lib.Put(name, library.Record{Side: side, Bones: captured}); err != nil {
		return s.fail(res, fmt.Errorf("%w: %v", ErrStore, err), fmt.Sprintf("Could not save gesture %s: %v", name, err))
	}

	res.OK = true
	if len(res.Bones) == 0 {
		res.Message = fmt.Sprintf("Recorded gesture: %s (no %s hand bones found on %s)", name, side, obj.Name())
	} else {
		res.Message = fmt.Sprintf("Recorded gesture: %s", name)
	}
	s.logger.Info("gesture recorded", "gesture", name, "side", side, "bones", len(res.Bones), "object", obj.Name())
	return res
}

// Apply writes the named gesture onto the active armature for side, mirroring
// it when side differs from the recorded side. Written bones are keyframed at
// the current frame when insertKeyframe is set. Recorded bones missing from
// the armature are skipped.
func (s *Service) Apply(name string, side bones.Side, insertKeyframe bool) Result {
	res := Result{Op: OpApply, Gesture: name, Side: side}
	if !side.Valid() {
		return s.fail(res, ErrInvalidSide, fmt.Sprintf("Invalid hand side: %q", side))
	}
	rec, ok := s.lib.Lookup(name)
	if !ok {
		return s.fail(res, ErrGestureNotFound, fmt.Sprintf("Gesture not found: %s", name))
	}
	if !rec.Side.Valid() {
		return s.fail(res, ErrInvalidRecord, fmt.Sprintf("Gesture %s has invalid hand side %q", name, rec.Side))
	}
	obj, err := s.armature()
	if err != nil {
		return s.fail(res, err, armatureMessage(err))
	}

	obj.DeselectAllBones()
	defer obj.DeselectAllBones()

	data := rec.Bones
	if rec.Side != side {
		data = s.mirror(rec.Bones, rec.Side, side)
		res.Mirrored = true
	}

	var written []host.PoseBone
	for _, pb := range obj.PoseBones() {
		snap, ok := data[pb.Name()]
		if !ok {
			continue
		}
		pose.Apply(pb, snap)
		pb.SetSelected(true)
		written = append(written, pb)
		res.Bones = append(res.Bones, pb.Name())
	}

	if insertKeyframe {
		res.Frame = s.host.CurrentFrame()
		for _, pb := range written {
			for _, path := range host.DataPaths {
				if err := pb.InsertKeyframe(path, res.Frame); err != nil {
					return s.fail(res, fmt.Errorf("%w: %v", ErrHost, err), fmt.Sprintf("Could not insert keyframe for %s: %v", pb.Name(), err))
				}
			}
		}
		res.Keyframed = len(written) > 0
	}

	res.OK = true
	res.Message = fmt.Sprintf("Applied gesture: %s", name)
	s.logger.Info("gesture applied",
		"gesture", name,
		"recorded_side", rec.Side,
		"side", side,
		"mirrored", res.Mirrored,
		"bones", len(written),
		"frame", res.Frame,
	)
	return res
}

// Delete removes the named gesture. Deleting an absent gesture succeeds and
// changes nothing.
func (s *Service) Delete(name string) Result {
	res := Result{Op: OpDelete, Gesture: name}
	removed, err := s.lib.Delete(name)
	if err != nil {
		return s.fail(res, fmt.Errorf("%w: %v", ErrStore, err), fmt.Sprintf("Could not save library after deleting %s: %v", name, err))
	}
	res.OK = true
	res.Removed = removed
	if removed {
		res.Message = fmt.Sprintf("Deleted gesture: %s", name)
		s.logger.Info("gesture deleted", "gesture", name)
	} else {
		res.Message = fmt.Sprintf("Nothing to delete: %s", name)
		s.logger.Debug("delete of absent gesture", "gesture", name)
	}
	return res
}

// List returns the stored gestures in library order.
func (s *Service) List() []Entry {
	g := s.lib.Get()
	entries := make([]Entry, 0, g.Len())
	for _, name := range g.Names() {
		rec, _ := g.Get(name)
		entries = append(entries, Entry{Name: name, Side: rec.Side, BoneCount: len(rec.Bones)})
	}
	return entries
}

// armature returns the active armature in pose mode.
func (s *Service) armature() (host.Object, error) {
	obj := s.host.ActiveObject()
	if obj == nil {
		return nil, ErrNoArmature
	}
	if obj.Type() != host.ObjectArmature {
		return nil, fmt.Errorf("%w: %s is %s", ErrNotArmature, obj.Name(), obj.Type())
	}
	if obj.Mode() != host.ModePose {
		if err := obj.SetMode(host.ModePose); err != nil {
			return nil, fmt.Errorf("%w: enter pose mode: %v", ErrHost, err)
		}
		s.logger.Debug("switched to pose mode", "object", obj.Name())
	}
	return obj, nil
}

func armatureMessage(err error) string {
	switch {
	case errors.Is(err, ErrNoArmature), errors.Is(err, ErrNotArmature):
		return "Select an armature"
	default:
		return err.Error()
	}
}

func (s *Service) fail(res Result, err error, msg string) Result {
	res.OK = false
	res.Err = err
	res.Message = msg
	s.logger.Warn("gesture operation failed", "op", res.Op, "gesture", res.Gesture, "error", err)
	return res
}
