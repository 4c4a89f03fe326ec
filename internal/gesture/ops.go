package gesture

import "github.com/roach88/gesturesnap/internal/bones"

// Operation names.
const (
	OpRecord = "record"
	OpApply  = "apply"
	OpDelete = "delete"
)

// Operation is one of RecordOp, ApplyOp or DeleteOp.
type Operation interface {
	Name() string
	Run(*Service) Result
	sealed()
}

// RecordOp captures the current hand pose under Gesture.
type RecordOp struct {
	Gesture string
	Side    bones.Side
}

func (RecordOp) Name() string             { return OpRecord }
func (op RecordOp) Run(s *Service) Result { return s.Record(op.Gesture, op.Side) }
func (RecordOp) sealed()                  {}

// ApplyOp applies Gesture to Side.
type ApplyOp struct {
	Gesture        string
	Side           bones.Side
	InsertKeyframe bool
}

func (ApplyOp) Name() string             { return OpApply }
func (op ApplyOp) Run(s *Service) Result { return s.Apply(op.Gesture, op.Side, op.InsertKeyframe) }
func (ApplyOp) sealed()                  {}

// DeleteOp removes Gesture.
type DeleteOp struct {
	Gesture string
}

func (DeleteOp) Name() string             { return OpDelete }
func (op DeleteOp) Run(s *Service) Result { return s.Delete(op.Gesture) }
func (DeleteOp) sealed()                  {}
