package core

import "fmt"

const MaxFrames = 1024

type slotScope int

const (
	globalSlot slotScope = iota
	paramSlot
	resultSlot
	functionSlot
)

// slot is a storage location resolved at parse time.
type slot struct {
	scope slotScope
	index int
	name  string
}

func (s slot) String() string {
	switch s.scope {
	case paramSlot:
		return fmt.Sprintf("param(%s)", s.name)
	case resultSlot:
		return fmt.Sprintf("result(%s)", s.name)
	case functionSlot:
		return fmt.Sprintf("fn(%s)", s.name)
	}
	return fmt.Sprintf("var(%s)", s.name)
}

func (s *Script) currentFrame() *Frame {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

func (s *Script) pushFrame(f *Frame) error {
	if len(s.frames) >= MaxFrames {
		return &Error{
			Kind:   RuntimeError,
			Reason: fmt.Sprintf("call stack overflow in %s", f.fn.Name),
		}
	}
	s.frames = append(s.frames, f)
	return nil
}

func (s *Script) popFrame() *Frame {
	f := s.frames[len(s.frames)-1]
	s.frames[len(s.frames)-1] = nil
	s.frames = s.frames[:len(s.frames)-1]
	return f
}

// cell returns the live storage behind a slot for the current activation.
func (s *Script) cell(sl slot) *Value {
	switch sl.scope {
	case globalSlot:
		return s.globals[sl.index]
	case functionSlot:
		return s.functions[sl.index].last
	}

	frame := s.currentFrame()
	if frame == nil {
		panic("core: frame slot " + sl.String() + " used outside of a call")
	}
	if sl.scope == resultSlot {
		return frame.result
	}
	return frame.params[sl.index]
}
