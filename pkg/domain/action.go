package domain

import (
	"encoding/json"
	"fmt"
)

// ActionKind names an instruction.
type ActionKind string

const (
	KindStep      ActionKind = "step"
	KindStepBack  ActionKind = "step_back"
	KindTurnLeft  ActionKind = "turn_left"
	KindTurnRight ActionKind = "turn_right"
	KindPutMarker ActionKind = "put_marker"
	KindGetMarker ActionKind = "get_marker"

	// Trace-only kinds. They never touch the grid.
	KindQuery   ActionKind = "query"   // e.g. "facing wall? true"
	KindMessage ActionKind = "message" // free text from a program
	KindError   ActionKind = "error"   // a failed instruction, recorded for visibility
)

// Kinds lists every action kind, mutating kinds first.
var Kinds = []ActionKind{
	KindStep, KindStepBack, KindTurnLeft, KindTurnRight, KindPutMarker, KindGetMarker,
	KindQuery, KindMessage, KindError,
}

// Valid reports whether k is part of the instruction set.
func (k ActionKind) Valid() bool {
	switch k {
	case KindStep, KindStepBack, KindTurnLeft, KindTurnRight, KindPutMarker, KindGetMarker,
		KindQuery, KindMessage, KindError:
		return true
	}
	return false
}

// Mutating reports whether actions of this kind change the grid.
func (k ActionKind) Mutating() bool {
	switch k {
	case KindStep, KindStepBack, KindTurnLeft, KindTurnRight, KindPutMarker, KindGetMarker:
		return true
	}
	return false
}

// Action is a single instruction. Text is only meaningful for trace-only kinds.
type Action struct {
	Kind ActionKind `json:"kind"`
	Text string     `json:"text,omitempty"`
}

func StepAction() Action      { return Action{Kind: KindStep} }
func StepBackAction() Action  { return Action{Kind: KindStepBack} }
func TurnLeftAction() Action  { return Action{Kind: KindTurnLeft} }
func TurnRightAction() Action { return Action{Kind: KindTurnRight} }
func PutMarkerAction() Action { return Action{Kind: KindPutMarker} }
func GetMarkerAction() Action { return Action{Kind: KindGetMarker} }

// QueryAction records the answer of a sensor query.
func QueryAction(text string) Action { return Action{Kind: KindQuery, Text: text} }

// MessageAction records free text.
func MessageAction(text string) Action { return Action{Kind: KindMessage, Text: text} }

// ErrorAction records a failure.
func ErrorAction(text string) Action { return Action{Kind: KindError, Text: text} }

// Inverse returns the action undoing a. Trace-only actions are their own (inert) inverse.
func (a Action) Inverse() Action {
	switch a.Kind {
	case KindStep:
		return StepBackAction()
	case KindStepBack:
		return StepAction()
	case KindTurnLeft:
		return TurnRightAction()
	case KindTurnRight:
		return TurnLeftAction()
	case KindPutMarker:
		return GetMarkerAction()
	case KindGetMarker:
		return PutMarkerAction()
	}
	return a
}

// Apply performs the forward effect of a on g.
func (a Action) Apply(g *Grid) error {
	switch a.Kind {
	case KindStep:
		return g.Step()
	case KindStepBack:
		return g.StepBack()
	case KindTurnLeft:
		g.TurnLeft()
		return nil
	case KindTurnRight:
		g.TurnRight()
		return nil
	case KindPutMarker:
		return g.PutMarker()
	case KindGetMarker:
		return g.GetMarker()
	case KindQuery, KindMessage, KindError:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownAction, a.Kind)
}

// Label is the text shown for a in a trace listing.
func (a Action) Label() string {
	if a.Text != "" {
		return a.Text
	}
	switch a.Kind {
	case KindStep:
		return "Step"
	case KindStepBack:
		return "Step Back"
	case KindTurnLeft:
		return "Turn Left"
	case KindTurnRight:
		return "Turn Right"
	case KindPutMarker:
		return "Put Marker"
	case KindGetMarker:
		return "Get Marker"
	case KindQuery:
		return "Query"
	case KindMessage:
		return "Message"
	case KindError:
		return "Error"
	}
	return string(a.Kind)
}

func (a Action) String() string {
	return a.Label()
}

// UnmarshalJSON rejects kinds outside the instruction set.
func (a *Action) UnmarshalJSON(data []byte) error {
	type plain Action
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if !p.Kind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownAction, p.Kind)
	}
	*a = Action(p)
	return nil
}

// TraceEntry is an executed action together with its display text.
// Entries are immutable once appended to a trace.
type TraceEntry struct {
	Action Action `json:"action"`
	Text   string `json:"text"`
}

// NewEntry builds the entry for a, using its default label as display text.
func NewEntry(a Action) TraceEntry {
	return TraceEntry{Action: a, Text: a.Label()}
}
