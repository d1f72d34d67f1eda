// Package panels provides the side panels of the main window: source and
// target directory selection, and the class-button grid.
package panels

// ActionKind identifies a user command. All panel buttons, context menus
// and shortcuts dispatch through one handler taking a structured Action, so
// no per-row closures are captured.
type ActionKind int

const (
	// ActionClassifyAs files the current image (or group, or batch) under
	// the class named by ClassID.
	ActionClassifyAs ActionKind = iota

	// ActionAutoClassify files the current image (or batch) by its label
	// content: background, mixed, or the single class present.
	ActionAutoClassify

	// ActionDiscardSingle removes the current image from review.
	ActionDiscardSingle

	// ActionDiscardGroup removes the current image's whole group.
	ActionDiscardGroup

	// ActionSetBoxClass re-tags one label row.
	ActionSetBoxClass

	// ActionDeleteBox removes one label row.
	ActionDeleteBox

	// ActionAcceptPrediction promotes one prediction row.
	ActionAcceptPrediction

	// ActionRejectPrediction drops one prediction row.
	ActionRejectPrediction
)

// Action is the structured parameter passed to the command handler.
type Action struct {
	Kind    ActionKind
	Row     int // label or prediction row index, -1 when not applicable
	ClassID int // class for ActionClassifyAs and ActionSetBoxClass
}
