package settings

import (
	"fmt"

	"gatetimer/timer/race"
)

// Param names the parameter an Editor changes.
type Param uint8

const (
	ParamLapGoal Param = iota
	ParamTimeTrial
)

// ParamFor returns the parameter that configures mode.
func ParamFor(m race.Mode) Param {
	if m == race.ModeTimeTrial {
		return ParamTimeTrial
	}
	return ParamLapGoal
}

// Focus is the row an Editor's cursor is on.
type Focus uint8

const (
	FocusEditing Focus = iota
	FocusConfirmBack
)

const (
	backActive   = "> Back to Menu"
	backInactive = "  Back to Menu"
)

// Editor is the two-row sub-screen that edits one parameter.
//
// The first row shows the value and is bumped by one step on select. The
// second row leaves the editor.
type Editor struct {
	store *Store
	param Param
	focus Focus
}

func NewEditor(store *Store, param Param) *Editor {
	return &Editor{store: store, param: param}
}

func (e *Editor) Param() Param { return e.param }
func (e *Editor) Focus() Focus { return e.focus }

// Move shifts the focus by delta rows, wrapping over the two rows.
func (e *Editor) Move(delta int) {
	if delta%2 == 0 {
		return
	}
	if e.focus == FocusEditing {
		e.focus = FocusConfirmBack
	} else {
		e.focus = FocusEditing
	}
}

// Select acts on the focused row and reports whether the editor should close.
func (e *Editor) Select() (exit bool) {
	if e.focus == FocusConfirmBack {
		return true
	}
	switch e.param {
	case ParamTimeTrial:
		e.store.AdjustTimeTrial(race.TimeTrialStepSeconds)
	default:
		e.store.AdjustLapGoal(1)
	}
	return false
}

// Lines renders the editor's two rows.
func (e *Editor) Lines() [2]string {
	var value string
	switch e.param {
	case ParamTimeTrial:
		value = fmt.Sprintf("Set Time: %ds", e.store.TimeTrialSeconds())
	default:
		value = fmt.Sprintf("Set Laps: %d", e.store.LapGoal())
	}
	back := backInactive
	if e.focus == FocusConfirmBack {
		back = backActive
	}
	return [2]string{value, back}
}
