//go:build !tinygo && cgo

package hal

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Keys of the emulator: arrows turn the knob, Enter clicks it and Space
// breaks the gate beam.
var keyStimuli = []struct {
	keys []ebiten.Key
	s    Stimulus
}{
	{[]ebiten.Key{ebiten.KeyArrowRight, ebiten.KeyArrowDown}, StimulusNext},
	{[]ebiten.Key{ebiten.KeyArrowLeft, ebiten.KeyArrowUp}, StimulusPrevious},
	{[]ebiten.Key{ebiten.KeyEnter, ebiten.KeyNumpadEnter}, StimulusSelect},
	{[]ebiten.Key{ebiten.KeySpace, ebiten.KeyG}, StimulusGate},
}

func pollKeyboard(in *inputSim) {
	for _, ks := range keyStimuli {
		for _, k := range ks.keys {
			if inpututil.IsKeyJustPressed(k) {
				in.push(ks.s)
			}
		}
	}
}
