//go:build tinygo && esp32

package hal

import "machine"

// board is the original gate timer wiring on an ESP32 DevKit.
var board = boardPins{
	lcdData: [8]machine.Pin{
		machine.GPIO4, machine.GPIO16, machine.GPIO17, machine.GPIO18,
		machine.GPIO19, machine.GPIO21, machine.GPIO22, machine.GPIO23,
	},
	lcdE:  machine.GPIO33,
	lcdRS: machine.GPIO26,
	lcdRW: machine.GPIO25,

	buzzer: machine.GPIO15,

	// GPIO34 and GPIO35 are input only and have no pull resistors.
	encClock: machine.GPIO34,
	encData:  machine.GPIO35,
	button:   machine.GPIO32,
	gate:     machine.GPIO27,

	inputCaps: GPIOCapInput,
}

func openSerial() byteWriter {
	machine.Serial.Configure(machine.UARTConfig{BaudRate: 115200})
	return machine.Serial
}
