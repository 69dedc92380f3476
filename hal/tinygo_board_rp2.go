//go:build tinygo && (rp2040 || rp2350)

package hal

import "machine"

// board wires the timer to a Pico or Pico 2.
//
// UART: UART0 on GP0 (TX) / GP1 (RX), 115200 8N1.
var board = boardPins{
	lcdData: [8]machine.Pin{
		machine.GP6, machine.GP7, machine.GP8, machine.GP9,
		machine.GP10, machine.GP11, machine.GP12, machine.GP13,
	},
	lcdE:  machine.GP14,
	lcdRS: machine.GP15,
	lcdRW: machine.GP16,

	buzzer: machine.GP2,

	encClock: machine.GP18,
	encData:  machine.GP19,
	button:   machine.GP20,
	gate:     machine.GP21,

	inputCaps: GPIOCapInput | GPIOCapPullUp | GPIOCapPullDown,
}

func openSerial() byteWriter {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GP0,
		RX:       machine.GP1,
	})
	return uart
}
