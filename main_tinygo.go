//go:build tinygo

package main

import (
	"gatetimer/app"
	"gatetimer/hal"
)

func main() {
	app.Run(hal.New())
}
