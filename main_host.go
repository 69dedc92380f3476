//go:build !tinygo

package main

import "gatetimer/internal/hostcmd"

func main() {
	hostcmd.Execute()
}
