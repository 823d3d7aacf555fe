//go:build wdtreset

package main

import "github.com/sweeney/wdt-demo/internal/demo"

// buildMode lets the watchdog expire and reset the board.
var buildMode demo.Mode = demo.ResetMode{}
