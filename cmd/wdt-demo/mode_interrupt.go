//go:build !wdtreset

package main

import "github.com/sweeney/wdt-demo/internal/demo"

// buildMode toggles the LED on every warn interrupt and never resets.
var buildMode demo.Mode = demo.InterruptMode{}
