//go:build tinygo

package main

import (
	"machine"
	"strconv"
	"strings"
)

// pinByName maps the board preset's pin names ("GP10", "LED") to pins.
func pinByName(name string) (machine.Pin, bool) {
	if name == "LED" {
		return machine.LED, true
	}
	n, err := strconv.Atoi(strings.TrimPrefix(name, "GP"))
	if err != nil || !strings.HasPrefix(name, "GP") || n < 0 || n > 28 {
		return machine.NoPin, false
	}
	return machine.GP0 + machine.Pin(n), true
}

func mustPin(name string) machine.Pin {
	p, ok := pinByName(name)
	if !ok {
		halt("no such pin "+name, nil)
	}
	return p
}

func mustPins(names []string) []machine.Pin {
	pins := make([]machine.Pin, len(names))
	for i, n := range names {
		pins[i] = mustPin(n)
	}
	return pins
}
