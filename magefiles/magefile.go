//go:build mage

// Package main provides build targets for keychess using Mage.
//
// Usage:
//
//	mage build            Compile keychess to bin/
//	mage test             Run all tests
//	mage sim              Build, then play in the terminal simulator
//	mage firmware:build   Build the Pico firmware with TinyGo
//	mage firmware:flash   Build and flash the Pico firmware
//	mage clean            Remove build artifacts
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binTinyGo  = "tinygo"
	binaryName = "keychess"
	binaryDir  = "bin"
	cmdDir     = "./cmd/keychess"

	firmwareDir    = "./cmd/firmware"
	firmwareTarget = "pico"
	firmwareName   = "keychess.uf2"
)

// Build compiles keychess to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-v", "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Test runs all tests.
func Test() error {
	return sh.RunV(binGo, "test", "./...")
}

// Sim plays a game in the terminal simulator.
func Sim() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binaryDir, binaryName), "play", "--sim", "--log-file", filepath.Join(binaryDir, "sim.log"))
}

// Clean removes build artifacts.
func Clean() error {
	return os.RemoveAll(binaryDir)
}

// Firmware groups the TinyGo targets.
type Firmware mg.Namespace

// Build compiles the Pico firmware to bin/.
func (Firmware) Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binTinyGo, "build", "-target", firmwareTarget, "-o", filepath.Join(binaryDir, firmwareName), firmwareDir)
}

// Flash builds the firmware and flashes a Pico in BOOTSEL mode.
func (Firmware) Flash() error {
	return sh.RunV(binTinyGo, "flash", "-target", firmwareTarget, firmwareDir)
}
