// video_interface.go - Display backend interface for MasterEngine

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/MasterEngine
License: GPLv3 or later
*/

package main

import "fmt"

// VideoError provides detailed error context for video operations
type VideoError struct {
	Operation string // What operation was being attempted
	Details   string // Additional error context
	Err       error  // Underlying error if any
}

func (e *VideoError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("video %s failed: %s: %v", e.Operation, e.Details, e.Err)
	}
	return fmt.Sprintf("video %s failed: %s", e.Operation, e.Details)
}

// DisplayConfig contains hardware-independent configuration
type DisplayConfig struct {
	Width       int
	Height      int
	Scale       int  // Integer scaling factor for output
	RefreshRate int  // Target refresh rate in Hz
	VSync       bool // Whether to sync frame updates to display refresh
	Title       string
}

// VideoOutput is the minimal surface a display backend must implement. The
// machine publishes one RGBA buffer per emulated frame through UpdateFrame
// and paces itself with WaitForVSync.
type VideoOutput interface {
	Start() error
	Stop() error
	Close() error
	IsStarted() bool

	SetDisplayConfig(config DisplayConfig) error
	GetDisplayConfig() DisplayConfig
	UpdateFrame(buffer []byte) error // Raw RGBA pixels only

	WaitForVSync() error
	GetFrameCount() uint64
	GetRefreshRate() int
}

// InputCapable is implemented by backends that can feed the console's
// controllers. pad is the active-high player 1 button mask in port 0xDC
// order; pause reports a pause-button edge.
type InputCapable interface {
	SetInputHandler(fn func(pad byte, pause bool))
}

// Player 1 button bits as wired on joypad port 0xDC (active low on the port
// itself; active high in this mask).
const (
	PadUp byte = 1 << iota
	PadDown
	PadLeft
	PadRight
	PadButton1
	PadButton2
)
