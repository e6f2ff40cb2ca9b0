// video_backend_ebiten.go - Ebiten display backend for MasterEngine

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/MasterEngine
License: GPLv3 or later
*/

//go:build !headless

package main

import (
	"fmt"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

type EbitenOutput struct {
	running     bool
	width       int
	height      int
	scale       int
	title       string
	frameBuffer []byte
	bufferMutex sync.RWMutex
	frameCount  uint64
	refreshRate int
	vsyncChan   chan struct{}
	done        chan struct{}

	inputHandler  func(pad byte, pause bool)
	showStatusBar bool
}

func NewEbitenOutput() (VideoOutput, error) {
	return &EbitenOutput{
		width:         256,
		height:        192,
		scale:         3,
		title:         "MasterEngine (c) 2024 - 2026 Zayn Otley",
		frameBuffer:   make([]byte, 256*192*4),
		refreshRate:   60,
		vsyncChan:     make(chan struct{}, 1),
		done:          make(chan struct{}),
		showStatusBar: true,
	}, nil
}

func (eo *EbitenOutput) Start() error {
	if eo.running {
		return nil
	}
	eo.bufferMutex.Lock()
	eo.done = make(chan struct{})
	eo.bufferMutex.Unlock()
	eo.running = true
	ebiten.SetWindowSize(eo.width*eo.scale, eo.height*eo.scale)
	ebiten.SetWindowTitle(eo.title)
	ebiten.SetWindowResizable(true)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetVsyncEnabled(true)

	go func() {
		defer func() {
			eo.running = false
			eo.bufferMutex.RLock()
			done := eo.done
			eo.bufferMutex.RUnlock()
			select {
			case <-done:
			default:
				close(done)
			}
		}()
		if err := ebiten.RunGame(eo); err != nil {
			fmt.Printf("Ebiten error: %v\n", err)
		}
	}()

	// Wait for first Draw call to ensure Ebiten is ready
	<-eo.vsyncChan
	return nil
}

func (eo *EbitenOutput) Stop() error {
	eo.running = false
	return nil
}

func (eo *EbitenOutput) Close() error {
	return eo.Stop()
}

// Done is closed when the window goes away; the machine loop selects on it.
func (eo *EbitenOutput) Done() <-chan struct{} {
	eo.bufferMutex.RLock()
	defer eo.bufferMutex.RUnlock()
	return eo.done
}

func (eo *EbitenOutput) IsStarted() bool {
	return eo.running
}

func (eo *EbitenOutput) SetDisplayConfig(config DisplayConfig) error {
	if config.Width <= 0 || config.Height <= 0 {
		return &VideoError{Operation: "configure", Details: "non-positive dimensions"}
	}
	eo.bufferMutex.Lock()
	defer eo.bufferMutex.Unlock()
	eo.width = config.Width
	eo.height = config.Height
	if config.Scale > 0 {
		eo.scale = config.Scale
	}
	if config.RefreshRate > 0 {
		eo.refreshRate = config.RefreshRate
	}
	if config.Title != "" {
		eo.title = config.Title
	}
	eo.frameBuffer = make([]byte, eo.width*eo.height*4)
	if eo.running {
		ebiten.SetWindowSize(eo.width*eo.scale, eo.height*eo.scale)
		ebiten.SetWindowTitle(eo.title)
	}
	return nil
}

func (eo *EbitenOutput) GetDisplayConfig() DisplayConfig {
	eo.bufferMutex.RLock()
	defer eo.bufferMutex.RUnlock()
	return DisplayConfig{
		Width:       eo.width,
		Height:      eo.height,
		Scale:       eo.scale,
		RefreshRate: eo.refreshRate,
		VSync:       true,
		Title:       eo.title,
	}
}

func (eo *EbitenOutput) UpdateFrame(data []byte) error {
	eo.bufferMutex.Lock()
	defer eo.bufferMutex.Unlock()
	if len(data) != len(eo.frameBuffer) {
		return &VideoError{
			Operation: "frame update",
			Details:   fmt.Sprintf("buffer size %d, want %d", len(data), len(eo.frameBuffer)),
		}
	}
	copy(eo.frameBuffer, data)
	return nil
}

func (eo *EbitenOutput) WaitForVSync() error {
	if !eo.running {
		return nil
	}
	<-eo.vsyncChan
	return nil
}

func (eo *EbitenOutput) GetFrameCount() uint64 {
	eo.bufferMutex.RLock()
	defer eo.bufferMutex.RUnlock()
	return eo.frameCount
}

func (eo *EbitenOutput) GetRefreshRate() int {
	return eo.refreshRate
}

func (eo *EbitenOutput) SetInputHandler(fn func(pad byte, pause bool)) {
	eo.inputHandler = fn
}

// Update polls the keyboard once per display frame and forwards the pad
// state. Arrows steer, Z and X are buttons 1 and 2, Enter is the console's
// pause button, Tab toggles the status bar.
func (eo *EbitenOutput) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		eo.showStatusBar = !eo.showStatusBar
	}
	if eo.inputHandler == nil {
		return nil
	}
	var pad byte
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		pad |= PadUp
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		pad |= PadDown
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		pad |= PadLeft
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		pad |= PadRight
	}
	if ebiten.IsKeyPressed(ebiten.KeyZ) {
		pad |= PadButton1
	}
	if ebiten.IsKeyPressed(ebiten.KeyX) {
		pad |= PadButton2
	}
	pause := inpututil.IsKeyJustPressed(ebiten.KeyEnter)
	eo.inputHandler(pad, pause)
	return nil
}

func (eo *EbitenOutput) Draw(screen *ebiten.Image) {
	eo.bufferMutex.RLock()
	screen.WritePixels(eo.frameBuffer)
	eo.frameCount++
	eo.bufferMutex.RUnlock()

	if eo.showStatusBar {
		eo.drawStatusBar(screen)
	}

	select {
	case eo.vsyncChan <- struct{}{}:
	default:
	}
}

func (eo *EbitenOutput) drawStatusBar(screen *ebiten.Image) {
	msg := fmt.Sprintf("%.0f fps  frame %d", ebiten.ActualFPS(), eo.frameCount)
	text.Draw(screen, msg, basicfont.Face7x13, 4, eo.height-4, color.White)
}

func (eo *EbitenOutput) Layout(_, _ int) (int, int) {
	return eo.width, eo.height
}
