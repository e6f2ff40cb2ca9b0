// machine.go - Console wiring and frame loop for MasterEngine

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/MasterEngine
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"log"
)

// Machine wires CPU, bus and VDP into a console. One RunFrame call executes
// instructions, feeding each instruction's cycles to the VDP, until the beam
// wraps; the VDP's interrupt line is polled by the CPU at every instruction
// boundary.
type Machine struct {
	cpu   *CPU_Z80
	bus   *SMSBus
	vdp   *VDP
	video VideoOutput

	script *ScriptHost
	trace  bool
	frames uint64
}

func NewMachine(cart *Cartridge, bios []byte) *Machine {
	vdp := NewVDP()
	bus := NewSMSBus(cart, bios, vdp)
	cpu := NewCPUZ80(bus)
	cpu.AttachInterruptSource(vdp)
	return &Machine{cpu: cpu, bus: bus, vdp: vdp}
}

func (m *Machine) CPU() *CPU_Z80 { return m.cpu }
func (m *Machine) VDP() *VDP     { return m.vdp }

// Peek and Poke give scripts and tests direct bus access.
func (m *Machine) Peek(addr uint16) byte        { return m.bus.Read(addr) }
func (m *Machine) Poke(addr uint16, value byte) { m.bus.Write(addr, value) }

func (m *Machine) SetTrace(on bool) { m.trace = on }

// AttachVideo connects a display backend and, when the backend can, routes
// its input to the joypad port and the pause button to NMI.
func (m *Machine) AttachVideo(out VideoOutput) error {
	if err := out.SetDisplayConfig(DisplayConfig{
		Width:       vdpScreenWidth,
		Height:      vdpScreenHeight,
		Scale:       3,
		RefreshRate: 60,
		VSync:       true,
		Title:       "MasterEngine (c) 2024 - 2026 Zayn Otley",
	}); err != nil {
		return err
	}
	if in, ok := out.(InputCapable); ok {
		in.SetInputHandler(func(pad byte, pause bool) {
			m.bus.SetJoypad(pad)
			if pause {
				m.cpu.SetNMI()
			}
		})
	}
	m.video = out
	return nil
}

// AttachScript loads a Lua automation script whose frame() hook runs once
// per emulated frame.
func (m *Machine) AttachScript(path string) error {
	host, err := NewScriptHost(m, path)
	if err != nil {
		return err
	}
	m.script = host
	return nil
}

// RunFrame executes one full video frame and publishes it.
func (m *Machine) RunFrame() error {
	for {
		if m.trace {
			m.traceStep()
		}
		cycles, err := m.cpu.Step()
		if err != nil {
			return fmt.Errorf("machine: frame %d: %w", m.frames, err)
		}
		m.vdp.Step(cycles)
		if m.vdp.FrameReady() {
			break
		}
	}
	m.frames++
	if m.video != nil {
		if err := m.video.UpdateFrame(m.vdp.Framebuffer()); err != nil {
			return err
		}
	}
	if m.script != nil {
		if err := m.script.OnFrame(); err != nil {
			return fmt.Errorf("machine: frame %d: %w", m.frames, err)
		}
	}
	return nil
}

// Run drives frames against the display until the window closes or the CPU
// faults.
func (m *Machine) Run() error {
	if m.video == nil {
		return fmt.Errorf("machine: no video output attached")
	}
	if err := m.video.Start(); err != nil {
		return err
	}
	defer m.video.Stop()
	if m.script != nil {
		defer m.script.Close()
	}

	for m.video.IsStarted() {
		if err := m.RunFrame(); err != nil {
			return err
		}
		if err := m.video.WaitForVSync(); err != nil {
			return err
		}
	}
	return nil
}

func (m *Machine) traceStep() {
	c := m.cpu
	log.Printf("PC=%04X AF=%04X BC=%04X DE=%04X HL=%04X SP=%04X IX=%04X IY=%04X op=%02X",
		c.PC, c.AF(), c.BC(), c.DE(), c.HL(), c.SP, c.IX, c.IY, m.bus.Read(c.PC))
}
