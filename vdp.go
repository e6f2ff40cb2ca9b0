// vdp.go - Sega 315-5124 VDP emulation for MasterEngine

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/MasterEngine
License: GPLv3 or later
*/

package main

const (
	vdpScreenWidth  = 256
	vdpScreenHeight = 192

	vdpScanlines     = 262 // NTSC
	vdpVisibleLines  = 192
	vdpCyclesPerLine = 228 // 3579545 / 262 / 60

	vdpStatusFrameInt  = 0x80
	vdpStatusOverflow  = 0x40
	vdpStatusCollision = 0x20
)

// VDP models the command port state machine, VRAM/CRAM, scanline timing and
// the two interrupt sources. Control words arrive in two writes; bits 15:14
// select the command: 0 VRAM read setup, 1 VRAM write setup, 2 register
// write, 3 CRAM write setup.
type VDP struct {
	vram [0x4000]byte
	cram [32]byte
	regs [16]byte

	addr       uint16
	code       byte
	latch      byte
	latchFull  bool
	readBuffer byte

	vcounter    int
	lineCycles  int
	lineCounter byte

	frameInterrupt  bool
	lineInterrupt   bool
	spriteOverflow  bool
	spriteCollision bool

	frameReady  bool
	framebuffer []byte // RGBA
}

func NewVDP() *VDP {
	v := &VDP{}
	v.Reset()
	return v
}

func (v *VDP) Reset() {
	for i := range v.vram {
		v.vram[i] = 0
	}
	for i := range v.cram {
		v.cram[i] = 0
	}
	for i := range v.regs {
		v.regs[i] = 0
	}
	v.addr, v.code = 0, 0
	v.latch, v.latchFull = 0, false
	v.readBuffer = 0
	v.vcounter, v.lineCycles = 0, 0
	v.lineCounter = 0xFF
	v.frameInterrupt, v.lineInterrupt = false, false
	v.spriteOverflow, v.spriteCollision = false, false
	v.frameReady = false
	v.framebuffer = make([]byte, vdpScreenWidth*vdpScreenHeight*4)
}

// WriteControl accepts one half of the two-byte command word. The second
// write commits: a VRAM read setup prefills the data buffer, a register
// write takes the first byte as the value.
func (v *VDP) WriteControl(value byte) {
	if !v.latchFull {
		v.latch = value
		v.latchFull = true
		return
	}
	v.latchFull = false
	v.addr = uint16(value&0x3F)<<8 | uint16(v.latch)
	v.code = value >> 6

	switch v.code {
	case 0:
		v.readBuffer = v.vram[v.addr&0x3FFF]
		v.addr++
	case 2:
		v.writeRegister(value&0x0F, v.latch)
	}
}

func (v *VDP) writeRegister(reg byte, value byte) {
	if reg > 10 {
		return
	}
	v.regs[reg] = value
}

// WriteData stores through the address register with auto-increment. Command
// code 3 targets CRAM (32 entries, wrapping); everything else is VRAM. The
// read buffer shadows data writes.
func (v *VDP) WriteData(value byte) {
	v.latchFull = false
	if v.code == 3 {
		v.cram[v.addr&0x1F] = value
	} else {
		v.vram[v.addr&0x3FFF] = value
	}
	v.readBuffer = value
	v.addr++
}

// ReadData returns the buffered byte and refills the buffer from the current
// address, so sequential reads stream VRAM one byte behind the pointer.
func (v *VDP) ReadData() byte {
	v.latchFull = false
	value := v.readBuffer
	v.readBuffer = v.vram[v.addr&0x3FFF]
	v.addr++
	return value
}

// ReadStatus reports frame interrupt, sprite overflow and sprite collision,
// then clears all of them along with the line interrupt and the control
// latch.
func (v *VDP) ReadStatus() byte {
	var status byte
	if v.frameInterrupt {
		status |= vdpStatusFrameInt
	}
	if v.spriteOverflow {
		status |= vdpStatusOverflow
	}
	if v.spriteCollision {
		status |= vdpStatusCollision
	}
	v.frameInterrupt = false
	v.lineInterrupt = false
	v.spriteOverflow = false
	v.spriteCollision = false
	v.latchFull = false
	return status
}

// VCounter reports the beam line with the NTSC jump from 0xDA back to 0xD5.
func (v *VDP) VCounter() byte {
	if v.vcounter <= 0xDA {
		return byte(v.vcounter)
	}
	return byte(v.vcounter - 6)
}

func (v *VDP) HCounter() byte {
	return byte(v.lineCycles * 256 / vdpCyclesPerLine)
}

// InterruptPending implements the CPU's InterruptSource: either interrupt
// flag, gated by its enable bit.
func (v *VDP) InterruptPending() bool {
	if v.frameInterrupt && v.regs[1]&0x20 != 0 {
		return true
	}
	return v.lineInterrupt && v.regs[0]&0x10 != 0
}

// Step advances the beam by the given number of CPU cycles, rendering
// scanlines as they complete.
func (v *VDP) Step(cycles int) {
	v.lineCycles += cycles
	for v.lineCycles >= vdpCyclesPerLine {
		v.lineCycles -= vdpCyclesPerLine
		v.scanline()
	}
}

func (v *VDP) scanline() {
	if v.vcounter < vdpVisibleLines {
		v.renderLine(v.vcounter)
	}

	// The line counter runs through the active area plus one line; outside
	// it reloads every line from register 10.
	if v.vcounter <= vdpVisibleLines {
		if v.lineCounter == 0 {
			v.lineCounter = v.regs[10]
			v.lineInterrupt = true
		} else {
			v.lineCounter--
		}
	} else {
		v.lineCounter = v.regs[10]
	}

	v.vcounter++
	if v.vcounter == vdpVisibleLines+1 {
		v.frameInterrupt = true
	}
	if v.vcounter == vdpScanlines {
		v.vcounter = 0
		v.frameReady = true
	}
}

// FrameReady reports and clears the end-of-frame latch.
func (v *VDP) FrameReady() bool {
	if !v.frameReady {
		return false
	}
	v.frameReady = false
	return true
}

// Framebuffer exposes the RGBA output of the last rendered frame.
func (v *VDP) Framebuffer() []byte {
	return v.framebuffer
}
