package main

import "testing"

func vdpSetAddr(v *VDP, addr uint16, code byte) {
	v.WriteControl(byte(addr))
	v.WriteControl(code<<6 | byte(addr>>8)&0x3F)
}

func vdpSetReg(v *VDP, reg, value byte) {
	v.WriteControl(value)
	v.WriteControl(0x80 | reg)
}

func TestVDPRegisterWrite(t *testing.T) {
	v := NewVDP()
	vdpSetReg(v, 1, 0x60)
	if v.regs[1] != 0x60 {
		t.Fatalf("regs[1] = %02X, want 60", v.regs[1])
	}

	// registers above 10 do not exist
	vdpSetReg(v, 15, 0xAA)
	for i, r := range v.regs {
		if i != 1 && r != 0 {
			t.Fatalf("regs[%d] = %02X, want 0", i, r)
		}
	}
}

func TestVDPVRAMWriteAndBufferedRead(t *testing.T) {
	v := NewVDP()
	vdpSetAddr(v, 0x1000, 1)
	v.WriteData(0x11)
	v.WriteData(0x22)
	v.WriteData(0x33)
	if v.vram[0x1000] != 0x11 || v.vram[0x1002] != 0x33 {
		t.Fatalf("vram = % X, want 11 22 33", v.vram[0x1000:0x1003])
	}

	// a read setup prefills the buffer; each read returns the previous byte
	vdpSetAddr(v, 0x1000, 0)
	if got := v.ReadData(); got != 0x11 {
		t.Fatalf("first read = %02X, want 11", got)
	}
	if got := v.ReadData(); got != 0x22 {
		t.Fatalf("second read = %02X, want 22", got)
	}
	if got := v.ReadData(); got != 0x33 {
		t.Fatalf("third read = %02X, want 33", got)
	}
}

func TestVDPCRAMWrite(t *testing.T) {
	v := NewVDP()
	vdpSetAddr(v, 0x0002, 3)
	v.WriteData(0x3F)
	if v.cram[2] != 0x3F {
		t.Fatalf("cram[2] = %02X, want 3F", v.cram[2])
	}

	// CRAM wraps at 32 entries
	vdpSetAddr(v, 0x0021, 3)
	v.WriteData(0x15)
	if v.cram[1] != 0x15 {
		t.Fatalf("cram[1] = %02X, want 15", v.cram[1])
	}
}

// An interleaved control write must restart the two-byte latch.
func TestVDPControlLatchResets(t *testing.T) {
	v := NewVDP()
	v.WriteControl(0x34)
	v.ReadStatus() // drops the half-written latch
	vdpSetAddr(v, 0x2000, 1)
	v.WriteData(0x77)
	if v.vram[0x2000] != 0x77 {
		t.Fatalf("vram[0x2000] = %02X, want 77", v.vram[0x2000])
	}
}

func TestVDPFrameInterruptTiming(t *testing.T) {
	v := NewVDP()
	vdpSetReg(v, 1, 0x20) // frame interrupt enable

	// one line short of the vblank boundary: nothing pending
	v.Step(vdpCyclesPerLine * (vdpVisibleLines))
	if v.InterruptPending() {
		t.Fatalf("no interrupt expected before line %d", vdpVisibleLines+1)
	}

	v.Step(vdpCyclesPerLine)
	if !v.InterruptPending() {
		t.Fatalf("frame interrupt expected at vblank start")
	}

	if got := v.ReadStatus(); got&vdpStatusFrameInt == 0 {
		t.Fatalf("status = %02X, want the frame bit set", got)
	}
	if v.InterruptPending() {
		t.Fatalf("status read must clear the interrupt")
	}
	if got := v.ReadStatus(); got&vdpStatusFrameInt != 0 {
		t.Fatalf("status = %02X, want the frame bit cleared", got)
	}
}

// The interrupt line stays low when the enable bit is off, even with the
// status flag raised.
func TestVDPInterruptGating(t *testing.T) {
	v := NewVDP()
	v.Step(vdpCyclesPerLine * vdpScanlines)
	if v.InterruptPending() {
		t.Fatalf("interrupt must be gated by register 1 bit 5")
	}
	if got := v.ReadStatus(); got&vdpStatusFrameInt == 0 {
		t.Fatalf("status = %02X, the flag itself must still latch", got)
	}
}

func TestVDPLineInterrupt(t *testing.T) {
	v := NewVDP()
	vdpSetReg(v, 0, 0x10) // line interrupt enable
	vdpSetReg(v, 10, 0)   // reload value zero fires every active line

	// during vblank the counter reloads each line, so the first active line
	// of the next frame underflows it
	v.Step(vdpCyclesPerLine * (vdpScanlines + 1))
	if !v.InterruptPending() {
		t.Fatalf("line interrupt expected on the first active line")
	}
	v.ReadStatus()
	if v.InterruptPending() {
		t.Fatalf("status read must clear the line interrupt")
	}
}

func TestVDPFrameReady(t *testing.T) {
	v := NewVDP()
	v.Step(vdpCyclesPerLine*vdpScanlines - 1)
	if v.FrameReady() {
		t.Fatalf("frame must not complete early")
	}
	v.Step(1)
	if !v.FrameReady() {
		t.Fatalf("frame must complete after %d lines", vdpScanlines)
	}
	if v.FrameReady() {
		t.Fatalf("FrameReady must clear on read")
	}
}

func TestVDPCounters(t *testing.T) {
	v := NewVDP()
	v.Step(vdpCyclesPerLine * 10)
	if got := v.VCounter(); got != 10 {
		t.Fatalf("VCounter = %02X, want 0A", got)
	}

	// the NTSC counter jumps from 0xDA back to 0xD5
	v.Step(vdpCyclesPerLine * (0xDB - 10))
	if got := v.VCounter(); got != 0xD5 {
		t.Fatalf("VCounter = %02X, want D5", got)
	}

	v.Step(vdpCyclesPerLine / 2)
	if got := v.HCounter(); got != 128 {
		t.Fatalf("HCounter = %d, want 128", got)
	}
}

func TestVDPRenderBlankedLine(t *testing.T) {
	v := NewVDP()
	vdpSetReg(v, 7, 0x01) // backdrop colour index 1 of the sprite palette
	vdpSetAddr(v, 0x0011, 3)
	v.WriteData(0x03) // full red

	v.Step(vdpCyclesPerLine)
	fb := v.Framebuffer()
	if fb[0] != 255 || fb[1] != 0 || fb[2] != 0 || fb[3] != 255 {
		t.Fatalf("pixel = % X, want FF 00 00 FF", fb[:4])
	}
}

func TestVDPRenderBackgroundTile(t *testing.T) {
	v := NewVDP()
	vdpSetReg(v, 1, 0x40) // display on
	vdpSetReg(v, 2, 0xFF) // name table at 0x3800

	// tile 1, row 0, plane 0 all ones: colour 1 across the row
	vdpSetAddr(v, 32, 1)
	v.WriteData(0xFF)

	// name table entry 0 selects tile 1
	vdpSetAddr(v, 0x3800, 1)
	v.WriteData(0x01)
	v.WriteData(0x00)

	// background palette entry 1: full blue
	vdpSetAddr(v, 0x0001, 3)
	v.WriteData(0x30)

	v.Step(vdpCyclesPerLine)
	fb := v.Framebuffer()
	if fb[0] != 0 || fb[1] != 0 || fb[2] != 255 {
		t.Fatalf("pixel 0 = % X, want 00 00 FF", fb[:3])
	}
	// past the first tile the pattern table is all zeroes
	off := 8 * 4
	if fb[off] != 0 || fb[off+2] != 0 {
		t.Fatalf("pixel 8 = % X, want black", fb[off:off+3])
	}
}

func TestVDPRenderSprite(t *testing.T) {
	v := NewVDP()
	vdpSetReg(v, 1, 0x40) // display on
	vdpSetReg(v, 5, 0x7F) // SAT at 0x3F00

	// sprite 0: y=0 puts the first row on line 1; x=10, tile 2
	vdpSetAddr(v, 0x3F00, 1)
	v.WriteData(0x00)
	v.WriteData(0xD0) // terminator right after
	vdpSetAddr(v, 0x3F80, 1)
	v.WriteData(10)
	v.WriteData(2)

	// tile 2, row 0, plane 0: leftmost pixel only
	vdpSetAddr(v, 64, 1)
	v.WriteData(0x80)

	// sprite palette entry 1: full green
	vdpSetAddr(v, 0x0011, 3)
	v.WriteData(0x0C)

	v.Step(vdpCyclesPerLine * 2)
	fb := v.Framebuffer()
	off := (1*vdpScreenWidth + 10) * 4
	if fb[off] != 0 || fb[off+1] != 255 || fb[off+2] != 0 {
		t.Fatalf("sprite pixel = % X, want 00 FF 00", fb[off:off+3])
	}
	// the pixel one to the right is transparent sprite colour 0
	if fb[off+4] != 0 || fb[off+5] != 0 {
		t.Fatalf("pixel right of sprite = % X, want black", fb[off+4:off+7])
	}
}
