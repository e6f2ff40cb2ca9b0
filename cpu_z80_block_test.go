package main

import "testing"

func TestZ80LDIAndLDIR(t *testing.T) {
	rig := newCPUZ80TestRig()
	rig.resetAndLoad(0x0000, []byte{
		0xED, 0xA0, // LDI
	})
	rig.cpu.A = 0x10
	rig.cpu.SetHL(0x4000)
	rig.cpu.SetDE(0x5000)
	rig.cpu.SetBC(0x0001)
	rig.bus.mem[0x4000] = 0x22
	rig.cpu.F = z80FlagC

	rig.step(t)
	if rig.bus.mem[0x5000] != 0x22 {
		t.Fatalf("mem[0x5000] = %02X, want 22", rig.bus.mem[0x5000])
	}
	requireZ80EqualU16(t, "HL", rig.cpu.HL(), 0x4001)
	requireZ80EqualU16(t, "DE", rig.cpu.DE(), 0x5001)
	requireZ80EqualU16(t, "BC", rig.cpu.BC(), 0x0000)
	requireZ80EqualU8(t, "F", rig.cpu.F, 0x21)
	if rig.cpu.Cycles != 16 {
		t.Fatalf("Cycles = %d, want 16", rig.cpu.Cycles)
	}

	rig.resetAndLoad(0x0000, []byte{
		0xED, 0xB0, // LDIR
	})
	rig.cpu.SetHL(0x4100)
	rig.cpu.SetDE(0x5100)
	rig.cpu.SetBC(0x0002)
	rig.bus.mem[0x4100] = 0x11
	rig.bus.mem[0x4101] = 0x22

	rig.step(t)
	requireZ80EqualU16(t, "BC", rig.cpu.BC(), 0x0001)
	requireZ80EqualU16(t, "PC", rig.cpu.PC, 0x0000)
	if rig.cpu.Cycles != 21 {
		t.Fatalf("Cycles = %d, want 21", rig.cpu.Cycles)
	}

	rig.step(t)
	requireZ80EqualU16(t, "BC", rig.cpu.BC(), 0x0000)
	requireZ80EqualU16(t, "PC", rig.cpu.PC, 0x0002)
	if rig.cpu.Cycles != 37 {
		t.Fatalf("Cycles = %d, want 37", rig.cpu.Cycles)
	}
	if rig.bus.mem[0x5100] != 0x11 || rig.bus.mem[0x5101] != 0x22 {
		t.Fatalf("mem copy failed")
	}
}

// LDIR with a three-byte counter copies exactly three bytes then falls
// through; the repeating steps cost 21 cycles, the final one 16.
func TestZ80LDIRThreeBytes(t *testing.T) {
	rig := newCPUZ80TestRig()
	rig.resetAndLoad(0x0000, []byte{
		0xED, 0xB0, // LDIR
		0x00, // NOP
	})
	rig.cpu.SetHL(0x4000)
	rig.cpu.SetDE(0x5000)
	rig.cpu.SetBC(0x0003)
	copy(rig.bus.mem[0x4000:], []byte{0xAA, 0xBB, 0xCC})
	rig.bus.mem[0x5003] = 0x99

	if got := rig.step(t); got != 21 {
		t.Fatalf("first step = %d cycles, want 21", got)
	}
	if got := rig.step(t); got != 21 {
		t.Fatalf("second step = %d cycles, want 21", got)
	}
	if got := rig.step(t); got != 16 {
		t.Fatalf("final step = %d cycles, want 16", got)
	}

	requireZ80EqualU16(t, "BC", rig.cpu.BC(), 0x0000)
	requireZ80EqualU16(t, "HL", rig.cpu.HL(), 0x4003)
	requireZ80EqualU16(t, "DE", rig.cpu.DE(), 0x5003)
	requireZ80EqualU16(t, "PC", rig.cpu.PC, 0x0002)
	for i, want := range []byte{0xAA, 0xBB, 0xCC} {
		if got := rig.bus.mem[0x5000+i]; got != want {
			t.Fatalf("mem[0x%04X] = %02X, want %02X", 0x5000+i, got, want)
		}
	}
	if rig.bus.mem[0x5003] != 0x99 {
		t.Fatalf("LDIR overran its counter")
	}
	if rig.cpu.Flag(z80FlagPV) {
		t.Fatalf("PV must clear when the counter exhausts")
	}

	rig.step(t)
	requireZ80EqualU16(t, "PC", rig.cpu.PC, 0x0003)
}

func TestZ80LDDAndLDDR(t *testing.T) {
	rig := newCPUZ80TestRig()
	rig.resetAndLoad(0x0000, []byte{
		0xED, 0xA8, // LDD
	})
	rig.cpu.SetHL(0x4201)
	rig.cpu.SetDE(0x5201)
	rig.cpu.SetBC(0x0001)
	rig.bus.mem[0x4201] = 0x33

	rig.step(t)
	if rig.bus.mem[0x5201] != 0x33 {
		t.Fatalf("mem[0x5201] = %02X, want 33", rig.bus.mem[0x5201])
	}
	requireZ80EqualU16(t, "HL", rig.cpu.HL(), 0x4200)
	requireZ80EqualU16(t, "DE", rig.cpu.DE(), 0x5200)
	requireZ80EqualU16(t, "BC", rig.cpu.BC(), 0x0000)

	rig.resetAndLoad(0x0000, []byte{
		0xED, 0xB8, // LDDR
	})
	rig.cpu.SetHL(0x4301)
	rig.cpu.SetDE(0x5301)
	rig.cpu.SetBC(0x0002)
	rig.bus.mem[0x4301] = 0x44
	rig.bus.mem[0x4300] = 0x55

	rig.step(t)
	requireZ80EqualU16(t, "BC", rig.cpu.BC(), 0x0001)
	requireZ80EqualU16(t, "PC", rig.cpu.PC, 0x0000)

	rig.step(t)
	requireZ80EqualU16(t, "BC", rig.cpu.BC(), 0x0000)
	requireZ80EqualU16(t, "HL", rig.cpu.HL(), 0x42FF)
	requireZ80EqualU16(t, "DE", rig.cpu.DE(), 0x52FF)
	requireZ80EqualU16(t, "PC", rig.cpu.PC, 0x0002)
	if rig.bus.mem[0x5301] != 0x44 || rig.bus.mem[0x5300] != 0x55 {
		t.Fatalf("mem copy failed")
	}
}

func TestZ80CPIAndCPIR(t *testing.T) {
	rig := newCPUZ80TestRig()
	rig.resetAndLoad(0x0000, []byte{
		0xED, 0xA1, // CPI
	})
	rig.cpu.A = 0x20
	rig.cpu.SetHL(0x4400)
	rig.cpu.SetBC(0x0001)
	rig.bus.mem[0x4400] = 0x10

	rig.step(t)
	requireZ80EqualU16(t, "BC", rig.cpu.BC(), 0x0000)
	requireZ80EqualU16(t, "HL", rig.cpu.HL(), 0x4401)
	if rig.cpu.Flag(z80FlagZ) {
		t.Fatalf("Z must clear on mismatch")
	}
	if rig.cpu.Flag(z80FlagPV) {
		t.Fatalf("PV must clear when the counter exhausts")
	}

	rig.resetAndLoad(0x0000, []byte{
		0xED, 0xB1, // CPIR
	})
	rig.cpu.A = 0x20
	rig.cpu.SetHL(0x4500)
	rig.cpu.SetBC(0x0003)
	rig.bus.mem[0x4500] = 0x10
	rig.bus.mem[0x4501] = 0x20
	rig.bus.mem[0x4502] = 0x30

	if got := rig.step(t); got != 21 {
		t.Fatalf("first step = %d cycles, want 21", got)
	}
	requireZ80EqualU16(t, "PC", rig.cpu.PC, 0x0000)

	// Second iteration hits the match and stops despite BC holding
	if got := rig.step(t); got != 16 {
		t.Fatalf("matching step = %d cycles, want 16", got)
	}
	requireZ80EqualU16(t, "BC", rig.cpu.BC(), 0x0001)
	requireZ80EqualU16(t, "HL", rig.cpu.HL(), 0x4502)
	requireZ80EqualU16(t, "PC", rig.cpu.PC, 0x0002)
	if !rig.cpu.Flag(z80FlagZ) {
		t.Fatalf("Z should be set after match")
	}
}
