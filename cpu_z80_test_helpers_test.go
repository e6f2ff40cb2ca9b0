package main

import "testing"

type portWrite struct {
	port  uint16
	value byte
}

// z80TestBus is a flat 64 KB RAM with a 64 K port file, no mapping at all.
type z80TestBus struct {
	mem  [0x10000]byte
	io   [0x10000]byte
	outs []portWrite
}

func (b *z80TestBus) Read(addr uint16) byte         { return b.mem[addr] }
func (b *z80TestBus) Write(addr uint16, value byte) { b.mem[addr] = value }
func (b *z80TestBus) In(port uint16) byte           { return b.io[port] }
func (b *z80TestBus) Out(port uint16, value byte) {
	b.io[port] = value
	b.outs = append(b.outs, portWrite{port, value})
}

type cpuZ80TestRig struct {
	cpu *CPU_Z80
	bus *z80TestBus
}

func newCPUZ80TestRig() *cpuZ80TestRig {
	bus := &z80TestBus{}
	return &cpuZ80TestRig{
		cpu: NewCPUZ80(bus),
		bus: bus,
	}
}

// resetAndLoad places a program and zeroes A and F so flag assertions start
// from a clean slate (power-on state sets both to 0xFF).
func (r *cpuZ80TestRig) resetAndLoad(start uint16, program []byte) {
	r.cpu.Reset()
	r.cpu.A, r.cpu.F = 0, 0
	copy(r.bus.mem[start:], program)
	r.cpu.PC = start
	r.bus.outs = nil
}

// step runs one instruction and fails the test on a fault.
func (r *cpuZ80TestRig) step(t *testing.T) int {
	t.Helper()
	cycles, err := r.cpu.Step()
	if err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	return cycles
}

func requireZ80EqualU8(t *testing.T, name string, got, want byte) {
	t.Helper()
	if got != want {
		t.Fatalf("%s = %02X, want %02X", name, got, want)
	}
}

func requireZ80EqualU16(t *testing.T, name string, got, want uint16) {
	t.Helper()
	if got != want {
		t.Fatalf("%s = %04X, want %04X", name, got, want)
	}
}
