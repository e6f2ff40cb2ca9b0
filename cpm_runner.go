// cpm_runner.go - CP/M program harness for CPU conformance runs

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/MasterEngine
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"io"
	"os"
)

// cpmBus is a flat 64 KB RAM with dead I/O ports, enough CP/M for the
// classic instruction exercisers.
type cpmBus struct {
	mem [0x10000]byte
}

func (b *cpmBus) Read(addr uint16) byte         { return b.mem[addr] }
func (b *cpmBus) Write(addr uint16, value byte) { b.mem[addr] = value }
func (b *cpmBus) In(port uint16) byte           { return 0xFF }
func (b *cpmBus) Out(port uint16, value byte)   {}

// CPMRunner loads a .com image at 0x0100 and runs it with the two BDOS
// console calls trapped at 0x0005: function 2 prints E, function 9 prints
// the $-terminated string at DE. A jump to 0x0000 ends the run.
type CPMRunner struct {
	bus *cpmBus
	cpu *CPU_Z80
	out io.Writer
}

func NewCPMRunner(out io.Writer) *CPMRunner {
	bus := &cpmBus{}
	return &CPMRunner{
		bus: bus,
		cpu: NewCPUZ80(bus),
		out: out,
	}
}

func (r *CPMRunner) CPU() *CPU_Z80 { return r.cpu }

func (r *CPMRunner) Load(program []byte) error {
	if len(program) > 0x10000-0x0100 {
		return fmt.Errorf("cpm: program is %d bytes, does not fit above 0x0100", len(program))
	}
	r.cpu.Reset()
	copy(r.bus.mem[0x0100:], program)
	r.bus.mem[0x0005] = 0xC9 // RET backing the BDOS trap
	r.cpu.PC = 0x0100
	r.cpu.SP = 0xF000
	return nil
}

func (r *CPMRunner) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cpm: reading %s: %w", path, err)
	}
	return r.Load(data)
}

// Run executes until warm boot (PC 0x0000) or the step limit. Zero means no
// limit; the exercisers need billions of cycles but bounded tests do not.
func (r *CPMRunner) Run(maxSteps uint64) error {
	var steps uint64
	for {
		switch r.cpu.PC {
		case 0x0000:
			return nil
		case 0x0005:
			r.bdos()
		}
		if _, err := r.cpu.Step(); err != nil {
			return err
		}
		steps++
		if maxSteps != 0 && steps >= maxSteps {
			return fmt.Errorf("cpm: no warm boot after %d steps", steps)
		}
	}
}

func (r *CPMRunner) bdos() {
	switch r.cpu.C {
	case 2:
		fmt.Fprintf(r.out, "%c", r.cpu.E)
	case 9:
		addr := r.cpu.DE()
		for {
			ch := r.bus.mem[addr]
			if ch == '$' {
				break
			}
			fmt.Fprintf(r.out, "%c", ch)
			addr++
		}
	}
}
