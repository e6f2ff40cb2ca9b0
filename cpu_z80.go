package main

import "fmt"

// Z80Bus is the memory and I/O surface the CPU core runs against. The core
// performs no I/O of its own; every byte in or out crosses this interface.
type Z80Bus interface {
	Read(addr uint16) byte
	Write(addr uint16, value byte)
	In(port uint16) byte
	Out(port uint16, value byte)
}

// InterruptSource is polled at each instruction boundary. The VDP implements
// it; tests use a plain bool latch.
type InterruptSource interface {
	InterruptPending() bool
}

// OpcodeFault is latched when decode reaches an opcode with no defined
// behavior. Once latched, Step returns it on every call until Reset.
type OpcodeFault struct {
	Addr   uint16
	Prefix byte
	Opcode byte
}

func (f *OpcodeFault) Error() string {
	if f.Prefix != 0 {
		return fmt.Sprintf("z80: undecodable opcode %02X %02X at %04X", f.Prefix, f.Opcode, f.Addr)
	}
	return fmt.Sprintf("z80: undecodable opcode %02X at %04X", f.Opcode, f.Addr)
}

// InterruptModeFault is latched when a program selects an interrupt mode
// other than 1. Mode 1 is the only mode this machine services.
type InterruptModeFault struct {
	Addr uint16
	Mode byte
}

func (f *InterruptModeFault) Error() string {
	return fmt.Sprintf("z80: unsupported interrupt mode %d selected at %04X", f.Mode, f.Addr)
}

type z80Handler func(*CPU_Z80) int

type CPU_Z80 struct {
	// Hot path registers (most frequently accessed)
	A  byte
	F  byte
	B  byte
	C  byte
	D  byte
	E  byte
	H  byte
	L  byte
	A2 byte
	F2 byte
	B2 byte
	C2 byte
	D2 byte
	E2 byte
	H2 byte
	L2 byte

	IX uint16
	IY uint16
	SP uint16
	PC uint16

	I  byte // interrupt vector base
	R  byte // refresh counter, low 7 bits count, top bit preserved
	IM byte

	IFF1 bool
	IFF2 bool

	Halted bool

	// WZ holds the last computed effective address; disp the last fetched
	// index displacement, reused by the DDCB/FDCB suffix dispatch.
	WZ   uint16
	disp int8

	iffDelay   int
	irqPending bool
	nmiPending bool
	irqSource  InterruptSource

	Cycles uint64

	fault error

	bus Z80Bus

	baseOps [256]z80Handler
	cbOps   [256]z80Handler
	edOps   [256]z80Handler
	ddOps   [256]z80Handler
	fdOps   [256]z80Handler
}

func NewCPUZ80(bus Z80Bus) *CPU_Z80 {
	c := &CPU_Z80{bus: bus}
	c.initBaseOps()
	c.initCBOps()
	c.initEDOps()
	c.initIndexOps(&c.ddOps, ixReg)
	c.initIndexOps(&c.fdOps, iyReg)
	c.Reset()
	return c
}

// AttachInterruptSource wires the device whose pending line is polled at each
// instruction boundary.
func (c *CPU_Z80) AttachInterruptSource(src InterruptSource) {
	c.irqSource = src
}

// Reset restores power-on state: A and F all ones, SP at the top of memory,
// everything else zero. The boot ROM relies on exactly this.
func (c *CPU_Z80) Reset() {
	c.A, c.F = 0xFF, 0xFF
	c.B, c.C, c.D, c.E, c.H, c.L = 0, 0, 0, 0, 0, 0
	c.A2, c.F2, c.B2, c.C2, c.D2, c.E2, c.H2, c.L2 = 0, 0, 0, 0, 0, 0, 0, 0
	c.IX, c.IY = 0, 0
	c.SP = 0xFFFF
	c.PC = 0
	c.I, c.R = 0, 0
	c.IM = 1
	c.IFF1, c.IFF2 = false, false
	c.Halted = false
	c.WZ, c.disp = 0, 0
	c.iffDelay = 0
	c.irqPending, c.nmiPending = false, false
	c.Cycles = 0
	c.fault = nil
}

// SetIRQ drives the maskable interrupt latch directly. Machines with a live
// interrupt source attached do not need it; tests and the CP/M runner do.
func (c *CPU_Z80) SetIRQ(pending bool) { c.irqPending = pending }

// SetNMI latches a non-maskable interrupt edge.
func (c *CPU_Z80) SetNMI() { c.nmiPending = true }

// Fault returns the latched unrecoverable fault, if any.
func (c *CPU_Z80) Fault() error { return c.fault }

// Step executes exactly one instruction and returns its duration in clock
// cycles, including any interrupt service appended at the instruction
// boundary. A decode fault is returned and latched; further calls keep
// returning it.
func (c *CPU_Z80) Step() (int, error) {
	if c.fault != nil {
		return 0, c.fault
	}

	// EI takes effect only after the following instruction has run; the
	// promotion happens here so this step's boundary check sees it but the
	// instruction itself runs first.
	if c.iffDelay > 0 {
		c.iffDelay--
		if c.iffDelay == 0 {
			c.IFF1, c.IFF2 = true, true
		}
	}

	var cycles int
	if c.Halted {
		c.refreshInc()
		cycles = 4
	} else {
		opcode := c.fetchOpcode()
		cycles = c.baseOps[opcode](c)
		if c.fault != nil {
			c.Cycles += uint64(cycles)
			return cycles, c.fault
		}
	}

	cycles += c.checkInterrupts()
	c.Cycles += uint64(cycles)
	return cycles, nil
}

func (c *CPU_Z80) checkInterrupts() int {
	if c.nmiPending {
		c.nmiPending = false
		c.Halted = false
		c.IFF2 = c.IFF1
		c.IFF1 = false
		c.pushWord(c.PC)
		c.PC = 0x0066
		return 11
	}
	if !c.IFF1 {
		return 0
	}
	if !c.irqPending && (c.irqSource == nil || !c.irqSource.InterruptPending()) {
		return 0
	}
	c.irqPending = false
	c.Halted = false
	c.IFF1, c.IFF2 = false, false
	c.pushWord(c.PC)
	c.PC = 0x0038
	return 13
}

func (c *CPU_Z80) refreshInc() {
	c.R = (c.R & 0x80) | ((c.R + 1) & 0x7F)
}

// fetchOpcode reads the next instruction byte and ticks the refresh counter.
// Prefix bytes count as fetches, so a DD CB sequence advances R twice before
// the displacement.
func (c *CPU_Z80) fetchOpcode() byte {
	op := c.bus.Read(c.PC)
	c.PC++
	c.refreshInc()
	return op
}

func (c *CPU_Z80) fetchByte() byte {
	v := c.bus.Read(c.PC)
	c.PC++
	return v
}

func (c *CPU_Z80) fetchWord() uint16 {
	lo := uint16(c.fetchByte())
	hi := uint16(c.fetchByte())
	return hi<<8 | lo
}

func (c *CPU_Z80) readWord(addr uint16) uint16 {
	lo := uint16(c.bus.Read(addr))
	hi := uint16(c.bus.Read(addr + 1))
	return hi<<8 | lo
}

func (c *CPU_Z80) writeWord(addr uint16, v uint16) {
	c.bus.Write(addr, byte(v))
	c.bus.Write(addr+1, byte(v>>8))
}

func (c *CPU_Z80) pushWord(v uint16) {
	c.SP--
	c.bus.Write(c.SP, byte(v>>8))
	c.SP--
	c.bus.Write(c.SP, byte(v))
}

func (c *CPU_Z80) popWord() uint16 {
	lo := uint16(c.bus.Read(c.SP))
	c.SP++
	hi := uint16(c.bus.Read(c.SP))
	c.SP++
	return hi<<8 | lo
}

// Register pair views. The byte cells are the single source of truth; the
// 16-bit pairs exist only as these computed accessors, so writing a half is
// always visible through the pair and vice versa.

func (c *CPU_Z80) AF() uint16 { return uint16(c.A)<<8 | uint16(c.F) }
func (c *CPU_Z80) BC() uint16 { return uint16(c.B)<<8 | uint16(c.C) }
func (c *CPU_Z80) DE() uint16 { return uint16(c.D)<<8 | uint16(c.E) }
func (c *CPU_Z80) HL() uint16 { return uint16(c.H)<<8 | uint16(c.L) }

func (c *CPU_Z80) SetAF(v uint16) { c.A, c.F = byte(v>>8), byte(v) }
func (c *CPU_Z80) SetBC(v uint16) { c.B, c.C = byte(v>>8), byte(v) }
func (c *CPU_Z80) SetDE(v uint16) { c.D, c.E = byte(v>>8), byte(v) }
func (c *CPU_Z80) SetHL(v uint16) { c.H, c.L = byte(v>>8), byte(v) }

// reg8 maps the three-bit register field of an opcode to a register. Index 6
// is the memory form and never reaches these.
func (c *CPU_Z80) reg8(i byte) byte {
	switch i {
	case 0:
		return c.B
	case 1:
		return c.C
	case 2:
		return c.D
	case 3:
		return c.E
	case 4:
		return c.H
	case 5:
		return c.L
	default:
		return c.A
	}
}

func (c *CPU_Z80) setReg8(i byte, v byte) {
	switch i {
	case 0:
		c.B = v
	case 1:
		c.C = v
	case 2:
		c.D = v
	case 3:
		c.E = v
	case 4:
		c.H = v
	case 5:
		c.L = v
	default:
		c.A = v
	}
}

// Addressing modes resolved by effectiveAddr. Indexed modes take the index
// register value; z80AddrIndexedHeld reuses the displacement fetched by the
// DDCB/FDCB prefix instead of consuming a new one.
type z80AddrMode int

const (
	z80AddrBC z80AddrMode = iota
	z80AddrDE
	z80AddrHL
	z80AddrExt
	z80AddrIndexed
	z80AddrIndexedHeld
)

func (c *CPU_Z80) effectiveAddr(mode z80AddrMode, idx uint16) uint16 {
	switch mode {
	case z80AddrBC:
		c.WZ = c.BC()
	case z80AddrDE:
		c.WZ = c.DE()
	case z80AddrHL:
		c.WZ = c.HL()
	case z80AddrExt:
		c.WZ = c.fetchWord()
	case z80AddrIndexed:
		c.disp = int8(c.fetchByte())
		c.WZ = idx + uint16(int16(c.disp))
	case z80AddrIndexedHeld:
		c.WZ = idx + uint16(int16(c.disp))
	}
	return c.WZ
}

func (c *CPU_Z80) faultOpcode(addr uint16, prefix, opcode byte) int {
	c.fault = &OpcodeFault{Addr: addr, Prefix: prefix, Opcode: opcode}
	return 0
}

func (c *CPU_Z80) faultInterruptMode(mode byte) int {
	c.fault = &InterruptModeFault{Addr: c.PC - 2, Mode: mode}
	return 0
}

// Index register selectors shared by the DD and FD table builders.

func ixReg(c *CPU_Z80) *uint16 { return &c.IX }
func iyReg(c *CPU_Z80) *uint16 { return &c.IY }
