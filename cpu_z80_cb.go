package main

// rotShift applies one of the eight CB rotate/shift operations, including
// the undocumented SLL (shift left, bit 0 set). Full flag rewrite.
func (c *CPU_Z80) rotShift(y byte, v byte) byte {
	var res, carry byte
	switch y {
	case 0: // RLC
		carry = v >> 7
		res = v<<1 | carry
	case 1: // RRC
		carry = v & 1
		res = v>>1 | carry<<7
	case 2: // RL
		carry = v >> 7
		res = v<<1 | c.F&z80FlagC
	case 3: // RR
		carry = v & 1
		res = v>>1 | (c.F&z80FlagC)<<7
	case 4: // SLA
		carry = v >> 7
		res = v << 1
	case 5: // SRA
		carry = v & 1
		res = v>>1 | v&0x80
	case 6: // SLL
		carry = v >> 7
		res = v<<1 | 1
	default: // SRL
		carry = v & 1
		res = v >> 1
	}
	c.F = z80SZXY(res) | z80Parity(res) | carry
	return res
}

// bitTest sets flags for BIT b. The undocumented bits come from xy: the
// register value for register forms, the high byte of the effective address
// for memory forms.
func (c *CPU_Z80) bitTest(b byte, v byte, xy byte) {
	f := z80FlagH | c.F&z80FlagC | xy&(z80FlagX|z80FlagY)
	if v&(1<<b) == 0 {
		f |= z80FlagZ | z80FlagPV
	} else if b == 7 {
		f |= z80FlagS
	}
	c.F = f
}

func (c *CPU_Z80) initCBOps() {
	for op := 0; op < 0x100; op++ {
		x := byte(op >> 6)
		y := byte(op>>3) & 7
		z := byte(op) & 7

		switch x {
		case 0: // rotates and shifts
			if z == 6 {
				c.cbOps[op] = func(c *CPU_Z80) int {
					addr := c.effectiveAddr(z80AddrHL, 0)
					c.bus.Write(addr, c.rotShift(y, c.bus.Read(addr)))
					return 15
				}
			} else {
				c.cbOps[op] = func(c *CPU_Z80) int {
					c.setReg8(z, c.rotShift(y, c.reg8(z)))
					return 8
				}
			}
		case 1: // BIT
			if z == 6 {
				c.cbOps[op] = func(c *CPU_Z80) int {
					addr := c.effectiveAddr(z80AddrHL, 0)
					v := c.bus.Read(addr)
					c.bitTest(y, v, v)
					return 12
				}
			} else {
				c.cbOps[op] = func(c *CPU_Z80) int {
					v := c.reg8(z)
					c.bitTest(y, v, v)
					return 8
				}
			}
		case 2: // RES
			mask := ^(byte(1) << y)
			if z == 6 {
				c.cbOps[op] = func(c *CPU_Z80) int {
					addr := c.effectiveAddr(z80AddrHL, 0)
					c.bus.Write(addr, c.bus.Read(addr)&mask)
					return 15
				}
			} else {
				c.cbOps[op] = func(c *CPU_Z80) int {
					c.setReg8(z, c.reg8(z)&mask)
					return 8
				}
			}
		default: // SET
			bit := byte(1) << y
			if z == 6 {
				c.cbOps[op] = func(c *CPU_Z80) int {
					addr := c.effectiveAddr(z80AddrHL, 0)
					c.bus.Write(addr, c.bus.Read(addr)|bit)
					return 15
				}
			} else {
				c.cbOps[op] = func(c *CPU_Z80) int {
					c.setReg8(z, c.reg8(z)|bit)
					return 8
				}
			}
		}
	}
}

// indexedCB executes a DD CB d op / FD CB d op sequence. The displacement
// has already been consumed into c.disp by the caller; every operation works
// on (IX/IY+d), and the non-BIT forms also copy the result into the register
// named by the low bits.
func (c *CPU_Z80) indexedCB(addr uint16) int {
	op := c.fetchOpcode()
	x := op >> 6
	y := (op >> 3) & 7
	z := op & 7

	switch x {
	case 0:
		res := c.rotShift(y, c.bus.Read(addr))
		c.bus.Write(addr, res)
		if z != 6 {
			c.setReg8(z, res)
		}
		return 23
	case 1:
		c.bitTest(y, c.bus.Read(addr), byte(addr>>8))
		return 20
	case 2:
		res := c.bus.Read(addr) &^ (1 << y)
		c.bus.Write(addr, res)
		if z != 6 {
			c.setReg8(z, res)
		}
		return 23
	default:
		res := c.bus.Read(addr) | 1<<y
		c.bus.Write(addr, res)
		if z != 6 {
			c.setReg8(z, res)
		}
		return 23
	}
}
