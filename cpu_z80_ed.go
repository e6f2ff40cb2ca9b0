package main

func (c *CPU_Z80) initEDOps() {
	// The 0x40-0x7F grid. Undocumented duplicate encodings of NEG, RETN and
	// the IN/OUT forms exist in silicon and are registered; true holes stay
	// nil and fault at decode.
	for y := byte(0); y < 8; y++ {
		reg := y
		c.edOps[0x40+reg*8] = func(c *CPU_Z80) int { // IN r,(C)
			v := c.bus.In(c.BC())
			if reg != 6 {
				c.setReg8(reg, v)
			}
			c.F = z80SZXY(v) | z80Parity(v) | c.F&z80FlagC
			return 12
		}
		c.edOps[0x41+reg*8] = func(c *CPU_Z80) int { // OUT (C),r
			var v byte
			if reg != 6 {
				v = c.reg8(reg)
			}
			c.bus.Out(c.BC(), v)
			return 12
		}
		c.edOps[0x44+reg*8] = func(c *CPU_Z80) int { // NEG
			c.A, c.F = sub8(0, c.A, 0)
			return 8
		}
		if reg == 1 {
			c.edOps[0x4D] = func(c *CPU_Z80) int { // RETI
				c.PC = c.popWord()
				c.IFF1 = c.IFF2
				return 14
			}
		} else {
			c.edOps[0x45+reg*8] = func(c *CPU_Z80) int { // RETN
				c.PC = c.popWord()
				c.IFF1 = c.IFF2
				return 14
			}
		}
	}

	// SBC/ADC HL,rr and the extended-address pair loads
	for i := byte(0); i < 4; i++ {
		p := i
		c.edOps[0x42+p*16] = func(c *CPU_Z80) int {
			c.sbcHL(c.pairGet(p))
			return 15
		}
		c.edOps[0x4A+p*16] = func(c *CPU_Z80) int {
			c.adcHL(c.pairGet(p))
			return 15
		}
		c.edOps[0x43+p*16] = func(c *CPU_Z80) int {
			c.writeWord(c.effectiveAddr(z80AddrExt, 0), c.pairGet(p))
			return 20
		}
		c.edOps[0x4B+p*16] = func(c *CPU_Z80) int {
			c.pairSet(p, c.readWord(c.effectiveAddr(z80AddrExt, 0)))
			return 20
		}
	}

	// IM select. Only mode 1 is serviceable on this machine; selecting 0 or
	// 2 latches a fault rather than running into undefined service behavior
	// later.
	for _, op := range []int{0x46, 0x4E, 0x66, 0x6E} {
		c.edOps[op] = func(c *CPU_Z80) int { return c.faultInterruptMode(0) }
	}
	for _, op := range []int{0x56, 0x76} {
		c.edOps[op] = func(c *CPU_Z80) int {
			c.IM = 1
			return 8
		}
	}
	for _, op := range []int{0x5E, 0x7E} {
		c.edOps[op] = func(c *CPU_Z80) int { return c.faultInterruptMode(2) }
	}

	c.edOps[0x47] = func(c *CPU_Z80) int { // LD I,A
		c.I = c.A
		return 9
	}
	c.edOps[0x4F] = func(c *CPU_Z80) int { // LD R,A
		c.R = c.A
		return 9
	}
	c.edOps[0x57] = func(c *CPU_Z80) int { // LD A,I, PV mirrors IFF2
		c.A = c.I
		c.F = z80SZXY(c.A) | c.F&z80FlagC
		if c.IFF2 {
			c.F |= z80FlagPV
		}
		return 9
	}
	c.edOps[0x5F] = func(c *CPU_Z80) int { // LD A,R
		c.A = c.R
		c.F = z80SZXY(c.A) | c.F&z80FlagC
		if c.IFF2 {
			c.F |= z80FlagPV
		}
		return 9
	}
	c.edOps[0x67] = (*CPU_Z80).opRRD
	c.edOps[0x6F] = (*CPU_Z80).opRLD

	// Block transfer, search and I/O. The repeat forms rewind PC by two and
	// cost five extra cycles while the counter holds.
	c.edOps[0xA0] = func(c *CPU_Z80) int { c.blockLD(1); return 16 }
	c.edOps[0xA8] = func(c *CPU_Z80) int { c.blockLD(^uint16(0)); return 16 }
	c.edOps[0xB0] = func(c *CPU_Z80) int {
		c.blockLD(1)
		return c.blockRepeat(c.BC() != 0)
	}
	c.edOps[0xB8] = func(c *CPU_Z80) int {
		c.blockLD(^uint16(0))
		return c.blockRepeat(c.BC() != 0)
	}

	c.edOps[0xA1] = func(c *CPU_Z80) int { c.blockCP(1); return 16 }
	c.edOps[0xA9] = func(c *CPU_Z80) int { c.blockCP(^uint16(0)); return 16 }
	c.edOps[0xB1] = func(c *CPU_Z80) int {
		c.blockCP(1)
		return c.blockRepeat(c.BC() != 0 && c.F&z80FlagZ == 0)
	}
	c.edOps[0xB9] = func(c *CPU_Z80) int {
		c.blockCP(^uint16(0))
		return c.blockRepeat(c.BC() != 0 && c.F&z80FlagZ == 0)
	}

	c.edOps[0xA2] = func(c *CPU_Z80) int { c.blockIN(1); return 16 }
	c.edOps[0xAA] = func(c *CPU_Z80) int { c.blockIN(^uint16(0)); return 16 }
	c.edOps[0xB2] = func(c *CPU_Z80) int {
		c.blockIN(1)
		return c.blockRepeat(c.B != 0)
	}
	c.edOps[0xBA] = func(c *CPU_Z80) int {
		c.blockIN(^uint16(0))
		return c.blockRepeat(c.B != 0)
	}

	c.edOps[0xA3] = func(c *CPU_Z80) int { c.blockOUT(1); return 16 }
	c.edOps[0xAB] = func(c *CPU_Z80) int { c.blockOUT(^uint16(0)); return 16 }
	c.edOps[0xB3] = func(c *CPU_Z80) int {
		c.blockOUT(1)
		return c.blockRepeat(c.B != 0)
	}
	c.edOps[0xBB] = func(c *CPU_Z80) int {
		c.blockOUT(^uint16(0))
		return c.blockRepeat(c.B != 0)
	}
}

func (c *CPU_Z80) blockRepeat(again bool) int {
	if again {
		c.PC -= 2
		return 21
	}
	return 16
}

// blockLD is one LDI/LDD iteration. The undocumented bits come from bits 1
// and 3 of (copied byte + A).
func (c *CPU_Z80) blockLD(delta uint16) {
	v := c.bus.Read(c.HL())
	c.bus.Write(c.DE(), v)
	c.SetHL(c.HL() + delta)
	c.SetDE(c.DE() + delta)
	c.SetBC(c.BC() - 1)

	f := c.F & (z80FlagS | z80FlagZ | z80FlagC)
	t := v + c.A
	if t&0x02 != 0 {
		f |= z80FlagY
	}
	if t&0x08 != 0 {
		f |= z80FlagX
	}
	if c.BC() != 0 {
		f |= z80FlagPV
	}
	c.F = f
}

// blockCP is one CPI/CPD iteration: compare without writeback, PV tracks the
// counter rather than overflow.
func (c *CPU_Z80) blockCP(delta uint16) {
	v := c.bus.Read(c.HL())
	res, f := sub8(c.A, v, 0)
	c.SetHL(c.HL() + delta)
	c.SetBC(c.BC() - 1)

	newF := f&(z80FlagS|z80FlagZ|z80FlagH|z80FlagN) | c.F&z80FlagC
	if c.BC() != 0 {
		newF |= z80FlagPV
	}
	t := res
	if f&z80FlagH != 0 {
		t--
	}
	if t&0x02 != 0 {
		newF |= z80FlagY
	}
	if t&0x08 != 0 {
		newF |= z80FlagX
	}
	c.F = newF
}

// blockIN is one INI/IND iteration; delta also selects the C offset feeding
// the undocumented carry computation.
func (c *CPU_Z80) blockIN(delta uint16) {
	v := c.bus.In(c.BC())
	c.bus.Write(c.HL(), v)
	c.SetHL(c.HL() + delta)
	c.B--

	f := z80SZXY(c.B)
	if v&0x80 != 0 {
		f |= z80FlagN
	}
	k := uint16(v) + uint16(c.C+byte(delta))
	if k > 0xFF {
		f |= z80FlagH | z80FlagC
	}
	f |= z80Parity(byte(k&7) ^ c.B)
	c.F = f
}

// blockOUT is one OUTI/OUTD iteration; the port sees B already decremented.
func (c *CPU_Z80) blockOUT(delta uint16) {
	v := c.bus.Read(c.HL())
	c.SetHL(c.HL() + delta)
	c.B--
	c.bus.Out(c.BC(), v)

	f := z80SZXY(c.B)
	if v&0x80 != 0 {
		f |= z80FlagN
	}
	k := uint16(v) + uint16(c.L)
	if k > 0xFF {
		f |= z80FlagH | z80FlagC
	}
	f |= z80Parity(byte(k&7) ^ c.B)
	c.F = f
}

func (c *CPU_Z80) opRRD() int {
	addr := c.effectiveAddr(z80AddrHL, 0)
	v := c.bus.Read(addr)
	c.bus.Write(addr, c.A<<4|v>>4)
	c.A = c.A&0xF0 | v&0x0F
	c.F = z80SZXY(c.A) | z80Parity(c.A) | c.F&z80FlagC
	return 18
}

func (c *CPU_Z80) opRLD() int {
	addr := c.effectiveAddr(z80AddrHL, 0)
	v := c.bus.Read(addr)
	c.bus.Write(addr, v<<4|c.A&0x0F)
	c.A = c.A&0xF0 | v>>4
	c.F = z80SZXY(c.A) | z80Parity(c.A) | c.F&z80FlagC
	return 18
}
