package main

// Register pair selectors for the two-bit pair field. pairGet/pairSet use
// the SP column (LD rr,nn, INC/DEC rr, ADD HL,rr); pushes and pops swap SP
// for AF.

func (c *CPU_Z80) pairGet(i byte) uint16 {
	switch i {
	case 0:
		return c.BC()
	case 1:
		return c.DE()
	case 2:
		return c.HL()
	default:
		return c.SP
	}
}

func (c *CPU_Z80) pairSet(i byte, v uint16) {
	switch i {
	case 0:
		c.SetBC(v)
	case 1:
		c.SetDE(v)
	case 2:
		c.SetHL(v)
	default:
		c.SP = v
	}
}

// condition decodes the three-bit condition field: NZ Z NC C PO PE P M.
func (c *CPU_Z80) condition(i byte) bool {
	switch i {
	case 0:
		return c.F&z80FlagZ == 0
	case 1:
		return c.F&z80FlagZ != 0
	case 2:
		return c.F&z80FlagC == 0
	case 3:
		return c.F&z80FlagC != 0
	case 4:
		return c.F&z80FlagPV == 0
	case 5:
		return c.F&z80FlagPV != 0
	case 6:
		return c.F&z80FlagS == 0
	default:
		return c.F&z80FlagS != 0
	}
}

func (c *CPU_Z80) aluOp(y byte, v byte) {
	switch y {
	case 0:
		c.addA(v, 0)
	case 1:
		c.addA(v, c.F&z80FlagC)
	case 2:
		c.subA(v, 0)
	case 3:
		c.subA(v, c.F&z80FlagC)
	case 4:
		c.andA(v)
	case 5:
		c.xorA(v)
	case 6:
		c.orA(v)
	default:
		c.cpA(v)
	}
}

func (c *CPU_Z80) initBaseOps() {
	c.baseOps[0x00] = func(c *CPU_Z80) int { return 4 } // NOP

	// LD rr,nn / INC rr / DEC rr / ADD HL,rr
	for i := byte(0); i < 4; i++ {
		p := i
		c.baseOps[0x01+p*16] = func(c *CPU_Z80) int {
			c.pairSet(p, c.fetchWord())
			return 10
		}
		c.baseOps[0x03+p*16] = func(c *CPU_Z80) int {
			c.pairSet(p, c.pairGet(p)+1)
			return 6
		}
		c.baseOps[0x0B+p*16] = func(c *CPU_Z80) int {
			c.pairSet(p, c.pairGet(p)-1)
			return 6
		}
		c.baseOps[0x09+p*16] = func(c *CPU_Z80) int {
			c.SetHL(c.addPair(c.HL(), c.pairGet(p)))
			return 11
		}
	}

	// INC r / DEC r / LD r,n, memory forms included
	for y := byte(0); y < 8; y++ {
		reg := y
		if reg == 6 {
			c.baseOps[0x34] = func(c *CPU_Z80) int {
				addr := c.effectiveAddr(z80AddrHL, 0)
				c.bus.Write(addr, c.inc8(c.bus.Read(addr)))
				return 11
			}
			c.baseOps[0x35] = func(c *CPU_Z80) int {
				addr := c.effectiveAddr(z80AddrHL, 0)
				c.bus.Write(addr, c.dec8(c.bus.Read(addr)))
				return 11
			}
			c.baseOps[0x36] = func(c *CPU_Z80) int {
				c.bus.Write(c.effectiveAddr(z80AddrHL, 0), c.fetchByte())
				return 10
			}
			continue
		}
		c.baseOps[0x04+reg*8] = func(c *CPU_Z80) int {
			c.setReg8(reg, c.inc8(c.reg8(reg)))
			return 4
		}
		c.baseOps[0x05+reg*8] = func(c *CPU_Z80) int {
			c.setReg8(reg, c.dec8(c.reg8(reg)))
			return 4
		}
		c.baseOps[0x06+reg*8] = func(c *CPU_Z80) int {
			c.setReg8(reg, c.fetchByte())
			return 7
		}
	}

	// Accumulator loads through BC/DE/extended addresses
	c.baseOps[0x02] = func(c *CPU_Z80) int {
		c.bus.Write(c.effectiveAddr(z80AddrBC, 0), c.A)
		return 7
	}
	c.baseOps[0x12] = func(c *CPU_Z80) int {
		c.bus.Write(c.effectiveAddr(z80AddrDE, 0), c.A)
		return 7
	}
	c.baseOps[0x0A] = func(c *CPU_Z80) int {
		c.A = c.bus.Read(c.effectiveAddr(z80AddrBC, 0))
		return 7
	}
	c.baseOps[0x1A] = func(c *CPU_Z80) int {
		c.A = c.bus.Read(c.effectiveAddr(z80AddrDE, 0))
		return 7
	}
	c.baseOps[0x22] = func(c *CPU_Z80) int {
		c.writeWord(c.effectiveAddr(z80AddrExt, 0), c.HL())
		return 16
	}
	c.baseOps[0x2A] = func(c *CPU_Z80) int {
		c.SetHL(c.readWord(c.effectiveAddr(z80AddrExt, 0)))
		return 16
	}
	c.baseOps[0x32] = func(c *CPU_Z80) int {
		c.bus.Write(c.effectiveAddr(z80AddrExt, 0), c.A)
		return 13
	}
	c.baseOps[0x3A] = func(c *CPU_Z80) int {
		c.A = c.bus.Read(c.effectiveAddr(z80AddrExt, 0))
		return 13
	}

	c.baseOps[0x07] = (*CPU_Z80).opRLCA
	c.baseOps[0x0F] = (*CPU_Z80).opRRCA
	c.baseOps[0x17] = (*CPU_Z80).opRLA
	c.baseOps[0x1F] = (*CPU_Z80).opRRA

	c.baseOps[0x08] = func(c *CPU_Z80) int { // EX AF,AF'
		c.A, c.A2 = c.A2, c.A
		c.F, c.F2 = c.F2, c.F
		return 4
	}
	c.baseOps[0x10] = func(c *CPU_Z80) int { // DJNZ d
		d := int8(c.fetchByte())
		c.B--
		if c.B != 0 {
			c.PC += uint16(int16(d))
			return 13
		}
		return 8
	}
	c.baseOps[0x18] = func(c *CPU_Z80) int { // JR d
		d := int8(c.fetchByte())
		c.PC += uint16(int16(d))
		return 12
	}
	for i := byte(0); i < 4; i++ {
		cc := i
		c.baseOps[0x20+cc*8] = func(c *CPU_Z80) int { // JR cc,d
			d := int8(c.fetchByte())
			if c.condition(cc) {
				c.PC += uint16(int16(d))
				return 12
			}
			return 7
		}
	}

	c.baseOps[0x27] = func(c *CPU_Z80) int { c.daa(); return 4 }
	c.baseOps[0x2F] = func(c *CPU_Z80) int { // CPL
		c.A = ^c.A
		c.F = c.F&(z80FlagS|z80FlagZ|z80FlagPV|z80FlagC) | z80FlagH | z80FlagN |
			c.A&(z80FlagX|z80FlagY)
		return 4
	}
	c.baseOps[0x37] = func(c *CPU_Z80) int { // SCF
		c.F = c.F&(z80FlagS|z80FlagZ|z80FlagPV) | z80FlagC |
			c.A&(z80FlagX|z80FlagY)
		return 4
	}
	c.baseOps[0x3F] = func(c *CPU_Z80) int { // CCF: H takes the old carry
		oldC := c.F & z80FlagC
		f := c.F&(z80FlagS|z80FlagZ|z80FlagPV) | c.A&(z80FlagX|z80FlagY)
		if oldC != 0 {
			f |= z80FlagH
		} else {
			f |= z80FlagC
		}
		c.F = f
		return 4
	}

	// LD r,r' block, 0x40-0x7F; 0x76 is HALT
	for op := 0x40; op < 0x80; op++ {
		if op == 0x76 {
			c.baseOps[op] = func(c *CPU_Z80) int {
				c.Halted = true
				return 4
			}
			continue
		}
		dst := byte(op>>3) & 7
		src := byte(op) & 7
		switch {
		case src == 6:
			c.baseOps[op] = func(c *CPU_Z80) int {
				c.setReg8(dst, c.bus.Read(c.effectiveAddr(z80AddrHL, 0)))
				return 7
			}
		case dst == 6:
			c.baseOps[op] = func(c *CPU_Z80) int {
				c.bus.Write(c.effectiveAddr(z80AddrHL, 0), c.reg8(src))
				return 7
			}
		default:
			c.baseOps[op] = func(c *CPU_Z80) int {
				c.setReg8(dst, c.reg8(src))
				return 4
			}
		}
	}

	// ALU block, 0x80-0xBF
	for op := 0x80; op < 0xC0; op++ {
		y := byte(op>>3) & 7
		src := byte(op) & 7
		if src == 6 {
			c.baseOps[op] = func(c *CPU_Z80) int {
				c.aluOp(y, c.bus.Read(c.effectiveAddr(z80AddrHL, 0)))
				return 7
			}
			continue
		}
		c.baseOps[op] = func(c *CPU_Z80) int {
			c.aluOp(y, c.reg8(src))
			return 4
		}
	}

	// Conditional RET/JP/CALL, RST, ALU immediates
	for i := byte(0); i < 8; i++ {
		cc := i
		c.baseOps[0xC0+cc*8] = func(c *CPU_Z80) int { // RET cc
			if c.condition(cc) {
				c.PC = c.popWord()
				return 11
			}
			return 5
		}
		c.baseOps[0xC2+cc*8] = func(c *CPU_Z80) int { // JP cc,nn
			addr := c.fetchWord()
			if c.condition(cc) {
				c.PC = addr
			}
			return 10
		}
		c.baseOps[0xC4+cc*8] = func(c *CPU_Z80) int { // CALL cc,nn
			addr := c.fetchWord()
			if c.condition(cc) {
				c.pushWord(c.PC)
				c.PC = addr
				return 17
			}
			return 10
		}
		y := i
		c.baseOps[0xC6+y*8] = func(c *CPU_Z80) int { // ALU A,n
			c.aluOp(y, c.fetchByte())
			return 7
		}
		vector := uint16(i) * 8
		c.baseOps[0xC7+i*8] = func(c *CPU_Z80) int { // RST
			c.pushWord(c.PC)
			c.PC = vector
			return 11
		}
	}

	// PUSH/POP use AF in the SP column
	for i := byte(0); i < 4; i++ {
		p := i
		c.baseOps[0xC1+p*16] = func(c *CPU_Z80) int { // POP
			v := c.popWord()
			if p == 3 {
				c.SetAF(v)
			} else {
				c.pairSet(p, v)
			}
			return 10
		}
		c.baseOps[0xC5+p*16] = func(c *CPU_Z80) int { // PUSH
			if p == 3 {
				c.pushWord(c.AF())
			} else {
				c.pushWord(c.pairGet(p))
			}
			return 11
		}
	}

	c.baseOps[0xC3] = func(c *CPU_Z80) int { // JP nn
		c.PC = c.fetchWord()
		return 10
	}
	c.baseOps[0xC9] = func(c *CPU_Z80) int { // RET
		c.PC = c.popWord()
		return 10
	}
	c.baseOps[0xCD] = func(c *CPU_Z80) int { // CALL nn
		addr := c.fetchWord()
		c.pushWord(c.PC)
		c.PC = addr
		return 17
	}
	c.baseOps[0xD3] = func(c *CPU_Z80) int { // OUT (n),A
		port := uint16(c.A)<<8 | uint16(c.fetchByte())
		c.bus.Out(port, c.A)
		return 11
	}
	c.baseOps[0xD9] = func(c *CPU_Z80) int { // EXX
		c.B, c.B2 = c.B2, c.B
		c.C, c.C2 = c.C2, c.C
		c.D, c.D2 = c.D2, c.D
		c.E, c.E2 = c.E2, c.E
		c.H, c.H2 = c.H2, c.H
		c.L, c.L2 = c.L2, c.L
		return 4
	}
	c.baseOps[0xDB] = func(c *CPU_Z80) int { // IN A,(n)
		port := uint16(c.A)<<8 | uint16(c.fetchByte())
		c.A = c.bus.In(port)
		return 11
	}
	c.baseOps[0xE3] = func(c *CPU_Z80) int { // EX (SP),HL
		tmp := c.readWord(c.SP)
		c.writeWord(c.SP, c.HL())
		c.SetHL(tmp)
		return 19
	}
	c.baseOps[0xE9] = func(c *CPU_Z80) int { // JP (HL)
		c.PC = c.HL()
		return 4
	}
	c.baseOps[0xEB] = func(c *CPU_Z80) int { // EX DE,HL
		c.D, c.H = c.H, c.D
		c.E, c.L = c.L, c.E
		return 4
	}
	c.baseOps[0xF3] = func(c *CPU_Z80) int { // DI, immediate
		c.IFF1, c.IFF2 = false, false
		c.iffDelay = 0
		return 4
	}
	c.baseOps[0xF9] = func(c *CPU_Z80) int { // LD SP,HL
		c.SP = c.HL()
		return 6
	}
	c.baseOps[0xFB] = func(c *CPU_Z80) int { // EI, takes effect one instruction late
		c.iffDelay = 1
		return 4
	}

	c.baseOps[0xCB] = (*CPU_Z80).opPrefixCB
	c.baseOps[0xDD] = (*CPU_Z80).opPrefixDD
	c.baseOps[0xED] = (*CPU_Z80).opPrefixED
	c.baseOps[0xFD] = (*CPU_Z80).opPrefixFD
}

// Accumulator rotates touch only H, N, C and the undocumented bits.

func (c *CPU_Z80) opRLCA() int {
	carry := c.A >> 7
	c.A = c.A<<1 | carry
	c.F = c.F&(z80FlagS|z80FlagZ|z80FlagPV) | c.A&(z80FlagX|z80FlagY) | carry
	return 4
}

func (c *CPU_Z80) opRRCA() int {
	carry := c.A & 1
	c.A = c.A>>1 | carry<<7
	c.F = c.F&(z80FlagS|z80FlagZ|z80FlagPV) | c.A&(z80FlagX|z80FlagY) | carry
	return 4
}

func (c *CPU_Z80) opRLA() int {
	carry := c.A >> 7
	c.A = c.A<<1 | c.F&z80FlagC
	c.F = c.F&(z80FlagS|z80FlagZ|z80FlagPV) | c.A&(z80FlagX|z80FlagY) | carry
	return 4
}

func (c *CPU_Z80) opRRA() int {
	carry := c.A & 1
	c.A = c.A>>1 | (c.F&z80FlagC)<<7
	c.F = c.F&(z80FlagS|z80FlagZ|z80FlagPV) | c.A&(z80FlagX|z80FlagY) | carry
	return 4
}

// Prefix dispatch. CB and ED sub-opcodes count as fetches for the refresh
// counter. Index-prefixed bytes with no indexed meaning fall back to the
// base handler, costing the four prefix cycles.

func (c *CPU_Z80) opPrefixCB() int {
	op := c.fetchOpcode()
	return c.cbOps[op](c)
}

func (c *CPU_Z80) opPrefixED() int {
	addr := c.PC - 1
	op := c.fetchOpcode()
	if h := c.edOps[op]; h != nil {
		return h(c)
	}
	return c.faultOpcode(addr, 0xED, op)
}

func (c *CPU_Z80) opPrefixDD() int {
	op := c.fetchOpcode()
	if h := c.ddOps[op]; h != nil {
		return h(c)
	}
	return 4 + c.baseOps[op](c)
}

func (c *CPU_Z80) opPrefixFD() int {
	op := c.fetchOpcode()
	if h := c.fdOps[op]; h != nil {
		return h(c)
	}
	return 4 + c.baseOps[op](c)
}
