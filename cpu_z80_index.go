package main

// initIndexOps populates a DD or FD dispatch table. sel picks IX or IY; all
// cycle counts include the four-cycle prefix fetch. Bytes left nil fall back
// to the base table through the prefix dispatcher, which is the silicon's
// behavior for index-prefixed opcodes with no indexed meaning.
func (c *CPU_Z80) initIndexOps(table *[256]z80Handler, sel func(*CPU_Z80) *uint16) {
	// Register field access with the H/L columns redirected to the index
	// register halves. The memory forms deliberately bypass this: in an
	// (IX+d) instruction the other operand is the plain register.
	get8 := func(c *CPU_Z80, i byte) byte {
		switch i {
		case 4:
			return byte(*sel(c) >> 8)
		case 5:
			return byte(*sel(c))
		default:
			return c.reg8(i)
		}
	}
	set8 := func(c *CPU_Z80, i byte, v byte) {
		switch i {
		case 4:
			r := sel(c)
			*r = uint16(v)<<8 | *r&0x00FF
		case 5:
			r := sel(c)
			*r = *r&0xFF00 | uint16(v)
		default:
			c.setReg8(i, v)
		}
	}
	pairGet := func(c *CPU_Z80, p byte) uint16 {
		if p == 2 {
			return *sel(c)
		}
		return c.pairGet(p)
	}

	for i := byte(0); i < 4; i++ {
		p := i
		table[0x09+p*16] = func(c *CPU_Z80) int { // ADD IX,rr
			r := sel(c)
			*r = c.addPair(*r, pairGet(c, p))
			return 15
		}
	}

	table[0x21] = func(c *CPU_Z80) int { // LD IX,nn
		*sel(c) = c.fetchWord()
		return 14
	}
	table[0x22] = func(c *CPU_Z80) int { // LD (nn),IX
		c.writeWord(c.effectiveAddr(z80AddrExt, 0), *sel(c))
		return 20
	}
	table[0x2A] = func(c *CPU_Z80) int { // LD IX,(nn)
		*sel(c) = c.readWord(c.effectiveAddr(z80AddrExt, 0))
		return 20
	}
	table[0x23] = func(c *CPU_Z80) int {
		*sel(c)++
		return 10
	}
	table[0x2B] = func(c *CPU_Z80) int {
		*sel(c)--
		return 10
	}

	// Index register halves (undocumented but widely relied on)
	for _, half := range []byte{4, 5} {
		h := half
		table[0x04+h*8] = func(c *CPU_Z80) int { // INC IXH/IXL
			set8(c, h, c.inc8(get8(c, h)))
			return 8
		}
		table[0x05+h*8] = func(c *CPU_Z80) int { // DEC IXH/IXL
			set8(c, h, c.dec8(get8(c, h)))
			return 8
		}
		table[0x06+h*8] = func(c *CPU_Z80) int { // LD IXH/IXL,n
			set8(c, h, c.fetchByte())
			return 11
		}
	}

	table[0x34] = func(c *CPU_Z80) int { // INC (IX+d)
		addr := c.effectiveAddr(z80AddrIndexed, *sel(c))
		c.bus.Write(addr, c.inc8(c.bus.Read(addr)))
		return 23
	}
	table[0x35] = func(c *CPU_Z80) int { // DEC (IX+d)
		addr := c.effectiveAddr(z80AddrIndexed, *sel(c))
		c.bus.Write(addr, c.dec8(c.bus.Read(addr)))
		return 23
	}
	table[0x36] = func(c *CPU_Z80) int { // LD (IX+d),n
		addr := c.effectiveAddr(z80AddrIndexed, *sel(c))
		c.bus.Write(addr, c.fetchByte())
		return 19
	}

	// LD block: memory forms use (IX+d) with the plain register on the other
	// side; register forms touching H or L use the index halves.
	for op := 0x40; op < 0x80; op++ {
		if op == 0x76 {
			continue
		}
		dst := byte(op>>3) & 7
		src := byte(op) & 7
		switch {
		case src == 6:
			table[op] = func(c *CPU_Z80) int {
				c.setReg8(dst, c.bus.Read(c.effectiveAddr(z80AddrIndexed, *sel(c))))
				return 19
			}
		case dst == 6:
			table[op] = func(c *CPU_Z80) int {
				c.bus.Write(c.effectiveAddr(z80AddrIndexed, *sel(c)), c.reg8(src))
				return 19
			}
		case dst == 4 || dst == 5 || src == 4 || src == 5:
			table[op] = func(c *CPU_Z80) int {
				set8(c, dst, get8(c, src))
				return 8
			}
		}
	}

	for op := 0x80; op < 0xC0; op++ {
		y := byte(op>>3) & 7
		src := byte(op) & 7
		switch src {
		case 6:
			table[op] = func(c *CPU_Z80) int {
				c.aluOp(y, c.bus.Read(c.effectiveAddr(z80AddrIndexed, *sel(c))))
				return 19
			}
		case 4, 5:
			table[op] = func(c *CPU_Z80) int {
				c.aluOp(y, get8(c, src))
				return 8
			}
		}
	}

	table[0xCB] = func(c *CPU_Z80) int {
		c.disp = int8(c.fetchByte())
		return c.indexedCB(c.effectiveAddr(z80AddrIndexedHeld, *sel(c)))
	}

	table[0xE1] = func(c *CPU_Z80) int { // POP IX
		*sel(c) = c.popWord()
		return 14
	}
	table[0xE3] = func(c *CPU_Z80) int { // EX (SP),IX
		r := sel(c)
		tmp := c.readWord(c.SP)
		c.writeWord(c.SP, *r)
		*r = tmp
		return 23
	}
	table[0xE5] = func(c *CPU_Z80) int { // PUSH IX
		c.pushWord(*sel(c))
		return 15
	}
	table[0xE9] = func(c *CPU_Z80) int { // JP (IX)
		c.PC = *sel(c)
		return 8
	}
	table[0xF9] = func(c *CPU_Z80) int { // LD SP,IX
		c.SP = *sel(c)
		return 10
	}
}
