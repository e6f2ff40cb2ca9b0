package main

const (
	z80FlagC  byte = 0x01
	z80FlagN  byte = 0x02
	z80FlagPV byte = 0x04
	z80FlagX  byte = 0x08
	z80FlagH  byte = 0x10
	z80FlagY  byte = 0x20
	z80FlagZ  byte = 0x40
	z80FlagS  byte = 0x80
)

func (c *CPU_Z80) Flag(mask byte) bool { return c.F&mask != 0 }

// z80Parity returns the PV bit for v: set on even parity.
func z80Parity(v byte) byte {
	v ^= v >> 4
	v ^= v >> 2
	v ^= v >> 1
	if v&1 == 0 {
		return z80FlagPV
	}
	return 0
}

// z80SZXY extracts sign, zero and the undocumented bit-3/bit-5 copies from an
// 8-bit result. Nearly every flag rewrite starts from this.
func z80SZXY(v byte) byte {
	f := v & (z80FlagS | z80FlagX | z80FlagY)
	if v == 0 {
		f |= z80FlagZ
	}
	return f
}

// addA implements ADD/ADC: A <- A + value + carryIn with the full flag set.
func (c *CPU_Z80) addA(value byte, carryIn byte) {
	a := c.A
	sum := uint16(a) + uint16(value) + uint16(carryIn)
	res := byte(sum)
	f := z80SZXY(res)
	if sum > 0xFF {
		f |= z80FlagC
	}
	if (a^value^res)&0x10 != 0 {
		f |= z80FlagH
	}
	if (^(a ^ value) & (a ^ res) & 0x80) != 0 {
		f |= z80FlagPV
	}
	c.A = res
	c.F = f
}

// sub8 computes a - value - carryIn and the flag set for it. SUB, SBC, CP,
// NEG and DEC-style comparisons all funnel through here.
func sub8(a, value, carryIn byte) (byte, byte) {
	diff := int(a) - int(value) - int(carryIn)
	res := byte(diff)
	f := z80SZXY(res) | z80FlagN
	if diff < 0 {
		f |= z80FlagC
	}
	if (a^value^res)&0x10 != 0 {
		f |= z80FlagH
	}
	if ((a ^ value) & (a ^ res) & 0x80) != 0 {
		f |= z80FlagPV
	}
	return res, f
}

func (c *CPU_Z80) subA(value byte, carryIn byte) {
	c.A, c.F = sub8(c.A, value, carryIn)
}

// cpA is SUB without the writeback; the undocumented bits come from the
// operand, not the result.
func (c *CPU_Z80) cpA(value byte) {
	_, f := sub8(c.A, value, 0)
	c.F = f&^(z80FlagX|z80FlagY) | value&(z80FlagX|z80FlagY)
}

func (c *CPU_Z80) andA(value byte) {
	c.A &= value
	c.F = z80SZXY(c.A) | z80Parity(c.A) | z80FlagH
}

func (c *CPU_Z80) xorA(value byte) {
	c.A ^= value
	c.F = z80SZXY(c.A) | z80Parity(c.A)
}

func (c *CPU_Z80) orA(value byte) {
	c.A |= value
	c.F = z80SZXY(c.A) | z80Parity(c.A)
}

// inc8/dec8 preserve carry; overflow is the 0x7F/0x80 boundary exactly.

func (c *CPU_Z80) inc8(v byte) byte {
	res := v + 1
	f := z80SZXY(res) | c.F&z80FlagC
	if v&0x0F == 0x0F {
		f |= z80FlagH
	}
	if v == 0x7F {
		f |= z80FlagPV
	}
	c.F = f
	return res
}

func (c *CPU_Z80) dec8(v byte) byte {
	res := v - 1
	f := z80SZXY(res) | c.F&z80FlagC | z80FlagN
	if v&0x0F == 0 {
		f |= z80FlagH
	}
	if v == 0x80 {
		f |= z80FlagPV
	}
	c.F = f
	return res
}

// addPair implements ADD HL,rr and ADD IX,rr: only H, N, C and the
// undocumented bits change, all taken from the high byte of the result.
func (c *CPU_Z80) addPair(a, b uint16) uint16 {
	sum := uint32(a) + uint32(b)
	res := uint16(sum)
	f := c.F & (z80FlagS | z80FlagZ | z80FlagPV)
	f |= byte(res>>8) & (z80FlagX | z80FlagY)
	if (a^b^res)&0x1000 != 0 {
		f |= z80FlagH
	}
	if sum > 0xFFFF {
		f |= z80FlagC
	}
	c.F = f
	return res
}

// adcHL/sbcHL rewrite the full flag set, Z over all sixteen bits.

func (c *CPU_Z80) adcHL(value uint16) {
	a := c.HL()
	carry := uint32(c.F & z80FlagC)
	sum := uint32(a) + uint32(value) + carry
	res := uint16(sum)
	f := byte(res>>8) & (z80FlagS | z80FlagX | z80FlagY)
	if res == 0 {
		f |= z80FlagZ
	}
	if sum > 0xFFFF {
		f |= z80FlagC
	}
	if (a^value^res)&0x1000 != 0 {
		f |= z80FlagH
	}
	if (^(a ^ value) & (a ^ res) & 0x8000) != 0 {
		f |= z80FlagPV
	}
	c.F = f
	c.SetHL(res)
}

func (c *CPU_Z80) sbcHL(value uint16) {
	a := c.HL()
	carry := int(c.F & z80FlagC)
	diff := int(a) - int(value) - carry
	res := uint16(diff)
	f := byte(res>>8)&(z80FlagS|z80FlagX|z80FlagY) | z80FlagN
	if res == 0 {
		f |= z80FlagZ
	}
	if diff < 0 {
		f |= z80FlagC
	}
	if (a^value^res)&0x1000 != 0 {
		f |= z80FlagH
	}
	if ((a ^ value) & (a ^ res) & 0x8000) != 0 {
		f |= z80FlagPV
	}
	c.F = f
	c.SetHL(res)
}

// daa is the BCD adjust, honoring N for the post-subtract direction.
func (c *CPU_Z80) daa() {
	a := c.A
	adjust := byte(0)
	carry := c.F&z80FlagC != 0
	if c.F&z80FlagH != 0 || a&0x0F > 9 {
		adjust = 0x06
	}
	if carry || a > 0x99 {
		adjust |= 0x60
		carry = true
	}
	if c.F&z80FlagN != 0 {
		c.A -= adjust
	} else {
		c.A += adjust
	}
	f := z80SZXY(c.A) | z80Parity(c.A) | c.F&z80FlagN
	if (a^c.A)&0x10 != 0 {
		f |= z80FlagH
	}
	if carry {
		f |= z80FlagC
	}
	c.F = f
}
