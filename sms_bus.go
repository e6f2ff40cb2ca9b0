// sms_bus.go - Master System memory and port map for MasterEngine

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/MasterEngine
License: GPLv3 or later
*/

package main

// SMSBus implements Z80Bus with the console's memory map: 48 KB of ROM
// space (BIOS or cartridge through the Sega mapper), 8 KB of work RAM at
// 0xC000 mirrored through 0xFFFF. Writes into the top four bytes reach both
// the RAM mirror and the mapper control registers.
type SMSBus struct {
	cart *Cartridge
	bios []byte
	vdp  *VDP

	ram [0x2000]byte

	biosEnabled bool
	memControl  byte
	ioControl   byte

	joypad byte // active-high player 1 mask; inverted on the port
}

func NewSMSBus(cart *Cartridge, bios []byte, vdp *VDP) *SMSBus {
	return &SMSBus{
		cart:        cart,
		bios:        bios,
		vdp:         vdp,
		biosEnabled: len(bios) > 0,
	}
}

func (b *SMSBus) Read(addr uint16) byte {
	if addr < 0xC000 {
		if b.biosEnabled && len(b.bios) > 0 {
			return b.bios[int(addr)%len(b.bios)]
		}
		if b.cart != nil {
			return b.cart.Read(addr)
		}
		return 0xFF
	}
	return b.ram[addr&0x1FFF]
}

func (b *SMSBus) Write(addr uint16, value byte) {
	if addr < 0xC000 {
		return // ROM space
	}
	b.ram[addr&0x1FFF] = value
	if addr >= 0xFFFC && b.cart != nil {
		b.cart.WriteControl(addr, value)
	}
}

// In decodes the port map by the top bits: counters at 0x40-0x7F, VDP at
// 0x80-0xBF (even data, odd control/status), joypads above.
func (b *SMSBus) In(port uint16) byte {
	p := byte(port)
	switch {
	case p < 0x40:
		return 0xFF
	case p < 0x80:
		if p&1 == 0 {
			return b.vdp.VCounter()
		}
		return b.vdp.HCounter()
	case p < 0xC0:
		if p&1 == 0 {
			return b.vdp.ReadData()
		}
		return b.vdp.ReadStatus()
	default:
		if p&1 == 0 { // 0xDC: player 1, active low
			return ^b.joypad
		}
		return 0xFF // 0xDD: player 2 not fitted
	}
}

func (b *SMSBus) Out(port uint16, value byte) {
	p := byte(port)
	switch {
	case p < 0x40:
		if p&1 == 0 {
			b.memControl = value
			// The boot ROM hands control to the cartridge by setting bit 3.
			b.biosEnabled = value&0x08 == 0 && len(b.bios) > 0
		} else {
			b.ioControl = value
		}
	case p < 0x80:
		// PSG writes accepted and dropped: no audio path
	case p < 0xC0:
		if p&1 == 0 {
			b.vdp.WriteData(value)
		} else {
			b.vdp.WriteControl(value)
		}
	default:
		// joypad ports are read-only
	}
}

// SetJoypad feeds the active-high player 1 button mask from the frontend.
func (b *SMSBus) SetJoypad(pad byte) {
	b.joypad = pad & 0x3F
}
