// cart.go - Cartridge image and Sega mapper for MasterEngine

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/MasterEngine
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"log"
	"os"
)

const (
	cartBankSize = 0x4000
	cartMaxSize  = 4 << 20 // Sega mapper addresses up to 256 banks
)

// Cartridge is a ROM image behind the Sega mapper: three 16 KB slots whose
// bank selects live at the top of the address space. The first kilobyte is
// never banked so the interrupt vectors stay put.
type Cartridge struct {
	rom         []byte
	bankOffsets [3]int
}

func NewCartridge(rom []byte) *Cartridge {
	// 512-byte copier headers show up on a 16 KB-aligned image
	if len(rom)%cartBankSize == 512 {
		rom = rom[512:]
	}
	c := &Cartridge{rom: rom}
	c.bankOffsets = [3]int{0, cartBankSize, 2 * cartBankSize}
	return c
}

func (c *Cartridge) Read(addr uint16) byte {
	if len(c.rom) == 0 {
		return 0xFF
	}
	if addr < 0x400 {
		return c.rom[int(addr)%len(c.rom)]
	}
	slot := int(addr) / cartBankSize
	off := c.bankOffsets[slot] + int(addr)%cartBankSize
	return c.rom[off%len(c.rom)]
}

// WriteControl handles the mapper registers mirrored at 0xFFFC-0xFFFF.
func (c *Cartridge) WriteControl(addr uint16, value byte) {
	switch addr {
	case 0xFFFC:
		if value&0x08 != 0 {
			log.Printf("cart: RAM banking requested, no cartridge RAM fitted")
		}
	case 0xFFFD, 0xFFFE, 0xFFFF:
		c.bankOffsets[addr-0xFFFD] = int(value) * cartBankSize
	}
}

// LoadCartridge reads a ROM image from disk.
func LoadCartridge(path string) (*Cartridge, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cart: reading %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("cart: %s is empty", path)
	}
	if len(data) > cartMaxSize {
		return nil, fmt.Errorf("cart: %s is %d bytes, limit %d", path, len(data), cartMaxSize)
	}
	return NewCartridge(data), nil
}
