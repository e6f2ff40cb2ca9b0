// vdp_render.go - Mode 4 scanline renderer for MasterEngine

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/MasterEngine
License: GPLv3 or later
*/

package main

// cramColor expands a --BBGGRR palette entry (2 bits per channel) to RGBA.
func cramColor(entry byte) (r, g, b byte) {
	r = (entry & 0x03) * 85
	g = (entry >> 2 & 0x03) * 85
	b = (entry >> 4 & 0x03) * 85
	return
}

func (v *VDP) putPixel(line, x int, cramIndex byte) {
	r, g, b := cramColor(v.cram[cramIndex&0x1F])
	off := (line*vdpScreenWidth + x) * 4
	v.framebuffer[off] = r
	v.framebuffer[off+1] = g
	v.framebuffer[off+2] = b
	v.framebuffer[off+3] = 0xFF
}

// renderLine draws one Mode 4 scanline: background plane with scroll, flips
// and per-tile palette, then sprites over non-priority background pixels.
func (v *VDP) renderLine(line int) {
	backdrop := 16 + v.regs[7]&0x0F
	if v.regs[1]&0x40 == 0 { // display blanked
		for x := 0; x < vdpScreenWidth; x++ {
			v.putPixel(line, x, backdrop)
		}
		return
	}

	var priority [vdpScreenWidth]bool
	v.renderBackground(line, &priority)
	v.renderSprites(line, &priority)

	if v.regs[0]&0x20 != 0 { // leftmost column shows the backdrop
		for x := 0; x < 8; x++ {
			v.putPixel(line, x, backdrop)
		}
	}
}

func (v *VDP) renderBackground(line int, priority *[vdpScreenWidth]bool) {
	nameBase := uint16(v.regs[2]&0x0E) << 10
	xScroll := int(v.regs[8])
	if v.regs[0]&0x40 != 0 && line < 16 { // top two rows pinned
		xScroll = 0
	}
	yScroll := int(v.regs[9])

	srcLine := (line + yScroll) % 224
	tileRow := srcLine / 8
	fineY := srcLine % 8

	for x := 0; x < vdpScreenWidth; x++ {
		srcX := (x - xScroll) & 0xFF
		tileCol := srcX / 8
		fineX := srcX % 8

		entryAddr := nameBase + uint16(tileRow)*64 + uint16(tileCol)*2
		lo := v.vram[entryAddr&0x3FFF]
		hi := v.vram[(entryAddr+1)&0x3FFF]

		tile := uint16(lo) | uint16(hi&0x01)<<8
		hFlip := hi&0x02 != 0
		vFlip := hi&0x04 != 0
		palette := hi & 0x08 >> 3
		prio := hi&0x10 != 0

		py := fineY
		if vFlip {
			py = 7 - py
		}
		px := fineX
		if hFlip {
			px = 7 - px
		}

		colour := v.tilePixel(tile, py, px)
		priority[x] = prio && colour != 0
		v.putPixel(line, x, palette*16+colour)
	}
}

// tilePixel reads the 4-bit colour of one pixel from the planar pattern
// table: 32 bytes per tile, 4 bitplane bytes per row.
func (v *VDP) tilePixel(tile uint16, row, col int) byte {
	base := (uint16(tile)*32 + uint16(row)*4) & 0x3FFF
	bit := byte(7 - col)
	var colour byte
	for plane := uint16(0); plane < 4; plane++ {
		if v.vram[(base+plane)&0x3FFF]&(1<<bit) != 0 {
			colour |= 1 << plane
		}
	}
	return colour
}

func (v *VDP) renderSprites(line int, priority *[vdpScreenWidth]bool) {
	satBase := uint16(v.regs[5]&0x7E) << 7
	patternBase := uint16(v.regs[6]&0x04) << 11
	height := 8
	if v.regs[1]&0x02 != 0 {
		height = 16
	}
	xShift := 0
	if v.regs[0]&0x08 != 0 {
		xShift = -8
	}

	var drawn [vdpScreenWidth]bool
	onLine := 0

	for i := uint16(0); i < 64; i++ {
		y := v.vram[(satBase+i)&0x3FFF]
		if y == 0xD0 { // terminator in 192-line mode
			break
		}
		spriteY := int(y) + 1
		if line < spriteY || line >= spriteY+height {
			continue
		}
		onLine++
		if onLine > 8 {
			v.spriteOverflow = true
			break
		}

		x := int(v.vram[(satBase+0x80+i*2)&0x3FFF]) + xShift
		tile := uint16(v.vram[(satBase+0x80+i*2+1)&0x3FFF])
		if height == 16 {
			tile &= 0xFE
		}

		row := line - spriteY
		addr := patternBase/32 + tile // pattern index with the base folded in
		for px := 0; px < 8; px++ {
			sx := x + px
			if sx < 0 || sx >= vdpScreenWidth {
				continue
			}
			colour := v.tilePixel(addr, row, px)
			if colour == 0 {
				continue
			}
			if drawn[sx] {
				v.spriteCollision = true
				continue
			}
			drawn[sx] = true
			if priority[sx] {
				continue
			}
			v.putPixel(line, sx, 16+colour)
		}
	}
}
