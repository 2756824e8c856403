package ppu

import "nesgo/pkg/logger"

// masterPalette is the fixed 64-entry NES color table (2C02 revision),
// indexed by palette value and stored as RGB triples.
var masterPalette = [64][3]uint8{
	// 0x00-0x0F
	{0x80, 0x80, 0x80}, {0x00, 0x3D, 0xA6}, {0x00, 0x12, 0xB0}, {0x44, 0x00, 0x96},
	{0xA1, 0x00, 0x5E}, {0xC7, 0x00, 0x28}, {0xBA, 0x06, 0x00}, {0x8C, 0x17, 0x00},
	{0x5C, 0x2F, 0x00}, {0x10, 0x45, 0x00}, {0x05, 0x4A, 0x00}, {0x00, 0x47, 0x2E},
	{0x00, 0x41, 0x66}, {0x00, 0x00, 0x00}, {0x05, 0x05, 0x05}, {0x05, 0x05, 0x05},

	// 0x10-0x1F
	{0xC7, 0xC7, 0xC7}, {0x00, 0x77, 0xFF}, {0x21, 0x55, 0xFF}, {0x82, 0x37, 0xFA},
	{0xEB, 0x2F, 0xB5}, {0xFF, 0x29, 0x50}, {0xFF, 0x22, 0x00}, {0xD6, 0x32, 0x00},
	{0xC4, 0x62, 0x00}, {0x35, 0x80, 0x00}, {0x05, 0x8F, 0x00}, {0x00, 0x8A, 0x55},
	{0x00, 0x99, 0xCC}, {0x21, 0x21, 0x21}, {0x09, 0x09, 0x09}, {0x09, 0x09, 0x09},

	// 0x20-0x2F
	{0xFF, 0xFF, 0xFF}, {0x0F, 0xD7, 0xFF}, {0x69, 0xA2, 0xFF}, {0xD4, 0x80, 0xFF},
	{0xFF, 0x45, 0xF3}, {0xFF, 0x61, 0x8B}, {0xFF, 0x88, 0x33}, {0xFF, 0x9C, 0x12},
	{0xFA, 0xBC, 0x20}, {0x9F, 0xE3, 0x0E}, {0x2B, 0xF0, 0x35}, {0x0C, 0xF0, 0xA4},
	{0x05, 0xFB, 0xFF}, {0x5E, 0x5E, 0x5E}, {0x0D, 0x0D, 0x0D}, {0x0D, 0x0D, 0x0D},

	// 0x30-0x3F
	{0xFF, 0xFF, 0xFF}, {0xA6, 0xFC, 0xFF}, {0xB3, 0xEC, 0xFF}, {0xDA, 0xAB, 0xEB},
	{0xFF, 0xA8, 0xF9}, {0xFF, 0xAB, 0xB3}, {0xFF, 0xD2, 0xB0}, {0xFF, 0xEF, 0xA6},
	{0xFF, 0xF7, 0x9C}, {0xD7, 0xFF, 0xB3}, {0xC6, 0xFF, 0xDE}, {0xC4, 0xFF, 0xF6},
	{0xC4, 0xF0, 0xFF}, {0xCC, 0xCC, 0xCC}, {0x3C, 0x3C, 0x3C}, {0x3C, 0x3C, 0x3C},
}

// spritePaletteBase is where sprite palette RAM starts within the
// 32-byte palette RAM; background palettes occupy 0x00-0x0F.
const spritePaletteBase = 0x10

// emphasisDim is how much a channel is attenuated when PPUMASK's color
// emphasis bits mark it as not emphasized.
const emphasisDim = 0.75

// PaletteManager owns the PPU's 32-byte palette RAM and converts
// palette indices into renderable ARGB colors.
type PaletteManager struct {
	PaletteRAM [32]uint8
	Emphasis   uint8 // bits 5-7 of PPUMASK
}

// NewPaletteManager returns a palette manager pre-loaded with a simple
// grayscale ramp, since real hardware's palette RAM is undefined at
// power-on and games always write their own before the first frame.
func NewPaletteManager() *PaletteManager {
	pm := &PaletteManager{}
	for i := range pm.PaletteRAM {
		pm.PaletteRAM[i] = 0x30
	}
	pm.PaletteRAM[0] = 0x0F
	pm.PaletteRAM[1] = 0x30
	pm.PaletteRAM[2] = 0x10
	pm.PaletteRAM[3] = 0x00

	logger.LogPPU("palette manager initialized")
	return pm
}

// mirrorBackdrop maps the four backdrop-mirror addresses ($10/$14/$18/
// $1C) onto their canonical background-palette slot.
func mirrorBackdrop(addr uint8) uint8 {
	if addr&0x13 == 0x10 {
		return addr &^ 0x10
	}
	return addr
}

func (pm *PaletteManager) ReadPalette(addr uint8) uint8 {
	return pm.PaletteRAM[mirrorBackdrop(addr&0x1F)]
}

func (pm *PaletteManager) WritePalette(addr uint8, value uint8) {
	pm.PaletteRAM[mirrorBackdrop(addr&0x1F)] = value & 0x3F
}

// paletteColor resolves one of the four colors in a palette group to
// its final ARGB value. base is the group's starting address in
// palette RAM (0 for background, spritePaletteBase for sprites).
func (pm *PaletteManager) paletteColor(base, palette, colorIndex uint8) uint32 {
	addr := base + palette*4 + colorIndex
	if base == 0 && colorIndex == 0 {
		addr = 0 // color 0 of every background palette is the shared backdrop
	}
	return pm.getARGBColor(pm.ReadPalette(addr))
}

func (pm *PaletteManager) GetBackgroundColor(palette, colorIndex uint8) uint32 {
	if palette > 3 || colorIndex > 3 {
		return 0xFF000000
	}
	return pm.paletteColor(0, palette, colorIndex)
}

func (pm *PaletteManager) GetSpriteColor(palette, colorIndex uint8) uint32 {
	if palette > 3 || colorIndex > 3 {
		return 0x00000000
	}
	if colorIndex == 0 {
		return 0x00000000 // sprite color 0 is always transparent
	}
	return pm.paletteColor(spritePaletteBase, palette, colorIndex)
}

func (pm *PaletteManager) getARGBColor(paletteIndex uint8) uint32 {
	if paletteIndex >= uint8(len(masterPalette)) {
		paletteIndex = 0
	}
	rgb := masterPalette[paletteIndex]
	r, g, b := rgb[0], rgb[1], rgb[2]
	if pm.Emphasis != 0 {
		r, g, b = pm.applyEmphasis(r, g, b)
	}
	return 0xFF000000 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// applyEmphasis dims each color channel PPUMASK's emphasis bits don't
// mark as boosted; this is an approximation of the real PPU's analog
// emphasis circuit, not an exact voltage-level model.
func (pm *PaletteManager) applyEmphasis(r, g, b uint8) (uint8, uint8, uint8) {
	if pm.Emphasis&0x20 == 0 {
		r = uint8(float32(r) * emphasisDim)
	}
	if pm.Emphasis&0x40 == 0 {
		g = uint8(float32(g) * emphasisDim)
	}
	if pm.Emphasis&0x80 == 0 {
		b = uint8(float32(b) * emphasisDim)
	}
	return r, g, b
}

func (pm *PaletteManager) SetEmphasis(emphasis uint8) {
	pm.Emphasis = emphasis & 0xE0
}

// GetPaletteDebugInfo reports every resolved color plus the raw
// palette RAM, for rom_analyzer/headless_debug style tooling.
func (pm *PaletteManager) GetPaletteDebugInfo() map[string]interface{} {
	resolve := func(get func(uint8, uint8) uint32) [][]uint32 {
		groups := make([][]uint32, 4)
		for palette := range groups {
			groups[palette] = make([]uint32, 4)
			for color := range groups[palette] {
				groups[palette][color] = get(uint8(palette), uint8(color))
			}
		}
		return groups
	}

	return map[string]interface{}{
		"background_palettes": resolve(pm.GetBackgroundColor),
		"sprite_palettes":     resolve(pm.GetSpriteColor),
		"emphasis":            pm.Emphasis,
		"palette_ram":         pm.PaletteRAM,
	}
}
