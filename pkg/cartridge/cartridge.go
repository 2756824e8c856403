package cartridge

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"nesgo/pkg/cartridge/mapper"
	"nesgo/pkg/logger"
)

// Cartridge represents a NES cartridge
type Cartridge struct {
	// ROM data
	PRGROM []uint8 // Program ROM
	CHRROM []uint8 // Character ROM

	// RAM data
	PRGRAM []uint8 // Program RAM (SRAM)
	CHRRAM []uint8 // Character RAM

	// Header information
	Header iNESHeader

	// Mapper
	Mapper mapper.Mapper

	// Mirroring
	Mirroring MirroringMode

	// RomPath is the source file path, used to derive the .sav battery RAM
	// path. Empty when the cartridge was loaded from an arbitrary reader.
	RomPath string
}

// iNESHeader represents the iNES file header
type iNESHeader struct {
	Magic      [4]uint8 // "NES\x1A"
	PRGROMSize uint8    // Size of PRG ROM in 16KB units
	CHRROMSize uint8    // Size of CHR ROM in 8KB units
	Flags6     uint8    // Mapper, mirroring, battery, trainer
	Flags7     uint8    // Mapper, VS/Playchoice, NES 2.0
	Flags8     uint8    // PRG-RAM size (rarely used)
	Flags9     uint8    // TV system (rarely used)
	Flags10    uint8    // TV system, PRG-RAM presence (unofficial)
	Padding    [5]uint8 // Unused padding (should be zero)
}

// MirroringMode represents the mirroring mode
type MirroringMode int

const (
	MirroringHorizontal MirroringMode = iota
	MirroringVertical
	MirroringFourScreen
	MirroringSingleScreenA
	MirroringSingleScreenB
)

// LoadFromReader loads a cartridge from an iNES file
func LoadFromReader(reader io.Reader) (*Cartridge, error) {
	cart := &Cartridge{}

	// Read header
	err := cart.readHeader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	// Validate header
	if string(cart.Header.Magic[:]) != "NES\x1A" {
		return nil, fmt.Errorf("invalid iNES magic number")
	}

	// Skip trainer if present
	if cart.Header.Flags6&0x04 != 0 {
		trainer := make([]uint8, 512)
		_, err := io.ReadFull(reader, trainer)
		if err != nil {
			return nil, fmt.Errorf("failed to read trainer: %w", err)
		}
	}

	// Read PRG ROM
	prgSize := int(cart.Header.PRGROMSize) * 16384
	cart.PRGROM = make([]uint8, prgSize)
	_, err = io.ReadFull(reader, cart.PRGROM)
	if err != nil {
		return nil, fmt.Errorf("failed to read PRG ROM: %w", err)
	}

	// Read CHR ROM
	chrSize := int(cart.Header.CHRROMSize) * 8192
	if chrSize > 0 {
		cart.CHRROM = make([]uint8, chrSize)
		_, err = io.ReadFull(reader, cart.CHRROM)
		if err != nil {
			return nil, fmt.Errorf("failed to read CHR ROM: %w", err)
		}
	} else {
		// CHR RAM - determine size based on mapper
		mapperNumber := (cart.Header.Flags6 >> 4) | (cart.Header.Flags7 & 0xF0)
		chrRAMSize := 8192 // Default 8KB

		// Mapper 4 (MMC3) games often use 32KB CHR RAM
		if mapperNumber == 4 {
			chrRAMSize = 32768 // 32KB for MMC3 games
		}

		cart.CHRRAM = make([]uint8, chrRAMSize)

		// Initialize CHR RAM to 0x00 (normal expected state)
		for i := range cart.CHRRAM {
			cart.CHRRAM[i] = 0x00
		}
	}

	// Initialize PRG RAM if battery backed
	if cart.Header.Flags6&0x02 != 0 {
		// Final Fantasy II requires 32KB PRG RAM, not 8KB
		cart.PRGRAM = make([]uint8, 32768)
	}

	// Determine mirroring
	if cart.Header.Flags6&0x08 != 0 {
		cart.Mirroring = MirroringFourScreen
	} else if cart.Header.Flags6&0x01 != 0 {
		cart.Mirroring = MirroringVertical
	} else {
		cart.Mirroring = MirroringHorizontal
	}

	// Create mapper
	mapperNumber := (cart.Header.Flags6 >> 4) | (cart.Header.Flags7 & 0xF0)

	// Create mapper data
	mapperData := &mapper.CartridgeData{
		PRGROM:     cart.PRGROM,
		CHRROM:     cart.CHRROM,
		PRGRAM:     cart.PRGRAM,
		CHRRAM:     cart.CHRRAM,
		HardMirror: hardMirror(cart.Mirroring),
		Battery:    cart.Header.Flags6&0x02 != 0,
	}

	cart.Mapper, err = mapper.NewMapper(mapperNumber, mapperData)
	if err != nil {
		return nil, fmt.Errorf("failed to create mapper: %w", err)
	}

	return cart, nil
}

// hardMirror converts the header-derived MirroringMode into the mapper
// package's Mirroring enum for mappers with no mirroring register of
// their own.
func hardMirror(m MirroringMode) mapper.Mirroring {
	switch m {
	case MirroringVertical:
		return mapper.MirrorVertical
	case MirroringFourScreen:
		return mapper.MirrorFourScreen
	case MirroringSingleScreenA:
		return mapper.MirrorSingleScreenLo
	case MirroringSingleScreenB:
		return mapper.MirrorSingleScreenHi
	default:
		return mapper.MirrorHorizontal
	}
}

// LoadFromFile loads a cartridge from an iNES file on disk and attempts to
// restore any battery-backed PRG RAM from its companion .sav file.
func LoadFromFile(path string) (*Cartridge, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ROM file: %w", err)
	}
	defer file.Close()

	cart, err := LoadFromReader(file)
	if err != nil {
		return nil, err
	}
	cart.RomPath = path

	if err := cart.LoadBatteryRAM(); err != nil {
		logger.LogError("failed to load battery RAM: %v", err)
	}

	return cart, nil
}

// savePath returns the companion .sav path for the cartridge's ROM file.
func (c *Cartridge) savePath() string {
	if c.RomPath == "" {
		return ""
	}
	return c.RomPath + ".sav"
}

// LoadBatteryRAM restores battery-backed PRG RAM from the cartridge's .sav
// file, if the mapper exposes one and the file exists.
func (c *Cartridge) LoadBatteryRAM() error {
	path := c.savePath()
	if path == "" {
		return nil
	}

	backed, ok := c.Mapper.(mapper.BatteryBacked)
	if !ok {
		return nil
	}
	ram, hasBattery := backed.Battery()
	if !hasBattery || ram == nil {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	copy(ram, data)
	logger.LogInfo("loaded %d bytes of battery RAM from %s", len(data), path)
	return nil
}

// SaveBatteryRAM persists battery-backed PRG RAM to the cartridge's .sav
// file, if the mapper exposes one.
func (c *Cartridge) SaveBatteryRAM() error {
	path := c.savePath()
	if path == "" {
		return nil
	}

	backed, ok := c.Mapper.(mapper.BatteryBacked)
	if !ok {
		return nil
	}
	ram, hasBattery := backed.Battery()
	if !hasBattery || ram == nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(path, ram, 0644); err != nil {
		return err
	}
	logger.LogInfo("saved %d bytes of battery RAM to %s", len(ram), path)
	return nil
}

// readHeader reads the iNES header
func (c *Cartridge) readHeader(reader io.Reader) error {
	headerBytes := make([]uint8, 16)
	_, err := io.ReadFull(reader, headerBytes)
	if err != nil {
		return err
	}

	copy(c.Header.Magic[:], headerBytes[0:4])
	c.Header.PRGROMSize = headerBytes[4]
	c.Header.CHRROMSize = headerBytes[5]
	c.Header.Flags6 = headerBytes[6]
	c.Header.Flags7 = headerBytes[7]
	c.Header.Flags8 = headerBytes[8]
	c.Header.Flags9 = headerBytes[9]
	c.Header.Flags10 = headerBytes[10]
	copy(c.Header.Padding[:], headerBytes[11:16])

	return nil
}

// ReadPRG reads from PRG space
func (c *Cartridge) ReadPRG(addr uint16) uint8 {
	if c.Mapper != nil {
		return c.Mapper.ReadPRG(addr)
	}
	return 0
}

// WritePRG writes to PRG space
func (c *Cartridge) WritePRG(addr uint16, value uint8) {
	if c.Mapper != nil {
		c.Mapper.WritePRG(addr, value)
	}
}

// ReadCHR reads from CHR space
func (c *Cartridge) ReadCHR(addr uint16) uint8 {
	if c.Mapper != nil {
		return c.Mapper.ReadCHR(addr)
	}
	return 0
}

// WriteCHR writes to CHR space
func (c *Cartridge) WriteCHR(addr uint16, value uint8) {
	if c.Mapper != nil {
		c.Mapper.WriteCHR(addr, value)
	}
}

// Step steps the mapper (for mappers with timing)
func (c *Cartridge) Step() {
	if c.Mapper != nil {
		c.Mapper.Step()
	}
}

// IsIRQPending returns whether mapper IRQ is pending
func (c *Cartridge) IsIRQPending() bool {
	if c.Mapper != nil {
		return c.Mapper.IsIRQPending()
	}
	return false
}

// ClearIRQ clears mapper IRQ
func (c *Cartridge) ClearIRQ() {
	if c.Mapper != nil {
		c.Mapper.ClearIRQ()
	}
}

// GetMirroring returns the mapper's current nametable mirroring mode.
// Mappers with their own mirroring register (MMC1, MMC3) report dynamic
// state here; others report the mode fixed by the cartridge header.
func (c *Cartridge) GetMirroring() mapper.Mirroring {
	if c.Mapper != nil {
		return c.Mapper.Mirror()
	}
	return hardMirror(c.Mirroring)
}
