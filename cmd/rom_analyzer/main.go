// Command rom_analyzer dumps an iNES header and mapper-specific bank
// layout for a ROM, without creating an emulator instance.
package main

import (
	"fmt"
	"log"
	"os"

	"nesgo/pkg/cartridge"
	"nesgo/pkg/cartridge/mapper"
	"nesgo/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: rom_analyzer <rom_file>")
		os.Exit(1)
	}
	if err := run(os.Args[1]); err != nil {
		log.Fatal(err)
	}
}

func run(romFile string) error {
	cart, err := cartridge.LoadFromFile(romFile)
	if err != nil {
		return fmt.Errorf("rom_analyzer: load ROM: %w", err)
	}

	reportHeader(romFile, cart)
	reportMirroringAndMemory(cart)

	mapperNumber := (cart.Header.Flags6 >> 4) | (cart.Header.Flags7 & 0xF0)
	if mapperNumber == 4 {
		reportMapper4(cart)
	}

	dumpRawHeader(cart)
	return nil
}

func reportHeader(romFile string, cart *cartridge.Cartridge) {
	h := cart.Header
	logger.LogInfo("=== ROM Analysis ===")
	logger.LogInfo("File: %s", romFile)
	logger.LogInfo("Magic: %s (0x%02X%02X%02X%02X)", string(h.Magic[:]), h.Magic[0], h.Magic[1], h.Magic[2], h.Magic[3])
	logger.LogInfo("PRG ROM size: %d units (%d KB)", h.PRGROMSize, int(h.PRGROMSize)*16)
	logger.LogInfo("CHR ROM size: %d units (%d KB)", h.CHRROMSize, int(h.CHRROMSize)*8)
	logger.LogInfo("Flags6-10: 0x%02X 0x%02X 0x%02X 0x%02X 0x%02X", h.Flags6, h.Flags7, h.Flags8, h.Flags9, h.Flags10)

	mapperNumber := (h.Flags6 >> 4) | (h.Flags7 & 0xF0)
	logger.LogInfo("Mapper number: %d", mapperNumber)
	logger.LogInfo("Trainer present: %v, battery backed: %v, four-screen VRAM: %v",
		h.Flags6&0x04 != 0, h.Flags6&0x02 != 0, h.Flags6&0x08 != 0)
}

func reportMirroringAndMemory(cart *cartridge.Cartridge) {
	h := cart.Header
	switch {
	case h.Flags6&0x08 != 0:
		logger.LogInfo("Mirroring: four-screen")
	case h.Flags6&0x01 != 0:
		logger.LogInfo("Mirroring: vertical")
	default:
		logger.LogInfo("Mirroring: horizontal")
	}

	logger.LogInfo("PRG ROM: %d bytes (0x%04X)", len(cart.PRGROM), len(cart.PRGROM))
	if len(cart.CHRROM) > 0 {
		logger.LogInfo("CHR ROM: %d bytes (0x%04X)", len(cart.CHRROM), len(cart.CHRROM))
	}
	if len(cart.CHRRAM) > 0 {
		logger.LogInfo("CHR RAM: %d bytes (0x%04X)", len(cart.CHRRAM), len(cart.CHRRAM))
	}
	if len(cart.PRGRAM) > 0 {
		logger.LogInfo("PRG RAM: %d bytes (0x%04X)", len(cart.PRGRAM), len(cart.PRGRAM))
	}
}

func reportMapper4(cart *cartridge.Cartridge) {
	mapper4, ok := cart.Mapper.(*mapper.Mapper4)
	if !ok {
		return
	}

	logger.LogInfo("=== MMC3 (mapper 4) details ===")
	banks := mapper4.GetCurrentPRGBanks()
	logger.LogInfo("PRG banks: $8000=%d $A000=%d $C000=%d (fixed) $E000=%d (fixed)",
		banks[0], banks[1], banks[2], banks[3])
	logger.LogInfo("PRG banks total (8KB each): %d", len(cart.PRGROM)/8192)

	if len(cart.CHRROM) > 0 {
		logger.LogInfo("CHR banks total (1KB each): %d", len(cart.CHRROM)/1024)
	} else {
		logger.LogInfo("CHR RAM banks total (1KB each): %d", len(cart.CHRRAM)/1024)
	}
}

func dumpRawHeader(cart *cartridge.Cartridge) {
	h := cart.Header
	bytes := []uint8{
		h.Magic[0], h.Magic[1], h.Magic[2], h.Magic[3],
		h.PRGROMSize, h.CHRROMSize, h.Flags6, h.Flags7,
		h.Flags8, h.Flags9, h.Flags10,
		h.Padding[0], h.Padding[1], h.Padding[2], h.Padding[3], h.Padding[4],
	}

	logger.LogInfo("=== Raw header dump ===")
	line := ""
	for i, b := range bytes {
		line += fmt.Sprintf("%02X ", b)
		if (i+1)%16 == 0 {
			logger.LogInfo(line)
			line = ""
		}
	}
	if line != "" {
		logger.LogInfo(line)
	}
}
