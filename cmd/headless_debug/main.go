// Command headless_debug runs a ROM for a fixed number of frames with no
// GUI, printing PPU/mapper state along the way. Useful for chasing
// rendering or mapper-timing regressions without a display attached.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"nesgo/pkg/cartridge"
	"nesgo/pkg/cartridge/mapper"
	"nesgo/pkg/logger"
	"nesgo/pkg/nes"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: headless_debug <rom_file> [frames]")
		os.Exit(1)
	}

	frames := 10
	if len(os.Args) >= 3 {
		fmt.Sscanf(os.Args[2], "%d", &frames)
	}

	if err := run(os.Args[1], frames); err != nil {
		log.Fatal(err)
	}
}

func run(romFile string, frames int) error {
	if err := logger.Initialize(logger.LogLevelDebug, ""); err != nil {
		return fmt.Errorf("headless_debug: init logger: %w", err)
	}
	defer logger.Close()

	cart, err := cartridge.LoadFromFile(romFile)
	if err != nil {
		return fmt.Errorf("headless_debug: load ROM: %w", err)
	}

	mapperNumber := (cart.Header.Flags6 >> 4) | (cart.Header.Flags7 & 0xF0)
	logger.LogInfo("=== Headless Debug Mode ===")
	logger.LogInfo("ROM: %s, mapper %d, running %d frame(s)", romFile, mapperNumber, frames)

	system := nes.NewNES()
	system.LoadCartridge(cart)
	system.Reset()
	logger.LogInfo("Initial state: frame=%d cycles=%d", system.GetFrame(), system.Cycles)

	if mapperNumber == 4 {
		logMapper4State(cart.Mapper, 0)
	}

	start := time.Now()
	for i := 0; i < frames; i++ {
		runOneFrame(system, cart.Mapper, mapperNumber, i, frames)
	}

	logger.LogInfo("=== Final Results ===")
	logger.LogInfo("Completed %d frame(s) in %v (avg %v)",
		system.GetFrame(), time.Since(start), time.Since(start)/time.Duration(frames))
	logger.LogInfo("Final cycle count: %d", system.Cycles)

	if mapperNumber == 4 {
		logMapper4State(cart.Mapper, system.GetFrame())
	}
	return nil
}

func runOneFrame(system *nes.NES, m mapper.Mapper, mapperNumber uint8, i, total int) {
	frameStart := time.Now()
	system.StepFrame()
	logger.LogInfo("Frame %d completed in %v (cycles=%d)", system.GetFrame(), time.Since(frameStart), system.Cycles)

	if i == 0 {
		logPPUState(system)
	}
	if mapperNumber == 4 && (i+1)%3 == 0 {
		logMapper4State(m, system.GetFrame())
	}

	framebuffer := system.GetFramebuffer()
	nonZero, histogram := summarizeFramebuffer(framebuffer)
	logger.LogInfo("  non-zero pixels: %d", nonZero)
	if i == 0 {
		logger.LogInfo("  pixel distribution: %s", formatHistogram(histogram))
	}
	if i == total-1 {
		name := fmt.Sprintf("debug_frame_%d.raw", system.GetFrame())
		if err := saveFramebuffer(framebuffer, name); err != nil {
			logger.LogError("saving final framebuffer: %v", err)
		}
	}
}

// summarizeFramebuffer counts how many of the palette-index bytes in
// framebuffer are non-background and tallies their distribution.
func summarizeFramebuffer(framebuffer []uint8) (nonZero int, histogram map[uint8]int) {
	histogram = make(map[uint8]int)
	for _, v := range framebuffer {
		histogram[v]++
		if v != 0 {
			nonZero++
		}
	}
	return nonZero, histogram
}

func formatHistogram(histogram map[uint8]int) string {
	out := ""
	for value, count := range histogram {
		if count > 0 {
			out += fmt.Sprintf("0x%02X:%d ", value, count)
		}
	}
	return out
}

func logMapper4State(m mapper.Mapper, frame uint64) {
	mapper4, ok := m.(*mapper.Mapper4)
	if !ok {
		return
	}

	logger.LogInfo("--- Mapper 4 state (frame %d) ---", frame)
	banks := mapper4.GetCurrentPRGBanks()
	logger.LogInfo("  PRG banks [$8000,$A000,$C000,$E000]: %v", banks)

	info := mapper4.GetDebugInfo()
	bankRegs := info["bankRegisters"].([8]uint8)
	logger.LogInfo("  bank select=0x%02X registers=%v", info["bankSelect"], bankRegs)
	logger.LogInfo("  PRG mode=%d CHR mode=%d mirroring=%d", info["prgMode"], info["chrMode"], info["mirroringMode"])
	logger.LogInfo("  PRG RAM protect=0x%02X", info["prgRAMProtect"])
	logger.LogInfo("  IRQ counter=%d reload=%d enabled=%v pending=%v",
		info["irqCounter"], info["irqReloadValue"], info["irqEnabled"], info["irqPending"])
	logger.LogInfo("  bank counts: PRG=%d (8KB) CHR=%d (1KB)", info["prgBankCount"], info["chrBankCount"])
}

func logPPUState(system *nes.NES) {
	p := system.PPU
	logger.LogInfo("  PPU: frame=%d scanline=%d cycle=%d", p.Frame, p.Scanline, p.Cycle)
	logger.LogInfo("  PPU: CTRL=0x%02X MASK=0x%02X STATUS=0x%02X", p.PPUCTRL, p.PPUMASK, p.PPUSTATUS)
	logger.LogInfo("  rendering: bg=%v sprites=%v", p.PPUMASK&0x08 != 0, p.PPUMASK&0x10 != 0)
	logger.LogInfo("  NMI: enabled=%v requested=%v", p.PPUCTRL&0x80 != 0, p.NMIRequested)
}

func saveFramebuffer(framebuffer []uint8, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err := file.Write(framebuffer); err != nil {
		return err
	}
	logger.LogInfo("  framebuffer saved to %s (%d bytes)", filename, len(framebuffer))
	return nil
}
