package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"nesgo/pkg/cartridge"
	"nesgo/pkg/gui"
	"nesgo/pkg/logger"
	"nesgo/pkg/nes"
)

// Global debug flag
var DebugMode bool

func main() {
	var (
		logLevel   string
		logFile    string
		cpuLog     bool
		ppuLog     bool
		apuLog     bool
		mapperLog  bool
		headless   bool
		testFrames int
		debugMode  bool
	)

	root := &cobra.Command{
		Use:   "gones <rom_file>",
		Short: "A cycle-accurate NES emulator",
		Long: "gones plays iNES ROMs.\n\n" +
			"Controls:\n" +
			"  Z - A button\n" +
			"  X - B button\n" +
			"  A - Select\n" +
			"  S - Start\n" +
			"  Arrow keys - D-pad\n" +
			"  ESC - Quit",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], logLevel, logFile, cpuLog, ppuLog, apuLog, mapperLog, headless, testFrames, debugMode)
		},
	}

	flags := root.Flags()
	flags.StringVar(&logLevel, "log-level", "info", "Log level (off, error, warn, info, debug, trace)")
	flags.StringVar(&logFile, "log-file", "", "Log file path (empty for stdout)")
	flags.BoolVar(&cpuLog, "cpu-log", false, "Enable CPU instruction logging")
	flags.BoolVar(&ppuLog, "ppu-log", false, "Enable PPU logging")
	flags.BoolVar(&apuLog, "apu-log", false, "Enable APU logging")
	flags.BoolVar(&mapperLog, "mapper-log", false, "Enable mapper logging")
	flags.BoolVar(&headless, "headless", false, "Run in headless mode for testing")
	flags.IntVar(&testFrames, "test-frames", 600, "Number of frames to run in headless mode")
	flags.BoolVar(&debugMode, "debug", false, "Enable extra debug output (reduces performance)")

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}

func run(romFile, logLevel, logFile string, cpuLog, ppuLog, apuLog, mapperLog, headless bool, testFrames int, debugMode bool) error {
	// Initialize logger
	level := logger.GetLogLevelFromString(logLevel)
	if err := logger.Initialize(level, logFile); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Close()

	// Configure component logging
	logger.SetCPULogging(cpuLog)
	logger.SetPPULogging(ppuLog)
	logger.SetAPULogging(apuLog)
	logger.SetMapperLogging(mapperLog)

	// Set global debug mode
	DebugMode = debugMode

	logger.LogInfo("GoNES Emulator starting...")
	logger.LogInfo("Log level: %s", logLevel)
	if logFile != "" {
		logger.LogInfo("Logging to file: %s", logFile)
	}

	// Check if file exists
	if _, err := os.Stat(romFile); os.IsNotExist(err) {
		return fmt.Errorf("ROM file not found: %s", romFile)
	}

	// Load cartridge, including any saved battery RAM alongside it
	cart, err := cartridge.LoadFromFile(romFile)
	if err != nil {
		logger.LogError("Failed to load ROM: %v", err)
		return fmt.Errorf("failed to load ROM: %w", err)
	}
	defer func() {
		if err := cart.SaveBatteryRAM(); err != nil {
			logger.LogError("Failed to save battery RAM: %v", err)
		}
	}()

	mapperNumber := (cart.Header.Flags6 >> 4) | (cart.Header.Flags7 & 0xF0)

	logger.LogInfo("Loaded ROM: %s", filepath.Base(romFile))
	logger.LogInfo("Mapper: %d", mapperNumber)
	logger.LogInfo("PRG ROM: %d KB", len(cart.PRGROM)/1024)
	if len(cart.CHRROM) > 0 {
		logger.LogInfo("CHR ROM: %d KB", len(cart.CHRROM)/1024)
	} else {
		logger.LogInfo("CHR RAM: %d KB", len(cart.CHRRAM)/1024)
	}

	// Create NES system
	logger.LogInfo("Creating NES system...")
	nesSystem := nes.NewNES()
	nesSystem.LoadCartridge(cart)
	nesSystem.Reset()
	logger.LogInfo("NES system initialized")

	if headless {
		// Run in headless mode
		runHeadless(nesSystem, testFrames)
		return nil
	}

	// Create and run GUI
	logger.LogInfo("Creating GUI...")
	nesGUI, err := gui.New(nesSystem)
	if err != nil {
		logger.LogError("Failed to create GUI: %v", err)
		return fmt.Errorf("failed to create GUI: %w", err)
	}
	defer nesGUI.Destroy()

	logger.LogInfo("Starting emulator...")
	nesGUI.Run()
	logger.LogInfo("Emulator stopped")
	return nil
}

func runHeadless(nesSystem *nes.NES, maxFrames int) {
	logger.LogInfo("Starting headless mode for %d frames", maxFrames)

	startTime := time.Now()

	for frame := 0; frame < maxFrames; frame++ {
		// Run one frame
		nesSystem.StepFrame()
	}

	elapsed := time.Since(startTime)
	logger.LogInfo("Headless execution completed in %v", elapsed)

	// Final frame analysis
	frameBuffer := nesSystem.GetDisplayFramebufferRaw()
	analyzeFrameBuffer(frameBuffer, maxFrames-1)
}

func saveFrameBuffer(frameBuffer []uint32, filename string) {
	file, err := os.Create(filename)
	if err != nil {
		logger.LogError("Error creating file %s: %v", filename, err)
		return
	}
	defer file.Close()

	// Convert uint32 to bytes and write
	for _, pixel := range frameBuffer {
		file.Write([]byte{
			byte(pixel >> 24), // A
			byte(pixel >> 16), // R
			byte(pixel >> 8),  // G
			byte(pixel),       // B
		})
	}

	logger.LogInfo("Frame buffer saved: %s (%d bytes)", filename, len(frameBuffer)*4)
}

func analyzeFrameBuffer(frameBuffer []uint32, frame int) {
	pixelCounts := make(map[uint32]int)
	totalPixels := len(frameBuffer)

	// Count unique pixel values
	for _, pixel := range frameBuffer {
		pixelCounts[pixel]++
	}

	logger.LogInfo("Frame %d analysis:", frame)
	logger.LogInfo("  Total pixels: %d", totalPixels)
	logger.LogInfo("  Unique colors: %d", len(pixelCounts))

	// Show most common colors
	for color, count := range pixelCounts {
		percentage := float64(count) / float64(totalPixels) * 100
		if percentage > 1.0 { // Only show colors that make up >1% of the image
			logger.LogInfo("  Color 0x%08X: %d pixels (%.1f%%)", color, count, percentage)
		}
	}

	// Check for non-background pixels
	nonBgCount := 0
	for color, count := range pixelCounts {
		if color != 0xFF050505 { // Not the typical background color
			nonBgCount += count
		}
	}

	if nonBgCount > 0 {
		logger.LogInfo("  Non-background pixels: %d (%.1f%%)",
			nonBgCount, float64(nonBgCount)/float64(totalPixels)*100)
	} else {
		logger.LogInfo("  All pixels are background color")
	}
}

func countNonBackgroundPixels(frameBuffer []uint32) int {
	count := 0
	bgColor := uint32(0xFF050505)    // Typical background color
	blackColor := uint32(0xFF000000) // Black color
	zeroColor := uint32(0x00000000)  // Uninitialized

	for _, pixel := range frameBuffer {
		// Count as meaningful if it's not background, black, or zero
		if pixel != bgColor && pixel != blackColor && pixel != zeroColor {
			count++
		}
	}
	return count
}
