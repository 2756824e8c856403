package nes_test

import (
	"bytes"
	"testing"

	"nesgo/pkg/cartridge"
	"nesgo/pkg/cpu"
	"nesgo/pkg/nes"
)

func TestNewNESInitializesAllComponents(t *testing.T) {
	system := nes.NewNES()

	if system.CPU == nil || system.PPU == nil || system.APU == nil || system.Memory == nil {
		t.Fatal("NewNES left a component nil")
	}
	if system.CPU.PC != 0x0000 {
		t.Errorf("PC = %04X before reset, want 0000 (no cartridge, reset vector unset)", system.CPU.PC)
	}
	if system.PPU.Cycle != 0 || system.APU.Cycles != 0 {
		t.Errorf("PPU cycle = %d, APU cycles = %d, want both 0", system.PPU.Cycle, system.APU.Cycles)
	}
}

func TestReset(t *testing.T) {
	system := nes.NewNES()
	system.CPU.A, system.CPU.X, system.CPU.Y = 0xFF, 0xFF, 0xFF
	system.CPU.PC = 0x1234

	system.Reset()

	if system.CPU.A != 0 || system.CPU.X != 0 || system.CPU.Y != 0 {
		t.Errorf("registers not cleared by reset: A=%02X X=%02X Y=%02X", system.CPU.A, system.CPU.X, system.CPU.Y)
	}
	if system.CPU.PC != 0x0000 {
		t.Errorf("PC = %04X after reset, want 0000", system.CPU.PC)
	}
}

func TestRAMMirroring(t *testing.T) {
	system := nes.NewNES()
	system.Memory.Write(0x0000, 0x42)

	for _, mirror := range []uint16{0x0800, 0x1000, 0x1800} {
		if got := system.Memory.Read(mirror); got != 0x42 {
			t.Errorf("RAM mirror at %04X = %02X, want 42", mirror, got)
		}
	}
}

func TestNMIHandlingTakesSevenCycles(t *testing.T) {
	system := nes.NewNES()
	system.CPU.PC = 0x0200
	startSP := system.CPU.SP
	system.Memory.Write(0x0000, 0xEA) // NOP at the (cartridge-less) NMI vector

	system.CPU.TriggerNMI()
	cycles := system.CPU.Step()

	if cycles != 7 {
		t.Errorf("NMI entry took %d cycles, want 7", cycles)
	}
	if system.CPU.PC != 0x0000 {
		t.Errorf("PC after NMI = %04X, want 0000 (vector)", system.CPU.PC)
	}
	if system.CPU.SP != startSP-3 {
		t.Errorf("SP after NMI = %02X, want %02X (PC hi/lo + status pushed)", system.CPU.SP, startSP-3)
	}
	if !system.CPU.GetFlag(cpu.FlagInterrupt) {
		t.Error("interrupt-disable flag should be set after entering NMI")
	}
}

func TestClockRunsPPUThreeTimesPerCPUCycleAndAPUOnceEverySixth(t *testing.T) {
	system := nes.NewNES()
	startPPU, startAPU := system.PPU.Cycle, system.APU.Cycles

	for i := 0; i < 100; i++ {
		system.Step()
	}

	if system.PPU.Cycle <= startPPU {
		t.Error("PPU cycle counter did not advance")
	}
	if system.APU.Cycles <= startAPU {
		t.Error("APU cycle counter did not advance")
	}

	// Steps 0..99: the PPU ticks on every one, the CPU on every third
	// (0, 3, ..., 99) and the APU on every sixth (0, 6, ..., 96).
	if got := system.PPU.Cycle - startPPU; got != 100 {
		t.Errorf("PPU advanced %d cycles over 100 steps, want 100", got)
	}
	if got := system.CPU.TotalCycles(); got != 34 {
		t.Errorf("CPU clocked %d times over 100 steps, want 34", got)
	}
	if got := system.APU.Cycles - startAPU; got != 17 {
		t.Errorf("APU stepped %d times over 100 steps, want 17", got)
	}
}

// loadedSystem builds a NES with a 16KB-PRG/8KB-CHR mapper 0 cartridge
// whose PRG ROM starts with program and whose reset/NMI/IRQ vectors all
// point at $8000.
func loadedSystem(t *testing.T, program []uint8) *nes.NES {
	t.Helper()

	prg := make([]uint8, 16384)
	copy(prg, program)
	prg[0x3FFA], prg[0x3FFB] = 0x00, 0x80 // NMI
	prg[0x3FFC], prg[0x3FFD] = 0x00, 0x80 // reset
	prg[0x3FFE], prg[0x3FFF] = 0x00, 0x80 // IRQ

	rom := append([]byte{0x4E, 0x45, 0x53, 0x1A, 0x01, 0x01, 0x00, 0x00, 0, 0, 0, 0, 0, 0, 0, 0}, prg...)
	rom = append(rom, make([]byte, 8192)...) // empty CHR ROM

	cart, err := cartridge.LoadFromReader(bytes.NewReader(rom))
	if err != nil {
		t.Fatalf("load test cartridge: %v", err)
	}

	system := nes.NewNES()
	system.LoadCartridge(cart)
	system.Reset()
	return system
}

func TestCPUProgramExecutesAcrossFullSystemStep(t *testing.T) {
	program := []uint8{
		0xA9, 0x42, // LDA #$42
		0x85, 0x10, // STA $10
		0xA5, 0x10, // LDA $10
		0xC9, 0x42, // CMP #$42
		0x4C, 0x08, 0x80, // JMP $8008 (self: halt)
	}
	system := loadedSystem(t, program)

	for i := 0; i < 50 && system.CPU.PC != 0x8008; i++ {
		system.Step()
	}

	if system.CPU.A != 0x42 {
		t.Errorf("A = %02X, want 42", system.CPU.A)
	}
	if got := system.Memory.Read(0x10); got != 0x42 {
		t.Errorf("memory[0x10] = %02X, want 42", got)
	}
	if !system.CPU.GetFlag(cpu.FlagZero) {
		t.Error("zero flag should be set after CMP #$42 against A=$42")
	}
}

func TestCountingLoopReachesTerminalValue(t *testing.T) {
	program := []uint8{
		0xA9, 0x00, // LDA #$00
		0x69, 0x01, // loop: ADC #$01
		0xC9, 0xFF, // CMP #$FF
		0xD0, 0xFA, // BNE loop
		0x4C, 0x08, 0x80, // JMP $8008 (self: halt)
	}
	system := loadedSystem(t, program)

	for system.Cycles < 100000 && !(system.CPU.PC == 0x8008 && system.CPU.A == 0xFF) {
		system.Step()
	}

	if system.CPU.A != 0xFF {
		t.Errorf("A = %02X after counting loop, want FF", system.CPU.A)
	}
}
