package nes

import (
	"nesgo/pkg/apu"
	"nesgo/pkg/cartridge"
	"nesgo/pkg/cpu"
	"nesgo/pkg/input"
	"nesgo/pkg/memory"
	"nesgo/pkg/ppu"
)

// NES represents the Nintendo Entertainment System
type NES struct {
	CPU       *cpu.CPU
	PPU       *ppu.PPU
	APU       *apu.APU
	Memory    *memory.Memory
	Cartridge *cartridge.Cartridge
	Input     *input.Controller

	Cycles uint64
	Frame  uint64

	// systemClock counts PPU cycles since power-on; it drives the
	// 1:3:6 PPU:CPU:APU tick ratio.
	systemClock uint64
}

// NewNES creates a new NES instance
func NewNES() *NES {
	nes := &NES{}

	// Initialize components
	nes.Memory = memory.New()
	nes.CPU = cpu.New(nes.Memory)
	nes.PPU = ppu.New(nes.Memory)
	nes.APU = apu.New()
	nes.Input = input.New()

	// Connect components to memory
	nes.Memory.SetPPU(nes.PPU)
	nes.Memory.SetAPU(nes.APU)
	nes.Memory.SetInput(nes.Input)
	nes.Memory.SetCPU(nes.CPU)

	return nes
}

// LoadCartridge loads a cartridge into the NES
func (n *NES) LoadCartridge(cart *cartridge.Cartridge) {
	n.Cartridge = cart
	n.Memory.SetCartridge(cart)
	n.PPU.SetCartridge(cart)
}

// Reset resets the NES to initial state
func (n *NES) Reset() {
	n.CPU.Reset()
	n.PPU.Reset()
	n.APU.Reset()
	n.Cycles = 0
	n.Frame = 0
	n.systemClock = 0
}

// Clock advances the whole system by one PPU cycle, clocking the CPU
// every third call and the APU every sixth, matching the NES's fixed
// 1:3:6 PPU:CPU:APU cycle ratio. The CPU is clocked (and can be stalled
// by an in-flight OAM DMA transfer) before NMI/IRQ lines raised by this
// same PPU tick are latched, so an interrupt requested this cycle is
// only serviced starting next cycle, as on real hardware.
func (n *NES) Clock() {
	n.PPU.Step()

	if n.systemClock%3 == 0 {
		n.CPU.Clock()
		if n.systemClock%6 == 0 {
			n.APU.Step()
		}
	}

	if n.PPU.NMIRequested {
		n.CPU.TriggerNMI()
		n.PPU.NMIRequested = false
	}
	if n.PPU.IsMapperIRQPending() {
		n.CPU.TriggerIRQ()
		n.PPU.ClearMapperIRQ()
	}

	n.systemClock++
	n.Cycles++
}

// Step advances the system by one PPU cycle. Kept as the externally
// visible single-tick entry point; StepFrame is the usual caller.
func (n *NES) Step() {
	n.Clock()
}

// StepFrame executes until frame is complete
func (n *NES) StepFrame() {
	stepCount := 0
	maxSteps := 341 * 262 * 2 // two frames' worth of PPU cycles as a safety cap

	for !n.PPU.FrameComplete {
		n.Clock()
		stepCount++

		// Safety check to prevent infinite loops during game freezes
		if stepCount > maxSteps {
			n.PPU.FrameComplete = true
			break
		}
	}

	n.PPU.FrameComplete = false
	// Frame counter is managed by PPU, don't increment here
	n.Frame = n.PPU.Frame
}

// GetInput returns the input controller
func (n *NES) GetInput() *input.Controller {
	return n.Input
}

// GetFramebuffer returns the current framebuffer from PPU
func (n *NES) GetFramebuffer() []uint8 {
	return n.PPU.GetFramebuffer()
}

// GetFrame returns the current frame number
func (n *NES) GetFrame() uint64 {
	return n.Frame
}

// GetFramebufferRaw returns the raw framebuffer as 32-bit integers
func (n *NES) GetFramebufferRaw() []uint32 {
	return n.PPU.FrameBuffer[:]
}

// GetDisplayFramebufferRaw returns the PPU's current framebuffer, the same
// slice GetFramebufferRaw returns
func (n *NES) GetDisplayFramebufferRaw() []uint32 {
	return n.PPU.FrameBuffer[:]
}

// GetDisplayFramebuffer returns the PPU's current framebuffer as RGBA bytes
func (n *NES) GetDisplayFramebuffer() []uint8 {
	// Get the current frame buffer
	frameBuffer := n.PPU.FrameBuffer[:]

	// Convert 32-bit framebuffer to RGBA bytes
	rgba := make([]uint8, 256*240*4)

	for i, pixel := range frameBuffer {
		// Extract RGB components from 32-bit pixel (0xAARRGGBB format)
		r := uint8((pixel >> 16) & 0xFF) // Extract R
		g := uint8((pixel >> 8) & 0xFF)  // Extract G
		b := uint8(pixel & 0xFF)         // Extract B
		a := uint8((pixel >> 24) & 0xFF) // Extract A

		// Use RGBA order to match expected format
		rgba[i*4+0] = r
		rgba[i*4+1] = g
		rgba[i*4+2] = b
		rgba[i*4+3] = a
	}

	return rgba
}
