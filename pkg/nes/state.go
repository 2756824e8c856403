package nes

import (
	"nesgo/pkg/apu"
	"nesgo/pkg/cpu"
	"nesgo/pkg/memory"
	"nesgo/pkg/ppu"
)

// EmulatorState is a quick-save snapshot of the system's CPU, PPU, APU,
// and bus RAM, grounded on the reference implementation's quick_save /
// quick_load pair. It deliberately stops short of an on-disk encoding:
// callers decide how (or whether) to serialize it. Cartridge mapper
// bank-select state is not covered here; it is out of scope for the
// boundary this snapshot draws, beyond the battery-backed PRG RAM
// already persisted by Cartridge.SaveBatteryRAM.
type EmulatorState struct {
	CPU    cpu.Snapshot
	PPU    ppu.Snapshot
	APU    apu.Snapshot
	Memory memory.Snapshot

	Cycles uint64
	Frame  uint64
}

// Snapshot captures the system's current state. Like the reference
// implementation's quick_save, this is only meaningful at a frame
// boundary: call it right after StepFrame returns, never mid-frame.
func (n *NES) Snapshot() EmulatorState {
	return EmulatorState{
		CPU:    n.CPU.Save(),
		PPU:    n.PPU.Save(),
		APU:    n.APU.Save(),
		Memory: n.Memory.Save(),
		Cycles: n.Cycles,
		Frame:  n.Frame,
	}
}

// Restore reinstates a state previously captured by Snapshot. The
// cartridge, its mapper's bank-select state, and the host-side input
// and audio-output plumbing are left untouched; only emulated CPU/PPU/
// APU/RAM state changes.
func (n *NES) Restore(s EmulatorState) {
	n.CPU.Restore(s.CPU)
	n.PPU.Restore(s.PPU)
	n.APU.Restore(s.APU)
	n.Memory.Restore(s.Memory)
	n.Cycles = s.Cycles
	n.Frame = s.Frame
	n.systemClock = s.Cycles
}
