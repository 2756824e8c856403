package apu

// Snapshot captures every channel's state plus the frame sequencer, so a
// Restore reproduces audio generation exactly where Save left off. The
// Output ring buffer and Memory (DMC sample) link are deliberately not
// part of the snapshot: they are host-side wiring, not emulated state.
type Snapshot struct {
	Pulse1   PulseChannel
	Pulse2   PulseChannel
	Triangle TriangleChannel
	Noise    NoiseChannel
	DMC      DMCChannel

	FrameCounter uint8
	FrameStep    int
	FrameIRQ     bool
	frameCycle   uint64

	Cycles uint64
}

// Save captures the APU's current channel and frame-sequencer state.
func (a *APU) Save() Snapshot {
	return Snapshot{
		Pulse1: a.Pulse1, Pulse2: a.Pulse2,
		Triangle: a.Triangle, Noise: a.Noise, DMC: a.DMC,
		FrameCounter: a.FrameCounter, FrameStep: a.FrameStep, FrameIRQ: a.FrameIRQ,
		frameCycle: a.frameCycle,
		Cycles:     a.Cycles,
	}
}

// Restore reinstates a Snapshot previously returned by Save.
func (a *APU) Restore(s Snapshot) {
	a.Pulse1, a.Pulse2 = s.Pulse1, s.Pulse2
	a.Triangle, a.Noise, a.DMC = s.Triangle, s.Noise, s.DMC
	a.FrameCounter, a.FrameStep, a.FrameIRQ = s.FrameCounter, s.FrameStep, s.FrameIRQ
	a.frameCycle = s.frameCycle
	a.Cycles = s.Cycles
}
