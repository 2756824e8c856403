package ppu

// Snapshot captures the PPU's registers, internal scroll latches, and
// memory arrays so a Restore reproduces rendering exactly where Save
// left off.
type Snapshot struct {
	PPUCTRL   uint8
	PPUMASK   uint8
	PPUSTATUS uint8
	OAMADDR   uint8
	OAMDATA   uint8
	PPUSCROLL uint8
	PPUADDR   uint8
	PPUDATA   uint8

	v, t     uint16
	x, xTemp uint8
	w        uint8

	ScrollY uint8

	VRAM       [0x4000]uint8
	OAM        [256]uint8
	PaletteRAM [32]uint8

	Cycle         int
	Scanline      int
	Frame         uint64
	FrameComplete bool

	NMIRequested bool
	readBuffer   uint8
}

// Save captures the PPU's current state.
func (p *PPU) Save() Snapshot {
	return Snapshot{
		PPUCTRL: p.PPUCTRL, PPUMASK: p.PPUMASK, PPUSTATUS: p.PPUSTATUS,
		OAMADDR: p.OAMADDR, OAMDATA: p.OAMDATA, PPUSCROLL: p.PPUSCROLL,
		PPUADDR: p.PPUADDR, PPUDATA: p.PPUDATA,
		v: p.v, t: p.t, x: p.x, xTemp: p.xTemp, w: p.w,
		ScrollY:       p.ScrollY,
		VRAM:          p.VRAM,
		OAM:           p.OAM,
		PaletteRAM:    p.PaletteManager.PaletteRAM,
		Cycle:         p.Cycle,
		Scanline:      p.Scanline,
		Frame:         p.Frame,
		FrameComplete: p.FrameComplete,
		NMIRequested:  p.NMIRequested,
		readBuffer:    p.readBuffer,
	}
}

// Restore reinstates a Snapshot previously returned by Save. The
// FrameBuffer is intentionally left alone; it is re-derived from VRAM as
// rendering resumes, rather than carried in the snapshot itself.
func (p *PPU) Restore(s Snapshot) {
	p.PPUCTRL, p.PPUMASK, p.PPUSTATUS = s.PPUCTRL, s.PPUMASK, s.PPUSTATUS
	p.OAMADDR, p.OAMDATA, p.PPUSCROLL = s.OAMADDR, s.OAMDATA, s.PPUSCROLL
	p.PPUADDR, p.PPUDATA = s.PPUADDR, s.PPUDATA
	p.v, p.t, p.x, p.xTemp, p.w = s.v, s.t, s.x, s.xTemp, s.w
	p.ScrollY = s.ScrollY
	p.VRAM = s.VRAM
	p.OAM = s.OAM
	p.PaletteManager.PaletteRAM = s.PaletteRAM
	p.Cycle, p.Scanline, p.Frame, p.FrameComplete = s.Cycle, s.Scanline, s.Frame, s.FrameComplete
	p.NMIRequested = s.NMIRequested
	p.readBuffer = s.readBuffer
	p.currentSprites = nil
}
