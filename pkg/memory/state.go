package memory

// Snapshot captures the bus's own RAM. The PPU/APU/Cartridge/Input links
// are not part of it — each of those owns and snapshots its own state.
type Snapshot struct {
	RAM [2048]uint8
}

// Save captures the current contents of CPU RAM.
func (m *Memory) Save() Snapshot {
	return Snapshot{RAM: m.RAM}
}

// Restore reinstates a Snapshot previously returned by Save.
func (m *Memory) Restore(s Snapshot) {
	m.RAM = s.RAM
}
