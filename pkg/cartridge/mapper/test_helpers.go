package mapper

// Shared ROM fixtures for the mapper test suite. Each buffer is filled
// with a byte pattern derived from its own offset, so a test can assert
// on the exact value it expects to read back without maintaining a
// parallel golden-data table.
var (
	prg16KB = patternedROM(16 * 1024)
	prg32KB = patternedROM(32 * 1024)
	chr8KB  = patternedROM(8 * 1024)
	chr32KB = patternedROM(32 * 1024)
)

func patternedROM(size int) []uint8 {
	rom := make([]uint8, size)
	for i := range rom {
		rom[i] = uint8(i & 0xFF)
	}
	return rom
}

func init() {
	// Reset vectors at the top of PRG space, pointing at $8000.
	if len(prg16KB) >= 0x4000 {
		prg16KB[0x3FFC], prg16KB[0x3FFD] = 0x00, 0x80
	}
	if len(prg32KB) >= 0x8000 {
		prg32KB[0x7FFC], prg32KB[0x7FFD] = 0x00, 0x80
	}
}

// bankedROM builds a ROM of bankCount banks of bankSize bytes, each
// bank filled uniformly with startValue+bankIndex, for mappers that
// switch whole banks in and out.
func bankedROM(bankCount int, bankSize int, startValue uint8) []uint8 {
	rom := make([]uint8, bankCount*bankSize)
	for i := range rom {
		rom[i] = startValue + uint8(i/bankSize)
	}
	return rom
}
