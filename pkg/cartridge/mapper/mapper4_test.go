package mapper

import "testing"

func bankedData(prgBanks, chrBanks int) *CartridgeData {
	prg := make([]uint8, prgBanks*8192)
	for i := range prg {
		prg[i] = uint8(i/8192) + 1
	}
	chr := make([]uint8, chrBanks*1024)
	for i := range chr {
		chr[i] = uint8(i/1024) + 1
	}
	return &CartridgeData{PRGROM: prg, CHRROM: chr}
}

func TestMapper4LastPRGBankIsFixedAtE000(t *testing.T) {
	data := bankedData(32, 16) // 256KB PRG, 128KB CHR
	m := NewMapper4(data)

	want := uint8(len(data.PRGROM) / 8192)
	if got := m.ReadPRG(0xE000); got != want {
		t.Errorf("$E000 = %02X, want %02X (last bank)", got, want)
	}
}

func TestMapper4PRGBankingModes(t *testing.T) {
	data := bankedData(32, 1)
	m := NewMapper4(data)

	m.WritePRG(0x8000, 0x06) // select R6, PRG mode 0
	m.WritePRG(0x8001, 0x0A) // R6 = bank 10
	if got := m.ReadPRG(0x8000); got != 0x0B {
		t.Errorf("mode 0: $8000 = %02X, want 0B (bank 10)", got)
	}

	m.WritePRG(0x8000, 0x46) // PRG mode 1 (bit 6 set), R6 still selected
	if got := m.ReadPRG(0xC000); got != 0x0B {
		t.Errorf("mode 1: $C000 = %02X, want 0B (R6 swapped here)", got)
	}
	wantSecondLast := uint8(len(data.PRGROM)/8192) - 1
	if got := m.ReadPRG(0x8000); got != wantSecondLast {
		t.Errorf("mode 1: $8000 = %02X, want %02X (second-to-last bank)", got, wantSecondLast)
	}
}

func TestMapper4CHRBankingModes(t *testing.T) {
	data := bankedData(4, 128)
	m := NewMapper4(data)

	m.WritePRG(0x8000, 0x00) // select R0, CHR mode 0
	m.WritePRG(0x8001, 0x14) // R0 = bank 20 (2KB unit)
	if got := m.ReadCHR(0x0000); got != 0x15 {
		t.Errorf("mode 0: CHR $0000 = %02X, want 15 (bank 20)", got)
	}

	m.WritePRG(0x8000, 0x80) // CHR mode 1 (bit 7 set)
	m.WritePRG(0x8001, 0x00) // R0 = bank 0
	if got := m.ReadCHR(0x1000); got != 0x01 {
		t.Errorf("mode 1: CHR $1000 = %02X, want 01 (R0 now maps here)", got)
	}
}

func TestMapper4MirroringBit(t *testing.T) {
	m := NewMapper4(&CartridgeData{PRGROM: prg32KB, CHRROM: chr8KB})

	m.WritePRG(0xA000, 0x00)
	if got := m.Mirror(); got != MirrorVertical {
		t.Errorf("bit0=0: mirror = %v, want vertical", got)
	}
	m.WritePRG(0xA000, 0x01)
	if got := m.Mirror(); got != MirrorHorizontal {
		t.Errorf("bit0=1: mirror = %v, want horizontal", got)
	}
}

func TestMapper4IRQLatchReloadAndEnable(t *testing.T) {
	m := NewMapper4(&CartridgeData{PRGROM: prg32KB, CHRROM: chr8KB})

	m.WritePRG(0xC000, 0x08) // latch = 8
	m.WritePRG(0xC001, 0x00) // force reload
	m.WritePRG(0xE001, 0x00) // enable

	counter, reload, enabled, pending := m.GetIRQState()
	if reload != 0x08 {
		t.Errorf("reload = %d, want 8", reload)
	}
	if !enabled {
		t.Error("IRQ should be enabled")
	}
	if counter != 0 {
		t.Errorf("counter after forced reload = %d, want 0", counter)
	}
	if pending {
		t.Error("no IRQ should be pending before any scanline clocks")
	}

	m.WritePRG(0xE000, 0x00) // disable + acknowledge
	_, _, enabled, pending = m.GetIRQState()
	if enabled {
		t.Error("IRQ should be disabled")
	}
	if pending {
		t.Error("disabling should also acknowledge any pending IRQ")
	}
}

func TestMapper4BankRegistersReflectSelectedValues(t *testing.T) {
	m := NewMapper4(&CartridgeData{PRGROM: prg32KB, CHRROM: chr8KB})

	for reg := uint8(0); reg < 8; reg++ {
		m.WritePRG(0x8000, reg)
		m.WritePRG(0x8001, reg*5)
	}

	registers := m.GetBankRegisters()
	for reg := uint8(0); reg < 8; reg++ {
		want := reg * 5
		if reg < 6 {
			want %= uint8(len(chr8KB) / 1024)
		} else {
			want %= uint8(len(prg32KB) / 8192)
		}
		if registers[reg] != want {
			t.Errorf("R%d = %d, want %d", reg, registers[reg], want)
		}
	}
}

func TestMapper4PRGRAMReadWrite(t *testing.T) {
	m := NewMapper4(&CartridgeData{PRGROM: prg32KB, CHRROM: chr8KB, PRGRAM: make([]uint8, 8*1024)})

	m.WritePRG(0x6000, 0xAB)
	if got := m.ReadPRG(0x6000); got != 0xAB {
		t.Errorf("PRG RAM roundtrip = %02X, want AB", got)
	}
}

func TestMapper4CHRRAMUnaffectedByUnrelatedBankRegister(t *testing.T) {
	m := NewMapper4(&CartridgeData{PRGROM: prg32KB, CHRRAM: make([]uint8, 8*1024)})

	m.WriteCHR(0x1000, 0xCC)
	m.WritePRG(0x8000, 0x00)
	m.WritePRG(0x8001, 0x01)

	if got := m.ReadCHR(0x1000); got != 0xCC {
		t.Errorf("CHR RAM at $1000 maps through R2 in CHR mode 0, so writing R0 must not move it; got %02X", got)
	}
}

func TestMapper4RegisterAddressesDoNotPanic(t *testing.T) {
	m := NewMapper4(&CartridgeData{PRGROM: prg32KB, CHRROM: chr8KB})

	for _, addr := range []uint16{0x8000, 0x8001, 0xA000, 0xA001, 0xC000, 0xC001, 0xE000, 0xE001, 0x9FFF, 0xBFFF, 0xDFFF, 0xFFFF} {
		m.WritePRG(addr, 0x00)
	}
}

// rijndaelPattern builds a CHR-RAM write pattern starting at seed: each
// next value is the previous one doubled in GF(2^8) (reduced by the
// Rijndael polynomial, 0x1B) and XORed with seed.
func rijndaelPattern(seed uint8, length int) []uint8 {
	pattern := make([]uint8, length)
	value := seed
	for i := 0; i < length; i++ {
		pattern[i] = value
		doubled := value << 1
		if value&0x80 != 0 {
			doubled ^= 0x1B
		}
		value = doubled ^ seed
	}
	return pattern
}

func TestMapper4CHRRAMBankSwitchPreservesPerBankData(t *testing.T) {
	m := NewMapper4(&CartridgeData{PRGROM: prg32KB, CHRRAM: make([]uint8, 32*1024)})
	pattern := rijndaelPattern(0x03, 16)

	writeBank := func(bank uint8, values []uint8) {
		m.WritePRG(0x8000, 0x00)
		m.WritePRG(0x8001, bank)
		for i, v := range values {
			m.WriteCHR(uint16(i), v)
		}
	}
	readBank := func(bank uint8) uint8 {
		m.WritePRG(0x8000, 0x00)
		m.WritePRG(0x8001, bank)
		return m.ReadCHR(0x0000)
	}

	writeBank(0x00, pattern)
	bank2 := make([]uint8, 16)
	for i := range bank2 {
		bank2[i] = uint8(0x20 + i)
	}
	writeBank(0x02, bank2)
	bank6 := make([]uint8, 16)
	for i := range bank6 {
		bank6[i] = uint8(0x60 + i)
	}
	writeBank(0x06, bank6)

	m.WritePRG(0x8000, 0x00)
	m.WritePRG(0x8001, 0x00)
	for i, want := range pattern {
		if got := m.ReadCHR(uint16(i)); got != want {
			t.Errorf("bank 0 offset %d = %02X, want %02X after switching away and back", i, got, want)
		}
	}

	if got := readBank(0x02); got != bank2[0] {
		t.Errorf("bank 2 offset 0 = %02X, want %02X", got, bank2[0])
	}
	if got := readBank(0x06); got != bank6[0] {
		t.Errorf("bank 6 offset 0 = %02X, want %02X", got, bank6[0])
	}
}
