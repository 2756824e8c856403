package cpu

import (
	"testing"

	"nesgo/pkg/memory"
)

func newTestCPU() *CPU {
	mem := memory.New()
	c := New(mem)
	mem.Write(0xFFFC, 0x00)
	mem.Write(0xFFFD, 0x02)
	c.Reset()
	return c
}

func loadProgram(c *CPU, at uint16, program ...uint8) {
	for i, b := range program {
		c.Memory.Write(at+uint16(i), b)
	}
	c.PC = at
}

func TestReset(t *testing.T) {
	c := newTestCPU()
	c.A, c.X, c.Y, c.SP, c.P = 0xFF, 0xFF, 0xFF, 0x00, 0xFF

	c.Reset()

	if c.A != 0 || c.X != 0 || c.Y != 0 {
		t.Fatalf("registers not cleared: A=%02X X=%02X Y=%02X", c.A, c.X, c.Y)
	}
	if c.SP != 0xFD {
		t.Errorf("SP = %02X, want FD", c.SP)
	}
	if want := uint8(FlagUnused | FlagInterrupt); c.P != want {
		t.Errorf("P = %02X, want %02X", c.P, want)
	}
}

func TestFlagSetAndClear(t *testing.T) {
	c := newTestCPU()
	c.P = 0

	c.setFlag(FlagCarry, true)
	c.setFlag(FlagNegative, true)
	if want := uint8(FlagCarry | FlagNegative); c.P != want {
		t.Fatalf("P = %02X, want %02X", c.P, want)
	}
	if !c.getFlag(FlagCarry) || !c.getFlag(FlagNegative) {
		t.Error("both flags should read back set")
	}

	c.setFlag(FlagCarry, false)
	if c.getFlag(FlagCarry) {
		t.Error("carry should read back clear")
	}
}

func TestStackPushPop(t *testing.T) {
	c := newTestCPU()
	sp := c.SP

	c.push(0x42)
	if c.SP != sp-1 {
		t.Fatalf("SP after push = %02X, want %02X", c.SP, sp-1)
	}
	if v := c.pop(); v != 0x42 {
		t.Errorf("popped %02X, want 42", v)
	}
	if c.SP != sp {
		t.Errorf("SP after pop = %02X, want %02X", c.SP, sp)
	}

	c.push16(0x1234)
	if v := c.pop16(); v != 0x1234 {
		t.Errorf("pop16 = %04X, want 1234", v)
	}
}

func TestResolveAddressingModes(t *testing.T) {
	c := newTestCPU()
	c.Memory.Write(0x1000, 0x10)
	c.Memory.Write(0x1001, 0x20)
	c.Memory.Write(0x10, 0x30)
	c.X, c.Y = 0x01, 0x02

	cases := []struct {
		name string
		mode AddressingMode
		want uint16
	}{
		{"immediate", AddrImmediate, 0x1000},
		{"zeropage", AddrZeroPage, 0x10},
		{"zeropage,X", AddrZeroPageX, 0x11},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c.PC = 0x1000
			addr, _ := c.resolve(tc.mode)
			if addr != tc.want {
				t.Errorf("resolve(%v) = %04X, want %04X", tc.mode, addr, tc.want)
			}
		})
	}
}

func TestResolveZeroPageWraparound(t *testing.T) {
	c := newTestCPU()
	c.X = 0xFF
	loadProgram(c, 0x1000, 0xFF)

	addr, _ := c.resolve(AddrZeroPageX)
	if addr != 0xFE {
		t.Errorf("wrapped zeropage,X = %04X, want FE", addr)
	}
}

func TestResolvePageCrossDetection(t *testing.T) {
	c := newTestCPU()
	c.Y = 0xFF
	loadProgram(c, 0x1000, 0xFF, 0x10)

	addr, crossed := c.resolve(AddrAbsoluteY)
	if want := uint16(0x10FF + 0xFF); addr != want {
		t.Errorf("absolute,Y = %04X, want %04X", addr, want)
	}
	if !crossed {
		t.Error("expected page-cross flag set")
	}
}

func TestLoadInstructions(t *testing.T) {
	cases := []struct {
		name    string
		program []uint8
		read    func(*CPU) uint8
		want    uint8
	}{
		{"LDA", []uint8{0xA9, 0x42}, func(c *CPU) uint8 { return c.A }, 0x42},
		{"LDX", []uint8{0xA2, 0x33}, func(c *CPU) uint8 { return c.X }, 0x33},
		{"LDY", []uint8{0xA0, 0x44}, func(c *CPU) uint8 { return c.Y }, 0x44},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestCPU()
			loadProgram(c, 0x0200, tc.program...)

			cycles := c.Step()
			if got := tc.read(c); got != tc.want {
				t.Errorf("%s: got %02X, want %02X", tc.name, got, tc.want)
			}
			if cycles != 2 {
				t.Errorf("%s: cycles = %d, want 2", tc.name, cycles)
			}
		})
	}
}

func TestLoadFlags(t *testing.T) {
	c := newTestCPU()
	loadProgram(c, 0x0200, 0xA9, 0x00)
	c.Step()
	if !c.getFlag(FlagZero) {
		t.Error("LDA #$00 should set zero flag")
	}

	c = newTestCPU()
	loadProgram(c, 0x0200, 0xA9, 0x80)
	c.Step()
	if !c.getFlag(FlagNegative) {
		t.Error("LDA #$80 should set negative flag")
	}
}

func TestSTA(t *testing.T) {
	c := newTestCPU()
	loadProgram(c, 0x0200, 0x85, 0x10)
	c.A = 0x55

	c.Step()

	if v := c.Memory.Read(0x10); v != 0x55 {
		t.Errorf("memory[0x10] = %02X, want 55", v)
	}
}

func TestADC(t *testing.T) {
	c := newTestCPU()
	loadProgram(c, 0x0200, 0x69, 0x10)
	c.A = 0x20

	c.Step()

	if c.A != 0x30 || c.getFlag(FlagCarry) {
		t.Fatalf("A=%02X carry=%v, want 30/false", c.A, c.getFlag(FlagCarry))
	}

	c = newTestCPU()
	loadProgram(c, 0x0200, 0x69, 0x80)
	c.A = 0x80
	c.Step()
	if c.A != 0x00 || !c.getFlag(FlagCarry) || !c.getFlag(FlagZero) {
		t.Fatalf("overflow-to-zero case: A=%02X carry=%v zero=%v", c.A, c.getFlag(FlagCarry), c.getFlag(FlagZero))
	}

	c = newTestCPU()
	loadProgram(c, 0x0200, 0x69, 0x01)
	c.A = 0x7F
	c.Step()
	if !c.getFlag(FlagOverflow) || !c.getFlag(FlagNegative) {
		t.Fatalf("signed overflow case: overflow=%v negative=%v", c.getFlag(FlagOverflow), c.getFlag(FlagNegative))
	}
}

func TestSBC(t *testing.T) {
	c := newTestCPU()
	loadProgram(c, 0x0200, 0xE9, 0x10)
	c.A = 0x30
	c.setFlag(FlagCarry, true)

	c.Step()

	if c.A != 0x20 || !c.getFlag(FlagCarry) {
		t.Errorf("A=%02X carry=%v, want 20/true (no borrow)", c.A, c.getFlag(FlagCarry))
	}
}

func TestCMP(t *testing.T) {
	c := newTestCPU()
	loadProgram(c, 0x0200, 0xC9, 0x10)
	c.A = 0x20
	c.Step()
	if !c.getFlag(FlagCarry) || c.getFlag(FlagZero) {
		t.Errorf("A>operand case: carry=%v zero=%v, want true/false", c.getFlag(FlagCarry), c.getFlag(FlagZero))
	}

	c = newTestCPU()
	loadProgram(c, 0x0200, 0xC9, 0x20)
	c.A = 0x20
	c.Step()
	if !c.getFlag(FlagCarry) || !c.getFlag(FlagZero) {
		t.Errorf("A==operand case: carry=%v zero=%v, want true/true", c.getFlag(FlagCarry), c.getFlag(FlagZero))
	}
}

func TestTransfers(t *testing.T) {
	c := newTestCPU()
	loadProgram(c, 0x0200, 0xAA) // TAX
	c.A = 0x42
	c.Step()
	if c.X != 0x42 {
		t.Errorf("TAX: X = %02X, want 42", c.X)
	}

	c = newTestCPU()
	loadProgram(c, 0x0200, 0x8A) // TXA
	c.X = 0x33
	c.Step()
	if c.A != 0x33 {
		t.Errorf("TXA: A = %02X, want 33", c.A)
	}
}

func TestFlagInstructions(t *testing.T) {
	c := newTestCPU()
	loadProgram(c, 0x0200, 0x18) // CLC
	c.setFlag(FlagCarry, true)
	c.Step()
	if c.getFlag(FlagCarry) {
		t.Error("CLC should clear carry")
	}

	c = newTestCPU()
	loadProgram(c, 0x0200, 0x38) // SEC
	c.setFlag(FlagCarry, false)
	c.Step()
	if !c.getFlag(FlagCarry) {
		t.Error("SEC should set carry")
	}
}

func TestStackInstructions(t *testing.T) {
	c := newTestCPU()
	loadProgram(c, 0x0200, 0x48, 0x68) // PHA, PLA
	c.A = 0x55
	sp := c.SP

	c.Step()
	if c.SP != sp-1 {
		t.Fatalf("SP after PHA = %02X, want %02X", c.SP, sp-1)
	}

	c.A = 0x00
	c.Step()
	if c.A != 0x55 || c.SP != sp {
		t.Fatalf("after PLA: A=%02X SP=%02X, want 55/%02X", c.A, c.SP, sp)
	}
}

func TestBranches(t *testing.T) {
	cases := []struct {
		name       string
		opcode     uint8
		offset     uint8
		flag       uint8
		set        bool
		taken      bool
		wantCycles int
	}{
		{"BEQ taken", 0xF0, 0x05, FlagZero, true, true, 3},
		{"BEQ not taken", 0xF0, 0x05, FlagZero, false, false, 2},
		{"BNE taken", 0xD0, 0x03, FlagZero, false, true, 3},
		{"BCC taken", 0x90, 0x10, FlagCarry, false, true, 3},
		{"BCS taken", 0xB0, 0x08, FlagCarry, true, true, 3},
		{"BPL taken", 0x10, 0x0A, FlagNegative, false, true, 3},
		{"BMI taken", 0x30, 0x0C, FlagNegative, true, true, 3},
		{"BVC taken", 0x50, 0x06, FlagOverflow, false, true, 3},
		{"BVS taken", 0x70, 0x04, FlagOverflow, true, true, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestCPU()
			loadProgram(c, 0x0200, tc.opcode, tc.offset)
			c.setFlag(tc.flag, tc.set)
			startPC := c.PC

			cycles := c.Step()

			want := startPC + 2
			if tc.taken {
				want += uint16(tc.offset)
			}
			if c.PC != want {
				t.Errorf("PC = %04X, want %04X", c.PC, want)
			}
			if cycles != tc.wantCycles {
				t.Errorf("cycles = %d, want %d", cycles, tc.wantCycles)
			}
		})
	}
}

func TestBranchNegativeOffset(t *testing.T) {
	c := newTestCPU()
	loadProgram(c, 0x0210, 0xF0, 0xFC) // BEQ -4
	c.setFlag(FlagZero, true)

	cycles := c.Step()

	if want := uint16(0x0212 - 4); c.PC != want {
		t.Errorf("PC = %04X, want %04X", c.PC, want)
	}
	if cycles != 3 {
		t.Errorf("same-page backward branch: cycles = %d, want 3", cycles)
	}
}

func TestBranchPageCrossing(t *testing.T) {
	c := newTestCPU()
	loadProgram(c, 0x02FE, 0xF0, 0x04) // stays in page 3
	c.setFlag(FlagZero, true)
	if cycles := c.Step(); cycles != 3 {
		t.Errorf("same-page branch: cycles = %d, want 3", cycles)
	}

	c = newTestCPU()
	loadProgram(c, 0x02F0, 0xF0, 0x20) // crosses into page 3
	c.setFlag(FlagZero, true)

	cycles := c.Step()
	if want := uint16(0x02F2 + 0x20); c.PC != want {
		t.Errorf("PC = %04X, want %04X", c.PC, want)
	}
	if cycles != 4 {
		t.Errorf("page-crossing branch: cycles = %d, want 4", cycles)
	}
}

func TestJMPAbsolute(t *testing.T) {
	c := newTestCPU()
	loadProgram(c, 0x0200, 0x4C, 0x34, 0x12)

	cycles := c.Step()

	if c.PC != 0x1234 || cycles != 3 {
		t.Errorf("PC=%04X cycles=%d, want 1234/3", c.PC, cycles)
	}
}

func TestJMPIndirect(t *testing.T) {
	c := newTestCPU()
	loadProgram(c, 0x0200, 0x6C, 0x10, 0x03)
	c.Memory.Write(0x0310, 0x34)
	c.Memory.Write(0x0311, 0x12)

	cycles := c.Step()

	if c.PC != 0x1234 || cycles != 5 {
		t.Errorf("PC=%04X cycles=%d, want 1234/5", c.PC, cycles)
	}
}

func TestJMPIndirectPageWrapBug(t *testing.T) {
	c := newTestCPU()
	loadProgram(c, 0x0200, 0x6C, 0xFF, 0x03)
	c.Memory.Write(0x03FF, 0x34)
	c.Memory.Write(0x0300, 0x12) // high byte wrongly read from $0300, not $0400
	c.Memory.Write(0x0400, 0x56)

	cycles := c.Step()

	if c.PC != 0x1234 {
		t.Errorf("PC = %04X, want 1234 (page-wrap bug)", c.PC)
	}
	if cycles != 5 {
		t.Errorf("cycles = %d, want 5", cycles)
	}
}

func TestJSRRTS(t *testing.T) {
	c := newTestCPU()
	loadProgram(c, 0x0200, 0x20, 0x34, 0x12)
	c.Memory.Write(0x1234, 0x60) // RTS
	sp := c.SP

	cycles := c.Step()
	if c.PC != 0x1234 || cycles != 6 || c.SP != sp-2 {
		t.Fatalf("after JSR: PC=%04X cycles=%d SP=%02X", c.PC, cycles, c.SP)
	}

	cycles = c.Step()
	if c.PC != 0x0203 || cycles != 6 || c.SP != sp {
		t.Fatalf("after RTS: PC=%04X cycles=%d SP=%02X", c.PC, cycles, c.SP)
	}
}

func TestLogicalInstructions(t *testing.T) {
	cases := []struct {
		name       string
		opcode     uint8
		operand    uint8
		a          uint8
		want       uint8
		wantZero   bool
		wantNegate bool
	}{
		{"AND nonzero", 0x29, 0x0F, 0xFF, 0x0F, false, false},
		{"AND zero", 0x29, 0x00, 0xFF, 0x00, true, false},
		{"ORA nonzero", 0x09, 0x0F, 0xF0, 0xFF, false, true},
		{"ORA zero", 0x09, 0x00, 0x00, 0x00, true, false},
		{"EOR nonzero", 0x49, 0xFF, 0xAA, 0x55, false, false},
		{"EOR zero", 0x49, 0xAA, 0xAA, 0x00, true, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestCPU()
			loadProgram(c, 0x0200, tc.opcode, tc.operand)
			c.A = tc.a

			cycles := c.Step()

			if c.A != tc.want {
				t.Errorf("A = %02X, want %02X", c.A, tc.want)
			}
			if c.getFlag(FlagZero) != tc.wantZero {
				t.Errorf("zero flag = %v, want %v", c.getFlag(FlagZero), tc.wantZero)
			}
			if c.getFlag(FlagNegative) != tc.wantNegate {
				t.Errorf("negative flag = %v, want %v", c.getFlag(FlagNegative), tc.wantNegate)
			}
			if cycles != 2 {
				t.Errorf("cycles = %d, want 2", cycles)
			}
		})
	}
}

func TestShiftAccumulator(t *testing.T) {
	cases := []struct {
		name      string
		opcode    uint8
		a         uint8
		carryIn   bool
		wantA     uint8
		wantCarry bool
	}{
		{"ASL sets carry", 0x0A, 0x80, false, 0x00, true},
		{"ASL no carry", 0x0A, 0x40, false, 0x80, false},
		{"LSR sets carry", 0x4A, 0x81, false, 0x40, true},
		{"ROL with carry in", 0x2A, 0x40, true, 0x81, false},
		{"ROR with carry in", 0x6A, 0x02, true, 0x81, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestCPU()
			loadProgram(c, 0x0200, tc.opcode)
			c.A = tc.a
			c.setFlag(FlagCarry, tc.carryIn)

			cycles := c.Step()

			if c.A != tc.wantA {
				t.Errorf("A = %02X, want %02X", c.A, tc.wantA)
			}
			if c.getFlag(FlagCarry) != tc.wantCarry {
				t.Errorf("carry = %v, want %v", c.getFlag(FlagCarry), tc.wantCarry)
			}
			if cycles != 2 {
				t.Errorf("cycles = %d, want 2", cycles)
			}
		})
	}
}

func TestShiftMemory(t *testing.T) {
	c := newTestCPU()
	loadProgram(c, 0x0200, 0x06, 0x10) // ASL $10
	c.Memory.Write(0x0010, 0x40)

	cycles := c.Step()

	if v := c.Memory.Read(0x0010); v != 0x80 {
		t.Errorf("memory[0x10] = %02X, want 80", v)
	}
	if cycles != 5 {
		t.Errorf("cycles = %d, want 5", cycles)
	}
}

func TestIncDecRegisters(t *testing.T) {
	c := newTestCPU()
	loadProgram(c, 0x0200, 0xE8) // INX
	c.X = 0x42
	if cycles := c.Step(); c.X != 0x43 || cycles != 2 {
		t.Fatalf("INX: X=%02X cycles=%d", c.X, cycles)
	}

	c = newTestCPU()
	loadProgram(c, 0x0200, 0x88) // DEY
	c.Y = 0x01
	cycles := c.Step()
	if c.Y != 0x00 || !c.getFlag(FlagZero) || cycles != 2 {
		t.Fatalf("DEY: Y=%02X zero=%v cycles=%d", c.Y, c.getFlag(FlagZero), cycles)
	}
}

func TestCompareRegisters(t *testing.T) {
	c := newTestCPU()
	loadProgram(c, 0x0200, 0xE0, 0x42) // CPX #$42
	c.X = 0x42

	cycles := c.Step()

	if !c.getFlag(FlagZero) || !c.getFlag(FlagCarry) || cycles != 2 {
		t.Errorf("CPX equal: zero=%v carry=%v cycles=%d", c.getFlag(FlagZero), c.getFlag(FlagCarry), cycles)
	}
}

func TestBIT(t *testing.T) {
	c := newTestCPU()
	loadProgram(c, 0x0200, 0x24, 0x10) // BIT $10
	c.A = 0x0F
	c.Memory.Write(0x0010, 0xC0)

	cycles := c.Step()

	if !c.getFlag(FlagZero) || !c.getFlag(FlagNegative) || !c.getFlag(FlagOverflow) {
		t.Fatalf("BIT flags: zero=%v negative=%v overflow=%v",
			c.getFlag(FlagZero), c.getFlag(FlagNegative), c.getFlag(FlagOverflow))
	}
	if cycles != 3 {
		t.Errorf("cycles = %d, want 3", cycles)
	}
}
