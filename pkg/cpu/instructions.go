package cpu

// opInfo pairs an addressing mode with its base cycle cost, so a single
// generic handler per instruction family can serve every addressing
// variant instead of one hand-written wrapper per opcode. pageCheck
// marks the read-type indexed modes that cost one extra cycle when
// indexing carries into a new page; store and read-modify-write
// instructions never get that bonus on real hardware.
type opInfo struct {
	mode      AddressingMode
	cycles    int
	pageCheck bool
}

func (o opInfo) cost(pageCrossed bool) int {
	if pageCrossed && o.pageCheck {
		return o.cycles + 1
	}
	return o.cycles
}

// executeInstruction decodes and runs a single opcode, returning the
// cycles it consumes. Opcodes sharing an instruction family are grouped
// under one case and routed to one generic handler parameterized by an
// opInfo literal, rather than a dedicated function per addressing mode.
func (c *CPU) executeInstruction(opcode uint8) int {
	switch opcode {

	// Loads
	case 0xA9:
		return c.execLoad(&c.A, opInfo{AddrImmediate, 2, false})
	case 0xA5:
		return c.execLoad(&c.A, opInfo{AddrZeroPage, 3, false})
	case 0xB5:
		return c.execLoad(&c.A, opInfo{AddrZeroPageX, 4, false})
	case 0xAD:
		return c.execLoad(&c.A, opInfo{AddrAbsolute, 4, false})
	case 0xBD:
		return c.execLoad(&c.A, opInfo{AddrAbsoluteX, 4, true})
	case 0xB9:
		return c.execLoad(&c.A, opInfo{AddrAbsoluteY, 4, true})
	case 0xA1:
		return c.execLoad(&c.A, opInfo{AddrIndexedIndirect, 6, false})
	case 0xB1:
		return c.execLoad(&c.A, opInfo{AddrIndirectIndexed, 5, true})

	case 0xA2:
		return c.execLoad(&c.X, opInfo{AddrImmediate, 2, false})
	case 0xA6:
		return c.execLoad(&c.X, opInfo{AddrZeroPage, 3, false})
	case 0xB6:
		return c.execLoad(&c.X, opInfo{AddrZeroPageY, 4, false})
	case 0xAE:
		return c.execLoad(&c.X, opInfo{AddrAbsolute, 4, false})
	case 0xBE:
		return c.execLoad(&c.X, opInfo{AddrAbsoluteY, 4, true})

	case 0xA0:
		return c.execLoad(&c.Y, opInfo{AddrImmediate, 2, false})
	case 0xA4:
		return c.execLoad(&c.Y, opInfo{AddrZeroPage, 3, false})
	case 0xB4:
		return c.execLoad(&c.Y, opInfo{AddrZeroPageX, 4, false})
	case 0xAC:
		return c.execLoad(&c.Y, opInfo{AddrAbsolute, 4, false})
	case 0xBC:
		return c.execLoad(&c.Y, opInfo{AddrAbsoluteX, 4, true})

	// Stores
	case 0x85:
		return c.execStore(c.A, opInfo{AddrZeroPage, 3, false})
	case 0x95:
		return c.execStore(c.A, opInfo{AddrZeroPageX, 4, false})
	case 0x8D:
		return c.execStore(c.A, opInfo{AddrAbsolute, 4, false})
	case 0x9D:
		return c.execStore(c.A, opInfo{AddrAbsoluteX, 5, false})
	case 0x99:
		return c.execStore(c.A, opInfo{AddrAbsoluteY, 5, false})
	case 0x81:
		return c.execStore(c.A, opInfo{AddrIndexedIndirect, 6, false})
	case 0x91:
		return c.execStore(c.A, opInfo{AddrIndirectIndexed, 6, false})

	case 0x86:
		return c.execStore(c.X, opInfo{AddrZeroPage, 3, false})
	case 0x96:
		return c.execStore(c.X, opInfo{AddrZeroPageY, 4, false})
	case 0x8E:
		return c.execStore(c.X, opInfo{AddrAbsolute, 4, false})

	case 0x84:
		return c.execStore(c.Y, opInfo{AddrZeroPage, 3, false})
	case 0x94:
		return c.execStore(c.Y, opInfo{AddrZeroPageX, 4, false})
	case 0x8C:
		return c.execStore(c.Y, opInfo{AddrAbsolute, 4, false})

	// ADC / SBC
	case 0x69:
		return c.execADC(opInfo{AddrImmediate, 2, false})
	case 0x65:
		return c.execADC(opInfo{AddrZeroPage, 3, false})
	case 0x75:
		return c.execADC(opInfo{AddrZeroPageX, 4, false})
	case 0x6D:
		return c.execADC(opInfo{AddrAbsolute, 4, false})
	case 0x7D:
		return c.execADC(opInfo{AddrAbsoluteX, 4, true})
	case 0x79:
		return c.execADC(opInfo{AddrAbsoluteY, 4, true})
	case 0x61:
		return c.execADC(opInfo{AddrIndexedIndirect, 6, false})
	case 0x71:
		return c.execADC(opInfo{AddrIndirectIndexed, 5, true})

	case 0xE9, 0xEB: // 0xEB is the unofficial SBC #imm alias
		return c.execSBC(opInfo{AddrImmediate, 2, false})
	case 0xE5:
		return c.execSBC(opInfo{AddrZeroPage, 3, false})
	case 0xF5:
		return c.execSBC(opInfo{AddrZeroPageX, 4, false})
	case 0xED:
		return c.execSBC(opInfo{AddrAbsolute, 4, false})
	case 0xFD:
		return c.execSBC(opInfo{AddrAbsoluteX, 4, true})
	case 0xF9:
		return c.execSBC(opInfo{AddrAbsoluteY, 4, true})
	case 0xE1:
		return c.execSBC(opInfo{AddrIndexedIndirect, 6, false})
	case 0xF1:
		return c.execSBC(opInfo{AddrIndirectIndexed, 5, true})

	// Compares
	case 0xC9:
		return c.execCompare(c.A, opInfo{AddrImmediate, 2, false})
	case 0xC5:
		return c.execCompare(c.A, opInfo{AddrZeroPage, 3, false})
	case 0xD5:
		return c.execCompare(c.A, opInfo{AddrZeroPageX, 4, false})
	case 0xCD:
		return c.execCompare(c.A, opInfo{AddrAbsolute, 4, false})
	case 0xDD:
		return c.execCompare(c.A, opInfo{AddrAbsoluteX, 4, true})
	case 0xD9:
		return c.execCompare(c.A, opInfo{AddrAbsoluteY, 4, true})
	case 0xC1:
		return c.execCompare(c.A, opInfo{AddrIndexedIndirect, 6, false})
	case 0xD1:
		return c.execCompare(c.A, opInfo{AddrIndirectIndexed, 5, true})

	case 0xE0:
		return c.execCompare(c.X, opInfo{AddrImmediate, 2, false})
	case 0xE4:
		return c.execCompare(c.X, opInfo{AddrZeroPage, 3, false})
	case 0xEC:
		return c.execCompare(c.X, opInfo{AddrAbsolute, 4, false})

	case 0xC0:
		return c.execCompare(c.Y, opInfo{AddrImmediate, 2, false})
	case 0xC4:
		return c.execCompare(c.Y, opInfo{AddrZeroPage, 3, false})
	case 0xCC:
		return c.execCompare(c.Y, opInfo{AddrAbsolute, 4, false})

	// Transfers
	case 0xAA:
		return c.execTransfer(c.A, &c.X, true)
	case 0x8A:
		return c.execTransfer(c.X, &c.A, true)
	case 0xA8:
		return c.execTransfer(c.A, &c.Y, true)
	case 0x98:
		return c.execTransfer(c.Y, &c.A, true)
	case 0x9A:
		return c.execTransfer(c.X, &c.SP, false)
	case 0xBA:
		return c.execTransfer(c.SP, &c.X, true)

	// Flags
	case 0x18:
		return c.execSetFlag(FlagCarry, false)
	case 0x38:
		return c.execSetFlag(FlagCarry, true)
	case 0x58:
		return c.execSetFlag(FlagInterrupt, false)
	case 0x78:
		return c.execSetFlag(FlagInterrupt, true)
	case 0xB8:
		return c.execSetFlag(FlagOverflow, false)
	case 0xD8:
		return c.execSetFlag(FlagDecimal, false)
	case 0xF8:
		return c.execSetFlag(FlagDecimal, true)

	// Stack
	case 0x48:
		c.push(c.A)
		return 3
	case 0x68:
		c.A = c.pop()
		c.setZN(c.A)
		return 4
	case 0x08:
		c.push(c.P | FlagBreak)
		return 3
	case 0x28:
		c.P = c.pop()
		c.P |= FlagUnused
		c.P &^= FlagBreak
		return 4

	// Branches
	case 0x10:
		return c.branch(!c.getFlag(FlagNegative))
	case 0x30:
		return c.branch(c.getFlag(FlagNegative))
	case 0x50:
		return c.branch(!c.getFlag(FlagOverflow))
	case 0x70:
		return c.branch(c.getFlag(FlagOverflow))
	case 0x90:
		return c.branch(!c.getFlag(FlagCarry))
	case 0xB0:
		return c.branch(c.getFlag(FlagCarry))
	case 0xD0:
		return c.branch(!c.getFlag(FlagZero))
	case 0xF0:
		return c.branch(c.getFlag(FlagZero))

	// Jumps and subroutines
	case 0x4C:
		c.PC = c.read16(c.PC)
		return 3
	case 0x6C:
		c.PC = c.readIndirectWithBug(c.read16(c.PC))
		return 5
	case 0x20:
		return c.execJSR()
	case 0x60:
		c.PC = c.pop16() + 1
		return 6
	case 0x40:
		return c.execRTI()

	// Logical operations
	case 0x29:
		return c.execAND(opInfo{AddrImmediate, 2, false})
	case 0x25:
		return c.execAND(opInfo{AddrZeroPage, 3, false})
	case 0x35:
		return c.execAND(opInfo{AddrZeroPageX, 4, false})
	case 0x2D:
		return c.execAND(opInfo{AddrAbsolute, 4, false})
	case 0x3D:
		return c.execAND(opInfo{AddrAbsoluteX, 4, true})
	case 0x39:
		return c.execAND(opInfo{AddrAbsoluteY, 4, true})
	case 0x21:
		return c.execAND(opInfo{AddrIndexedIndirect, 6, false})
	case 0x31:
		return c.execAND(opInfo{AddrIndirectIndexed, 5, true})

	case 0x09:
		return c.execORA(opInfo{AddrImmediate, 2, false})
	case 0x05:
		return c.execORA(opInfo{AddrZeroPage, 3, false})
	case 0x15:
		return c.execORA(opInfo{AddrZeroPageX, 4, false})
	case 0x0D:
		return c.execORA(opInfo{AddrAbsolute, 4, false})
	case 0x1D:
		return c.execORA(opInfo{AddrAbsoluteX, 4, true})
	case 0x19:
		return c.execORA(opInfo{AddrAbsoluteY, 4, true})
	case 0x01:
		return c.execORA(opInfo{AddrIndexedIndirect, 6, false})
	case 0x11:
		return c.execORA(opInfo{AddrIndirectIndexed, 5, true})

	case 0x49:
		return c.execEOR(opInfo{AddrImmediate, 2, false})
	case 0x45:
		return c.execEOR(opInfo{AddrZeroPage, 3, false})
	case 0x55:
		return c.execEOR(opInfo{AddrZeroPageX, 4, false})
	case 0x4D:
		return c.execEOR(opInfo{AddrAbsolute, 4, false})
	case 0x5D:
		return c.execEOR(opInfo{AddrAbsoluteX, 4, true})
	case 0x59:
		return c.execEOR(opInfo{AddrAbsoluteY, 4, true})
	case 0x41:
		return c.execEOR(opInfo{AddrIndexedIndirect, 6, false})
	case 0x51:
		return c.execEOR(opInfo{AddrIndirectIndexed, 5, true})

	// Shifts and rotates
	case 0x0A:
		return c.execShift(opInfo{AddrAccumulator, 2, false}, shiftASL)
	case 0x06:
		return c.execShift(opInfo{AddrZeroPage, 5, false}, shiftASL)
	case 0x16:
		return c.execShift(opInfo{AddrZeroPageX, 6, false}, shiftASL)
	case 0x0E:
		return c.execShift(opInfo{AddrAbsolute, 6, false}, shiftASL)
	case 0x1E:
		return c.execShift(opInfo{AddrAbsoluteX, 7, false}, shiftASL)

	case 0x4A:
		return c.execShift(opInfo{AddrAccumulator, 2, false}, shiftLSR)
	case 0x46:
		return c.execShift(opInfo{AddrZeroPage, 5, false}, shiftLSR)
	case 0x56:
		return c.execShift(opInfo{AddrZeroPageX, 6, false}, shiftLSR)
	case 0x4E:
		return c.execShift(opInfo{AddrAbsolute, 6, false}, shiftLSR)
	case 0x5E:
		return c.execShift(opInfo{AddrAbsoluteX, 7, false}, shiftLSR)

	case 0x2A:
		return c.execShift(opInfo{AddrAccumulator, 2, false}, shiftROL)
	case 0x26:
		return c.execShift(opInfo{AddrZeroPage, 5, false}, shiftROL)
	case 0x36:
		return c.execShift(opInfo{AddrZeroPageX, 6, false}, shiftROL)
	case 0x2E:
		return c.execShift(opInfo{AddrAbsolute, 6, false}, shiftROL)
	case 0x3E:
		return c.execShift(opInfo{AddrAbsoluteX, 7, false}, shiftROL)

	case 0x6A:
		return c.execShift(opInfo{AddrAccumulator, 2, false}, shiftROR)
	case 0x66:
		return c.execShift(opInfo{AddrZeroPage, 5, false}, shiftROR)
	case 0x76:
		return c.execShift(opInfo{AddrZeroPageX, 6, false}, shiftROR)
	case 0x6E:
		return c.execShift(opInfo{AddrAbsolute, 6, false}, shiftROR)
	case 0x7E:
		return c.execShift(opInfo{AddrAbsoluteX, 7, false}, shiftROR)

	// Increment/decrement memory
	case 0xE6:
		return c.execBump(opInfo{AddrZeroPage, 5, false}, 1)
	case 0xF6:
		return c.execBump(opInfo{AddrZeroPageX, 6, false}, 1)
	case 0xEE:
		return c.execBump(opInfo{AddrAbsolute, 6, false}, 1)
	case 0xFE:
		return c.execBump(opInfo{AddrAbsoluteX, 7, false}, 1)

	case 0xC6:
		return c.execBump(opInfo{AddrZeroPage, 5, false}, -1)
	case 0xD6:
		return c.execBump(opInfo{AddrZeroPageX, 6, false}, -1)
	case 0xCE:
		return c.execBump(opInfo{AddrAbsolute, 6, false}, -1)
	case 0xDE:
		return c.execBump(opInfo{AddrAbsoluteX, 7, false}, -1)

	// Increment/decrement registers
	case 0xE8:
		c.X++
		c.setZN(c.X)
		return 2
	case 0xCA:
		c.X--
		c.setZN(c.X)
		return 2
	case 0xC8:
		c.Y++
		c.setZN(c.Y)
		return 2
	case 0x88:
		c.Y--
		c.setZN(c.Y)
		return 2

	// Bit test
	case 0x24:
		return c.execBIT(opInfo{AddrZeroPage, 3, false})
	case 0x2C:
		return c.execBIT(opInfo{AddrAbsolute, 4, false})

	// Software interrupt
	case 0x00:
		return c.execBRK()

	// NOP and its undocumented aliases
	case 0xEA, 0x1A, 0x3A, 0x5A, 0x7A, 0xDA, 0xFA:
		return 2
	case 0x80, 0x82, 0x89, 0xC2, 0xE2: // NOP #imm
		c.resolve(AddrImmediate)
		return 2
	case 0x04, 0x44, 0x64: // NOP zp
		c.resolve(AddrZeroPage)
		return 3
	case 0x14, 0x34, 0x54, 0x74, 0xD4, 0xF4: // NOP zp,X
		c.resolve(AddrZeroPageX)
		return 4
	case 0x0C: // NOP abs
		c.resolve(AddrAbsolute)
		return 4
	case 0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC: // NOP abs,X
		_, pageCrossed := c.resolve(AddrAbsoluteX)
		return opInfo{AddrAbsoluteX, 4, true}.cost(pageCrossed)

	// Undocumented opcodes with real side effects
	case 0xAF:
		return c.execLAX(opInfo{AddrAbsolute, 4, false})
	case 0xBF:
		return c.execLAX(opInfo{AddrAbsoluteY, 4, true})
	case 0xA7:
		return c.execLAX(opInfo{AddrZeroPage, 3, false})
	case 0xB7:
		return c.execLAX(opInfo{AddrZeroPageY, 4, false})
	case 0xA3:
		return c.execLAX(opInfo{AddrIndexedIndirect, 6, false})
	case 0xB3:
		return c.execLAX(opInfo{AddrIndirectIndexed, 5, true})

	case 0x8F:
		return c.execSAX(opInfo{AddrAbsolute, 4, false})
	case 0x87:
		return c.execSAX(opInfo{AddrZeroPage, 3, false})
	case 0x97:
		return c.execSAX(opInfo{AddrZeroPageY, 4, false})
	case 0x83:
		return c.execSAX(opInfo{AddrIndexedIndirect, 6, false})

	case 0x0B, 0x2B: // ANC
		return c.execANC()
	case 0x4B: // ALR
		return c.execALR()
	case 0x6B: // ARR
		return c.execARR()
	case 0xAB: // LXA
		return c.execLXA()
	case 0xCB: // SBX
		return c.execSBX()

	case 0xCF:
		return c.execDCP(opInfo{AddrAbsolute, 6, false})
	case 0xDF:
		return c.execDCP(opInfo{AddrAbsoluteX, 7, false})
	case 0xDB:
		return c.execDCP(opInfo{AddrAbsoluteY, 7, false})
	case 0xC7:
		return c.execDCP(opInfo{AddrZeroPage, 5, false})
	case 0xD7:
		return c.execDCP(opInfo{AddrZeroPageX, 6, false})
	case 0xC3:
		return c.execDCP(opInfo{AddrIndexedIndirect, 8, false})
	case 0xD3:
		return c.execDCP(opInfo{AddrIndirectIndexed, 8, false})

	case 0xEF:
		return c.execISB(opInfo{AddrAbsolute, 6, false})
	case 0xFF:
		return c.execISB(opInfo{AddrAbsoluteX, 7, false})
	case 0xFB:
		return c.execISB(opInfo{AddrAbsoluteY, 7, false})
	case 0xE7:
		return c.execISB(opInfo{AddrZeroPage, 5, false})
	case 0xF7:
		return c.execISB(opInfo{AddrZeroPageX, 6, false})
	case 0xE3:
		return c.execISB(opInfo{AddrIndexedIndirect, 8, false})
	case 0xF3:
		return c.execISB(opInfo{AddrIndirectIndexed, 8, false})

	case 0x0F:
		return c.execSLO(opInfo{AddrAbsolute, 6, false})
	case 0x1F:
		return c.execSLO(opInfo{AddrAbsoluteX, 7, false})
	case 0x1B:
		return c.execSLO(opInfo{AddrAbsoluteY, 7, false})
	case 0x07:
		return c.execSLO(opInfo{AddrZeroPage, 5, false})
	case 0x17:
		return c.execSLO(opInfo{AddrZeroPageX, 6, false})
	case 0x03:
		return c.execSLO(opInfo{AddrIndexedIndirect, 8, false})
	case 0x13:
		return c.execSLO(opInfo{AddrIndirectIndexed, 8, false})

	case 0x2F:
		return c.execRLA(opInfo{AddrAbsolute, 6, false})
	case 0x3F:
		return c.execRLA(opInfo{AddrAbsoluteX, 7, false})
	case 0x3B:
		return c.execRLA(opInfo{AddrAbsoluteY, 7, false})
	case 0x27:
		return c.execRLA(opInfo{AddrZeroPage, 5, false})
	case 0x37:
		return c.execRLA(opInfo{AddrZeroPageX, 6, false})
	case 0x23:
		return c.execRLA(opInfo{AddrIndexedIndirect, 8, false})
	case 0x33:
		return c.execRLA(opInfo{AddrIndirectIndexed, 8, false})

	case 0x4F:
		return c.execSRE(opInfo{AddrAbsolute, 6, false})
	case 0x5F:
		return c.execSRE(opInfo{AddrAbsoluteX, 7, false})
	case 0x5B:
		return c.execSRE(opInfo{AddrAbsoluteY, 7, false})
	case 0x47:
		return c.execSRE(opInfo{AddrZeroPage, 5, false})
	case 0x57:
		return c.execSRE(opInfo{AddrZeroPageX, 6, false})
	case 0x43:
		return c.execSRE(opInfo{AddrIndexedIndirect, 8, false})
	case 0x53:
		return c.execSRE(opInfo{AddrIndirectIndexed, 8, false})

	case 0x6F:
		return c.execRRA(opInfo{AddrAbsolute, 6, false})
	case 0x7F:
		return c.execRRA(opInfo{AddrAbsoluteX, 7, false})
	case 0x7B:
		return c.execRRA(opInfo{AddrAbsoluteY, 7, false})
	case 0x67:
		return c.execRRA(opInfo{AddrZeroPage, 5, false})
	case 0x77:
		return c.execRRA(opInfo{AddrZeroPageX, 6, false})
	case 0x63:
		return c.execRRA(opInfo{AddrIndexedIndirect, 8, false})
	case 0x73:
		return c.execRRA(opInfo{AddrIndirectIndexed, 8, false})

	default:
		// Unimplemented/JAM opcode: burn minimal cycles rather than lock up.
		return 2
	}
}
