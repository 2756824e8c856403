package cpu

// AddressingMode identifies how an instruction's operand is located.
type AddressingMode uint8

const (
	AddrImplied AddressingMode = iota
	AddrAccumulator
	AddrImmediate
	AddrZeroPage
	AddrZeroPageX
	AddrZeroPageY
	AddrRelative
	AddrAbsolute
	AddrAbsoluteX
	AddrAbsoluteY
	AddrIndirect
	AddrIndexedIndirect // (zp,X)
	AddrIndirectIndexed // (zp),Y
)

// resolve advances PC past the operand bytes for mode and returns the
// effective address plus whether indexing crossed a page boundary.
// AddrImplied/AddrAccumulator/AddrRelative have no meaningful address and
// are resolved by their own callers instead.
func (c *CPU) resolve(mode AddressingMode) (addr uint16, pageCrossed bool) {
	switch mode {
	case AddrImmediate:
		addr = c.PC
		c.PC++

	case AddrZeroPage:
		addr = uint16(c.read(c.PC))
		c.PC++

	case AddrZeroPageX:
		addr = uint16(c.read(c.PC)+c.X) & 0xFF
		c.PC++

	case AddrZeroPageY:
		addr = uint16(c.read(c.PC)+c.Y) & 0xFF
		c.PC++

	case AddrAbsolute:
		addr = c.read16(c.PC)
		c.PC += 2

	case AddrAbsoluteX:
		addr, pageCrossed = c.resolveIndexed(c.X)

	case AddrAbsoluteY:
		addr, pageCrossed = c.resolveIndexed(c.Y)

	case AddrIndirect:
		addr = c.readIndirectWithBug(c.read16(c.PC))
		c.PC += 2

	case AddrIndexedIndirect:
		zp := (uint16(c.read(c.PC)) + uint16(c.X)) & 0xFF
		c.PC++
		addr = c.readZeroPage16(zp)

	case AddrIndirectIndexed:
		zp := uint16(c.read(c.PC))
		c.PC++
		base := c.readZeroPage16(zp)
		addr = base + uint16(c.Y)
		pageCrossed = !samePage(base, addr)
		if pageCrossed {
			c.read((base & 0xFF00) | (addr & 0xFF)) // dummy read, no carry
		}
	}
	return addr, pageCrossed
}

// resolveIndexed computes base+index for an absolute,index operand,
// issuing the dummy read real hardware performs when the add carries
// into the high byte.
func (c *CPU) resolveIndexed(index uint8) (addr uint16, pageCrossed bool) {
	base := c.read16(c.PC)
	c.PC += 2
	addr = base + uint16(index)
	pageCrossed = !samePage(base, addr)
	if pageCrossed {
		c.read((base & 0xFF00) | (addr & 0xFF))
	}
	return addr, pageCrossed
}

// readIndirectWithBug implements JMP ($xxFF)'s page-wrap bug: the high
// byte is fetched from the start of the same page instead of the next.
func (c *CPU) readIndirectWithBug(ptr uint16) uint16 {
	lo := c.read(ptr)
	var hi uint8
	if ptr&0xFF == 0xFF {
		hi = c.read(ptr & 0xFF00)
	} else {
		hi = c.read(ptr + 1)
	}
	return uint16(hi)<<8 | uint16(lo)
}

// readZeroPage16 reads a little-endian pointer out of the zero page,
// wrapping the high-byte fetch back to the start of the page.
func (c *CPU) readZeroPage16(zp uint16) uint16 {
	lo := c.read(zp)
	hi := c.read((zp + 1) & 0xFF)
	return uint16(hi)<<8 | uint16(lo)
}

func samePage(a, b uint16) bool {
	return a&0xFF00 == b&0xFF00
}

// operand reads the value an addressing mode points at. For
// AddrAccumulator it reads A directly rather than dereferencing memory.
func (c *CPU) operand(mode AddressingMode) (value uint8, pageCrossed bool) {
	if mode == AddrAccumulator {
		return c.A, false
	}
	addr, pageCrossed := c.resolve(mode)
	return c.read(addr), pageCrossed
}
