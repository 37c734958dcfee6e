package pioasm

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestAssembleJmp(t *testing.T) {
	c := qt.New(t)

	words := Assemble([]Insn{
		Jmp(JmpAlways, 5).Delay(3),
	}, 0)

	c.Assert(words, qt.HasLen, 1)
	// opJMP(000) | delay(00011, 5 bits since no side-set) | cond(000) | target(00101)
	c.Assert(words[0], qt.Equals, uint16(0b000_00011_000_00101))
}

func TestAssembleSideSetSplitsDelayField(t *testing.T) {
	c := qt.New(t)

	// One side-set bit leaves four delay bits.
	words := Assemble([]Insn{
		Nop().Side(1).Delay(15),
	}, 1)

	c.Assert(words, qt.HasLen, 1)
	// opMOV(101) | side(1) delay(1111) | dest=Y(010) | op=none,src=Y (00 010)
	want := uint16(0b101)<<13 | uint16(0b1_1111)<<8 | uint16(0b010)<<5 | uint16(0b00_010)
	c.Assert(words[0], qt.Equals, want)
}

func TestAssembleWaitIRQ(t *testing.T) {
	c := qt.New(t)

	words := Assemble([]Insn{WaitIRQ(1, 2)}, 1)

	c.Assert(words, qt.HasLen, 1)
	op := uint16(words[0]>>13) & 0x7
	srcAndPol := uint16(words[0]>>5) & 0x7
	index := words[0] & 0x1f
	c.Assert(op, qt.Equals, uint16(0b001))
	c.Assert(srcAndPol, qt.Equals, uint16(0b1_10)) // polarity=1, source=IRQ(10)
	c.Assert(index, qt.Equals, uint16(2))
}

func TestAssembleOutAndIn(t *testing.T) {
	c := qt.New(t)

	words := Assemble([]Insn{
		Out(DestPins, 8),
		In(SrcPins, 0), // bitcount 32 encoded as 0
	}, 0)

	c.Assert(words, qt.HasLen, 2)
	c.Assert(words[0]>>13, qt.Equals, uint16(0b011)) // OUT
	c.Assert(words[0]&0x1f, qt.Equals, uint16(8))
	c.Assert(words[1]>>13, qt.Equals, uint16(0b010)) // IN
	c.Assert(words[1]&0x1f, qt.Equals, uint16(0))
}

func TestAssembleIrqSetVsWait(t *testing.T) {
	c := qt.New(t)

	words := Assemble([]Insn{
		IrqSet(0),
		IrqWait(1),
	}, 0)

	c.Assert(words[0]>>13, qt.Equals, uint16(0b110))
	c.Assert((words[0]>>5)&0x7, qt.Equals, uint16(0)) // no wait bit
	// IRQ WAIT sets the Wait bit (bit 5) and leaves the Clr bit (bit 6) unset.
	c.Assert((words[1]>>5)&0x7, qt.Equals, uint16(0b001))
}
