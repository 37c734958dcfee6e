// Package pioasm assembles RP2040/RP2350 PIO state-machine programs into the
// 16-bit instruction words consumed by pio.PIO.AddProgram.
//
// It exists because the two programs this driver needs (see package hub75)
// are small enough, and tied closely enough to runtime-computed geometry
// (row counts, bitplane counts, side-set width), that hand-maintaining
// pioasm-generated output would mean regenerating it on every geometry
// change. Encoding the handful of instructions we need directly in Go keeps
// the program definitions next to the Go constants that parameterize them.
package pioasm

// Opcode is the 3-bit instruction class occupying bits [15:13] of a PIO
// instruction word.
type opcode uint16

const (
	opJMP  opcode = 0b000
	opWAIT opcode = 0b001
	opIN   opcode = 0b010
	opOUT  opcode = 0b011
	opPUSHPULL opcode = 0b100
	opMOV  opcode = 0b101
	opIRQ  opcode = 0b110
	opSET  opcode = 0b111
)

// JmpCond selects the branch condition for a JMP instruction.
type JmpCond uint16

const (
	JmpAlways   JmpCond = 0b000
	JmpNotX     JmpCond = 0b001
	JmpXDec     JmpCond = 0b010 // branch if X!=0, then decrement X
	JmpNotY     JmpCond = 0b011
	JmpYDec     JmpCond = 0b100 // branch if Y!=0, then decrement Y
	JmpXNotY    JmpCond = 0b101
	JmpPin      JmpCond = 0b110
	JmpNotOSRE  JmpCond = 0b111
)

// WaitSrc selects what a WAIT instruction waits on.
type WaitSrc uint16

const (
	WaitSrcGPIO WaitSrc = 0b00
	WaitSrcPin  WaitSrc = 0b01
	WaitSrcIRQ  WaitSrc = 0b10
)

// MovMoveSrc / MovDest select the operands of IN/OUT/MOV/SET instructions.
type Src uint16

const (
	SrcPins Src = 0b000
	SrcX    Src = 0b001
	SrcY    Src = 0b010
	SrcNull Src = 0b011
	SrcISR  Src = 0b110
	SrcOSR  Src = 0b111
)

type Dest uint16

const (
	DestPins    Dest = 0b000
	DestX       Dest = 0b001
	DestY       Dest = 0b010
	DestNull    Dest = 0b011
	DestPinDirs Dest = 0b100
	DestPC      Dest = 0b101
	DestISR     Dest = 0b110
	DestOSR     Dest = 0b111
	DestExec    Dest = 0b111 // OUT-only alias for EXEC
)

// MovOp is the optional transform a MOV instruction applies to its source.
type MovOp uint16

const (
	MovNone      MovOp = 0b00
	MovInvert    MovOp = 0b01
	MovBitReverse MovOp = 0b10
)

// Insn is a single not-yet-encoded PIO instruction: an opcode plus its
// operands, delay cycles, and side-set value. Build instructions with the
// Jmp/Wait*/In/Out/Mov/Set/Irq* constructors below, then pass a slice of them
// to Assemble.
type Insn struct {
	op     opcode
	delay  uint8
	side   uint8
	sideOn bool
	a      uint16 // bits [7:5]
	b      uint16 // bits [4:0]
}

// Delay attaches a cycle-count delay (0-31, but effectively bounded by the
// number of bits left over after the side-set width is subtracted) to the
// receiver and returns the modified instruction.
func (i Insn) Delay(cycles uint8) Insn {
	i.delay = cycles
	return i
}

// Side attaches a side-set value to the receiver and returns the modified
// instruction.
func (i Insn) Side(value uint8) Insn {
	i.side = value
	i.sideOn = true
	return i
}

// Jmp encodes a conditional or unconditional jump to the instruction at
// index target within the program.
func Jmp(cond JmpCond, target uint8) Insn {
	return Insn{op: opJMP, a: uint16(cond), b: uint16(target) & 0x1f}
}

// WaitIRQ encodes a WAIT 1/0, IRQ, index instruction.
func WaitIRQ(polarity uint8, index uint8) Insn {
	return Insn{op: opWAIT, a: uint16(polarity&1)<<2 | uint16(WaitSrcIRQ), b: uint16(index) & 0x1f}
}

// In encodes an IN src, bitcount instruction. A bitcount of 32 is encoded as 0
// per the PIO ISA convention.
func In(src Src, bits uint8) Insn {
	return Insn{op: opIN, a: uint16(src), b: uint16(bits & 0x1f)}
}

// Out encodes an OUT dest, bitcount instruction.
func Out(dest Dest, bits uint8) Insn {
	return Insn{op: opOUT, a: uint16(dest), b: uint16(bits & 0x1f)}
}

// Mov encodes a MOV dest, (op)src instruction.
func Mov(dest Dest, op MovOp, src Src) Insn {
	return Insn{op: opMOV, a: uint16(dest), b: uint16(op)<<3 | uint16(src)}
}

// Set encodes a SET dest, data instruction. data must fit in 5 bits.
func Set(dest Dest, data uint8) Insn {
	return Insn{op: opSET, a: uint16(dest), b: uint16(data & 0x1f)}
}

// IrqSet encodes an IRQ SET index instruction (non-blocking, non-clearing).
func IrqSet(index uint8) Insn {
	return Insn{op: opIRQ, b: uint16(index) & 0x1f}
}

// IrqWait encodes an IRQ WAIT index instruction: set the flag and stall the
// state machine until something else clears it.
func IrqWait(index uint8) Insn {
	return Insn{op: opIRQ, a: 0b001, b: uint16(index) & 0x1f}
}

// Nop encodes a no-op (conventionally MOV Y, Y on real PIO hardware, which
// touches no visible state).
func Nop() Insn {
	return Mov(DestY, MovNone, SrcY)
}

// Assemble encodes insns into the 16-bit words pio.PIO.AddProgram expects.
// sidesetBits is the number of side-set bits configured for the state
// machine (0-5); it determines how the 5-bit delay/side field splits between
// the delay count and the side-set value.
func Assemble(insns []Insn, sidesetBits uint8) []uint16 {
	out := make([]uint16, len(insns))
	delayBits := 5 - sidesetBits
	delayMask := uint16(1<<delayBits) - 1
	for idx, insn := range insns {
		var delaySide uint16
		if sidesetBits > 0 {
			delaySide |= uint16(insn.side&((1<<sidesetBits)-1)) << delayBits
		}
		delaySide |= uint16(insn.delay) & delayMask
		word := uint16(insn.op)<<13 | delaySide<<8 | (insn.a&0x7)<<5 | insn.b&0x1f
		out[idx] = word
	}
	return out
}
