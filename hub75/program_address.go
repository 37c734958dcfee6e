//go:build rp2040
// +build rp2040

package hub75

import (
	pio "github.com/tinygo-org/pio/rp2040-pio"

	"github.com/dgrantpete/hub75/internal/pioasm"
)

// Side-set values for the address program's single OE pin. OE is
// active-low, so "deasserted" drives the pin high.
const (
	addrSideAssert   uint8 = 0
	addrSideDeassert uint8 = 1
)

// buildAddressProgram assembles the C4 address-SM program described in
// §4.4: decrement the row counter, reload row/bitplane counters on
// exhaustion, latch-safe handshake, drive the inverted row address,
// latch-complete handshake, then consume one off/on timing-word pair with OE
// bracketed by a symmetric anti-ghost tail. rowsMinus1 is 2^A-1, kMinus1 is
// K-1; both fit the 5-bit SET immediate because Config.validate limits A to
// 5 and K to 8.
func buildAddressProgram(rowsMinus1, kMinus1 uint8) (insns []pioasm.Insn, wrapTarget, wrap uint8) {
	const latchSafeInsn = 4

	insns = []pioasm.Insn{
		{},                                                                          // 0: jmp x--, latchSafeInsn
		pioasm.Set(pioasm.DestX, rowsMinus1),                                        // 1: row counter exhausted -> reload
		{},                                                                          // 2: jmp y--, latchSafeInsn
		pioasm.Set(pioasm.DestY, kMinus1),                                           // 3: bitplane counter exhausted -> reload
		pioasm.IrqSet(latchSafeIRQ),                                                 // 4: latchSafeInsn
		pioasm.Mov(pioasm.DestPins, pioasm.MovInvert, pioasm.SrcX).Side(addrSideDeassert), // 5: drive ~x onto address pins
		pioasm.WaitIRQ(1, latchCompleteIRQ).Side(addrSideDeassert),                  // 6
		pioasm.Out(pioasm.DestX, 32).Side(addrSideDeassert),                         // 7: pull off_i -> X
		pioasm.Mov(pioasm.DestISR, pioasm.MovNone, pioasm.SrcX).Side(addrSideDeassert), // 8: stash off_i in ISR for the tail
		{},                                                                          // 9: jmp x--, 9 (first off window)
		pioasm.Out(pioasm.DestY, 32).Side(addrSideDeassert),                         // 10: pull on_i -> Y
		{},                                                                          // 11: jmp y--, 11 (on window, OE asserted)
		pioasm.Mov(pioasm.DestX, pioasm.MovNone, pioasm.SrcISR).Side(addrSideDeassert), // 12: restore off_i
		{},                                                                          // 13: jmp x--, 13 (anti-ghost tail)
	}
	insns[0] = pioasm.Jmp(pioasm.JmpXDec, latchSafeInsn)
	insns[2] = pioasm.Jmp(pioasm.JmpYDec, latchSafeInsn)
	insns[9] = pioasm.Jmp(pioasm.JmpXDec, 9).Side(addrSideDeassert)
	insns[11] = pioasm.Jmp(pioasm.JmpYDec, 11).Side(addrSideAssert)
	insns[13] = pioasm.Jmp(pioasm.JmpXDec, 13).Side(addrSideDeassert)

	return insns, 0, 13
}

// addressProgram holds the loaded-and-configured address state machine.
type addressProgram struct {
	sm     pio.StateMachine
	offset uint8
	length uint8
}

// loadAddressProgram assembles, loads, and configures the address SM for the
// given geometry, pin assignment, and clock divider (encoded via
// clkDivValue). It does not enable the SM.
func loadAddressProgram(p *pio.PIO, smIndex uint8, geo Geometry, addressBase, oePin uint8, clkDiv uint32) (*addressProgram, error) {
	insns, wrapTarget, wrap := buildAddressProgram(uint8(geo.rowPairs()-1), geo.ColorDepth-1)
	words := pioasm.Assemble(insns, 1)

	offset, err := p.AddProgram(words, -1)
	if err != nil {
		return nil, err
	}

	sm := p.StateMachine(smIndex)
	cfg := pio.StateMachineConfig{
		ClkDiv:    clkDiv,
		ExecCtrl:  execCtrlValue(offset+wrapTarget, offset+wrap, true),
		ShiftCtrl: shiftCtrlValue(true, 32, false),
		PinCtrl: pinCtrlValue(pinCtrlConfig{
			OutBase:      addressBase,
			OutCount:     geo.addressBitsU8(),
			SidesetBase:  oePin,
			SidesetCount: 1,
		}),
	}
	sm.Init(offset+wrapTarget, cfg)

	return &addressProgram{sm: sm, offset: offset, length: uint8(len(words))}, nil
}

func (a *addressProgram) setEnabled(enabled bool) {
	a.sm.SetEnabled(enabled)
}

// unload zeroes the instruction memory the program occupies. AddProgram has
// no public counterpart that releases an allocation, so shutdown reclaims
// the space directly the same way the package's own unexported
// writeInstructionMemory does.
func (a *addressProgram) unload() {
	clearInstructionMemory(a.sm.PIO(), a.offset, a.length)
}
