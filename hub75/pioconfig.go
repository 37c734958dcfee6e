//go:build rp2040
// +build rp2040

package hub75

import (
	"device/rp"
	"runtime/volatile"
	"unsafe"

	pio "github.com/tinygo-org/pio/rp2040-pio"
)

// Bit layout helpers for the PIO SMx_CLKDIV/EXECCTRL/SHIFTCTRL/PINCTRL
// registers, per the RP2040 datasheet §3.7 register map. The real
// tinygo-org/pio package only exposes the raw uint32 fields on
// pio.StateMachineConfig (ClkDiv/ExecCtrl/ShiftCtrl/PinCtrl); callers are
// expected to compose those words themselves, which is what these helpers
// do.
const (
	clkdivFracPos = 8
	clkdivIntPos  = 16

	shiftctrlPushThreshPos = 20
	shiftctrlPullThreshPos = 25
	shiftctrlOutShiftdir   = 1 << 19
	shiftctrlInShiftdir    = 1 << 18
	shiftctrlAutopush      = 1 << 17
	shiftctrlAutopull      = 1 << 16

	pinctrlOutBasePos     = 0
	pinctrlSetBasePos     = 5
	pinctrlSidesetBasePos = 10
	pinctrlInBasePos      = 15
	pinctrlOutCountPos    = 20
	pinctrlSetCountPos    = 26
	pinctrlSidesetCountPos = 29

	execctrlWrapBottomPos = 7
	execctrlWrapTopPos    = 12
	execctrlSideEn        = 1 << 30
	execctrlSidePindir    = 1 << 29
)

// clkDivValue builds the SMx_CLKDIV value for a divider div >= 1.0, encoded
// as an 16.8 fixed-point value (integer part in bits 31:16, fractional part
// in bits 15:8).
func clkDivValue(div float64) uint32 {
	if div < 1 {
		div = 1
	}
	intPart := uint32(div)
	fracPart := uint32((div - float64(intPart)) * 256)
	return intPart<<clkdivIntPos | fracPart<<clkdivFracPos
}

// shiftCtrlValue builds the SMx_SHIFTCTRL value. Both this driver's programs
// autopull 32-bit words and never use the RX path, so only the autopull,
// pull-threshold and OUT shift-direction fields are set; autopush and the IN
// shift direction are left clear. pullThresh follows the hardware encoding
// where 32 wraps to 0 in the 5-bit field.
func shiftCtrlValue(autopull bool, pullThresh uint8, outShiftRight bool) uint32 {
	var v uint32
	if autopull {
		v |= shiftctrlAutopull
	}
	if outShiftRight {
		v |= shiftctrlOutShiftdir
	}
	v |= uint32(pullThresh&0x1f) << shiftctrlPullThreshPos
	return v
}

// pinCtrlConfig is the set of pin-group assignments for one state machine's
// PINCTRL register.
type pinCtrlConfig struct {
	OutBase, OutCount         uint8
	SidesetBase, SidesetCount uint8
}

func pinCtrlValue(cfg pinCtrlConfig) uint32 {
	return uint32(cfg.OutBase)<<pinctrlOutBasePos |
		uint32(cfg.OutCount)<<pinctrlOutCountPos |
		uint32(cfg.SidesetBase)<<pinctrlSidesetBasePos |
		uint32(cfg.SidesetCount)<<pinctrlSidesetCountPos
}

// execCtrlValue builds the SMx_EXECCTRL value selecting the program's wrap
// range and, through sideEnable, the SIDE_EN bit (the most significant
// side-set bit of each instruction becomes an enable flag).
func execCtrlValue(wrapBottom, wrapTop uint8, sideEnable bool) uint32 {
	v := uint32(wrapBottom)<<execctrlWrapBottomPos | uint32(wrapTop)<<execctrlWrapTopPos
	if sideEnable {
		v |= execctrlSideEn
	}
	return v
}

// forceIRQs sets the given block-local IRQ flags (bit i == flag i) as if the
// corresponding SM had executed IRQ SET, unsticking any SM blocked on a
// WAIT 1 IRQ for one of them.
func forceIRQs(p *pio.PIO, mask uint32) {
	p.HW.IRQ_FORCE.Set(mask)
}

// clearIRQs clears the given block-local IRQ flags; the PIO IRQ register is
// write-1-to-clear.
func clearIRQs(p *pio.PIO, mask uint32) {
	p.HW.IRQ.Set(mask)
}

// waitTxStall blocks until the FDEBUG TXSTALL flag for smIndex's TX FIFO is
// set, confirming the state machine has gone idle.
func waitTxStall(p *pio.PIO, smIndex uint8) {
	bit := uint32(1) << (rp.PIO0_FDEBUG_TXSTALL_Pos + uint32(smIndex))
	for p.HW.FDEBUG.Get()&bit == 0 {
	}
}

// clearInstructionMemory zeroes length words of PIO instruction memory
// starting at offset. AddProgram has no public counterpart that forgets an
// allocation, so this reproduces the package's own unexported
// writeInstructionMemory technique from outside the package to let shutdown
// actually vacate the program space.
func clearInstructionMemory(p *pio.PIO, offset, length uint8) {
	base := unsafe.Pointer(&p.HW.INSTR_MEM0)
	for i := uint8(0); i < length; i++ {
		reg := (*volatile.Register32)(unsafe.Pointer(uintptr(base) + uintptr(offset+i)*4))
		reg.Set(0)
	}
}
