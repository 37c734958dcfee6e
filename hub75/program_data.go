//go:build rp2040
// +build rp2040

package hub75

import (
	pio "github.com/tinygo-org/pio/rp2040-pio"

	"github.com/dgrantpete/hub75/internal/pioasm"
)

// Side-set values for the data program's 2-bit {LAT,CLK} side-set, bit0=CLK,
// bit1=LAT, per §4.5.
const (
	dataSideIdle     uint8 = 0b00 // CLK low, LAT low
	dataSideClkHigh  uint8 = 0b01 // CLK high, LAT low
	dataSideLatHigh  uint8 = 0b10 // CLK low, LAT high
)

// buildDataProgram assembles the C5 data-SM program described in §4.5: load
// the per-row pixel counter from the ISR (preloaded once at start-of-day,
// see loadDataProgram), shift W pixel bytes out, least-significant byte of
// each 32-bit word first, with the CLK
// side-set toggling on every column, wait for the address SM's
// latch-safe signal, then latch with LAT high while signalling
// latch-complete.
func buildDataProgram() (insns []pioasm.Insn, wrapTarget, wrap uint8) {
	const pixelLoop = 1

	insns = []pioasm.Insn{
		pioasm.Mov(pioasm.DestX, pioasm.MovNone, pioasm.SrcISR).Side(dataSideIdle), // 0: reload row pixel counter
		pioasm.Out(pioasm.DestPins, 8).Side(dataSideIdle),                          // 1: pixelLoop -- shift byte, CLK low
		{}, // 2: jmp x--, pixelLoop  side CLK high
		pioasm.WaitIRQ(1, latchSafeIRQ).Side(dataSideIdle), // 3
		pioasm.IrqSet(latchCompleteIRQ).Side(dataSideLatHigh), // 4
	}
	insns[2] = pioasm.Jmp(pioasm.JmpXDec, pixelLoop).Side(dataSideClkHigh)

	return insns, 0, 4
}

// dataProgram holds the loaded-and-configured data state machine.
type dataProgram struct {
	sm     pio.StateMachine
	offset uint8
	length uint8
}

// loadDataProgram assembles, loads, and configures the data SM for the given
// geometry and pin assignment, then preloads its ISR with W-1 via the
// one-shot OUT-to-ISR idiom: W can exceed the 5-bit SET immediate, so the
// per-row pixel counter is seeded once through the TX FIFO instead of being
// baked into the program. It does not enable the SM.
func loadDataProgram(p *pio.PIO, smIndex uint8, geo Geometry, dataBase, clkPin uint8, clkDiv uint32) (*dataProgram, error) {
	insns, wrapTarget, wrap := buildDataProgram()
	words := pioasm.Assemble(insns, 2)

	offset, err := p.AddProgram(words, -1)
	if err != nil {
		return nil, err
	}

	sm := p.StateMachine(smIndex)
	cfg := pio.StateMachineConfig{
		ClkDiv:    clkDiv,
		ExecCtrl:  execCtrlValue(offset+wrapTarget, offset+wrap, true),
		ShiftCtrl: shiftCtrlValue(true, 32, true),
		PinCtrl: pinCtrlValue(pinCtrlConfig{
			OutBase:      dataBase,
			OutCount:     6,
			SidesetBase:  clkPin,
			SidesetCount: 2,
		}),
	}
	sm.Init(offset+wrapTarget, cfg)

	sm.TxPut(uint32(geo.Width - 1))
	sm.Exec(pioasm.Assemble([]pioasm.Insn{pioasm.Out(pioasm.DestISR, 32)}, 0)[0])

	return &dataProgram{sm: sm, offset: offset, length: uint8(len(words))}, nil
}

func (d *dataProgram) setEnabled(enabled bool) {
	d.sm.SetEnabled(enabled)
}

// unload zeroes the instruction memory the program occupies; see
// addressProgram.unload.
func (d *dataProgram) unload() {
	clearInstructionMemory(d.sm.PIO(), d.offset, d.length)
}
