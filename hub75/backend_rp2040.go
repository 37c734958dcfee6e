//go:build rp2040
// +build rp2040

package hub75

import (
	"machine"
	"unsafe"

	pio "github.com/tinygo-org/pio/rp2040-pio"
)

// Fixed DMA channel assignment. The driver owns four of the RP2040's twelve
// channels for its lifetime; nothing else in this module contends for them.
const (
	dmaChannelPixelBuffer   = 0
	dmaChannelPixelControl  = 1
	dmaChannelTimingBuffer  = 2
	dmaChannelTimingControl = 3
)

// hardwareBackend drives the address and data PIO programs plus their DMA
// rings on real RP2040 silicon (this file builds only with the rp2040 tag).
type hardwareBackend struct {
	addr  *addressProgram
	data  *dataProgram
	rings *dmaRings

	pio     *pio.PIO
	dataIdx uint8
}

func init() {
	newBackend = func() backend { return &hardwareBackend{} }
}

// pioBlockAndIndex maps a Config.StateMachines index (0-7) onto one of the
// two physical PIO blocks and its local state-machine index (0-3).
func pioBlockAndIndex(sm uint8) (*pio.PIO, uint8) {
	if sm >= 4 {
		return pio.PIO1, sm - 4
	}
	return pio.PIO0, sm
}

func (b *hardwareBackend) configure(cfg Config, front, back []byte, timing []uint32) error {
	addrPIO, addrIdx := pioBlockAndIndex(cfg.StateMachines.Address)
	dataPIO, dataIdx := pioBlockAndIndex(cfg.StateMachines.Data)
	if addrPIO != dataPIO {
		return &ConfigError{"StateMachines", "Address and Data must share a PIO block"}
	}
	b.pio = addrPIO
	b.dataIdx = dataIdx

	pinMode := pioPinMode(addrPIO.BlockIndex())
	configurePioPin(cfg.BaseAddress, cfg.addressBitsU8(), pinMode)
	configurePioPin(cfg.BaseData, 6, pinMode)
	configurePioPin(cfg.BaseClock, 2, pinMode)
	configurePioPin(cfg.OutputEnable, 1, pinMode)

	sysHz := machine.CPUFrequency()
	addrClkDiv := clkDivValue(1)
	dataClkDiv := clkDivValue(float64(sysHz) / (2 * float64(cfg.DataFrequencyHz)))

	addr, err := loadAddressProgram(b.pio, addrIdx, cfg.Geometry, uint8(cfg.BaseAddress), uint8(cfg.OutputEnable), addrClkDiv)
	if err != nil {
		return err
	}
	data, err := loadDataProgram(b.pio, dataIdx, cfg.Geometry, uint8(cfg.BaseData), uint8(cfg.BaseClock), dataClkDiv)
	if err != nil {
		return err
	}
	b.addr = addr
	b.data = data

	b.rings = &dmaRings{
		pixel:  newDMARing(dmaChannelPixelBuffer, dmaChannelPixelControl),
		timing: newDMARing(dmaChannelTimingBuffer, dmaChannelTimingControl),
	}
	b.rings.pixel.start(
		txFIFORegisterAddress(b.pio, dataIdx),
		uint32(len(front)/4),
		pioTxDreq(b.pio, dataIdx),
		addressOfBytes(front),
	)
	b.rings.timing.start(
		txFIFORegisterAddress(b.pio, addrIdx),
		uint32(len(timing)),
		pioTxDreq(b.pio, addrIdx),
		addressOfU32(&timing[0]),
	)

	b.addr.setEnabled(true)
	b.data.setEnabled(true)

	return nil
}

func (b *hardwareBackend) flip(front []byte) {
	b.rings.flip(addressOfBytes(front))
}

func (b *hardwareBackend) setDataFrequency(hz uint32) {
	div := clkDivValue(float64(machine.CPUFrequency()) / (2 * float64(hz)))
	b.data.sm.HW().CLKDIV.Set(div)
}

// shutdown performs the graceful teardown sequence: the DMA rings are
// stopped first (dmaRings.shutdown), then both handshake IRQs are
// force-asserted to unstick either SM if it's mid-wait, then the data SM's
// TX-stall debug bit is polled to confirm it reached quiescence before the
// SMs are deactivated and the handshake IRQs and PIO program memory are
// released.
func (b *hardwareBackend) shutdown() error {
	b.rings.shutdown()

	const handshakeIRQs = uint32(1)<<latchSafeIRQ | uint32(1)<<latchCompleteIRQ
	forceIRQs(b.pio, handshakeIRQs)
	waitTxStall(b.pio, b.dataIdx)

	b.addr.setEnabled(false)
	b.data.setEnabled(false)

	clearIRQs(b.pio, handshakeIRQs)

	b.addr.unload()
	b.data.unload()

	return nil
}

// pioPinMode returns the GPIO function-select mode for block (0 or 1, per
// PIO.BlockIndex).
func pioPinMode(block uint8) machine.PinMode {
	if block == 1 {
		return machine.PinPIO1
	}
	return machine.PinPIO0
}

// configurePioPin assigns count contiguous GPIOs starting at base to the PIO
// peripheral function, the prerequisite for any of those pins being driven by
// a state machine's OUT/SET/SIDESET mapping.
func configurePioPin(base machine.Pin, count uint8, mode machine.PinMode) {
	for i := uint8(0); i < count; i++ {
		(base + machine.Pin(i)).Configure(machine.PinConfig{Mode: mode})
	}
}

// txFIFORegisterAddress returns the hardware address of a state machine's TX
// FIFO register, computed the same way the rp2040-pio package's own
// unexported StateMachine.tx() does internally, but from outside the package
// using the exported PIO.HW field.
func txFIFORegisterAddress(p *pio.PIO, smIndex uint8) uint32 {
	base := unsafe.Pointer(&p.HW.TXF0)
	return uint32(uintptr(base) + uintptr(smIndex)*4)
}

func addressOfBytes(b []byte) uint32 {
	return uint32(uintptr(unsafe.Pointer(&b[0])))
}
