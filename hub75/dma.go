//go:build rp2040
// +build rp2040

package hub75

import (
	"device/rp"
	"unsafe"

	pio "github.com/tinygo-org/pio/rp2040-pio"

	"github.com/dgrantpete/hub75/internal/rp2dma"
)

// dmaRing is one paired buffer-DMA/control-DMA loop described in §4.6: the
// buffer channel streams words into a state machine's TX FIFO, paced by its
// DREQ, then chains to the control channel, which reloads the buffer
// channel's read address from activePtr and retriggers it -- an
// indefinitely self-rechaining loop requiring no CPU intervention per frame.
type dmaRing struct {
	buffer, control rp2dma.Channel
	activePtr       uint32
}

func newDMARing(bufferChannel, controlChannel uint8) *dmaRing {
	return &dmaRing{
		buffer:  rp2dma.ChannelAt(bufferChannel),
		control: rp2dma.ChannelAt(controlChannel),
	}
}

// start arms both channels and begins the ring: writeAddr is the target
// FIFO register, transferWords is BUF_BYTES/4 (or 2*K*2^A for the timing
// path, see buildTimingWords),
// dreq paces the buffer channel, and initialReadAddr seeds the first pass.
func (r *dmaRing) start(writeAddr uint32, transferWords, dreq uint32, initialReadAddr uint32) {
	r.activePtr = initialReadAddr

	r.buffer.SetWriteAddr(writeAddr)
	r.buffer.SetTransferCount(transferWords)
	r.buffer.SetReadAddr(r.activePtr)
	r.buffer.Configure(
		rp.DMA_CH0_CTRL_TRIG_INCR_READ |
			rp.DMA_CH0_CTRL_TRIG_DATA_SIZE_SIZE_WORD<<rp.DMA_CH0_CTRL_TRIG_DATA_SIZE_Pos |
			uint32(r.control.Index())<<rp.DMA_CH0_CTRL_TRIG_CHAIN_TO_Pos |
			dreq<<rp.DMA_CH0_CTRL_TRIG_TREQ_SEL_Pos |
			rp.DMA_CH0_CTRL_TRIG_EN,
	)

	r.control.SetReadAddr(addressOfU32(&r.activePtr))
	r.control.SetWriteAddr(r.buffer.ReadAddrTrigRegister())
	r.control.SetTransferCount(1)
	r.control.Configure(
		rp.DMA_CH0_CTRL_TRIG_DATA_SIZE_SIZE_WORD<<rp.DMA_CH0_CTRL_TRIG_DATA_SIZE_Pos |
			uint32(r.control.Index())<<rp.DMA_CH0_CTRL_TRIG_CHAIN_TO_Pos | // chain to self: don't chain further
			0x3f<<rp.DMA_CH0_CTRL_TRIG_TREQ_SEL_Pos | // TREQ_SEL 0x3f: unpaced
			rp.DMA_CH0_CTRL_TRIG_EN,
	)
}

// setActivePointer stores addr for the control channel to pick up on its
// next firing, effective no later than one full ring pass later.
func (r *dmaRing) setActivePointer(addr uint32) {
	r.activePtr = addr
}

// stop performs the graceful shutdown sequence from §4.6: break the ring by
// making the buffer channel chain to itself, wait for its current transfer
// to finish, then abort both channels.
func (r *dmaRing) stop() {
	const chainMsk = rp.DMA_CH0_CTRL_TRIG_CHAIN_TO_Msk
	ctrl := r.buffer.Ctrl()&^chainMsk | uint32(r.buffer.Index())<<rp.DMA_CH0_CTRL_TRIG_CHAIN_TO_Pos
	r.buffer.Configure(ctrl)
	for r.buffer.Busy() {
	}
	r.buffer.Abort()
	r.control.Abort()
}

func addressOfU32(p *uint32) uint32 {
	return uint32(uintptr(unsafe.Pointer(p)))
}

// pioTxDreq computes the DREQ_SEL value for a PIO block's state machine TX
// FIFO, per the RP2040 datasheet's fixed DREQ numbering (8 DREQs per PIO
// block: TX0-3 then RX0-3).
func pioTxDreq(p *pio.PIO, smIndex uint8) uint32 {
	return uint32(p.BlockIndex())*8 + uint32(smIndex)
}

// dmaRings owns the two DMA rings (pixel data path and timing-word path)
// that keep both state machines fed without CPU intervention.
type dmaRings struct {
	pixel  *dmaRing
	timing *dmaRing
}

// flip updates the pixel ring's active pointer; see doubleBuffer.flip for
// the CPU-side half of this operation.
func (d *dmaRings) flip(frontBufferAddr uint32) {
	d.pixel.setActivePointer(frontBufferAddr)
}

func (d *dmaRings) shutdown() {
	d.pixel.stop()
	d.timing.stop()
}
