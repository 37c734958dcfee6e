//go:build rp2040
// +build rp2040

// Package rp2dma wraps the RP2040's DMA channel registers, following the
// same direct register-block-arithmetic technique the retrieved rp2040-pio
// source uses for its per-state-machine control registers (computing each
// channel's address as a fixed stride from a peripheral base rather than
// naming 12 separate struct types).
package rp2dma

import (
	"device/rp"
	"runtime/volatile"
	"unsafe"
)

// channelHW mirrors the first alias view of one DMA channel's register
// block (RP2040 datasheet §2.5.7), the one ending in CTRL_TRIG: writing
// CTRL_TRIG starts the channel immediately once READ_ADDR/WRITE_ADDR/
// TRANS_COUNT are set.
type channelHW struct {
	READ_ADDR   volatile.Register32
	WRITE_ADDR  volatile.Register32
	TRANS_COUNT volatile.Register32
	CTRL_TRIG   volatile.Register32
}

// channelStride is the byte span of one channel's full register block
// (all four alias views); channelHW models the view at its start, and
// readAddrTrigOffset is the offset of the last view's READ_ADDR_TRIG
// register within the block.
const (
	channelStride      = 0x40
	readAddrTrigOffset = 0x3c
)

// Channel identifies one of the RP2040's 12 DMA channels.
type Channel struct {
	hw    *channelHW
	index uint8
}

// ChannelAt returns the Channel wrapping DMA channel index (0-11).
func ChannelAt(index uint8) Channel {
	base := unsafe.Pointer(rp.DMA)
	ptr := uintptr(base) + uintptr(index)*channelStride
	return Channel{hw: (*channelHW)(unsafe.Pointer(ptr)), index: index}
}

// Index returns the receiver's channel number.
func (c Channel) Index() uint8 { return c.index }

// SetReadAddr sets the channel's next read address.
func (c Channel) SetReadAddr(addr uint32) { c.hw.READ_ADDR.Set(addr) }

// SetWriteAddr sets the channel's next write address.
func (c Channel) SetWriteAddr(addr uint32) { c.hw.WRITE_ADDR.Set(addr) }

// SetTransferCount sets the number of transfers the channel will perform.
func (c Channel) SetTransferCount(n uint32) { c.hw.TRANS_COUNT.Set(n) }

// Configure writes ctrl to the channel's trigger alias, arming and
// (if EN is set) starting the channel in one atomic step.
func (c Channel) Configure(ctrl uint32) { c.hw.CTRL_TRIG.Set(ctrl) }

// Ctrl returns the channel's current control word.
func (c Channel) Ctrl() uint32 { return c.hw.CTRL_TRIG.Get() }

// ReadAddrTrigRegister returns the hardware address of this channel's
// READ_ADDR_TRIG register, the write target a control channel uses to
// reload and retrigger this channel.
func (c Channel) ReadAddrTrigRegister() uint32 {
	return uint32(uintptr(unsafe.Pointer(c.hw)) + readAddrTrigOffset)
}

// Busy reports whether the channel is mid-transfer.
func (c Channel) Busy() bool {
	return c.hw.CTRL_TRIG.Get()&rp.DMA_CH0_CTRL_TRIG_BUSY_Msk != 0
}

// Abort requests immediate termination of any in-flight transfer on this
// channel and blocks until the hardware confirms it has stopped.
func (c Channel) Abort() {
	rp.DMA.CHAN_ABORT.Set(1 << c.index)
	for rp.DMA.CHAN_ABORT.Get()&(1<<c.index) != 0 {
	}
}
