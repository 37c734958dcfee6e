//go:build !rp2040
// +build !rp2040

package hub75

import "errors"

// errNoHardware is returned by the stub backend used on any build target
// other than rp2040; there is no PIO/DMA peripheral to drive.
var errNoHardware = errors.New("hub75: no hardware backend for this build target")

type stubBackend struct{}

func init() {
	newBackend = func() backend { return stubBackend{} }
}

func (stubBackend) configure(cfg Config, front, back []byte, timing []uint32) error {
	return errNoHardware
}

func (stubBackend) flip(front []byte) {}

func (stubBackend) setDataFrequency(hz uint32) {}

func (stubBackend) shutdown() error { return nil }
