package hub75

// backend abstracts the hardware operations the façade (Device) drives:
// bringing up the two PIO programs and the DMA rings, flipping the active
// buffer pointer, retuning the data clock, and tearing everything down. It
// exists so Device's lifecycle, validation, and buffer bookkeeping can be
// exercised without real PIO/DMA hardware, mirroring the split between
// flash.Device and its unexported transport interface.
type backend interface {
	// configure brings up both state machines and both DMA rings against
	// front (initially displayed) and back (initially writable) buffers and
	// the timing word array, then enables the state machines. It is called
	// once per Configure and once per reconfigure.
	configure(cfg Config, front, back []byte, timing []uint32) error

	// flip updates the pixel DMA ring's active pointer to front, the buffer
	// that is now front per the caller's doubleBuffer bookkeeping. Takes
	// effect no later than the next full frame.
	flip(front []byte)

	// setDataFrequency reprograms the data state machine's clock divider.
	setDataFrequency(hz uint32)

	// shutdown performs the graceful DMA/PIO teardown sequence and releases
	// any loaded PIO programs. It is safe to call at most once.
	shutdown() error
}

// newBackend constructs the backend for the current build target. It is set
// by an init() in backend_rp2040.go or backend_other.go, and swapped out by
// tests to exercise Device against a fake.
var newBackend func() backend
