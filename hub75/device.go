package hub75

import (
	"machine"
	"sync/atomic"
)

// lifecycleState is the driver's init/teardown state, per §4.7/§5:
// Uninitialized -> Running <-> (Configure again, i.e. reconfigure) ->
// Shutting_Down -> Deinitialized.
type lifecycleState uint32

const (
	stateUninitialized lifecycleState = iota
	stateRunning
	stateShuttingDown
	stateDeinitialized
)

// Device is the driver façade (C7): it owns the double buffer, gamma LUT,
// and timing array, and dispatches hardware operations through backend so
// that the CPU-side logic can be exercised without PIO/DMA hardware.
type Device struct {
	state atomic.Uint32

	cfg     Config
	lut     [256]byte
	buf     *doubleBuffer
	timing  []uint32
	enc     *encoder
	backend backend
}

// New returns an unconfigured Device. Configure must be called before any
// load/flip/tuning operation.
func New() *Device {
	return &Device{}
}

// Configure validates cfg, allocates the back buffers/LUT/timing array, and
// brings the hardware up. It may be called again on an already-Running
// Device to reconfigure it: the old backend is shut down first.
func (d *Device) Configure(cfg Config) error {
	switch lifecycleState(d.state.Load()) {
	case stateShuttingDown, stateDeinitialized:
		return ErrNotRunning
	}

	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return err
	}

	baseCycles := resolveBaseCycles(cfg)

	lut := buildGammaLUT(cfg.Gamma, cfg.ColorDepth)
	buf := newDoubleBuffer(cfg.bufferBytes())
	timing := buildTimingWords(cfg.ColorDepth, cfg.rowPairs(), timingParams{
		BaseCycles:    baseCycles,
		Brightness:    *cfg.Brightness,
		BlankingNs:    cfg.BlankingNs,
		SystemClockHz: systemClockHz(),
	})

	if lifecycleState(d.state.Load()) == stateRunning {
		if err := d.backend.shutdown(); err != nil {
			return err
		}
	}

	be := newBackend()
	if err := be.configure(cfg, buf.front(), buf.back(), timing); err != nil {
		return err
	}

	cfg.BaseCycles = baseCycles
	d.cfg = cfg
	d.lut = lut
	d.buf = buf
	d.timing = timing
	d.enc = &encoder{geo: cfg.Geometry, lut: &d.lut, buf: buf}
	d.backend = be
	d.state.Store(uint32(stateRunning))
	return nil
}

// resolveBaseCycles picks the explicit BaseCycles, or fits one to
// TargetRefreshHz if set.
func resolveBaseCycles(cfg Config) uint32 {
	if cfg.TargetRefreshHz == 0 {
		return cfg.BaseCycles
	}
	baseCycles, _ := fitBaseCycles(float64(cfg.TargetRefreshHz), estimatorParamsFor(cfg, 0))
	return baseCycles
}

func estimatorParamsFor(cfg Config, baseCycles uint32) estimatorParams {
	return estimatorParams{
		AddressBits:     cfg.addressBitsU8(),
		ColorDepth:      cfg.ColorDepth,
		Width:           cfg.Width,
		BaseCycles:      baseCycles,
		Brightness:      *cfg.Brightness,
		BlankingNs:      cfg.BlankingNs,
		SystemClockHz:   systemClockHz(),
		DataFrequencyHz: cfg.DataFrequencyHz,
	}
}

func (d *Device) running() bool {
	return lifecycleState(d.state.Load()) == stateRunning
}

// LoadRGB888 decodes src into the back buffer. See encoder.LoadRGB888.
func (d *Device) LoadRGB888(src []byte) error {
	if !d.running() {
		return ErrNotRunning
	}
	return d.enc.LoadRGB888(src)
}

// LoadRGB565 decodes src into the back buffer. See encoder.LoadRGB565.
func (d *Device) LoadRGB565(src []byte) error {
	if !d.running() {
		return ErrNotRunning
	}
	return d.enc.LoadRGB565(src)
}

// Clear zeroes the back buffer.
func (d *Device) Clear() error {
	if !d.running() {
		return ErrNotRunning
	}
	d.enc.Clear()
	return nil
}

// Flip swaps front and back buffers; the new front buffer plays on the
// panel no later than one full frame from now.
func (d *Device) Flip() error {
	if !d.running() {
		return ErrNotRunning
	}
	d.buf.flip()
	d.backend.flip(d.buf.front())
	return nil
}

// SetBrightness updates the on-window fraction used by the timing generator
// and rewrites the timing array in place (readers tolerate inter-word
// tearing, per §5).
func (d *Device) SetBrightness(brightness float64) error {
	if !d.running() {
		return ErrNotRunning
	}
	if brightness < 0 || brightness > 1 {
		return &ConfigError{"Brightness", "must be in [0, 1]"}
	}
	d.cfg.Brightness = &brightness
	d.rebuildTiming()
	return nil
}

// SetBlanking updates the anti-ghost pad and rewrites the timing array in
// place.
func (d *Device) SetBlanking(ns uint32) error {
	if !d.running() {
		return ErrNotRunning
	}
	d.cfg.BlankingNs = ns
	d.rebuildTiming()
	return nil
}

// SetGamma rebuilds the gamma LUT in place; the encoder holds a pointer to
// the same backing array, so no reallocation or re-wiring is needed.
func (d *Device) SetGamma(g Gamma) error {
	if !d.running() {
		return ErrNotRunning
	}
	if g.Kind > GammaPower {
		return &ConfigError{"Gamma.Kind", "unknown gamma variant"}
	}
	d.cfg.Gamma = g
	d.lut = buildGammaLUT(g, d.cfg.ColorDepth)
	return nil
}

// SetTargetRefreshRate fits base_cycles to approximate hz and rewrites the
// timing array in place, returning the achieved rate.
func (d *Device) SetTargetRefreshRate(hz uint32) (float64, error) {
	if !d.running() {
		return 0, ErrNotRunning
	}
	baseCycles, achievedHz := fitBaseCycles(float64(hz), estimatorParamsFor(d.cfg, 0))
	d.cfg.BaseCycles = baseCycles
	d.cfg.TargetRefreshHz = hz
	d.rebuildTiming()
	return achievedHz, nil
}

// SetDataFrequency reprograms the data state machine's shift clock.
func (d *Device) SetDataFrequency(hz uint32) error {
	if !d.running() {
		return ErrNotRunning
	}
	d.cfg.DataFrequencyHz = hz
	d.backend.setDataFrequency(hz)
	return nil
}

// rebuildTiming recomputes the timing words into the existing backing array
// so the timing DMA ring's active pointer never needs reseeding.
func (d *Device) rebuildTiming() {
	fresh := buildTimingWords(d.cfg.ColorDepth, d.cfg.rowPairs(), timingParams{
		BaseCycles:    d.cfg.BaseCycles,
		Brightness:    *d.cfg.Brightness,
		BlankingNs:    d.cfg.BlankingNs,
		SystemClockHz: systemClockHz(),
	})
	copy(d.timing, fresh)
}

// Deinit performs the graceful shutdown sequence described in §4.6 and
// releases the driver. A Deinitialized Device cannot be reused; call New
// again.
func (d *Device) Deinit() error {
	if !d.running() {
		return ErrNotRunning
	}
	d.state.Store(uint32(stateShuttingDown))
	err := d.backend.shutdown()
	d.state.Store(uint32(stateDeinitialized))
	return err
}

// systemClockHz returns the CPU clock the address state machine's timing
// arithmetic is computed against.
func systemClockHz() uint32 {
	return machine.CPUFrequency()
}
