package hub75

import "machine"

// Geometry describes the physical shape of the attached panel chain: the
// shift-register depth, total row count, and per-channel bit depth (K
// bitplanes). It does not include pin assignments or timing.
type Geometry struct {
	Width      int   // W: pixels per half-row (shift-register depth)
	Height     int   // total rows, top+bottom halves; must be 2 * a power of two
	ColorDepth uint8 // K: bitplanes per channel, 1-8
}

// Pins assigns the panel's GPIO lines to contiguous pin ranges, per §6.
type Pins struct {
	BaseData    machine.Pin // first of 6 contiguous: R1,G1,B1,R2,G2,B2
	BaseClock   machine.Pin // first of 2 contiguous: CLK, LAT
	BaseAddress machine.Pin // first of A contiguous row-address pins
	OutputEnable machine.Pin
}

// GammaKind selects the gamma-correction variant materialized into the LUT.
type GammaKind uint8

const (
	GammaNone GammaKind = iota
	GammaSRGB
	GammaPower
)

// Gamma is a tagged variant: GammaNone and GammaSRGB ignore Value, GammaPower
// uses it as the exponent (default 2.2 if zero).
type Gamma struct {
	Kind  GammaKind
	Value float64
}

// StateMachines selects which PIO state machine index runs each program.
// Both must resolve to the same physical PIO block (0-3 -> PIO0, 4-7 -> PIO1)
// so they can share IRQ flags.
type StateMachines struct {
	Address uint8
	Data    uint8
}

// Config is the full set of init-time settings accepted by Configure. A nil
// Brightness and a zero DataFrequencyHz select the package defaults, as does
// a zero BaseCycles when TargetRefreshHz is also zero. StateMachines has no
// default: its zero value names the same state machine twice and is rejected.
type Config struct {
	Geometry
	Pins
	StateMachines

	DataFrequencyHz uint32 // shift clock rate, typically 15-30 MHz
	// Brightness is the fraction of each bitplane's window with OE
	// asserted, in [0, 1]. nil selects DefaultBrightness; a pointer (rather
	// than a bare float64) is used so that an explicit 0 -- a legal,
	// fully-dark boundary value -- isn't confused with "not set".
	Brightness *float64
	BlankingNs uint32 // anti-ghost pad added to both sides of every OE pulse
	Gamma           Gamma
	BaseCycles      uint32 // explicit base_cycles; overridden by TargetRefreshHz if set
	TargetRefreshHz uint32 // if nonzero, base_cycles is fit to approximate this rate
}

const (
	// DefaultDataFrequencyHz is used when Config.DataFrequencyHz is zero.
	DefaultDataFrequencyHz = 20_000_000
	// DefaultBrightness is used when Config.Brightness is nil.
	DefaultBrightness = 1.0
	// DefaultBaseCycles is used when neither BaseCycles nor TargetRefreshHz
	// is set.
	DefaultBaseCycles = 4
)

// PresetMatrix64x32 is the Config.Geometry for the common single 64x32 HUB75
// panel (4 address lines, 8-bit color depth) seen throughout the retrieval
// pack (e.g. the 64x32 default geometry of the teacher's own GPIO-bitbang
// HUB75 driver).
var PresetMatrix64x32 = Geometry{Width: 64, Height: 32, ColorDepth: 8}

// PresetMatrix64x64 is the Config.Geometry for a 64x64 panel (5 address
// lines).
var PresetMatrix64x64 = Geometry{Width: 64, Height: 64, ColorDepth: 8}

// PresetMatrix128x64 is the Config.Geometry for a 128x64 panel (5 address
// lines, double shift-register depth).
var PresetMatrix128x64 = Geometry{Width: 128, Height: 64, ColorDepth: 8}

// addressBits returns A, the number of row-address lines required by the
// receiver's Height, or -1 if Height isn't 2 * a power of two.
func (g Geometry) addressBits() int {
	if g.Height <= 0 || g.Height%2 != 0 {
		return -1
	}
	rows := g.Height / 2
	bits := 0
	for rows > 1 {
		if rows%2 != 0 {
			return -1
		}
		rows >>= 1
		bits++
	}
	return bits
}

// addressBitsU8 is addressBits() narrowed to uint8 for use as a PIO pin
// count; callers must only use it once validate() has confirmed addressBits()
// is non-negative.
func (g Geometry) addressBitsU8() uint8 {
	return uint8(g.addressBits())
}

// validate checks geometry, pin, and timing constraints that must hold
// before any hardware is touched. It returns the first *ConfigError found.
func (cfg Config) validate() error {
	if cfg.Width <= 0 {
		return &ConfigError{"Width", "must be positive"}
	}
	if cfg.addressBits() < 0 {
		return &ConfigError{"Height", "must be 2 * a power of two (rows per half must be addressable)"}
	}
	if cfg.addressBits() > 5 {
		return &ConfigError{"Height", "at most 32 rows per half (the row counter is a 5-bit SET immediate)"}
	}
	if cfg.ColorDepth == 0 || cfg.ColorDepth > 8 {
		return &ConfigError{"ColorDepth", "must be in [1, 8]"}
	}
	if cfg.Brightness != nil && (*cfg.Brightness < 0 || *cfg.Brightness > 1) {
		return &ConfigError{"Brightness", "must be in [0, 1]"}
	}
	if cfg.Gamma.Kind > GammaPower {
		return &ConfigError{"Gamma.Kind", "unknown gamma variant"}
	}
	if err := cfg.validatePinRanges(); err != nil {
		return err
	}
	if err := cfg.validateStateMachines(); err != nil {
		return err
	}
	return nil
}

// validateStateMachines rejects a StateMachines selection that the hardware
// cannot realize: both indices must be in range (0-7, i.e. one of the two
// physical PIO blocks' four SMs), and the address/data programs must
// actually run on different SMs since each SM can only execute one program.
func (cfg Config) validateStateMachines() error {
	if cfg.StateMachines.Address > 7 {
		return &ConfigError{"StateMachines.Address", "must be in [0, 7]"}
	}
	if cfg.StateMachines.Data > 7 {
		return &ConfigError{"StateMachines.Data", "must be in [0, 7]"}
	}
	if cfg.StateMachines.Address == cfg.StateMachines.Data {
		return &ConfigError{"StateMachines", "Address and Data must be different state machines"}
	}
	if cfg.StateMachines.Address/4 != cfg.StateMachines.Data/4 {
		return &ConfigError{"StateMachines", "Address and Data must share a PIO block"}
	}
	return nil
}

// validatePinRanges rejects configurations whose contiguous pin ranges
// overlap; the address-pin range is addressBits() pins wide. Pin numbers are
// not checked against the number of GPIOs the chip has.
func (cfg Config) validatePinRanges() error {
	a := cfg.addressBits()
	ranges := []struct {
		name        string
		base, count int
	}{
		{"Pins.BaseData", int(cfg.BaseData), 6},
		{"Pins.BaseClock", int(cfg.BaseClock), 2},
		{"Pins.BaseAddress", int(cfg.BaseAddress), a},
		{"Pins.OutputEnable", int(cfg.OutputEnable), 1},
	}
	for i := range ranges {
		for j := range ranges {
			if i == j {
				continue
			}
			if rangesOverlap(ranges[i].base, ranges[i].count, ranges[j].base, ranges[j].count) {
				return &ConfigError{ranges[i].name, "overlaps " + ranges[j].name}
			}
		}
	}
	return nil
}

func rangesOverlap(baseA, countA, baseB, countB int) bool {
	if countA <= 0 || countB <= 0 {
		return false
	}
	return baseA < baseB+countB && baseB < baseA+countA
}

// withDefaults returns a copy of cfg with an unset DataFrequencyHz,
// Brightness and (when TargetRefreshHz is also unset) BaseCycles replaced by
// package defaults. Other fields are returned as given.
func (cfg Config) withDefaults() Config {
	if cfg.DataFrequencyHz == 0 {
		cfg.DataFrequencyHz = DefaultDataFrequencyHz
	}
	if cfg.Brightness == nil {
		b := float64(DefaultBrightness)
		cfg.Brightness = &b
	}
	if cfg.BaseCycles == 0 && cfg.TargetRefreshHz == 0 {
		cfg.BaseCycles = DefaultBaseCycles
	}
	return cfg
}
