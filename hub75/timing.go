package hub75

import "math"

// Per-row PIO overhead constants used by the refresh-rate estimator, named
// per §4.3.
const (
	dataReloadCycles        = 1 // one FIFO reload per row
	dataPerColumnCycles     = 2 // per-column shift cost on the data path
	addressFixedCycles      = 8 // fixed address-SM bookkeeping per row
	handshakeCycles         = 2 // IRQ rendezvous between the two SMs
	bitplaneTransitionExtra = 3 // counter-reload cost paid once per bitplane
)

// timingParams are the inputs to the per-bitplane timing-word generator
// (§4.3): the shortest on-window, the brightness fraction, the blanking pad,
// and the clock the address SM runs at.
type timingParams struct {
	BaseCycles    uint32
	Brightness    float64
	BlankingNs    uint32
	SystemClockHz uint32
}

// buildTimingWords computes the timing array consumed by the address SM's TX
// FIFO. The address program (§4.4 step 1) autopulls a fresh (off, on) pair
// every row, for all rowPairs (2^A) rows of a bitplane's sweep before its
// bitplane counter advances -- so each bitplane's pair is repeated rowPairs
// times consecutively rather than appearing once, giving a 2*K*rowPairs-word
// array suitable for direct DMA into the address SM's TX FIFO.
func buildTimingWords(k uint8, rowPairs int, p timingParams) []uint32 {
	words := make([]uint32, 2*int(k)*rowPairs)
	blanking := blankingCycles(p.BlankingNs, p.SystemClockHz)
	for i := 0; i < int(k); i++ {
		window := p.BaseCycles << uint(i)
		on := onCycles(window, p.Brightness)
		off := offCycles(window, on, blanking)
		base := i * rowPairs * 2
		for r := 0; r < rowPairs; r++ {
			words[base+2*r] = off
			words[base+2*r+1] = on
		}
	}
	return words
}

func blankingCycles(blankingNs, systemClockHz uint32) uint32 {
	return uint32(uint64(blankingNs) * uint64(systemClockHz) / 1_000_000_000)
}

func onCycles(window uint32, brightness float64) uint32 {
	on := math.Floor(brightness * float64(window))
	if on < 0 {
		return 0
	}
	return uint32(on)
}

func offCycles(window, on, blanking uint32) uint32 {
	var half uint32
	if window > on {
		half = (window - on) / 2
	}
	return half + blanking
}

// estimatorParams are the inputs to the closed-form refresh-rate estimator.
type estimatorParams struct {
	AddressBits     uint8
	ColorDepth      uint8
	Width           int
	BaseCycles      uint32
	Brightness      float64
	BlankingNs      uint32
	SystemClockHz   uint32
	DataFrequencyHz uint32
}

// estimateRefreshHz returns the closed-form achievable frame rate for p, per
// §4.3: the row time per bitplane is the slower of the address path (fixed
// cost plus the bitplane's off/on window) and the data path (scaled from the
// data SM's own clock to sys_clk), plus the handshake rendezvous; bitplane
// transitions add a fixed reload cost. It is monotonically non-increasing in
// BaseCycles, which set_target_refresh_rate's binary search relies on.
func estimateRefreshHz(p estimatorParams) float64 {
	if p.SystemClockHz == 0 || p.DataFrequencyHz == 0 {
		return 0
	}
	rows := float64(uint32(1) << p.AddressBits)
	blanking := blankingCycles(p.BlankingNs, p.SystemClockHz)

	dataCyclesPerRow := float64(dataReloadCycles + dataPerColumnCycles*p.Width)
	dataClockHz := float64(2 * p.DataFrequencyHz)
	dataCyclesScaled := dataCyclesPerRow * float64(p.SystemClockHz) / dataClockHz

	var totalCycles float64
	for i := 0; i < int(p.ColorDepth); i++ {
		window := p.BaseCycles << uint(i)
		on := onCycles(window, p.Brightness)
		off := offCycles(window, on, blanking)

		addressCycles := float64(addressFixedCycles) + 2*float64(off) + float64(on)
		rowTime := math.Max(addressCycles, dataCyclesScaled) + handshakeCycles
		totalCycles += rowTime*rows + bitplaneTransitionExtra
	}
	if totalCycles <= 0 {
		return 0
	}
	return float64(p.SystemClockHz) / totalCycles
}

// fitBaseCycles performs the binary-search fit described in §4.3: it grows an
// upper bound by doubling until the estimate drops at or below targetHz, then
// binary searches for the smallest BaseCycles whose estimate is <= targetHz,
// and finally checks whether BaseCycles-1 lands arithmetically closer to the
// target (estimateRefreshHz is non-increasing in BaseCycles, so the estimate
// at BaseCycles-1 is always >= the one at BaseCycles).
func fitBaseCycles(targetHz float64, base estimatorParams) (baseCycles uint32, achievedHz float64) {
	estAt := func(bc uint32) float64 {
		p := base
		p.BaseCycles = bc
		return estimateRefreshHz(p)
	}

	upper := uint32(1)
	for estAt(upper) > targetHz {
		upper *= 2
	}

	lo, hi := uint32(1), upper
	for lo < hi {
		mid := lo + (hi-lo)/2
		if estAt(mid) <= targetHz {
			hi = mid
		} else {
			lo = mid + 1
		}
	}

	c := lo
	if c > 1 {
		rateC := estAt(c)
		rateC1 := estAt(c - 1)
		if math.Abs(rateC1-targetHz) < math.Abs(rateC-targetHz) {
			return c - 1, rateC1
		}
	}
	return c, estAt(c)
}
