package hub75

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestGammaNoneIsDirectScaling(t *testing.T) {
	c := qt.New(t)

	lut := buildGammaLUT(Gamma{Kind: GammaNone}, 6)

	c.Assert(lut[0], qt.Equals, byte(0))
	c.Assert(lut[255], qt.Equals, byte(0x3F))
}

func TestGammaNoneEightBit(t *testing.T) {
	c := qt.New(t)

	lut := buildGammaLUT(Gamma{Kind: GammaNone}, 8)

	c.Assert(lut[0], qt.Equals, byte(0))
	c.Assert(lut[255], qt.Equals, byte(0xFF))
}

func TestGammaPowerDefaultsExponentWhenZero(t *testing.T) {
	c := qt.New(t)

	withDefault := buildGammaLUT(Gamma{Kind: GammaPower, Value: 0}, 8)
	explicit := buildGammaLUT(Gamma{Kind: GammaPower, Value: 2.2}, 8)

	c.Assert(withDefault, qt.DeepEquals, explicit)
}

func TestGammaMonotonic(t *testing.T) {
	c := qt.New(t)

	for _, kind := range []GammaKind{GammaNone, GammaSRGB, GammaPower} {
		lut := buildGammaLUT(Gamma{Kind: kind, Value: 2.2}, 8)
		for v := 1; v < 256; v++ {
			c.Assert(lut[v] >= lut[v-1], qt.IsTrue, qt.Commentf("kind=%v v=%d", kind, v))
		}
	}
}

func TestGammaBoundsToDepth(t *testing.T) {
	c := qt.New(t)

	for _, kind := range []GammaKind{GammaNone, GammaSRGB, GammaPower} {
		lut := buildGammaLUT(Gamma{Kind: kind, Value: 2.2}, 6)
		for _, v := range lut {
			c.Assert(v <= 0x3F, qt.IsTrue)
		}
	}
}
