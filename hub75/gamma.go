package hub75

import "math"

// buildGammaLUT materializes a 256-entry table mapping an 8-bit channel
// value to a depth-bit (0..2^depth-1) value, applying the gamma variant g.
// This runs once at Configure/SetGamma time; the hot encoder path only ever
// indexes the resulting array.
func buildGammaLUT(g Gamma, depth uint8) [256]byte {
	var lut [256]byte
	max := float64(uint16(1)<<depth - 1)

	switch g.Kind {
	case GammaSRGB:
		for v := 0; v < 256; v++ {
			lut[v] = byte(math.Round(srgbToLinear(float64(v)/255) * max))
		}
	case GammaPower:
		exponent := g.Value
		if exponent <= 0 {
			exponent = 2.2
		}
		for v := 0; v < 256; v++ {
			lut[v] = byte(math.Round(math.Pow(float64(v)/255, exponent) * max))
		}
	default: // GammaNone: direct linear scaling from 8-bit to depth-bit.
		for v := 0; v < 256; v++ {
			lut[v] = byte(math.Round(float64(v) / 255 * max))
		}
	}
	return lut
}

// srgbToLinear applies the piecewise sRGB electro-optical transfer function
// to a normalized (0..1) channel value.
func srgbToLinear(c float64) float64 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}
