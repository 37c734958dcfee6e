package hub75

// encoder converts externally supplied RGB888/RGB565 pixel buffers into the
// packed bitplane layout described in §3/§4.2, writing only into the back
// (inactive) buffer. It never allocates and never touches PIO/DMA state.
type encoder struct {
	geo Geometry
	lut *[256]byte
	buf *doubleBuffer
}

// LoadRGB888 decodes a row-major, top-left-origin R,G,B byte buffer into the
// back buffer. src must be exactly Width*Height*3 bytes.
func (e *encoder) LoadRGB888(src []byte) error {
	geo := e.geo
	if len(src) != geo.Width*geo.Height*3 {
		return ErrSizeMismatch
	}
	w, k, rowPairs := geo.Width, int(geo.ColorDepth), geo.rowPairs()
	lut, back := e.lut, e.buf.back()

	for rp := 0; rp < rowPairs; rp++ {
		topOff := rp * w * 3
		botOff := (rp + rowPairs) * w * 3
		planeBase := rp * k * w
		for x := 0; x < w; x++ {
			ti := topOff + x*3
			bi := botOff + x*3
			r1, g1, b1 := lut[src[ti]], lut[src[ti+1]], lut[src[ti+2]]
			r2, g2, b2 := lut[src[bi]], lut[src[bi+1]], lut[src[bi+2]]
			packPixelPair(back, planeBase+x, w, k, r1, g1, b1, r2, g2, b2)
		}
	}
	return nil
}

// LoadRGB565 decodes a row-major, top-left-origin, little-endian RGB565
// byte buffer (RRRRRGGGGGGBBBBB, R in the high byte's top bits) into the
// back buffer. Per the resolved ambiguity in §9, channel components are
// used directly (not rescaled to 0-255) as the gamma LUT index, since
// normalization is folded into the LUT shape itself. src must be exactly
// Width*Height*2 bytes.
func (e *encoder) LoadRGB565(src []byte) error {
	geo := e.geo
	if len(src) != geo.Width*geo.Height*2 {
		return ErrSizeMismatch
	}
	w, k, rowPairs := geo.Width, int(geo.ColorDepth), geo.rowPairs()
	lut, back := e.lut, e.buf.back()

	for rp := 0; rp < rowPairs; rp++ {
		topOff := rp * w * 2
		botOff := (rp + rowPairs) * w * 2
		planeBase := rp * k * w
		for x := 0; x < w; x++ {
			ti := topOff + x*2
			bi := botOff + x*2
			tr, tg, tb := unpackRGB565(src[ti], src[ti+1])
			brr, bg, bb := unpackRGB565(src[bi], src[bi+1])
			r1, g1, b1 := lut[tr], lut[tg], lut[tb]
			r2, g2, b2 := lut[brr], lut[bg], lut[bb]
			packPixelPair(back, planeBase+x, w, k, r1, g1, b1, r2, g2, b2)
		}
	}
	return nil
}

// unpackRGB565 splits one little-endian RGB565 pixel into its raw 5/6/5-bit
// channel values (not rescaled).
func unpackRGB565(lo, hi byte) (r, g, b byte) {
	v := uint16(lo) | uint16(hi)<<8
	r = byte(v >> 11 & 0x1F)
	g = byte(v >> 5 & 0x3F)
	b = byte(v & 0x1F)
	return
}

// Clear zeroes the back buffer.
func (e *encoder) Clear() {
	back := e.buf.back()
	for i := range back {
		back[i] = 0
	}
}

// packPixelPair writes one byte per bitplane for the pixel-pair whose
// top-row byte lives at back[planeBaseIdx] (bitplane 0, MSB), advancing by w
// bytes per bitplane per §3's indexing rule. r1/g1/b1 are the gamma-scaled
// top-row channels, r2/g2/b2 the bottom-row channels, each already in
// [0, 2^k).
func packPixelPair(back []byte, planeBaseIdx, w, k int, r1, g1, b1, r2, g2, b2 byte) {
	switch k {
	case 8:
		packPixelPair8(back, planeBaseIdx, w, r1, g1, b1, r2, g2, b2)
	case 6:
		packPixelPair6(back, planeBaseIdx, w, r1, g1, b1, r2, g2, b2)
	default:
		packPixelPairGeneric(back, planeBaseIdx, w, k, r1, g1, b1, r2, g2, b2)
	}
}

// packByte builds one bitplane byte for bitplane bit index `shift` (as a
// right-shift amount: callers pass K-1 for bitplane 0, the most significant
// bitplane, and 0 for bitplane K-1).
func packByte(shift uint, r1, g1, b1, r2, g2, b2 byte) byte {
	return (r1>>shift&1)<<bitR1 | (g1>>shift&1)<<bitG1 | (b1>>shift&1)<<bitB1 |
		(r2>>shift&1)<<bitR2 | (g2>>shift&1)<<bitG2 | (b2>>shift&1)<<bitB2
}

// packPixelPair8 is the fully unrolled K=8 fast path.
func packPixelPair8(back []byte, idx, w int, r1, g1, b1, r2, g2, b2 byte) {
	back[idx+0*w] = packByte(7, r1, g1, b1, r2, g2, b2)
	back[idx+1*w] = packByte(6, r1, g1, b1, r2, g2, b2)
	back[idx+2*w] = packByte(5, r1, g1, b1, r2, g2, b2)
	back[idx+3*w] = packByte(4, r1, g1, b1, r2, g2, b2)
	back[idx+4*w] = packByte(3, r1, g1, b1, r2, g2, b2)
	back[idx+5*w] = packByte(2, r1, g1, b1, r2, g2, b2)
	back[idx+6*w] = packByte(1, r1, g1, b1, r2, g2, b2)
	back[idx+7*w] = packByte(0, r1, g1, b1, r2, g2, b2)
}

// packPixelPair6 is the fully unrolled K=6 fast path.
func packPixelPair6(back []byte, idx, w int, r1, g1, b1, r2, g2, b2 byte) {
	back[idx+0*w] = packByte(5, r1, g1, b1, r2, g2, b2)
	back[idx+1*w] = packByte(4, r1, g1, b1, r2, g2, b2)
	back[idx+2*w] = packByte(3, r1, g1, b1, r2, g2, b2)
	back[idx+3*w] = packByte(2, r1, g1, b1, r2, g2, b2)
	back[idx+4*w] = packByte(1, r1, g1, b1, r2, g2, b2)
	back[idx+5*w] = packByte(0, r1, g1, b1, r2, g2, b2)
}

// packPixelPairGeneric handles any other bitplane depth (1-8, excluding the
// 6/8 fast paths above).
func packPixelPairGeneric(back []byte, idx, w, k int, r1, g1, b1, r2, g2, b2 byte) {
	for p := 0; p < k; p++ {
		back[idx+p*w] = packByte(uint(k-1-p), r1, g1, b1, r2, g2, b2)
	}
}
